package trafilatura_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emqnuele/webscraper"
	"github.com/emqnuele/webscraper/trafilatura"
)

func TestExtractor_Name(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "trafilatura", trafilatura.NewExtractor().Name())
}

func TestExtractor_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	ext := trafilatura.NewExtractor()
	_, err := ext.Extract("")

	require.Error(t, err)
	assert.Equal(t, webscraper.EINVALID, webscraper.ErrorCode(err))
}

func TestExtractor_ExtractsArticleText(t *testing.T) {
	t.Parallel()

	paragraph := strings.Repeat("The storm surge flooded several streets along the northern coast overnight. ", 5)
	html := `<!DOCTYPE html>
<html>
<head><title>Storm Report</title></head>
<body>
<nav><a href="/home">Home</a></nav>
<article>
<h1>Storm Report</h1>
<p>` + paragraph + `</p>
<p>` + paragraph + `</p>
<p>` + paragraph + `</p>
</article>
</body>
</html>`

	ext := trafilatura.NewExtractor()
	result, err := ext.Extract(html)

	require.NoError(t, err)
	assert.Contains(t, result.Text, "storm surge")
	assert.NotEmpty(t, result.ContentHTML)
}
