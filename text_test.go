package webscraper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/emqnuele/webscraper"
)

func TestCleanText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "one two three", webscraper.CleanText("  one \n\t two   three  "))
	assert.Equal(t, "", webscraper.CleanText(" \n\t "))
	assert.Equal(t, "word", webscraper.CleanText("word"))
}

func TestCountWords(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, webscraper.CountWords(""))
	assert.Equal(t, 0, webscraper.CountWords("   "))
	assert.Equal(t, 3, webscraper.CountWords("one two three"))
	assert.Equal(t, 3, webscraper.CountWords("  one \n two\tthree "))
}

func TestReadingTime(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2.0, webscraper.ReadingTime(400, 200))
	assert.Equal(t, 0.5, webscraper.ReadingTime(100, 200))
	assert.Equal(t, 0.1, webscraper.ReadingTime(25, 200))
	assert.Equal(t, 0.0, webscraper.ReadingTime(0, 200))
	assert.Equal(t, 0.0, webscraper.ReadingTime(100, 0))
}

func TestFormatSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "512 bytes", webscraper.FormatSize(512))
	assert.Equal(t, "2.0 KB", webscraper.FormatSize(2048))
	assert.Equal(t, "1.5 KB", webscraper.FormatSize(1536))
	assert.Equal(t, "3.0 MB", webscraper.FormatSize(3*1024*1024))
}
