package webscraper

import (
	"fmt"
	"math"
	"strings"
)

// CleanText collapses all runs of whitespace in s to single spaces and trims
// the result.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CountWords returns the number of whitespace-separated tokens in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// ReadingTime estimates reading time in minutes for the given word count at
// the given words-per-minute pace, rounded to one decimal place.
func ReadingTime(wordCount, wpm int) float64 {
	if wordCount <= 0 || wpm <= 0 {
		return 0
	}
	return math.Round(float64(wordCount)/float64(wpm)*10) / 10
}

// FormatSize converts a byte count into a human-readable string.
func FormatSize(sizeBytes int) string {
	switch {
	case sizeBytes < 1024:
		return fmt.Sprintf("%d bytes", sizeBytes)
	case sizeBytes < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(sizeBytes)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(sizeBytes)/(1024*1024))
	}
}
