package engine

import (
	"regexp"
	"strings"

	"github.com/sembox/mailseek/core"
)

// maxPreviewRunes caps preview snippet length.
const maxPreviewRunes = 200

var previewSentenceSplitter = regexp.MustCompile(`[.!?。！？]`)

// generatePreview picks the body sentence with the highest token overlap
// against the query. Falls back to the document head when nothing overlaps,
// and to the subject when the body is empty.
func generatePreview(doc *core.Document, query string) string {
	body := doc.BodyText
	if body == "" {
		if doc.Subject != "" {
			return doc.Subject
		}
		return ""
	}

	queryWords := strings.Fields(strings.ToLower(query))

	bestSnippet := ""
	bestScore := 0
	for _, sentence := range previewSentenceSplitter.Split(body, -1) {
		sentence = strings.TrimSpace(sentence)
		if len([]rune(sentence)) < 10 {
			continue
		}

		sentenceLower := strings.ToLower(sentence)
		score := 0
		for _, word := range queryWords {
			if strings.Contains(sentenceLower, word) {
				score++
			}
		}

		if score > bestScore {
			bestScore = score
			bestSnippet = sentence
		}
	}

	if bestSnippet == "" {
		bestSnippet = truncateRunes(body, maxPreviewRunes)
	}

	if len([]rune(bestSnippet)) > maxPreviewRunes {
		bestSnippet = truncateRunes(bestSnippet, maxPreviewRunes) + "..."
	}

	return bestSnippet
}
