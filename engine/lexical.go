package engine

import (
	"sort"
	"strings"

	"github.com/sembox/mailseek/core"
)

// Lexical field weights: subject hits count double, sender hits one and a
// half, body hits single.
const (
	subjectWeight = 2.0
	senderWeight  = 1.5
	bodyWeight    = 1.0
)

// lexicalSearch scores every document by weighted query-word containment.
// It works purely on metadata, so it stays available when no embedding
// backend could be reached.
func (e *Engine) lexicalSearch(query string, topK int) []core.SearchResult {
	if len(e.docs) == 0 {
		return nil
	}
	if topK <= 0 {
		topK = e.defaultTopK
	}

	queryWords := strings.Fields(strings.ToLower(query))

	var results []core.SearchResult
	for i := range e.docs {
		doc := &e.docs[i]

		var score float32
		subject := strings.ToLower(doc.Subject)
		sender := strings.ToLower(doc.Sender)
		body := strings.ToLower(doc.BodyText)

		for _, word := range queryWords {
			if strings.Contains(subject, word) {
				score += subjectWeight
			}
			if strings.Contains(sender, word) {
				score += senderWeight
			}
			if strings.Contains(body, word) {
				score += bodyWeight
			}
		}

		if score > 0 {
			results = append(results, e.buildResult(doc, score, query))
		}
	}

	sort.SliceStable(results, func(a, b int) bool { return results[a].Score > results[b].Score })

	if len(results) > topK {
		results = results[:topK]
	}
	return results
}
