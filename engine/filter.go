package engine

import (
	"strings"
	"time"

	"github.com/sembox/mailseek/classify"
	"github.com/sembox/mailseek/core"
)

// Filters restricts search results by document metadata. Zero values mean
// "no restriction" for every field.
type Filters struct {
	// Sender keeps documents whose sender contains this substring
	// (case-insensitive).
	Sender string

	// Subject keeps documents whose subject contains this substring
	// (case-insensitive).
	Subject string

	// StartDate and EndDate bound the document date, inclusive.
	StartDate time.Time
	EndDate   time.Time

	// HasAttachment keeps only documents with at least one attachment.
	HasAttachment bool

	// Folder keeps only documents from this exact folder.
	Folder string
}

func matchesFilters(doc *core.Document, filters *Filters) bool {
	if filters == nil {
		return true
	}

	if filters.Sender != "" &&
		!strings.Contains(strings.ToLower(doc.Sender), strings.ToLower(filters.Sender)) {
		return false
	}
	if filters.Subject != "" &&
		!strings.Contains(strings.ToLower(doc.Subject), strings.ToLower(filters.Subject)) {
		return false
	}
	if !filters.StartDate.IsZero() && doc.Date.Before(filters.StartDate) {
		return false
	}
	if !filters.EndDate.IsZero() && doc.Date.After(filters.EndDate) {
		return false
	}
	if filters.HasAttachment && len(doc.Attachments) == 0 {
		return false
	}
	if filters.Folder != "" && doc.Folder != filters.Folder {
		return false
	}
	return true
}

// filterByDirection removes results that read like the wrong side of the
// match. Subject exclusions are authoritative; content-level exclusion
// weighs person keywords against project keywords. General searches skip
// filtering entirely.
func (e *Engine) filterByDirection(results []core.SearchResult, cl *classify.Classification) []core.SearchResult {
	if cl.QueryType == classify.QueryTypeGeneral {
		return results
	}

	filtered := make([]core.SearchResult, 0, len(results))
	for i := range results {
		result := &results[i]

		subject := strings.ToLower(result.Subject)
		if containsAnyFold(subject, e.tables.SubjectPersonExclusions) {
			e.logger.Debug("excluded by subject person keyword", "subject", truncateRunes(result.Subject, 50))
			continue
		}
		if containsAnyFold(subject, e.tables.SubjectProjectExclusions) {
			e.logger.Debug("excluded by subject project keyword", "subject", truncateRunes(result.Subject, 50))
			continue
		}

		content := strings.ToLower(result.Subject + " " + result.Preview)

		hasGeneralIndicator := containsAnyFold(content, e.tables.GeneralPersonIndicators)
		personCount := countContainedFold(content, e.tables.PersonContentKeywords)
		projectCount := countContainedFold(content, e.tables.ProjectContentKeywords)

		exclude := false
		switch {
		case hasGeneralIndicator && personCount > projectCount+2:
			exclude = true
		case personCount > 0 && projectCount == 0 && personCount >= 3:
			exclude = true
		case personCount > 0 && projectCount > 0 && personCount >= projectCount*3:
			exclude = true
		}

		if exclude {
			e.logger.Debug("excluded as person-dominated content",
				"subject", truncateRunes(result.Subject, 50),
				"personCount", personCount,
				"projectCount", projectCount)
			continue
		}

		filtered = append(filtered, *result)
	}

	e.logger.Debug("direction filter applied", "before", len(results), "after", len(filtered))
	return filtered
}

func countContainedFold(content string, terms []string) int {
	count := 0
	for _, term := range terms {
		if strings.Contains(content, strings.ToLower(term)) {
			count++
		}
	}
	return count
}
