package engine

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/sembox/mailseek/classify"
	"github.com/sembox/mailseek/core"
)

// Markers injected into document text before embedding. They concentrate
// the embedding space around requirement language so recruiting mails and
// profiles separate cleanly.
const (
	markerTech        = "【技術】"
	markerProject     = "【プロジェクト】"
	markerRequirement = "【要求】"
	markerExperience  = "【経験】"
)

// maxContentRunes caps the normalized body contribution per document.
const maxContentRunes = 1500

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	experienceMention = regexp.MustCompile(`(\d+年[間以上]*)`)
	sentenceSplitter  = regexp.MustCompile(`[。．\n]`)
)

// normalizer prepares document and query text for embedding.
type normalizer struct {
	tables *classify.Tables
}

func newNormalizer(tables *classify.Tables) *normalizer {
	return &normalizer{tables: tables}
}

// CleanHTML strips tags and collapses whitespace.
func CleanHTML(html string) string {
	text := htmlTagPattern.ReplaceAllString(html, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// FullBodyText returns the document's plain-text body, falling back to the
// stripped HTML body when the text part is empty.
func FullBodyText(doc *core.Document) string {
	if strings.TrimSpace(doc.BodyText) != "" {
		return doc.BodyText
	}
	if doc.BodyHTML != "" {
		return CleanHTML(doc.BodyHTML)
	}
	return ""
}

// PrepareDocumentText builds the canonical embedding text for a document:
// annotated body content under a rune budget, prefixed with labeled subject
// and sender lines.
func (n *normalizer) PrepareDocumentText(doc *core.Document) string {
	body := doc.BodyText
	if body == "" && doc.BodyHTML != "" {
		body = CleanHTML(doc.BodyHTML)
	}

	content := n.annotate(body)

	if runes := []rune(content); len(runes) > maxContentRunes {
		if important := n.importantSections(content); important != "" {
			content = truncateRunes(important, maxContentRunes) + "..."
		} else {
			content = string(runes[:maxContentRunes]) + "..."
		}
	}

	return fmt.Sprintf("主题: %s\n发件人: %s\n项目内容: %s", doc.Subject, doc.Sender, content)
}

// annotate marks skill variants, project vocabulary, requirement vocabulary,
// and experience mentions with their tag markers.
func (n *normalizer) annotate(text string) string {
	if text == "" {
		return ""
	}

	annotated := text

	// Deterministic order regardless of map iteration.
	variants := make([]string, 0, len(n.tables.SkillKeywords)*4)
	for _, vs := range n.tables.SkillKeywords {
		variants = append(variants, vs...)
	}
	sort.Strings(variants)

	for _, tech := range variants {
		if strings.Contains(text, tech) {
			annotated = strings.ReplaceAll(annotated, tech, markerTech+tech)
		}
	}

	for _, keyword := range n.tables.AnnotationProjectTerms {
		if strings.Contains(text, keyword) {
			annotated = strings.ReplaceAll(annotated, keyword, markerProject+keyword)
		}
	}

	for _, keyword := range n.tables.AnnotationRequirementTerms {
		if strings.Contains(text, keyword) {
			annotated = strings.ReplaceAll(annotated, keyword, markerRequirement+keyword)
		}
	}

	annotated = experienceMention.ReplaceAllString(annotated, markerExperience+"${1}")

	return annotated
}

// importantSections scores sentences by annotation density and keeps the
// strongest ones: tech marker +3, project/requirement/experience markers +2
// each, reasonable length +1. Sentences scoring below 2 are dropped and the
// top 10 are rejoined. Returns "" when nothing qualifies.
func (n *normalizer) importantSections(text string) string {
	type scored struct {
		sentence string
		score    int
	}

	var kept []scored
	for _, sentence := range sentenceSplitter.Split(text, -1) {
		score := 0
		if strings.Contains(sentence, markerTech) {
			score += 3
		}
		if strings.Contains(sentence, markerProject) {
			score += 2
		}
		if strings.Contains(sentence, markerRequirement) {
			score += 2
		}
		if strings.Contains(sentence, markerExperience) {
			score += 2
		}
		if l := len([]rune(sentence)); l >= 10 && l <= 100 {
			score++
		}
		if score >= 2 {
			kept = append(kept, scored{sentence, score})
		}
	}

	sort.SliceStable(kept, func(a, b int) bool { return kept[a].score > kept[b].score })

	if len(kept) > 10 {
		kept = kept[:10]
	}
	sentences := make([]string, len(kept))
	for i, s := range kept {
		sentences[i] = s.sentence
	}
	return strings.Join(sentences, "。")
}

// NormalizeQueryText folds common fullwidth punctuation to ASCII and
// collapses whitespace. Applied to queries before embedding so fullwidth
// and halfwidth spellings land on the same vector.
func NormalizeQueryText(text string) string {
	replacer := strings.NewReplacer(
		"（", "(",
		"）", ")",
		"，", ",",
		"。", ".",
	)
	text = replacer.Replace(text)
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
