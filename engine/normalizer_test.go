package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sembox/mailseek/classify"
	"github.com/sembox/mailseek/core"
)

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "tags stripped",
			html: "<p>Hello <b>World</b></p>",
			want: "Hello World",
		},
		{
			name: "whitespace collapsed",
			html: "<div>line one</div>\n\n<div>line   two</div>",
			want: "line one line two",
		},
		{
			name: "plain text unchanged",
			html: "no markup here",
			want: "no markup here",
		},
		{
			name: "empty",
			html: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanHTML(tt.html))
		})
	}
}

func TestFullBodyText(t *testing.T) {
	t.Run("text body wins", func(t *testing.T) {
		doc := &core.Document{BodyText: "plain", BodyHTML: "<p>html</p>"}
		assert.Equal(t, "plain", FullBodyText(doc))
	})

	t.Run("html fallback", func(t *testing.T) {
		doc := &core.Document{BodyHTML: "<p>html body</p>"}
		assert.Equal(t, "html body", FullBodyText(doc))
	})

	t.Run("no body at all", func(t *testing.T) {
		assert.Equal(t, "", FullBodyText(&core.Document{Subject: "only subject"}))
	})
}

func TestPrepareDocumentTextFormat(t *testing.T) {
	norm := newNormalizer(classify.DefaultTables())

	doc := &core.Document{
		Uid:      "u1",
		Subject:  "挨拶",
		Sender:   "someone@example.com",
		BodyText: "ただのあいさつです",
	}

	text := norm.PrepareDocumentText(doc)
	assert.Equal(t, "主题: 挨拶\n发件人: someone@example.com\n项目内容: ただのあいさつです", text)
}

func TestPrepareDocumentTextAnnotations(t *testing.T) {
	norm := newNormalizer(classify.DefaultTables())

	doc := &core.Document{
		Uid:      "u1",
		Subject:  "開発のお知らせ",
		Sender:   "pm@example.com",
		BodyText: "Javaの案件です。3年以上の経験が必要です。",
	}

	text := norm.PrepareDocumentText(doc)
	assert.Contains(t, text, markerTech+"Java")
	assert.Contains(t, text, markerProject+"案件")
	assert.Contains(t, text, markerExperience+"3年以上")
	// Subject and sender lines stay unannotated.
	assert.Contains(t, text, "主题: 開発のお知らせ")
}

func TestPrepareDocumentTextBudgetFallsBackToHead(t *testing.T) {
	norm := newNormalizer(classify.DefaultTables())

	doc := &core.Document{
		Uid:      "u1",
		Subject:  "長文",
		Sender:   "a@example.com",
		BodyText: strings.Repeat("あ", 2000),
	}

	text := norm.PrepareDocumentText(doc)
	assert.True(t, strings.HasSuffix(text, "..."))
	assert.Less(t, len([]rune(text)), 1600)
}

func TestPrepareDocumentTextBudgetKeepsImportantSections(t *testing.T) {
	norm := newNormalizer(classify.DefaultTables())

	filler := strings.Repeat("これはただの埋め草でございます。", 150)
	doc := &core.Document{
		Uid:      "u1",
		Subject:  "長文",
		Sender:   "a@example.com",
		BodyText: filler + "Javaの開発経験が3年以上必要です。",
	}

	text := norm.PrepareDocumentText(doc)
	assert.Contains(t, text, markerTech+"Java")
	assert.NotContains(t, text, "埋め草")
}

func TestNormalizeQueryText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "fullwidth punctuation folded",
			input: "Python，3年。（経験あり）",
			want:  "Python,3年.(経験あり)",
		},
		{
			name:  "whitespace collapsed and trimmed",
			input: "  Java   開発  ",
			want:  "Java 開発",
		},
		{
			name:  "already clean",
			input: "plain query",
			want:  "plain query",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeQueryText(tt.input))
		})
	}
}
