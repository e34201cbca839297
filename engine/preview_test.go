package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sembox/mailseek/core"
)

func TestGeneratePreview(t *testing.T) {
	t.Run("best overlapping sentence wins", func(t *testing.T) {
		doc := &core.Document{
			Subject:  "件名",
			BodyText: "無関係な文章がここにあります。Pythonの経験が三年あります。別の話題の文章です。",
		}
		preview := generatePreview(doc, "python 経験")
		assert.Equal(t, "Pythonの経験が三年あります", preview)
	})

	t.Run("no overlap falls back to body head", func(t *testing.T) {
		doc := &core.Document{
			Subject:  "件名",
			BodyText: "来週の定例会議は水曜日に開催します。",
		}
		preview := generatePreview(doc, "zzz unmatched")
		assert.Equal(t, doc.BodyText, preview)
	})

	t.Run("empty body falls back to subject", func(t *testing.T) {
		doc := &core.Document{Subject: "件名だけ"}
		assert.Equal(t, "件名だけ", generatePreview(doc, "python"))
	})

	t.Run("long snippet gets truncated", func(t *testing.T) {
		doc := &core.Document{
			BodyText: strings.Repeat("あ", 240) + "python",
		}
		preview := generatePreview(doc, "python")
		assert.True(t, strings.HasSuffix(preview, "..."))
		assert.Len(t, []rune(preview), maxPreviewRunes+3)
	})
}
