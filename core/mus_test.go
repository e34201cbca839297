package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentMUSRoundTrip(t *testing.T) {
	date := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		doc  Document
	}{
		{
			name: "full document",
			doc: Document{
				Uid:         "4711",
				Subject:     "【急募】Python開発者募集",
				Sender:      "recruit@example.co.jp",
				Recipient:   "me@example.co.jp",
				Date:        date,
				BodyText:    "Python開発経験3年以上の方を募集します。",
				BodyHTML:    "<p>Python開発経験3年以上</p>",
				Folder:      "INBOX",
				Attachments: []string{"詳細.pdf", "条件.xlsx"},
				MessageId:   "<abc@example>",
			},
		},
		{
			name: "minimal document",
			doc:  Document{Uid: "1", Subject: "hello", Date: date},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bs := make([]byte, DocumentMUS.Size(tt.doc))
			n := DocumentMUS.Marshal(tt.doc, bs)
			require.Equal(t, len(bs), n)

			decoded, n, err := DocumentMUS.Unmarshal(bs)
			require.NoError(t, err)
			assert.Equal(t, len(bs), n)
			assert.Equal(t, tt.doc.Uid, decoded.Uid)
			assert.Equal(t, tt.doc.Subject, decoded.Subject)
			assert.Equal(t, tt.doc.Sender, decoded.Sender)
			assert.Equal(t, tt.doc.Recipient, decoded.Recipient)
			assert.True(t, tt.doc.Date.Equal(decoded.Date))
			assert.Equal(t, tt.doc.BodyText, decoded.BodyText)
			assert.Equal(t, tt.doc.BodyHTML, decoded.BodyHTML)
			assert.Equal(t, tt.doc.Folder, decoded.Folder)
			assert.ElementsMatch(t, tt.doc.Attachments, decoded.Attachments)
			assert.Equal(t, tt.doc.MessageId, decoded.MessageId)
		})
	}
}

func TestDocumentMUSUnmarshalInvalid(t *testing.T) {
	_, _, err := DocumentMUS.Unmarshal([]byte{})
	assert.Error(t, err)
}
