package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Document represents a single archived mail message. Documents are owned by
// the external document store and are read-only to the search engine.
type Document struct {
	Uid         string
	Subject     string
	Sender      string
	Recipient   string
	Date        time.Time
	BodyText    string
	BodyHTML    string
	Folder      string
	Attachments []string
	MessageId   string
}

// DocumentHash generates a deterministic content hash for a document using
// BLAKE2b over (uid, subject, sender, date, body). Identical documents
// produce identical hashes; the document store uses this for de-duplication,
// so every field that can change on re-import must be covered.
func DocumentHash(doc *Document) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(doc.Uid))
	h.Write([]byte{0})
	h.Write([]byte(doc.Subject))
	h.Write([]byte{0})
	h.Write([]byte(doc.Sender))
	h.Write([]byte{0})
	h.Write([]byte(doc.Date.UTC().Format(time.RFC3339)))
	h.Write([]byte{0})
	h.Write([]byte(doc.BodyText))
	h.Write([]byte{0})
	h.Write([]byte(doc.BodyHTML))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// SearchResult represents a ranked hit returned by every search entry point.
// Scores are ranking-only: bidirectional bonuses are additive, so the final
// value is not bounded to a fixed range and must never be read as a
// calibrated probability.
type SearchResult struct {
	DocumentId  string
	Score       float32
	Subject     string
	Sender      string
	Date        time.Time
	Preview     string
	Folder      string
	Attachments []string
	BodyText    string
}
