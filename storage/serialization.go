package storage

import (
	"encoding/binary"

	"github.com/sembox/mailseek/core"
)

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	buf := make([]byte, core.DocumentMUS.Size(*doc))
	core.DocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	doc, _, err := core.DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// MarshalHash serializes a content hash to bytes.
func MarshalHash(hash uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, hash)
	return buf
}

// UnmarshalHash deserializes a content hash from bytes.
func UnmarshalHash(data []byte) (uint64, error) {
	if len(data) != 8 {
		return 0, ErrCorruptRecord
	}
	return binary.LittleEndian.Uint64(data), nil
}
