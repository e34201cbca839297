package storage

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"

	"github.com/sembox/mailseek/core"
)

// Snapshot file layout: magic, format version, blake2b checksum of the
// payload, then the MUS-encoded payload. The checksum catches truncated or
// bit-rotted files before any decoding happens.
var snapshotMagic = []byte("MSKS")

const (
	snapshotVersion  = byte(1)
	checksumLength   = 32
	snapshotFileMode = 0o644
)

// SnapshotConfig records how a snapshot was produced.
type SnapshotConfig struct {
	ModelName     string
	DocumentCount int
	CreatedAt     time.Time
}

// Snapshot is a persisted search index: the document corpus and its
// embedding vectors, position-aligned. Vectors may be empty for a corpus
// indexed in lexical-only mode.
type Snapshot struct {
	Config    SnapshotConfig
	Documents []core.Document
	Vectors   [][]float32
}

var (
	vectorMUS    = ord.NewSliceSer[float32](raw.Float32)
	vectorsMUS   = ord.NewSliceSer[[]float32](vectorMUS)
	documentsMUS = ord.NewSliceSer[core.Document](core.DocumentMUS)
)

type snapshotConfigSer struct{}

func (snapshotConfigSer) Marshal(c SnapshotConfig, bs []byte) (n int) {
	n = ord.String.Marshal(c.ModelName, bs)
	n += varint.Int64.Marshal(int64(c.DocumentCount), bs[n:])
	n += varint.Int64.Marshal(c.CreatedAt.UnixMicro(), bs[n:])
	return n
}

func (snapshotConfigSer) Unmarshal(bs []byte) (c SnapshotConfig, n int, err error) {
	var n1 int
	c.ModelName, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return c, n, err
	}

	var count int64
	count, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return c, n, err
	}
	c.DocumentCount = int(count)

	var usec int64
	usec, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return c, n, err
	}
	c.CreatedAt = time.UnixMicro(usec).UTC()
	return c, n, nil
}

func (s snapshotConfigSer) Size(c SnapshotConfig) (size int) {
	size = ord.String.Size(c.ModelName)
	size += varint.Int64.Size(int64(c.DocumentCount))
	size += varint.Int64.Size(c.CreatedAt.UnixMicro())
	return size
}

func (s snapshotConfigSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

type snapshotSer struct{}

// SnapshotMUS serializes Snapshot values in the MUS format.
var SnapshotMUS = snapshotSer{}

func (snapshotSer) Marshal(s Snapshot, bs []byte) (n int) {
	n = snapshotConfigSer{}.Marshal(s.Config, bs)
	n += documentsMUS.Marshal(s.Documents, bs[n:])
	n += vectorsMUS.Marshal(s.Vectors, bs[n:])
	return n
}

func (snapshotSer) Unmarshal(bs []byte) (s Snapshot, n int, err error) {
	var n1 int
	s.Config, n, err = snapshotConfigSer{}.Unmarshal(bs)
	if err != nil {
		return s, n, err
	}

	s.Documents, n1, err = documentsMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return s, n, err
	}

	s.Vectors, n1, err = vectorsMUS.Unmarshal(bs[n:])
	n += n1
	return s, n, err
}

func (snapshotSer) Size(s Snapshot) (size int) {
	size = snapshotConfigSer{}.Size(s.Config)
	size += documentsMUS.Size(s.Documents)
	size += vectorsMUS.Size(s.Vectors)
	return size
}

func (ser snapshotSer) Skip(bs []byte) (n int, err error) {
	_, n, err = ser.Unmarshal(bs)
	return n, err
}

// WriteSnapshot persists a snapshot to path, creating parent directories as
// needed.
func WriteSnapshot(path string, snap *Snapshot) error {
	payload := make([]byte, SnapshotMUS.Size(*snap))
	SnapshotMUS.Marshal(*snap, payload)

	checksum, err := payloadChecksum(payload)
	if err != nil {
		return err
	}

	buf := make([]byte, 0, len(snapshotMagic)+1+checksumLength+len(payload))
	buf = append(buf, snapshotMagic...)
	buf = append(buf, snapshotVersion)
	buf = append(buf, checksum...)
	buf = append(buf, payload...)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf, snapshotFileMode); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot loads and verifies a snapshot from path.
func ReadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	headerLen := len(snapshotMagic) + 1 + checksumLength
	if len(data) < headerLen {
		return nil, ErrBadSnapshot
	}
	if !bytes.Equal(data[:len(snapshotMagic)], snapshotMagic) {
		return nil, ErrBadSnapshot
	}
	if data[len(snapshotMagic)] != snapshotVersion {
		return nil, ErrSnapshotVersion
	}

	stored := data[len(snapshotMagic)+1 : headerLen]
	payload := data[headerLen:]

	checksum, err := payloadChecksum(payload)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(stored, checksum) {
		return nil, ErrChecksumMismatch
	}

	snap, _, err := SnapshotMUS.Unmarshal(payload)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

func payloadChecksum(payload []byte) ([]byte, error) {
	h, err := blake2b.New(checksumLength, nil)
	if err != nil {
		return nil, err
	}
	h.Write(payload)
	return h.Sum(nil), nil
}
