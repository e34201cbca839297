package engine

import (
	"context"

	"github.com/sembox/mailseek/core"
)

// Cursor marks how far an incremental build has progressed.
type Cursor struct {
	Processed int
	Total     int
}

// Done reports whether the build has processed the whole corpus.
func (c Cursor) Done() bool {
	return c.Processed >= c.Total
}

// IndexBuilder builds a vector index over a corpus in resumable batches.
// Unlike Engine.Build, which embeds everything in one call, the builder
// hands control back after every batch so long imports can checkpoint and
// survive restarts. Documents are appended in corpus order, so positions
// match the one-shot build exactly.
type IndexBuilder struct {
	engine    *Engine
	docs      []core.Document
	texts     []string
	vectors   [][]float32
	processed int
	batchSize int
}

// BuilderOption configures an IndexBuilder.
type BuilderOption func(*IndexBuilder)

// WithBatchSize sets the number of documents embedded per Step.
// Default is the engine's embedding batch size.
func WithBatchSize(size int) BuilderOption {
	return func(b *IndexBuilder) {
		if size > 0 {
			b.batchSize = size
		}
	}
}

// NewIndexBuilder prepares an incremental build over docs. Malformed
// documents are skipped with a warning, same as Build.
func (e *Engine) NewIndexBuilder(docs []core.Document, opts ...BuilderOption) (*IndexBuilder, error) {
	docs = e.validDocuments(docs)

	texts := make([]string, len(docs))
	for i := range docs {
		texts[i] = e.norm.PrepareDocumentText(&docs[i])
	}

	b := &IndexBuilder{
		engine:    e,
		docs:      append([]core.Document(nil), docs...),
		texts:     texts,
		vectors:   make([][]float32, 0, len(docs)),
		batchSize: embedBatchSize,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Cursor returns the builder's current progress.
func (b *IndexBuilder) Cursor() Cursor {
	return Cursor{Processed: b.processed, Total: len(b.docs)}
}

// Resume fast-forwards the builder to a previously checkpointed cursor.
// Vectors for the skipped range must be supplied from the checkpoint.
func (b *IndexBuilder) Resume(cursor Cursor, vectors [][]float32) error {
	if cursor.Total != len(b.docs) || cursor.Processed != len(vectors) || cursor.Processed > cursor.Total {
		return ErrDimensionMismatch
	}
	b.processed = cursor.Processed
	b.vectors = append(b.vectors[:0], vectors...)
	return nil
}

// Vectors returns the normalized vectors embedded so far, for checkpointing.
func (b *IndexBuilder) Vectors() [][]float32 {
	return b.vectors
}

// Step embeds the next batch and returns the updated cursor.
// Returns ErrBuildExhausted once the corpus is fully processed.
func (b *IndexBuilder) Step(ctx context.Context) (Cursor, error) {
	if b.processed >= len(b.docs) {
		return b.Cursor(), ErrBuildExhausted
	}

	end := b.processed + b.batchSize
	if end > len(b.docs) {
		end = len(b.docs)
	}

	batch, err := b.engine.embedder.EmbedTexts(ctx, b.texts[b.processed:end])
	if err != nil {
		return b.Cursor(), err
	}
	if len(batch) != end-b.processed {
		return b.Cursor(), ErrDimensionMismatch
	}

	for _, v := range batch {
		b.vectors = append(b.vectors, NormalizeVector(v))
	}
	b.processed = end

	return b.Cursor(), nil
}

// Run drives Step to completion and installs the finished index into the
// engine.
func (b *IndexBuilder) Run(ctx context.Context) error {
	for !b.Cursor().Done() {
		if _, err := b.Step(ctx); err != nil {
			return err
		}
	}
	return b.Commit()
}

// Commit installs the built index into the engine. The build must be
// complete.
func (b *IndexBuilder) Commit() error {
	if !b.Cursor().Done() {
		return ErrNotBuilt
	}

	var index *vectorIndex
	if len(b.vectors) > 0 {
		index = newVectorIndex(len(b.vectors[0]))
		for _, v := range b.vectors {
			if err := index.add(v); err != nil {
				return err
			}
		}
	}

	e := b.engine
	e.mu.Lock()
	e.docs = append([]core.Document(nil), b.docs...)
	e.index = index
	e.degraded = false
	e.mu.Unlock()

	e.logger.Info("incremental build committed", "documents", len(b.docs))
	return nil
}
