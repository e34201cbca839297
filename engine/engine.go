// Copyright 2025 Sembox Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package engine

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/sembox/mailseek/ai"
	"github.com/sembox/mailseek/classify"
	"github.com/sembox/mailseek/core"
)

// probeText is embedded once before a build to verify the backend works.
const probeText = "测试文本"

// embedBatchSize is the number of documents embedded per worker task.
const embedBatchSize = 32

// Engine is the semantic search engine over an email corpus. It holds the
// document metadata, the vector index, and the query classifier, and falls
// back to lexical search when the embedding backend is unavailable.
type Engine struct {
	provider   ai.Provider
	embedder   ai.Embedder
	classifier *classify.Classifier
	tables     *classify.Tables
	norm       *normalizer

	mu       sync.RWMutex
	docs     []core.Document
	index    *vectorIndex
	degraded bool

	pool        *ants.Pool
	modelName   string
	defaultTopK int
	maxAttempts int
	baseDelay   time.Duration
	progressOut io.Writer
	logger      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithTables sets custom classification tables shared by the classifier,
// the normalizer, and the direction filter.
func WithTables(tables *classify.Tables) Option {
	return func(e *Engine) error {
		if tables == nil {
			tables = classify.DefaultTables()
		}
		e.tables = tables
		e.classifier = classify.NewClassifier(tables)
		e.norm = newNormalizer(tables)
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(e *Engine) error {
		if size < 1 {
			size = 1
		}

		if e.pool != nil {
			e.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		e.pool = pool
		return nil
	}
}

// WithDefaultTopK sets the result count used when callers pass topK <= 0.
// Default is 20.
func WithDefaultTopK(topK int) Option {
	return func(e *Engine) error {
		if topK > 0 {
			e.defaultTopK = topK
		}
		return nil
	}
}

// WithModelName records the embedding model identity stored in snapshots.
func WithModelName(name string) Option {
	return func(e *Engine) error {
		e.modelName = name
		return nil
	}
}

// WithRetryPolicy sets the retry behavior for the backend probe.
func WithRetryPolicy(maxAttempts int, baseDelay time.Duration) Option {
	return func(e *Engine) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		e.maxAttempts = maxAttempts
		e.baseDelay = baseDelay
		return nil
	}
}

// WithProgressWriter enables progress reporting during builds.
func WithProgressWriter(w io.Writer) Option {
	return func(e *Engine) error {
		e.progressOut = w
		return nil
	}
}

// NewEngine creates a search engine using the given embedding provider.
func NewEngine(provider ai.Provider, opts ...Option) (*Engine, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	tables := classify.DefaultTables()
	e := &Engine{
		provider:    provider,
		embedder:    provider.Embedder(),
		classifier:  classify.NewClassifier(tables),
		tables:      tables,
		norm:        newNormalizer(tables),
		pool:        pool,
		modelName:   "paraphrase-multilingual-MiniLM-L12-v2",
		defaultTopK: 20,
		maxAttempts: 3,
		baseDelay:   500 * time.Millisecond,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(e); optErr != nil {
			e.Release()
			return nil, optErr
		}
	}

	return e, nil
}

// Release frees the worker pool. The engine must not be used afterwards.
func (e *Engine) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}

// Degraded reports whether the engine is running without a vector index,
// serving lexical results only.
func (e *Engine) Degraded() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.degraded || e.index == nil
}

// DocumentCount returns the number of indexed documents.
func (e *Engine) DocumentCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.docs)
}

// Classifier returns the query classifier the engine uses.
func (e *Engine) Classifier() *classify.Classifier {
	return e.classifier
}

// Build indexes the corpus. Malformed documents are skipped with a warning.
// Document metadata is always retained so lexical search works even when the
// embedding backend is down; in that case the engine enters degraded mode
// and Build still succeeds. An empty corpus is a valid no-op build.
func (e *Engine) Build(ctx context.Context, docs []core.Document) error {
	docs = e.validDocuments(docs)

	e.logger.Info("building index", "documents", len(docs))

	if len(docs) == 0 {
		e.mu.Lock()
		e.docs = nil
		e.index = nil
		e.degraded = false
		e.mu.Unlock()
		return nil
	}

	texts := make([]string, len(docs))
	for i := range docs {
		texts[i] = e.norm.PrepareDocumentText(&docs[i])
	}

	// Metadata first: lexical search must work regardless of what happens
	// with the embedding backend.
	e.mu.Lock()
	e.docs = append([]core.Document(nil), docs...)
	e.index = nil
	e.degraded = false
	e.mu.Unlock()

	if err := e.probe(ctx); err != nil {
		e.logger.Warn("embedding backend unavailable, running in lexical-only mode", "err", err)
		e.mu.Lock()
		e.degraded = true
		e.mu.Unlock()
		return nil
	}

	vectors, err := e.embedAll(ctx, texts)
	if err != nil {
		e.logger.Error("embedding failed, running in lexical-only mode", "err", err)
		e.mu.Lock()
		e.degraded = true
		e.mu.Unlock()
		return nil
	}

	index := newVectorIndex(len(vectors[0]))
	for _, v := range vectors {
		if addErr := index.add(NormalizeVector(v)); addErr != nil {
			return addErr
		}
	}

	e.mu.Lock()
	e.index = index
	e.degraded = false
	e.mu.Unlock()

	e.logger.Info("index built", "vectors", index.len(), "dimension", index.dimension)
	return nil
}

// validDocuments drops documents that fail validation, warning per skip.
func (e *Engine) validDocuments(docs []core.Document) []core.Document {
	kept := make([]core.Document, 0, len(docs))
	for i := range docs {
		if err := core.ValidateDocument(&docs[i]); err != nil {
			e.logger.Warn("skipping invalid document", "uid", docs[i].Uid, "err", err)
			continue
		}
		kept = append(kept, docs[i])
	}
	return kept
}

// probe verifies the embedding backend responds before a full build.
func (e *Engine) probe(ctx context.Context) error {
	return RetryWithBackoff(ctx, func() error {
		_, err := e.embedder.EmbedText(ctx, probeText)
		return err
	}, e.maxAttempts, e.baseDelay)
}

// embedAll embeds texts in fixed-size batches across the worker pool.
// Results are written by position, so corpus order is preserved no matter
// which batch finishes first.
func (e *Engine) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	var tracker *ProgressTracker
	if e.progressOut != nil {
		tracker = NewProgressTracker(e.progressOut, len(texts), embedBatchSize)
		tracker.Start()
	}

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		wg.Add(1)
		task := func() {
			defer wg.Done()

			batch, err := e.embedder.EmbedTexts(ctx, texts[start:end])
			if err != nil {
				errOnce.Do(func() { firstErr = err })
				return
			}
			if len(batch) != end-start {
				errOnce.Do(func() { firstErr = ErrDimensionMismatch })
				return
			}
			copy(vectors[start:end], batch)

			if tracker != nil {
				tracker.Increment(end - start)
			}
		}

		if err := e.pool.Submit(task); err != nil {
			wg.Done()
			errOnce.Do(func() { firstErr = err })
			break
		}
	}

	wg.Wait()

	if tracker != nil {
		tracker.Finish()
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return vectors, nil
}

// Search runs a single semantic search with the enhanced query. When the
// engine is degraded it serves the same raw query through lexical search,
// so callers see identical behavior to KeywordSearch.
func (e *Engine) Search(ctx context.Context, query string, topK int, filters *Filters) ([]core.SearchResult, error) {
	if err := core.ValidateQuery(query); err != nil {
		return nil, err
	}

	e.mu.RLock()
	degraded := e.degraded || e.index == nil
	e.mu.RUnlock()

	if degraded {
		e.logger.Debug("semantic search unavailable, using lexical fallback", "query", truncateRunes(query, 50))
		return e.KeywordSearch(query, topK)
	}

	if topK <= 0 {
		topK = e.defaultTopK
	}

	cl := e.classifier.Classify(query)
	e.logger.Debug("query classified",
		"queryType", cl.QueryType,
		"skills", cl.Skills,
		"direction", cl.Direction)

	results, err := e.searchVector(ctx, cl.EnhancedQuery, query, topK, filters)
	if err != nil {
		e.logger.Warn("semantic search failed, using lexical fallback", "err", err)
		e.mu.RLock()
		defer e.mu.RUnlock()
		return e.lexicalSearch(query, topK), nil
	}
	return results, nil
}

// searchVector embeds searchText and ranks the corpus against it. Previews
// are generated from rawQuery so snippets reflect what the user typed, not
// the expansion vocabulary.
func (e *Engine) searchVector(ctx context.Context, searchText, rawQuery string, topK int, filters *Filters) ([]core.SearchResult, error) {
	embedding, err := e.embedder.EmbedText(ctx, NormalizeQueryText(searchText))
	if err != nil {
		e.logger.Error("query embedding failed", "err", err)
		return nil, err
	}
	NormalizeVector(embedding)

	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.index == nil {
		return nil, ErrNotBuilt
	}

	hits, err := e.index.search(embedding, topK)
	if err != nil {
		return nil, err
	}

	results := make([]core.SearchResult, 0, len(hits))
	for _, hit := range hits {
		doc := &e.docs[hit.position]
		if !matchesFilters(doc, filters) {
			continue
		}
		results = append(results, e.buildResult(doc, hit.score, rawQuery))
	}

	sort.SliceStable(results, func(a, b int) bool { return results[a].Score > results[b].Score })
	return results, nil
}

// KeywordSearch runs the lexical fallback directly, regardless of whether a
// vector index exists.
func (e *Engine) KeywordSearch(query string, topK int) ([]core.SearchResult, error) {
	if err := core.ValidateQuery(query); err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lexicalSearch(query, topK), nil
}

// buildResult assembles a SearchResult from document metadata. Must be
// called with at least a read lock held.
func (e *Engine) buildResult(doc *core.Document, score float32, query string) core.SearchResult {
	return core.SearchResult{
		DocumentId:  doc.Uid,
		Score:       score,
		Subject:     doc.Subject,
		Sender:      doc.Sender,
		Date:        doc.Date,
		Preview:     generatePreview(doc, query),
		Folder:      doc.Folder,
		Attachments: doc.Attachments,
		BodyText:    FullBodyText(doc),
	}
}
