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


// Package mailseek assembles the document store, the embedding provider,
// and the search engine into a single mail archive handle.
package mailseek

import (
	"context"
	"log/slog"

	"github.com/sembox/mailseek/ai"
	"github.com/sembox/mailseek/ai/openai"
	"github.com/sembox/mailseek/classify"
	"github.com/sembox/mailseek/core"
	"github.com/sembox/mailseek/engine"
	"github.com/sembox/mailseek/storage"
	"github.com/sembox/mailseek/storage/badger"
)

// Archive owns the document repository and the search engine over it.
type Archive struct {
	backend  *badger.Backend
	docRepo  storage.DocumentRepository
	provider ai.Provider
	engine   *engine.Engine
	logger   *slog.Logger
}

// ArchiveOption configures an Archive.
type ArchiveOption func(*archiveOptions)

type archiveOptions struct {
	aiConfig   *ai.Config
	tables     *classify.Tables
	engineOpts []engine.Option
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(cfg *ai.Config) ArchiveOption {
	return func(o *archiveOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithTables sets custom classification tables.
func WithTables(tables *classify.Tables) ArchiveOption {
	return func(o *archiveOptions) {
		o.tables = tables
	}
}

// WithEngineOptions forwards additional options to the search engine.
func WithEngineOptions(opts ...engine.Option) ArchiveOption {
	return func(o *archiveOptions) {
		o.engineOpts = append(o.engineOpts, opts...)
	}
}

// NewArchive opens the document store at filePath and wires up the search
// engine.
func NewArchive(filePath string, opts ...ArchiveOption) (*Archive, error) {
	options := &archiveOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	docRepo := badger.NewDocumentRepository(backend)

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		backend.Close()
		return nil, err
	}

	engineOpts := append([]engine.Option{
		engine.WithModelName(options.aiConfig.EmbeddingModel),
		engine.WithTables(options.tables),
	}, options.engineOpts...)

	eng, err := engine.NewEngine(provider, engineOpts...)
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	return &Archive{
		backend:  backend,
		docRepo:  docRepo,
		provider: provider,
		engine:   eng,
		logger:   slog.Default(),
	}, nil
}

// DocumentRepository returns the document store.
func (a *Archive) DocumentRepository() storage.DocumentRepository {
	return a.docRepo
}

// Engine returns the search engine.
func (a *Archive) Engine() *engine.Engine {
	return a.engine
}

// BuildFromStore indexes every document currently in the store.
func (a *Archive) BuildFromStore(ctx context.Context) error {
	stored, err := a.docRepo.All(ctx)
	if err != nil {
		return err
	}

	docs := make([]core.Document, len(stored))
	for i, doc := range stored {
		docs[i] = *doc
	}
	return a.engine.Build(ctx, docs)
}

// Close releases the engine, the embedding provider, and the store.
func (a *Archive) Close() error {
	a.engine.Release()

	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing embedding provider", "err", err)
	}
	if err := a.docRepo.Close(); err != nil {
		a.logger.Error("error closing document repository", "err", err)
		return err
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
