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


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/sembox/mailseek/ai"
	"github.com/sembox/mailseek/ai/openai"
	"github.com/sembox/mailseek/classify"
	"github.com/sembox/mailseek/core"
	"github.com/sembox/mailseek/engine"
	"github.com/sembox/mailseek/storage/badger"
)

func main() {
	app := &cli.App{
		Name:   "mailseek",
		Usage:  "Semantic email search and person/project matching",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "import",
				Usage:  "Import email documents from a JSON file into the store",
				Action: importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to JSON file with an array of email documents",
						Required: true,
					},
				},
			},
			{
				Name:   "index",
				Usage:  "Build the search index from stored documents and save a snapshot",
				Action: indexCommand,
				Flags: append(embeddingFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "index",
						Aliases:  []string{"i"},
						Usage:    "Path to write the index snapshot",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "tables",
						Usage: "Path to a YAML file overriding classification tables",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Embed incrementally in batches of this size (0 = one-shot build)",
					},
				),
			},
			{
				Name:   "search",
				Usage:  "Run a bidirectional skill search against a saved snapshot",
				Action: searchCommand,
				Flags: append(embeddingFlags(),
					&cli.StringFlag{
						Name:     "index",
						Aliases:  []string{"i"},
						Usage:    "Path to the index snapshot",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Maximum number of results",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "tables",
						Usage: "Path to a YAML file overriding classification tables",
					},
					&cli.BoolFlag{
						Name:  "keyword",
						Usage: "Use lexical search instead of semantic search",
					},
				),
			},
			{
				Name:   "stats",
				Usage:  "Print statistics for a saved snapshot",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "index",
						Aliases:  []string{"i"},
						Usage:    "Path to the index snapshot",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "paraphrase-multilingual-MiniLM-L12-v2",
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key for hosted embedding services",
			EnvVars: []string{"MAILSEEK_API_KEY"},
		},
		&cli.IntFlag{
			Name:  "max-retries",
			Usage: "Maximum retry attempts for the embedding backend probe",
			Value: 3,
		},
		&cli.DurationFlag{
			Name:  "retry-delay",
			Usage: "Base delay for exponential backoff",
			Value: 1 * time.Second,
		},
	}
}

// importedDocument is the JSON shape accepted by the import command.
type importedDocument struct {
	Uid         string   `json:"uid"`
	Subject     string   `json:"subject"`
	Sender      string   `json:"sender"`
	Recipient   string   `json:"recipient"`
	Date        string   `json:"date"`
	BodyText    string   `json:"body_text"`
	BodyHTML    string   `json:"body_html"`
	Folder      string   `json:"folder"`
	Attachments []string `json:"attachments"`
	MessageId   string   `json:"message_id"`
}

func importCommand(c *cli.Context) error {
	ctx := context.Background()

	data, err := os.ReadFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	var imported []importedDocument
	if err := json.Unmarshal(data, &imported); err != nil {
		return fmt.Errorf("failed to parse input file: %w", err)
	}

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo := badger.NewDocumentRepository(backend)
	defer repo.Close()

	docs := make([]*core.Document, 0, len(imported))
	for _, in := range imported {
		date, err := parseDate(in.Date)
		if err != nil {
			return fmt.Errorf("document %s: %w", in.Uid, err)
		}
		docs = append(docs, &core.Document{
			Uid:         in.Uid,
			Subject:     in.Subject,
			Sender:      in.Sender,
			Recipient:   in.Recipient,
			Date:        date,
			BodyText:    in.BodyText,
			BodyHTML:    in.BodyHTML,
			Folder:      in.Folder,
			Attachments: in.Attachments,
			MessageId:   in.MessageId,
		})
	}

	stored, err := repo.PutBatch(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to store documents: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Imported %d documents (%d unchanged, skipped)\n", stored, len(docs)-stored)
	return nil
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo := badger.NewDocumentRepository(backend)
	defer repo.Close()

	stored, err := repo.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to read documents: %w", err)
	}
	if len(stored) == 0 {
		return fmt.Errorf("no documents in store, run import first")
	}

	eng, err := newEngine(c)
	if err != nil {
		return err
	}
	defer eng.Release()

	docs := make([]core.Document, len(stored))
	for i, doc := range stored {
		docs[i] = *doc
	}

	fmt.Fprintf(os.Stderr, "Indexing %d documents\n", len(docs))
	if batch := c.Int("batch-size"); batch > 0 {
		if err := buildIncremental(ctx, eng, docs, batch); err != nil {
			return fmt.Errorf("failed to build index: %w", err)
		}
	} else if err := eng.Build(ctx, docs); err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}
	if eng.Degraded() {
		fmt.Fprintln(os.Stderr, "Warning: embedding backend unavailable, snapshot will be lexical-only")
	}

	if err := eng.Save(c.String("index")); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Snapshot written to %s\n", c.String("index"))
	return nil
}

// buildIncremental drives the resumable builder one batch at a time,
// reporting progress after each step.
func buildIncremental(ctx context.Context, eng *engine.Engine, docs []core.Document, batch int) error {
	builder, err := eng.NewIndexBuilder(docs, engine.WithBatchSize(batch))
	if err != nil {
		return err
	}

	for !builder.Cursor().Done() {
		cursor, err := builder.Step(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "\rEmbedded %d/%d documents", cursor.Processed, cursor.Total)
	}
	fmt.Fprintln(os.Stderr)

	return builder.Commit()
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("usage: mailseek search [flags] <query>")
	}

	eng, err := newEngine(c)
	if err != nil {
		return err
	}
	defer eng.Release()

	if err := eng.Load(c.String("index")); err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	topK := c.Int("top-k")

	var results []core.SearchResult
	if c.Bool("keyword") {
		results, err = eng.KeywordSearch(query, topK)
		if err != nil {
			return err
		}
	} else {
		var cl *classify.Classification
		results, cl, err = eng.IntelligentSearch(ctx, query, topK)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Query type: %s, direction: %s, skills: %v\n",
			cl.QueryType, cl.Direction, cl.Skills)
	}

	for i, result := range results {
		fmt.Printf("%2d. [%.3f] %s\n", i+1, result.Score, result.Subject)
		fmt.Printf("    From: %s  Date: %s  Folder: %s\n",
			result.Sender, result.Date.Format("2006-01-02"), result.Folder)
		fmt.Printf("    %s\n", result.Preview)
	}
	if len(results) == 0 {
		fmt.Println("No results.")
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	// Stats only reads the snapshot; the provider never gets dialed.
	provider, err := openai.NewProvider(ai.DefaultConfig())
	if err != nil {
		return err
	}
	defer provider.Close()

	eng, err := engine.NewEngine(provider)
	if err != nil {
		return err
	}
	defer eng.Release()

	if err := eng.Load(c.String("index")); err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	stats := eng.Statistics()
	fmt.Printf("Model: %s\n", stats.ModelName)
	fmt.Printf("Documents: %d\n", stats.DocumentCount)
	fmt.Printf("Vectors: %d\n", stats.IndexSize)
	fmt.Printf("Degraded: %v\n", stats.Degraded)

	if len(stats.FolderDistribution) > 0 {
		fmt.Println("Folders:")
		for folder, count := range stats.FolderDistribution {
			fmt.Printf("  %s: %d\n", folder, count)
		}
	}
	if len(stats.TopSenders) > 0 {
		fmt.Println("Top senders:")
		for _, sc := range stats.TopSenders {
			fmt.Printf("  %s: %d\n", sc.Sender, sc.Count)
		}
	}
	return nil
}

// newEngine builds an engine against the configured embedding backend,
// loading table overrides when given.
func newEngine(c *cli.Context) (*engine.Engine, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithAPIKey(c.String("api-key")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid embedding configuration: %w", err)
	}

	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding provider: %w", err)
	}

	var tables *classify.Tables
	if path := c.String("tables"); path != "" {
		tables, err = classify.LoadTables(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load tables: %w", err)
		}
	}

	return engine.NewEngine(provider,
		engine.WithModelName(aiConfig.EmbeddingModel),
		engine.WithTables(tables),
		engine.WithRetryPolicy(c.Int("max-retries"), c.Duration("retry-delay")),
		engine.WithProgressWriter(os.Stderr),
	)
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
