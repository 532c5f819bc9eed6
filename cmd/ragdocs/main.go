// Copyright 2025 RAGDocs Authors
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
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	ragdocs "github.com/kejr2/RAGDocs"
	"github.com/kejr2/RAGDocs/ai"
	"github.com/kejr2/RAGDocs/core"
	"github.com/kejr2/RAGDocs/retrieval"
	"github.com/kejr2/RAGDocs/vectorstore"
	"github.com/urfave/cli/v2"
)

func main() {
	dataFlag := &cli.StringFlag{
		Name:     "data",
		Aliases:  []string{"d"},
		Usage:    "Path to the data directory",
		Required: true,
	}
	aiFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "prose-model",
			Usage: "Prose embedding model name",
			Value: "all-minilm",
		},
		&cli.StringFlag{
			Name:  "code-model",
			Usage: "Code embedding model name",
			Value: "unclemusclez/jina-embeddings-v2-base-code",
		},
		&cli.StringFlag{
			Name:  "generator-host",
			Usage: "Text-generation service host URL (defaults to embedding-host)",
		},
		&cli.StringFlag{
			Name:  "generator-model",
			Usage: "Text-generation model name; empty disables enhancement and generated answers",
		},
	}

	app := &cli.App{
		Name:  "ragdocs",
		Usage: "Hybrid retrieval and question answering over markdown documentation",
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
				Name:      "ingest",
				Usage:     "Ingest markdown files into the library",
				ArgsUsage: "<file> [<file>...]",
				Action:    ingestCommand,
				Flags:     append([]cli.Flag{dataFlag}, aiFlags...),
			},
			{
				Name:      "ask",
				Usage:     "Answer a question from the ingested documentation",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: append([]cli.Flag{
					dataFlag,
					&cli.StringFlag{
						Name:  "doc",
						Usage: "Restrict retrieval to one document ID",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of chunks to retrieve (0 uses the plan's recommendation)",
					},
					&cli.BoolFlag{
						Name:  "show-sources",
						Usage: "Print the retrieved evidence after the answer",
					},
				}, aiFlags...),
			},
			{
				Name:  "docs",
				Usage: "Manage the document catalog",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List ingested documents",
						Action: docsListCommand,
						Flags:  []cli.Flag{dataFlag},
					},
					{
						Name:      "delete",
						Usage:     "Delete a document and its vectors",
						ArgsUsage: "<doc-id>",
						Action:    docsDeleteCommand,
						Flags:     append([]cli.Flag{dataFlag}, aiFlags...),
					},
				},
			},
			{
				Name:      "chunks",
				Usage:     "List the stored chunks of a document",
				ArgsUsage: "<doc-id>",
				Action:    chunksCommand,
				Flags: []cli.Flag{
					dataFlag,
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum chunks to list per collection",
						Value: 50,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setupLogger(c *cli.Context) error {
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

func aiConfigFromFlags(c *cli.Context) *ai.Config {
	generatorHost := c.String("generator-host")
	if generatorHost == "" {
		generatorHost = c.String("embedding-host")
	}
	return ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithProseEmbeddingModel(c.String("prose-model")),
		ai.WithCodeEmbeddingModel(c.String("code-model")),
		ai.WithGeneratorHost(generatorHost),
		ai.WithGeneratorModel(c.String("generator-model")),
	)
}

func openLibrary(c *cli.Context) (*ragdocs.Library, error) {
	aiConfig := aiConfigFromFlags(c)
	if err := aiConfig.Validate(); err != nil {
		return nil, err
	}
	return ragdocs.OpenLibrary(c.String("data"), ragdocs.WithAIConfig(aiConfig))
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file is required")
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	pipeline, err := lib.NewIngestionPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	ctx := context.Background()
	if err := pipeline.EnsureCollections(ctx); err != nil {
		return fmt.Errorf("provisioning collections: %w", err)
	}

	for _, path := range c.Args().Slice() {
		doc, err := pipeline.IngestFile(ctx, path)
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", path, err)
		}
		fmt.Printf("%s  %s  (%d prose, %d code chunks)\n",
			doc.Id, doc.Filename, doc.ProseChunks, doc.CodeChunks)
	}
	return nil
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	query := core.Query{Text: question, TopK: c.Int("top-k")}
	if docArg := c.String("doc"); docArg != "" {
		docId, err := core.ParseID(docArg)
		if err != nil {
			return err
		}
		query.DocId = docId
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	engine, err := lib.NewEngine()
	if err != nil {
		return err
	}
	defer engine.Release()

	answer, err := engine.Ask(context.Background(), query)
	if err != nil {
		return err
	}

	fmt.Println(answer.Text)

	if c.Bool("show-sources") && answer.Evidence != nil {
		fmt.Println()
		for i, hit := range answer.Evidence.Hits {
			fmt.Printf("[%d] %s %s:%d-%d (%s, similarity %.3f)\n",
				i+1, hit.Chunk.Heading, hit.Chunk.SourceFile,
				hit.Chunk.Start, hit.Chunk.End, hit.Chunk.Kind, hit.Similarity)
		}
	}
	return nil
}

func docsListCommand(c *cli.Context) error {
	lib, err := ragdocs.OpenLibrary(c.String("data"))
	if err != nil {
		return err
	}
	defer lib.Close()

	docs, err := lib.DocumentRepository().ListDocuments(context.Background())
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Println("no documents ingested")
		return nil
	}
	for _, doc := range docs {
		fmt.Printf("%s  %-40s  %3d chunks  updated %s\n",
			doc.Id, doc.Filename, doc.TotalChunks, doc.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func docsDeleteCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one document ID is required")
	}
	docId, err := core.ParseID(c.Args().First())
	if err != nil {
		return err
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	pipeline, err := lib.NewIngestionPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	if err := pipeline.DeleteDocument(context.Background(), docId); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", docId)
	return nil
}

func chunksCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one document ID is required")
	}
	docId, err := core.ParseID(c.Args().First())
	if err != nil {
		return err
	}

	lib, err := ragdocs.OpenLibrary(c.String("data"))
	if err != nil {
		return err
	}
	defer lib.Close()

	ctx := context.Background()
	filter := vectorstore.Filter{DocId: docId}
	for _, collection := range []string{retrieval.DefaultProseCollection, retrieval.DefaultCodeCollection} {
		chunks, err := lib.VectorStore().Scroll(ctx, collection, filter, 0, c.Int("limit"))
		if err != nil {
			if errors.Is(err, vectorstore.ErrCollectionNotFound) {
				continue
			}
			return err
		}
		for _, chunk := range chunks {
			fmt.Printf("%s  %-6s  lines %4d-%-4d  %s\n",
				chunk.Id, chunk.Kind, chunk.Start, chunk.End, chunk.Heading)
		}
	}
	return nil
}
