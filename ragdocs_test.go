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

package ragdocs

import (
	"context"
	"testing"

	"github.com/kejr2/RAGDocs/ai/mock"
	"github.com/kejr2/RAGDocs/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGuide = `# FastAPI Guide

## What is FastAPI?
FastAPI is a modern web framework for building APIs with Python.
FastAPI validates requests using standard type hints.

## Installation
Install the package with pip before writing any code.

` + "```bash" + `
pip install fastapi uvicorn
` + "```" + `

## First application
A minimal application defines a path operation.

` + "```python" + `
from fastapi import FastAPI
app = FastAPI()
` + "```" + `
`

func openTestLibrary(t *testing.T) *Library {
	t.Helper()
	lib, err := OpenLibrary(t.TempDir(), WithInMemory(), WithAIProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, lib.Close())
	})
	return lib
}

func TestLibraryIngestAndRetrieve(t *testing.T) {
	ctx := context.Background()
	lib := openTestLibrary(t)

	pipeline, err := lib.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()
	require.NoError(t, pipeline.EnsureCollections(ctx))

	doc, err := pipeline.Ingest(ctx, "fastapi.md", sampleGuide)
	require.NoError(t, err)
	assert.Greater(t, doc.ProseChunks, 0)
	assert.Equal(t, 2, doc.CodeChunks)

	engine, err := lib.NewEngine()
	require.NoError(t, err)
	defer engine.Release()

	evidence, err := engine.Retrieve(ctx, core.Query{Text: "What is FastAPI?"})
	require.NoError(t, err)
	assert.False(t, evidence.Insufficient)
	assert.NotEmpty(t, evidence.Hits)
	assert.NotEmpty(t, evidence.Context)
	for _, hit := range evidence.Hits {
		assert.Greater(t, hit.Similarity, 0.0)
	}

	answer, err := engine.Ask(ctx, core.Query{Text: "What is FastAPI?"})
	require.NoError(t, err)
	assert.True(t, answer.Generated)
	assert.Equal(t, "mock answer for: What is FastAPI?", answer.Text)
}

func TestLibraryCatalogRoundTrip(t *testing.T) {
	ctx := context.Background()
	lib := openTestLibrary(t)

	pipeline, err := lib.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()
	require.NoError(t, pipeline.EnsureCollections(ctx))

	doc, err := pipeline.Ingest(ctx, "fastapi.md", sampleGuide)
	require.NoError(t, err)

	listed, err := lib.DocumentRepository().ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, doc.Id, listed[0].Id)
	assert.Equal(t, "fastapi.md", listed[0].Filename)
}

func TestLibraryScopedRetrievalExcludesOtherDocuments(t *testing.T) {
	ctx := context.Background()
	lib := openTestLibrary(t)

	pipeline, err := lib.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()
	require.NoError(t, pipeline.EnsureCollections(ctx))

	doc, err := pipeline.Ingest(ctx, "fastapi.md", sampleGuide)
	require.NoError(t, err)

	engine, err := lib.NewEngine()
	require.NoError(t, err)
	defer engine.Release()

	// Scoping to a document that was never ingested finds nothing.
	evidence, err := engine.Retrieve(ctx, core.Query{Text: "What is FastAPI?", DocId: doc.Id + 1})
	require.NoError(t, err)
	assert.True(t, evidence.Insufficient)
	assert.NotEmpty(t, evidence.Guidance)
}
