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


// Package ai provides abstractions for the AI services used by RAGDocs.
//
// This package defines interfaces for the external AI collaborators: dual-space
// text embeddings, structured query enhancement, and answer generation. It
// follows the dependency inversion principle, allowing the retrieval engine and
// ingestion pipeline to depend on abstractions rather than concrete services.
//
// # Design Principles
//
// The package is designed around three service interfaces:
//
//   - Embedder: generates prose-space and code-space vector embeddings
//   - QueryEnhancer: produces a structured retrieval plan from a raw query
//   - AnswerGenerator: writes an answer from a query and its evidence context
//
// plus AIProvider, which aggregates them for convenient initialization.
//
// All three services are allowed to fail or to be absent: the retrieval
// pipeline is designed to degrade to deterministic fallbacks (heuristic query
// plans, partial search results, basic answer formatting) rather than
// propagate AI-service failures to the caller.
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// INTERFACE types to enforce abstraction. Test utility constructors
// (mock.NewMockEmbedder, etc.) return CONCRETE types to enable test
// assertions and behavior injection via function fields.
//
// # Usage Example
//
//	config := ai.DefaultConfig()
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vec, err := provider.Embedder().EmbedProse(ctx, "What is FastAPI?")
//	plan, err := provider.Enhancer().Enhance(ctx, "What is FastAPI?")
package ai
