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


// Package storage provides the document catalog abstraction for RAGDocs.
//
// The catalog tracks which files have been ingested and how many prose
// and code chunks each produced. Chunk contents and their vectors are
// not stored here; they live in the vector store, with the catalog
// serving listing, re-ingestion detection, and deletion.
//
// # Constructor Return Type Pattern
//
// Public constructors return the repository INTERFACE to enforce
// abstraction and enable alternative backends:
//
//	repo, err := badger.NewDocumentRepository(backend)
//
// Internal constructors may return concrete types since they're only
// used within the implementation package.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
