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


package core

import "fmt"

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Content must not be empty
//   - Kind must be valid (prose or code)
//   - Start must not come after End
//
// NOT validated (populated elsewhere):
//   - Heading and Language (both optional)
//   - Id and DocId (derived from content during ingestion)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}

	if err := ValidateChunkKind(chunk.Kind); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, err)
	}

	if chunk.Start > chunk.End {
		return fmt.Errorf("%w: span starts at line %d after end line %d",
			ErrInvalidChunk, chunk.Start, chunk.End)
	}

	return nil
}

// ValidateDocument validates a Document according to domain rules.
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Filename == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyFilename)
	}

	if doc.TotalChunks != doc.ProseChunks+doc.CodeChunks {
		return fmt.Errorf("%w: chunk counts do not add up (%d prose + %d code != %d total)",
			ErrInvalidDocument, doc.ProseChunks, doc.CodeChunks, doc.TotalChunks)
	}

	return nil
}

// ValidateChunkKind validates that a ChunkKind has a valid value.
func ValidateChunkKind(kind ChunkKind) error {
	if kind != KindProse && kind != KindCode {
		return fmt.Errorf("%w: value %d", ErrInvalidChunkKind, kind)
	}
	return nil
}
