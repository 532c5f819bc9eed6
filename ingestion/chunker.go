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


package ingestion

import (
	"fmt"
	"strings"

	"github.com/kejr2/RAGDocs/core"
)

// proseChunkLimit is the soft character limit for prose chunks. Chunks
// split at the first line boundary past the limit so small chunks keep
// enough context for retrieval.
const proseChunkLimit = 600

// ChunkMarkdown splits markdown content into prose and code chunks.
//
// Document structure stays intact: fenced code blocks become KindCode
// chunks tagged with the fence's language, everything else becomes
// KindProse chunks. A heading starts a fresh prose chunk and becomes the
// heading context (raw, with its # markers) for all chunks until the
// next heading. Start and End are line indices into the original
// content.
func ChunkMarkdown(filename string, docId core.ID, content string) []core.Chunk {
	var chunks []core.Chunk
	lines := strings.Split(content, "\n")

	var currentChunk []string
	currentStart := 0
	inCodeBlock := false
	codeLanguage := ""
	currentHeading := ""
	var codeBlockContent []string
	codeBlockStart := 0

	appendChunk := func(kind core.ChunkKind, text, language string, start, end int) {
		if strings.TrimSpace(text) == "" {
			return
		}
		chunks = append(chunks, core.Chunk{
			Id:         chunkID(filename, start, text),
			DocId:      docId,
			SourceFile: filename,
			Start:      start,
			End:        end,
			Kind:       kind,
			Heading:    currentHeading,
			Language:   language,
			Content:    text,
		})
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Detect code fences
		if strings.HasPrefix(trimmed, "```") {
			if !inCodeBlock {
				inCodeBlock = true
				codeLanguage = strings.TrimSpace(trimmed[3:])
				if codeLanguage == "" {
					codeLanguage = "unknown"
				}
				codeBlockContent = nil
				codeBlockStart = i
			} else {
				// End of code block: save as a separate code chunk
				appendChunk(core.KindCode, strings.Join(codeBlockContent, "\n"), codeLanguage, codeBlockStart, i)
				inCodeBlock = false
				codeLanguage = ""
				codeBlockContent = nil
			}
			continue
		}

		if inCodeBlock {
			codeBlockContent = append(codeBlockContent, line)
			continue
		}

		// Headings close the running prose chunk and update context
		if strings.HasPrefix(trimmed, "#") {
			appendChunk(core.KindProse, strings.Join(currentChunk, "\n"), "", currentStart, i-1)
			currentHeading = trimmed
			currentChunk = []string{line}
			currentStart = i
		} else {
			currentChunk = append(currentChunk, line)
		}

		// Split prose once it grows past the soft limit
		if len(strings.Join(currentChunk, "\n")) > proseChunkLimit {
			appendChunk(core.KindProse, strings.Join(currentChunk, "\n"), "", currentStart, i)
			currentChunk = nil
			currentStart = i + 1
		}
	}

	// Save the final prose chunk
	appendChunk(core.KindProse, strings.Join(currentChunk, "\n"), "", currentStart, len(lines)-1)

	return chunks
}

// chunkID derives a stable chunk identity from its source position and
// content, so re-ingesting an unchanged file produces the same IDs.
func chunkID(filename string, start int, content string) core.ID {
	return core.IDFromContent([]byte(fmt.Sprintf("%s:%d:%s", filename, start, content)))
}
