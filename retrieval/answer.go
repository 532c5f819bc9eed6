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

package retrieval

import (
	"fmt"
	"strings"

	"github.com/kejr2/RAGDocs/core"
)

const (
	basicAnswerSources    = 3
	basicAnswerProseLimit = 300
)

// FormatBasicAnswer renders evidence into a readable answer without a
// text-generation model: the top sources verbatim, code fenced with its
// language tag, prose truncated.
func FormatBasicAnswer(hits []core.ScoredHit) string {
	parts := []string{"Based on the retrieved documentation:\n"}

	limit := basicAnswerSources
	if len(hits) < limit {
		limit = len(hits)
	}
	for i, hit := range hits[:limit] {
		heading := hit.Chunk.Heading
		if heading == "" {
			heading = "Document"
		}
		parts = append(parts, fmt.Sprintf("\n**Source %d** (%s):", i+1, heading))

		if hit.Chunk.Kind == core.KindCode {
			parts = append(parts, fmt.Sprintf("```%s\n%s\n```", hit.Chunk.Language, hit.Chunk.Content))
			continue
		}
		content := hit.Chunk.Content
		if len(content) > basicAnswerProseLimit {
			content = truncateAtRune(content, basicAnswerProseLimit) + "..."
		}
		parts = append(parts, content)
	}

	return strings.Join(parts, "\n")
}
