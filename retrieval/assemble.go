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
	"strings"

	"github.com/kejr2/RAGDocs/core"
)

// contextSeparator joins the evidence sections handed to the answer
// writer.
const contextSeparator = "\n\n---\n\n"

// Context chunk caps. Multi-topic answers need evidence for every topic,
// so fan-out doubles the allowance.
const (
	contextChunkCap       = 5
	contextChunkCapFanOut = 10
)

// assembler renders selected hits into the bounded context string.
type assembler struct {
	config *Config
}

func newAssembler(config *Config) *assembler {
	return &assembler{config: config}
}

// Assemble renders each hit as its heading followed by its content and
// joins the sections with a separator line. At most contextChunkCap
// hits are included (doubled under multi-topic fan-out), and sections
// that would push the context past MaxContextChars are dropped.
func (a *assembler) Assemble(hits []core.ScoredHit, plan *core.QueryPlan) string {
	limit := contextChunkCap
	if plan.FanOut && plan.TopicCount() > 1 {
		limit = contextChunkCapFanOut
	}
	if len(hits) < limit {
		limit = len(hits)
	}

	var b strings.Builder
	used := 0
	for _, hit := range hits[:limit] {
		section := renderSection(&hit.Chunk)
		cost := len(section)
		if used > 0 {
			cost += len(contextSeparator)
		}
		if used+cost > a.config.MaxContextChars {
			if used > 0 {
				break
			}
			// A single oversized section is truncated rather than
			// returning an empty context.
			section = truncateAtRune(section, a.config.MaxContextChars)
			cost = len(section)
		}
		if used > 0 {
			b.WriteString(contextSeparator)
		}
		b.WriteString(section)
		used += cost
	}
	return b.String()
}

func renderSection(c *core.Chunk) string {
	if c.Heading == "" {
		return c.Content
	}
	return c.Heading + "\n" + c.Content
}
