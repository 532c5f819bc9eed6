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
	"math"
	"strings"

	"github.com/kejr2/RAGDocs/core"
)

// selector converts distances to similarities and drops hits below the
// relevance threshold. Selection preserves arrival order and is
// idempotent: re-selecting its own output changes nothing.
type selector struct {
	config *Config
}

func newSelector(config *Config) *selector {
	return &selector{config: config}
}

// Select filters the ranked hits. Each surviving hit has its Similarity
// set to 1/(1+distance). Code hits pass at 0.8x the threshold; two escape
// hatches admit hits slightly below their floor: install-flavored code
// for installation queries down to 0.7x, and hits with two or more
// keyword matches down to 0.6x.
func (s *selector) Select(ranked []core.ScoredHit, plan *core.QueryPlan, rawQuery string) []core.ScoredHit {
	terms := rankTerms(plan, rawQuery)
	lowerQuery := strings.ToLower(rawQuery)
	installQuery := containsAny(lowerQuery, installIndicators) || plan.Type == core.QueryTypeHowTo

	threshold := s.config.RelevanceThreshold
	selected := make([]core.ScoredHit, 0, len(ranked))
	for _, hit := range ranked {
		content := strings.TrimSpace(hit.Chunk.Content)
		if len(content) < s.config.MinContentLength {
			continue
		}

		// Clamp at zero so similarity stays within (0, 1] even when a
		// store reports a slightly negative distance for parallel vectors.
		similarity := 1.0 / (1.0 + math.Max(hit.Distance, 0))

		floor := threshold
		isCode := hit.Chunk.Kind == core.KindCode
		if isCode {
			floor = 0.8 * threshold
		}

		admit := similarity >= floor
		if !admit && isCode && installQuery &&
			containsAny(strings.ToLower(content), installIndicators) &&
			similarity >= 0.7*threshold {
			admit = true
		}
		if !admit && similarity >= 0.6*threshold && keywordMatchCount(&hit.Chunk, terms) >= 2 {
			admit = true
		}
		if !admit {
			continue
		}

		hit.Similarity = similarity
		selected = append(selected, hit)
	}
	return selected
}

// keywordMatchCount counts term occurrences over the heading and the
// content match window, the same vocabulary the ranker boosts on.
func keywordMatchCount(c *core.Chunk, terms []string) int {
	content := strings.ToLower(c.Content)
	if len(content) > contentMatchWindow {
		content = content[:contentMatchWindow]
	}
	return countMatches(strings.ToLower(c.Heading), terms) + countMatches(content, terms)
}
