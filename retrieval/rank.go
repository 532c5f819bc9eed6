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
	"cmp"
	"slices"
	"strings"

	"github.com/kejr2/RAGDocs/core"
)

// contentMatchWindow is how much of a chunk's content counts toward
// keyword matching. Matches deep inside a long chunk say little about
// what the chunk is about.
const contentMatchWindow = 200

// codePerTopicLimit caps how many code hits a single topic can pull to
// the front during type-priority reordering.
const codePerTopicLimit = 3

// definitionTriggers are phrasings that mark a definition-style question.
var definitionTriggers = []string{"what is", "what are", "define", "explain", "describe"}

// definitionMarkers are heading shapes that introduce or define their
// subject rather than merely mention it.
var definitionMarkers = []string{"what is", "what are", "definition", "introduction"}

// installIndicators mark installation content and installation intent.
var installIndicators = []string{"install", "pip ", "npm ", "apt ", "brew ", "setup", "go get"}

// knownLanguages are fence tags recognized when the query names a target
// language. Aliases normalize to the tag the chunker records.
var knownLanguages = map[string]string{
	"python": "python", "py": "python",
	"javascript": "javascript", "js": "javascript",
	"typescript": "typescript", "ts": "typescript",
	"golang": "go",
	"java":   "java",
	"ruby":   "ruby",
	"rust":   "rust",
	"php":    "php",
	"bash":   "bash", "shell": "bash", "sh": "bash",
}

// ranker reorders raw search hits deterministically: keyword and
// definition boosts shrink the distance of hits whose heading or content
// matches the query, then code hits are pulled forward for procedural
// queries.
type ranker struct {
	config *Config
}

func newRanker(config *Config) *ranker {
	return &ranker{config: config}
}

// Rank returns the hits reordered by boosted distance, truncated to topK.
// The input order is the tiebreaker: equal boosted distances keep their
// discovery order. The input slice is not modified.
func (r *ranker) Rank(hits []core.ScoredHit, plan *core.QueryPlan, rawQuery string, topK int) []core.ScoredHit {
	ranked := make([]core.ScoredHit, len(hits))
	copy(ranked, hits)

	terms := rankTerms(plan, rawQuery)
	lowerQuery := strings.ToLower(rawQuery)
	for i := range ranked {
		ranked[i].Distance *= boostFactor(&ranked[i].Chunk, terms, plan, lowerQuery)
	}

	slices.SortStableFunc(ranked, func(a, b core.ScoredHit) int {
		return cmp.Compare(a.Distance, b.Distance)
	})

	if wantsCodeFirst(plan, lowerQuery) {
		ranked = r.reorderCodeFirst(ranked, plan, lowerQuery)
	}

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}

// rankTerms is the match vocabulary: the plan's keywords plus the raw
// query's significant words, lowercased and deduplicated.
func rankTerms(plan *core.QueryPlan, rawQuery string) []string {
	return dedupTerms(plan.Keywords, significantTerms(rawQuery))
}

// boostFactor returns the multiplier applied to a hit's distance.
// Keyword matching takes precedence; the definition boost applies only
// when no keyword matched at all.
func boostFactor(c *core.Chunk, terms []string, plan *core.QueryPlan, lowerQuery string) float64 {
	heading := strings.ToLower(c.Heading)
	content := strings.ToLower(c.Content)
	if len(content) > contentMatchWindow {
		content = content[:contentMatchWindow]
	}

	headingMatches := countMatches(heading, terms)
	contentMatches := countMatches(content, terms)

	switch {
	case headingMatches >= 2 || (headingMatches >= 1 && contentMatches >= 2):
		return 0.1
	case headingMatches >= 1 || contentMatches >= 2:
		return 0.4
	case headingMatches+contentMatches >= 1:
		return 0.7
	}

	return definitionBoost(heading, plan, lowerQuery)
}

// definitionBoost promotes headings that name the query's subject when
// the query asks for a definition. Headings that introduce the subject
// get the strongest boost.
func definitionBoost(lowerHeading string, plan *core.QueryPlan, lowerQuery string) float64 {
	if plan.Type != core.QueryTypeDefinition && !containsAny(lowerQuery, definitionTriggers) {
		return 1.0
	}

	topic := lowerQuery
	for _, trigger := range definitionTriggers {
		topic = strings.ReplaceAll(topic, trigger, "")
	}
	topic = strings.TrimSpace(strings.ReplaceAll(topic, "?", ""))
	if topic == "" || !strings.Contains(lowerHeading, topic) {
		return 1.0
	}

	if containsAny(lowerHeading, definitionMarkers) {
		return 0.1
	}
	return 0.6
}

// wantsCodeFirst reports whether the query type asks for working code,
// in which case code hits outrank prose regardless of distance.
func wantsCodeFirst(plan *core.QueryPlan, lowerQuery string) bool {
	switch plan.Type {
	case core.QueryTypeMultiStep, core.QueryTypeHowTo, core.QueryTypeExample:
		return true
	}
	return strings.Contains(lowerQuery, "code")
}

// reorderCodeFirst re-partitions the ranked hits so code comes before
// prose. Under fan-out each topic pulls up to codePerTopicLimit of its
// own code hits to the very front, target-language matches first; in the
// single-branch installation case, code hits carrying an install
// indicator lead.
func (r *ranker) reorderCodeFirst(ranked []core.ScoredHit, plan *core.QueryPlan, lowerQuery string) []core.ScoredHit {
	code := make([]core.ScoredHit, 0, len(ranked))
	prose := make([]core.ScoredHit, 0, len(ranked))
	for _, hit := range ranked {
		if hit.Chunk.Kind == core.KindCode {
			code = append(code, hit)
		} else {
			prose = append(prose, hit)
		}
	}

	if plan.FanOut && plan.TopicCount() > 1 {
		code = groupCodeByTopic(code, plan.Topics, targetLanguage(lowerQuery))
	} else if plan.Type == core.QueryTypeHowTo && containsAny(lowerQuery, installIndicators) {
		code = installFirst(code)
	}

	return append(code, prose...)
}

// groupCodeByTopic stably moves up to codePerTopicLimit code hits per
// topic to the front, topics in plan order. Within a topic, hits in the
// query's target language come first.
func groupCodeByTopic(code []core.ScoredHit, topics []string, language string) []core.ScoredHit {
	taken := make([]bool, len(code))
	picked := make([]core.ScoredHit, 0, len(topics)*codePerTopicLimit)

	for _, topic := range topics {
		lowerTopic := strings.ToLower(topic)
		count := 0
		// Language matches first, then the rest in rank order.
		for pass := 0; pass < 2 && count < codePerTopicLimit; pass++ {
			for i := range code {
				if count == codePerTopicLimit {
					break
				}
				if taken[i] || !codeMatchesTopic(&code[i].Chunk, lowerTopic) {
					continue
				}
				langMatch := language != "" && strings.EqualFold(code[i].Chunk.Language, language)
				if (pass == 0) != langMatch {
					continue
				}
				taken[i] = true
				picked = append(picked, code[i])
				count++
			}
		}
	}

	for i := range code {
		if !taken[i] {
			picked = append(picked, code[i])
		}
	}
	return picked
}

func codeMatchesTopic(c *core.Chunk, lowerTopic string) bool {
	return strings.Contains(strings.ToLower(c.Content), lowerTopic) ||
		strings.Contains(strings.ToLower(c.Heading), lowerTopic)
}

// installFirst stably moves code hits whose content carries an install
// indicator ahead of the rest.
func installFirst(code []core.ScoredHit) []core.ScoredHit {
	out := make([]core.ScoredHit, 0, len(code))
	rest := make([]core.ScoredHit, 0, len(code))
	for _, hit := range code {
		if containsAny(strings.ToLower(hit.Chunk.Content), installIndicators) {
			out = append(out, hit)
		} else {
			rest = append(rest, hit)
		}
	}
	return append(out, rest...)
}

// targetLanguage returns the normalized fence tag for a language the
// query names, or empty when none is named.
func targetLanguage(lowerQuery string) string {
	for _, token := range tokenize(lowerQuery) {
		if lang, ok := knownLanguages[token]; ok {
			return lang
		}
	}
	return ""
}
