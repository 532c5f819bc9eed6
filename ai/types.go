package ai

// EnhancedQuery is the raw structured plan returned by the query
// enhancement service. Field names match the JSON schema the service is
// prompted with; any field may come back empty and is backfilled by the
// caller from its heuristic plan.
type EnhancedQuery struct {
	// EnhancedQuery is a rewrite of the original query with better
	// semantic-search phrasing.
	EnhancedQuery string `json:"enhanced_query"`

	// Keywords are key terms to search for.
	Keywords []string `json:"keywords"`

	// Synonyms are related terms and common variations.
	Synonyms []string `json:"synonyms"`

	// Concepts are the main concepts the query is about.
	Concepts []string `json:"concepts"`

	// QueryType is one of the closed query-type enumeration tags.
	QueryType string `json:"query_type"`

	// RequiredTopics lists the distinct sub-topics that must each be
	// retrieved for the answer to be complete.
	RequiredTopics []string `json:"required_topics"`

	// RecommendedTopK is the suggested number of chunks to fetch.
	RecommendedTopK int `json:"recommended_top_k"`

	// MultiQueryNeeded indicates that each required topic warrants its
	// own targeted search.
	MultiQueryNeeded bool `json:"multi_query_needed"`

	// Reasoning is the service's brief explanation; informational only.
	Reasoning string `json:"reasoning,omitempty"`
}
