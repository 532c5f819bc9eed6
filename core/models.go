package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is derived from content using BLAKE2b hashing, so identical content
// always produces the same ID.
type ID uint64

// IDFromContent generates a deterministic ID from content using BLAKE2b hashing.
func IDFromContent(data []byte) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write(data)
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// String renders the ID as fixed-width hex, the form used in CLI output
// and accepted back by ParseID.
func (id ID) String() string {
	return fmt.Sprintf("%016x", uint64(id))
}

// ParseID parses an ID from its hex string form.
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return ID(v), nil
}

// ChunkKind identifies which embedding space and collection a chunk belongs to.
type ChunkKind int

const (
	// KindProse represents natural-language documentation content.
	KindProse ChunkKind = iota + 1
	// KindCode represents fenced code content.
	KindCode
)

// String returns the payload tag for the kind.
func (k ChunkKind) String() string {
	switch k {
	case KindProse:
		return "prose"
	case KindCode:
		return "code"
	default:
		return "unknown"
	}
}

// QueryType classifies the intent of a user query. The set is closed;
// ParseQueryType rejects anything outside it.
type QueryType string

const (
	QueryTypeDefinition      QueryType = "definition"
	QueryTypeHowTo           QueryType = "how-to"
	QueryTypeExample         QueryType = "example"
	QueryTypeComparison      QueryType = "comparison"
	QueryTypeTroubleshooting QueryType = "troubleshooting"
	QueryTypeMultiStep       QueryType = "multi-step"
	QueryTypeGeneral         QueryType = "general"
)

// ParseQueryType validates a query type tag, typically one produced by the
// enhancement service. Returns ErrInvalidQueryType for anything outside the
// closed enumeration.
func ParseQueryType(s string) (QueryType, error) {
	switch QueryType(s) {
	case QueryTypeDefinition, QueryTypeHowTo, QueryTypeExample,
		QueryTypeComparison, QueryTypeTroubleshooting, QueryTypeMultiStep,
		QueryTypeGeneral:
		return QueryType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidQueryType, s)
}

// Chunk is a single retrieval unit: a contiguous fragment of an ingested
// document, tagged prose or code. Chunks are created during ingestion and
// read back through vector search payloads and the chunk repository.
type Chunk struct {
	Id         ID
	DocId      ID
	SourceFile string
	Start      int // first line of the span within the source file
	End        int // last line of the span
	Kind       ChunkKind
	Heading    string // owning markdown heading, may be empty
	Language   string // code fence language tag, empty for prose
	Content    string
}

// Document holds catalog metadata for an ingested document.
type Document struct {
	Id          ID
	Filename    string
	ProseChunks int
	CodeChunks  int
	TotalChunks int
	InsertedAt  time.Time
	UpdatedAt   time.Time
}

// Query is the immutable per-request input to the retrieval engine.
type Query struct {
	Text  string
	DocId ID  // optional scope; 0 means the whole corpus
	TopK  int // requested result count; 0 means use the plan's recommendation
}

// QueryPlan is the analyzer's read-only derivation from a Query.
// It is produced once per request and never mutated afterward.
type QueryPlan struct {
	SearchQuery string   // enhanced query string fed to the embedders
	Keywords    []string // unique significant terms, order irrelevant
	Topics      []string // required sub-topics, in priority order
	Type        QueryType
	TopK        int  // recommended result count
	FanOut      bool // true when each topic warrants its own search
}

// TopicCount returns the number of required sub-topics, counting the whole
// query as one topic when none were inferred.
func (p *QueryPlan) TopicCount() int {
	if len(p.Topics) == 0 {
		return 1
	}
	return len(p.Topics)
}

// ScoredHit is a chunk returned by a single collection lookup together with
// its raw distance. Distance is non-negative and smaller means more similar;
// Similarity is filled in by the result selector as 1/(1+distance).
type ScoredHit struct {
	Chunk      Chunk
	Distance   float64
	Similarity float64
	Collection string // collection of origin
}

// EvidenceSet is the terminal artifact of the retrieval pipeline: the
// filtered, ordered hits plus the assembled context handed to the answer
// writer. When no hits survive filtering, Insufficient is set and Guidance
// carries the user-facing message instead of an error.
type EvidenceSet struct {
	Hits         []ScoredHit
	Context      string
	Insufficient bool
	Guidance     string
}
