// Package retrieval implements the hybrid retrieval pipeline: a query is
// analyzed into a plan, fanned out over the prose and code collections
// (one branch per required sub-topic), and the merged hits are boosted,
// filtered against a relevance threshold, and assembled into a bounded
// context for answer writing.
//
// Everything after the vector lookups is deterministic: the same hits in
// the same discovery order always produce the same evidence set. Ordering
// never depends on goroutine scheduling.
package retrieval
