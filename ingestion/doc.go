// Package ingestion turns markdown documentation files into retrievable
// chunks.
//
// The chunker keeps document structure intact: fenced code blocks become
// code chunks carrying the fence's language tag, prose is split at a
// soft character limit, and each chunk keeps the heading it appeared
// under. The pipeline embeds prose and code chunks in their respective
// embedding spaces (batched through a bounded worker pool), replaces the
// document's points in both vector collections, and records the document
// in the catalog. Re-ingesting a file is idempotent by filename.
package ingestion
