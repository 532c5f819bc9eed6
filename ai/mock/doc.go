// Package mock provides test doubles for the ai package interfaces.
//
// The mocks produce deterministic output without network access: embeddings
// are derived from an FNV hash of the input text (prose 384-dim, code
// 768-dim), the enhancer returns a minimal pass-through plan, and the
// generator returns a canned answer. Every mock exposes function fields for
// injecting custom behavior and a CallCount for assertions.
package mock
