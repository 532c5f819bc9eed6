// Package vectorstore defines the vector index abstraction used for
// semantic search over documentation chunks.
//
// A Store manages named collections of fixed dimensionality. The engine
// provisions one collection per embedding space (prose and code) at
// startup and fans searches out across them. Distances follow the cosine
// convention: 0 is identical, larger is farther apart.
//
// The vectorstore/badger subpackage provides the embedded implementation.
// A networked index is an exercise in implementing vectorstore.Store.
package vectorstore
