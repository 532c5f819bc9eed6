package badger

import (
	"fmt"

	"github.com/kejr2/RAGDocs/core"
)

// Key prefixes for different data types
const (
	documentPrefix         = "docrec"
	documentFilenamePrefix = "docfn"
)

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", documentPrefix, id))
}

// makeFilenameKey generates a key for the filename index.
// Filenames sort lexicographically, which gives ListDocuments its order.
func makeFilenameKey(filename string) []byte {
	return []byte(documentFilenamePrefix + ":" + filename)
}
