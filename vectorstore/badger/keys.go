package badger

import (
	"encoding/binary"

	"github.com/kejr2/RAGDocs/core"
)

// Key prefixes for collection metadata and points
const (
	collectionPrefix = "vscol"
	pointPrefix      = "vspt"
)

// makeCollectionKey generates a key for collection metadata by name.
func makeCollectionKey(name string) []byte {
	return []byte(collectionPrefix + ":" + name)
}

// makePointKey generates a key for a point within a collection.
// Format: prefix:collection:id
func makePointKey(collection string, id core.ID) []byte {
	prefix := pointPrefix + ":" + collection + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePointScanPrefix generates the iteration prefix for a collection's points.
func makePointScanPrefix(collection string) []byte {
	return []byte(pointPrefix + ":" + collection + ":")
}
