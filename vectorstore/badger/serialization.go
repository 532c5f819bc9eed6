package badger

import (
	"github.com/kejr2/RAGDocs/core"
	"github.com/kejr2/RAGDocs/vectorstore"
	"github.com/mus-format/mus-go/varint"
)

// marshalPoint serializes a point: vector length, vector elements, then
// the chunk payload.
func marshalPoint(p *vectorstore.Point) []byte {
	size := varint.Int.Size(len(p.Vector))
	for _, f := range p.Vector {
		size += varint.Float32.Size(f)
	}
	size += core.ChunkMUS.Size(p.Chunk)

	buf := make([]byte, size)
	n := varint.Int.Marshal(len(p.Vector), buf)
	for _, f := range p.Vector {
		n += varint.Float32.Marshal(f, buf[n:])
	}
	core.ChunkMUS.Marshal(p.Chunk, buf[n:])
	return buf
}

// unmarshalPoint deserializes a point from bytes.
func unmarshalPoint(data []byte) (*vectorstore.Point, error) {
	length, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, err
	}

	p := &vectorstore.Point{Vector: make([]float32, length)}
	for i := 0; i < length; i++ {
		var n1 int
		p.Vector[i], n1, err = varint.Float32.Unmarshal(data[n:])
		n += n1
		if err != nil {
			return nil, err
		}
	}

	p.Chunk, _, err = core.ChunkMUS.Unmarshal(data[n:])
	if err != nil {
		return nil, err
	}
	return p, nil
}

// marshalDim serializes a collection's dimension.
func marshalDim(dim int) []byte {
	buf := make([]byte, varint.Int.Size(dim))
	varint.Int.Marshal(dim, buf)
	return buf
}

// unmarshalDim deserializes a collection's dimension.
func unmarshalDim(data []byte) (int, error) {
	dim, _, err := varint.Int.Unmarshal(data)
	return dim, err
}
