package core

import (
	"errors"
	"testing"
)

func TestValidateChunk(t *testing.T) {
	valid := Chunk{
		Id:         IDFromContent([]byte("chunk")),
		DocId:      IDFromContent([]byte("doc")),
		SourceFile: "guide.md",
		Start:      10,
		End:        24,
		Kind:       KindProse,
		Heading:    "## Overview",
		Content:    "FastAPI is a modern web framework.",
	}

	tests := []struct {
		name    string
		mutate  func(c *Chunk)
		wantErr error
	}{
		{
			name:    "valid prose chunk",
			mutate:  func(c *Chunk) {},
			wantErr: nil,
		},
		{
			name: "valid code chunk",
			mutate: func(c *Chunk) {
				c.Kind = KindCode
				c.Language = "python"
			},
			wantErr: nil,
		},
		{
			name:    "empty content",
			mutate:  func(c *Chunk) { c.Content = "" },
			wantErr: ErrEmptyContent,
		},
		{
			name:    "invalid kind",
			mutate:  func(c *Chunk) { c.Kind = ChunkKind(9) },
			wantErr: ErrInvalidChunkKind,
		},
		{
			name:    "inverted span",
			mutate:  func(c *Chunk) { c.Start = 30 },
			wantErr: ErrInvalidChunk,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunk := valid
			tt.mutate(&chunk)

			err := ValidateChunk(&chunk)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunk() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunk() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateChunk_Nil(t *testing.T) {
	if err := ValidateChunk(nil); !errors.Is(err, ErrInvalidChunk) {
		t.Errorf("ValidateChunk(nil) error = %v, want ErrInvalidChunk", err)
	}
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name: "valid document",
			doc: &Document{
				Id:          IDFromContent([]byte("doc")),
				Filename:    "guide.md",
				ProseChunks: 3,
				CodeChunks:  2,
				TotalChunks: 5,
			},
			wantErr: nil,
		},
		{
			name:    "nil document",
			doc:     nil,
			wantErr: ErrInvalidDocument,
		},
		{
			name: "missing filename",
			doc: &Document{
				Id: IDFromContent([]byte("doc")),
			},
			wantErr: ErrEmptyFilename,
		},
		{
			name: "counts do not add up",
			doc: &Document{
				Filename:    "guide.md",
				ProseChunks: 3,
				CodeChunks:  2,
				TotalChunks: 6,
			},
			wantErr: ErrInvalidDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDocument() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
