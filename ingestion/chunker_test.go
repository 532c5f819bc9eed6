package ingestion

import (
	"strings"
	"testing"

	"github.com/kejr2/RAGDocs/core"
)

const sampleDoc = `# Payments API

The payments API lets you charge cards.

## Charging a card

Create a charge by calling the charges endpoint.

` + "```python" + `
charge = client.charges.create(amount=2000)
` + "```" + `

Charges settle within two business days.
`

func TestChunkMarkdownSeparatesCode(t *testing.T) {
	docId := core.IDFromContent([]byte("payments.md"))
	chunks := ChunkMarkdown("payments.md", docId, sampleDoc)

	var prose, code []core.Chunk
	for _, chunk := range chunks {
		switch chunk.Kind {
		case core.KindCode:
			code = append(code, chunk)
		case core.KindProse:
			prose = append(prose, chunk)
		default:
			t.Fatalf("Unexpected chunk kind %v", chunk.Kind)
		}
	}

	if len(code) != 1 {
		t.Fatalf("Expected 1 code chunk, got %d", len(code))
	}
	if code[0].Language != "python" {
		t.Fatalf("Expected python language, got %q", code[0].Language)
	}
	if strings.Contains(code[0].Content, "```") {
		t.Fatal("Code chunk should not contain fence markers")
	}
	if !strings.Contains(code[0].Content, "charges.create") {
		t.Fatalf("Code chunk missing code body: %q", code[0].Content)
	}
	if code[0].Heading != "## Charging a card" {
		t.Fatalf("Expected code chunk under charging heading, got %q", code[0].Heading)
	}

	if len(prose) < 2 {
		t.Fatalf("Expected at least 2 prose chunks, got %d", len(prose))
	}
}

func TestChunkMarkdownHeadingContext(t *testing.T) {
	docId := core.IDFromContent([]byte("doc.md"))
	chunks := ChunkMarkdown("doc.md", docId, "# Intro\n\nfirst section\n\n## Details\n\nsecond section\n")

	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Heading != "# Intro" {
		t.Fatalf("Expected '# Intro' heading, got %q", chunks[0].Heading)
	}
	if chunks[1].Heading != "## Details" {
		t.Fatalf("Expected '## Details' heading, got %q", chunks[1].Heading)
	}
	if !strings.Contains(chunks[0].Content, "first section") {
		t.Fatalf("First chunk missing its text: %q", chunks[0].Content)
	}
	// The heading line itself stays in the chunk content
	if !strings.HasPrefix(chunks[0].Content, "# Intro") {
		t.Fatalf("Expected chunk to start with heading line: %q", chunks[0].Content)
	}
}

func TestChunkMarkdownSoftLimit(t *testing.T) {
	long := strings.Repeat("word word word word word\n", 60)
	docId := core.IDFromContent([]byte("long.md"))
	chunks := ChunkMarkdown("long.md", docId, long)

	if len(chunks) < 2 {
		t.Fatalf("Expected the text to split, got %d chunks", len(chunks))
	}
	for _, chunk := range chunks {
		// One line of overshoot past the limit is allowed
		if len(chunk.Content) > proseChunkLimit+30 {
			t.Fatalf("Chunk far exceeds soft limit: %d chars", len(chunk.Content))
		}
	}
}

func TestChunkMarkdownStableIDs(t *testing.T) {
	docId := core.IDFromContent([]byte("stable.md"))
	first := ChunkMarkdown("stable.md", docId, sampleDoc)
	second := ChunkMarkdown("stable.md", docId, sampleDoc)

	if len(first) != len(second) {
		t.Fatalf("Chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Id != second[i].Id {
			t.Fatalf("Chunk %d ID not stable across runs", i)
		}
		if first[i].DocId != docId {
			t.Fatalf("Chunk %d has wrong doc ID", i)
		}
	}
}

func TestChunkMarkdownEmpty(t *testing.T) {
	docId := core.IDFromContent([]byte("empty.md"))

	if chunks := ChunkMarkdown("empty.md", docId, ""); len(chunks) != 0 {
		t.Fatalf("Expected no chunks for empty content, got %d", len(chunks))
	}
	if chunks := ChunkMarkdown("empty.md", docId, "\n\n  \n"); len(chunks) != 0 {
		t.Fatalf("Expected no chunks for blank content, got %d", len(chunks))
	}
}

func TestChunkMarkdownUnclosedFence(t *testing.T) {
	docId := core.IDFromContent([]byte("broken.md"))
	chunks := ChunkMarkdown("broken.md", docId, "intro text\n\n```go\nfunc main() {}\n")

	// An unclosed fence is dropped rather than emitted as a half chunk
	for _, chunk := range chunks {
		if chunk.Kind == core.KindCode {
			t.Fatalf("Expected no code chunk from unclosed fence, got %q", chunk.Content)
		}
	}
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 prose chunk, got %d", len(chunks))
	}
}
