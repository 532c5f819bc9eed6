package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "same content produces same ID",
			content: "test content",
		},
		{
			name:    "empty input",
			content: "",
		},
		{
			name:    "long content",
			content: "This is a much longer piece of content that should still hash consistently",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent([]byte(tt.content))
			id2 := IDFromContent([]byte(tt.content))

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent([]byte("content1"))
	id2 := IDFromContent([]byte("content2"))

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestID_StringRoundTrip(t *testing.T) {
	id := IDFromContent([]byte("roundtrip"))

	parsed, err := ParseID(id.String())
	if err != nil {
		t.Fatalf("ParseID() error = %v", err)
	}
	if parsed != id {
		t.Errorf("ParseID(String()) = %v, want %v", parsed, id)
	}
}

func TestParseID_Invalid(t *testing.T) {
	if _, err := ParseID("not hex"); err == nil {
		t.Error("ParseID() expected error for non-hex input")
	}
}

func TestChunkKind_String(t *testing.T) {
	tests := []struct {
		name string
		kind ChunkKind
		want string
	}{
		{name: "prose", kind: KindProse, want: "prose"},
		{name: "code", kind: KindCode, want: "code"},
		{name: "zero value", kind: ChunkKind(0), want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("ChunkKind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseQueryType(t *testing.T) {
	valid := []string{
		"definition", "how-to", "example", "comparison",
		"troubleshooting", "multi-step", "general",
	}
	for _, s := range valid {
		t.Run(s, func(t *testing.T) {
			qt, err := ParseQueryType(s)
			if err != nil {
				t.Fatalf("ParseQueryType(%q) error = %v", s, err)
			}
			if string(qt) != s {
				t.Errorf("ParseQueryType(%q) = %v", s, qt)
			}
		})
	}

	t.Run("outside the enumeration", func(t *testing.T) {
		if _, err := ParseQueryType("opinion"); err == nil {
			t.Error("ParseQueryType() expected error for unknown tag")
		}
	})
}

func TestQueryPlan_TopicCount(t *testing.T) {
	tests := []struct {
		name string
		plan QueryPlan
		want int
	}{
		{
			name: "no topics counts the whole query as one",
			plan: QueryPlan{},
			want: 1,
		},
		{
			name: "single topic",
			plan: QueryPlan{Topics: []string{"customer creation"}},
			want: 1,
		},
		{
			name: "multiple topics",
			plan: QueryPlan{Topics: []string{"customer creation", "payment charging", "error handling"}},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.plan.TopicCount(); got != tt.want {
				t.Errorf("TopicCount() = %v, want %v", got, tt.want)
			}
		})
	}
}
