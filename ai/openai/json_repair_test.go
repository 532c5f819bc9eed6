package openai

import "testing"

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"prose wrapped", "Here is the plan:\n{\"a\": 1}\nHope that helps!", `{"a": 1}`},
		{"no object", "no json here", "no json here"},
		{"nested braces", `text {"a": {"b": 2}} trailing`, `{"a": {"b": 2}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSONObject(tt.in); got != tt.want {
				t.Errorf("extractJSONObject(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"valid untouched",
			`{"enhanced_query": "x", "keywords": ["a"]}`,
			`{"enhanced_query": "x", "keywords": ["a"]}`,
		},
		{
			"missing opening quote on key",
			`{enhanced_query": "x", keywords": ["a"]}`,
			`{"enhanced_query": "x", "keywords": ["a"]}`,
		},
		{
			"trailing comma in object",
			`{"a": 1, "b": 2,}`,
			`{"a": 1, "b": 2}`,
		},
		{
			"trailing comma in array",
			`{"keywords": ["a", "b",]}`,
			`{"keywords": ["a", "b"]}`,
		},
		{
			"comma inside string preserved",
			`{"a": "one, two,"}`,
			`{"a": "one, two,"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := repairJSON(tt.in); got != tt.want {
				t.Errorf("repairJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
