package domain

import (
	"encoding/json"
	"testing"
)

func TestSnippetMarshalJSON(t *testing.T) {
	s := Snippet{Text: "chunk text", Score: 0.875}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `["chunk text",0.875]` {
		t.Errorf("unexpected encoding: %s", data)
	}
}

func TestSnippetMarshalJSONSlice(t *testing.T) {
	snippets := []Snippet{
		{Text: "first", Score: 0.9},
		{Text: "second", Score: 0.5},
	}

	data, err := json.Marshal(map[string][]Snippet{"snippets": snippets})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"snippets":[["first",0.9],["second",0.5]]}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}
}

func TestSnippetUnmarshalJSON(t *testing.T) {
	var s Snippet
	if err := json.Unmarshal([]byte(`["some text",0.42]`), &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Text != "some text" {
		t.Errorf("expected text %q, got %q", "some text", s.Text)
	}
	if s.Score != 0.42 {
		t.Errorf("expected score 0.42, got %f", s.Score)
	}
}
