package chunker

import (
	"strings"
	"testing"
)

func TestChunkEmpty(t *testing.T) {
	if got := Chunk("", DefaultMaxLen); len(got) != 0 {
		t.Errorf("expected no chunks for empty input, got %v", got)
	}
	if got := Chunk("   \n\t ", DefaultMaxLen); len(got) != 0 {
		t.Errorf("expected no chunks for whitespace input, got %v", got)
	}
}

func TestChunkSingleSentence(t *testing.T) {
	got := Chunk("This is a single sentence.", DefaultMaxLen)
	if len(got) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(got))
	}
	if got[0] != "This is a single sentence." {
		t.Errorf("unexpected chunk: %q", got[0])
	}
}

func TestChunkRespectsMaxLen(t *testing.T) {
	text := "One two three. Four five six. Seven eight nine. Ten eleven twelve."
	got := Chunk(text, 35)

	if len(got) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(got))
	}
	for i, c := range got {
		if len(c) > 35 {
			t.Errorf("chunk %d exceeds max length: %d chars: %q", i, len(c), c)
		}
	}
}

func TestChunkSentenceAligned(t *testing.T) {
	text := "First sentence. Second sentence! Third sentence? Fourth sentence."
	got := Chunk(text, 40)

	for i, c := range got {
		if !strings.HasSuffix(c, ".") && !strings.HasSuffix(c, "!") && !strings.HasSuffix(c, "?") {
			t.Errorf("chunk %d does not end at a sentence boundary: %q", i, c)
		}
	}
}

func TestChunkLosslessSentenceSequence(t *testing.T) {
	text := "Alpha beta gamma. Delta epsilon. Zeta eta theta! Iota kappa? Lambda mu."
	got := Chunk(text, 30)

	// Concatenating chunks with single spaces recovers the sentence
	// sequence modulo whitespace normalization.
	joined := strings.Join(got, " ")
	want := strings.Join(strings.Fields(text), " ")
	if joined != want {
		t.Errorf("chunk concatenation lost content:\nwant %q\ngot  %q", want, joined)
	}
}

func TestChunkOversizedSentence(t *testing.T) {
	long := strings.Repeat("word ", 50) // ~250 chars, no sentence boundary
	long = strings.TrimSpace(long) + "."

	got := Chunk(long, 100)
	if len(got) != 1 {
		t.Fatalf("expected oversized sentence as a single chunk, got %d chunks", len(got))
	}
	if got[0] != long {
		t.Errorf("oversized sentence was altered: %q", got[0])
	}
}

func TestChunkOversizedSentenceBetweenOthers(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("verylongword ", 20)) + "."
	text := "Short one. " + long + " Short two."

	got := Chunk(text, 50)
	found := false
	for _, c := range got {
		if c == long {
			found = true
		} else if len(c) > 50 {
			t.Errorf("non-oversized chunk exceeds limit: %q", c)
		}
	}
	if !found {
		t.Error("oversized sentence not emitted verbatim")
	}
}

func TestChunkStripsCarriageReturns(t *testing.T) {
	got := Chunk("First line.\r\nSecond line.", DefaultMaxLen)
	for _, c := range got {
		if strings.Contains(c, "\r") {
			t.Errorf("chunk contains carriage return: %q", c)
		}
	}
}

func TestChunkDeterministic(t *testing.T) {
	text := "Some repeated text. More of it! Even more? Yes, more."
	a := Chunk(text, 25)
	b := Chunk(text, 25)
	if len(a) != len(b) {
		t.Fatalf("non-deterministic chunk count: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("non-deterministic chunk %d: %q vs %q", i, a[i], b[i])
		}
	}
}

func TestChunkZeroMaxLenUsesDefault(t *testing.T) {
	got := Chunk("A tiny sentence.", 0)
	if len(got) != 1 || got[0] != "A tiny sentence." {
		t.Errorf("unexpected result with zero max length: %v", got)
	}
}
