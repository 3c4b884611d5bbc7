package corpus

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitText_ShortInput(t *testing.T) {
	text := "  A short policy paragraph.  "
	chunks := SplitText(text, 800, 80)

	if len(chunks) != 1 {
		t.Fatalf("Expected exactly 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "A short policy paragraph." {
		t.Errorf("Expected trimmed input back, got %q", chunks[0])
	}
}

func TestSplitText_HardCutAdvance(t *testing.T) {
	// 1000 identical characters: no boundary exists anywhere, so the cut is
	// hard and the overlap advance produces exactly two chunks.
	text := strings.Repeat("a", 1000)
	chunks := SplitText(text, 800, 80)

	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(chunks))
	}
	if len(chunks[0]) != 800 {
		t.Errorf("Chunk 1 length = %d, want 800", len(chunks[0]))
	}
	if len(chunks[1]) != 280 {
		t.Errorf("Chunk 2 length = %d, want 280 (start 720 to 1000)", len(chunks[1]))
	}
}

func TestSplitText_PrefersParagraphBreak(t *testing.T) {
	first := strings.Repeat("x", 500)
	second := strings.Repeat("y", 500)
	text := first + "\n\n" + second

	chunks := SplitText(text, 800, 80)

	if len(chunks) < 2 {
		t.Fatalf("Expected at least 2 chunks, got %d", len(chunks))
	}
	if chunks[0] != first {
		t.Errorf("Expected first chunk cut at the paragraph break, got length %d", len(chunks[0]))
	}
}

func TestSplitText_SentenceBoundaryKeepsPeriod(t *testing.T) {
	text := strings.Repeat("word ", 100) + "End of sentence. " + strings.Repeat("more ", 100)
	chunks := SplitText(text, 600, 50)

	for i, c := range chunks[:len(chunks)-1] {
		if len(c) > 600 {
			t.Errorf("Chunk %d exceeds max size: %d", i, len(c))
		}
	}
}

func TestSplitText_NeverEmitsEmptyChunks(t *testing.T) {
	inputs := []string{
		"",
		"   \n\n   ",
		strings.Repeat("\n", 50),
		strings.Repeat("a\n\n", 400),
	}
	for _, text := range inputs {
		for i, c := range SplitText(text, 100, 10) {
			if strings.TrimSpace(c) == "" {
				t.Errorf("Empty chunk %d emitted for input %q…", i, text[:min(len(text), 10)])
			}
		}
	}
}

func TestSplitText_HardCutKeepsRunesIntact(t *testing.T) {
	// continuous cyrillic with no boundary characters forces hard cuts; an
	// odd max size lands mid-rune unless the cut backs off to a rune start
	text := strings.Repeat("политика", 100)
	chunks := SplitText(text, 101, 13)

	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if !utf8.ValidString(c) {
			t.Errorf("Chunk %d contains a split rune: %q", i, c)
		}
		if len(c) > 101 {
			t.Errorf("Chunk %d exceeds max size: %d", i, len(c))
		}
	}
}

func TestSplitText_TerminatesWithOverlapNearSize(t *testing.T) {
	// overlap one below max size is the worst case for forward progress
	text := strings.Repeat("b", 500)
	chunks := SplitText(text, 100, 99)

	if len(chunks) == 0 {
		t.Fatal("Expected chunks, got none")
	}
	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	if total < 500 {
		t.Errorf("Chunks do not cover the input: covered %d of 500", total)
	}
}
