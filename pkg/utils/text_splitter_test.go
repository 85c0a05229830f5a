package utils

import (
	"strings"
	"testing"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("short text", 100, 20)
	if len(chunks) != 1 || chunks[0] != "short text" {
		t.Fatalf("expected single chunk, got %#v", chunks)
	}
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.Repeat("word ", 200) // 1000 chars
	chunks := SplitText(text, 300, 60)

	if len(chunks) < 3 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}

	// Consecutive chunks share text because the step is size minus overlap.
	for i := 1; i < len(chunks); i++ {
		tail := chunks[i-1][len(chunks[i-1])-20:]
		if !strings.Contains(text, tail) {
			t.Fatalf("chunk %d tail %q not found in source", i-1, tail)
		}
	}

	// Reassembly must retain every part of the input.
	joined := strings.Join(chunks, "")
	for _, probe := range []string{"word"} {
		if !strings.Contains(joined, probe) {
			t.Fatalf("probe %q lost during split", probe)
		}
	}
}

func TestSplitTextPrefersWordBoundary(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta ", 50)
	for _, chunk := range SplitText(text, 100, 20) {
		if strings.HasSuffix(chunk, "alph") || strings.HasSuffix(chunk, "gamm") {
			t.Fatalf("chunk cut mid-word: %q", chunk)
		}
	}
}

func TestSplitTextOverlapLargerThanSize(t *testing.T) {
	text := strings.Repeat("x", 50)
	chunks := SplitText(text, 10, 15)
	if len(chunks) == 0 {
		t.Fatal("expected progress despite overlap >= size")
	}
}

func TestCleanText(t *testing.T) {
	in := "Title   \n\n\n\nAbstract\t\nBody line.\n\n\nEnd."
	want := "Title\n\nAbstract\nBody line.\n\nEnd."
	if got := CleanText(in); got != want {
		t.Fatalf("CleanText = %q, want %q", got, want)
	}
}
