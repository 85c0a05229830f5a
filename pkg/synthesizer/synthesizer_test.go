package synthesizer

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitFullResponse(t *testing.T) {
	s := NewSynthesizer("m", "LONG_POST_MARKER")

	raw := "This paper introduces a new retrieval method.\n" +
		"It outperforms prior baselines.\n" +
		"1/m Big news in retrieval research today.\n" +
		"2/m The method indexes passages twice.\n" +
		"3/m Results beat the previous state of the art.\n" +
		"LONG_POST_MARKER\n" +
		"## Why this matters\n" +
		"A longer treatment of the same result."

	out := s.Split(raw)

	wantDigest := "This paper introduces a new retrieval method.\nIt outperforms prior baselines."
	if out.Digest != wantDigest {
		t.Errorf("digest = %q, want %q", out.Digest, wantDigest)
	}

	wantThread := []string{
		"1/m Big news in retrieval research today.",
		"2/m The method indexes passages twice.",
		"3/m Results beat the previous state of the art.",
	}
	if !reflect.DeepEqual(out.PostThread, wantThread) {
		t.Errorf("thread = %#v, want %#v", out.PostThread, wantThread)
	}

	wantLong := "## Why this matters\nA longer treatment of the same result."
	if out.LongPost != wantLong {
		t.Errorf("long post = %q, want %q", out.LongPost, wantLong)
	}
}

func TestSplitMissingSections(t *testing.T) {
	s := NewSynthesizer("m", "LONG_POST_MARKER")

	cases := []struct {
		name string
		raw  string
		want Output
	}{
		{
			name: "digest only",
			raw:  "Just a plain summary with no markers.",
			want: Output{Digest: "Just a plain summary with no markers."},
		},
		{
			name: "no header keeps long post empty",
			raw:  "Summary text.\n1/m Only thread entry.",
			want: Output{Digest: "Summary text.", PostThread: []string{"1/m Only thread entry."}},
		},
		{
			name: "header without thread",
			raw:  "Summary text.\nLONG_POST_MARKER\nLong body.",
			want: Output{Digest: "Summary text.", LongPost: "Long body."},
		},
		{
			name: "empty input",
			raw:  "",
			want: Output{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := s.Split(tc.raw)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Split(%q) = %#v, want %#v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestSplitDigestEndsWhereThreadBegins(t *testing.T) {
	s := NewSynthesizer("m", "LONG_POST_MARKER")

	raw := "Chat intro.\n" +
		"1/m First entry.\n" +
		"Some prose between thread lines.\n" +
		"2/m Second entry."

	out := s.Split(raw)

	if out.Digest != "Chat intro." {
		t.Errorf("digest = %q, want %q", out.Digest, "Chat intro.")
	}
	wantThread := []string{"1/m First entry.", "2/m Second entry."}
	if !reflect.DeepEqual(out.PostThread, wantThread) {
		t.Errorf("thread = %#v, want %#v", out.PostThread, wantThread)
	}
}

func TestSplitAlternateThreadSection(t *testing.T) {
	s := NewSynthesizer("m", "LONG_POST_MARKER")

	raw := "Digest prose.\n" +
		"2. TWITTER THREAD\n" +
		"Thread intro without numbered lines."

	out := s.Split(raw)

	if out.Digest != "Digest prose." {
		t.Errorf("digest = %q, want %q", out.Digest, "Digest prose.")
	}
}

func TestSplitStripsHeaderColon(t *testing.T) {
	s := NewSynthesizer("m", "LONG_POST_MARKER")

	raw := "Digest.\nLONG_POST_MARKER:\nLong body."

	out := s.Split(raw)

	if out.LongPost != "Long body." {
		t.Errorf("long post = %q, want %q", out.LongPost, "Long body.")
	}
}

func TestSplitIgnoresMalformedMarkers(t *testing.T) {
	s := NewSynthesizer("m", "LONG_POST_MARKER")

	raw := "10/m numbered past nine stays in the digest.\n" +
		"0/m zero is not a thread position.\n" +
		"1/x wrong marker.\n" +
		"1/m the real one."

	out := s.Split(raw)

	if len(out.PostThread) != 1 || out.PostThread[0] != "1/m the real one." {
		t.Errorf("thread = %#v, want exactly the single valid entry", out.PostThread)
	}
	for _, line := range []string{"10/m", "0/m", "1/x"} {
		if !strings.Contains(out.Digest, line) {
			t.Errorf("digest should retain malformed line %q, got %q", line, out.Digest)
		}
	}
}

func TestSplitDefaultMarkers(t *testing.T) {
	s := NewSynthesizer("", "")

	raw := "Digest line.\n" +
		"1/🧵 First post.\n" +
		"BLOG POST STRUCTURE\n" +
		"Long form."

	out := s.Split(raw)

	if out.Digest != "Digest line." {
		t.Errorf("digest = %q", out.Digest)
	}
	if len(out.PostThread) != 1 || out.PostThread[0] != "1/🧵 First post." {
		t.Errorf("thread = %#v", out.PostThread)
	}
	if out.LongPost != "Long form." {
		t.Errorf("long post = %q", out.LongPost)
	}
}
