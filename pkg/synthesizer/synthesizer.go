package synthesizer

import (
	"regexp"
	"strings"
)

const (
	DefaultThreadMarker   = "🧵"
	DefaultLongPostHeader = "BLOG POST STRUCTURE"
)

// threadSectionHeader is an alternate section boundary some responses emit
// instead of starting the thread with a numbered line.
const threadSectionHeader = "2. TWITTER THREAD"

// Output is the synthesis result split into its three publishable artifacts.
// Fields are independent: whichever sections the raw text carries are filled,
// the rest stay empty.
type Output struct {
	Digest     string
	PostThread []string
	LongPost   string
}

// Synthesizer splits a single generated response into a digest, a numbered
// short-post thread and a long-form post. The generation prompt asks for
// thread entries of the form "1/<marker> ..." and for the long post to sit
// below a header line, but model output drifts, so every section is optional.
type Synthesizer struct {
	header      string
	threadStart string
	postRe      *regexp.Regexp
}

func NewSynthesizer(threadMarker, longPostHeader string) *Synthesizer {
	if threadMarker == "" {
		threadMarker = DefaultThreadMarker
	}
	if longPostHeader == "" {
		longPostHeader = DefaultLongPostHeader
	}
	return &Synthesizer{
		header:      longPostHeader,
		threadStart: "1/" + threadMarker,
		postRe:      regexp.MustCompile(`^[1-9]/` + regexp.QuoteMeta(threadMarker)),
	}
}

// Split partitions raw output. Everything after the first header token belongs
// to the long post, a trailing colon on the header stripped. The digest is the
// prose before the thread begins; text interleaved between thread entries is
// dropped. Thread lines are collected in order of appearance.
func (s *Synthesizer) Split(raw string) Output {
	var out Output

	head, tail, found := strings.Cut(raw, s.header)
	if found {
		out.LongPost = strings.TrimSpace(strings.TrimPrefix(tail, ":"))
	}

	digest := head
	if idx := strings.Index(head, s.threadStart); idx >= 0 {
		digest = head[:idx]
	} else if idx := strings.Index(head, threadSectionHeader); idx >= 0 {
		digest = head[:idx]
	}
	out.Digest = strings.TrimSpace(digest)

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if s.postRe.MatchString(trimmed) {
			out.PostThread = append(out.PostThread, trimmed)
		}
	}

	return out
}
