package utils

import "strings"

// SplitText slices text into chunks of roughly chunkSize characters with the
// given overlap between consecutive chunks. Chunk boundaries prefer the last
// whitespace near the cut so words survive intact; runes are never split.
func SplitText(text string, chunkSize int, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize
	}

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		cut := lastBreakBefore(runes, start, end)
		chunks = append(chunks, string(runes[start:cut]))
	}
	return chunks
}

// lastBreakBefore finds a whitespace boundary close to end, searching back at
// most a tenth of the chunk. Falls back to a hard cut when the text has no
// break in that range.
func lastBreakBefore(runes []rune, start, end int) int {
	limit := end - (end-start)/10
	for i := end; i > limit; i-- {
		if isBreak(runes[i-1]) {
			return i
		}
	}
	return end
}

func isBreak(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t'
}

// CleanText collapses runs of blank lines and trims trailing whitespace from
// each line. PDF extraction tends to leave both behind.
func CleanText(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	blank := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			blank++
			if blank > 1 {
				continue
			}
		} else {
			blank = 0
		}
		cleaned = append(cleaned, line)
	}
	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}
