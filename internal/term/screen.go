package term

import (
	"bytes"
	"strings"
)

var clearSequences = [][]byte{
	[]byte("\x1b[2J"),     // erase display
	[]byte("\x1b[?1049h"), // alternate screen on
	[]byte("\x1bc"),       // reset
}

// LastScreen returns the part of data written after the last screen clear,
// alternate screen switch or terminal reset. Data without one is returned
// whole.
func LastScreen(data []byte) []byte {
	end := -1
	for _, seq := range clearSequences {
		if i := bytes.LastIndex(data, seq); i >= 0 && i+len(seq) > end {
			end = i + len(seq)
		}
	}
	if end < 0 {
		return data
	}
	return data[end:]
}

// LimitLines keeps the first head lines of s, or when head is zero the last
// tail lines. Zero for both returns s unchanged.
func LimitLines(s string, head, tail int) string {
	if s == "" {
		return ""
	}

	lines := strings.Split(s, "\n")
	switch {
	case head > 0:
		if head >= len(lines) {
			return s
		}
		return strings.Join(lines[:head], "\n")
	case tail > 0:
		if tail >= len(lines) {
			return s
		}
		return strings.Join(lines[len(lines)-tail:], "\n")
	}
	return s
}
