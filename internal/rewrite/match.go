package rewrite

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// Match is the context handed to a Transform: the text around the match,
// the match itself and its capture groups.
type Match struct {
	Pre  string
	Text string
	Post string

	groups []string
	names  map[string]int
}

// NewMatch builds a context by hand, mostly for testing transforms. Group 0
// is the matched text.
func NewMatch(pre, text, post string, groups ...string) *Match {
	return &Match{
		Pre:    pre,
		Text:   text,
		Post:   post,
		groups: append([]string{text}, groups...),
	}
}

func newMatch(input string, m *regexp2.Match) *Match {
	start := byteOffset(input, 0, m.Index)
	end := byteOffset(input, start, m.Length)

	gs := m.Groups()
	match := &Match{
		Pre:    input[:start],
		Text:   input[start:end],
		Post:   input[end:],
		groups: make([]string, len(gs)),
		names:  make(map[string]int, len(gs)),
	}
	for i, g := range gs {
		if len(g.Captures) > 0 {
			match.groups[i] = g.String()
		}
		match.names[g.Name] = i
	}
	match.groups[0] = match.Text
	return match
}

// byteOffset advances n runes from byte position from. regexp2 reports
// positions in runes, with each invalid byte counted as one rune.
func byteOffset(s string, from, n int) int {
	i := from
	for ; n > 0 && i < len(s); n-- {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return i
}

// Group returns capture group i, or "" when it did not participate or does
// not exist. Group 0 is the whole match.
func (m *Match) Group(i int) string {
	if i < 0 || i >= len(m.groups) {
		return ""
	}
	return m.groups[i]
}

// Named returns the capture group called name, or "".
func (m *Match) Named(name string) string {
	i, ok := m.names[name]
	if !ok {
		return ""
	}
	return m.groups[i]
}

func (m *Match) NumGroups() int {
	return len(m.groups)
}

// Splice returns Pre + repl + Post.
func (m *Match) Splice(repl string) string {
	var b strings.Builder
	b.Grow(len(m.Pre) + len(repl) + len(m.Post))
	b.WriteString(m.Pre)
	b.WriteString(repl)
	b.WriteString(m.Post)
	return b.String()
}

// Expand substitutes group references in tmpl: $0-$9 and ${n} by index,
// ${name} by name, $$ for a literal dollar. Anything else is copied as is.
func (m *Match) Expand(tmpl string) string {
	var b strings.Builder
	b.Grow(len(tmpl))

	i := 0
	for i < len(tmpl) {
		if tmpl[i] != '$' || i+1 >= len(tmpl) {
			b.WriteByte(tmpl[i])
			i++
			continue
		}

		next := tmpl[i+1]
		switch {
		case next == '$':
			b.WriteByte('$')
			i += 2

		case next >= '0' && next <= '9':
			b.WriteString(m.Group(int(next - '0')))
			i += 2

		case next == '{':
			end := strings.IndexByte(tmpl[i+2:], '}')
			if end < 0 {
				b.WriteString(tmpl[i:])
				return b.String()
			}
			ref := tmpl[i+2 : i+2+end]
			if n, err := strconv.Atoi(ref); err == nil {
				b.WriteString(m.Group(n))
			} else {
				b.WriteString(m.Named(ref))
			}
			i += 3 + end

		default:
			b.WriteByte('$')
			i++
		}
	}
	return b.String()
}
