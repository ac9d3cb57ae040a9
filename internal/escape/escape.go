package escape

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Interpret processes backslash escape sequences in a string.
// Supported sequences:
//
//	\x00-\xFF  - Hex byte
//	\n         - Newline (LF)
//	\r         - Carriage return (CR)
//	\t         - Tab
//	\e         - Escape (ASCII 27)
//	\\         - Literal backslash
//	\0         - Null byte
//
// Unrecognized escape sequences pass through literally (backslash is dropped).
// For example, \" becomes ", \! becomes !.
func Interpret(s string) (string, error) {
	var result strings.Builder
	result.Grow(len(s))

	i := 0
	for i < len(s) {
		if s[i] != '\\' {
			result.WriteByte(s[i])
			i++
			continue
		}

		decoded, n, err := decode(s[i:])
		if err != nil {
			return "", fmt.Errorf("%w at position %d", err, i)
		}
		result.WriteString(decoded)
		i += n
	}

	return result.String(), nil
}

// Sequence expands a single escape sequence such as `\n` or `\"`, as
// matched by a span special pattern. Text that is not one valid sequence is
// returned unchanged.
func Sequence(seq string) string {
	if len(seq) < 2 || seq[0] != '\\' {
		return seq
	}
	decoded, n, err := decode(seq)
	if err != nil || n != len(seq) {
		return seq
	}
	return decoded
}

// decode expands the escape sequence at the start of s, which begins with a
// backslash, and reports how many bytes it used.
func decode(s string) (string, int, error) {
	if len(s) < 2 {
		return "", 0, fmt.Errorf("incomplete escape sequence")
	}

	switch s[1] {
	case 'x':
		if len(s) < 4 {
			return "", 0, fmt.Errorf("incomplete hex escape sequence")
		}
		val, err := strconv.ParseUint(s[2:4], 16, 8)
		if err != nil {
			return "", 0, fmt.Errorf("invalid hex escape \\x%s", s[2:4])
		}
		return string([]byte{byte(val)}), 4, nil
	case 'n':
		return "\n", 2, nil
	case 'r':
		return "\r", 2, nil
	case 't':
		return "\t", 2, nil
	case 'e':
		return "\x1b", 2, nil
	case '\\':
		return "\\", 2, nil
	case '0':
		return "\x00", 2, nil
	}

	r, size := utf8.DecodeRuneInString(s[1:])
	return string(r), 1 + size, nil
}
