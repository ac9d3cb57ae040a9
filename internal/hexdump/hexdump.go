package hexdump

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var ErrInvalidHex = errors.New("input contains non-hex characters")

// Decode turns a whitespace-separated hex dump back into bytes. Only hex
// digits, spaces, tabs and newlines are accepted. An odd trailing digit
// becomes the high nibble of a final byte.
func Decode(s string) ([]byte, error) {
	if i := strings.IndexFunc(s, invalid); i >= 0 {
		r, _ := utf8.DecodeRuneInString(s[i:])
		return nil, fmt.Errorf("%w: %q at position %d", ErrInvalidHex, r, i)
	}

	digits := strings.Map(func(r rune) rune {
		if isHex(r) {
			return r
		}
		return -1
	}, s)
	if len(digits)%2 == 1 {
		digits += "0"
	}

	out, err := hex.DecodeString(digits)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return out, nil
}

func invalid(r rune) bool {
	return !isHex(r) && r != ' ' && r != '\t' && r != '\n'
}

func isHex(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
