package term

import (
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/x/vt"
)

const (
	DefaultCols = 200
	maxRows     = 5000
)

var escapePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z~]`),            // CSI (colors, cursor, erase)
	regexp.MustCompile(`\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`), // OSC
	regexp.MustCompile(`\x1b[()][AB012]`),                    // character set selection
	regexp.MustCompile(`\x1b[=>]`),                           // keypad modes
	regexp.MustCompile(`\x1b\[\?[0-9;]*[hlsr]`),             // DEC private modes
	regexp.MustCompile(`\x1b[A-Za-z]`),                       // ESC + letter
	regexp.MustCompile(`\r`),
}

var cursorMove = regexp.MustCompile(`\x1b\[\d*;?\d*[HFfGdABCD]`)

// Strip removes ANSI escape sequences from s. Output that moves the cursor
// is rendered through a VT emulator cols wide so overwritten cells come out
// right; anything else is stripped with regular expressions.
func Strip(s string, cols int) string {
	if s == "" {
		return ""
	}
	if cols <= 0 {
		cols = DefaultCols
	}

	if !cursorMove.MatchString(s) {
		return stripSequences(s)
	}
	return render(s, cols)
}

func stripSequences(s string) string {
	for _, re := range escapePatterns {
		s = re.ReplaceAllString(s, "")
	}
	return s
}

func render(s string, cols int) string {
	rows := min(strings.Count(s, "\n")+100, maxRows)

	emu := vt.NewEmulator(cols, rows)

	// Query responses (DA1 and friends) go to the emulator's pipe; it must be
	// drained or writes block.
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		io.Copy(io.Discard, emu) //nolint:errcheck
	}()

	emu.WriteString(onlcr(s))
	out := emu.String()
	if pw, ok := emu.InputPipe().(io.Closer); ok {
		pw.Close()
	}
	<-drained
	emu.Close()

	out = strings.ReplaceAll(out, "\r\n", "\n")
	out = strings.ReplaceAll(out, "\r", "")
	return trimTrailingBlankLines(out)
}

// onlcr turns bare \n into \r\n the way a terminal driver with ONLCR does;
// the emulator treats \n as a pure line feed.
func onlcr(s string) string {
	var b strings.Builder
	b.Grow(len(s) + strings.Count(s, "\n"))
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' && (i == 0 || s[i-1] != '\r') {
			b.WriteByte('\r')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func trimTrailingBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	last := len(lines) - 1
	for last >= 0 && strings.TrimRight(lines[last], " ") == "" {
		last--
	}
	if last < 0 {
		return ""
	}
	return strings.Join(lines[:last+1], "\n")
}
