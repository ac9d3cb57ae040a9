package term

import (
	"context"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/dlclark/regexp2"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text unchanged", "hello world", "hello world"},
		{"color codes", "\x1b[31mred\x1b[0m", "red"},
		{"bold color", "\x1b[1;32mgreen bold\x1b[0m", "green bold"},
		{"clear screen", "\x1b[2Jcleared", "cleared"},
		{"OSC title", "\x1b]0;title\x07text", "text"},
		{"carriage returns", "line\r\n", "line\n"},
		{"keypad mode", "\x1b=text\x1b>", "text"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Strip(tt.input, 0); got != tt.expected {
				t.Errorf("Strip(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestStrip_CursorPositioning(t *testing.T) {
	got := Strip("\x1b[1;1Hfirst\x1b[2;1Hsecond", 40)
	if !strings.Contains(got, "first") || !strings.Contains(got, "second") {
		t.Fatalf("Strip() = %q, want both rows", got)
	}
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Errorf("Strip() rendered %d lines, want 2: %q", len(lines), got)
	}
}

func TestStrip_Overwrite(t *testing.T) {
	got := strings.TrimRight(Strip("\x1b[1;1Hxxxxx\x1b[1;1Hab", 20), " ")
	if got != "abxxx" {
		t.Errorf("Strip() = %q, want %q", got, "abxxx")
	}
}

func TestCapture(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("pty not supported")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := Capture(ctx, []string{"printf 'a\\033[1mb\\033[0m'"}, 80, 24)
	if err != nil {
		t.Fatalf("Capture() error: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("exit code = %d, want 0", res.ExitCode)
	}
	if got := Strip(string(res.Output), 80); got != "ab" {
		t.Errorf("stripped output = %q, want %q", got, "ab")
	}
}

func TestCapture_ExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("pty not supported")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := Capture(ctx, []string{"sh", "-c", "exit 3"}, 80, 24)
	if err != nil {
		t.Fatalf("Capture() error: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", res.ExitCode)
	}
}

func TestCapture_EmptyCommand(t *testing.T) {
	for _, argv := range [][]string{nil, {"  "}} {
		if _, err := Capture(context.Background(), argv, 80, 24); err == nil {
			t.Fatalf("Capture(%q) expected error for empty command", argv)
		}
	}
}

func TestCapture_Until(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("pty not supported")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	start := time.Now()
	res, err := Capture(ctx, []string{"printf 'ready\\n'; sleep 30"}, 80, 24,
		WithUntil(regexp2.MustCompile(`ready`, regexp2.None)))
	if err != nil {
		t.Fatalf("Capture() error: %v", err)
	}
	if !res.Matched {
		t.Error("expected Matched")
	}
	if time.Since(start) > 5*time.Second {
		t.Errorf("capture waited for the command to exit")
	}
	if !strings.Contains(string(res.Output), "ready") {
		t.Errorf("output = %q, want it to contain %q", res.Output, "ready")
	}
}

func TestCapture_AnswersCursorQuery(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("pty not supported")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := Capture(ctx, []string{"printf 'x\\033[6ny'"}, 80, 24)
	if err != nil {
		t.Fatalf("Capture() error: %v", err)
	}
	if strings.Contains(string(res.Output), "\x1b[6n") {
		t.Errorf("query left in output: %q", res.Output)
	}
}

func TestCapture_KeepsArgumentBoundaries(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("pty not supported")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tests := []struct {
		name string
		argv []string
		want string
	}{
		{"script argument with spaces", []string{"sh", "-c", "echo a b"}, "a b"},
		{"argument with spaces", []string{"printf", "%s|%s", "a b", "c"}, "a b|c"},
		{"single shell line", []string{"echo one  two"}, "one two"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Capture(ctx, tt.argv, 80, 24)
			if err != nil {
				t.Fatalf("Capture(%q) error: %v", tt.argv, err)
			}
			if got := strings.TrimSpace(Strip(string(res.Output), 80)); got != tt.want {
				t.Errorf("Capture(%q) output = %q, want %q", tt.argv, got, tt.want)
			}
		})
	}
}
