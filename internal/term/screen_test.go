package term

import "testing"

func TestLastScreen(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no clear", "hello", "hello"},
		{"erase display", "old\x1b[2Jnew", "new"},
		{"alternate screen", "old\x1b[?1049hnew", "new"},
		{"reset", "old\x1bcnew", "new"},
		{"last of several", "a\x1b[2Jb\x1bcc\x1b[2Jd", "d"},
		{"clear at end", "old\x1b[2J", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(LastScreen([]byte(tt.input))); got != tt.want {
				t.Errorf("LastScreen(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLimitLines(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		head   int
		tail   int
		expect string
	}{
		{"empty", "", 5, 0, ""},
		{"head 3", "a\nb\nc\nd\ne", 3, 0, "a\nb\nc"},
		{"tail 3", "a\nb\nc\nd\ne", 0, 3, "c\nd\ne"},
		{"head exceeds", "a\nb", 5, 0, "a\nb"},
		{"tail exceeds", "a\nb", 0, 5, "a\nb"},
		{"tail with trailing newline", "a\nb\nc\n", 0, 2, "c\n"},
		{"head wins", "a\nb\nc", 1, 1, "a"},
		{"no limit", "a\nb", 0, 0, "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LimitLines(tt.input, tt.head, tt.tail)
			if got != tt.expect {
				t.Errorf("LimitLines(%q, %d, %d) = %q, want %q", tt.input, tt.head, tt.tail, got, tt.expect)
			}
		})
	}
}
