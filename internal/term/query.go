package term

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
)

const (
	primaryAttrs   = "\x1b[?62;1;2;6;7;8;9;15;22c"
	secondaryAttrs = "\x1b[>1;1;0c"
)

// Queries some programs send at startup and wait on before drawing anything.
var queryReplies = []struct {
	query string
	reply string
}{
	{"\x1b[c", primaryAttrs},
	{"\x1b[0c", primaryAttrs},
	{"\x1b[>c", secondaryAttrs},
	{"\x1b[>0c", secondaryAttrs},
	{"\x1b[6n", "\x1b[1;1R"},
	{"\x1b[?u", "\x1b[?0u"},
}

var modeQuery = regexp.MustCompile(`^\x1b\[\?(\d+)\$p`)

// answerQueries removes terminal queries from chunk and writes the reply a
// VT220 would give for each one to w. A query split across two chunks is
// passed through unanswered.
func answerQueries(chunk []byte, w io.Writer) []byte {
	if bytes.IndexByte(chunk, 0x1b) < 0 {
		return chunk
	}

	out := make([]byte, 0, len(chunk))
	for i := 0; i < len(chunk); {
		if chunk[i] != 0x1b {
			out = append(out, chunk[i])
			i++
			continue
		}
		n, reply := matchQuery(chunk[i:])
		if n == 0 {
			out = append(out, chunk[i])
			i++
			continue
		}
		w.Write([]byte(reply)) //nolint:errcheck
		i += n
	}
	return out
}

func matchQuery(data []byte) (int, string) {
	for _, q := range queryReplies {
		if bytes.HasPrefix(data, []byte(q.query)) {
			return len(q.query), q.reply
		}
	}
	if m := modeQuery.FindSubmatch(data); m != nil {
		return len(m[0]), fmt.Sprintf("\x1b[?%s;0$y", m[1])
	}
	return 0, ""
}
