package term

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/creack/pty"
	"github.com/dlclark/regexp2"
)

const readBufferSize = 4096

// Result is the output of a captured command.
type Result struct {
	Output   []byte
	ExitCode int
	// Matched reports that capture stopped because the Until pattern matched.
	Matched bool
}

type captureConfig struct {
	until *regexp2.Regexp
}

type CaptureOption func(*captureConfig)

// WithUntil stops the capture and kills the command as soon as the output,
// with escape sequences removed, matches re.
func WithUntil(re *regexp2.Regexp) CaptureOption {
	return func(c *captureConfig) { c.until = re }
}

// Capture runs argv under a pseudo-terminal sized cols x rows and collects
// everything it writes until it exits. Arguments are passed through as
// given; a lone argument containing spaces is run as a shell line with
// sh -c. Terminal queries in the output are answered and removed.
// Cancelling ctx kills the process.
func Capture(ctx context.Context, argv []string, cols, rows int, opts ...CaptureOption) (*Result, error) {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return nil, fmt.Errorf("command is required")
	}
	var cfg captureConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	runCtx, kill := context.WithCancel(ctx)
	defer kill()

	var cmd *exec.Cmd
	if len(argv) == 1 && strings.ContainsAny(argv[0], " \t") {
		cmd = exec.CommandContext(runCtx, "sh", "-c", argv[0])
	} else {
		cmd = exec.CommandContext(runCtx, argv[0], argv[1:]...)
	}
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)})
	if err != nil {
		return nil, fmt.Errorf("start pty: %w", err)
	}
	defer ptmx.Close()

	res := &Result{}
	var out bytes.Buffer
	buf := make([]byte, readBufferSize)
	for {
		n, err := ptmx.Read(buf)
		out.Write(answerQueries(buf[:n], ptmx))
		if n > 0 && cfg.until != nil {
			matched, merr := cfg.until.MatchString(stripSequences(out.String()))
			if merr != nil {
				kill()
				cmd.Wait() //nolint:errcheck
				return nil, fmt.Errorf("match until pattern: %w", merr)
			}
			if matched {
				res.Matched = true
				kill()
				break
			}
		}
		if err != nil {
			// Linux reports EIO on the master once the child side closes.
			if !errors.Is(err, io.EOF) && !errors.Is(err, syscall.EIO) {
				cmd.Wait() //nolint:errcheck
				return nil, fmt.Errorf("read pty: %w", err)
			}
			break
		}
	}

	res.Output = out.Bytes()
	if err := cmd.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
		if res.Matched {
			return res, nil
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return res, fmt.Errorf("wait: %w", err)
		}
		res.ExitCode = exitErr.ExitCode()
	}
	return res, nil
}
