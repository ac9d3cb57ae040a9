package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/schovi/textkit/internal/term"
	"github.com/spf13/cobra"
)

var captureCmd = &cobra.Command{
	Use:   "capture -- <command> [args...]",
	Short: "Run a command in a PTY and print its plain-text output",
	Long: `Run a command under a pseudo-terminal, so it writes the colored or
cursor-driven output it would show a user, then print that output with ANSI
escape sequences removed.

Terminal queries (device attributes, cursor position) are answered so
programs that wait on them start normally.

--until stops the command once the plain output matches a pattern.
--last-screen keeps only what was drawn after the last screen clear.
--head/--tail limit the result to the first or last N lines.
With --rules the plain text is then rewritten by the rule table, the same way
as 'textkit rewrite'.

Examples:
  textkit capture -- ls --color=always
  textkit capture --cols 120 --last-screen -- htop -n 1
  textkit capture --until 'listening on' -- ./server
  textkit capture --tail 5 --rules redact.yaml -- env`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCapture,
}

var (
	captureColsFlag    int
	captureRowsFlag    int
	captureRawFlag     bool
	captureTimeoutFlag time.Duration
	captureOnceFlag    bool
	captureMaxIterFlag int
	captureJsonFlag    bool
	captureRulesFlag   string
	captureUntilFlag   string
	captureLastFlag    bool
	captureHeadFlag    int
	captureTailFlag    int
)

func init() {
	captureCmd.Flags().IntVar(&captureColsFlag, "cols", 80, "Terminal width")
	captureCmd.Flags().IntVar(&captureRowsFlag, "rows", 24, "Terminal height")
	captureCmd.Flags().BoolVar(&captureRawFlag, "raw", false, "Keep ANSI escape sequences")
	captureCmd.Flags().DurationVar(&captureTimeoutFlag, "timeout", 0, "Kill the command after this long (0 = no limit)")
	captureCmd.Flags().StringVarP(&captureRulesFlag, "rules", "r", "", "Rewrite the output with this rule file")
	captureCmd.Flags().BoolVar(&captureOnceFlag, "once", false, "Single rewrite pass instead of a fixed point")
	captureCmd.Flags().IntVar(&captureMaxIterFlag, "max-iterations", 0, "Give up rewriting after N passes (0 = unbounded)")
	captureCmd.Flags().BoolVar(&captureJsonFlag, "json", false, "Output as JSON")
	captureCmd.Flags().StringVar(&captureUntilFlag, "until", "", "Stop once the output matches this pattern")
	captureCmd.Flags().BoolVar(&captureLastFlag, "last-screen", false, "Keep only output after the last screen clear")
	captureCmd.Flags().IntVar(&captureHeadFlag, "head", 0, "Keep only the first N lines")
	captureCmd.Flags().IntVar(&captureTailFlag, "tail", 0, "Keep only the last N lines")
}

func runCapture(cmd *cobra.Command, args []string) error {
	if captureColsFlag <= 0 || captureRowsFlag <= 0 {
		return fmt.Errorf("--cols and --rows must be positive")
	}
	if captureHeadFlag < 0 || captureTailFlag < 0 {
		return fmt.Errorf("--head and --tail must be non-negative")
	}
	if captureHeadFlag > 0 && captureTailFlag > 0 {
		return fmt.Errorf("--head and --tail are mutually exclusive")
	}

	var opts []term.CaptureOption
	if captureUntilFlag != "" {
		re, err := regexp2.Compile(captureUntilFlag, regexp2.None)
		if err != nil {
			return fmt.Errorf("invalid --until pattern: %w", err)
		}
		opts = append(opts, term.WithUntil(re))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if captureTimeoutFlag > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, captureTimeoutFlag)
		defer cancel()
	}

	command := strings.Join(args, " ")
	res, err := term.Capture(ctx, args, captureColsFlag, captureRowsFlag, opts...)
	if err != nil {
		return fmt.Errorf("capture %q: %w", command, err)
	}
	slog.Debug("captured output", "command", command, "bytes", len(res.Output),
		"exit_code", res.ExitCode, "matched", res.Matched)

	raw := res.Output
	if captureLastFlag {
		raw = term.LastScreen(raw)
	}
	output := string(raw)
	if !captureRawFlag {
		output = term.Strip(output, captureColsFlag)
	}
	output = term.LimitLines(output, captureHeadFlag, captureTailFlag)

	if captureRulesFlag != "" {
		table, err := loadRules(captureRulesFlag)
		if err != nil {
			return err
		}
		if output, _, err = applyRules(ctx, output, table, captureOnceFlag, captureMaxIterFlag); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if captureJsonFlag {
		data, err := json.MarshalIndent(map[string]interface{}{
			"command":   command,
			"output":    output,
			"exit_code": res.ExitCode,
			"matched":   res.Matched,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal output: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprint(out, output)
	if output != "" && !strings.HasSuffix(output, "\n") {
		fmt.Fprintln(out)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("command exited with status %d", res.ExitCode)
	}
	return nil
}
