package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/schovi/textkit/internal/rewrite"
	"github.com/schovi/textkit/internal/rules"
	"github.com/spf13/cobra"
)

const rulesEnv = "TEXTKIT_RULES"

var rewriteCmd = &cobra.Command{
	Use:   "rewrite [text]",
	Short: "Rewrite text with an ordered rule table",
	Long: `Rewrite text with the rules of a YAML or TOML rule file.

Each pass applies every rule in order, at most once each, to the text left by
the rules before it. By default passes repeat until one changes nothing.
Reads stdin when no text is given. The rule file defaults to $TEXTKIT_RULES.

Rule file (YAML):
  rules:
    - pattern: "[aoeui]"
      action: splice        # replace | splice | template | upper | lower | title | strip-ansi | unescape
      value: "(1)"
    - pattern: "(?<k>\\w+)=(?<v>\\w+)"
      value: "${v}=${k}"    # template is the default action
      flags: "i"            # i m s x n

Examples:
  textkit rewrite --rules marks.yaml "a test string"
  textkit rewrite --rules marks.toml --once < input.txt
  textkit rewrite --rules grow.yaml --max-iterations 100 "x"`,
	Args: cobra.ArbitraryArgs,
	RunE: runRewrite,
}

var (
	rewriteRulesFlag   string
	rewriteOnceFlag    bool
	rewriteMaxIterFlag int
	rewriteTimeoutFlag time.Duration
	rewriteJsonFlag    bool
)

func init() {
	rewriteCmd.Flags().StringVarP(&rewriteRulesFlag, "rules", "r", "", "Rule file (.yaml, .yml or .toml)")
	rewriteCmd.Flags().BoolVar(&rewriteOnceFlag, "once", false, "Run a single pass instead of iterating to a fixed point")
	rewriteCmd.Flags().IntVar(&rewriteMaxIterFlag, "max-iterations", 0, "Give up after N passes (0 = unbounded)")
	rewriteCmd.Flags().DurationVar(&rewriteTimeoutFlag, "timeout", 0, "Give up after this long (0 = no limit)")
	rewriteCmd.Flags().BoolVar(&rewriteJsonFlag, "json", false, "Output as JSON")
}

func loadRules(path string) (rewrite.Table, error) {
	table, err := rules.Load(path)
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded rules", "path", path, "count", len(table))
	return table, nil
}

func runRewrite(cmd *cobra.Command, args []string) error {
	path := rewriteRulesFlag
	if path == "" {
		path = os.Getenv(rulesEnv)
	}
	if path == "" {
		return fmt.Errorf("--rules is required (or set %s)", rulesEnv)
	}
	table, err := loadRules(path)
	if err != nil {
		return err
	}
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if rewriteTimeoutFlag > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rewriteTimeoutFlag)
		defer cancel()
	}

	result, passes, err := applyRules(ctx, text, table, rewriteOnceFlag, rewriteMaxIterFlag)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if rewriteJsonFlag {
		data, err := json.MarshalIndent(map[string]interface{}{
			"input":  text,
			"output": result,
			"passes": passes,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal output: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	fmt.Fprintln(out, result)
	return nil
}

// applyRules runs one pass or iterates to a fixed point and reports the
// number of passes made.
func applyRules(ctx context.Context, text string, table rewrite.Table, once bool, maxIter int) (string, int, error) {
	if once {
		out, err := rewrite.Once(text, table)
		return out, 1, err
	}

	passes := 0
	out, err := rewrite.ToFixedPoint(text, table,
		rewrite.WithContext(ctx),
		rewrite.WithMaxIterations(maxIter),
		rewrite.WithPassHook(func(pass int, s string) {
			passes = pass
			slog.Debug("rewrite pass", "pass", pass, "length", len(s))
		}),
	)
	return out, passes, err
}
