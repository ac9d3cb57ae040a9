package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/schovi/textkit/internal/escape"
	"github.com/schovi/textkit/internal/span"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [text]",
	Short: "Extract the body of a delimited span",
	Long: `Extract the body between an opening and closing delimiter, treating escape
sequences inside the body as units so an escaped delimiter does not end it.

Reads stdin when no text is given. Patterns use Perl/.NET regex syntax.

  --opening   delimiter that starts the span       (default ")
  --closing   delimiter that ends the span         (default ")
  --normal    one plain body character             (default [^"\\])
  --special   one escape sequence                  (default \\.)

With --unescape, backslash escapes in the body are interpreted
(\n, \t, \xNN, \" and so on).

Examples:
  textkit extract 'grab "a \" quote" here'                 # a \" quote
  textkit extract --unescape 'x = "tab\there"'
  textkit extract --opening '\(' --closing '\)' --normal '[^()\\]' 'f(a \) b)'
  textkit extract --all '"one" "two"'`,
	Args: cobra.ArbitraryArgs,
	RunE: runExtract,
}

var (
	extractOpeningFlag  string
	extractClosingFlag  string
	extractNormalFlag   string
	extractSpecialFlag  string
	extractUnescapeFlag bool
	extractAllFlag      bool
	extractJsonFlag     bool
	extractTimeoutFlag  time.Duration
)

func init() {
	extractCmd.Flags().StringVar(&extractOpeningFlag, "opening", span.DefaultOpening, "Opening delimiter pattern")
	extractCmd.Flags().StringVar(&extractClosingFlag, "closing", span.DefaultClosing, "Closing delimiter pattern")
	extractCmd.Flags().StringVar(&extractNormalFlag, "normal", span.DefaultNormal, "Pattern for one plain body character")
	extractCmd.Flags().StringVar(&extractSpecialFlag, "special", span.DefaultSpecial, "Pattern for one escape sequence")
	extractCmd.Flags().BoolVar(&extractUnescapeFlag, "unescape", false, "Interpret backslash escapes in the body")
	extractCmd.Flags().BoolVar(&extractAllFlag, "all", false, "Extract every span, not just the first")
	extractCmd.Flags().BoolVar(&extractJsonFlag, "json", false, "Output as JSON")
	extractCmd.Flags().DurationVar(&extractTimeoutFlag, "match-timeout", 0, "Abort a single match attempt after this long (0 = no limit)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	p, err := span.Build(
		span.WithOpening(extractOpeningFlag),
		span.WithClosing(extractClosingFlag),
		span.WithNormal(extractNormalFlag),
		span.WithSpecial(extractSpecialFlag),
		span.WithMatchTimeout(extractTimeoutFlag),
	)
	if err != nil {
		return err
	}

	var bodies []string
	if extractAllFlag {
		bodies, err = p.FindAll(text)
	} else {
		var body string
		body, err = p.Find(text)
		bodies = []string{body}
	}
	if errors.Is(err, span.ErrNoMatch) {
		return fmt.Errorf("no span matching %s", p)
	}
	if err != nil {
		return err
	}

	if extractUnescapeFlag {
		for i, body := range bodies {
			if bodies[i], err = p.Unescape(body, escape.Sequence); err != nil {
				return err
			}
		}
	}

	out := cmd.OutOrStdout()
	if extractJsonFlag {
		data, err := json.MarshalIndent(map[string]interface{}{
			"pattern": p.String(),
			"bodies":  bodies,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal output: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	for _, body := range bodies {
		fmt.Fprintln(out, body)
	}
	return nil
}
