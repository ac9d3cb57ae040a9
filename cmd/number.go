package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/schovi/textkit/internal/numeric"
	"github.com/spf13/cobra"
)

var numberCmd = &cobra.Command{
	Use:   "number <token> [token...]",
	Short: "Parse tokens into the most specific numeric value",
	Long: `Parse each token into the most specific numeric value it denotes.

Tokens are tried, in order, as:
  integer    25, -7, 0x1f, 0b101, 0o17, 07, 1_000
  rational   09, 1.25 (5/4), 3/6 (1/2), 1.5e3
  float      .5, 5., 0x1.8p1
  special    Infinity, -Infinity, NaN (exact spelling)
  complex    3+3i, 5i, 1-2j, 2@0.5 (polar)

The whole token must match; surrounding whitespace is not trimmed.

Examples:
  textkit number 0x1f 1.25 NaN
  textkit number --check 42 x     # exits non-zero, prints true/false per token
  textkit number --json 3+3i`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNumber,
}

var (
	numberCheckFlag bool
	numberJsonFlag  bool
)

func init() {
	numberCmd.Flags().BoolVar(&numberCheckFlag, "check", false, "Only report whether each token is numeric")
	numberCmd.Flags().BoolVar(&numberJsonFlag, "json", false, "Output as JSON")
}

type numberResult struct {
	Token   string         `json:"token"`
	Numeric bool           `json:"numeric"`
	Value   *numeric.Value `json:"value,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func runNumber(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	results := make([]numberResult, 0, len(args))
	failed := 0
	for _, token := range args {
		res := numberResult{Token: token}
		if numberCheckFlag {
			res.Numeric = numeric.IsNumeric(token)
		} else if v, err := numeric.Parse(token); err != nil {
			res.Error = err.Error()
		} else {
			res.Numeric = true
			res.Value = &v
		}
		if !res.Numeric {
			failed++
		}
		slog.Debug("parsed token", "token", token, "numeric", res.Numeric)
		results = append(results, res)
	}

	if numberJsonFlag {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal output: %w", err)
		}
		fmt.Fprintln(out, string(data))
	} else {
		for _, res := range results {
			switch {
			case numberCheckFlag:
				fmt.Fprintf(out, "%s\t%t\n", res.Token, res.Numeric)
			case res.Numeric:
				fmt.Fprintf(out, "%s\t%s\t%s\n", res.Token, res.Value.Kind(), res.Value)
			default:
				fmt.Fprintf(out, "%s\tnot numeric\n", res.Token)
			}
		}
	}

	if numberCheckFlag && failed > 0 {
		return fmt.Errorf("%d of %d tokens are not numeric", failed, len(args))
	}
	return nil
}
