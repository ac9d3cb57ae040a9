package cmd

import (
	"fmt"

	"github.com/schovi/textkit/internal/hexdump"
	"github.com/spf13/cobra"
)

var unhexdumpCmd = &cobra.Command{
	Use:   "unhexdump [hex]",
	Short: "Decode a plain hex dump into raw bytes",
	Long: `Decode hex digit pairs into raw bytes written to stdout.

Spaces, tabs and newlines between digits are ignored; any other character is
an error. Reads stdin when no argument is given.

Examples:
  textkit unhexdump "48 65 6c 6c 6f"     # Hello
  xxd -p file | textkit unhexdump > copy`,
	Args: cobra.ArbitraryArgs,
	RunE: runUnhexdump,
}

func runUnhexdump(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	data, err := hexdump.Decode(text)
	if err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
