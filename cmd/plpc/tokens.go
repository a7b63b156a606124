package main

import (
	"fmt"
	"os"

	"github.com/deepnoodle-ai/plpc/internal/lexer"
	"github.com/deepnoodle-ai/plpc/internal/table"
	"github.com/deepnoodle-ai/plpc/internal/token"
	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens file",
	Short: "Print the tokens of a program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := readSource(args[0])
		if err != nil {
			return err
		}
		tokens, err := lexer.Scan(token.NewFile(args[0], source))
		if err != nil {
			return formatError(err, useColor(os.Stderr))
		}
		tbl := table.NewTable(cmd.OutOrStdout()).
			WithHeader([]string{"POS", "KIND", "TEXT"}).
			WithColumnAlignment([]table.Alignment{table.AlignRight, table.AlignLeft, table.AlignLeft})
		for _, tok := range tokens {
			pos := tok.Position()
			tbl.Append([]string{
				fmt.Sprintf("%d:%d", pos.LineNumber(), pos.ColumnNumber()),
				string(tok.Type),
				tok.Text(),
			})
		}
		tbl.Render()
		return nil
	},
}
