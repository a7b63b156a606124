package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/deepnoodle-ai/plpc/dis"
	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var disCmd = &cobra.Command{
	Use:   "dis [flags] file",
	Short: "Disassemble a program or unit file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		unit, err := loadUnit(cmd.Context(), args[0], newLogger())
		if err != nil {
			return formatError(err, useColor(os.Stderr))
		}
		if !viper.GetBool("dis-json") {
			return dis.PrintUnit(unit, cmd.OutOrStdout())
		}
		methods, err := dis.DisassembleUnit(unit)
		if err != nil {
			return err
		}
		output, err := getOutputJSON(map[string]any{
			"name":    unit.Name(),
			"id":      unit.ID().String(),
			"usage":   unit.Usage(),
			"methods": methods,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(output))
		return nil
	},
}

func init() {
	disCmd.Flags().Bool("json", false, "Print the disassembly as JSON")
	viper.BindPFlag("dis-json", disCmd.Flags().Lookup("json"))
}

func getOutputJSON(v any) ([]byte, error) {
	if !useColor(os.Stdout) {
		return json.MarshalIndent(v, "", "  ")
	}
	return prettyjson.Marshal(v)
}
