package main

import (
	"os"

	"github.com/deepnoodle-ai/plpc"
	"github.com/deepnoodle-ai/plpc/ast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var astCmd = &cobra.Command{
	Use:   "ast [flags] file",
	Short: "Print the syntax tree of a program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := readSource(args[0])
		if err != nil {
			return err
		}
		opts := compileOptions(args[0], newLogger())
		var program *ast.Program
		if viper.GetBool("ast-check") {
			program, err = plpc.Check(cmd.Context(), source, opts...)
		} else {
			program, err = plpc.Parse(cmd.Context(), source, opts...)
		}
		if err != nil {
			return formatError(err, useColor(os.Stderr))
		}
		return ast.Fprint(cmd.OutOrStdout(), program)
	},
}

func init() {
	astCmd.Flags().Bool("check", false, "Type check the tree and show the annotations")
	viper.BindPFlag("ast-check", astCmd.Flags().Lookup("check"))
}
