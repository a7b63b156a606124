package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/deepnoodle-ai/plpc"
	"github.com/deepnoodle-ai/plpc/bytecode"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] file|dir...",
	Short: "Compile programs to unit files",
	Long: `Compile each program and write it to <name>.plpu in the output
directory. Every input is compiled even when an earlier one fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := inputs(args)
		if err != nil {
			return err
		}
		out := viper.GetString("out")
		if out == "" {
			out = "."
		}
		if err := os.MkdirAll(out, 0o755); err != nil {
			return err
		}
		written, err := build(cmd, paths, out)
		for _, path := range written {
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		if err != nil {
			return formatError(err, useColor(os.Stderr))
		}
		return nil
	},
}

func init() {
	buildCmd.Flags().StringP("out", "o", "", "Output directory")
	viper.BindPFlag("out", buildCmd.Flags().Lookup("out"))
}

func build(cmd *cobra.Command, paths []string, out string) ([]string, error) {
	logger := newLogger()
	var written []string
	var result *multierror.Error
	for _, path := range paths {
		source, err := readSource(path)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		unit, err := plpc.Compile(cmd.Context(), source, compileOptions(path, logger)...)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		data, err := bytecode.Marshal(unit)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", path, err))
			continue
		}
		target := filepath.Join(out, unit.Name()+UnitExtension)
		if err := os.WriteFile(target, data, 0o644); err != nil {
			result = multierror.Append(result, err)
			continue
		}
		logger.Info().Str("source", path).Str("unit", target).Msg("built")
		written = append(written, target)
	}
	return written, result.ErrorOrNil()
}
