package main

import (
	"fmt"
	"os"

	"github.com/deepnoodle-ai/plpc"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check file|dir...",
	Short: "Report syntax and type errors without generating code",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := inputs(args)
		if err != nil {
			return err
		}
		logger := newLogger()
		var result *multierror.Error
		for _, path := range paths {
			source, err := readSource(path)
			if err != nil {
				result = multierror.Append(result, err)
				continue
			}
			if _, err := plpc.Check(cmd.Context(), source, compileOptions(path, logger)...); err != nil {
				result = multierror.Append(result, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
		}
		if err := result.ErrorOrNil(); err != nil {
			return formatError(err, useColor(os.Stderr))
		}
		return nil
	},
}
