package main

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/deepnoodle-ai/plpc"
	"github.com/deepnoodle-ai/plpc/media"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] file [args...]",
	Short: "Run a program or unit file",
	Long: `Run a .plp program or a .plpu unit with the given program arguments.
Flags must come before the file; everything after it is passed to the
program.`,
	Example: "  plpc run collatz.plp 27\n  plpc run --timing collatz.plpu 27",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := newLogger()
		unit, err := loadUnit(ctx, args[0], logger)
		if err != nil {
			return formatError(err, useColor(os.Stderr))
		}
		loader, err := newLoader(ctx)
		if err != nil {
			return err
		}

		start := time.Now()
		instance, err := plpc.Run(ctx, unit, args[1:],
			plpc.WithLogger(logger),
			plpc.WithLoader(loader),
			plpc.WithDisplay(media.NewHeadless(logger)),
			plpc.WithScreen(viper.GetInt32("screen.width"), viper.GetInt32("screen.height")))
		if err != nil {
			return formatError(err, useColor(os.Stderr))
		}

		if viper.GetBool("fields") {
			fields := instance.Fields()
			names := make([]string, 0, len(fields))
			for name := range fields {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", name, fields[name])
			}
		}
		if viper.GetBool("timing") {
			fmt.Fprintf(cmd.OutOrStdout(), "%v\n", time.Since(start))
		}
		return nil
	},
}

func init() {
	runCmd.Flags().SetInterspersed(false)
	runCmd.Flags().Bool("timing", false, "Show execution time")
	runCmd.Flags().Bool("fields", false, "Print the final value of every parameter")
	viper.BindPFlag("timing", runCmd.Flags().Lookup("timing"))
	viper.BindPFlag("fields", runCmd.Flags().Lookup("fields"))
}
