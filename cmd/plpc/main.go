package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "plpc",
	Short:         "Compile and run PLP image programs",
	Long:          "plpc compiles PLP programs to bytecode units and runs them.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		processGlobalFlags()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "plpc %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.plpc.yaml)")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.Bool("no-color", false, "Disable colored output")
	flags.Int32("screen-width", 1024, "Value of screenwidth")
	flags.Int32("screen-height", 768, "Value of screenheight")
	flags.Duration("http-timeout", 0, "Timeout for reading images over http (default 30s)")
	flags.String("s3-region", "", "Region of the s3 client used for s3:// urls")

	viper.BindPFlag("log-level", flags.Lookup("log-level"))
	viper.BindPFlag("no-color", flags.Lookup("no-color"))
	viper.BindPFlag("screen.width", flags.Lookup("screen-width"))
	viper.BindPFlag("screen.height", flags.Lookup("screen-height"))
	viper.BindPFlag("http.timeout", flags.Lookup("http-timeout"))
	viper.BindPFlag("s3.region", flags.Lookup("s3-region"))

	rootCmd.AddCommand(buildCmd, runCmd, checkCmd, disCmd, tokensCmd, astCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fatal(err)
	}
}

func fatal(msg any) {
	fmt.Fprintln(os.Stderr, red(fmt.Sprint(msg)))
	os.Exit(1)
}
