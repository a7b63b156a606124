package main

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/deepnoodle-ai/plpc"
	"github.com/deepnoodle-ai/plpc/media"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

var red = color.New(color.FgRed).SprintFunc()

// initConfig reads in the config file and PLPC_* environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".plpc")
	}
	viper.SetEnvPrefix("plpc")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fatal(err)
		}
	}
}

// Reads global flags from Viper and adjusts the environment accordingly.
func processGlobalFlags() {
	if viper.GetBool("no-color") || !isTerminal(os.Stdout) {
		color.NoColor = true
	}
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func useColor(f *os.File) bool {
	return !viper.GetBool("no-color") && isTerminal(f)
}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(viper.GetString("log-level"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.WarnLevel
	}
	writer := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    !useColor(os.Stderr),
		TimeFormat: "15:04:05.000",
	}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func newLoader(ctx context.Context) (media.Loader, error) {
	var opts []media.LoaderOption
	if timeout := viper.GetDuration("http.timeout"); timeout > 0 {
		opts = append(opts, media.WithHTTPClient(&http.Client{Timeout: timeout}))
	}
	if region := viper.GetString("s3.region"); region != "" {
		client, err := media.NewS3Client(ctx, media.S3Config{
			Region:          region,
			AccessKeyID:     viper.GetString("s3.access-key-id"),
			SecretAccessKey: viper.GetString("s3.secret-access-key"),
		})
		if err != nil {
			return nil, err
		}
		opts = append(opts, media.WithS3(client))
	}
	return media.NewLoader(opts...), nil
}

// compileOptions returns the options shared by every command that compiles.
func compileOptions(filename string, logger zerolog.Logger) []plpc.Option {
	return []plpc.Option{plpc.WithFilename(filename), plpc.WithLogger(logger)}
}
