package main

import (
	"context"
	goerrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/deepnoodle-ai/plpc"
	"github.com/deepnoodle-ai/plpc/bytecode"
	"github.com/deepnoodle-ai/plpc/errors"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

// UnitExtension is the file extension of marshaled units.
const UnitExtension = ".plpu"

// readSource returns the contents of path, or of stdin when path is "-".
func readSource(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// loadUnit compiles a source file or unmarshals a unit file.
func loadUnit(ctx context.Context, path string, logger zerolog.Logger) (*bytecode.Unit, error) {
	if filepath.Ext(path) == UnitExtension {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return bytecode.Unmarshal(data)
	}
	source, err := readSource(path)
	if err != nil {
		return nil, err
	}
	return plpc.Compile(ctx, source, compileOptions(path, logger)...)
}

// formatError renders compiler and runtime errors with source context.
func formatError(err error, color bool) error {
	var merr *multierror.Error
	if goerrors.As(err, &merr) {
		formatter := errors.NewFormatter(color)
		var formatted []*errors.FormattedError
		var others []error
		for _, e := range merr.Errors {
			var fe errors.FormattableError
			if goerrors.As(e, &fe) {
				formatted = append(formatted, fe.ToFormatted())
			} else {
				others = append(others, e)
			}
		}
		msg := formatter.FormatMultiple(formatted)
		for _, e := range others {
			msg += "\n" + e.Error()
		}
		return goerrors.New(strings.TrimPrefix(msg, "\n"))
	}
	var fe errors.FormattableError
	if goerrors.As(err, &fe) {
		return goerrors.New(errors.NewFormatter(color).Format(fe.ToFormatted()))
	}
	return err
}

// inputs expands the arguments of commands that take several source
// files, so that "dir" means every .plp file it contains.
func inputs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(arg, "*.plp"))
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%s contains no .plp files", arg)
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}
