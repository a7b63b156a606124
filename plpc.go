// Package plpc compiles and runs PLP programs.
//
// A program is compiled in four phases: the source is scanned into tokens,
// parsed into an AST, checked for name and type errors, and lowered to a
// bytecode.Unit. Every phase stops at the first error it finds. The unit is
// immutable, so it may be marshaled, cached and run any number of times,
// concurrently if needed:
//
//	unit, err := plpc.Compile(ctx, source, plpc.WithFilename("collatz.plp"))
//	if err != nil {
//		return err
//	}
//	instance, err := plpc.Run(ctx, unit, []string{"27"})
package plpc

import (
	"context"
	"time"

	"github.com/deepnoodle-ai/plpc/ast"
	"github.com/deepnoodle-ai/plpc/bytecode"
	"github.com/deepnoodle-ai/plpc/checker"
	"github.com/deepnoodle-ai/plpc/compiler"
	"github.com/deepnoodle-ai/plpc/parser"
	"github.com/deepnoodle-ai/plpc/vm"
)

// Parse scans and parses the source without checking it.
func Parse(ctx context.Context, source string, opts ...Option) (*ast.Program, error) {
	o := collectOptions(opts...)
	start := time.Now()
	program, err := parser.Parse(ctx, source, o.parserOpts()...)
	if err != nil {
		o.logger.Debug().Err(err).Str("file", o.filename).Msg("parse failed")
		return nil, err
	}
	o.logger.Debug().
		Str("file", o.filename).
		Str("program", program.Name.Text()).
		Dur("elapsed", time.Since(start)).
		Msg("parsed")
	return program, nil
}

// Check parses the source and resolves and type checks the resulting
// program. The returned tree is fully annotated.
func Check(ctx context.Context, source string, opts ...Option) (*ast.Program, error) {
	o := collectOptions(opts...)
	program, err := Parse(ctx, source, opts...)
	if err != nil {
		return nil, err
	}
	if err := checker.Check(ctx, program, o.checkerOpts()...); err != nil {
		o.logger.Debug().Err(err).Str("file", o.filename).Msg("check failed")
		return nil, err
	}
	return program, nil
}

// Compile runs every compilation phase and returns the resulting unit.
func Compile(ctx context.Context, source string, opts ...Option) (*bytecode.Unit, error) {
	o := collectOptions(opts...)
	program, err := Check(ctx, source, opts...)
	if err != nil {
		return nil, err
	}
	unit, err := compiler.Compile(program, o.compilerOpts(source)...)
	if err != nil {
		return nil, err
	}
	stats := unit.Stats()
	o.logger.Debug().
		Str("unit", unit.Name()).
		Str("id", unit.ID().String()).
		Int("instructions", stats.InstructionCount).
		Int("constants", stats.ConstantCount).
		Msg("compiled")
	return unit, nil
}

// Run executes a compiled unit with the given program arguments. Each call
// uses a fresh virtual machine.
func Run(ctx context.Context, unit *bytecode.Unit, args []string, opts ...Option) (*vm.Instance, error) {
	o := collectOptions(opts...)
	return vm.Run(ctx, unit, args, o.vmOpts()...)
}

// Eval compiles the source and runs it. It is equivalent to Compile
// followed by Run.
func Eval(ctx context.Context, source string, args []string, opts ...Option) (*vm.Instance, error) {
	unit, err := Compile(ctx, source, opts...)
	if err != nil {
		return nil, err
	}
	return Run(ctx, unit, args, opts...)
}
