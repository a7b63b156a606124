package plpc

import (
	"github.com/deepnoodle-ai/plpc/checker"
	"github.com/deepnoodle-ai/plpc/compiler"
	"github.com/deepnoodle-ai/plpc/media"
	"github.com/deepnoodle-ai/plpc/parser"
	"github.com/deepnoodle-ai/plpc/vm"
	"github.com/rs/zerolog"
)

// Option configures a compilation or execution.
type Option func(*options)

type options struct {
	filename      string
	maxDepth      int
	noSuggestions bool
	logger        zerolog.Logger
	screen        *[2]int32
	display       media.Display
	loader        media.Loader
	observer      vm.Observer
}

func collectOptions(opts ...Option) *options {
	o := &options{logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) parserOpts() []parser.Option {
	var opts []parser.Option
	if o.filename != "" {
		opts = append(opts, parser.WithFilename(o.filename))
	}
	if o.maxDepth > 0 {
		opts = append(opts, parser.WithMaxDepth(o.maxDepth))
	}
	return opts
}

func (o *options) checkerOpts() []checker.Option {
	return []checker.Option{checker.WithSuggestions(!o.noSuggestions)}
}

func (o *options) compilerOpts(source string) []compiler.Option {
	opts := []compiler.Option{compiler.WithSource(source)}
	if o.filename != "" {
		opts = append(opts, compiler.WithFilename(o.filename))
	}
	return opts
}

func (o *options) vmOpts() []vm.Option {
	opts := []vm.Option{vm.WithLogger(o.logger)}
	if o.screen != nil {
		opts = append(opts, vm.WithScreen(o.screen[0], o.screen[1]))
	}
	if o.display != nil {
		opts = append(opts, vm.WithDisplay(o.display))
	}
	if o.loader != nil {
		opts = append(opts, vm.WithLoader(o.loader))
	}
	if o.observer != nil {
		opts = append(opts, vm.WithObserver(o.observer))
	}
	return opts
}

// WithFilename sets the filename for the source code being compiled.
// It is used in error messages and recorded on the unit.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithMaxDepth limits how deeply blocks and expressions may nest.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithoutSuggestions drops "did you mean" hints from errors about
// undeclared names.
func WithoutSuggestions() Option {
	return func(o *options) {
		o.noSuggestions = true
	}
}

// WithLogger sets the logger used for phase timings and runtime events.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithScreen sets the dimensions reported by screenwidth and screenheight.
func WithScreen(width, height int32) Option {
	return func(o *options) {
		o.screen = &[2]int32{width, height}
	}
}

// WithDisplay sets the display that frames are shown on.
func WithDisplay(display media.Display) Option {
	return func(o *options) {
		o.display = display
	}
}

// WithLoader sets the loader used to read images from files and URLs.
func WithLoader(loader media.Loader) Option {
	return func(o *options) {
		o.loader = loader
	}
}

// WithObserver sets an observer for VM execution events.
func WithObserver(observer vm.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}
