package vm

import (
	"github.com/deepnoodle-ai/plpc/bytecode"
	"github.com/deepnoodle-ai/plpc/op"
)

// StepMode controls when OnStep callbacks are triggered.
type StepMode uint8

const (
	// StepAll calls OnStep for every instruction.
	StepAll StepMode = iota

	// StepNone never calls OnStep.
	// Use for: observers that only watch variable stores.
	StepNone

	// StepSampled calls OnStep every N instructions.
	StepSampled

	// StepOnLine calls OnStep when the source line changes.
	// Use for: coverage tools, line tracing.
	StepOnLine
)

// ObserverConfig specifies what events an observer wants to receive.
type ObserverConfig struct {
	// StepMode controls OnStep callback frequency.
	StepMode StepMode

	// SampleInterval is the number of instructions between OnStep calls
	// when StepMode is StepSampled. Values <= 0 are treated as 1.
	SampleInterval int

	// ObserveStores enables OnStore callbacks.
	ObserveStores bool
}

// NewObserverConfig creates a config with store events enabled.
func NewObserverConfig(mode StepMode) ObserverConfig {
	return ObserverConfig{
		StepMode:       mode,
		SampleInterval: 1000,
		ObserveStores:  true,
	}
}

// NormalizeConfig validates and clamps config values.
func NormalizeConfig(cfg ObserverConfig) ObserverConfig {
	if cfg.StepMode == StepSampled && cfg.SampleInterval <= 0 {
		cfg.SampleInterval = 1
	}
	return cfg
}

// Observer receives VM execution events. Methods are called synchronously
// on the goroutine running the VM.
type Observer interface {
	// Config returns the observer's configuration.
	// Called once when the observer is attached to the VM.
	Config() ObserverConfig

	// OnStep is called based on the StepMode in the observer's config.
	// Returns false to halt execution immediately.
	OnStep(event StepEvent) bool

	// OnStore is called after every store to a field or local variable.
	OnStore(event StoreEvent)
}

// StepEvent contains information about a single instruction step.
type StepEvent struct {
	// Method is "init", "main" or "run".
	Method string

	// IP is the instruction pointer (index into the instruction array).
	IP int

	Opcode     op.Code
	OpcodeName string

	// Location is the source location of the instruction.
	Location bytecode.SourceLocation

	// StackDepth is the current depth of the value stack.
	StackDepth int
}

// StoreEvent describes one completed store.
type StoreEvent struct {
	// Name is the declared name of the field or local.
	Name string

	// Field is true for program parameters and false for locals.
	Field bool

	// Index is the field index or local slot.
	Index int

	Value    any
	Location bytecode.SourceLocation
}

// NoOpObserver is an Observer implementation that does nothing.
// Embed this in your observer to provide default implementations
// for methods you don't need.
type NoOpObserver struct{}

func (NoOpObserver) Config() ObserverConfig {
	return NewObserverConfig(StepNone)
}

func (NoOpObserver) OnStep(StepEvent) bool { return true }
func (NoOpObserver) OnStore(StoreEvent)    {}

var _ Observer = NoOpObserver{}

// StoreFunc adapts a function into an Observer that only receives stores.
type StoreFunc func(event StoreEvent)

func (StoreFunc) Config() ObserverConfig { return NewObserverConfig(StepNone) }
func (StoreFunc) OnStep(StepEvent) bool  { return true }
func (f StoreFunc) OnStore(e StoreEvent) { f(e) }
