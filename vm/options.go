package vm

import (
	"github.com/deepnoodle-ai/plpc/media"
	"github.com/rs/zerolog"
)

// Option is a configuration function for a Virtual Machine.
type Option func(*VirtualMachine)

// WithScreen sets the values of screenwidth and screenheight.
func WithScreen(width, height int32) Option {
	return func(vm *VirtualMachine) {
		vm.screenWidth = width
		vm.screenHeight = height
	}
}

// WithDisplay sets the display frames are shown on. The default is a
// headless display that logs through the VM's logger.
func WithDisplay(display media.Display) Option {
	return func(vm *VirtualMachine) {
		vm.display = display
	}
}

// WithLoader sets the loader used to read images from files and URLs.
func WithLoader(loader media.Loader) Option {
	return func(vm *VirtualMachine) {
		vm.loader = loader
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(vm *VirtualMachine) {
		vm.logger = logger
	}
}

// WithObserver sets an observer for VM execution events.
// Returning false from OnStep halts execution immediately.
func WithObserver(observer Observer) Option {
	return func(vm *VirtualMachine) {
		vm.observer = observer
	}
}

// WithContextCheckInterval sets how often the VM checks ctx.Done() during
// execution, in number of instructions. A value of 0 disables the check;
// sleep and image loading still honor the context.
func WithContextCheckInterval(interval int) Option {
	return func(vm *VirtualMachine) {
		vm.contextCheckInterval = interval
	}
}
