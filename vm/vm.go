// Package vm provides a VirtualMachine that executes compiled units.
package vm

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/deepnoodle-ai/plpc/bytecode"
	"github.com/deepnoodle-ai/plpc/errors"
	"github.com/deepnoodle-ai/plpc/media"
	"github.com/deepnoodle-ai/plpc/op"
	"github.com/rs/zerolog"
)

const (
	MaxStackDepth = 2048

	// DefaultContextCheckInterval is the number of instructions between
	// checks of ctx.Done(). Set to 0 to disable.
	DefaultContextCheckInterval = 1000

	DefaultScreenWidth  = 1024
	DefaultScreenHeight = 768
)

// ErrHalted is returned when an observer stops execution.
var ErrHalted = stderrors.New("execution halted by observer")

// VirtualMachine runs one unit. It is not safe for concurrent use, but any
// number of machines may run the same unit at once.
type VirtualMachine struct {
	unit     *bytecode.Unit
	args     []string
	instance *Instance

	sp    int // index of the top of stack, -1 when empty
	stack [MaxStackDepth]any

	// active is the frame whose instruction is executing
	active *frame

	screenWidth  int32
	screenHeight int32
	display      media.Display
	loader       media.Loader
	logger       zerolog.Logger

	observer       Observer
	observerConfig ObserverConfig
	stepCount      int
	lastLine       int

	contextCheckInterval int
	instructionCount     int
}

// New creates a Virtual Machine for the given unit.
func New(unit *bytecode.Unit, options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		unit:                 unit,
		sp:                   -1,
		screenWidth:          DefaultScreenWidth,
		screenHeight:         DefaultScreenHeight,
		logger:               zerolog.Nop(),
		contextCheckInterval: DefaultContextCheckInterval,
	}
	for _, opt := range options {
		opt(vm)
	}
	if vm.display == nil {
		vm.display = media.NewHeadless(vm.logger)
	}
	if vm.loader == nil {
		vm.loader = media.NewLoader()
	}
	if vm.observer != nil {
		vm.observerConfig = NormalizeConfig(vm.observer.Config())
	}
	return vm
}

// Run executes the unit's main method with the given program arguments
// and returns the resulting instance.
func (vm *VirtualMachine) Run(ctx context.Context, args []string) (instance *Instance, err error) {
	if vm.unit == nil {
		return nil, &errors.InternalError{Message: "no unit to run"}
	}
	vm.args = args
	vm.instance = nil
	vm.sp = -1
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(*errors.RuntimeError); ok {
				err = vm.locate(rerr)
				return
			}
			err = &errors.InternalError{Message: fmt.Sprint(r)}
		}
	}()
	vm.logger.Debug().
		Str("unit", vm.unit.Name()).
		Str("id", vm.unit.ID().String()).
		Strs("args", args).
		Msg("run")
	if _, err := vm.exec(ctx, vm.unit.Main()); err != nil {
		return vm.instance, err
	}
	return vm.instance, nil
}

// Instance returns the instance created by the last run, if any.
func (vm *VirtualMachine) Instance() *Instance {
	return vm.instance
}

// locate attaches the position of the active instruction to err.
func (vm *VirtualMachine) locate(err *errors.RuntimeError) *errors.RuntimeError {
	if vm.active == nil || !err.Location.IsZero() {
		return err
	}
	loc := vm.active.code.LocationAt(vm.active.ip - 1)
	if loc.IsZero() {
		return err
	}
	err.Location = errors.Location{
		Filename:   vm.unit.Filename(),
		Line:       loc.Line,
		Column:     loc.Column,
		SourceLine: vm.unit.SourceLine(loc.Line),
	}
	return err
}

func (vm *VirtualMachine) push(v any) {
	if vm.sp+1 >= MaxStackDepth {
		panic(errors.RuntimeErrorf(errors.E4005, "stack overflow"))
	}
	vm.sp++
	vm.stack[vm.sp] = v
}

func (vm *VirtualMachine) pop() any {
	v := vm.stack[vm.sp]
	vm.stack[vm.sp] = nil
	vm.sp--
	return v
}

func (vm *VirtualMachine) checkContext(ctx context.Context) error {
	if vm.contextCheckInterval <= 0 {
		return nil
	}
	vm.instructionCount++
	if vm.instructionCount < vm.contextCheckInterval {
		return nil
	}
	vm.instructionCount = 0
	return ctx.Err()
}

func (vm *VirtualMachine) step(f *frame, opcode op.Code) bool {
	cfg := vm.observerConfig
	loc := f.code.LocationAt(f.ip)
	switch cfg.StepMode {
	case StepNone:
		return true
	case StepSampled:
		vm.stepCount++
		if vm.stepCount < cfg.SampleInterval {
			return true
		}
		vm.stepCount = 0
	case StepOnLine:
		if loc.Line == vm.lastLine || loc.IsZero() {
			return true
		}
		vm.lastLine = loc.Line
	}
	return vm.observer.OnStep(StepEvent{
		Method:     f.code.Name(),
		IP:         f.ip,
		Opcode:     opcode,
		OpcodeName: op.GetInfo(opcode).Name,
		Location:   loc,
		StackDepth: vm.sp + 1,
	})
}

func (vm *VirtualMachine) stored(f *frame, field bool, index int, value any) {
	if vm.observer == nil || !vm.observerConfig.ObserveStores {
		return
	}
	event := StoreEvent{
		Field:    field,
		Index:    index,
		Value:    value,
		Location: f.code.LocationAt(f.ip - 2),
	}
	if field {
		event.Name = vm.unit.FieldAt(index).Name
	} else {
		event.Name = f.code.LocalNameAt(index)
	}
	vm.observer.OnStore(event)
}

// exec runs a code block to completion and returns the value it returns.
func (vm *VirtualMachine) exec(ctx context.Context, code *bytecode.Code) (any, error) {
	f := newFrame(code)
	caller := vm.active
	vm.active = f
	defer func() { vm.active = caller }()

	for f.ip < code.InstructionCount() {
		if err := vm.checkContext(ctx); err != nil {
			return nil, err
		}
		opcode := code.InstructionAt(f.ip)
		if vm.observer != nil && !vm.step(f, opcode) {
			return nil, ErrHalted
		}
		// Jump distances are relative to the opcode
		base := f.ip
		f.ip++

		switch opcode {
		case op.Nop:
		case op.Halt:
			return nil, nil
		case op.NewInstance:
			if len(vm.args) != vm.unit.FieldCount() {
				return nil, vm.locate(errors.RuntimeErrorf(errors.E4001,
					"expected %d arguments, got %d (usage: %s)",
					vm.unit.FieldCount(), len(vm.args), vm.unit.Usage()))
			}
			vm.instance = newInstance(vm.unit)
			if _, err := vm.exec(ctx, vm.unit.Init()); err != nil {
				return nil, err
			}
		case op.InvokeRun:
			if vm.instance == nil {
				return nil, vm.locate(errors.RuntimeErrorf(errors.E4004, "run invoked without an instance"))
			}
			if _, err := vm.exec(ctx, vm.unit.Run()); err != nil {
				return nil, err
			}
		case op.ReturnValue:
			return vm.pop(), nil
		case op.JumpForward:
			f.ip = base + int(f.fetch())
		case op.JumpBackward:
			f.ip = base - int(f.fetch())
		case op.PopJumpForwardIfFalse, op.PopJumpBackwardIfFalse,
			op.PopJumpForwardIfTrue, op.PopJumpBackwardIfTrue:
			delta := int(f.fetch())
			cond, ok := vm.pop().(bool)
			if !ok {
				return nil, vm.locate(errors.RuntimeErrorf(errors.E4006, "condition is not a boolean"))
			}
			want := opcode == op.PopJumpForwardIfTrue || opcode == op.PopJumpBackwardIfTrue
			if cond == want {
				f.ip = jumpTarget(opcode, base, delta)
			}
		case op.CompareJumpForward, op.CompareJumpBackward:
			cmp := op.CompareOpType(f.fetch())
			delta := int(f.fetch())
			b := vm.pop()
			a := vm.pop()
			result, err := compare(cmp, a, b)
			if err != nil {
				return nil, vm.locate(err)
			}
			if result {
				f.ip = jumpTarget(opcode, base, delta)
			}
		case op.LoadConst:
			vm.push(code.ConstantAt(int(f.fetch())))
		case op.LoadFast:
			vm.push(f.locals[f.fetch()])
		case op.LoadField:
			vm.push(vm.instance.fields[f.fetch()])
		case op.LoadArg:
			vm.push(vm.args[f.fetch()])
		case op.StoreFast:
			idx := int(f.fetch())
			v := vm.pop()
			f.locals[idx] = v
			vm.stored(f, false, idx, v)
		case op.StoreField:
			idx := int(f.fetch())
			v := vm.pop()
			vm.instance.fields[idx] = v
			vm.stored(f, true, idx, v)
		case op.BinaryOp:
			bop := op.BinaryOpType(f.fetch())
			b := vm.pop()
			a := vm.pop()
			result, err := binaryOp(bop, a, b)
			if err != nil {
				return nil, vm.locate(err)
			}
			vm.push(result)
		case op.ParseArg:
			ft := bytecode.FieldType(f.fetch())
			s, _ := vm.pop().(string)
			v, err := parseArg(ft, s)
			if err != nil {
				return nil, vm.locate(err)
			}
			vm.push(v)
		case op.Intrinsic:
			if err := vm.intrinsic(ctx, op.IntrinsicID(f.fetch())); err != nil {
				var rerr *errors.RuntimeError
				if stderrors.As(err, &rerr) {
					return nil, vm.locate(rerr)
				}
				return nil, err
			}
		case op.Copy:
			vm.push(vm.stack[vm.sp-int(f.fetch())])
		case op.PopTop:
			vm.pop()
		case op.Nil:
			vm.push(nil)
		case op.True:
			vm.push(true)
		case op.False:
			vm.push(false)
		default:
			return nil, &errors.InternalError{
				Message: fmt.Sprintf("unknown opcode %d at %s:%d", opcode, code.Name(), base),
			}
		}
	}
	return nil, nil
}

func jumpTarget(opcode op.Code, base, delta int) int {
	if _, backward := op.IsJump(opcode); backward {
		return base - delta
	}
	return base + delta
}
