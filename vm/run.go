package vm

import (
	"context"
	stderrors "errors"
	"net/url"
	"strconv"
	"time"

	"github.com/deepnoodle-ai/plpc/bytecode"
	"github.com/deepnoodle-ai/plpc/errors"
	"github.com/deepnoodle-ai/plpc/media"
	"github.com/deepnoodle-ai/plpc/op"
)

// Run executes the unit in a new Virtual Machine with the given program
// arguments and returns the resulting instance.
func Run(ctx context.Context, unit *bytecode.Unit, args []string, options ...Option) (*Instance, error) {
	return New(unit, options...).Run(ctx, args)
}

// parseArg converts a command line argument to the value of a field.
func parseArg(ft bytecode.FieldType, s string) (any, *errors.RuntimeError) {
	switch ft {
	case bytecode.IntegerField:
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, errors.RuntimeErrorf(errors.E4001, "%q is not a valid integer", s)
		}
		return int32(n), nil
	case bytecode.BooleanField:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, errors.RuntimeErrorf(errors.E4001, "%q is not a valid boolean", s)
		}
		return b, nil
	case bytecode.FileField:
		if s == "" {
			return nil, errors.RuntimeErrorf(errors.E4001, "empty file name")
		}
		return &File{Path: s}, nil
	case bytecode.URLField:
		if _, err := url.ParseRequestURI(s); err != nil {
			return nil, errors.RuntimeErrorf(errors.E4001, "%q is not a valid url", s)
		}
		return &URL{Raw: s}, nil
	}
	return nil, errors.RuntimeErrorf(errors.E4001, "fields of type %s cannot be program arguments", ft)
}

func compare(cmp op.CompareOpType, a, b any) (bool, *errors.RuntimeError) {
	var c int
	switch x := a.(type) {
	case int32:
		y, ok := b.(int32)
		if !ok {
			return false, mismatch(cmp.String(), a, b)
		}
		switch {
		case x < y:
			c = -1
		case x > y:
			c = 1
		}
	case bool:
		y, ok := b.(bool)
		if !ok {
			return false, mismatch(cmp.String(), a, b)
		}
		// false < true
		switch {
		case !x && y:
			c = -1
		case x && !y:
			c = 1
		}
	default:
		switch cmp {
		case op.Equal:
			return a == b, nil
		case op.NotEqual:
			return a != b, nil
		}
		return false, mismatch(cmp.String(), a, b)
	}
	switch cmp {
	case op.LessThan:
		return c < 0, nil
	case op.LessThanOrEqual:
		return c <= 0, nil
	case op.Equal:
		return c == 0, nil
	case op.NotEqual:
		return c != 0, nil
	case op.GreaterThan:
		return c > 0, nil
	case op.GreaterThanOrEqual:
		return c >= 0, nil
	}
	return false, errors.RuntimeErrorf(errors.E4006, "unknown comparison %d", cmp)
}

func mismatch(operator string, a, b any) *errors.RuntimeError {
	return errors.RuntimeErrorf(errors.E4006, "operator %s is not defined on (%s, %s)",
		operator, TypeName(a), TypeName(b))
}

func binaryOp(bop op.BinaryOpType, a, b any) (any, *errors.RuntimeError) {
	switch x := a.(type) {
	case int32:
		switch y := b.(type) {
		case int32:
			return intOp(bop, x, y)
		case *media.Image:
			if bop == op.Multiply {
				return imageOp(bop, y, x)
			}
		case nil:
			return nil, errors.RuntimeErrorf(errors.E4004, "image is not initialized")
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch bop {
			case op.And:
				return x && y, nil
			case op.Or:
				return x || y, nil
			}
		}
	case *media.Image:
		switch y := b.(type) {
		case int32:
			return imageOp(bop, x, y)
		case *media.Image:
			switch bop {
			case op.Add:
				return media.Add(x, y), nil
			case op.Subtract:
				return media.Sub(x, y), nil
			}
		case nil:
			return nil, errors.RuntimeErrorf(errors.E4004, "image is not initialized")
		}
	case nil:
		return nil, errors.RuntimeErrorf(errors.E4004, "image is not initialized")
	}
	return nil, mismatch(bop.String(), a, b)
}

// intOp applies an integer operator with two's complement wrapping.
func intOp(bop op.BinaryOpType, x, y int32) (any, *errors.RuntimeError) {
	switch bop {
	case op.Add:
		return x + y, nil
	case op.Subtract:
		return x - y, nil
	case op.Multiply:
		return x * y, nil
	case op.Divide, op.Modulo:
		if y == 0 {
			return nil, errors.RuntimeErrorf(errors.E4002, "division by zero")
		}
		if bop == op.Divide {
			return x / y, nil
		}
		return x % y, nil
	}
	return nil, mismatch(bop.String(), x, y)
}

func imageOp(bop op.BinaryOpType, img *media.Image, n int32) (any, *errors.RuntimeError) {
	var (
		result *media.Image
		err    error
	)
	switch bop {
	case op.Multiply:
		result = media.Mul(img, n)
	case op.Divide:
		result, err = media.Div(img, n)
	case op.Modulo:
		result, err = media.Mod(img, n)
	default:
		return nil, mismatch(bop.String(), img, n)
	}
	if stderrors.Is(err, media.ErrDivideByZero) {
		return nil, errors.RuntimeErrorf(errors.E4002, "division by zero")
	}
	return result, nil
}

func (vm *VirtualMachine) popImage() (*media.Image, error) {
	img, ok := vm.pop().(*media.Image)
	if !ok || img == nil {
		return nil, errors.RuntimeErrorf(errors.E4004, "image is not initialized")
	}
	return img, nil
}

func (vm *VirtualMachine) popFrame() (*media.Frame, error) {
	f, ok := vm.pop().(*media.Frame)
	if !ok || f == nil {
		return nil, errors.RuntimeErrorf(errors.E4004, "frame is not initialized")
	}
	return f, nil
}

func (vm *VirtualMachine) popInt() int32 {
	n, _ := vm.pop().(int32)
	return n
}

func ioError(err error) error {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &errors.RuntimeError{Code: errors.E4003, Message: "image i/o failed", Cause: err}
}

// intrinsic executes a built-in operation on the values at the top of the
// stack.
func (vm *VirtualMachine) intrinsic(ctx context.Context, id op.IntrinsicID) error {
	switch id {
	case op.ReadFile:
		file, ok := vm.pop().(*File)
		if !ok || file == nil {
			return errors.RuntimeErrorf(errors.E4004, "file is not initialized")
		}
		img, err := vm.loader.ReadFile(ctx, file.Path)
		if err != nil {
			return ioError(err)
		}
		vm.push(img)
	case op.ReadURL:
		u, ok := vm.pop().(*URL)
		if !ok || u == nil {
			return errors.RuntimeErrorf(errors.E4004, "url is not initialized")
		}
		img, err := vm.loader.ReadURL(ctx, u.Raw)
		if err != nil {
			return ioError(err)
		}
		vm.push(img)
	case op.Write:
		file, ok := vm.pop().(*File)
		if !ok || file == nil {
			return errors.RuntimeErrorf(errors.E4004, "file is not initialized")
		}
		img, err := vm.popImage()
		if err != nil {
			return err
		}
		if err := media.Write(img, file.Path); err != nil {
			return ioError(err)
		}
		vm.logger.Debug().Str("path", file.Path).Stringer("image", img).Msg("write")
		vm.push(img)
	case op.SetFrame:
		current, _ := vm.pop().(*media.Frame)
		img, err := vm.popImage()
		if err != nil {
			return err
		}
		if current == nil {
			current = media.NewFrame(img)
		} else {
			current.SetImage(img)
		}
		vm.push(current)
	case op.Show, op.Hide:
		f, err := vm.popFrame()
		if err != nil {
			return err
		}
		if id == op.Show {
			err = media.Show(vm.display, f)
		} else {
			err = media.Hide(vm.display, f)
		}
		if err != nil {
			return errors.RuntimeErrorf(errors.E4006, "%s: %s", id, err)
		}
		vm.push(f)
	case op.Move:
		y := vm.popInt()
		x := vm.popInt()
		f, err := vm.popFrame()
		if err != nil {
			return err
		}
		if err := media.Move(vm.display, f, x, y); err != nil {
			return errors.RuntimeErrorf(errors.E4006, "move: %s", err)
		}
		vm.push(f)
	case op.XLoc, op.YLoc:
		f, err := vm.popFrame()
		if err != nil {
			return err
		}
		if id == op.XLoc {
			vm.push(f.X())
		} else {
			vm.push(f.Y())
		}
	case op.ScreenWidth:
		vm.push(vm.screenWidth)
	case op.ScreenHeight:
		vm.push(vm.screenHeight)
	case op.Blur, op.Gray, op.Convolve:
		inPlace, _ := vm.pop().(bool)
		img, err := vm.popImage()
		if err != nil {
			return err
		}
		switch id {
		case op.Blur:
			vm.push(media.Blur(img, inPlace))
		case op.Gray:
			vm.push(media.Gray(img, inPlace))
		default:
			vm.push(media.Convolve(img, inPlace))
		}
	case op.Scale:
		factor := vm.popInt()
		img, err := vm.popImage()
		if err != nil {
			return err
		}
		scaled, err := media.Scale(img, factor)
		if err != nil {
			return errors.RuntimeErrorf(errors.E4006, "%s", err)
		}
		vm.push(scaled)
	case op.Width, op.Height:
		img, err := vm.popImage()
		if err != nil {
			return err
		}
		if id == op.Width {
			vm.push(img.Width())
		} else {
			vm.push(img.Height())
		}
	case op.Sleep:
		ms := vm.popInt()
		if ms > 0 {
			timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		vm.push(nil)
	default:
		return errors.RuntimeErrorf(errors.E4006, "unknown intrinsic %d", id)
	}
	return nil
}
