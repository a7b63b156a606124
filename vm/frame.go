package vm

import "github.com/deepnoodle-ai/plpc/bytecode"

// DefaultFrameLocals is the number of local variables stored directly in the
// frame, avoiding a heap allocation for small methods.
const DefaultFrameLocals = 8

// frame is the activation of one code block.
type frame struct {
	code    *bytecode.Code
	ip      int
	storage [DefaultFrameLocals]any
	locals  []any
}

func newFrame(code *bytecode.Code) *frame {
	f := &frame{code: code}
	if n := code.LocalCount(); n > DefaultFrameLocals {
		f.locals = make([]any, n)
	} else {
		f.locals = f.storage[:n]
	}
	return f
}

// fetch returns the next instruction word and advances the ip.
func (f *frame) fetch() uint16 {
	w := f.code.InstructionAt(f.ip)
	f.ip++
	return uint16(w)
}
