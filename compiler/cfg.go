package compiler

import (
	"fmt"
	"math"

	"github.com/deepnoodle-ai/plpc/bytecode"
	"github.com/deepnoodle-ai/plpc/op"
)

// EdgeKind classifies how control passes from a block to a successor.
type EdgeKind int

const (
	FallThrough EdgeKind = iota
	Jump
	CondJump
)

func (k EdgeKind) String() string {
	switch k {
	case FallThrough:
		return "fallthrough"
	case Jump:
		return "jump"
	case CondJump:
		return "cond"
	default:
		return fmt.Sprintf("EdgeKind(%d)", int(k))
	}
}

// Edge is a control flow edge to a successor block.
type Edge struct {
	Kind EdgeKind
	To   *Block
}

// Branch selects a family of jump opcodes. The direction of the emitted
// opcode is decided during linearization.
type Branch int

const (
	Always Branch = iota
	IfFalse
	IfTrue
	Compare // operand: CompareOpType
)

var branchOps = map[Branch][2]op.Code{
	Always:  {op.JumpForward, op.JumpBackward},
	IfFalse: {op.PopJumpForwardIfFalse, op.PopJumpBackwardIfFalse},
	IfTrue:  {op.PopJumpForwardIfTrue, op.PopJumpBackwardIfTrue},
	Compare: {op.CompareJumpForward, op.CompareJumpBackward},
}

type instruction struct {
	code     op.Code
	operands []op.Code
	loc      bytecode.SourceLocation

	// Set on jumps only
	branch Branch
	target *Block
}

func (i instruction) size() int {
	n := 1 + len(i.operands)
	if i.target != nil {
		n++ // distance
	}
	return n
}

// Block is a basic block: a straight run of instructions entered only at
// the top and left only through its final instruction.
type Block struct {
	id     int
	instrs []instruction
	succs  []Edge

	placed bool
	// closed is set once the block ends in a jump or return. Unconditional
	// ends leave no fall through edge.
	closed        bool
	unconditional bool

	offset int
}

// ID returns the creation index of the block.
func (b *Block) ID() int { return b.id }

// Len returns the number of instructions in the block.
func (b *Block) Len() int { return len(b.instrs) }

// Successors returns the outgoing edges of the block.
func (b *Block) Successors() []Edge { return b.succs }

func (b *Block) addEdge(kind EdgeKind, to *Block) {
	b.succs = append(b.succs, Edge{Kind: kind, To: to})
}

// Graph is the control flow graph of one method under construction. New
// blocks double as labels: NewBlock allocates one and Place positions it
// after everything emitted so far.
type Graph struct {
	blocks  []*Block
	order   []*Block
	current *Block
}

// NewGraph returns a graph containing a placed, empty entry block.
func NewGraph() *Graph {
	g := &Graph{}
	g.Place(g.NewBlock())
	return g
}

// NewBlock allocates a block that is not yet part of the layout.
func (g *Graph) NewBlock() *Block {
	b := &Block{id: len(g.blocks)}
	g.blocks = append(g.blocks, b)
	return b
}

// Place appends b to the layout and makes it the current block.
func (g *Graph) Place(b *Block) {
	if b.placed {
		panic(fmt.Sprintf("compiler: block %d placed twice", b.id))
	}
	if g.current != nil && !g.current.unconditional {
		g.current.addEdge(FallThrough, b)
	}
	b.placed = true
	g.order = append(g.order, b)
	g.current = b
}

// Current returns the block being emitted into.
func (g *Graph) Current() *Block {
	return g.current
}

// Blocks returns the placed blocks in layout order.
func (g *Graph) Blocks() []*Block {
	return g.order
}

// open returns the block to emit into, starting a new one when the current
// block already ended in a jump.
func (g *Graph) open() *Block {
	if g.current.closed {
		g.Place(g.NewBlock())
	}
	return g.current
}

// Emit appends a non-jump instruction.
func (g *Graph) Emit(loc bytecode.SourceLocation, code op.Code, operands ...op.Code) {
	b := g.open()
	b.instrs = append(b.instrs, instruction{code: code, operands: operands, loc: loc})
	if code == op.ReturnValue || code == op.Halt {
		b.closed = true
		b.unconditional = true
	}
}

// EmitJump appends a jump to target, closing the current block. Operands
// precede the distance, which is filled in by Linearize.
func (g *Graph) EmitJump(loc bytecode.SourceLocation, branch Branch, target *Block, operands ...op.Code) {
	b := g.open()
	b.instrs = append(b.instrs, instruction{
		code:     branchOps[branch][0],
		operands: operands,
		loc:      loc,
		branch:   branch,
		target:   target,
	})
	b.closed = true
	if branch == Always {
		b.unconditional = true
		b.addEdge(Jump, target)
	} else {
		b.addEdge(CondJump, target)
	}
}

// Linearize lays the placed blocks out in order and resolves every jump to
// a relative distance from its own opcode. It returns one location per
// instruction word.
func (g *Graph) Linearize() ([]op.Code, []bytecode.SourceLocation, error) {
	offset := 0
	for _, b := range g.order {
		b.offset = offset
		for _, instr := range b.instrs {
			offset += instr.size()
		}
	}
	code := make([]op.Code, 0, offset)
	locs := make([]bytecode.SourceLocation, 0, offset)
	for _, b := range g.order {
		for _, instr := range b.instrs {
			pos := len(code)
			opcode := instr.code
			operands := instr.operands
			if instr.target != nil {
				if !instr.target.placed {
					return nil, nil, fmt.Errorf("jump at %d targets block %d, which was never placed", pos, instr.target.id)
				}
				delta := instr.target.offset - pos
				if delta <= 0 {
					opcode = branchOps[instr.branch][1]
					delta = -delta
				}
				if delta > math.MaxUint16 {
					return nil, nil, fmt.Errorf("jump at %d is too far (%d)", pos, delta)
				}
				operands = append(append([]op.Code{}, operands...), op.Code(delta))
			}
			code = append(code, opcode)
			code = append(code, operands...)
			for i := 0; i < 1+len(operands); i++ {
				locs = append(locs, instr.loc)
			}
		}
	}
	return code, locs, nil
}
