package ast

import "github.com/deepnoodle-ai/plpc/internal/token"

// Chain is a pipeline: a value threaded through stages joined by arrows.
// A chain used as a statement leaves one value that the statement discards.
type Chain interface {
	Statement
	Typed
	chainNode()
}

// ChainElem is a single stage of a pipeline. The right side of every
// BinaryChain is a ChainElem, so chains are left-leaning binary trees.
type ChainElem interface {
	Chain
	elemNode()
}

// OpChain is implemented by the stages named by an operation keyword.
type OpChain interface {
	ChainElem
	Op() token.Token
	Arguments() *Tuple
}

// IdentChain is a pipeline endpoint naming a declared variable. On the
// left of an arrow it supplies its value; on the right it receives one.
type IdentChain struct {
	typed
	Ident token.Token
	// Decl is bound by the checker.
	Decl Declaration
}

func (c *IdentChain) stmtNode()               {}
func (c *IdentChain) chainNode()              {}
func (c *IdentChain) elemNode()               {}
func (c *IdentChain) FirstToken() token.Token { return c.Ident }
func (c *IdentChain) Pos() token.Position     { return c.Ident.Position() }
func (c *IdentChain) String() string          { return c.Ident.Text() }

// FilterOpChain is blur, gray or convolve.
type FilterOpChain struct {
	typed
	OpToken token.Token
	Args    *Tuple
}

func (c *FilterOpChain) stmtNode()               {}
func (c *FilterOpChain) chainNode()              {}
func (c *FilterOpChain) elemNode()               {}
func (c *FilterOpChain) FirstToken() token.Token { return c.OpToken }
func (c *FilterOpChain) Pos() token.Position     { return c.OpToken.Position() }
func (c *FilterOpChain) Op() token.Token         { return c.OpToken }
func (c *FilterOpChain) Arguments() *Tuple       { return c.Args }
func (c *FilterOpChain) String() string          { return c.OpToken.Text() + c.Args.String() }

// FrameOpChain is show, hide, move, xloc or yloc.
type FrameOpChain struct {
	typed
	OpToken token.Token
	Args    *Tuple
}

func (c *FrameOpChain) stmtNode()               {}
func (c *FrameOpChain) chainNode()              {}
func (c *FrameOpChain) elemNode()               {}
func (c *FrameOpChain) FirstToken() token.Token { return c.OpToken }
func (c *FrameOpChain) Pos() token.Position     { return c.OpToken.Position() }
func (c *FrameOpChain) Op() token.Token         { return c.OpToken }
func (c *FrameOpChain) Arguments() *Tuple       { return c.Args }
func (c *FrameOpChain) String() string          { return c.OpToken.Text() + c.Args.String() }

// ImageOpChain is width, height or scale.
type ImageOpChain struct {
	typed
	OpToken token.Token
	Args    *Tuple
}

func (c *ImageOpChain) stmtNode()               {}
func (c *ImageOpChain) chainNode()              {}
func (c *ImageOpChain) elemNode()               {}
func (c *ImageOpChain) FirstToken() token.Token { return c.OpToken }
func (c *ImageOpChain) Pos() token.Position     { return c.OpToken.Position() }
func (c *ImageOpChain) Op() token.Token         { return c.OpToken }
func (c *ImageOpChain) Arguments() *Tuple       { return c.Args }
func (c *ImageOpChain) String() string          { return c.OpToken.Text() + c.Args.String() }

// BinaryChain joins the chain built so far to one more stage.
type BinaryChain struct {
	typed
	Left  Chain
	Arrow token.Token
	Right ChainElem
}

func (c *BinaryChain) stmtNode()               {}
func (c *BinaryChain) chainNode()              {}
func (c *BinaryChain) FirstToken() token.Token { return c.Left.FirstToken() }
func (c *BinaryChain) Pos() token.Position     { return c.Left.Pos() }

func (c *BinaryChain) String() string {
	return c.Left.String() + " " + c.Arrow.Text() + " " + c.Right.String()
}

// Leftmost returns the first stage of a chain.
func Leftmost(c Chain) ChainElem {
	for {
		switch n := c.(type) {
		case *BinaryChain:
			c = n.Left
		case ChainElem:
			return n
		default:
			return nil
		}
	}
}
