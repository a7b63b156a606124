package ast

// Visitor is implemented by passes over the tree. Accept on a node calls
// the single method for its type; arg carries pass-specific context and the
// result is whatever the pass needs to return upward. Composite nodes do
// not visit their children themselves: the pass decides the order.
type Visitor interface {
	VisitProgram(node *Program, arg any) (any, error)
	VisitParamDec(node *ParamDec, arg any) (any, error)
	VisitDec(node *Dec, arg any) (any, error)
	VisitBlock(node *Block, arg any) (any, error)
	VisitAssignStatement(node *AssignStatement, arg any) (any, error)
	VisitIdentLValue(node *IdentLValue, arg any) (any, error)
	VisitIfStatement(node *IfStatement, arg any) (any, error)
	VisitWhileStatement(node *WhileStatement, arg any) (any, error)
	VisitSleepStatement(node *SleepStatement, arg any) (any, error)
	VisitBinaryChain(node *BinaryChain, arg any) (any, error)
	VisitIdentChain(node *IdentChain, arg any) (any, error)
	VisitFilterOpChain(node *FilterOpChain, arg any) (any, error)
	VisitFrameOpChain(node *FrameOpChain, arg any) (any, error)
	VisitImageOpChain(node *ImageOpChain, arg any) (any, error)
	VisitTuple(node *Tuple, arg any) (any, error)
	VisitIntLit(node *IntLit, arg any) (any, error)
	VisitBoolLit(node *BoolLit, arg any) (any, error)
	VisitConstantExpr(node *ConstantExpr, arg any) (any, error)
	VisitIdentExpr(node *IdentExpr, arg any) (any, error)
	VisitBinaryExpr(node *BinaryExpr, arg any) (any, error)
}

func (x *Program) Accept(v Visitor, arg any) (any, error)         { return v.VisitProgram(x, arg) }
func (x *ParamDec) Accept(v Visitor, arg any) (any, error)        { return v.VisitParamDec(x, arg) }
func (x *Dec) Accept(v Visitor, arg any) (any, error)             { return v.VisitDec(x, arg) }
func (x *Block) Accept(v Visitor, arg any) (any, error)           { return v.VisitBlock(x, arg) }
func (x *AssignStatement) Accept(v Visitor, arg any) (any, error) { return v.VisitAssignStatement(x, arg) }
func (x *IdentLValue) Accept(v Visitor, arg any) (any, error)     { return v.VisitIdentLValue(x, arg) }
func (x *IfStatement) Accept(v Visitor, arg any) (any, error)     { return v.VisitIfStatement(x, arg) }
func (x *WhileStatement) Accept(v Visitor, arg any) (any, error)  { return v.VisitWhileStatement(x, arg) }
func (x *SleepStatement) Accept(v Visitor, arg any) (any, error)  { return v.VisitSleepStatement(x, arg) }
func (x *BinaryChain) Accept(v Visitor, arg any) (any, error)     { return v.VisitBinaryChain(x, arg) }
func (x *IdentChain) Accept(v Visitor, arg any) (any, error)      { return v.VisitIdentChain(x, arg) }
func (x *FilterOpChain) Accept(v Visitor, arg any) (any, error)   { return v.VisitFilterOpChain(x, arg) }
func (x *FrameOpChain) Accept(v Visitor, arg any) (any, error)    { return v.VisitFrameOpChain(x, arg) }
func (x *ImageOpChain) Accept(v Visitor, arg any) (any, error)    { return v.VisitImageOpChain(x, arg) }
func (x *Tuple) Accept(v Visitor, arg any) (any, error)           { return v.VisitTuple(x, arg) }
func (x *IntLit) Accept(v Visitor, arg any) (any, error)          { return v.VisitIntLit(x, arg) }
func (x *BoolLit) Accept(v Visitor, arg any) (any, error)         { return v.VisitBoolLit(x, arg) }
func (x *ConstantExpr) Accept(v Visitor, arg any) (any, error)    { return v.VisitConstantExpr(x, arg) }
func (x *IdentExpr) Accept(v Visitor, arg any) (any, error)       { return v.VisitIdentExpr(x, arg) }
func (x *BinaryExpr) Accept(v Visitor, arg any) (any, error)      { return v.VisitBinaryExpr(x, arg) }
