package parser

import "github.com/deepnoodle-ai/plpc/internal/token"

// PREDICT sets: the kinds that may start each production. The optional
// argument list is the only nullable production, so its set also holds the
// kinds that may follow a pipeline stage.
var (
	predictParamDec = token.NewSet(token.KW_URL, token.KW_FILE, token.KW_INTEGER, token.KW_BOOLEAN)
	predictDec      = token.NewSet(token.KW_INTEGER, token.KW_BOOLEAN, token.KW_IMAGE, token.KW_FRAME)
	predictFilterOp = token.NewSet(token.OP_BLUR, token.OP_GRAY, token.OP_CONVOLVE)
	predictFrameOp  = token.NewSet(token.KW_SHOW, token.KW_HIDE, token.KW_MOVE, token.KW_XLOC, token.KW_YLOC)
	predictImageOp  = token.NewSet(token.OP_WIDTH, token.OP_HEIGHT, token.KW_SCALE)

	predictChainElem   = token.NewSet(token.IDENT).Union(predictFilterOp).Union(predictFrameOp).Union(predictImageOp)
	predictStatement   = token.NewSet(token.OP_SLEEP, token.KW_WHILE, token.KW_IF).Union(predictChainElem)
	predictBlockItem   = predictDec.Union(predictStatement)
	predictProgramTail = token.NewSet(token.LBRACE).Union(predictParamDec)

	predictFactor = token.NewSet(token.IDENT, token.INT_LIT, token.KW_TRUE, token.KW_FALSE,
		token.KW_SCREENWIDTH, token.KW_SCREENHEIGHT, token.LPAREN)

	arrowOps  = token.NewSet(token.ARROW, token.BARARROW)
	relOps    = token.NewSet(token.LT, token.LE, token.GT, token.GE, token.EQUAL, token.NOTEQUAL)
	weakOps   = token.NewSet(token.PLUS, token.MINUS, token.OR)
	strongOps = token.NewSet(token.TIMES, token.DIV, token.AND, token.MOD)

	followArg  = token.NewSet(token.ARROW, token.BARARROW, token.SEMI)
	predictArg = token.NewSet(token.LPAREN).Union(followArg)
)
