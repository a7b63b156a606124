package bytecode

// Stats contains statistics about a compiled unit.
type Stats struct {
	// InstructionCount is the total number of instruction words across the
	// init, main and run code.
	InstructionCount int

	// ConstantCount is the number of constants across all code blocks.
	ConstantCount int

	// FieldCount is the number of program parameters.
	FieldCount int

	// LocalCount is the number of local variable slots used by run.
	LocalCount int

	// SourceBytes is the size of the original source code in bytes.
	SourceBytes int
}

// Stats returns statistics about this unit.
func (u *Unit) Stats() Stats {
	s := Stats{
		FieldCount:  len(u.fields),
		SourceBytes: len(u.source),
	}
	for _, c := range u.Codes() {
		if c == nil {
			continue
		}
		s.InstructionCount += c.InstructionCount()
		s.ConstantCount += c.ConstantCount()
	}
	if u.run != nil {
		s.LocalCount = u.run.LocalCount()
	}
	return s
}
