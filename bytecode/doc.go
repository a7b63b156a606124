// Package bytecode provides the immutable output of compilation.
//
// A compiled program is a [Unit]: the program name, one [Field] per program
// parameter, and three [Code] blocks. Init parses the argument strings into
// the fields, Main builds the instance and runs it, and Run holds the
// compiled program block.
//
// # Immutability Guarantees
//
// All types in this package are immutable after construction:
//
//   - No mutation methods exist on any type
//   - All fields are unexported
//   - Constructors copy input slices to prevent caller mutation
//
// Index-based access is used for all collections:
//
//	code.InstructionAt(0)
//	code.ConstantAt(i)
//	unit.FieldAt(j)
//
// A Unit may therefore be shared by any number of concurrently running
// virtual machines.
//
// # Serialization
//
// [Marshal] and [Unmarshal] convert a Unit to and from its JSON artifact
// form. The unit ID is a name-based UUID of the program name and source,
// so compiling the same input twice yields byte-identical artifacts.
package bytecode
