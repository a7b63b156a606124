package bytecode

import (
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
)

// FieldType is the type of a unit field, which determines how its program
// argument is parsed.
type FieldType uint16

const (
	InvalidField FieldType = 0
	IntegerField FieldType = 1 // decimal text
	BooleanField FieldType = 2 // as accepted by strconv.ParseBool
	FileField    FieldType = 3 // path, kept as a reference
	URLField     FieldType = 4 // URL, kept as a reference
)

func (t FieldType) String() string {
	switch t {
	case IntegerField:
		return "integer"
	case BooleanField:
		return "boolean"
	case FileField:
		return "file"
	case URLField:
		return "url"
	default:
		return fmt.Sprintf("FieldType(%d)", uint16(t))
	}
}

// ParseFieldType returns the FieldType named by s.
func ParseFieldType(s string) (FieldType, error) {
	switch s {
	case "integer":
		return IntegerField, nil
	case "boolean":
		return BooleanField, nil
	case "file":
		return FileField, nil
	case "url":
		return URLField, nil
	default:
		return InvalidField, fmt.Errorf("unknown field type %q", s)
	}
}

// Field is one program parameter as stored on the unit.
type Field struct {
	Name string
	Type FieldType
}

// unitNamespace scopes the name-based unit IDs.
var unitNamespace = uuid.NewV5(uuid.NamespaceURL, "https://github.com/deepnoodle-ai/plpc/unit")

// UnitID derives the ID of a unit from its name and source text.
func UnitID(name, source string) uuid.UUID {
	return uuid.NewV5(unitNamespace, name+"\x00"+source)
}

// Unit is a compiled program. It is immutable after creation and safe for
// concurrent use.
type Unit struct {
	id       uuid.UUID
	name     string
	source   string
	filename string
	fields   []Field
	init     *Code
	main     *Code
	run      *Code
}

// UnitParams contains parameters for creating a new Unit.
type UnitParams struct {
	// ID defaults to UnitID(Name, Source) when nil.
	ID       uuid.UUID
	Name     string
	Source   string
	Filename string
	Fields   []Field
	Init     *Code
	Main     *Code
	Run      *Code
}

// NewUnit creates a new immutable Unit from the given parameters.
func NewUnit(params UnitParams) *Unit {
	id := params.ID
	if id == uuid.Nil {
		id = UnitID(params.Name, params.Source)
	}
	return &Unit{
		id:       id,
		name:     params.Name,
		source:   params.Source,
		filename: params.Filename,
		fields:   copyFields(params.Fields),
		init:     params.Init,
		main:     params.Main,
		run:      params.Run,
	}
}

// ID returns the unit's UUID.
func (u *Unit) ID() uuid.UUID {
	return u.id
}

// Name returns the program name.
func (u *Unit) Name() string {
	return u.name
}

// Source returns the source text the unit was compiled from.
func (u *Unit) Source() string {
	return u.source
}

// Filename returns the source filename, which may be empty.
func (u *Unit) Filename() string {
	return u.filename
}

// FieldCount returns the number of fields, which is also the number of
// arguments the unit expects.
func (u *Unit) FieldCount() int {
	return len(u.fields)
}

// FieldAt returns the field at the given index.
func (u *Unit) FieldAt(index int) Field {
	return u.fields[index]
}

func (u *Unit) Init() *Code {
	return u.init
}

func (u *Unit) Main() *Code {
	return u.main
}

func (u *Unit) Run() *Code {
	return u.run
}

// Codes returns the code blocks of the unit in the order init, main, run.
func (u *Unit) Codes() []*Code {
	return []*Code{u.init, u.main, u.run}
}

// Usage returns a one-line description of the arguments the unit expects,
// for example "collatz <integer n>".
func (u *Unit) Usage() string {
	s := u.name
	for _, f := range u.fields {
		s += fmt.Sprintf(" <%s %s>", f.Type, f.Name)
	}
	return s
}

// SourceLine returns the source text of the given 1-based line.
func (u *Unit) SourceLine(line int) string {
	if line < 1 || u.source == "" {
		return ""
	}
	lines := strings.Split(u.source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}
