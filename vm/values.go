package vm

import (
	"fmt"

	"github.com/deepnoodle-ai/plpc/bytecode"
	"github.com/deepnoodle-ai/plpc/media"
)

// Runtime values are int32, bool, *File, *URL, *media.Image, *media.Frame
// or nil for a reference that was never assigned.

// File is a file reference passed as a program argument.
type File struct {
	Path string
}

func (f *File) String() string { return "file(" + f.Path + ")" }

// URL is a URL reference passed as a program argument.
type URL struct {
	Raw string
}

func (u *URL) String() string { return "url(" + u.Raw + ")" }

// TypeName returns the language type name of a runtime value.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case int32:
		return "INTEGER"
	case bool:
		return "BOOLEAN"
	case *File:
		return "FILE"
	case *URL:
		return "URL"
	case *media.Image:
		return "IMAGE"
	case *media.Frame:
		return "FRAME"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Instance holds the field values of a running unit.
type Instance struct {
	unit   *bytecode.Unit
	fields []any
}

func newInstance(unit *bytecode.Unit) *Instance {
	return &Instance{unit: unit, fields: make([]any, unit.FieldCount())}
}

// Unit returns the unit the instance was created from.
func (i *Instance) Unit() *bytecode.Unit {
	return i.unit
}

// Field returns the value of the named field.
func (i *Instance) Field(name string) (any, bool) {
	for idx := 0; idx < i.unit.FieldCount(); idx++ {
		if i.unit.FieldAt(idx).Name == name {
			return i.fields[idx], true
		}
	}
	return nil, false
}

// FieldAt returns the value of the field at the given index.
func (i *Instance) FieldAt(index int) any {
	return i.fields[index]
}

// Fields returns a copy of the field values keyed by name.
func (i *Instance) Fields() map[string]any {
	result := make(map[string]any, len(i.fields))
	for idx, v := range i.fields {
		result[i.unit.FieldAt(idx).Name] = v
	}
	return result
}
