package checker

import (
	"fmt"
	"sort"

	"github.com/deepnoodle-ai/plpc/ast"
)

// Scope holds the declarations of one block. Scopes form a tree whose
// shape mirrors the nesting of blocks in the program.
type Scope struct {
	id       string
	number   int
	parent   *Scope
	children []*Scope
	decls    map[string]ast.Declaration
	order    []string
}

func newScope(id string, number int, parent *Scope) *Scope {
	return &Scope{
		id:     id,
		number: number,
		parent: parent,
		decls:  map[string]ast.Declaration{},
	}
}

// ID returns a path-like identifier such as "root.0.1".
func (s *Scope) ID() string {
	return s.id
}

// Number is the order in which the scope was entered. It increases
// monotonically across the whole table; the root scope is 0.
func (s *Scope) Number() int {
	return s.number
}

func (s *Scope) Parent() *Scope {
	return s.parent
}

func (s *Scope) Children() []*Scope {
	return s.children
}

// Get returns the declaration of name made directly in this scope.
func (s *Scope) Get(name string) (ast.Declaration, bool) {
	decl, ok := s.decls[name]
	return decl, ok
}

// Names returns the names declared in this scope in declaration order.
func (s *Scope) Names() []string {
	return s.order
}

// SymbolTable tracks declarations through nested scopes. A cursor points at
// the active scope; entering a scope creates a child of the cursor and
// leaving moves the cursor back to the parent, so only the chain from the
// cursor to the root is ever searched.
type SymbolTable struct {
	root    *Scope
	current *Scope
	entered int
}

// NewSymbolTable returns a table positioned at an empty root scope.
func NewSymbolTable() *SymbolTable {
	root := newScope("root", 0, nil)
	return &SymbolTable{root: root, current: root}
}

// Root returns the outermost scope.
func (t *SymbolTable) Root() *Scope {
	return t.root
}

// Current returns the active scope.
func (t *SymbolTable) Current() *Scope {
	return t.current
}

// Depth returns the number of scopes between the cursor and the root.
func (t *SymbolTable) Depth() int {
	depth := 0
	for s := t.current; s.parent != nil; s = s.parent {
		depth++
	}
	return depth
}

// EnterScope opens a new scope nested in the active one and makes it active.
func (t *SymbolTable) EnterScope() *Scope {
	t.entered++
	parent := t.current
	child := newScope(fmt.Sprintf("%s.%d", parent.id, len(parent.children)), t.entered, parent)
	parent.children = append(parent.children, child)
	t.current = child
	return child
}

// LeaveScope closes the active scope. Leaving the root scope means enter
// and leave calls are unbalanced, which is a bug in the caller.
func (t *SymbolTable) LeaveScope() {
	if t.current.parent == nil {
		panic("checker: LeaveScope called on the root scope")
	}
	t.current = t.current.parent
}

// Insert declares name in the active scope. It returns false if the name is
// already declared in that same scope; outer declarations do not conflict.
func (t *SymbolTable) Insert(name string, decl ast.Declaration) bool {
	if _, exists := t.current.decls[name]; exists {
		return false
	}
	t.current.decls[name] = decl
	t.current.order = append(t.current.order, name)
	return true
}

// Lookup resolves name from the active scope outwards and returns the
// innermost declaration, or nil if there is none.
func (t *SymbolTable) Lookup(name string) ast.Declaration {
	decl, _ := t.Resolve(name)
	return decl
}

// Resolve is like Lookup but also returns the scope holding the declaration.
func (t *SymbolTable) Resolve(name string) (ast.Declaration, *Scope) {
	for s := t.current; s != nil; s = s.parent {
		if decl, ok := s.decls[name]; ok {
			return decl, s
		}
	}
	return nil, nil
}

// Visible returns the sorted names that Lookup can currently resolve.
func (t *SymbolTable) Visible() []string {
	seen := map[string]bool{}
	var names []string
	for s := t.current; s != nil; s = s.parent {
		for _, name := range s.order {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
