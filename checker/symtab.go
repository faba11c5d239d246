package checker

import "aud/ast"

// Symbol is one SymbolTable entry: a resolved type and the span of its
// declaration (spec.md §3).
type Symbol struct {
	Type ast.Type
	Decl ast.Span
}

// SymbolTable is a stack of frames; lookup walks from the innermost frame
// outward, and declarations always insert into the current frame only
// (spec.md §4.4).
type SymbolTable struct {
	frames []map[string]Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{frames: []map[string]Symbol{{}}}
}

func (t *SymbolTable) Push() {
	t.frames = append(t.frames, map[string]Symbol{})
}

func (t *SymbolTable) Pop() {
	t.frames = t.frames[:len(t.frames)-1]
}

// Declare inserts name into the current frame, returning false if the name
// is already present in that same frame (same-frame redeclaration is
// forbidden; shadowing in a nested frame is allowed).
func (t *SymbolTable) Declare(name string, sym Symbol) bool {
	frame := t.frames[len(t.frames)-1]
	if _, exists := frame[name]; exists {
		return false
	}
	frame[name] = sym
	return true
}

func (t *SymbolTable) Lookup(name string) (Symbol, bool) {
	for i := len(t.frames) - 1; i >= 0; i-- {
		if s, ok := t.frames[i][name]; ok {
			return s, true
		}
	}
	return Symbol{}, false
}

// VisibleNames returns every name visible from the current frame, used to
// build "did you mean" suggestions.
func (t *SymbolTable) VisibleNames() []string {
	var names []string
	for i := len(t.frames) - 1; i >= 0; i-- {
		for name := range t.frames[i] {
			names = append(names, name)
		}
	}
	return names
}
