package interp

// Slot is a single variable's storage cell. A Scope maps names to Slots,
// not values, so that passing an lvalue argument to a function can alias
// the caller's cell directly (spec.md §9: simple-type parameters must
// still be mutable-through when the caller passed a variable).
type Slot struct {
	V Value
}

// Scope is one block's bindings (the global block, a function body, or a
// nested code_block). Looked up innermost-first within a callContext.
type Scope map[string]*Slot

// callContext is one entry on the interpreter's call stack (spec.md §9
// Environment): the function's name (for recursion-depth tracking), its
// declared return type, and a stack of block Scopes. contexts[0] is the
// top-level sentinel context and is never popped.
type callContext struct {
	funcName    string
	returnType  string
	scopes      []Scope
	returnValue Value
}

func newCallContext(funcName string) *callContext {
	return &callContext{funcName: funcName, scopes: []Scope{{}}}
}

func (c *callContext) push() { c.scopes = append(c.scopes, Scope{}) }

func (c *callContext) pop() { c.scopes = c.scopes[:len(c.scopes)-1] }

func (c *callContext) top() Scope { return c.scopes[len(c.scopes)-1] }

// lookup searches this context's scopes innermost-first; it never crosses
// into another callContext, giving user functions closed-scope semantics
// that mirror the checker's isolated SymbolTable per spec.md §9.
func (c *callContext) lookup(name string) (*Slot, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if slot, ok := c.scopes[i][name]; ok {
			return slot, true
		}
	}
	return nil, false
}

func (c *callContext) declare(name string, v Value) {
	c.top()[name] = &Slot{V: v}
}
