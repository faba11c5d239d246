package interp

import (
	"aud/ast"
	"aud/domain"
)

// List is the runtime object backing a List<T> handle: an ordered,
// 0-indexed mutable sequence (spec.md §4.5). Like Folder/File/Audio, it is
// always referred to through a pointer, giving it the same reference
// semantics on assignment and argument passing.
type List struct {
	Elem  ast.Type
	Items []Value
}

// Value is a tagged runtime value (spec.md §3). Simple types (bool, int,
// float, string) are held directly and are copied by value; composite
// types (Folder, File, Audio, List<T>) are held as a pointer into the
// domain world or a List object and are copied by handle.
//
// IsNull marks the result of evaluating the "null" literal before it has
// met a concrete composite context; every storage site (var decl,
// assignment, return, argument binding, list element) resolves it into a
// properly typed nil handle via resolveNull.
type Value struct {
	Type   ast.Type
	IsNull bool

	Int   int64
	Float float64
	Str   string
	Bool  bool

	Folder *domain.Folder
	File   *domain.File
	List   *List
}

func IntValue(v int64) Value      { return Value{Type: ast.Simple(ast.Int), Int: v} }
func FloatValue(v float64) Value  { return Value{Type: ast.Simple(ast.Float), Float: v} }
func StringValue(v string) Value  { return Value{Type: ast.Simple(ast.String), Str: v} }
func BoolValue(v bool) Value      { return Value{Type: ast.Simple(ast.Bool), Bool: v} }
func NullValue() Value            { return Value{IsNull: true} }
func VoidValue() Value            { return Value{Type: ast.Simple(ast.Void)} }

func FolderValue(f *domain.Folder) Value {
	return Value{Type: ast.Simple(ast.Folder), Folder: f}
}

// FileValue wraps a domain File/Audio handle, choosing its Aud-level type
// from the object's current tag (spec.md §9: Audio is-a File tagged
// variant).
func FileValue(f *domain.File) Value {
	if f != nil && f.Kind == domain.AudioFile {
		return Value{Type: ast.Simple(ast.Audio), File: f}
	}
	return Value{Type: ast.Simple(ast.File), File: f}
}

func ListValue(elem ast.Type, items []Value) Value {
	return Value{Type: ast.ListOf(elem), List: &List{Elem: elem, Items: items}}
}

// nullOfType materializes a properly typed nil handle for composite type t.
func nullOfType(t ast.Type) Value {
	return Value{Type: t}
}

// resolveNull converts an IsNull value into a nil handle of target's type;
// any other value passes through unchanged. Called at every storage site
// (spec.md §4.4's "composites additionally accept null").
func resolveNull(v Value, target ast.Type) Value {
	if v.IsNull {
		return nullOfType(target)
	}
	return v
}

// isNilComposite reports whether v denotes a null composite handle, either
// because it is the unresolved null literal or because its handle pointer
// is nil.
func isNilComposite(v Value) bool {
	if v.IsNull {
		return true
	}
	switch v.Type.Kind {
	case ast.Folder:
		return v.Folder == nil
	case ast.File, ast.Audio:
		return v.File == nil
	case ast.ListKind:
		return v.List == nil
	default:
		return false
	}
}

// valuesEqual implements == for the types spec.md §4.4 allows to be
// compared: matching {int, string, File, Folder}, Audio against Audio
// (the same File identity check), or any composite handle against null.
func valuesEqual(a, b Value) bool {
	if a.IsNull || b.IsNull {
		return isNilComposite(a) && isNilComposite(b)
	}
	switch a.Type.Kind {
	case ast.Int:
		return a.Int == b.Int
	case ast.String:
		return a.Str == b.Str
	case ast.Folder:
		return a.Folder.Equal(b.Folder)
	case ast.File, ast.Audio:
		return a.File.Equal(b.File)
	default:
		return false
	}
}
