package ast

import "fmt"

// Kind enumerates the base type categories from spec.md §3.
type Kind int

const (
	Void Kind = iota
	Bool
	Int
	Float
	String
	Folder
	File
	Audio
	ListKind
)

func (k Kind) String() string {
	switch k {
	case Void:
		return "void"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Folder:
		return "Folder"
	case File:
		return "File"
	case Audio:
		return "Audio"
	case ListKind:
		return "List"
	default:
		return "?"
	}
}

// Type is a TypeSignature: a base Kind, plus an element Type when Kind is
// ListKind (List<T>).
type Type struct {
	Kind Kind
	Elem *Type
}

func Simple(k Kind) Type { return Type{Kind: k} }

func ListOf(elem Type) Type {
	e := elem
	return Type{Kind: ListKind, Elem: &e}
}

// Composite reports whether this is a reference-semantic type (Folder,
// File, Audio, List<T>) per spec.md §3.
func (t Type) Composite() bool {
	switch t.Kind {
	case Folder, File, Audio, ListKind:
		return true
	default:
		return false
	}
}

func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	if t.Kind != ListKind {
		return true
	}
	if t.Elem == nil || o.Elem == nil {
		return t.Elem == o.Elem
	}
	return t.Elem.Equal(*o.Elem)
}

func (t Type) String() string {
	if t.Kind == ListKind {
		elem := "?"
		if t.Elem != nil {
			elem = t.Elem.String()
		}
		return fmt.Sprintf("List<%s>", elem)
	}
	return t.Kind.String()
}

// FunctionType is a FunctionTypeSignature: ordered parameter types plus a
// return type.
type FunctionType struct {
	Params []Type
	Return Type
}
