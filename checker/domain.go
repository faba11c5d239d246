package checker

import "aud/ast"

// memberKind distinguishes an attribute read from a method call in the
// dispatch tables below.
type memberKind int

const (
	attribute memberKind = iota
	method
)

type memberSig struct {
	kind   memberKind
	params []ast.Type // method parameters; nil for attributes
	ret    ast.Type
}

// fileAttributes/fileMethods apply to both File and Audio, since Audio
// is-a File (spec.md §9 design note). audioAttributes/audioMethods apply
// only when the static target type is Audio.
var fileAttributes = map[string]memberSig{
	"filename": {kind: attribute, ret: ast.Simple(ast.String)},
	"parent":   {kind: attribute, ret: ast.Simple(ast.Folder)},
}

var fileMethods = map[string]memberSig{
	"move":   {kind: method, params: []ast.Type{ast.Simple(ast.Folder)}, ret: ast.Simple(ast.Void)},
	"delete": {kind: method, params: nil, ret: ast.Simple(ast.Void)},
}

var audioAttributes = map[string]memberSig{
	"title":   {kind: attribute, ret: ast.Simple(ast.String)},
	"length":  {kind: attribute, ret: ast.Simple(ast.Int)},
	"bitrate": {kind: attribute, ret: ast.Simple(ast.Int)},
}

var audioMethods = map[string]memberSig{
	"cut":           {kind: method, params: []ast.Type{ast.Simple(ast.Int), ast.Simple(ast.Int)}, ret: ast.Simple(ast.Void)},
	"concat":        {kind: method, params: []ast.Type{ast.Simple(ast.Audio)}, ret: ast.Simple(ast.Void)},
	"change_title":  {kind: method, params: []ast.Type{ast.Simple(ast.String)}, ret: ast.Simple(ast.Void)},
	"change_format": {kind: method, params: []ast.Type{ast.Simple(ast.String)}, ret: ast.Simple(ast.Void)},
	"change_volume": {kind: method, params: []ast.Type{ast.Simple(ast.Float)}, ret: ast.Simple(ast.Void)},
}

var folderAttributes = map[string]memberSig{
	"files":      {kind: attribute, ret: ast.ListOf(ast.Simple(ast.File))},
	"subfolders": {kind: attribute, ret: ast.ListOf(ast.Simple(ast.Folder))},
	"is_root":    {kind: attribute, ret: ast.Simple(ast.Bool)},
	"parent":     {kind: attribute, ret: ast.Simple(ast.Folder)},
}

// lookupMember resolves target.Name for the given static target type,
// returning its signature, or false if no such member exists.
func lookupMember(target ast.Type, name string) (memberSig, bool) {
	switch target.Kind {
	case ast.Folder:
		sig, ok := folderAttributes[name]
		return sig, ok
	case ast.File:
		if sig, ok := fileAttributes[name]; ok {
			return sig, true
		}
		sig, ok := fileMethods[name]
		return sig, ok
	case ast.Audio:
		if sig, ok := audioAttributes[name]; ok {
			return sig, true
		}
		if sig, ok := fileAttributes[name]; ok {
			return sig, true
		}
		if sig, ok := audioMethods[name]; ok {
			return sig, true
		}
		sig, ok := fileMethods[name]
		return sig, ok
	default:
		return memberSig{}, false
	}
}

// ctorSignature resolves the argument/return type for File(...)/Folder(...)/
// Audio(...) construction.
func ctorSignature(typeName string) (ast.Type, ast.Type, bool) {
	switch typeName {
	case "Folder":
		return ast.Simple(ast.String), ast.Simple(ast.Folder), true
	case "File":
		return ast.Simple(ast.String), ast.Simple(ast.File), true
	case "Audio":
		return ast.Simple(ast.String), ast.Simple(ast.Audio), true
	default:
		return ast.Type{}, ast.Type{}, false
	}
}

// equalityAllowed reports whether == / != may compare two values of these
// static types, per spec.md §4.4: matching {int, string, File, Folder}, or
// any composite compared against null.
// equalityAllowed implements spec.md §4.4's "==/!= are defined for int,
// string, File, and Folder" rule. Audio values compare equal through the
// same File identity rule since Audio is a tagged File variant, not a
// disjoint type (see domain.FileKind) — comparing two Audio handles is the
// same operation as comparing two File handles at runtime.
func equalityAllowed(a, b ast.Type) bool {
	isNull := func(t ast.Type) bool { return t.Kind == nullKind }
	if isNull(a) && isNull(b) {
		return true
	}
	if isNull(a) {
		return b.Composite()
	}
	if isNull(b) {
		return a.Composite()
	}
	if a.Kind == ast.ListKind || b.Kind == ast.ListKind {
		return false
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ast.Int, ast.String, ast.File, ast.Folder, ast.Audio:
		return true
	default:
		return false
	}
}

// nullKind is a checker-private pseudo-kind used to type a NullLit
// expression before it meets a concrete composite context.
const nullKind ast.Kind = -1

func nullType() ast.Type { return ast.Type{Kind: nullKind} }
