package checker

import "aud/ast"

// builtinSignatures is the table from spec.md §6.
var builtinSignatures = map[string]ast.FunctionType{
	"print": {Params: []ast.Type{ast.Simple(ast.String)}, Return: ast.Simple(ast.Void)},
	"input": {Params: nil, Return: ast.Simple(ast.String)},
	"btos":  {Params: []ast.Type{ast.Simple(ast.Bool)}, Return: ast.Simple(ast.String)},
	"stoi":  {Params: []ast.Type{ast.Simple(ast.String)}, Return: ast.Simple(ast.Int)},
	"itos":  {Params: []ast.Type{ast.Simple(ast.Int)}, Return: ast.Simple(ast.String)},
	"stof":  {Params: []ast.Type{ast.Simple(ast.String)}, Return: ast.Simple(ast.Float)},
	"ftos":  {Params: []ast.Type{ast.Simple(ast.Float)}, Return: ast.Simple(ast.String)},
	"itof":  {Params: []ast.Type{ast.Simple(ast.Int)}, Return: ast.Simple(ast.Float)},
	"ftoi":  {Params: []ast.Type{ast.Simple(ast.Float)}, Return: ast.Simple(ast.Int)},
	"atof":  {Params: []ast.Type{ast.Simple(ast.Audio)}, Return: ast.Simple(ast.File)},
	"ftoa":  {Params: []ast.Type{ast.Simple(ast.File)}, Return: ast.Simple(ast.Audio)},
}

func IsBuiltin(name string) (ast.FunctionType, bool) {
	ft, ok := builtinSignatures[name]
	return ft, ok
}
