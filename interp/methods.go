package interp

import (
	"aud/ast"
	"aud/diag"
	"aud/domain"
)

// evalMember evaluates an attribute read or method call on a Folder, File,
// Audio, or List<T> target, dispatching to the domain package for anything
// that mutates the object graph (spec.md §4.5, §9).
func (it *Interpreter) evalMember(n *ast.Member) (Value, *diag.Fault) {
	target, f := it.evalExpr(n.Target)
	if f != nil {
		return Value{}, f
	}
	pos := n.Span().Start

	switch target.Type.Kind {
	case ast.ListKind:
		return it.evalListMember(n, target, pos)
	case ast.Folder:
		return it.evalFolderMember(n, target, pos)
	default:
		return it.evalFileMember(n, target, pos)
	}
}

func (it *Interpreter) evalFolderMember(n *ast.Member, target Value, pos diag.Position) (Value, *diag.Fault) {
	folder := target.Folder
	switch n.Name {
	case "files":
		var files []*domain.File
		if folder != nil {
			files = folder.Files
		}
		items := make([]Value, len(files))
		for i, f := range files {
			items[i] = FileValue(f)
		}
		return ListValue(ast.Simple(ast.File), items), nil
	case "subfolders":
		var subs []*domain.Folder
		if folder != nil {
			subs = folder.Subfolders
		}
		items := make([]Value, len(subs))
		for i, sf := range subs {
			items[i] = FolderValue(sf)
		}
		return ListValue(ast.Simple(ast.Folder), items), nil
	case "is_root":
		return BoolValue(folder != nil && folder.IsRoot), nil
	case "parent":
		if folder == nil {
			return FolderValue(nil), nil
		}
		return FolderValue(folder.Parent), nil
	}
	panic("interp: unhandled folder member " + n.Name)
}

// evalFileMember covers both File and Audio targets, since Audio is-a File
// (spec.md §9 design note): the Audio-only members simply read/write
// through the File's optional Audio metadata.
func (it *Interpreter) evalFileMember(n *ast.Member, target Value, pos diag.Position) (Value, *diag.Fault) {
	f := target.File
	switch n.Name {
	case "filename":
		if f == nil {
			return StringValue(""), nil
		}
		return StringValue(f.Filename), nil
	case "parent":
		if f == nil {
			return FolderValue(nil), nil
		}
		return FolderValue(f.Parent), nil
	case "title":
		if f == nil || f.Audio == nil {
			return StringValue(""), nil
		}
		return StringValue(f.Audio.Title), nil
	case "length":
		if f == nil || f.Audio == nil {
			return IntValue(0), nil
		}
		return IntValue(f.Audio.LengthMs), nil
	case "bitrate":
		if f == nil || f.Audio == nil {
			return IntValue(0), nil
		}
		return IntValue(int64(f.Audio.Bitrate)), nil
	case "move":
		arg, ferr := it.evalExprExpected(n.Args[0], typePtr(ast.Simple(ast.Folder)))
		if ferr != nil {
			return Value{}, ferr
		}
		if f == nil {
			return Value{}, diag.NewFault(pos, diag.FileNotFound)
		}
		if fault := domain.Move(f, arg.Folder, pos); fault != nil {
			return Value{}, fault
		}
		return VoidValue(), nil
	case "delete":
		if f == nil {
			return Value{}, diag.NewFault(pos, diag.FileNotFound)
		}
		if fault := domain.Delete(f, pos); fault != nil {
			return Value{}, fault
		}
		return VoidValue(), nil
	case "cut":
		start, ferr := it.evalExprExpected(n.Args[0], typePtr(ast.Simple(ast.Int)))
		if ferr != nil {
			return Value{}, ferr
		}
		end, ferr := it.evalExprExpected(n.Args[1], typePtr(ast.Simple(ast.Int)))
		if ferr != nil {
			return Value{}, ferr
		}
		if f == nil {
			return Value{}, diag.NewFault(pos, diag.FileNotFound)
		}
		if fault := domain.Cut(f, start.Int, end.Int, pos); fault != nil {
			return Value{}, fault
		}
		return VoidValue(), nil
	case "concat":
		other, ferr := it.evalExprExpected(n.Args[0], typePtr(ast.Simple(ast.Audio)))
		if ferr != nil {
			return Value{}, ferr
		}
		if f == nil || other.File == nil {
			return Value{}, diag.NewFault(pos, diag.FileNotFound)
		}
		if fault := domain.Concat(f, other.File, pos); fault != nil {
			return Value{}, fault
		}
		return VoidValue(), nil
	case "change_title":
		s, ferr := it.evalExprExpected(n.Args[0], typePtr(ast.Simple(ast.String)))
		if ferr != nil {
			return Value{}, ferr
		}
		if f == nil {
			return Value{}, diag.NewFault(pos, diag.FileNotFound)
		}
		if fault := domain.ChangeTitle(f, s.Str, pos); fault != nil {
			return Value{}, fault
		}
		return VoidValue(), nil
	case "change_format":
		s, ferr := it.evalExprExpected(n.Args[0], typePtr(ast.Simple(ast.String)))
		if ferr != nil {
			return Value{}, ferr
		}
		if f == nil {
			return Value{}, diag.NewFault(pos, diag.FileNotFound)
		}
		if fault := domain.ChangeFormat(f, s.Str, pos); fault != nil {
			return Value{}, fault
		}
		return VoidValue(), nil
	case "change_volume":
		v, ferr := it.evalExprExpected(n.Args[0], typePtr(ast.Simple(ast.Float)))
		if ferr != nil {
			return Value{}, ferr
		}
		if f == nil {
			return Value{}, diag.NewFault(pos, diag.FileNotFound)
		}
		if fault := domain.ChangeVolume(f, v.Float, pos); fault != nil {
			return Value{}, fault
		}
		return VoidValue(), nil
	}
	panic("interp: unhandled file member " + n.Name)
}

func (it *Interpreter) evalListMember(n *ast.Member, target Value, pos diag.Position) (Value, *diag.Fault) {
	lst := target.List
	var elem ast.Type
	if target.Type.Elem != nil {
		elem = *target.Type.Elem
	}
	switch n.Name {
	case "len":
		if lst == nil {
			return IntValue(0), nil
		}
		return IntValue(int64(len(lst.Items))), nil
	case "get":
		idx, f := it.evalExprExpected(n.Args[0], typePtr(ast.Simple(ast.Int)))
		if f != nil {
			return Value{}, f
		}
		if lst == nil || idx.Int < 0 || idx.Int >= int64(len(lst.Items)) {
			return Value{}, diag.NewFault(pos, diag.ListIndexOutOfBounds)
		}
		return lst.Items[idx.Int], nil
	case "set":
		idx, f := it.evalExprExpected(n.Args[0], typePtr(ast.Simple(ast.Int)))
		if f != nil {
			return Value{}, f
		}
		val, f := it.evalExprExpected(n.Args[1], &elem)
		if f != nil {
			return Value{}, f
		}
		if lst == nil || idx.Int < 0 || idx.Int >= int64(len(lst.Items)) {
			return Value{}, diag.NewFault(pos, diag.ListIndexOutOfBounds)
		}
		lst.Items[idx.Int] = resolveNull(val, elem)
		return VoidValue(), nil
	}
	panic("interp: unhandled list member " + n.Name)
}

// evalCtor constructs a Folder/File/Audio handle (spec.md §3 Lifecycles).
func (it *Interpreter) evalCtor(n *ast.Ctor) (Value, *diag.Fault) {
	arg, f := it.evalExprExpected(n.Args[0], typePtr(ast.Simple(ast.String)))
	if f != nil {
		return Value{}, f
	}
	switch n.TypeName {
	case "Folder":
		return FolderValue(it.world.Folder(arg.Str)), nil
	case "File":
		return FileValue(it.world.NewDetachedFile(arg.Str)), nil
	case "Audio":
		return FileValue(it.world.NewDetachedAudio(arg.Str)), nil
	}
	panic("interp: unhandled ctor " + n.TypeName)
}
