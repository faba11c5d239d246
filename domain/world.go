// Package domain implements spec.md §3's DomainWorld: the in-memory
// Folder/File/Audio object graph mirroring a filesystem, its adoption of a
// real backing directory tree, and the mutating operations the
// interpreter's built-in method dispatch calls into.
package domain

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"

	"aud/diag"
)

// ignoreGlobs are skipped when a Folder(path) construction materializes an
// existing directory tree, mirroring the include/exclude glob filtering
// standardbeagle-lci's file watcher applies before indexing a path.
var ignoreGlobs = []string{".*", "*.tmp"}

func ignored(name string) bool {
	for _, pattern := range ignoreGlobs {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// World owns every live Folder/File/Audio object for one interpreter run.
// Folders are deduplicated by normalized path via an xxhash-keyed index,
// giving O(1) "does a folder at this path already exist" checks instead of
// a linear scan on every Folder(path) call.
type World struct {
	backing        Backing
	maxFolderDepth int

	foldersByHash map[uint64][]*Folder
}

func NewWorld(backing Backing, maxFolderDepth int) *World {
	return &World{
		backing:        backing,
		maxFolderDepth: maxFolderDepth,
		foldersByHash:  map[uint64][]*Folder{},
	}
}

func pathHash(path string) uint64 { return xxhash.Sum64String(path) }

func (w *World) findFolder(path string) (*Folder, bool) {
	for _, f := range w.foldersByHash[pathHash(path)] {
		if f.Path == path {
			return f, true
		}
	}
	return nil, false
}

func (w *World) index(f *Folder) {
	h := pathHash(f.Path)
	w.foldersByHash[h] = append(w.foldersByHash[h], f)
}

// Folder implements the Folder(path) constructor (spec.md §3 Lifecycles):
// returns the existing folder at this normalized path if one was already
// materialized, otherwise creates one and recursively adopts the backing
// directory tree up to maxFolderDepth. Exceeding the depth limit is not an
// error; deeper children are simply omitted.
func (w *World) Folder(path string) *Folder {
	norm := w.backing.Normalize(path)
	if existing, ok := w.findFolder(norm); ok {
		return existing
	}
	root := &Folder{Path: norm, IsRoot: true}
	w.index(root)
	w.adopt(root, 0)
	return root
}

func (w *World) adopt(folder *Folder, depth int) {
	if depth >= w.maxFolderDepth {
		return
	}
	entries, err := w.backing.ReadDir(folder.Path)
	if err != nil {
		return
	}
	for _, e := range entries {
		if ignored(e.Name) {
			continue
		}
		if e.IsDir {
			childPath := joinPath(folder.Path, e.Name)
			if existing, ok := w.findFolder(childPath); ok {
				existing.Parent = folder
				existing.IsRoot = false
				folder.Subfolders = append(folder.Subfolders, existing)
				continue
			}
			child := &Folder{Path: childPath, Parent: folder}
			w.index(child)
			folder.Subfolders = append(folder.Subfolders, child)
			w.adopt(child, depth+1)
			continue
		}
		file := &File{Filename: e.Name, Parent: folder, Live: true, Kind: classifyByName(e.Name)}
		if file.Kind == AudioFile {
			file.Audio = &AudioMeta{Title: stripExt(e.Name)}
		}
		folder.Files = append(folder.Files, file)
	}
}

func joinPath(dir, name string) string {
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}

// NewDetachedFile implements File(name) (spec.md §3 Lifecycles): a
// detached file with no parent.
func (w *World) NewDetachedFile(name string) *File {
	return &File{Filename: name, Live: true, Kind: PlainFile}
}

// NewDetachedAudio implements Audio(name): a detached audio file with
// default metadata.
func (w *World) NewDetachedAudio(name string) *File {
	return &File{Filename: name, Live: true, Kind: AudioFile, Audio: &AudioMeta{Title: stripExt(name)}}
}

var audioExtensions = map[string]bool{
	".mp3": true, ".wav": true, ".flac": true, ".ogg": true, ".m4a": true,
}

func classifyByName(name string) FileKind {
	if audioExtensions[extOf(name)] {
		return AudioFile
	}
	return PlainFile
}

func extOf(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return strings.ToLower(name[i:])
	}
	return ""
}

func stripExt(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

// Ftoa implements the ftoa(file) builtin: probes whether file can be
// interpreted as audio by filename extension (the real decode is out of
// scope, per spec.md §1) and, on success, flips its tag in place and fills
// default metadata when it wasn't already tagged as audio. On failure it
// returns (nil, false) and leaves file unchanged.
func Ftoa(f *File) (*File, bool) {
	if !f.Live {
		return nil, false
	}
	if f.Kind == AudioFile {
		return f, true
	}
	if !audioExtensions[extOf(f.Filename)] {
		return nil, false
	}
	f.Kind = AudioFile
	f.Audio = &AudioMeta{Title: stripExt(f.Filename)}
	return f, true
}

// Atof implements atof(audio): returns a File view of the same entity,
// stripping the Audio-only attributes by flipping the tag back in place.
// Fails on a dead handle, mirroring every other file-mutating operation.
func Atof(f *File) (*File, bool) {
	if !f.Live {
		return nil, false
	}
	f.Kind = PlainFile
	f.Audio = nil
	return f, true
}

// Move implements file.move(newParent) (spec.md §4.5): reparents file
// atomically, removing it from its old parent's Files and appending it to
// the new parent's.
func Move(f *File, newParent *Folder, pos diag.Position) *diag.Fault {
	if !f.Live || newParent == nil {
		return diag.NewFault(pos, diag.FileNotFound)
	}
	if f.Parent != nil {
		removeFile(f.Parent, f)
	}
	f.Parent = newParent
	newParent.Files = append(newParent.Files, f)
	return nil
}

func removeFile(folder *Folder, f *File) {
	for i, existing := range folder.Files {
		if existing == f {
			folder.Files = append(folder.Files[:i], folder.Files[i+1:]...)
			return
		}
	}
}

// Delete implements file.delete(): marks the file non-live and detaches it
// from its parent.
func Delete(f *File, pos diag.Position) *diag.Fault {
	if !f.Live {
		return diag.NewFault(pos, diag.FileNotFound)
	}
	if f.Parent != nil {
		removeFile(f.Parent, f)
	}
	f.Parent = nil
	f.Live = false
	return nil
}

// Cut implements Audio.cut(start, end): requires 0 <= start <= end <=
// length, then sets length to end-start.
func Cut(f *File, start, end int64, pos diag.Position) *diag.Fault {
	if !f.Live || f.Audio == nil {
		return diag.NewFault(pos, diag.FileNotFound)
	}
	if start < 0 || start > end || end > f.Audio.LengthMs {
		return diag.NewFault(pos, diag.InvalidValue)
	}
	f.Audio.LengthMs = end - start
	return nil
}

// Concat implements Audio.concat(other): length becomes length+other.length;
// other is left unchanged.
func Concat(f, other *File, pos diag.Position) *diag.Fault {
	if !f.Live || !other.Live || f.Audio == nil || other.Audio == nil {
		return diag.NewFault(pos, diag.FileNotFound)
	}
	f.Audio.LengthMs += other.Audio.LengthMs
	return nil
}

func ChangeTitle(f *File, title string, pos diag.Position) *diag.Fault {
	if !f.Live || f.Audio == nil {
		return diag.NewFault(pos, diag.FileNotFound)
	}
	f.Audio.Title = title
	return nil
}

// ChangeFormat mutates the filename's extension, observable on subsequent
// reads of filename.
func ChangeFormat(f *File, format string, pos diag.Position) *diag.Fault {
	if !f.Live {
		return diag.NewFault(pos, diag.FileNotFound)
	}
	f.Filename = stripExt(f.Filename) + "." + strings.TrimPrefix(format, ".")
	return nil
}

// ChangeVolume mutates the opaque backing bytes; it has no metadata-visible
// effect beyond being observable as a distinct byte sequence, since real
// audio decoding is out of scope (spec.md §1).
func ChangeVolume(f *File, factor float64, pos diag.Position) *diag.Fault {
	if !f.Live || f.Audio == nil {
		return diag.NewFault(pos, diag.FileNotFound)
	}
	f.Audio.Bytes = append(f.Audio.Bytes, byte(int(factor*100)%256))
	return nil
}
