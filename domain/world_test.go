package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aud/diag"
	"aud/domain"
)

var pos = diag.Position{Line: 1, Column: 1}

func TestWorld_FolderDeduplicatesByNormalizedPath(t *testing.T) {
	backing := domain.NewMapBacking()
	backing.Dirs["/music"] = nil
	w := domain.NewWorld(backing, 8)

	a := w.Folder("/music")
	b := w.Folder("/music/")
	assert.Same(t, a, b)
}

func TestWorld_FolderAdoptsFilesAndSubfoldersRecursively(t *testing.T) {
	backing := domain.NewMapBacking()
	backing.Dirs["/music"] = []domain.Entry{
		{Name: "track.mp3"},
		{Name: "notes.txt"},
		{Name: "covers", IsDir: true},
		{Name: ".hidden"},
	}
	backing.Dirs["/music/covers"] = []domain.Entry{{Name: "front.jpg"}}

	w := domain.NewWorld(backing, 8)
	root := w.Folder("/music")

	require.Len(t, root.Files, 2)
	require.Len(t, root.Subfolders, 1)
	assert.Equal(t, "covers", root.Subfolders[0].Path[len(root.Path)+1:])
	assert.True(t, root.IsRoot)
	assert.False(t, root.Subfolders[0].IsRoot)
}

func TestWorld_AdoptionStopsAtMaxFolderDepth(t *testing.T) {
	backing := domain.NewMapBacking()
	backing.Dirs["/a"] = []domain.Entry{{Name: "b", IsDir: true}}
	backing.Dirs["/a/b"] = []domain.Entry{{Name: "c", IsDir: true}}
	backing.Dirs["/a/b/c"] = []domain.Entry{{Name: "deep.txt"}}

	w := domain.NewWorld(backing, 1)
	root := w.Folder("/a")
	require.Len(t, root.Subfolders, 1)
	assert.Empty(t, root.Subfolders[0].Subfolders)
}

func TestWorld_NewDetachedFileDoesNotClassifyAudioByExtension(t *testing.T) {
	w := domain.NewWorld(domain.NewMapBacking(), 8)
	f := w.NewDetachedFile("song.mp3")
	assert.Equal(t, domain.PlainFile, f.Kind)
	assert.Nil(t, f.Audio)
}

func TestFtoa_SucceedsOnKnownAudioExtension(t *testing.T) {
	w := domain.NewWorld(domain.NewMapBacking(), 8)
	f := w.NewDetachedFile("song.mp3")
	audio, ok := domain.Ftoa(f)
	require.True(t, ok)
	assert.Same(t, f, audio)
	assert.Equal(t, domain.AudioFile, f.Kind)
	require.NotNil(t, f.Audio)
	assert.Equal(t, "song", f.Audio.Title)
}

func TestFtoa_FailsOnUnknownExtensionWithoutMutating(t *testing.T) {
	w := domain.NewWorld(domain.NewMapBacking(), 8)
	f := w.NewDetachedFile("notes.txt")
	_, ok := domain.Ftoa(f)
	assert.False(t, ok)
	assert.Equal(t, domain.PlainFile, f.Kind)
	assert.Nil(t, f.Audio)
}

func TestAtof_StripsAudioMetadataButKeepsIdentity(t *testing.T) {
	w := domain.NewWorld(domain.NewMapBacking(), 8)
	f := w.NewDetachedAudio("song.mp3")
	same, ok := domain.Atof(f)
	require.True(t, ok)
	assert.Same(t, f, same)
	assert.Equal(t, domain.PlainFile, f.Kind)
	assert.Nil(t, f.Audio)
}

func TestAtof_OnDeadFileFails(t *testing.T) {
	w := domain.NewWorld(domain.NewMapBacking(), 8)
	f := w.NewDetachedAudio("song.mp3")
	require.Nil(t, domain.Delete(f, pos))
	_, ok := domain.Atof(f)
	assert.False(t, ok)
}

func TestMove_ReparentsFileBetweenFolders(t *testing.T) {
	w := domain.NewWorld(domain.NewMapBacking(), 8)
	src := w.Folder("/src")
	dst := w.Folder("/dst")
	f := w.NewDetachedFile("a.txt")
	require.Nil(t, domain.Move(f, src, pos))
	require.Len(t, src.Files, 1)

	fault := domain.Move(f, dst, pos)
	require.Nil(t, fault)
	assert.Empty(t, src.Files)
	require.Len(t, dst.Files, 1)
	assert.Same(t, dst, f.Parent)
}

func TestMove_IntoNilFolderIsFileNotFound(t *testing.T) {
	w := domain.NewWorld(domain.NewMapBacking(), 8)
	f := w.NewDetachedFile("a.txt")
	fault := domain.Move(f, nil, pos)
	require.NotNil(t, fault)
	assert.Equal(t, diag.FileNotFound, fault.Kind)
}

func TestDelete_MarksFileDeadAndDetaches(t *testing.T) {
	w := domain.NewWorld(domain.NewMapBacking(), 8)
	folder := w.Folder("/x")
	f := w.NewDetachedFile("a.txt")
	require.Nil(t, domain.Move(f, folder, pos))

	require.Nil(t, domain.Delete(f, pos))
	assert.False(t, f.Live)
	assert.Nil(t, f.Parent)
	assert.Empty(t, folder.Files)
}

func TestDelete_OnAlreadyDeletedFileIsFileNotFound(t *testing.T) {
	w := domain.NewWorld(domain.NewMapBacking(), 8)
	f := w.NewDetachedFile("a.txt")
	require.Nil(t, domain.Delete(f, pos))
	fault := domain.Delete(f, pos)
	require.NotNil(t, fault)
	assert.Equal(t, diag.FileNotFound, fault.Kind)
}

func TestCut_OutOfRangeIsInvalidValue(t *testing.T) {
	w := domain.NewWorld(domain.NewMapBacking(), 8)
	f := w.NewDetachedAudio("song.mp3")
	f.Audio.LengthMs = 1000

	fault := domain.Cut(f, 200, 2000, pos)
	require.NotNil(t, fault)
	assert.Equal(t, diag.InvalidValue, fault.Kind)
}

func TestCut_SetsLengthToSlice(t *testing.T) {
	w := domain.NewWorld(domain.NewMapBacking(), 8)
	f := w.NewDetachedAudio("song.mp3")
	f.Audio.LengthMs = 1000

	require.Nil(t, domain.Cut(f, 100, 400, pos))
	assert.EqualValues(t, 300, f.Audio.LengthMs)
}

func TestCut_OnAudioWithNilMetadataAfterAliasedAtofIsFileNotFound(t *testing.T) {
	w := domain.NewWorld(domain.NewMapBacking(), 8)
	f := w.NewDetachedAudio("song.mp3")
	alias := f
	_, _ = domain.Atof(alias) // flips the shared object's tag and clears metadata

	fault := domain.Cut(f, 0, 10, pos)
	require.NotNil(t, fault)
	assert.Equal(t, diag.FileNotFound, fault.Kind)
}

func TestConcat_SumsLengthAndLeavesOtherUnchanged(t *testing.T) {
	w := domain.NewWorld(domain.NewMapBacking(), 8)
	a := w.NewDetachedAudio("a.mp3")
	b := w.NewDetachedAudio("b.mp3")
	a.Audio.LengthMs = 100
	b.Audio.LengthMs = 250

	require.Nil(t, domain.Concat(a, b, pos))
	assert.EqualValues(t, 350, a.Audio.LengthMs)
	assert.EqualValues(t, 250, b.Audio.LengthMs)
}

func TestChangeFormat_RewritesExtensionOnly(t *testing.T) {
	w := domain.NewWorld(domain.NewMapBacking(), 8)
	f := w.NewDetachedFile("song.mp3")
	require.Nil(t, domain.ChangeFormat(f, "wav", pos))
	assert.Equal(t, "song.wav", f.Filename)
}

func TestChangeTitle_OnDeadFileIsFileNotFound(t *testing.T) {
	w := domain.NewWorld(domain.NewMapBacking(), 8)
	f := w.NewDetachedAudio("song.mp3")
	require.Nil(t, domain.Delete(f, pos))
	fault := domain.ChangeTitle(f, "new title", pos)
	require.NotNil(t, fault)
	assert.Equal(t, diag.FileNotFound, fault.Kind)
}

func TestFolderEqual_ByPathAndParent(t *testing.T) {
	a := &domain.Folder{Path: "/x"}
	b := &domain.Folder{Path: "/x"}
	assert.True(t, a.Equal(b))

	c := &domain.Folder{Path: "/x", Parent: &domain.Folder{Path: "/"}}
	assert.False(t, a.Equal(c))
}
