package selection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codebundle/internal/types"
)

const utilsPath = "/repo/utils.py"

func sampleTree() []types.FileNode {
	return []types.FileNode{
		{
			Path:     utilsPath,
			Rel:      "utils.py",
			Language: types.LangPython,
			Functions: []types.FunctionEntry{
				{Name: "f1", Kind: types.KindFunction},
				{Name: "f2", Kind: types.KindFunction},
			},
			Classes: []types.ClassNode{
				{Name: "C", Methods: []types.MethodEntry{
					{Name: "m1", Kind: types.KindMethod},
					{Name: "m2", Kind: types.KindMethod},
				}},
			},
		},
		{
			Path:      "/repo/pkg/io.py",
			Rel:       "pkg/io.py",
			Language:  types.LangPython,
			Functions: []types.FunctionEntry{{Name: "read"}},
		},
		{
			Path:     "/repo/web/app.js",
			Rel:      "web/app.js",
			Language: types.LangJavaScript,
		},
	}
}

func newState(tb testing.TB) *State {
	tb.Helper()
	s, err := New(sampleTree())
	require.NoError(tb, err)
	return s
}

func TestSetFileCascades(t *testing.T) {
	s := newState(t)

	require.NoError(t, s.SetFile(utilsPath, true))
	st, err := s.FileState(utilsPath)
	require.NoError(t, err)
	assert.Equal(t, Full, st)
	for _, fn := range []string{"f1", "f2"} {
		ok, err := s.FunctionChecked(utilsPath, fn)
		require.NoError(t, err)
		assert.True(t, ok, fn)
	}
	ok, _ := s.ClassChecked(utilsPath, "C")
	assert.True(t, ok)
	for _, m := range []string{"m1", "m2"} {
		ok, err := s.MethodChecked(utilsPath, "C", m)
		require.NoError(t, err)
		assert.True(t, ok, m)
	}

	require.NoError(t, s.SetFile(utilsPath, false))
	st, _ = s.FileState(utilsPath)
	assert.Equal(t, Unselected, st)
	assert.Equal(t, Stats{}, s.Stats())
}

func TestSetFileLeavesOtherFilesAlone(t *testing.T) {
	s := newState(t)
	require.NoError(t, s.SetFile(utilsPath, true))
	st, err := s.FileState("/repo/pkg/io.py")
	require.NoError(t, err)
	assert.Equal(t, Unselected, st)
}

func TestSetClassCascadesToMethodsOnly(t *testing.T) {
	s := newState(t)

	require.NoError(t, s.SetClass(utilsPath, "C", true))
	for _, m := range []string{"m1", "m2"} {
		ok, _ := s.MethodChecked(utilsPath, "C", m)
		assert.True(t, ok)
	}
	ok, _ := s.FunctionChecked(utilsPath, "f1")
	assert.False(t, ok)

	cs, _ := s.ClassState(utilsPath, "C")
	assert.Equal(t, Full, cs)
	fs, _ := s.FileState(utilsPath)
	assert.Equal(t, Partial, fs)

	require.NoError(t, s.SetClass(utilsPath, "C", false))
	for _, m := range []string{"m1", "m2"} {
		ok, _ := s.MethodChecked(utilsPath, "C", m)
		assert.False(t, ok)
	}
	fs, _ = s.FileState(utilsPath)
	assert.Equal(t, Unselected, fs)
}

func TestFileStateCountsFlattenedChildren(t *testing.T) {
	s := newState(t)
	require.NoError(t, s.SetFunction(utilsPath, "f1", true))
	require.NoError(t, s.SetFunction(utilsPath, "f2", true))
	require.NoError(t, s.SetMethod(utilsPath, "C", "m1", true))
	require.NoError(t, s.SetMethod(utilsPath, "C", "m2", true))

	// the class box is still unchecked
	st, _ := s.FileState(utilsPath)
	assert.Equal(t, Partial, st)

	require.NoError(t, s.SetClass(utilsPath, "C", true))
	st, _ = s.FileState(utilsPath)
	assert.Equal(t, Full, st)
}

func TestRecomputeIsIdempotent(t *testing.T) {
	s := newState(t)
	require.NoError(t, s.SetMethod(utilsPath, "C", "m2", true))

	require.NoError(t, s.Recompute(utilsPath))
	first, _ := s.FileState(utilsPath)
	firstClass, _ := s.ClassState(utilsPath, "C")
	require.NoError(t, s.Recompute(utilsPath))
	second, _ := s.FileState(utilsPath)
	secondClass, _ := s.ClassState(utilsPath, "C")

	assert.Equal(t, first, second)
	assert.Equal(t, firstClass, secondClass)
	assert.Equal(t, Partial, second)
}

func TestCheckAllThenUncheckAll(t *testing.T) {
	s := newState(t)
	require.NoError(t, s.SetMethod(utilsPath, "C", "m1", true))

	s.SetAll(true)
	for _, p := range s.Paths() {
		st, _ := s.FileState(p)
		assert.Equal(t, Full, st, p)
	}
	assert.Equal(t, Stats{Files: 3, Items: 6}, s.Stats())

	s.SetAll(false)
	for _, p := range s.Paths() {
		st, _ := s.FileState(p)
		assert.Equal(t, Unselected, st, p)
	}
	cs, _ := s.ClassState(utilsPath, "C")
	assert.Equal(t, Unselected, cs)
	assert.Equal(t, Stats{}, s.Stats())
}

func TestChildlessFileKeepsOwnFlag(t *testing.T) {
	s := newState(t)
	require.NoError(t, s.SetFile("/repo/web/app.js", true))
	st, _ := s.FileState("/repo/web/app.js")
	assert.Equal(t, Full, st)
	require.NoError(t, s.SetFile("/repo/web/app.js", false))
	st, _ = s.FileState("/repo/web/app.js")
	assert.Equal(t, Unselected, st)
}

func TestUnknownNodesReturnNotFound(t *testing.T) {
	s := newState(t)
	require.NoError(t, s.SetFunction(utilsPath, "f1", true))
	before := s.Payload("/repo")

	cases := []error{
		s.SetFile("/nope.py", true),
		s.SetClass(utilsPath, "Missing", true),
		s.SetFunction(utilsPath, "missing", true),
		s.SetMethod(utilsPath, "C", "missing", true),
		s.SetMethod(utilsPath, "Missing", "m1", true),
		s.Recompute("/nope.py"),
	}
	for _, err := range cases {
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound), err.Error())
		var nf *NotFoundError
		assert.True(t, errors.As(err, &nf))
	}
	assert.Equal(t, before, s.Payload("/repo"))
}

func TestNewRejectsDuplicatePaths(t *testing.T) {
	files := sampleTree()
	files = append(files, files[0])
	_, err := New(files)
	assert.ErrorIs(t, err, ErrDuplicateNode)
}

func TestNewCollapsesRepeatedNames(t *testing.T) {
	s, err := New([]types.FileNode{{
		Path: "/r/props.py",
		Classes: []types.ClassNode{{Name: "P", Methods: []types.MethodEntry{
			{Name: "value"}, {Name: "value"}, {Name: "reset"},
		}}},
	}})
	require.NoError(t, err)

	require.NoError(t, s.SetMethod("/r/props.py", "P", "value", true))
	require.NoError(t, s.SetMethod("/r/props.py", "P", "reset", true))
	require.NoError(t, s.SetClass("/r/props.py", "P", true))
	st, _ := s.FileState("/r/props.py")
	assert.Equal(t, Full, st)
	assert.Equal(t, []string{"value", "reset"}, s.Payload("").Selection["/r/props.py"].Classes["P"])
}
