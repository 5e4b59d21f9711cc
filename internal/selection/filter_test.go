package selection

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codebundle/internal/types"
)

func TestFilterMatchesDescendantLabel(t *testing.T) {
	s, err := New([]types.FileNode{
		{Path: "/r/utils.py", Rel: "utils.py", Functions: []types.FunctionEntry{{Name: "foo_helper"}}},
		{Path: "/r/main.py", Rel: "main.py", Functions: []types.FunctionEntry{{Name: "run"}}},
	})
	require.NoError(t, err)

	vis := s.ApplyFilter("foo")
	assert.True(t, vis["/r/utils.py"])
	assert.False(t, vis["/r/main.py"])
	assert.False(t, s.Visible("/r/main.py"))
}

func TestFilterIsCaseInsensitive(t *testing.T) {
	s := newState(t)
	vis := s.ApplyFilter("  IO.PY ")
	assert.True(t, vis["/repo/pkg/io.py"])
	assert.False(t, vis[utilsPath])

	vis = s.ApplyFilter("M2")
	assert.True(t, vis[utilsPath])
}

func TestEmptyFilterShowsEverything(t *testing.T) {
	s := newState(t)
	assert.True(t, s.Visible(utilsPath))

	s.ApplyFilter("zzz")
	assert.False(t, s.Visible(utilsPath))

	vis := s.ApplyFilter("")
	for _, p := range s.Paths() {
		assert.True(t, vis[p], p)
		assert.True(t, s.Visible(p), p)
	}
}

func TestFilterDoesNotTouchSelection(t *testing.T) {
	s := newState(t)
	require.NoError(t, s.SetMethod(utilsPath, "C", "m1", true))
	before := s.Payload("/repo")
	s.ApplyFilter("nothing-matches")
	assert.Equal(t, before, s.Payload("/repo"))
}

func BenchmarkApplyFilter(b *testing.B) {
	files := make([]types.FileNode, 0, 500)
	for i := 0; i < 500; i++ {
		f := types.FileNode{Path: fmt.Sprintf("/r/pkg%d/mod.py", i), Rel: fmt.Sprintf("pkg%d/mod.py", i)}
		for j := 0; j < 4; j++ {
			f.Functions = append(f.Functions, types.FunctionEntry{Name: fmt.Sprintf("func_%d_%d", i, j)})
		}
		f.Classes = []types.ClassNode{{Name: fmt.Sprintf("Klass%d", i), Methods: []types.MethodEntry{{Name: "a"}, {Name: "b"}}}}
		files = append(files, f)
	}
	s, err := New(files)
	require.NoError(b, err)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.ApplyFilter("klass42")
	}
}
