package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codebundle/internal/types"
)

const goSample = `package demo

type Cache[K comparable] struct {
	items map[K]int
}

type (
	ID   string
	Pair struct{ A, B int }
)

func New() *Cache[string] {
	return &Cache[string]{}
}

func (c *Cache[K]) Get(k K) int {
	return c.items[k]
}

func (id ID) String() string { return string(id) }

func (r *remote) Call() {}
`

func TestAnalyzeGo(t *testing.T) {
	a, err := Analyze("/r/demo.go", []byte(goSample))
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, types.LangGo, a.File.Language)

	assert.Equal(t, []types.FunctionEntry{
		{Name: "New", Kind: types.KindFunction, Span: types.Span{Start: 12, End: 14}},
	}, a.File.Functions)

	require.Len(t, a.File.Classes, 4)
	assert.Equal(t, "Cache", a.File.Classes[0].Name)
	assert.Equal(t, types.Span{Start: 3, End: 5}, a.File.Classes[0].Span)
	assert.Equal(t, []types.MethodEntry{{Name: "Get", Kind: types.KindMethod, Span: types.Span{Start: 16, End: 18}}}, a.File.Classes[0].Methods)

	assert.Equal(t, "ID", a.File.Classes[1].Name)
	assert.Equal(t, types.Span{Start: 8, End: 8}, a.File.Classes[1].Span)
	assert.Len(t, a.File.Classes[1].Methods, 1)

	assert.Equal(t, "Pair", a.File.Classes[2].Name)
	assert.Empty(t, a.File.Classes[2].Methods)

	remote := a.File.Classes[3]
	assert.Equal(t, "remote", remote.Name)
	assert.Equal(t, types.Span{}, remote.Span)
	assert.Len(t, remote.Methods, 1)
}

func TestAnalyzeGoSyntaxError(t *testing.T) {
	_, err := Analyze("/r/bad.go", []byte("package x\nfunc {"))
	assert.Error(t, err)
}

func TestAnalyzeJavaScriptIsWholeFile(t *testing.T) {
	a, err := Analyze("/r/app.js", []byte("export function x() {}\n"))
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.True(t, a.File.Empty())
	assert.Equal(t, []string{"export function x() {}"}, a.Lines)
}

func TestAnalyzeUnsupported(t *testing.T) {
	a, err := Analyze("/r/README.md", []byte("# hi"))
	require.NoError(t, err)
	assert.Nil(t, a)
}
