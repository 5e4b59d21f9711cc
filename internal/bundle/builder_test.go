package bundle

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codebundle/internal/scan"
	"codebundle/internal/types"
)

const svcPy = `import os

def load(path):
    return open(path).read()

def unused():
    pass

class Service:
    """Does things."""

    retries = 2

    def start(self):
        return 1

    def stop(self):
        return 2
`

const typesGo = `package demo

type Counter struct {
	n int
}

func (c *Counter) Inc() { c.n++ }

func (c *Counter) Reset() { c.n = 0 }
`

func scanFixture(t *testing.T) (*scan.Project, string) {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"svc.py":     svcPy,
		"demo.go":    typesGo,
		"web/app.js": "let a = 1;   \n\n\n\nlet b = 2;\n",
	}
	for rel, body := range files {
		p := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	p, err := scan.Scan(context.Background(), root, scan.Options{})
	require.NoError(t, err)
	return p, p.Tree.Root
}

func TestBuildFunctionsAndPartialClass(t *testing.T) {
	p, root := scanFixture(t)
	out, files := Build(p, map[string]types.FileSelection{
		filepath.Join(root, "svc.py"): {
			Functions: []string{"load"},
			Classes:   map[string][]string{"Service": {"stop"}},
		},
	})
	assert.Equal(t, 1, files)
	assert.True(t, strings.HasPrefix(out, "# FILE "+filepath.Join(root, "svc.py")+"\n\n# FUNCTION load\n"), out)
	assert.NotContains(t, out, "# FILE:")
	assert.Contains(t, out, "# FUNCTION load\ndef load(path):\n    return open(path).read()")
	assert.NotContains(t, out, "unused")
	assert.Contains(t, out, "# CLASS Service (selected methods)\nclass Service:\n    \"\"\"Does things.\"\"\"\n\n    retries = 2")
	assert.Contains(t, out, "# METHOD Service.stop\n    def stop(self):\n        return 2")
	assert.NotContains(t, out, "def start")
}

func TestBuildWholeClassAndGoMethods(t *testing.T) {
	p, root := scanFixture(t)
	out, _ := Build(p, map[string]types.FileSelection{
		filepath.Join(root, "svc.py"):  {Classes: map[string][]string{"Service": nil}},
		filepath.Join(root, "demo.go"): {Classes: map[string][]string{"Counter": nil}},
	})
	assert.Contains(t, out, "# CLASS Service\nclass Service:")
	assert.Contains(t, out, "def start(self):")
	assert.Contains(t, out, "def stop(self):")
	assert.Contains(t, out, "# CLASS Counter\ntype Counter struct {")
	assert.Contains(t, out, "func (c *Counter) Inc() { c.n++ }")
	assert.Contains(t, out, "func (c *Counter) Reset() { c.n = 0 }")
	// tree order: demo.go sorts before svc.py
	assert.Less(t, strings.Index(out, "demo.go"), strings.Index(out, "svc.py"))
}

func TestBuildChildlessFileIsWholeAndNormalized(t *testing.T) {
	p, root := scanFixture(t)
	out, files := Build(p, map[string]types.FileSelection{
		filepath.Join(root, "web/app.js"): {Functions: []string{}, Classes: map[string][]string{}},
		"/elsewhere/missing.py":            {Functions: []string{"x"}},
	})
	assert.Equal(t, 1, files)
	assert.True(t, strings.HasSuffix(out, "let a = 1;\n\nlet b = 2;"), out)
}

func TestBuildSkipsEmptyEntryForFileWithChildren(t *testing.T) {
	p, root := scanFixture(t)
	out, files := Build(p, map[string]types.FileSelection{
		filepath.Join(root, "svc.py"): {},
	})
	assert.Equal(t, 0, files)
	assert.Empty(t, out)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a\n\nb\nc", Normalize("\n\na  \n\n\n\nb\t\nc\n\n"))
}

func TestFileSinkWritesUnderRoot(t *testing.T) {
	root := t.TempDir()
	loc, err := FileSink{}.Write(context.Background(), root, []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, DefaultName), loc)
	b, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, "x", string(b))
}

func TestMemorySink(t *testing.T) {
	s := NewMemorySink()
	loc, err := s.Write(context.Background(), "/r", []byte("y"))
	require.NoError(t, err)
	assert.Equal(t, "memory:///r", loc)
	b, ok := s.Get("/r")
	require.True(t, ok)
	assert.Equal(t, "y", string(b))
}

func TestObjectKey(t *testing.T) {
	ts := time.Unix(0, 42)
	assert.Equal(t, "proj/42-gpt_bundle.txt", ObjectKey("/home/me/proj/", ts))
	assert.Equal(t, "root/42-gpt_bundle.txt", ObjectKey("/", ts))
}

func TestNewS3SinkValidatesConfig(t *testing.T) {
	_, err := NewS3Sink(S3Config{})
	assert.Error(t, err)
	_, err = NewS3Sink(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	assert.Error(t, err)
	s, err := NewS3Sink(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "bundles"})
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", s.region)
}
