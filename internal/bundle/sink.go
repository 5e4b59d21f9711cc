package bundle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Sink persists a rendered bundle and returns where it ended up.
type Sink interface {
	Write(ctx context.Context, root string, content []byte) (string, error)
}

// FileSink writes <root>/<Name>.
type FileSink struct {
	Name string
}

func (s FileSink) Write(_ context.Context, root string, content []byte) (string, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return "", fmt.Errorf("root is required")
	}
	name := strings.TrimSpace(s.Name)
	if name == "" {
		name = DefaultName
	}
	out := filepath.Join(root, name)
	if err := os.WriteFile(out, content, 0o644); err != nil {
		return "", fmt.Errorf("write bundle: %w", err)
	}
	return out, nil
}

// MemorySink keeps bundles keyed by root; the location is "memory://<root>".
type MemorySink struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemorySink() *MemorySink {
	return &MemorySink{data: make(map[string][]byte)}
}

func (s *MemorySink) Write(_ context.Context, root string, content []byte) (string, error) {
	if s == nil {
		return "", fmt.Errorf("sink is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[root] = append([]byte(nil), content...)
	return "memory://" + root, nil
}

func (s *MemorySink) Get(root string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.data[root]
	return b, ok
}
