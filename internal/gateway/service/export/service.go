// Package export implements the tree and export use cases behind the gateway.
package export

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"codebundle/internal/bundle"
	"codebundle/internal/cache/analysis"
	"codebundle/internal/gateway/repository/history"
	"codebundle/internal/gateway/service/events"
	"codebundle/internal/safeio"
	"codebundle/internal/scan"
	"codebundle/internal/tokens"
	t "codebundle/internal/types"
)

// ErrRootNotAllowed is returned for roots outside the configured base.
var ErrRootNotAllowed = errors.New("root is outside the allowed base directory")

type Deps struct {
	Cache   *analysis.Cache
	Sink    bundle.Sink
	History history.Store
	Counter tokens.Counter
	Hub     *events.Hub
	// AllowedRoot, when set, confines every requested root beneath it.
	AllowedRoot string
}

type Service struct {
	cache   *analysis.Cache
	sink    bundle.Sink
	history history.Store
	counter tokens.Counter
	hub     *events.Hub
	base    *safeio.RootFS

	now   func() time.Time
	newID func() string
}

func New(d Deps) (*Service, error) {
	if d.Cache == nil {
		return nil, fmt.Errorf("analysis cache is required")
	}
	if d.Sink == nil {
		d.Sink = bundle.FileSink{}
	}
	if d.History == nil {
		d.History = history.NewMemoryStore(0)
	}
	if d.Counter == nil {
		d.Counter = tokens.Heuristic{}
	}
	if d.Hub == nil {
		d.Hub = events.NewHub()
	}
	s := &Service{
		cache:   d.Cache,
		sink:    d.Sink,
		history: d.History,
		counter: d.Counter,
		hub:     d.Hub,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	if base := strings.TrimSpace(d.AllowedRoot); base != "" {
		rfs, err := safeio.Open(base)
		if err != nil {
			return nil, fmt.Errorf("allowed root: %w", err)
		}
		s.base = rfs
	}
	return s, nil
}

// NewLoader returns the scan function the analysis cache uses.
func NewLoader(ignoreDirs []string) analysis.Loader {
	return func(ctx context.Context, root string) (*scan.Project, error) {
		return scan.Scan(ctx, root, scan.Options{IgnoreDirs: ignoreDirs})
	}
}

func (s *Service) Hub() *events.Hub { return s.hub }

func (s *Service) History(ctx context.Context, limit int) ([]history.Record, error) {
	return s.history.List(ctx, limit)
}

func (s *Service) resolveRoot(root string) (string, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		root = "."
	}
	if s.base == nil {
		return analysis.Key(root)
	}
	p, err := s.base.Resolve(root)
	if err != nil {
		if errors.Is(err, safeio.ErrTraversal) {
			return "", fmt.Errorf("%w: %s", ErrRootNotAllowed, root)
		}
		return "", err
	}
	return p, nil
}

// Tree returns the (cached) analyzed tree for root.
func (s *Service) Tree(ctx context.Context, root string) (t.Tree, error) {
	abs, err := s.resolveRoot(root)
	if err != nil {
		return t.Tree{}, err
	}
	p, err := s.cache.Get(ctx, abs)
	if err != nil {
		return t.Tree{}, err
	}
	return p.Tree, nil
}

// Export rescans root, renders the selection, writes it to the sink and
// records the attempt. The response is always populated; on failure OK is
// false and the error is returned as well.
func (s *Service) Export(ctx context.Context, req t.ExportRequest) (t.ExportResponse, error) {
	started := s.now()
	rec := history.Record{ID: s.newID(), Root: strings.TrimSpace(req.Root), CreatedAt: started.UTC()}

	resp, err := s.export(ctx, req, &rec)
	if err != nil {
		rec.Error = err.Error()
		resp = t.ExportResponse{OK: false, Error: err.Error()}
		log.Printf("export %s failed: root=%q err=%v", rec.ID, rec.Root, err)
	} else {
		log.Printf("export %s: root=%q files=%d tokens=%d out=%s (%s)",
			rec.ID, rec.Root, resp.Files, resp.Tokens, resp.OutPath, s.now().Sub(started).Round(time.Millisecond))
	}
	rec.OK = err == nil

	if herr := s.history.Add(context.WithoutCancel(ctx), rec); herr != nil {
		log.Printf("export %s: history: %v", rec.ID, herr)
	}
	s.hub.Publish(t.ExportEvent{
		ID:        rec.ID,
		Root:      rec.Root,
		OK:        rec.OK,
		OutPath:   rec.OutPath,
		Files:     rec.Files,
		Tokens:    rec.Tokens,
		Error:     rec.Error,
		CreatedAt: rec.CreatedAt.Format(time.RFC3339),
	})
	return resp, err
}

func (s *Service) export(ctx context.Context, req t.ExportRequest, rec *history.Record) (t.ExportResponse, error) {
	abs, err := s.resolveRoot(req.Root)
	if err != nil {
		return t.ExportResponse{}, err
	}
	rec.Root = abs

	p, err := s.cache.Refresh(ctx, abs)
	if err != nil {
		return t.ExportResponse{}, fmt.Errorf("scan: %w", err)
	}
	text, files := bundle.Build(p, req.Selection)

	out, err := s.sink.Write(ctx, p.Tree.Root, []byte(text))
	if err != nil {
		return t.ExportResponse{}, err
	}
	n, err := s.counter.Count(ctx, text)
	if err != nil {
		log.Printf("export %s: token count: %v", rec.ID, err)
		n = tokens.Estimate(text)
	}

	rec.OutPath, rec.Files, rec.Tokens = out, files, n
	return t.ExportResponse{OK: true, OutPath: out, Files: files, Tokens: n}, nil
}
