package app

import (
	"context"
	"io"
	"log"

	"codebundle/internal/bundle"
	"codebundle/internal/gateway/config"
	"codebundle/internal/gateway/repository/history"
	"codebundle/internal/tokens"
)

type gatewayStores struct {
	sink    bundle.Sink
	history history.Store
	counter tokens.Counter
}

func initStores(ctx context.Context, cfg *config.Config) *gatewayStores {
	return &gatewayStores{
		sink:    newSink(cfg),
		history: history.NewFromDSN(cfg.HistoryDSN),
		counter: newCounter(ctx, cfg),
	}
}

// newSink prefers S3 when an endpoint is configured and falls back to
// writing next to the scanned root.
func newSink(cfg *config.Config) bundle.Sink {
	fileSink := bundle.FileSink{Name: cfg.Bundle.Name}
	if !cfg.Artifact.Enabled {
		return fileSink
	}
	s3, err := bundle.NewS3Sink(bundle.S3Config{
		Endpoint:  cfg.Artifact.Endpoint,
		Region:    cfg.Artifact.Region,
		AccessKey: cfg.Artifact.AccessKey,
		SecretKey: cfg.Artifact.SecretKey,
		Bucket:    cfg.Artifact.Bucket,
		UseSSL:    cfg.Artifact.UseSSL,
	})
	if err != nil {
		log.Printf("bundle: s3 sink unavailable, writing to disk: %v", err)
		return fileSink
	}
	log.Printf("bundle: uploading to s3 bucket %s at %s", cfg.Artifact.Bucket, cfg.Artifact.Endpoint)
	return s3
}

func newCounter(ctx context.Context, cfg *config.Config) tokens.Counter {
	if cfg.Tokens.GeminiAPIKey == "" {
		return tokens.Heuristic{}
	}
	g, err := tokens.NewGeminiCounter(ctx, cfg.Tokens.GeminiAPIKey, cfg.Tokens.GeminiModel)
	if err != nil {
		log.Printf("tokens: gemini unavailable, using heuristic: %v", err)
		return tokens.Heuristic{}
	}
	return tokens.Fallback{Primary: g}
}

func (s *gatewayStores) Close() error {
	if c, ok := s.history.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
