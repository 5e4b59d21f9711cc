// Package history records completed export attempts.
package history

import (
	"context"
	"time"
)

type Record struct {
	ID        string    `json:"id"`
	Root      string    `json:"root"`
	OutPath   string    `json:"out_path,omitempty"`
	Files     int       `json:"files"`
	Tokens    int       `json:"tokens"`
	OK        bool      `json:"ok"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists export records. List returns newest first.
type Store interface {
	Add(ctx context.Context, rec Record) error
	List(ctx context.Context, limit int) ([]Record, error)
}

const DefaultListLimit = 50
