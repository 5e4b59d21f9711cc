// Package tokens estimates how many model tokens a bundle will cost.
package tokens

import (
	"context"
	"log"
	"strings"
)

// Counter counts tokens in text.
type Counter interface {
	Name() string
	Count(ctx context.Context, text string) (int, error)
}

// Heuristic counts whitespace-delimited words and falls back to a
// character-based estimate for text without spaces.
type Heuristic struct{}

func (Heuristic) Name() string { return "heuristic" }

func (Heuristic) Count(_ context.Context, text string) (int, error) {
	return Estimate(text), nil
}

func Estimate(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	words := strings.Fields(text)
	if len(words) > 1 {
		return len(words)
	}
	n := len(text) / 4
	if n == 0 {
		n = 1
	}
	return n
}

// Fallback tries Primary and uses Heuristic when it fails.
type Fallback struct {
	Primary Counter
}

func (f Fallback) Name() string {
	if f.Primary == nil {
		return Heuristic{}.Name()
	}
	return f.Primary.Name()
}

func (f Fallback) Count(ctx context.Context, text string) (int, error) {
	if f.Primary != nil {
		n, err := f.Primary.Count(ctx, text)
		if err == nil {
			return n, nil
		}
		log.Printf("tokens: %s failed, using heuristic: %v", f.Primary.Name(), err)
	}
	return Estimate(text), nil
}
