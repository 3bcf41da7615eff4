package convert

import (
	"context"
)

// Pool bounds the number of conversions running at once. Callers block in
// Convert until a slot frees up or their context ends; the conversion itself
// is not cancelable once started.
type Pool struct {
	conv *Converter
	sem  chan struct{}
}

// NewPool wraps a converter with a concurrency limit. Workers below 1 is
// treated as 1.
func NewPool(conv *Converter, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{conv: conv, sem: make(chan struct{}, workers)}
}

// Convert runs one conversion inside the pool.
func (p *Pool) Convert(ctx context.Context, content string) ([]byte, error) {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-p.sem }()
	return p.conv.Convert(content)
}
