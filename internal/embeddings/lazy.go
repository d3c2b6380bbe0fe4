// Package embeddings builds vector indexes over simulation transcripts.
package embeddings

import (
	"context"
	"errors"
	"sync"

	"github.com/awside/symtrain-assistant/internal/llm"
)

// Constructor creates the underlying embedder on first use
type Constructor func(ctx context.Context) (llm.Embedder, error)

// Lazy is an llm.Embedder that constructs its backend on the first Embed call.
// Construction happens at most once even under concurrent use. A failed
// construction is remembered and returned from every later call.
type Lazy struct {
	newEmbedder Constructor

	once     sync.Once
	embedder llm.Embedder
	err      error
}

// NewLazy wraps fn in an init-once handle
func NewLazy(fn Constructor) *Lazy {
	return &Lazy{newEmbedder: fn}
}

// Embed initializes the backend if needed and embeds text
func (l *Lazy) Embed(ctx context.Context, text string) ([]float32, error) {
	embedder, err := l.Get(ctx)
	if err != nil {
		return nil, err
	}
	return embedder.Embed(ctx, text)
}

// Get returns the initialized embedder
func (l *Lazy) Get(ctx context.Context) (llm.Embedder, error) {
	l.once.Do(func() {
		if l.newEmbedder == nil {
			l.err = errors.New("no embedder constructor configured")
			return
		}
		l.embedder, l.err = l.newEmbedder(ctx)
		if l.err == nil && l.embedder == nil {
			l.err = errors.New("embedder constructor returned nil")
		}
	})
	return l.embedder, l.err
}
