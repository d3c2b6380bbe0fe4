package embeddings

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/awside/symtrain-assistant/internal/dataset"
	"github.com/awside/symtrain-assistant/internal/llm"
	"github.com/awside/symtrain-assistant/internal/types"
)

// DefaultConcurrency bounds in-flight embedding requests
const DefaultConcurrency = 4

// Document is one text to embed, identified by Name
type Document struct {
	Name string
	Text string
}

// Entry is an embedded document
type Entry struct {
	Name   string
	Vector []float64
}

// Index holds embedded documents in build order
type Index struct {
	Entries []Entry
}

// Len returns the number of entries
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.Entries)
}

// Vectors returns the entry vectors in order
func (idx *Index) Vectors() [][]float64 {
	vectors := make([][]float64, idx.Len())
	for i, e := range idx.Entries {
		vectors[i] = e.Vector
	}
	return vectors
}

// Names returns the entry names in order
func (idx *Index) Names() []string {
	names := make([]string, idx.Len())
	for i, e := range idx.Entries {
		names[i] = e.Name
	}
	return names
}

// Cache stores embeddings by key. GetEmbedding returns (nil, nil) on a miss.
type Cache interface {
	GetEmbedding(ctx context.Context, key string) ([]float32, error)
	SaveEmbedding(ctx context.Context, key string, vector []float32) error
}

// CacheKey identifies a document's embedding by name and content hash, so
// edited transcripts are re-embedded.
func CacheKey(doc Document) string {
	sum := sha256.Sum256([]byte(doc.Text))
	return doc.Name + ":" + hex.EncodeToString(sum[:8])
}

// DocumentsFromSimulations uses each simulation's file path as the document
// name and its transcript as the text. Simulations without dialogue are skipped.
func DocumentsFromSimulations(sims []*types.Simulation) []Document {
	docs := make([]Document, 0, len(sims))
	for _, sim := range sims {
		text := dataset.Transcript(sim.AudioItems)
		if text == "" {
			continue
		}
		docs = append(docs, Document{Name: sim.FilePath, Text: text})
	}
	return docs
}

// BuildIndex embeds every document with at most concurrency requests in
// flight. Entries keep the order of docs. Cache may be nil.
func BuildIndex(ctx context.Context, embedder llm.Embedder, docs []Document, concurrency int, cache Cache) (*Index, error) {
	if embedder == nil {
		return nil, fmt.Errorf("an embedder is required")
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	entries := make([]Entry, len(docs))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, doc := range docs {
		g.Go(func() error {
			vector, err := embedDocument(gCtx, embedder, doc, cache)
			if err != nil {
				return fmt.Errorf("failed to embed %s: %w", doc.Name, err)
			}

			mu.Lock()
			entries[i] = Entry{Name: doc.Name, Vector: ToFloat64(vector)}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Index{Entries: entries}, nil
}

func embedDocument(ctx context.Context, embedder llm.Embedder, doc Document, cache Cache) ([]float32, error) {
	key := CacheKey(doc)
	if cache != nil {
		// Cache read failures fall through to a fresh embedding
		if vector, err := cache.GetEmbedding(ctx, key); err == nil && len(vector) > 0 {
			return vector, nil
		}
	}

	vector, err := embedder.Embed(ctx, doc.Text)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		if err := cache.SaveEmbedding(ctx, key, vector); err != nil {
			return nil, fmt.Errorf("failed to cache embedding: %w", err)
		}
	}
	return vector, nil
}

// ToFloat64 widens an embedding for vector math
func ToFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
