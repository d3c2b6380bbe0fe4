// Package search ranks indexed documents by cosine similarity to a query.
package search

import (
	"context"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/awside/symtrain-assistant/internal/embeddings"
	"github.com/awside/symtrain-assistant/internal/llm"
)

// DefaultTopK is the number of results returned when none is requested
const DefaultTopK = 5

// Result is one ranked document
type Result struct {
	Name     string  `json:"name"`
	Position int     `json:"position"`
	Score    float64 `json:"similarity"`
}

// Cosine returns the cosine similarity of a and b. Zero vectors and
// vectors of different length score 0.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}

// FindSimilar returns at most topK entries ordered by descending similarity.
// Equal scores keep index order.
func FindSimilar(index *embeddings.Index, query []float64, topK int) []Result {
	if topK <= 0 {
		topK = DefaultTopK
	}

	results := make([]Result, index.Len())
	for i, e := range index.Entries {
		results[i] = Result{Name: e.Name, Position: i, Score: Cosine(query, e.Vector)}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

// Query embeds text and searches the index
func Query(ctx context.Context, embedder llm.Embedder, index *embeddings.Index, text string, topK int) ([]Result, error) {
	vector, err := embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return FindSimilar(index, embeddings.ToFloat64(vector), topK), nil
}

// Finder selects few-shot examples by transcript similarity
type Finder struct {
	Embedder llm.Embedder
	Index    *embeddings.Index
}

// FindExamples returns the names of the closest documents, best first
func (f *Finder) FindExamples(ctx context.Context, request string, limit int) ([]string, error) {
	results, err := Query(ctx, f.Embedder, f.Index, request, limit)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.Name
	}
	return names, nil
}
