// Package clustering groups embedded transcripts with k-means.
package clustering

import (
	"errors"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

const (
	// DefaultClusters is the default number of clusters
	DefaultClusters = 5
	// DefaultSeed makes clustering reproducible across runs
	DefaultSeed = 42
	// MaxIterations caps Lloyd iterations
	MaxIterations = 300
)

// ErrNoVectors is returned when there is nothing to cluster
var ErrNoVectors = errors.New("no vectors to cluster")

// Result is the outcome of a k-means run
type Result struct {
	Labels     []int
	Centroids  [][]float64
	Iterations int
}

// KMeans clusters vectors into k groups using k-means++ seeding followed by
// Lloyd iterations until assignments stop changing or MaxIterations is hit.
// k is clamped to [1, len(vectors)]. The same seed always yields the same labels.
func KMeans(vectors [][]float64, k int, seed int64) (*Result, error) {
	if len(vectors) == 0 {
		return nil, ErrNoVectors
	}
	dim := len(vectors[0])
	for _, v := range vectors {
		if len(v) != dim {
			return nil, errors.New("vectors have different dimensions")
		}
	}
	k = max(1, min(k, len(vectors)))

	rng := rand.New(rand.NewSource(seed))
	centroids := seedCentroids(vectors, k, rng)
	labels := make([]int, len(vectors))
	for i := range labels {
		labels[i] = -1
	}

	iterations := 0
	for iterations < MaxIterations {
		iterations++
		if !assign(vectors, centroids, labels) {
			break
		}
		updateCentroids(vectors, labels, centroids)
	}

	return &Result{Labels: labels, Centroids: centroids, Iterations: iterations}, nil
}

// seedCentroids picks k initial centroids with k-means++: each new centroid
// is drawn with probability proportional to its squared distance from the
// nearest centroid already chosen.
func seedCentroids(vectors [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clone(vectors[rng.Intn(len(vectors))]))

	dist := make([]float64, len(vectors))
	for len(centroids) < k {
		for i, v := range vectors {
			dist[i] = squaredDistance(v, nearest(v, centroids))
		}
		total := floats.Sum(dist)
		if total == 0 {
			// All remaining points coincide with a centroid
			centroids = append(centroids, clone(vectors[len(centroids)%len(vectors)]))
			continue
		}

		target := rng.Float64() * total
		chosen := len(vectors) - 1
		for i, d := range dist {
			target -= d
			if target < 0 {
				chosen = i
				break
			}
		}
		centroids = append(centroids, clone(vectors[chosen]))
	}
	return centroids
}

// assign labels every vector with its closest centroid, lowest index on ties.
// It reports whether any label changed.
func assign(vectors, centroids [][]float64, labels []int) bool {
	changed := false
	for i, v := range vectors {
		best, bestDist := 0, math.Inf(1)
		for c, centroid := range centroids {
			if d := squaredDistance(v, centroid); d < bestDist {
				best, bestDist = c, d
			}
		}
		if labels[i] != best {
			labels[i] = best
			changed = true
		}
	}
	return changed
}

// updateCentroids moves each centroid to the mean of its members. Empty
// clusters keep their previous centroid.
func updateCentroids(vectors [][]float64, labels []int, centroids [][]float64) {
	counts := make([]int, len(centroids))
	sums := make([][]float64, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, len(centroids[c]))
	}
	for i, v := range vectors {
		floats.Add(sums[labels[i]], v)
		counts[labels[i]]++
	}
	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		floats.Scale(1/float64(counts[c]), sums[c])
		centroids[c] = sums[c]
	}
}

func nearest(v []float64, centroids [][]float64) []float64 {
	best, bestDist := centroids[0], math.Inf(1)
	for _, c := range centroids {
		if d := squaredDistance(v, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func squaredDistance(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

func clone(v []float64) []float64 {
	return append([]float64(nil), v...)
}
