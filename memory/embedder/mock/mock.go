// Package mock provides a deterministic embedder for tests and local use.
package mock

import (
	"context"
	"hash/fnv"
	"math"
)

// Embedder produces deterministic unit vectors seeded by a text hash. Equal
// texts embed identically; there is no real semantic signal beyond that.
type Embedder struct {
	dims int
}

// New returns a mock embedder emitting vectors of the given dimension.
// Non-positive dims default to 256.
func New(dims int) *Embedder {
	if dims <= 0 {
		dims = 256
	}
	return &Embedder{dims: dims}
}

// Embed hashes the text and expands the hash into a normalized vector.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	h.Write([]byte(text))
	state := h.Sum64() | 1

	vec := make([]float32, e.dims)
	var norm float64
	for i := range vec {
		// xorshift64 keeps the expansion deterministic per seed.
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		v := float64(int64(state)) / float64(math.MaxInt64)
		vec[i] = float32(v)
		norm += v * v
	}

	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return vec, nil
}

// Dimensions returns the embedding size.
func (e *Embedder) Dimensions() int { return e.dims }
