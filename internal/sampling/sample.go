package sampling

import (
	"math/rand/v2"
	"sort"

	"github.com/DeafMist/competency-radar/internal/models"
)

// Sample draws size documents uniformly without replacement using a fixed
// seed, so the same input and seed always give the same sample. The sample
// keeps the input order. size <= 0 or size >= len(docs) returns docs as is.
func Sample(docs []models.Document, size int, seed uint64) []models.Document {
	if size <= 0 || size >= len(docs) {
		return docs
	}

	idx := Indices(len(docs), size, seed)
	out := make([]models.Document, len(idx))
	for i, j := range idx {
		out[i] = docs[j]
	}
	return out
}

// Indices picks size distinct indices out of [0, n) and returns them sorted.
func Indices(n, size int, seed uint64) []int {
	if size > n {
		size = n
	}
	if size <= 0 {
		return []int{}
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	// partial Fisher-Yates: the first size slots end up uniformly chosen
	for i := 0; i < size; i++ {
		j := i + rng.IntN(n-i)
		perm[i], perm[j] = perm[j], perm[i]
	}

	picked := perm[:size]
	sort.Ints(picked)
	return picked
}
