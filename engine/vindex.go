package engine

import "sort"

// vectorIndex is a flat inner-product index over unit vectors. With
// normalized vectors the inner product is cosine similarity. Positions are
// stable: vector i always belongs to document i of the corpus.
type vectorIndex struct {
	dimension int
	vectors   [][]float32
}

func newVectorIndex(dimension int) *vectorIndex {
	return &vectorIndex{dimension: dimension}
}

// add appends a vector to the index. The vector must already be normalized.
func (ix *vectorIndex) add(v []float32) error {
	if len(v) != ix.dimension {
		return ErrDimensionMismatch
	}
	ix.vectors = append(ix.vectors, v)
	return nil
}

func (ix *vectorIndex) len() int {
	return len(ix.vectors)
}

type vectorHit struct {
	position int
	score    float32
}

// search scans all vectors and returns the topK highest inner products,
// ordered by descending score.
func (ix *vectorIndex) search(query []float32, topK int) ([]vectorHit, error) {
	if len(query) != ix.dimension {
		return nil, ErrDimensionMismatch
	}
	if topK <= 0 {
		return nil, nil
	}

	hits := make([]vectorHit, 0, len(ix.vectors))
	for i, v := range ix.vectors {
		hits = append(hits, vectorHit{position: i, score: dotProduct(query, v)})
	}

	sort.Slice(hits, func(a, b int) bool { return hits[a].score > hits[b].score })

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}
