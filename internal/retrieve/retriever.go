// Package retrieve embeds queries and resolves them against the vector
// index.
package retrieve

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgallion1/finsight/internal/index"
)

// Embedder is the hosted embedding capability.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// ErrUnavailable reports an embedding or index failure. A failed
// retrieval is always distinguishable from an empty-but-successful one.
var ErrUnavailable = errors.New("retrieval unavailable")

// Retriever resolves query strings to the top-K most similar units.
type Retriever struct {
	embedder Embedder
	index    *index.Index
}

func New(embedder Embedder, ix *index.Index) *Retriever {
	return &Retriever{embedder: embedder, index: ix}
}

// Retrieve embeds the query and searches the index under the given
// filter. Embedding failures propagate wrapped in ErrUnavailable and
// preserve the underlying cause for retryability checks.
func (r *Retriever) Retrieve(ctx context.Context, query string, filter index.Filter, topK int) ([]index.Match, error) {
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return r.index.Search(vector, topK, filter), nil
}
