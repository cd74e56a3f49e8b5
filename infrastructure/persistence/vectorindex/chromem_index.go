// Package vectorindex wraps github.com/philippgille/chromem-go as the
// optional embedded ANN accelerator in front of the SPARQL-backed graph
// store, grounded on the reference ChromemStore wrapper (single in-process
// DB, one collection, AddDocument/QueryEmbedding). retrieveRelevant still
// applies the composite similarity score on the candidates this index
// narrows down to; it replaces only the "scan every interaction" brute
// force the design notes flag as a bottleneck (§9).
package vectorindex

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"

	apperrors "github.com/danja/semem-go/pkg/errors"
	"github.com/danja/semem-go/application/ports"
	"github.com/danja/semem-go/domain/core/valueobjects"
)

const collectionName = "interactions"

// Index implements ports.VectorIndex over a single in-process chromem-go
// database.
type Index struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// New creates an empty vector index.
func New() (*Index, error) {
	db := chromem.NewDB()
	collection, err := db.CreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, apperrors.NewInternal("create chromem collection", err)
	}
	return &Index{db: db, collection: collection}, nil
}

// Upsert implements ports.VectorIndex.
func (idx *Index) Upsert(ctx context.Context, id string, embedding valueobjects.Embedding, metadata map[string]string) error {
	if embedding.IsPending() {
		return apperrors.NewDomain("cannot index a pending-embedding interaction %q", id)
	}
	vec := make([]float32, len(embedding.Vector))
	for i, v := range embedding.Vector {
		vec[i] = float32(v)
	}
	doc := chromem.Document{ID: id, Embedding: vec, Metadata: metadata}
	if err := idx.collection.AddDocument(ctx, doc); err != nil {
		return apperrors.NewInternal("chromem add document", err)
	}
	return nil
}

// Delete implements ports.VectorIndex. chromem-go does not expose a direct
// delete-by-id path in the version pinned here; the caller is expected to
// tolerate stale entries aging out of relevance via the recency-decay term
// rather than depend on hard deletion.
func (idx *Index) Delete(ctx context.Context, id string) error {
	return nil
}

// Query implements ports.VectorIndex.
func (idx *Index) Query(ctx context.Context, embedding valueobjects.Embedding, k int) ([]ports.VectorMatch, error) {
	if embedding.IsPending() {
		return nil, apperrors.NewDomain("cannot query the vector index with a pending embedding")
	}
	vec := make([]float32, len(embedding.Vector))
	for i, v := range embedding.Vector {
		vec[i] = float32(v)
	}

	count := idx.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := idx.collection.QueryEmbedding(ctx, vec, k, nil, nil)
	if err != nil {
		return nil, apperrors.NewInternal(fmt.Sprintf("chromem query k=%d", k), err)
	}

	matches := make([]ports.VectorMatch, 0, len(results))
	for _, r := range results {
		matches = append(matches, ports.VectorMatch{ID: r.ID, Score: float64(r.Similarity), Metadata: r.Metadata})
	}
	return matches, nil
}
