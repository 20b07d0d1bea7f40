package cell

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type Result struct {
	Query  Query
	Record Record
	Err    error
}

// LookupAll runs one lookup per query, at most limit at a time. A failed
// lookup does not stop the others; results keep the order of queries.
func LookupAll(ctx context.Context, lookuper Lookuper, queries []Query, limit int) []Result {
	results := make([]Result, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for idx, q := range queries {
		idx, q := idx, q
		g.Go(func() error {
			record, err := lookuper.Lookup(gctx, q)
			results[idx] = Result{Query: q, Record: record, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
