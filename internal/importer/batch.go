// internal/importer/batch.go
package importer

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ImportAll runs independent requests with at most concurrency in flight and
// returns their outcomes in input order. Requests share nothing but the vault
// namespace, so two requests resolving to the same path race and the last
// write wins.
func (i *Importer) ImportAll(ctx context.Context, settings Settings, reqs []Request, concurrency int) []*Outcome {
	if concurrency < 1 {
		concurrency = 1
	}
	outcomes := make([]*Outcome, len(reqs))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for n, req := range reqs {
		g.Go(func() error {
			outcomes[n] = i.Import(ctx, settings, req)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}
