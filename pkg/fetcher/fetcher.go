package fetcher

import (
	"context"
	"fmt"

	"crystaldb/pkg/config"
	"crystaldb/pkg/exclusion"
	"crystaldb/pkg/logger"
	"crystaldb/pkg/ratelimit"
	"crystaldb/pkg/rcsb"
	"crystaldb/pkg/structures"
)

// Options controls how the fetch loop builds its work set and which
// entries end up in the record store.
type Options struct {
	// OnlyWithDetails excludes entries without crystallization details
	// from the store (they are still recorded in the exclusion set).
	OnlyWithDetails bool
	// SkipExcluded removes already-excluded IDs from the work set.
	SkipExcluded bool
	// SkipCompleted removes IDs already present in the store from the
	// work set. When false every matching ID is re-fetched and replaced.
	SkipCompleted bool
}

// DefaultOptions returns the standard incremental-fetch behavior
func DefaultOptions() Options {
	return Options{
		OnlyWithDetails: true,
		SkipExcluded:    true,
		SkipCompleted:   true,
	}
}

// Fetcher runs the incremental fetch/merge/checkpoint loop
type Fetcher struct {
	client    CatalogClient
	store     *structures.Store
	excluded  *exclusion.Set
	limiter   ratelimit.Limiter
	batchSize int
	opts      Options
	logger    logger.Logger
}

// New creates a Fetcher from the fetch configuration
func New(client CatalogClient, store *structures.Store, excluded *exclusion.Set, cfg *config.FetchConfig) *Fetcher {
	return &Fetcher{
		client:    client,
		store:     store,
		excluded:  excluded,
		limiter:   ratelimit.NewFixedInterval(cfg.RequestDelay),
		batchSize: cfg.BatchSize,
		opts: Options{
			OnlyWithDetails: cfg.OnlyWithDetails,
			SkipExcluded:    cfg.SkipExcluded,
			SkipCompleted:   cfg.SkipCompleted,
		},
		logger: logger.GetLogger(),
	}
}

// Fetch downloads crystallization metadata for every identifier in the
// universe that still needs it, merging results into the record store
// and checkpointing both stores to disk after every batch. At most one
// batch of work is lost on interruption.
//
// The returned mapping is the store's full contents after the run.
func (f *Fetcher) Fetch(ctx context.Context, universe []string) (map[string]*structures.Structure, error) {
	if err := f.excluded.Load(); err != nil {
		return nil, fmt.Errorf("failed to load exclusion set: %w", err)
	}
	if err := f.store.Load(); err != nil {
		return nil, fmt.Errorf("failed to load structure store: %w", err)
	}

	work := f.buildWorkSet(universe)
	if len(work) == 0 {
		f.logger.Info("all entries already fetched or excluded, nothing to download")
		return f.store.Records(), nil
	}

	batches := chunkIDs(work, f.batchSize)

	f.logger.InfoWithFields("starting structure download", map[string]interface{}{
		"entries": len(work),
		"batches": len(batches),
	})

	fetched := 0
	for i, batch := range batches {
		select {
		case <-ctx.Done():
			f.logger.WarnWithFields("fetch interrupted, flushing stores", map[string]interface{}{
				"fetched": fetched,
				"total":   len(work),
			})
			f.flush()
			return f.store.Records(), ctx.Err()
		default:
		}

		// Flat delay between requests to stay under the service's
		// implicit rate limit.
		f.limiter.Wait()

		f.logger.InfoWithFields("downloading batch", map[string]interface{}{
			"batch":   i + 1,
			"batches": len(batches),
			"from":    fetched,
			"through": fetched + len(batch),
			"total":   len(work),
		})

		resp, err := f.client.FetchBatch(batch)
		if err != nil {
			// Dropped, not retried: these IDs are in neither store, so
			// the next invocation picks them up again.
			logger.LogBatch(i+1, len(batches), len(batch), false, err)
			continue
		}
		if resp == nil || resp.Data == nil {
			logger.LogBatch(i+1, len(batches), len(batch), false, nil)
			continue
		}

		for _, entry := range resp.Data.Entries {
			f.processEntry(entry)
		}

		if err := f.checkpoint(); err != nil {
			return f.store.Records(), err
		}

		fetched += len(batch)
		logger.LogFetchProgress(fetched, len(work))
	}

	if err := f.checkpoint(); err != nil {
		return f.store.Records(), err
	}

	f.logger.InfoWithFields("done fetching structures", map[string]interface{}{
		"records":  f.store.Len(),
		"excluded": f.excluded.Len(),
	})

	return f.store.Records(), nil
}

// buildWorkSet computes universe minus the ignored identifiers. The
// result order follows the input; duplicates in the universe collapse.
func (f *Fetcher) buildWorkSet(universe []string) []string {
	seen := make(map[string]struct{}, len(universe))
	work := make([]string, 0, len(universe))

	for _, id := range universe {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if f.opts.SkipExcluded && f.excluded.Contains(id) {
			continue
		}
		if f.opts.SkipCompleted && f.store.Has(id) {
			continue
		}
		work = append(work, id)
	}

	return work
}

// processEntry extracts one entry's fields and merges it into the
// stores. Field coercion failures leave the field nil; they never drop
// the entry.
func (f *Fetcher) processEntry(entry rcsb.Entry) {
	pdbid := entry.RcsbID

	if len(entry.ExptlCrystalGrow) == 0 {
		f.excluded.Add(pdbid)
		return
	}

	// The API may return several crystallization conditions per entry;
	// only the first is kept.
	grow := entry.ExptlCrystalGrow[0]

	details := grow.PdbxDetails
	if details == nil {
		f.excluded.Add(pdbid)
		if f.opts.OnlyWithDetails {
			return
		}
	}

	var pmcid *string
	if entry.Pubmed != nil && entry.Pubmed.PubmedCentralID != nil {
		stripped := stripPMCPrefix(*entry.Pubmed.PubmedCentralID)
		pmcid = &stripped
	}

	var resolution *float64
	if entry.RcsbEntryInfo != nil {
		resolution = firstFloat(entry.RcsbEntryInfo.ResolutionCombined)
	}

	f.store.Put(&structures.Structure{
		PDBID:       pdbid,
		PMCID:       pmcid,
		Details:     details,
		Sequences:   []string{}, // reserved, not extracted yet
		PH:          parseFloat(grow.PH),
		Temperature: parseFloat(grow.Temp),
		Method:      grow.Method,
		Resolution:  resolution,
	})
}

// checkpoint persists both stores; this is the resumability guarantee
func (f *Fetcher) checkpoint() error {
	if err := f.store.Save(); err != nil {
		return fmt.Errorf("failed to save structure store: %w", err)
	}
	if err := f.excluded.Save(); err != nil {
		return fmt.Errorf("failed to save exclusion set: %w", err)
	}
	return nil
}

// flush persists both stores in their current state, logging failures
// instead of returning them. Used on interruption, when the original
// error must not be masked.
func (f *Fetcher) flush() {
	if err := f.store.Save(); err != nil {
		f.logger.WithError(err).Error("failed to flush structure store")
	}
	if err := f.excluded.Save(); err != nil {
		f.logger.WithError(err).Error("failed to flush exclusion set")
	}
}
