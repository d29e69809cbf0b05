package analysis

import (
	"context"
	"fmt"
	"sync"

	"github.com/gyorilab/indra-cogex/pkg/enrichment"
	"github.com/gyorilab/indra-cogex/pkg/graph"
	"github.com/gyorilab/indra-cogex/pkg/resolve"
)

// DiscreteOptions configures a discrete gene-list analysis.
type DiscreteOptions struct {
	// Sources selects which gene-set collections to test. Empty means
	// GeneSources.
	Sources []string
	// Method is the multiple-testing correction. Empty means
	// Benjamini-Hochberg.
	Method enrichment.Method
	// Alpha is the significance cutoff. Zero means 0.05.
	Alpha float64
	// KeepInsignificant retains rows with q above Alpha.
	KeepInsignificant bool
	// Alternative selects the Fisher's exact tail. The zero value is
	// the one-sided greater test.
	Alternative enrichment.Alternative
	// Universe overrides the background size. Zero means the number
	// of HGNC entities in the graph.
	Universe int
	// Filter thresholds INDRA statement evidence for the causal
	// sources.
	Filter graph.RegulonFilter
}

func (o *DiscreteOptions) defaults() {
	if len(o.Sources) == 0 {
		o.Sources = GeneSources
	}
	if o.Method == "" {
		o.Method = enrichment.BenjaminiHochberg
	}
	if o.Alpha == 0 {
		o.Alpha = 0.05
	}
}

// DiscreteResult is the outcome of one discrete analysis.
type DiscreteResult struct {
	Query    map[string]string             `json:"query"` // CURIE -> name
	Universe int                           `json:"universe"`
	Results  map[string][]enrichment.Ranked `json:"results"` // by source
	Warnings []resolve.Warning             `json:"warnings,omitempty"`
}

// Discrete resolves a pasted gene list and runs over-representation
// analysis against each requested source. Sources run concurrently;
// the first failure wins.
func (s *Service) Discrete(ctx context.Context, rawGenes string, opts DiscreteOptions) (*DiscreteResult, error) {
	opts.defaults()

	resolved, err := s.resolver.Genes(ctx, rawGenes)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve gene list: %w", err)
	}
	if len(resolved.CURIEs) == 0 {
		return nil, enrichment.ErrEmptyInput
	}

	universe := opts.Universe
	if universe == 0 {
		universe, err = s.store.CountEntities(ctx, graph.NSHGNC)
		if err != nil {
			return nil, fmt.Errorf("failed to count gene universe: %w", err)
		}
	}

	out := &DiscreteResult{
		Query:    resolved.Names,
		Universe: universe,
		Results:  make(map[string][]enrichment.Ranked, len(opts.Sources)),
		Warnings: resolved.Warnings,
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	for _, source := range opts.Sources {
		wg.Add(1)
		go func(source string) {
			defer wg.Done()
			ranked, err := s.runORA(ctx, source, resolved.CURIEs, universe, opts)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("%s: %w", source, err)
				}
				return
			}
			out.Results[source] = ranked
		}(source)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func (s *Service) runORA(ctx context.Context, source string, query map[string]bool, universe int, opts DiscreteOptions) ([]enrichment.Ranked, error) {
	sets, err := s.GeneSets(ctx, source, opts.Filter)
	if err != nil {
		return nil, err
	}
	rows, err := enrichment.Enrich(query, universe, sets, enrichment.Options{Alternative: opts.Alternative})
	if err != nil {
		return nil, err
	}
	ranked, err := enrichment.Rank(rows, opts.Method, opts.Alpha)
	if err != nil {
		return nil, err
	}
	return enrichment.Format(ranked, opts.Alpha, opts.KeepInsignificant), nil
}
