package analysis

import (
	"context"
	"fmt"

	"github.com/gyorilab/indra-cogex/pkg/enrichment"
	"github.com/gyorilab/indra-cogex/pkg/graph"
	"github.com/gyorilab/indra-cogex/pkg/resolve"
)

// MetaboliteOptions configures a discrete metabolite analysis.
type MetaboliteOptions struct {
	Method            enrichment.Method
	Alpha             float64
	KeepInsignificant bool
	Alternative       enrichment.Alternative
	// Universe overrides the background size. Zero means the number
	// of ChEBI entities in the graph.
	Universe int
	Filter   graph.RegulonFilter
}

// MetaboliteResult is the outcome of a metabolite analysis.
type MetaboliteResult struct {
	Query    map[string]string   `json:"query"` // CURIE -> name
	Universe int                 `json:"universe"`
	Results  []enrichment.Ranked `json:"results"`
	Warnings []resolve.Warning   `json:"warnings,omitempty"`
}

// Metabolite resolves a pasted metabolite list and runs
// over-representation analysis against the EC enzyme-class sets.
func (s *Service) Metabolite(ctx context.Context, rawMetabolites string, opts MetaboliteOptions) (*MetaboliteResult, error) {
	if opts.Method == "" {
		opts.Method = enrichment.BenjaminiHochberg
	}
	if opts.Alpha == 0 {
		opts.Alpha = 0.05
	}

	resolved, err := s.resolver.Metabolites(ctx, rawMetabolites)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve metabolite list: %w", err)
	}
	if len(resolved.CURIEs) == 0 {
		return nil, enrichment.ErrEmptyInput
	}

	universe := opts.Universe
	if universe == 0 {
		universe, err = s.store.CountEntities(ctx, graph.NSCHEBI)
		if err != nil {
			return nil, fmt.Errorf("failed to count metabolite universe: %w", err)
		}
	}

	sets, err := s.metaboliteSets(ctx, opts.Filter)
	if err != nil {
		return nil, err
	}

	rows, err := enrichment.Enrich(resolved.CURIEs, universe, sets, enrichment.Options{Alternative: opts.Alternative})
	if err != nil {
		return nil, err
	}
	ranked, err := enrichment.Rank(rows, opts.Method, opts.Alpha)
	if err != nil {
		return nil, err
	}

	return &MetaboliteResult{
		Query:    resolved.Names,
		Universe: universe,
		Results:  enrichment.Format(ranked, opts.Alpha, opts.KeepInsignificant),
		Warnings: resolved.Warnings,
	}, nil
}
