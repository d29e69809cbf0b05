package analysis

import (
	"context"
	"fmt"

	"github.com/gyorilab/indra-cogex/pkg/enrichment"
	"github.com/gyorilab/indra-cogex/pkg/graph"
	"github.com/gyorilab/indra-cogex/pkg/resolve"
)

// SignedOptions configures a signed (reverse causal reasoning)
// analysis.
type SignedOptions struct {
	// MinimumRegulonSize skips regulators with fewer known targets.
	// Zero means enrichment.DefaultMinimumRegulonSize.
	MinimumRegulonSize int
	// Filter thresholds INDRA statement evidence behind the regulons.
	Filter graph.RegulonFilter
}

// SignedResult is the outcome of a signed analysis.
type SignedResult struct {
	Positive map[string]string            `json:"positive"` // CURIE -> name
	Negative map[string]string            `json:"negative"`
	Results  []enrichment.RegulonResult   `json:"results"`
	Warnings []resolve.Warning            `json:"warnings,omitempty"`
}

// Signed resolves up- and down-regulated gene lists and scores every
// INDRA regulator by how well its known targets explain the signs.
func (s *Service) Signed(ctx context.Context, rawPositive, rawNegative string, opts SignedOptions) (*SignedResult, error) {
	pos, err := s.resolver.Genes(ctx, rawPositive)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve up-regulated genes: %w", err)
	}
	neg, err := s.resolver.Genes(ctx, rawNegative)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve down-regulated genes: %w", err)
	}
	if len(pos.CURIEs) == 0 && len(neg.CURIEs) == 0 {
		return nil, enrichment.ErrEmptyInput
	}

	up, down, err := s.signedSets(ctx, opts.Filter)
	if err != nil {
		return nil, err
	}

	results := enrichment.ReverseCausal(pos.CURIEs, neg.CURIEs, up, down, opts.MinimumRegulonSize)
	return &SignedResult{
		Positive: pos.Names,
		Negative: neg.Names,
		Results:  results,
		Warnings: append(pos.Warnings, neg.Warnings...),
	}, nil
}
