package analysis

import (
	"context"
	"fmt"

	"github.com/gyorilab/indra-cogex/pkg/enrichment"
	"github.com/gyorilab/indra-cogex/pkg/graph"
	"github.com/gyorilab/indra-cogex/pkg/resolve"
)

// ContinuousOptions configures a preranked enrichment analysis.
type ContinuousOptions struct {
	// Source selects the gene-set collection. Empty means SourceGO.
	Source string
	// GSEA forwards permutation settings to the engine.
	GSEA enrichment.GSEAOptions
	// Filter thresholds INDRA statement evidence for the causal
	// sources.
	Filter graph.RegulonFilter
}

// ContinuousResult is the outcome of a preranked analysis.
type ContinuousResult struct {
	Source   string                  `json:"source"`
	Ranked   int                     `json:"ranked_genes"`
	Results  []enrichment.GSEAResult `json:"results"`
	Warnings []resolve.Warning       `json:"warnings,omitempty"`
}

// ScoredInput is one line of a ranked upload: an identifier token and
// its ranking statistic.
type ScoredInput struct {
	Token string
	Score float64
}

// Continuous resolves a scored gene list and runs preranked gene-set
// enrichment against one collection. Tokens that do not resolve become
// warnings and are dropped from the ranking.
func (s *Service) Continuous(ctx context.Context, scores []ScoredInput, opts ContinuousOptions) (*ContinuousResult, error) {
	if opts.Source == "" {
		opts.Source = SourceGO
	}
	if len(scores) == 0 {
		return nil, enrichment.ErrEmptyInput
	}

	tokens := make([]string, len(scores))
	for i, in := range scores {
		tokens[i] = in.Token
	}
	resolved, err := s.resolver.GeneTokens(ctx, tokens)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ranked genes: %w", err)
	}

	var genes []enrichment.ScoredGene
	for _, in := range scores {
		for _, token := range resolve.ParseTokens(in.Token) {
			if curie, ok := resolved.Tokens[token]; ok {
				genes = append(genes, enrichment.ScoredGene{ID: curie, Score: in.Score})
			}
		}
	}
	if len(genes) == 0 {
		return nil, enrichment.ErrEmptyInput
	}

	sets, err := s.GeneSets(ctx, opts.Source, opts.Filter)
	if err != nil {
		return nil, err
	}

	results, err := enrichment.PrerankedGSEA(genes, sets, opts.GSEA)
	if err != nil {
		return nil, err
	}
	return &ContinuousResult{
		Source:   opts.Source,
		Ranked:   len(genes),
		Results:  results,
		Warnings: resolved.Warnings,
	}, nil
}
