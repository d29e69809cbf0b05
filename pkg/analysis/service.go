// Package analysis orchestrates gene and metabolite set analyses over
// the knowledge graph: discrete over-representation, signed reverse
// causal reasoning, and continuous preranked enrichment.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gyorilab/indra-cogex/pkg/enrichment"
	"github.com/gyorilab/indra-cogex/pkg/graph"
	"github.com/gyorilab/indra-cogex/pkg/resolve"
)

// Gene-set source names accepted by the analyses.
const (
	SourceGO              = "go"
	SourceWikiPathways    = "wikipathways"
	SourceReactome        = "reactome"
	SourcePhenotype       = "phenotype"
	SourceIndraUpstream   = "indra-upstream"
	SourceIndraDownstream = "indra-downstream"
)

// GeneSources lists every discrete gene-set source in display order.
var GeneSources = []string{
	SourceGO,
	SourceWikiPathways,
	SourceReactome,
	SourcePhenotype,
	SourceIndraUpstream,
	SourceIndraDownstream,
}

// MaxCachedCollections bounds the set-collection cache. Collections
// are keyed by source plus the evidence filter, so a handful of
// distinct filter settings stay warm.
const MaxCachedCollections = 32

// Service runs analyses against one graph store. Set collections are
// expensive full-predicate walks, so they are built once per filter
// and cached.
type Service struct {
	store    *graph.Store
	resolver *resolve.Resolver

	collections *lru.Cache[string, []enrichment.TermSet]
	mu          sync.Mutex // serializes collection builds
}

// NewService builds an analysis service over an open store.
func NewService(store *graph.Store) *Service {
	cache, _ := lru.New[string, []enrichment.TermSet](MaxCachedCollections)
	return &Service{
		store:       store,
		resolver:    resolve.New(store),
		collections: cache,
	}
}

// Resolver exposes the identifier resolver for callers that want to
// resolve without running an analysis.
func (s *Service) Resolver() *resolve.Resolver { return s.resolver }

// Store exposes the underlying graph store.
func (s *Service) Store() *graph.Store { return s.store }

func collectionKey(source string, filter graph.RegulonFilter) string {
	return fmt.Sprintf("%s|%d|%g", source, filter.MinEvidence, filter.MinBelief)
}

// GeneSets returns the cached set collection for a source, building it
// on first use.
func (s *Service) GeneSets(ctx context.Context, source string, filter graph.RegulonFilter) ([]enrichment.TermSet, error) {
	key := collectionKey(source, filter)
	if sets, ok := s.collections.Get(key); ok {
		return sets, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sets, ok := s.collections.Get(key); ok {
		return sets, nil
	}

	slog.Info("building gene set collection", "source", source)
	var sets []enrichment.TermSet
	var err error
	switch source {
	case SourceGO:
		sets, err = s.store.GOSets(ctx)
	case SourceWikiPathways:
		sets, err = s.store.PathwaySets(ctx, graph.NSWikiPathways)
	case SourceReactome:
		sets, err = s.store.PathwaySets(ctx, graph.NSReactome)
	case SourcePhenotype:
		sets, err = s.store.PhenotypeSets(ctx)
	case SourceIndraUpstream:
		sets, err = s.store.UpstreamSets(ctx, filter)
	case SourceIndraDownstream:
		sets, err = s.store.DownstreamSets(ctx, filter)
	default:
		return nil, fmt.Errorf("unknown gene set source %q", source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build %s sets: %w", source, err)
	}

	slog.Info("gene set collection ready", "source", source, "terms", len(sets))
	s.collections.Add(key, sets)
	return sets, nil
}

// signedSets returns the cached up/down regulon pair.
func (s *Service) signedSets(ctx context.Context, filter graph.RegulonFilter) (up, down []enrichment.TermSet, err error) {
	upKey := collectionKey("indra-up", filter)
	downKey := collectionKey("indra-down", filter)
	cachedUp, okUp := s.collections.Get(upKey)
	cachedDown, okDown := s.collections.Get(downKey)
	if okUp && okDown {
		return cachedUp, cachedDown, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cachedUp, okUp = s.collections.Get(upKey)
	cachedDown, okDown = s.collections.Get(downKey)
	if okUp && okDown {
		return cachedUp, cachedDown, nil
	}

	slog.Info("building signed regulons")
	up, down, err = s.store.SignedSets(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build signed regulons: %w", err)
	}
	s.collections.Add(upKey, up)
	s.collections.Add(downKey, down)
	return up, down, nil
}

// metaboliteSets returns the cached EC-class metabolite sets.
func (s *Service) metaboliteSets(ctx context.Context, filter graph.RegulonFilter) ([]enrichment.TermSet, error) {
	key := collectionKey("metabolite", filter)
	if sets, ok := s.collections.Get(key); ok {
		return sets, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sets, ok := s.collections.Get(key); ok {
		return sets, nil
	}

	slog.Info("building metabolite set collection")
	sets, err := s.store.MetaboliteSets(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to build metabolite sets: %w", err)
	}
	s.collections.Add(key, sets)
	return sets, nil
}
