package graph

import (
	"context"
	"sort"

	"github.com/gyorilab/indra-cogex/pkg/enrichment"
)

// Statement types carried on indra_rel edges. Complex is undirected
// and never contributes to causal gene sets.
const (
	StmtIncreaseAmount = "IncreaseAmount"
	StmtDecreaseAmount = "DecreaseAmount"
	StmtComplex        = "Complex"
)

// RegulonFilter thresholds the INDRA statement evidence behind an
// indra_rel edge before it joins a gene set.
type RegulonFilter struct {
	MinEvidence int
	MinBelief   float64
}

func (f RegulonFilter) keep(p *EdgeProps) bool {
	if p == nil {
		return false
	}
	if p.StmtType == StmtComplex {
		return false
	}
	if p.EvidenceCount < f.MinEvidence {
		return false
	}
	return p.Belief >= f.MinBelief
}

// collector accumulates term membership during an edge walk.
type collector map[string]map[string]bool

func (c collector) add(term, member string) {
	set, ok := c[term]
	if !ok {
		set = make(map[string]bool)
		c[term] = set
	}
	set[member] = true
}

// termSets materializes the collected sets ordered by term CURIE, so
// repeated builds of the same collection are byte-for-byte stable.
func (s *Store) termSets(c collector) []enrichment.TermSet {
	out := make([]enrichment.TermSet, 0, len(c))
	for curie, members := range c {
		out = append(out, enrichment.TermSet{
			CURIE:   curie,
			Name:    s.Name(curie),
			Members: members,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CURIE < out[j].CURIE })
	return out
}

// collectEdges walks every edge with the given predicate and feeds the
// qualifying ones to visit.
func (s *Store) collectEdges(ctx context.Context, predicate string, visit func(Edge)) error {
	for e, err := range s.Scan(ctx, "", predicate, "") {
		if err != nil {
			return err
		}
		visit(e)
	}
	return nil
}

// GOSets builds the Gene Ontology gene sets: genes are set members of
// each GO term they are annotated with.
func (s *Store) GOSets(ctx context.Context) ([]enrichment.TermSet, error) {
	c := make(collector)
	err := s.collectEdges(ctx, RelAssociatedWith, func(e Edge) {
		if Namespace(e.Subject) == NSHGNC && Namespace(e.Object) == NSGO {
			c.add(e.Object, e.Subject)
		}
	})
	if err != nil {
		return nil, err
	}
	return s.termSets(c), nil
}

// PathwaySets builds pathway gene sets for one pathway namespace
// (NSWikiPathways or NSReactome) from haspart edges.
func (s *Store) PathwaySets(ctx context.Context, namespace string) ([]enrichment.TermSet, error) {
	c := make(collector)
	err := s.collectEdges(ctx, RelHasPart, func(e Edge) {
		if Namespace(e.Subject) == namespace && Namespace(e.Object) == NSHGNC {
			c.add(e.Subject, e.Object)
		}
	})
	if err != nil {
		return nil, err
	}
	return s.termSets(c), nil
}

// PhenotypeSets builds HPO phenotype gene sets from has_phenotype
// edges.
func (s *Store) PhenotypeSets(ctx context.Context) ([]enrichment.TermSet, error) {
	c := make(collector)
	err := s.collectEdges(ctx, RelHasPhenotype, func(e Edge) {
		if Namespace(e.Subject) == NSHGNC && Namespace(e.Object) == NSHP {
			c.add(e.Object, e.Subject)
		}
	})
	if err != nil {
		return nil, err
	}
	return s.termSets(c), nil
}

// UpstreamSets builds, for each upstream regulator, the set of HGNC
// genes it causally affects according to INDRA statements. UniProt
// regulators are skipped: they duplicate their HGNC counterparts.
func (s *Store) UpstreamSets(ctx context.Context, filter RegulonFilter) ([]enrichment.TermSet, error) {
	c := make(collector)
	err := s.collectEdges(ctx, RelIndra, func(e Edge) {
		if !filter.keep(e.Props) {
			return
		}
		if Namespace(e.Subject) == NSUniProt || Namespace(e.Object) != NSHGNC {
			return
		}
		c.add(e.Subject, e.Object)
	})
	if err != nil {
		return nil, err
	}
	return s.termSets(c), nil
}

// DownstreamSets builds, for each downstream target, the set of HGNC
// genes that causally affect it.
func (s *Store) DownstreamSets(ctx context.Context, filter RegulonFilter) ([]enrichment.TermSet, error) {
	c := make(collector)
	err := s.collectEdges(ctx, RelIndra, func(e Edge) {
		if !filter.keep(e.Props) {
			return
		}
		if Namespace(e.Object) == NSUniProt || Namespace(e.Subject) != NSHGNC {
			return
		}
		c.add(e.Object, e.Subject)
	})
	if err != nil {
		return nil, err
	}
	return s.termSets(c), nil
}

// SignedSets builds the up- and down-regulons used by reverse causal
// reasoning: per regulator, the genes it increases and the genes it
// decreases.
func (s *Store) SignedSets(ctx context.Context, filter RegulonFilter) (up, down []enrichment.TermSet, err error) {
	ups := make(collector)
	downs := make(collector)
	err = s.collectEdges(ctx, RelIndra, func(e Edge) {
		if !filter.keep(e.Props) {
			return
		}
		if Namespace(e.Subject) == NSUniProt || Namespace(e.Object) != NSHGNC {
			return
		}
		switch e.Props.StmtType {
		case StmtIncreaseAmount:
			ups.add(e.Subject, e.Object)
		case StmtDecreaseAmount:
			downs.add(e.Subject, e.Object)
		}
	})
	if err != nil {
		return nil, nil, err
	}
	return s.termSets(ups), s.termSets(downs), nil
}

// MetaboliteSets builds, per EC enzyme class, the set of ChEBI
// metabolites linked to it by INDRA statements. FamPlex enzyme
// families are folded into their EC class via xref edges.
func (s *Store) MetaboliteSets(ctx context.Context, filter RegulonFilter) ([]enrichment.TermSet, error) {
	// fplx -> ec-code equivalences first.
	toEC := make(map[string]string)
	err := s.collectEdges(ctx, RelXref, func(e Edge) {
		switch {
		case Namespace(e.Subject) == NSFamplex && Namespace(e.Object) == NSECCode:
			toEC[e.Subject] = e.Object
		case Namespace(e.Subject) == NSECCode && Namespace(e.Object) == NSFamplex:
			toEC[e.Object] = e.Subject
		}
	})
	if err != nil {
		return nil, err
	}

	c := make(collector)
	err = s.collectEdges(ctx, RelIndra, func(e Edge) {
		if !filter.keep(e.Props) {
			return
		}
		if Namespace(e.Object) != NSCHEBI {
			return
		}
		term := e.Subject
		switch Namespace(e.Subject) {
		case NSECCode:
		case NSFamplex:
			mapped, ok := toEC[e.Subject]
			if !ok {
				return
			}
			term = mapped
		default:
			return
		}
		c.add(term, e.Object)
	})
	if err != nil {
		return nil, err
	}
	return s.termSets(c), nil
}
