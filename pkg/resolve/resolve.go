package resolve

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/gyorilab/indra-cogex/pkg/graph"
)

// SymbolSource is the slice of the graph store the resolver needs.
type SymbolSource interface {
	LookupSymbol(namespace, symbol string) (string, error)
	GetEntity(curie string) (graph.Entity, error)
	IterateSymbols(ctx context.Context, namespace string) iter.Seq2[graph.Symbol, error]
}

// Warning records one token that could not be resolved, with nearby
// symbols from the same namespace as suggestions. Warnings are
// advisory; resolution continues past them.
type Warning struct {
	Token       string   `json:"token"`
	Reason      string   `json:"reason"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Result is a resolved identifier set. CURIEs holds the deduplicated
// set; Names maps each CURIE to its display name; Tokens maps every
// resolved input token back to its CURIE.
type Result struct {
	CURIEs   map[string]bool   `json:"-"`
	Names    map[string]string `json:"names"`
	Tokens   map[string]string `json:"-"`
	Warnings []Warning         `json:"warnings,omitempty"`
}

// Resolver maps free-form tokens to graph CURIEs.
type Resolver struct {
	source SymbolSource
}

// New builds a resolver over a symbol source.
func New(source SymbolSource) *Resolver {
	return &Resolver{source: source}
}

// Genes resolves a pasted gene list. Each token may be an HGNC CURIE
// ("HGNC:11998"), a bare HGNC identifier ("11998"), or a gene symbol
// ("TP53", case-insensitive). Unresolvable tokens become Warnings.
func (r *Resolver) Genes(ctx context.Context, raw string) (*Result, error) {
	return r.resolveAll(ctx, raw, graph.NSHGNC)
}

// Metabolites resolves a pasted metabolite list of ChEBI CURIEs or
// metabolite names.
func (r *Resolver) Metabolites(ctx context.Context, raw string) (*Result, error) {
	return r.resolveAll(ctx, raw, graph.NSCHEBI)
}

// GeneTokens resolves pre-split gene tokens in one pass, so a ranked
// upload with many misses scans the symbol index once for all of its
// suggestions instead of once per miss.
func (r *Resolver) GeneTokens(ctx context.Context, rawTokens []string) (*Result, error) {
	var tokens []string
	for _, raw := range rawTokens {
		tokens = append(tokens, ParseTokens(raw)...)
	}
	return r.resolveTokens(ctx, tokens, graph.NSHGNC)
}

func (r *Resolver) resolveAll(ctx context.Context, raw, namespace string) (*Result, error) {
	return r.resolveTokens(ctx, ParseTokens(raw), namespace)
}

func (r *Resolver) resolveTokens(ctx context.Context, tokens []string, namespace string) (*Result, error) {
	res := &Result{
		CURIEs: make(map[string]bool),
		Names:  make(map[string]string),
		Tokens: make(map[string]string),
	}

	var misses []string
	for _, token := range tokens {
		curie, err := r.resolveToken(token, namespace)
		if err != nil {
			misses = append(misses, token)
			continue
		}
		res.Tokens[token] = curie
		if res.CURIEs[curie] {
			continue
		}
		res.CURIEs[curie] = true
		if e, err := r.source.GetEntity(curie); err == nil && e.Name != "" {
			res.Names[curie] = e.Name
		} else {
			res.Names[curie] = curie
		}
	}

	if len(misses) > 0 {
		symbols, err := r.allSymbols(ctx, namespace)
		if err != nil {
			return nil, err
		}
		for _, token := range misses {
			res.Warnings = append(res.Warnings, Warning{
				Token:       token,
				Reason:      fmt.Sprintf("no %s match", namespace),
				Suggestions: rankSimilar(token, symbols),
			})
		}
	}
	return res, nil
}

// resolveToken tries CURIE, bare identifier, then symbol lookup.
func (r *Resolver) resolveToken(token, namespace string) (string, error) {
	lower := strings.ToLower(token)
	if strings.HasPrefix(lower, namespace+":") {
		curie := namespace + ":" + token[len(namespace)+1:]
		if _, err := r.source.GetEntity(curie); err != nil {
			return "", err
		}
		return curie, nil
	}
	if namespace == graph.NSHGNC && isDigits(token) {
		curie := namespace + ":" + token
		if _, err := r.source.GetEntity(curie); err != nil {
			return "", err
		}
		return curie, nil
	}
	return r.source.LookupSymbol(namespace, token)
}

func (r *Resolver) allSymbols(ctx context.Context, namespace string) ([]string, error) {
	var symbols []string
	for sym, err := range r.source.IterateSymbols(ctx, namespace) {
		if err != nil {
			return nil, err
		}
		symbols = append(symbols, sym.Name)
	}
	return symbols, nil
}
