package graph

import (
	"fmt"
	"strings"
)

// Relation predicates present in a CoGEx dump.
const (
	RelAssociatedWith = "associated_with"
	RelHasPart        = "haspart"
	RelHasPhenotype   = "has_phenotype"
	RelIndra          = "indra_rel"
	RelXref           = "xref"
)

// Namespaces used by the enrichment queries. CURIEs are written
// lowercase-prefix form, e.g. "hgnc:11998" or "go:GO:0006915".
const (
	NSHGNC         = "hgnc"
	NSGO           = "go"
	NSWikiPathways = "wikipathways"
	NSReactome     = "reactome"
	NSHP           = "hp"
	NSCHEBI        = "chebi"
	NSECCode       = "ec-code"
	NSFamplex      = "fplx"
	NSUniProt      = "uniprot"
)

// EdgeProps carries the statement evidence attached to indra_rel edges.
// Other relations store no properties.
type EdgeProps struct {
	StmtType      string  `json:"stmt_type,omitempty"`
	EvidenceCount int     `json:"evidence_count,omitempty"`
	Belief        float64 `json:"belief,omitempty"`
}

// Edge is one directed relation between two CURIE-identified entities.
type Edge struct {
	Subject   string
	Predicate string
	Object    string
	Props     *EdgeProps
}

func (e Edge) String() string {
	return fmt.Sprintf("(%s)-[%s]->(%s)", e.Subject, e.Predicate, e.Object)
}

// Entity is a node record: a CURIE plus its display name.
type Entity struct {
	CURIE string `json:"curie"`
	Name  string `json:"name"`
}

// Namespace returns the lowercased prefix of a CURIE, or "" when the
// value has no colon.
func Namespace(curie string) string {
	if i := strings.IndexByte(curie, ':'); i >= 0 {
		return strings.ToLower(curie[:i])
	}
	return ""
}
