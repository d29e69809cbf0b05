package enrichment

// TermSet is one biological term (GO term, pathway, regulon, enzyme
// class) together with the identifiers annotated to it. Members are
// bare local identifiers in the universe namespace (e.g. HGNC IDs).
type TermSet struct {
	CURIE   string
	Name    string
	Members map[string]bool
}

// Size returns the number of members annotated to the term.
func (t TermSet) Size() int { return len(t.Members) }

// Contingency is the per-term outcome of the discrete engine: the 2x2
// table counts against the universe and the raw Fisher p-value. Values
// are fixed once computed.
type Contingency struct {
	CURIE     string  `json:"curie"`
	Name      string  `json:"name"`
	Overlap   int     `json:"overlap"`
	QuerySize int     `json:"query_size"`
	TermSize  int     `json:"term_size"`
	Universe  int     `json:"universe"`
	P         float64 `json:"p"`

	// Rank is the first-seen position of the term in the input
	// collection. It is the final tie-breaker so that identical
	// statistics always order the same way.
	Rank int `json:"-"`
}

// Ranked is a Contingency with its adjusted q-value, as handed to the
// presentation layer. Continuous-mode rows reuse the same shape with
// the GSEA fields populated and the table counts carrying set sizes.
type Ranked struct {
	Contingency
	Q   float64 `json:"q"`
	MLP float64 `json:"mlp"`
	MLQ float64 `json:"mlq"`

	// Preranked GSEA fields; zero for discrete rows.
	ES          float64 `json:"es,omitempty"`
	NES         float64 `json:"nes,omitempty"`
	MatchedSize int     `json:"matched_size,omitempty"`
}
