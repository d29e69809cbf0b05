package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gyorilab/indra-cogex/pkg/analysis"
	"github.com/gyorilab/indra-cogex/pkg/common/errors"
	"github.com/gyorilab/indra-cogex/pkg/enrichment"
	"github.com/gyorilab/indra-cogex/pkg/graph"
)

// handleSources lists the gene-set sources available for discrete and
// continuous analyses.
func (s *Server) handleSources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sources": analysis.GeneSources})
}

// handleMethods lists the multiple-testing correction methods.
func (s *Server) handleMethods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"methods": enrichment.Methods})
}

// handleStyles returns the namespace display-class table.
func (s *Server) handleStyles(c *gin.Context) {
	c.JSON(http.StatusOK, s.styles)
}

// handleSymbols lists indexed display names for a namespace, for
// autocomplete.
func (s *Server) handleSymbols(c *gin.Context) {
	namespace := c.DefaultQuery("namespace", graph.NSHGNC)
	limit := 0
	var symbols []graph.Symbol
	for sym, err := range s.service.Store().IterateSymbols(c.Request.Context(), namespace) {
		if err != nil {
			handleError(c, err)
			return
		}
		symbols = append(symbols, sym)
		limit++
		if limit >= 10000 {
			break
		}
	}
	c.JSON(http.StatusOK, gin.H{"namespace": namespace, "symbols": symbols})
}

type resolveRequest struct {
	Tokens string `json:"tokens"`
}

// handleResolveGenes resolves a pasted gene list without running an
// analysis.
func (s *Server) handleResolveGenes(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Invalid request body", err))
		return
	}
	res, err := s.service.Resolver().Genes(c.Request.Context(), req.Tokens)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// handleResolveMetabolites resolves a pasted metabolite list.
func (s *Server) handleResolveMetabolites(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Invalid request body", err))
		return
	}
	res, err := s.service.Resolver().Metabolites(c.Request.Context(), req.Tokens)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type evidenceParams struct {
	MinEvidence int     `json:"minimum_evidence_count"`
	MinBelief   float64 `json:"minimum_belief"`
}

func (p evidenceParams) filter() graph.RegulonFilter {
	return graph.RegulonFilter{MinEvidence: p.MinEvidence, MinBelief: p.MinBelief}
}

type discreteRequest struct {
	Genes             string   `json:"genes" binding:"required"`
	Sources           []string `json:"sources"`
	Method            string   `json:"method"`
	Alpha             float64  `json:"alpha"`
	KeepInsignificant bool     `json:"keep_insignificant"`
	TwoSided          bool     `json:"two_sided"`
	evidenceParams
}

// handleDiscrete runs over-representation analysis on a pasted gene
// list. ?format=tsv streams the first requested source as a TSV table.
func (s *Server) handleDiscrete(c *gin.Context) {
	var req discreteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Invalid request body", err))
		return
	}

	method, err := parseMethod(req.Method)
	if err != nil {
		handleError(c, err)
		return
	}

	opts := analysis.DiscreteOptions{
		Sources:           req.Sources,
		Method:            method,
		Alpha:             req.Alpha,
		KeepInsignificant: req.KeepInsignificant,
		Filter:            req.filter(),
	}
	if req.TwoSided {
		opts.Alternative = enrichment.TwoSided
	}

	res, err := s.service.Discrete(c.Request.Context(), req.Genes, opts)
	if err != nil {
		handleError(c, err)
		return
	}

	if c.Query("format") == "tsv" {
		source := opts.Sources
		if len(source) == 0 {
			source = analysis.GeneSources
		}
		c.Header("Content-Type", "text/tab-separated-values")
		if err := analysis.WriteRankedTSV(c.Writer, res.Results[source[0]]); err != nil {
			handleError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, res)
}

type signedRequest struct {
	Positive           string `json:"positive_genes" binding:"required"`
	Negative           string `json:"negative_genes" binding:"required"`
	MinimumRegulonSize int    `json:"minimum_regulon_size"`
	evidenceParams
}

// handleSigned runs reverse causal reasoning over signed gene lists.
func (s *Server) handleSigned(c *gin.Context) {
	var req signedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Invalid request body", err))
		return
	}

	res, err := s.service.Signed(c.Request.Context(), req.Positive, req.Negative, analysis.SignedOptions{
		MinimumRegulonSize: req.MinimumRegulonSize,
		Filter:             req.filter(),
	})
	if err != nil {
		handleError(c, err)
		return
	}

	if c.Query("format") == "tsv" {
		c.Header("Content-Type", "text/tab-separated-values")
		if err := analysis.WriteRegulonTSV(c.Writer, res.Results); err != nil {
			handleError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, res)
}

type scoredToken struct {
	Token string  `json:"token" binding:"required"`
	Score float64 `json:"score"`
}

type continuousRequest struct {
	Scores       []scoredToken `json:"scores" binding:"required"`
	Source       string        `json:"source"`
	Permutations int           `json:"permutations"`
	MinHits      int           `json:"min_geneset_size"`
	MaxHits      int           `json:"max_geneset_size"`
	Seed         uint64        `json:"seed"`
	evidenceParams
}

// handleContinuous runs preranked enrichment on a scored gene list.
func (s *Server) handleContinuous(c *gin.Context) {
	var req continuousRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Invalid request body", err))
		return
	}

	scores := make([]analysis.ScoredInput, len(req.Scores))
	for i, s := range req.Scores {
		scores[i] = analysis.ScoredInput{Token: s.Token, Score: s.Score}
	}

	res, err := s.service.Continuous(c.Request.Context(), scores, analysis.ContinuousOptions{
		Source: req.Source,
		GSEA: enrichment.GSEAOptions{
			Permutations: req.Permutations,
			MinHits:      req.MinHits,
			MaxHits:      req.MaxHits,
			Seed:         req.Seed,
		},
		Filter: req.filter(),
	})
	if err != nil {
		handleError(c, err)
		return
	}

	if c.Query("format") == "tsv" {
		c.Header("Content-Type", "text/tab-separated-values")
		if err := analysis.WriteGSEATSV(c.Writer, res.Results); err != nil {
			handleError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, res)
}

type metaboliteRequest struct {
	Metabolites       string  `json:"metabolites" binding:"required"`
	Method            string  `json:"method"`
	Alpha             float64 `json:"alpha"`
	KeepInsignificant bool    `json:"keep_insignificant"`
	TwoSided          bool    `json:"two_sided"`
	evidenceParams
}

// handleMetabolite runs over-representation analysis on a metabolite
// list against the EC enzyme-class sets.
func (s *Server) handleMetabolite(c *gin.Context) {
	var req metaboliteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Invalid request body", err))
		return
	}

	method, err := parseMethod(req.Method)
	if err != nil {
		handleError(c, err)
		return
	}

	opts := analysis.MetaboliteOptions{
		Method:            method,
		Alpha:             req.Alpha,
		KeepInsignificant: req.KeepInsignificant,
		Filter:            req.filter(),
	}
	if req.TwoSided {
		opts.Alternative = enrichment.TwoSided
	}

	res, err := s.service.Metabolite(c.Request.Context(), req.Metabolites, opts)
	if err != nil {
		handleError(c, err)
		return
	}

	if c.Query("format") == "tsv" {
		c.Header("Content-Type", "text/tab-separated-values")
		if err := analysis.WriteRankedTSV(c.Writer, res.Results); err != nil {
			handleError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, res)
}

func parseMethod(raw string) (enrichment.Method, error) {
	if raw == "" {
		return enrichment.BenjaminiHochberg, nil
	}
	return enrichment.ParseMethod(raw)
}

func handleError(c *gin.Context, err error) {
	appErr := errors.MapError(err)
	c.JSON(appErr.Code, gin.H{"error": appErr.Message})
}
