package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gyorilab/indra-cogex/pkg/analysis"
	"github.com/gyorilab/indra-cogex/pkg/enrichment"
)

// MCPServer exposes the analysis service to MCP clients over stdio.
type MCPServer struct {
	service *analysis.Service
}

// Run starts the MCP server on Stdio.
func Run(ctx context.Context, service *analysis.Service) error {
	s := server.NewMCPServer(
		"INDRA-CoGEx-Analysis",
		"0.1.0",
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
	)

	ms := &MCPServer{service: service}

	// --- Resources ---

	s.AddResource(
		mcp.NewResource(
			"cogex://graph/summary",
			"Graph Summary",
			mcp.WithResourceDescription("Summary statistics of the knowledge graph"),
			mcp.WithMIMEType("application/json"),
		),
		ms.handleGraphSummary,
	)

	s.AddResource(
		mcp.NewResource(
			"cogex://schema/conventions",
			"Schema Conventions",
			mcp.WithResourceDescription("Node namespaces and relation types in the knowledge graph"),
			mcp.WithMIMEType("text/markdown"),
		),
		ms.handleSchemaConventions,
	)

	// --- Tools ---

	s.AddTool(
		mcp.NewTool(
			"discrete_analysis",
			mcp.WithDescription("Run over-representation analysis on a gene list. Genes may be HGNC CURIEs, identifiers, or symbols."),
			mcp.WithString("genes", mcp.Required(), mcp.Description("Comma or newline separated gene list")),
			mcp.WithString("source", mcp.Description("Gene set source (default go)")),
			mcp.WithString("method", mcp.Description("Correction method (default fdr_bh)")),
			mcp.WithNumber("alpha", mcp.Description("Significance cutoff (default 0.05)")),
		),
		ms.handleDiscrete,
	)

	s.AddTool(
		mcp.NewTool(
			"signed_analysis",
			mcp.WithDescription("Run reverse causal reasoning over up- and down-regulated gene lists."),
			mcp.WithString("positive_genes", mcp.Required(), mcp.Description("Up-regulated gene list")),
			mcp.WithString("negative_genes", mcp.Required(), mcp.Description("Down-regulated gene list")),
		),
		ms.handleSigned,
	)

	s.AddTool(
		mcp.NewTool(
			"metabolite_analysis",
			mcp.WithDescription("Run over-representation analysis on a ChEBI metabolite list against EC enzyme classes."),
			mcp.WithString("metabolites", mcp.Required(), mcp.Description("Comma or newline separated metabolite list")),
		),
		ms.handleMetabolite,
	)

	s.AddTool(
		mcp.NewTool(
			"resolve_genes",
			mcp.WithDescription("Resolve gene symbols or identifiers to HGNC CURIEs, with suggestions for misses."),
			mcp.WithString("genes", mcp.Required(), mcp.Description("Comma or newline separated gene list")),
		),
		ms.handleResolveGenes,
	)

	s.AddTool(
		mcp.NewTool(
			"scan_edges",
			mcp.WithDescription("Scan raw edges from the knowledge graph (subject, predicate, object CURIEs). Empty fields act as wildcards."),
			mcp.WithString("subject", mcp.Description("Subject CURIE filter")),
			mcp.WithString("predicate", mcp.Description("Predicate filter")),
			mcp.WithString("object", mcp.Description("Object CURIE filter")),
		),
		ms.handleScanEdges,
	)

	slog.Info("Starting MCP server on Stdio")
	return server.ServeStdio(s)
}

// --- Resource Handlers ---

func (ms *MCPServer) handleGraphSummary(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	summary := map[string]interface{}{
		"edge_count": ms.service.Store().EdgeCount(),
		"node_count": ms.service.Store().NodeCount(),
	}

	jsonBytes, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func (ms *MCPServer) handleSchemaConventions(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	content := `
# INDRA CoGEx Knowledge Graph Conventions

## 1. Node Namespaces
- 'hgnc': Human genes.
- 'go': Gene Ontology terms.
- 'wikipathways', 'reactome': Pathways.
- 'hp': Human Phenotype Ontology terms.
- 'chebi': Metabolites.
- 'ec-code', 'fplx': Enzyme classes and protein families.

## 2. Predicates (Relationships)
- 'associated_with': [gene] -> [go]. GO annotation.
- 'haspart': [pathway] -> [gene]. Pathway membership.
- 'has_phenotype': [gene] -> [hp]. Phenotype association.
- 'indra_rel': [regulator] -> [target]. INDRA statement with
  stmt_type, evidence_count, and belief properties.
- 'xref': equivalences, e.g. [fplx] -> [ec-code].

## 3. Usage Guidelines
- To find a gene's annotations: scan with the gene as subject.
- To find a GO term's genes: scan with the term as object.
- Statement evidence on indra_rel edges supports belief filtering.
`
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/markdown",
			Text:     content,
		},
	}, nil
}

// --- Tool Handlers ---

func (ms *MCPServer) handleDiscrete(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	genes, ok := args["genes"].(string)
	if !ok {
		return mcp.NewToolResultError("genes argument required"), nil
	}

	source := analysis.SourceGO
	if v, ok := args["source"].(string); ok && v != "" {
		source = v
	}
	opts := analysis.DiscreteOptions{Sources: []string{source}}
	if v, ok := args["method"].(string); ok && v != "" {
		method, err := enrichment.ParseMethod(v)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		opts.Method = method
	}
	if v, ok := args["alpha"].(float64); ok && v > 0 {
		opts.Alpha = v
	}

	res, err := ms.service.Discrete(ctx, genes, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonBytes, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("failed to marshal results"), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (ms *MCPServer) handleSigned(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	positive, ok1 := args["positive_genes"].(string)
	negative, ok2 := args["negative_genes"].(string)
	if !ok1 || !ok2 {
		return mcp.NewToolResultError("positive_genes and negative_genes arguments required"), nil
	}

	res, err := ms.service.Signed(ctx, positive, negative, analysis.SignedOptions{})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonBytes, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("failed to marshal results"), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (ms *MCPServer) handleMetabolite(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	metabolites, ok := args["metabolites"].(string)
	if !ok {
		return mcp.NewToolResultError("metabolites argument required"), nil
	}

	res, err := ms.service.Metabolite(ctx, metabolites, analysis.MetaboliteOptions{})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonBytes, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("failed to marshal results"), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (ms *MCPServer) handleResolveGenes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	genes, ok := args["genes"].(string)
	if !ok {
		return mcp.NewToolResultError("genes argument required"), nil
	}

	res, err := ms.service.Resolver().Genes(ctx, genes)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("resolution failed: %v", err)), nil
	}

	jsonBytes, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("failed to marshal result"), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (ms *MCPServer) handleScanEdges(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	subject, _ := args["subject"].(string)
	predicate, _ := args["predicate"].(string)
	object, _ := args["object"].(string)

	var formatted []string
	count := 0
	maxResults := 50 // Safety limit

	for edge, err := range ms.service.Store().Scan(ctx, subject, predicate, object) {
		if err != nil {
			continue // Skip errors during iteration
		}
		formatted = append(formatted, edge.String())
		count++
		if count >= maxResults {
			formatted = append(formatted, "... (truncated)")
			break
		}
	}

	if len(formatted) == 0 {
		return mcp.NewToolResultText("No edges found."), nil
	}

	return mcp.NewToolResultText(strings.Join(formatted, "\n")), nil
}
