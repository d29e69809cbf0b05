// cogex-analyze runs gene and metabolite set analyses against a local
// knowledge-graph store and writes TSV tables to stdout.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gyorilab/indra-cogex/pkg/analysis"
	"github.com/gyorilab/indra-cogex/pkg/enrichment"
	"github.com/gyorilab/indra-cogex/pkg/graph"
	"github.com/gyorilab/indra-cogex/pkg/resolve"
)

var (
	dataDir           string
	method            string
	alpha             float64
	keepInsignificant bool
	source            string
	minEvidence       int
	minBelief         float64
)

func main() {
	root := &cobra.Command{
		Use:          "cogex-analyze",
		Short:        "Gene and metabolite set analysis over an INDRA CoGEx graph store",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data", "./data", "graph store directory")
	root.PersistentFlags().StringVar(&method, "method", string(enrichment.BenjaminiHochberg), "multiple testing correction method")
	root.PersistentFlags().Float64Var(&alpha, "alpha", 0.05, "significance cutoff")
	root.PersistentFlags().BoolVar(&keepInsignificant, "keep-insignificant", false, "keep rows above the cutoff")
	root.PersistentFlags().IntVar(&minEvidence, "min-evidence", 1, "minimum INDRA evidence count")
	root.PersistentFlags().Float64Var(&minBelief, "min-belief", 0, "minimum INDRA belief score")

	discrete := &cobra.Command{
		Use:   "discrete <genes-file>",
		Short: "Over-representation analysis on a gene list",
		Args:  cobra.ExactArgs(1),
		RunE:  runDiscrete,
	}
	discrete.Flags().StringVar(&source, "source", analysis.SourceGO, "gene set source")

	signed := &cobra.Command{
		Use:   "signed <positive-file> <negative-file>",
		Short: "Reverse causal reasoning on signed gene lists",
		Args:  cobra.ExactArgs(2),
		RunE:  runSigned,
	}

	metabolite := &cobra.Command{
		Use:   "metabolite <metabolites-file>",
		Short: "Over-representation analysis on a metabolite list",
		Args:  cobra.ExactArgs(1),
		RunE:  runMetabolite,
	}

	root.AddCommand(discrete, signed, metabolite)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func openService() (*analysis.Service, func(), error) {
	cfg := graph.DefaultConfig(dataDir)
	cfg.ReadOnly = true
	cfg.BypassLockGuard = true
	store, err := graph.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open graph store: %w", err)
	}
	return analysis.NewService(store), func() { store.Close() }, nil
}

func readList(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func filter() graph.RegulonFilter {
	return graph.RegulonFilter{MinEvidence: minEvidence, MinBelief: minBelief}
}

func runDiscrete(cmd *cobra.Command, args []string) error {
	genes, err := readList(args[0])
	if err != nil {
		return err
	}
	m, err := enrichment.ParseMethod(method)
	if err != nil {
		return err
	}

	service, closeStore, err := openService()
	if err != nil {
		return err
	}
	defer closeStore()

	res, err := service.Discrete(context.Background(), genes, analysis.DiscreteOptions{
		Sources:           []string{source},
		Method:            m,
		Alpha:             alpha,
		KeepInsignificant: keepInsignificant,
		Filter:            filter(),
	})
	if err != nil {
		return err
	}

	printWarnings(res.Warnings)
	return analysis.WriteRankedTSV(os.Stdout, res.Results[source])
}

func runSigned(cmd *cobra.Command, args []string) error {
	positive, err := readList(args[0])
	if err != nil {
		return err
	}
	negative, err := readList(args[1])
	if err != nil {
		return err
	}

	service, closeStore, err := openService()
	if err != nil {
		return err
	}
	defer closeStore()

	res, err := service.Signed(context.Background(), positive, negative, analysis.SignedOptions{
		Filter: filter(),
	})
	if err != nil {
		return err
	}

	printWarnings(res.Warnings)
	return analysis.WriteRegulonTSV(os.Stdout, res.Results)
}

func runMetabolite(cmd *cobra.Command, args []string) error {
	metabolites, err := readList(args[0])
	if err != nil {
		return err
	}
	m, err := enrichment.ParseMethod(method)
	if err != nil {
		return err
	}

	service, closeStore, err := openService()
	if err != nil {
		return err
	}
	defer closeStore()

	res, err := service.Metabolite(context.Background(), metabolites, analysis.MetaboliteOptions{
		Method:            m,
		Alpha:             alpha,
		KeepInsignificant: keepInsignificant,
		Filter:            filter(),
	})
	if err != nil {
		return err
	}

	printWarnings(res.Warnings)
	return analysis.WriteRankedTSV(os.Stdout, res.Results)
}

func printWarnings(warnings []resolve.Warning) {
	for _, w := range warnings {
		msg := fmt.Sprintf("warning: %q: %s", w.Token, w.Reason)
		if len(w.Suggestions) > 0 {
			msg += " (did you mean " + strings.Join(w.Suggestions, ", ") + "?)"
		}
		fmt.Fprintln(os.Stderr, msg)
	}
}
