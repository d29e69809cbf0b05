package analysis

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/gyorilab/indra-cogex/pkg/enrichment"
)

// WriteRankedTSV writes over-representation rows as a tab-separated
// table matching the web app's download format.
func WriteRankedTSV(w io.Writer, rows []enrichment.Ranked) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	header := []string{"curie", "name", "p", "q", "mlp", "mlq", "overlap", "query_size", "geneset_size", "universe"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.CURIE,
			r.Name,
			formatFloat(r.P),
			formatFloat(r.Q),
			formatFloat(r.MLP),
			formatFloat(r.MLQ),
			strconv.Itoa(r.Overlap),
			strconv.Itoa(r.QuerySize),
			strconv.Itoa(r.TermSize),
			strconv.Itoa(r.Universe),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %s: %w", r.CURIE, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRegulonTSV writes reverse-causal-reasoning rows as a
// tab-separated table. Undefined p-values render as empty cells.
func WriteRegulonTSV(w io.Writer, rows []enrichment.RegulonResult) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	header := []string{"curie", "name", "correct", "incorrect", "ambiguous", "binom_pvalue", "binom_ambig_pvalue"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.CURIE,
			r.Name,
			strconv.Itoa(r.Correct),
			strconv.Itoa(r.Incorrect),
			strconv.Itoa(r.Ambiguous),
			formatOptFloat(r.PBinom),
			formatOptFloat(r.PAmbig),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %s: %w", r.CURIE, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteGSEATSV writes preranked enrichment rows as a tab-separated
// table.
func WriteGSEATSV(w io.Writer, rows []enrichment.GSEAResult) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	header := []string{"curie", "name", "es", "nes", "pvalue", "qvalue", "matched_size", "geneset_size"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.CURIE,
			r.Name,
			formatFloat(r.ES),
			formatFloat(r.NES),
			formatFloat(r.P),
			formatFloat(r.Q),
			strconv.Itoa(r.MatchedSize),
			strconv.Itoa(r.TermSize),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %s: %w", r.CURIE, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatOptFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
