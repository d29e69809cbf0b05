// Package ingest loads knowledge-graph dumps into the store. Dumps are
// gzipped tab-separated files: a node file with CURIE and name
// columns, and an edge file with subject, relation, object, and the
// INDRA statement columns.
package ingest

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gyorilab/indra-cogex/pkg/graph"
)

// progressInterval controls how often the loader logs row counts.
const progressInterval = 1_000_000

// Stats summarizes one load.
type Stats struct {
	Nodes   uint64
	Edges   uint64
	Skipped uint64
	Elapsed time.Duration
}

// Loader streams dump files into a store batch.
type Loader struct {
	store *graph.Store
}

// NewLoader builds a loader over an open store.
func NewLoader(store *graph.Store) *Loader {
	return &Loader{store: store}
}

// Load ingests a node file and an edge file. Either path may be empty
// to skip that half, so nodes and edges can be loaded in separate
// runs.
func (l *Loader) Load(nodePath, edgePath string) (*Stats, error) {
	start := time.Now()
	stats := &Stats{}

	batch, err := l.store.NewBatch()
	if err != nil {
		return nil, err
	}
	defer batch.Cancel()

	if nodePath != "" {
		if err := l.loadNodes(batch, nodePath, stats); err != nil {
			return nil, fmt.Errorf("failed to load nodes from %s: %w", nodePath, err)
		}
	}
	if edgePath != "" {
		if err := l.loadEdges(batch, edgePath, stats); err != nil {
			return nil, fmt.Errorf("failed to load edges from %s: %w", edgePath, err)
		}
	}

	if err := batch.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush batch: %w", err)
	}

	stats.Elapsed = time.Since(start)
	slog.Info("ingest complete",
		"nodes", stats.Nodes,
		"edges", stats.Edges,
		"skipped", stats.Skipped,
		"elapsed", stats.Elapsed,
	)
	return stats, nil
}

func (l *Loader) loadNodes(batch *graph.Batch, path string, stats *Stats) error {
	r, closeAll, err := openDump(path)
	if err != nil {
		return err
	}
	defer closeAll()

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(record) < 1 || isHeader(record[0]) {
			continue
		}

		curie := strings.TrimSpace(record[0])
		if curie == "" {
			stats.Skipped++
			continue
		}
		name := ""
		if len(record) > 1 {
			name = strings.TrimSpace(record[1])
		}

		if err := batch.PutEntity(graph.Entity{CURIE: curie, Name: name}); err != nil {
			return err
		}
		stats.Nodes++
		if stats.Nodes%progressInterval == 0 {
			slog.Info("loading nodes", "count", stats.Nodes)
		}
	}
	return nil
}

func (l *Loader) loadEdges(batch *graph.Batch, path string, stats *Stats) error {
	r, closeAll, err := openDump(path)
	if err != nil {
		return err
	}
	defer closeAll()

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(record) < 3 || isHeader(record[0]) {
			continue
		}

		edge := graph.Edge{
			Subject:   strings.TrimSpace(record[0]),
			Predicate: strings.TrimSpace(record[1]),
			Object:    strings.TrimSpace(record[2]),
		}
		if edge.Subject == "" || edge.Predicate == "" || edge.Object == "" {
			stats.Skipped++
			continue
		}
		if props, ok := parseProps(record); ok {
			edge.Props = props
		}

		if err := batch.PutEdge(edge); err != nil {
			return err
		}
		stats.Edges++
		if stats.Edges%progressInterval == 0 {
			slog.Info("loading edges", "count", stats.Edges)
		}
	}
	return nil
}

// parseProps reads the optional stmt_type, evidence_count, and belief
// columns.
func parseProps(record []string) (*graph.EdgeProps, bool) {
	if len(record) < 4 {
		return nil, false
	}
	props := &graph.EdgeProps{StmtType: strings.TrimSpace(record[3])}
	if len(record) > 4 {
		if n, err := strconv.Atoi(strings.TrimSpace(record[4])); err == nil {
			props.EvidenceCount = n
		}
	}
	if len(record) > 5 {
		if b, err := strconv.ParseFloat(strings.TrimSpace(record[5]), 64); err == nil {
			props.Belief = b
		}
	}
	if props.StmtType == "" && props.EvidenceCount == 0 && props.Belief == 0 {
		return nil, false
	}
	return props, true
}

func isHeader(first string) bool {
	switch strings.ToLower(strings.TrimSpace(first)) {
	case "curie", "id", "subject", ":start_id":
		return true
	}
	return false
}

// openDump opens a TSV file, transparently decompressing .gz.
func openDump(path string) (*csv.Reader, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	var reader io.Reader = f
	closeAll := func() { f.Close() }
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		reader = gz
		closeAll = func() {
			gz.Close()
			f.Close()
		}
	}

	r := csv.NewReader(reader)
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r, closeAll, nil
}
