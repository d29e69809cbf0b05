// Package graph implements a persistent biomedical knowledge-graph
// store over BadgerDB. Nodes are CURIE-identified entities and edges
// are directed relations kept in dual indices (subject-first and
// object-first) for bidirectional traversal.
//
// Example usage:
//
//	s, err := graph.Open(graph.DefaultConfig("./data"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	for e, err := range s.Scan(ctx, "hgnc:11998", graph.RelAssociatedWith, "") {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(e)
//	}
package graph

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
)

// Store is the BadgerDB-backed knowledge graph.
type Store struct {
	db     *badger.DB
	config *Config

	// Edge and node counters live in RAM and are persisted on
	// graceful shutdown only.
	numEdges atomic.Uint64
	numNodes atomic.Uint64
}

// Open opens (or creates) a graph store with the given configuration.
func Open(cfg *Config) (*Store, error) {
	slog.Info("opening graph store",
		"dataDir", cfg.DataDir,
		"inMemory", cfg.InMemory,
		"profile", cfg.Profile,
		"readOnly", cfg.ReadOnly,
	)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := openBadgerDB(cfg)
	if err != nil {
		slog.Error("failed to open BadgerDB", "error", err)
		return nil, fmt.Errorf("failed to open BadgerDB: %w", err)
	}

	s := &Store{db: db, config: cfg}
	if err := s.loadStats(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	slog.Info("graph store opened", "edges", s.numEdges.Load(), "nodes", s.numNodes.Load())
	return s, nil
}

// Close persists the counters and releases the database.
func (s *Store) Close() error {
	slog.Info("closing graph store", "edges", s.numEdges.Load(), "nodes", s.numNodes.Load())
	if !s.config.ReadOnly {
		if err := s.saveStats(); err != nil {
			slog.Error("failed to save stats", "error", err)
		}
	}
	return s.db.Close()
}

func (s *Store) loadStats() error {
	return s.db.View(func(txn *badger.Txn) error {
		for _, ctr := range []struct {
			key []byte
			dst *atomic.Uint64
		}{
			{keyEdgeCount, &s.numEdges},
			{keyNodeCount, &s.numNodes},
		} {
			item, err := txn.Get(ctr.key)
			if err == badger.ErrKeyNotFound {
				ctr.dst.Store(0)
				continue
			}
			if err != nil {
				return err
			}
			if err := item.Value(func(val []byte) error {
				if len(val) >= 8 {
					ctr.dst.Store(binary.BigEndian.Uint64(val))
				}
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) saveStats() error {
	return s.db.Update(func(txn *badger.Txn) error {
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, s.numEdges.Load())
		if err := txn.Set(append([]byte(nil), keyEdgeCount...), append([]byte(nil), buf...)); err != nil {
			return err
		}
		buf2 := make([]byte, 8)
		binary.BigEndian.PutUint64(buf2, s.numNodes.Load())
		return txn.Set(append([]byte(nil), keyNodeCount...), buf2)
	})
}

// EdgeCount returns the number of edges in the store.
func (s *Store) EdgeCount() uint64 { return s.numEdges.Load() }

// NodeCount returns the number of entities in the store.
func (s *Store) NodeCount() uint64 { return s.numNodes.Load() }

// PutEntity stores an entity record and, for named HGNC and CHEBI
// entities, a symbol index entry that maps the uppercased name back to
// the CURIE.
func (s *Store) PutEntity(e Entity) error {
	if s.config.ReadOnly {
		return ErrReadOnly
	}
	val, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal entity %s: %w", e.CURIE, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(encodeEntityKey(e.CURIE), val); err != nil {
			return err
		}
		return putSymbolEntry(txn, e)
	})
	if err != nil {
		return err
	}
	s.numNodes.Add(1)
	return nil
}

func putSymbolEntry(txn *badger.Txn, e Entity) error {
	if e.Name == "" {
		return nil
	}
	ns := Namespace(e.CURIE)
	if ns != NSHGNC && ns != NSCHEBI {
		return nil
	}
	return txn.Set(encodeSymbolKey(ns, normalizeSymbol(e.Name)), []byte(e.CURIE))
}

// GetEntity fetches the entity record for a CURIE. Returns ErrNotFound
// when the CURIE is unknown.
func (s *Store) GetEntity(curie string) (Entity, error) {
	var e Entity
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(encodeEntityKey(curie))
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("entity %s: %w", curie, ErrNotFound)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &e)
		})
	})
	return e, err
}

// Name resolves a CURIE to its display name, falling back to the CURIE
// itself when the entity record is missing.
func (s *Store) Name(curie string) string {
	e, err := s.GetEntity(curie)
	if err != nil || e.Name == "" {
		return curie
	}
	return e.Name
}

// PutEdge stores one edge in both indices. Props may be nil.
func (s *Store) PutEdge(e Edge) error {
	if s.config.ReadOnly {
		return ErrReadOnly
	}
	val, err := marshalProps(e.Props)
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(encodeSPOKey(e.Subject, e.Predicate, e.Object), val); err != nil {
			return err
		}
		return txn.Set(encodeOPSKey(e.Subject, e.Predicate, e.Object), val)
	})
	if err != nil {
		return err
	}
	s.numEdges.Add(1)
	return nil
}

func marshalProps(p *EdgeProps) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	val, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal edge props: %w", err)
	}
	return val, nil
}

func unmarshalProps(val []byte) (*EdgeProps, error) {
	if len(val) == 0 {
		return nil, nil
	}
	var p EdgeProps
	if err := json.Unmarshal(val, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal edge props: %w", err)
	}
	return &p, nil
}

// Batch groups writes into BadgerDB write batches for bulk ingest.
type Batch struct {
	store *Store
	wb    *badger.WriteBatch
	edges uint64
	nodes uint64
}

// NewBatch starts a bulk write batch. Flush must be called to make the
// writes durable.
func (s *Store) NewBatch() (*Batch, error) {
	if s.config.ReadOnly {
		return nil, ErrReadOnly
	}
	return &Batch{store: s, wb: s.db.NewWriteBatch()}, nil
}

// PutEntity queues an entity write.
func (b *Batch) PutEntity(e Entity) error {
	val, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal entity %s: %w", e.CURIE, err)
	}
	if err := b.wb.Set(encodeEntityKey(e.CURIE), val); err != nil {
		return err
	}
	if e.Name != "" {
		ns := Namespace(e.CURIE)
		if ns == NSHGNC || ns == NSCHEBI {
			if err := b.wb.Set(encodeSymbolKey(ns, normalizeSymbol(e.Name)), []byte(e.CURIE)); err != nil {
				return err
			}
		}
	}
	b.nodes++
	return nil
}

// PutEdge queues an edge write into both indices.
func (b *Batch) PutEdge(e Edge) error {
	val, err := marshalProps(e.Props)
	if err != nil {
		return err
	}
	if err := b.wb.Set(encodeSPOKey(e.Subject, e.Predicate, e.Object), val); err != nil {
		return err
	}
	if err := b.wb.Set(encodeOPSKey(e.Subject, e.Predicate, e.Object), val); err != nil {
		return err
	}
	b.edges++
	return nil
}

// Flush commits the batch and folds its counts into the store.
func (b *Batch) Flush() error {
	if err := b.wb.Flush(); err != nil {
		return err
	}
	b.store.numEdges.Add(b.edges)
	b.store.numNodes.Add(b.nodes)
	b.edges, b.nodes = 0, 0
	return nil
}

// Cancel discards any queued writes.
func (b *Batch) Cancel() { b.wb.Cancel() }
