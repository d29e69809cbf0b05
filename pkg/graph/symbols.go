package graph

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// normalizeSymbol folds a display name for case-insensitive lookup.
func normalizeSymbol(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// LookupSymbol resolves a display name (e.g. an HGNC gene symbol or a
// ChEBI metabolite name) within a namespace to its CURIE. The match is
// case-insensitive. Returns ErrNotFound for unknown symbols.
func (s *Store) LookupSymbol(namespace, symbol string) (string, error) {
	var curie string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(encodeSymbolKey(namespace, normalizeSymbol(symbol)))
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("symbol %s/%s: %w", namespace, symbol, ErrNotFound)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			curie = string(val)
			return nil
		})
	})
	return curie, err
}

// Symbol is one entry of the name index.
type Symbol struct {
	Name  string
	CURIE string
}

// IterateSymbols walks every indexed name in a namespace. Used by the
// resolver to build fuzzy-match suggestions.
func (s *Store) IterateSymbols(ctx context.Context, namespace string) iter.Seq2[Symbol, error] {
	return func(yield func(Symbol, error) bool) {
		txn := s.db.NewTransaction(false)
		defer txn.Discard()

		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := symbolScanPrefix(namespace)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			select {
			case <-ctx.Done():
				yield(Symbol{}, ctx.Err())
				return
			default:
			}

			item := it.Item()
			name := string(item.Key()[len(prefix):])
			var curie string
			err := item.Value(func(val []byte) error {
				curie = string(val)
				return nil
			})
			if err != nil {
				yield(Symbol{}, err)
				return
			}
			if !yield(Symbol{Name: name, CURIE: curie}, nil) {
				return
			}
		}
	}
}

// CountEntities counts stored entities whose CURIE carries the given
// namespace prefix. With HGNC this is the protein-coding gene universe
// used as the enrichment background.
func (s *Store) CountEntities(ctx context.Context, namespace string) (int, error) {
	var count int
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := entityScanPrefix(namespace)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			count++
		}
		return nil
	})
	return count, err
}
