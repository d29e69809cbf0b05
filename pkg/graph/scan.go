package graph

import (
	"context"
	"iter"

	"github.com/dgraph-io/badger/v4"
)

// scanStrategy is the index and key prefix chosen for a scan pattern.
type scanStrategy struct {
	prefix []byte
	index  byte // spoPrefix or opsPrefix
}

// selectScanStrategy picks the index whose key order puts the bound
// components first:
//   - subject bound           -> SPO with S or S|P prefix
//   - object bound (only)     -> OPS with O or O|P prefix
//   - nothing bound           -> full SPO scan
func selectScanStrategy(s, p, o string) scanStrategy {
	if s != "" {
		return scanStrategy{prefix: encodeScanPrefix(spoPrefix, s, p), index: spoPrefix}
	}
	if o != "" {
		return scanStrategy{prefix: encodeScanPrefix(opsPrefix, o, p), index: opsPrefix}
	}
	return scanStrategy{prefix: []byte{spoPrefix}, index: spoPrefix}
}

// Scan returns an iterator over edges matching the pattern. Empty
// string means wildcard. A predicate bound without subject or object
// is filtered during the walk rather than via prefix.
func (s *Store) Scan(ctx context.Context, subject, predicate, object string) iter.Seq2[Edge, error] {
	return func(yield func(Edge, error) bool) {
		strategy := selectScanStrategy(subject, predicate, object)

		txn := s.db.NewTransaction(false)
		defer txn.Discard()

		opts := badger.DefaultIteratorOptions
		// Props are small; prefetching values avoids a second disk
		// touch per edge.
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(strategy.prefix); it.ValidForPrefix(strategy.prefix); it.Next() {
			select {
			case <-ctx.Done():
				yield(Edge{}, ctx.Err())
				return
			default:
			}

			item := it.Item()
			a, b, c, ok := decodeTripleKey(item.Key())
			if !ok {
				continue
			}

			var edge Edge
			switch strategy.index {
			case opsPrefix:
				edge = Edge{Subject: c, Predicate: b, Object: a}
			default:
				edge = Edge{Subject: a, Predicate: b, Object: c}
			}

			if subject != "" && edge.Subject != subject {
				continue
			}
			if predicate != "" && edge.Predicate != predicate {
				continue
			}
			if object != "" && edge.Object != object {
				continue
			}

			err := item.Value(func(val []byte) error {
				props, err := unmarshalProps(val)
				if err != nil {
					return err
				}
				edge.Props = props
				return nil
			})
			if err != nil {
				yield(Edge{}, err)
				return
			}

			if !yield(edge, nil) {
				return
			}
		}
	}
}
