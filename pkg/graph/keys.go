package graph

import "bytes"

// Key prefixes partition the single BadgerDB keyspace. Triple keys are
// prefix | s | NUL | p | NUL | o with the components stored as raw
// CURIE strings; CURIEs never contain NUL so the split is unambiguous.
const (
	spoPrefix byte = 0x01 // subject-first index
	opsPrefix byte = 0x02 // object-first index
	entPrefix byte = 0x03 // entity records by CURIE
	symPrefix byte = 0x04 // symbol -> CURIE index
	sysPrefix byte = 0xFF // counters and metadata
)

const keySep byte = 0x00

var (
	keyEdgeCount = []byte{sysPrefix, 'e', 'd', 'g', 'e', 's'}
	keyNodeCount = []byte{sysPrefix, 'n', 'o', 'd', 'e', 's'}
)

func encodeTriple(prefix byte, a, b, c string) []byte {
	key := make([]byte, 0, 1+len(a)+len(b)+len(c)+2)
	key = append(key, prefix)
	key = append(key, a...)
	key = append(key, keySep)
	key = append(key, b...)
	key = append(key, keySep)
	key = append(key, c...)
	return key
}

// encodeSPOKey builds the subject-first key for an edge.
func encodeSPOKey(s, p, o string) []byte {
	return encodeTriple(spoPrefix, s, p, o)
}

// encodeOPSKey builds the object-first key for an edge.
func encodeOPSKey(s, p, o string) []byte {
	return encodeTriple(opsPrefix, o, p, s)
}

// encodeScanPrefix builds the longest usable prefix for an index scan:
// prefix alone, prefix|first, or prefix|first|second. Bound components
// are terminated with the separator so "GO:1" never matches "GO:10".
func encodeScanPrefix(prefix byte, first, second string) []byte {
	key := []byte{prefix}
	if first == "" {
		return key
	}
	key = append(key, first...)
	key = append(key, keySep)
	if second == "" {
		return key
	}
	key = append(key, second...)
	key = append(key, keySep)
	return key
}

// decodeTripleKey splits a triple key back into its three components.
// Returns false for keys from other keyspaces or with a bad shape.
func decodeTripleKey(key []byte) (a, b, c string, ok bool) {
	if len(key) < 2 {
		return "", "", "", false
	}
	parts := bytes.SplitN(key[1:], []byte{keySep}, 3)
	if len(parts) != 3 {
		return "", "", "", false
	}
	return string(parts[0]), string(parts[1]), string(parts[2]), true
}

func encodeEntityKey(curie string) []byte {
	key := make([]byte, 0, 1+len(curie))
	key = append(key, entPrefix)
	return append(key, curie...)
}

func encodeSymbolKey(namespace, symbol string) []byte {
	key := make([]byte, 0, 2+len(namespace)+len(symbol))
	key = append(key, symPrefix)
	key = append(key, namespace...)
	key = append(key, keySep)
	return append(key, symbol...)
}

func symbolScanPrefix(namespace string) []byte {
	key := make([]byte, 0, 2+len(namespace))
	key = append(key, symPrefix)
	key = append(key, namespace...)
	return append(key, keySep)
}

func entityScanPrefix(namespace string) []byte {
	key := make([]byte, 0, 2+len(namespace))
	key = append(key, entPrefix)
	key = append(key, namespace...)
	return append(key, ':')
}
