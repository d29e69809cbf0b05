package graph

import (
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// Config holds the configuration for the BadgerDB-backed graph store.
type Config struct {
	// DataDir is the directory where BadgerDB will store its data.
	DataDir string

	// InMemory enables in-memory mode (useful for testing).
	InMemory bool

	// BlockCacheSize is the size of the block cache in bytes.
	BlockCacheSize int64

	// IndexCacheSize is the size of the index cache in bytes.
	IndexCacheSize int64

	// Compression enables ZSTD compression.
	Compression bool

	// SyncWrites enables synchronous writes. Disabled for ingest
	// throughput, which may lose recent writes on crash.
	SyncWrites bool

	// MemTableSize is the size of the memtable in bytes.
	MemTableSize int64

	// NumMemtables is the maximum number of tables to keep in memory
	// while waiting to be written to disk.
	NumMemtables int

	// Profile specifies the resource profile ("Ingest-Heavy",
	// "Safe-Serving"). Defaults to "Safe-Serving" if empty.
	Profile string

	// ReadOnly enables read-only mode.
	ReadOnly bool

	// BypassLockGuard allows bypassing the lock guard.
	BypassLockGuard bool
}

// Validate checks if the configuration is valid and returns an error if not.
func (c *Config) Validate() error {
	if c.DataDir == "" && !c.InMemory {
		return fmt.Errorf("DataDir must be specified when InMemory is false")
	}
	if c.BlockCacheSize <= 0 {
		return fmt.Errorf("BlockCacheSize must be positive, got %d", c.BlockCacheSize)
	}
	if c.IndexCacheSize <= 0 {
		return fmt.Errorf("IndexCacheSize must be positive, got %d", c.IndexCacheSize)
	}
	return nil
}

// DefaultConfig returns a serving-oriented configuration. A full INDRA
// CoGEx dump is a few hundred million edges, which this handles fine.
func DefaultConfig(dataDir string) *Config {
	return &Config{
		DataDir:        dataDir,
		InMemory:       false,
		BlockCacheSize: 1 << 30,   // 1GB
		IndexCacheSize: 256 << 20, // 256MB
		Compression:    true,
		SyncWrites:     false,
		Profile:        "Safe-Serving",
	}
}

// buildBadgerOptions converts Config to badger.Options based on Profile.
func buildBadgerOptions(cfg *Config) badger.Options {
	opts := badger.DefaultOptions(filepath.Join(cfg.DataDir, "badger"))

	if cfg.InMemory {
		opts = badger.DefaultOptions("")
		opts.InMemory = true
		return opts
	}

	// Writes are append-only ingest batches; no app-level conflicts.
	opts.DetectConflicts = false
	opts.BypassLockGuard = cfg.BypassLockGuard
	opts.BloomFalsePositive = 0.01

	if cfg.ReadOnly {
		opts.ReadOnly = true
	}

	if cfg.Compression {
		opts.Compression = options.ZSTD
	} else {
		opts.Compression = options.None
	}

	switch cfg.Profile {
	case "Ingest-Heavy":
		// High RAM bulk load from TSV dumps.
		opts.ValueLogFileSize = 1 << 30 // 1GB
		opts.NumCompactors = 4

	case "Safe-Serving":
		fallthrough
	default:
		// Low RAM serving. Small ValueLog keeps IO stable; Badger v4
		// requires at least 2 compactors.
		opts.ValueLogFileSize = 64 << 20 // 64MB
		opts.NumCompactors = 2
	}

	opts.BlockCacheSize = cfg.BlockCacheSize
	opts.IndexCacheSize = cfg.IndexCacheSize
	opts.SyncWrites = cfg.SyncWrites

	if cfg.MemTableSize > 0 {
		opts.MemTableSize = cfg.MemTableSize
	}
	if cfg.NumMemtables > 0 {
		opts.NumMemtables = cfg.NumMemtables
	}

	return opts
}

// openBadgerDB opens a BadgerDB instance with the given configuration.
func openBadgerDB(cfg *Config) (*badger.DB, error) {
	opts := buildBadgerOptions(cfg)
	return badger.Open(opts)
}
