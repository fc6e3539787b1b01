// Package ledger is a minimal stand-in for "the host chain's account
// model" (spec-level framing: only the interface this verifier
// consumes is implemented, not a reimplementation of Solana itself).
// It gives the phased driver, the CLI, and the integration tests
// something concrete to create, read, write, and close keyed
// byte-accounts against, without a real validator.
package ledger

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/cockroachdb/pebble"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/nicolaslara/solana-noir-verifier/log"
)

// ErrAccountNotFound is returned when an address has no account yet.
var ErrAccountNotFound = errors.New("ledger: account not found")

const cacheSize = 256

// Ledger stores raw account bytes keyed by address, either purely
// in-memory or backed by an embedded pebble database, mirroring the
// teacher's storage layer's choice of a bounded LRU cache in front of
// a durable key-value store.
type Ledger struct {
	mu    sync.Mutex
	mem   map[string][]byte
	db    *pebble.DB
	cache *lru.Cache[string, []byte]
}

// New returns an in-memory ledger, suitable for unit tests and
// short-lived CLI invocations that don't need to persist state across
// process restarts.
func New() *Ledger {
	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		log.Fatalf("ledger: failed to create LRU cache: %v", err)
	}
	return &Ledger{mem: make(map[string][]byte), cache: cache}
}

// Open returns a pebble-backed ledger rooted at path, for the
// simulator/CLI to keep account state across invocations.
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("ledger: creating data directory: %w", err)
	}
	opts := &pebble.Options{
		Levels: []pebble.LevelOptions{{Compression: pebble.SnappyCompression}},
	}
	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("ledger: opening pebble database: %w", err)
	}
	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		log.Fatalf("ledger: failed to create LRU cache: %v", err)
	}
	return &Ledger{db: db, cache: cache}, nil
}

// Close releases the underlying database, if any.
func (l *Ledger) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Get returns the account bytes stored at address, or
// ErrAccountNotFound.
func (l *Ledger) Get(address string) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := l.cache.Get(address); ok {
		return bytes.Clone(v), nil
	}

	var v []byte
	if l.db != nil {
		raw, closer, err := l.db.Get([]byte(address))
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("ledger: reading account %q: %w", address, err)
		}
		v = bytes.Clone(raw)
		if err := closer.Close(); err != nil {
			return nil, err
		}
	} else {
		stored, ok := l.mem[address]
		if !ok {
			return nil, ErrAccountNotFound
		}
		v = stored
	}

	l.cache.Add(address, bytes.Clone(v))
	return v, nil
}

// Put stores account bytes at address, creating it if it doesn't
// already exist.
func (l *Ledger) Put(address string, data []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db != nil {
		if err := l.db.Set([]byte(address), data, pebble.Sync); err != nil {
			return fmt.Errorf("ledger: writing account %q: %w", address, err)
		}
	} else {
		l.mem[address] = bytes.Clone(data)
	}
	l.cache.Add(address, bytes.Clone(data))
	log.Debugw("ledger: account written", "address", address, "bytes", len(data))
	return nil
}

// Exists reports whether an account currently exists at address.
func (l *Ledger) Exists(address string) bool {
	_, err := l.Get(address)
	return err == nil
}

// Delete removes an account, used by CloseAccounts to reclaim space
// once a verification has produced its receipt.
func (l *Ledger) Delete(address string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cache.Remove(address)
	if l.db != nil {
		if err := l.db.Delete([]byte(address), pebble.Sync); err != nil {
			return fmt.Errorf("ledger: deleting account %q: %w", address, err)
		}
		return nil
	}
	delete(l.mem, address)
	return nil
}
