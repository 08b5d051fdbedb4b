package badgerdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bloom-dao/bloomgov/internal/domain/config"
	"github.com/bloom-dao/bloomgov/internal/ledger"
	"github.com/bloom-dao/bloomgov/internal/usecase"
	badger "github.com/dgraph-io/badger/v4"
)

var stateKey = []byte("ledger/state")

// StateStoreAdapter implements StateStore on a badger key/value store.
// The ledger document is kept as JSON under a single key.
type StateStoreAdapter struct {
	db     *badger.DB
	logger *slog.Logger
}

// NewStateStoreAdapter opens the store under <data-dir>/badger. An empty
// data dir opens an in-memory store.
func NewStateStoreAdapter(cfg *config.RuntimeConfig, logger *slog.Logger) (*StateStoreAdapter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var opts badger.Options
	if cfg.DataDir == "" {
		opts = badger.DefaultOptions("").
			WithInMemory(true)
	} else {
		if _, err := os.Stat(cfg.DataDir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		opts = badger.DefaultOptions(filepath.Join(cfg.DataDir, "badger"))
	}
	opts = opts.
		WithLogger(NewBadgerLogger(logger)).
		// The default INFO logging is a bit verbose
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}
	return &StateStoreAdapter{db: db, logger: logger}, nil
}

// Load reads the ledger state. Returns nil if nothing has been saved.
func (s *StateStoreAdapter) Load(_ context.Context) (*ledger.State, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(stateKey)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state: %w", err)
	}

	var state ledger.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse stored state: %w", err)
	}
	return &state, nil
}

// Save replaces the stored ledger state
func (s *StateStoreAdapter) Save(_ context.Context, state *ledger.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(stateKey, data)
	}); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	s.logger.Debug("saved ledger state", "component", "store", "bytes", len(data), "block", state.BlockNumber)
	return nil
}

// Delete removes the stored ledger state
func (s *StateStoreAdapter) Delete(_ context.Context) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(stateKey)
	})
}

// Close closes the underlying database
func (s *StateStoreAdapter) Close() error {
	return s.db.Close()
}

var _ usecase.StateStore = (*StateStoreAdapter)(nil)
