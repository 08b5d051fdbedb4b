package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bloom-dao/bloomgov/internal/domain/config"
	"github.com/bloom-dao/bloomgov/internal/ledger"
	"github.com/bloom-dao/bloomgov/internal/usecase"
)

// StateStoreAdapter implements StateStore as a JSON document on disk
type StateStoreAdapter struct {
	statePath string
}

// NewStateStoreAdapter creates a new StateStoreAdapter
func NewStateStoreAdapter(cfg *config.RuntimeConfig) *StateStoreAdapter {
	return &StateStoreAdapter{
		statePath: filepath.Join(cfg.DataDir, "state.json"),
	}
}

// Path returns the location of the state file
func (s *StateStoreAdapter) Path() string {
	return s.statePath
}

// Load reads the ledger state from disk. Returns nil if the file does not exist.
func (s *StateStoreAdapter) Load(_ context.Context) (*ledger.State, error) {
	data, err := os.ReadFile(s.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var state ledger.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", s.statePath, err)
	}
	return &state, nil
}

// Save writes the ledger state to disk, creating the directory if needed.
// The file is replaced by rename.
func (s *StateStoreAdapter) Save(_ context.Context, state *ledger.State) error {
	if err := writeJSONFile(s.statePath, state); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// writeJSONFile writes v as indented JSON to a sibling temp file and renames
// it over path
func writeJSONFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// Delete removes the state file from disk.
func (s *StateStoreAdapter) Delete(_ context.Context) error {
	err := os.Remove(s.statePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete state file: %w", err)
	}
	return nil
}

// Ensure StateStoreAdapter implements StateStore
var _ usecase.StateStore = (*StateStoreAdapter)(nil)
