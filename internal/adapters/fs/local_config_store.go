package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bloom-dao/bloomgov/internal/domain/config"
	"github.com/bloom-dao/bloomgov/internal/usecase"
)

// LocalConfigStoreAdapter keeps the per-checkout defaults in
// <project>/.bloomgov/config.local.json, the same file viper reads as its
// config layer.
type LocalConfigStoreAdapter struct {
	path string
}

var _ usecase.LocalConfigRepository = (*LocalConfigStoreAdapter)(nil)

// NewLocalConfigStoreAdapter creates a new LocalConfigStoreAdapter
func NewLocalConfigStoreAdapter(cfg *config.RuntimeConfig) *LocalConfigStoreAdapter {
	return &LocalConfigStoreAdapter{
		path: filepath.Join(cfg.ProjectRoot, config.LocalConfigDir, config.LocalConfigName+".json"),
	}
}

func (s *LocalConfigStoreAdapter) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// Load returns the stored defaults, or empty defaults when nothing was saved.
// Keys bloomgov does not know are rejected so typos surface.
func (s *LocalConfigStoreAdapter) Load(_ context.Context) (*config.LocalConfig, error) {
	local := config.DefaultLocalConfig()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return local, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return local, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(local); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", s.path, err)
	}
	return local, nil
}

// Save replaces the config file
func (s *LocalConfigStoreAdapter) Save(_ context.Context, local *config.LocalConfig) error {
	if err := writeJSONFile(s.path, local); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

func (s *LocalConfigStoreAdapter) GetPath() string {
	return s.path
}
