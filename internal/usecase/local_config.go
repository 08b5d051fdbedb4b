package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/bloom-dao/bloomgov/internal/domain/config"
	"github.com/samber/lo"
)

// SetConfigParams names a local default and its new value
type SetConfigParams struct {
	Key   string
	Value string
}

// SetConfigResult contains the saved defaults and the stored form of the value
type SetConfigResult struct {
	UpdatedConfig *config.LocalConfig
	ConfigPath    string
	Key           config.ConfigKey
	Value         string
}

// RemoveConfigParams names the local default to clear
type RemoveConfigParams struct {
	Key string
}

// RemoveConfigResult contains the saved defaults and the value that was cleared
type RemoveConfigResult struct {
	UpdatedConfig *config.LocalConfig
	ConfigPath    string
	Key           config.ConfigKey
	RemovedValue  string
}

// ShowConfigResult contains the local defaults and the effective settings
// they resolved to
type ShowConfigResult struct {
	Config       *config.LocalConfig
	ConfigPath   string
	Exists       bool
	ConfigSource string
	Effective    *config.RuntimeConfig
}

// SetConfig validates and stores a local default
type SetConfig struct {
	store LocalConfigRepository
}

func NewSetConfig(store LocalConfigRepository) *SetConfig {
	return &SetConfig{store: store}
}

func (uc *SetConfig) Run(ctx context.Context, params SetConfigParams) (*SetConfigResult, error) {
	key, err := parseConfigKey(params.Key)
	if err != nil {
		return nil, err
	}

	cfg, err := updateLocalConfig(ctx, uc.store, func(cfg *config.LocalConfig) error {
		return cfg.Set(key, params.Value)
	})
	if err != nil {
		return nil, err
	}

	return &SetConfigResult{
		UpdatedConfig: cfg,
		ConfigPath:    uc.store.GetPath(),
		Key:           key,
		Value:         cfg.Get(key),
	}, nil
}

// RemoveConfig clears a local default so the next layer applies
type RemoveConfig struct {
	store LocalConfigRepository
}

func NewRemoveConfig(store LocalConfigRepository) *RemoveConfig {
	return &RemoveConfig{store: store}
}

func (uc *RemoveConfig) Run(ctx context.Context, params RemoveConfigParams) (*RemoveConfigResult, error) {
	if !uc.store.Exists() {
		return nil, fmt.Errorf("no config file found at %s", uc.store.GetPath())
	}

	key, err := parseConfigKey(params.Key)
	if err != nil {
		return nil, err
	}

	var removed string
	cfg, err := updateLocalConfig(ctx, uc.store, func(cfg *config.LocalConfig) error {
		removed = cfg.Unset(key)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &RemoveConfigResult{
		UpdatedConfig: cfg,
		ConfigPath:    uc.store.GetPath(),
		Key:           key,
		RemovedValue:  removed,
	}, nil
}

// ShowConfig reports the local defaults next to the resolved runtime config
type ShowConfig struct {
	store   LocalConfigRepository
	runtime *config.RuntimeConfig
}

func NewShowConfig(store LocalConfigRepository, runtime *config.RuntimeConfig) *ShowConfig {
	return &ShowConfig{store: store, runtime: runtime}
}

func (uc *ShowConfig) Run(ctx context.Context) (*ShowConfigResult, error) {
	cfg, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	return &ShowConfigResult{
		Config:       cfg,
		ConfigPath:   uc.store.GetPath(),
		Exists:       uc.store.Exists(),
		ConfigSource: uc.runtime.ConfigSource,
		Effective:    uc.runtime,
	}, nil
}

func updateLocalConfig(ctx context.Context, store LocalConfigRepository, fn func(*config.LocalConfig) error) (*config.LocalConfig, error) {
	cfg, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := fn(cfg); err != nil {
		return nil, err
	}
	if err := store.Save(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseConfigKey(key string) (config.ConfigKey, error) {
	if config.IsValidConfigKey(key) {
		return config.NormalizeConfigKey(key), nil
	}
	valid := lo.Map(config.ValidConfigKeys(), func(k config.ConfigKey, _ int) string { return string(k) })
	return "", fmt.Errorf("unknown config key: %s (valid: %s)", key, strings.Join(valid, ", "))
}
