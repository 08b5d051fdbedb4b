package usecase

import (
	"context"
	"testing"

	"github.com/bloom-dao/bloomgov/internal/domain/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLocalConfigRepository is a mock implementation of LocalConfigRepository
type MockLocalConfigRepository struct {
	mock.Mock
}

func (m *MockLocalConfigRepository) Exists() bool {
	return m.Called().Bool(0)
}

func (m *MockLocalConfigRepository) Load(ctx context.Context) (*config.LocalConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*config.LocalConfig), args.Error(1)
}

func (m *MockLocalConfigRepository) Save(ctx context.Context, cfg *config.LocalConfig) error {
	return m.Called(ctx, cfg).Error(0)
}

func (m *MockLocalConfigRepository) GetPath() string {
	return m.Called().String(0)
}

func TestSetConfig(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		wantKey   config.ConfigKey
		wantValue string
		wantErr   string
	}{
		{name: "sender alias", key: "sender", value: "0x70997970c51812dc3a010c7d01b50e0d17dc79c8", wantKey: config.ConfigKeyFrom, wantValue: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"},
		{name: "store", key: "store", value: "badger", wantKey: config.ConfigKeyStore, wantValue: "badger"},
		{name: "underscore key", key: "gas_limit", value: "250000", wantKey: config.ConfigKeyGasLimit, wantValue: "250000"},
		{name: "unknown key", key: "network", value: "sepolia", wantErr: "unknown config key: network"},
		{name: "bad value", key: "sponsored", value: "sometimes", wantErr: "invalid boolean"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockLocalConfigRepository)
			store.On("Load", mock.Anything).Return(config.DefaultLocalConfig(), nil).Maybe()
			store.On("Save", mock.Anything, mock.Anything).Return(nil).Maybe()
			store.On("GetPath").Return("/project/.bloomgov/config.local.json").Maybe()

			result, err := NewSetConfig(store).Run(context.Background(), SetConfigParams{Key: tt.key, Value: tt.value})
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, result.Key)
			assert.Equal(t, tt.wantValue, result.Value)
			assert.Equal(t, tt.wantValue, result.UpdatedConfig.Get(tt.wantKey))
			store.AssertCalled(t, "Save", mock.Anything, result.UpdatedConfig)
		})
	}
}

func TestRemoveConfig(t *testing.T) {
	t.Run("removes a value", func(t *testing.T) {
		store := new(MockLocalConfigRepository)
		store.On("Exists").Return(true)
		store.On("Load", mock.Anything).Return(&config.LocalConfig{Sponsored: true, GasPrice: "3"}, nil)
		store.On("Save", mock.Anything, mock.Anything).Return(nil)
		store.On("GetPath").Return("/project/.bloomgov/config.local.json")

		result, err := NewRemoveConfig(store).Run(context.Background(), RemoveConfigParams{Key: "gas-price"})
		require.NoError(t, err)
		assert.Equal(t, "3", result.RemovedValue)
		assert.Equal(t, &config.LocalConfig{Sponsored: true}, result.UpdatedConfig)
		store.AssertExpectations(t)
	})

	t.Run("requires a config file", func(t *testing.T) {
		store := new(MockLocalConfigRepository)
		store.On("Exists").Return(false)
		store.On("GetPath").Return("/nowhere/.bloomgov/config.local.json")

		_, err := NewRemoveConfig(store).Run(context.Background(), RemoveConfigParams{Key: "from"})
		assert.ErrorContains(t, err, "no config file found")
	})
}

func TestShowConfig(t *testing.T) {
	store := new(MockLocalConfigRepository)
	store.On("Exists").Return(false)
	store.On("Load", mock.Anything).Return(config.DefaultLocalConfig(), nil)
	store.On("GetPath").Return("/project/.bloomgov/config.local.json")
	runtime := &config.RuntimeConfig{ConfigSource: "bloomgov.toml", Store: config.StoreBadger}

	result, err := NewShowConfig(store, runtime).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Exists)
	assert.Equal(t, "bloomgov.toml", result.ConfigSource)
	assert.Same(t, runtime, result.Effective)
}
