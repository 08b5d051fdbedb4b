package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/ethereum/go-ethereum/common"
)

const (
	// LocalConfigDir is the per-project directory, relative to the project root
	LocalConfigDir = ".bloomgov"
	// LocalConfigName is the local config file inside LocalConfigDir, without extension
	LocalConfigName = "config.local"
)

// LocalConfig holds per-checkout defaults stored in .bloomgov/config.local.json.
// Its JSON names are the viper keys of the flags they default.
type LocalConfig struct {
	From      string `json:"from,omitempty"`
	Store     string `json:"store,omitempty"`
	Sponsored bool   `json:"sponsored,omitempty"`
	GasPrice  string `json:"gas_price,omitempty"` // gwei
	GasLimit  uint64 `json:"gas_limit,omitempty"`
}

// ConfigKey represents a configuration key
type ConfigKey string

const (
	ConfigKeyFrom      ConfigKey = "from"
	ConfigKeyStore     ConfigKey = "store"
	ConfigKeySponsored ConfigKey = "sponsored"
	ConfigKeyGasPrice  ConfigKey = "gas-price"
	ConfigKeyGasLimit  ConfigKey = "gas-limit"
)

// DefaultLocalConfig returns the default local configuration
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{}
}

// ValidConfigKeys returns all valid configuration keys
func ValidConfigKeys() []ConfigKey {
	return []ConfigKey{
		ConfigKeyFrom,
		ConfigKeyStore,
		ConfigKeySponsored,
		ConfigKeyGasPrice,
		ConfigKeyGasLimit,
	}
}

// IsValidConfigKey checks if a key is valid
func IsValidConfigKey(key string) bool {
	normalized := NormalizeConfigKey(key)
	for _, validKey := range ValidConfigKeys() {
		if validKey == normalized {
			return true
		}
	}
	return false
}

// NormalizeConfigKey normalizes a config key (e.g., "sender" -> "from")
func NormalizeConfigKey(key string) ConfigKey {
	key = strings.ReplaceAll(strings.ToLower(key), "_", "-")
	if key == "sender" {
		return ConfigKeyFrom
	}
	return ConfigKey(key)
}

// Get returns the value of key as it would be passed on the command line
func (c *LocalConfig) Get(key ConfigKey) string {
	switch key {
	case ConfigKeyFrom:
		return c.From
	case ConfigKeyStore:
		return c.Store
	case ConfigKeySponsored:
		if c.Sponsored {
			return "true"
		}
		return ""
	case ConfigKeyGasPrice:
		return c.GasPrice
	case ConfigKeyGasLimit:
		if c.GasLimit == 0 {
			return ""
		}
		return strconv.FormatUint(c.GasLimit, 10)
	}
	return ""
}

// Set validates value and stores it under key
func (c *LocalConfig) Set(key ConfigKey, value string) error {
	switch key {
	case ConfigKeyFrom:
		if !common.IsHexAddress(value) {
			return fmt.Errorf("invalid address %q", value)
		}
		c.From = common.HexToAddress(value).Hex()
	case ConfigKeyStore:
		switch StoreKind(strings.ToLower(value)) {
		case StoreJSON, StoreBadger:
			c.Store = strings.ToLower(value)
		default:
			return fmt.Errorf("unknown store %q (valid: json, badger)", value)
		}
	case ConfigKeySponsored:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		c.Sponsored = b
	case ConfigKeyGasPrice:
		if _, err := domain.ParseUnits(value, 9); err != nil {
			return fmt.Errorf("invalid gas price %q, expected gwei", value)
		}
		c.GasPrice = value
	case ConfigKeyGasLimit:
		limit, err := strconv.ParseUint(value, 10, 64)
		if err != nil || limit == 0 {
			return fmt.Errorf("invalid gas limit %q", value)
		}
		c.GasLimit = limit
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// Unset clears key and returns its previous value
func (c *LocalConfig) Unset(key ConfigKey) string {
	old := c.Get(key)
	switch key {
	case ConfigKeyFrom:
		c.From = ""
	case ConfigKeyStore:
		c.Store = ""
	case ConfigKeySponsored:
		c.Sponsored = false
	case ConfigKeyGasPrice:
		c.GasPrice = ""
	case ConfigKeyGasLimit:
		c.GasLimit = 0
	}
	return old
}
