package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bloom-dao/bloomgov/internal/api"
	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/bloom-dao/bloomgov/internal/domain/config"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultListenAddr is where the REST API binds when nothing else is configured
const DefaultListenAddr = api.DefaultListenAddress

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	// .env files feed the BLOOMGOV_* lookups below
	loadEnvFiles(projectRoot)

	file, err := loadFileConfig(projectRoot)
	if err != nil {
		return nil, err
	}
	chain, err := ResolveChain(file)
	if err != nil {
		return nil, err
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        v.GetString("data_dir"),
		Store:          config.StoreKind(strings.ToLower(v.GetString("store"))),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           v.GetBool("json"),
		Timeout:        v.GetDuration("timeout"),
		Sponsored:      v.GetBool("sponsored"),
		GasLimit:       v.GetUint64("gas_limit"),
		ListenAddr:     v.GetString("listen"),
		ConfigSource:   "defaults",
		Chain:          chain,
	}
	if file != nil {
		cfg.ConfigSource = ConfigFileName
	}

	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(projectRoot, config.LocalConfigDir)
	}

	switch cfg.Store {
	case "":
		cfg.Store = config.StoreJSON
	case config.StoreJSON, config.StoreBadger:
	default:
		return nil, fmt.Errorf("unknown store %q (expected %s or %s)", cfg.Store, config.StoreJSON, config.StoreBadger)
	}

	cfg.From = chain.Owner
	if from := v.GetString("from"); from != "" {
		if !common.IsHexAddress(from) {
			return nil, fmt.Errorf("invalid --from address %q", from)
		}
		cfg.From = common.HexToAddress(from)
	}

	if gasPrice := v.GetString("gas_price"); gasPrice != "" {
		cfg.GasPrice, err = domain.ParseUnits(gasPrice, gweiDecimals)
		if err != nil {
			return nil, fmt.Errorf("invalid --gas-price: %w", err)
		}
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
		if file != nil && file.Server.Listen != "" {
			cfg.ListenAddr = file.Server.Listen
		}
	}

	return cfg, nil
}

// FindProjectRoot walks up from the current directory to find bloomgov.toml.
// Without one the current directory is the project root.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, ConfigFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Local defaults from `bloomgov config set`
	v.SetConfigName(config.LocalConfigName)
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, config.LocalConfigDir))

	// Set up environment variables
	v.SetEnvPrefix("BLOOMGOV")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("timeout", "30s")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("store", string(config.StoreJSON))
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil {
				panic(err)
			}
		})
	}

	return v
}
