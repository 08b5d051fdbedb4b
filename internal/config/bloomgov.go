package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/bloom-dao/bloomgov/internal/domain/config"
	"github.com/bloom-dao/bloomgov/internal/governance"
	"github.com/bloom-dao/bloomgov/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
)

// ConfigFileName is the optional project configuration file
const ConfigFileName = "bloomgov.toml"

// Decimals of the ether and gwei denominations used by *_ether and *_gwei keys
const (
	etherDecimals = 18
	gweiDecimals  = 9
)

// loadEnvFiles loads .env and .env.local from the project root. Variables
// already set in the environment win, and .env.local wins over .env.
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env.local"),
		filepath.Join(projectRoot, ".env"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// loadFileConfig loads and parses bloomgov.toml if it exists.
// Returns (nil, nil) when bloomgov.toml does not exist.
func loadFileConfig(projectRoot string) (*config.FileConfig, error) {
	path := filepath.Join(projectRoot, ConfigFileName)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	var cfg config.FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ConfigFileName, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", ConfigFileName, strings.Join(keys, ", "))
	}

	cfg.Chain.Owner = os.ExpandEnv(cfg.Chain.Owner)
	return &cfg, nil
}

// ResolveChain overlays a bloomgov.toml document on the default dev chain.
// A nil file yields the defaults.
func ResolveChain(file *config.FileConfig) (*config.ChainConfig, error) {
	def := ledger.DefaultConfig(ledger.DefaultOwner)
	cc := &config.ChainConfig{
		ChainID:          def.ChainID,
		Owner:            def.Owner,
		OwnerBalance:     def.OwnerBalance,
		DefaultGasPrice:  def.DefaultGasPrice,
		DefaultGasLimit:  def.DefaultGasLimit,
		Paymaster:        def.Paymaster,
		PaymasterBalance: def.PaymasterBalance,
		Token: config.TokenConfig{
			Name:                def.Token.Name,
			Symbol:              def.Token.Symbol,
			ProposalThreshold:   def.Token.ProposalThreshold,
			DefaultVotingPeriod: def.Token.DefaultVotingPeriod,
			MinVotingPeriod:     def.Token.MinVotingPeriod,
			MaxVotingPeriod:     def.Token.MaxVotingPeriod,
			ExecutionPolicy:     string(def.Token.ExecutionPolicy),
			AllowLateVotes:      def.Token.AllowLateVotes,
		},
	}
	if file == nil {
		return cc, nil
	}

	var err error
	chain := file.Chain
	if chain.ChainID != 0 {
		cc.ChainID = chain.ChainID
	}
	if chain.Owner != "" {
		if !common.IsHexAddress(chain.Owner) {
			return nil, fmt.Errorf("chain.owner: invalid address %q", chain.Owner)
		}
		cc.Owner = common.HexToAddress(chain.Owner)
	}
	if cc.OwnerBalance, err = overlayUnits(cc.OwnerBalance, chain.OwnerBalanceEther, etherDecimals, "chain.owner_balance_ether"); err != nil {
		return nil, err
	}
	if cc.DefaultGasPrice, err = overlayUnits(cc.DefaultGasPrice, chain.DefaultGasPriceGwei, gweiDecimals, "chain.default_gas_price_gwei"); err != nil {
		return nil, err
	}
	if chain.DefaultGasLimit != 0 {
		cc.DefaultGasLimit = chain.DefaultGasLimit
	}

	token := file.Token
	if token.Name != "" {
		cc.Token.Name = token.Name
	}
	if token.Symbol != "" {
		cc.Token.Symbol = token.Symbol
	}
	if cc.Token.ProposalThreshold, err = overlayUnits(cc.Token.ProposalThreshold, token.ProposalThreshold, domain.TokenDecimals, "token.proposal_threshold"); err != nil {
		return nil, err
	}
	if token.DefaultVotingPeriod != 0 {
		cc.Token.DefaultVotingPeriod = token.DefaultVotingPeriod
	}
	if token.MinVotingPeriod != 0 {
		cc.Token.MinVotingPeriod = token.MinVotingPeriod
	}
	if token.MaxVotingPeriod != 0 {
		cc.Token.MaxVotingPeriod = token.MaxVotingPeriod
	}
	if token.ExecutionPolicy != "" {
		cc.Token.ExecutionPolicy = token.ExecutionPolicy
	}
	if token.AllowLateVotes != nil {
		cc.Token.AllowLateVotes = *token.AllowLateVotes
	}

	pm := file.Paymaster
	if cc.Paymaster.MaxGasPrice, err = overlayUnits(cc.Paymaster.MaxGasPrice, pm.MaxGasPriceGwei, gweiDecimals, "paymaster.max_gas_price_gwei"); err != nil {
		return nil, err
	}
	if pm.MaxGasLimit != 0 {
		cc.Paymaster.MaxGasLimit = pm.MaxGasLimit
	}
	if cc.Paymaster.MinVotingPower, err = overlayUnits(cc.Paymaster.MinVotingPower, pm.MinVotingPower, domain.TokenDecimals, "paymaster.min_voting_power"); err != nil {
		return nil, err
	}
	if cc.PaymasterBalance, err = overlayUnits(cc.PaymasterBalance, pm.BalanceEther, etherDecimals, "paymaster.balance_ether"); err != nil {
		return nil, err
	}

	if err := ToLedgerConfig(cc).Token.Validate(); err != nil {
		return nil, fmt.Errorf("invalid token configuration: %w", err)
	}
	return cc, nil
}

func overlayUnits(current *big.Int, value string, decimals int, key string) (*big.Int, error) {
	if value == "" {
		return current, nil
	}
	v, err := domain.ParseUnits(value, decimals)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

// ToLedgerConfig converts a resolved chain configuration into ledger genesis
func ToLedgerConfig(cc *config.ChainConfig) ledger.Config {
	return ledger.Config{
		ChainID: cc.ChainID,
		Owner:   cc.Owner,
		Token: governance.Config{
			Name:                cc.Token.Name,
			Symbol:              cc.Token.Symbol,
			ProposalThreshold:   cc.Token.ProposalThreshold,
			DefaultVotingPeriod: cc.Token.DefaultVotingPeriod,
			MinVotingPeriod:     cc.Token.MinVotingPeriod,
			MaxVotingPeriod:     cc.Token.MaxVotingPeriod,
			ExecutionPolicy:     governance.ExecutionPolicy(cc.Token.ExecutionPolicy),
			AllowLateVotes:      cc.Token.AllowLateVotes,
		},
		Paymaster:        cc.Paymaster,
		OwnerBalance:     cc.OwnerBalance,
		PaymasterBalance: cc.PaymasterBalance,
		DefaultGasPrice:  cc.DefaultGasPrice,
		DefaultGasLimit:  cc.DefaultGasLimit,
	}
}
