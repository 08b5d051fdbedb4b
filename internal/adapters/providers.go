package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/bloom-dao/bloomgov/internal/adapters/badgerdb"
	"github.com/bloom-dao/bloomgov/internal/adapters/fs"
	"github.com/bloom-dao/bloomgov/internal/adapters/interactive"
	"github.com/bloom-dao/bloomgov/internal/adapters/progress"
	internalconfig "github.com/bloom-dao/bloomgov/internal/config"
	"github.com/bloom-dao/bloomgov/internal/domain/config"
	"github.com/bloom-dao/bloomgov/internal/ledger"
	"github.com/bloom-dao/bloomgov/internal/usecase"
	"github.com/fatih/color"
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
)

// ProvideStateStore opens the store selected by --store. The cleanup closes
// it.
func ProvideStateStore(cfg *config.RuntimeConfig, logger *slog.Logger) (usecase.StateStore, func(), error) {
	switch cfg.Store {
	case config.StoreBadger:
		store, err := badgerdb.NewStateStoreAdapter(cfg, logger.With("component", "store"))
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Warn("failed to close badger store", "error", err)
			}
		}, nil
	case config.StoreJSON, "":
		return fs.NewStateStoreAdapter(cfg), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// ProvidePromRegistry provides the registry the ledger and paymaster
// metrics are registered on
func ProvidePromRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// ProvideLedger restores the ledger from the state store, or creates it from
// the configured genesis when nothing has been saved yet
func ProvideLedger(cfg *config.RuntimeConfig, store usecase.StateStore, logger *slog.Logger, reg prometheus.Registerer) (*ledger.Ledger, error) {
	opts := []ledger.Option{
		ledger.WithLogger(logger),
		ledger.WithPromRegistry(reg),
	}

	state, err := store.Load(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger state: %w", err)
	}
	if state != nil {
		opts = append(opts, ledger.WithState(state))
	}

	chain := cfg.Chain
	if chain == nil {
		chain, err = internalconfig.ResolveChain(nil)
		if err != nil {
			return nil, err
		}
	}

	l, err := ledger.New(internalconfig.ToLedgerConfig(chain), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	return l, nil
}

// ProvideProgressSink shows a spinner on a terminal and stays silent for
// --json output
func ProvideProgressSink(cfg *config.RuntimeConfig) usecase.ProgressSink {
	if cfg.JSON {
		return progress.NewNopSink()
	}
	return progress.NewSpinnerSink(os.Stderr, !cfg.NonInteractive && !color.NoColor)
}

// StoreSet provides the state store and the ledger restored from it
var StoreSet = wire.NewSet(
	ProvideStateStore,
	ProvidePromRegistry,
	wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
	ProvideLedger,
	wire.Bind(new(usecase.Chain), new(*ledger.Ledger)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.ProposalSelector), new(*interactive.SelectorAdapter)),
)

// ProgressSet provides progress reporting
var ProgressSet = wire.NewSet(
	ProvideProgressSink,
)

// LocalConfigSet provides the .bloomgov/config.local.json store
var LocalConfigSet = wire.NewSet(
	fs.NewLocalConfigStoreAdapter,
	wire.Bind(new(usecase.LocalConfigRepository), new(*fs.LocalConfigStoreAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	StoreSet,
	LocalConfigSet,
	InteractiveSet,
	ProgressSet,
)
