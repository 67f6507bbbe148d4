package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/eshaffer321/storefront/internal/cart"
	"github.com/eshaffer321/storefront/internal/infrastructure/config"
	"github.com/eshaffer321/storefront/internal/infrastructure/logging"
	"github.com/eshaffer321/storefront/internal/infrastructure/storage"
	"github.com/eshaffer321/storefront/internal/orders"
	"github.com/eshaffer321/storefront/internal/payment"
)

// App is the wiring shared by the commands: config, logger, the profile
// store and the two stores built on it.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Store   storage.Store
	Carts   *cart.Store
	History *orders.History
}

// NewApp loads configuration and opens the configured storage backend.
func NewApp(ctx context.Context, flags GlobalFlags) (*App, error) {
	cfg := config.LoadOrEnvWithPath(flags.ConfigPath)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "storefront")

	store, err := storage.Open(ctx, cfg.Storage, logger.With("system", "storage"))
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}

	return &App{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Carts:   cart.NewStore(store, logger.With("system", "cart")),
		History: orders.NewHistory(store, logger.With("system", "orders")),
	}, nil
}

// Close releases the store.
func (a *App) Close() error {
	if a == nil || a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

// NewCardProvider creates the card SDK sandbox holding number.
func NewCardProvider(number string) *payment.SandboxCard {
	sdk := payment.NewSandboxCard()
	if number != "" {
		sdk.EnterCard(number)
	}
	return sdk
}

// NewWalletProvider creates the wallet SDK sandbox.
func NewWalletProvider(flags CheckoutFlags) *payment.SandboxWallet {
	sdk := payment.NewSandboxWallet()
	sdk.NextCaptureID = flags.CaptureID
	if flags.Fail {
		sdk.CaptureErr = &payment.SDKError{Code: "INSTRUMENT_DECLINED", Message: "The instrument presented was declined."}
	}
	return sdk
}

// publishableKey falls back to a sandbox key when none is configured.
func publishableKey(cfg *config.Config) string {
	if cfg.Payments.Card.PublishableKey == "" {
		return "pk_test_sandbox"
	}
	return cfg.Payments.Card.PublishableKey
}
