package checkout

import (
	"time"

	"github.com/eshaffer321/storefront/internal/infrastructure/config"
)

// Config holds the checkout settings the adapters need.
type Config struct {
	PublishableKey string
	Currency       string
	BrandName      string
	Description    string
	HomePath       string
	ConfirmDelay   time.Duration
	RetryDelay     time.Duration
	CardSelector   string
	WalletSelector string
}

// ConfigFrom maps the application config onto checkout settings.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		PublishableKey: cfg.Payments.Card.PublishableKey,
		Currency:       cfg.Checkout.Currency,
		BrandName:      cfg.Checkout.BrandName,
		Description:    cfg.Checkout.Description,
		HomePath:       cfg.Checkout.HomePath,
		ConfirmDelay:   cfg.Checkout.ConfirmDelay,
		RetryDelay:     cfg.Payments.Wallet.RetryDelay,
		CardSelector:   DefaultCardSelector,
		WalletSelector: DefaultWalletSelector,
	}
}

func (c Config) withDefaults() Config {
	if c.Currency == "" {
		c.Currency = "USD"
	}
	if c.BrandName == "" {
		c.BrandName = "NIGHTFALL STAR"
	}
	if c.Description == "" {
		c.Description = c.BrandName + " - Fashion Purchase"
	}
	if c.HomePath == "" {
		c.HomePath = "index.html"
	}
	if c.ConfirmDelay <= 0 {
		c.ConfirmDelay = time.Second
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 3 * time.Second
	}
	if c.CardSelector == "" {
		c.CardSelector = DefaultCardSelector
	}
	if c.WalletSelector == "" {
		c.WalletSelector = DefaultWalletSelector
	}
	return c
}
