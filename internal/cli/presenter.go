package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/eshaffer321/storefront/internal/checkout"
	"github.com/eshaffer321/storefront/internal/domain/pricing"
)

// ConsolePresenter renders checkout feedback as plain lines.
type ConsolePresenter struct {
	mu        sync.Mutex
	w         io.Writer
	navigated chan struct{}
	once      sync.Once
}

var _ checkout.Presenter = (*ConsolePresenter)(nil)

// NewConsolePresenter creates a presenter writing to w.
func NewConsolePresenter(w io.Writer) *ConsolePresenter {
	return &ConsolePresenter{w: w, navigated: make(chan struct{})}
}

// Navigated is closed once the checkout has navigated away.
func (p *ConsolePresenter) Navigated() <-chan struct{} {
	return p.navigated
}

func (p *ConsolePresenter) Notify(level checkout.NoticeLevel, message string) {
	p.printf("[%s] %s\n", level, message)
}

func (p *ConsolePresenter) SetCartCount(n int) {
	p.printf("Cart: %d item(s)\n", n)
}

func (p *ConsolePresenter) ShowWallet(view checkout.WalletView, totals pricing.Totals) {
	switch view {
	case checkout.WalletViewButton:
		p.printf("PayPal button ready for $%s\n", pricing.Fixed(totals.Total))
	case checkout.WalletViewEmptyCart:
		p.printf("PayPal unavailable: %s\n", checkout.MsgEmptyCart)
	case checkout.WalletViewProcessing:
		p.printf("Processing payment...\n")
	case checkout.WalletViewFailed:
		p.printf("PayPal payment failed.\n")
	case checkout.WalletViewUnavailable:
		p.printf("PayPal could not be loaded.\n")
	}
}

func (p *ConsolePresenter) ShowConfirmation(c checkout.Confirmation) {
	p.printf("\n%s\n", c.Text())
}

func (p *ConsolePresenter) Navigate(path string) {
	p.printf("-> %s\n", path)
	p.once.Do(func() { close(p.navigated) })
}

func (p *ConsolePresenter) printf(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format, args...)
}
