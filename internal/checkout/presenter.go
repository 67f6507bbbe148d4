package checkout

import (
	"fmt"
	"strings"
	"sync"

	"github.com/eshaffer321/storefront/internal/domain/pricing"
)

// NoticeLevel classifies a user-facing message.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
)

// WalletView is what the wallet button area currently shows.
type WalletView string

const (
	WalletViewButton      WalletView = "button"
	WalletViewEmptyCart   WalletView = "empty-cart"
	WalletViewUnavailable WalletView = "unavailable"
	WalletViewProcessing  WalletView = "processing"
	WalletViewFailed      WalletView = "failed"
	WalletViewHidden      WalletView = "hidden"
)

// Confirmation is the summary shown after an order is placed.
type Confirmation struct {
	OrderID     string
	PaymentName string
	Total       string
	Email       string
	BrandName   string
}

// Text renders the confirmation message.
func (c Confirmation) Text() string {
	var b strings.Builder
	b.WriteString("Order Placed Successfully!\n\n")
	fmt.Fprintf(&b, "Order ID: %s\n", c.OrderID)
	fmt.Fprintf(&b, "Payment: %s\n", c.PaymentName)
	fmt.Fprintf(&b, "Total: $%s\n", c.Total)
	if c.Email != "" {
		fmt.Fprintf(&b, "\nA confirmation email has been sent to:\n%s\n", c.Email)
	}
	if c.BrandName != "" {
		fmt.Fprintf(&b, "\nThank you for shopping with %s!", c.BrandName)
	}
	return b.String()
}

// Presenter is the rendering surface. Implementations must not call back
// into the checkout from these methods.
type Presenter interface {
	Notify(level NoticeLevel, message string)
	SetCartCount(n int)
	ShowWallet(view WalletView, totals pricing.Totals)
	ShowConfirmation(c Confirmation)
	Navigate(path string)
}

// Notice is one recorded Notify call.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// Recorder is a Presenter that keeps everything it is shown.
type Recorder struct {
	mu            sync.Mutex
	notices       []Notice
	cartCount     int
	walletViews   []WalletView
	confirmations []Confirmation
	navigations   []string
}

var _ Presenter = (*Recorder)(nil)

// NewRecorder creates a Recorder. CartCount is -1 until SetCartCount is called.
func NewRecorder() *Recorder {
	return &Recorder{cartCount: -1}
}

func (r *Recorder) Notify(level NoticeLevel, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, Notice{Level: level, Message: message})
}

func (r *Recorder) SetCartCount(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cartCount = n
}

func (r *Recorder) ShowWallet(view WalletView, _ pricing.Totals) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.walletViews = append(r.walletViews, view)
}

func (r *Recorder) ShowConfirmation(c Confirmation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.confirmations = append(r.confirmations, c)
}

func (r *Recorder) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.navigations = append(r.navigations, path)
}

func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// LastNotice returns the most recent notice, or a zero Notice.
func (r *Recorder) LastNotice() Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}
	}
	return r.notices[len(r.notices)-1]
}

func (r *Recorder) CartCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cartCount
}

func (r *Recorder) WalletViews() []WalletView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]WalletView(nil), r.walletViews...)
}

func (r *Recorder) Confirmations() []Confirmation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Confirmation(nil), r.confirmations...)
}

func (r *Recorder) Navigations() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.navigations...)
}
