package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Sandbox card numbers.
const (
	SandboxCardSuccess = "4242424242424242"
	SandboxCardDecline = "4000000000000002"
)

// SandboxCard is an in-process CardSDK. The card number a shopper would type
// into the hosted widget is supplied with EnterCard.
type SandboxCard struct {
	mu      sync.Mutex
	number  string
	calls   int
	mounted map[string]bool

	// Unavailable makes NewClient fail, as when the SDK script does not load.
	Unavailable bool
}

var _ CardSDK = (*SandboxCard)(nil)

// NewSandboxCard creates a sandbox card SDK with the success card entered.
func NewSandboxCard() *SandboxCard {
	return &SandboxCard{number: SandboxCardSuccess, mounted: map[string]bool{}}
}

// EnterCard sets the number the hosted input holds.
func (s *SandboxCard) EnterCard(number string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.number = strings.ReplaceAll(number, " ", "")
}

// Calls is the number of CreatePaymentMethod requests received.
func (s *SandboxCard) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Mounted reports whether an element is mounted at selector.
func (s *SandboxCard) Mounted(selector string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted[selector]
}

func (s *SandboxCard) NewClient(publishableKey string) (CardClient, error) {
	if s.Unavailable {
		return nil, errors.New("card SDK not loaded")
	}
	if !strings.HasPrefix(publishableKey, "pk_") {
		return nil, fmt.Errorf("invalid publishable key %q", publishableKey)
	}
	return &sandboxCardClient{sdk: s}, nil
}

type sandboxCardClient struct {
	sdk *SandboxCard
}

func (c *sandboxCardClient) Elements() Elements {
	return sandboxElements{sdk: c.sdk}
}

func (c *sandboxCardClient) CreatePaymentMethod(ctx context.Context, kind string, element CardElement, billing BillingDetails) (PaymentMethodResult, error) {
	if err := ctx.Err(); err != nil {
		return PaymentMethodResult{}, err
	}

	c.sdk.mu.Lock()
	c.sdk.calls++
	number := c.sdk.number
	c.sdk.mu.Unlock()

	el, ok := element.(*sandboxElement)
	if !ok || kind != "card" {
		return PaymentMethodResult{}, fmt.Errorf("unsupported payment method type %q", kind)
	}
	if !el.isMounted() {
		return PaymentMethodResult{Error: &SDKError{Type: "validation_error", Code: "element_not_mounted", Message: "The card input is not ready."}}, nil
	}

	switch {
	case number == "":
		return PaymentMethodResult{Error: &SDKError{Type: "validation_error", Code: "incomplete_number", Message: "Your card number is incomplete."}}, nil
	case number == SandboxCardDecline:
		return PaymentMethodResult{Error: &SDKError{Type: "card_error", Code: "card_declined", Message: "Your card was declined."}}, nil
	}

	return PaymentMethodResult{PaymentMethod: &PaymentMethod{
		ID:             "pm_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24],
		Type:           kind,
		BillingDetails: billing,
	}}, nil
}

type sandboxElements struct {
	sdk *SandboxCard
}

func (e sandboxElements) Create(kind string, _ ElementOptions) (CardElement, error) {
	if kind != "card" {
		return nil, fmt.Errorf("unsupported element type %q", kind)
	}
	return &sandboxElement{sdk: e.sdk}, nil
}

type sandboxElement struct {
	sdk      *SandboxCard
	selector string
}

func (e *sandboxElement) Mount(selector string) error {
	if selector == "" {
		return errors.New("mount target is required")
	}
	e.sdk.mu.Lock()
	defer e.sdk.mu.Unlock()
	if e.selector != "" {
		return fmt.Errorf("element already mounted at %s", e.selector)
	}
	e.selector = selector
	e.sdk.mounted[selector] = true
	return nil
}

func (e *sandboxElement) Unmount() error {
	e.sdk.mu.Lock()
	defer e.sdk.mu.Unlock()
	delete(e.sdk.mounted, e.selector)
	e.selector = ""
	return nil
}

func (e *sandboxElement) isMounted() bool {
	e.sdk.mu.Lock()
	defer e.sdk.mu.Unlock()
	return e.selector != ""
}
