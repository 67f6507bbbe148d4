package checkout

import (
	"fmt"
	"sync"

	"github.com/eshaffer321/storefront/internal/payment"
)

// SessionState is the lifecycle of the payment SDK handles.
type SessionState int

const (
	SessionInitialized SessionState = iota
	SessionMounted
	SessionTornDown
)

func (s SessionState) String() string {
	switch s {
	case SessionInitialized:
		return "initialized"
	case SessionMounted:
		return "mounted"
	case SessionTornDown:
		return "torn down"
	}
	return fmt.Sprintf("SessionState(%d)", int(s))
}

// Default mount points for the hosted widgets.
const (
	DefaultCardSelector   = "#card-element"
	DefaultWalletSelector = "#paypal-button-container"
)

// Session owns the payment SDK handles for one checkout.
type Session struct {
	mu    sync.Mutex
	state SessionState

	cardSDK        payment.CardSDK
	walletSDK      payment.WalletSDK
	publishableKey string
	cardSelector   string

	cardClient  payment.CardClient
	cardElement payment.CardElement
}

// NewSession creates a session. Either SDK may be nil when it failed to load.
func NewSession(cardSDK payment.CardSDK, walletSDK payment.WalletSDK, publishableKey, cardSelector string) *Session {
	if cardSelector == "" {
		cardSelector = DefaultCardSelector
	}
	return &Session{
		cardSDK:        cardSDK,
		walletSDK:      walletSDK,
		publishableKey: publishableKey,
		cardSelector:   cardSelector,
	}
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Mount creates the card client and mounts its input widget.
// Mounting an already mounted session is a no-op.
func (s *Session) Mount() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mountLocked()
}

func (s *Session) mountLocked() error {
	switch s.state {
	case SessionMounted:
		return nil
	case SessionTornDown:
		return fmt.Errorf("%w: mount after teardown", ErrInvalidTransition)
	}
	if s.cardSDK == nil {
		return fmt.Errorf("%w: card SDK not loaded", ErrSDKUnavailable)
	}

	client, err := s.cardSDK.NewClient(s.publishableKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSDKUnavailable, err)
	}
	element, err := client.Elements().Create("card", payment.ElementOptions{
		HidePostalCode: true,
		FontSize:       "16px",
		Color:          "#000",
		InvalidColor:   "#ef4444",
	})
	if err != nil {
		return fmt.Errorf("%w: create card element: %v", ErrSDKUnavailable, err)
	}
	if err := element.Mount(s.cardSelector); err != nil {
		return fmt.Errorf("%w: mount card element: %v", ErrSDKUnavailable, err)
	}

	s.cardClient = client
	s.cardElement = element
	s.state = SessionMounted
	return nil
}

// Card returns the mounted card client and element, mounting on first use.
func (s *Session) Card() (payment.CardClient, payment.CardElement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mountLocked(); err != nil {
		return nil, nil, err
	}
	return s.cardClient, s.cardElement, nil
}

// Wallet returns the wallet SDK.
func (s *Session) Wallet() (payment.WalletSDK, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SessionTornDown {
		return nil, fmt.Errorf("%w: session torn down", ErrInvalidTransition)
	}
	if s.walletSDK == nil {
		return nil, fmt.Errorf("%w: wallet SDK not loaded", ErrSDKUnavailable)
	}
	return s.walletSDK, nil
}

// Teardown unmounts the card widget and releases the handles.
func (s *Session) Teardown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == SessionTornDown {
		return fmt.Errorf("%w: already torn down", ErrInvalidTransition)
	}
	var err error
	if s.cardElement != nil {
		err = s.cardElement.Unmount()
	}
	s.cardClient = nil
	s.cardElement = nil
	s.state = SessionTornDown
	return err
}
