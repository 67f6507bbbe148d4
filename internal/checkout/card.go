package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/eshaffer321/storefront/internal/domain/pricing"
	"github.com/eshaffer321/storefront/internal/orders"
)

// CardState is the card payment state machine:
//
//	Idle -> AwaitingTokenization -> Succeeded
//	                             -> Idle (tokenization failed)
type CardState int

const (
	CardIdle CardState = iota
	CardAwaitingTokenization
	CardSucceeded
)

func (s CardState) String() string {
	switch s {
	case CardIdle:
		return "idle"
	case CardAwaitingTokenization:
		return "awaiting tokenization"
	case CardSucceeded:
		return "succeeded"
	}
	return fmt.Sprintf("CardState(%d)", int(s))
}

// Card path messages.
const (
	MsgCardUnavailable = "Payment system not available. Please refresh the page."
	MsgCardFailed      = "Payment failed. Please try again."
	MsgCardSucceeded   = "Payment successful!"
	MsgCartUnpriceable = "An item in your cart has an invalid price. Please update your cart."
)

// CardAdapter runs the card payment path.
type CardAdapter struct {
	mu    sync.Mutex
	state CardState

	session   *Session
	finalizer *Finalizer
	presenter Presenter
	logger    *slog.Logger
}

// NewCardAdapter creates a card adapter in the Idle state.
func NewCardAdapter(session *Session, finalizer *Finalizer, presenter Presenter, logger *slog.Logger) *CardAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CardAdapter{session: session, finalizer: finalizer, presenter: presenter, logger: logger}
}

func (a *CardAdapter) State() CardState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Submit validates form, tokenizes the card and finalizes the order.
// An invalid form, an empty cart or a cart that cannot be priced never
// reaches the card SDK. A tokenization failure shows the SDK's message and
// returns the adapter to Idle so the shopper can retry.
func (a *CardAdapter) Submit(ctx context.Context, form Form) (*orders.Order, error) {
	a.mu.Lock()
	switch a.state {
	case CardAwaitingTokenization:
		a.mu.Unlock()
		return nil, ErrBusy
	case CardSucceeded:
		a.mu.Unlock()
		return nil, fmt.Errorf("%w: card payment already completed", ErrInvalidTransition)
	}

	if err := ValidateForm(form); err != nil {
		a.mu.Unlock()
		a.notifyValidation(err)
		return nil, err
	}

	totals, err := a.finalizer.Quote(ctx, form)
	if err != nil {
		a.mu.Unlock()
		a.notifyQuote(err)
		return nil, err
	}

	client, element, err := a.session.Card()
	if err != nil {
		a.mu.Unlock()
		a.logger.Error("card SDK not available", "error", err)
		a.presenter.Notify(NoticeError, MsgCardUnavailable)
		return nil, err
	}

	a.state = CardAwaitingTokenization
	a.mu.Unlock()

	a.logger.Info("tokenizing card", "total", pricing.Fixed(totals.Total))
	result, err := client.CreatePaymentMethod(ctx, "card", element, form.BillingDetails())
	switch {
	case err != nil:
		a.logger.Error("card tokenization failed", "error", err)
		a.presenter.Notify(NoticeError, MsgCardFailed)
		a.setState(CardIdle)
		return nil, fmt.Errorf("create payment method: %w", err)
	case result.Error != nil:
		a.logger.Warn("card rejected", "code", result.Error.Code, "message", result.Error.Message)
		a.presenter.Notify(NoticeError, result.Error.Message)
		a.setState(CardIdle)
		return nil, result.Error
	case result.PaymentMethod == nil:
		a.presenter.Notify(NoticeError, MsgCardFailed)
		a.setState(CardIdle)
		return nil, errors.New("card SDK returned neither a payment method nor an error")
	}

	a.logger.Info("payment method created", "id", result.PaymentMethod.ID)

	order, err := a.finalizer.Finalize(ctx, form, PaymentResult{
		Method:        orders.PaymentCard,
		TransactionID: result.PaymentMethod.ID,
	})
	if err != nil {
		// The cart changed under the tokenization; the token is unused.
		a.logger.Error("finalizing card order failed", "payment_method", result.PaymentMethod.ID, "error", err)
		a.notifyQuote(err)
		a.setState(CardIdle)
		return nil, err
	}
	a.presenter.Notify(NoticeSuccess, MsgCardSucceeded)
	a.setState(CardSucceeded)
	return order, nil
}

func (a *CardAdapter) notifyQuote(err error) {
	if errors.Is(err, ErrEmptyCart) {
		a.presenter.Notify(NoticeError, MsgEmptyCart)
		return
	}
	a.presenter.Notify(NoticeError, MsgCartUnpriceable)
}

func (a *CardAdapter) setState(s CardState) {
	a.mu.Lock()
	a.state = s
	a.mu.Unlock()
}

func (a *CardAdapter) notifyValidation(err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		a.presenter.Notify(NoticeError, verr.Message)
		return
	}
	a.presenter.Notify(NoticeError, err.Error())
}
