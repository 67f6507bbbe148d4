// Package payment defines the contracts of the two hosted payment SDKs the
// checkout delegates to, plus deterministic sandbox implementations of both.
//
// Neither contract ever exposes raw card data to the caller. The card SDK
// returns an opaque payment method id; the wallet SDK creates and captures
// orders on the provider side.
package payment

import (
	"context"
	"errors"
)

// ErrCardDeclined is the sandbox decline.
var ErrCardDeclined = errors.New("card declined")

// SDKError is a provider-reported failure with a human-readable message.
type SDKError struct {
	Type    string `json:"type,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (e *SDKError) Error() string {
	return e.Message
}

// CardSDK builds card clients from a publishable key.
type CardSDK interface {
	NewClient(publishableKey string) (CardClient, error)
}

// CardClient is a configured card SDK instance.
type CardClient interface {
	Elements() Elements

	// CreatePaymentMethod tokenizes the card entered in element. A provider
	// rejection comes back in PaymentMethodResult.Error; the error return is
	// reserved for transport failures.
	CreatePaymentMethod(ctx context.Context, kind string, element CardElement, billing BillingDetails) (PaymentMethodResult, error)
}

// Elements creates hosted input widgets.
type Elements interface {
	Create(kind string, opts ElementOptions) (CardElement, error)
}

// ElementOptions configures a hosted card input.
type ElementOptions struct {
	HidePostalCode bool
	FontSize       string
	Color          string
	InvalidColor   string
}

// CardElement is a mountable card-input widget.
type CardElement interface {
	Mount(selector string) error
	Unmount() error
}

// BillingDetails is sent with the tokenization request.
type BillingDetails struct {
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Phone   string         `json:"phone"`
	Address BillingAddress `json:"address"`
}

// BillingAddress is the card holder's address.
type BillingAddress struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// PaymentMethod is a tokenized card.
type PaymentMethod struct {
	ID             string         `json:"id"`
	Type           string         `json:"type"`
	BillingDetails BillingDetails `json:"billing_details"`
}

// PaymentMethodResult holds exactly one of PaymentMethod or Error.
type PaymentMethodResult struct {
	PaymentMethod *PaymentMethod `json:"paymentMethod,omitempty"`
	Error         *SDKError      `json:"error,omitempty"`
}
