// Package checkout turns a cart into a paid order.
//
// A Checkout owns one Session (the payment SDK handles and their lifecycle),
// a CardAdapter and a WalletAdapter (one state machine per payment path), and
// a Finalizer that records the order and clears the cart. Everything the
// shopper sees goes through a Presenter; delayed transitions go through a
// Scheduler so they never block.
package checkout

import "errors"

var (
	// ErrEmptyCart blocks checkout and payment while the cart has no items.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrBusy is returned when a payment is already in flight.
	ErrBusy = errors.New("payment already in progress")

	// ErrInvalidTransition is returned for an operation the current state does not allow.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrSDKUnavailable means a payment SDK could not be loaded or configured.
	ErrSDKUnavailable = errors.New("payment SDK unavailable")

	// ErrFormInvalid wraps every *ValidationError.
	ErrFormInvalid = errors.New("checkout form is invalid")

	// ErrStaleButton is returned to callbacks from a wallet button that has been replaced.
	ErrStaleButton = errors.New("wallet button is no longer current")

	// ErrUseWalletButton is returned by PlaceOrder when the wallet is selected;
	// wallet payments start from the wallet button.
	ErrUseWalletButton = errors.New("use the wallet button to pay")
)
