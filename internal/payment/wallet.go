package payment

import (
	"context"
	"encoding/json"
)

// Wallet order constants.
const (
	IntentCapture          = "CAPTURE"
	CategoryPhysicalGoods  = "PHYSICAL_GOODS"
	ShippingSetProvided    = "SET_PROVIDED_ADDRESS"
	CaptureStatusCompleted = "COMPLETED"
)

// WalletSDK renders hosted checkout buttons.
type WalletSDK interface {
	Buttons(cfg ButtonsConfig) Buttons
}

// Buttons is a rendered (or renderable) button widget.
type Buttons interface {
	Render(ctx context.Context, selector string) error
	Close() error
}

// ButtonsConfig supplies the callbacks the wallet SDK drives.
type ButtonsConfig struct {
	// CreateOrder must return the provider order id, or an error to stop the flow.
	CreateOrder func(ctx context.Context, data CreateOrderData, actions OrderActions) (string, error)

	// OnApprove is expected to call actions.Capture.
	OnApprove func(ctx context.Context, data ApproveData, actions OrderActions) error

	OnError  func(err error)
	OnCancel func(data CancelData)
}

// OrderActions are the provider-side order operations exposed to callbacks.
type OrderActions interface {
	Create(ctx context.Context, req OrderRequest) (string, error)
	Capture(ctx context.Context, orderID string) (*CaptureDetails, error)
}

// CreateOrderData is passed to CreateOrder.
type CreateOrderData struct {
	PaymentSource string `json:"paymentSource,omitempty"`
}

// ApproveData is passed to OnApprove.
type ApproveData struct {
	OrderID string `json:"orderID"`
	PayerID string `json:"payerID"`
}

// CancelData is passed to OnCancel.
type CancelData struct {
	OrderID string `json:"orderID"`
}

// Money is a provider amount.
type Money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

// OrderRequest is the body of a wallet order.
type OrderRequest struct {
	Intent             string             `json:"intent"`
	PurchaseUnits      []PurchaseUnit     `json:"purchase_units"`
	ApplicationContext ApplicationContext `json:"application_context"`
}

// PurchaseUnit is one charge within an order.
type PurchaseUnit struct {
	Description string          `json:"description"`
	Amount      Amount          `json:"amount"`
	Items       []LineItem      `json:"items"`
	Shipping    *ShippingDetail `json:"shipping,omitempty"`
}

// Amount is the charged total with its breakdown.
type Amount struct {
	Money
	Breakdown Breakdown `json:"breakdown"`
}

// Breakdown splits Amount into parts.
type Breakdown struct {
	ItemTotal Money `json:"item_total"`
	Shipping  Money `json:"shipping"`
	TaxTotal  Money `json:"tax_total"`
}

// LineItem is one product line.
type LineItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	UnitAmount  Money  `json:"unit_amount"`
	Quantity    string `json:"quantity"`
	Category    string `json:"category"`
}

// ShippingDetail is the ship-to block.
type ShippingDetail struct {
	Name    ShippingName    `json:"name"`
	Address ShippingAddress `json:"address"`
}

// ShippingName holds the recipient name.
type ShippingName struct {
	FullName string `json:"full_name"`
}

// ShippingAddress is a wallet address.
type ShippingAddress struct {
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	AdminArea2   string `json:"admin_area_2"`
	AdminArea1   string `json:"admin_area_1"`
	PostalCode   string `json:"postal_code"`
	CountryCode  string `json:"country_code"`
}

// ApplicationContext configures the provider checkout page.
type ApplicationContext struct {
	BrandName          string `json:"brand_name"`
	ShippingPreference string `json:"shipping_preference"`
}

// CaptureDetails is the provider's capture response.
type CaptureDetails struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Payer  Payer  `json:"payer"`

	PurchaseUnits []PurchaseUnit `json:"purchase_units,omitempty"`
}

// Payer is who approved the payment.
type Payer struct {
	PayerID string    `json:"payer_id"`
	Email   string    `json:"email_address"`
	Name    PayerName `json:"name"`
}

// PayerName is the payer's name.
type PayerName struct {
	GivenName string `json:"given_name"`
	Surname   string `json:"surname"`
}

// JSON returns the capture payload as raw JSON for storing on an order.
func (c *CaptureDetails) JSON() json.RawMessage {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil
	}
	return raw
}
