package checkout

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/eshaffer321/storefront/internal/domain/pricing"
	"github.com/eshaffer321/storefront/internal/orders"
	"github.com/eshaffer321/storefront/internal/payment"
)

// Form is the shipping and billing data collected at checkout.
type Form struct {
	Email     string `json:"email" yaml:"email" validate:"present,emailshape" label:"email"`
	FirstName string `json:"firstName" yaml:"firstName" validate:"present" label:"first Name"`
	LastName  string `json:"lastName" yaml:"lastName" validate:"present" label:"last Name"`
	Address   string `json:"address" yaml:"address" validate:"present" label:"address"`
	Apartment string `json:"apartment" yaml:"apartment"`
	City      string `json:"city" yaml:"city" validate:"present" label:"city"`
	State     string `json:"state" yaml:"state" validate:"present" label:"state"`
	ZipCode   string `json:"zipCode" yaml:"zipCode" validate:"present" label:"zip Code"`
	Country   string `json:"country" yaml:"country" validate:"present" label:"country"`
	Phone     string `json:"phone" yaml:"phone" validate:"present" label:"phone"`

	ShippingMethod string `json:"shippingMethod" yaml:"shippingMethod" validate:"shippingmethod"`
	PaymentMethod  string `json:"paymentMethod" yaml:"paymentMethod" validate:"paymentmethod"`
}

// ValidationError is the first problem found in a Form.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrFormInvalid
}

// Messages for the non-presence checks.
const (
	MsgInvalidEmail   = "Please enter a valid email address"
	MsgSelectShipping = "Please select a shipping method"
	MsgSelectPayment  = "Please select a payment method"
)

// emailPattern accepts local@domain.tld without any deeper RFC checks.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// checkOrder is the order failures are reported in. Only the first is shown.
var checkOrder = []struct {
	field string
	tag   string
}{
	{"Email", "present"},
	{"FirstName", "present"},
	{"LastName", "present"},
	{"Address", "present"},
	{"City", "present"},
	{"State", "present"},
	{"ZipCode", "present"},
	{"Country", "present"},
	{"Phone", "present"},
	{"Email", "emailshape"},
	{"ShippingMethod", "shippingmethod"},
	{"PaymentMethod", "paymentmethod"},
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("present", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("shippingmethod", func(fl validator.FieldLevel) bool {
			_, ok := pricing.ParseMethod(fl.Field().String())
			return ok
		})
		_ = v.RegisterValidation("paymentmethod", func(fl validator.FieldLevel) bool {
			return orders.PaymentMethod(strings.TrimSpace(fl.Field().String())).Valid()
		})
		validate = v
	})
	return validate
}

// ValidateForm returns nil or the first *ValidationError, checking presence of
// the required fields, then the email shape, then the shipping and payment
// selections.
func ValidateForm(f Form) error {
	err := formValidator().Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate form: %w", err)
	}

	failed := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		failed[fe.StructField()] = fe.Tag()
	}
	for _, c := range checkOrder {
		if failed[c.field] == c.tag {
			return &ValidationError{Field: c.field, Message: messageFor(c.field, c.tag)}
		}
	}

	// A failure outside checkOrder means a tag was added without an order entry.
	fe := verrs[0]
	return &ValidationError{Field: fe.StructField(), Message: fmt.Sprintf("Please check: %s", fe.StructField())}
}

// Valid reports whether f passes ValidateForm.
func Valid(f Form) bool {
	return ValidateForm(f) == nil
}

func messageFor(field, tag string) string {
	switch tag {
	case "emailshape":
		return MsgInvalidEmail
	case "shippingmethod":
		return MsgSelectShipping
	case "paymentmethod":
		return MsgSelectPayment
	}
	return "Please fill in: " + fieldLabel(field)
}

func fieldLabel(field string) string {
	sf, ok := reflect.TypeOf(Form{}).FieldByName(field)
	if !ok {
		return field
	}
	if label := sf.Tag.Get("label"); label != "" {
		return label
	}
	return field
}

// Shipping returns the selected method, standard when none is selected.
func (f Form) Shipping() pricing.Method {
	m, _ := pricing.ParseMethod(f.ShippingMethod)
	return m
}

// Payment returns the selected payment method.
func (f Form) Payment() orders.PaymentMethod {
	return orders.PaymentMethod(strings.TrimSpace(f.PaymentMethod))
}

// FullName joins first and last name.
func (f Form) FullName() string {
	return strings.TrimSpace(f.FirstName + " " + f.LastName)
}

// Customer extracts the order's customer block.
func (f Form) Customer() orders.Customer {
	return orders.Customer{Email: f.Email, FirstName: f.FirstName, LastName: f.LastName, Phone: f.Phone}
}

// ShippingInfo extracts the order's shipping block.
func (f Form) ShippingInfo() orders.Shipping {
	return orders.Shipping{
		Address:   f.Address,
		Apartment: f.Apartment,
		City:      f.City,
		State:     f.State,
		ZipCode:   f.ZipCode,
		Country:   f.Country,
		Method:    f.Shipping(),
	}
}

// BillingDetails is what the card SDK receives.
func (f Form) BillingDetails() payment.BillingDetails {
	return payment.BillingDetails{
		Name:  f.FullName(),
		Email: f.Email,
		Phone: f.Phone,
		Address: payment.BillingAddress{
			Line1:      f.Address,
			Line2:      f.Apartment,
			City:       f.City,
			State:      f.State,
			PostalCode: f.ZipCode,
			Country:    f.Country,
		},
	}
}

// WalletShipping is the ship-to block sent to the wallet.
func (f Form) WalletShipping() *payment.ShippingDetail {
	return &payment.ShippingDetail{
		Name: payment.ShippingName{FullName: f.FullName()},
		Address: payment.ShippingAddress{
			AddressLine1: f.Address,
			AddressLine2: f.Apartment,
			AdminArea2:   f.City,
			AdminArea1:   f.State,
			PostalCode:   f.ZipCode,
			CountryCode:  f.Country,
		},
	}
}
