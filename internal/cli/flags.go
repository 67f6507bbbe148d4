package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/eshaffer321/storefront/internal/checkout"
)

// GlobalFlags are shared by every command.
type GlobalFlags struct {
	ConfigPath string
	Verbose    bool
}

// CartAddFlags describe the product passed to cart:add.
type CartAddFlags struct {
	Title string
	Price string
	Image string
	Size  string
	Color string
}

// EstimateFlags are the shipping:estimate inputs.
type EstimateFlags struct {
	Country string
	Total   string
	Method  string
}

// CheckoutFlags are shared by the checkout commands.
type CheckoutFlags struct {
	FormPath string
	Shipping string

	// card path
	Card string

	// wallet path
	Cancel    bool
	Fail      bool
	CaptureID string
}

// ServeFlags holds the CLI flags for the serve command.
type ServeFlags struct {
	Port int
}

// LoadForm reads a checkout form from a YAML file. A non-empty shipping
// overrides the file's method.
func (f CheckoutFlags) LoadForm() (checkout.Form, error) {
	var form checkout.Form
	if f.FormPath == "" {
		return form, fmt.Errorf("--form is required")
	}
	data, err := os.ReadFile(f.FormPath)
	if err != nil {
		return form, fmt.Errorf("read form: %w", err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &form); err != nil {
		return form, fmt.Errorf("parse form %s: %w", f.FormPath, err)
	}
	if f.Shipping != "" {
		form.ShippingMethod = f.Shipping
	}
	return form, nil
}
