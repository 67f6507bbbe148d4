package checkout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateForm_Valid(t *testing.T) {
	assert.NoError(t, ValidateForm(validForm("stripe")))
	assert.True(t, Valid(validForm("paypal")))
}

func TestValidateForm_FirstFailureWins(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Form)
		field   string
		message string
	}{
		{"missing email", func(f *Form) { f.Email = "" }, "Email", "Please fill in: email"},
		{"whitespace first name", func(f *Form) { f.FirstName = "   " }, "FirstName", "Please fill in: first Name"},
		{"missing last name", func(f *Form) { f.LastName = "" }, "LastName", "Please fill in: last Name"},
		{"missing address", func(f *Form) { f.Address = "" }, "Address", "Please fill in: address"},
		{"missing city", func(f *Form) { f.City = "" }, "City", "Please fill in: city"},
		{"missing state", func(f *Form) { f.State = "" }, "State", "Please fill in: state"},
		{"missing zip", func(f *Form) { f.ZipCode = "" }, "ZipCode", "Please fill in: zip Code"},
		{"missing country", func(f *Form) { f.Country = "" }, "Country", "Please fill in: country"},
		{"missing phone", func(f *Form) { f.Phone = "" }, "Phone", "Please fill in: phone"},
		{"apartment optional", func(f *Form) { f.Apartment = "" }, "", ""},
		{"bad email", func(f *Form) { f.Email = "ada@example" }, "Email", MsgInvalidEmail},
		{"email with space", func(f *Form) { f.Email = "ada lovelace@example.com" }, "Email", MsgInvalidEmail},
		{"no shipping", func(f *Form) { f.ShippingMethod = "" }, "ShippingMethod", MsgSelectShipping},
		{"unknown shipping", func(f *Form) { f.ShippingMethod = "teleport" }, "ShippingMethod", MsgSelectShipping},
		{"no payment", func(f *Form) { f.PaymentMethod = "" }, "PaymentMethod", MsgSelectPayment},
		{"unknown payment", func(f *Form) { f.PaymentMethod = "cash" }, "PaymentMethod", MsgSelectPayment},

		// ordering: presence of later fields beats email shape, email beats selections
		{"phone missing and bad email", func(f *Form) { f.Phone = ""; f.Email = "nope" }, "Phone", "Please fill in: phone"},
		{"bad email and no shipping", func(f *Form) { f.Email = "nope"; f.ShippingMethod = "" }, "Email", MsgInvalidEmail},
		{"no shipping and no payment", func(f *Form) { f.ShippingMethod = ""; f.PaymentMethod = "" }, "ShippingMethod", MsgSelectShipping},
		{"everything missing", func(f *Form) { *f = Form{} }, "Email", "Please fill in: email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm("stripe")
			tt.mutate(&f)

			err := ValidateForm(f)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.message, verr.Message)
			assert.ErrorIs(t, err, ErrFormInvalid)
			assert.False(t, Valid(f))
		})
	}
}

func TestForm_Conversions(t *testing.T) {
	f := validForm("paypal")

	billing := f.BillingDetails()
	assert.Equal(t, "Ada Lovelace", billing.Name)
	assert.Equal(t, "Suite 2", billing.Address.Line2)
	assert.Equal(t, "62701", billing.Address.PostalCode)

	ship := f.WalletShipping()
	assert.Equal(t, "Ada Lovelace", ship.Name.FullName)
	assert.Equal(t, "Springfield", ship.Address.AdminArea2)
	assert.Equal(t, "IL", ship.Address.AdminArea1)
	assert.Equal(t, "us", ship.Address.CountryCode)

	assert.Equal(t, "express", string(Form{ShippingMethod: "Express"}.Shipping()))
	assert.Equal(t, "standard", string(Form{}.Shipping()))
	assert.Equal(t, "PayPal", f.Payment().DisplayName())
}
