package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// AddItemRequest is the body of POST /api/v1/cart/items.
type AddItemRequest struct {
	Title string `json:"title" validate:"required"`
	Price string `json:"price" validate:"required"`
	Image string `json:"image"`
	Size  string `json:"size" validate:"omitempty,max=8"`
	Color string `json:"color" validate:"omitempty,max=32"`
}

// UpdateQuantityRequest is the body of PATCH /api/v1/cart/items/{key}.
// Values below 1 are clamped by the cart.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// OrderListParams represents query parameters for listing orders.
type OrderListParams struct {
	Limit  int `json:"limit" validate:"min=1,max=200"`
	Offset int `json:"offset" validate:"min=0"`
}

// DefaultOrderListParams returns default values for order list params.
func DefaultOrderListParams() OrderListParams {
	return OrderListParams{
		Limit:  50,
		Offset: 0,
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validate checks a request DTO and returns a readable error naming the
// first failing field.
func Validate(v interface{}) error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})

	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fmt.Errorf("%s is required", fe.Field())
		case "min":
			return fmt.Errorf("%s must be at least %s", fe.Field(), fe.Param())
		case "max":
			return fmt.Errorf("%s must be at most %s", fe.Field(), fe.Param())
		}
		return fmt.Errorf("%s is invalid", fe.Field())
	}
	return err
}
