package payment

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCardSDK is a testify mock of CardSDK.
type MockCardSDK struct {
	mock.Mock
}

func (m *MockCardSDK) NewClient(publishableKey string) (CardClient, error) {
	args := m.Called(publishableKey)
	client, _ := args.Get(0).(CardClient)
	return client, args.Error(1)
}

// MockCardClient is a testify mock of CardClient.
type MockCardClient struct {
	mock.Mock
}

func (m *MockCardClient) Elements() Elements {
	args := m.Called()
	el, _ := args.Get(0).(Elements)
	return el
}

func (m *MockCardClient) CreatePaymentMethod(ctx context.Context, kind string, element CardElement, billing BillingDetails) (PaymentMethodResult, error) {
	args := m.Called(ctx, kind, element, billing)
	return args.Get(0).(PaymentMethodResult), args.Error(1)
}

// MockElements is a testify mock of Elements.
type MockElements struct {
	mock.Mock
}

func (m *MockElements) Create(kind string, opts ElementOptions) (CardElement, error) {
	args := m.Called(kind, opts)
	el, _ := args.Get(0).(CardElement)
	return el, args.Error(1)
}

// MockCardElement is a testify mock of CardElement.
type MockCardElement struct {
	mock.Mock
}

func (m *MockCardElement) Mount(selector string) error {
	return m.Called(selector).Error(0)
}

func (m *MockCardElement) Unmount() error {
	return m.Called().Error(0)
}

// MockOrderActions is a testify mock of OrderActions.
type MockOrderActions struct {
	mock.Mock
}

func (m *MockOrderActions) Create(ctx context.Context, req OrderRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockOrderActions) Capture(ctx context.Context, orderID string) (*CaptureDetails, error) {
	args := m.Called(ctx, orderID)
	details, _ := args.Get(0).(*CaptureDetails)
	return details, args.Error(1)
}
