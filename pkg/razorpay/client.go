package razorpay

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"
)

const (
	defaultCurrency = "INR"
	receiptBytes    = 16
)

var (
	errKeyIDRequired  = errors.New("razorpay key id is required")
	errSecretRequired = errors.New("razorpay secret key is required")
)

// orderAPI is the slice of the SDK order resource used here.
type orderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// paymentAPI is the slice of the SDK payment resource used here.
type paymentAPI interface {
	Refund(paymentID string, amount int, data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Client wraps the Razorpay SDK for checkout orders and refunds.
type Client struct {
	orders   orderAPI
	payments paymentAPI
	secret   string
	currency string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithCurrency overrides the default INR currency.
func WithCurrency(currency string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(currency)
		if trimmed != "" {
			c.currency = strings.ToUpper(trimmed)
		}
	}
}

// WithAPIs swaps the SDK resources, used by tests.
func WithAPIs(orders orderAPI, payments paymentAPI) Option {
	return func(c *Client) {
		if orders != nil {
			c.orders = orders
		}
		if payments != nil {
			c.payments = payments
		}
	}
}

// NewClient builds the Razorpay client from API credentials.
func NewClient(keyID, secret string, opts ...Option) (*Client, error) {
	keyID = strings.TrimSpace(keyID)
	secret = strings.TrimSpace(secret)
	if keyID == "" {
		return nil, errKeyIDRequired
	}
	if secret == "" {
		return nil, errSecretRequired
	}

	sdk := razorpay.NewClient(keyID, secret)
	client := &Client{
		orders:   sdk.Order,
		payments: sdk.Payment,
		secret:   secret,
		currency: defaultCurrency,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Order is the checkout order created on Razorpay.
type Order struct {
	ID          string
	AmountPaise int64
	Currency    string
	Receipt     string
}

// Refund is the refund issued against a captured payment.
type Refund struct {
	ID          string
	PaymentID   string
	AmountPaise int64
	Status      string
}

// CreateOrder opens an auto-captured checkout order for amount.
func (c *Client) CreateOrder(ctx context.Context, amount decimal.Decimal) (*Order, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "razorpay client not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create razorpay order")
	}
	paise := ToPaise(amount)
	if paise <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order amount must be positive")
	}
	receipt, err := newReceipt()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate receipt")
	}

	resp, err := c.orders.Create(map[string]interface{}{
		"amount":          paise,
		"currency":        c.currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create razorpay order")
	}

	id := stringField(resp, "id")
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "razorpay order response missing id")
	}
	return &Order{
		ID:          id,
		AmountPaise: paise,
		Currency:    c.currency,
		Receipt:     receipt,
	}, nil
}

// RefundPayment refunds amount of a captured payment.
func (c *Client) RefundPayment(ctx context.Context, paymentID string, amount decimal.Decimal) (*Refund, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "razorpay client not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refund razorpay payment")
	}
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id is required")
	}
	paise := ToPaise(amount)

	resp, err := c.payments.Refund(paymentID, int(paise), nil, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refund razorpay payment")
	}
	return &Refund{
		ID:          stringField(resp, "id"),
		PaymentID:   paymentID,
		AmountPaise: paise,
		Status:      stringField(resp, "status"),
	}, nil
}

// VerifySignature checks a checkout signature against the client secret.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	if c == nil {
		return false
	}
	return VerifySignature(c.secret, orderID, paymentID, signature)
}

// ToPaise converts a rupee amount to the smallest currency unit, rounding half away from zero.
func ToPaise(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func newReceipt() (string, error) {
	buf := make([]byte, receiptBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func stringField(resp map[string]interface{}, key string) string {
	value, ok := resp[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
