package enums

import (
	"fmt"
	"strings"
)

// PaymentMethod is how a customer settles an order. Razorpay orders are
// collected online before they ship, COD orders are collected on delivery.
type PaymentMethod string

const (
	PaymentMethodRazorpay PaymentMethod = "Razorpay"
	PaymentMethodCOD      PaymentMethod = "COD"
)

func (p PaymentMethod) String() string { return string(p) }

func (p PaymentMethod) IsValid() bool {
	return p == PaymentMethodRazorpay || p == PaymentMethodCOD
}

// Prepaid reports whether the method goes through the payment gateway.
func (p PaymentMethod) Prepaid() bool {
	return p == PaymentMethodRazorpay
}

// ParsePaymentMethod accepts any casing of a known method.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range []PaymentMethod{PaymentMethodRazorpay, PaymentMethodCOD} {
		if strings.EqualFold(trimmed, string(candidate)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}

// PaymentStatus tracks whether money for an order has been collected.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "Pending"
	PaymentStatusPaid     PaymentStatus = "Paid"
	PaymentStatusRefunded PaymentStatus = "Refunded"
)

func (p PaymentStatus) String() string { return string(p) }

func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded:
		return true
	}
	return false
}

// Refundable is true once money has been captured and not yet returned.
func (p PaymentStatus) Refundable() bool {
	return p == PaymentStatusPaid
}
