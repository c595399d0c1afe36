package enums

import (
	"fmt"
	"strings"
)

// OrderStatus is a single step in an order's fulfillment history.
type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "Pending"
	OrderStatusOrdered         OrderStatus = "Ordered"
	OrderStatusPickupScheduled OrderStatus = "Pickup Scheduled"
	OrderStatusPickedUp        OrderStatus = "Picked Up"
	OrderStatusInTransit       OrderStatus = "In Transit"
	OrderStatusOutForDelivery  OrderStatus = "Out for Delivery"
	OrderStatusDelivered       OrderStatus = "Delivered"
	OrderStatusReturned        OrderStatus = "Returned"
	OrderStatusCancelled       OrderStatus = "Cancelled"
	OrderStatusRefunded        OrderStatus = "Refunded"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusOrdered,
	OrderStatusPickupScheduled,
	OrderStatusPickedUp,
	OrderStatusInTransit,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusReturned,
	OrderStatusCancelled,
	OrderStatusRefunded,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is part of the carrier vocabulary.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Matches compares two statuses ignoring case.
func (s OrderStatus) Matches(other string) bool {
	return strings.EqualFold(string(s), strings.TrimSpace(other))
}

// ParseOrderStatus maps raw input onto the canonical spelling, ignoring case.
func ParseOrderStatus(value string) (OrderStatus, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range validOrderStatuses {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
