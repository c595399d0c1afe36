package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

// Order is a customer checkout together with its fulfillment history.
type Order struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber       string              `gorm:"column:order_number;not null;uniqueIndex"`
	CustomerID        uuid.UUID           `gorm:"column:customer_id;type:uuid;not null"`
	OrderDate         time.Time           `gorm:"column:order_date;not null"`
	TotalAmount       decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	ShippingCharges   decimal.Decimal     `gorm:"column:shipping_charges;type:numeric(12,2);not null"`
	ShippingAddressID uuid.UUID           `gorm:"column:shipping_address_id;type:uuid;not null"`
	PaymentMethod     enums.PaymentMethod `gorm:"column:payment_method;not null"`
	PaymentID         *string             `gorm:"column:payment_id"`
	PaymentStatus     enums.PaymentStatus `gorm:"column:payment_status;not null;default:'Pending'"`
	ShiprocketOrderID *string             `gorm:"column:shiprocket_order_id"`
	RefundID          *string             `gorm:"column:refund_id"`
	Items             []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	StatusHistory     []OrderStatusEvent  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingAddress   *Address            `gorm:"foreignKey:ShippingAddressID"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// CurrentStatus returns the last appended status, or "" for an empty history.
func (o Order) CurrentStatus() enums.OrderStatus {
	if len(o.StatusHistory) == 0 {
		return ""
	}
	return enums.OrderStatus(o.StatusHistory[len(o.StatusHistory)-1].Status)
}

// HasStatus reports whether the history already holds status, ignoring case.
func (o Order) HasStatus(status string) bool {
	for _, event := range o.StatusHistory {
		if enums.OrderStatus(event.Status).Matches(status) {
			return true
		}
	}
	return false
}
