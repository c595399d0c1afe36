package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatusEvent is one append-only entry of an order's status history.
type OrderStatusEvent struct {
	ID      int64     `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	Status  string    `gorm:"column:status;not null"`
	Date    time.Time `gorm:"column:date;not null"`
}
