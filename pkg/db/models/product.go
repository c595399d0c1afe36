package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the catalog entry referenced by order items. Dimensions are in cm, weight in kg.
type Product struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string          `gorm:"column:name;not null"`
	Category  string          `gorm:"column:category"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Weight    float64         `gorm:"column:weight;type:numeric(10,2);not null;default:0"`
	Length    float64         `gorm:"column:length;type:numeric(10,2);not null;default:0"`
	Width     float64         `gorm:"column:width;type:numeric(10,2);not null;default:0"`
	Height    float64         `gorm:"column:height;type:numeric(10,2);not null;default:0"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
