package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

// Address is a shipping contact. Ownership lives in UserAddress.
type Address struct {
	ID                   uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                 string            `gorm:"column:name;not null"`
	AddressLine1         string            `gorm:"column:address_line1;not null"`
	City                 string            `gorm:"column:city;not null"`
	State                string            `gorm:"column:state;not null"`
	PinCode              string            `gorm:"column:pin_code;not null"`
	Country              string            `gorm:"column:country;not null;default:'India'"`
	PhoneNumber          string            `gorm:"column:phone_number;not null"`
	Locality             string            `gorm:"column:locality;not null"`
	Landmark             *string           `gorm:"column:landmark"`
	AlternatePhoneNumber *string           `gorm:"column:alternate_phone_number"`
	Type                 enums.AddressType `gorm:"column:type;not null;default:'Home'"`
	CreatedAt            time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// UserAddress links an address to the user who saved it.
type UserAddress struct {
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	AddressID uuid.UUID `gorm:"column:address_id;type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
