package address

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

// CreateInput is the decrypted body of a new shipping address.
type CreateInput struct {
	Name                 string  `json:"name" validate:"required"`
	AddressLine1         string  `json:"address_line1" validate:"required"`
	City                 string  `json:"city" validate:"required"`
	State                string  `json:"state" validate:"required"`
	PinCode              string  `json:"pinCode" validate:"required,numeric"`
	Country              string  `json:"country"`
	PhoneNumber          string  `json:"phoneNumber" validate:"required,numeric"`
	Locality             string  `json:"locality" validate:"required"`
	Landmark             *string `json:"landmark,omitempty"`
	AlternatePhoneNumber *string `json:"alternatePhoneNumber,omitempty" validate:"omitempty,numeric"`
	Type                 string  `json:"type"`
}

// DTO is the address returned to the owner.
type DTO struct {
	ID                   uuid.UUID         `json:"id"`
	Name                 string            `json:"name"`
	AddressLine1         string            `json:"address_line1"`
	City                 string            `json:"city"`
	State                string            `json:"state"`
	PinCode              string            `json:"pinCode"`
	Country              string            `json:"country"`
	PhoneNumber          string            `json:"phoneNumber"`
	Locality             string            `json:"locality"`
	Landmark             *string           `json:"landmark,omitempty"`
	AlternatePhoneNumber *string           `json:"alternatePhoneNumber,omitempty"`
	Type                 enums.AddressType `json:"type"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

func toDTO(a models.Address) DTO {
	return DTO{
		ID:                   a.ID,
		Name:                 a.Name,
		AddressLine1:         a.AddressLine1,
		City:                 a.City,
		State:                a.State,
		PinCode:              a.PinCode,
		Country:              a.Country,
		PhoneNumber:          a.PhoneNumber,
		Locality:             a.Locality,
		Landmark:             a.Landmark,
		AlternatePhoneNumber: a.AlternatePhoneNumber,
		Type:                 a.Type,
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
}

func optionalString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
