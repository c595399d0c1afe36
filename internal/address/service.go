package address

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

const defaultCountry = "India"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages a user's saved shipping addresses.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*DTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]DTO, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService builds an address service with the required dependencies.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*DTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	addressType, err := enums.ParseAddressType(strings.TrimSpace(input.Type))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "type must be Home, Work or Other")
	}
	country := strings.TrimSpace(input.Country)
	if country == "" {
		country = defaultCountry
	}

	record := &models.Address{
		ID:                   uuid.New(),
		Name:                 strings.TrimSpace(input.Name),
		AddressLine1:         strings.TrimSpace(input.AddressLine1),
		City:                 strings.TrimSpace(input.City),
		State:                strings.TrimSpace(input.State),
		PinCode:              strings.TrimSpace(input.PinCode),
		Country:              country,
		PhoneNumber:          strings.TrimSpace(input.PhoneNumber),
		Locality:             strings.TrimSpace(input.Locality),
		Landmark:             optionalString(input.Landmark),
		AlternatePhoneNumber: optionalString(input.AlternatePhoneNumber),
		Type:                 addressType,
	}
	if record.Name == "" || record.AddressLine1 == "" || record.PinCode == "" || record.PhoneNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, address line, pin code and phone number are required")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, userID, record)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
	}
	dto := toDTO(*record)
	return &dto, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]DTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	out := make([]DTO, 0, len(list))
	for _, a := range list {
		out = append(out, toDTO(a))
	}
	return out, nil
}

// Delete drops the address from every address book. The row itself is kept
// while an order still ships to it.
func (s *service) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if addressID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "address id required")
	}
	owned, err := s.repo.IsLinked(ctx, userID, addressID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	if !owned {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Address not found")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.UnlinkAll(ctx, addressID); err != nil {
			return err
		}
		refs, err := repo.CountOrderReferences(ctx, addressID)
		if err != nil {
			return err
		}
		if refs > 0 {
			return nil
		}
		return repo.Delete(ctx, addressID)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	return nil
}
