package address

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
)

// Repository encapsulates address book persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an address repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository that runs on tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create stores the address and links it to userID.
func (r *Repository) Create(ctx context.Context, userID uuid.UUID, address *models.Address) error {
	conn := r.db.WithContext(ctx)
	if err := conn.Create(address).Error; err != nil {
		return err
	}
	return conn.Create(&models.UserAddress{UserID: userID, AddressID: address.ID}).Error
}

// ListByUser returns the user's addresses in the order they were saved.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var list []models.Address
	err := r.db.WithContext(ctx).
		Joins("JOIN user_addresses ua ON ua.address_id = addresses.id").
		Where("ua.user_id = ?", userID).
		Order("ua.created_at ASC").
		Order("addresses.id ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// IsLinked reports whether userID owns addressID.
func (r *Repository) IsLinked(ctx context.Context, userID, addressID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserAddress{}).
		Where("user_id = ? AND address_id = ?", userID, addressID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UnlinkAll removes the address from every user's address book.
func (r *Repository) UnlinkAll(ctx context.Context, addressID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("address_id = ?", addressID).
		Delete(&models.UserAddress{})
	return result.RowsAffected, result.Error
}

// CountOrderReferences counts orders shipping to addressID.
func (r *Repository) CountOrderReferences(ctx context.Context, addressID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("shipping_address_id = ?", addressID).
		Count(&count).Error
	return count, err
}

// Delete removes the address row.
func (r *Repository) Delete(ctx context.Context, addressID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", addressID).
		Delete(&models.Address{}).
		Error
}
