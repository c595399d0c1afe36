package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
)

const (
	orderNumberConstraint = "orders_order_number_key"
	orderNumberColumn     = "orders.order_number"
	statusEventConstraint = "idx_order_status_events_order_status"

	// pending Razorpay checkouts never surface in listings.
	visibleOrdersClause = "NOT (orders.payment_method = ? AND orders.payment_status = ?)"

	bestSellersQuery = `
SELECT oi.product_id AS product_id, SUM(oi.quantity) AS total_sold, p.price AS price
FROM order_items oi
JOIN products p ON p.id = oi.product_id
WHERE p.price > 0
  AND EXISTS (
    SELECT 1 FROM order_status_events e
    WHERE e.order_id = oi.order_id AND lower(e.status) = lower(?)
  )
GROUP BY oi.product_id, p.price
ORDER BY SUM(oi.quantity) * 1.0 / p.price DESC, oi.product_id ASC
LIMIT ?`
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) LastOrderNumber(ctx context.Context) (string, error) {
	var numbers []string
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		// numbers outgrow the 7-digit padding, so longer sorts higher.
		Order("length(order_number) DESC, order_number DESC").
		Limit(1).
		Pluck("order_number", &numbers).Error
	if err != nil {
		return "", err
	}
	if len(numbers) == 0 {
		return "", nil
	}
	return numbers[0], nil
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Omit("ShippingAddress").Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.withDetails(ctx).
		Where("orders.id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindOrderByPaymentID(ctx context.Context, paymentID string) (*models.Order, error) {
	var order models.Order
	err := r.withDetails(ctx).
		Where("orders.payment_id = ?", paymentID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindOrderByShiprocketID(ctx context.Context, shiprocketOrderID string) (*models.Order, error) {
	var order models.Order
	err := r.withDetails(ctx).
		Where("orders.shiprocket_order_id = ?", shiprocketOrderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// AppendStatus inserts a history entry. It returns false when the order
// already holds the status under another casing or a concurrent writer won.
func (r *repository) AppendStatus(ctx context.Context, orderID uuid.UUID, status string, at time.Time) (bool, error) {
	event := models.OrderStatusEvent{
		OrderID: orderID,
		Status:  status,
		Date:    at,
	}
	if err := r.db.WithContext(ctx).Create(&event).Error; err != nil {
		if db.IsUniqueViolation(err, statusEventConstraint) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *repository) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListVisibleOrders(ctx context.Context, page pagination.Page) ([]models.Order, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where(visibleOrdersClause, enums.PaymentMethodRazorpay, enums.PaymentStatusPending).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var list []models.Order
	err = r.withDetails(ctx).
		Where(visibleOrdersClause, enums.PaymentMethodRazorpay, enums.PaymentStatusPending).
		Order("orders.order_date DESC").
		Order("orders.order_number DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *repository) ListCustomerOrders(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	var list []models.Order
	err := r.withDetails(ctx).
		Where("orders.customer_id = ?", customerID).
		Where(visibleOrdersClause, enums.PaymentMethodRazorpay, enums.PaymentStatusPending).
		Order("orders.order_date DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) BestSellers(ctx context.Context, limit int) ([]BestSellerRow, error) {
	var rows []BestSellerRow
	err := r.db.WithContext(ctx).
		Raw(bestSellersQuery, string(enums.OrderStatusDelivered), limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindProducts(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) FindAddress(ctx context.Context, addressID uuid.UUID) (*models.Address, error) {
	var address models.Address
	if err := r.db.WithContext(ctx).Where("id = ?", addressID).First(&address).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *repository) FindPendingCheckoutsBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error) {
	var list []models.Order
	err := r.db.WithContext(ctx).
		Where("payment_method = ? AND payment_status = ?", enums.PaymentMethodRazorpay, enums.PaymentStatusPending).
		Where("created_at < ?", cutoff).
		Order("created_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// DeleteOrder removes the order with its lines and history.
func (r *repository) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	conn := r.db.WithContext(ctx)
	if err := conn.Where("order_id = ?", orderID).Delete(&models.OrderStatusEvent{}).Error; err != nil {
		return err
	}
	if err := conn.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	result := conn.Where("id = ?", orderID).Delete(&models.Order{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_items.position ASC")
		}).
		Preload("Items.Product").
		Preload("StatusHistory", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_status_events.id ASC")
		}).
		Preload("ShippingAddress")
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
