package orders

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/angelmondragon/storefront-backend/pkg/razorpay"
	"github.com/angelmondragon/storefront-backend/pkg/shiprocket"
)

// Repository defines persistence operations for orders and their history.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	LastOrderNumber(ctx context.Context) (string, error)
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindOrderByPaymentID(ctx context.Context, paymentID string) (*models.Order, error)
	FindOrderByShiprocketID(ctx context.Context, shiprocketOrderID string) (*models.Order, error)
	AppendStatus(ctx context.Context, orderID uuid.UUID, status string, at time.Time) (bool, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	ListVisibleOrders(ctx context.Context, page pagination.Page) ([]models.Order, int64, error)
	ListCustomerOrders(ctx context.Context, customerID uuid.UUID) ([]models.Order, error)
	BestSellers(ctx context.Context, limit int) ([]BestSellerRow, error)
	FindProducts(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	FindAddress(ctx context.Context, addressID uuid.UUID) (*models.Address, error)
	FindPendingCheckoutsBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error)
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
}

// BestSellerRow is one aggregated line of the best-sellers query.
type BestSellerRow struct {
	ProductID uuid.UUID       `gorm:"column:product_id"`
	TotalSold int64           `gorm:"column:total_sold"`
	Price     decimal.Decimal `gorm:"column:price"`
}

// Carrier is the subset of the Shiprocket client the order workflow uses.
type Carrier interface {
	CreateOrder(ctx context.Context, payload shiprocket.OrderPayload) (*shiprocket.CreateOrderResponse, error)
	CancelOrders(ctx context.Context, ids ...shiprocket.ID) error
	PrintInvoice(ctx context.Context, ids ...shiprocket.ID) (json.RawMessage, error)
	TrackShipment(ctx context.Context, shipmentID shiprocket.ID) (json.RawMessage, error)
}

// PaymentGateway is the subset of the Razorpay client the order workflow uses.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal) (*razorpay.Order, error)
	RefundPayment(ctx context.Context, paymentID string, amount decimal.Decimal) (*razorpay.Refund, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// Cache holds computed reports between requests.
type Cache interface {
	Load(ctx context.Context, name string, dest any) (bool, error)
	Store(ctx context.Context, name string, value any) error
	Invalidate(ctx context.Context, name string) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
