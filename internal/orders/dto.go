package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/shiprocket"
)

// CreateOrderItemInput is one cart line submitted at checkout.
type CreateOrderItemInput struct {
	Product  uuid.UUID       `json:"product" validate:"required"`
	Quantity int             `json:"quantity" validate:"required,min=1"`
	Price    decimal.Decimal `json:"price"`
}

// CreateOrderInput is the decrypted checkout payload. CustomerID comes from the access token.
type CreateOrderInput struct {
	CustomerID      uuid.UUID              `json:"-"`
	OrderDate       *time.Time             `json:"order_date,omitempty"`
	Amount          decimal.Decimal        `json:"amount"`
	Items           []CreateOrderItemInput `json:"items" validate:"required,min=1,dive"`
	ShippingAddress uuid.UUID              `json:"shipping_address" validate:"required"`
	PaymentMethod   enums.PaymentMethod    `json:"payment_method" validate:"required"`
}

// CreateOrderResult is sealed back to the client after checkout.
type CreateOrderResult struct {
	OrderID         uuid.UUID `json:"orderId"`
	OrderNumber     string    `json:"orderNumber,omitempty"`
	RazorpayOrderID *string   `json:"razorpayOrderId,omitempty"`
}

// UpdatePaymentInput confirms (or resets) the payment of an order.
type UpdatePaymentInput struct {
	OrderID   uuid.UUID `json:"orderId" validate:"required"`
	PaymentID string    `json:"paymentId"`
}

// VerifyPaymentInput carries the Razorpay checkout callback fields.
type VerifyPaymentInput struct {
	OrderID   string `json:"order_id" validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

// CarrierStatusInput is the Shiprocket tracking webhook body.
type CarrierStatusInput struct {
	OrderID       shiprocket.ID `json:"order_id"`
	CurrentStatus string        `json:"current_status"`
}

// ManualStatusInput is an admin status override.
type ManualStatusInput struct {
	ID     uuid.UUID `json:"id" validate:"required"`
	Status string    `json:"status" validate:"required"`
}

// CancelInput identifies the order to cancel and who is asking.
type CancelInput struct {
	OrderID uuid.UUID
	ActorID uuid.UUID
	IsAdmin bool
}

// ListInput is the admin list page request.
type ListInput struct {
	Page    int `json:"page"`
	PerPage int `json:"perPage"`
}

// StatusResult reports whether a status write changed the order.
type StatusResult struct {
	Updated bool   `json:"updated"`
	Message string `json:"message"`
}

// ProductView is the product snapshot returned with order lines and best sellers.
type ProductView struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Weight   float64         `json:"weight"`
	Length   float64         `json:"length"`
	Width    float64         `json:"width"`
	Height   float64         `json:"height"`
}

// AddressView is the shipping address embedded in order responses.
type AddressView struct {
	ID                   uuid.UUID         `json:"id"`
	Name                 string            `json:"name"`
	AddressLine1         string            `json:"address_line1"`
	City                 string            `json:"city"`
	State                string            `json:"state"`
	PinCode              string            `json:"pin_code"`
	Country              string            `json:"country"`
	PhoneNumber          string            `json:"phone_number"`
	Locality             string            `json:"locality"`
	Landmark             *string           `json:"landmark,omitempty"`
	AlternatePhoneNumber *string           `json:"alternate_phone_number,omitempty"`
	Type                 enums.AddressType `json:"type"`
}

// OrderItemView is an order line with its product.
type OrderItemView struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Product   *ProductView    `json:"product,omitempty"`
}

// StatusEntry is one element of the status history.
type StatusEntry struct {
	Status string    `json:"status"`
	Date   time.Time `json:"date"`
}

// OrderView is the order shape returned by listings.
type OrderView struct {
	ID                uuid.UUID           `json:"id"`
	OrderNumber       string              `json:"order_number"`
	CustomerID        uuid.UUID           `json:"customer"`
	OrderDate         time.Time           `json:"order_date"`
	TotalAmount       decimal.Decimal     `json:"total_amount"`
	ShippingCharges   decimal.Decimal     `json:"shipping_charges"`
	PaymentMethod     enums.PaymentMethod `json:"payment_method"`
	PaymentID         *string             `json:"payment_id,omitempty"`
	PaymentStatus     enums.PaymentStatus `json:"payment_status"`
	ShiprocketOrderID *string             `json:"shiprocketOrderId,omitempty"`
	RefundID          *string             `json:"refund_id,omitempty"`
	Items             []OrderItemView     `json:"items"`
	Status            []StatusEntry       `json:"status"`
	ShippingAddress   *AddressView        `json:"shipping_address,omitempty"`
}

// OrderList is a page of the admin listing.
type OrderList struct {
	Orders []OrderView `json:"orders"`
	Total  int64       `json:"total"`
}

// BestSeller is a ranked product.
type BestSeller struct {
	ProductID      uuid.UUID   `json:"productId"`
	TotalSold      int64       `json:"totalSold"`
	Score          float64     `json:"score"`
	ProductDetails ProductView `json:"productDetails"`
}

// ShippingChargeResult is the flat shipping charge quote.
type ShippingChargeResult struct {
	ShippingCharge decimal.Decimal `json:"shippingCharge"`
}

func toProductView(p models.Product) ProductView {
	return ProductView{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price,
		Weight:   p.Weight,
		Length:   p.Length,
		Width:    p.Width,
		Height:   p.Height,
	}
}

func toAddressView(a *models.Address) *AddressView {
	if a == nil {
		return nil
	}
	return &AddressView{
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
	}
}

func toOrderView(o models.Order) OrderView {
	view := OrderView{
		ID:                o.ID,
		OrderNumber:       o.OrderNumber,
		CustomerID:        o.CustomerID,
		OrderDate:         o.OrderDate,
		TotalAmount:       o.TotalAmount,
		ShippingCharges:   o.ShippingCharges,
		PaymentMethod:     o.PaymentMethod,
		PaymentID:         o.PaymentID,
		PaymentStatus:     o.PaymentStatus,
		ShiprocketOrderID: o.ShiprocketOrderID,
		RefundID:          o.RefundID,
		Items:             make([]OrderItemView, 0, len(o.Items)),
		Status:            make([]StatusEntry, 0, len(o.StatusHistory)),
		ShippingAddress:   toAddressView(o.ShippingAddress),
	}
	for _, item := range o.Items {
		line := OrderItemView{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
		if item.Product != nil {
			product := toProductView(*item.Product)
			line.Product = &product
		}
		view.Items = append(view.Items, line)
	}
	for _, event := range o.StatusHistory {
		view.Status = append(view.Status, StatusEntry{Status: event.Status, Date: event.Date})
	}
	return view
}

func toOrderViews(list []models.Order) []OrderView {
	views := make([]OrderView, 0, len(list))
	for _, o := range list {
		views = append(views, toOrderView(o))
	}
	return views
}
