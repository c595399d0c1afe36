package shiprocket

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	orderDateLayout   = "2006-01-02 15:04"
	defaultSKUPrefix  = "GEN"
	defaultSKUSuffix  = "0000"
	defaultLastName   = "NA"
	paymentMethodCOD  = "COD"
	paymentMethodPaid = "Prepaid"
)

// Contact is the shipping contact printed on the label.
type Contact struct {
	Name         string
	AddressLine1 string
	City         string
	State        string
	PinCode      string
	Country      string
	PhoneNumber  string
}

// Item is one order line with the product data the carrier needs.
type Item struct {
	ProductID string
	Name      string
	Category  string
	Quantity  int
	Price     decimal.Decimal
	Length    float64
	Width     float64
	Height    float64
	Weight    float64
}

// OrderInput is everything needed to register an order with the carrier.
type OrderInput struct {
	OrderNumber    string
	OrderDate      time.Time
	PickupLocation string
	CashOnDelivery bool
	SubTotal       decimal.Decimal
	Contact        Contact
	Items          []Item
}

// OrderItem is a line of the adhoc order payload.
type OrderItem struct {
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	Units        int     `json:"units"`
	SellingPrice float64 `json:"selling_price"`
}

// OrderPayload is the body of POST /orders/create/adhoc.
type OrderPayload struct {
	OrderID             string      `json:"order_id"`
	OrderDate           string      `json:"order_date"`
	PickupLocation      string      `json:"pickup_location"`
	BillingCustomerName string      `json:"billing_customer_name"`
	BillingLastName     string      `json:"billing_last_name"`
	BillingAddress      string      `json:"billing_address"`
	BillingCity         string      `json:"billing_city"`
	BillingPincode      int64       `json:"billing_pincode"`
	BillingState        string      `json:"billing_state"`
	BillingCountry      string      `json:"billing_country"`
	BillingPhone        int64       `json:"billing_phone"`
	ShippingIsBilling   bool        `json:"shipping_is_billing"`
	OrderItems          []OrderItem `json:"order_items"`
	PaymentMethod       string      `json:"payment_method"`
	SubTotal            float64     `json:"sub_total"`
	Length              float64     `json:"length"`
	Breadth             float64     `json:"breadth"`
	Height              float64     `json:"height"`
	Weight              float64     `json:"weight"`
}

// Dimensions is the combined package size for an order.
type Dimensions struct {
	Length  float64
	Breadth float64
	Height  float64
	Weight  float64
	Volume  float64
}

// BuildOrderPayload maps an order onto the carrier's adhoc order body.
func BuildOrderPayload(in OrderInput) (OrderPayload, error) {
	if strings.TrimSpace(in.OrderNumber) == "" {
		return OrderPayload{}, pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	if len(in.Items) == 0 {
		return OrderPayload{}, pkgerrors.New(pkgerrors.CodeValidation, "order has no items")
	}
	pincode, err := strconv.ParseInt(strings.TrimSpace(in.Contact.PinCode), 10, 64)
	if err != nil {
		return OrderPayload{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "shipping pin code must be numeric")
	}
	phone, err := strconv.ParseInt(strings.TrimSpace(in.Contact.PhoneNumber), 10, 64)
	if err != nil {
		return OrderPayload{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "shipping phone number must be numeric")
	}

	first, last := SplitName(in.Contact.Name)
	dims := PackageDimensions(in.Items)

	items := make([]OrderItem, 0, len(in.Items))
	for _, item := range in.Items {
		items = append(items, OrderItem{
			Name:         item.Name,
			SKU:          SKU(item.Category, item.ProductID),
			Units:        item.Quantity,
			SellingPrice: item.Price.InexactFloat64(),
		})
	}

	method := paymentMethodPaid
	if in.CashOnDelivery {
		method = paymentMethodCOD
	}

	return OrderPayload{
		OrderID:             in.OrderNumber,
		OrderDate:           in.OrderDate.Format(orderDateLayout),
		PickupLocation:      in.PickupLocation,
		BillingCustomerName: first,
		BillingLastName:     last,
		BillingAddress:      in.Contact.AddressLine1,
		BillingCity:         in.Contact.City,
		BillingPincode:      pincode,
		BillingState:        in.Contact.State,
		BillingCountry:      in.Contact.Country,
		BillingPhone:        phone,
		ShippingIsBilling:   true,
		OrderItems:          items,
		PaymentMethod:       method,
		SubTotal:            in.SubTotal.InexactFloat64(),
		Length:              dims.Length,
		Breadth:             dims.Breadth,
		Height:              dims.Height,
		Weight:              dims.Weight,
	}, nil
}

// PackageDimensions stacks the items into one parcel: length and breadth are
// the largest item's, height and weight are summed per unit.
func PackageDimensions(items []Item) Dimensions {
	var dims Dimensions
	for _, item := range items {
		length := round2(item.Length)
		breadth := round2(item.Width)
		height := round2(item.Height)
		weight := round2(item.Weight)
		qty := float64(item.Quantity)

		dims.Length = math.Max(dims.Length, length)
		dims.Breadth = math.Max(dims.Breadth, breadth)
		dims.Height += height * qty
		dims.Weight += weight * qty
		dims.Volume += length * breadth * height * qty
	}
	dims.Height = round2(dims.Height)
	dims.Weight = round2(dims.Weight)
	dims.Volume = round2(dims.Volume)
	return dims
}

// SKU builds CAT-xxxx from the category prefix and the id suffix.
func SKU(category, productID string) string {
	prefix := defaultSKUPrefix
	if category = strings.TrimSpace(category); category != "" {
		prefix = strings.ToUpper(firstRunes(category, 3))
	}
	suffix := defaultSKUSuffix
	if productID = strings.TrimSpace(productID); productID != "" {
		suffix = lastRunes(productID, 4)
	}
	return prefix + "-" + suffix
}

// SplitName returns the first token and the remaining tokens, or NA when there are none.
func SplitName(full string) (string, string) {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return "", defaultLastName
	}
	if len(fields) == 1 {
		return fields[0], defaultLastName
	}
	return fields[0], strings.Join(fields[1:], " ")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func firstRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func lastRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
