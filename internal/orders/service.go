package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/angelmondragon/storefront-backend/pkg/shiprocket"
)

const (
	orderNumberAttempts = 3

	bestSellersCacheKey = "best_sellers"
	bestSellersLimit    = 10

	providerRazorpay   = "razorpay"
	providerShiprocket = "shiprocket"

	sourceCheckout = "checkout"
	sourcePayment  = "payment"
	sourceVerify   = "verify"
	sourceWebhook  = "webhook"
	sourceManual   = "manual"
	sourceCancel   = "cancel"
)

const (
	MessageStatusUpdated    = "Order status updated successfully"
	MessageAlreadyCompleted = "Status is already present. This step is already completed"
	MessageStatusIgnored    = "Status is not part of the order lifecycle"
	MessagePaymentUpdated   = "Payment status updated successfully"
	MessagePaymentVerified  = "Payment verified successfully"
	MessageOrderCancelled   = "Order cancelled and refund initiated"
)

// Service drives the order lifecycle from checkout to cancellation.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error)
	UpdatePaymentStatus(ctx context.Context, input UpdatePaymentInput) (*StatusResult, error)
	VerifyPayment(ctx context.Context, input VerifyPaymentInput) (*StatusResult, error)
	UpdateCarrierStatus(ctx context.Context, input CarrierStatusInput) (*StatusResult, error)
	UpdateManualStatus(ctx context.Context, input ManualStatusInput) (*StatusResult, error)
	Cancel(ctx context.Context, input CancelInput) (*StatusResult, error)
	List(ctx context.Context, input ListInput) (*OrderList, error)
	MyOrders(ctx context.Context, customerID uuid.UUID) ([]OrderView, error)
	BestSellers(ctx context.Context) ([]BestSeller, error)
	ShippingCharge(ctx context.Context) ShippingChargeResult
	Invoice(ctx context.Context, orderID shiprocket.ID) (json.RawMessage, error)
	Track(ctx context.Context, shipmentID shiprocket.ID) (json.RawMessage, error)
	ExpirePendingCheckouts(ctx context.Context, cutoff time.Time) (int, error)
}

// ServiceParams wires the order service collaborators.
type ServiceParams struct {
	Repo           Repository
	Tx             txRunner
	Carrier        Carrier
	Payments       PaymentGateway
	Cache          Cache
	Metrics        *metrics.OrderMetrics
	Logger         *logger.Logger
	ShippingCharge decimal.Decimal
	PickupLocation string
	Now            func() time.Time
}

type service struct {
	repo           Repository
	tx             txRunner
	carrier        Carrier
	payments       PaymentGateway
	cache          Cache
	metrics        *metrics.OrderMetrics
	logg           *logger.Logger
	shippingCharge decimal.Decimal
	pickupLocation string
	now            func() time.Time

	// rankings collapses concurrent best-seller cache misses into one query.
	rankings singleflight.Group
}

// NewService builds the order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Carrier == nil {
		return nil, fmt.Errorf("carrier client required")
	}
	if params.Payments == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if params.Cache == nil {
		return nil, fmt.Errorf("cache required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:           params.Repo,
		tx:             params.Tx,
		carrier:        params.Carrier,
		payments:       params.Payments,
		cache:          params.Cache,
		metrics:        params.Metrics,
		logg:           params.Logger,
		shippingCharge: params.ShippingCharge,
		pickupLocation: params.PickupLocation,
		now:            now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	for _, item := range input.Items {
		if item.Product == uuid.Nil || item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "each item requires a product and a positive quantity")
		}
	}

	address, err := s.repo.FindAddress(ctx, input.ShippingAddress)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipping address")
	}

	orderDate := s.now().UTC()
	if input.OrderDate != nil && !input.OrderDate.IsZero() {
		orderDate = input.OrderDate.UTC()
	}

	var paymentID *string
	var products map[uuid.UUID]models.Product
	switch input.PaymentMethod {
	case enums.PaymentMethodRazorpay:
		started := s.now()
		checkout, err := s.payments.CreateOrder(ctx, input.Amount)
		s.metrics.ObserveProviderCall(providerRazorpay, "create_order", s.now().Sub(started), err)
		if err != nil {
			return nil, err
		}
		paymentID = &checkout.ID
	case enums.PaymentMethodCOD:
		products, err = s.loadProducts(ctx, input.Items)
		if err != nil {
			return nil, err
		}
	}

	for attempt := 1; ; attempt++ {
		last, err := s.repo.LastOrderNumber(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read last order number")
		}
		order := s.newOrder(input, NextOrderNumber(last), orderDate, paymentID)

		if input.PaymentMethod == enums.PaymentMethodCOD {
			carrierID, err := s.createCarrierOrder(ctx, order, address, products)
			if err != nil {
				return nil, err
			}
			order.ShiprocketOrderID = &carrierID
			order.StatusHistory = []models.OrderStatusEvent{{
				OrderID: order.ID,
				Status:  string(enums.OrderStatusOrdered),
				Date:    s.now().UTC(),
			}}
		}

		created, err := s.repo.CreateOrder(ctx, order)
		if err == nil {
			if input.PaymentMethod == enums.PaymentMethodCOD {
				s.metrics.IncTransition(string(enums.OrderStatusOrdered), sourceCheckout)
			}
			logCtx := s.logg.WithOrderID(ctx, created.ID.String())
			logCtx = s.logg.WithFields(logCtx, map[string]any{
				"order_number":   created.OrderNumber,
				"payment_method": string(created.PaymentMethod),
			})
			s.logg.Info(logCtx, "order created")
			return &CreateOrderResult{
				OrderID:         created.ID,
				OrderNumber:     created.OrderNumber,
				RazorpayOrderID: created.PaymentID,
			}, nil
		}

		if order.ShiprocketOrderID != nil {
			s.releaseCarrierOrder(ctx, *order.ShiprocketOrderID)
		}
		if !db.IsUniqueViolation(err, orderNumberConstraint, orderNumberColumn) || attempt >= orderNumberAttempts {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
		}
		s.logg.Warn(s.logg.WithField(ctx, "order_number", order.OrderNumber), "order number taken, regenerating")
	}
}

func (s *service) UpdatePaymentStatus(ctx context.Context, input UpdatePaymentInput) (*StatusResult, error) {
	order, err := s.findOrder(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	paymentID := strings.TrimSpace(input.PaymentID)
	if paymentID == "" {
		updates := map[string]any{"payment_status": enums.PaymentStatusPending}
		if err := s.repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment status")
		}
		return &StatusResult{Updated: true, Message: MessagePaymentUpdated}, nil
	}

	if order.HasStatus(string(enums.OrderStatusOrdered)) {
		return alreadyCompleted(), nil
	}

	carrierID, err := s.createCarrierOrder(ctx, order, order.ShippingAddress, productsFromItems(order.Items))
	if err != nil {
		return nil, err
	}

	appended := false
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		updates := map[string]any{
			"payment_id":          paymentID,
			"payment_status":      enums.PaymentStatusPaid,
			"shiprocket_order_id": carrierID,
		}
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return err
		}
		ok, err := repo.AppendStatus(ctx, order.ID, string(enums.OrderStatusOrdered), s.now().UTC())
		appended = ok
		return err
	})
	if err != nil {
		s.releaseCarrierOrder(ctx, carrierID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm order payment")
	}
	if appended {
		s.metrics.IncTransition(string(enums.OrderStatusOrdered), sourcePayment)
	}

	logCtx := s.logg.WithPaymentID(s.logg.WithOrderID(ctx, order.ID.String()), paymentID)
	s.logg.Info(s.logg.WithField(logCtx, "shiprocket_order_id", carrierID), "order payment confirmed")
	return &StatusResult{Updated: true, Message: MessagePaymentUpdated}, nil
}

// VerifyPayment checks the checkout signature and marks the order paid. It
// does not append Ordered; UpdatePaymentStatus owns that transition.
func (s *service) VerifyPayment(ctx context.Context, input VerifyPaymentInput) (*StatusResult, error) {
	if !s.payments.VerifySignature(input.OrderID, input.PaymentID, input.Signature) {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "Invalid signature")
	}

	order, err := s.repo.FindOrderByPaymentID(ctx, input.OrderID)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order by payment id")
	}

	updates := map[string]any{"payment_status": enums.PaymentStatusPaid}
	if err := s.repo.UpdateOrder(ctx, order.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order paid")
	}
	s.metrics.IncTransition(string(enums.PaymentStatusPaid), sourceVerify)
	return &StatusResult{Updated: true, Message: MessagePaymentVerified}, nil
}

func (s *service) UpdateCarrierStatus(ctx context.Context, input CarrierStatusInput) (*StatusResult, error) {
	if input.OrderID.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order_id is required")
	}

	order, err := s.repo.FindOrderByShiprocketID(ctx, input.OrderID.String())
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order by carrier id")
	}

	status, err := enums.ParseOrderStatus(input.CurrentStatus)
	if err != nil {
		logCtx := s.logg.WithOrderID(ctx, order.ID.String())
		s.logg.Debug(s.logg.WithField(logCtx, "current_status", input.CurrentStatus), "carrier status ignored")
		return &StatusResult{Updated: false, Message: MessageStatusIgnored}, nil
	}
	return s.appendStatus(ctx, order, string(status), sourceWebhook)
}

func (s *service) UpdateManualStatus(ctx context.Context, input ManualStatusInput) (*StatusResult, error) {
	status := strings.TrimSpace(input.Status)
	if status == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status is required")
	}
	order, err := s.findOrder(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return s.appendStatus(ctx, order, status, sourceManual)
}

// Cancel records the cancellation first, then cancels the carrier order and
// refunds a captured payment. Compensation failures are reported together.
func (s *service) Cancel(ctx context.Context, input CancelInput) (*StatusResult, error) {
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	order, err := s.findOrder(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if !input.IsAdmin && order.CustomerID != input.ActorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")
	}
	if enums.OrderStatusDelivered.Matches(string(order.CurrentStatus())) {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "Cannot cancel a delivered order")
	}

	appended, err := s.appendStatus(ctx, order, string(enums.OrderStatusCancelled), sourceCancel)
	if err != nil {
		return nil, err
	}
	if !appended.Updated {
		return appended, nil
	}

	var errs []error
	if order.ShiprocketOrderID != nil && *order.ShiprocketOrderID != "" {
		started := s.now()
		err := s.carrier.CancelOrders(ctx, shiprocket.ID(*order.ShiprocketOrderID))
		s.metrics.ObserveProviderCall(providerShiprocket, "cancel_order", s.now().Sub(started), err)
		if err != nil {
			errs = append(errs, fmt.Errorf("cancel carrier order: %w", err))
		}
	}
	if err := s.refund(ctx, order); err != nil {
		errs = append(errs, fmt.Errorf("refund payment: %w", err))
	}
	if err := multierr.Combine(errs...); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order cancelled but compensation failed")
	}

	s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "order cancelled")
	return &StatusResult{Updated: true, Message: MessageOrderCancelled}, nil
}

func (s *service) refund(ctx context.Context, order *models.Order) error {
	if !order.PaymentMethod.Prepaid() || !order.PaymentStatus.Refundable() {
		return nil
	}
	if order.PaymentID == nil || *order.PaymentID == "" {
		return fmt.Errorf("paid order %s has no payment id", order.OrderNumber)
	}

	started := s.now()
	refund, err := s.payments.RefundPayment(ctx, *order.PaymentID, order.TotalAmount)
	s.metrics.ObserveProviderCall(providerRazorpay, "refund", s.now().Sub(started), err)
	if err != nil {
		return err
	}

	appended := false
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		updates := map[string]any{
			"payment_status": enums.PaymentStatusRefunded,
			"refund_id":      refund.ID,
		}
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return err
		}
		if order.HasStatus(string(enums.OrderStatusRefunded)) {
			return nil
		}
		ok, err := repo.AppendStatus(ctx, order.ID, string(enums.OrderStatusRefunded), s.now().UTC())
		appended = ok
		return err
	})
	if err != nil {
		return fmt.Errorf("record refund %s: %w", refund.ID, err)
	}
	if appended {
		s.metrics.IncTransition(string(enums.OrderStatusRefunded), sourceCancel)
	}
	return nil
}

func (s *service) List(ctx context.Context, input ListInput) (*OrderList, error) {
	page := pagination.Normalize(input.Page, input.PerPage)
	list, total, err := s.repo.ListVisibleOrders(ctx, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return &OrderList{Orders: toOrderViews(list), Total: total}, nil
}

func (s *service) MyOrders(ctx context.Context, customerID uuid.UUID) ([]OrderView, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListCustomerOrders(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customer orders")
	}
	return toOrderViews(list), nil
}

func (s *service) ShippingCharge(ctx context.Context) ShippingChargeResult {
	return ShippingChargeResult{ShippingCharge: s.shippingCharge}
}

func (s *service) Invoice(ctx context.Context, orderID shiprocket.ID) (json.RawMessage, error) {
	if orderID.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "carrier order id is required")
	}
	started := s.now()
	invoice, err := s.carrier.PrintInvoice(ctx, orderID)
	s.metrics.ObserveProviderCall(providerShiprocket, "print_invoice", s.now().Sub(started), err)
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *service) Track(ctx context.Context, shipmentID shiprocket.ID) (json.RawMessage, error) {
	if shipmentID.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipment id is required")
	}
	started := s.now()
	tracking, err := s.carrier.TrackShipment(ctx, shipmentID)
	s.metrics.ObserveProviderCall(providerShiprocket, "track_shipment", s.now().Sub(started), err)
	if err != nil {
		return nil, err
	}
	return tracking, nil
}

// ExpirePendingCheckouts deletes Razorpay checkouts that were never paid and
// were created before cutoff. It returns how many orders were removed.
func (s *service) ExpirePendingCheckouts(ctx context.Context, cutoff time.Time) (int, error) {
	stale, err := s.repo.FindPendingCheckoutsBefore(ctx, cutoff)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query pending checkouts")
	}

	removed := 0
	var errs []error
	for _, candidate := range stale {
		deleted := false
		err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)
			current, err := repo.FindOrder(ctx, candidate.ID)
			if err != nil {
				if isNotFound(err) {
					return nil
				}
				return err
			}
			if !isPendingCheckout(current) {
				return nil
			}
			if err := repo.DeleteOrder(ctx, current.ID); err != nil {
				return err
			}
			deleted = true
			return nil
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("expire order %s: %w", candidate.ID, err))
			continue
		}
		if deleted {
			removed++
		}
	}
	return removed, multierr.Combine(errs...)
}

func (s *service) appendStatus(ctx context.Context, order *models.Order, status, source string) (*StatusResult, error) {
	if order.HasStatus(status) {
		return alreadyCompleted(), nil
	}
	appended, err := s.repo.AppendStatus(ctx, order.ID, status, s.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append order status")
	}
	if !appended {
		return alreadyCompleted(), nil
	}
	order.StatusHistory = append(order.StatusHistory, models.OrderStatusEvent{
		OrderID: order.ID,
		Status:  status,
		Date:    s.now().UTC(),
	})
	s.metrics.IncTransition(status, source)
	if enums.OrderStatusDelivered.Matches(status) {
		s.invalidateBestSellers(ctx)
	}

	logCtx := s.logg.WithOrderID(ctx, order.ID.String())
	logCtx = s.logg.WithFields(logCtx, map[string]any{"status": status, "source": source})
	s.logg.Info(logCtx, "order status appended")
	return &StatusResult{Updated: true, Message: MessageStatusUpdated}, nil
}

func (s *service) createCarrierOrder(ctx context.Context, order *models.Order, address *models.Address, products map[uuid.UUID]models.Product) (string, error) {
	if address == nil {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "Address not found")
	}
	items := make([]shiprocket.Item, 0, len(order.Items))
	for _, line := range order.Items {
		product, ok := products[line.ProductID]
		if !ok {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", line.ProductID))
		}
		items = append(items, shiprocket.Item{
			ProductID: product.ID.String(),
			Name:      product.Name,
			Category:  product.Category,
			Quantity:  line.Quantity,
			Price:     line.Price,
			Length:    product.Length,
			Width:     product.Width,
			Height:    product.Height,
			Weight:    product.Weight,
		})
	}

	payload, err := shiprocket.BuildOrderPayload(shiprocket.OrderInput{
		OrderNumber:    order.OrderNumber,
		OrderDate:      s.now(),
		PickupLocation: s.pickupLocation,
		CashOnDelivery: order.PaymentMethod == enums.PaymentMethodCOD,
		SubTotal:       order.TotalAmount,
		Contact: shiprocket.Contact{
			Name:         address.Name,
			AddressLine1: address.AddressLine1,
			City:         address.City,
			State:        address.State,
			PinCode:      address.PinCode,
			Country:      address.Country,
			PhoneNumber:  address.PhoneNumber,
		},
		Items: items,
	})
	if err != nil {
		return "", err
	}

	started := s.now()
	resp, err := s.carrier.CreateOrder(ctx, payload)
	s.metrics.ObserveProviderCall(providerShiprocket, "create_order", s.now().Sub(started), err)
	if err != nil {
		return "", err
	}
	if resp == nil || resp.OrderID.IsZero() {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "carrier response missing order id")
	}
	return resp.OrderID.String(), nil
}

// releaseCarrierOrder cancels a carrier order whose local order was never
// stored. Failures are logged only.
func (s *service) releaseCarrierOrder(ctx context.Context, carrierID string) {
	started := s.now()
	err := s.carrier.CancelOrders(ctx, shiprocket.ID(carrierID))
	s.metrics.ObserveProviderCall(providerShiprocket, "cancel_order", s.now().Sub(started), err)
	if err != nil {
		s.logg.Error(s.logg.WithField(ctx, "shiprocket_order_id", carrierID), "release carrier order", err)
	}
}

func (s *service) loadProducts(ctx context.Context, items []CreateOrderItemInput) (map[uuid.UUID]models.Product, error) {
	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.Product]; ok {
			continue
		}
		seen[item.Product] = struct{}{}
		ids = append(ids, item.Product)
	}
	list, err := s.repo.FindProducts(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	products := make(map[uuid.UUID]models.Product, len(list))
	for _, p := range list {
		products[p.ID] = p
	}
	for _, id := range ids {
		if _, ok := products[id]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", id))
		}
	}
	return products, nil
}

func (s *service) newOrder(input CreateOrderInput, number string, orderDate time.Time, paymentID *string) *models.Order {
	orderID := uuid.New()
	items := make([]models.OrderItem, 0, len(input.Items))
	for i, item := range input.Items {
		items = append(items, models.OrderItem{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: item.Product,
			Position:  i,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return &models.Order{
		ID:                orderID,
		OrderNumber:       number,
		CustomerID:        input.CustomerID,
		OrderDate:         orderDate,
		TotalAmount:       input.Amount,
		ShippingCharges:   s.shippingCharge,
		ShippingAddressID: input.ShippingAddress,
		PaymentMethod:     input.PaymentMethod,
		PaymentID:         paymentID,
		PaymentStatus:     enums.PaymentStatusPending,
		Items:             items,
	}
}

func (s *service) findOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func productsFromItems(items []models.OrderItem) map[uuid.UUID]models.Product {
	products := make(map[uuid.UUID]models.Product, len(items))
	for _, item := range items {
		if item.Product != nil {
			products[item.ProductID] = *item.Product
		}
	}
	return products
}

func isPendingCheckout(order *models.Order) bool {
	return order.PaymentMethod.Prepaid() &&
		order.PaymentStatus == enums.PaymentStatusPending &&
		len(order.StatusHistory) == 0
}

func alreadyCompleted() *StatusResult {
	return &StatusResult{Updated: false, Message: MessageAlreadyCompleted}
}
