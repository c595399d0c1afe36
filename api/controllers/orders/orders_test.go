package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	internalorders "github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/shiprocket"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

type plainEnvelope struct{}

func (plainEnvelope) SealJSON(value any) (string, error) {
	raw, err := json.Marshal(value)
	return "sealed:" + string(raw), err
}

func (plainEnvelope) OpenJSON(token string, dest any) error {
	if !strings.HasPrefix(token, "sealed:") {
		return pkgerrors.New(pkgerrors.CodeValidation, "bad token")
	}
	return json.Unmarshal([]byte(strings.TrimPrefix(token, "sealed:")), dest)
}

type stubOrdersService struct {
	internalorders.Service
	create        func(ctx context.Context, input internalorders.CreateOrderInput) (*internalorders.CreateOrderResult, error)
	verify        func(ctx context.Context, input internalorders.VerifyPaymentInput) (*internalorders.StatusResult, error)
	carrierStatus func(ctx context.Context, input internalorders.CarrierStatusInput) (*internalorders.StatusResult, error)
	cancel        func(ctx context.Context, input internalorders.CancelInput) (*internalorders.StatusResult, error)
	list          func(ctx context.Context, input internalorders.ListInput) (*internalorders.OrderList, error)
	track         func(ctx context.Context, id shiprocket.ID) (json.RawMessage, error)
}

func (s *stubOrdersService) Create(ctx context.Context, input internalorders.CreateOrderInput) (*internalorders.CreateOrderResult, error) {
	return s.create(ctx, input)
}

func (s *stubOrdersService) VerifyPayment(ctx context.Context, input internalorders.VerifyPaymentInput) (*internalorders.StatusResult, error) {
	return s.verify(ctx, input)
}

func (s *stubOrdersService) UpdateCarrierStatus(ctx context.Context, input internalorders.CarrierStatusInput) (*internalorders.StatusResult, error) {
	return s.carrierStatus(ctx, input)
}

func (s *stubOrdersService) Cancel(ctx context.Context, input internalorders.CancelInput) (*internalorders.StatusResult, error) {
	return s.cancel(ctx, input)
}

func (s *stubOrdersService) List(ctx context.Context, input internalorders.ListInput) (*internalorders.OrderList, error) {
	return s.list(ctx, input)
}

func (s *stubOrdersService) Track(ctx context.Context, id shiprocket.ID) (json.RawMessage, error) {
	return s.track(ctx, id)
}

func (s *stubOrdersService) ShippingCharge(context.Context) internalorders.ShippingChargeResult {
	return internalorders.ShippingChargeResult{ShippingCharge: decimal.NewFromInt(50)}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "orders-controller-test"})
}

func sealedBody(t *testing.T, payload any) *strings.Reader {
	t.Helper()
	token, err := plainEnvelope{}.SealJSON(payload)
	require.NoError(t, err)
	raw, err := json.Marshal(types.SealedRequest{EncryptedData: token})
	require.NoError(t, err)
	return strings.NewReader(string(raw))
}

func authed(req *http.Request, userID uuid.UUID, role enums.UserRole) *http.Request {
	return req.WithContext(middleware.WithActor(req.Context(), middleware.Actor{UserID: userID, Role: role}))
}

func openData(t *testing.T, body []byte, dest any) {
	t.Helper()
	var envelope struct {
		Data string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	require.NoError(t, plainEnvelope{}.OpenJSON(envelope.Data, dest))
}

func decodeError(t *testing.T, body []byte) types.APIError {
	t.Helper()
	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Error
}

func TestCreateSealsResultAndUsesTokenCustomer(t *testing.T) {
	customer := uuid.New()
	orderID := uuid.New()
	address := uuid.New()
	product := uuid.New()
	var captured internalorders.CreateOrderInput
	svc := &stubOrdersService{create: func(_ context.Context, input internalorders.CreateOrderInput) (*internalorders.CreateOrderResult, error) {
		captured = input
		return &internalorders.CreateOrderResult{OrderID: orderID, OrderNumber: "ORD-0000001"}, nil
	}}

	payload := map[string]any{
		"amount":           "499.00",
		"payment_method":   "cod",
		"shipping_address": address.String(),
		"items":            []map[string]any{{"product": product.String(), "quantity": 2, "price": "224.50"}},
	}
	req := authed(httptest.NewRequest(http.MethodPost, "/order/new", sealedBody(t, payload)), customer, enums.UserRoleCustomer)
	resp := httptest.NewRecorder()
	Create(svc, plainEnvelope{}, testLogger()).ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code)
	require.Equal(t, customer, captured.CustomerID)
	require.Equal(t, enums.PaymentMethodCOD, captured.PaymentMethod)
	require.Len(t, captured.Items, 1)
	require.Equal(t, 2, captured.Items[0].Quantity)

	var result internalorders.CreateOrderResult
	openData(t, resp.Body.Bytes(), &result)
	require.Equal(t, orderID, result.OrderID)
	require.Equal(t, "ORD-0000001", result.OrderNumber)
}

func TestCreateRequiresAuthenticatedUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/order/new", sealedBody(t, map[string]any{}))
	resp := httptest.NewRecorder()
	Create(&stubOrdersService{}, plainEnvelope{}, testLogger()).ServeHTTP(resp, req)
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestVerifyInvalidSignatureIs400(t *testing.T) {
	svc := &stubOrdersService{verify: func(context.Context, internalorders.VerifyPaymentInput) (*internalorders.StatusResult, error) {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "Invalid signature")
	}}
	body := sealedBody(t, map[string]string{"order_id": "order_1", "payment_id": "pay_1", "signature": "deadbeef"})
	resp := httptest.NewRecorder()
	Verify(svc, plainEnvelope{}, testLogger()).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/order/verify", body))

	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Equal(t, "Invalid signature", decodeError(t, resp.Body.Bytes()).Message)
}

func TestCancelOpensSealedOrderID(t *testing.T) {
	actor := uuid.New()
	orderID := uuid.New()
	var captured internalorders.CancelInput
	svc := &stubOrdersService{cancel: func(_ context.Context, input internalorders.CancelInput) (*internalorders.StatusResult, error) {
		captured = input
		return &internalorders.StatusResult{Updated: true, Message: internalorders.MessageOrderCancelled}, nil
	}}
	token, err := plainEnvelope{}.SealJSON(orderID.String())
	require.NoError(t, err)
	body, err := json.Marshal(map[string]string{"orderId": token})
	require.NoError(t, err)

	req := authed(httptest.NewRequest(http.MethodPost, "/order/cancel", strings.NewReader(string(body))), actor, enums.UserRoleAdmin)
	resp := httptest.NewRecorder()
	Cancel(svc, plainEnvelope{}, testLogger()).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, orderID, captured.OrderID)
	require.Equal(t, actor, captured.ActorID)
	require.True(t, captured.IsAdmin)
}

func TestCancelDeliveredOrderIs400(t *testing.T) {
	svc := &stubOrdersService{cancel: func(context.Context, internalorders.CancelInput) (*internalorders.StatusResult, error) {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "Cannot cancel a delivered order")
	}}
	token, _ := plainEnvelope{}.SealJSON(uuid.NewString())
	body, _ := json.Marshal(map[string]string{"orderId": token})
	req := authed(httptest.NewRequest(http.MethodPost, "/order/cancel", strings.NewReader(string(body))), uuid.New(), enums.UserRoleCustomer)
	resp := httptest.NewRecorder()
	Cancel(svc, plainEnvelope{}, testLogger()).ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Equal(t, "Cannot cancel a delivered order", decodeError(t, resp.Body.Bytes()).Message)
}

func TestCarrierStatusAcceptsProviderPayload(t *testing.T) {
	var captured internalorders.CarrierStatusInput
	svc := &stubOrdersService{carrierStatus: func(_ context.Context, input internalorders.CarrierStatusInput) (*internalorders.StatusResult, error) {
		captured = input
		return &internalorders.StatusResult{Updated: true, Message: internalorders.MessageStatusUpdated}, nil
	}}
	body := `{"awb":"19041424751540","current_status":"DELIVERED","order_id":13905312,"current_timestamp":"2026-03-02 11:12:00","scans":[]}`
	resp := httptest.NewRecorder()
	CarrierStatus(svc, testLogger()).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/order/status", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, shiprocket.ID("13905312"), captured.OrderID)
	require.Equal(t, "DELIVERED", captured.CurrentStatus)

	var envelope struct {
		Data internalorders.StatusResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.True(t, envelope.Data.Updated)
}

func TestAdminListPassesPaging(t *testing.T) {
	var captured internalorders.ListInput
	svc := &stubOrdersService{list: func(_ context.Context, input internalorders.ListInput) (*internalorders.OrderList, error) {
		captured = input
		return &internalorders.OrderList{Orders: []internalorders.OrderView{}, Total: 42}, nil
	}}
	resp := httptest.NewRecorder()
	AdminList(svc, plainEnvelope{}, testLogger()).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/order/", sealedBody(t, map[string]int{"page": 3, "perPage": 20})))

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, internalorders.ListInput{Page: 3, PerPage: 20}, captured)
}

func TestTrackOpensScalarShipmentID(t *testing.T) {
	var captured shiprocket.ID
	svc := &stubOrdersService{track: func(_ context.Context, id shiprocket.ID) (json.RawMessage, error) {
		captured = id
		return json.RawMessage(`{"tracking_data":{"track_status":1}}`), nil
	}}
	resp := httptest.NewRecorder()
	Track(svc, plainEnvelope{}, testLogger()).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/order/track", sealedBody(t, 16104408)))

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, shiprocket.ID("16104408"), captured)
	var doc map[string]any
	openData(t, resp.Body.Bytes(), &doc)
	require.Contains(t, doc, "tracking_data")
}

func TestShippingChargeIsSealed(t *testing.T) {
	resp := httptest.NewRecorder()
	ShippingCharge(&stubOrdersService{}, plainEnvelope{}, testLogger()).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/order/shippingCharge", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	var result internalorders.ShippingChargeResult
	openData(t, resp.Body.Bytes(), &result)
	require.True(t, result.ShippingCharge.Equal(decimal.NewFromInt(50)))
}
