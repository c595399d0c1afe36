package orders

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	internalorders "github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/shiprocket"
)

// Envelope opens sealed request payloads and seals responses.
type Envelope interface {
	validators.Opener
	responses.Sealer
}

type cancelRequest struct {
	OrderID string `json:"orderId" validate:"required"`
}

// Create places an order for the authenticated customer.
func Create(svc internalorders.Service, env Envelope, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input internalorders.CreateOrderInput
		if err := validators.DecodeSealedBody(r, env, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.CustomerID = actor.UserID
		if method, err := enums.ParsePaymentMethod(string(input.PaymentMethod)); err == nil {
			input.PaymentMethod = method
		}

		result, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSealedStatus(r.Context(), logg, w, env, http.StatusCreated, result)
	}
}

// UpdatePayment records the gateway payment id returned by checkout.
func UpdatePayment(svc internalorders.Service, env Envelope, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input internalorders.UpdatePaymentInput
		if err := validators.DecodeSealedBody(r, env, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.UpdatePaymentStatus(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// Verify checks the checkout signature and marks the order paid.
func Verify(svc internalorders.Service, env Envelope, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input internalorders.VerifyPaymentInput
		if err := validators.DecodeSealedBody(r, env, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.VerifyPayment(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ShippingCharge quotes the flat shipping charge.
func ShippingCharge(svc internalorders.Service, env Envelope, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSealed(r.Context(), logg, w, env, svc.ShippingCharge(r.Context()))
	}
}

// AdminList pages through every visible order.
func AdminList(svc internalorders.Service, env Envelope, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input internalorders.ListInput
		if err := validators.DecodeSealedBody(r, env, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// Cancel cancels an order on behalf of its owner or an admin. The body is
// {"orderId": "<sealed order id>"}.
func Cancel(svc internalorders.Service, env Envelope, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req cancelRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var rawID string
		if err := env.OpenJSON(req.OrderID, &rawID); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid encrypted payload"))
			return
		}
		orderID, err := uuid.Parse(strings.TrimSpace(rawID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		ctx := logg.WithOrderID(r.Context(), orderID.String())
		result, err := svc.Cancel(ctx, internalorders.CancelInput{
			OrderID: orderID,
			ActorID: actor.UserID,
			IsAdmin: actor.IsAdmin(),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// MyOrders lists the caller's visible orders, newest first.
func MyOrders(svc internalorders.Service, env Envelope, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orders, err := svc.MyOrders(r.Context(), actor.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSealed(r.Context(), logg, w, env, orders)
	}
}

func BestSellers(svc internalorders.Service, env Envelope, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ranked, err := svc.BestSellers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSealed(r.Context(), logg, w, env, ranked)
	}
}

// CarrierStatus handles the carrier tracking webhook. The api key is checked
// by middleware before this handler runs.
func CarrierStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input internalorders.CarrierStatusInput
		if err := validators.DecodeLenientJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithProvider(r.Context(), "shiprocket")
		result, err := svc.UpdateCarrierStatus(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ManualStatus appends an admin chosen status.
func ManualStatus(svc internalorders.Service, env Envelope, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input internalorders.ManualStatusInput
		if err := validators.DecodeSealedBody(r, env, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.UpdateManualStatus(logg.WithOrderID(r.Context(), input.ID.String()), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// Invoice proxies the carrier invoice for the sealed carrier order id.
func Invoice(svc internalorders.Service, env Envelope, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var id shiprocket.ID
		if err := validators.DecodeSealedBody(r, env, &id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		doc, err := svc.Invoice(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSealed(r.Context(), logg, w, env, doc)
	}
}

// Track proxies carrier tracking for the sealed shipment id.
func Track(svc internalorders.Service, env Envelope, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var id shiprocket.ID
		if err := validators.DecodeSealedBody(r, env, &id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		doc, err := svc.Track(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSealed(r.Context(), logg, w, env, doc)
	}
}

func requireActor(r *http.Request) (middleware.Actor, error) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		return middleware.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return actor, nil
}
