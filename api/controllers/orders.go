package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/juicejoy/juicejoy-backend/api/responses"
	"github.com/juicejoy/juicejoy-backend/api/validators"
	cartsvc "github.com/juicejoy/juicejoy-backend/internal/cart"
	ordersvc "github.com/juicejoy/juicejoy-backend/internal/orders"
	"github.com/juicejoy/juicejoy-backend/internal/realtime"
	"github.com/juicejoy/juicejoy-backend/pkg/enums"
	pkgerrors "github.com/juicejoy/juicejoy-backend/pkg/errors"
	"github.com/juicejoy/juicejoy-backend/pkg/logger"
)

type createOrderRequest struct {
	RecipientName  string  `json:"recipient_name" validate:"required,min=1,max=160"`
	Phone          string  `json:"phone" validate:"omitempty,e164"`
	Email          string  `json:"email" validate:"omitempty,email"`
	Address        *string `json:"address,omitempty"`
	DeliveryMethod string  `json:"delivery_method" validate:"required"`
	PaymentMethod  string  `json:"payment_method" validate:"required"`
}

// OrderCreate places an order from the caller's stored cart, then clears the
// cart. The order snapshots the cart's names and prices.
func OrderCreate(orders ordersvc.Service, carts cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if orders == nil || carts == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		userID, _, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deliveryMethod, err := enums.ParseDeliveryMethod(strings.TrimSpace(payload.DeliveryMethod))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery method"))
			return
		}
		paymentMethod, err := enums.ParsePaymentMethod(strings.TrimSpace(payload.PaymentMethod))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		cart, err := carts.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if cart.IsEmpty() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty"))
			return
		}

		lines := make([]ordersvc.LineInput, 0, len(cart.Lines))
		for _, line := range cart.Lines {
			lines = append(lines, ordersvc.LineInput{
				ProductID:      line.ProductID,
				Name:           line.Name,
				UnitPriceCents: line.UnitPriceCents,
				Quantity:       line.Quantity,
			})
		}

		order, err := orders.CreateOrder(r.Context(), ordersvc.CreateOrderInput{
			UserID:         userID,
			RecipientName:  validators.SanitizeString(payload.RecipientName, 160),
			Phone:          strings.TrimSpace(payload.Phone),
			Email:          strings.TrimSpace(payload.Email),
			Address:        payload.Address,
			DeliveryMethod: deliveryMethod,
			PaymentMethod:  paymentMethod,
			Lines:          lines,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// The order is durable at this point; a stale cart is an
		// inconvenience, not a correctness problem.
		if err := carts.Clear(r.Context(), userID); err != nil && logg != nil {
			logg.Warn(logg.WithOrderID(r.Context(), order.ID.String()), fmt.Sprintf("clearing cart after checkout: %v", err))
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// OrderList returns the caller's orders, newest first.
func OrderList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		userID, _, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orders, err := svc.ListForUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orders)
	}
}

// OrderDetail returns one order, enforcing ownership for customers.
func OrderDetail(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		userID, role, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), userID, role, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

type eventSource interface {
	Subscribe(orderID uuid.UUID, fn func(realtime.OrderEvent)) func()
}

// OrderEvents streams status changes for one order over SSE. The stream
// carries changes only; the caller fetches the current state on mount.
func OrderEvents(svc ordersvc.Service, hub eventSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || hub == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order events unavailable"))
			return
		}

		userID, role, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// Ownership gate before the stream opens.
		if _, err := svc.GetOrder(r.Context(), userID, role, orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		events := make(chan realtime.OrderEvent, 8)
		unsubscribe := hub.Subscribe(orderID, func(event realtime.OrderEvent) {
			select {
			case events <- event:
			default:
				// Slow consumer; the client re-syncs on reconnect.
			}
		})
		defer unsubscribe()

		for {
			select {
			case <-r.Context().Done():
				return
			case event := <-events:
				payload, err := json.Marshal(event)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "data: %s\n\n", payload)
				flusher.Flush()
			}
		}
	}
}

// BusinessOrderList returns every order, newest first.
func BusinessOrderList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orders, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orders)
	}
}

type setOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// BusinessOrderSetStatus advances the order through the fulfillment pipeline.
func BusinessOrderSetStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}

		order, err := svc.SetStatus(r.Context(), orderID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}
