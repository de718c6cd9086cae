package admin

import (
	"net/http"
	"sinemagic_server/handling"
	"sinemagic_server/lib"
	"sinemagic_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// ListOrders returns orders newest first, optionally filtered by status.
func (ar *AdminRoutesManager) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders := ar.content.Orders()

	if status := structs.OrderStatus(r.URL.Query().Get("status")); status != "" {
		if !status.Valid() {
			gecho.BadRequest(w, gecho.WithMessage("Unknown order status"), gecho.Send())
			return
		}
		filtered := orders[:0]
		for _, o := range orders {
			if o.Status == status {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"orders": orders,
			"count":  len(orders),
		}),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	for _, o := range ar.content.Orders() {
		if o.ID == id {
			gecho.Success(w, gecho.WithData(o), gecho.Send())
			return
		}
	}

	gecho.NotFound(w, gecho.WithMessage("Order not found"), gecho.Send())
}

func (ar *AdminRoutesManager) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, err := lib.ExtractAndValidateBody[structs.OrderStatusRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "Please provide a valid order status", ar.logger, w)
		return
	}

	order, err := ar.content.UpdateOrderStatus(r.Context(), id, body.Status)
	ar.respond(w, err, order, "Order status updated")
}
