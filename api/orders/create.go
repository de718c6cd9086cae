package orders

import (
	"net/http"
	"sinemagic_server/handling"
	"sinemagic_server/lib"
	"sinemagic_server/structs"

	"github.com/MonkyMars/gecho"
)

// snapshotItems replaces client supplied names and prices with the
// catalogue's. It reports the first item whose product is not on sale.
func (orm *OrderRoutesManager) snapshotItems(items []structs.OrderItem) (string, bool) {
	for i, item := range items {
		product, ok := orm.content.Product(item.ProductID)
		if !ok || !product.IsVisible {
			return item.ProductID, false
		}
		items[i].ProductName = product.Name
		items[i].Price = product.Price
	}
	return "", true
}

func (orm *OrderRoutesManager) CreateOrder(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.OrderRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "Please check your order details and try again", orm.logger, w)
		return
	}

	if productID, ok := orm.snapshotItems(body.Items); !ok {
		orm.logger.Warn("Order for unavailable product", gecho.Field("product_id", productID))
		gecho.BadRequest(w,
			gecho.WithMessage("A product in your order is no longer available"),
			gecho.WithData(map[string]string{"product_id": productID}),
			gecho.Send(),
		)
		return
	}

	order, err := orm.content.AddOrder(r.Context(), body)
	if _, warned := handling.Warning(err); err != nil && !warned {
		handling.HandleError(err, "Unable to place your order. Please try again", orm.logger, w)
		return
	}

	orm.logger.Info("Order placed",
		gecho.Field("order_id", order.ID),
		gecho.Field("total", order.Total),
		gecho.Field("items", len(order.Items)),
	)

	gecho.Success(w,
		gecho.WithMessage("Order placed successfully"),
		gecho.WithData(map[string]any{
			"order_id": order.ID,
			"total":    order.Total,
			"status":   order.Status,
			"date":     order.Date,
		}),
		gecho.Send(),
	)
}
