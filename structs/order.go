package structs

type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusNew:        {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusCompleted},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNew, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an order in status s may move to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type OrderItem struct {
	ProductID   string `json:"productId" validate:"required"`
	ProductName string `json:"productName" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,gte=1,lte=1000"`
	Price       string `json:"price" validate:"required,price"`
	Color       string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

type Order struct {
	ID            string      `json:"id"`
	CustomerName  string      `json:"customerName"`
	CustomerPhone string      `json:"customerPhone"`
	Address       string      `json:"address"`
	Comment       string      `json:"comment,omitempty"`
	Items         []OrderItem `json:"items"`
	Total         float64     `json:"total"`
	Status        OrderStatus `json:"status"`
	Date          string      `json:"date"` // RFC 3339
}

type OrderRequest struct {
	CustomerName  string      `json:"customerName" validate:"required,min=2,max=200"`
	CustomerPhone string      `json:"customerPhone" validate:"required,min=5,max=32"`
	Address       string      `json:"address" validate:"required,max=500"`
	Comment       string      `json:"comment" validate:"max=2000"`
	Items         []OrderItem `json:"items" validate:"required,min=1,dive"`
}

type OrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=new processing completed cancelled"`
}
