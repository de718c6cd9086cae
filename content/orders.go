package content

import (
	"context"
	"fmt"
	"math"
	"sinemagic_server/lib"
	"sinemagic_server/structs"
)

// orderTotal sums price × quantity over items.
func orderTotal(items []structs.OrderItem) (float64, error) {
	var total float64
	for _, item := range items {
		line, err := lib.LineTotal(item.Price, item.Quantity)
		if err != nil {
			return 0, fmt.Errorf("item %s: %w", item.ProductID, err)
		}
		total += line
	}
	return math.Round(total*100) / 100, nil
}

// AddOrder records a new order at the top of the list.
func (s *Store) AddOrder(ctx context.Context, req *structs.OrderRequest) (structs.Order, error) {
	total, err := orderTotal(req.Items)
	if err != nil {
		return structs.Order{}, err
	}

	order := structs.Order{
		ID:            s.newID(),
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Address:       req.Address,
		Comment:       req.Comment,
		Items:         append([]structs.OrderItem{}, req.Items...),
		Total:         total,
		Status:        structs.OrderStatusNew,
		Date:          lib.FormatTimestamp(s.now()),
	}

	s.mu.Lock()
	s.orders = append([]structs.Order{order}, s.orders...)
	s.orderRepo.Local.Save(ctx, s.orders)
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.OrderPlaced(ctx, order)
	}

	if s.remote == nil {
		return order, nil
	}
	if err := s.remote.InsertOrder(ctx, order); err != nil {
		return order, s.remoteWarning("order", err)
	}
	return order, nil
}

// UpdateOrderStatus moves an order along new → processing → completed or
// new → cancelled. Setting the current status again is a no-op.
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status structs.OrderStatus) (structs.Order, error) {
	if !status.Valid() {
		return structs.Order{}, fmt.Errorf("%w: unknown status %q", lib.ErrInvalidTransition, status)
	}

	s.mu.Lock()
	idx := -1
	for i, o := range s.orders {
		if o.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return structs.Order{}, fmt.Errorf("order %s: %w", id, lib.ErrNotFound)
	}

	current := s.orders[idx]
	if current.Status == status {
		s.mu.Unlock()
		return current, nil
	}
	if !current.Status.CanTransitionTo(status) {
		s.mu.Unlock()
		return structs.Order{}, fmt.Errorf("%w: %s -> %s", lib.ErrInvalidTransition, current.Status, status)
	}

	next := append([]structs.Order{}, s.orders...)
	next[idx].Status = status
	order := next[idx]
	s.orders = next
	s.orderRepo.Local.Save(ctx, next)
	s.mu.Unlock()

	if s.remote == nil {
		return order, nil
	}
	if err := s.remote.UpdateOrderStatus(ctx, id, status); err != nil {
		return order, s.remoteWarning("order", err)
	}
	return order, nil
}
