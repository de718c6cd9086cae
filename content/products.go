package content

import (
	"context"
	"fmt"
	"sinemagic_server/lib"
	"sinemagic_server/structs"

	"github.com/MonkyMars/gecho"
)

// AddProduct appends p optimistically and writes it to the remote store.
// Unlike every other mutation, a failed or unconfirmed remote insert
// removes the product again and returns a blocking *lib.Alert. Without a
// remote store the product is kept and a warning alert is returned.
func (s *Store) AddProduct(ctx context.Context, p structs.Product) (structs.Product, error) {
	p.ID = s.newID()
	if p.Category == "" {
		p.Category = structs.DefaultCategory
	}
	if p.Colors == nil {
		p.Colors = []string{}
	}

	s.mu.Lock()
	s.products = append(cloneProducts(s.products), p)
	s.productRepo.Local.Save(ctx, s.products)
	s.mu.Unlock()

	if s.remote == nil {
		s.logger.Warn("Product saved locally only", gecho.Field("id", p.ID))
		return p, &lib.Alert{
			Level:   lib.AlertWarning,
			Message: "Product saved locally only: the database is not configured.",
		}
	}

	stored, err := s.remote.InsertProduct(ctx, p)
	if err == nil && stored == nil {
		err = lib.ErrNoConfirmation
	}
	if err != nil {
		s.removeProduct(ctx, p.ID)
		s.logger.Error("Product insert failed, rolled back",
			gecho.Field("id", p.ID),
			gecho.Field("code", lib.PgCode(err)),
			gecho.Field("error", err),
		)
		return structs.Product{}, lib.NewRemoteWriteAlert("Failed to save the product to the database.", err, true)
	}

	s.refreshInBackground(ctx)
	return *stored, nil
}

// UpdateProduct applies patch in memory and the mirror. A remote failure
// returns a blocking alert but the local change stays.
func (s *Store) UpdateProduct(ctx context.Context, id string, patch *structs.ProductPatch) (structs.Product, error) {
	s.mu.Lock()
	next := cloneProducts(s.products)
	idx := indexOfProduct(next, id)
	if idx < 0 {
		s.mu.Unlock()
		return structs.Product{}, fmt.Errorf("product %s: %w", id, lib.ErrNotFound)
	}
	next[idx] = patch.Apply(next[idx])
	product := cloneProduct(next[idx])
	s.products = next
	s.productRepo.Local.Save(ctx, next)
	s.mu.Unlock()

	columns := patch.Columns()
	if s.remote == nil || len(columns) == 0 {
		return product, nil
	}
	if err := s.remote.UpdateProduct(ctx, id, columns); err != nil {
		s.logger.Error("Product update failed", gecho.Field("id", id), gecho.Field("error", err))
		return product, lib.NewRemoteWriteAlert("Failed to update the product in the database.", err, false)
	}
	return product, nil
}

// DeleteProduct removes the product. A remote failure returns a blocking
// alert; the product stays removed locally.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	if !s.removeProduct(ctx, id) {
		return fmt.Errorf("product %s: %w", id, lib.ErrNotFound)
	}

	if s.remote == nil {
		return nil
	}
	if err := s.remote.DeleteProduct(ctx, id); err != nil {
		s.logger.Error("Product delete failed", gecho.Field("id", id), gecho.Field("error", err))
		return lib.NewRemoteWriteAlert("Failed to delete the product from the database.", err, false)
	}
	return nil
}

func (s *Store) removeProduct(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOfProduct(s.products, id)
	if idx < 0 {
		return false
	}
	next := make([]structs.Product, 0, len(s.products)-1)
	next = append(next, s.products[:idx]...)
	next = append(next, s.products[idx+1:]...)
	s.products = next
	s.productRepo.Local.Save(ctx, next)
	return true
}

func indexOfProduct(products []structs.Product, id string) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// refreshInBackground reloads everything after a confirmed product write
// without holding up the caller.
func (s *Store) refreshInBackground(ctx context.Context) {
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		s.Refresh(context.WithoutCancel(ctx))
	}()
}
