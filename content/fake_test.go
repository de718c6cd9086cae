package content

import (
	"context"
	"sinemagic_server/config"
	"sinemagic_server/mirror"
	"sinemagic_server/structs"
	"sync"

	"github.com/MonkyMars/gecho"
)

// fakeRemote is an in-memory remote store with injectable failures.
type fakeRemote struct {
	mu sync.Mutex

	translations []structs.TranslationEntry
	sections     structs.Sections
	products     []structs.Product
	orders       []structs.Order
	reviews      []structs.Review
	pages        []structs.CustomPage

	insertProductErr  error
	insertProductNil  bool
	insertProductsErr error
	updateProductErr  error
	upsertSectionErr  error
	fetchProductsErr  error
	insertOrderErr    error
	insertReviewErr   error
	insertPageErr     error

	// productsGate blocks Products until closed
	productsGate chan struct{}
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{sections: make(structs.Sections)}
}

func (f *fakeRemote) Translations(context.Context) ([]structs.TranslationEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]structs.TranslationEntry{}, f.translations...), nil
}

func (f *fakeRemote) UpsertTranslation(_ context.Context, e structs.TranslationEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.translations {
		if existing.Key == e.Key && existing.Lang == e.Lang {
			f.translations[i] = e
			return nil
		}
	}
	f.translations = append(f.translations, e)
	return nil
}

func (f *fakeRemote) Sections(context.Context) (structs.Sections, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sections.Clone(), nil
}

func (f *fakeRemote) UpsertSection(_ context.Context, id string, visible bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertSectionErr != nil {
		return f.upsertSectionErr
	}
	f.sections[id] = visible
	return nil
}

func (f *fakeRemote) Products(context.Context) ([]structs.Product, error) {
	if f.productsGate != nil {
		<-f.productsGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchProductsErr != nil {
		return nil, f.fetchProductsErr
	}
	return cloneProducts(f.products), nil
}

func (f *fakeRemote) InsertProduct(_ context.Context, p structs.Product) (*structs.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertProductErr != nil {
		return nil, f.insertProductErr
	}
	if f.insertProductNil {
		return nil, nil
	}
	f.products = append(f.products, p)
	return &p, nil
}

func (f *fakeRemote) InsertProducts(_ context.Context, products []structs.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertProductsErr != nil {
		return f.insertProductsErr
	}
	f.products = append(f.products, cloneProducts(products)...)
	return nil
}

func (f *fakeRemote) UpdateProduct(_ context.Context, id string, _ map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updateProductErr
}

func (f *fakeRemote) DeleteProduct(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if idx := indexOfProduct(f.products, id); idx >= 0 {
		f.products = append(f.products[:idx], f.products[idx+1:]...)
	}
	return nil
}

func (f *fakeRemote) Orders(context.Context) ([]structs.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]structs.Order{}, f.orders...), nil
}

func (f *fakeRemote) InsertOrder(_ context.Context, o structs.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertOrderErr != nil {
		return f.insertOrderErr
	}
	f.orders = append([]structs.Order{o}, f.orders...)
	return nil
}

func (f *fakeRemote) UpdateOrderStatus(_ context.Context, id string, status structs.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.orders {
		if f.orders[i].ID == id {
			f.orders[i].Status = status
		}
	}
	return nil
}

func (f *fakeRemote) Reviews(context.Context) ([]structs.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]structs.Review{}, f.reviews...), nil
}

func (f *fakeRemote) InsertReview(_ context.Context, r structs.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertReviewErr != nil {
		return f.insertReviewErr
	}
	f.reviews = append([]structs.Review{r}, f.reviews...)
	return nil
}

func (f *fakeRemote) DeleteReview(context.Context, string) error { return nil }

func (f *fakeRemote) Pages(context.Context) ([]structs.CustomPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]structs.CustomPage{}, f.pages...), nil
}

func (f *fakeRemote) InsertPage(_ context.Context, p structs.CustomPage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertPageErr != nil {
		return f.insertPageErr
	}
	f.pages = append(f.pages, p)
	return nil
}

func (f *fakeRemote) UpdatePage(context.Context, string, map[string]any) error { return nil }

func (f *fakeRemote) DeletePage(context.Context, string) error { return nil }

func (f *fakeRemote) productCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.products)
}

func testLogger() *gecho.Logger {
	return config.NewLogger(false)
}

func newTestStore(store mirror.Store, remote Remote) *Store {
	opts := Options{
		Mirror: store,
		Logger: testLogger(),
	}
	if remote != nil {
		opts.Remote = remote
	}
	return New(opts)
}
