// Package content holds the site read model (translations, section
// flags, products, orders, reviews, custom pages) and keeps it in sync
// with the local mirror and the remote store.
package content

import (
	"context"
	"sinemagic_server/mirror"
	"sinemagic_server/structs"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// Remote is the remote store as seen by the content store. A nil Remote
// means the store runs on the mirror alone.
type Remote interface {
	Translations(ctx context.Context) ([]structs.TranslationEntry, error)
	UpsertTranslation(ctx context.Context, entry structs.TranslationEntry) error

	Sections(ctx context.Context) (structs.Sections, error)
	UpsertSection(ctx context.Context, id string, visible bool) error

	Products(ctx context.Context) ([]structs.Product, error)
	InsertProduct(ctx context.Context, p structs.Product) (*structs.Product, error)
	InsertProducts(ctx context.Context, products []structs.Product) error
	UpdateProduct(ctx context.Context, id string, columns map[string]any) error
	DeleteProduct(ctx context.Context, id string) error

	Orders(ctx context.Context) ([]structs.Order, error)
	InsertOrder(ctx context.Context, o structs.Order) error
	UpdateOrderStatus(ctx context.Context, id string, status structs.OrderStatus) error

	Reviews(ctx context.Context) ([]structs.Review, error)
	InsertReview(ctx context.Context, r structs.Review) error
	DeleteReview(ctx context.Context, id string) error

	Pages(ctx context.Context) ([]structs.CustomPage, error)
	InsertPage(ctx context.Context, p structs.CustomPage) error
	UpdatePage(ctx context.Context, id string, columns map[string]any) error
	DeletePage(ctx context.Context, id string) error
}

// OrderNotifier is told about every order accepted by the store.
type OrderNotifier interface {
	OrderPlaced(ctx context.Context, order structs.Order)
}

type Options struct {
	Mirror mirror.Store
	Remote Remote
	Logger *gecho.Logger
	// Translations seeds the translation map before the mirror is read,
	// usually the flattened static fallback table.
	Translations structs.Translations
	Notifier     OrderNotifier
	// DefaultLanguage is used for translation writes without a language.
	DefaultLanguage string
}

type Store struct {
	mirror   mirror.Store
	remote   Remote
	logger   *gecho.Logger
	notifier OrderNotifier
	lang     string
	now      func() time.Time
	newID    func() string

	mu           sync.RWMutex
	translations structs.Translations
	sections     structs.Sections
	products     []structs.Product
	orders       []structs.Order
	reviews      []structs.Review
	pages        []structs.CustomPage

	loading    atomic.Bool
	refreshing sync.Mutex
	background sync.WaitGroup

	translationRepo *SyncingRepository[structs.Translations]
	sectionRepo     *SyncingRepository[structs.Sections]
	productRepo     *SyncingRepository[[]structs.Product]
	orderRepo       *SyncingRepository[[]structs.Order]
	reviewRepo      *SyncingRepository[[]structs.Review]
	pageRepo        *SyncingRepository[[]structs.CustomPage]
}

// New builds a store. Nothing is read until Refresh is called; until
// then Loading reports true.
func New(opts Options) *Store {
	lang := opts.DefaultLanguage
	if lang == "" {
		lang = "ru"
	}

	translations := make(structs.Translations)
	translations.Merge(opts.Translations)

	s := &Store{
		mirror:       opts.Mirror,
		remote:       opts.Remote,
		logger:       opts.Logger,
		notifier:     opts.Notifier,
		lang:         lang,
		now:          time.Now,
		newID:        uuid.NewString,
		translations: translations,
		sections:     make(structs.Sections),
		products:     []structs.Product{},
		orders:       []structs.Order{},
		reviews:      []structs.Review{},
		pages:        []structs.CustomPage{},
	}
	s.loading.Store(true)
	s.buildRepositories()
	return s
}

func (s *Store) buildRepositories() {
	s.translationRepo = &SyncingRepository[structs.Translations]{
		Name:   "translations",
		Local:  NewLocalRepository[structs.Translations](s.mirror, mirror.KeyTranslations, s.logger),
		Policy: RemoteMergesOver,
		merge: func(current, remote structs.Translations) structs.Translations {
			out := current.Clone()
			out.Merge(remote)
			return out
		},
	}
	s.sectionRepo = &SyncingRepository[structs.Sections]{
		Name:   "sections",
		Local:  NewLocalRepository[structs.Sections](s.mirror, mirror.KeySections, s.logger),
		Policy: RemoteMergesOver,
		merge: func(current, remote structs.Sections) structs.Sections {
			out := current.Clone()
			for id, visible := range remote {
				out[id] = visible
			}
			return out
		},
	}
	s.productRepo = &SyncingRepository[[]structs.Product]{
		Name:    "products",
		Local:   NewLocalRepository[[]structs.Product](s.mirror, mirror.KeyProducts, s.logger),
		Policy:  RemoteWinsWhenNonEmpty,
		Persist: true,
		empty:   func(p []structs.Product) bool { return len(p) == 0 },
	}
	s.orderRepo = &SyncingRepository[[]structs.Order]{
		Name:   "orders",
		Local:  NewLocalRepository[[]structs.Order](s.mirror, mirror.KeyOrders, s.logger),
		Policy: RemoteReplaces,
	}
	s.reviewRepo = &SyncingRepository[[]structs.Review]{
		Name:   "reviews",
		Local:  NewLocalRepository[[]structs.Review](s.mirror, mirror.KeyReviews, s.logger),
		Policy: RemoteReplaces,
	}
	s.pageRepo = &SyncingRepository[[]structs.CustomPage]{
		Name:    "pages",
		Local:   NewLocalRepository[[]structs.CustomPage](s.mirror, mirror.KeyPages, s.logger),
		Policy:  RemoteReplaces,
		Persist: true,
	}

	if s.remote == nil {
		return
	}

	s.translationRepo.Remote = RemoteFunc[structs.Translations](func(ctx context.Context) (structs.Translations, error) {
		entries, err := s.remote.Translations(ctx)
		if err != nil {
			return nil, err
		}
		t := make(structs.Translations)
		for _, e := range entries {
			t.Set(e.Key, e.Lang, e.Value)
		}
		return t, nil
	})
	s.sectionRepo.Remote = RemoteFunc[structs.Sections](s.remote.Sections)
	s.productRepo.Remote = RemoteFunc[[]structs.Product](s.remote.Products)
	s.orderRepo.Remote = RemoteFunc[[]structs.Order](s.remote.Orders)
	s.reviewRepo.Remote = RemoteFunc[[]structs.Review](s.remote.Reviews)
	s.pageRepo.Remote = RemoteFunc[[]structs.CustomPage](s.remote.Pages)
}

// RemoteEnabled reports whether writes reach the remote store.
func (s *Store) RemoteEnabled() bool {
	return s.remote != nil
}

// Loading is true while a refresh is in progress and before the first
// one has run.
func (s *Store) Loading() bool {
	return s.loading.Load()
}

// Close waits for background refreshes to finish.
func (s *Store) Close() {
	s.background.Wait()
}

func (s *Store) Translations() structs.Translations {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.translations.Clone()
}

// Translation returns the stored value for key in lang.
func (s *Store) Translation(key, lang string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.translations.Get(key, lang)
}

// Text returns the stored translation or fallback when there is none.
func (s *Store) Text(key, fallback, lang string) string {
	if v, ok := s.Translation(key, lang); ok {
		return v
	}
	return fallback
}

func (s *Store) Sections() structs.Sections {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sections.Clone()
}

// SectionVisible reports the flag for id. Sections without a flag are
// visible.
func (s *Store) SectionVisible(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sections.Visible(id)
}

func (s *Store) Products() []structs.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProducts(s.products)
}

// VisibleProducts returns the products shown in the storefront.
func (s *Store) VisibleProducts() []structs.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]structs.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.IsVisible {
			out = append(out, cloneProduct(p))
		}
	}
	return out
}

func (s *Store) Product(id string) (structs.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return cloneProduct(p), true
		}
	}
	return structs.Product{}, false
}

func (s *Store) Orders() []structs.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]structs.Order{}, s.orders...)
}

func (s *Store) Reviews() []structs.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]structs.Review{}, s.reviews...)
}

func (s *Store) Pages() []structs.CustomPage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]structs.CustomPage{}, s.pages...)
}

// PageBySlug returns the page with slug if it exists and is visible.
func (s *Store) PageBySlug(slug string) (structs.CustomPage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.pages {
		if p.Slug == slug && p.IsVisible {
			return p, true
		}
	}
	return structs.CustomPage{}, false
}

// Snapshot is the full public read model.
type Snapshot struct {
	Translations structs.Translations `json:"translations"`
	Sections     structs.Sections     `json:"sections"`
	Products     []structs.Product    `json:"products"`
	Reviews      []structs.Review     `json:"reviews"`
	Pages        []structs.CustomPage `json:"pages"`
	Loading      bool                 `json:"loading"`
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Translations: s.translations.Clone(),
		Sections:     s.sections.Clone(),
		Products:     cloneProducts(s.products),
		Reviews:      append([]structs.Review{}, s.reviews...),
		Pages:        append([]structs.CustomPage{}, s.pages...),
		Loading:      s.loading.Load(),
	}
}

func cloneProduct(p structs.Product) structs.Product {
	if p.Colors != nil {
		p.Colors = append([]string{}, p.Colors...)
	}
	return p
}

func cloneProducts(in []structs.Product) []structs.Product {
	out := make([]structs.Product, len(in))
	for i, p := range in {
		out[i] = cloneProduct(p)
	}
	return out
}
