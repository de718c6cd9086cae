package content

import (
	"context"
	"fmt"
	"sinemagic_server/structs"

	"github.com/MonkyMars/gecho"
	"golang.org/x/sync/errgroup"
)

// SyncReport describes one Refresh run. Failures never abort the run.
type SyncReport struct {
	Remote         bool             `json:"remote"`
	Failures       map[string]error `json:"-"`
	Warnings       []string         `json:"warnings,omitempty"`
	SeededProducts int              `json:"seeded_products,omitempty"`
}

func (r *SyncReport) fail(name string, err error) {
	r.Failures[name] = err
}

func (r *SyncReport) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Failed lists the entities whose remote fetch or seed failed.
func (r *SyncReport) Failed() []string {
	names := make([]string, 0, len(r.Failures))
	for name := range r.Failures {
		names = append(names, name)
	}
	return names
}

// Refresh loads the mirror and then, when a remote store is configured,
// reconciles every entity with it. Concurrent calls are serialized.
func (s *Store) Refresh(ctx context.Context) *SyncReport {
	s.refreshing.Lock()
	defer s.refreshing.Unlock()

	s.loading.Store(true)
	defer s.loading.Store(false)

	s.loadLocal(ctx)
	return s.reconcile(ctx)
}

// Start loads the mirror before returning and reconciles with the remote
// store in the background. The report is sent on the returned channel,
// which is closed afterwards. Loading stays true until then.
func (s *Store) Start(ctx context.Context) <-chan *SyncReport {
	s.refreshing.Lock()
	s.loading.Store(true)
	s.loadLocal(ctx)

	out := make(chan *SyncReport, 1)
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		defer close(out)
		defer s.refreshing.Unlock()
		defer s.loading.Store(false)
		out <- s.reconcile(ctx)
	}()
	return out
}

func (s *Store) reconcile(ctx context.Context) *SyncReport {
	report := &SyncReport{Remote: s.remote != nil, Failures: make(map[string]error)}
	if s.remote != nil {
		s.syncRemote(ctx, report)
	}

	if len(report.Failures) > 0 {
		s.logger.Warn("Content refresh finished with failures", gecho.Field("failed", report.Failed()))
	} else {
		s.logger.Debug("Content refreshed", gecho.Field("remote", report.Remote))
	}
	return report
}

func (s *Store) loadLocal(ctx context.Context) {
	if t, ok := s.translationRepo.Local.Load(ctx); ok {
		s.mu.Lock()
		next := s.translations.Clone()
		next.Merge(t)
		s.translations = next
		s.mu.Unlock()
	}

	if sections, ok := s.sectionRepo.Local.Load(ctx); ok && sections != nil {
		s.mu.Lock()
		s.sections = sections
		s.mu.Unlock()
	}

	products, ok := s.productRepo.Local.Load(ctx)
	switch {
	case !ok || products == nil:
		products = defaultProducts()
		s.productRepo.Local.Save(ctx, products)
	case needsLegacyMerge(products):
		products = mergeWithDefaults(products)
		s.productRepo.Local.Save(ctx, products)
	}
	s.mu.Lock()
	s.products = products
	s.mu.Unlock()

	if orders, ok := s.orderRepo.Local.Load(ctx); ok && orders != nil {
		s.mu.Lock()
		s.orders = orders
		s.mu.Unlock()
	}

	reviews, ok := s.reviewRepo.Local.Load(ctx)
	if !ok || reviews == nil {
		reviews = mockReviews()
		s.reviewRepo.Local.Save(ctx, reviews)
	}
	s.mu.Lock()
	s.reviews = reviews
	s.mu.Unlock()

	if pages, ok := s.pageRepo.Local.Load(ctx); ok && pages != nil {
		s.mu.Lock()
		s.pages = pages
		s.mu.Unlock()
	}
}

type fetched[T any] struct {
	value T
	err   error
}

func fetchAsync[T any](ctx context.Context, g *errgroup.Group, repo *SyncingRepository[T]) *fetched[T] {
	f := &fetched[T]{}
	g.Go(func() error {
		f.value, f.err = repo.Remote.Fetch(ctx)
		return nil
	})
	return f
}

// apply resolves a fetched snapshot against the field selected by field
// and commits it to the mirror when the repository persists.
func apply[T any](ctx context.Context, s *Store, report *SyncReport, repo *SyncingRepository[T], f *fetched[T], field func() *T) Outcome {
	if f.err != nil {
		s.logger.Warn("Remote fetch failed", gecho.Field("entity", repo.Name), gecho.Field("error", f.err))
		report.fail(repo.Name, f.err)
		return OutcomeKept
	}

	s.mu.Lock()
	target := field()
	resolved, outcome := repo.Resolve(*target, f.value)
	*target = resolved
	s.mu.Unlock()

	repo.Commit(ctx, resolved, outcome)
	return outcome
}

func (s *Store) syncRemote(ctx context.Context, report *SyncReport) {
	var g errgroup.Group
	translations := fetchAsync(ctx, &g, s.translationRepo)
	sections := fetchAsync(ctx, &g, s.sectionRepo)
	products := fetchAsync(ctx, &g, s.productRepo)
	orders := fetchAsync(ctx, &g, s.orderRepo)
	reviews := fetchAsync(ctx, &g, s.reviewRepo)
	pages := fetchAsync(ctx, &g, s.pageRepo)
	_ = g.Wait()

	apply(ctx, s, report, s.translationRepo, translations, func() *structs.Translations { return &s.translations })
	apply(ctx, s, report, s.sectionRepo, sections, func() *structs.Sections { return &s.sections })
	if apply(ctx, s, report, s.productRepo, products, func() *[]structs.Product { return &s.products }) == OutcomeRemoteEmpty {
		s.seedProducts(ctx, report)
	}
	apply(ctx, s, report, s.orderRepo, orders, func() *[]structs.Order { return &s.orders })
	apply(ctx, s, report, s.reviewRepo, reviews, func() *[]structs.Review { return &s.reviews })
	apply(ctx, s, report, s.pageRepo, pages, func() *[]structs.CustomPage { return &s.pages })
}

// seedProducts pushes the local catalog into an empty remote table once,
// replacing placeholder ids with UUIDs.
func (s *Store) seedProducts(ctx context.Context, report *SyncReport) {
	s.mu.RLock()
	seed := cloneProducts(s.products)
	s.mu.RUnlock()

	if len(seed) == 0 {
		return
	}

	for i := range seed {
		if len(seed[i].ID) < seedIDMaxLen {
			seed[i].ID = s.newID()
		}
		if seed[i].Colors == nil {
			seed[i].Colors = []string{}
		}
	}

	if err := s.remote.InsertProducts(ctx, seed); err != nil {
		s.logger.Warn("Failed to seed remote products", gecho.Field("count", len(seed)), gecho.Field("error", err))
		report.fail("products.seed", err)
		report.warn("Products could not be copied to the database and are kept locally: %v", err)
		return
	}

	s.mu.Lock()
	s.products = seed
	s.mu.Unlock()
	s.productRepo.Local.Save(ctx, seed)

	report.SeededProducts = len(seed)
	s.logger.Info("Seeded remote products", gecho.Field("count", len(seed)))
}
