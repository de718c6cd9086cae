package content

import (
	"context"
	"fmt"
	"sinemagic_server/lib"
	"sinemagic_server/structs"

	"github.com/MonkyMars/gecho"
)

// Mutations update memory and the mirror first, then write to the remote
// store once. Remote failures on these entities come back as
// warning-level *lib.Alert errors; local state is kept.

func (s *Store) remoteWarning(entity string, err error) error {
	s.logger.Warn("Remote write failed", gecho.Field("entity", entity), gecho.Field("error", err))
	return &lib.Alert{
		Level:   lib.AlertWarning,
		Message: fmt.Sprintf("Saved locally, but the %s could not be written to the database.", entity),
		Err:     err,
	}
}

// UpdateTranslation sets key in lang (the default language when empty).
func (s *Store) UpdateTranslation(ctx context.Context, key, value, lang string) error {
	if lang == "" {
		lang = s.lang
	}

	s.mu.Lock()
	next := s.translations.Clone()
	next.Set(key, lang, value)
	s.translations = next
	s.translationRepo.Local.Save(ctx, next)
	s.mu.Unlock()

	if s.remote == nil {
		return nil
	}
	entry := structs.TranslationEntry{Key: key, Value: value, Lang: lang}
	if err := s.remote.UpsertTranslation(ctx, entry); err != nil {
		return s.remoteWarning("translation", err)
	}
	return nil
}

func (s *Store) ToggleSection(ctx context.Context, id string, visible bool) error {
	s.mu.Lock()
	next := s.sections.Clone()
	next[id] = visible
	s.sections = next
	s.sectionRepo.Local.Save(ctx, next)
	s.mu.Unlock()

	if s.remote == nil {
		return nil
	}
	if err := s.remote.UpsertSection(ctx, id, visible); err != nil {
		return s.remoteWarning("section", err)
	}
	return nil
}

// AddReview prepends a review dated today.
func (s *Store) AddReview(ctx context.Context, req *structs.ReviewRequest) (structs.Review, error) {
	review := structs.Review{
		ID:     s.newID(),
		Author: req.Author,
		Rating: req.Rating,
		Date:   lib.FormatRuDate(s.now()),
		Text:   req.Text,
	}

	s.mu.Lock()
	s.reviews = append([]structs.Review{review}, s.reviews...)
	s.reviewRepo.Local.Save(ctx, s.reviews)
	s.mu.Unlock()

	if s.remote == nil {
		return review, nil
	}
	if err := s.remote.InsertReview(ctx, review); err != nil {
		return review, s.remoteWarning("review", err)
	}
	return review, nil
}

func (s *Store) DeleteReview(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := -1
	for i, r := range s.reviews {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("review %s: %w", id, lib.ErrNotFound)
	}
	next := make([]structs.Review, 0, len(s.reviews)-1)
	next = append(next, s.reviews[:idx]...)
	next = append(next, s.reviews[idx+1:]...)
	s.reviews = next
	s.reviewRepo.Local.Save(ctx, next)
	s.mu.Unlock()

	if s.remote == nil {
		return nil
	}
	if err := s.remote.DeleteReview(ctx, id); err != nil {
		return s.remoteWarning("review", err)
	}
	return nil
}

func (s *Store) slugTaken(slug, exceptID string) bool {
	for _, p := range s.pages {
		if p.Slug == slug && p.ID != exceptID {
			return true
		}
	}
	return false
}

// AddPage appends a page. Slugs are unique.
func (s *Store) AddPage(ctx context.Context, req *structs.PageRequest) (structs.CustomPage, error) {
	page := structs.CustomPage{
		ID:        s.newID(),
		Slug:      req.Slug,
		Title:     req.Title,
		Content:   req.Content,
		IsVisible: req.IsVisible,
	}

	s.mu.Lock()
	if s.slugTaken(page.Slug, "") {
		s.mu.Unlock()
		return structs.CustomPage{}, fmt.Errorf("page slug %q: %w", page.Slug, lib.ErrConflict)
	}
	next := append(append([]structs.CustomPage{}, s.pages...), page)
	s.pages = next
	s.pageRepo.Local.Save(ctx, next)
	s.mu.Unlock()

	if s.remote == nil {
		return page, nil
	}
	if err := s.remote.InsertPage(ctx, page); err != nil {
		return page, s.remoteWarning("page", err)
	}
	return page, nil
}

func (s *Store) UpdatePage(ctx context.Context, id string, patch *structs.PagePatch) (structs.CustomPage, error) {
	s.mu.Lock()
	idx := -1
	for i, p := range s.pages {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return structs.CustomPage{}, fmt.Errorf("page %s: %w", id, lib.ErrNotFound)
	}
	if patch.Slug != nil && s.slugTaken(*patch.Slug, id) {
		s.mu.Unlock()
		return structs.CustomPage{}, fmt.Errorf("page slug %q: %w", *patch.Slug, lib.ErrConflict)
	}
	next := append([]structs.CustomPage{}, s.pages...)
	next[idx] = patch.Apply(next[idx])
	page := next[idx]
	s.pages = next
	s.pageRepo.Local.Save(ctx, next)
	s.mu.Unlock()

	columns := patch.Columns()
	if s.remote == nil || len(columns) == 0 {
		return page, nil
	}
	if err := s.remote.UpdatePage(ctx, id, columns); err != nil {
		return page, s.remoteWarning("page", err)
	}
	return page, nil
}

// DeletePage removes the page with id and nothing else.
func (s *Store) DeletePage(ctx context.Context, id string) error {
	s.mu.Lock()
	next := make([]structs.CustomPage, 0, len(s.pages))
	for _, p := range s.pages {
		if p.ID != id {
			next = append(next, p)
		}
	}
	if len(next) == len(s.pages) {
		s.mu.Unlock()
		return fmt.Errorf("page %s: %w", id, lib.ErrNotFound)
	}
	s.pages = next
	s.pageRepo.Local.Save(ctx, next)
	s.mu.Unlock()

	if s.remote == nil {
		return nil
	}
	if err := s.remote.DeletePage(ctx, id); err != nil {
		return s.remoteWarning("page", err)
	}
	return nil
}
