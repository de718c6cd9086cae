// Package remote talks to the hosted project: content tables through bun
// and the project's auth tables.
package remote

import (
	"context"
	"fmt"
	"sinemagic_server/database"
	"sinemagic_server/lib"
	"sinemagic_server/structs"
	"sinemagic_server/structs/tables"
	"time"

	"github.com/MonkyMars/gecho"
)

// Client reads and writes the content tables. Every call is a single
// attempt; errors are returned mapped through lib.MapPgError so SQLSTATE
// classes survive for the caller.
type Client struct {
	db      *database.DB
	logger  *gecho.Logger
	timeout time.Duration
}

func NewClient(db *database.DB, logger *gecho.Logger) *Client {
	return &Client{
		db:      db,
		logger:  logger,
		timeout: 10 * time.Second,
	}
}

func (c *Client) Translations(ctx context.Context) ([]structs.TranslationEntry, error) {
	rows, err := database.Query[tables.Translation](c.db).Timeout(c.timeout).All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	entries := make([]structs.TranslationEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, structs.TranslationEntry{Key: row.Key, Value: row.Value, Lang: row.Lang})
	}
	return entries, nil
}

// UpsertTranslation writes one entry, replacing the value on (key, lang).
func (c *Client) UpsertTranslation(ctx context.Context, entry structs.TranslationEntry) error {
	row := &tables.Translation{Key: entry.Key, Lang: entry.Lang, Value: entry.Value}
	err := database.Query[tables.Translation](c.db).
		Timeout(c.timeout).
		Upsert(ctx, row, []string{"key", "lang"}, "value")
	return lib.MapPgError(err)
}

func (c *Client) Sections(ctx context.Context) (structs.Sections, error) {
	rows, err := database.Query[tables.Section](c.db).Timeout(c.timeout).All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	sections := make(structs.Sections, len(rows))
	for _, row := range rows {
		sections[row.ID] = row.IsVisible
	}
	return sections, nil
}

func (c *Client) UpsertSection(ctx context.Context, id string, visible bool) error {
	row := &tables.Section{ID: id, IsVisible: visible}
	err := database.Query[tables.Section](c.db).
		Timeout(c.timeout).
		Upsert(ctx, row, []string{"id"}, "is_visible")
	return lib.MapPgError(err)
}

// Products returns the catalog oldest first.
func (c *Client) Products(ctx context.Context) ([]structs.Product, error) {
	rows, err := database.Query[tables.Product](c.db).
		OrderBy("created_at", database.ASC).
		Timeout(c.timeout).
		All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	products := make([]structs.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, productFromRow(row))
	}
	return products, nil
}

// InsertProduct inserts p and returns the stored row. A write that is
// accepted without returning the row fails with lib.ErrNoConfirmation.
func (c *Client) InsertProduct(ctx context.Context, p structs.Product) (*structs.Product, error) {
	row := productToRow(p, time.Now())
	stored, err := database.Query[tables.Product](c.db).Timeout(c.timeout).Insert(ctx, &row)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	product := productFromRow(*stored)
	return &product, nil
}

// InsertProducts seeds the catalog in one statement. Creation times are
// staggered so the oldest-first order matches the slice order.
func (c *Client) InsertProducts(ctx context.Context, products []structs.Product) error {
	base := time.Now()
	rows := make([]tables.Product, 0, len(products))
	for i, p := range products {
		rows = append(rows, productToRow(p, base.Add(time.Duration(i)*time.Millisecond)))
	}
	err := database.Query[tables.Product](c.db).Timeout(c.timeout).InsertMany(ctx, rows)
	return lib.MapPgError(err)
}

func (c *Client) UpdateProduct(ctx context.Context, id string, columns map[string]any) error {
	n, err := database.Query[tables.Product](c.db).
		Where("id", id).
		Timeout(c.timeout).
		Update(ctx, columns)
	if err != nil {
		return lib.MapPgError(err)
	}
	if n == 0 {
		return fmt.Errorf("product %s: %w", id, lib.ErrNoConfirmation)
	}
	return nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	_, err := database.Query[tables.Product](c.db).Where("id", id).Timeout(c.timeout).Delete(ctx)
	return lib.MapPgError(err)
}

// Orders returns orders newest first.
func (c *Client) Orders(ctx context.Context) ([]structs.Order, error) {
	rows, err := database.Query[tables.Order](c.db).
		OrderBy("date", database.DESC).
		Timeout(c.timeout).
		All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	orders := make([]structs.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, orderFromRow(row))
	}
	return orders, nil
}

func (c *Client) InsertOrder(ctx context.Context, o structs.Order) error {
	row := orderToRow(o)
	_, err := database.Query[tables.Order](c.db).Timeout(c.timeout).Insert(ctx, &row)
	return lib.MapPgError(err)
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status structs.OrderStatus) error {
	_, err := database.Query[tables.Order](c.db).
		Where("id", id).
		Timeout(c.timeout).
		Update(ctx, map[string]any{"status": string(status)})
	return lib.MapPgError(err)
}

// Reviews returns reviews newest first.
func (c *Client) Reviews(ctx context.Context) ([]structs.Review, error) {
	rows, err := database.Query[tables.Review](c.db).
		OrderBy("created_at", database.DESC).
		Timeout(c.timeout).
		All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	reviews := make([]structs.Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, reviewFromRow(row))
	}
	return reviews, nil
}

func (c *Client) InsertReview(ctx context.Context, r structs.Review) error {
	row := &tables.Review{
		ID:        r.ID,
		Author:    r.Author,
		Rating:    r.Rating,
		Date:      r.Date,
		Text:      r.Text,
		CreatedAt: time.Now(),
	}
	_, err := database.Query[tables.Review](c.db).Timeout(c.timeout).Insert(ctx, row)
	return lib.MapPgError(err)
}

func (c *Client) DeleteReview(ctx context.Context, id string) error {
	_, err := database.Query[tables.Review](c.db).Where("id", id).Timeout(c.timeout).Delete(ctx)
	return lib.MapPgError(err)
}

func (c *Client) Pages(ctx context.Context) ([]structs.CustomPage, error) {
	rows, err := database.Query[tables.CustomPage](c.db).Timeout(c.timeout).All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	pages := make([]structs.CustomPage, 0, len(rows))
	for _, row := range rows {
		pages = append(pages, pageFromRow(row))
	}
	return pages, nil
}

func (c *Client) InsertPage(ctx context.Context, p structs.CustomPage) error {
	row := &tables.CustomPage{
		ID:        p.ID,
		Slug:      p.Slug,
		Title:     p.Title,
		Content:   p.Content,
		IsVisible: p.IsVisible,
	}
	_, err := database.Query[tables.CustomPage](c.db).Timeout(c.timeout).Insert(ctx, row)
	return lib.MapPgError(err)
}

func (c *Client) UpdatePage(ctx context.Context, id string, columns map[string]any) error {
	_, err := database.Query[tables.CustomPage](c.db).
		Where("id", id).
		Timeout(c.timeout).
		Update(ctx, columns)
	return lib.MapPgError(err)
}

func (c *Client) DeletePage(ctx context.Context, id string) error {
	_, err := database.Query[tables.CustomPage](c.db).Where("id", id).Timeout(c.timeout).Delete(ctx)
	return lib.MapPgError(err)
}
