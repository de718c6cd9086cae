package tables

import "time"

type Translation struct {
	tableName struct{} `bun:"table:translations,alias:t"`
	Key       string   `bun:"key,pk" json:"key"`
	Lang      string   `bun:"lang,pk" json:"lang"`
	Value     string   `bun:"value,notnull" json:"value"`
}

type Section struct {
	tableName struct{} `bun:"table:sections,alias:s"`
	ID        string   `bun:"id,pk" json:"id"`
	IsVisible bool     `bun:"is_visible,notnull" json:"is_visible"`
}

type Review struct {
	tableName struct{}  `bun:"table:reviews,alias:r"`
	ID        string    `bun:"id,pk" json:"id"`
	Author    string    `bun:"author,notnull" json:"author"`
	Rating    int       `bun:"rating,notnull" json:"rating"`
	Date      string    `bun:"date,notnull" json:"date"`
	Text      string    `bun:"text,notnull" json:"text"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:now()" json:"created_at"`
}

type CustomPage struct {
	tableName struct{} `bun:"table:custom_pages,alias:cp"`
	ID        string   `bun:"id,pk" json:"id"`
	Slug      string   `bun:"slug,unique,notnull" json:"slug"`
	Title     string   `bun:"title,notnull" json:"title"`
	Content   string   `bun:"content" json:"content"`
	IsVisible bool     `bun:"is_visible,notnull" json:"is_visible"`
}
