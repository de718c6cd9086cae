package tables

import (
	"time"
)

type Product struct {
	tableName   struct{}  `bun:"table:products,alias:p"`
	ID          string    `bun:"id,pk,type:uuid" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Price       string    `bun:"price,notnull" json:"price"`
	Image       string    `bun:"image" json:"image"`
	Category    string    `bun:"category" json:"category"`
	Description string    `bun:"description,nullzero" json:"description,omitempty"`
	IsVisible   bool      `bun:"is_visible,notnull" json:"is_visible"`
	Colors      []string  `bun:"colors,array" json:"colors"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:now()" json:"created_at"`
}
