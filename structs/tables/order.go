package tables

import (
	"sinemagic_server/structs"
	"time"
)

type Order struct {
	tableName     struct{}            `bun:"table:orders,alias:o"`
	ID            string              `bun:"id,pk,type:uuid" json:"id"`
	CustomerName  string              `bun:"customer_name,notnull" json:"customer_name"`
	CustomerPhone string              `bun:"customer_phone,notnull" json:"customer_phone"`
	Address       string              `bun:"address,notnull" json:"address"`
	Comment       string              `bun:"comment,nullzero" json:"comment,omitempty"`
	Items         []structs.OrderItem `bun:"items,type:jsonb,notnull" json:"items"`
	Total         float64             `bun:"total,notnull" json:"total"`
	Status        string              `bun:"status,notnull,default:'new'" json:"status"`
	Date          time.Time           `bun:"date,notnull,default:now()" json:"date"`
}
