package remote

import (
	"sinemagic_server/lib"
	"sinemagic_server/structs"
	"sinemagic_server/structs/tables"
	"time"
)

func productFromRow(row tables.Product) structs.Product {
	colors := row.Colors
	if colors == nil {
		colors = []string{}
	}
	return structs.Product{
		ID:          row.ID,
		Name:        row.Name,
		Price:       row.Price,
		Image:       row.Image,
		Category:    row.Category,
		Description: row.Description,
		IsVisible:   row.IsVisible,
		Colors:      colors,
	}
}

func productToRow(p structs.Product, createdAt time.Time) tables.Product {
	colors := p.Colors
	if colors == nil {
		colors = []string{}
	}
	return tables.Product{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Image:       p.Image,
		Category:    p.Category,
		Description: p.Description,
		IsVisible:   p.IsVisible,
		Colors:      colors,
		CreatedAt:   createdAt,
	}
}

func orderFromRow(row tables.Order) structs.Order {
	items := row.Items
	if items == nil {
		items = []structs.OrderItem{}
	}
	return structs.Order{
		ID:            row.ID,
		CustomerName:  row.CustomerName,
		CustomerPhone: row.CustomerPhone,
		Address:       row.Address,
		Comment:       row.Comment,
		Items:         items,
		Total:         row.Total,
		Status:        structs.OrderStatus(row.Status),
		Date:          lib.FormatTimestamp(row.Date),
	}
}

func orderToRow(o structs.Order) tables.Order {
	date, err := time.Parse(time.RFC3339, o.Date)
	if err != nil {
		date = time.Now()
	}
	return tables.Order{
		ID:            o.ID,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		Address:       o.Address,
		Comment:       o.Comment,
		Items:         o.Items,
		Total:         o.Total,
		Status:        string(o.Status),
		Date:          date,
	}
}

func reviewFromRow(row tables.Review) structs.Review {
	return structs.Review{
		ID:     row.ID,
		Author: row.Author,
		Rating: row.Rating,
		Date:   row.Date,
		Text:   row.Text,
	}
}

func pageFromRow(row tables.CustomPage) structs.CustomPage {
	return structs.CustomPage{
		ID:        row.ID,
		Slug:      row.Slug,
		Title:     row.Title,
		Content:   row.Content,
		IsVisible: row.IsVisible,
	}
}

func profileFromRow(row tables.Profile) structs.Profile {
	return structs.Profile{
		ID:        row.ID.String(),
		Username:  row.Username,
		FullName:  row.FullName,
		AvatarURL: row.AvatarURL,
		Website:   row.Website,
		Role:      structs.Role(row.Role),
	}
}
