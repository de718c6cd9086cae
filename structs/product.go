package structs

// DefaultCategory is assigned to products created without a category.
const DefaultCategory = "Разное"

type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       string   `json:"price"` // decimal as text, e.g. "1500"
	Image       string   `json:"image"`
	Category    string   `json:"category"`
	Description string   `json:"description,omitempty"`
	IsVisible   bool     `json:"isVisible"`
	Colors      []string `json:"colors"` // nil means the record predates colors
}

type ProductRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=200"`
	Price       string   `json:"price" validate:"required,price"`
	Image       string   `json:"image" validate:"omitempty,url"`
	Category    string   `json:"category" validate:"max=100"`
	Description string   `json:"description" validate:"max=5000"`
	IsVisible   *bool    `json:"isVisible"`
	Colors      []string `json:"colors" validate:"omitempty,dive,hexcolor"`
}

func (pr *ProductRequest) ToProduct() Product {
	visible := true
	if pr.IsVisible != nil {
		visible = *pr.IsVisible
	}
	return Product{
		Name:        pr.Name,
		Price:       pr.Price,
		Image:       pr.Image,
		Category:    pr.Category,
		Description: pr.Description,
		IsVisible:   visible,
		Colors:      pr.Colors,
	}
}

// ProductPatch carries a partial update; nil fields are left untouched.
type ProductPatch struct {
	Name        *string   `json:"name" validate:"omitempty,min=1,max=200"`
	Price       *string   `json:"price" validate:"omitempty,price"`
	Image       *string   `json:"image" validate:"omitempty,url"`
	Category    *string   `json:"category" validate:"omitempty,max=100"`
	Description *string   `json:"description" validate:"omitempty,max=5000"`
	IsVisible   *bool     `json:"isVisible"`
	Colors      *[]string `json:"colors" validate:"omitempty,dive,hexcolor"`
}

func (pp *ProductPatch) Apply(p Product) Product {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
	if pp.Image != nil {
		p.Image = *pp.Image
	}
	if pp.Category != nil {
		p.Category = *pp.Category
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.IsVisible != nil {
		p.IsVisible = *pp.IsVisible
	}
	if pp.Colors != nil {
		p.Colors = append([]string{}, (*pp.Colors)...)
	}
	return p
}

// Columns lists the remote columns touched by the patch.
func (pp *ProductPatch) Columns() map[string]any {
	cols := make(map[string]any)
	if pp.Name != nil {
		cols["name"] = *pp.Name
	}
	if pp.Price != nil {
		cols["price"] = *pp.Price
	}
	if pp.Image != nil {
		cols["image"] = *pp.Image
	}
	if pp.Category != nil {
		cols["category"] = *pp.Category
	}
	if pp.Description != nil {
		cols["description"] = *pp.Description
	}
	if pp.IsVisible != nil {
		cols["is_visible"] = *pp.IsVisible
	}
	if pp.Colors != nil {
		cols["colors"] = *pp.Colors
	}
	return cols
}
