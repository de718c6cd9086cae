package handling

import (
	"net/http"
	"sinemagic_server/lib"
	"sinemagic_server/structs"
	"sort"
	"strconv"
	"strings"
)

// ProductListOptions filters and orders the public catalogue.
type ProductListOptions struct {
	Category      string
	SearchTerm    string
	Color         string
	MinPrice      *float64
	MaxPrice      *float64
	SortBy        string // name, price
	SortDirection string // ASC, DESC
}

// ParseProductListOptions parses HTTP query parameters into ProductListOptions
func ParseProductListOptions(r *http.Request) (*ProductListOptions, error) {
	query := r.URL.Query()

	if len(query) == 0 {
		return &ProductListOptions{}, nil
	}

	opts := &ProductListOptions{
		Category:   strings.TrimSpace(query.Get("category")),
		SearchTerm: strings.ToLower(strings.TrimSpace(query.Get("search"))),
		Color:      strings.ToLower(strings.TrimSpace(query.Get("color"))),
		SortBy:     query.Get("sort_by"),
	}

	if minPrice := query.Get("min_price"); minPrice != "" {
		v, err := strconv.ParseFloat(minPrice, 64)
		if err != nil {
			return nil, err
		}
		opts.MinPrice = &v
	}

	if maxPrice := query.Get("max_price"); maxPrice != "" {
		v, err := strconv.ParseFloat(maxPrice, 64)
		if err != nil {
			return nil, err
		}
		opts.MaxPrice = &v
	}

	switch opts.SortBy {
	case "", "name", "price":
	default:
		return nil, &lib.ValidationError{Errors: []lib.FieldError{{Field: "sort_by", Message: "must be one of: name price"}}}
	}

	if sortDirection := query.Get("sort_direction"); sortDirection != "" {
		opts.SortDirection = strings.ToUpper(sortDirection)
	}

	return opts, nil
}

func (o *ProductListOptions) matches(p structs.Product) bool {
	if o.Category != "" && !strings.EqualFold(p.Category, o.Category) {
		return false
	}
	if o.SearchTerm != "" &&
		!strings.Contains(strings.ToLower(p.Name), o.SearchTerm) &&
		!strings.Contains(strings.ToLower(p.Description), o.SearchTerm) {
		return false
	}
	if o.Color != "" && !containsFold(p.Colors, o.Color) {
		return false
	}
	if o.MinPrice != nil || o.MaxPrice != nil {
		price, err := lib.ParsePrice(p.Price)
		if err != nil {
			return false
		}
		if o.MinPrice != nil && price < *o.MinPrice {
			return false
		}
		if o.MaxPrice != nil && price > *o.MaxPrice {
			return false
		}
	}
	return true
}

// Apply returns the matching products in the requested order. Without
// sort_by the store order is kept.
func (o *ProductListOptions) Apply(products []structs.Product) []structs.Product {
	out := make([]structs.Product, 0, len(products))
	for _, p := range products {
		if o.matches(p) {
			out = append(out, p)
		}
	}

	desc := o.SortDirection == "DESC"
	switch o.SortBy {
	case "name":
		sort.SliceStable(out, func(i, j int) bool {
			if desc {
				return out[i].Name > out[j].Name
			}
			return out[i].Name < out[j].Name
		})
	case "price":
		// unparsable prices sort as 0
		price := func(p structs.Product) float64 {
			v, _ := lib.ParsePrice(p.Price)
			return v
		}
		sort.SliceStable(out, func(i, j int) bool {
			if desc {
				return price(out[i]) > price(out[j])
			}
			return price(out[i]) < price(out[j])
		})
	}
	return out
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
