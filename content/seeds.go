package content

import "sinemagic_server/structs"

// seedIDMaxLen is the length below which an id is a seed placeholder and
// is replaced with a UUID before the first remote seed.
const seedIDMaxLen = 10

func defaultProducts() []structs.Product {
	return []structs.Product{
		{ID: "1", Name: "Интерактивная игрушка", Price: "1500", Category: "Игрушки", IsVisible: true, Colors: []string{"#FF0000", "#00FF00", "#0000FF"}},
		{ID: "2", Name: "Уютный домик", Price: "3500", Category: "Домики", IsVisible: true, Colors: []string{"#8B4513", "#D2691E"}},
		{ID: "3", Name: "Когтеточка-столбик", Price: "2000", Category: "Аксессуары", IsVisible: true, Colors: []string{}},
		{ID: "4", Name: "Миска керамическая", Price: "800", Category: "Посуда", IsVisible: true, Colors: []string{}},
		{ID: "5", Name: "Ошейник с GPS", Price: "5000", Category: "Аксессуары", IsVisible: true, Colors: []string{}},
		{ID: "6", Name: "Мягкая лежанка", Price: "2500", Category: "Мебель", IsVisible: true, Colors: []string{}},
		{ID: "7", Name: "Лазерная указка", Price: "500", Category: "Игрушки", IsVisible: true, Colors: []string{}},
		{ID: "8", Name: "Переноска-рюкзак", Price: "4500", Category: "Аксессуары", IsVisible: true, Colors: []string{}},
		{ID: "9", Name: "Набор витаминов", Price: "1200", Category: "Здоровье", IsVisible: true, Colors: []string{}},
	}
}

func mockReviews() []structs.Review {
	return []structs.Review{
		{ID: "1", Author: "Алексей К.", Rating: 5, Date: "15.10.2023", Text: "Отличный товар! Качество на высоте, коту очень понравилось."},
		{ID: "2", Author: "Мария С.", Rating: 4, Date: "20.10.2023", Text: "Всё супер, доставка быстрая. Единственное - цвет немного отличается от фото."},
		{ID: "3", Author: "Дмитрий В.", Rating: 5, Date: "05.11.2023", Text: "Беру уже второй раз. Рекомендую!"},
	}
}

// needsLegacyMerge reports whether a stored catalog holds products saved
// before colors existed.
func needsLegacyMerge(stored []structs.Product) bool {
	for _, p := range stored {
		if p.Colors == nil {
			return true
		}
	}
	return false
}

// mergeWithDefaults rebuilds the catalog from the default set, overlaying
// the stored fields of products sharing an id. Colors always come from
// the defaults.
func mergeWithDefaults(stored []structs.Product) []structs.Product {
	byID := make(map[string]structs.Product, len(stored))
	for _, p := range stored {
		byID[p.ID] = p
	}

	merged := defaultProducts()
	for i, def := range merged {
		existing, ok := byID[def.ID]
		if !ok {
			continue
		}
		existing.Colors = def.Colors
		if existing.Category == "" {
			existing.Category = def.Category
		}
		if existing.Name == "" {
			existing.Name = def.Name
		}
		if existing.Price == "" {
			existing.Price = def.Price
		}
		merged[i] = existing
	}
	return merged
}
