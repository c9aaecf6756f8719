package catalog

import "time"

type Category string

const (
	CategoryFood    Category = "Makanan"
	CategoryDrink   Category = "Minuman"
	CategorySnack   Category = "Cemilan"
	CategoryDessert Category = "Penutup"

	// CategoryUnknown marks line items reconstructed from history, where the
	// category was never persisted.
	CategoryUnknown Category = "Unknown"
)

func Categories() []Category {
	return []Category{CategoryFood, CategoryDrink, CategorySnack, CategoryDessert}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryDrink, CategorySnack, CategoryDessert:
		return true
	}
	return false
}

type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Category  Category  `json:"category"`
	Image     string    `json:"image"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// ProductUpdate carries the optional fields of a partial update. Nil means
// "leave unchanged".
type ProductUpdate struct {
	Name     *string   `json:"name,omitempty"`
	Price    *float64  `json:"price,omitempty"`
	Category *Category `json:"category,omitempty"`
	Image    *string   `json:"image,omitempty"`
	Stock    *int      `json:"stock,omitempty"`
}
