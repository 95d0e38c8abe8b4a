package models

import "time"

// Menu product categories.
const (
	CategoryStarter = "starter"
	CategoryMain    = "main"
	CategoryDessert = "dessert"
	CategoryDrink   = "drink"
	CategoryAlcohol = "alcohol"
)

// IsValidProductCategory checks if the provided category string is known.
func IsValidProductCategory(category string) bool {
	switch category {
	case CategoryStarter, CategoryMain, CategoryDessert, CategoryDrink, CategoryAlcohol:
		return true
	default:
		return false
	}
}

// IsBeverageCategory reports whether a category requires no kitchen preparation.
func IsBeverageCategory(category string) bool {
	return category == CategoryDrink || category == CategoryAlcohol
}

// Product represents an item on the menu.
type Product struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" binding:"required"`
	Description *string   `json:"description,omitempty" db:"description"`
	Price       float64   `json:"price" db:"price" binding:"required,gt=0"`
	Category    string    `json:"category" db:"category" binding:"required"`
	Available   bool      `json:"available" db:"available"`
	Image       *string   `json:"image,omitempty" db:"image"`
	Ingredients *string   `json:"ingredients,omitempty" db:"ingredients"` // JSON descriptor, see services.ResolveIngredients
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
