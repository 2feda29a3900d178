package models

import "strings"

// Category is the menu section an item is listed under
type Category string

const (
	CategoryCake   Category = "Cake"
	CategoryNonVeg Category = "Non-Veg"
	CategoryVeg    Category = "Veg"
)

// Categories is every category the catalog accepts.
var Categories = []Category{CategoryCake, CategoryNonVeg, CategoryVeg}

// AdminFormCategories is what the admin creation form offers. Veg items are
// accepted by the catalog but the form does not list them.
var AdminFormCategories = []Category{CategoryCake, CategoryNonVeg}

// Valid reports whether c is an accepted catalog category
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// MenuItem represents an orderable item in the catalog
type MenuItem struct {
	ID       string   `json:"_id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Price    float64  `json:"price"`
	Tags     []string `json:"tags"`
	ImageURL string   `json:"imageUrl"`
}

// ParseTags splits a comma separated tag string and trims every entry.
// An empty string yields an empty, non-nil slice.
func ParseTags(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		tags = append(tags, strings.TrimSpace(p))
	}
	return tags
}
