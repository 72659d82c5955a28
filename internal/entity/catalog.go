package domain

import "time"

type Product struct {
	ID          string
	Name        string
	Description string
	PriceCents  int64
	Category    string
	ImageURL    string
	CreatedAt   time.Time
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AddOn is an optional extra a customer can attach to a product
// (e.g. extra cheese). Price is added per cart line, not per unit sold
// of the add-on itself.
type AddOn struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}
