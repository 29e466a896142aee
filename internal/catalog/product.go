package catalog

import "time"

type Product struct {
	ID              string
	Name            string
	Description     string
	Price           float64
	DiscountPercent float64
	ImageURL        string
	CreatedAt       time.Time
}
