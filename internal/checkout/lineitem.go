package checkout

import (
	"github.com/WasepSKT/commerce-web-sub003/internal/cart"
	"github.com/WasepSKT/commerce-web-sub003/internal/catalog"
	"github.com/WasepSKT/commerce-web-sub003/internal/pricing"
)

// PlaceholderName is shown for cart entries whose product no longer
// exists in the catalog. A stale id must never abort cart rendering,
// the line degrades to a zero-priced placeholder instead.
const PlaceholderName = "Product unavailable"

type LineItem struct {
	ProductID       string `json:"product_id"`
	Name            string `json:"name"`
	Quantity        int    `json:"quantity"`
	OriginalPrice   int64  `json:"original_price"`
	UnitPrice       int64  `json:"unit_price"`
	DiscountPercent int64  `json:"discount_percent"`
	LineTotal       int64  `json:"line_total"`
}

// BuildLineItems joins cart entries with catalog products, preserving
// cart order. Products missing from the map become placeholders.
// Pure: the same cart and catalog snapshot always yield the same lines.
func BuildLineItems(items []cart.CartItem, products map[string]*catalog.Product) []LineItem {
	lines := make([]LineItem, 0, len(items))
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			lines = append(lines, LineItem{
				ProductID: item.ProductID,
				Name:      PlaceholderName,
				Quantity:  item.Quantity,
			})
			continue
		}

		price := pricing.Compute(pricing.Input{
			Price:           product.Price,
			DiscountPercent: &product.DiscountPercent,
		})

		lines = append(lines, LineItem{
			ProductID:       item.ProductID,
			Name:            product.Name,
			Quantity:        item.Quantity,
			OriginalPrice:   price.Original,
			UnitPrice:       price.Discounted,
			DiscountPercent: price.DiscountPercent,
			LineTotal:       price.Discounted * int64(item.Quantity),
		})
	}
	return lines
}

// Subtotal sums the discounted line totals.
func Subtotal(lines []LineItem) int64 {
	var total int64
	for _, line := range lines {
		total += line.LineTotal
	}
	return total
}
