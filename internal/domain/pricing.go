package domain

// TaxRate is the flat rate applied to takeaway order subtotals.
const TaxRate = 0.10

// ItemPrice returns the unit price of a cart line: the item's base price plus
// the surcharge of every selected option across all option groups. Option or
// group ids that do not exist on the item contribute nothing.
func ItemPrice(item MenuItem, customizations Customizations) float64 {
	total := item.Price
	for _, group := range item.CustomizationOptions {
		for _, selected := range customizations[group.ID] {
			for _, opt := range group.Options {
				if opt.ID == selected {
					total += opt.Price
					break
				}
			}
		}
	}
	return total
}

type OrderTotals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Totals sums price*quantity over the items and applies the flat tax rate.
func Totals(items []CartItem) OrderTotals {
	subtotal := Sum(items)
	tax := subtotal * TaxRate
	return OrderTotals{Subtotal: subtotal, Tax: tax, Total: subtotal + tax}
}

// Sum is the plain item total without tax, used for per-diner shares of a
// group order.
func Sum(items []CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
