package domain

import "time"

// CartItem is one line of a pre-checkout cart. Price is captured when the line
// is added; later catalog price changes do not alter it.
type CartItem struct {
	ID                  string         `bson:"id" json:"id"`
	MenuItemID          string         `bson:"menu_item_id" json:"menu_item_id"`
	Quantity            int            `bson:"quantity" json:"quantity"`
	Price               float64        `bson:"price" json:"price"`
	Customizations      Customizations `bson:"customizations,omitempty" json:"customizations,omitempty"`
	SpecialInstructions string         `bson:"special_instructions,omitempty" json:"special_instructions,omitempty"`
	AddedAt             time.Time      `bson:"added_at" json:"added_at"`
	UpdatedAt           time.Time      `bson:"updated_at" json:"updated_at"`
}

// OrderSummary is a derived view over one or two carts; it is never persisted.
type OrderSummary struct {
	PersonalItems    []CartItem `json:"personal_items"`
	GroupItems       []CartItem `json:"group_items"`
	PersonalTotal    float64    `json:"personal_total"`
	GroupTotal       float64    `json:"group_total"`
	Subtotal         float64    `json:"subtotal"`
	Tax              float64    `json:"tax"`
	Total            float64    `json:"total"`
	AppliedDiscounts []string   `json:"applied_discounts,omitempty"`
}
