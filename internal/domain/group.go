package domain

import "time"

// GroupOrder is a shared, table-scoped cart that multiple diners contribute to
// and later individually check out against. Created by the first diner who
// scans the table's QR code; others join with the short-lived join code.
type GroupOrder struct {
	ID          string    `json:"id"`
	MainOrderID string    `json:"main_order_id"`
	JoinCode    string    `json:"join_code"`
	TableID     string    `json:"table_id"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (g GroupOrder) Expired(now time.Time) bool {
	return now.After(g.ExpiresAt)
}

type TableStatus string

const (
	TableStatusAvailable TableStatus = "available"
	TableStatusOccupied  TableStatus = "occupied"
	TableStatusReserved  TableStatus = "reserved"
	TableStatusCleaning  TableStatus = "cleaning"
)

type TableSeating struct {
	ID       string      `json:"id"`
	Number   int         `json:"number"`
	Capacity int         `json:"capacity"`
	Status   TableStatus `json:"status"`
	Section  string      `json:"section,omitempty"`
	QRCode   string      `json:"qr_code,omitempty"`
	IsActive bool        `json:"is_active"`
}

// TimeSlot is a takeaway pickup slot. Time is the wall-clock label in HH:MM.
type TimeSlot struct {
	ID          string `json:"id"`
	Time        string `json:"time"`
	IsAvailable bool   `json:"is_available"`
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserPreferences holds the dietary profile used to filter menu views.
type UserPreferences struct {
	Allergens []string `json:"allergens,omitempty"`
	Dietary   []string `json:"dietary,omitempty"`
}

type Review struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	MenuItemID string    `json:"menu_item_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type ReviewStats struct {
	Count         int     `json:"count"`
	AverageRating float64 `json:"average_rating"`
}
