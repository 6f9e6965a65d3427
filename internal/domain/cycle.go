package domain

import "time"

// Cycle is a rentable asset listed by its owner.
type Cycle struct {
	ID           int64     `json:"id"`
	Owner        string    `json:"owner"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"image_url"`
	PricePerHour int64     `json:"price_per_hour"`
	IsAvailable  bool      `json:"is_available"`
	IsActive     bool      `json:"is_active"` // false once the owner removes the listing
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CanBeRented reports whether a new rental may be opened against the cycle.
func (c *Cycle) CanBeRented() bool {
	return c.IsActive && c.IsAvailable
}
