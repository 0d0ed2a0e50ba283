package domain

import "time"

// Studio is shared reference data. Names are globally unique and mutation is
// restricted to admins.
type Studio struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
