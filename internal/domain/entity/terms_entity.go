package entity

import "time"

// Terms is an append-only terms-of-service document.
// Version is assigned by storage and strictly increases with every new document.
type Terms struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
