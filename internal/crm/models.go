package crm

import "time"

// Client is an advisor's client. Every client belongs to exactly one owning
// user; ownership never changes after creation.
type Client struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateClientInput holds the fields required to create a client.
type CreateClientInput struct {
	Name  string  `json:"name"`
	Phone *string `json:"phone,omitempty"`
}

// UpdateClientInput holds optional fields for a partial client update.
type UpdateClientInput struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
}
