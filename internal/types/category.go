package types

// Category is a spending category. Seeded defaults use lowercase ids like
// "dining"; user-added categories get uuid ids.
type Category struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Icon      *string `json:"icon,omitempty"`
	Color     *string `json:"color,omitempty"`
	IsDefault bool    `json:"is_default"`
	CreatedAt string  `json:"created_at"`
}
