package entities

// SearchResult - строка объединённого поиска по блогам, статьям и активностям.
type SearchResult struct {
	Type        Kind    `json:"type"`
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}
