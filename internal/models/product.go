package models

// Product is one entry of the carta. The menu is seeded externally and is
// read-only from this service's perspective; open orders keep their own
// snapshot of the product, so later menu edits never touch them.
type Product struct {
	ID       int     `json:"id" db:"id"`
	Name     string  `json:"name" db:"name"`
	Category string  `json:"category" db:"category"`
	Price    float64 `json:"price" db:"price"`
	Image    string  `json:"image" db:"image"`
}
