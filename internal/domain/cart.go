package domain

// LineItem is one product (and optional color variant) held in a cart.
type LineItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    int64   `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
	Color    *string `json:"color,omitempty"`
}

// SameKey reports whether both items share the (id, color) composite key.
// An absent color only matches another absent color.
func (l LineItem) SameKey(other LineItem) bool {
	if l.ID != other.ID {
		return false
	}
	switch {
	case l.Color == nil && other.Color == nil:
		return true
	case l.Color == nil || other.Color == nil:
		return false
	default:
		return *l.Color == *other.Color
	}
}

// Subtotal is price times quantity.
func (l LineItem) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}
