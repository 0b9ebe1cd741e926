package domain

// CartLine is a product snapshot plus a quantity. A cart holds at most one
// line per product id; adding the same product again increments the
// quantity instead of duplicating the line.
type CartLine struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Brand     string  `json:"brand"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

// WishlistEntry is a product snapshot, unique by product id within one
// user's wishlist.
type WishlistEntry struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Brand     string  `json:"brand"`
	Price     float64 `json:"price"`
	OldPrice  float64 `json:"oldPrice"`
	Image     string  `json:"image"`
	Rating    float64 `json:"rating"`
}

// LineFromProduct snapshots a product into a cart line with quantity 1.
func LineFromProduct(p Product) CartLine {
	return CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Brand:     p.Brand,
		Price:     p.Price,
		Image:     firstImage(p),
		Quantity:  1,
	}
}

// EntryFromProduct snapshots a product into a wishlist entry.
func EntryFromProduct(p Product) WishlistEntry {
	return WishlistEntry{
		ProductID: p.ID,
		Name:      p.Name,
		Brand:     p.Brand,
		Price:     p.Price,
		OldPrice:  p.OldPrice,
		Image:     firstImage(p),
		Rating:    p.Rating,
	}
}

func firstImage(p Product) string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}
