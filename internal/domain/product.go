package domain

import "time"

// Product is a catalog record. Storefront reads are immutable; the admin
// console may create, update and delete records, which are then persisted
// as the demo-data blob overriding the bundled fixture.
type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	SubCategory string   `json:"subCategory"`
	Price       float64  `json:"price"`
	OldPrice    float64  `json:"oldPrice"`
	Discount    int      `json:"discount"` // percent off oldPrice
	Rating      float64  `json:"rating"`
	Stock       int      `json:"stock"`
	Images      []string `json:"images"`
	Description string   `json:"description"`
	Reviews     []Review `json:"reviews,omitempty"`
}

// Review statuses used by the admin moderation surface.
const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

type Review struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"productId"`
	UserName  string    `json:"userName"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Brand struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
