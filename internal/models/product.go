package models

import "time"

// StatusDefault is the state a product enters the catalog in.
const StatusDefault = "In Valutazione"

// Product is a catalogued furniture/equipment item.
// CreatedDate and UpdatedDate are stamped by the repository, never by the
// driver: CreatedDate is immutable after insert.
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Category    string    `gorm:"not null" json:"category"`
	Supplier    string    `gorm:"not null" json:"supplier"`
	Price       float64   `gorm:"not null" json:"price"`
	Currency    string    `gorm:"not null;default:'EUR'" json:"currency"`
	Dimensions  string    `json:"dimensions"`
	Weight      *float64  `json:"weight"`
	WeightUnit  string    `gorm:"default:'kg'" json:"weight_unit"`
	Color       string    `json:"color"`
	Material    string    `json:"material"`
	Description string    `json:"description"`
	Notes       string    `json:"notes"`
	Status      string    `gorm:"default:'In Valutazione'" json:"status"`
	CreatedDate time.Time `gorm:"column:created_date;not null" json:"created_date"`
	UpdatedDate time.Time `gorm:"column:updated_date;not null;index" json:"updated_date"`
}

// ProductWithCounts annotates a product with the number of attached media
// files, computed per query rather than stored.
type ProductWithCounts struct {
	Product
	ImageCount int64 `gorm:"column:image_count" json:"image_count"`
	VideoCount int64 `gorm:"column:video_count" json:"video_count"`
}
