package models

import "time"

// ProductImage and ProductVideo are structurally identical: the kind decides
// which table the row lands in and which subdirectory holds the file.
// Filename is the generated unique stored name; OriginalName is the sanitized
// name the uploader supplied.

type ProductImage struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProductID    uint      `gorm:"not null;index" json:"product_id"`
	Filename     string    `gorm:"not null" json:"filename"`
	OriginalName string    `gorm:"not null" json:"original_name"`
	UploadDate   time.Time `gorm:"column:upload_date;not null" json:"upload_date"`
}

type ProductVideo struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProductID    uint      `gorm:"not null;index" json:"product_id"`
	Filename     string    `gorm:"not null" json:"filename"`
	OriginalName string    `gorm:"not null" json:"original_name"`
	UploadDate   time.Time `gorm:"column:upload_date;not null" json:"upload_date"`
}
