package models

import (
	"time"
)

// Shop is a retail outlet selling stock down. Soft-deleted like Company.
type Shop struct {
	ID            int64     `json:"id" db:"id"`
	ShopName      string    `json:"shop_name" db:"shop_name"`
	ContactNumber string    `json:"contact_number,omitempty" db:"contact_number"`
	Address       string    `json:"address,omitempty" db:"address"`
	IsDeleted     bool      `json:"is_deleted" db:"is_deleted"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

type ShopRequest struct {
	ShopName      string `json:"shop_name" validate:"required"`
	ContactNumber string `json:"contact_number"`
	Address       string `json:"address"`
}
