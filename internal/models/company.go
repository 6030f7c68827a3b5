package models

import (
	"time"
)

// Company is a gold supplier. Companies are soft-deleted so historical
// ledger entries keep a valid reference.
type Company struct {
	ID             int64     `json:"id" db:"id"`
	CompanyName    string    `json:"company_name" db:"company_name"`
	CompanyAddress string    `json:"company_address" db:"company_address"`
	CompanyPhone   string    `json:"company_phone" db:"company_phone"`
	GSTNumber      string    `json:"gst_number,omitempty" db:"gst_number"`
	IsDeleted      bool      `json:"is_deleted" db:"is_deleted"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

type CompanyRequest struct {
	CompanyName    string `json:"company_name" validate:"required"`
	CompanyAddress string `json:"company_address" validate:"required"`
	CompanyPhone   string `json:"company_phone" validate:"required"`
	GSTNumber      string `json:"gst_number"`
}
