package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the calendar-day format used on every entry date.
const DateFormat = "2006-01-02"

// ShopSaleEntry is a committed row of the shop sale ledger. The closing
// balances are derived, never user-supplied.
type ShopSaleEntry struct {
	ID        int64           `json:"id" db:"id"`
	Date      time.Time       `json:"date" db:"date"`
	ShopID    int64           `json:"shop_id" db:"shop_id"`
	Opening18 decimal.Decimal `json:"opening_stock_18kt" db:"opening_stock_18kt"`
	Opening24 decimal.Decimal `json:"opening_stock_24kt" db:"opening_stock_24kt"`
	SaleQty   decimal.Decimal `json:"sale_qty" db:"sale_qty"`
	Rate      decimal.Decimal `json:"conversion_rate" db:"conversion_rate"`
	Closing18 decimal.Decimal `json:"closing_stock_18kt" db:"closing_stock_18kt"`
	Closing24 decimal.Decimal `json:"closing_stock_24kt" db:"closing_stock_24kt"`
	IsDeleted bool            `json:"is_deleted" db:"is_deleted"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// ShopSaleRow is one user-entered row of a day's batch submission.
// Numeric fields are pointers so required-field validation can tell a
// missing value from an explicit zero.
type ShopSaleRow struct {
	ShopID    int64    `json:"shop_id" validate:"required"`
	Opening18 *float64 `json:"opening_stock_18kt" validate:"required,gte=0"`
	Opening24 *float64 `json:"opening_stock_24kt" validate:"required,gte=0"`
	SaleQty   *float64 `json:"sale_qty" validate:"required,gte=0"`
	Rate      *float64 `json:"conversion_rate" validate:"required,gte=0"`
}

type ShopSaleBatchRequest struct {
	Date string        `json:"date" validate:"required,datetime=2006-01-02"`
	Rows []ShopSaleRow `json:"rows" validate:"required,min=1,dive"`
}

// CompanyStockEntry is a supply (add-stock) record. Gold24 is derived by
// multiplying Gold18 by the conversion rate. Status tracks the approval
// workflow.
type CompanyStockEntry struct {
	ID          int64           `json:"id" db:"id"`
	CompanyID   int64           `json:"company_id" db:"company_id"`
	CompanyName string          `json:"company_name,omitempty" db:"company_name"`
	Date        time.Time       `json:"date" db:"date"`
	Gold18      decimal.Decimal `json:"gold_18kt" db:"gold_18kt"`
	Gold24      decimal.Decimal `json:"gold_24kt" db:"gold_24kt"`
	Rate        decimal.Decimal `json:"conversion_rate" db:"conversion_rate"`
	Status      string          `json:"status" db:"status"`
	IsCleared   bool            `json:"is_cleared" db:"is_cleared"`
	IsDeleted   bool            `json:"is_deleted" db:"is_deleted"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

type CompanyStockRequest struct {
	CompanyID int64    `json:"company_id" validate:"required"`
	Date      string   `json:"date" validate:"required,datetime=2006-01-02"`
	Gold18    *float64 `json:"gold_18kt" validate:"required,gte=0"`
	Rate      *float64 `json:"conversion_rate" validate:"required,gt=0"`
}

// CompanySaleEntry is a return (sale-stock) record. Gold18 is derived by
// dividing Gold24 by the conversion rate -- the inverse direction of
// CompanyStockEntry.
type CompanySaleEntry struct {
	ID          int64           `json:"id" db:"id"`
	CompanyID   int64           `json:"company_id" db:"company_id"`
	CompanyName string          `json:"company_name,omitempty" db:"company_name"`
	Date        time.Time       `json:"date" db:"date"`
	Gold24      decimal.Decimal `json:"gold_24kt" db:"gold_24kt"`
	Gold18      decimal.Decimal `json:"gold_18kt" db:"gold_18kt"`
	Rate        decimal.Decimal `json:"conversion_rate" db:"conversion_rate"`
	IsCleared   bool            `json:"is_cleared" db:"is_cleared"`
	IsDeleted   bool            `json:"is_deleted" db:"is_deleted"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

type CompanySaleRequest struct {
	CompanyID int64    `json:"company_id" validate:"required"`
	Date      string   `json:"date" validate:"required,datetime=2006-01-02"`
	Gold24    *float64 `json:"gold_24kt" validate:"required,gte=0"`
	Rate      *float64 `json:"conversion_rate" validate:"required,gt=0"`
}

// HomeStockEntry is the consolidated record written when a supply entry is
// approved: a copy of the source figures linked back through
// SourceEntryID, never a live reference.
type HomeStockEntry struct {
	ID            int64           `json:"id" db:"id"`
	SourceEntryID int64           `json:"source_entry_id" db:"source_entry_id"`
	Date          time.Time       `json:"date" db:"date"`
	Gold24        decimal.Decimal `json:"gold_24kt" db:"gold_24kt"`
	Rate          decimal.Decimal `json:"conversion_rate" db:"conversion_rate"`
	Gold18        decimal.Decimal `json:"gold_18kt" db:"gold_18kt"`
	IsApproved    bool            `json:"is_approved" db:"is_approved"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}
