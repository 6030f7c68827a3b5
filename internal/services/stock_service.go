package services

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goldstock/backend/internal/ledger"
	"github.com/goldstock/backend/internal/models"
	"github.com/shopspring/decimal"
)

// StockService records the daily shop sale ledger. Closing balances are
// derived by the ledger package; the service only validates input shape,
// persists committed batches and serves reads.
type StockService struct {
	db        *sql.DB
	validator *ValidationHelper
}

func NewStockService(db *sql.DB) *StockService {
	return &StockService{
		db:        db,
		validator: NewValidationHelper(),
	}
}

func saleRowFromRequest(row models.ShopSaleRow) ledger.SaleRow {
	return ledger.SaleRow{
		ShopID:    strconv.FormatInt(row.ShopID, 10),
		Opening18: decimal.NewFromFloat(*row.Opening18),
		Opening24: decimal.NewFromFloat(*row.Opening24),
		SaleQty:   decimal.NewFromFloat(*row.SaleQty),
		Rate:      decimal.NewFromFloat(*row.Rate),
	}
}

func saleEntryView(e ledger.SaleEntry) map[string]interface{} {
	shopID, _ := strconv.ParseInt(e.ShopID, 10, 64)
	return map[string]interface{}{
		"date":               e.Date.Format(models.DateFormat),
		"shop_id":            shopID,
		"opening_stock_18kt": e.Opening18,
		"opening_stock_24kt": e.Opening24,
		"sale_qty":           e.SaleQty,
		"conversion_rate":    e.Rate,
		"closing_stock_18kt": e.Closing18,
		"closing_stock_24kt": e.Closing24,
		"incomplete":         e.Incomplete,
	}
}

// AddShopStock commits a full day's batch of sale rows in one transaction
// @Summary Submit a day of shop sale entries
// @Tags shop-stock
// @Accept json
// @Produce json
// @Param batch body models.ShopSaleBatchRequest true "Batch of sale rows"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /shop-stock [post]
func (ss *StockService) AddShopStock(w http.ResponseWriter, r *http.Request) {
	var req models.ShopSaleBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := ss.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	day, err := time.Parse(models.DateFormat, req.Date)
	if err != nil {
		SendErrorResponse(w, "Invalid date", http.StatusBadRequest, nil)
		return
	}

	rows := make([]ledger.SaleRow, len(req.Rows))
	for i, row := range req.Rows {
		rows[i] = saleRowFromRequest(row)
	}

	entries, err := ledger.SubmitDay(day, rows)
	if err != nil {
		// Derived rows, when present, go back with the rejection so the
		// client can show what was computed before the batch failed.
		if len(entries) > 0 {
			views := make([]map[string]interface{}, len(entries))
			for i, e := range entries {
				views[i] = saleEntryView(e)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error":   err.Error(),
				"entries": views,
			})
			return
		}
		SendCoreError(w, err)
		return
	}

	tx, err := ss.db.Begin()
	if err != nil {
		log.Printf("[STOCK] Failed to begin transaction: %v", err)
		SendErrorResponse(w, "Failed to save entries", http.StatusInternalServerError, nil)
		return
	}
	defer tx.Rollback()

	saved := make([]models.ShopSaleEntry, 0, len(entries))
	for _, e := range entries {
		shopID, _ := strconv.ParseInt(e.ShopID, 10, 64)
		var m models.ShopSaleEntry
		err := tx.QueryRow(`
			INSERT INTO shop_stock_entries
				(date, shop_id, opening_stock_18kt, opening_stock_24kt, sale_qty, conversion_rate, closing_stock_18kt, closing_stock_24kt)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, date, shop_id, opening_stock_18kt, opening_stock_24kt, sale_qty, conversion_rate, closing_stock_18kt, closing_stock_24kt, is_deleted, created_at, updated_at`,
			e.Date, shopID, e.Opening18, e.Opening24, e.SaleQty, e.Rate, e.Closing18, e.Closing24,
		).Scan(&m.ID, &m.Date, &m.ShopID, &m.Opening18, &m.Opening24, &m.SaleQty,
			&m.Rate, &m.Closing18, &m.Closing24, &m.IsDeleted, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			log.Printf("[STOCK] Failed to insert sale entry for shop %d: %v", shopID, err)
			SendErrorResponse(w, "Failed to save entries", http.StatusInternalServerError, nil)
			return
		}
		saved = append(saved, m)
	}

	if err := tx.Commit(); err != nil {
		log.Printf("[STOCK] Failed to commit batch: %v", err)
		SendErrorResponse(w, "Failed to save entries", http.StatusInternalServerError, nil)
		return
	}

	log.Printf("[STOCK] Saved %d shop sale entries for %s", len(saved), req.Date)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Stock entries added successfully",
		"data":    saved,
	})
}

// GetShopStock lists committed sale entries, optionally for a single day
// @Summary List shop sale entries
// @Tags shop-stock
// @Produce json
// @Param date query string false "Filter by date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Router /shop-stock [get]
func (ss *StockService) GetShopStock(w http.ResponseWriter, r *http.Request) {
	query := `
		SELECT id, date, shop_id, opening_stock_18kt, opening_stock_24kt, sale_qty, conversion_rate, closing_stock_18kt, closing_stock_24kt, is_deleted, created_at, updated_at
		FROM shop_stock_entries
		WHERE is_deleted = FALSE`
	args := []interface{}{}

	if date := r.URL.Query().Get("date"); date != "" {
		day, err := time.Parse(models.DateFormat, date)
		if err != nil {
			SendErrorResponse(w, "Invalid date", http.StatusBadRequest, nil)
			return
		}
		query += " AND date = $1"
		args = append(args, day)
	}
	query += " ORDER BY date DESC, shop_id"

	rows, err := ss.db.Query(query, args...)
	if err != nil {
		log.Printf("[STOCK] Failed to query sale entries: %v", err)
		SendErrorResponse(w, "Failed to fetch entries", http.StatusInternalServerError, nil)
		return
	}
	defer rows.Close()

	entries := []models.ShopSaleEntry{}
	folded := make([]ledger.SaleEntry, 0)
	for rows.Next() {
		var m models.ShopSaleEntry
		if err := rows.Scan(&m.ID, &m.Date, &m.ShopID, &m.Opening18, &m.Opening24, &m.SaleQty,
			&m.Rate, &m.Closing18, &m.Closing24, &m.IsDeleted, &m.CreatedAt, &m.UpdatedAt); err != nil {
			log.Printf("[STOCK] Failed to scan sale entry: %v", err)
			SendErrorResponse(w, "Failed to fetch entries", http.StatusInternalServerError, nil)
			return
		}
		entries = append(entries, m)
		folded = append(folded, ledger.SaleEntry{
			Opening18: m.Opening18,
			SaleQty:   m.SaleQty,
			Closing18: m.Closing18,
		})
	}

	totals := ledger.ComputeTotals(folded)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data": entries,
		"totals": map[string]interface{}{
			"total_opening":  totals.TotalOpening,
			"total_sale_qty": totals.TotalSaleQty,
			"total_closing":  totals.TotalClosing,
		},
	})
}

// GetLastClosing returns the opening balances suggested for a shop's next
// entry, taken from its most recent committed row. The suggestion is not
// binding: the next submission may carry different opening values.
// @Summary Suggested opening balances for a shop's next entry
// @Tags shop-stock
// @Produce json
// @Param shop_id query int true "Shop ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /shop-stock/last-closing [get]
func (ss *StockService) GetLastClosing(w http.ResponseWriter, r *http.Request) {
	shopID, err := strconv.ParseInt(r.URL.Query().Get("shop_id"), 10, 64)
	if err != nil {
		SendErrorResponse(w, "Invalid shop_id", http.StatusBadRequest, nil)
		return
	}

	var prior ledger.SaleEntry
	err = ss.db.QueryRow(`
		SELECT date, closing_stock_18kt, closing_stock_24kt
		FROM shop_stock_entries
		WHERE shop_id = $1 AND is_deleted = FALSE
		ORDER BY date DESC, id DESC
		LIMIT 1`, shopID,
	).Scan(&prior.Date, &prior.Closing18, &prior.Closing24)
	if err == sql.ErrNoRows {
		SendErrorResponse(w, "No entries found for shop", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		log.Printf("[STOCK] Failed to query last closing for shop %d: %v", shopID, err)
		SendErrorResponse(w, "Failed to fetch last closing", http.StatusInternalServerError, nil)
		return
	}

	opening18, opening24 := ledger.NextOpeningBalance(prior)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"shop_id":            shopID,
		"date":               prior.Date.Format(models.DateFormat),
		"opening_stock_18kt": opening18,
		"opening_stock_24kt": opening24,
	})
}

// UpdateShopStock replaces a committed entry's figures and re-derives its
// closing balances. Later entries seeded from the old closings are not
// touched.
// @Summary Update a shop sale entry
// @Tags shop-stock
// @Accept json
// @Produce json
// @Param id path int true "Entry ID"
// @Param row body models.ShopSaleRow true "Replacement figures"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /shop-stock/{id} [put]
func (ss *StockService) UpdateShopStock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		SendErrorResponse(w, "Invalid entry id", http.StatusBadRequest, nil)
		return
	}

	var req models.ShopSaleRow
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := ss.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	var day time.Time
	err = ss.db.QueryRow(`
		SELECT date FROM shop_stock_entries WHERE id = $1 AND is_deleted = FALSE`, id,
	).Scan(&day)
	if err == sql.ErrNoRows {
		SendErrorResponse(w, "Entry not found", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		log.Printf("[STOCK] Failed to load entry %d: %v", id, err)
		SendErrorResponse(w, "Failed to update entry", http.StatusInternalServerError, nil)
		return
	}

	entry, err := ledger.DeriveRow(day, saleRowFromRequest(req))
	if err != nil {
		SendCoreError(w, err)
		return
	}
	if entry.Incomplete {
		SendCoreError(w, &ledger.ValidationError{
			Field:  "conversion_rate",
			Reason: "must be greater than zero to derive the 24kt closing stock",
		})
		return
	}

	var m models.ShopSaleEntry
	err = ss.db.QueryRow(`
		UPDATE shop_stock_entries
		SET shop_id = $1, opening_stock_18kt = $2, opening_stock_24kt = $3, sale_qty = $4,
			conversion_rate = $5, closing_stock_18kt = $6, closing_stock_24kt = $7, updated_at = now()
		WHERE id = $8 AND is_deleted = FALSE
		RETURNING id, date, shop_id, opening_stock_18kt, opening_stock_24kt, sale_qty, conversion_rate, closing_stock_18kt, closing_stock_24kt, is_deleted, created_at, updated_at`,
		req.ShopID, entry.Opening18, entry.Opening24, entry.SaleQty,
		entry.Rate, entry.Closing18, entry.Closing24, id,
	).Scan(&m.ID, &m.Date, &m.ShopID, &m.Opening18, &m.Opening24, &m.SaleQty,
		&m.Rate, &m.Closing18, &m.Closing24, &m.IsDeleted, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		log.Printf("[STOCK] Failed to update entry %d: %v", id, err)
		SendErrorResponse(w, "Failed to update entry", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Stock entry updated successfully",
		"data":    m,
	})
}

// DeleteShopStock soft-deletes a sale entry. Entries seeded from its
// closing balances stay as they are.
// @Summary Delete a shop sale entry
// @Tags shop-stock
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Router /shop-stock/{id} [delete]
func (ss *StockService) DeleteShopStock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		SendErrorResponse(w, "Invalid entry id", http.StatusBadRequest, nil)
		return
	}

	result, err := ss.db.Exec(`
		UPDATE shop_stock_entries SET is_deleted = TRUE, updated_at = now()
		WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		log.Printf("[STOCK] Failed to delete entry %d: %v", id, err)
		SendErrorResponse(w, "Failed to delete entry", http.StatusInternalServerError, nil)
		return
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		SendErrorResponse(w, "Entry not found", http.StatusNotFound, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Stock entry deleted successfully"})
}
