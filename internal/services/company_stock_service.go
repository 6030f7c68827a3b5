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

// CompanyStockService records gold supplied by companies and runs the
// approval workflow. Approving an entry copies its figures into home stock
// inside the same transaction as the status change.
type CompanyStockService struct {
	db        *sql.DB
	validator *ValidationHelper
}

func NewCompanyStockService(db *sql.DB) *CompanyStockService {
	return &CompanyStockService{
		db:        db,
		validator: NewValidationHelper(),
	}
}

// AddCompanyStock records a supply entry
// @Summary Add a company supply entry
// @Tags company-stock
// @Accept json
// @Produce json
// @Param entry body models.CompanyStockRequest true "Supply data"
// @Success 201 {object} models.CompanyStockEntry
// @Failure 400 {object} ErrorResponse
// @Router /company-stock [post]
func (cs *CompanyStockService) AddCompanyStock(w http.ResponseWriter, r *http.Request) {
	var req models.CompanyStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := cs.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	day, err := time.Parse(models.DateFormat, req.Date)
	if err != nil {
		SendErrorResponse(w, "Invalid date", http.StatusBadRequest, nil)
		return
	}

	var exists bool
	err = cs.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM companies WHERE id = $1 AND is_deleted = FALSE)`,
		req.CompanyID).Scan(&exists)
	if err != nil {
		log.Printf("[COMPANY_STOCK] Failed to check company %d: %v", req.CompanyID, err)
		SendErrorResponse(w, "Failed to add entry", http.StatusInternalServerError, nil)
		return
	}
	if !exists {
		SendErrorResponse(w, "Company not found", http.StatusNotFound, nil)
		return
	}

	entry, err := ledger.RecordSupply(ledger.SupplyInput{
		CompanyID: strconv.FormatInt(req.CompanyID, 10),
		Date:      day,
		Gold18:    decimal.NewFromFloat(*req.Gold18),
		Rate:      decimal.NewFromFloat(*req.Rate),
	})
	if err != nil {
		SendCoreError(w, err)
		return
	}

	var m models.CompanyStockEntry
	err = cs.db.QueryRow(`
		INSERT INTO company_stock_entries (company_id, date, gold_18kt, gold_24kt, conversion_rate, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, company_id, date, gold_18kt, gold_24kt, conversion_rate, status, is_cleared, is_deleted, created_at, updated_at`,
		req.CompanyID, entry.Date, entry.Gold18, entry.Gold24, entry.Rate, ledger.StatusPending,
	).Scan(&m.ID, &m.CompanyID, &m.Date, &m.Gold18, &m.Gold24, &m.Rate,
		&m.Status, &m.IsCleared, &m.IsDeleted, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		log.Printf("[COMPANY_STOCK] Failed to insert entry: %v", err)
		SendErrorResponse(w, "Failed to add entry", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":      "Company stock added successfully",
		"companyStock": m,
	})
}

// GetCompanyStock lists supply entries with the company name joined in
// @Summary List company supply entries
// @Tags company-stock
// @Produce json
// @Param company_id query int false "Filter by company"
// @Param status query string false "Filter by approval status"
// @Param date query string false "Filter by date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Router /company-stock [get]
func (cs *CompanyStockService) GetCompanyStock(w http.ResponseWriter, r *http.Request) {
	query := `
		SELECT e.id, e.company_id, c.company_name, e.date, e.gold_18kt, e.gold_24kt, e.conversion_rate,
			e.status, e.is_cleared, e.is_deleted, e.created_at, e.updated_at
		FROM company_stock_entries e
		JOIN companies c ON c.id = e.company_id
		WHERE e.is_deleted = FALSE`
	args := []interface{}{}

	if companyID := r.URL.Query().Get("company_id"); companyID != "" {
		id, err := strconv.ParseInt(companyID, 10, 64)
		if err != nil {
			SendErrorResponse(w, "Invalid company_id", http.StatusBadRequest, nil)
			return
		}
		args = append(args, id)
		query += " AND e.company_id = $" + strconv.Itoa(len(args))
	}
	if status := r.URL.Query().Get("status"); status != "" {
		args = append(args, status)
		query += " AND e.status = $" + strconv.Itoa(len(args))
	}
	if date := r.URL.Query().Get("date"); date != "" {
		day, err := time.Parse(models.DateFormat, date)
		if err != nil {
			SendErrorResponse(w, "Invalid date", http.StatusBadRequest, nil)
			return
		}
		args = append(args, day)
		query += " AND e.date = $" + strconv.Itoa(len(args))
	}
	query += " ORDER BY e.date DESC, e.id DESC"

	rows, err := cs.db.Query(query, args...)
	if err != nil {
		log.Printf("[COMPANY_STOCK] Failed to query entries: %v", err)
		SendErrorResponse(w, "Failed to fetch entries", http.StatusInternalServerError, nil)
		return
	}
	defer rows.Close()

	entries := []models.CompanyStockEntry{}
	for rows.Next() {
		var m models.CompanyStockEntry
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.CompanyName, &m.Date, &m.Gold18, &m.Gold24,
			&m.Rate, &m.Status, &m.IsCleared, &m.IsDeleted, &m.CreatedAt, &m.UpdatedAt); err != nil {
			log.Printf("[COMPANY_STOCK] Failed to scan entry: %v", err)
			SendErrorResponse(w, "Failed to fetch entries", http.StatusInternalServerError, nil)
			return
		}
		entries = append(entries, m)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"companyStock": entries})
}

// UpdateCompanyStock replaces a supply entry's figures and re-derives the
// 24kt quantity. Terminal entries cannot be edited; an approved entry's
// home-stock copy is frozen regardless.
// @Summary Update a company supply entry
// @Tags company-stock
// @Accept json
// @Produce json
// @Param id path int true "Entry ID"
// @Param entry body models.CompanyStockRequest true "Replacement figures"
// @Success 200 {object} models.CompanyStockEntry
// @Failure 404 {object} ErrorResponse
// @Router /company-stock/{id} [put]
func (cs *CompanyStockService) UpdateCompanyStock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		SendErrorResponse(w, "Invalid entry id", http.StatusBadRequest, nil)
		return
	}

	var req models.CompanyStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := cs.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	day, err := time.Parse(models.DateFormat, req.Date)
	if err != nil {
		SendErrorResponse(w, "Invalid date", http.StatusBadRequest, nil)
		return
	}

	entry, err := ledger.RecordSupply(ledger.SupplyInput{
		CompanyID: strconv.FormatInt(req.CompanyID, 10),
		Date:      day,
		Gold18:    decimal.NewFromFloat(*req.Gold18),
		Rate:      decimal.NewFromFloat(*req.Rate),
	})
	if err != nil {
		SendCoreError(w, err)
		return
	}

	var m models.CompanyStockEntry
	err = cs.db.QueryRow(`
		UPDATE company_stock_entries
		SET company_id = $1, date = $2, gold_18kt = $3, gold_24kt = $4, conversion_rate = $5, updated_at = now()
		WHERE id = $6 AND is_deleted = FALSE
		RETURNING id, company_id, date, gold_18kt, gold_24kt, conversion_rate, status, is_cleared, is_deleted, created_at, updated_at`,
		req.CompanyID, entry.Date, entry.Gold18, entry.Gold24, entry.Rate, id,
	).Scan(&m.ID, &m.CompanyID, &m.Date, &m.Gold18, &m.Gold24, &m.Rate,
		&m.Status, &m.IsCleared, &m.IsDeleted, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		SendErrorResponse(w, "Entry not found", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		log.Printf("[COMPANY_STOCK] Failed to update entry %d: %v", id, err)
		SendErrorResponse(w, "Failed to update entry", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":      "Company stock updated successfully",
		"companyStock": m,
	})
}

// DeleteCompanyStock soft-deletes a supply entry. Home-stock records
// derived from an earlier approval are copies and stay untouched.
// @Summary Delete a company supply entry
// @Tags company-stock
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Router /company-stock/{id} [delete]
func (cs *CompanyStockService) DeleteCompanyStock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		SendErrorResponse(w, "Invalid entry id", http.StatusBadRequest, nil)
		return
	}

	result, err := cs.db.Exec(`
		UPDATE company_stock_entries SET is_deleted = TRUE, updated_at = now()
		WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		log.Printf("[COMPANY_STOCK] Failed to delete entry %d: %v", id, err)
		SendErrorResponse(w, "Failed to delete entry", http.StatusInternalServerError, nil)
		return
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		SendErrorResponse(w, "Entry not found", http.StatusNotFound, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Company stock deleted successfully"})
}

// ApproveCompanyStock moves an entry to approved and writes its home-stock
// copy. The entry row is locked for the duration so a concurrent approval
// of the same entry observes the terminal status and fails with a conflict.
// @Summary Approve a company supply entry
// @Tags company-stock
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /company-stock/{id}/approve [put]
func (cs *CompanyStockService) ApproveCompanyStock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		SendErrorResponse(w, "Invalid entry id", http.StatusBadRequest, nil)
		return
	}

	tx, err := cs.db.Begin()
	if err != nil {
		log.Printf("[COMPANY_STOCK] Failed to begin transaction: %v", err)
		SendErrorResponse(w, "Failed to approve entry", http.StatusInternalServerError, nil)
		return
	}
	defer tx.Rollback()

	var (
		status string
		supply ledger.SupplyEntry
	)
	var companyID int64
	err = tx.QueryRow(`
		SELECT company_id, date, gold_18kt, gold_24kt, conversion_rate, status
		FROM company_stock_entries
		WHERE id = $1 AND is_deleted = FALSE
		FOR UPDATE`, id,
	).Scan(&companyID, &supply.Date, &supply.Gold18, &supply.Gold24, &supply.Rate, &status)
	if err == sql.ErrNoRows {
		SendCoreError(w, &ledger.NotFoundError{EntryID: strconv.FormatInt(id, 10)})
		return
	}
	if err != nil {
		log.Printf("[COMPANY_STOCK] Failed to load entry %d: %v", id, err)
		SendErrorResponse(w, "Failed to approve entry", http.StatusInternalServerError, nil)
		return
	}
	supply.CompanyID = strconv.FormatInt(companyID, 10)

	newStatus, home, err := ledger.Approve(strconv.FormatInt(id, 10), ledger.Status(status), supply)
	if err != nil {
		SendCoreError(w, err)
		return
	}

	if _, err := tx.Exec(`
		UPDATE company_stock_entries SET status = $1, updated_at = now() WHERE id = $2`,
		newStatus, id); err != nil {
		log.Printf("[COMPANY_STOCK] Failed to set status on entry %d: %v", id, err)
		SendErrorResponse(w, "Failed to approve entry", http.StatusInternalServerError, nil)
		return
	}

	var hm models.HomeStockEntry
	err = tx.QueryRow(`
		INSERT INTO home_stock_entries (source_entry_id, date, gold_24kt, conversion_rate, gold_18kt, is_approved)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, source_entry_id, date, gold_24kt, conversion_rate, gold_18kt, is_approved, created_at`,
		id, home.Date, home.Gold24, home.Rate, home.Gold18, home.Approved,
	).Scan(&hm.ID, &hm.SourceEntryID, &hm.Date, &hm.Gold24, &hm.Rate, &hm.Gold18, &hm.IsApproved, &hm.CreatedAt)
	if err != nil {
		log.Printf("[COMPANY_STOCK] Failed to insert home stock for entry %d: %v", id, err)
		SendErrorResponse(w, "Failed to approve entry", http.StatusInternalServerError, nil)
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("[COMPANY_STOCK] Failed to commit approval of entry %d: %v", id, err)
		SendErrorResponse(w, "Failed to approve entry", http.StatusInternalServerError, nil)
		return
	}

	log.Printf("[COMPANY_STOCK] Approved entry %d, home stock %d", id, hm.ID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":   "Company stock approved successfully",
		"status":    newStatus,
		"homeStock": hm,
	})
}

// RejectCompanyStock moves an entry to rejected. No home stock is written
// and the transition is final.
// @Summary Reject a company supply entry
// @Tags company-stock
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /company-stock/{id}/reject [put]
func (cs *CompanyStockService) RejectCompanyStock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		SendErrorResponse(w, "Invalid entry id", http.StatusBadRequest, nil)
		return
	}

	tx, err := cs.db.Begin()
	if err != nil {
		log.Printf("[COMPANY_STOCK] Failed to begin transaction: %v", err)
		SendErrorResponse(w, "Failed to reject entry", http.StatusInternalServerError, nil)
		return
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRow(`
		SELECT status FROM company_stock_entries
		WHERE id = $1 AND is_deleted = FALSE
		FOR UPDATE`, id,
	).Scan(&status)
	if err == sql.ErrNoRows {
		SendCoreError(w, &ledger.NotFoundError{EntryID: strconv.FormatInt(id, 10)})
		return
	}
	if err != nil {
		log.Printf("[COMPANY_STOCK] Failed to load entry %d: %v", id, err)
		SendErrorResponse(w, "Failed to reject entry", http.StatusInternalServerError, nil)
		return
	}

	newStatus, err := ledger.Reject(ledger.Status(status))
	if err != nil {
		SendCoreError(w, err)
		return
	}

	if _, err := tx.Exec(`
		UPDATE company_stock_entries SET status = $1, updated_at = now() WHERE id = $2`,
		newStatus, id); err != nil {
		log.Printf("[COMPANY_STOCK] Failed to set status on entry %d: %v", id, err)
		SendErrorResponse(w, "Failed to reject entry", http.StatusInternalServerError, nil)
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("[COMPANY_STOCK] Failed to commit rejection of entry %d: %v", id, err)
		SendErrorResponse(w, "Failed to reject entry", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Company stock rejected",
		"status":  newStatus,
	})
}

// GetHomeStock lists approved-and-copied home stock records
// @Summary List home stock entries
// @Tags company-stock
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /home-stock [get]
func (cs *CompanyStockService) GetHomeStock(w http.ResponseWriter, r *http.Request) {
	rows, err := cs.db.Query(`
		SELECT id, source_entry_id, date, gold_24kt, conversion_rate, gold_18kt, is_approved, created_at
		FROM home_stock_entries
		ORDER BY date DESC, id DESC`)
	if err != nil {
		log.Printf("[COMPANY_STOCK] Failed to query home stock: %v", err)
		SendErrorResponse(w, "Failed to fetch home stock", http.StatusInternalServerError, nil)
		return
	}
	defer rows.Close()

	entries := []models.HomeStockEntry{}
	for rows.Next() {
		var m models.HomeStockEntry
		if err := rows.Scan(&m.ID, &m.SourceEntryID, &m.Date, &m.Gold24, &m.Rate,
			&m.Gold18, &m.IsApproved, &m.CreatedAt); err != nil {
			log.Printf("[COMPANY_STOCK] Failed to scan home stock: %v", err)
			SendErrorResponse(w, "Failed to fetch home stock", http.StatusInternalServerError, nil)
			return
		}
		entries = append(entries, m)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"data": entries})
}
