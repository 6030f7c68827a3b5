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

// CompanySaleService records gold returned to companies. The conversion
// runs the opposite direction of supplies: the user enters the 24kt
// quantity and the 18kt equivalent is derived.
type CompanySaleService struct {
	db        *sql.DB
	validator *ValidationHelper
}

func NewCompanySaleService(db *sql.DB) *CompanySaleService {
	return &CompanySaleService{
		db:        db,
		validator: NewValidationHelper(),
	}
}

// AddCompanySale records a return entry
// @Summary Add a company return entry
// @Tags company-sale
// @Accept json
// @Produce json
// @Param entry body models.CompanySaleRequest true "Return data"
// @Success 201 {object} models.CompanySaleEntry
// @Failure 400 {object} ErrorResponse
// @Router /company-sale [post]
func (cs *CompanySaleService) AddCompanySale(w http.ResponseWriter, r *http.Request) {
	var req models.CompanySaleRequest
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
		log.Printf("[COMPANY_SALE] Failed to check company %d: %v", req.CompanyID, err)
		SendErrorResponse(w, "Failed to add entry", http.StatusInternalServerError, nil)
		return
	}
	if !exists {
		SendErrorResponse(w, "Company not found", http.StatusNotFound, nil)
		return
	}

	entry, err := ledger.RecordReturn(ledger.ReturnInput{
		CompanyID: strconv.FormatInt(req.CompanyID, 10),
		Date:      day,
		Gold24:    decimal.NewFromFloat(*req.Gold24),
		Rate:      decimal.NewFromFloat(*req.Rate),
	})
	if err != nil {
		SendCoreError(w, err)
		return
	}

	var m models.CompanySaleEntry
	err = cs.db.QueryRow(`
		INSERT INTO company_sale_entries (company_id, date, gold_24kt, gold_18kt, conversion_rate)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, company_id, date, gold_24kt, gold_18kt, conversion_rate, is_cleared, is_deleted, created_at, updated_at`,
		req.CompanyID, entry.Date, entry.Gold24, entry.Gold18, entry.Rate,
	).Scan(&m.ID, &m.CompanyID, &m.Date, &m.Gold24, &m.Gold18, &m.Rate,
		&m.IsCleared, &m.IsDeleted, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		log.Printf("[COMPANY_SALE] Failed to insert entry: %v", err)
		SendErrorResponse(w, "Failed to add entry", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":          "Company sale added successfully",
		"saleCompanyStock": m,
	})
}

// GetCompanySales lists return entries with the company name joined in
// @Summary List company return entries
// @Tags company-sale
// @Produce json
// @Param company_id query int false "Filter by company"
// @Param date query string false "Filter by date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Router /company-sale [get]
func (cs *CompanySaleService) GetCompanySales(w http.ResponseWriter, r *http.Request) {
	query := `
		SELECT e.id, e.company_id, c.company_name, e.date, e.gold_24kt, e.gold_18kt, e.conversion_rate,
			e.is_cleared, e.is_deleted, e.created_at, e.updated_at
		FROM company_sale_entries e
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
		log.Printf("[COMPANY_SALE] Failed to query entries: %v", err)
		SendErrorResponse(w, "Failed to fetch entries", http.StatusInternalServerError, nil)
		return
	}
	defer rows.Close()

	entries := []models.CompanySaleEntry{}
	for rows.Next() {
		var m models.CompanySaleEntry
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.CompanyName, &m.Date, &m.Gold24, &m.Gold18,
			&m.Rate, &m.IsCleared, &m.IsDeleted, &m.CreatedAt, &m.UpdatedAt); err != nil {
			log.Printf("[COMPANY_SALE] Failed to scan entry: %v", err)
			SendErrorResponse(w, "Failed to fetch entries", http.StatusInternalServerError, nil)
			return
		}
		entries = append(entries, m)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"saleCompanyStock": entries})
}

// UpdateCompanySale replaces a return entry's figures and re-derives the
// 18kt quantity
// @Summary Update a company return entry
// @Tags company-sale
// @Accept json
// @Produce json
// @Param id path int true "Entry ID"
// @Param entry body models.CompanySaleRequest true "Replacement figures"
// @Success 200 {object} models.CompanySaleEntry
// @Failure 404 {object} ErrorResponse
// @Router /company-sale/{id} [put]
func (cs *CompanySaleService) UpdateCompanySale(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		SendErrorResponse(w, "Invalid entry id", http.StatusBadRequest, nil)
		return
	}

	var req models.CompanySaleRequest
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

	entry, err := ledger.RecordReturn(ledger.ReturnInput{
		CompanyID: strconv.FormatInt(req.CompanyID, 10),
		Date:      day,
		Gold24:    decimal.NewFromFloat(*req.Gold24),
		Rate:      decimal.NewFromFloat(*req.Rate),
	})
	if err != nil {
		SendCoreError(w, err)
		return
	}

	var m models.CompanySaleEntry
	err = cs.db.QueryRow(`
		UPDATE company_sale_entries
		SET company_id = $1, date = $2, gold_24kt = $3, gold_18kt = $4, conversion_rate = $5, updated_at = now()
		WHERE id = $6 AND is_deleted = FALSE
		RETURNING id, company_id, date, gold_24kt, gold_18kt, conversion_rate, is_cleared, is_deleted, created_at, updated_at`,
		req.CompanyID, entry.Date, entry.Gold24, entry.Gold18, entry.Rate, id,
	).Scan(&m.ID, &m.CompanyID, &m.Date, &m.Gold24, &m.Gold18, &m.Rate,
		&m.IsCleared, &m.IsDeleted, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		SendErrorResponse(w, "Entry not found", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		log.Printf("[COMPANY_SALE] Failed to update entry %d: %v", id, err)
		SendErrorResponse(w, "Failed to update entry", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":          "Company sale updated successfully",
		"saleCompanyStock": m,
	})
}

// DeleteCompanySale soft-deletes a return entry
// @Summary Delete a company return entry
// @Tags company-sale
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Router /company-sale/{id} [delete]
func (cs *CompanySaleService) DeleteCompanySale(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		SendErrorResponse(w, "Invalid entry id", http.StatusBadRequest, nil)
		return
	}

	result, err := cs.db.Exec(`
		UPDATE company_sale_entries SET is_deleted = TRUE, updated_at = now()
		WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		log.Printf("[COMPANY_SALE] Failed to delete entry %d: %v", id, err)
		SendErrorResponse(w, "Failed to delete entry", http.StatusInternalServerError, nil)
		return
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		SendErrorResponse(w, "Entry not found", http.StatusNotFound, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Company sale deleted successfully"})
}
