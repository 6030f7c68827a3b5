package services

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goldstock/backend/internal/models"
)

// CompanyService manages the supplier companies referenced by the company
// ledgers. Companies are only ever soft-deleted.
type CompanyService struct {
	db        *sql.DB
	validator *ValidationHelper
}

func NewCompanyService(db *sql.DB) *CompanyService {
	return &CompanyService{
		db:        db,
		validator: NewValidationHelper(),
	}
}

// AddCompany handles company creation
// @Summary Add a new company
// @Tags companies
// @Accept json
// @Produce json
// @Param company body models.CompanyRequest true "Company data"
// @Success 201 {object} models.Company
// @Failure 400 {object} ErrorResponse
// @Router /companies [post]
func (cs *CompanyService) AddCompany(w http.ResponseWriter, r *http.Request) {
	var req models.CompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := cs.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	var company models.Company
	err := cs.db.QueryRow(`
		INSERT INTO companies (company_name, company_address, company_phone, gst_number)
		VALUES ($1, $2, $3, $4)
		RETURNING id, company_name, company_address, company_phone, gst_number, is_deleted, created_at, updated_at`,
		req.CompanyName, req.CompanyAddress, req.CompanyPhone, req.GSTNumber,
	).Scan(&company.ID, &company.CompanyName, &company.CompanyAddress, &company.CompanyPhone,
		&company.GSTNumber, &company.IsDeleted, &company.CreatedAt, &company.UpdatedAt)
	if err != nil {
		log.Printf("[COMPANY] Failed to insert company: %v", err)
		SendErrorResponse(w, "Failed to add company", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Company added successfully",
		"company": company,
	})
}

// GetCompanies lists all companies that are not soft-deleted
// @Summary List companies
// @Tags companies
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /companies [get]
func (cs *CompanyService) GetCompanies(w http.ResponseWriter, r *http.Request) {
	rows, err := cs.db.Query(`
		SELECT id, company_name, company_address, company_phone, gst_number, is_deleted, created_at, updated_at
		FROM companies
		WHERE is_deleted = FALSE
		ORDER BY company_name`)
	if err != nil {
		log.Printf("[COMPANY] Failed to query companies: %v", err)
		SendErrorResponse(w, "Failed to fetch companies", http.StatusInternalServerError, nil)
		return
	}
	defer rows.Close()

	companies := []models.Company{}
	for rows.Next() {
		var c models.Company
		if err := rows.Scan(&c.ID, &c.CompanyName, &c.CompanyAddress, &c.CompanyPhone,
			&c.GSTNumber, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt); err != nil {
			log.Printf("[COMPANY] Failed to scan company row: %v", err)
			SendErrorResponse(w, "Failed to fetch companies", http.StatusInternalServerError, nil)
			return
		}
		companies = append(companies, c)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"companies": companies})
}

// UpdateCompany handles company updates
// @Summary Update a company
// @Tags companies
// @Accept json
// @Produce json
// @Param id path int true "Company ID"
// @Param company body models.CompanyRequest true "Company data"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Router /companies/{id} [put]
func (cs *CompanyService) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		SendErrorResponse(w, "Invalid company id", http.StatusBadRequest, nil)
		return
	}

	var req models.CompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := cs.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	result, err := cs.db.Exec(`
		UPDATE companies
		SET company_name = $1, company_address = $2, company_phone = $3, gst_number = $4, updated_at = now()
		WHERE id = $5 AND is_deleted = FALSE`,
		req.CompanyName, req.CompanyAddress, req.CompanyPhone, req.GSTNumber, id)
	if err != nil {
		log.Printf("[COMPANY] Failed to update company %d: %v", id, err)
		SendErrorResponse(w, "Failed to update company", http.StatusInternalServerError, nil)
		return
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		SendErrorResponse(w, "Company not found", http.StatusNotFound, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Company updated successfully"})
}

// DeleteCompany soft-deletes a company so ledger entries keep a valid
// reference
// @Summary Delete a company
// @Tags companies
// @Produce json
// @Param id path int true "Company ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Router /companies/{id} [delete]
func (cs *CompanyService) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		SendErrorResponse(w, "Invalid company id", http.StatusBadRequest, nil)
		return
	}

	result, err := cs.db.Exec(`
		UPDATE companies SET is_deleted = TRUE, updated_at = now()
		WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		log.Printf("[COMPANY] Failed to delete company %d: %v", id, err)
		SendErrorResponse(w, "Failed to delete company", http.StatusInternalServerError, nil)
		return
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		SendErrorResponse(w, "Company not found", http.StatusNotFound, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Company deleted successfully"})
}
