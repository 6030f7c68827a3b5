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

// ShopService manages the retail shops whose daily sale ledgers the stock
// endpoints record.
type ShopService struct {
	db        *sql.DB
	validator *ValidationHelper
}

func NewShopService(db *sql.DB) *ShopService {
	return &ShopService{
		db:        db,
		validator: NewValidationHelper(),
	}
}

// AddShop handles shop creation
// @Summary Add a new shop
// @Tags shops
// @Accept json
// @Produce json
// @Param shop body models.ShopRequest true "Shop data"
// @Success 201 {object} models.Shop
// @Failure 400 {object} ErrorResponse
// @Router /shops [post]
func (ss *ShopService) AddShop(w http.ResponseWriter, r *http.Request) {
	var req models.ShopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := ss.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	var shop models.Shop
	err := ss.db.QueryRow(`
		INSERT INTO shops (shop_name, contact_number, address)
		VALUES ($1, $2, $3)
		RETURNING id, shop_name, contact_number, address, is_deleted, created_at, updated_at`,
		req.ShopName, req.ContactNumber, req.Address,
	).Scan(&shop.ID, &shop.ShopName, &shop.ContactNumber, &shop.Address,
		&shop.IsDeleted, &shop.CreatedAt, &shop.UpdatedAt)
	if err != nil {
		log.Printf("[SHOP] Failed to insert shop: %v", err)
		SendErrorResponse(w, "Failed to add shop", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Shop added successfully",
		"data":    shop,
	})
}

// GetShops lists all shops that are not soft-deleted
// @Summary List shops
// @Tags shops
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /shops [get]
func (ss *ShopService) GetShops(w http.ResponseWriter, r *http.Request) {
	rows, err := ss.db.Query(`
		SELECT id, shop_name, contact_number, address, is_deleted, created_at, updated_at
		FROM shops
		WHERE is_deleted = FALSE
		ORDER BY shop_name`)
	if err != nil {
		log.Printf("[SHOP] Failed to query shops: %v", err)
		SendErrorResponse(w, "Failed to fetch shops", http.StatusInternalServerError, nil)
		return
	}
	defer rows.Close()

	shops := []models.Shop{}
	for rows.Next() {
		var s models.Shop
		if err := rows.Scan(&s.ID, &s.ShopName, &s.ContactNumber, &s.Address,
			&s.IsDeleted, &s.CreatedAt, &s.UpdatedAt); err != nil {
			log.Printf("[SHOP] Failed to scan shop row: %v", err)
			SendErrorResponse(w, "Failed to fetch shops", http.StatusInternalServerError, nil)
			return
		}
		shops = append(shops, s)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"data": shops})
}

// UpdateShop handles shop updates
// @Summary Update a shop
// @Tags shops
// @Accept json
// @Produce json
// @Param id path int true "Shop ID"
// @Param shop body models.ShopRequest true "Shop data"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Router /shops/{id} [put]
func (ss *ShopService) UpdateShop(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		SendErrorResponse(w, "Invalid shop id", http.StatusBadRequest, nil)
		return
	}

	var req models.ShopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := ss.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	result, err := ss.db.Exec(`
		UPDATE shops
		SET shop_name = $1, contact_number = $2, address = $3, updated_at = now()
		WHERE id = $4 AND is_deleted = FALSE`,
		req.ShopName, req.ContactNumber, req.Address, id)
	if err != nil {
		log.Printf("[SHOP] Failed to update shop %d: %v", id, err)
		SendErrorResponse(w, "Failed to update shop", http.StatusInternalServerError, nil)
		return
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		SendErrorResponse(w, "Shop not found", http.StatusNotFound, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Shop updated successfully"})
}

// DeleteShop soft-deletes a shop
// @Summary Delete a shop
// @Tags shops
// @Produce json
// @Param id path int true "Shop ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Router /shops/{id} [delete]
func (ss *ShopService) DeleteShop(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		SendErrorResponse(w, "Invalid shop id", http.StatusBadRequest, nil)
		return
	}

	result, err := ss.db.Exec(`
		UPDATE shops SET is_deleted = TRUE, updated_at = now()
		WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		log.Printf("[SHOP] Failed to delete shop %d: %v", id, err)
		SendErrorResponse(w, "Failed to delete shop", http.StatusInternalServerError, nil)
		return
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		SendErrorResponse(w, "Shop not found", http.StatusNotFound, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Shop deleted successfully"})
}
