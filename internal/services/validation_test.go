package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/goldstock/backend/internal/ledger"
	"github.com/goldstock/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func floatPtr(f float64) *float64 { return &f }

func TestValidationHelper_ValidateStruct(t *testing.T) {
	vh := NewValidationHelper()

	t.Run("valid supply request", func(t *testing.T) {
		valid := models.CompanyStockRequest{
			CompanyID: 1,
			Date:      "2026-01-15",
			Gold18:    floatPtr(10),
			Rate:      floatPtr(0.92),
		}

		err := vh.ValidateStruct(&valid)
		assert.NoError(t, err)
	})

	t.Run("missing required fields", func(t *testing.T) {
		invalid := models.CompanyStockRequest{
			Date: "2026-01-15",
		}

		err := vh.ValidateStruct(&invalid)
		assert.Error(t, err)

		validationErrors, ok := err.(validator.ValidationErrors)
		assert.True(t, ok)
		assert.Len(t, validationErrors, 3) // CompanyID, Gold18, Rate
	})

	t.Run("explicit zero passes a gte check where nil does not", func(t *testing.T) {
		zeroQty := models.CompanyStockRequest{
			CompanyID: 1,
			Date:      "2026-01-15",
			Gold18:    floatPtr(0),
			Rate:      floatPtr(0.92),
		}
		assert.NoError(t, vh.ValidateStruct(&zeroQty))
	})

	t.Run("malformed date", func(t *testing.T) {
		invalid := models.CompanyStockRequest{
			CompanyID: 1,
			Date:      "15/01/2026",
			Gold18:    floatPtr(10),
			Rate:      floatPtr(0.92),
		}

		err := vh.ValidateStruct(&invalid)
		assert.Error(t, err)

		validationErrors, ok := err.(validator.ValidationErrors)
		assert.True(t, ok)
		assert.Len(t, validationErrors, 1)
		assert.Equal(t, "Date", validationErrors[0].Field())
		assert.Equal(t, "datetime", validationErrors[0].Tag())
	})
}

func TestSendErrorResponse(t *testing.T) {
	t.Run("error response without validation errors", func(t *testing.T) {
		w := httptest.NewRecorder()

		SendErrorResponse(w, "Something went wrong", http.StatusInternalServerError, nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var response ErrorResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "Something went wrong", response.Error)
		assert.Nil(t, response.Details)
	})

	t.Run("error response with validation errors", func(t *testing.T) {
		vh := NewValidationHelper()
		invalid := models.CompanyStockRequest{
			Date: "bad",
		}

		validationErr := vh.ValidateStruct(&invalid)
		assert.Error(t, validationErr)

		w := httptest.NewRecorder()
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, validationErr)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response ErrorResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "Validation failed", response.Error)
		assert.Contains(t, response.Details, "CompanyID")
		assert.Contains(t, response.Details, "Date")
	})
}

func TestSendCoreError(t *testing.T) {
	t.Run("validation error maps to 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		SendCoreError(w, &ledger.ValidationError{Field: "conversion_rate", Reason: "must be greater than zero"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "conversion_rate")
	})

	t.Run("invalid transition maps to 409", func(t *testing.T) {
		w := httptest.NewRecorder()
		SendCoreError(w, &ledger.InvalidTransitionError{From: ledger.StatusApproved, To: ledger.StatusRejected})

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("not found maps to 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		SendCoreError(w, &ledger.NotFoundError{EntryID: "42"})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "42")
	})

	t.Run("unknown errors are server faults", func(t *testing.T) {
		w := httptest.NewRecorder()
		SendCoreError(w, assert.AnError)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
