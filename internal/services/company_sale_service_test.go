package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func companySaleRouter(svc *CompanySaleService) chi.Router {
	r := chi.NewRouter()
	r.Post("/company-sale", svc.AddCompanySale)
	r.Get("/company-sale", svc.GetCompanySales)
	r.Put("/company-sale/{id}", svc.UpdateCompanySale)
	r.Delete("/company-sale/{id}", svc.DeleteCompanySale)
	return r
}

var companySaleColumns = []string{
	"id", "company_id", "date", "gold_24kt", "gold_18kt", "conversion_rate",
	"is_cleared", "is_deleted", "created_at", "updated_at",
}

func TestCompanySaleService_AddCompanySale(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	svc := NewCompanySaleService(db)
	router := companySaleRouter(svc)

	t.Run("derives the 18kt quantity by division", func(t *testing.T) {
		now := time.Now()
		day := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery("INSERT INTO company_sale_entries").
			WithArgs(int64(1), day, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(companySaleColumns).
				AddRow(3, 1, day, "9.2", "10.0000", "0.92", false, false, now, now))

		body := `{"company_id":1,"date":"2026-01-20","gold_24kt":9.2,"conversion_rate":0.92}`
		req := httptest.NewRequest(http.MethodPost, "/company-sale", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"saleCompanyStock"`)
		assert.Contains(t, rec.Body.String(), `"gold_18kt":10.0000`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown company", func(t *testing.T) {
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		body := `{"company_id":99,"date":"2026-01-20","gold_24kt":9.2,"conversion_rate":0.92}`
		req := httptest.NewRequest(http.MethodPost, "/company-sale", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("zero rate fails validation", func(t *testing.T) {
		body := `{"company_id":1,"date":"2026-01-20","gold_24kt":9.2,"conversion_rate":0}`
		req := httptest.NewRequest(http.MethodPost, "/company-sale", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing date fails validation", func(t *testing.T) {
		body := `{"company_id":1,"gold_24kt":9.2,"conversion_rate":0.92}`
		req := httptest.NewRequest(http.MethodPost, "/company-sale", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCompanySaleService_GetCompanySales(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	svc := NewCompanySaleService(db)
	router := companySaleRouter(svc)

	columns := []string{
		"id", "company_id", "company_name", "date", "gold_24kt", "gold_18kt", "conversion_rate",
		"is_cleared", "is_deleted", "created_at", "updated_at",
	}

	t.Run("filters by company", func(t *testing.T) {
		now := time.Now()
		day := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery("SELECT (.+) FROM company_sale_entries e JOIN companies c").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(3, 1, "Acme Gold", day, "9.2", "10.0000", "0.92", false, false, now, now))

		req := httptest.NewRequest(http.MethodGet, "/company-sale?company_id=1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Acme Gold")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid company id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/company-sale?company_id=abc", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCompanySaleService_DeleteCompanySale(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	svc := NewCompanySaleService(db)
	router := companySaleRouter(svc)

	t.Run("soft delete", func(t *testing.T) {
		mock.ExpectExec("UPDATE company_sale_entries SET is_deleted = TRUE").
			WithArgs(int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		req := httptest.NewRequest(http.MethodDelete, "/company-sale/3", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown entry", func(t *testing.T) {
		mock.ExpectExec("UPDATE company_sale_entries SET is_deleted = TRUE").
			WithArgs(int64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		req := httptest.NewRequest(http.MethodDelete, "/company-sale/99", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
