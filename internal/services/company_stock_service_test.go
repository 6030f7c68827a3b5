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

func companyStockRouter(svc *CompanyStockService) chi.Router {
	r := chi.NewRouter()
	r.Post("/company-stock", svc.AddCompanyStock)
	r.Get("/company-stock", svc.GetCompanyStock)
	r.Put("/company-stock/{id}", svc.UpdateCompanyStock)
	r.Delete("/company-stock/{id}", svc.DeleteCompanyStock)
	r.Put("/company-stock/{id}/approve", svc.ApproveCompanyStock)
	r.Put("/company-stock/{id}/reject", svc.RejectCompanyStock)
	r.Get("/home-stock", svc.GetHomeStock)
	return r
}

var companyStockColumns = []string{
	"id", "company_id", "date", "gold_18kt", "gold_24kt", "conversion_rate",
	"status", "is_cleared", "is_deleted", "created_at", "updated_at",
}

func TestCompanyStockService_AddCompanyStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	svc := NewCompanyStockService(db)
	router := companyStockRouter(svc)

	t.Run("derives the 24kt quantity", func(t *testing.T) {
		now := time.Now()
		day := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery("INSERT INTO company_stock_entries").
			WithArgs(int64(1), day, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "pending").
			WillReturnRows(sqlmock.NewRows(companyStockColumns).
				AddRow(5, 1, day, "10", "9.2000", "0.92", "pending", false, false, now, now))

		body := `{"company_id":1,"date":"2026-01-15","gold_18kt":10,"conversion_rate":0.92}`
		req := httptest.NewRequest(http.MethodPost, "/company-stock", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"gold_24kt":9.2000`)
		assert.Contains(t, rec.Body.String(), `"status":"pending"`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown company", func(t *testing.T) {
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		body := `{"company_id":99,"date":"2026-01-15","gold_18kt":10,"conversion_rate":0.92}`
		req := httptest.NewRequest(http.MethodPost, "/company-stock", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("zero rate fails validation", func(t *testing.T) {
		body := `{"company_id":1,"date":"2026-01-15","gold_18kt":10,"conversion_rate":0}`
		req := httptest.NewRequest(http.MethodPost, "/company-stock", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCompanyStockService_GetCompanyStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	svc := NewCompanyStockService(db)
	router := companyStockRouter(svc)

	columns := []string{
		"id", "company_id", "company_name", "date", "gold_18kt", "gold_24kt", "conversion_rate",
		"status", "is_cleared", "is_deleted", "created_at", "updated_at",
	}

	t.Run("joins company names", func(t *testing.T) {
		now := time.Now()
		day := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery("SELECT (.+) FROM company_stock_entries e JOIN companies c").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(5, 1, "Acme Gold", day, "10", "9.2000", "0.92", "pending", false, false, now, now))

		req := httptest.NewRequest(http.MethodGet, "/company-stock", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"companyStock"`)
		assert.Contains(t, rec.Body.String(), "Acme Gold")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filters by status", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM company_stock_entries e JOIN companies c").
			WithArgs("pending").
			WillReturnRows(sqlmock.NewRows(columns))

		req := httptest.NewRequest(http.MethodGet, "/company-stock?status=pending", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCompanyStockService_ApproveCompanyStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	svc := NewCompanyStockService(db)
	router := companyStockRouter(svc)

	day := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("approves and writes the home stock copy atomically", func(t *testing.T) {
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT company_id, date, gold_18kt, gold_24kt, conversion_rate, status FROM company_stock_entries").
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"company_id", "date", "gold_18kt", "gold_24kt", "conversion_rate", "status"}).
				AddRow(1, day, "10", "9.2000", "0.92", "pending"))
		mock.ExpectExec("UPDATE company_stock_entries SET status").
			WithArgs("approved", int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO home_stock_entries").
			WithArgs(int64(5), day, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), true).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "source_entry_id", "date", "gold_24kt", "conversion_rate", "gold_18kt", "is_approved", "created_at",
			}).AddRow(1, 5, day, "9.2000", "0.92", "10", true, now))
		mock.ExpectCommit()

		req := httptest.NewRequest(http.MethodPut, "/company-stock/5/approve", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"approved"`)
		assert.Contains(t, rec.Body.String(), `"source_entry_id":5`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second approval conflicts and writes nothing", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT company_id, date, gold_18kt, gold_24kt, conversion_rate, status FROM company_stock_entries").
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"company_id", "date", "gold_18kt", "gold_24kt", "conversion_rate", "status"}).
				AddRow(1, day, "10", "9.2000", "0.92", "approved"))
		mock.ExpectRollback()

		req := httptest.NewRequest(http.MethodPut, "/company-stock/5/approve", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("follow up entries can be approved", func(t *testing.T) {
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT company_id, date, gold_18kt, gold_24kt, conversion_rate, status FROM company_stock_entries").
			WithArgs(int64(6)).
			WillReturnRows(sqlmock.NewRows([]string{"company_id", "date", "gold_18kt", "gold_24kt", "conversion_rate", "status"}).
				AddRow(1, day, "10", "9.2000", "0.92", "follow_up"))
		mock.ExpectExec("UPDATE company_stock_entries SET status").
			WithArgs("approved", int64(6)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO home_stock_entries").
			WithArgs(int64(6), day, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), true).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "source_entry_id", "date", "gold_24kt", "conversion_rate", "gold_18kt", "is_approved", "created_at",
			}).AddRow(2, 6, day, "9.2000", "0.92", "10", true, now))
		mock.ExpectCommit()

		req := httptest.NewRequest(http.MethodPut, "/company-stock/6/approve", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown entry", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT company_id, date, gold_18kt, gold_24kt, conversion_rate, status FROM company_stock_entries").
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"company_id", "date", "gold_18kt", "gold_24kt", "conversion_rate", "status"}))
		mock.ExpectRollback()

		req := httptest.NewRequest(http.MethodPut, "/company-stock/99/approve", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCompanyStockService_RejectCompanyStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	svc := NewCompanyStockService(db)
	router := companyStockRouter(svc)

	t.Run("rejects a pending entry", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM company_stock_entries").
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("pending"))
		mock.ExpectExec("UPDATE company_stock_entries SET status").
			WithArgs("rejected", int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		req := httptest.NewRequest(http.MethodPut, "/company-stock/5/reject", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"rejected"`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejecting an approved entry conflicts", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM company_stock_entries").
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("approved"))
		mock.ExpectRollback()

		req := httptest.NewRequest(http.MethodPut, "/company-stock/5/reject", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCompanyStockService_GetHomeStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	svc := NewCompanyStockService(db)
	router := companyStockRouter(svc)

	day := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM home_stock_entries").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "source_entry_id", "date", "gold_24kt", "conversion_rate", "gold_18kt", "is_approved", "created_at",
		}).AddRow(1, 5, day, "9.2000", "0.92", "10", true, now))

	req := httptest.NewRequest(http.MethodGet, "/home-stock", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"source_entry_id":5`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
