package services

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func TestReportService_ExportDashboard(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	svc := NewReportService(NewDashboardService(db, nil))

	t.Run("streams a spreadsheet with one row per company plus totals", func(t *testing.T) {
		expectLedgerQueries(mock)

		req := httptest.NewRequest(http.MethodGet, "/reports/dashboard.xlsx", nil)
		rec := httptest.NewRecorder()
		svc.ExportDashboard(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

		f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		assert.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows("Dashboard")
		assert.NoError(t, err)
		// Header, two companies, grand total
		assert.Len(t, rows, 4)
		assert.Equal(t, "Company", rows[0][0])
		assert.Equal(t, "Acme Gold", rows[1][0])
		assert.Equal(t, "Bullion Bros", rows[2][0])
		assert.Equal(t, "Total (2 companies)", rows[3][0])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("honors the date filter", func(t *testing.T) {
		expectLedgerQueries(mock)

		req := httptest.NewRequest(http.MethodGet, "/reports/dashboard.xlsx?start_date=2026-01-01&end_date=2026-01-31", nil)
		rec := httptest.NewRecorder()
		svc.ExportDashboard(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		assert.NoError(t, err)
		defer f.Close()

		// Bullion's February supply falls outside the range
		val, err := f.GetCellValue("Dashboard", "B3")
		assert.NoError(t, err)
		assert.Equal(t, "0", val)
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/reports/dashboard.xlsx?start_date=bad&end_date=2026-01-31", nil)
		rec := httptest.NewRecorder()
		svc.ExportDashboard(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
