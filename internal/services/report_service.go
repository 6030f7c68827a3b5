package services

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/goldstock/backend/internal/ledger"
	"github.com/xuri/excelize/v2"
)

// ReportService renders the dashboard aggregation as a downloadable
// spreadsheet.
type ReportService struct {
	dashboard *DashboardService
}

func NewReportService(dashboard *DashboardService) *ReportService {
	return &ReportService{dashboard: dashboard}
}

var reportHeader = []string{
	"Company", "Added 18kt", "Added 24kt", "Sold 18kt", "Sold 24kt",
	"Current 18kt", "Current 24kt", "Difference 18kt", "Difference 24kt", "Total Difference",
}

// ExportDashboard streams the all-companies dashboard as an xlsx file,
// honoring the same optional date filter as the dashboard endpoints
// @Summary Download the dashboard as a spreadsheet
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param start_date query string false "Range start (YYYY-MM-DD)"
// @Param end_date query string false "Range end (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Router /reports/dashboard.xlsx [get]
func (rs *ReportService) ExportDashboard(w http.ResponseWriter, r *http.Request) {
	var rng *ledger.Range
	startParam := r.URL.Query().Get("start_date")
	endParam := r.URL.Query().Get("end_date")
	if startParam != "" || endParam != "" {
		start, err := time.Parse("2006-01-02", startParam)
		if err != nil {
			SendErrorResponse(w, "Invalid start_date", http.StatusBadRequest, nil)
			return
		}
		end, err := time.Parse("2006-01-02", endParam)
		if err != nil {
			SendErrorResponse(w, "Invalid end_date", http.StatusBadRequest, nil)
			return
		}
		rng = &ledger.Range{Start: start, End: end}
	}

	view, err := rs.dashboard.BuildOverall(rng)
	if err != nil {
		log.Printf("[REPORT] Failed to build dashboard: %v", err)
		SendErrorResponse(w, "Failed to build report", http.StatusInternalServerError, nil)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Dashboard"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range reportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, title)
	}

	row := 2
	for _, c := range view.Companies {
		values := []interface{}{
			c.CompanyName,
			c.TotalAdded18.InexactFloat64(),
			c.TotalAdded24.InexactFloat64(),
			c.TotalSold18.InexactFloat64(),
			c.TotalSold24.InexactFloat64(),
			c.CurrentStock18.InexactFloat64(),
			c.CurrentStock24.InexactFloat64(),
			c.Difference18.InexactFloat64(),
			c.Difference24.InexactFloat64(),
			c.TotalDifference.InexactFloat64(),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	totals := []interface{}{
		fmt.Sprintf("Total (%d companies)", view.TotalCompanies),
		view.TotalAdded18.InexactFloat64(),
		view.TotalAdded24.InexactFloat64(),
		view.TotalSold18.InexactFloat64(),
		view.TotalSold24.InexactFloat64(),
		view.TotalCurrentStock18.InexactFloat64(),
		view.TotalCurrentStock24.InexactFloat64(),
		view.TotalDifference18.InexactFloat64(),
		view.TotalDifference24.InexactFloat64(),
		view.GrandTotalDifference.InexactFloat64(),
	}
	for col, v := range totals {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		f.SetCellValue(sheet, cell, v)
	}

	filename := fmt.Sprintf("dashboard-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := f.Write(w); err != nil {
		log.Printf("[REPORT] Failed to write spreadsheet: %v", err)
	}
}
