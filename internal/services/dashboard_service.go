package services

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/goldstock/backend/internal/ledger"
	"github.com/shopspring/decimal"
)

const (
	dashboardCacheKey = "dashboard:all"
	dashboardCacheTTL = 60 * time.Second
)

// CompanyDashboard is the per-company aggregation row served to the
// dashboard views.
type CompanyDashboard struct {
	CompanyID       int64           `json:"company_id"`
	CompanyName     string          `json:"company_name"`
	TotalAdded18    decimal.Decimal `json:"total_added_18kt"`
	TotalAdded24    decimal.Decimal `json:"total_added_24kt"`
	TotalSold18     decimal.Decimal `json:"total_sold_18kt"`
	TotalSold24     decimal.Decimal `json:"total_sold_24kt"`
	CurrentStock18  decimal.Decimal `json:"current_stock_18kt"`
	CurrentStock24  decimal.Decimal `json:"current_stock_24kt"`
	Difference18    decimal.Decimal `json:"difference_18kt"`
	Difference24    decimal.Decimal `json:"difference_24kt"`
	TotalDifference decimal.Decimal `json:"total_difference"`
}

// OverallDashboard is the all-companies aggregation plus the grand total
// row.
type OverallDashboard struct {
	Companies            []CompanyDashboard `json:"companies"`
	TotalCompanies       int                `json:"total_companies"`
	TotalAdded18         decimal.Decimal    `json:"total_added_18kt"`
	TotalAdded24         decimal.Decimal    `json:"total_added_24kt"`
	TotalSold18          decimal.Decimal    `json:"total_sold_18kt"`
	TotalSold24          decimal.Decimal    `json:"total_sold_24kt"`
	TotalCurrentStock18  decimal.Decimal    `json:"total_current_stock_18kt"`
	TotalCurrentStock24  decimal.Decimal    `json:"total_current_stock_24kt"`
	TotalDifference18    decimal.Decimal    `json:"total_difference_18kt"`
	TotalDifference24    decimal.Decimal    `json:"total_difference_24kt"`
	GrandTotalDifference decimal.Decimal    `json:"grand_total_difference"`
}

// DashboardService serves the aggregation views over the company ledgers.
// The unfiltered all-companies view is cached in Redis for a short TTL;
// the cache is optional and a nil client falls through to the database.
type DashboardService struct {
	db    *sql.DB
	cache *redis.Client
}

func NewDashboardService(db *sql.DB, cache *redis.Client) *DashboardService {
	return &DashboardService{db: db, cache: cache}
}

// loadLedgers reads every live company plus the committed supply and
// return entries. Filtering by company or date happens in the aggregation
// fold, not in SQL, so one read shape serves all three dashboard views.
func (ds *DashboardService) loadLedgers() (ids []string, names map[string]string, supplies []ledger.SupplyEntry, returns []ledger.ReturnEntry, err error) {
	rows, err := ds.db.Query(`
		SELECT id, company_name FROM companies WHERE is_deleted = FALSE ORDER BY company_name`)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	defer rows.Close()

	names = make(map[string]string)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, nil, nil, nil, err
		}
		key := strconv.FormatInt(id, 10)
		ids = append(ids, key)
		names[key] = name
	}

	supplyRows, err := ds.db.Query(`
		SELECT company_id, date, gold_18kt, gold_24kt, conversion_rate
		FROM company_stock_entries WHERE is_deleted = FALSE`)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	defer supplyRows.Close()

	for supplyRows.Next() {
		var companyID int64
		var e ledger.SupplyEntry
		if err := supplyRows.Scan(&companyID, &e.Date, &e.Gold18, &e.Gold24, &e.Rate); err != nil {
			return nil, nil, nil, nil, err
		}
		e.CompanyID = strconv.FormatInt(companyID, 10)
		supplies = append(supplies, e)
	}

	returnRows, err := ds.db.Query(`
		SELECT company_id, date, gold_24kt, gold_18kt, conversion_rate
		FROM company_sale_entries WHERE is_deleted = FALSE`)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	defer returnRows.Close()

	for returnRows.Next() {
		var companyID int64
		var e ledger.ReturnEntry
		if err := returnRows.Scan(&companyID, &e.Date, &e.Gold24, &e.Gold18, &e.Rate); err != nil {
			return nil, nil, nil, nil, err
		}
		e.CompanyID = strconv.FormatInt(companyID, 10)
		returns = append(returns, e)
	}
	return ids, names, supplies, returns, nil
}

func companyView(s ledger.CompanySummary, name string) CompanyDashboard {
	id, _ := strconv.ParseInt(s.CompanyID, 10, 64)
	return CompanyDashboard{
		CompanyID:       id,
		CompanyName:     name,
		TotalAdded18:    s.TotalAdded18,
		TotalAdded24:    s.TotalAdded24,
		TotalSold18:     s.TotalSold18,
		TotalSold24:     s.TotalSold24,
		CurrentStock18:  s.CurrentStock18,
		CurrentStock24:  s.CurrentStock24,
		Difference18:    s.Difference18,
		Difference24:    s.Difference24,
		TotalDifference: s.TotalDifference,
	}
}

// BuildOverall assembles the all-companies dashboard, optionally
// restricted to a date range. Used by the dashboard endpoints and by the
// spreadsheet export.
func (ds *DashboardService) BuildOverall(rng *ledger.Range) (OverallDashboard, error) {
	ids, names, supplies, returns, err := ds.loadLedgers()
	if err != nil {
		return OverallDashboard{}, err
	}

	all := ledger.SummarizeAll(ids, supplies, returns, rng)
	view := OverallDashboard{
		Companies:            make([]CompanyDashboard, 0, len(all.Companies)),
		TotalCompanies:       all.TotalCompanies,
		TotalAdded18:         all.TotalAdded18,
		TotalAdded24:         all.TotalAdded24,
		TotalSold18:          all.TotalSold18,
		TotalSold24:          all.TotalSold24,
		TotalCurrentStock18:  all.TotalCurrentStock18,
		TotalCurrentStock24:  all.TotalCurrentStock24,
		TotalDifference18:    all.TotalDifference18,
		TotalDifference24:    all.TotalDifference24,
		GrandTotalDifference: all.GrandTotalDifference,
	}
	for _, s := range all.Companies {
		view.Companies = append(view.Companies, companyView(s, names[s.CompanyID]))
	}
	return view, nil
}

// GetDashboard serves the unfiltered all-companies aggregation
// @Summary All-companies dashboard
// @Tags dashboard
// @Produce json
// @Success 200 {object} OverallDashboard
// @Router /dashboard [get]
func (ds *DashboardService) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if ds.cache != nil {
		if cached, err := ds.cache.Get(ctx, dashboardCacheKey).Result(); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(cached))
			return
		}
	}

	view, err := ds.BuildOverall(nil)
	if err != nil {
		log.Printf("[DASHBOARD] Failed to build dashboard: %v", err)
		SendErrorResponse(w, "Failed to build dashboard", http.StatusInternalServerError, nil)
		return
	}

	payload, err := json.Marshal(view)
	if err != nil {
		log.Printf("[DASHBOARD] Failed to encode dashboard: %v", err)
		SendErrorResponse(w, "Failed to build dashboard", http.StatusInternalServerError, nil)
		return
	}

	if ds.cache != nil {
		if err := ds.cache.Set(ctx, dashboardCacheKey, payload, dashboardCacheTTL).Err(); err != nil {
			log.Printf("[DASHBOARD] Failed to cache dashboard: %v", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

// GetCompanyDashboard serves a single company's aggregation
// @Summary Single-company dashboard
// @Tags dashboard
// @Produce json
// @Param id path int true "Company ID"
// @Success 200 {object} CompanyDashboard
// @Failure 404 {object} ErrorResponse
// @Router /dashboard/company/{id} [get]
func (ds *DashboardService) GetCompanyDashboard(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		SendErrorResponse(w, "Invalid company id", http.StatusBadRequest, nil)
		return
	}

	var name string
	err = ds.db.QueryRow(`
		SELECT company_name FROM companies WHERE id = $1 AND is_deleted = FALSE`, id).Scan(&name)
	if err == sql.ErrNoRows {
		SendErrorResponse(w, "Company not found", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		log.Printf("[DASHBOARD] Failed to load company %d: %v", id, err)
		SendErrorResponse(w, "Failed to build dashboard", http.StatusInternalServerError, nil)
		return
	}

	_, _, supplies, returns, err := ds.loadLedgers()
	if err != nil {
		log.Printf("[DASHBOARD] Failed to load ledgers: %v", err)
		SendErrorResponse(w, "Failed to build dashboard", http.StatusInternalServerError, nil)
		return
	}

	summary := ledger.SummarizeCompany(strconv.FormatInt(id, 10), supplies, returns, nil)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(companyView(summary, name))
}

// FilterDashboard serves the aggregation restricted by date range and
// optionally to one company. The range is inclusive on both ends and
// ignores the time of day.
// @Summary Filtered dashboard
// @Tags dashboard
// @Produce json
// @Param start_date query string true "Range start (YYYY-MM-DD)"
// @Param end_date query string true "Range end (YYYY-MM-DD)"
// @Param company_id query int false "Restrict to one company"
// @Success 200 {object} OverallDashboard
// @Failure 400 {object} ErrorResponse
// @Router /dashboard/filter [get]
func (ds *DashboardService) FilterDashboard(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse("2006-01-02", r.URL.Query().Get("start_date"))
	if err != nil {
		SendErrorResponse(w, "Invalid start_date", http.StatusBadRequest, nil)
		return
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("end_date"))
	if err != nil {
		SendErrorResponse(w, "Invalid end_date", http.StatusBadRequest, nil)
		return
	}
	if end.Before(start) {
		SendErrorResponse(w, "end_date must not be before start_date", http.StatusBadRequest, nil)
		return
	}
	rng := &ledger.Range{Start: start, End: end}

	if companyID := r.URL.Query().Get("company_id"); companyID != "" {
		id, err := strconv.ParseInt(companyID, 10, 64)
		if err != nil {
			SendErrorResponse(w, "Invalid company_id", http.StatusBadRequest, nil)
			return
		}

		var name string
		err = ds.db.QueryRow(`
			SELECT company_name FROM companies WHERE id = $1 AND is_deleted = FALSE`, id).Scan(&name)
		if err == sql.ErrNoRows {
			SendErrorResponse(w, "Company not found", http.StatusNotFound, nil)
			return
		}
		if err != nil {
			log.Printf("[DASHBOARD] Failed to load company %d: %v", id, err)
			SendErrorResponse(w, "Failed to build dashboard", http.StatusInternalServerError, nil)
			return
		}

		_, _, supplies, returns, err := ds.loadLedgers()
		if err != nil {
			log.Printf("[DASHBOARD] Failed to load ledgers: %v", err)
			SendErrorResponse(w, "Failed to build dashboard", http.StatusInternalServerError, nil)
			return
		}

		summary := ledger.SummarizeCompany(strconv.FormatInt(id, 10), supplies, returns, rng)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(companyView(summary, name))
		return
	}

	view, err := ds.BuildOverall(rng)
	if err != nil {
		log.Printf("[DASHBOARD] Failed to build filtered dashboard: %v", err)
		SendErrorResponse(w, "Failed to build dashboard", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}
