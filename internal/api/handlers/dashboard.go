package handlers

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ndewijer/finance-dashboard/internal/api/response"
	"github.com/ndewijer/finance-dashboard/internal/apperrors"
	"github.com/ndewijer/finance-dashboard/internal/model"
	"github.com/ndewijer/finance-dashboard/internal/report"
	"github.com/ndewijer/finance-dashboard/internal/service"
)

// DashboardHandler handles dashboard HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
	timezone         *time.Location
	logger           logrus.FieldLogger
}

// NewDashboardHandler creates a new DashboardHandler. Timestamps in the HTML page are
// shown in timezone.
func NewDashboardHandler(dashboardService *service.DashboardService, timezone *time.Location, logger logrus.FieldLogger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		timezone:         timezone,
		logger:           logger,
	}
}

// ExchangeRateResponse is the exchange rate used for a snapshot.
type ExchangeRateResponse struct {
	Pair       string  `json:"pair"`
	Rate       float64 `json:"rate"`
	Source     string  `json:"source"`
	IsFallback bool    `json:"isFallback"`
	Caption    string  `json:"caption"`
}

// SummaryResponse holds the portfolio totals in the reporting currency.
type SummaryResponse struct {
	TotalAssets           float64 `json:"totalAssets"`
	TotalPositionValue    float64 `json:"totalPositionValue"`
	TotalCash             float64 `json:"totalCash"`
	TotalUnrealizedPnL    float64 `json:"totalUnrealizedPnl"`
	TotalRealizedPnL      float64 `json:"totalRealizedPnl"`
	TotalProfit           float64 `json:"totalProfit"`
	ApproxInvestedCapital float64 `json:"approxInvestedCapital"`
	ApproxReturnRate      float64 `json:"approxReturnRate"`
	ReturnRateApproximate bool    `json:"returnRateApproximate"`
	TotalTodayChange      float64 `json:"totalTodayChange"`
	TodayChangePct        float64 `json:"todayChangePct"`
	CashAllocationPct     float64 `json:"cashAllocationPct"`
}

// ClassResponse holds the totals of one asset class.
type ClassResponse struct {
	AssetClass    model.AssetClass `json:"assetClass"`
	Label         string           `json:"label"`
	MarketValue   float64          `json:"marketValue"`
	UnrealizedPnL float64          `json:"unrealizedPnl"`
	RealizedPnL   float64          `json:"realizedPnl"`
	TotalProfit   float64          `json:"totalProfit"`
	TodayChange   float64          `json:"todayChange"`
}

// PositionResponse is one valued position. Tones tell the client how to color the
// signed fields.
type PositionResponse struct {
	Symbol              string           `json:"symbol"`
	Name                string           `json:"name"`
	AssetClass          model.AssetClass `json:"assetClass"`
	QuoteCurrency       string           `json:"quoteCurrency"`
	Quantity            float64          `json:"quantity"`
	LastPrice           float64          `json:"lastPrice"`
	PreviousPrice       float64          `json:"previousPrice"`
	ObservedDate        string           `json:"observedDate"`
	IsFreshToday        bool             `json:"isFreshToday"`
	Change              float64          `json:"change"`
	ChangePct           float64          `json:"changePct"`
	MarketValue         float64          `json:"marketValue"`
	CostValue           float64          `json:"costValue"`
	UnrealizedPnL       float64          `json:"unrealizedPnl"`
	UnrealizedReturnPct float64          `json:"unrealizedReturnPct"`
	TodayPnL            float64          `json:"todayPnl"`
	AllocationPct       float64          `json:"allocationPct"`
	Tones               PositionTones    `json:"tones"`
}

// PositionTones holds the sign tone of each signed position field.
type PositionTones struct {
	Change     report.Tone `json:"change"`
	TodayPnL   report.Tone `json:"todayPnl"`
	Unrealized report.Tone `json:"unrealized"`
}

// AllocationResponse is one slice of the allocation chart.
type AllocationResponse struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Pct   float64 `json:"pct"`
}

// CashResponse is one cash balance in its own currency.
type CashResponse struct {
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// DashboardResponse is the JSON form of a portfolio snapshot.
type DashboardResponse struct {
	ID                string                `json:"id"`
	GeneratedAt       time.Time             `json:"generatedAt"`
	ReportingCurrency string                `json:"reportingCurrency"`
	ExchangeRate      ExchangeRateResponse  `json:"exchangeRate"`
	Summary           SummaryResponse       `json:"summary"`
	Classes           []ClassResponse       `json:"classes"`
	Positions         []PositionResponse    `json:"positions"`
	Allocation        []AllocationResponse  `json:"allocation"`
	Cash              []CashResponse        `json:"cash"`
	Failures          []model.SymbolFailure `json:"failures"`
	Warnings          []string              `json:"warnings"`
}

// NewDashboardResponse converts a snapshot, rounding money to two decimals.
func NewDashboardResponse(snap model.PortfolioSnapshot) DashboardResponse {
	resp := DashboardResponse{
		ID:                snap.ID,
		GeneratedAt:       snap.GeneratedAt,
		ReportingCurrency: snap.ReportingCurrency,
		ExchangeRate: ExchangeRateResponse{
			Pair:       snap.ExchangeRate.Pair,
			Rate:       rate(snap.ExchangeRate.Rate),
			Source:     snap.ExchangeRate.Source,
			IsFallback: snap.ExchangeRate.IsFallback,
			Caption:    report.RateCaption(snap.ExchangeRate),
		},
		Summary: SummaryResponse{
			TotalAssets:           money(snap.TotalAssets),
			TotalPositionValue:    money(snap.TotalPositionValue),
			TotalCash:             money(snap.TotalCash),
			TotalUnrealizedPnL:    money(snap.TotalUnrealizedPnL),
			TotalRealizedPnL:      money(snap.TotalRealizedPnL),
			TotalProfit:           money(snap.TotalProfit),
			ApproxInvestedCapital: money(snap.ApproxInvestedCapital),
			ApproxReturnRate:      money(snap.ApproxReturnRate),
			ReturnRateApproximate: snap.ReturnRateApproximate,
			TotalTodayChange:      money(snap.TotalTodayChange),
			TodayChangePct:        money(snap.TodayChangePct),
			CashAllocationPct:     money(snap.CashAllocationPct),
		},
		Classes:    make([]ClassResponse, 0, len(snap.Classes)),
		Positions:  make([]PositionResponse, 0, len(snap.Positions)),
		Allocation: []AllocationResponse{},
		Cash:       make([]CashResponse, 0, len(snap.Cash)),
		Failures:   append([]model.SymbolFailure{}, snap.Failures...),
		Warnings:   append([]string{}, snap.Warnings...),
	}

	for _, c := range snap.Classes {
		resp.Classes = append(resp.Classes, ClassResponse{
			AssetClass:    c.AssetClass,
			Label:         c.AssetClass.Label(),
			MarketValue:   money(c.MarketValue),
			UnrealizedPnL: money(c.UnrealizedPnL),
			RealizedPnL:   money(c.RealizedPnL),
			TotalProfit:   money(c.TotalProfit),
			TodayChange:   money(c.TodayChange),
		})
	}

	for _, p := range snap.Positions {
		resp.Positions = append(resp.Positions, PositionResponse{
			Symbol:              p.Instrument.Symbol,
			Name:                p.Instrument.DisplayName(),
			AssetClass:          p.Instrument.AssetClass,
			QuoteCurrency:       p.Instrument.QuoteCurrency,
			Quantity:            p.Quantity.InexactFloat64(),
			LastPrice:           money(p.LastPrice),
			PreviousPrice:       money(p.PreviousPrice),
			ObservedDate:        p.ObservedDate,
			IsFreshToday:        p.IsFreshToday,
			Change:              money(p.PriorPeriodChange),
			ChangePct:           money(p.PriorPeriodChangePct),
			MarketValue:         money(p.MarketValue),
			CostValue:           money(p.CostValue),
			UnrealizedPnL:       money(p.UnrealizedPnL),
			UnrealizedReturnPct: money(p.UnrealizedReturnPct),
			TodayPnL:            money(p.SameDayPnL),
			AllocationPct:       money(p.AllocationPct),
			Tones: PositionTones{
				Change:     report.ToneOf(p.PriorPeriodChange),
				TodayPnL:   report.ToneOf(p.SameDayPnL),
				Unrealized: report.ToneOf(p.UnrealizedPnL),
			},
		})
	}

	for _, s := range report.Allocation(snap) {
		resp.Allocation = append(resp.Allocation, AllocationResponse{
			Label: s.Label,
			Value: money(s.Value),
			Pct:   money(s.Pct),
		})
	}

	for _, c := range snap.Cash {
		resp.Cash = append(resp.Cash, CashResponse{
			Name:     c.Name,
			Amount:   money(c.Amount),
			Currency: c.Currency,
		})
	}

	return resp
}

// Dashboard handles GET requests for a fresh portfolio snapshot.
//
// Endpoint: GET /api/dashboard
// Response: 200 OK with DashboardResponse
// Error: 500 Internal Server Error if the settings could not be saved
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dashboardService.Snapshot(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRefreshDashboard.Error(), err)
		return
	}

	response.RespondJSON(w, http.StatusOK, NewDashboardResponse(snap))
}

// PositionsCSV handles GET requests for the positions table as a CSV download.
//
// Endpoint: GET /api/dashboard/positions.csv
// Response: 200 OK with text/csv body
// Error: 500 Internal Server Error if the refresh or encoding fails
func (h *DashboardHandler) PositionsCSV(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dashboardService.Snapshot(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRefreshDashboard.Error(), err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="positions.csv"`)
	if err := report.WriteCSV(w, snap); err != nil {
		// Headers are already sent; the client sees a truncated body.
		h.logger.WithError(err).Error("failed to write positions csv")
	}
}

// Page handles GET requests for the HTML dashboard.
//
// Endpoint: GET /
// Response: 200 OK with text/html body
// Error: 500 Internal Server Error if the refresh or rendering fails
func (h *DashboardHandler) Page(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dashboardService.Snapshot(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRefreshDashboard.Error(), err)
		return
	}

	page, err := report.HTML(snap, report.Options{Timezone: h.timezone})
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRenderDashboard.Error(), err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(page); err != nil {
		h.logger.WithError(err).Debug("failed to write dashboard page")
	}
}
