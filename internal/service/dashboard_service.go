package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ndewijer/finance-dashboard/internal/model"
)

// DashboardService runs the refresh pipeline: settings to positions, quote
// resolution, position valuation and portfolio aggregation.
type DashboardService struct {
	resolver     QuoteResolver
	settings     *SettingsService
	pair         model.CurrencyPair
	costCurrency model.CostCurrency
	now          func() time.Time
	logger       logrus.FieldLogger
}

// DashboardOptions configures a DashboardService.
type DashboardOptions struct {
	Pair         model.CurrencyPair
	CostCurrency model.CostCurrency
	Now          func() time.Time
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(resolver QuoteResolver, settings *SettingsService, opts DashboardOptions, logger logrus.FieldLogger) *DashboardService {
	s := &DashboardService{
		resolver:     resolver,
		settings:     settings,
		pair:         opts.Pair,
		costCurrency: opts.CostCurrency,
		now:          opts.Now,
		logger:       logger,
	}
	if s.costCurrency == "" {
		s.costCurrency = model.CostInReporting
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Snapshot refreshes the dashboard with the current settings.
func (s *DashboardService) Snapshot(ctx context.Context) (model.PortfolioSnapshot, error) {
	return s.Refresh(ctx, s.settings.Current())
}

// Refresh persists settings if they changed, then computes a new snapshot from them.
// Only a settings save failure is returned; price problems end up as warnings.
func (s *DashboardService) Refresh(ctx context.Context, settings model.Settings) (model.PortfolioSnapshot, error) {
	if _, err := s.settings.Sync(ctx, settings); err != nil {
		return model.PortfolioSnapshot{}, err
	}

	positions := BuildPositions(settings, s.costCurrency)
	res := s.resolver.Resolve(ctx, Instruments(positions), s.pair)

	snap := Evaluate(positions, res, BuildCash(settings), BuildRealized(settings))
	snap.ID = uuid.NewString()
	snap.GeneratedAt = s.now()

	s.logger.WithFields(logrus.Fields{
		"snapshot_id": snap.ID,
		"positions":   len(snap.Positions),
		"failures":    len(snap.Failures),
		"rate_source": snap.ExchangeRate.Source,
	}).Info("dashboard refreshed")

	return snap, nil
}

// Evaluate values every position that has a quote and aggregates the result. It is
// the I/O free part of a refresh.
func Evaluate(positions []model.Position, res Resolution, cash []model.CashHolding, realized []model.RealizedProfit) model.PortfolioSnapshot {
	valued := make([]model.ValuedPosition, 0, len(positions))
	for _, p := range positions {
		if !p.Quantity.IsPositive() {
			continue
		}
		q, ok := res.Quotes[p.Instrument.Symbol]
		if !ok {
			continue
		}
		valued = append(valued, ValuePosition(p, q, res.Rate))
	}

	snap := Aggregate(AggregateInput{
		Positions: valued,
		Cash:      cash,
		Realized:  realized,
		Rate:      res.Rate,
	})
	snap.Failures = append([]model.SymbolFailure(nil), res.Failures...)
	snap.Warnings = append([]string(nil), res.Warnings...)
	return snap
}
