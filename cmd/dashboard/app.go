package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ndewijer/finance-dashboard/internal/apperrors"
	"github.com/ndewijer/finance-dashboard/internal/config"
	"github.com/ndewijer/finance-dashboard/internal/database"
	"github.com/ndewijer/finance-dashboard/internal/financego"
	"github.com/ndewijer/finance-dashboard/internal/model"
	"github.com/ndewijer/finance-dashboard/internal/repository"
	"github.com/ndewijer/finance-dashboard/internal/service"
	"github.com/ndewijer/finance-dashboard/internal/yahoo"
)

// app holds the wired services shared by the serve and snapshot commands.
type app struct {
	db        *sql.DB // nil for the file settings backend
	settings  *service.SettingsService
	dashboard *service.DashboardService
	system    *service.SystemService
}

func newApp(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*app, error) {
	a := &app{}

	store, err := a.openSettingsStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	a.settings = service.NewSettingsService(ctx, store, logger.WithField("component", "settings"))

	source, err := newPriceSource(cfg)
	if err != nil {
		a.close()
		return nil, err
	}

	quotes := service.NewQuoteService(source, service.QuoteServiceOptions{
		Lookback: time.Duration(cfg.Quotes.LookbackDays) * 24 * time.Hour,
		Intraday: cfg.Quotes.Intraday,
	}, logger.WithField("component", "quotes"))
	cached := service.NewCachedQuoteResolver(quotes, cfg.Quotes.CacheTTL, nil, logger.WithField("component", "quote_cache"))

	costCurrency := model.CostCurrency(cfg.Crypto.CostCurrency)
	a.dashboard = service.NewDashboardService(cached, a.settings, service.DashboardOptions{
		Pair:         cfg.CurrencyPair(),
		CostCurrency: costCurrency,
	}, logger.WithField("component", "dashboard"))

	info := service.SystemInfo{
		SettingsBackend: cfg.Settings.Backend,
		PriceSource:     cfg.Quotes.Source,
		Intraday:        cfg.Quotes.Intraday,
		CryptoCostInUSD: costCurrency == model.CostInQuote,
	}
	if saved, ok := store.(service.SettingsTimestamp); ok {
		info.SettingsSavedAt = saved
	}
	a.system = service.NewSystemService(a.db, info)

	return a, nil
}

func (a *app) openSettingsStore(cfg *config.Config, logger *logrus.Logger) (service.SettingsStore, error) {
	switch cfg.Settings.Backend {
	case "sqlite":
		db, err := database.Open(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		a.db = db
		logger.WithField("path", cfg.Database.Path).Info("Connected to database")
		return repository.NewSQLiteSettingsRepository(db), nil
	case "file":
		repo := repository.NewFileSettingsRepository(cfg.Settings.Path)
		logger.WithField("path", repo.Path()).Info("Using settings file")
		return repo, nil
	default:
		return nil, apperrors.ErrUnknownSettingsBackend
	}
}

func newPriceSource(cfg *config.Config) (service.PriceSource, error) {
	switch cfg.Quotes.Source {
	case "yahoo":
		return yahoo.NewFinanceClient(
			yahoo.WithHTTPClient(&http.Client{Timeout: cfg.Quotes.RequestTimeout}),
			yahoo.WithRateLimit(cfg.Quotes.RequestsPerSec),
		), nil
	case "financego":
		return financego.NewClient(), nil
	default:
		return nil, apperrors.ErrUnknownPriceSource
	}
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}
