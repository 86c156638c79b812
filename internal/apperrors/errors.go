package apperrors

import "errors"

// Price source errors describe why a symbol could not be resolved.
// They are wrapped into per-symbol failures and never abort a refresh.
var (
	// ErrSymbolNotFound indicates that the price source returned no result for a symbol.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrNoPriceData indicates that the source answered but without usable closes.
	ErrNoPriceData = errors.New("no price data returned")

	// ErrMismatchedData indicates that the timestamp and close arrays differ in length.
	ErrMismatchedData = errors.New("mismatched data lengths")

	// ErrSourceError wraps an error message reported by the price source itself.
	ErrSourceError = errors.New("price source error")

	// ErrIntradayUnsupported indicates that a price source has no intraday series.
	ErrIntradayUnsupported = errors.New("intraday prices not supported")
)

// Settings errors.
var (
	// ErrSettingsNotFound indicates that no settings have been persisted yet.
	ErrSettingsNotFound = errors.New("settings not found")

	// ErrFailedToSaveSettings indicates the settings store could not persist a value.
	ErrFailedToSaveSettings = errors.New("failed to save settings")

	// ErrInvalidSettings indicates that submitted settings failed validation.
	ErrInvalidSettings = errors.New("invalid settings")

	// ErrUnknownSettingsBackend indicates an unsupported settings.backend value.
	ErrUnknownSettingsBackend = errors.New("unknown settings backend")
)

// Configuration errors.
var (
	ErrUnknownPriceSource  = errors.New("unknown price source")
	ErrInvalidCostCurrency = errors.New("invalid crypto cost currency")
)

// Operation failure errors are returned to HTTP clients as the "error" field.
var (
	ErrFailedToRefreshDashboard = errors.New("failed to refresh dashboard")
	ErrFailedToRenderDashboard  = errors.New("failed to render dashboard")
	ErrFailedToGetVersionInfo   = errors.New("failed to get version information")
)
