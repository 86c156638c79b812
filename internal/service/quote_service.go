package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ndewijer/finance-dashboard/internal/apperrors"
	"github.com/ndewijer/finance-dashboard/internal/model"
)

// DefaultLookback is the daily history window requested per symbol. It is long enough
// to cover weekends, exchange holidays and short gaps in the source.
const DefaultLookback = 30 * 24 * time.Hour

// rateLookback is the daily history window requested for exchange-rate symbols.
const rateLookback = 10 * 24 * time.Hour

// PriceSource is the market-data boundary. Both calls may fail per symbol; callers
// treat failure as "no data for this symbol".
type PriceSource interface {
	DailyHistory(ctx context.Context, symbol string, lookback time.Duration) ([]model.PricePoint, error)
	IntradayHistory(ctx context.Context, symbol string) ([]model.PricePoint, error)
}

// QuoteResolver produces quotes for a set of instruments plus one exchange rate.
// Resolve never fails as a whole; per-symbol problems are reported in the Resolution.
type QuoteResolver interface {
	Resolve(ctx context.Context, instruments []model.Instrument, pair model.CurrencyPair) Resolution
}

// Resolution is the output of quote resolution.
type Resolution struct {
	Quotes   map[string]model.Quote
	Failures []model.SymbolFailure
	Rate     model.ExchangeRate
	Warnings []string
}

// Clone returns a copy that shares no mutable state with r.
func (r Resolution) Clone() Resolution {
	c := Resolution{
		Quotes:   make(map[string]model.Quote, len(r.Quotes)),
		Failures: append([]model.SymbolFailure(nil), r.Failures...),
		Rate:     r.Rate,
		Warnings: append([]string(nil), r.Warnings...),
	}
	for k, v := range r.Quotes {
		c.Quotes[k] = v
	}
	return c
}

// QuoteOutcome is the result of resolving one instrument: either Quote is valid or
// Err explains why the instrument was skipped.
type QuoteOutcome struct {
	Symbol string
	Quote  model.Quote
	Err    error
}

// QuoteServiceOptions configures a QuoteService.
type QuoteServiceOptions struct {
	Lookback time.Duration    // daily history window, DefaultLookback when zero
	Intraday bool             // try intraday bars for a fresher last price
	Now      func() time.Time // wall clock, time.Now when nil
}

// QuoteService resolves quotes from a PriceSource, one symbol at a time so that a bad
// symbol can only ever affect itself.
type QuoteService struct {
	source   PriceSource
	lookback time.Duration
	intraday bool
	now      func() time.Time
	logger   logrus.FieldLogger
}

// NewQuoteService creates a new QuoteService.
func NewQuoteService(source PriceSource, opts QuoteServiceOptions, logger logrus.FieldLogger) *QuoteService {
	s := &QuoteService{
		source:   source,
		lookback: opts.Lookback,
		intraday: opts.Intraday,
		now:      opts.Now,
		logger:   logger,
	}
	if s.lookback <= 0 {
		s.lookback = DefaultLookback
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Resolve fetches a quote for every instrument and the exchange rate for pair.
//
// Instruments are resolved sequentially. A failed instrument is omitted from Quotes
// and recorded both as a SymbolFailure and as a "<symbol>: <reason>" warning. Once ctx
// is done the remaining instruments are not fetched; they are reported as failures
// under a single warning.
func (s *QuoteService) Resolve(ctx context.Context, instruments []model.Instrument, pair model.CurrencyPair) Resolution {
	res := Resolution{Quotes: make(map[string]model.Quote, len(instruments))}

	skipped := 0
	for _, inst := range instruments {
		if err := ctx.Err(); err != nil {
			res.Failures = append(res.Failures, model.SymbolFailure{Symbol: inst.Symbol, Reason: err.Error()})
			skipped++
			continue
		}
		outcome := s.ResolveInstrument(ctx, inst)
		if outcome.Err != nil {
			s.logger.WithError(outcome.Err).WithField("symbol", inst.Symbol).Warn("quote resolution failed")
			res.Failures = append(res.Failures, model.SymbolFailure{Symbol: inst.Symbol, Reason: outcome.Err.Error()})
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", inst.Symbol, outcome.Err))
			continue
		}
		res.Quotes[inst.Symbol] = outcome.Quote
	}

	if skipped > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%d symbols not resolved: %v", skipped, ctx.Err()))
	}

	rate, warning := s.ResolveRate(ctx, pair)
	res.Rate = rate
	if warning != "" {
		res.Warnings = append(res.Warnings, warning)
	}

	return res
}

// ResolveInstrument derives a quote for one instrument from its daily closes, then
// optionally refreshes the last price from intraday bars.
//
// The quote is fresh-today when its observation date equals today's date in the
// instrument's home timezone. Instruments without sessions are always fresh.
func (s *QuoteService) ResolveInstrument(ctx context.Context, inst model.Instrument) QuoteOutcome {
	outcome := QuoteOutcome{Symbol: inst.Symbol}

	points, err := s.source.DailyHistory(ctx, inst.Symbol, s.lookback)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	closes := observedCloses(points)
	if len(closes) == 0 {
		outcome.Err = apperrors.ErrNoPriceData
		return outcome
	}

	loc := inst.Location()
	today := dateKey(s.now(), loc)

	last := closes[len(closes)-1]
	previous := last
	if len(closes) >= 2 {
		previous = closes[len(closes)-2]
	}

	q := model.Quote{
		Symbol:        inst.Symbol,
		LastPrice:     last.price,
		PreviousPrice: previous.price,
		ObservedAt:    last.at,
		ObservedDate:  dateKey(last.at, loc),
	}
	q.IsFreshToday = q.ObservedDate == today

	if inst.TradesContinuously() {
		q.IsFreshToday = true
		outcome.Quote = q
		return outcome
	}

	if s.intraday {
		if bar, ok := s.latestIntraday(ctx, inst); ok && dateKey(bar.at, loc) == today {
			// The daily series has no bar for today yet, so its last close is the baseline.
			if q.ObservedDate != today {
				q.PreviousPrice = q.LastPrice
			}
			q.LastPrice = bar.price
			q.ObservedAt = bar.at
			q.ObservedDate = today
			q.IsFreshToday = true
			q.Intraday = true
		}
	}

	outcome.Quote = q
	return outcome
}

// latestIntraday returns the most recent intraday close. Failures are silent: the
// caller keeps the daily-only quote.
func (s *QuoteService) latestIntraday(ctx context.Context, inst model.Instrument) (closeAt, bool) {
	points, err := s.source.IntradayHistory(ctx, inst.Symbol)
	if err != nil {
		s.logger.WithError(err).WithField("symbol", inst.Symbol).Debug("intraday lookup failed")
		return closeAt{}, false
	}
	closes := observedCloses(points)
	if len(closes) == 0 {
		return closeAt{}, false
	}
	return closes[len(closes)-1], true
}

// ResolveRate walks the exchange-rate chain: primary symbol, secondary symbol, then
// the fixed fallback. It always returns a usable rate; the warning is non-empty only
// when the fallback constant was used.
func (s *QuoteService) ResolveRate(ctx context.Context, pair model.CurrencyPair) (model.ExchangeRate, string) {
	for _, symbol := range []string{pair.PrimarySymbol, pair.SecondarySymbol} {
		if symbol == "" {
			continue
		}
		rate, err := s.fetchRate(ctx, symbol)
		if err != nil {
			s.logger.WithError(err).WithField("symbol", symbol).Warn("exchange rate lookup failed")
			continue
		}
		return model.ExchangeRate{Pair: pair.Name(), Rate: rate, Source: symbol}, ""
	}

	rate := decimal.NewFromFloat(pair.FallbackRate)
	warning := fmt.Sprintf("%s: exchange rate unavailable, using %s rate %s", pair.Name(), model.RateSourceFallback, rate.String())
	return model.ExchangeRate{
		Pair:       pair.Name(),
		Rate:       rate,
		Source:     model.RateSourceFallback,
		IsFallback: true,
	}, warning
}

func (s *QuoteService) fetchRate(ctx context.Context, symbol string) (decimal.Decimal, error) {
	points, err := s.source.DailyHistory(ctx, symbol, rateLookback)
	if err != nil {
		return decimal.Zero, err
	}
	closes := observedCloses(points)
	if len(closes) == 0 {
		return decimal.Zero, apperrors.ErrNoPriceData
	}
	rate := closes[len(closes)-1].price
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: non-positive rate %s", apperrors.ErrNoPriceData, rate)
	}
	return rate, nil
}

type closeAt struct {
	at    time.Time
	price decimal.Decimal
}

// observedCloses drops gaps and orders the remaining closes oldest first.
func observedCloses(points []model.PricePoint) []closeAt {
	closes := make([]closeAt, 0, len(points))
	for _, p := range points {
		if p.Close == nil {
			continue
		}
		closes = append(closes, closeAt{at: p.Time, price: *p.Close})
	}
	sort.SliceStable(closes, func(i, j int) bool { return closes[i].at.Before(closes[j].at) })
	return closes
}

// dateKey formats t as a calendar date in loc.
func dateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
