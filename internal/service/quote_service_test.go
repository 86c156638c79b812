package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ndewijer/finance-dashboard/internal/apperrors"
	"github.com/ndewijer/finance-dashboard/internal/logging"
	"github.com/ndewijer/finance-dashboard/internal/model"
	"github.com/ndewijer/finance-dashboard/internal/service"
	"github.com/ndewijer/finance-dashboard/internal/testutil"
)

// now is 14:00 in Taipei and 02:00 in New York, both on 2026-10-15.
var now = time.Date(2026, 10, 15, 6, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2026, 10, d, 1, 0, 0, 0, time.UTC)
}

var usdTwd = model.CurrencyPair{
	Base:            model.ForeignCurrency,
	Quote:           model.ReportingCurrency,
	PrimarySymbol:   "TWD=X",
	SecondarySymbol: "USDTWD=X",
	FallbackRate:    32.5,
}

func newQuoteService(source service.PriceSource, intraday bool) *service.QuoteService {
	return service.NewQuoteService(source, service.QuoteServiceOptions{
		Intraday: intraday,
		Now:      testutil.FixedClock(now),
	}, logging.Discard())
}

func TestQuoteService_ResolveInstrument(t *testing.T) {
	ctx := context.Background()
	tsmc := service.DomesticInstrument("2330.TW", "")

	t.Run("bar dated today is fresh", func(t *testing.T) {
		source := testutil.NewMockPriceSource().WithDaily("2330.TW",
			testutil.Point(day(13), 98), testutil.Point(day(14), 100), testutil.Point(day(15), 104))

		out := newQuoteService(source, false).ResolveInstrument(ctx, tsmc)

		if out.Err != nil {
			t.Fatalf("ResolveInstrument() returned unexpected error: %v", out.Err)
		}
		assertDecimal(t, "last", out.Quote.LastPrice, "104")
		assertDecimal(t, "previous", out.Quote.PreviousPrice, "100")
		if !out.Quote.IsFreshToday {
			t.Error("Expected quote to be fresh")
		}
		if out.Quote.ObservedDate != "2026-10-15" {
			t.Errorf("Expected observed date 2026-10-15, got %s", out.Quote.ObservedDate)
		}
	})

	t.Run("last bar from an earlier day is stale", func(t *testing.T) {
		source := testutil.NewMockPriceSource().WithDaily("2330.TW",
			testutil.Point(day(13), 98), testutil.Point(day(14), 100))

		out := newQuoteService(source, false).ResolveInstrument(ctx, tsmc)

		if out.Quote.IsFreshToday {
			t.Error("Expected quote to be stale")
		}
		assertDecimal(t, "previous", out.Quote.PreviousPrice, "98")
	})

	t.Run("freshness uses the home timezone", func(t *testing.T) {
		// 23:00 UTC on the 14th is already the 15th in Taipei but still the 14th in New York.
		late := time.Date(2026, 10, 14, 23, 0, 0, 0, time.UTC)
		source := testutil.NewMockPriceSource().
			WithDaily("2330.TW", testutil.Point(day(13), 98), testutil.Point(late, 100)).
			WithDaily("AVGO", testutil.Point(day(13), 98), testutil.Point(late, 100))
		svc := newQuoteService(source, false)

		if out := svc.ResolveInstrument(ctx, tsmc); !out.Quote.IsFreshToday {
			t.Error("Expected domestic quote to be fresh in Taipei")
		}
		if out := svc.ResolveInstrument(ctx, service.ForeignInstrument("AVGO", "")); out.Quote.IsFreshToday {
			t.Error("Expected foreign quote to be stale in New York")
		}
	})

	t.Run("missing closes are skipped", func(t *testing.T) {
		source := testutil.NewMockPriceSource().WithDaily("2330.TW",
			testutil.Point(day(12), 97), testutil.Point(day(13), 99), testutil.Gap(day(14)))

		out := newQuoteService(source, false).ResolveInstrument(ctx, tsmc)

		assertDecimal(t, "last", out.Quote.LastPrice, "99")
		assertDecimal(t, "previous", out.Quote.PreviousPrice, "97")
	})

	t.Run("single close is its own previous price", func(t *testing.T) {
		source := testutil.NewMockPriceSource().WithDaily("2330.TW", testutil.Point(day(15), 100))

		out := newQuoteService(source, false).ResolveInstrument(ctx, tsmc)

		assertDecimal(t, "previous", out.Quote.PreviousPrice, "100")
	})

	t.Run("series without closes fails", func(t *testing.T) {
		source := testutil.NewMockPriceSource().WithDaily("2330.TW", testutil.Gap(day(15)))

		out := newQuoteService(source, false).ResolveInstrument(ctx, tsmc)

		if !errors.Is(out.Err, apperrors.ErrNoPriceData) {
			t.Errorf("Expected ErrNoPriceData, got %v", out.Err)
		}
	})

	t.Run("source error is returned", func(t *testing.T) {
		source := testutil.NewMockPriceSource().WithError("2330.TW", apperrors.ErrSymbolNotFound)

		out := newQuoteService(source, false).ResolveInstrument(ctx, tsmc)

		if !errors.Is(out.Err, apperrors.ErrSymbolNotFound) {
			t.Errorf("Expected ErrSymbolNotFound, got %v", out.Err)
		}
	})

	t.Run("intraday bar refreshes a stale daily series", func(t *testing.T) {
		source := testutil.NewMockPriceSource().
			WithDaily("2330.TW", testutil.Point(day(13), 98), testutil.Point(day(14), 100)).
			WithIntraday("2330.TW", testutil.Point(day(15), 103), testutil.Point(day(15).Add(time.Hour), 105))

		out := newQuoteService(source, true).ResolveInstrument(ctx, tsmc)

		assertDecimal(t, "last", out.Quote.LastPrice, "105")
		assertDecimal(t, "previous", out.Quote.PreviousPrice, "100")
		if !out.Quote.IsFreshToday || !out.Quote.Intraday {
			t.Error("Expected a fresh intraday quote")
		}
	})

	t.Run("intraday bar keeps the prior close when today's daily bar exists", func(t *testing.T) {
		source := testutil.NewMockPriceSource().
			WithDaily("2330.TW", testutil.Point(day(14), 100), testutil.Point(day(15), 104)).
			WithIntraday("2330.TW", testutil.Point(day(15).Add(time.Hour), 106))

		out := newQuoteService(source, true).ResolveInstrument(ctx, tsmc)

		assertDecimal(t, "last", out.Quote.LastPrice, "106")
		assertDecimal(t, "previous", out.Quote.PreviousPrice, "100")
	})

	t.Run("intraday bar from another day is ignored", func(t *testing.T) {
		source := testutil.NewMockPriceSource().
			WithDaily("2330.TW", testutil.Point(day(13), 98), testutil.Point(day(14), 100)).
			WithIntraday("2330.TW", testutil.Point(day(14).Add(time.Hour), 101))

		out := newQuoteService(source, true).ResolveInstrument(ctx, tsmc)

		assertDecimal(t, "last", out.Quote.LastPrice, "100")
		if out.Quote.IsFreshToday || out.Quote.Intraday {
			t.Error("Expected the daily quote to stay stale")
		}
	})

	t.Run("intraday failure keeps the daily quote", func(t *testing.T) {
		source := testutil.NewMockPriceSource().
			WithDaily("2330.TW", testutil.Point(day(13), 98), testutil.Point(day(14), 100))
		source.IntradayError = apperrors.ErrIntradayUnsupported

		out := newQuoteService(source, true).ResolveInstrument(ctx, tsmc)

		if out.Err != nil {
			t.Fatalf("ResolveInstrument() returned unexpected error: %v", out.Err)
		}
		assertDecimal(t, "last", out.Quote.LastPrice, "100")
	})

	t.Run("crypto is always fresh and skips intraday", func(t *testing.T) {
		source := testutil.NewMockPriceSource().
			WithDaily(service.BTCSymbol, testutil.Point(day(10), 60000), testutil.Point(day(11), 61000))

		out := newQuoteService(source, true).ResolveInstrument(ctx, service.CryptoInstrument(service.BTCSymbol, ""))

		if !out.Quote.IsFreshToday {
			t.Error("Expected crypto quote to be fresh")
		}
		if source.IntradayQueries[service.BTCSymbol] != 0 {
			t.Errorf("Expected no intraday lookups, got %d", source.IntradayQueries[service.BTCSymbol])
		}
	})
}

func TestQuoteService_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("a failing symbol does not affect the others", func(t *testing.T) {
		source := testutil.NewMockPriceSource().
			WithDaily("2330.TW", testutil.Point(day(15), 100)).
			WithDaily("AVGO", testutil.Point(day(15), 300)).
			WithError("BOGUS", apperrors.ErrSymbolNotFound).
			WithDaily("TWD=X", testutil.Point(day(15), 31.9))

		res := newQuoteService(source, false).Resolve(ctx, []model.Instrument{
			service.DomesticInstrument("2330.TW", ""),
			service.ForeignInstrument("BOGUS", ""),
			service.ForeignInstrument("AVGO", ""),
		}, usdTwd)

		if len(res.Quotes) != 2 {
			t.Errorf("Expected 2 quotes, got %d", len(res.Quotes))
		}
		if len(res.Failures) != 1 || res.Failures[0].Symbol != "BOGUS" {
			t.Errorf("Expected BOGUS to fail, got %+v", res.Failures)
		}
		if len(res.Warnings) != 1 || !strings.HasPrefix(res.Warnings[0], "BOGUS: ") {
			t.Errorf("Expected one BOGUS warning, got %v", res.Warnings)
		}
		assertDecimal(t, "rate", res.Rate.Rate, "31.9")
	})

	t.Run("stops fetching once the context is cancelled", func(t *testing.T) {
		source := testutil.NewMockPriceSource().
			WithDaily("2330.TW", testutil.Point(day(15), 100)).
			WithDaily("AVGO", testutil.Point(day(15), 300))
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		res := newQuoteService(source, false).Resolve(cancelled, []model.Instrument{
			service.DomesticInstrument("2330.TW", ""),
			service.ForeignInstrument("AVGO", ""),
		}, usdTwd)

		if source.DailyQueries["2330.TW"] != 0 || source.DailyQueries["AVGO"] != 0 {
			t.Errorf("Expected no instrument lookups, got %v", source.DailyQueries)
		}
		if len(res.Quotes) != 0 || len(res.Failures) != 2 {
			t.Errorf("Expected both symbols to fail, got %d quotes and %+v", len(res.Quotes), res.Failures)
		}
		if len(res.Warnings) != 2 || !strings.HasPrefix(res.Warnings[0], "2 symbols not resolved: ") {
			t.Errorf("Expected one skip warning and one rate warning, got %v", res.Warnings)
		}
		if !res.Rate.IsFallback {
			t.Error("Expected the fallback rate")
		}
	})
}

func TestQuoteService_ResolveRate(t *testing.T) {
	ctx := context.Background()

	t.Run("uses the primary symbol", func(t *testing.T) {
		source := testutil.NewMockPriceSource().
			WithDaily("TWD=X", testutil.Point(day(14), 31.5), testutil.Point(day(15), 31.8))

		rate, warning := newQuoteService(source, false).ResolveRate(ctx, usdTwd)

		assertDecimal(t, "rate", rate.Rate, "31.8")
		if rate.Source != "TWD=X" || rate.IsFallback || warning != "" {
			t.Errorf("Expected primary rate without warning, got %+v %q", rate, warning)
		}
		if source.DailyQueries["USDTWD=X"] != 0 {
			t.Error("Expected secondary symbol not to be queried")
		}
	})

	t.Run("falls back to the secondary symbol", func(t *testing.T) {
		source := testutil.NewMockPriceSource().
			WithError("TWD=X", apperrors.ErrSourceError).
			WithDaily("USDTWD=X", testutil.Point(day(15), 32.1))

		rate, warning := newQuoteService(source, false).ResolveRate(ctx, usdTwd)

		assertDecimal(t, "rate", rate.Rate, "32.1")
		if rate.Source != "USDTWD=X" || warning != "" {
			t.Errorf("Expected secondary rate without warning, got %+v %q", rate, warning)
		}
	})

	t.Run("uses the fallback constant when both symbols fail", func(t *testing.T) {
		source := testutil.NewMockPriceSource().
			WithError("TWD=X", apperrors.ErrSourceError).
			WithDaily("USDTWD=X", testutil.Point(day(15), 0))

		rate, warning := newQuoteService(source, false).ResolveRate(ctx, usdTwd)

		assertDecimal(t, "rate", rate.Rate, "32.5")
		if !rate.IsFallback || rate.Source != model.RateSourceFallback {
			t.Errorf("Expected fallback rate, got %+v", rate)
		}
		if !strings.Contains(warning, "32.5") {
			t.Errorf("Expected warning to mention the fallback rate, got %q", warning)
		}
	})
}
