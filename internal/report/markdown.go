package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/finance-dashboard/internal/model"
)

// Options controls markdown rendering.
type Options struct {
	// Color wraps signed cells in inline HTML spans. Only useful when the markdown is
	// rendered to HTML.
	Color bool
	// Timezone used for the generated-at line, UTC when nil.
	Timezone *time.Location
}

// Markdown renders the snapshot as a markdown dashboard: headline metrics, the
// exchange-rate caption, class totals, allocation including cash, the positions table
// and any warnings.
func Markdown(snap model.PortfolioSnapshot, opts Options) string {
	var b strings.Builder
	ccy := snap.ReportingCurrency

	loc := opts.Timezone
	if loc == nil {
		loc = time.UTC
	}

	fmt.Fprint(&b, "# Portfolio Dashboard\n\n")
	if !snap.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "Generated %s\n\n", snap.GeneratedAt.In(loc).Format("2006-01-02 15:04:05 MST"))
	}

	fmt.Fprintln(&b, "| Metric | Value | Change |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	fmt.Fprintf(&b, "| Total assets (%s) | %s | |\n", ccy, FormatMoney(snap.TotalAssets, ccy))
	fmt.Fprintf(&b, "| Total profit (%s) | %s | %s (approx.) |\n", ccy,
		signed(opts, FormatSignedMoney(snap.TotalProfit, ccy), snap.TotalProfit),
		signed(opts, FormatChangePct(snap.ApproxReturnRate), snap.ApproxReturnRate))
	fmt.Fprintf(&b, "| Today's change (%s) | %s | %s |\n", ccy,
		signed(opts, FormatSignedMoney(snap.TotalTodayChange, ccy), snap.TotalTodayChange),
		signed(opts, FormatChangePct(snap.TodayChangePct), snap.TodayChangePct))
	fmt.Fprintf(&b, "| Cash (%s) | %s | |\n\n", ccy, FormatMoney(snap.TotalCash, ccy))

	fmt.Fprintf(&b, "_%s_\n\n", RateCaption(snap.ExchangeRate))

	fmt.Fprint(&b, "## Asset Classes\n\n")
	fmt.Fprintln(&b, "| Class | Market value | Unrealized | Realized | Total profit | Today |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|")
	for _, c := range snap.Classes {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			c.AssetClass.Label(),
			FormatMoney(c.MarketValue, ccy),
			signed(opts, FormatSignedMoney(c.UnrealizedPnL, ccy), c.UnrealizedPnL),
			signed(opts, FormatSignedMoney(c.RealizedPnL, ccy), c.RealizedPnL),
			signed(opts, FormatSignedMoney(c.TotalProfit, ccy), c.TotalProfit),
			signed(opts, FormatSignedMoney(c.TodayChange, ccy), c.TodayChange),
		)
	}
	fmt.Fprintln(&b)

	fmt.Fprint(&b, "## Allocation (incl. cash)\n\n")
	for _, slice := range Allocation(snap) {
		fmt.Fprintf(&b, "- %s: %s (%s)\n", cell(slice.Label), FormatAllocation(slice.Pct), FormatMoney(slice.Value, ccy))
	}
	fmt.Fprintln(&b)

	fmt.Fprint(&b, "## Positions\n\n")
	rows := BuildRows(snap)
	if len(rows) == 0 {
		fmt.Fprint(&b, "No positions could be valued.\n\n")
	} else {
		fmt.Fprintln(&b, "| Symbol | Name | Price | Change | Change % | Today | Allocation | Return % | Unrealized |")
		fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|---:|---:|")
		for i, r := range rows {
			p := snap.Positions[i]
			price := r.LastPrice
			if !r.Fresh {
				price += " *"
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
				cell(r.Symbol), cell(r.Name), price,
				signed(opts, r.Change, p.PriorPeriodChange),
				signed(opts, r.ChangePct, p.PriorPeriodChangePct),
				signed(opts, r.SameDayPnL, p.SameDayPnL),
				r.Allocation,
				signed(opts, r.ReturnPct, p.UnrealizedReturnPct),
				signed(opts, r.Unrealized, p.UnrealizedPnL),
			)
		}
		fmt.Fprint(&b, "\n\\* last close is not from today's session\n\n")
	}

	if len(snap.Warnings) > 0 {
		fmt.Fprint(&b, "## Warnings\n\n")
		for _, w := range snap.Warnings {
			fmt.Fprintf(&b, "- %s\n", cell(w))
		}
		fmt.Fprintln(&b)
	}

	return b.String()
}

// RateCaption describes the exchange rate used for foreign amounts.
func RateCaption(rate model.ExchangeRate) string {
	caption := fmt.Sprintf("Foreign P&L converted at 1:%s (%s, source %s)", rate.Rate.StringFixed(2), rate.Pair, rate.Source)
	if rate.IsFallback {
		caption += ", live rate unavailable"
	}
	return caption
}

// Slice is one entry of the allocation breakdown.
type Slice struct {
	Label string
	Value decimal.Decimal
	Pct   decimal.Decimal
}

// Allocation lists every position and, when positive, the cash total.
func Allocation(snap model.PortfolioSnapshot) []Slice {
	slices := make([]Slice, 0, len(snap.Positions)+1)
	for _, p := range snap.Positions {
		slices = append(slices, Slice{
			Label: p.Instrument.Symbol,
			Value: p.MarketValue,
			Pct:   p.AllocationPct,
		})
	}
	if snap.TotalCash.IsPositive() {
		slices = append(slices, Slice{Label: "Cash", Value: snap.TotalCash, Pct: snap.CashAllocationPct})
	}
	return slices
}

var cellEscaper = strings.NewReplacer("|", "\\|", "<", "&lt;", ">", "&gt;", "&", "&amp;")

// cell escapes user supplied text for a table cell or list item.
func cell(s string) string {
	return cellEscaper.Replace(s)
}

func signed(opts Options, text string, value decimal.Decimal) string {
	if !opts.Color {
		return text
	}
	color := ToneOf(value).Color()
	if color == "" {
		return text
	}
	return fmt.Sprintf(`<span style="color:%s">%s</span>`, color, text)
}
