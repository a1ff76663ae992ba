package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"CoinLens/internal/model"
)

func usd(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

func pct(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", *p)
}

// FormatSnapshot formats the headline dashboard numbers.
func FormatSnapshot(snap *model.Snapshot) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>CoinLens</b> | %s\n\n", snap.TakenAt.Format("2006-01-02 15:04")))
	if snap.LatestDate == "" {
		b.WriteString("No price data yet\n")
	} else {
		b.WriteString(fmt.Sprintf("Price (%s): %s\n", snap.LatestDate, usd(snap.LatestPrice)))
		b.WriteString(fmt.Sprintf("YTD: %s\n", pct(snap.YTDReturnPct)))
		b.WriteString(fmt.Sprintf("Model price: %s", usd(snap.ModelPrice)))
		if snap.ValuationRatio != nil {
			b.WriteString(fmt.Sprintf(" (ratio %.2f)", *snap.ValuationRatio))
		}
		b.WriteString("\n")
	}
	if snap.AHR999 != nil {
		b.WriteString(fmt.Sprintf("AHR999 (%s): %.3f %s, trend %s\n",
			snap.AHR999.Date, snap.AHR999.IndexValue, snap.AHR999.Phase, snap.AHR999.Trend))
	}
	return b.String()
}

// FormatReturns formats one year of monthly, quarterly and yearly returns.
func FormatReturns(yr *model.YearReturns) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📈 <b>Returns %d</b>\n\n", yr.Year))
	for _, m := range yr.Months {
		b.WriteString(fmt.Sprintf("%s: %s\n", m.Label, pct(m.ReturnPct)))
	}
	b.WriteString("\n")
	for _, q := range yr.Quarters {
		b.WriteString(fmt.Sprintf("%s: %s\n", q.Label, pct(q.ReturnPct)))
	}
	b.WriteString(fmt.Sprintf("\nYear: %s\n", pct(yr.Total.ReturnPct)))
	return b.String()
}

// FormatHalving formats the cycle comparison.
func FormatHalving(rep *model.HalvingReport) string {
	var b strings.Builder
	b.WriteString("⛏ <b>Halving cycles</b>\n\n")
	for i, c := range rep.Historical {
		b.WriteString(fmt.Sprintf("%s cycle (%s): ATH %s after %d days, -%.1f%% in %d days\n",
			humanize.Ordinal(i+1), c.HalvingDate, usd(c.AthPrice), c.DaysHalvingToAth, c.DrawdownPct, c.DaysAthToTrough))
	}
	a := rep.Averages
	b.WriteString(fmt.Sprintf("\nAverage: %.0f days to ATH, -%.1f%%, %.0f days to trough\n",
		a.DaysHalvingToAth, a.DrawdownPct, a.DaysAthToTrough))
	if rep.Progress != nil {
		b.WriteString(fmt.Sprintf("Current cycle: day %s since %s\n",
			humanize.Comma(int64(rep.Progress.DaysSinceHalving)), rep.Progress.HalvingDate))
	}
	for _, p := range rep.Predictions {
		if !p.Valid {
			b.WriteString(fmt.Sprintf("⚠️ %s: %s\n", p.Prediction.Source, p.Problem))
			continue
		}
		b.WriteString(fmt.Sprintf("%s: ATH %s (%+.0f days vs avg), drawdown %+.1f pts\n",
			p.Prediction.Source, p.Prediction.AthDate, p.DaysToAthDelta, p.DrawdownDelta))
	}
	if rep.NextHalving != nil {
		b.WriteString(fmt.Sprintf("Next halving: %s (%s)\n",
			rep.NextHalving.UTC().Format("2006-01-02 15:04 MST"), humanize.Time(*rep.NextHalving)))
	}
	return b.String()
}

// FormatCountdown formats the remaining time to target.
func FormatCountdown(name string, target time.Time, rem model.Remaining) string {
	if rem.State == model.CountdownElapsed {
		return FormatCountdownElapsed(name, target)
	}
	return fmt.Sprintf("⏳ <b>%s</b>: %dd %02dh %02dm %02ds (%s)",
		name, rem.Days, rem.Hours, rem.Minutes, rem.Seconds, target.UTC().Format("2006-01-02 15:04 MST"))
}

// FormatCountdownElapsed announces a countdown reaching its target.
func FormatCountdownElapsed(name string, target time.Time) string {
	return fmt.Sprintf("🔔 <b>%s</b> reached at %s", name, target.UTC().Format("2006-01-02 15:04 MST"))
}

// FormatPhaseChange announces the latest AHR999 point moving to another zone.
func FormatPhaseChange(prev, cur *model.ClassifiedPoint) string {
	return fmt.Sprintf("🚦 <b>AHR999 zone change</b> | %s\n\n%s → %s\nIndex: %.3f (was %.3f)",
		cur.Date, prev.Phase, cur.Phase, cur.IndexValue, prev.IndexValue)
}
