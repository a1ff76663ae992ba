package model

import (
	"fmt"
	"time"
)

// PeriodKind tags a PeriodID.
type PeriodKind int

const (
	PeriodMonth PeriodKind = iota + 1
	PeriodQuarter
	PeriodYear
)

func (k PeriodKind) String() string {
	switch k {
	case PeriodMonth:
		return "month"
	case PeriodQuarter:
		return "quarter"
	case PeriodYear:
		return "year"
	default:
		return "unknown"
	}
}

// PeriodID identifies a calendar month, quarter or year.
// Index is the month (1..12) or quarter (1..4); it is zero for years.
type PeriodID struct {
	Kind  PeriodKind `json:"kind"`
	Year  int        `json:"year"`
	Index int        `json:"index,omitempty"`
}

func Month(year, month int) PeriodID     { return PeriodID{Kind: PeriodMonth, Year: year, Index: month} }
func Quarter(year, quarter int) PeriodID { return PeriodID{Kind: PeriodQuarter, Year: year, Index: quarter} }
func Year(year int) PeriodID             { return PeriodID{Kind: PeriodYear, Year: year} }

// QuarterOf maps a month (1..12) to its quarter (1..4).
func QuarterOf(month int) int {
	return (month-1)/3 + 1
}

// String renders 2024-01, 2024-Q1 or 2024.
func (p PeriodID) String() string {
	switch p.Kind {
	case PeriodMonth:
		return fmt.Sprintf("%04d-%02d", p.Year, p.Index)
	case PeriodQuarter:
		return fmt.Sprintf("%04d-Q%d", p.Year, p.Index)
	default:
		return fmt.Sprintf("%04d", p.Year)
	}
}

// Label is the year-independent name used to line periods up across years.
func (p PeriodID) Label() string {
	switch p.Kind {
	case PeriodMonth:
		return time.Month(p.Index).String()[:3]
	case PeriodQuarter:
		return fmt.Sprintf("Q%d", p.Index)
	default:
		return "Year"
	}
}

// PeriodReturn is the percentage return of one period. ReturnPct is nil when
// the period has no observed price or the first price cannot be divided by.
type PeriodReturn struct {
	Period    PeriodID `json:"period"`
	Label     string   `json:"label"`
	ReturnPct *float64 `json:"return_pct"`
}

// YearReturns is one row of the returns table.
type YearReturns struct {
	Year     int            `json:"year"`
	Months   []PeriodReturn `json:"months"`
	Quarters []PeriodReturn `json:"quarters"`
	Total    PeriodReturn   `json:"total"`
}

// PeriodAverage is the mean return for one period label across years.
type PeriodAverage struct {
	Label   string   `json:"label"`
	AvgPct  *float64 `json:"avg_pct"`
	Samples int      `json:"samples"`
}
