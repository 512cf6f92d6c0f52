package analytics

import (
	"math"

	"usahaku/backend/internal/domain"
)

// Summary is the derived performance view for one store over a date
// range. Monetary fields stay unrounded; Round2 is for display.
// MarginUndefined marks a zero-markup store: BreakEvenDaily is reported
// as 0 there, but no daily revenue can actually break even.
type Summary struct {
	StoreID         string  `json:"store_id"`
	Start           string  `json:"start"`
	End             string  `json:"end"`
	Days            int     `json:"days"`
	Revenue         float64 `json:"revenue"`
	AverageDaily    float64 `json:"average_daily"`
	BreakEvenDaily  float64 `json:"break_even_daily"`
	MarginUndefined bool    `json:"margin_undefined"`
	AboveBreakEven  bool    `json:"above_break_even"`
	GrossProfit     float64 `json:"gross_profit"`
	FixedExpenses   float64 `json:"fixed_expenses"`
	LaborExpenses   float64 `json:"labor_expenses"`
	Expenses        float64 `json:"expenses"`
	Profit          float64 `json:"profit"`
	NetProfit       float64 `json:"net_profit"`
}

// MarginFraction converts a markup percentage on cost to the margin
// fraction of the selling price. A 50% markup means every sale is 1/3
// margin: markup / (100 + markup).
func MarginFraction(markupPercent float64) float64 {
	if markupPercent <= 0 {
		return 0
	}
	return markupPercent / (100 + markupPercent)
}

// BreakEvenDailySales is the daily revenue at which margin covers the
// store's daily fixed cost plus the daily wages of its main employees.
// Fixed monthly costs are spread over 30 days. Returns 0 when the
// markup is zero, since no margin can ever cover the costs.
func BreakEvenDailySales(st domain.Store, employees []domain.Employee) float64 {
	margin := MarginFraction(st.MarkupPercent)
	if margin == 0 {
		return 0
	}

	dailyFixed := (st.MonthlyRent + st.MonthlyUtilities + st.MonthlyOther) / 30
	dailyLabor := 0.0
	for _, e := range employees {
		if e.StoreID == st.ID && e.Classification == domain.ClassificationMain {
			dailyLabor += e.DailyRate
		}
	}
	return (dailyFixed + dailyLabor) / margin
}

// Summarize derives the performance view from the raw daily sales and
// attendance of one store over [start, end] covering days calendar
// days. Average daily revenue divides by calendar days, not by days
// with sales, so closed days drag the average down. Labor cost is paid
// attendance: days actually present times the daily rate, for every
// employee linked to the store regardless of classification.
func Summarize(st domain.Store, employees []domain.Employee, attendance []domain.AttendanceRecord, sales []domain.StoreDailySale, start, end string, days int) Summary {
	revenue := 0.0
	for _, sale := range sales {
		if sale.StoreID == st.ID {
			revenue += sale.Amount
		}
	}

	avgDaily := 0.0
	if days > 0 {
		avgDaily = revenue / float64(days)
	}

	margin := MarginFraction(st.MarkupPercent)
	breakEven := BreakEvenDailySales(st, employees)

	dailyFixed := (st.MonthlyRent + st.MonthlyUtilities + st.MonthlyOther) / 30

	// Date strings compare lexically, so the range check is plain string
	// comparison on YYYY-MM-DD.
	presentDays := map[string]int{}
	for _, record := range attendance {
		if record.Date >= start && record.Date <= end {
			presentDays[record.EmployeeID]++
		}
	}
	laborExpenses := 0.0
	for _, e := range employees {
		if e.StoreID == st.ID {
			laborExpenses += float64(presentDays[e.ID]) * e.DailyRate
		}
	}

	fixedExpenses := dailyFixed * float64(days)
	grossProfit := revenue * margin

	return Summary{
		StoreID:         st.ID,
		Start:           start,
		End:             end,
		Days:            days,
		Revenue:         revenue,
		AverageDaily:    avgDaily,
		BreakEvenDaily:  breakEven,
		MarginUndefined: margin == 0,
		AboveBreakEven:  breakEven > 0 && avgDaily >= breakEven,
		GrossProfit:     grossProfit,
		FixedExpenses:   fixedExpenses,
		LaborExpenses:   laborExpenses,
		Expenses:        fixedExpenses + laborExpenses,
		Profit:          revenue - fixedExpenses - laborExpenses,
		NetProfit:       grossProfit - fixedExpenses - laborExpenses,
	}
}

// Round2 rounds to two decimal places for display. Intermediate math
// never rounds.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Rounded returns a display copy with every monetary field rounded to
// two decimals.
func (s Summary) Rounded() Summary {
	s.Revenue = Round2(s.Revenue)
	s.AverageDaily = Round2(s.AverageDaily)
	s.BreakEvenDaily = Round2(s.BreakEvenDaily)
	s.GrossProfit = Round2(s.GrossProfit)
	s.FixedExpenses = Round2(s.FixedExpenses)
	s.LaborExpenses = Round2(s.LaborExpenses)
	s.Expenses = Round2(s.Expenses)
	s.Profit = Round2(s.Profit)
	s.NetProfit = Round2(s.NetProfit)
	return s
}
