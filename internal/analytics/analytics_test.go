package analytics

import (
	"math"
	"testing"

	"usahaku/backend/internal/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMarginFraction(t *testing.T) {
	if got := MarginFraction(50); !almostEqual(got, 50.0/150.0) {
		t.Fatalf("MarginFraction(50) = %v, want 1/3", got)
	}
	if got := MarginFraction(100); !almostEqual(got, 0.5) {
		t.Fatalf("MarginFraction(100) = %v, want 0.5", got)
	}
	if got := MarginFraction(0); got != 0 {
		t.Fatalf("MarginFraction(0) = %v, want 0", got)
	}
}

func TestBreakEvenDailySales(t *testing.T) {
	st := domain.Store{
		ID:               "st1",
		MonthlyRent:      3000,
		MonthlyUtilities: 600,
		MarkupPercent:    50,
	}
	employees := []domain.Employee{
		{ID: "e1", StoreID: "st1", DailyRate: 500, Classification: domain.ClassificationMain},
		{ID: "e2", StoreID: "st1", DailyRate: 400, Classification: domain.ClassificationReliever},
		{ID: "e3", StoreID: "other", DailyRate: 450, Classification: domain.ClassificationMain},
	}

	// Daily fixed (3000+600)/30 = 120, plus the one main employee at 500,
	// divided by the 1/3 margin: 620 * 3 = 1860. Relievers and employees
	// of other stores do not count.
	got := BreakEvenDailySales(st, employees)
	if !almostEqual(got, 1860) {
		t.Fatalf("BreakEvenDailySales = %v, want 1860", got)
	}
}

func TestBreakEvenZeroMarkup(t *testing.T) {
	st := domain.Store{ID: "st1", MonthlyRent: 3000, MarkupPercent: 0}
	if got := BreakEvenDailySales(st, nil); got != 0 {
		t.Fatalf("expected 0 break-even with zero markup, got %v", got)
	}

	summary := Summarize(st, nil, nil, nil, "2026-08-01", "2026-08-03", 3)
	if !summary.MarginUndefined {
		t.Fatalf("expected zero-markup summary to flag the undefined margin")
	}
	if summary.AboveBreakEven {
		t.Fatalf("undefined margin can never be above break-even")
	}
}

func TestSummarize(t *testing.T) {
	st := domain.Store{
		ID:               "st1",
		MonthlyRent:      3000,
		MonthlyUtilities: 600,
		MarkupPercent:    50,
	}
	employees := []domain.Employee{
		{ID: "e1", StoreID: "st1", DailyRate: 500, Classification: domain.ClassificationMain},
	}
	attendance := []domain.AttendanceRecord{
		{EmployeeID: "e1", Date: "2026-08-01"},
		{EmployeeID: "e1", Date: "2026-08-02"},
		{EmployeeID: "e1", Date: "2026-08-03"},
		{EmployeeID: "e1", Date: "2026-07-31"},
		{EmployeeID: "stranger", Date: "2026-08-02"},
	}
	sales := []domain.StoreDailySale{
		{StoreID: "st1", Date: "2026-08-01", Amount: 1000},
		{StoreID: "st1", Date: "2026-08-02", Amount: 2000},
		{StoreID: "st1", Date: "2026-08-03", Amount: 1500},
		{StoreID: "other", Date: "2026-08-02", Amount: 9999},
	}

	summary := Summarize(st, employees, attendance, sales, "2026-08-01", "2026-08-03", 3)

	if !almostEqual(summary.Revenue, 4500) {
		t.Fatalf("Revenue = %v, want 4500", summary.Revenue)
	}
	if !almostEqual(summary.AverageDaily, 1500) {
		t.Fatalf("AverageDaily = %v, want 1500", summary.AverageDaily)
	}
	if !almostEqual(summary.BreakEvenDaily, 1860) {
		t.Fatalf("BreakEvenDaily = %v, want 1860", summary.BreakEvenDaily)
	}
	if summary.AboveBreakEven {
		t.Fatalf("1500 average should be below 1860 break-even")
	}
	if summary.MarginUndefined {
		t.Fatalf("50%% markup store should not flag an undefined margin")
	}
	if !almostEqual(summary.GrossProfit, 1500) {
		t.Fatalf("GrossProfit = %v, want 1500 (third of revenue)", summary.GrossProfit)
	}
	if !almostEqual(summary.FixedExpenses, 360) {
		t.Fatalf("FixedExpenses = %v, want 360 (120 per day over 3 days)", summary.FixedExpenses)
	}
	if !almostEqual(summary.LaborExpenses, 1500) {
		t.Fatalf("LaborExpenses = %v, want 1500 (three present days at 500)", summary.LaborExpenses)
	}
	if !almostEqual(summary.Profit, 4500-360-1500) {
		t.Fatalf("Profit = %v, want 2640 (revenue minus expenses)", summary.Profit)
	}
	if !almostEqual(summary.NetProfit, 1500-360-1500) {
		t.Fatalf("NetProfit = %v, want %v", summary.NetProfit, 1500-360-1500.0)
	}
}

func TestSummarizeLaborCountsRelieverAttendance(t *testing.T) {
	st := domain.Store{ID: "st1", MarkupPercent: 50}
	employees := []domain.Employee{
		{ID: "e1", StoreID: "st1", DailyRate: 500, Classification: domain.ClassificationMain},
		{ID: "e2", StoreID: "st1", DailyRate: 400, Classification: domain.ClassificationReliever},
	}
	attendance := []domain.AttendanceRecord{
		{EmployeeID: "e2", Date: "2026-08-02"},
	}

	// A reliever's worked day is paid even though break-even planning
	// only counts main employees.
	summary := Summarize(st, employees, attendance, nil, "2026-08-01", "2026-08-03", 3)
	if !almostEqual(summary.LaborExpenses, 400) {
		t.Fatalf("LaborExpenses = %v, want 400", summary.LaborExpenses)
	}
	if !almostEqual(summary.BreakEvenDaily, 1500) {
		t.Fatalf("BreakEvenDaily = %v, want 1500 (500 main rate over 1/3 margin)", summary.BreakEvenDaily)
	}
}

func TestSummarizeAverageDividesByCalendarDays(t *testing.T) {
	st := domain.Store{ID: "st1", MarkupPercent: 50}
	sales := []domain.StoreDailySale{
		{StoreID: "st1", Date: "2026-08-01", Amount: 700},
	}

	// One recorded day over a week-long range: closed days count.
	summary := Summarize(st, nil, nil, sales, "2026-08-01", "2026-08-07", 7)
	if !almostEqual(summary.AverageDaily, 100) {
		t.Fatalf("AverageDaily = %v, want 100", summary.AverageDaily)
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(3.14159); !almostEqual(got, 3.14) {
		t.Fatalf("Round2(3.14159) = %v, want 3.14", got)
	}
	if got := Round2(2.71828); !almostEqual(got, 2.72) {
		t.Fatalf("Round2(2.71828) = %v, want 2.72", got)
	}
}

func TestSummaryRounded(t *testing.T) {
	summary := Summary{Revenue: 1234.5678, NetProfit: -0.005001, Days: 3}

	rounded := summary.Rounded()
	if !almostEqual(rounded.Revenue, 1234.57) {
		t.Fatalf("rounded revenue = %v, want 1234.57", rounded.Revenue)
	}
	if !almostEqual(rounded.NetProfit, -0.01) {
		t.Fatalf("rounded net profit = %v, want -0.01", rounded.NetProfit)
	}
	if !almostEqual(summary.Revenue, 1234.5678) {
		t.Fatalf("rounding must not mutate the source summary")
	}
}
