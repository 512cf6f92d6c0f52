package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"usahaku/backend/internal/domain"
	"usahaku/backend/internal/store"
	"usahaku/backend/internal/store/memory"
)

func newTestService() (*Service, *memory.Store) {
	repo := memory.New()
	return New(repo), repo
}

func ownerCtx() context.Context {
	return WithActor(context.Background(), domain.Actor{Username: "owner", Role: "owner"})
}

func staffCtx() context.Context {
	return WithActor(context.Background(), domain.Actor{Username: "staff", Role: "staff"})
}

func TestRecordSaleDecrementsStock(t *testing.T) {
	svc, _ := newTestService()
	ctx := staffCtx()

	item, err := svc.SaveInventoryItem(ctx, domain.InventoryItem{Name: "Beras 5kg", Price: 68, Quantity: 10})
	if err != nil {
		t.Fatalf("save item: %v", err)
	}

	sale, err := svc.RecordSale(ctx, domain.SaleCreateRequest{ItemID: item.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if sale.ItemName != "Beras 5kg" || sale.Price != 68 {
		t.Fatalf("expected denormalized item fields, got %+v", sale)
	}
	if math.Abs(sale.Total-204) > 1e-9 {
		t.Fatalf("Total = %v, want 204", sale.Total)
	}

	items, err := svc.ListInventoryItems(ctx)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if items[0].Quantity != 7 {
		t.Fatalf("expected stock 7 after sale, got %d", items[0].Quantity)
	}
}

func TestRecordSaleUnknownItem(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.RecordSale(staffCtx(), domain.SaleCreateRequest{ItemID: "ghost", Quantity: 1})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordSaleAllowsOverselling(t *testing.T) {
	svc, _ := newTestService()
	ctx := staffCtx()

	item, err := svc.SaveInventoryItem(ctx, domain.InventoryItem{Name: "Gula 1kg", Price: 17, Quantity: 1})
	if err != nil {
		t.Fatalf("save item: %v", err)
	}

	if _, err := svc.RecordSale(ctx, domain.SaleCreateRequest{ItemID: item.ID, Quantity: 4}); err != nil {
		t.Fatalf("record sale: %v", err)
	}

	items, _ := svc.ListInventoryItems(ctx)
	if items[0].Quantity != -3 {
		t.Fatalf("expected stock to go negative, got %d", items[0].Quantity)
	}
}

func TestSaveEmployeeAssignsNextDisplayOrder(t *testing.T) {
	svc, _ := newTestService()
	ctx := staffCtx()

	first, err := svc.SaveEmployee(ctx, domain.Employee{Name: "Sari", DailyRate: 500})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := svc.SaveEmployee(ctx, domain.Employee{Name: "Budi", DailyRate: 450})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if first.DisplayOrder != 1 || second.DisplayOrder != 2 {
		t.Fatalf("expected orders 1 and 2, got %d and %d", first.DisplayOrder, second.DisplayOrder)
	}
	if first.Classification != domain.ClassificationMain {
		t.Fatalf("expected default classification main, got %q", first.Classification)
	}
}

func TestSaveEmployeeRejectsUnknownClassification(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SaveEmployee(staffCtx(), domain.Employee{Name: "X", DailyRate: 1, Classification: "weekend"})
	if !errors.Is(err, store.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
}

func TestDeleteEmployeeRequiresOwner(t *testing.T) {
	svc, _ := newTestService()
	ctx := ownerCtx()

	emp, err := svc.SaveEmployee(ctx, domain.Employee{Name: "Sari", DailyRate: 500})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := svc.DeleteEmployee(staffCtx(), emp.ID); err == nil {
		t.Fatalf("expected staff delete to be rejected")
	}
	if err := svc.DeleteEmployee(ctx, emp.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
}

func TestSetWeeklyPaidNormalizesWeekStart(t *testing.T) {
	svc, _ := newTestService()
	ctx := staffCtx()

	emp, err := svc.SaveEmployee(ctx, domain.Employee{Name: "Budi", DailyRate: 450})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	// Wednesday normalizes to the preceding Sunday.
	payment, err := svc.SetWeeklyPaid(ctx, domain.SetWeeklyPaidRequest{EmployeeID: emp.ID, WeekStart: "2026-08-26", Paid: true})
	if err != nil {
		t.Fatalf("set paid: %v", err)
	}
	if payment.WeekStart != "2026-08-23" {
		t.Fatalf("expected week start 2026-08-23, got %s", payment.WeekStart)
	}

	payments, err := svc.ListWeeklyPayments(ctx, "2026-08-29")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("expected a Saturday query to land in the same week")
	}
}

func TestDeductionTotalsWidensRange(t *testing.T) {
	svc, _ := newTestService()
	ctx := staffCtx()

	emp, err := svc.SaveEmployee(ctx, domain.Employee{Name: "Rina", DailyRate: 400})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	// Week of Sunday 2026-08-23 overlaps a range starting Saturday
	// 2026-08-29 even though its week_start precedes the range.
	if _, err := svc.SaveWeeklyDeduction(ctx, domain.SaveWeeklyDeductionRequest{EmployeeID: emp.ID, WeekStart: "2026-08-23", Amount: 40}); err != nil {
		t.Fatalf("save deduction: %v", err)
	}
	// Week of 2026-08-16 ends on 2026-08-22 and does not overlap.
	if _, err := svc.SaveWeeklyDeduction(ctx, domain.SaveWeeklyDeductionRequest{EmployeeID: emp.ID, WeekStart: "2026-08-16", Amount: 99}); err != nil {
		t.Fatalf("save deduction: %v", err)
	}

	totals, err := svc.DeductionTotalsForRange(ctx, "2026-08-29", "2026-09-05")
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if len(totals) != 1 {
		t.Fatalf("expected one employee total, got %+v", totals)
	}
	if totals[0].Total != 40 {
		t.Fatalf("expected only the overlapping week, got %v", totals[0].Total)
	}
}

func TestDeductionTotalsSumsPerEmployee(t *testing.T) {
	svc, _ := newTestService()
	ctx := staffCtx()

	a, _ := svc.SaveEmployee(ctx, domain.Employee{Name: "A", DailyRate: 1})
	b, _ := svc.SaveEmployee(ctx, domain.Employee{Name: "B", DailyRate: 1})

	deductions := []domain.SaveWeeklyDeductionRequest{
		{EmployeeID: a.ID, WeekStart: "2026-08-02", Amount: 10},
		{EmployeeID: a.ID, WeekStart: "2026-08-09", Amount: 15},
		{EmployeeID: b.ID, WeekStart: "2026-08-09", Amount: 20},
	}
	for _, req := range deductions {
		if _, err := svc.SaveWeeklyDeduction(ctx, req); err != nil {
			t.Fatalf("save deduction: %v", err)
		}
	}

	totals, err := svc.DeductionTotalsForRange(ctx, "2026-08-02", "2026-08-15")
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected two employees, got %+v", totals)
	}
	got := map[string]float64{}
	for _, total := range totals {
		got[total.EmployeeID] = total.Total
	}
	if got[a.ID] != 25 || got[b.ID] != 20 {
		t.Fatalf("unexpected totals: %+v", got)
	}
}

func TestStoreSummary(t *testing.T) {
	svc, _ := newTestService()
	ctx := staffCtx()

	st, err := svc.SaveStore(ctx, domain.Store{
		Name:             "Toko Utama",
		MonthlyRent:      3000,
		MonthlyUtilities: 600,
		MarkupPercent:    50,
	})
	if err != nil {
		t.Fatalf("save store: %v", err)
	}
	if _, err := svc.SaveEmployee(ctx, domain.Employee{Name: "Sari", DailyRate: 500, StoreID: st.ID}); err != nil {
		t.Fatalf("save employee: %v", err)
	}

	days := []struct {
		date   string
		amount float64
	}{
		{"2026-08-01", 1000},
		{"2026-08-02", 2000},
		{"2026-08-03", 1500},
	}
	for _, d := range days {
		if _, err := svc.SaveStoreDailySale(ctx, domain.SaveStoreDailySaleRequest{StoreID: st.ID, Date: d.date, Amount: d.amount}); err != nil {
			t.Fatalf("save daily sale %s: %v", d.date, err)
		}
	}

	summary, err := svc.StoreSummary(ctx, st.ID, "2026-08-01", "2026-08-03")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Revenue != 4500 || summary.Days != 3 {
		t.Fatalf("unexpected revenue/days: %+v", summary)
	}
	if math.Abs(summary.BreakEvenDaily-1860) > 1e-9 {
		t.Fatalf("BreakEvenDaily = %v, want 1860", summary.BreakEvenDaily)
	}
}

func TestStoreSummaryUnknownStore(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.StoreSummary(staffCtx(), "ghost", "2026-08-01", "2026-08-03")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetStoreMonthlyExpensesAbsentReadsAsZero(t *testing.T) {
	svc, _ := newTestService()
	ctx := staffCtx()

	st, err := svc.SaveStore(ctx, domain.Store{Name: "Cabang Pasar"})
	if err != nil {
		t.Fatalf("save store: %v", err)
	}

	expenses, err := svc.GetStoreMonthlyExpenses(ctx, st.ID, "2026-08")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if expenses.Rent != 0 || expenses.StoreID != st.ID || expenses.Month != "2026-08" {
		t.Fatalf("expected zero snapshot, got %+v", expenses)
	}
}

func TestClearAllDataRequiresOwner(t *testing.T) {
	svc, _ := newTestService()

	if err := svc.ClearAllData(staffCtx()); err == nil {
		t.Fatalf("expected staff clear-all to be rejected")
	}
	if err := svc.ClearAllData(ownerCtx()); err != nil {
		t.Fatalf("owner clear-all failed: %v", err)
	}
}

func TestSaveStoreRejectsOutOfRangeMarkup(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.SaveStore(staffCtx(), domain.Store{Name: "X", MarkupPercent: 120}); !errors.Is(err, store.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
}
