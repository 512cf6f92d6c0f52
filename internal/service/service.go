package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"usahaku/backend/internal/analytics"
	"usahaku/backend/internal/dateutil"
	"usahaku/backend/internal/domain"
	"usahaku/backend/internal/store"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

// Service holds the business rules above the repository: request
// validation, display-order assignment, the sale-plus-stock write pair
// and the derived payroll and performance views. It never knows which
// backend it talks to.
type Service struct {
	repo store.Repository
}

func New(repo store.Repository) *Service {
	return &Service{repo: repo}
}

func requireOwner(ctx context.Context) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "owner" {
		return fmt.Errorf("owner role required")
	}
	return nil
}

func (s *Service) ListInventoryItems(ctx context.Context) ([]domain.InventoryItem, error) {
	return s.repo.ListInventoryItems(ctx)
}

func (s *Service) SaveInventoryItem(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	item.Description = strings.TrimSpace(item.Description)
	if item.Name == "" || item.Price < 0 || item.Quantity < 0 {
		return domain.InventoryItem{}, store.ErrInvalidRecord
	}

	saved, err := s.repo.SaveInventoryItem(ctx, item)
	if err != nil {
		return domain.InventoryItem{}, err
	}
	return *saved, nil
}

func (s *Service) DeleteInventoryItem(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return store.ErrInvalidRecord
	}
	return s.repo.DeleteInventoryItem(ctx, id)
}

func (s *Service) ListSales(ctx context.Context) ([]domain.Sale, error) {
	return s.repo.ListSales(ctx)
}

// RecordSale appends the sale and then decrements the item's stock.
// The two writes are not transactional across the facade; if the stock
// update fails after the sale landed, the sale stands and the gap is
// logged for manual correction.
func (s *Service) RecordSale(ctx context.Context, req domain.SaleCreateRequest) (domain.Sale, error) {
	if req.ItemID == "" || req.Quantity < 1 {
		return domain.Sale{}, store.ErrInvalidRecord
	}

	items, err := s.repo.ListInventoryItems(ctx)
	if err != nil {
		return domain.Sale{}, err
	}
	var item *domain.InventoryItem
	for i := range items {
		if items[i].ID == req.ItemID {
			item = &items[i]
			break
		}
	}
	if item == nil {
		return domain.Sale{}, store.ErrNotFound
	}

	sale := domain.Sale{
		ItemID:       item.ID,
		ItemName:     item.Name,
		Price:        item.Price,
		Quantity:     req.Quantity,
		Total:        item.Price * float64(req.Quantity),
		CustomerName: strings.TrimSpace(req.CustomerName),
	}

	created, err := s.repo.CreateSale(ctx, sale)
	if err != nil {
		log.Printf("[service] WARN: sale insert failed item=%s qty=%d: %v", req.ItemID, req.Quantity, err)
		return domain.Sale{}, fmt.Errorf("record sale: %w", err)
	}

	if _, err := s.repo.AdjustInventoryQuantity(ctx, item.ID, -req.Quantity); err != nil {
		log.Printf("[service] WARN: stock decrement failed after sale %s item=%s qty=%d: %v", created.ID, item.ID, req.Quantity, err)
		return *created, fmt.Errorf("sale recorded but stock update failed: %w", err)
	}

	return *created, nil
}

func (s *Service) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	return s.repo.ListEmployees(ctx)
}

func (s *Service) SaveEmployee(ctx context.Context, employee domain.Employee) (domain.Employee, error) {
	employee.Name = strings.TrimSpace(employee.Name)
	if employee.Name == "" || employee.DailyRate < 0 {
		return domain.Employee{}, store.ErrInvalidRecord
	}
	if employee.Classification == "" {
		employee.Classification = domain.ClassificationMain
	}
	if employee.Classification != domain.ClassificationMain && employee.Classification != domain.ClassificationReliever {
		return domain.Employee{}, store.ErrInvalidRecord
	}

	if employee.ID == "" && employee.DisplayOrder == 0 {
		order, err := s.nextEmployeeOrder(ctx)
		if err != nil {
			return domain.Employee{}, err
		}
		employee.DisplayOrder = order
	}

	saved, err := s.repo.SaveEmployee(ctx, employee)
	if err != nil {
		return domain.Employee{}, err
	}
	return *saved, nil
}

// nextEmployeeOrder is read-then-write; two racing creates can pick the
// same slot, which only makes the list order ambiguous until the next
// explicit reorder.
func (s *Service) nextEmployeeOrder(ctx context.Context) (int, error) {
	employees, err := s.repo.ListEmployees(ctx)
	if err != nil {
		return 0, err
	}
	max := 0
	for _, e := range employees {
		if e.DisplayOrder > max {
			max = e.DisplayOrder
		}
	}
	return max + 1, nil
}

func (s *Service) DeleteEmployee(ctx context.Context, id string) error {
	if err := requireOwner(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return store.ErrInvalidRecord
	}
	return s.repo.DeleteEmployee(ctx, id)
}

func (s *Service) ReorderEmployees(ctx context.Context, orderedIDs []string) error {
	if len(orderedIDs) == 0 {
		return store.ErrInvalidRecord
	}
	return s.repo.ReorderEmployees(ctx, orderedIDs)
}

func (s *Service) ListAttendance(ctx context.Context, start, end string) ([]domain.AttendanceRecord, error) {
	if !dateutil.ValidDay(start) || !dateutil.ValidDay(end) {
		return nil, store.ErrInvalidRecord
	}
	return s.repo.ListAttendance(ctx, start, end)
}

func (s *Service) ToggleAttendance(ctx context.Context, req domain.ToggleAttendanceRequest) (domain.ToggleAttendanceResponse, error) {
	if req.EmployeeID == "" || !dateutil.ValidDay(req.Date) {
		return domain.ToggleAttendanceResponse{}, store.ErrInvalidRecord
	}

	present, err := s.repo.ToggleAttendance(ctx, req.EmployeeID, req.Date)
	if err != nil {
		return domain.ToggleAttendanceResponse{}, err
	}
	return domain.ToggleAttendanceResponse{
		EmployeeID: req.EmployeeID,
		Date:       req.Date,
		Present:    present,
	}, nil
}

func (s *Service) ListWeeklyPayments(ctx context.Context, weekStart string) ([]domain.WeeklyPayment, error) {
	normalized, err := dateutil.WeekStart(weekStart)
	if err != nil {
		return nil, store.ErrInvalidRecord
	}
	return s.repo.ListWeeklyPayments(ctx, normalized)
}

func (s *Service) SetWeeklyPaid(ctx context.Context, req domain.SetWeeklyPaidRequest) (domain.WeeklyPayment, error) {
	if req.EmployeeID == "" {
		return domain.WeeklyPayment{}, store.ErrInvalidRecord
	}
	weekStart, err := dateutil.WeekStart(req.WeekStart)
	if err != nil {
		return domain.WeeklyPayment{}, store.ErrInvalidRecord
	}

	payment, err := s.repo.SetWeeklyPaid(ctx, req.EmployeeID, weekStart, req.Paid)
	if err != nil {
		return domain.WeeklyPayment{}, err
	}
	return *payment, nil
}

func (s *Service) ListWeeklyDeductions(ctx context.Context, weekStart string) ([]domain.WeeklyDeduction, error) {
	normalized, err := dateutil.WeekStart(weekStart)
	if err != nil {
		return nil, store.ErrInvalidRecord
	}
	return s.repo.ListWeeklyDeductions(ctx, normalized)
}

func (s *Service) SaveWeeklyDeduction(ctx context.Context, req domain.SaveWeeklyDeductionRequest) (domain.WeeklyDeduction, error) {
	if req.EmployeeID == "" || req.Amount < 0 {
		return domain.WeeklyDeduction{}, store.ErrInvalidRecord
	}
	weekStart, err := dateutil.WeekStart(req.WeekStart)
	if err != nil {
		return domain.WeeklyDeduction{}, store.ErrInvalidRecord
	}

	deduction, err := s.repo.SaveWeeklyDeduction(ctx, req.EmployeeID, weekStart, req.Amount)
	if err != nil {
		return domain.WeeklyDeduction{}, err
	}
	return *deduction, nil
}

// DeductionTotalsForRange sums, per employee, every weekly deduction
// whose week overlaps [start, end]. A week starting up to six days
// before start still overlaps it, so the query's lower bound is widened
// by six days before hitting the repository.
func (s *Service) DeductionTotalsForRange(ctx context.Context, start, end string) ([]domain.EmployeeDeductionTotal, error) {
	if !dateutil.ValidDay(start) || !dateutil.ValidDay(end) {
		return nil, store.ErrInvalidRecord
	}

	widened, err := dateutil.AddDays(start, -6)
	if err != nil {
		return nil, store.ErrInvalidRecord
	}

	deductions, err := s.repo.ListWeeklyDeductionsBetween(ctx, widened, end)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64, len(deductions))
	for _, d := range deductions {
		totals[d.EmployeeID] += d.Amount
	}

	result := make([]domain.EmployeeDeductionTotal, 0, len(totals))
	for employeeID, total := range totals {
		result = append(result, domain.EmployeeDeductionTotal{EmployeeID: employeeID, Total: total})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EmployeeID < result[j].EmployeeID })
	return result, nil
}

func (s *Service) ListStores(ctx context.Context) ([]domain.Store, error) {
	return s.repo.ListStores(ctx)
}

func (s *Service) SaveStore(ctx context.Context, st domain.Store) (domain.Store, error) {
	st.Name = strings.TrimSpace(st.Name)
	if st.Name == "" {
		return domain.Store{}, store.ErrInvalidRecord
	}
	if st.MonthlyRent < 0 || st.MonthlyUtilities < 0 || st.MonthlyOther < 0 {
		return domain.Store{}, store.ErrInvalidRecord
	}
	if st.MarkupPercent < 0 || st.MarkupPercent > 100 {
		return domain.Store{}, store.ErrInvalidRecord
	}

	if st.ID == "" && st.DisplayOrder == 0 {
		stores, err := s.repo.ListStores(ctx)
		if err != nil {
			return domain.Store{}, err
		}
		max := 0
		for _, existing := range stores {
			if existing.DisplayOrder > max {
				max = existing.DisplayOrder
			}
		}
		st.DisplayOrder = max + 1
	}

	saved, err := s.repo.SaveStore(ctx, st)
	if err != nil {
		return domain.Store{}, err
	}
	return *saved, nil
}

func (s *Service) DeleteStore(ctx context.Context, id string) error {
	if err := requireOwner(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return store.ErrInvalidRecord
	}
	return s.repo.DeleteStore(ctx, id)
}

func (s *Service) ReorderStores(ctx context.Context, orderedIDs []string) error {
	if len(orderedIDs) == 0 {
		return store.ErrInvalidRecord
	}
	return s.repo.ReorderStores(ctx, orderedIDs)
}

func (s *Service) ListStoreDailySales(ctx context.Context, storeID, start, end string) ([]domain.StoreDailySale, error) {
	if start != "" && !dateutil.ValidDay(start) {
		return nil, store.ErrInvalidRecord
	}
	if end != "" && !dateutil.ValidDay(end) {
		return nil, store.ErrInvalidRecord
	}
	return s.repo.ListStoreDailySales(ctx, storeID, start, end)
}

func (s *Service) SaveStoreDailySale(ctx context.Context, req domain.SaveStoreDailySaleRequest) (domain.StoreDailySale, error) {
	if req.StoreID == "" || !dateutil.ValidDay(req.Date) || req.Amount < 0 {
		return domain.StoreDailySale{}, store.ErrInvalidRecord
	}

	saved, err := s.repo.SaveStoreDailySale(ctx, req.StoreID, req.Date, req.Amount)
	if err != nil {
		return domain.StoreDailySale{}, err
	}
	return *saved, nil
}

func (s *Service) DeleteStoreDailySale(ctx context.Context, storeID, date string) error {
	if storeID == "" || !dateutil.ValidDay(date) {
		return store.ErrInvalidRecord
	}
	return s.repo.DeleteStoreDailySale(ctx, storeID, date)
}

func (s *Service) ListStoreMonthlyExpenses(ctx context.Context, month string) ([]domain.StoreMonthlyExpenses, error) {
	if !dateutil.ValidMonth(month) {
		return nil, store.ErrInvalidRecord
	}
	return s.repo.ListStoreMonthlyExpenses(ctx, month)
}

func (s *Service) GetStoreMonthlyExpenses(ctx context.Context, storeID, month string) (domain.StoreMonthlyExpenses, error) {
	if storeID == "" || !dateutil.ValidMonth(month) {
		return domain.StoreMonthlyExpenses{}, store.ErrInvalidRecord
	}

	expenses, err := s.repo.GetStoreMonthlyExpenses(ctx, storeID, month)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Absent snapshot reads as zeroes, not as an error.
			return domain.StoreMonthlyExpenses{StoreID: storeID, Month: month}, nil
		}
		return domain.StoreMonthlyExpenses{}, err
	}
	return *expenses, nil
}

func (s *Service) SaveStoreMonthlyExpenses(ctx context.Context, expenses domain.StoreMonthlyExpenses) (domain.StoreMonthlyExpenses, error) {
	if expenses.StoreID == "" || !dateutil.ValidMonth(expenses.Month) {
		return domain.StoreMonthlyExpenses{}, store.ErrInvalidRecord
	}
	if expenses.Rent < 0 || expenses.Utilities < 0 || expenses.EmployeeSalaries < 0 || expenses.Other < 0 {
		return domain.StoreMonthlyExpenses{}, store.ErrInvalidRecord
	}

	saved, err := s.repo.SaveStoreMonthlyExpenses(ctx, expenses)
	if err != nil {
		return domain.StoreMonthlyExpenses{}, err
	}
	return *saved, nil
}

// StoreSummary derives the performance view for one store over an
// inclusive date range.
func (s *Service) StoreSummary(ctx context.Context, storeID, start, end string) (analytics.Summary, error) {
	if storeID == "" || !dateutil.ValidDay(start) || !dateutil.ValidDay(end) {
		return analytics.Summary{}, store.ErrInvalidRecord
	}
	days := dateutil.DaysInRange(start, end)
	if days == 0 {
		return analytics.Summary{}, store.ErrInvalidRecord
	}

	stores, err := s.repo.ListStores(ctx)
	if err != nil {
		return analytics.Summary{}, err
	}
	var target *domain.Store
	for i := range stores {
		if stores[i].ID == storeID {
			target = &stores[i]
			break
		}
	}
	if target == nil {
		return analytics.Summary{}, store.ErrNotFound
	}

	employees, err := s.repo.ListEmployees(ctx)
	if err != nil {
		return analytics.Summary{}, err
	}

	attendance, err := s.repo.ListAttendance(ctx, start, end)
	if err != nil {
		return analytics.Summary{}, err
	}

	sales, err := s.repo.ListStoreDailySales(ctx, storeID, start, end)
	if err != nil {
		return analytics.Summary{}, err
	}

	return analytics.Summarize(*target, employees, attendance, sales, start, end, days), nil
}

func (s *Service) ClearAllData(ctx context.Context) error {
	if err := requireOwner(ctx); err != nil {
		return err
	}
	return s.repo.ClearAllData(ctx)
}
