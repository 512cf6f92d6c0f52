package store

import (
	"context"
	"errors"

	"usahaku/backend/internal/domain"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidRecord = errors.New("invalid record")
)

// Repository is the single persistence surface consumed by the service
// layer. Two implementations exist: the Postgres store (remote backend)
// and the in-memory store (local fallback). The backend is chosen once
// at startup and injected; callers never know which one they hold.
//
// Save operations insert when the entity's ID is empty (assigning one)
// and update otherwise. Natural-key operations (attendance, weekly
// payments, weekly deductions, store daily sales, store monthly
// expenses) upsert: there is never more than one live row per key.
type Repository interface {
	ListInventoryItems(ctx context.Context) ([]domain.InventoryItem, error)
	SaveInventoryItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error)
	DeleteInventoryItem(ctx context.Context, id string) error
	// AdjustInventoryQuantity applies a signed delta to an item's quantity.
	// The result is not clamped at zero; oversold stock shows as negative.
	AdjustInventoryQuantity(ctx context.Context, id string, delta int) (*domain.InventoryItem, error)

	ListSales(ctx context.Context) ([]domain.Sale, error)
	CreateSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error)

	ListEmployees(ctx context.Context) ([]domain.Employee, error)
	SaveEmployee(ctx context.Context, employee domain.Employee) (*domain.Employee, error)
	// DeleteEmployee removes the employee and every attendance, weekly
	// payment and weekly deduction row that references it.
	DeleteEmployee(ctx context.Context, id string) error
	ReorderEmployees(ctx context.Context, orderedIDs []string) error

	ListAttendance(ctx context.Context, start, end string) ([]domain.AttendanceRecord, error)
	// ToggleAttendance flips presence for (employeeID, date) and returns
	// the new state: true means the record now exists.
	ToggleAttendance(ctx context.Context, employeeID, date string) (bool, error)

	ListWeeklyPayments(ctx context.Context, weekStart string) ([]domain.WeeklyPayment, error)
	SetWeeklyPaid(ctx context.Context, employeeID, weekStart string, paid bool) (*domain.WeeklyPayment, error)

	ListWeeklyDeductions(ctx context.Context, weekStart string) ([]domain.WeeklyDeduction, error)
	SaveWeeklyDeduction(ctx context.Context, employeeID, weekStart string, amount float64) (*domain.WeeklyDeduction, error)
	// ListWeeklyDeductionsBetween returns rows whose week_start falls in
	// [fromWeekStart, toDate]. Range widening for partially-overlapping
	// weeks is the service layer's responsibility.
	ListWeeklyDeductionsBetween(ctx context.Context, fromWeekStart, toDate string) ([]domain.WeeklyDeduction, error)

	ListStores(ctx context.Context) ([]domain.Store, error)
	SaveStore(ctx context.Context, s domain.Store) (*domain.Store, error)
	// DeleteStore removes the store, its daily sales and monthly expense
	// snapshots, and nulls the store link on employees assigned to it.
	DeleteStore(ctx context.Context, id string) error
	ReorderStores(ctx context.Context, orderedIDs []string) error

	ListStoreDailySales(ctx context.Context, storeID, start, end string) ([]domain.StoreDailySale, error)
	SaveStoreDailySale(ctx context.Context, storeID, date string, amount float64) (*domain.StoreDailySale, error)
	DeleteStoreDailySale(ctx context.Context, storeID, date string) error

	ListStoreMonthlyExpenses(ctx context.Context, month string) ([]domain.StoreMonthlyExpenses, error)
	GetStoreMonthlyExpenses(ctx context.Context, storeID, month string) (*domain.StoreMonthlyExpenses, error)
	SaveStoreMonthlyExpenses(ctx context.Context, expenses domain.StoreMonthlyExpenses) (*domain.StoreMonthlyExpenses, error)

	CreateUser(ctx context.Context, user domain.UserAccount) error
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error

	// ClearAllData deletes every row in every table. Used for resets and tests.
	ClearAllData(ctx context.Context) error
}
