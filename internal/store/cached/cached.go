package cached

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"usahaku/backend/internal/cache"
	"usahaku/backend/internal/domain"
	"usahaku/backend/internal/store"
)

// Store decorates the Postgres repository with a short-lived read cache.
// Reads go through the cache as JSON payloads; every write invalidates
// the key families it could have changed. Cache failures are logged and
// the database answer wins, so a dead Redis only costs latency.
//
// The in-memory fallback store is never wrapped: it answers from local
// maps already.
type Store struct {
	next  store.Repository
	cache cache.Cache
	ttl   time.Duration
}

func New(next store.Repository, c cache.Cache, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &Store{next: next, cache: c, ttl: ttl}
}

// readThrough returns the cached payload for key when present, and
// otherwise fetches from the wrapped repository and stores the result.
// Concurrent misses each hit the database; the rows are small enough
// that coalescing them is not worth a request-scoped lock.
func readThrough[T any](ctx context.Context, s *Store, key string, fetch func() (T, error)) (T, error) {
	var zero T

	payload, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Printf("cache get %s: %v", key, err)
	} else if hit {
		var out T
		if err := json.Unmarshal(payload, &out); err == nil {
			return out, nil
		}
		log.Printf("cache payload %s: %v", key, err)
	}

	out, err := fetch()
	if err != nil {
		return zero, err
	}

	if payload, err := json.Marshal(out); err == nil {
		if err := s.cache.Set(ctx, key, payload, s.ttl); err != nil {
			log.Printf("cache set %s: %v", key, err)
		}
	}
	return out, nil
}

func (s *Store) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		log.Printf("cache delete %v: %v", keys, err)
	}
}

func (s *Store) invalidatePrefix(ctx context.Context, prefix string) {
	if err := s.cache.DeletePrefix(ctx, prefix); err != nil {
		log.Printf("cache delete prefix %s: %v", prefix, err)
	}
}

func (s *Store) ListInventoryItems(ctx context.Context) ([]domain.InventoryItem, error) {
	return readThrough(ctx, s, "inventory", func() ([]domain.InventoryItem, error) {
		return s.next.ListInventoryItems(ctx)
	})
}

func (s *Store) SaveInventoryItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	saved, err := s.next.SaveInventoryItem(ctx, item)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "inventory")
	return saved, nil
}

func (s *Store) DeleteInventoryItem(ctx context.Context, id string) error {
	if err := s.next.DeleteInventoryItem(ctx, id); err != nil {
		return err
	}
	// Sale rows referencing the item lose their item link.
	s.invalidate(ctx, "inventory", "sales")
	return nil
}

func (s *Store) AdjustInventoryQuantity(ctx context.Context, id string, delta int) (*domain.InventoryItem, error) {
	item, err := s.next.AdjustInventoryQuantity(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "inventory")
	return item, nil
}

func (s *Store) ListSales(ctx context.Context) ([]domain.Sale, error) {
	return readThrough(ctx, s, "sales", func() ([]domain.Sale, error) {
		return s.next.ListSales(ctx)
	})
}

func (s *Store) CreateSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error) {
	created, err := s.next.CreateSale(ctx, sale)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "sales")
	return created, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	return readThrough(ctx, s, "employees", func() ([]domain.Employee, error) {
		return s.next.ListEmployees(ctx)
	})
}

func (s *Store) SaveEmployee(ctx context.Context, employee domain.Employee) (*domain.Employee, error) {
	saved, err := s.next.SaveEmployee(ctx, employee)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "employees")
	return saved, nil
}

func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	if err := s.next.DeleteEmployee(ctx, id); err != nil {
		return err
	}
	// Cascades touch attendance, payments and deductions.
	s.invalidate(ctx, "employees")
	s.invalidatePrefix(ctx, "attendance:")
	s.invalidatePrefix(ctx, "weekly_payments:")
	s.invalidatePrefix(ctx, "weekly_deductions")
	return nil
}

func (s *Store) ReorderEmployees(ctx context.Context, orderedIDs []string) error {
	if err := s.next.ReorderEmployees(ctx, orderedIDs); err != nil {
		return err
	}
	s.invalidate(ctx, "employees")
	return nil
}

func (s *Store) ListAttendance(ctx context.Context, start, end string) ([]domain.AttendanceRecord, error) {
	key := fmt.Sprintf("attendance:%s:%s", start, end)
	return readThrough(ctx, s, key, func() ([]domain.AttendanceRecord, error) {
		return s.next.ListAttendance(ctx, start, end)
	})
}

func (s *Store) ToggleAttendance(ctx context.Context, employeeID, date string) (bool, error) {
	present, err := s.next.ToggleAttendance(ctx, employeeID, date)
	if err != nil {
		return false, err
	}
	s.invalidatePrefix(ctx, "attendance:")
	return present, nil
}

func (s *Store) ListWeeklyPayments(ctx context.Context, weekStart string) ([]domain.WeeklyPayment, error) {
	key := "weekly_payments:" + weekStart
	return readThrough(ctx, s, key, func() ([]domain.WeeklyPayment, error) {
		return s.next.ListWeeklyPayments(ctx, weekStart)
	})
}

func (s *Store) SetWeeklyPaid(ctx context.Context, employeeID, weekStart string, paid bool) (*domain.WeeklyPayment, error) {
	payment, err := s.next.SetWeeklyPaid(ctx, employeeID, weekStart, paid)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "weekly_payments:"+weekStart)
	return payment, nil
}

func (s *Store) ListWeeklyDeductions(ctx context.Context, weekStart string) ([]domain.WeeklyDeduction, error) {
	key := "weekly_deductions:" + weekStart
	return readThrough(ctx, s, key, func() ([]domain.WeeklyDeduction, error) {
		return s.next.ListWeeklyDeductions(ctx, weekStart)
	})
}

func (s *Store) SaveWeeklyDeduction(ctx context.Context, employeeID, weekStart string, amount float64) (*domain.WeeklyDeduction, error) {
	deduction, err := s.next.SaveWeeklyDeduction(ctx, employeeID, weekStart, amount)
	if err != nil {
		return nil, err
	}
	// Range entries may include this week, so the whole family goes.
	s.invalidatePrefix(ctx, "weekly_deductions")
	return deduction, nil
}

func (s *Store) ListWeeklyDeductionsBetween(ctx context.Context, fromWeekStart, toDate string) ([]domain.WeeklyDeduction, error) {
	key := fmt.Sprintf("weekly_deductions_range:%s:%s", fromWeekStart, toDate)
	return readThrough(ctx, s, key, func() ([]domain.WeeklyDeduction, error) {
		return s.next.ListWeeklyDeductionsBetween(ctx, fromWeekStart, toDate)
	})
}

func (s *Store) ListStores(ctx context.Context) ([]domain.Store, error) {
	return readThrough(ctx, s, "stores", func() ([]domain.Store, error) {
		return s.next.ListStores(ctx)
	})
}

func (s *Store) SaveStore(ctx context.Context, st domain.Store) (*domain.Store, error) {
	saved, err := s.next.SaveStore(ctx, st)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "stores")
	return saved, nil
}

func (s *Store) DeleteStore(ctx context.Context, id string) error {
	if err := s.next.DeleteStore(ctx, id); err != nil {
		return err
	}
	// Daily sales and monthly expenses cascade; employees lose the link.
	s.invalidate(ctx, "stores", "employees")
	s.invalidatePrefix(ctx, "store_daily_sales:")
	s.invalidatePrefix(ctx, "store_monthly_expenses:")
	return nil
}

func (s *Store) ReorderStores(ctx context.Context, orderedIDs []string) error {
	if err := s.next.ReorderStores(ctx, orderedIDs); err != nil {
		return err
	}
	s.invalidate(ctx, "stores")
	return nil
}

func (s *Store) ListStoreDailySales(ctx context.Context, storeID, start, end string) ([]domain.StoreDailySale, error) {
	key := fmt.Sprintf("store_daily_sales:%s:%s:%s", storeID, start, end)
	return readThrough(ctx, s, key, func() ([]domain.StoreDailySale, error) {
		return s.next.ListStoreDailySales(ctx, storeID, start, end)
	})
}

func (s *Store) SaveStoreDailySale(ctx context.Context, storeID, date string, amount float64) (*domain.StoreDailySale, error) {
	saved, err := s.next.SaveStoreDailySale(ctx, storeID, date, amount)
	if err != nil {
		return nil, err
	}
	s.invalidatePrefix(ctx, "store_daily_sales:")
	return saved, nil
}

func (s *Store) DeleteStoreDailySale(ctx context.Context, storeID, date string) error {
	if err := s.next.DeleteStoreDailySale(ctx, storeID, date); err != nil {
		return err
	}
	s.invalidatePrefix(ctx, "store_daily_sales:")
	return nil
}

func (s *Store) ListStoreMonthlyExpenses(ctx context.Context, month string) ([]domain.StoreMonthlyExpenses, error) {
	key := "store_monthly_expenses:" + month
	return readThrough(ctx, s, key, func() ([]domain.StoreMonthlyExpenses, error) {
		return s.next.ListStoreMonthlyExpenses(ctx, month)
	})
}

func (s *Store) GetStoreMonthlyExpenses(ctx context.Context, storeID, month string) (*domain.StoreMonthlyExpenses, error) {
	key := fmt.Sprintf("store_monthly_expenses:one:%s:%s", storeID, month)
	return readThrough(ctx, s, key, func() (*domain.StoreMonthlyExpenses, error) {
		return s.next.GetStoreMonthlyExpenses(ctx, storeID, month)
	})
}

func (s *Store) SaveStoreMonthlyExpenses(ctx context.Context, expenses domain.StoreMonthlyExpenses) (*domain.StoreMonthlyExpenses, error) {
	saved, err := s.next.SaveStoreMonthlyExpenses(ctx, expenses)
	if err != nil {
		return nil, err
	}
	s.invalidatePrefix(ctx, "store_monthly_expenses:")
	return saved, nil
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	return s.next.CreateUser(ctx, user)
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	// Credentials never enter the cache.
	return s.next.ListUsers(ctx)
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	return s.next.UpdateUserPassword(ctx, username, password)
}

func (s *Store) ClearAllData(ctx context.Context) error {
	if err := s.next.ClearAllData(ctx); err != nil {
		return err
	}
	s.invalidatePrefix(ctx, "")
	return nil
}
