package memory

import (
	"context"
	"log"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"usahaku/backend/internal/dateutil"
	"usahaku/backend/internal/domain"
	"usahaku/backend/internal/store"
	"usahaku/backend/internal/xid"
)

// Store is the local fallback backend: plain maps behind a RWMutex.
// The Postgres backend enforces uniqueness and cascades with
// constraints; here every one of those rules is replayed by hand so
// both backends observe the same semantics.
type Store struct {
	mu              sync.RWMutex
	items           map[string]domain.InventoryItem
	sales           []domain.Sale
	employees       map[string]domain.Employee
	attendanceByKey map[string]domain.AttendanceRecord
	paymentsByKey   map[string]domain.WeeklyPayment
	deductionsByKey map[string]domain.WeeklyDeduction
	stores          map[string]domain.Store
	dailySalesByKey map[string]domain.StoreDailySale
	monthlyExpByKey map[string]domain.StoreMonthlyExpenses
	usersByUsername map[string]domain.UserAccount
}

func New() *Store {
	return &Store{
		items:           make(map[string]domain.InventoryItem),
		sales:           make([]domain.Sale, 0, 64),
		employees:       make(map[string]domain.Employee),
		attendanceByKey: make(map[string]domain.AttendanceRecord),
		paymentsByKey:   make(map[string]domain.WeeklyPayment),
		deductionsByKey: make(map[string]domain.WeeklyDeduction),
		stores:          make(map[string]domain.Store),
		dailySalesByKey: make(map[string]domain.StoreDailySale),
		monthlyExpByKey: make(map[string]domain.StoreMonthlyExpenses),
		usersByUsername: make(map[string]domain.UserAccount),
	}
}

// NewSeeded returns a store preloaded with a small demo dataset and the
// dev user accounts. Used when no DATABASE_URL is configured.
func NewSeeded() *Store {
	s := New()
	now := time.Now().UTC()

	stores := []domain.Store{
		{ID: xid.New("st"), Name: "Toko Utama", Color: "#2563eb", DisplayOrder: 1, MonthlyRent: 3000, MonthlyUtilities: 600, MonthlyOther: 0, MarkupPercent: 50, CreatedAt: now},
		{ID: xid.New("st"), Name: "Cabang Pasar", Color: "#16a34a", DisplayOrder: 2, MonthlyRent: 1800, MonthlyUtilities: 350, MonthlyOther: 120, MarkupPercent: 40, CreatedAt: now},
	}
	for _, st := range stores {
		s.stores[st.ID] = st
	}

	employees := []domain.Employee{
		{ID: xid.New("emp"), Name: "Sari", DailyRate: 500, StoreID: stores[0].ID, DisplayOrder: 1, Classification: domain.ClassificationMain, CreatedAt: now},
		{ID: xid.New("emp"), Name: "Budi", DailyRate: 450, StoreID: stores[1].ID, DisplayOrder: 2, Classification: domain.ClassificationMain, CreatedAt: now},
		{ID: xid.New("emp"), Name: "Rina", DailyRate: 400, DisplayOrder: 3, Classification: domain.ClassificationReliever, CreatedAt: now},
	}
	for _, e := range employees {
		s.employees[e.ID] = e
	}

	items := []domain.InventoryItem{
		{ID: xid.New("inv"), Name: "Beras 5kg", Price: 68, Quantity: 40, Description: "premium grade", CreatedAt: now},
		{ID: xid.New("inv"), Name: "Minyak Goreng 1L", Price: 19, Quantity: 60, CreatedAt: now},
		{ID: xid.New("inv"), Name: "Gula 1kg", Price: 17, Quantity: 55, CreatedAt: now},
		{ID: xid.New("inv"), Name: "Kopi Sachet", Price: 2.5, Quantity: 200, CreatedAt: now},
	}
	for _, item := range items {
		s.items[item.ID] = item
	}

	s.usersByUsername = seedUsers()
	return s
}

// seedUsers builds the initial user accounts for dev/demo mode.
// Credentials come from SEED_OWNER_PASSWORD and SEED_STAFF_PASSWORD; if
// unset, hardcoded dev defaults are used with a warning. These are never
// used in production (the backend uses PostgreSQL when DATABASE_URL is set).
func seedUsers() map[string]domain.UserAccount {
	ownerPwd := envOr("SEED_OWNER_PASSWORD", "owner123")
	staffPwd := envOr("SEED_STAFF_PASSWORD", "staff123")
	if os.Getenv("SEED_OWNER_PASSWORD") == "" || os.Getenv("SEED_STAFF_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_OWNER_PASSWORD and SEED_STAFF_PASSWORD to override.")
	}

	now := time.Now().UTC()
	users := map[string]domain.UserAccount{}
	for _, u := range []struct {
		username string
		password string
		role     string
	}{
		{"owner", ownerPwd, "owner"},
		{"staff", staffPwd, "staff"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[memory-store] failed to hash seed password for %s: %v", u.username, err)
		}
		users[u.username] = domain.UserAccount{
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		}
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (s *Store) ListInventoryItems(_ context.Context) ([]domain.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.InventoryItem, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	slices.SortFunc(items, func(a, b domain.InventoryItem) int {
		if a.Name == b.Name {
			return cmpString(a.ID, b.ID)
		}
		return cmpString(a.Name, b.Name)
	})
	return items, nil
}

func (s *Store) SaveInventoryItem(_ context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" || item.Price < 0 {
		return nil, store.ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		item.ID = xid.New("inv")
		item.CreatedAt = time.Now().UTC()
	} else {
		existing, ok := s.items[item.ID]
		if !ok {
			return nil, store.ErrNotFound
		}
		item.CreatedAt = existing.CreatedAt
	}

	s.items[item.ID] = item
	saved := item
	return &saved, nil
}

func (s *Store) DeleteInventoryItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.items, id)

	// Sales keep their denormalized name/price but lose the item link,
	// matching the remote schema's ON DELETE SET NULL.
	for i := range s.sales {
		if s.sales[i].ItemID == id {
			s.sales[i].ItemID = ""
		}
	}
	return nil
}

func (s *Store) AdjustInventoryQuantity(_ context.Context, id string, delta int) (*domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	item.Quantity += delta
	s.items[id] = item
	adjusted := item
	return &adjusted, nil
}

func (s *Store) ListSales(_ context.Context) ([]domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sales := make([]domain.Sale, len(s.sales))
	copy(sales, s.sales)
	slices.SortFunc(sales, func(a, b domain.Sale) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})
	return sales, nil
}

func (s *Store) CreateSale(_ context.Context, sale domain.Sale) (*domain.Sale, error) {
	if strings.TrimSpace(sale.ItemName) == "" || sale.Quantity < 1 || sale.Price < 0 {
		return nil, store.ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sale.ID == "" {
		sale.ID = xid.New("sale")
	}
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now().UTC()
	}
	sale.Total = sale.Price * float64(sale.Quantity)

	s.sales = append(s.sales, sale)
	created := sale
	return &created, nil
}

func (s *Store) ListEmployees(_ context.Context) ([]domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employees := make([]domain.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		employees = append(employees, e)
	}
	sortByDisplayOrder(employees, func(e domain.Employee) (int, string) { return e.DisplayOrder, e.ID })
	return employees, nil
}

func (s *Store) SaveEmployee(_ context.Context, employee domain.Employee) (*domain.Employee, error) {
	employee.Name = strings.TrimSpace(employee.Name)
	if employee.Name == "" || employee.DailyRate < 0 {
		return nil, store.ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A store link must reference a live store at write time.
	if employee.StoreID != "" {
		if _, ok := s.stores[employee.StoreID]; !ok {
			return nil, store.ErrInvalidRecord
		}
	}

	if employee.ID == "" {
		employee.ID = xid.New("emp")
		employee.CreatedAt = time.Now().UTC()
	} else {
		existing, ok := s.employees[employee.ID]
		if !ok {
			return nil, store.ErrNotFound
		}
		employee.CreatedAt = existing.CreatedAt
	}

	s.employees[employee.ID] = employee
	saved := employee
	return &saved, nil
}

func (s *Store) DeleteEmployee(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.employees, id)

	// No database cascade here: dependent rows are filtered by hand.
	for key, rec := range s.attendanceByKey {
		if rec.EmployeeID == id {
			delete(s.attendanceByKey, key)
		}
	}
	for key, payment := range s.paymentsByKey {
		if payment.EmployeeID == id {
			delete(s.paymentsByKey, key)
		}
	}
	for key, deduction := range s.deductionsByKey {
		if deduction.EmployeeID == id {
			delete(s.deductionsByKey, key)
		}
	}
	return nil
}

func (s *Store) ReorderEmployees(_ context.Context, orderedIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range orderedIDs {
		if _, ok := s.employees[id]; !ok {
			return store.ErrNotFound
		}
	}
	for idx, id := range orderedIDs {
		employee := s.employees[id]
		employee.DisplayOrder = idx + 1
		s.employees[id] = employee
	}
	return nil
}

func (s *Store) ListAttendance(_ context.Context, start, end string) ([]domain.AttendanceRecord, error) {
	if !dateutil.ValidDay(start) || !dateutil.ValidDay(end) {
		return nil, store.ErrInvalidRecord
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.AttendanceRecord, 0, 64)
	for _, rec := range s.attendanceByKey {
		if rec.Date < start || rec.Date > end {
			continue
		}
		result = append(result, rec)
	}
	slices.SortFunc(result, func(a, b domain.AttendanceRecord) int {
		if a.Date == b.Date {
			return cmpString(a.EmployeeID, b.EmployeeID)
		}
		return cmpString(a.Date, b.Date)
	})
	return result, nil
}

func (s *Store) ToggleAttendance(_ context.Context, employeeID, date string) (bool, error) {
	if employeeID == "" || !dateutil.ValidDay(date) {
		return false, store.ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[employeeID]; !ok {
		return false, store.ErrNotFound
	}

	key := naturalKey(employeeID, date)
	if _, exists := s.attendanceByKey[key]; exists {
		delete(s.attendanceByKey, key)
		return false, nil
	}
	s.attendanceByKey[key] = domain.AttendanceRecord{
		ID:         xid.New("att"),
		EmployeeID: employeeID,
		Date:       date,
	}
	return true, nil
}

func (s *Store) ListWeeklyPayments(_ context.Context, weekStart string) ([]domain.WeeklyPayment, error) {
	if !dateutil.ValidDay(weekStart) {
		return nil, store.ErrInvalidRecord
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.WeeklyPayment, 0, len(s.paymentsByKey))
	for _, payment := range s.paymentsByKey {
		if payment.WeekStart == weekStart {
			result = append(result, payment)
		}
	}
	slices.SortFunc(result, func(a, b domain.WeeklyPayment) int {
		return cmpString(a.EmployeeID, b.EmployeeID)
	})
	return result, nil
}

func (s *Store) SetWeeklyPaid(_ context.Context, employeeID, weekStart string, paid bool) (*domain.WeeklyPayment, error) {
	if employeeID == "" || !dateutil.ValidDay(weekStart) {
		return nil, store.ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[employeeID]; !ok {
		return nil, store.ErrNotFound
	}

	key := naturalKey(employeeID, weekStart)
	payment, exists := s.paymentsByKey[key]
	if !exists {
		payment = domain.WeeklyPayment{
			ID:         xid.New("pay"),
			EmployeeID: employeeID,
			WeekStart:  weekStart,
		}
	}
	payment.Paid = paid
	s.paymentsByKey[key] = payment
	saved := payment
	return &saved, nil
}

func (s *Store) ListWeeklyDeductions(_ context.Context, weekStart string) ([]domain.WeeklyDeduction, error) {
	if !dateutil.ValidDay(weekStart) {
		return nil, store.ErrInvalidRecord
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.WeeklyDeduction, 0, len(s.deductionsByKey))
	for _, deduction := range s.deductionsByKey {
		if deduction.WeekStart == weekStart {
			result = append(result, deduction)
		}
	}
	slices.SortFunc(result, func(a, b domain.WeeklyDeduction) int {
		return cmpString(a.EmployeeID, b.EmployeeID)
	})
	return result, nil
}

func (s *Store) SaveWeeklyDeduction(_ context.Context, employeeID, weekStart string, amount float64) (*domain.WeeklyDeduction, error) {
	if employeeID == "" || !dateutil.ValidDay(weekStart) || amount < 0 {
		return nil, store.ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[employeeID]; !ok {
		return nil, store.ErrNotFound
	}

	key := naturalKey(employeeID, weekStart)
	deduction, exists := s.deductionsByKey[key]
	if !exists {
		deduction = domain.WeeklyDeduction{
			ID:         xid.New("ded"),
			EmployeeID: employeeID,
			WeekStart:  weekStart,
		}
	}
	deduction.Amount = amount
	s.deductionsByKey[key] = deduction
	saved := deduction
	return &saved, nil
}

func (s *Store) ListWeeklyDeductionsBetween(_ context.Context, fromWeekStart, toDate string) ([]domain.WeeklyDeduction, error) {
	if !dateutil.ValidDay(fromWeekStart) || !dateutil.ValidDay(toDate) {
		return nil, store.ErrInvalidRecord
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.WeeklyDeduction, 0, len(s.deductionsByKey))
	for _, deduction := range s.deductionsByKey {
		if deduction.WeekStart < fromWeekStart || deduction.WeekStart > toDate {
			continue
		}
		result = append(result, deduction)
	}
	slices.SortFunc(result, func(a, b domain.WeeklyDeduction) int {
		if a.WeekStart == b.WeekStart {
			return cmpString(a.EmployeeID, b.EmployeeID)
		}
		return cmpString(a.WeekStart, b.WeekStart)
	})
	return result, nil
}

func (s *Store) ListStores(_ context.Context) ([]domain.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stores := make([]domain.Store, 0, len(s.stores))
	for _, st := range s.stores {
		stores = append(stores, st)
	}
	sortByDisplayOrder(stores, func(st domain.Store) (int, string) { return st.DisplayOrder, st.ID })
	return stores, nil
}

func (s *Store) SaveStore(_ context.Context, st domain.Store) (*domain.Store, error) {
	st.Name = strings.TrimSpace(st.Name)
	if st.Name == "" {
		return nil, store.ErrInvalidRecord
	}
	if st.MonthlyRent < 0 || st.MonthlyUtilities < 0 || st.MonthlyOther < 0 {
		return nil, store.ErrInvalidRecord
	}
	if st.MarkupPercent < 0 || st.MarkupPercent > 100 {
		return nil, store.ErrInvalidRecord
	}
	if st.Color == "" {
		st.Color = domain.DefaultStoreColor
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if st.ID == "" {
		st.ID = xid.New("st")
		st.CreatedAt = time.Now().UTC()
	} else {
		existing, ok := s.stores[st.ID]
		if !ok {
			return nil, store.ErrNotFound
		}
		st.CreatedAt = existing.CreatedAt
	}

	s.stores[st.ID] = st
	saved := st
	return &saved, nil
}

func (s *Store) DeleteStore(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stores[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.stores, id)

	for key, ds := range s.dailySalesByKey {
		if ds.StoreID == id {
			delete(s.dailySalesByKey, key)
		}
	}
	for key, exp := range s.monthlyExpByKey {
		if exp.StoreID == id {
			delete(s.monthlyExpByKey, key)
		}
	}
	// Unlink rather than orphan: employees survive store deletion with
	// no assignment, same as the remote ON DELETE SET NULL.
	for empID, employee := range s.employees {
		if employee.StoreID == id {
			employee.StoreID = ""
			s.employees[empID] = employee
		}
	}
	return nil
}

func (s *Store) ReorderStores(_ context.Context, orderedIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range orderedIDs {
		if _, ok := s.stores[id]; !ok {
			return store.ErrNotFound
		}
	}
	for idx, id := range orderedIDs {
		st := s.stores[id]
		st.DisplayOrder = idx + 1
		s.stores[id] = st
	}
	return nil
}

func (s *Store) ListStoreDailySales(_ context.Context, storeID, start, end string) ([]domain.StoreDailySale, error) {
	if start != "" && !dateutil.ValidDay(start) {
		return nil, store.ErrInvalidRecord
	}
	if end != "" && !dateutil.ValidDay(end) {
		return nil, store.ErrInvalidRecord
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.StoreDailySale, 0, 64)
	for _, ds := range s.dailySalesByKey {
		if storeID != "" && ds.StoreID != storeID {
			continue
		}
		if start != "" && ds.Date < start {
			continue
		}
		if end != "" && ds.Date > end {
			continue
		}
		result = append(result, ds)
	}
	slices.SortFunc(result, func(a, b domain.StoreDailySale) int {
		if a.Date == b.Date {
			return cmpString(a.StoreID, b.StoreID)
		}
		return cmpString(a.Date, b.Date)
	})
	return result, nil
}

func (s *Store) SaveStoreDailySale(_ context.Context, storeID, date string, amount float64) (*domain.StoreDailySale, error) {
	if storeID == "" || !dateutil.ValidDay(date) || amount < 0 {
		return nil, store.ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stores[storeID]; !ok {
		return nil, store.ErrNotFound
	}

	key := naturalKey(storeID, date)
	ds, exists := s.dailySalesByKey[key]
	if !exists {
		ds = domain.StoreDailySale{
			ID:      xid.New("dsale"),
			StoreID: storeID,
			Date:    date,
		}
	}
	ds.Amount = amount
	s.dailySalesByKey[key] = ds
	saved := ds
	return &saved, nil
}

func (s *Store) DeleteStoreDailySale(_ context.Context, storeID, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := naturalKey(storeID, date)
	if _, exists := s.dailySalesByKey[key]; !exists {
		return store.ErrNotFound
	}
	delete(s.dailySalesByKey, key)
	return nil
}

func (s *Store) ListStoreMonthlyExpenses(_ context.Context, month string) ([]domain.StoreMonthlyExpenses, error) {
	if !dateutil.ValidMonth(month) {
		return nil, store.ErrInvalidRecord
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.StoreMonthlyExpenses, 0, len(s.monthlyExpByKey))
	for _, exp := range s.monthlyExpByKey {
		if exp.Month == month {
			result = append(result, exp)
		}
	}
	slices.SortFunc(result, func(a, b domain.StoreMonthlyExpenses) int {
		return cmpString(a.StoreID, b.StoreID)
	})
	return result, nil
}

func (s *Store) GetStoreMonthlyExpenses(_ context.Context, storeID, month string) (*domain.StoreMonthlyExpenses, error) {
	if storeID == "" || !dateutil.ValidMonth(month) {
		return nil, store.ErrInvalidRecord
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	exp, exists := s.monthlyExpByKey[naturalKey(storeID, month)]
	if !exists {
		return nil, store.ErrNotFound
	}
	found := exp
	return &found, nil
}

func (s *Store) SaveStoreMonthlyExpenses(_ context.Context, expenses domain.StoreMonthlyExpenses) (*domain.StoreMonthlyExpenses, error) {
	if expenses.StoreID == "" || !dateutil.ValidMonth(expenses.Month) {
		return nil, store.ErrInvalidRecord
	}
	if expenses.Rent < 0 || expenses.Utilities < 0 || expenses.EmployeeSalaries < 0 || expenses.Other < 0 {
		return nil, store.ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stores[expenses.StoreID]; !ok {
		return nil, store.ErrNotFound
	}

	key := naturalKey(expenses.StoreID, expenses.Month)
	if existing, exists := s.monthlyExpByKey[key]; exists {
		expenses.ID = existing.ID
	} else {
		expenses.ID = xid.New("mexp")
	}
	s.monthlyExpByKey[key] = expenses
	saved := expenses
	return &saved, nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username := strings.ToLower(strings.TrimSpace(user.Username))
	if username == "" || strings.TrimSpace(user.Password) == "" {
		return store.ErrInvalidRecord
	}
	if _, exists := s.usersByUsername[username]; exists {
		return store.ErrInvalidRecord
	}
	user.Username = username
	if user.Role == "" {
		user.Role = "staff"
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.Active = true
	s.usersByUsername[user.Username] = user
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.UserAccount, 0, len(s.usersByUsername))
	for _, user := range s.usersByUsername {
		users = append(users, user)
	}
	slices.SortFunc(users, func(a, b domain.UserAccount) int {
		return cmpString(a.Username, b.Username)
	})
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.TrimSpace(password) == "" {
		return store.ErrInvalidRecord
	}
	user, exists := s.usersByUsername[username]
	if !exists {
		return store.ErrNotFound
	}
	user.Password = password
	s.usersByUsername[username] = user
	return nil
}

// ClearAllData wipes every domain collection. User accounts survive so
// the operator issuing the reset is not locked out of their own session.
func (s *Store) ClearAllData(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]domain.InventoryItem)
	s.sales = s.sales[:0]
	s.employees = make(map[string]domain.Employee)
	s.attendanceByKey = make(map[string]domain.AttendanceRecord)
	s.paymentsByKey = make(map[string]domain.WeeklyPayment)
	s.deductionsByKey = make(map[string]domain.WeeklyDeduction)
	s.stores = make(map[string]domain.Store)
	s.dailySalesByKey = make(map[string]domain.StoreDailySale)
	s.monthlyExpByKey = make(map[string]domain.StoreMonthlyExpenses)
	return nil
}

func naturalKey(left, right string) string {
	return left + "::" + right
}

func sortByDisplayOrder[T any](rows []T, key func(T) (int, string)) {
	slices.SortFunc(rows, func(a, b T) int {
		orderA, idA := key(a)
		orderB, idB := key(b)
		if orderA != orderB {
			return orderA - orderB
		}
		return cmpString(idA, idB)
	})
}

func cmpString(a string, b string) int {
	if a == b {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}
