package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"usahaku/backend/internal/dateutil"
	"usahaku/backend/internal/domain"
	"usahaku/backend/internal/store"
	"usahaku/backend/internal/xid"
)

// Store is the remote backend: one table per entity family, snake_case
// columns mapped to the domain structs at this boundary. Composite
// unique constraints back every upsert-by-natural-key operation, and
// foreign keys carry the cascade rules the memory store replays by hand
// (attendance/payments/deductions ON DELETE CASCADE with the employee,
// store_daily_sales and store_monthly_expenses ON DELETE CASCADE with
// the store, employees.store_id and sales.item_id ON DELETE SET NULL).
type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ListInventoryItems(ctx context.Context) ([]domain.InventoryItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, price, quantity, COALESCE(description, ''), created_at
		FROM inventory_items
		ORDER BY name, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.InventoryItem, 0, 64)
	for rows.Next() {
		var item domain.InventoryItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Quantity, &item.Description, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.CreatedAt = item.CreatedAt.UTC()
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) SaveInventoryItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" || item.Price < 0 {
		return nil, store.ErrInvalidRecord
	}

	if item.ID == "" {
		item.ID = xid.New("inv")
		item.CreatedAt = time.Now().UTC()
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO inventory_items (id, name, price, quantity, description, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,now())
		`, item.ID, item.Name, item.Price, item.Quantity, item.Description, item.CreatedAt)
		if err != nil {
			return nil, err
		}
		created := item
		return &created, nil
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE inventory_items
		SET name = $2, price = $3, quantity = $4, description = $5, updated_at = now()
		WHERE id = $1
	`, item.ID, item.Name, item.Price, item.Quantity, item.Description)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	updated := item
	return &updated, nil
}

func (s *Store) DeleteInventoryItem(ctx context.Context, id string) error {
	// sales.item_id is ON DELETE SET NULL, so the append-only sale log
	// keeps its denormalized rows.
	res, err := s.db.ExecContext(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) AdjustInventoryQuantity(ctx context.Context, id string, delta int) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := s.db.QueryRowContext(ctx, `
		UPDATE inventory_items
		SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1
		RETURNING id, name, price, quantity, COALESCE(description, ''), created_at
	`, id, delta).Scan(&item.ID, &item.Name, &item.Price, &item.Quantity, &item.Description, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	item.CreatedAt = item.CreatedAt.UTC()
	return &item, nil
}

func (s *Store) ListSales(ctx context.Context) ([]domain.Sale, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, COALESCE(item_id, ''), item_name, price, quantity, total, COALESCE(customer_name, ''), created_at
		FROM sales
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]domain.Sale, 0, 128)
	for rows.Next() {
		var sale domain.Sale
		if err := rows.Scan(&sale.ID, &sale.ItemID, &sale.ItemName, &sale.Price, &sale.Quantity, &sale.Total, &sale.CustomerName, &sale.CreatedAt); err != nil {
			return nil, err
		}
		sale.CreatedAt = sale.CreatedAt.UTC()
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sales, nil
}

func (s *Store) CreateSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error) {
	if strings.TrimSpace(sale.ItemName) == "" || sale.Quantity < 1 || sale.Price < 0 {
		return nil, store.ErrInvalidRecord
	}
	if sale.ID == "" {
		sale.ID = xid.New("sale")
	}
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now().UTC()
	}
	sale.Total = sale.Price * float64(sale.Quantity)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sales (id, item_id, item_name, price, quantity, total, customer_name, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, sale.ID, nullIfEmpty(sale.ItemID), sale.ItemName, sale.Price, sale.Quantity, sale.Total, sale.CustomerName, sale.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	created := sale
	return &created, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, daily_rate, COALESCE(store_id, ''), display_order, COALESCE(classification, ''), created_at
		FROM employees
		ORDER BY display_order, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]domain.Employee, 0, 32)
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.DailyRate, &e.StoreID, &e.DisplayOrder, &e.Classification, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.CreatedAt = e.CreatedAt.UTC()
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return employees, nil
}

func (s *Store) SaveEmployee(ctx context.Context, employee domain.Employee) (*domain.Employee, error) {
	employee.Name = strings.TrimSpace(employee.Name)
	if employee.Name == "" || employee.DailyRate < 0 {
		return nil, store.ErrInvalidRecord
	}

	if employee.ID == "" {
		employee.ID = xid.New("emp")
		employee.CreatedAt = time.Now().UTC()
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO employees (id, name, daily_rate, store_id, display_order, classification, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,now())
		`, employee.ID, employee.Name, employee.DailyRate, nullIfEmpty(employee.StoreID), employee.DisplayOrder, employee.Classification, employee.CreatedAt)
		if err != nil {
			if isForeignKeyViolation(err) {
				return nil, store.ErrInvalidRecord
			}
			return nil, err
		}
		created := employee
		return &created, nil
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE employees
		SET name = $2, daily_rate = $3, store_id = $4, display_order = $5, classification = $6, updated_at = now()
		WHERE id = $1
	`, employee.ID, employee.Name, employee.DailyRate, nullIfEmpty(employee.StoreID), employee.DisplayOrder, employee.Classification)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, store.ErrInvalidRecord
		}
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	updated := employee
	return &updated, nil
}

func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	// Attendance, weekly payment and weekly deduction rows go with the
	// employee via ON DELETE CASCADE.
	res, err := s.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ReorderEmployees(ctx context.Context, orderedIDs []string) error {
	return s.rewriteDisplayOrder(ctx, "employees", orderedIDs)
}

func (s *Store) ListAttendance(ctx context.Context, start, end string) ([]domain.AttendanceRecord, error) {
	if !dateutil.ValidDay(start) || !dateutil.ValidDay(end) {
		return nil, store.ErrInvalidRecord
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, date
		FROM attendance_records
		WHERE date >= $1::date AND date <= $2::date
		ORDER BY date, employee_id
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.AttendanceRecord, 0, 64)
	for rows.Next() {
		var rec domain.AttendanceRecord
		var date time.Time
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &date); err != nil {
			return nil, err
		}
		rec.Date = date.Format(dateutil.DayLayout)
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) ToggleAttendance(ctx context.Context, employeeID, date string) (bool, error) {
	if employeeID == "" || !dateutil.ValidDay(date) {
		return false, store.ErrInvalidRecord
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM attendance_records
		WHERE employee_id = $1 AND date = $2::date
	`, employeeID, date)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected > 0 {
		return false, nil
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO attendance_records (id, employee_id, date)
		VALUES ($1,$2,$3::date)
	`, xid.New("att"), employeeID, date)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, store.ErrNotFound
		}
		return false, err
	}
	return true, nil
}

func (s *Store) ListWeeklyPayments(ctx context.Context, weekStart string) ([]domain.WeeklyPayment, error) {
	if !dateutil.ValidDay(weekStart) {
		return nil, store.ErrInvalidRecord
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, week_start, paid
		FROM weekly_payments
		WHERE week_start = $1::date
		ORDER BY employee_id
	`, weekStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.WeeklyPayment, 0, 32)
	for rows.Next() {
		var payment domain.WeeklyPayment
		var ws time.Time
		if err := rows.Scan(&payment.ID, &payment.EmployeeID, &ws, &payment.Paid); err != nil {
			return nil, err
		}
		payment.WeekStart = ws.Format(dateutil.DayLayout)
		result = append(result, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) SetWeeklyPaid(ctx context.Context, employeeID, weekStart string, paid bool) (*domain.WeeklyPayment, error) {
	if employeeID == "" || !dateutil.ValidDay(weekStart) {
		return nil, store.ErrInvalidRecord
	}

	payment := domain.WeeklyPayment{
		EmployeeID: employeeID,
		WeekStart:  weekStart,
		Paid:       paid,
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO weekly_payments (id, employee_id, week_start, paid)
		VALUES ($1,$2,$3::date,$4)
		ON CONFLICT (employee_id, week_start)
		DO UPDATE SET paid = EXCLUDED.paid
		RETURNING id
	`, xid.New("pay"), employeeID, weekStart, paid).Scan(&payment.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (s *Store) ListWeeklyDeductions(ctx context.Context, weekStart string) ([]domain.WeeklyDeduction, error) {
	if !dateutil.ValidDay(weekStart) {
		return nil, store.ErrInvalidRecord
	}
	return s.queryDeductions(ctx, `
		SELECT id, employee_id, week_start, amount
		FROM weekly_deductions
		WHERE week_start = $1::date
		ORDER BY employee_id
	`, weekStart)
}

func (s *Store) SaveWeeklyDeduction(ctx context.Context, employeeID, weekStart string, amount float64) (*domain.WeeklyDeduction, error) {
	if employeeID == "" || !dateutil.ValidDay(weekStart) || amount < 0 {
		return nil, store.ErrInvalidRecord
	}

	deduction := domain.WeeklyDeduction{
		EmployeeID: employeeID,
		WeekStart:  weekStart,
		Amount:     amount,
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO weekly_deductions (id, employee_id, week_start, amount)
		VALUES ($1,$2,$3::date,$4)
		ON CONFLICT (employee_id, week_start)
		DO UPDATE SET amount = EXCLUDED.amount
		RETURNING id
	`, xid.New("ded"), employeeID, weekStart, amount).Scan(&deduction.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &deduction, nil
}

func (s *Store) ListWeeklyDeductionsBetween(ctx context.Context, fromWeekStart, toDate string) ([]domain.WeeklyDeduction, error) {
	if !dateutil.ValidDay(fromWeekStart) || !dateutil.ValidDay(toDate) {
		return nil, store.ErrInvalidRecord
	}
	return s.queryDeductions(ctx, `
		SELECT id, employee_id, week_start, amount
		FROM weekly_deductions
		WHERE week_start >= $1::date AND week_start <= $2::date
		ORDER BY week_start, employee_id
	`, fromWeekStart, toDate)
}

func (s *Store) queryDeductions(ctx context.Context, query string, args ...any) ([]domain.WeeklyDeduction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.WeeklyDeduction, 0, 32)
	for rows.Next() {
		var deduction domain.WeeklyDeduction
		var ws time.Time
		if err := rows.Scan(&deduction.ID, &deduction.EmployeeID, &ws, &deduction.Amount); err != nil {
			return nil, err
		}
		deduction.WeekStart = ws.Format(dateutil.DayLayout)
		result = append(result, deduction)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) ListStores(ctx context.Context) ([]domain.Store, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(NULLIF(color, ''), $1), display_order,
			monthly_rent, monthly_utilities, monthly_other, markup_percent, created_at
		FROM stores
		ORDER BY display_order, id
	`, domain.DefaultStoreColor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stores := make([]domain.Store, 0, 8)
	for rows.Next() {
		var st domain.Store
		if err := rows.Scan(&st.ID, &st.Name, &st.Color, &st.DisplayOrder, &st.MonthlyRent, &st.MonthlyUtilities, &st.MonthlyOther, &st.MarkupPercent, &st.CreatedAt); err != nil {
			return nil, err
		}
		st.CreatedAt = st.CreatedAt.UTC()
		stores = append(stores, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stores, nil
}

func (s *Store) SaveStore(ctx context.Context, st domain.Store) (*domain.Store, error) {
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

	if st.ID == "" {
		st.ID = xid.New("st")
		st.CreatedAt = time.Now().UTC()
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO stores (id, name, color, display_order, monthly_rent, monthly_utilities, monthly_other, markup_percent, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,now())
		`, st.ID, st.Name, st.Color, st.DisplayOrder, st.MonthlyRent, st.MonthlyUtilities, st.MonthlyOther, st.MarkupPercent, st.CreatedAt)
		if err != nil {
			return nil, err
		}
		created := st
		return &created, nil
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE stores
		SET name = $2, color = $3, display_order = $4, monthly_rent = $5,
			monthly_utilities = $6, monthly_other = $7, markup_percent = $8, updated_at = now()
		WHERE id = $1
	`, st.ID, st.Name, st.Color, st.DisplayOrder, st.MonthlyRent, st.MonthlyUtilities, st.MonthlyOther, st.MarkupPercent)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	updated := st
	return &updated, nil
}

func (s *Store) DeleteStore(ctx context.Context, id string) error {
	// store_daily_sales and store_monthly_expenses cascade with the
	// store; employees.store_id is set null by the FK.
	res, err := s.db.ExecContext(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ReorderStores(ctx context.Context, orderedIDs []string) error {
	return s.rewriteDisplayOrder(ctx, "stores", orderedIDs)
}

// rewriteDisplayOrder rewrites the full order column for the given table
// from the position of each id in orderedIDs.
func (s *Store) rewriteDisplayOrder(ctx context.Context, table string, orderedIDs []string) error {
	if table != "employees" && table != "stores" {
		return store.ErrInvalidRecord
	}
	if len(orderedIDs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for idx, id := range orderedIDs {
		res, err := tx.ExecContext(ctx, `UPDATE `+table+` SET display_order = $2, updated_at = now() WHERE id = $1`, id, idx+1)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return store.ErrNotFound
		}
	}

	return tx.Commit()
}

func (s *Store) ListStoreDailySales(ctx context.Context, storeID, start, end string) ([]domain.StoreDailySale, error) {
	if start != "" && !dateutil.ValidDay(start) {
		return nil, store.ErrInvalidRecord
	}
	if end != "" && !dateutil.ValidDay(end) {
		return nil, store.ErrInvalidRecord
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, store_id, date, amount
		FROM store_daily_sales
		WHERE ($1 = '' OR store_id = $1)
			AND ($2::date IS NULL OR date >= $2::date)
			AND ($3::date IS NULL OR date <= $3::date)
		ORDER BY date, store_id
	`, storeID, nullIfEmpty(start), nullIfEmpty(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.StoreDailySale, 0, 64)
	for rows.Next() {
		var ds domain.StoreDailySale
		var date time.Time
		if err := rows.Scan(&ds.ID, &ds.StoreID, &date, &ds.Amount); err != nil {
			return nil, err
		}
		ds.Date = date.Format(dateutil.DayLayout)
		result = append(result, ds)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) SaveStoreDailySale(ctx context.Context, storeID, date string, amount float64) (*domain.StoreDailySale, error) {
	if storeID == "" || !dateutil.ValidDay(date) || amount < 0 {
		return nil, store.ErrInvalidRecord
	}

	ds := domain.StoreDailySale{
		StoreID: storeID,
		Date:    date,
		Amount:  amount,
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO store_daily_sales (id, store_id, date, amount)
		VALUES ($1,$2,$3::date,$4)
		ON CONFLICT (store_id, date)
		DO UPDATE SET amount = EXCLUDED.amount
		RETURNING id
	`, xid.New("dsale"), storeID, date, amount).Scan(&ds.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &ds, nil
}

func (s *Store) DeleteStoreDailySale(ctx context.Context, storeID, date string) error {
	if storeID == "" || !dateutil.ValidDay(date) {
		return store.ErrInvalidRecord
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM store_daily_sales
		WHERE store_id = $1 AND date = $2::date
	`, storeID, date)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListStoreMonthlyExpenses(ctx context.Context, month string) ([]domain.StoreMonthlyExpenses, error) {
	if !dateutil.ValidMonth(month) {
		return nil, store.ErrInvalidRecord
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, store_id, month, rent, utilities, employee_salaries, other
		FROM store_monthly_expenses
		WHERE month = $1
		ORDER BY store_id
	`, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.StoreMonthlyExpenses, 0, 8)
	for rows.Next() {
		var exp domain.StoreMonthlyExpenses
		if err := rows.Scan(&exp.ID, &exp.StoreID, &exp.Month, &exp.Rent, &exp.Utilities, &exp.EmployeeSalaries, &exp.Other); err != nil {
			return nil, err
		}
		result = append(result, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) GetStoreMonthlyExpenses(ctx context.Context, storeID, month string) (*domain.StoreMonthlyExpenses, error) {
	if storeID == "" || !dateutil.ValidMonth(month) {
		return nil, store.ErrInvalidRecord
	}

	var exp domain.StoreMonthlyExpenses
	err := s.db.QueryRowContext(ctx, `
		SELECT id, store_id, month, rent, utilities, employee_salaries, other
		FROM store_monthly_expenses
		WHERE store_id = $1 AND month = $2
	`, storeID, month).Scan(&exp.ID, &exp.StoreID, &exp.Month, &exp.Rent, &exp.Utilities, &exp.EmployeeSalaries, &exp.Other)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &exp, nil
}

func (s *Store) SaveStoreMonthlyExpenses(ctx context.Context, expenses domain.StoreMonthlyExpenses) (*domain.StoreMonthlyExpenses, error) {
	if expenses.StoreID == "" || !dateutil.ValidMonth(expenses.Month) {
		return nil, store.ErrInvalidRecord
	}
	if expenses.Rent < 0 || expenses.Utilities < 0 || expenses.EmployeeSalaries < 0 || expenses.Other < 0 {
		return nil, store.ErrInvalidRecord
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO store_monthly_expenses (id, store_id, month, rent, utilities, employee_salaries, other)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (store_id, month)
		DO UPDATE SET rent = EXCLUDED.rent, utilities = EXCLUDED.utilities,
			employee_salaries = EXCLUDED.employee_salaries, other = EXCLUDED.other
		RETURNING id
	`, xid.New("mexp"), expenses.StoreID, expenses.Month, expenses.Rent, expenses.Utilities, expenses.EmployeeSalaries, expenses.Other).Scan(&expenses.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	saved := expenses
	return &saved, nil
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	username := strings.ToLower(strings.TrimSpace(user.Username))
	if username == "" || strings.TrimSpace(user.Password) == "" {
		return store.ErrInvalidRecord
	}
	if user.Role == "" {
		user.Role = "staff"
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password, role, active, created_at)
		VALUES ($1,$2,$3,true,$4)
	`, username, user.Password, user.Role, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrInvalidRecord
		}
		return err
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, password, role, active, created_at
		FROM users
		ORDER BY username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.UserAccount, 0, 8)
	for rows.Next() {
		var user domain.UserAccount
		if err := rows.Scan(&user.Username, &user.Password, &user.Role, &user.Active, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.TrimSpace(password) == "" {
		return store.ErrInvalidRecord
	}

	res, err := s.db.ExecContext(ctx, `UPDATE users SET password = $2 WHERE username = $1`, username, password)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ClearAllData truncates every domain table. User accounts survive so
// the operator issuing the reset keeps their session.
func (s *Store) ClearAllData(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	tables := []string{
		"attendance_records",
		"weekly_payments",
		"weekly_deductions",
		"store_daily_sales",
		"store_monthly_expenses",
		"sales",
		"employees",
		"inventory_items",
		"stores",
	}
	for _, table := range tables {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

func nullIfEmpty(val string) any {
	if val == "" {
		return nil
	}
	return val
}
