package domain

import "time"

// DefaultStoreColor is applied when a store row has no color recorded.
// Used for chart and calendar labels on the frontend.
const DefaultStoreColor = "#4f46e5"

const (
	// ClassificationMain marks an employee whose daily rate counts toward
	// a store's break-even target. Relievers are paid per attendance day
	// but are not part of the fixed daily wage bill.
	ClassificationMain     = "main"
	ClassificationReliever = "reliever"
)

type InventoryItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Sale is an append-only record. The item reference is denormalized
// (name and price captured at sale time) so the row stays meaningful
// after the inventory item is edited or deleted.
type Sale struct {
	ID           string    `json:"id"`
	ItemID       string    `json:"item_id,omitempty"`
	ItemName     string    `json:"item_name"`
	Price        float64   `json:"price"`
	Quantity     int       `json:"quantity"`
	Total        float64   `json:"total"`
	CustomerName string    `json:"customer_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type SaleCreateRequest struct {
	ItemID       string `json:"item_id"`
	Quantity     int    `json:"quantity"`
	CustomerName string `json:"customer_name,omitempty"`
}

type Employee struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	DailyRate      float64   `json:"daily_rate"`
	StoreID        string    `json:"store_id,omitempty"`
	DisplayOrder   int       `json:"display_order"`
	Classification string    `json:"classification,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// AttendanceRecord marks presence by existing: there is no boolean
// column, toggling inserts or removes the row. Unique per
// (employee_id, date).
type AttendanceRecord struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
}

// WeeklyPayment is keyed by (employee_id, week_start) where week_start
// is always the Sunday beginning the week, formatted YYYY-MM-DD.
type WeeklyPayment struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	WeekStart  string `json:"week_start"`
	Paid       bool   `json:"paid"`
}

type WeeklyDeduction struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	WeekStart  string  `json:"week_start"`
	Amount     float64 `json:"amount"`
}

type Store struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Color            string    `json:"color"`
	DisplayOrder     int       `json:"display_order"`
	MonthlyRent      float64   `json:"monthly_rent"`
	MonthlyUtilities float64   `json:"monthly_utilities"`
	MonthlyOther     float64   `json:"monthly_other"`
	MarkupPercent    float64   `json:"markup_percent"`
	CreatedAt        time.Time `json:"created_at"`
}

// StoreDailySale is one manually-entered total per store per day,
// unique per (store_id, date).
type StoreDailySale struct {
	ID      string  `json:"id"`
	StoreID string  `json:"store_id"`
	Date    string  `json:"date"`
	Amount  float64 `json:"amount"`
}

// StoreMonthlyExpenses is a monthly snapshot distinct from the store's
// current monthly fields, so past months keep their recorded figures
// when the store's defaults change later. Month is "YYYY-MM".
type StoreMonthlyExpenses struct {
	ID               string  `json:"id"`
	StoreID          string  `json:"store_id"`
	Month            string  `json:"month"`
	Rent             float64 `json:"rent"`
	Utilities        float64 `json:"utilities"`
	EmployeeSalaries float64 `json:"employee_salaries"`
	Other            float64 `json:"other"`
}

// EmployeeDeductionTotal is the aggregate produced by the deduction
// date-range query: all overlapping weekly deductions summed per employee.
type EmployeeDeductionTotal struct {
	EmployeeID string  `json:"employee_id"`
	Total      float64 `json:"total"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	Username string
	Role     string
}

type StaffCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type StaffUser struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	Username  string
	Password  string
	Role      string
	Active    bool
	CreatedAt time.Time
}

type ReorderRequest struct {
	OrderedIDs []string `json:"ordered_ids"`
}

type ToggleAttendanceRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
}

type ToggleAttendanceResponse struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Present    bool   `json:"present"`
}

type SetWeeklyPaidRequest struct {
	EmployeeID string `json:"employee_id"`
	WeekStart  string `json:"week_start"`
	Paid       bool   `json:"paid"`
}

type SaveWeeklyDeductionRequest struct {
	EmployeeID string  `json:"employee_id"`
	WeekStart  string  `json:"week_start"`
	Amount     float64 `json:"amount"`
}

type SaveStoreDailySaleRequest struct {
	StoreID string  `json:"store_id"`
	Date    string  `json:"date"`
	Amount  float64 `json:"amount"`
}
