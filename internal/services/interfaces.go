package services

import (
	"time"

	"github.com/shopspring/decimal"

	"granaia/internal/models"
	"granaia/internal/pagination"
)

// UserFilter holds optional filter parameters for listing users.
// PremiumActive and PremiumExpired are independent: "not active" includes
// users with no expiry at all, "expired" requires an expiry in the past.
type UserFilter struct {
	Name           *string
	Phone          *string
	PremiumActive  *bool
	PremiumExpired *bool
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(name, email, phone, senha string) (*models.User, error)
	Authenticate(email, senha string) (*models.User, error)
	Create(name, phone, remotejid string, lastMessage *string, premiumUntil *time.Time) (*models.User, error)
	GetByID(id string) (*models.User, error)
	GetByRemotejid(remotejid string) (*models.User, error)
	List(page pagination.PageRequest, filter UserFilter) ([]models.User, int64, error)
	Update(id string, name, phone, email *string) (*models.User, error)
	UpdatePremium(id string, until time.Time, tier *models.PremiumTier) (*models.User, error)
	UpdateLastMessage(id, message string) (*models.User, error)
	Delete(id string) error
}

// EntryFilter holds optional filter parameters for listing expenses or
// incomes. Date and amount ranges are inclusive on both ends.
type EntryFilter struct {
	Usuario    *string
	Categoria  *string
	DataInicio *time.Time
	DataFim    *time.Time
	ValorMin   *decimal.Decimal
	ValorMax   *decimal.Decimal
}

// DashboardFilter holds the owner/date filters accepted by dashboard
// aggregation.
type DashboardFilter struct {
	Usuario    *string
	DataInicio *time.Time
	DataFim    *time.Time
}

// CategorySummary is the per-category (sum, count) pair of a dashboard.
type CategorySummary struct {
	Categoria  models.Category `json:"categoria"`
	Total      decimal.Decimal `json:"total"`
	Quantidade int64           `json:"quantidade"`
}

// Dashboard is the aggregate summary over a filtered set of rows: overall
// total and count plus the per-category breakdown sorted by total descending.
type Dashboard struct {
	Total        decimal.Decimal   `json:"total"`
	Quantidade   int64             `json:"quantidade"`
	PorCategoria []CategorySummary `json:"por_categoria"`
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	Create(usuario, descricao string, valor decimal.Decimal, categoria models.Category, data *time.Time) (*models.Expense, error)
	GetByID(id string) (*models.Expense, error)
	List(page pagination.PageRequest, filter EntryFilter) ([]models.Expense, int64, error)
	Update(id string, descricao *string, valor *decimal.Decimal, categoria *models.Category, data *time.Time) (*models.Expense, error)
	Delete(id string) error
	Dashboard(filter DashboardFilter) (*Dashboard, error)
}

// IncomeServicer defines the contract for income-related business logic.
type IncomeServicer interface {
	Create(usuario, descricao string, valor decimal.Decimal, categoria models.Category, fonte *string, data *time.Time) (*models.Income, error)
	GetByID(id string) (*models.Income, error)
	List(page pagination.PageRequest, filter EntryFilter) ([]models.Income, int64, error)
	Update(id string, descricao *string, valor *decimal.Decimal, categoria *models.Category, fonte *string, data *time.Time) (*models.Income, error)
	Delete(id string) error
	Dashboard(filter DashboardFilter) (*Dashboard, error)
}
