package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "granaia/internal/errors"
	"granaia/internal/models"
	"granaia/internal/pagination"
	"granaia/internal/premium"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// roundAmount normalizes a monetary amount to 2 decimal places.
// decimal.Round rounds half away from zero, which for the positive-only
// amounts this system accepts is round-half-up: 10.005 becomes 10.01.
func roundAmount(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// validateAmount rejects non-positive amounts with a per-field validation
// error.
func validateAmount(v decimal.Decimal) error {
	if !v.IsPositive() {
		return apperrors.WithDetails(apperrors.ErrValidation, []map[string]string{
			{"field": "valor", "message": "Valor deve ser maior que zero", "type": "gt"},
		})
	}
	return nil
}

// ensureOwnerExists verifies that the owning user exists by remotejid.
func ensureOwnerExists(db *gorm.DB, usuario string) error {
	var count int64
	if err := db.Model(&models.User{}).Where("remotejid = ?", usuario).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, err)
	}
	if count == 0 {
		return apperrors.WithMessage(apperrors.ErrUserNotFound, "Usuário '"+usuario+"' não encontrado")
	}
	return nil
}

// Create persists a new expense for an existing user.
func (s *expenseService) Create(usuario, descricao string, valor decimal.Decimal, categoria models.Category, data *time.Time) (*models.Expense, error) {
	if err := validateAmount(valor); err != nil {
		return nil, err
	}
	if !models.ValidCategory(categoria) {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Categoria inválida: "+string(categoria))
	}
	if err := ensureOwnerExists(s.db, usuario); err != nil {
		return nil, err
	}

	when := premium.NowBrasilia()
	if data != nil {
		when = *data
	}

	expense := &models.Expense{
		Usuario:   usuario,
		Descricao: strings.TrimSpace(descricao),
		Valor:     roundAmount(valor),
		Categoria: categoria,
		Data:      when,
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	return expense, nil
}

// GetByID retrieves an expense by primary key.
func (s *expenseService) GetByID(id string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Where("id = ?", id).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}
	return &expense, nil
}

// applyEntryFilters composes the optional list filters shared by expenses and
// incomes. The category filter is a case-insensitive substring match; date
// and amount ranges are inclusive.
func applyEntryFilters(q *gorm.DB, f EntryFilter) *gorm.DB {
	if f.Usuario != nil {
		q = q.Where("usuario = ?", *f.Usuario)
	}
	if f.Categoria != nil {
		q = q.Where("LOWER(categoria) LIKE ?", "%"+strings.ToLower(*f.Categoria)+"%")
	}
	if f.DataInicio != nil {
		q = q.Where("data >= ?", *f.DataInicio)
	}
	if f.DataFim != nil {
		q = q.Where("data <= ?", *f.DataFim)
	}
	if f.ValorMin != nil {
		q = q.Where("valor >= ?", *f.ValorMin)
	}
	if f.ValorMax != nil {
		q = q.Where("valor <= ?", *f.ValorMax)
	}
	return q
}

// applyDashboardFilters composes the owner/date filters for dashboard
// aggregation.
func applyDashboardFilters(q *gorm.DB, f DashboardFilter) *gorm.DB {
	if f.Usuario != nil {
		q = q.Where("usuario = ?", *f.Usuario)
	}
	if f.DataInicio != nil {
		q = q.Where("data >= ?", *f.DataInicio)
	}
	if f.DataFim != nil {
		q = q.Where("data <= ?", *f.DataFim)
	}
	return q
}

// List retrieves a page of expenses matching the filters, newest event date
// first. The total count is computed independently of the page.
func (s *expenseService) List(page pagination.PageRequest, filter EntryFilter) ([]models.Expense, int64, error) {
	base := applyEntryFilters(s.db.Model(&models.Expense{}), filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	var expenses []models.Expense
	if err := base.Scopes(pagination.Paginate(page)).
		Order("data DESC").
		Find(&expenses).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	return expenses, totalItems, nil
}

// Update applies the provided fields to an existing expense.
func (s *expenseService) Update(id string, descricao *string, valor *decimal.Decimal, categoria *models.Category, data *time.Time) (*models.Expense, error) {
	expense, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if descricao != nil {
		updates["descricao"] = strings.TrimSpace(*descricao)
	}
	if valor != nil {
		if err := validateAmount(*valor); err != nil {
			return nil, err
		}
		updates["valor"] = roundAmount(*valor)
	}
	if categoria != nil {
		if !models.ValidCategory(*categoria) {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "Categoria inválida: "+string(*categoria))
		}
		updates["categoria"] = *categoria
	}
	if data != nil {
		updates["data"] = *data
	}

	if len(updates) > 0 {
		if err := s.db.Model(expense).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
		}
	}

	return expense, nil
}

// Delete removes an expense.
func (s *expenseService) Delete(id string) error {
	expense, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, err)
	}
	return nil
}

// Dashboard computes the overall (sum, count) and the per-category
// breakdown, sorted by per-category sum descending, over the filtered rows.
func (s *expenseService) Dashboard(filter DashboardFilter) (*Dashboard, error) {
	var overall struct {
		Total      decimal.Decimal
		Quantidade int64
	}
	overallQ := applyDashboardFilters(s.db.Model(&models.Expense{}), filter)
	if err := overallQ.Select("COALESCE(SUM(valor), 0) AS total, COUNT(id) AS quantidade").
		Scan(&overall).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	var porCategoria []CategorySummary
	catQ := applyDashboardFilters(s.db.Model(&models.Expense{}), filter)
	if err := catQ.Select("categoria, COALESCE(SUM(valor), 0) AS total, COUNT(id) AS quantidade").
		Group("categoria").
		Order("total DESC").
		Scan(&porCategoria).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	if porCategoria == nil {
		porCategoria = []CategorySummary{}
	}

	return &Dashboard{
		Total:        overall.Total,
		Quantidade:   overall.Quantidade,
		PorCategoria: porCategoria,
	}, nil
}
