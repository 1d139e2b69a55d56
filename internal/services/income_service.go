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

// incomeService handles income-related business logic.
type incomeService struct {
	db *gorm.DB
}

// NewIncomeService creates a new IncomeServicer.
func NewIncomeService(db *gorm.DB) IncomeServicer {
	return &incomeService{db: db}
}

// Create persists a new income for an existing user.
func (s *incomeService) Create(usuario, descricao string, valor decimal.Decimal, categoria models.Category, fonte *string, data *time.Time) (*models.Income, error) {
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

	income := &models.Income{
		Usuario:   usuario,
		Descricao: strings.TrimSpace(descricao),
		Valor:     roundAmount(valor),
		Categoria: categoria,
		Fonte:     fonte,
		Data:      when,
	}

	if err := s.db.Create(income).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	return income, nil
}

// GetByID retrieves an income by primary key.
func (s *incomeService) GetByID(id string) (*models.Income, error) {
	var income models.Income
	if err := s.db.Where("id = ?", id).First(&income).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIncomeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}
	return &income, nil
}

// List retrieves a page of incomes matching the filters, newest event date
// first.
func (s *incomeService) List(page pagination.PageRequest, filter EntryFilter) ([]models.Income, int64, error) {
	base := applyEntryFilters(s.db.Model(&models.Income{}), filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	var incomes []models.Income
	if err := base.Scopes(pagination.Paginate(page)).
		Order("data DESC").
		Find(&incomes).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	return incomes, totalItems, nil
}

// Update applies the provided fields to an existing income.
func (s *incomeService) Update(id string, descricao *string, valor *decimal.Decimal, categoria *models.Category, fonte *string, data *time.Time) (*models.Income, error) {
	income, err := s.GetByID(id)
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
	if fonte != nil {
		updates["fonte"] = *fonte
	}
	if data != nil {
		updates["data"] = *data
	}

	if len(updates) > 0 {
		if err := s.db.Model(income).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
		}
	}

	return income, nil
}

// Delete removes an income.
func (s *incomeService) Delete(id string) error {
	income, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(income).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, err)
	}
	return nil
}

// Dashboard computes the overall (sum, count) and the per-category
// breakdown, sorted by per-category sum descending, over the filtered rows.
func (s *incomeService) Dashboard(filter DashboardFilter) (*Dashboard, error) {
	var overall struct {
		Total      decimal.Decimal
		Quantidade int64
	}
	overallQ := applyDashboardFilters(s.db.Model(&models.Income{}), filter)
	if err := overallQ.Select("COALESCE(SUM(valor), 0) AS total, COUNT(id) AS quantidade").
		Scan(&overall).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	var porCategoria []CategorySummary
	catQ := applyDashboardFilters(s.db.Model(&models.Income{}), filter)
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
