package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"granaia/internal/config"
	apperrors "granaia/internal/errors"
	"granaia/internal/models"
	"granaia/internal/pagination"
	"granaia/internal/services"
)

// ExpenseHandler serves expense CRUD, listing and dashboard aggregation.
type ExpenseHandler struct {
	expenses services.ExpenseServicer
	cfg      *config.Config
}

func NewExpenseHandler(expenses services.ExpenseServicer, cfg *config.Config) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses, cfg: cfg}
}

// CreateExpenseRequest is the expense creation payload. The owner comes from
// the bearer token, not the body.
type CreateExpenseRequest struct {
	Descricao string          `json:"descricao" binding:"required,min=1,max=500"`
	Valor     decimal.Decimal `json:"valor" binding:"required,gt=0"`
	Categoria models.Category `json:"categoria" binding:"required,categoria_financeira"`
	Data      *string         `json:"data"`
}

// UpdateExpenseRequest carries partial expense updates.
type UpdateExpenseRequest struct {
	Descricao *string          `json:"descricao" binding:"omitempty,min=1,max=500"`
	Valor     *decimal.Decimal `json:"valor" binding:"omitempty,gt=0"`
	Categoria *models.Category `json:"categoria" binding:"omitempty,categoria_financeira"`
	Data      *string          `json:"data"`
}

// Create records a new expense for the authenticated user.
func (h *ExpenseHandler) Create(c *gin.Context) {
	remotejid, err := currentRemotejid(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	data, err := optionalDate(req.Data)
	if err != nil {
		respondError(c, err)
		return
	}

	expense, err := h.expenses.Create(remotejid, req.Descricao, req.Valor, req.Categoria, data)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Gasto registrado com sucesso", expense)
}

// List returns expenses filtered by owner, category, date range and amount
// range, paginated.
func (h *ExpenseHandler) List(c *gin.Context) {
	page, err := bindPage(c, h.cfg.PageSizeDefault, h.cfg.PageSizeMax)
	if err != nil {
		respondError(c, err)
		return
	}

	filter, err := bindEntryFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	expenses, total, err := h.expenses.List(page, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, "Gastos listados com sucesso", expenses, pagination.NewMeta(page, total))
}

// Dashboard returns the aggregate summary of expenses matching the filters.
func (h *ExpenseHandler) Dashboard(c *gin.Context) {
	filter, err := bindDashboardFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	dashboard, err := h.expenses.Dashboard(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Dashboard de gastos gerado com sucesso", dashboard)
}

// GetByID returns a single expense.
func (h *ExpenseHandler) GetByID(c *gin.Context) {
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	expense, err := h.expenses.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Gasto encontrado", expense)
}

// Update applies a partial update to an expense.
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	data, err := optionalDate(req.Data)
	if err != nil {
		respondError(c, err)
		return
	}

	expense, err := h.expenses.Update(id, req.Descricao, req.Valor, req.Categoria, data)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Gasto atualizado com sucesso", expense)
}

// Delete removes an expense.
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.expenses.Delete(id); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Gasto deletado com sucesso", nil)
}

// optionalDate parses an optional flexible date from a request body.
func optionalDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := parseFlexibleTime(*raw)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrBadRequest, err.Error())
	}
	return &t, nil
}

// bindEntryFilter reads the shared expense/income listing filters from the
// query string.
func bindEntryFilter(c *gin.Context) (services.EntryFilter, error) {
	var (
		filter services.EntryFilter
		err    error
	)
	filter.Usuario = queryString(c, "usuario")
	filter.Categoria = queryString(c, "categoria")
	if filter.DataInicio, err = queryTime(c, "data_inicio"); err != nil {
		return filter, err
	}
	if filter.DataFim, err = queryTime(c, "data_fim"); err != nil {
		return filter, err
	}
	if filter.ValorMin, err = queryDecimal(c, "valor_min"); err != nil {
		return filter, err
	}
	if filter.ValorMax, err = queryDecimal(c, "valor_max"); err != nil {
		return filter, err
	}
	return filter, nil
}

// bindDashboardFilter reads the dashboard filters from the query string.
func bindDashboardFilter(c *gin.Context) (services.DashboardFilter, error) {
	var (
		filter services.DashboardFilter
		err    error
	)
	filter.Usuario = queryString(c, "usuario")
	if filter.DataInicio, err = queryTime(c, "data_inicio"); err != nil {
		return filter, err
	}
	if filter.DataFim, err = queryTime(c, "data_fim"); err != nil {
		return filter, err
	}
	return filter, nil
}
