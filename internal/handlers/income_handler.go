package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"granaia/internal/config"
	"granaia/internal/models"
	"granaia/internal/pagination"
	"granaia/internal/services"
)

// IncomeHandler serves income CRUD, listing and dashboard aggregation.
type IncomeHandler struct {
	incomes services.IncomeServicer
	cfg     *config.Config
}

func NewIncomeHandler(incomes services.IncomeServicer, cfg *config.Config) *IncomeHandler {
	return &IncomeHandler{incomes: incomes, cfg: cfg}
}

// CreateIncomeRequest is the income creation payload. The owner comes from
// the bearer token, not the body.
type CreateIncomeRequest struct {
	Descricao string          `json:"descricao" binding:"required,min=1,max=500"`
	Valor     decimal.Decimal `json:"valor" binding:"required,gt=0"`
	Categoria models.Category `json:"categoria" binding:"required,categoria_financeira"`
	Fonte     *string         `json:"fonte" binding:"omitempty,max=255"`
	Data      *string         `json:"data"`
}

// UpdateIncomeRequest carries partial income updates.
type UpdateIncomeRequest struct {
	Descricao *string          `json:"descricao" binding:"omitempty,min=1,max=500"`
	Valor     *decimal.Decimal `json:"valor" binding:"omitempty,gt=0"`
	Categoria *models.Category `json:"categoria" binding:"omitempty,categoria_financeira"`
	Fonte     *string          `json:"fonte" binding:"omitempty,max=255"`
	Data      *string          `json:"data"`
}

// Create records a new income for the authenticated user.
func (h *IncomeHandler) Create(c *gin.Context) {
	remotejid, err := currentRemotejid(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req CreateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	data, err := optionalDate(req.Data)
	if err != nil {
		respondError(c, err)
		return
	}

	income, err := h.incomes.Create(remotejid, req.Descricao, req.Valor, req.Categoria, req.Fonte, data)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Receita registrada com sucesso", income)
}

// List returns incomes filtered by owner, category, date range and amount
// range, paginated.
func (h *IncomeHandler) List(c *gin.Context) {
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

	incomes, total, err := h.incomes.List(page, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, "Receitas listadas com sucesso", incomes, pagination.NewMeta(page, total))
}

// Dashboard returns the aggregate summary of incomes matching the filters.
func (h *IncomeHandler) Dashboard(c *gin.Context) {
	filter, err := bindDashboardFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	dashboard, err := h.incomes.Dashboard(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Dashboard de receitas gerado com sucesso", dashboard)
}

// GetByID returns a single income.
func (h *IncomeHandler) GetByID(c *gin.Context) {
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	income, err := h.incomes.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Receita encontrada", income)
}

// Update applies a partial update to an income.
func (h *IncomeHandler) Update(c *gin.Context) {
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req UpdateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	data, err := optionalDate(req.Data)
	if err != nil {
		respondError(c, err)
		return
	}

	income, err := h.incomes.Update(id, req.Descricao, req.Valor, req.Categoria, req.Fonte, data)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Receita atualizada com sucesso", income)
}

// Delete removes an income.
func (h *IncomeHandler) Delete(c *gin.Context) {
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.incomes.Delete(id); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Receita deletada com sucesso", nil)
}
