package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"granaia/internal/config"
	apperrors "granaia/internal/errors"
	"granaia/internal/models"
	"granaia/internal/pagination"
	"granaia/internal/services"
)

// UserHandler serves the back-office user management surface.
type UserHandler struct {
	users services.UserServicer
	cfg   *config.Config
}

func NewUserHandler(users services.UserServicer, cfg *config.Config) *UserHandler {
	return &UserHandler{users: users, cfg: cfg}
}

// CreateUserRequest is the back-office creation payload. Unlike signup, the
// remotejid is supplied directly and no password is set.
type CreateUserRequest struct {
	Name         string  `json:"name" binding:"required,min=1,max=255"`
	Phone        string  `json:"phone" binding:"omitempty,max=30"`
	Remotejid    string  `json:"remotejid" binding:"required,min=1,max=255"`
	LastMessage  *string `json:"last_message"`
	PremiumUntil *string `json:"premium_until"`
}

// UpdateUserRequest carries partial profile updates. Absent fields are left
// untouched.
type UpdateUserRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=255"`
	Phone *string `json:"phone" binding:"omitempty,max=30"`
	Email *string `json:"email" binding:"omitempty,email,max=255"`
}

// UpdatePremiumRequest sets a new premium expiry and optionally the tier.
type UpdatePremiumRequest struct {
	PremiumUntil string              `json:"premium_until" binding:"required"`
	TipoPremium  *models.PremiumTier `json:"tipo_premium" binding:"omitempty,tipo_premium"`
}

// UpdateLastMessageRequest updates the stored last interaction text.
type UpdateLastMessageRequest struct {
	LastMessage string `json:"last_message" binding:"required"`
}

// Create registers a user directly with an explicit remotejid.
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	var premiumUntil *time.Time
	if req.PremiumUntil != nil {
		t, err := parseFlexibleTime(*req.PremiumUntil)
		if err != nil {
			respondError(c, apperrors.WithMessage(apperrors.ErrBadRequest, err.Error()))
			return
		}
		premiumUntil = &t
	}

	user, err := h.users.Create(req.Name, req.Phone, req.Remotejid, req.LastMessage, premiumUntil)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Usuário criado com sucesso", newUserResponse(user))
}

// List returns users filtered by name, phone and premium state, paginated.
func (h *UserHandler) List(c *gin.Context) {
	page, err := bindPage(c, h.cfg.PageSizeDefault, h.cfg.PageSizeMax)
	if err != nil {
		respondError(c, err)
		return
	}

	filter := services.UserFilter{
		Name:  queryString(c, "name"),
		Phone: queryString(c, "phone"),
	}
	if filter.PremiumActive, err = queryBool(c, "premium_active"); err != nil {
		respondError(c, err)
		return
	}
	if filter.PremiumExpired, err = queryBool(c, "premium_expired"); err != nil {
		respondError(c, err)
		return
	}

	users, total, err := h.users.List(page, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, newUserResponse(&users[i]))
	}
	respondList(c, "Usuários listados com sucesso", out, pagination.NewMeta(page, total))
}

// GetByID returns a single user by its UUID.
func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.users.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Usuário encontrado", newUserResponse(user))
}

// GetByRemotejid returns a single user by its external identifier.
func (h *UserHandler) GetByRemotejid(c *gin.Context) {
	user, err := h.users.GetByRemotejid(c.Param("remotejid"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Usuário encontrado", newUserResponse(user))
}

// Update applies a partial profile update.
func (h *UserHandler) Update(c *gin.Context) {
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	user, err := h.users.Update(id, req.Name, req.Phone, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Usuário atualizado com sucesso", newUserResponse(user))
}

// UpdatePremium sets the premium expiry and, when given, the tier.
func (h *UserHandler) UpdatePremium(c *gin.Context) {
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req UpdatePremiumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	until, err := parseFlexibleTime(req.PremiumUntil)
	if err != nil {
		respondError(c, apperrors.WithMessage(apperrors.ErrBadRequest, err.Error()))
		return
	}

	user, err := h.users.UpdatePremium(id, until, req.TipoPremium)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Premium atualizado com sucesso", newUserResponse(user))
}

// UpdateLastMessage records the most recent interaction text.
func (h *UserHandler) UpdateLastMessage(c *gin.Context) {
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req UpdateLastMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	user, err := h.users.UpdateLastMessage(id, req.LastMessage)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Última mensagem atualizada com sucesso", newUserResponse(user))
}

// Delete removes a user and every expense and income that belongs to it.
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.users.Delete(id); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Usuário deletado com sucesso", nil)
}
