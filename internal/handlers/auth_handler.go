package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"granaia/internal/auth"
	apperrors "granaia/internal/errors"
	"granaia/internal/models"
	"granaia/internal/premium"
	"granaia/internal/services"
)

// AuthHandler serves registration, login and the authenticated profile.
type AuthHandler struct {
	users  services.UserServicer
	tokens *auth.TokenMaker
}

func NewAuthHandler(users services.UserServicer, tokens *auth.TokenMaker) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// RegisterRequest is the self-service signup payload.
type RegisterRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=255"`
	Email string `json:"email" binding:"required,email,max=255"`
	Phone string `json:"phone" binding:"required,min=8,max=30"`
	Senha string `json:"senha" binding:"required,min=6,max=128"`
}

// LoginRequest carries the credentials for token issuance.
type LoginRequest struct {
	Email string `json:"email" binding:"required,email"`
	Senha string `json:"senha" binding:"required"`
}

// TokenResponse is the login payload inside the envelope.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Remotejid   string `json:"remotejid"`
}

// UserResponse is the user payload inside the envelope. The password hash
// never leaves the service layer.
type UserResponse struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Phone           string             `json:"phone"`
	Remotejid       string             `json:"remotejid"`
	Email           *string            `json:"email"`
	LastMessage     *string            `json:"last_message"`
	PremiumUntil    *time.Time         `json:"premium_until"`
	TipoPremium     models.PremiumTier `json:"tipo_premium"`
	IsPremiumActive bool               `json:"is_premium_active"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func newUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Phone:           u.Phone,
		Remotejid:       u.Remotejid,
		Email:           u.Email,
		LastMessage:     u.LastMessage,
		PremiumUntil:    u.PremiumUntil,
		TipoPremium:     u.PremiumTier,
		IsPremiumActive: premium.Active(u),
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// Register creates a new account from name, email, phone and password.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	user, err := h.users.Register(req.Name, req.Email, req.Phone, req.Senha)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Usuário cadastrado com sucesso", newUserResponse(user))
}

// Login verifies credentials and issues a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	user, err := h.users.Authenticate(req.Email, req.Senha)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		respondError(c, apperrors.Wrap(apperrors.ErrInternal, err))
		return
	}

	email := ""
	if user.Email != nil {
		email = *user.Email
	}
	respond(c, http.StatusOK, "Login realizado com sucesso", TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserID:      user.ID,
		Email:       email,
		Name:        user.Name,
		Remotejid:   user.Remotejid,
	})
}

// Me returns the profile behind the bearer token. A valid token whose user
// no longer exists is treated as an invalid credential, not a 404.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.users.GetByID(userID)
	if err != nil {
		c.Header("WWW-Authenticate", "Bearer")
		respondError(c, apperrors.ErrInvalidToken)
		return
	}

	respond(c, http.StatusOK, "Usuário autenticado", newUserResponse(user))
}
