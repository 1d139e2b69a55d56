package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"granaia/internal/auth"
	apperrors "granaia/internal/errors"
	"granaia/internal/models"
	"granaia/internal/pagination"
	"granaia/internal/services"
	"granaia/internal/validator"
)

// --- mock services ---

type mockUserService struct {
	registerFn          func(name, email, phone, senha string) (*models.User, error)
	authenticateFn      func(email, senha string) (*models.User, error)
	createFn            func(name, phone, remotejid string, lastMessage *string, premiumUntil *time.Time) (*models.User, error)
	getByIDFn           func(id string) (*models.User, error)
	getByRemotejidFn    func(remotejid string) (*models.User, error)
	listFn              func(page pagination.PageRequest, filter services.UserFilter) ([]models.User, int64, error)
	updateFn            func(id string, name, phone, email *string) (*models.User, error)
	updatePremiumFn     func(id string, until time.Time, tier *models.PremiumTier) (*models.User, error)
	updateLastMessageFn func(id, message string) (*models.User, error)
	deleteFn            func(id string) error
}

func (m *mockUserService) Register(name, email, phone, senha string) (*models.User, error) {
	if m.registerFn != nil {
		return m.registerFn(name, email, phone, senha)
	}
	return &models.User{}, nil
}

func (m *mockUserService) Authenticate(email, senha string) (*models.User, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(email, senha)
	}
	return &models.User{}, nil
}

func (m *mockUserService) Create(name, phone, remotejid string, lastMessage *string, premiumUntil *time.Time) (*models.User, error) {
	if m.createFn != nil {
		return m.createFn(name, phone, remotejid, lastMessage, premiumUntil)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetByID(id string) (*models.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(id)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetByRemotejid(remotejid string) (*models.User, error) {
	if m.getByRemotejidFn != nil {
		return m.getByRemotejidFn(remotejid)
	}
	return &models.User{}, nil
}

func (m *mockUserService) List(page pagination.PageRequest, filter services.UserFilter) ([]models.User, int64, error) {
	if m.listFn != nil {
		return m.listFn(page, filter)
	}
	return nil, 0, nil
}

func (m *mockUserService) Update(id string, name, phone, email *string) (*models.User, error) {
	if m.updateFn != nil {
		return m.updateFn(id, name, phone, email)
	}
	return &models.User{}, nil
}

func (m *mockUserService) UpdatePremium(id string, until time.Time, tier *models.PremiumTier) (*models.User, error) {
	if m.updatePremiumFn != nil {
		return m.updatePremiumFn(id, until, tier)
	}
	return &models.User{}, nil
}

func (m *mockUserService) UpdateLastMessage(id, message string) (*models.User, error) {
	if m.updateLastMessageFn != nil {
		return m.updateLastMessageFn(id, message)
	}
	return &models.User{}, nil
}

func (m *mockUserService) Delete(id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return nil
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func testTokenMaker() *auth.TokenMaker {
	return auth.NewTokenMaker("test-secret", time.Hour)
}

func sampleUser() *models.User {
	email := "maria@test.com"
	return &models.User{
		Base:        models.Base{ID: "11111111-1111-1111-1111-111111111111"},
		Name:        "Maria",
		Phone:       "(11) 99999-0000",
		Remotejid:   "5511999990000@s.whatsapp.net",
		Email:       &email,
		PremiumTier: models.TierFree,
	}
}

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	r.GET("/auth/me", injectClaims(sampleUser()), handler.Me)
	return r
}

func injectClaims(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", user.ID)
		c.Set("remotejid", user.Remotejid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertEnvelope(t *testing.T, result map[string]interface{}, success bool) {
	t.Helper()
	if result["success"] != success {
		t.Errorf("expected success=%v, got %v", success, result["success"])
	}
	if _, ok := result["message"].(string); !ok {
		t.Errorf("expected a message string, got %v", result["message"])
	}
}

// --- tests ---

func TestAuthHandler_Register(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		userSvc := &mockUserService{
			registerFn: func(name, email, phone, _ string) (*models.User, error) {
				u := sampleUser()
				u.Name = name
				u.Email = &email
				u.Phone = phone
				return u, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc, testTokenMaker()))

		rec := doRequest(r, "POST", "/auth/register",
			`{"name":"Maria","email":"maria@test.com","phone":"(11) 99999-0000","senha":"senha123"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		assertEnvelope(t, result, true)
		data := result["data"].(map[string]interface{})
		if data["remotejid"] != "5511999990000@s.whatsapp.net" {
			t.Errorf("unexpected remotejid %v", data["remotejid"])
		}
		if _, exposed := data["senha"]; exposed {
			t.Error("password hash must never appear in responses")
		}
	})

	t.Run("returns 422 with field details on invalid body", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}, testTokenMaker()))

		rec := doRequest(r, "POST", "/auth/register", `{"email":"not-an-email","senha":"123"}`)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		assertEnvelope(t, result, false)
		details, ok := result["details"].([]interface{})
		if !ok || len(details) == 0 {
			t.Fatalf("expected per-field details list, got %v", result["details"])
		}
		first := details[0].(map[string]interface{})
		for _, key := range []string{"field", "message", "type"} {
			if first[key] == nil {
				t.Errorf("expected detail entry to carry %q, got %v", key, first)
			}
		}
	})

	t.Run("returns 409 on duplicate email", func(t *testing.T) {
		userSvc := &mockUserService{
			registerFn: func(_, _, _, _ string) (*models.User, error) {
				return nil, apperrors.ErrDuplicateEmail
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc, testTokenMaker()))

		rec := doRequest(r, "POST", "/auth/register",
			`{"name":"Maria","email":"dup@test.com","phone":"(11) 99999-0000","senha":"senha123"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertEnvelope(t, parseJSON(t, rec), false)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns token payload on success", func(t *testing.T) {
		userSvc := &mockUserService{
			authenticateFn: func(email, senha string) (*models.User, error) {
				if email != "maria@test.com" || senha != "senha123" {
					return nil, apperrors.ErrInvalidCredentials
				}
				return sampleUser(), nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc, testTokenMaker()))

		rec := doRequest(r, "POST", "/auth/login", `{"email":"maria@test.com","senha":"senha123"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		assertEnvelope(t, result, true)
		data := result["data"].(map[string]interface{})
		if data["access_token"] == nil || data["access_token"] == "" {
			t.Error("expected non-empty access_token")
		}
		if data["token_type"] != "bearer" {
			t.Errorf("expected token_type bearer, got %v", data["token_type"])
		}
		if data["remotejid"] != "5511999990000@s.whatsapp.net" {
			t.Errorf("unexpected remotejid %v", data["remotejid"])
		}
	})

	t.Run("returns 401 on bad credentials", func(t *testing.T) {
		userSvc := &mockUserService{
			authenticateFn: func(_, _ string) (*models.User, error) {
				return nil, apperrors.ErrInvalidCredentials
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc, testTokenMaker()))

		rec := doRequest(r, "POST", "/auth/login", `{"email":"maria@test.com","senha":"errada"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertEnvelope(t, parseJSON(t, rec), false)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	t.Run("returns profile with premium flag", func(t *testing.T) {
		until := time.Now().Add(24 * time.Hour)
		userSvc := &mockUserService{
			getByIDFn: func(id string) (*models.User, error) {
				u := sampleUser()
				u.PremiumUntil = &until
				u.PremiumTier = models.TierIA
				return u, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc, testTokenMaker()))

		rec := doRequest(r, "GET", "/auth/me", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		data := parseJSON(t, rec)["data"].(map[string]interface{})
		if data["is_premium_active"] != true {
			t.Errorf("expected is_premium_active true, got %v", data["is_premium_active"])
		}
		if data["tipo_premium"] != "ia" {
			t.Errorf("expected tipo_premium ia, got %v", data["tipo_premium"])
		}
	})

	t.Run("returns 401 when token user no longer exists", func(t *testing.T) {
		userSvc := &mockUserService{
			getByIDFn: func(id string) (*models.User, error) {
				return nil, apperrors.ErrUserNotFound
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc, testTokenMaker()))

		rec := doRequest(r, "GET", "/auth/me", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if rec.Header().Get("WWW-Authenticate") == "" {
			t.Error("expected WWW-Authenticate header")
		}
	})
}
