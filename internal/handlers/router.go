package handlers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"granaia/internal/auth"
	"granaia/internal/config"
	"granaia/internal/middleware"
	"granaia/internal/premium"
	"granaia/internal/services"
)

// access describes what the caller must present before a route's handler
// runs.
type access int

const (
	// accessPublic routes run without credentials.
	accessPublic access = iota
	// accessBearer routes require a valid bearer token.
	accessBearer
	// accessPremium routes require a bearer token plus an active premium
	// subscription.
	accessPremium
)

// route is one row of the registration table. feature, when set, stacks an
// additional premium feature gate on top of the access level.
type route struct {
	method  string
	path    string
	access  access
	feature string
	handler gin.HandlerFunc
}

// NewRouter assembles the Gin engine: global middleware plus every route in
// the registration table, each wrapped in the middleware its access level
// demands.
func NewRouter(
	cfg *config.Config,
	tokens *auth.TokenMaker,
	users services.UserServicer,
	authH *AuthHandler,
	userH *UserHandler,
	expenseH *ExpenseHandler,
	incomeH *IncomeHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler(cfg.Debug))
	router.Use(corsMiddleware(cfg))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Granaia API",
			"docs":    cfg.APIPrefix,
		})
	})
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireAuth := middleware.RequireAuth(tokens)
	requirePremium := middleware.RequirePremium(users)

	group := router.Group(cfg.APIPrefix)
	for _, rt := range routes(authH, userH, expenseH, incomeH) {
		chain := make([]gin.HandlerFunc, 0, 4)
		switch rt.access {
		case accessBearer:
			chain = append(chain, requireAuth)
		case accessPremium:
			chain = append(chain, requireAuth, requirePremium)
		}
		if rt.feature != "" {
			chain = append(chain, middleware.RequireFeature(users, rt.feature))
		}
		chain = append(chain, rt.handler)
		group.Handle(rt.method, rt.path, chain...)
	}

	return router
}

func routes(authH *AuthHandler, userH *UserHandler, expenseH *ExpenseHandler, incomeH *IncomeHandler) []route {
	return []route{
		{http.MethodPost, "/auth/register", accessPublic, "", authH.Register},
		{http.MethodPost, "/auth/login", accessPublic, "", authH.Login},
		{http.MethodGet, "/auth/me", accessBearer, "", authH.Me},

		{http.MethodPost, "/users", accessPublic, "", userH.Create},
		{http.MethodGet, "/users", accessPublic, "", userH.List},
		{http.MethodGet, "/users/:id", accessPublic, "", userH.GetByID},
		{http.MethodGet, "/users/by-remotejid/:remotejid", accessPublic, "", userH.GetByRemotejid},
		{http.MethodPut, "/users/:id", accessPublic, "", userH.Update},
		{http.MethodPatch, "/users/:id/premium", accessPublic, "", userH.UpdatePremium},
		{http.MethodPatch, "/users/:id/last-message", accessPublic, "", userH.UpdateLastMessage},
		{http.MethodDelete, "/users/:id", accessPublic, "", userH.Delete},

		{http.MethodPost, "/expenses", accessBearer, "", expenseH.Create},
		{http.MethodGet, "/expenses", accessBearer, "", expenseH.List},
		{http.MethodGet, "/expenses/dashboard", accessBearer, "", expenseH.Dashboard},
		{http.MethodGet, "/expenses/:id", accessPublic, "", expenseH.GetByID},
		{http.MethodPut, "/expenses/:id", accessPublic, "", expenseH.Update},
		{http.MethodDelete, "/expenses/:id", accessPublic, "", expenseH.Delete},

		{http.MethodPost, "/incomes", accessPremium, "", incomeH.Create},
		{http.MethodGet, "/incomes", accessPremium, "", incomeH.List},
		{http.MethodGet, "/incomes/dashboard", accessPremium, premium.FeatureDashboard, incomeH.Dashboard},
		{http.MethodGet, "/incomes/:id", accessPublic, "", incomeH.GetByID},
		{http.MethodPut, "/incomes/:id", accessPremium, "", incomeH.Update},
		{http.MethodDelete, "/incomes/:id", accessPremium, "", incomeH.Delete},
	}
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
		corsCfg.AllowCredentials = true
	}
	return cors.New(corsCfg)
}
