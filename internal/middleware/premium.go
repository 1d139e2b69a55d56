package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"granaia/internal/models"
	"granaia/internal/premium"
	"granaia/internal/services"
)

// RequirePremium loads the authenticated user and rejects the request with
// 403 unless the premium subscription is active. The loaded user is stored
// in the context so handlers do not fetch it again.
func RequirePremium(users services.UserServicer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := loadCurrentUser(c, users)
		if !ok {
			return
		}

		if !premium.ActiveAt(user, premium.NowBrasilia()) {
			abortPremiumExpired(c, user)
			return
		}

		c.Set(CtxUser, user)
		c.Next()
	}
}

// RequireFeature rejects the request unless the authenticated user's tier
// includes the named feature. The two failure kinds (expired plan vs feature
// not in the plan) are reported distinctly for client messaging.
func RequireFeature(users services.UserServicer, feature string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentOrLoadUser(c, users)
		if !ok {
			return
		}

		decision := premium.CheckFeature(user, feature, premium.NowBrasilia())
		if decision.Allowed {
			c.Set(CtxUser, user)
			c.Next()
			return
		}

		if decision.Reason == premium.ReasonExpired {
			abortPremiumExpired(c, user)
			return
		}

		tier := user.PremiumTier
		if tier == "" {
			tier = models.TierFree
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "Seu plano '" + string(tier) + "' não inclui acesso a '" + feature + "'. Faça upgrade para acessar.",
			"details": gin.H{
				"error":            string(premium.ReasonFeatureNotAvailable),
				"current_plan":     tier,
				"required_feature": feature,
			},
		})
	}
}

// currentOrLoadUser reuses a user already loaded by RequirePremium in the
// same chain.
func currentOrLoadUser(c *gin.Context, users services.UserServicer) (*models.User, bool) {
	if v, exists := c.Get(CtxUser); exists {
		if user, ok := v.(*models.User); ok {
			return user, true
		}
	}
	return loadCurrentUser(c, users)
}

func loadCurrentUser(c *gin.Context, users services.UserServicer) (*models.User, bool) {
	userID := c.GetString(CtxUserID)
	if userID == "" {
		abortUnauthorized(c)
		return nil, false
	}

	user, err := users.GetByID(userID)
	if err != nil {
		// A verified token naming a missing user is still unauthorized.
		abortUnauthorized(c)
		return nil, false
	}
	return user, true
}

func abortPremiumExpired(c *gin.Context, user *models.User) {
	var premiumUntil interface{}
	if user.PremiumUntil != nil {
		premiumUntil = user.PremiumUntil.Format(time.RFC3339)
	}
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"message": "Seu plano expirou. Assine um plano para continuar usando o sistema.",
		"details": gin.H{
			"error":         string(premium.ReasonExpired),
			"premium_until": premiumUntil,
			"tipo_premium":  user.PremiumTier,
		},
	})
}
