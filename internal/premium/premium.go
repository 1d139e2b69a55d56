// Package premium derives a user's entitlement state from the stored expiry
// timestamp and subscription tier. All time comparisons use the Brasília
// clock, since expiry dates are sold and communicated in that timezone.
package premium

import (
	"time"

	"granaia/internal/models"
)

// Feature names gated by subscription tier.
const (
	FeatureIA        = "ia"
	FeatureDashboard = "dashboard"
	// FeatureAll is the wildcard: a tier carrying it unlocks every feature.
	FeatureAll = "all"
)

// featureAccess maps each tier to its feature allow-list.
var featureAccess = map[models.PremiumTier][]string{
	models.TierFree:        {},
	models.TierIA:          {FeatureIA},
	models.TierIADashboard: {FeatureIA, FeatureDashboard},
	models.TierVitalicio:   {FeatureAll},
}

var brasilia *time.Location

func init() {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		loc = time.FixedZone("-03", -3*60*60)
	}
	brasilia = loc
}

// NowBrasilia returns the current time in the Brasília timezone.
func NowBrasilia() time.Time {
	return time.Now().In(brasilia)
}

// Active reports whether the user's premium is active right now.
func Active(u *models.User) bool {
	return ActiveAt(u, NowBrasilia())
}

// ActiveAt reports whether the user's premium is active at the given instant.
// A user with no expiry is never active.
func ActiveAt(u *models.User, now time.Time) bool {
	if u.PremiumUntil == nil {
		return false
	}
	return u.PremiumUntil.After(now)
}

// ExpiredAt reports whether the user's premium has expired at the given
// instant: an expiry is present and has passed. This is narrower than "not
// active", which also covers users that never had an expiry set.
func ExpiredAt(u *models.User, now time.Time) bool {
	if u.PremiumUntil == nil {
		return false
	}
	return !u.PremiumUntil.After(now)
}

// DenyReason distinguishes the two entitlement failure kinds for client
// messaging.
type DenyReason string

const (
	ReasonExpired             DenyReason = "premium_expired"
	ReasonFeatureNotAvailable DenyReason = "feature_not_available"
)

// Decision is the outcome of a feature entitlement check.
type Decision struct {
	Allowed bool
	Reason  DenyReason // empty when Allowed
}

// CheckFeature decides whether the user may use the named feature at the
// given instant. The premium must be active, and the user's tier allow-list
// must contain the feature or the wildcard.
func CheckFeature(u *models.User, feature string, now time.Time) Decision {
	if !ActiveAt(u, now) {
		return Decision{Reason: ReasonExpired}
	}

	tier := u.PremiumTier
	if tier == "" {
		tier = models.TierFree
	}

	for _, allowed := range featureAccess[tier] {
		if allowed == feature || allowed == FeatureAll {
			return Decision{Allowed: true}
		}
	}
	return Decision{Reason: ReasonFeatureNotAvailable}
}
