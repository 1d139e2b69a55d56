package models

import "time"

// PremiumTier is the subscription level controlling feature access.
type PremiumTier string

const (
	TierFree        PremiumTier = "free"
	TierIA          PremiumTier = "ia"
	TierIADashboard PremiumTier = "ia_dashboard"
	TierVitalicio   PremiumTier = "vitalicio"
)

// ValidPremiumTier reports whether t is one of the known tiers.
func ValidPremiumTier(t PremiumTier) bool {
	switch t {
	case TierFree, TierIA, TierIADashboard, TierVitalicio:
		return true
	}
	return false
}

// User represents the user model in the database. Expense and income rows
// reference the user through remotejid rather than the primary key, matching
// the messaging identifier the WhatsApp ingress uses.
type User struct {
	Base
	Name         string      `gorm:"not null;index" json:"name"`
	Phone        string      `gorm:"index" json:"phone"`
	Remotejid    string      `gorm:"uniqueIndex;not null" json:"remotejid"`
	Email        *string     `gorm:"uniqueIndex" json:"email,omitempty"`
	PasswordHash *string     `gorm:"column:senha" json:"-"`
	LastMessage  *string     `json:"last_message,omitempty"`
	PremiumUntil *time.Time  `gorm:"index" json:"premium_until,omitempty"`
	PremiumTier  PremiumTier `gorm:"column:tipo_premium;not null;default:'free'" json:"tipo_premium"`

	Expenses []Expense `gorm:"foreignKey:Usuario;references:Remotejid;constraint:OnDelete:CASCADE" json:"-"`
	Incomes  []Income  `gorm:"foreignKey:Usuario;references:Remotejid;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName keeps the original schema's table name.
func (User) TableName() string { return "usuarios" }
