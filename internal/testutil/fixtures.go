package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"granaia/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password, unique email and
// unique remotejid.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	n := nextID()
	hash, err := bcrypt.GenerateFromPassword([]byte("senha123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	email := fmt.Sprintf("user%d@test.com", n)
	passwordHash := string(hash)
	user := &models.User{
		Name:         fmt.Sprintf("Test User %d", n),
		Phone:        fmt.Sprintf("1199999%04d", n%10000),
		Remotejid:    fmt.Sprintf("551199999%04d@s.whatsapp.net", n%10000),
		Email:        &email,
		PasswordHash: &passwordHash,
		PremiumTier:  models.TierFree,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestPremiumUser creates a user whose premium subscription expires at
// the given time with the given tier.
func CreateTestPremiumUser(t *testing.T, db *gorm.DB, until time.Time, tier models.PremiumTier) *models.User {
	t.Helper()

	user := CreateTestUser(t, db)
	if err := db.Model(user).Updates(map[string]interface{}{
		"premium_until": until,
		"tipo_premium":  tier,
	}).Error; err != nil {
		t.Fatalf("failed to set premium on test user: %v", err)
	}
	user.PremiumUntil = &until
	user.PremiumTier = tier
	return user
}

// CreateTestExpense creates an expense for the given owner with the given
// amount.
func CreateTestExpense(t *testing.T, db *gorm.DB, remotejid string, valor decimal.Decimal, categoria models.Category) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		Usuario:   remotejid,
		Descricao: fmt.Sprintf("Test Expense %d", nextID()),
		Valor:     valor,
		Categoria: categoria,
		Data:      time.Now(),
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestIncome creates an income for the given owner with the given
// amount.
func CreateTestIncome(t *testing.T, db *gorm.DB, remotejid string, valor decimal.Decimal, categoria models.Category) *models.Income {
	t.Helper()

	income := &models.Income{
		Usuario:   remotejid,
		Descricao: fmt.Sprintf("Test Income %d", nextID()),
		Valor:     valor,
		Categoria: categoria,
		Data:      time.Now(),
	}
	if err := db.Create(income).Error; err != nil {
		t.Fatalf("failed to create test income: %v", err)
	}
	return income
}
