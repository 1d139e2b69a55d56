package services

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"gorm.io/gorm"

	"granaia/internal/auth"
	apperrors "granaia/internal/errors"
	"granaia/internal/models"
	"granaia/internal/pagination"
	"granaia/internal/premium"
)

const (
	remotejidSuffix   = "@s.whatsapp.net"
	countryCodePrefix = "55"
)

// DeriveRemotejid derives the canonical external messaging identifier from a
// phone number: non-digit characters are stripped, local numbers (DDD +
// subscriber, up to 11 digits) get the Brazilian country code prepended, and
// the WhatsApp suffix is appended.
func DeriveRemotejid(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) <= 11 {
		digits = countryCodePrefix + digits
	}
	return digits + remotejidSuffix
}

// userService handles user-related business logic.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// Register creates a user from the public registration flow: the remotejid is
// derived from the phone and the password is hashed before storage. The
// email/remotejid pre-checks give friendly conflict messages; the database
// unique constraints remain the final authority under concurrent
// registration.
func (s *userService) Register(name, email, phone, senha string) (*models.User, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	remotejid := DeriveRemotejid(phone)
	if err := s.db.Model(&models.User{}).Where("remotejid = ?", remotejid).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateRemotejid
	}

	hash, err := auth.HashPassword(senha)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	user := &models.User{
		Name:         name,
		Phone:        phone,
		Remotejid:    remotejid,
		Email:        &email,
		PasswordHash: &hash,
		PremiumTier:  models.TierFree,
	}

	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.WithMessage(apperrors.ErrConflict, "Email ou telefone já está cadastrado")
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	return user, nil
}

// Authenticate checks a login attempt. Every failure path is unauthorized;
// the message never reveals whether the email exists.
func (s *userService) Authenticate(email, senha string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	if user.PasswordHash == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidCredentials, "Usuário sem senha cadastrada")
	}

	if !auth.VerifyPassword(*user.PasswordHash, senha) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return &user, nil
}

// Create registers a user through the back-office surface, with an explicit
// remotejid.
func (s *userService) Create(name, phone, remotejid string, lastMessage *string, premiumUntil *time.Time) (*models.User, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("remotejid = ?", remotejid).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateRemotejid
	}

	user := &models.User{
		Name:         name,
		Phone:        phone,
		Remotejid:    remotejid,
		LastMessage:  lastMessage,
		PremiumUntil: premiumUntil,
		PremiumTier:  models.TierFree,
	}

	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateRemotejid
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	return user, nil
}

// GetByID retrieves a user by primary key.
func (s *userService) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}
	return &user, nil
}

// GetByRemotejid retrieves a user by the external messaging identifier.
func (s *userService) GetByRemotejid(remotejid string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("remotejid = ?", remotejid).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}
	return &user, nil
}

// List retrieves a page of users with optional partial-match and
// premium-state filters, newest first. The total count is computed
// independently of the page.
func (s *userService) List(page pagination.PageRequest, filter UserFilter) ([]models.User, int64, error) {
	base := s.db.Model(&models.User{})

	if filter.Name != nil {
		base = base.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(*filter.Name)+"%")
	}
	if filter.Phone != nil {
		base = base.Where("LOWER(phone) LIKE ?", "%"+strings.ToLower(*filter.Phone)+"%")
	}

	now := premium.NowBrasilia()
	if filter.PremiumActive != nil {
		if *filter.PremiumActive {
			base = base.Where("premium_until > ?", now)
		} else {
			base = base.Where("(premium_until IS NULL OR premium_until <= ?)", now)
		}
	}
	if filter.PremiumExpired != nil {
		if *filter.PremiumExpired {
			base = base.Where("premium_until IS NOT NULL AND premium_until <= ?", now)
		} else {
			base = base.Where("(premium_until IS NULL OR premium_until > ?)", now)
		}
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	var users []models.User
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	return users, totalItems, nil
}

// Update applies the provided fields to an existing user.
func (s *userService) Update(id string, name, phone, email *string) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != nil {
		updates["name"] = *name
	}
	if phone != nil {
		updates["phone"] = *phone
	}
	if email != nil {
		updates["email"] = *email
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperrors.ErrDuplicateEmail
			}
			return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
		}
	}

	return user, nil
}

// UpdatePremium sets the premium expiry and optionally the tier.
func (s *userService) UpdatePremium(id string, until time.Time, tier *models.PremiumTier) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"premium_until": until}
	if tier != nil {
		updates["tipo_premium"] = *tier
	}

	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	return user, nil
}

// UpdateLastMessage stores the user's last inbound message text.
func (s *userService) UpdateLastMessage(id, message string) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(user).Update("last_message", message).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	return user, nil
}

// Delete removes a user and every expense/income row it owns inside a single
// transaction. The cascade is an explicit application rule; the schema's
// ON DELETE CASCADE is only a backstop.
func (s *userService) Delete(id string) error {
	user, err := s.GetByID(id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("usuario = ?", user.Remotejid).Delete(&models.Expense{}).Error; err != nil {
			return err
		}
		if err := tx.Where("usuario = ?", user.Remotejid).Delete(&models.Income{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, err)
	}
	return nil
}
