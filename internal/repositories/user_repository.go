package repositories

import (
	"errors"

	"contacts_backend/internal/models"

	"gorm.io/gorm"
)

// UserRepository is the storage port for users. Implementations hold no
// connection; every call receives the request-scoped *gorm.DB.
type UserRepository interface {
	// Create inserts user; ErrUserAlreadyExists on a unique username/email clash.
	Create(db *gorm.DB, user *models.User) error

	FindByID(db *gorm.DB, id uint) (*models.User, error)
	FindByUsername(db *gorm.DB, username string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)

	// SetEmailVerified flips email_verified to true.
	SetEmailVerified(db *gorm.DB, id uint) error

	// SetRefreshToken overwrites the stored refresh token; nil clears it.
	SetRefreshToken(db *gorm.DB, id uint, token *string) error

	// SetPasswordResetToken overwrites the stored reset token; nil clears it.
	SetPasswordResetToken(db *gorm.DB, id uint, token *string) error

	// UpdatePassword stores a new hash and clears the reset token.
	UpdatePassword(db *gorm.DB, id uint, passwordHash string) error

	UpdateAvatar(db *gorm.DB, id uint, avatarURL string) error

	Delete(db *gorm.DB, id uint) error
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *models.User) error {
	if err := db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *userRepository) FindByID(db *gorm.DB, id uint) (*models.User, error) {
	return r.findOne(db, "id = ?", id)
}

func (r *userRepository) FindByUsername(db *gorm.DB, username string) (*models.User, error) {
	return r.findOne(db, "username = ?", username)
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	return r.findOne(db, "email = ?", email)
}

func (r *userRepository) findOne(db *gorm.DB, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := db.Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) SetEmailVerified(db *gorm.DB, id uint) error {
	return r.update(db, id, map[string]interface{}{"email_verified": true})
}

func (r *userRepository) SetRefreshToken(db *gorm.DB, id uint, token *string) error {
	return r.update(db, id, map[string]interface{}{"refresh_token": token})
}

func (r *userRepository) SetPasswordResetToken(db *gorm.DB, id uint, token *string) error {
	return r.update(db, id, map[string]interface{}{"password_reset_token": token})
}

func (r *userRepository) UpdatePassword(db *gorm.DB, id uint, passwordHash string) error {
	return r.update(db, id, map[string]interface{}{
		"password":             passwordHash,
		"password_reset_token": nil,
	})
}

func (r *userRepository) UpdateAvatar(db *gorm.DB, id uint, avatarURL string) error {
	return r.update(db, id, map[string]interface{}{"avatar": avatarURL})
}

func (r *userRepository) update(db *gorm.DB, id uint, fields map[string]interface{}) error {
	result := db.Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Delete(db *gorm.DB, id uint) error {
	result := db.Delete(&models.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
