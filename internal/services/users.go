package services

import (
	"net/mail"
	"strings"
	"time"

	"task-tracker/backend/internal/models"
	"task-tracker/backend/internal/policy"

	"github.com/gofrs/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UpdateUserInput is a partial update; nil fields are left untouched.
// Elevation flags are not updatable through this path.
type UpdateUserInput struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ReNewPassword   string `json:"re_new_password" binding:"required"`
}

type UserService interface {
	GetUser(db *gorm.DB, caller *models.User, id uuid.UUID) (*models.User, error)
	ListUsers(db *gorm.DB, caller *models.User) ([]models.User, error)
	UpdateUser(db *gorm.DB, caller *models.User, id uuid.UUID, input UpdateUserInput) (*models.User, error)
	DeleteUser(db *gorm.DB, caller *models.User, id uuid.UUID) error
	ChangePassword(db *gorm.DB, caller *models.User, id uuid.UUID, input ChangePasswordInput) error
}

type UserServiceImpl struct {
	passwords PasswordPolicy
	cost      int
}

func NewUserService(passwords PasswordPolicy, bcryptCost int) *UserServiceImpl {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserServiceImpl{passwords: passwords, cost: bcryptCost}
}

func (s *UserServiceImpl) GetUser(db *gorm.DB, caller *models.User, id uuid.UUID) (*models.User, error) {
	target, err := loadUser(db, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeUser(caller, policy.ActionRetrieve, target); err != nil {
		return nil, err
	}
	return target, nil
}

func (s *UserServiceImpl) ListUsers(db *gorm.DB, caller *models.User) ([]models.User, error) {
	if err := policy.AuthorizeUser(caller, policy.ActionList, nil); err != nil {
		return nil, err
	}
	var users []models.User
	if err := db.Order("date_joined").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserServiceImpl) UpdateUser(db *gorm.DB, caller *models.User, id uuid.UUID, input UpdateUserInput) (*models.User, error) {
	target, err := loadUser(db, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeUser(caller, policy.ActionUpdate, target); err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := models.NormalizeEmail(*input.Email)
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, invalid("email", "enter a valid email address")
		}
		if email != target.Email {
			var existing models.User
			if err := db.Where("email = ? AND id <> ?", email, target.ID).First(&existing).Error; err == nil {
				return nil, ErrDuplicateEmail
			} else if err != gorm.ErrRecordNotFound {
				return nil, err
			}
		}
		target.Email = email
	}
	if input.FirstName != nil {
		name := strings.TrimSpace(*input.FirstName)
		if name == "" {
			return nil, invalid("first_name", "first name is required")
		}
		target.FirstName = name
	}
	if input.LastName != nil {
		name := strings.TrimSpace(*input.LastName)
		if name == "" {
			return nil, invalid("last_name", "last name is required")
		}
		target.LastName = name
	}

	target.UpdatedAt = time.Now()
	if err := db.Save(target).Error; err != nil {
		return nil, err
	}
	return target, nil
}

// DeleteUser removes the user and, through the store's cascade, every task
// they own.
func (s *UserServiceImpl) DeleteUser(db *gorm.DB, caller *models.User, id uuid.UUID) error {
	target, err := loadUser(db, id)
	if err != nil {
		return err
	}
	if err := policy.AuthorizeUser(caller, policy.ActionDestroy, target); err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", target.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(target).Error
	})
}

func (s *UserServiceImpl) ChangePassword(db *gorm.DB, caller *models.User, id uuid.UUID, input ChangePasswordInput) error {
	target, err := loadUser(db, id)
	if err != nil {
		return err
	}
	if err := policy.AuthorizeUser(caller, policy.ActionChangePassword, target); err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(target.PasswordHash), []byte(input.CurrentPassword)) != nil {
		return invalid("current_password", "the current password is incorrect")
	}
	if input.NewPassword != input.ReNewPassword {
		return invalid("re_new_password", "the new passwords do not match")
	}
	if err := s.passwords.Validate(input.NewPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), s.cost)
	if err != nil {
		return err
	}
	target.PasswordHash = string(hash)
	target.UpdatedAt = time.Now()
	return db.Save(target).Error
}

func loadUser(db *gorm.DB, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
