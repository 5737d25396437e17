package services

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"task-tracker/backend/internal/models"

	"github.com/gofrs/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegistrationRequest struct {
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RePassword string `json:"re_password" binding:"required"`
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
}

// PasswordPolicy is the configurable strength check applied to every new
// password: a length floor plus a dictionary of rejected common passwords.
type PasswordPolicy struct {
	MinLength int
}

var commonPasswords = map[string]struct{}{
	"password":  {},
	"password1": {},
	"12345678":  {},
	"123456789": {},
	"qwerty123": {},
	"letmein1":  {},
	"iloveyou1": {},
	"admin123":  {},
	"welcome1":  {},
	"abc12345":  {},
}

func (p PasswordPolicy) Validate(password string) *ValidationError {
	min := p.MinLength
	if min <= 0 {
		min = 8
	}
	if len(password) < min {
		return invalid("password", fmt.Sprintf("password must be at least %d characters long", min))
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		return invalid("password", "this password is too common")
	}
	return nil
}

type RegisterService interface {
	RegisterUser(db *gorm.DB, req RegistrationRequest) (*models.User, error)
	CreateSuperuser(db *gorm.DB, req RegistrationRequest) (*models.User, error)
}

type RegisterServiceImpl struct {
	passwords PasswordPolicy
	cost      int
}

func NewRegisterService(passwords PasswordPolicy, bcryptCost int) *RegisterServiceImpl {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &RegisterServiceImpl{passwords: passwords, cost: bcryptCost}
}

func (s *RegisterServiceImpl) RegisterUser(db *gorm.DB, req RegistrationRequest) (*models.User, error) {
	return s.createUser(db, req, false)
}

// CreateSuperuser forces both elevation flags. It is wired to seeding and
// operational tooling, never to a public endpoint.
func (s *RegisterServiceImpl) CreateSuperuser(db *gorm.DB, req RegistrationRequest) (*models.User, error) {
	user, err := s.createUser(db, req, true)
	if err != nil {
		return nil, err
	}
	if !user.IsStaff || !user.IsSuperuser {
		return nil, fmt.Errorf("%w: superusers must have is_staff=true and is_superuser=true", ErrInvariant)
	}
	return user, nil
}

func (s *RegisterServiceImpl) createUser(db *gorm.DB, req RegistrationRequest, superuser bool) (*models.User, error) {
	if err := s.validateRequest(&req); err != nil {
		return nil, err
	}

	var existing models.User
	if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrDuplicateEmail
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := models.User{
		ID:           uuid.Must(uuid.NewV4()),
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IsStaff:      superuser,
		IsSuperuser:  superuser,
		IsActive:     true,
		DateJoined:   now,
		UpdatedAt:    now,
	}

	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *RegisterServiceImpl) validateRequest(req *RegistrationRequest) error {
	req.Email = models.NormalizeEmail(req.Email)
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return invalid("email", "enter a valid email address")
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.FirstName == "" {
		return invalid("first_name", "first name is required")
	}
	if req.LastName == "" {
		return invalid("last_name", "last name is required")
	}

	if req.Password != req.RePassword {
		return invalid("re_password", "passwords do not match")
	}
	if err := s.passwords.Validate(req.Password); err != nil {
		return err
	}
	return nil
}
