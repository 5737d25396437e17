package services

import (
	"context"
	"time"

	"task-tracker/backend/internal/cache"
	"task-tracker/backend/internal/models"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const TokenIssuer = "task-tracker-backend"

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type AuthService interface {
	LoginUser(db *gorm.DB, email, password string) (*models.User, error)
	IssueTokens(ctx context.Context, user *models.User) (*TokenPair, error)
	Refresh(ctx context.Context, db *gorm.DB, refreshToken string) (*TokenPair, error)
	Revoke(ctx context.Context, refreshToken string) error
}

type AuthServiceImpl struct {
	tokens    *cache.TokenStore
	secret    []byte
	accessTTL time.Duration
}

func NewAuthService(tokens *cache.TokenStore, secret string, accessTTL time.Duration) *AuthServiceImpl {
	if accessTTL == 0 {
		accessTTL = 15 * time.Minute
	}
	return &AuthServiceImpl{tokens: tokens, secret: []byte(secret), accessTTL: accessTTL}
}

func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func (s *AuthServiceImpl) LoginUser(db *gorm.DB, email, password string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", models.NormalizeEmail(email)).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *AuthServiceImpl) IssueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"iss":     TokenIssuer,
		"exp":     time.Now().Add(s.accessTTL).Unix(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	refresh := uuid.Must(uuid.NewV4()).String()
	if err := s.tokens.Save(ctx, refresh, user.ID); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// Refresh rotates the token: the presented value is consumed and a fresh
// pair is issued, so a replayed token fails.
func (s *AuthServiceImpl) Refresh(ctx context.Context, db *gorm.DB, refreshToken string) (*TokenPair, error) {
	userID, err := s.tokens.Consume(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, cache.ErrTokenNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	return s.IssueTokens(ctx, &user)
}

func (s *AuthServiceImpl) Revoke(ctx context.Context, refreshToken string) error {
	return s.tokens.Revoke(ctx, refreshToken)
}
