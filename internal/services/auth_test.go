package services_test

import (
	"context"
	"testing"
	"time"

	"task-tracker/backend/internal/cache"
	"task-tracker/backend/internal/models"
	"task-tracker/backend/internal/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type AuthServiceTestSuite struct {
	suite.Suite
	db   *gorm.DB
	auth services.AuthService
	user *models.User
}

func (suite *AuthServiceTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)
	suite.Require().NoError(db.AutoMigrate(&models.User{}, &models.Task{}))
	suite.db = db

	mr := miniredis.RunT(suite.T())
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	tokens := cache.NewTokenStore(client, time.Hour)
	suite.auth = services.NewAuthService(tokens, "test-secret", 15*time.Minute)
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM users")

	register := services.NewRegisterService(services.PasswordPolicy{MinLength: 8}, 4)
	user, err := register.RegisterUser(suite.db, services.RegistrationRequest{
		Email:      "user_1@example.com",
		Password:   "correct horse battery",
		RePassword: "correct horse battery",
		FirstName:  "F_name",
		LastName:   "L_name",
	})
	suite.Require().NoError(err)
	suite.user = user
}

func (suite *AuthServiceTestSuite) TestLoginSuccess() {
	user, err := suite.auth.LoginUser(suite.db, "User_1@example.com", "correct horse battery")
	suite.NoError(err)
	suite.Equal(suite.user.ID, user.ID)
}

func (suite *AuthServiceTestSuite) TestLoginWrongPassword() {
	_, err := suite.auth.LoginUser(suite.db, "user_1@example.com", "wrong")
	suite.ErrorIs(err, services.ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestLoginUnknownEmail() {
	_, err := suite.auth.LoginUser(suite.db, "nobody@example.com", "correct horse battery")
	suite.ErrorIs(err, services.ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestLoginInactiveUser() {
	suite.Require().NoError(suite.db.Model(suite.user).Update("is_active", false).Error)

	_, err := suite.auth.LoginUser(suite.db, "user_1@example.com", "correct horse battery")
	suite.ErrorIs(err, services.ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestIssuedAccessTokenCarriesCaller() {
	pair, err := suite.auth.IssueTokens(context.Background(), suite.user)
	suite.Require().NoError(err)
	suite.NotEmpty(pair.RefreshToken)
	suite.Equal(int64(900), pair.ExpiresIn)

	token, err := jwt.Parse(pair.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	suite.Require().NoError(err)
	claims := token.Claims.(jwt.MapClaims)
	suite.Equal(suite.user.ID.String(), claims["user_id"])
	suite.Equal(services.TokenIssuer, claims["iss"])
}

func (suite *AuthServiceTestSuite) TestRefreshRotatesToken() {
	ctx := context.Background()
	pair, err := suite.auth.IssueTokens(ctx, suite.user)
	suite.Require().NoError(err)

	next, err := suite.auth.Refresh(ctx, suite.db, pair.RefreshToken)
	suite.Require().NoError(err)
	suite.NotEqual(pair.RefreshToken, next.RefreshToken)

	// The consumed token cannot be replayed.
	_, err = suite.auth.Refresh(ctx, suite.db, pair.RefreshToken)
	suite.ErrorIs(err, cache.ErrTokenNotFound)
}

func (suite *AuthServiceTestSuite) TestRevoke() {
	ctx := context.Background()
	pair, err := suite.auth.IssueTokens(ctx, suite.user)
	suite.Require().NoError(err)

	require.NoError(suite.T(), suite.auth.Revoke(ctx, pair.RefreshToken))

	_, err = suite.auth.Refresh(ctx, suite.db, pair.RefreshToken)
	suite.ErrorIs(err, cache.ErrTokenNotFound)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
