package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"task-tracker/backend/internal/cache"
	"task-tracker/backend/internal/handlers"
	"task-tracker/backend/internal/models"
	"task-tracker/backend/internal/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testSecret   = "test-secret"
	testPassword = "correct horse battery"
)

// apiFixture runs the full router against sqlite and miniredis, so handler
// tests exercise the real authentication middleware and status mapping.
type apiFixture struct {
	db     *gorm.DB
	router *gin.Engine
	auth   services.AuthService
	tasks  services.TaskService

	user1 *models.User
	user2 *models.User
	admin *models.User
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	tokens := cache.NewTokenStore(client, time.Hour)
	auth := services.NewAuthService(tokens, testSecret, 15*time.Minute)

	passwords := services.PasswordPolicy{MinLength: 8}
	register := services.NewRegisterService(passwords, 4)
	users := services.NewUserService(passwords, 4)
	taskService := services.NewTaskService()

	router := gin.New()
	handlers.RegisterRoutes(router, db, testSecret,
		handlers.NewUserHandler(db, users, register),
		handlers.NewTaskHandler(db, taskService),
		handlers.NewAuthHandler(db, auth))

	f := &apiFixture{db: db, router: router, auth: auth, tasks: taskService}
	f.user1 = f.seedUser(t, register, "user_1@example.com")
	f.user2 = f.seedUser(t, register, "user_2@example.com")
	f.admin = f.seedUser(t, register, "admin@example.com")
	require.NoError(t, db.Model(f.admin).Updates(map[string]interface{}{
		"is_staff":     true,
		"is_superuser": true,
	}).Error)
	f.admin.IsStaff = true
	f.admin.IsSuperuser = true
	return f
}

func (f *apiFixture) seedUser(t *testing.T, register services.RegisterService, email string) *models.User {
	t.Helper()
	user, err := register.RegisterUser(f.db, services.RegistrationRequest{
		Email:      email,
		Password:   testPassword,
		RePassword: testPassword,
		FirstName:  "F_name",
		LastName:   "L_name",
	})
	require.NoError(t, err)
	return user
}

func (f *apiFixture) seedTask(t *testing.T, owner *models.User, title string) *models.Task {
	t.Helper()
	task, err := f.tasks.CreateTask(f.db, owner, services.CreateTaskInput{Title: title})
	require.NoError(t, err)
	return task
}

// do sends a request through the router, signing a fresh access token for
// caller. A nil caller sends the request without an Authorization header.
func (f *apiFixture) do(t *testing.T, caller *models.User, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if caller != nil {
		pair, err := f.auth.IssueTokens(context.Background(), caller)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func taskDonePatch(done bool) services.TaskPatch {
	return services.TaskPatch{Done: &done}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
