package login

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/auth"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/config"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/models"
	websess "github.com/CargoLink-Admin/CargoLink-Admin/internal/web/session"
)

// testStorage is a minimal in-memory implementation of storage.Storage for tests.
type testStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// Ensure testStorage implements the storage.Storage interface.
var _ storage.Storage = (*testStorage)(nil)

func (s *testStorage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := s.data[key]
	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

func (s *testStorage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string][]byte)
	}

	buf := make([]byte, len(val))
	copy(buf, val)
	s.data[key] = buf

	return nil
}

func (s *testStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)

	return nil
}

func (s *testStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string][]byte)

	return nil
}

func (s *testStorage) Close() error { return nil }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open sqlite in-memory db")

	require.NoError(t, db.AutoMigrate(&models.User{}), "failed to migrate user model")

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		DevMode: false,
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute},
		},
	}
}

func setupLoginApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	websess.Init(&testStorage{})

	app := fiber.New()
	db := newTestDB(t)

	var svc Service
	require.NoError(t, svc.Init(app, newTestConfig(), db))

	return app, db
}

func postLogin(t *testing.T, app *fiber.App, email, password string) *http.Response {
	t.Helper()

	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, Path, bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp
}

func TestInit_NilArgs(t *testing.T) {
	var svc Service
	assert.Error(t, svc.Init(nil, nil, nil))
}

func TestPost_UnknownUser(t *testing.T) {
	app, _ := setupLoginApp(t)

	resp := postLogin(t, app, "ghost@cargolink.test", "whatever")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPost_WrongPassword(t *testing.T) {
	app, db := setupLoginApp(t)

	require.NoError(t, db.Create(&models.User{
		Email:    "staff@cargolink.test",
		Password: models.HashPassword("correct horse"),
		Active:   true,
	}).Error)

	resp := postLogin(t, app, "staff@cargolink.test", "wrong")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPost_DisabledAccount(t *testing.T) {
	app, db := setupLoginApp(t)

	require.NoError(t, db.Create(&models.User{
		Email:    "off@cargolink.test",
		Password: models.HashPassword("correct horse"),
		Active:   false,
	}).Error)

	resp := postLogin(t, app, "off@cargolink.test", "correct horse")
	defer resp.Body.Close()

	// Disabled accounts get the same response as bad credentials.
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPost_Success(t *testing.T) {
	app, db := setupLoginApp(t)

	require.NoError(t, db.Create(&models.User{
		Email:    "staff@cargolink.test",
		FullName: "Staff Member",
		Password: models.HashPassword("correct horse"),
		Active:   true,
	}).Error)

	resp := postLogin(t, app, "staff@cargolink.test", "correct horse")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	// A session cookie must be set.
	var sessionCookie *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == auth.SessionCookie {
			sessionCookie = cookie
		}
	}

	require.NotNil(t, sessionCookie, "session cookie missing")
	assert.NotEmpty(t, sessionCookie.Value)
	assert.True(t, sessionCookie.HttpOnly)

	// The stored session must carry the account.
	sessData := new(websess.Data)
	require.NoError(t, sessData.Read(sessionCookie.Value))
	assert.Equal(t, "staff@cargolink.test", sessData.User.Email)
	assert.False(t, sessData.IssuedAt.IsZero())
}
