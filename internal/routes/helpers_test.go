package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/config"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/controllers"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/mailer"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/middleware"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/models"
)

const testPassword = "secreto123"

type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	mail   *recordingMailer
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) messages() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailer.Message(nil), m.sent...)
}

// setup points config.DB at a fresh in-memory SQLite database.
func setup(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// unique in-memory DB per test name to avoid leakage via shared cache
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	prevDB, prevMail := config.DB, controllers.Mail
	rec := &recordingMailer{}
	config.DB = db
	controllers.Mail = rec
	t.Cleanup(func() {
		config.DB = prevDB
		controllers.Mail = prevMail
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return &testEnv{t: t, db: db, router: SetupRouter(), mail: rec}
}

// user stores an account and returns it with an access token.
func (e *testEnv) user(username string, role models.Role, active bool) (models.User, string) {
	e.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(e.t, err)

	u := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
		Role:     role,
		IsActive: active,
	}
	require.NoError(e.t, e.db.Create(&u).Error)

	token, err := middleware.GenerateAccessToken(u)
	require.NoError(e.t, err)
	return u, token
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, code int) {
	t.Helper()
	require.Equal(t, code, w.Code, w.Body.String())
}

// createRoute posts a route and returns its id.
func (e *testEnv) createRoute(token, name string) uint {
	e.t.Helper()
	w := e.do(http.MethodPost, "/admin/routes", token, map[string]interface{}{"name": name})
	requireStatus(e.t, w, http.StatusCreated)
	var r controllers.RouteResponse
	decode(e.t, w, &r)
	return r.ID
}

func idPath(format string, id uint) string {
	return fmt.Sprintf(format, id)
}
