package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/config"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/models"
)

func newUser(id uint, role models.Role) models.User {
	u := models.User{Username: "tester", Role: role}
	u.ID = id
	return u
}

// useTestDB points config.DB at a fresh in-memory SQLite database.
func useTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:mw_%s?mode=memory&cache=shared", name)), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	prev := config.DB
	config.DB = db
	t.Cleanup(func() {
		config.DB = prev
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// storeUser saves an account and returns it.
func storeUser(t *testing.T, db *gorm.DB, username string, role models.Role, active bool) models.User {
	t.Helper()
	u := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		Role:     role,
		IsActive: active,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func TestParseTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(newUser(42, models.RoleCollector))
	require.NoError(t, err)

	claims, err := ParseToken(token, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, models.RoleCollector, claims.Role)
	assert.Equal(t, "tester", claims.Username)
}

func TestParseTokenRejectsWrongType(t *testing.T) {
	refresh, err := GenerateRefreshToken(newUser(1, models.RoleCitizen))
	require.NoError(t, err)

	_, err = ParseToken(refresh, AccessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = ParseToken(refresh, RefreshToken)
	assert.NoError(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not-a-token", AccessToken)
	assert.Error(t, err)
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": CurrentUserID(c), "role": CurrentRole(c)})
	}
	r.GET("/any", RequireAuth(), handler)
	r.GET("/admin", RequireRole(models.RoleAdmin), handler)
	return r
}

func doGet(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	db := useTestDB(t)
	r := newRouter()
	user := storeUser(t, db, "ana", models.RoleCitizen, true)

	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/any", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/any", "bogus").Code)

	token, err := GenerateAccessToken(user)
	require.NoError(t, err)
	w := doGet(r, "/any", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"user_id":%d,"role":"ciudadano"}`, user.ID), w.Body.String())

	refresh, err := GenerateRefreshToken(user)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/any", refresh).Code)

	// a signed token for an account that does not exist
	ghost, err := GenerateAccessToken(newUser(9999, models.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/any", ghost).Code)
}

func TestRequireAuthUsesStoredAccount(t *testing.T) {
	db := useTestDB(t)
	r := newRouter()
	bob := storeUser(t, db, "bob", models.RoleAdmin, true)

	token, err := GenerateAccessToken(bob)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, doGet(r, "/admin", token).Code)

	// demotion applies to the token already issued
	require.NoError(t, db.Model(&bob).Update("role", models.RoleCitizen).Error)
	w := doGet(r, "/admin", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doGet(r, "/any", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"ciudadano"`)

	require.NoError(t, db.Model(&bob).Update("is_active", false).Error)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/any", token).Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/admin", token).Code)
}

func TestRequireRole(t *testing.T) {
	db := useTestDB(t)
	gin.SetMode(gin.TestMode)

	reached := false
	r := gin.New()
	r.GET("/admin", RequireRole(models.RoleAdmin), func(c *gin.Context) {
		reached = true
		c.Status(http.StatusOK)
	})

	citizen, err := GenerateAccessToken(storeUser(t, db, "ana", models.RoleCitizen, true))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, doGet(r, "/admin", citizen).Code)
	assert.False(t, reached, "handler must not run for a forbidden role")

	admin, err := GenerateAccessToken(storeUser(t, db, "root", models.RoleAdmin, true))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, doGet(r, "/admin", admin).Code)
	assert.True(t, reached)

	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/admin", "").Code)
}

func TestEnableCORS(t *testing.T) {
	h := EnableCORS(nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/admin/routes", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestEnableCORSAllowList(t *testing.T) {
	h := EnableCORS([]string{"https://panel.nahuala.gt"}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/admin/routes", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	w := preflight("https://panel.nahuala.gt")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://panel.nahuala.gt", w.Header().Get("Access-Control-Allow-Origin"))

	w = preflight("https://evil.example")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	// simple requests from other origins still reach the handler, without CORS headers
	req := httptest.NewRequest(http.MethodGet, "/routes", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
