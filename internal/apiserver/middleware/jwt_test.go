package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roam-platform/roam-server/internal/auth/jwt"
)

func newJWTService(t *testing.T) *jwt.Service {
	t.Helper()
	svc, err := jwt.NewService(jwt.Config{
		SecretKey: "0123456789abcdef0123456789abcdef",
		Duration:  time.Hour,
	})
	require.NoError(t, err)
	return svc
}

func setupRouter(t *testing.T, svc *jwt.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", JWTAuthMiddleware(svc), func(c *gin.Context) {
		claims, ok := GetClaims(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID})
	})
	r.GET("/wizard", Phase2AuthMiddleware(svc), func(c *gin.Context) {
		claims, ok := GetClaims(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"business_id": claims.BusinessID})
	})
	return r
}

func doRequest(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminAuth(t *testing.T) {
	svc := newJWTService(t)
	r := setupRouter(t, svc)

	token, err := svc.GenerateToken("user-1", "admin", "admin")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doRequest(r, "/admin", "Bearer "+token).Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "/admin", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "/admin", "Bearer garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "/admin", "Basic "+token).Code)
}

func TestScopesDoNotCross(t *testing.T) {
	svc := newJWTService(t)
	r := setupRouter(t, svc)

	adminToken, err := svc.GenerateToken("user-1", "admin", "admin")
	require.NoError(t, err)
	wizardToken, err := svc.GenerateWizardToken("biz-1", "user-2", "app-1", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doRequest(r, "/wizard", "Bearer "+wizardToken).Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "/wizard", "Bearer "+adminToken).Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "/admin", "Bearer "+wizardToken).Code)
}

func TestExpiredSessionRejected(t *testing.T) {
	svc := newJWTService(t)
	r := setupRouter(t, svc)

	token, err := svc.GenerateWizardToken("biz-1", "user-2", "app-1", time.Nanosecond)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "/wizard", "Bearer "+token).Code)
}
