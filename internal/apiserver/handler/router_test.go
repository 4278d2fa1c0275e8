package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/roam-platform/roam-server/internal/apiserver/database"
	"github.com/roam-platform/roam-server/internal/apiserver/middleware"
	"github.com/roam-platform/roam-server/internal/approval"
	"github.com/roam-platform/roam-server/internal/approval/token"
	"github.com/roam-platform/roam-server/internal/auth/jwt"
	"github.com/roam-platform/roam-server/internal/common/config"
	"github.com/roam-platform/roam-server/internal/mailer"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type testEnv struct {
	db     database.Database
	jwt    *jwt.Service
	router *gin.Engine
	sender *capturingSender
}

type capturingSender struct {
	messages []*mailer.Message
}

func (s *capturingSender) Send(ctx context.Context, msg *mailer.Message) error {
	s.messages = append(s.messages, msg)
	return nil
}

// newTestEnv wires the full API the way the server binary does, on an
// in-memory database.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(&config.DatabaseConfig{Type: "sqlite", DBName: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Init(context.Background()))
	t.Cleanup(func() { _ = db.Close() })

	jwtSvc, err := jwt.NewService(jwt.Config{SecretKey: testSecret, Duration: time.Hour})
	require.NoError(t, err)

	codec, err := token.NewCodec(testSecret, "https://app.roam.example")
	require.NoError(t, err)

	sender := &capturingSender{}
	logger := zap.NewNop()
	approvalSvc := approval.NewService(db, codec, sender, nil, logger)
	gate := approval.NewGate(db, codec, nil, jwtSvc, 2*time.Hour, nil, logger)

	authHandler := NewAuthHandler(db, jwtSvc)
	appHandler := NewApplicationHandler(db)
	approvalHandler := NewApprovalHandler(approvalSvc)
	phase2Handler := NewPhase2Handler(gate)

	router := gin.New()
	api := router.Group("/api")
	api.POST("/auth/login", authHandler.Login)
	api.POST("/applications", appHandler.Submit)
	api.POST("/phase2/validate", phase2Handler.ValidateToken)

	adminAPI := api.Group("", middleware.JWTAuthMiddleware(jwtSvc))
	adminAPI.POST("/auth/change-password", authHandler.ChangePassword)
	adminAPI.GET("/applications", appHandler.List)
	adminAPI.GET("/businesses/:id", appHandler.GetBusiness)
	adminAPI.POST("/businesses/:id/approve", approvalHandler.Approve)
	adminAPI.POST("/businesses/:id/reject", approvalHandler.Reject)

	wizardAPI := api.Group("/phase2", middleware.Phase2AuthMiddleware(jwtSvc))
	wizardAPI.POST("/steps/:step/complete", phase2Handler.CompleteStep)
	wizardAPI.GET("/progress", phase2Handler.Progress)

	return &testEnv{db: db, jwt: jwtSvc, router: router, sender: sender}
}

// seedAdmin creates an active admin and returns the user and a session token
func (e *testEnv) seedAdmin(t *testing.T) (*database.User, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.DefaultCost)
	require.NoError(t, err)
	admin := &database.User{
		Username: "ops-admin",
		Email:    "ops@roam.example",
		Password: string(hash),
		Role:     database.RoleAdmin,
		IsActive: true,
	}
	require.NoError(t, e.db.CreateUser(context.Background(), admin))

	session, err := e.jwt.GenerateToken(admin.ID, admin.Username, string(admin.Role))
	require.NoError(t, err)
	return admin, session
}

// submitApplication runs the intake endpoint and returns the created ids
func (e *testEnv) submitApplication(t *testing.T, businessName string) (businessID, applicationID string) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/applications", "", gin.H{
		"businessName":   businessName,
		"contactEmail":   "office@" + businessName + ".example",
		"ownerUserId":    "owner-of-" + businessName,
		"ownerEmail":     "owner@" + businessName + ".example",
		"ownerFirstName": "Dana",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		BusinessID    string `json:"businessId"`
		ApplicationID string `json:"applicationId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.BusinessID, resp.ApplicationID
}

func (e *testEnv) do(t *testing.T, method, path, session string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set("Authorization", "Bearer "+session)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
