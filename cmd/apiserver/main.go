package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/roam-platform/roam-server/internal/apiserver/database"
	"github.com/roam-platform/roam-server/internal/apiserver/handler"
	"github.com/roam-platform/roam-server/internal/apiserver/middleware"
	"github.com/roam-platform/roam-server/internal/approval"
	"github.com/roam-platform/roam-server/internal/approval/ledger"
	"github.com/roam-platform/roam-server/internal/approval/token"
	"github.com/roam-platform/roam-server/internal/auth/jwt"
	"github.com/roam-platform/roam-server/internal/common/config"
	"github.com/roam-platform/roam-server/internal/mailer"
	"github.com/roam-platform/roam-server/pkg/logger"
	"github.com/roam-platform/roam-server/pkg/metrics"
	"github.com/roam-platform/roam-server/pkg/version"
)

var (
	configPath string

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of apiserver",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("apiserver version %s\n", version.Get())
		},
	}

	rootCmd = &cobra.Command{
		Use:   "apiserver",
		Short: "ROAM approval API server",
		Long:  `ROAM approval API server drives business application review, approval tokens and the Phase-2 setup wizard`,
		Run: func(cmd *cobra.Command, args []string) {
			run()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "conf", "configs/apiserver.yaml", "path to configuration file")
	rootCmd.AddCommand(versionCmd)
}

// ensureSuperAdmin creates the bootstrap admin account on first start so a
// fresh deployment can log in and review applications.
func ensureSuperAdmin(ctx context.Context, db database.Database, cfg *config.SuperAdminConfig, zapLogger *zap.Logger) error {
	if cfg.Username == "" || cfg.Password == "" {
		zapLogger.Warn("super admin not configured, skipping bootstrap")
		return nil
	}

	existing, err := db.GetUserByUsername(ctx, cfg.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := db.CreateUser(ctx, &database.User{
		Username: cfg.Username,
		Password: string(hashed),
		Role:     database.RoleAdmin,
		IsActive: true,
	}); err != nil {
		return err
	}

	zapLogger.Info("super admin account created", zap.String("username", cfg.Username))
	return nil
}

func run() {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to open database", zap.Error(err))
	}
	if err := db.Init(context.Background()); err != nil {
		zapLogger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := ensureSuperAdmin(context.Background(), db, &cfg.SuperAdmin, zapLogger); err != nil {
		zapLogger.Fatal("Failed to bootstrap super admin", zap.Error(err))
	}

	jwtService, err := jwt.NewService(jwt.Config{
		SecretKey: cfg.JWT.SecretKey,
		Duration:  cfg.JWT.Duration,
	})
	if err != nil {
		zapLogger.Fatal("Failed to create JWT service", zap.Error(err))
	}

	codec, err := token.NewCodec(cfg.Approval.Secret, cfg.Approval.PublicBaseURL)
	if err != nil {
		zapLogger.Fatal("Failed to create approval token codec", zap.Error(err))
	}

	var consumed ledger.Store
	if cfg.Approval.SingleUse {
		consumed, err = ledger.NewStore(&cfg.Approval, &cfg.Redis)
		if err != nil {
			zapLogger.Fatal("Failed to create consumed-token ledger", zap.Error(err))
		}
		defer consumed.Close()
	}

	var sender mailer.Sender = mailer.Noop{}
	if cfg.Mailer.Enabled {
		sender = mailer.NewClient(&cfg.Mailer, zapLogger)
	}

	m := metrics.New(cfg.Metrics)
	approvalService := approval.NewService(db, codec, sender, m, zapLogger)
	gate := approval.NewGate(db, codec, consumed, jwtService, cfg.Approval.SessionDuration, m, zapLogger)

	authHandler := handler.NewAuthHandler(db, jwtService)
	applicationHandler := handler.NewApplicationHandler(db)
	approvalHandler := handler.NewApprovalHandler(approvalService)
	phase2Handler := handler.NewPhase2Handler(gate)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), m.Middleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.Get()})
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	api := router.Group("/api")
	api.POST("/auth/login", authHandler.Login)
	api.POST("/applications", applicationHandler.Submit)
	api.POST("/phase2/validate", phase2Handler.ValidateToken)

	adminAPI := api.Group("", middleware.JWTAuthMiddleware(jwtService))
	adminAPI.POST("/auth/change-password", authHandler.ChangePassword)
	adminAPI.GET("/applications", applicationHandler.List)
	adminAPI.GET("/businesses/:id", applicationHandler.GetBusiness)
	adminAPI.POST("/businesses/:id/approve", approvalHandler.Approve)
	adminAPI.POST("/businesses/:id/reject", approvalHandler.Reject)

	wizardAPI := api.Group("/phase2", middleware.Phase2AuthMiddleware(jwtService))
	wizardAPI.POST("/steps/:step/complete", phase2Handler.CompleteStep)
	wizardAPI.GET("/progress", phase2Handler.Progress)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.RequestTimeout,
		WriteTimeout: cfg.Server.RequestTimeout,
	}

	go func() {
		zapLogger.Info("Starting apiserver",
			zap.String("version", version.Get()),
			zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exited")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
