// @title						PrepPulse API
// @version					1.0
// @description				Placement preparation tracker: onboarding, skill checklists, mock tests, habits, resumes and an interview coach.
// @BasePath					/
// @securityDefinitions.apikey	SessionCookie
// @in							cookie
// @name						preppulse_session
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

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "preppulse/docs"
	"preppulse/internal/caching"
	"preppulse/internal/common"
	"preppulse/internal/config"
	"preppulse/internal/handlers"
	"preppulse/internal/jobs/background"
	"preppulse/internal/llm"
	"preppulse/internal/middleware"
	"preppulse/internal/repositories"
	"preppulse/internal/services"
	"preppulse/pkg/database"
)

const version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "preppulse",
	Short: "Placement preparation tracker API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server and background jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		pool, err := database.NewPool(cmd.Context(), cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := database.Migrate(cmd.Context(), pool); err != nil {
			return err
		}
		log.Printf("Schema applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatal(err)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	pool, err := database.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := database.Migrate(ctx, pool); err != nil {
		return err
	}

	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	minioSvc, err := services.NewMinioService(cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.UseSSL, cfg.Storage.Bucket)
	if err != nil {
		return fmt.Errorf("initialize MinIO service: %w", err)
	}
	if err := minioSvc.EnsureBucketExists(ctx); err != nil {
		// Uploads fail until storage comes back; everything else keeps working.
		log.Printf("WARNING: resume bucket unavailable: %v", err)
	}

	provider, err := llm.NewProvider(ctx, cfg.LLM)
	if errors.Is(err, llm.ErrNotConfigured) {
		log.Printf("WARNING: no LLM key set, using default checklist and fallback analysis")
	} else if err != nil {
		return err
	}
	speaker, err := llm.NewSpeaker(cfg.LLM)
	if err != nil && !errors.Is(err, llm.ErrNotConfigured) {
		return err
	}

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	onboardingRepo := repositories.NewOnboardingRepository(pool)
	checklistRepo := repositories.NewChecklistRepository(pool)
	mockTestRepo := repositories.NewMockTestRepository(pool)
	habitRepo := repositories.NewHabitRepository(pool)
	resumeRepo := repositories.NewResumeRepository(pool)
	adminRepo := repositories.NewAdminRepository(pool)

	// Services
	authSvc := services.NewAuthService(userRepo, cacheSvc, services.NewMailer(cfg.Mail), cfg.Auth, cfg.Server.BaseURL)
	onboardingSvc := services.NewOnboardingService(onboardingRepo)
	checklistSvc := services.NewChecklistService(checklistRepo, onboardingRepo,
		services.NewChecklistGenerator(provider, cfg.LLM.ChecklistTimeout))
	dashboardSvc := services.NewDashboardService(checklistSvc, onboardingSvc, resumeRepo, userRepo)
	mockTestSvc := services.NewMockTestService(mockTestRepo)
	habitSvc := services.NewHabitService(habitRepo, cacheSvc)
	leaderboardSvc := services.NewLeaderboardService(habitRepo, userRepo, cacheSvc)
	resumeSvc := services.NewResumeService(resumeRepo, minioSvc,
		services.NewResumeAnalyzer(provider, cfg.LLM.AnalysisTimeout))
	chatSvc := services.NewChatService(provider, speaker, resumeRepo, cacheSvc, cfg.Server.ChatRateLimit,
		services.WithChatTimeouts(cfg.LLM.ChatTimeout, cfg.LLM.SpeechTimeout))
	adminSvc := services.NewAdminService(adminRepo, minioSvc, cacheSvc, leaderboardSvc)

	scheduler, err := background.NewJobScheduler(leaderboardSvc, adminSvc)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("ERROR: stopping scheduler: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = common.HTTPErrorHandler

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.Server.BaseURL},
		AllowCredentials: true,
	}))
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.BodyLimit("11M"))

	router := &handlers.Router{
		Auth:       handlers.NewAuthHandlers(authSvc, cfg.Auth.SessionTTL),
		Onboarding: handlers.NewOnboardingHandlers(onboardingSvc),
		Dashboard:  handlers.NewDashboardHandlers(dashboardSvc, checklistSvc),
		MockTests:  handlers.NewMockTestHandlers(mockTestSvc),
		Habits:     handlers.NewHabitHandlers(habitSvc, leaderboardSvc),
		Resumes:    handlers.NewResumeHandlers(resumeSvc),
		Chat:       handlers.NewChatHandlers(chatSvc),
		Admin:      handlers.NewAdminHandlers(adminSvc),
		Health:     handlers.NewHealthHandlers(pool, cacheSvc, minioSvc, version),
	}
	router.Register(e, authSvc, middleware.NewVersionMiddleware(version))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("PrepPulse server v%s starting on port %d", version, cfg.Server.Port)
		if err := e.Start(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
