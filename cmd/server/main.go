package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/etell/placement-backend/internal/analysis/layout"
	"github.com/etell/placement-backend/internal/analysis/placement"
	"github.com/etell/placement-backend/internal/api"
	"github.com/etell/placement-backend/internal/config"
	"github.com/etell/placement-backend/internal/database"
	"github.com/etell/placement-backend/internal/handler"
	"github.com/etell/placement-backend/internal/logging"
	"github.com/etell/placement-backend/internal/middleware"
	"github.com/etell/placement-backend/internal/observability"
	"github.com/etell/placement-backend/internal/repository"
	"github.com/etell/placement-backend/internal/service"
)

var version = "dev"

func main() {
	issueFor := flag.String("issue-token", "", "print a bearer token for the given device ID and exit")
	tokenTTL := flag.Duration("token-ttl", 30*24*time.Hour, "lifetime of tokens printed by -issue-token")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	cfg.Version = version

	if *issueFor != "" {
		token, err := middleware.IssueToken(*issueFor, "", cfg.JWTSecret, *tokenTTL)
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to issue token:", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.Version)
	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *logging.Logger) error {
	// 初始化数据库
	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()
	db := database.GetDB()

	metrics, err := observability.NewCollector(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	sessionRepo := repository.NewSessionRepository(db)
	layoutRepo := repository.NewLayoutRepository(db)
	resultRepo := repository.NewResultRepository(db)

	sessionSvc := service.NewSessionService(sessionRepo, resultRepo, placement.NewAnalyzer(), metrics, logger)
	layoutSvc := service.NewLayoutService(layoutRepo, sessionRepo, resultRepo, layout.NewAnalyzer(), metrics, logger)

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindowDuration())
	stop := make(chan struct{})
	defer close(stop)
	go limiter.Run(stop)

	gin.SetMode(gin.ReleaseMode)
	router := api.SetupRouter(api.Deps{
		Config:   cfg,
		Logger:   logger,
		Metrics:  metrics,
		Limiter:  limiter,
		Sessions: handler.NewSessionHandler(sessionSvc),
		Layouts:  handler.NewLayoutHandler(layoutSvc),
	})

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Port, "auth_enabled", cfg.AuthEnabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}
