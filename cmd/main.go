package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"shortly/config"
	"shortly/internal/handler"
	"shortly/internal/maintenance"
	"shortly/internal/repository"
	"shortly/internal/router"
	"shortly/internal/service"
	"shortly/internal/storage"
	"shortly/pkg/logger"
)

// @Title						Shortly API
// @Version					1.0
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @BasePath					/api/v1
func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}
	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)

	db := storage.ConnectDB(&cfg.DB, log)
	if db == nil {
		log.Fatal("Failed to connect to the database")
	}

	storage.Migrate(db, log)

	urlRepo := repository.NewURLRepository(db)
	clickRepo := repository.NewClickRepository(db)
	userRepo := repository.NewUserRepository(db)

	urlService := service.NewURLService(urlRepo, cfg, log)
	clickService := service.NewClickService(clickRepo, urlRepo, log)
	userService := service.NewUserService(userRepo, cfg)

	urlHandler := handler.NewURLHandler(urlService, clickService, cfg)
	analyticsHandler := handler.NewAnalyticsHandler(clickService)
	authHandler := handler.NewAuthHandler(userService)

	scheduler := maintenance.NewScheduler(log, urlService, urlRepo, &cfg.App)
	appCtx, cancelScheduler := context.WithCancel(context.Background())
	if err := scheduler.Start(appCtx); err != nil {
		log.Error("Failed to start the maintenance scheduler", zap.Error(err))
	}

	r := router.Router(cfg, urlHandler, analyticsHandler, authHandler)
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("Shortly starting", zap.String("port", cfg.Port), zap.String("baseURL", cfg.BaseURL))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server start failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctxShutDown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	cancelScheduler()

	if err := srv.Shutdown(ctxShutDown); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	storage.CloseDB(db, log)

	log.Info("Server exiting")
}
