package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"kanoonsathi/kanoonsathi/config"
	"kanoonsathi/kanoonsathi/controllers"
	"kanoonsathi/kanoonsathi/middlewares"
	"kanoonsathi/kanoonsathi/routes"
	"kanoonsathi/kanoonsathi/services/aiflow"
	"kanoonsathi/kanoonsathi/services/authapi"
	"kanoonsathi/kanoonsathi/session"
	"kanoonsathi/kanoonsathi/utils/logging"
)

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()

	authClient := authapi.NewClient(cfg)
	flowClient := aiflow.NewClient(cfg)

	sessionStore := session.NewStore(authClient, cfg.StateFile)
	sessionStore.Restore()

	chatCtrl := controllers.NewChatController(authClient, flowClient, sessionStore)
	authCtrl := controllers.NewAuthController(sessionStore, chatCtrl)
	healthCtrl := controllers.NewHealthController()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := chatCtrl.Bootstrap(ctx); err != nil {
		// backends may simply not be up yet; the list reloads on refresh
		logging.AppLogger.Warn("initial conversation load failed", zap.Error(err))
	}
	cancel()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.RequestLogging)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Mount("/health", routes.HealthRoutes(healthCtrl))
	r.Mount("/auth", routes.AuthRoutes(authCtrl))
	r.Mount("/chat", routes.ChatRoutes(chatCtrl))
	r.Mount("/", routes.PageRoutes())

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}
	go func() {
		logging.AppLogger.Info("listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
