// Пакет server — HTTP-сервер FileHub с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на внешнем балансировщике.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/gofilehub/internal/api/handlers"
	"github.com/bigkaa/gofilehub/internal/api/middleware"
	"github.com/bigkaa/gofilehub/internal/config"
)

// Handlers — набор обработчиков, монтируемых на маршруты сервера.
type Handlers struct {
	App    *handlers.AppHandler
	Auth   *handlers.AuthHandler
	Users  *handlers.UserHandler
	Files  *handlers.FileHandler
	Health *handlers.HealthHandler
}

// Server — HTTP-сервер FileHub.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
// resolver разрешает X-Token в пользователя (обычно service.AuthService).
func New(cfg *config.Config, logger *slog.Logger, h Handlers, resolver middleware.UserResolver) *Server {
	router := NewRouter(logger, h, resolver)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// NewRouter собирает chi-маршрутизатор API.
// Вынесен отдельно от Server для использования в httptest.
func NewRouter(logger *slog.Logger, h Handlers, resolver middleware.UserResolver) chi.Router {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	// Публичные маршруты
	router.Get("/status", h.App.GetStatus)
	router.Get("/stats", h.App.GetStats)
	router.Post("/users", h.Users.PostUsers)
	router.Get("/connect", h.Auth.GetConnect)
	// Отзыв токена сам проверяет его существование
	router.Get("/disconnect", h.Auth.GetDisconnect)

	// Маршруты, требующие валидный X-Token
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(resolver, logger))

		r.Get("/users/me", h.Users.GetMe)
		r.Post("/files", h.Files.PostUpload)
		r.Get("/files", h.Files.GetIndex)
		r.Get("/files/{id}", h.Files.GetShow)
		r.Put("/files/{id}/publish", h.Files.PutPublish)
		r.Put("/files/{id}/unpublish", h.Files.PutUnpublish)
	})

	// Содержимое: публичные файлы доступны без токена
	router.With(middleware.OptionalAuth(resolver, logger)).
		Get("/files/{id}/data", h.Files.GetFile)

	// Health и metrics проверяются Kubernetes напрямую
	router.Get("/health/live", h.Health.HealthLive)
	router.Get("/health/ready", h.Health.HealthReady)
	router.Get("/metrics", h.Health.GetMetrics)

	return router
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
