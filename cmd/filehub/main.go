// Точка входа FileHub — сервис управления файлами.
// Загружает конфигурацию, применяет миграции, подключается к PostgreSQL
// и Redis, инициализирует файловое хранилище и очередь миниатюр,
// создаёт сервисный слой и API handlers, запускает HTTP-сервер
// с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/bigkaa/gofilehub/internal/api/handlers"
	"github.com/bigkaa/gofilehub/internal/cache"
	"github.com/bigkaa/gofilehub/internal/config"
	"github.com/bigkaa/gofilehub/internal/database"
	"github.com/bigkaa/gofilehub/internal/queue"
	"github.com/bigkaa/gofilehub/internal/repository"
	"github.com/bigkaa/gofilehub/internal/server"
	"github.com/bigkaa/gofilehub/internal/service"
	"github.com/bigkaa/gofilehub/internal/storage/filestore"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("FileHub запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 5. Подключение к Redis (сессии)
	redisClient, err := cache.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer redisClient.Close()

	sessions := cache.NewSessionStore(redisClient, cfg.SessionTTL)

	// 6. Файловое хранилище
	store, err := filestore.New(cfg.StorageDir)
	if err != nil {
		logger.Error("Ошибка инициализации файлового хранилища",
			slog.String("dir", cfg.StorageDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
	logger.Info("Файловое хранилище готово", slog.String("dir", cfg.StorageDir))

	// 7. Очередь задач миниатюр (RabbitMQ).
	// Сервис работоспособен и без брокера: задачи отбрасываются с Warn.
	var tasks queue.TaskQueue
	if cfg.AMQPURL != "" {
		amqpQueue, amqpErr := queue.ConnectAMQP(cfg.AMQPURL, cfg.AMQPQueue, logger)
		if amqpErr != nil {
			logger.Warn("RabbitMQ недоступен, миниатюры генерироваться не будут",
				slog.String("error", amqpErr.Error()),
			)
			tasks = queue.NewNoopQueue(logger)
		} else {
			tasks = amqpQueue
			logger.Info("Очередь миниатюр подключена", slog.String("queue", cfg.AMQPQueue))
		}
	} else {
		logger.Info("FH_AMQP_URL не задан, очередь миниатюр отключена")
		tasks = queue.NewNoopQueue(logger)
	}
	defer tasks.Close()

	// 8. Repositories
	userRepo := repository.NewUserRepository(pool)
	fileRepo := repository.NewFileRepository(pool)

	// 9. Services
	authSvc := service.NewAuthService(userRepo, sessions, logger)
	userSvc := service.NewUserService(userRepo, logger)
	fileSvc := service.NewFileService(
		fileRepo, store, tasks,
		service.NewMetadataCache(cfg.CacheSize, cfg.CacheTTL),
		logger,
	)

	// 10. Readiness checkers (PostgreSQL + Redis)
	pgChecker := database.NewReadinessChecker(pool)
	redisChecker := cache.NewReadinessChecker(redisClient)

	// 11. API handlers
	h := server.Handlers{
		App:    handlers.NewAppHandler(pgChecker, redisChecker, userSvc, fileSvc, logger),
		Auth:   handlers.NewAuthHandler(authSvc, logger),
		Users:  handlers.NewUserHandler(userSvc, logger),
		Files:  handlers.NewFileHandler(fileSvc, logger),
		Health: handlers.NewHealthHandler(pgChecker, redisChecker),
	}

	// 12. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, h, authSvc)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("FileHub остановлен")
}
