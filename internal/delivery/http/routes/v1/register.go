package v1

import (
	"log"

	"hireflow/internal/config"
	"hireflow/internal/database"
	"hireflow/internal/delivery/http/handler"
	"hireflow/internal/delivery/http/middleware"
	"hireflow/internal/infrastructure/cache"
	userpg "hireflow/internal/infrastructure/persistence/postgres"
	"hireflow/internal/pkg/jwt"
	"hireflow/internal/repository"
	"hireflow/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// Register wires the v1 API: open auth routes, and the pipeline routes
// behind the JWT middleware.
func Register(r fiber.Router, cfg config.Config, db database.DB, queueCache *cache.Redis, logger *log.Logger) error {
	if r == nil {
		return nil
	}

	jwtSvc := jwt.NewHMACService(
		cfg.Auth.AccessSecret,
		cfg.Auth.RefreshSecret,
		cfg.Auth.AccessExpiresIn,
		cfg.Auth.RefreshExpiresIn,
	)
	authMw := middleware.NewAuthMiddleware(jwtSvc)

	userRepo, err := userpg.NewUserRepository(db.SQLDB())
	if err != nil {
		return err
	}

	statusRepo := repository.NewPostgresStatusRepository(db)
	appRepo := repository.NewPostgresApplicationRepository(db)
	historyRepo := repository.NewPostgresHistoryRepository(db)
	transitionRepo := repository.NewPostgresTransitionRepository(db)
	reportRepo := repository.NewPostgresReportRepository(db)
	queueRepo := repository.NewPostgresQueueRepository(db)

	var qc usecase.QueueCache
	if queueCache != nil {
		qc = queueCache
	}

	authUC := usecase.NewAuthUsecase(userRepo, jwtSvc)
	appUC := usecase.NewApplicationUsecase(appRepo, statusRepo, historyRepo, reportRepo, qc, logger)
	transitionUC := usecase.NewTransitionUsecase(appRepo, statusRepo, historyRepo, transitionRepo, qc, logger)
	reportUC := usecase.NewReportUsecase(reportRepo, logger)
	queueUC := usecase.NewQueueUsecase(queueRepo, statusRepo, qc, logger)
	statusUC := usecase.NewStatusUsecase(statusRepo, logger)

	authHandler := handler.NewAuthHandler(authUC)
	appHandler := handler.NewApplicationHandler(appUC, transitionUC, reportUC, logger)
	queueHandler := handler.NewQueueHandler(queueUC, logger)
	statusHandler := handler.NewStatusHandler(statusUC, logger)

	authGroup := r.Group("/auth")
	authHandler.RegisterRoutes(authGroup)

	protected := r.Group("", authMw.Middleware())
	appHandler.RegisterRoutes(protected)
	queueHandler.RegisterRoutes(protected)
	statusHandler.RegisterRoutes(protected)

	return nil
}
