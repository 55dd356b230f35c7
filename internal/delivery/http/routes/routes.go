package routes

import (
	"log"

	"hireflow/internal/config"
	"hireflow/internal/database"
	"hireflow/internal/delivery/http/handler"
	v1 "hireflow/internal/delivery/http/routes/v1"
	"hireflow/internal/infrastructure/cache"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	cfg        config.Config
	db         database.DB
	queueCache *cache.Redis
	logger     *log.Logger
}

func NewRegistry(cfg config.Config, db database.DB, queueCache *cache.Redis, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{cfg: cfg, db: db, queueCache: queueCache, logger: logger}
}

func (r *Registry) Register(app *fiber.App) error {
	if app == nil {
		return nil
	}

	handler.NewHealthHandler(r.db).RegisterRoutes(app)

	api := app.Group("/api")
	return v1.Register(api.Group("/v1"), r.cfg, r.db, r.queueCache, r.logger)
}
