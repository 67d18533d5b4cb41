package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"travel-cms/internal/controllers"
	"travel-cms/internal/entities"
	"travel-cms/internal/listeners"
	"travel-cms/internal/repositories"
	"travel-cms/internal/services"
	"travel-cms/pkg/config"
	"travel-cms/pkg/eventbus"
	"travel-cms/pkg/filestorage"
	"travel-cms/pkg/service"
)

// Services - всё, что нужно маршрутам. Собирается NewServices или вручную в тестах.
type Services struct {
	Blogs      services.BlogServiceInterface
	Galleries  services.EntityServiceInterface
	Activities services.EntityServiceInterface
	Events     services.EntityServiceInterface
	Articles   services.EntityServiceInterface

	Search services.SearchServiceInterface
	Auth   services.AuthServiceInterface
	Export services.ExportServiceInterface
	JWT    service.JWTService
	DB     controllers.Pinger
	Bus    *eventbus.Bus
}

func NewServices(
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	fileStorage filestorage.FileStorageInterface,
	jwtSvc service.JWTService,
	cfg *config.Config,
	logger *zap.Logger,
) *Services {
	txManager := repositories.NewTxManager(dbConn)
	recordRepo := repositories.NewRecordRepository(dbConn, logger)
	adminRepo := repositories.NewAdminRepository(dbConn, txManager, logger)
	searchRepo := repositories.NewSearchRepository(dbConn, logger)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	bus := eventbus.New(logger)
	listeners.NewAuditListener(logger).Register(bus)

	entityService := func(schema entities.Schema) *services.EntityService {
		return services.NewEntityService(schema, recordRepo, fileStorage, logger)
	}

	return &Services{
		Blogs:      services.NewBlogService(entityService(entities.BlogSchema)),
		Galleries:  entityService(entities.GallerySchema),
		Activities: entityService(entities.ActivitySchema),
		Events:     entityService(entities.EventSchema),
		Articles:   entityService(entities.ArticleSchema),
		Search:     services.NewSearchService(searchRepo, logger),
		Auth:       services.NewAuthService(adminRepo, cacheRepo, jwtSvc, logger, &cfg.Auth, &cfg.Admin),
		Export:     services.NewExportService(logger),
		JWT:        jwtSvc,
		DB:         dbConn,
		Bus:        bus,
	}
}
