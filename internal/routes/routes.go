package routes

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"travel-cms/internal/controllers"
	"travel-cms/internal/dto"
	"travel-cms/internal/services"
	"travel-cms/pkg/middleware"
)

// InitRouter регистрирует все маршруты под /api. Чтение и поиск открыты,
// изменение и экспорт - только с токеном администратора.
func InitRouter(e *echo.Echo, svcs *Services, requestTimeout time.Duration, logger *zap.Logger) {
	logger.Info("InitRouter: Начало создания маршрутов")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(svcs.JWT, logger)

	authCtrl := controllers.NewAuthController(svcs.Auth, requestTimeout, logger)
	api.POST("/login", authCtrl.Login)

	healthCtrl := controllers.NewHealthController(svcs.DB, requestTimeout, logger)
	api.GET("/health", healthCtrl.Check)

	searchCtrl := controllers.NewSearchController(svcs.Search, requestTimeout, logger)
	api.GET("/search", searchCtrl.Search)

	blogCtrl := controllers.NewBlogController(svcs.Blogs, requestTimeout, logger)
	api.GET("/latest-blogs", blogCtrl.GetLatest)

	newCtrl := func(svc services.EntityServiceInterface, newInput func() dto.EntityInput) *controllers.EntityController {
		return controllers.NewEntityController(svc, svcs.Export, newInput, svcs.Bus, requestTimeout, logger)
	}

	runEntityRouter(api, "/blogs", newCtrl(svcs.Blogs, func() dto.EntityInput { return &dto.BlogDTO{} }), authMW)
	runEntityRouter(api, "/galleries", newCtrl(svcs.Galleries, func() dto.EntityInput { return &dto.GalleryDTO{} }), authMW)
	runEntityRouter(api, "/activities", newCtrl(svcs.Activities, func() dto.EntityInput { return &dto.ActivityDTO{} }), authMW)
	runEntityRouter(api, "/events", newCtrl(svcs.Events, func() dto.EntityInput { return &dto.EventDTO{} }), authMW)

	articleCtrl := newCtrl(svcs.Articles, func() dto.EntityInput { return &dto.ArticleDTO{} })
	api.GET("/articles/by-title/:title", articleCtrl.FindBy("title", "title"))
	runEntityRouter(api, "/articles", articleCtrl, authMW)

	logger.Info("InitRouter: Создание маршрутов завершено")
}

func runEntityRouter(api *echo.Group, path string, ctrl *controllers.EntityController, authMW *middleware.AuthMiddleware) {
	group := api.Group(path)
	group.GET("", ctrl.GetAll)
	group.GET("/export", ctrl.Export, authMW.Auth)
	group.GET("/:id", ctrl.GetOne)
	group.POST("", ctrl.Create, authMW.Auth)
	group.PUT("/:id", ctrl.Update, authMW.Auth)
	group.DELETE("/:id", ctrl.Delete, authMW.Auth)
}
