package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/otakulist/watchlist-api/internal/api/handler"
	"github.com/otakulist/watchlist-api/internal/api/middleware"
	"github.com/otakulist/watchlist-api/internal/core/service"
	"github.com/otakulist/watchlist-api/internal/infrastructure/config"
	mongodb "github.com/otakulist/watchlist-api/internal/infrastructure/db/mongo"
	redisdb "github.com/otakulist/watchlist-api/internal/infrastructure/db/redis"
)

// NewRouter wires repositories, services, and handlers onto a configured echo
// instance. Routes live under /api/v1 except the operational endpoints
// (health, metrics, swagger).
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("watchlist"))
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus:  true,
		LogMethod:  true,
		LogURI:     true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))

	userRepo := mongodb.NewUserRepository(db)
	animeRepo := mongodb.NewAnimeRepository(db)
	mangaRepo := mongodb.NewMangaRepository(db)
	studioRepo := mongodb.NewStudioRepository(db)
	replays := redisdb.NewReplayStore(rdb)

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	resolver := service.NewAccessResolver(tokens, userRepo)
	authService := service.NewAuthService(userRepo, tokens, log)
	animeService := service.NewAnimeService(animeRepo, studioRepo, replays, log)
	mangaService := service.NewMangaService(mangaRepo, replays, log)
	studioService := service.NewStudioService(studioRepo, animeRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	animeHandler := handler.NewAnimeHandler(animeService)
	mangaHandler := handler.NewMangaHandler(mangaService)
	studioHandler := handler.NewStudioHandler(studioService)
	healthHandler := handler.NewHealthHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/api/v1")
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)

	authed := v1.Group("", middleware.Auth(resolver))

	anime := authed.Group("/anime")
	anime.POST("", animeHandler.Create)
	anime.GET("", animeHandler.List)
	anime.GET("/search", animeHandler.Search)
	anime.GET("/mean-rating", animeHandler.MeanRating)
	anime.GET("/studio/:studio-id", animeHandler.ByStudio)
	anime.GET("/:id", animeHandler.Get)
	anime.PUT("/:id", animeHandler.Update)
	anime.DELETE("/:id", animeHandler.Delete)

	manga := authed.Group("/manga")
	manga.POST("", mangaHandler.Create)
	manga.GET("", mangaHandler.List)
	manga.GET("/search", mangaHandler.Search)
	manga.GET("/mean-rating", mangaHandler.MeanRating)
	manga.GET("/:id", mangaHandler.Get)
	manga.PUT("/:id", mangaHandler.Update)
	manga.DELETE("/:id", mangaHandler.Delete)

	studios := authed.Group("/studios")
	studios.POST("", studioHandler.Create)
	studios.GET("", studioHandler.List)
	studios.GET("/:id", studioHandler.Get)
	studios.PUT("/:id", studioHandler.Update)
	studios.DELETE("/:id", studioHandler.Delete)

	return e
}
