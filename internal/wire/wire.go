// Package wire 负责应用依赖组装
package wire

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/sandeepreddy1606/ai-document-assistance/internal/application/document"
	"github.com/sandeepreddy1606/ai-document-assistance/internal/application/export"
	"github.com/sandeepreddy1606/ai-document-assistance/internal/config"
	"github.com/sandeepreddy1606/ai-document-assistance/internal/infrastructure/llm"
	"github.com/sandeepreddy1606/ai-document-assistance/internal/infrastructure/persistence/postgres"
	"github.com/sandeepreddy1606/ai-document-assistance/internal/infrastructure/persistence/redis"
	"github.com/sandeepreddy1606/ai-document-assistance/internal/interfaces/http/handler"
	"github.com/sandeepreddy1606/ai-document-assistance/internal/interfaces/http/middleware"
	"github.com/sandeepreddy1606/ai-document-assistance/internal/interfaces/http/router"
	"github.com/sandeepreddy1606/ai-document-assistance/pkg/logger"
	"github.com/sandeepreddy1606/ai-document-assistance/pkg/utils"
)

// App 组装完成的应用
type App struct {
	router *router.Router
	pg     *postgres.Client
	redis  *redis.Client
}

// Engine 返回 HTTP 引擎
func (a *App) Engine() *gin.Engine {
	return a.router.Engine()
}

// InitializeApp 组装全部依赖，返回应用与清理函数
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	// 基础设施
	pg, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		_ = pg.Close()
		return nil, nil, fmt.Errorf("init redis: %w", err)
	}

	cache := redis.NewCache(redisClient)

	var limiter middleware.RateLimiter
	if cfg.Security.RateLimit.Enabled {
		limiter = redis.NewRateLimiter(redisClient)
	}

	// 仓储与应用服务
	projectRepo := postgres.NewProjectRepository(pg)
	generator := llm.NewClient(&cfg.LLM)
	renderer := export.NewRenderer()
	svc := document.NewService(projectRepo, generator, renderer, cache, cfg.Export.CacheTTL)

	// HTTP 层
	jwtManager := utils.NewJWTManager(cfg.Security.JWT.Secret, cfg.Security.JWT.Issuer)
	handlers := router.Handlers{
		Health:   handler.NewHealthHandler(pg, redisClient),
		Auth:     handler.NewAuthHandler(jwtManager),
		Project:  handler.NewProjectHandler(svc),
		Document: handler.NewDocumentHandler(svc),
	}

	r := router.New(cfg, handlers, limiter)

	app := &App{
		router: r,
		pg:     pg,
		redis:  redisClient,
	}

	cleanup := func() {
		if err := app.redis.Close(); err != nil {
			logger.Error(ctx, "failed to close redis client", err)
		}
		if err := app.pg.Close(); err != nil {
			logger.Error(ctx, "failed to close postgres client", err)
		}
	}

	return app, cleanup, nil
}
