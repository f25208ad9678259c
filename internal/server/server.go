package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"iconforge/internal/config"
	"iconforge/internal/handler"
	"iconforge/internal/infrastructure/replicate"
	"iconforge/internal/middleware"
	"iconforge/internal/repository"
	"iconforge/internal/service"
	"iconforge/internal/staging"
)

type Server struct {
	httpServer *http.Server
	redis      *redis.Client
	cfg        *config.Config
	log        *zap.Logger
}

func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Server, error) {
	model, err := replicate.NewClient(cfg.Replicate, log)
	if err != nil {
		return nil, err
	}

	stager, err := newStager(ctx, cfg, model, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s stager: %w", cfg.Staging.Backend, err)
	}

	var (
		rdb     *redis.Client
		limiter middleware.RateLimiter
	)
	if cfg.RateLimit.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("Redis unreachable, rate limiter will fail open", zap.Error(err))
		}
		limiter = repository.NewRedisRateLimiter(rdb, "iconforge:ratelimit")
	}

	generationService := service.NewGenerationService(model, stager, cfg, log)
	h := handler.NewHandler(generationService, cfg, log)

	server := &Server{
		httpServer: &http.Server{
			Addr:           cfg.Addr(),
			Handler:        NewRouter(h, cfg, limiter, log),
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
		redis: rdb,
		cfg:   cfg,
		log:   log,
	}

	log.Info("Server created successfully",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.String("staging_backend", cfg.Staging.Backend),
		zap.String("model", cfg.Replicate.Model))

	return server, nil
}

func NewRouter(h *handler.Handler, cfg *config.Config, limiter middleware.RateLimiter, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.MaxMultipartMemory = cfg.App.MaxUploadSize + 1<<20

	router.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		middleware.CORS(cfg.Server.CORSAllowedOrigins),
		middleware.Metrics(),
	)

	router.GET("/health", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/asset-types", h.ListAssetTypes)
		api.POST("/generate",
			middleware.RateLimit(limiter, cfg.RateLimit.PerMinute, time.Minute, log),
			h.Generate)
	}

	if cfg.Staging.Backend == config.StagingDisk {
		router.Static(staging.RoutePrefix, cfg.Staging.Dir)
	}

	return router
}

func newStager(ctx context.Context, cfg *config.Config, model *replicate.Client, log *zap.Logger) (staging.Stager, error) {
	switch cfg.Staging.Backend {
	case config.StagingInline:
		return staging.NewInlineStager(), nil
	case config.StagingDisk:
		return staging.NewDiskStager(cfg.Staging.Dir, cfg.Staging.PublicBaseURL, log)
	case config.StagingS3:
		repo, err := repository.NewS3Repository(ctx, &cfg.S3, log)
		if err != nil {
			return nil, err
		}
		return staging.NewS3Stager(repo, cfg.S3.Prefix, cfg.S3.PresignTTL), nil
	case config.StagingReplicate:
		return staging.NewReplicateStager(model.API()), nil
	default:
		return nil, fmt.Errorf("unknown staging backend %q", cfg.Staging.Backend)
	}
}

func (s *Server) Run() error {
	s.log.Info("Server is running",
		zap.String("host", s.cfg.Server.Host),
		zap.String("port", s.cfg.Server.Port),
		zap.String("address", s.httpServer.Addr))

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down server")
	err := s.httpServer.Shutdown(ctx)

	if s.redis != nil {
		if cerr := s.redis.Close(); cerr != nil {
			s.log.Warn("Failed to close redis client", zap.Error(cerr))
		}
	}

	return err
}
