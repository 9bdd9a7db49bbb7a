package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/wattlens/wattlens/internal/analysis"
	billdomain "github.com/wattlens/wattlens/internal/bill/domain"
	"github.com/wattlens/wattlens/internal/config"
	erpnextdomain "github.com/wattlens/wattlens/internal/erpnext/domain"
	"github.com/wattlens/wattlens/internal/providers/openai"
	"github.com/wattlens/wattlens/internal/webhook"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	log        *zap.Logger
	analyzer   openai.Provider
	normalizer *analysis.Normalizer
	billSvc    billdomain.Service
	publisher  erpnextdomain.Service
	trigger    *webhook.Trigger
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Log        *zap.Logger
	Analyzer   openai.Provider
	Normalizer *analysis.Normalizer
	BillSvc    billdomain.Service
	Publisher  erpnextdomain.Service
	Trigger    *webhook.Trigger
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		log:        p.Log.Named("server"),
		analyzer:   p.Analyzer,
		normalizer: p.Normalizer,
		billSvc:    p.BillSvc,
		publisher:  p.Publisher,
		trigger:    p.Trigger,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1")

	bills := v1.Group("/bills")
	{
		bills.POST("/analyze", s.AnalyzeBill)
		bills.POST("", s.CreateBill)
		bills.POST("/:id/publish", s.PublishBill)
	}

	v1.GET("/trends", s.MonthlyTrends)
	v1.GET("/insights", s.RecentInsights)
	v1.POST("/webhook/trigger", s.TriggerUploadWebhook)
}
