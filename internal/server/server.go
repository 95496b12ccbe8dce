package server

import (
	"context"
	"net/http"
	"time"

	"github.com/dakshina-arts/boxoffice/internal/config"
	"github.com/dakshina-arts/boxoffice/internal/inquiry"
	"github.com/dakshina-arts/boxoffice/internal/metrics"
	orderdomain "github.com/dakshina-arts/boxoffice/internal/order/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger, m *metrics.Metrics, registry *prometheus.Registry) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(m.Middleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return r
}

func registerGin(cfg config.Config, log *zap.Logger, m *metrics.Metrics, registry *prometheus.Registry) *gin.Engine {
	return NewEngine(cfg, log, m, registry)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
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

type Params struct {
	fx.In

	Engine     *gin.Engine
	Cfg        config.Config
	OrderSvc   orderdomain.Service
	InquirySvc inquiry.Service
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	ordersvc   orderdomain.Service
	inquirysvc inquiry.Service
}

func NewServer(p Params) *Server {
	s := &Server{
		engine:     p.Engine,
		cfg:        p.Cfg,
		ordersvc:   p.OrderSvc,
		inquirysvc: p.InquirySvc,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	orders := s.engine.Group("/orders")
	{
		orders.POST("/create", s.CreateOrder)
		orders.POST("/verify", s.VerifyOrder)
		orders.GET("/recent", s.RecentOrders)
	}

	inquiries := s.engine.Group("/inquiries")
	{
		inquiries.POST("/send", s.SendInquiry)
	}
}
