package cli

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	simhttp "github.com/wyfcoding/rentvsbuy/internal/simulation/interfaces/http"
	"github.com/wyfcoding/rentvsbuy/pkg/logger"
	"github.com/wyfcoding/rentvsbuy/pkg/metrics"
	"github.com/wyfcoding/rentvsbuy/pkg/middleware"
	"github.com/wyfcoding/rentvsbuy/pkg/ratelimit"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout    = 15 * time.Second
	rateLimitKeyPrefix = "rentvsbuy:ratelimit:"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			l, err := logger.Init(loggerConfig(cfg))
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			deps, err := buildDependencies(ctx, cfg, l)
			if err != nil {
				return err
			}
			defer func() {
				if err := deps.Close(); err != nil {
					l.Error("failed to close dependencies", "error", err)
				}
			}()
			return serve(ctx, deps)
		},
	}
}

func serve(ctx context.Context, deps *dependencies) error {
	cfg := deps.cfg
	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      newRouter(deps),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.logger.Info("HTTP server starting", "addr", server.Addr, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		deps.logger.Info("shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newRouter(deps *dependencies) *gin.Engine {
	cfg := deps.cfg
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	var collector metrics.Collector = metrics.Nop{}
	if deps.metrics != nil {
		collector = deps.metrics
	}

	r := gin.New()
	r.Use(middleware.Recovery(deps.logger), middleware.Logging(deps.logger), middleware.Metrics(collector))

	sys := r.Group("/sys")
	{
		sys.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
		sys.GET("/ready", func(c *gin.Context) {
			if err := deps.ready(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "NOT_READY", "error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "READY"})
		})
	}
	if deps.metrics != nil {
		r.GET(cfg.Metrics.Path, gin.WrapH(deps.metrics.Handler()))
	}
	if cfg.Environment != "prod" {
		pp := r.Group("/debug/pprof")
		{
			pp.GET("/", gin.WrapF(pprof.Index))
			pp.GET("/cmdline", gin.WrapF(pprof.Cmdline))
			pp.GET("/profile", gin.WrapF(pprof.Profile))
			pp.GET("/symbol", gin.WrapF(pprof.Symbol))
			pp.GET("/trace", gin.WrapF(pprof.Trace))
		}
	}

	api := r.Group("")
	if cfg.RateLimit.Enabled {
		if deps.cache != nil {
			api.Use(middleware.RateLimit(ratelimit.NewRedisRateLimiter(deps.cache.GetClient(), rateLimitKeyPrefix), cfg.RateLimit))
		} else {
			deps.logger.Warn("rate limiting requires redis, disabled")
		}
	}
	simhttp.NewSimulationHandler(deps.app).RegisterRoutes(api)
	return r
}
