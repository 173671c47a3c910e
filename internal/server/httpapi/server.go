// Package httpapi serves a read-only dashboard over the sale engine:
// health, Prometheus metrics and JSON views of vesting and referral state.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/logging"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// Views is the query side of the engine used by the dashboard.
type Views interface {
	Status(ctx context.Context) (*models.Status, error)
	VestingInfo(ctx context.Context, buyer addrx.Address) (*models.VestingInfo, error)
	ReferralStats(ctx context.Context, account addrx.Address) (*models.ReferralStatsView, error)
	PendingRewards(ctx context.Context, account addrx.Address) (*models.PendingRewards, error)
	Referees(ctx context.Context, referrer addrx.Address) ([]models.Referral, error)
}

type Server struct {
	address  string
	views    Views
	gatherer prometheus.Gatherer
	logger   logging.Logger
}

// NewServer builds the dashboard. A nil gatherer disables /metrics.
func NewServer(a string, l logging.Logger, v Views, g prometheus.Gatherer) *Server {
	return &Server{
		address:  a,
		views:    v,
		gatherer: g,
		logger:   l.With("module", "http_server"),
	}
}

// Handler returns the routed gin engine.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())

	r.GET("/healthz", s.health)
	if s.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api/v1")
	api.GET("/status", s.status)
	api.GET("/vesting/:address", s.vesting)
	api.GET("/referrals/:address", s.referrals)
	api.GET("/referrals/:address/referees", s.referees)
	api.GET("/rewards/:address", s.rewards)

	return r
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "http shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		s.logger.Debug(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
