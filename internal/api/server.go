package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/Assasans/protanki-server/internal/config"
	"github.com/Assasans/protanki-server/internal/events"
	"github.com/Assasans/protanki-server/internal/health"
	"github.com/Assasans/protanki-server/internal/journal"
	"github.com/Assasans/protanki-server/internal/network"
)

// Server is the admin HTTP API of the game server.
type Server struct {
	cfg     *config.Config
	bus     *events.Bus
	game    *network.Server
	version string

	// Optional components, nil when disabled.
	journal   *journal.Journal
	health    *health.Manager
	gatherer  prometheus.Gatherer
	wsPath    string
	wsHandler http.Handler

	startedAt  time.Time
	limiter    *RateLimiter
	httpServer *http.Server
	router     *gin.Engine
}

const (
	// Idle rate limiter buckets are swept on this interval.
	limiterSweepInterval = time.Minute
	limiterIdleTimeout   = 5 * time.Minute
)

// Option configures a Server.
type Option func(*Server)

// WithJournal exposes the packet journal under /api/journal.
func WithJournal(j *journal.Journal) Option {
	return func(s *Server) {
		s.journal = j
	}
}

// WithHealth serves the health check results on /api/public/health.
func WithHealth(m *health.Manager) Option {
	return func(s *Server) {
		s.health = m
	}
}

// WithMetrics serves g on /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithWebSocket mounts a websocket game transport at path.
func WithWebSocket(path string, h http.Handler) Option {
	return func(s *Server) {
		s.wsPath = path
		s.wsHandler = h
	}
}

func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// NewServer creates a new API server for game.
func NewServer(cfg *config.Config, bus *events.Bus, game *network.Server, opts ...Option) *Server {
	if cfg.GetApplicationData().Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:       cfg,
		bus:       bus,
		game:      game,
		version:   "dev",
		startedAt: time.Now(),
		limiter:   NewRateLimiter(cfg.GetApplicationData().API.RateLimitRPS),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router, building it on first use.
func (s *Server) Handler() http.Handler {
	if s.router == nil {
		s.router = s.buildRouter()
	}
	return s.router
}

// Start serves the API until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.GetApplicationData().API.Port)
	s.httpServer = &http.Server{
		Addr:        addr,
		Handler:     s.Handler(),
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	lc := network.ReuseAddrListenConfig()
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("API server error: %w", err)
	}

	log.Info().Str("addr", addr).Msg("REST API server starting")

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	go s.sweepLimiter(ctx)

	if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("API server error: %w", err)
	}
	return nil
}

func (s *Server) buildRouter() *gin.Engine {
	app := s.cfg.GetApplicationData()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger())
	router.Use(SecurityHeaders())

	allowedOrigins := app.API.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// The websocket transport and scrape endpoint sit outside rate limiting;
	// game clients hold one long request each.
	if s.wsHandler != nil {
		router.GET(s.wsPath, gin.WrapH(s.wsHandler))
	}
	if s.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	apiGroup := router.Group("/api")
	apiGroup.Use(s.limiter.Middleware())

	public := apiGroup.Group("/public")
	{
		public.GET("/ping", s.handlePing)
		public.GET("/version", s.handleGetVersion)
		public.GET("/health", s.handleGetHealth)
	}

	protected := apiGroup.Group("")
	protected.Use(RequireToken(s.cfg))
	{
		protected.GET("/status", s.handleGetStatus)
		protected.GET("/packets", s.handleGetPackets)

		protected.GET("/connections", s.handleGetConnections)
		protected.GET("/connections/:id", s.handleGetConnection)
		protected.DELETE("/connections/:id", s.handleCloseConnection)

		protected.GET("/journal/frames", s.handleGetFrames)
		protected.GET("/journal/counts", s.handleGetCounts)

		protected.GET("/config", s.handleGetConfig)
		protected.PATCH("/config/:section", s.handleUpdateConfig)
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router
}

func (s *Server) sweepLimiter(ctx context.Context) {
	ticker := time.NewTicker(limiterSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.limiter.Evict(limiterIdleTimeout, now); n > 0 {
				log.Debug().Int("count", n).Msg("evicted idle rate limiter clients")
			}
		}
	}
}

// Stop gracefully stops the API server.
func (s *Server) Stop() error {
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
