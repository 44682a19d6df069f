package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/static"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/telekom/contact-intake/pkg/config"
	"github.com/telekom/contact-intake/pkg/metrics"
	"github.com/telekom/contact-intake/pkg/system"
	"github.com/telekom/contact-intake/pkg/version"
)

// APIController is a mountable group of routes.
type APIController interface {
	BasePath() string
	Register(rg *gin.RouterGroup) error
	Handlers() []gin.HandlerFunc
}

// Server wraps the gin engine with logging, recovery, health, and metrics.
type Server struct {
	gin    *gin.Engine
	config config.Config
}

// NewServer builds the HTTP server. In debug mode gin stays in debug mode
// and a permissive CORS policy for local frontend development is installed.
func NewServer(log *zap.Logger, cfg config.Config, debug bool) *Server {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		ginzap.Ginzap(log, time.RFC3339, true),
		ginzap.RecoveryWithZap(log, true),
		system.RequestLogger(log.Sugar()),
	)

	if len(cfg.Server.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
			log.Sugar().Warnw("Invalid trustedProxies configuration", "error", err)
		}
	}

	if debug {
		engine.Use(
			cors.New(cors.Config{
				AllowOrigins: []string{"http://localhost:5173", "http://127.0.0.1:8080"},
				AllowMethods: []string{"GET", "POST", "OPTIONS"},
				AllowHeaders: []string{"Origin", "Authorization", "Content-Type"},
				MaxAge:       12 * time.Hour,
			}),
		)
	}

	if cfg.Server.StaticDir != "" {
		engine.Use(static.Serve("/static", static.LocalFile(cfg.Server.StaticDir, false)))
	}

	s := &Server{
		gin:    engine,
		config: cfg,
	}

	engine.GET("/healthz", s.healthz)
	engine.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))
	// The bare site root points at the contact form
	engine.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusTemporaryRedirect, "/contact")
	})

	return s
}

// RegisterAll mounts each controller under its base path at the site root.
func (s *Server) RegisterAll(controllers []APIController) error {
	for _, c := range controllers {
		if err := c.Register(s.gin.Group(c.BasePath(), c.Handlers()...)); err != nil {
			return err
		}
	}
	return nil
}

// Listen serves until the process exits, with TLS when configured.
func (s *Server) Listen() error {
	if s.config.Server.TLSCertFile != "" && s.config.Server.TLSKeyFile != "" {
		return s.gin.RunTLS(s.config.Server.ListenAddress, s.config.Server.TLSCertFile, s.config.Server.TLSKeyFile)
	}
	return s.gin.Run(s.config.Server.ListenAddress)
}

// Engine exposes the underlying engine for tests.
func (s *Server) Engine() *gin.Engine {
	return s.gin
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:  "ok",
		Version: version.Version,
	})
}
