package rasterd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/example/chatshot/internal/logger"
	"github.com/example/chatshot/internal/overlay"
)

// Server exposes a Rasterizer over HTTP.
type Server struct {
	cfg    Config
	raster *Rasterizer
	router *gin.Engine
}

// NewServer builds the router for cfg.
func NewServer(cfg Config) *Server {
	s := &Server{cfg: cfg, raster: NewRasterizer(cfg.Render)}
	s.router = s.setupRouter()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:           s.cfg.Server.Addr,
		Handler:        s.router,
		ReadTimeout:    s.cfg.Server.ReadTimeout,
		WriteTimeout:   s.cfg.Server.WriteTimeout,
		MaxHeaderBytes: s.cfg.Server.MaxHeaderBytes,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Infof("rasterd: listening on %s", s.cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	logger.Infof("rasterd: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}

func (s *Server) setupRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(requestID(), accessLog(), gin.RecoveryWithWriter(logger.Logger().WriterLevel(logrus.ErrorLevel)))

	corsConfig := cors.Config{
		AllowMethods:  []string{http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Content-Type", overlay.RequestIDHeader},
		ExposeHeaders: []string{overlay.LengthHeader, overlay.RequestIDHeader},
		MaxAge:        time.Duration(s.cfg.CORS.MaxAge) * time.Second,
	}
	if allowAll(s.cfg.CORS.AllowedOrigins) {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = s.cfg.CORS.AllowedOrigins
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})
	router.POST("/", s.handleRender)
	router.POST("/render", s.handleRender)
	return router
}

func allowAll(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func (s *Server) handleRender(c *gin.Context) {
	if limit := s.cfg.Server.MaxBodyBytes; limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}
	var req overlay.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "width and height must be positive"})
		return
	}

	frame, err := s.raster.Frame(req)
	if err != nil {
		entry(c).Errorf("render failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	header, body := overlay.EncodeFrame(frame)
	c.Header(overlay.LengthHeader, header)
	c.Data(http.StatusOK, "application/octet-stream", body)
}

const requestIDKey = "request_id"

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(overlay.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(overlay.RequestIDHeader, id)
		c.Next()
	}
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry(c).WithField("status", c.Writer.Status()).
			WithField("duration", time.Since(start)).
			Infof("%s %s", c.Request.Method, c.Request.URL.Path)
	}
}

func entry(c *gin.Context) *logrus.Entry {
	return logger.WithField(requestIDKey, c.GetString(requestIDKey))
}
