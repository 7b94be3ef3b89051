package monitor

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/ledeepchef/twrl/core"
)

// StatusSource reports the current training counters.
type StatusSource interface {
	Status() core.TrainingStatus
}

// StatusServer serves the training status over HTTP while a run is going.
type StatusServer struct {
	Addr string

	source StatusSource
	server *http.Server
	logger *log.Logger
}

func NewStatusServer(addr string, source StatusSource, logger *log.Logger) *StatusServer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &StatusServer{
		Addr:   addr,
		source: source,
		logger: logger,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/status", s.handleStatus)
	r.GET("/healthz", healthHandler)
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

func (s *StatusServer) Handler() http.Handler {
	return s.server.Handler
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

func (s *StatusServer) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.source.Status())
}

// Start serves in the background until ctx is done.
func (s *StatusServer) Start(ctx context.Context) {
	go func() {
		s.logger.Info("serving training status", "addr", s.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("status server stopped", "err", err)
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()
}

func (s *StatusServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.server.Shutdown(ctx)
}
