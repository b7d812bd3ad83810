package gin

import (
	"fmt"
	"time"

	ginlib "github.com/gin-gonic/gin"

	"github.com/qdhenry/b2b-buyer-portal/internal/config"
	"github.com/qdhenry/b2b-buyer-portal/pkg/logger"
)

type Server struct {
	engine *ginlib.Engine
	addr   string
}

// NewEngine builds the portal's engine with recovery and request logging.
func NewEngine(log logger.Logger) *ginlib.Engine {
	r := ginlib.New()
	r.Use(ginlib.Recovery())
	if log != nil {
		r.Use(requestLog(log))
	}
	return r
}

func NewServer(cfg config.ServerConfig, engine *ginlib.Engine) *Server {
	return &Server{
		engine: engine,
		addr:   cfg.Address(),
	}
}

func (s *Server) Run() error {
	if s.engine == nil {
		return fmt.Errorf("gin engine is nil")
	}
	return s.engine.Run(s.addr)
}

func requestLog(log logger.Logger) ginlib.HandlerFunc {
	return func(c *ginlib.Context) {
		start := time.Now()
		c.Next()
		log.Debug("http request",
			logger.String("method", c.Request.Method),
			logger.String("path", c.FullPath()),
			logger.Int("status", c.Writer.Status()),
			logger.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	}
}
