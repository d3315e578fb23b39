package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// maxRequestBodySize bounds HTTP request bodies, matching the stdio line limit.
const maxRequestBodySize = 1024 * 1024

// NewHTTPHandler exposes the server over HTTP:
//
//	POST /mcp     one JSON-RPC request per call, same methods as stdio
//	GET  /health  liveness check
//
// Notifications (requests that produce no response) answer 204.
func (s *Server) NewHTTPHandler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log), requestSizeLimiter(maxRequestBodySize))

	r.GET("/health", s.healthCheck)
	r.POST("/mcp", s.handleMCP)

	return r
}

func (s *Server) handleMCP(c *gin.Context) {
	var req MCPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.log.WithError(err).WithField("ip", c.ClientIP()).Warn("Invalid request format")
		c.JSON(http.StatusBadRequest, s.errorResponse(nil, -32700, "Parse error", err.Error()))
		return
	}

	resp := s.handleRequest(&req)
	if resp == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"ip":          c.ClientIP(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Debug("http request")
	}
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
