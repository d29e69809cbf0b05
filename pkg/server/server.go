package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gyorilab/indra-cogex/pkg/analysis"
)

// Server holds the state for the REST API server.
type Server struct {
	service *analysis.Service
	styles  *StyleTable
	router  *gin.Engine
}

// NewServer creates a new Server instance.
func NewServer(service *analysis.Service, styles *StyleTable) *Server {
	r := gin.Default()
	r.Use(requestID())
	s := &Server{
		service: service,
		styles:  styles,
		router:  r,
	}
	s.setupRoutes()
	return s
}

// Run starts the server on the specified address.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/v1/sources", s.handleSources)
	s.router.GET("/v1/methods", s.handleMethods)
	s.router.GET("/v1/styles", s.handleStyles)
	s.router.GET("/v1/symbols", s.handleSymbols)
	s.router.POST("/v1/resolve/genes", s.handleResolveGenes)
	s.router.POST("/v1/resolve/metabolites", s.handleResolveMetabolites)
	s.router.POST("/v1/analysis/discrete", s.handleDiscrete)
	s.router.POST("/v1/analysis/signed", s.handleSigned)
	s.router.POST("/v1/analysis/continuous", s.handleContinuous)
	s.router.POST("/v1/analysis/metabolite", s.handleMetabolite)
}

// Health check
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"edges":  s.service.Store().EdgeCount(),
		"nodes":  s.service.Store().NodeCount(),
	})
}

// requestID tags each request with an X-Request-ID for log correlation.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Set("request_id", id)
		c.Next()
	}
}
