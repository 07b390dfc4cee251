// Package server exposes the graph over HTTP. Handlers read the current
// snapshot from the store at the start of each request and keep using it even
// if a reload publishes a new one mid-flight.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepify/orgraph/internal/graph"
	"github.com/prepify/orgraph/internal/ingest"
)

// Loader rebuilds a snapshot from source data. Used by the reload endpoint;
// the returned report lists records whose structured field failed to parse.
type Loader func() (*graph.Snapshot, *ingest.ParseFailureReport, error)

type Server struct {
	store  *graph.Store
	loader Loader
}

func New(store *graph.Store, loader Loader) *Server {
	return &Server{store: store, loader: loader}
}

func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/", s.home)
	r.GET("/api/search", s.search)
	r.POST("/api/shortest-path", s.shortestPath)
	r.POST("/api/top-paths", s.topPaths)
	r.POST("/api/multi-path", s.multiPath)
	r.GET("/api/explore/:id", s.explore)
	r.GET("/api/entities/:id", s.entityDetails)
	r.GET("/api/stats", s.stats)
	r.GET("/api/graph-stats", s.graphStats)
	r.POST("/api/reload", s.reload)

	return r
}

func (s *Server) home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "Prepify Graph API",
		"version": "1.0.0",
		"endpoints": gin.H{
			"/api/search":        "Search for entities",
			"/api/shortest-path": "Find shortest path between two entities",
			"/api/top-paths":     "Find top K shortest paths",
			"/api/multi-path":    "Find a path through ordered waypoints",
			"/api/explore/:id":   "Explore an entity's neighborhood",
			"/api/graph-stats":   "Get graph statistics",
		},
	})
}

// snapshot returns the current snapshot or answers 503 when no graph has
// been loaded yet.
func (s *Server) snapshot(c *gin.Context) (*graph.Snapshot, bool) {
	snap := s.store.Current()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "graph not loaded"})
		return nil, false
	}
	return snap, true
}
