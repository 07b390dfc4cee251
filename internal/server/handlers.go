package server

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/prepify/orgraph/internal/model"
	"github.com/prepify/orgraph/internal/pathfind"
)

const maxSearchResults = 20

type searchResult struct {
	ID   string           `json:"id"`
	Name string           `json:"name"`
	Type model.EntityKind `json:"type"`
	City string           `json:"city,omitempty"`
}

// search matches the query as a case-insensitive substring of an entity's
// name, id or city. Name-prefix matches sort first so typing a company name
// surfaces it before incidental substring hits.
func (s *Server) search(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	if q == "" {
		c.JSON(http.StatusOK, gin.H{"results": []searchResult{}})
		return
	}

	var prefix, rest []searchResult
	for _, n := range snap.Nodes() {
		name := strings.ToLower(n.Name)
		id := strings.ToLower(n.ID)
		city := strings.ToLower(n.City)
		if !strings.Contains(name, q) && !strings.Contains(id, q) && !strings.Contains(city, q) {
			continue
		}
		r := searchResult{ID: n.ID, Name: n.Name, Type: n.Kind, City: n.City}
		if strings.HasPrefix(name, q) || strings.HasPrefix(id, q) {
			prefix = append(prefix, r)
		} else {
			rest = append(rest, r)
		}
	}
	sort.SliceStable(prefix, func(i, j int) bool { return prefix[i].Name < prefix[j].Name })
	sort.SliceStable(rest, func(i, j int) bool { return rest[i].Name < rest[j].Name })

	results := append(prefix, rest...)
	if len(results) > maxSearchResults {
		results = results[:maxSearchResults]
	}
	if results == nil {
		results = []searchResult{}
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

type pathRequest struct {
	Source  string           `json:"source"`
	Target  string           `json:"target"`
	K       int              `json:"k"`
	Filters pathfind.Filters `json:"filters"`
}

func (s *Server) shortestPath(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	var req pathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.Source == "" || req.Target == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source and target are required"})
		return
	}

	res, err := pathfind.New(snap).ShortestPath(req.Source, req.Target)
	if err != nil {
		s.queryError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) topPaths(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	var req pathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.Source == "" || req.Target == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source and target are required"})
		return
	}

	res, err := pathfind.New(snap).TopKPaths(req.Source, req.Target, req.K, req.Filters)
	if err != nil {
		s.queryError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type multiPathRequest struct {
	Waypoints []string         `json:"waypoints"`
	Filters   pathfind.Filters `json:"filters"`
}

func (s *Server) multiPath(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	var req multiPathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if len(req.Waypoints) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least 2 waypoints are required"})
		return
	}

	res, err := pathfind.New(snap).MultiWaypointPath(req.Waypoints, req.Filters)
	if err != nil {
		var unreach *pathfind.UnreachableError
		if errors.As(err, &unreach) {
			c.JSON(http.StatusOK, gin.H{
				"found": false,
				"error": unreach.Error(),
				"unreachable_pair": gin.H{
					"from": unreach.From,
					"to":   unreach.To,
				},
			})
			return
		}
		s.queryError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) explore(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	var existing []string
	if raw := c.Query("existing_nodes"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				existing = append(existing, id)
			}
		}
	}

	res, err := pathfind.New(snap).Explore(c.Param("id"), existing)
	if err != nil {
		s.queryError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type neighborDetail struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Type         model.EntityKind `json:"type"`
	Relationship string           `json:"relationship"`
	Active       bool             `json:"active"`
}

func (s *Server) entityDetails(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	id := c.Param("id")
	entity, found := snap.Node(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "entity " + id + " not found in graph"})
		return
	}

	neighbors := []neighborDetail{}
	for _, nid := range snap.Neighbors(id) {
		n, _ := snap.Node(nid)
		for _, rel := range snap.EdgesBetween(id, nid) {
			neighbors = append(neighbors, neighborDetail{
				ID:           n.ID,
				Name:         n.Name,
				Type:         n.Kind,
				Relationship: rel.Type,
				Active:       rel.Active,
			})
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"entity":    entity,
		"neighbors": neighbors,
	})
}

func (s *Server) stats(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"entities":      snap.NodeCount(),
		"relationships": snap.EdgeCount(),
	})
}

func (s *Server) graphStats(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_nodes": snap.NodeCount(),
		"total_edges": snap.EdgeCount(),
		"connected":   snap.Connected(),
		"snapshot_id": snap.ID,
		"built_at":    snap.BuiltAt,
	})
}

// reload rebuilds the graph from source data and publishes the new snapshot
// atomically. Requests in flight keep the snapshot they started with; a
// failed rebuild leaves the current snapshot untouched.
func (s *Server) reload(c *gin.Context) {
	if s.loader == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "no data loader configured"})
		return
	}
	snap, report, err := s.loader()
	if err != nil {
		log.Error("Graph reload failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reload failed: " + err.Error()})
		return
	}
	s.store.Publish(snap)
	log.Info("Graph reloaded", "nodes", snap.NodeCount(), "edges", snap.EdgeCount())

	resp := gin.H{
		"status":      "ok",
		"total_nodes": snap.NodeCount(),
		"total_edges": snap.EdgeCount(),
		"snapshot_id": snap.ID,
	}
	if report != nil && report.Len() > 0 {
		resp["parse_failures"] = report.Len()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) queryError(c *gin.Context, err error) {
	var notFound *pathfind.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
