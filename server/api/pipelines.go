// Package api implements the pipeline management API: definition writes
// and reads, cache reload, and ad-hoc simulation.
package api

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/ingestd/cluster"
	"github.com/kbukum/ingestd/errors"
	"github.com/kbukum/ingestd/logger"
	"github.com/kbukum/ingestd/observability"
	"github.com/kbukum/ingestd/server"
	"github.com/kbukum/ingestd/store"
)

// maxDefinitionSize bounds a single pipeline definition payload.
const maxDefinitionSize = 1 << 20

// Broadcaster triggers a cluster-wide cache reload.
type Broadcaster interface {
	ReloadAll(ctx context.Context) error
}

// Handler serves the pipeline management routes.
type Handler struct {
	store       *store.Store
	broadcaster Broadcaster
	metrics     *observability.Metrics
	log         *logger.Logger
}

// NewHandler builds the API handler. broadcaster may be nil on a
// single-node deployment; reloads then stay local.
func NewHandler(s *store.Store, broadcaster Broadcaster, log *logger.Logger) *Handler {
	return &Handler{store: s, broadcaster: broadcaster, log: log.WithComponent("api")}
}

// SetMetrics wires execution instrumentation. Optional.
func (h *Handler) SetMetrics(m *observability.Metrics) {
	h.metrics = m
}

// Register mounts the management routes on the engine.
func (h *Handler) Register(engine *gin.Engine) {
	g := engine.Group("/_ingest")
	g.PUT("/pipeline/:id", h.putPipeline)
	g.GET("/pipeline", h.getPipelines)
	g.GET("/pipeline/:id", h.getPipelines)
	g.DELETE("/pipeline/:id", h.deletePipeline)
	g.POST("/pipeline/:id/_simulate", h.simulate)
	g.POST("/reload", h.reload)
}

func (h *Handler) putPipeline(c *gin.Context) {
	id := c.Param("id")
	source, err := io.ReadAll(io.LimitReader(c.Request.Body, maxDefinitionSize))
	if err != nil {
		server.RespondWithError(c, errors.InvalidPipeline(id, "unreadable request body"))
		return
	}

	version, err := h.store.Put(c.Request.Context(), id, source)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, gin.H{
		"id":           id,
		"version":      version,
		"acknowledged": true,
	})
}

// pipelineView is the read representation of one stored definition.
type pipelineView struct {
	ID      string                 `json:"id"`
	Version int64                  `json:"version"`
	Config  map[string]interface{} `json:"config"`
}

// getPipelines serves both the collection route and /:id, where id is a
// comma-separated list of exact ids and wildcard patterns.
func (h *Handler) getPipelines(c *gin.Context) {
	var ids []string
	if raw := c.Param("id"); raw != "" {
		ids = strings.Split(raw, ",")
	}

	defs, err := h.store.Definitions(ids...)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	if len(defs) == 0 && len(ids) > 0 && !hasWildcard(ids) {
		server.RespondWithError(c, errors.NotFound("pipeline", strings.Join(ids, ",")))
		return
	}

	views := make([]pipelineView, 0, len(defs))
	for _, def := range defs {
		var config map[string]interface{}
		if err := json.Unmarshal(def.Source(), &config); err != nil {
			server.RespondWithError(c, errors.Internal(err))
			return
		}
		views = append(views, pipelineView{
			ID:      def.Pipeline().ID(),
			Version: def.Version(),
			Config:  config,
		})
	}
	server.RespondOK(c, gin.H{"pipelines": views})
}

func hasWildcard(ids []string) bool {
	for _, id := range ids {
		if strings.Contains(id, "*") {
			return true
		}
	}
	return false
}

func (h *Handler) deletePipeline(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, gin.H{"id": id, "acknowledged": true})
}

// reload re-runs reconciliation. Requests carrying the cluster origin
// header come from a peer broadcast and reload only this node; anything
// else fans out to the whole cluster.
func (h *Handler) reload(c *gin.Context) {
	ctx := c.Request.Context()

	if origin := c.GetHeader(cluster.HeaderOrigin); origin != "" || h.broadcaster == nil {
		if err := h.store.UpdatePipelines(ctx); err != nil {
			server.RespondWithError(c, err)
			return
		}
		server.RespondOK(c, gin.H{"acknowledged": true, "scope": "local"})
		return
	}

	if err := h.broadcaster.ReloadAll(ctx); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, gin.H{"acknowledged": true, "scope": "cluster"})
}
