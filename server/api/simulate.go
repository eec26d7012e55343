package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/ingestd/errors"
	"github.com/kbukum/ingestd/ingest"
	"github.com/kbukum/ingestd/observability"
	"github.com/kbukum/ingestd/server"
)

// simulateRequest carries the documents to run through a stored pipeline.
type simulateRequest struct {
	Docs []map[string]interface{} `json:"docs" binding:"required"`
}

// simulateResult is the outcome for one document.
type simulateResult struct {
	Doc   map[string]interface{} `json:"doc,omitempty"`
	Error *errors.ErrorBody      `json:"error,omitempty"`
}

// simulate executes a stored pipeline against caller-supplied documents
// without touching any persistent state. One failing document does not stop
// the rest.
func (h *Handler) simulate(c *gin.Context) {
	id := c.Param("id")
	pipeline, err := h.store.Get(id)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	var req simulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.InvalidPipeline(id, "request body must carry a docs array"))
		return
	}

	ctx, span := observability.Tracer("api").Start(c.Request.Context(), "pipeline.simulate",
		trace.WithAttributes(
			attribute.String("pipeline", id),
			attribute.Int("docs", len(req.Docs)),
		))
	defer span.End()

	results := make([]simulateResult, 0, len(req.Docs))
	for _, source := range req.Docs {
		doc := ingest.NewDocument(source)
		start := time.Now()
		execErr := pipeline.Execute(ctx, doc)
		if h.metrics != nil {
			outcome := observability.OutcomeSuccess
			if execErr != nil {
				outcome = observability.OutcomeFailed
			}
			h.metrics.RecordExecution(ctx, id, outcome, time.Since(start))
		}
		if execErr != nil {
			body := errors.ProcessingFailed(id, execErr).ToResponse().Error
			results = append(results, simulateResult{Error: &body})
			continue
		}
		results = append(results, simulateResult{Doc: doc.Source()})
	}
	server.RespondOK(c, gin.H{"results": results})
}
