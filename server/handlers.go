package server

import (
	"context"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/flow"
	"github.com/kbukum/streamkit/pipeline"
	"github.com/kbukum/streamkit/resilience"
	"github.com/kbukum/streamkit/sse"
)

// runHandler serves the pipeline API.
type runHandler struct {
	runner   *flow.Runner
	cfg      Config
	bulkhead *resilience.Bulkhead
}

// create decodes a descriptor document from the body, waits for a run slot,
// runs it under the configured run timeout and replies with the report.
func (h *runHandler) create(c *gin.Context) {
	capture, err := h.capture(c.Query("capture"))
	if err != nil {
		RespondWithError(c, err)
		return
	}

	descs, err := flow.Decode(c.Request.Body, formatOf(c.GetHeader("Content-Type")))
	if err != nil {
		RespondWithError(c, err)
		return
	}

	release, err := h.bulkhead.Acquire(c.Request.Context())
	if err != nil {
		RespondWithError(c, errors.Unavailable("too many runs in flight", err))
		return
	}
	defer release()

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RunTimeout)
	defer cancel()

	report, err := h.runner.WithCapture(capture).Run(ctx, descs)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, report)
}

func (h *runHandler) capture(raw string) (int, error) {
	if raw == "" {
		return h.cfg.Capture, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.InvalidInput("capture", "capture must be an integer")
	}
	if n < 0 || n > h.cfg.MaxCapture {
		return 0, errors.InvalidInput("capture", "capture must be between 0 and "+strconv.Itoa(h.cfg.MaxCapture))
	}
	return n, nil
}

// stream runs a pipeline like create but answers with Server-Sent Events:
// started, one value event per terminal value, then report or error. The
// pipeline is built before the stream opens, so build errors are still
// plain JSON responses.
func (h *runHandler) stream(c *gin.Context) {
	descs, err := flow.Decode(c.Request.Body, formatOf(c.GetHeader("Content-Type")))
	if err != nil {
		RespondWithError(c, err)
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	var stream *sse.Stream
	runner := h.runner.WithCapture(0).WithOnValue(func(v pipeline.Value) {
		if err := stream.Send(sse.EventValue, v); err != nil {
			cancel()
		}
	})
	prep, err := runner.Prepare(ctx, descs)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	release, err := h.bulkhead.Acquire(ctx)
	if err != nil {
		RespondWithError(c, errors.Unavailable("too many runs in flight", err))
		return
	}
	defer release()

	if stream, err = sse.Open(c.Writer); err != nil {
		RespondWithError(c, errors.Internal(err))
		return
	}
	c.Status(http.StatusOK)

	runCtx, stop := context.WithTimeout(ctx, h.cfg.RunTimeout)
	defer stop()

	if err := stream.Send(sse.EventStarted, gin.H{"run_id": prep.RunID(), "stages": flow.Names(descs)}); err != nil {
		return
	}
	report, err := prep.Run(runCtx)
	if err != nil {
		_ = stream.Send(sse.EventError, errors.Wrap(err).ToResponse())
		return
	}
	_ = stream.Send(sse.EventReport, report)
}

// operations lists what a descriptor may name.
func (h *runHandler) operations(c *gin.Context) {
	RespondOK(c, gin.H{
		"operations": flow.Operations(),
		"mappers":    flow.Mappers(),
	})
}

// formatOf picks the descriptor format from a Content-Type header. JSON is
// the wire default; YAML bodies are accepted when labelled as such.
func formatOf(contentType string) flow.Format {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return flow.FormatJSON
	}
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return flow.FormatYAML
	}
	return flow.FormatJSON
}
