package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"lbc-crawler-service/internal/adapters/urlquery"
	"lbc-crawler-service/internal/contextkeys"
	"lbc-crawler-service/internal/contracts"
	"lbc-crawler-service/internal/core/domain"
	"lbc-crawler-service/internal/core/port"
	"lbc-crawler-service/internal/core/port/usecases"
)

type CrawlHandlers struct {
	crawlRunUC      usecases.CrawlRunPort
	parser          *urlquery.Parser
	defaultSettings domain.CrawlSettings

	// runLogger seeds the detached context of background runs, which must
	// not inherit the request context or its cancellation.
	runLogger port.LoggerPort
}

func NewCrawlHandlers(
	crawlRunUC usecases.CrawlRunPort,
	parser *urlquery.Parser,
	defaultSettings domain.CrawlSettings,
	runLogger port.LoggerPort,
) *CrawlHandlers {
	return &CrawlHandlers{
		crawlRunUC:      crawlRunUC,
		parser:          parser,
		defaultSettings: defaultSettings,
		runLogger:       runLogger,
	}
}

// HandleTriggerCrawl starts a crawl run in the background and answers with
// the run id. POST /api/v1/crawl.
func (h *CrawlHandlers) HandleTriggerCrawl(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleTriggerCrawl"})

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("Failed to read request body", err, nil)
		WriteJSONError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	if len(body) == 0 {
		WriteJSONError(w, http.StatusBadRequest, "Request body is empty")
		return
	}

	if err := contracts.ValidateCrawlRequest(body); err != nil {
		logger.Warn("Crawl request failed schema validation", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	var reqDTO CrawlRequestDTO
	if err := json.Unmarshal(body, &reqDTO); err != nil {
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	sources := h.buildSources(reqDTO)
	if len(sources) == 0 {
		WriteJSONError(w, http.StatusBadRequest, "Request must contain at least one URL or filter set")
		return
	}

	settings := reqDTO.Settings.apply(h.defaultSettings)
	runID := uuid.New()

	logger.Info("Accepted crawl request", port.Fields{
		"run_id":        runID.String(),
		"query_sources": len(sources),
	})

	// the run outlives the request, so it gets a fresh context
	runCtx := contextkeys.ContextWithLogger(context.Background(), h.runLogger)
	if traceID := contextkeys.TraceIDFromContext(r.Context()); traceID != "" {
		runCtx = contextkeys.ContextWithTraceID(runCtx, traceID)
	}

	go func() {
		if _, err := h.crawlRunUC.Execute(runCtx, runID, sources, settings); err != nil {
			h.runLogger.Error("Background crawl run aborted", err, port.Fields{"run_id": runID.String()})
		}
	}()

	RespondWithJSON(w, http.StatusAccepted, map[string]string{"run_id": runID.String()})
}

// HandleHealth answers liveness probes. GET /healthz.
func (h *CrawlHandlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// buildSources turns the request into query sources. Filters come first so
// direct arguments win the dedup race against URL queries.
func (h *CrawlHandlers) buildSources(reqDTO CrawlRequestDTO) []port.QuerySourcePort {
	var sources []port.QuerySourcePort
	for i, args := range reqDTO.Filters {
		label := fmt.Sprintf("filters[%d]", i)
		sources = append(sources, urlquery.NewFilterSource(h.parser, label, args))
	}
	for _, rawURL := range reqDTO.URLs {
		sources = append(sources, urlquery.NewURLSource(h.parser, rawURL))
	}
	return sources
}
