package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/streamops/flink-sql-proxy/internal/cache"
	"github.com/streamops/flink-sql-proxy/internal/flink"
	"github.com/streamops/flink-sql-proxy/internal/handlers/validator"
	"github.com/streamops/flink-sql-proxy/internal/service"
	"github.com/streamops/flink-sql-proxy/pkg/metrics"
	"go.uber.org/zap"
)

type StatementRequest struct {
	SQL            string            `json:"sql" validate:"required,sql_statement"`
	Variables      map[string]string `json:"vars"`
	IdempotencyKey string            `json:"idempotency_key"`
}

// StatementHandler accepts statements over HTTP, replays cached responses for
// repeated idempotency keys and maps service failures onto the error bodies
// clients expect.
type StatementHandler struct {
	service             *service.StatementService
	cache               *cache.IdempotencyCache
	validator           *validator.Validator
	stderrTruncateBytes int
}

func NewStatementHandler(statementService *service.StatementService, idempotencyCache *cache.IdempotencyCache, stderrTruncateBytes int) *StatementHandler {
	v := validator.NewValidator()
	v.Register(validator.NewStatementValidationRules()...)

	return &StatementHandler{
		service:             statementService,
		cache:               idempotencyCache,
		validator:           v,
		stderrTruncateBytes: stderrTruncateBytes,
	}
}

func (h *StatementHandler) SubmitStatement(w http.ResponseWriter, r *http.Request) {
	var req StatementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.IncreaseStatementsTotalMetric(metrics.StatementOutcomeRejected)
		_ = render.Render(w, r, NewValidationFailedReply("invalid request body"))
		return
	}

	req.SQL = strings.TrimSpace(req.SQL)
	if err := h.validator.Struct(req); err != nil {
		metrics.IncreaseStatementsTotalMetric(metrics.StatementOutcomeRejected)
		_ = render.Render(w, r, NewValidationFailedReply("sql must be a non-empty string"))
		return
	}

	key := r.Header.Get("Idempotency-Key")
	if key == "" {
		key = req.IdempotencyKey
	}

	if key != "" {
		if payload, ok := h.cache.Get(key); ok {
			metrics.IncreaseIdempotencyEventsTotalMetric(metrics.CacheEventHit)
			metrics.IncreaseStatementsTotalMetric(metrics.StatementOutcomeReplayed)
			zap.S().Named("gateway").Debugf("returning cached result for idempotency key %s", key)
			h.recordReplay(r, payload)
			writeResult(w, payload)
			return
		}
		metrics.IncreaseIdempotencyEventsTotalMetric(metrics.CacheEventMiss)
	}

	result, err := h.service.Submit(r.Context(), req.SQL, req.Variables)
	if err != nil {
		h.renderSubmitError(w, r, err)
		return
	}

	payload, _ := json.Marshal(result)
	if key != "" {
		h.cache.Set(key, payload)
		metrics.IncreaseIdempotencyEventsTotalMetric(metrics.CacheEventStore)
	}
	metrics.IncreaseStatementsTotalMetric(metrics.StatementOutcomeSubmitted)

	writeResult(w, payload)
}

func (h *StatementHandler) renderSubmitError(w http.ResponseWriter, r *http.Request, err error) {
	var notAvailable *flink.JobNotAvailableError
	if errors.As(err, &notAvailable) {
		metrics.IncreaseStatementsTotalMetric(metrics.StatementOutcomeJobUnavailable)
		zap.S().Named("gateway").Warnf("unable to locate running Flink application job: %s", err)
		_ = render.Render(w, r, NewBadGatewayReply(err.Error()))
		return
	}

	var submission *flink.SubmissionError
	if errors.As(err, &submission) {
		metrics.IncreaseStatementsTotalMetric(metrics.StatementOutcomeSubmissionFailed)
		zap.S().Named("gateway").Errorw("Flink submission failed", "error", err, "status_code", submission.StatusCode)
		_ = render.Render(w, r, NewBadGatewayReply(UpstreamFailureDetail{
			Error:  submission.Error(),
			Stderr: flink.TruncateStderr(submission.Stderr, h.stderrTruncateBytes),
		}))
		return
	}

	metrics.IncreaseStatementsTotalMetric(metrics.StatementOutcomeUpstreamError)
	zap.S().Named("gateway").Errorw("HTTP error while communicating with Flink", "error", err)
	_ = render.Render(w, r, NewBadGatewayReply(UpstreamFailureDetail{
		Error:  "Flink REST API request failed",
		Stderr: err.Error(),
	}))
}

// recordReplay raises the audit event for a replay. The cached payload is the
// marshaled result, so it decodes back into one.
func (h *StatementHandler) recordReplay(r *http.Request, payload []byte) {
	var result flink.StatementResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return
	}
	h.service.RecordReplay(r.Context(), &result)
}

// writeResult writes the marshaled payload as-is. Replays go through the same
// path, so a cached response is byte-identical to the original one.
func writeResult(w http.ResponseWriter, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
