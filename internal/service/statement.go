package service

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/streamops/flink-sql-proxy/internal/events"
	"github.com/streamops/flink-sql-proxy/internal/flink"
	"github.com/streamops/flink-sql-proxy/pkg/requestid"
	"go.uber.org/zap"
)

// StatementService resolves the application job and forwards statements to
// it, emitting an audit event for every statement the gateway answers.
type StatementService struct {
	resolver    *flink.Resolver
	dispatcher  *flink.Dispatcher
	eventWriter *events.EventProducer
}

func NewStatementService(resolver *flink.Resolver, dispatcher *flink.Dispatcher, ew *events.EventProducer) *StatementService {
	return &StatementService{
		resolver:    resolver,
		dispatcher:  dispatcher,
		eventWriter: ew,
	}
}

// Submit routes one statement to the running application job, resolving or
// launching the job first when needed.
func (s *StatementService) Submit(ctx context.Context, sql string, variables map[string]string) (*flink.StatementResult, error) {
	job, err := s.resolver.EnsureJob(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.dispatcher.Dispatch(ctx, job, sql, variables)
	if err != nil {
		return nil, err
	}

	zap.S().Named("statement").Infow("statement dispatched", "job_id", result.JobID, "status", result.Status)
	s.emitStatementEvent(ctx, result, false)

	return result, nil
}

// RecordReplay emits the audit event for a response served from the
// idempotency cache.
func (s *StatementService) RecordReplay(ctx context.Context, result *flink.StatementResult) {
	s.emitStatementEvent(ctx, result, true)
}

func (s *StatementService) emitStatementEvent(ctx context.Context, result *flink.StatementResult, replayed bool) {
	event := events.StatementEvent{
		RequestID: requestid.FromContext(ctx),
		JobID:     result.JobID,
		Status:    result.Status,
		Replayed:  replayed,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	if err := s.eventWriter.Write(ctx, events.StatementMessageKind, bytes.NewBuffer(data)); err != nil {
		zap.S().Named("statement").Errorw("failed to write event", "error", err, "event_kind", events.StatementMessageKind)
	}
}
