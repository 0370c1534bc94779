package core

import (
	"context"
	"sort"
	"strings"
	"time"
)

func (a *Adapter) observeDispatch(
	ctx context.Context,
	startedAt time.Time,
	event LifecycleEventKind,
	poolID PoolID,
	invoked int,
	err error,
) {
	if a == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}

	fields := map[string]any{
		"event":         string(event),
		"pool_id":       poolID.String(),
		"hooks_invoked": invoked,
		"status":        status,
		"duration_ms":   time.Since(startedAt).Milliseconds(),
	}
	if err != nil {
		fields["error"] = err.Error()
	}

	tags := map[string]string{
		"event":  string(event),
		"status": status,
	}
	a.recordCounter(ctx, MetricDispatchTotal, 1, tags)
	a.recordHistogram(ctx, MetricDispatchDurationMS, float64(time.Since(startedAt).Milliseconds()), tags)

	if err != nil {
		a.logError(ctx, "dispatch failed", fields)
		return
	}
	a.logInfo(ctx, "dispatch completed", fields)
}

func (a *Adapter) logInfo(ctx context.Context, message string, fields map[string]any) {
	a.logWithLevel(ctx, "info", message, fields)
}

func (a *Adapter) logError(ctx context.Context, message string, fields map[string]any) {
	a.logWithLevel(ctx, "error", message, fields)
}

func (a *Adapter) logWithLevel(ctx context.Context, level string, message string, fields map[string]any) {
	if a == nil || a.logger == nil {
		return
	}
	logger := a.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
	}
	args := flattenFields(fields)
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		logger.Error(message, args...)
	default:
		logger.Info(message, args...)
	}
}

func (a *Adapter) recordCounter(ctx context.Context, name string, value int64, tags map[string]string) {
	if a == nil || a.metricsRecorder == nil {
		return
	}
	a.metricsRecorder.IncCounter(ctx, name, value, cloneTags(tags))
}

func (a *Adapter) recordHistogram(ctx context.Context, name string, value float64, tags map[string]string) {
	if a == nil || a.metricsRecorder == nil {
		return
	}
	a.metricsRecorder.ObserveHistogram(ctx, name, value, cloneTags(tags))
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}
