package gologger

import (
	"context"
	"strconv"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/Najnomics/multihook-adapter/core"
)

// Resolve uses deterministic precedence provider > logger > nop.
func Resolve(name string, provider glog.LoggerProvider, logger glog.Logger) (glog.LoggerProvider, glog.Logger) {
	return glog.Resolve(name, provider, logger)
}

// MetricsRecorder emits counters and histograms as structured log lines.
// It is the default sink for deployments that ship metrics through the log
// pipeline instead of a dedicated collector.
type MetricsRecorder struct {
	logger glog.Logger
}

func NewMetricsRecorder(logger glog.Logger) *MetricsRecorder {
	if logger == nil {
		logger = glog.Nop()
	}
	return &MetricsRecorder{logger: logger}
}

// ResolveMetricsRecorder resolves a logger by name and wraps it as a
// metrics recorder, matching the precedence rules of Resolve.
func ResolveMetricsRecorder(name string, provider glog.LoggerProvider, logger glog.Logger) *MetricsRecorder {
	_, resolved := Resolve(name, provider, logger)
	return NewMetricsRecorder(resolved)
}

func (r *MetricsRecorder) IncCounter(ctx context.Context, name string, value int64, tags map[string]string) {
	if r == nil || r.logger == nil {
		return
	}
	args := metricArgs(tags, 4)
	args = append(args, "metric", name, "count", strconv.FormatInt(value, 10))
	r.logger.WithContext(ctx).Debug("metric counter", args...)
}

func (r *MetricsRecorder) ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string) {
	if r == nil || r.logger == nil {
		return
	}
	args := metricArgs(tags, 4)
	args = append(args, "metric", name, "value", strconv.FormatFloat(value, 'f', -1, 64))
	r.logger.WithContext(ctx).Debug("metric histogram", args...)
}

func metricArgs(tags map[string]string, extra int) []any {
	args := make([]any, 0, len(tags)*2+extra)
	for key, value := range tags {
		args = append(args, key, value)
	}
	return args
}

var _ core.MetricsRecorder = (*MetricsRecorder)(nil)
