package core

import "context"

// Dispatch metric names. Every lifecycle entry point increments the counter
// and observes the histogram once, tagged with the event kind and outcome.
const (
	MetricDispatchTotal      = "multihook.dispatch.total"
	MetricDispatchDurationMS = "multihook.dispatch.duration_ms"
)

// NopMetricsRecorder is the default sink: dispatch observability stays on
// the structured log and metrics are discarded until a recorder is injected
// with WithMetricsRecorder.
type NopMetricsRecorder struct{}

func (NopMetricsRecorder) IncCounter(context.Context, string, int64, map[string]string) {}

func (NopMetricsRecorder) ObserveHistogram(context.Context, string, float64, map[string]string) {}

// cloneTags keeps recorders from mutating the dispatcher's tag maps.
func cloneTags(tags map[string]string) map[string]string {
	if len(tags) == 0 {
		return map[string]string{}
	}
	copied := make(map[string]string, len(tags))
	for key, value := range tags {
		copied[key] = value
	}
	return copied
}

var _ MetricsRecorder = NopMetricsRecorder{}
