package render

import "github.com/prometheus/client_golang/prometheus"

var (
	draws = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "blendwall",
		Subsystem: "render",
		Name:      "draws_total",
		Help:      "Draw steps executed.",
	})
	drawDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "blendwall",
		Subsystem: "render",
		Name:      "draw_duration_seconds",
		Help:      "Time spent in one draw step, tasks included.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
	})
	tasksRun = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "blendwall",
		Subsystem: "render",
		Name:      "tasks_total",
		Help:      "Queued tasks executed by the render goroutine.",
	})
	framesRebound = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "blendwall",
		Subsystem: "render",
		Name:      "frames_rebound_total",
		Help:      "Content frames bound to the texture.",
	})
	resourceErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blendwall",
		Subsystem: "render",
		Name:      "resource_errors_total",
		Help:      "GPU resource failures by kind.",
	}, []string{"kind"})
)

func init() {
	prometheus.MustRegister(draws, drawDuration, tasksRun, framesRebound, resourceErrors)
}
