package metrics

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Collector accumulates per-process request counters. It is handed to
// the router explicitly so tests can use a fresh instance instead of
// resetting shared state.
type Collector struct {
	requests      atomic.Int64
	errors        atomic.Int64
	totalDuration atomic.Int64 // nanoseconds
}

type Snapshot struct {
	Requests      int64         `json:"requests"`
	Errors        int64         `json:"errors"`
	TotalDuration time.Duration `json:"total_duration_ns"`
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.requests.Add(1)
	if status >= 500 {
		c.errors.Add(1)
	}
	c.totalDuration.Add(int64(duration))
}

func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		Requests:      c.requests.Load(),
		Errors:        c.errors.Load(),
		TotalDuration: time.Duration(c.totalDuration.Load()),
	}
}

// Middleware records every completed request into the collector.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		c.Record(ww.Status(), time.Since(start))
	})
}
