package metrics

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecord_CountsRequestsAndErrors(t *testing.T) {
	c := NewCollector()

	c.Record(200, 10*time.Millisecond)
	c.Record(404, 5*time.Millisecond)
	c.Record(500, 15*time.Millisecond)

	snap := c.Snapshot()
	assert.Equal(t, int64(3), snap.Requests)
	assert.Equal(t, int64(1), snap.Errors) // only 5xx count as errors
	assert.Equal(t, 30*time.Millisecond, snap.TotalDuration)
}

func TestMiddleware_RecordsCompletedRequests(t *testing.T) {
	c := NewCollector()

	ok := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	failing := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	for i := 0; i < 3; i++ {
		ok.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	}
	failing.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	snap := c.Snapshot()
	assert.Equal(t, int64(4), snap.Requests)
	assert.Equal(t, int64(1), snap.Errors)
	assert.Greater(t, snap.TotalDuration, time.Duration(0))
}

func TestRecord_ConcurrentIncrements(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Record(200, time.Millisecond)
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	assert.Equal(t, int64(100), snap.Requests)
	assert.Equal(t, 100*time.Millisecond, snap.TotalDuration)
}

func TestSnapshot_FreshCollectorIsZero(t *testing.T) {
	snap := NewCollector().Snapshot()
	assert.Zero(t, snap.Requests)
	assert.Zero(t, snap.Errors)
	assert.Zero(t, snap.TotalDuration)
}
