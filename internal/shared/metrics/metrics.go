package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	applicationsPreparedTotal   atomic.Uint64
	applicationsFailedTotal     atomic.Uint64
	applicationsRejectedTotal   atomic.Uint64
	pendingActionsReapedTotal   atomic.Uint64
	notificationsDeliveredTotal atomic.Uint64

	applyDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncApplicationPrepared increments the prepared-application counter.
func IncApplicationPrepared() {
	applicationsPreparedTotal.Add(1)
}

// IncApplicationFailed increments the failed-application counter.
func IncApplicationFailed() {
	applicationsFailedTotal.Add(1)
}

// IncApplicationRejected counts attempts stopped before any record was
// written (quota, missing resume, unknown job).
func IncApplicationRejected() {
	applicationsRejectedTotal.Add(1)
}

// AddPendingActionsReaped adds swept pending action records.
func AddPendingActionsReaped(n uint64) {
	pendingActionsReapedTotal.Add(n)
}

// IncNotificationDelivered increments the delivered-notification counter.
func IncNotificationDelivered() {
	notificationsDeliveredTotal.Add(1)
}

// ObserveApplyDurationMs records an apply pipeline duration in milliseconds.
func ObserveApplyDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	applyDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "applications_prepared_total", "Total applications prepared", applicationsPreparedTotal.Load())
	writeCounter(&buf, "applications_failed_total", "Total application attempts that failed", applicationsFailedTotal.Load())
	writeCounter(&buf, "applications_rejected_total", "Total apply requests rejected before an attempt", applicationsRejectedTotal.Load())
	writeCounter(&buf, "pending_actions_reaped_total", "Total expired pending actions removed", pendingActionsReapedTotal.Load())
	writeCounter(&buf, "notifications_delivered_total", "Total notifications delivered", notificationsDeliveredTotal.Load())
	writeHistogram(&buf, "apply_duration_ms", "Apply pipeline duration in milliseconds", applyDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// NowMillis returns current time in milliseconds, useful for callers without time utilities.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
