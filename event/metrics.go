package event

import "github.com/prometheus/client_golang/prometheus"

// QueueDepth is a gauge vector tracking how many events are on a
// queue's wait list after each RunOnce cycle, keyed by a caller-chosen
// queue name (typically the listening address a queue serves).
var QueueDepth = prometheus.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "naviserver",
	Subsystem: "event_queue",
	Name:      "wait_depth",
	Help:      "Number of sockets on an event queue's wait list after the last poll cycle.",
}, []string{"queue"})

// Observe records the current wait-list depth for queue name, meant to
// be called once after each RunOnce.
func (q *Queue) Observe(name string) {
	q.mu.Lock()
	depth := 0
	for id := q.firstWait; id != nilID; id = q.slots[id].next {
		depth++
	}
	q.mu.Unlock()
	QueueDepth.WithLabelValues(name).Set(float64(depth))
}
