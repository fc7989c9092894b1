package metric

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "shardmap"

// ShardSample is a point-in-time view of one shard.
type ShardSample struct {
	Shard      int
	Capacity   int
	Occupied   int
	Tombstones int
}

// Recorder records map metrics into a Prometheus registry.
type Recorder struct {
	reg        prometheus.Registerer
	ops        *prometheus.CounterVec
	rehashes   *prometheus.CounterVec
	rehashTime *prometheus.HistogramVec
	shards     *shardCollector
}

// NewRecorder creates and registers the metrics of the map called name.
// source is polled on every scrape for the shard gauges.
func NewRecorder(reg prometheus.Registerer, name string, source func() []ShardSample) (*Recorder, error) {
	labels := prometheus.Labels{"map": name}

	r := &Recorder{
		reg: reg,
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "operations_total",
			Help:        "Map operations by kind and outcome.",
			ConstLabels: labels,
		}, []string{"op", "result"}),
		rehashes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "rehash_total",
			Help:        "Shard table rehashes by reason.",
			ConstLabels: labels,
		}, []string{"reason"}),
		rehashTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "rehash_duration_seconds",
			Help:        "Time spent rehashing a shard table while holding its lock.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"reason"}),
		shards: newShardCollector(labels, source),
	}

	collectors := []prometheus.Collector{r.ops, r.rehashes, r.rehashTime, r.shards}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			for _, done := range collectors[:i] {
				reg.Unregister(done)
			}
			return nil, err
		}
	}
	return r, nil
}

// Op counts one operation with its outcome.
func (r *Recorder) Op(op, result string) {
	if r == nil {
		return
	}
	r.ops.WithLabelValues(op, result).Inc()
}

// Rehash records one rehash.
func (r *Recorder) Rehash(reason string, d time.Duration) {
	if r == nil {
		return
	}
	r.rehashes.WithLabelValues(reason).Inc()
	r.rehashTime.WithLabelValues(reason).Observe(d.Seconds())
}

// Unregister removes every collector of the recorder from its registry.
func (r *Recorder) Unregister() error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, c := range []prometheus.Collector{r.ops, r.rehashes, r.rehashTime, r.shards} {
		if !r.reg.Unregister(c) {
			errs = append(errs, errors.New("metric: collector was not registered"))
		}
	}
	return errors.Join(errs...)
}

type shardCollector struct {
	capacity   *prometheus.Desc
	occupied   *prometheus.Desc
	tombstones *prometheus.Desc
	source     func() []ShardSample
}

func newShardCollector(labels prometheus.Labels, source func() []ShardSample) *shardCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "shard", name), help, []string{"shard"}, labels)
	}
	return &shardCollector{
		capacity:   desc("capacity", "Slots in the shard table."),
		occupied:   desc("occupied", "Live entries in the shard table."),
		tombstones: desc("tombstones", "Tombstone slots in the shard table."),
		source:     source,
	}
}

func (c *shardCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.capacity
	ch <- c.occupied
	ch <- c.tombstones
}

func (c *shardCollector) Collect(ch chan<- prometheus.Metric) {
	if c.source == nil {
		return
	}
	for _, s := range c.source() {
		shard := strconv.Itoa(s.Shard)
		ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.Capacity), shard)
		ch <- prometheus.MustNewConstMetric(c.occupied, prometheus.GaugeValue, float64(s.Occupied), shard)
		ch <- prometheus.MustNewConstMetric(c.tombstones, prometheus.GaugeValue, float64(s.Tombstones), shard)
	}
}
