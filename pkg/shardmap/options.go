package shardmap

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/shardmap-go/internal/telemetry/logger"
	"github.com/yndnr/shardmap-go/pkg/hashing"
)

// Option configures a Map.
type Option func(*options)

type options struct {
	logger     logger.Logger
	registerer prometheus.Registerer
	routeSeed  uint32
}

func defaultOptions() options {
	return options{
		routeSeed: hashing.DefaultRouteSeed,
	}
}

// WithLogger makes the map log through l instead of a logger built from
// Config.Log.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger.FromSlog(l)
	}
}

// WithRegisterer exports the map's metrics to reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithRouteSeed sets the MurmurHash3 seed used to route keys to shards.
func WithRouteSeed(seed uint32) Option {
	return func(o *options) {
		o.routeSeed = seed
	}
}
