package shardmap

import (
	"io"

	"github.com/yndnr/shardmap-go/internal/confloader"
	"github.com/yndnr/shardmap-go/internal/telemetry/logger"
)

// Policy returns the resize policy currently applied to the shards.
func (m *Map[K, V]) Policy() Policy {
	m.policyMu.Lock()
	defer m.policyMu.Unlock()
	return m.policy
}

// SetPolicy replaces the resize policy of every shard.
//
// Shards are updated one at a time. The new policy takes effect at each
// shard's next resize decision; current capacities are kept.
func (m *Map[K, V]) SetPolicy(p Policy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.MinCapacity > m.cfg.InitialCapacity {
		return ErrInvalidPolicy.WithDetailsf("min_capacity %d exceeds initial_capacity %d", p.MinCapacity, m.cfg.InitialCapacity)
	}
	if p.MaxCapacity > 0 && p.MaxCapacity < m.cfg.InitialCapacity {
		return ErrInvalidPolicy.WithDetailsf("max_capacity %d is below initial_capacity %d", p.MaxCapacity, m.cfg.InitialCapacity)
	}

	m.policyMu.Lock()
	defer m.policyMu.Unlock()

	for _, s := range m.shards {
		if err := s.setPolicy(p); err != nil {
			return err
		}
	}
	m.policy = p
	return nil
}

// WatchConfig reloads the resize policy and log level whenever the YAML file
// at path is written. Changes to shard_count or initial_capacity are ignored
// with a warning. A burst of writes from one save is coalesced into a single
// reload. Close the returned io.Closer to stop watching.
func (m *Map[K, V]) WatchConfig(path string) (io.Closer, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(m.log))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return nil, err
	}

	w.OnChange(m.reload)
	w.StartAsync()

	m.log.Info("watching configuration", "path", path)
	return &configWatch{w: w}, nil
}

// reload runs on the watcher goroutine, which has no caller to return an
// error to, so failures are logged.
func (m *Map[K, V]) reload(path string) {
	cfg, err := LoadConfig(path)
	if err != nil {
		m.log.Error("config reload failed", "path", path, "error", err)
		return
	}

	if cfg.ShardCount != m.cfg.ShardCount || cfg.InitialCapacity != m.cfg.InitialCapacity {
		m.log.Warn("shard_count and initial_capacity are fixed at construction; ignoring",
			"shard_count", cfg.ShardCount,
			"initial_capacity", cfg.InitialCapacity,
		)
	}

	if err := m.SetPolicy(cfg.Policy); err != nil {
		m.log.Error("config reload failed", "path", path, "error", err)
		return
	}
	logger.SetLevel(m.log, cfg.Log.Level)

	m.log.Info("resize policy reloaded",
		"path", path,
		"max_fill_ratio", cfg.Policy.MaxFillRatio,
		"min_fill_ratio", cfg.Policy.MinFillRatio,
		"max_capacity", cfg.Policy.MaxCapacity,
	)
}

type configWatch struct {
	w *confloader.Watcher
}

func (c *configWatch) Close() error {
	err := c.w.Stop()
	c.w.Wait()
	return err
}
