package collection

import (
	"github.com/kasuboski/reelbox/pkg/metrics"
	"go.uber.org/zap"
)

// ObserveMetrics keeps the collection metrics current for m.
func ObserveMetrics(m *Manager) (cancel func()) {
	record := func() {
		for name, n := range m.Sizes() {
			metrics.CollectionSize.WithLabelValues(string(name)).Set(float64(n))
		}
	}
	record()

	return m.Subscribe(func(c Change) {
		if !c.Mutated() {
			return
		}
		metrics.CollectionMutations.WithLabelValues(string(c.Collection), string(c.Action)).Inc()
		for _, also := range c.Also {
			metrics.CollectionMutations.WithLabelValues(string(also.Collection), string(also.Action)).Inc()
		}
		record()
	})
}

// LogChanges writes every mutation to log at debug level.
func LogChanges(m *Manager, log *zap.SugaredLogger) (cancel func()) {
	return m.Subscribe(func(c Change) {
		if !c.Mutated() {
			return
		}
		log.Debugw("collection changed",
			"collection", string(c.Collection),
			"action", string(c.Action),
			"movieID", c.MovieID)
	})
}
