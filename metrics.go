// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.10.14
//

package coordinates

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Cache labels
const (
	navCacheLabel = "nav"
	posCacheLabel = "position"
)

// Counters of the solver caches
type cacheMetrics struct {
	builds        prometheus.Counter
	hits          *prometheus.CounterVec
	misses        *prometheus.CounterVec
	invalidations prometheus.Counter
}

// Create counters and register them when reg is not nil
func newCacheMetrics(reg prometheus.Registerer) (*cacheMetrics, error) {
	m := &cacheMetrics{
		builds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coordinates_nav_index_builds_total",
			Help: "Total number of navigation files read into an index.",
		}),
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coordinates_cache_hits_total",
			Help: "Total number of cache hits.",
		}, []string{"cache"}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coordinates_cache_misses_total",
			Help: "Total number of cache misses.",
		}, []string{"cache"}),
		invalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coordinates_cache_invalidations_total",
			Help: "Total number of explicit cache invalidations.",
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.builds, m.hits, m.misses, m.invalidations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *cacheMetrics) hit(cache string) {
	m.hits.WithLabelValues(cache).Inc()
}

func (m *cacheMetrics) miss(cache string) {
	m.misses.WithLabelValues(cache).Inc()
}
