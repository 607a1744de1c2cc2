// SPDX-License-Identifier: Unlicense OR MIT

// Package metrics exports the activity of layout contexts as
// Prometheus metrics.
package metrics

import (
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"clayui.org/layout"
)

const namespace = "clay"

// Source is implemented by *layout.Context.
type Source interface {
	Stats() layout.Stats
}

// Collector is a prometheus.Collector reporting the stats of a set of
// named layout contexts. Sources may be added and removed while the
// collector is registered.
type Collector struct {
	mu      sync.Mutex
	sources map[string]Source

	passes    *prometheus.Desc
	errors    *prometheus.Desc
	commands  *prometheus.Desc
	inUse     *prometheus.Desc
	capacity  *prometheus.Desc
	peak      *prometheus.Desc
	overflows *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

func NewCollector() *Collector {
	labels := []string{"context"}
	desc := func(subsystem, name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystem, name), help, labels, nil)
	}
	return &Collector{
		sources:   make(map[string]Source),
		passes:    desc("layout", "passes_total", "Number of completed layout passes."),
		errors:    desc("layout", "pass_errors_total", "Number of layout passes that reported dropped declarations or duplicate IDs."),
		commands:  desc("layout", "commands", "Number of render commands produced by the last pass."),
		inUse:     desc("arena", "bytes_in_use", "Arena bytes used by the last pass."),
		capacity:  desc("arena", "bytes_capacity", "Arena bytes reserved by the context."),
		peak:      desc("arena", "bytes_peak", "Highest arena usage of any pass."),
		overflows: desc("arena", "overflows_total", "Arena allocations refused for lack of space."),
	}
}

// Add reports the stats of s under name, replacing any source
// previously added with that name.
func (c *Collector) Add(name string, s Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources[name] = s
}

func (c *Collector) Remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sources, name)
}

// Len returns the number of sources.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sources)
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.passes
	ch <- c.errors
	ch <- c.commands
	ch <- c.inUse
	ch <- c.capacity
	ch <- c.peak
	ch <- c.overflows
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	names := make([]string, 0, len(c.sources))
	for name := range c.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	sources := make([]Source, len(names))
	for i, name := range names {
		sources[i] = c.sources[name]
	}
	c.mu.Unlock()

	for i, s := range sources {
		name := names[i]
		st := s.Stats()
		ch <- prometheus.MustNewConstMetric(c.passes, prometheus.CounterValue, float64(st.Passes), name)
		ch <- prometheus.MustNewConstMetric(c.errors, prometheus.CounterValue, float64(st.Errors), name)
		ch <- prometheus.MustNewConstMetric(c.commands, prometheus.GaugeValue, float64(st.Commands), name)
		ch <- prometheus.MustNewConstMetric(c.inUse, prometheus.GaugeValue, float64(st.Arena.InUse), name)
		ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(st.Arena.Capacity), name)
		ch <- prometheus.MustNewConstMetric(c.peak, prometheus.GaugeValue, float64(st.Arena.Peak), name)
		ch <- prometheus.MustNewConstMetric(c.overflows, prometheus.CounterValue, float64(st.Arena.Overflows), name)
	}
}
