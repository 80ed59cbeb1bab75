package linkshort

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "linkshort"

// LinkCounter is implemented by indexes that can report how many links they hold.
type LinkCounter interface {
	CountLinks() (int, error)
}

type collector struct {
	counter *Counter
	links   LinkCounter

	requestsDesc *prometheus.Desc
	linksDesc    *prometheus.Desc
}

// NewCollector exports the counter's per-route totals and, if links is not
// nil, the number of stored links. A failed count is reported as a collection
// error rather than as zero.
func NewCollector(counter *Counter, links LinkCounter) prometheus.Collector {
	return &collector{
		counter: counter,
		links:   links,
		requestsDesc: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "", "requests_total"),
			"Number of handled requests per route.",
			[]string{"route"}, nil,
		),
		linksDesc: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "", "links"),
			"Number of stored short links.",
			nil, nil,
		),
	}
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.requestsDesc
	ch <- c.linksDesc
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	for route, n := range c.counter.Snapshot() {
		ch <- prometheus.MustNewConstMetric(c.requestsDesc, prometheus.CounterValue, float64(n), route)
	}
	if c.links == nil {
		return
	}
	n, err := c.links.CountLinks()
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.linksDesc, err)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.linksDesc, prometheus.GaugeValue, float64(n))
}
