package metrics

import (
	"github.com/goodnatureofminers/sensorledger/internal/model"
	"github.com/prometheus/client_golang/prometheus"
)

// ChainReader is the read side of the chain store sampled at scrape time.
type ChainReader interface {
	Len() int
	Tip() (model.ChainTip, bool)
}

var (
	chainLengthDesc = prometheus.NewDesc(
		prometheus.BuildFQName("sensorledger", "chain", "length"),
		"Number of accepted blocks held in memory.",
		nil, nil,
	)
	chainTipIndexDesc = prometheus.NewDesc(
		prometheus.BuildFQName("sensorledger", "chain", "tip_index"),
		"Index of the most recently accepted block.",
		nil, nil,
	)
)

// Chain samples chain length and tip on every scrape.
type Chain struct {
	reader ChainReader
}

// NewChain returns a collector for the given chain; register it with a prometheus.Registerer.
func NewChain(reader ChainReader) *Chain {
	return &Chain{reader: reader}
}

// Describe implements prometheus.Collector.
func (c *Chain) Describe(ch chan<- *prometheus.Desc) {
	ch <- chainLengthDesc
	ch <- chainTipIndexDesc
}

// Collect implements prometheus.Collector.
func (c *Chain) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(chainLengthDesc, prometheus.GaugeValue, float64(c.reader.Len()))
	if tip, ok := c.reader.Tip(); ok {
		ch <- prometheus.MustNewConstMetric(chainTipIndexDesc, prometheus.GaugeValue, float64(tip.Index))
	}
}
