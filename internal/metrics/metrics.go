package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"featreq/internal/db"
	"featreq/internal/models"
)

var (
	openReqsDesc = prometheus.NewDesc(
		"featreq_open_requests",
		"Open feature request count by client",
		[]string{"client_id"},
		nil,
	)
	closedReqsDesc = prometheus.NewDesc(
		"featreq_closed_requests_total",
		"Closed feature request count by status",
		[]string{"status"},
		nil,
	)
)

// LedgerCollector is a custom Prometheus collector that reads open and
// closed request counts from the database on each scrape.
type LedgerCollector struct {
	db *db.DB
}

// Describe sends the metric descriptors to the channel.
func (c *LedgerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- openReqsDesc
	ch <- closedReqsDesc
}

// Collect queries the database for ledger counts and emits them.
func (c *LedgerCollector) Collect(ch chan<- prometheus.Metric) {
	ctx := context.Background()

	openCounts, err := c.db.OpenCountsByClient(ctx)
	if err != nil {
		slog.Error("failed to collect open request metrics", "error", err)
	} else {
		for _, oc := range openCounts {
			ch <- prometheus.MustNewConstMetric(
				openReqsDesc,
				prometheus.GaugeValue,
				float64(oc.OpenCount),
				oc.ClientID.String(),
			)
		}
	}

	closedCounts, err := c.db.ClosedCountsByStatus(ctx)
	if err != nil {
		slog.Error("failed to collect closed request metrics", "error", err)
		return
	}
	for _, sc := range closedCounts {
		name := models.StatusByCode[sc.Status]
		if name == "" {
			name = sc.Status
		}
		ch <- prometheus.MustNewConstMetric(
			closedReqsDesc,
			prometheus.CounterValue,
			float64(sc.Count),
			name,
		)
	}
}

var registerOnce sync.Once

// Init registers the custom collector. Must be called once at startup.
func Init(database *db.DB) {
	registerOnce.Do(func() {
		prometheus.MustRegister(&LedgerCollector{db: database})
	})
}
