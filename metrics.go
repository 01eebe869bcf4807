package linesrv

import "github.com/prometheus/client_golang/prometheus"

// StatsCollector exports a Server's counters as Prometheus metrics.
// Register it on a prometheus.Registry and serve it with promhttp:
//
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(linesrv.NewStatsCollector(srv))
type StatsCollector struct {
	srv *Server

	connectionsAccepted *prometheus.Desc
	connectionsActive   *prometheus.Desc
	linesServed         *prometheus.Desc
	framesRejected      *prometheus.Desc
	readsOutOfBounds    *prometheus.Desc
	quits               *prometheus.Desc
	shutdowns           *prometheus.Desc
}

var _ prometheus.Collector = (*StatsCollector)(nil)

// NewStatsCollector creates a collector reading from srv.
func NewStatsCollector(srv *Server) *StatsCollector {
	return &StatsCollector{
		srv: srv,
		connectionsAccepted: prometheus.NewDesc(
			"linesrv_connections_accepted_total",
			"Connections accepted since start.",
			nil, nil,
		),
		connectionsActive: prometheus.NewDesc(
			"linesrv_connections_active",
			"Connections currently open.",
			nil, nil,
		),
		linesServed: prometheus.NewDesc(
			"linesrv_lines_served_total",
			"Successful line reads.",
			nil, nil,
		),
		framesRejected: prometheus.NewDesc(
			"linesrv_frames_rejected_total",
			"Frames rejected by the codec, by reason.",
			[]string{"reason"}, nil,
		),
		readsOutOfBounds: prometheus.NewDesc(
			"linesrv_reads_out_of_bounds_total",
			"Read commands with an index outside the corpus.",
			nil, nil,
		),
		quits: prometheus.NewDesc(
			"linesrv_quits_total",
			"Quit commands received.",
			nil, nil,
		),
		shutdowns: prometheus.NewDesc(
			"linesrv_shutdowns_total",
			"Shutdown commands received.",
			nil, nil,
		),
	}
}

func (c *StatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.connectionsAccepted
	ch <- c.connectionsActive
	ch <- c.linesServed
	ch <- c.framesRejected
	ch <- c.readsOutOfBounds
	ch <- c.quits
	ch <- c.shutdowns
}

func (c *StatsCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.srv.Stats()

	ch <- prometheus.MustNewConstMetric(c.connectionsAccepted, prometheus.CounterValue, float64(s.ConnectionsAccepted))
	ch <- prometheus.MustNewConstMetric(c.connectionsActive, prometheus.GaugeValue, float64(s.ConnectionsActive))
	ch <- prometheus.MustNewConstMetric(c.linesServed, prometheus.CounterValue, float64(s.LinesServed))
	ch <- prometheus.MustNewConstMetric(c.framesRejected, prometheus.CounterValue, float64(s.FramesMalformed), "malformed")
	ch <- prometheus.MustNewConstMetric(c.framesRejected, prometheus.CounterValue, float64(s.FramesBadChecksum), "checksum")
	ch <- prometheus.MustNewConstMetric(c.framesRejected, prometheus.CounterValue, float64(s.FramesUnknownCommand), "unknown_command")
	ch <- prometheus.MustNewConstMetric(c.readsOutOfBounds, prometheus.CounterValue, float64(s.ReadsOutOfBounds))
	ch <- prometheus.MustNewConstMetric(c.quits, prometheus.CounterValue, float64(s.Quits))
	ch <- prometheus.MustNewConstMetric(c.shutdowns, prometheus.CounterValue, float64(s.Shutdowns))
}
