package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultOK              = "ok"
	ResultInvalidAmount   = "invalid_amount"
	ResultInvalidAddress  = "invalid_address"
	ResultCommentTooLong  = "comment_too_long"
	ResultSerializeFailed = "serialize_failed"
)

var (
	PayloadsBuilt = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jetton_transfer_payloads_total",
		Help: "Jetton transfer payloads requested, by result",
	}, []string{"result"})

	HTTPResponseTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 10},
	}, []string{"route"})
)
