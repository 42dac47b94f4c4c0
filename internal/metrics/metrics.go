package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SwapsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "swapfarm_swaps_total", Help: "Swap attempts by outcome"},
		[]string{"network", "swap", "result"},
	)
	ApprovalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "swapfarm_approvals_total", Help: "Approval transactions by outcome"},
		[]string{"network", "token", "result"},
	)
	NonceGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "swapfarm_next_nonce", Help: "Next local nonce per account"},
		[]string{"address"},
	)
)

func init() {
	prometheus.MustRegister(SwapsTotal, ApprovalsTotal, NonceGauge)
}

// Result maps an error to a label value.
func Result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
