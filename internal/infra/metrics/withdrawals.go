package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		withdrawalsTotal,
		signaturesTotal,
	)
}

var (
	// outcome: succeeded|failed; stage: the last stage reached
	withdrawalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "withdrawals_total",
			Help: "Withdrawal flows by outcome, failing stage and error kind.",
		},
		[]string{"outcome", "stage", "kind"},
	)

	// op: sign|verify; result: ok|invalid
	signaturesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_signatures_total",
			Help: "Checkout signatures produced and notification signatures checked.",
		},
		[]string{"op", "result"},
	)
)

func IncWithdrawal(outcome, stage, kind string) {
	withdrawalsTotal.WithLabelValues(norm(outcome), norm(stage), norm(kind)).Inc()
}

func IncSignature(op, result string) {
	signaturesTotal.WithLabelValues(norm(op), norm(result)).Inc()
}
