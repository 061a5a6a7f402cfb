package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

func init() {
	register(
		checkoutLinksTotal,
		notificationsTotal,
		paidAmountTotal,
	)
}

var (
	checkoutLinksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_links_total",
			Help: "Signed checkout redirects issued, labeled by currency.",
		},
		[]string{"currency"},
	)

	// state: success|fail|waitAccept|...
	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_notifications_total",
			Help: "Verified gateway notifications by invoice state.",
		},
		[]string{"state"},
	)

	paidAmountTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_paid_amount_total",
			Help: "Sum of amounts reported by successful notifications, labeled by currency.",
		},
		[]string{"currency"},
	)
)

func IncCheckoutLink(currency string) {
	checkoutLinksTotal.WithLabelValues(norm(currency)).Inc()
}

func IncNotification(state string) {
	notificationsTotal.WithLabelValues(norm(state)).Inc()
}

func AddPaidAmount(currency string, amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	paidAmountTotal.WithLabelValues(norm(currency)).Add(amount.InexactFloat64())
}
