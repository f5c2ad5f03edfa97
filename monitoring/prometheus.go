package monitoring

import (
	"math/big"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/holiman/uint256"
	"github.com/mezonai/snapledger/logx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ledgerPromMetrics struct {
	snapshotID        prometheus.Gauge
	balanceOps        *prometheus.CounterVec
	roundsFunded      prometheus.Counter
	poolAmount        prometheus.Gauge
	claimsSettled     prometheus.Counter
	claimsRejected    *prometheus.CounterVec
	payoutTotal       prometheus.Counter
	panicCount        prometheus.Counter
	journalWriteFails prometheus.Counter
}

func newLedgerPromMetrics() *ledgerPromMetrics {
	return &ledgerPromMetrics{
		snapshotID: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "snapledger_snapshot_id",
				Help: "The id of the most recently sealed snapshot",
			},
		),
		balanceOps: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "snapledger_balance_ops_total",
				Help: "Applied balance mutations by operation",
			},
			[]string{"op"},
		),
		roundsFunded: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "snapledger_rounds_funded_total",
				Help: "The total number of funded distribution rounds",
			},
		),
		poolAmount: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "snapledger_round_pool_amount",
				Help: "Pool of the current round (precision lost above 2^53)",
			},
		),
		claimsSettled: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "snapledger_claims_settled_total",
				Help: "The total number of settled claims",
			},
		),
		claimsRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "snapledger_claims_rejected_total",
				Help: "Rejected claims by error code",
			},
			[]string{"reason"},
		),
		payoutTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "snapledger_payout_total",
				Help: "Sum of settled payouts (precision lost above 2^53)",
			},
		),
		panicCount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "snapledger_panic_count",
				Help: "Recovered panics in background goroutines",
			},
		),
		journalWriteFails: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "snapledger_journal_write_failures_total",
				Help: "Settlement journal writes that failed",
			},
		),
	}
}

var (
	metricsOnce   sync.Once
	ledgerMetrics atomic.Pointer[ledgerPromMetrics]
)

// InitMetrics registers the collectors. Safe to call more than once and
// concurrently with the record helpers, which are no-ops until it has run.
func InitMetrics() {
	metricsOnce.Do(func() {
		ledgerMetrics.Store(newLedgerPromMetrics())
	})
}

func RegisterMetrics(mux *http.ServeMux) {
	logx.Info("MONITORING", "Registering prometheus metrics")
	mux.Handle("/metrics", promhttp.Handler())
}

func SetSnapshotID(id uint64) {
	m := ledgerMetrics.Load()
	if m == nil {
		return
	}
	m.snapshotID.Set(float64(id))
}

func RecordBalanceOp(op string) {
	m := ledgerMetrics.Load()
	if m == nil {
		return
	}
	m.balanceOps.With(prometheus.Labels{"op": op}).Inc()
}

func RecordRoundFunded(pool *uint256.Int) {
	m := ledgerMetrics.Load()
	if m == nil {
		return
	}
	m.roundsFunded.Inc()
	m.poolAmount.Set(toFloat(pool))
}

func RecordClaimSettled(payout *uint256.Int) {
	m := ledgerMetrics.Load()
	if m == nil {
		return
	}
	m.claimsSettled.Inc()
	m.payoutTotal.Add(toFloat(payout))
}

func RecordClaimRejected(reason string) {
	m := ledgerMetrics.Load()
	if m == nil {
		return
	}
	m.claimsRejected.With(prometheus.Labels{"reason": reason}).Inc()
}

func IncreasePanicCount() {
	m := ledgerMetrics.Load()
	if m == nil {
		return
	}
	m.panicCount.Inc()
}

func IncreaseJournalWriteFailures() {
	m := ledgerMetrics.Load()
	if m == nil {
		return
	}
	m.journalWriteFails.Inc()
}

func toFloat(v *uint256.Int) float64 {
	f, _ := new(big.Float).SetInt(v.ToBig()).Float64()
	return f
}
