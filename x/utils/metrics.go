package utils

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vestnet/vest"
	"github.com/vestnet/vest/errors"
)

// Metrics is a decorator that counts processed transactions by message
// path and result code, and observes the processing time.
type Metrics struct {
	txs      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ vest.Decorator = Metrics{}

// NewMetrics creates a Metrics decorator with collectors registered in
// reg. Collectors already registered by another instance are shared.
func NewMetrics(reg prometheus.Registerer) Metrics {
	txs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vest",
		Subsystem: "tx",
		Name:      "processed_total",
		Help:      "Total transactions processed, by phase, message path and ABCI code.",
	}, []string{"phase", "path", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "vest",
		Subsystem: "tx",
		Name:      "duration_seconds",
		Help:      "Time spent processing a transaction, by phase.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"phase"})

	return Metrics{
		txs:      register(reg, txs).(*prometheus.CounterVec),
		duration: register(reg, duration).(*prometheus.HistogramVec),
	}
}

func register(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector
		}
		panic(err)
	}
	return c
}

// Check counts the transaction in the check phase
func (m Metrics) Check(ctx vest.Context, store vest.KVStore, tx vest.Tx, next vest.Checker) (*vest.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	m.observe("check", vest.GetPath(tx), start, err)
	return res, err
}

// Deliver counts the transaction in the deliver phase
func (m Metrics) Deliver(ctx vest.Context, store vest.KVStore, tx vest.Tx, next vest.Deliverer) (*vest.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	m.observe("deliver", vest.GetPath(tx), start, err)
	return res, err
}

func (m Metrics) observe(phase, path string, start time.Time, err error) {
	code, _ := errors.ABCIInfo(err, false)
	m.txs.WithLabelValues(phase, path, strconv.FormatUint(uint64(code), 10)).Inc()
	m.duration.WithLabelValues(phase).Observe(time.Since(start).Seconds())
}
