package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Monitor collects till metrics. Each event updates a Prometheus collector
// on a private registry and a plain snapshot served as JSON.
type Monitor struct {
	metrics      map[string]interface{}
	metricsMutex sync.RWMutex
	startTime    time.Time

	registry            *prometheus.Registry
	ordersStarted       prometheus.Counter
	itemsAdded          prometheus.Counter
	receiptsGenerated   *prometheus.CounterVec
	ordersSaved         prometheus.Counter
	billTotal           prometheus.Histogram
	persistenceFailures *prometheus.CounterVec
	currentOrder        prometheus.Gauge
}

// NewMonitor creates a new monitoring instance
func NewMonitor() *Monitor {
	m := &Monitor{
		metrics:   make(map[string]interface{}),
		startTime: time.Now(),
		registry:  prometheus.NewRegistry(),

		ordersStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "billing_orders_started_total",
			Help: "Order numbers issued",
		}),
		itemsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "billing_items_added_total",
			Help: "Dish quantities added to orders",
		}),
		receiptsGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billing_receipts_generated_total",
				Help: "Receipt requests by outcome",
			},
			[]string{"result"},
		),
		ordersSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "billing_orders_saved_total",
			Help: "Orders appended to history",
		}),
		billTotal: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "billing_bill_total_rupees",
			Help:    "Total of saved bills",
			Buckets: prometheus.ExponentialBuckets(100, 2, 10),
		}),
		persistenceFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billing_persistence_failures_total",
				Help: "Failed durable writes",
			},
			[]string{"store"},
		),
		currentOrder: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "billing_current_order_number",
			Help: "Order number currently being assembled",
		}),
	}

	m.registry.MustRegister(
		m.ordersStarted,
		m.itemsAdded,
		m.receiptsGenerated,
		m.ordersSaved,
		m.billTotal,
		m.persistenceFailures,
		m.currentOrder,
	)
	return m
}

// Registry exposes the Prometheus registry
func (m *Monitor) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Monitor) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordMetric records a metric value
func (m *Monitor) RecordMetric(name string, value interface{}) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics[name] = value
}

func (m *Monitor) increment(name string, by int) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	n, _ := m.metrics[name].(int)
	m.metrics[name] = n + by
}

// GetMetric returns a specific metric value
func (m *Monitor) GetMetric(name string) (interface{}, bool) {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()
	value, exists := m.metrics[name]
	return value, exists
}

// GetMetrics returns all current metrics
func (m *Monitor) GetMetrics() map[string]interface{} {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()

	metrics := make(map[string]interface{}, len(m.metrics)+1)
	for k, v := range m.metrics {
		metrics[k] = v
	}
	metrics["uptime_seconds"] = time.Since(m.startTime).Seconds()

	return metrics
}

// Reset clears the snapshot. Prometheus counters are left alone.
func (m *Monitor) Reset() {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics = make(map[string]interface{})
}

// OrderStarted records a newly issued order number
func (m *Monitor) OrderStarted(orderNumber int) {
	m.ordersStarted.Inc()
	m.currentOrder.Set(float64(orderNumber))
	m.increment("orders_started", 1)
	m.RecordMetric("current_order", orderNumber)
}

// ItemsAdded records quantity added to the ledger
func (m *Monitor) ItemsAdded(quantity int) {
	if quantity <= 0 {
		return
	}
	m.itemsAdded.Add(float64(quantity))
	m.increment("items_added", quantity)
}

// ReceiptGenerated records a receipt request; empty orders are counted apart
func (m *Monitor) ReceiptGenerated(empty bool) {
	result := "ok"
	if empty {
		result = "empty"
	}
	m.receiptsGenerated.WithLabelValues(result).Inc()
	m.increment("receipts_"+result, 1)
}

// OrderSaved records an order appended to history
func (m *Monitor) OrderSaved() {
	m.ordersSaved.Inc()
	m.increment("orders_saved", 1)
}

// BillTotal records the total of a saved bill whose pricing is known
func (m *Monitor) BillTotal(total float64) {
	m.billTotal.Observe(total)
	m.RecordMetric("last_bill_total", total)
}

// PersistenceFailed records a failed write to the named store
func (m *Monitor) PersistenceFailed(store string) {
	m.persistenceFailures.WithLabelValues(store).Inc()
	m.increment("persistence_failures_"+store, 1)
}
