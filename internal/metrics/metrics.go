package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"CoinLens/internal/model"
)

// Registry holds the dashboard's Prometheus metrics.
type Registry struct {
	reg *prometheus.Registry

	RefreshDuration prometheus.Histogram
	RefreshTotal    *prometheus.CounterVec

	LatestPrice    prometheus.Gauge
	ModelPrice     prometheus.Gauge
	ValuationRatio prometheus.Gauge
	AHR999Index    prometheus.Gauge
	AHR999Phase    *prometheus.GaugeVec

	CountdownSeconds *prometheus.GaugeVec
}

// NewRegistry creates and registers all metrics on a private registry.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "coinlens_refresh_duration_seconds",
			Help:    "Duration of a dashboard refresh in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RefreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coinlens_refresh_total",
			Help: "Dashboard refreshes by result",
		}, []string{"result"}),
		LatestPrice: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "coinlens_latest_price_usd",
			Help: "Most recent observed price",
		}),
		ModelPrice: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "coinlens_model_price_usd",
			Help: "Log-growth model price for the latest observed date",
		}),
		ValuationRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "coinlens_valuation_ratio",
			Help: "Latest price divided by the model price",
		}),
		AHR999Index: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "coinlens_ahr999_index",
			Help: "Latest AHR999 index value",
		}),
		AHR999Phase: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "coinlens_ahr999_phase",
			Help: "1 for the phase the latest AHR999 value falls in, 0 otherwise",
		}, []string{"phase"}),
		CountdownSeconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "coinlens_countdown_remaining_seconds",
			Help: "Seconds remaining until each countdown target",
		}, []string{"name"}),
	}
	r.reg.MustRegister(
		r.RefreshDuration, r.RefreshTotal,
		r.LatestPrice, r.ModelPrice, r.ValuationRatio,
		r.AHR999Index, r.AHR999Phase,
		r.CountdownSeconds,
	)
	return r
}

// ObserveRefresh records the outcome of one refresh.
func (r *Registry) ObserveRefresh(snap *model.Snapshot, took time.Duration, err error) {
	r.RefreshDuration.Observe(took.Seconds())
	if err != nil {
		r.RefreshTotal.WithLabelValues("error").Inc()
		return
	}
	r.RefreshTotal.WithLabelValues("ok").Inc()
	if snap == nil {
		return
	}
	r.LatestPrice.Set(snap.LatestPrice)
	r.ModelPrice.Set(snap.ModelPrice)
	if snap.ValuationRatio != nil {
		r.ValuationRatio.Set(*snap.ValuationRatio)
	}
	if snap.AHR999 != nil {
		r.AHR999Index.Set(snap.AHR999.IndexValue)
		for _, ph := range model.Phases {
			v := 0.0
			if ph == snap.AHR999.Phase {
				v = 1
			}
			r.AHR999Phase.WithLabelValues(ph.String()).Set(v)
		}
	}
}

// ObserveCountdown exports the remaining time of a countdown.
func (r *Registry) ObserveCountdown(name string, rem model.Remaining) {
	secs := rem.Days*86400 + rem.Hours*3600 + rem.Minutes*60 + rem.Seconds
	r.CountdownSeconds.WithLabelValues(name).Set(float64(secs))
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// Handler serves the metrics in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
