package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	workoutsLoggedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "workouts",
		Name:      "logged_total",
		Help:      "Number of workouts committed to the store, by type.",
	}, []string{"type"})

	validationRejectCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "form",
		Name:      "validation_rejections_total",
		Help:      "Number of form submissions rejected by validation, by type.",
	}, []string{"type"})

	persistenceFailureCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "store",
		Name:      "persistence_failures_total",
		Help:      "Number of snapshot writes or reads that failed at the storage medium.",
	})

	snapshotRecoveryCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "store",
		Name:      "snapshot_recoveries_total",
		Help:      "Number of startups that discarded an unusable snapshot and began empty.",
	})

	storedWorkoutsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "mapty",
		Subsystem: "store",
		Name:      "workouts",
		Help:      "Number of workouts currently held in memory.",
	})

	mapReadyGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "mapty",
		Subsystem: "map",
		Name:      "ready",
		Help:      "1 once geolocation succeeded and the map accepts clicks.",
	})
)

func init() {
	prometheus.MustRegister(
		workoutsLoggedCounter,
		validationRejectCounter,
		persistenceFailureCounter,
		snapshotRecoveryCounter,
		storedWorkoutsGauge,
		mapReadyGauge,
	)
}

func RecordWorkoutLogged(kind string, stored int) {
	workoutsLoggedCounter.WithLabelValues(kind).Inc()
	storedWorkoutsGauge.Set(float64(stored))
}

func RecordValidationRejected(kind string) {
	validationRejectCounter.WithLabelValues(kind).Inc()
}

func RecordPersistenceFailure() {
	persistenceFailureCounter.Inc()
}

func RecordSnapshotRecovered() {
	snapshotRecoveryCounter.Inc()
}

func RecordStoreLoaded(stored int) {
	storedWorkoutsGauge.Set(float64(stored))
}

func RecordMapReady(ready bool) {
	if ready {
		mapReadyGauge.Set(1)
		return
	}
	mapReadyGauge.Set(0)
}
