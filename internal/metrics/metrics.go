package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace for all internlog metrics
const namespace = "internlog"

// Registry is the global Prometheus registry for all metrics
var Registry = prometheus.NewRegistry()

var initOnce sync.Once

// AppInfo is a gauge that exposes application version information as labels
var AppInfo = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "app_info",
		Help:      "Application version information (always set to 1, version info in labels)",
	},
	[]string{"version", "commit", "build_date"},
)

// Auth metrics
var (
	// AuthFailuresTotal counts rejected protected requests by reason
	AuthFailuresTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_failures_total",
			Help:      "Total number of protected requests rejected by the auth guard",
		},
		[]string{"reason"}, // missing_token|invalid_token
	)

	// PolicyDenialsTotal counts authenticated requests denied by the role policy
	PolicyDenialsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "policy_denials_total",
			Help:      "Total number of authenticated requests denied by the role policy",
		},
		[]string{"action", "role"},
	)

	// RegistrationsTotal counts registration attempts by outcome
	RegistrationsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Total number of registration attempts",
		},
		[]string{"result"}, // success|duplicate|invalid|error
	)

	// LoginsTotal counts login attempts by outcome
	LoginsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Total number of login attempts",
		},
		[]string{"result"}, // success|invalid_credentials|error
	)
)

// Workflow metrics
var (
	// ApplicationsTotal counts internship applications by outcome
	ApplicationsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "applications_total",
			Help:      "Total number of internship application attempts",
		},
		[]string{"result"}, // applied|already_applied|not_found|error
	)

	// InternshipsPostedTotal counts created internships
	InternshipsPostedTotal = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "internships_posted_total",
			Help:      "Total number of internships posted",
		},
	)

	// LogbookEntriesTotal counts created logbook entries
	LogbookEntriesTotal = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logbook_entries_total",
			Help:      "Total number of logbook entries created",
		},
	)

	// LogbookApprovalsTotal counts approval requests by outcome
	LogbookApprovalsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logbook_approvals_total",
			Help:      "Total number of logbook approval requests",
		},
		[]string{"result"}, // approved|already_approved|not_found|error
	)
)

// Init registers runtime collectors and sets version information. Safe to call more than once.
func Init(version, commit, buildDate string) {
	initOnce.Do(func() {
		// Register default Go metrics (memory, goroutines, GC, etc.)
		Registry.MustRegister(collectors.NewGoCollector())

		// Register process metrics (CPU, memory, file descriptors)
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})

	AppInfo.WithLabelValues(version, commit, buildDate).Set(1)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
