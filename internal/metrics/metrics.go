package metrics

import (
	"log"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	initOnce    sync.Once
	serverMutex sync.Mutex
	currentSrv  *http.Server

	// DirsWalkedTotal counts directories visited during traversal
	DirsWalkedTotal prometheus.Counter

	// FilesExaminedTotal counts file entries inspected during traversal
	FilesExaminedTotal prometheus.Counter

	// MatchesFoundTotal counts files whose name matched the target
	MatchesFoundTotal prometheus.Counter

	// DeletionsTotal counts deletions by action (deleted, trashed, dry_run)
	DeletionsTotal *prometheus.CounterVec

	// EntriesSkippedTotal counts entries skipped because metadata was unavailable
	EntriesSkippedTotal prometheus.Counter

	// ErrorsTotal counts unrecovered errors
	ErrorsTotal prometheus.Counter
)

// Init initializes and registers all metrics with Prometheus.
// Safe to call multiple times (uses sync.Once).
func Init() {
	initOnce.Do(func() {
		DirsWalkedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dupesweep_dirs_walked_total",
			Help: "Total number of directories visited during traversal.",
		})
		FilesExaminedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dupesweep_files_examined_total",
			Help: "Total number of file entries inspected during traversal.",
		})
		MatchesFoundTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dupesweep_matches_found_total",
			Help: "Total number of files whose base name matched the target.",
		})
		DeletionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dupesweep_deletions_total",
			Help: "Total number of deletions by action.",
		}, []string{"action"})
		EntriesSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dupesweep_entries_skipped_total",
			Help: "Total number of entries skipped because metadata was unavailable.",
		})
		ErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dupesweep_errors_total",
			Help: "Total number of unrecovered errors.",
		})

		prometheus.MustRegister(
			DirsWalkedTotal,
			FilesExaminedTotal,
			MatchesFoundTotal,
			DeletionsTotal,
			EntriesSkippedTotal,
			ErrorsTotal,
		)

		// Pre-create the action series so they appear in /metrics immediately
		DeletionsTotal.WithLabelValues("deleted")
		DeletionsTotal.WithLabelValues("trashed")
		DeletionsTotal.WithLabelValues("dry_run")
	})
}

// StartServer starts the metrics HTTP server on the specified address.
// Exposes /metrics (Prometheus) and /health.
func StartServer(addr string, logger *log.Logger) {
	serverMutex.Lock()
	defer serverMutex.Unlock()

	if currentSrv != nil {
		logger.Printf("metrics server already running on %s", currentSrv.Addr)
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	currentSrv = srv

	go func() {
		logger.Printf("metrics server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Printf("metrics server error: %v", err)
			ErrorsTotal.Inc()
		}
	}()
}
