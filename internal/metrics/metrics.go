// Package metrics exposes pipeline counters for the /metrics endpoint
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsTotal counts scan runs by profile and run-level status
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkarr_runs_total",
		Help: "Scan runs by profile and outcome status",
	}, []string{"profile", "status"})

	// FilesTotal counts per-file task outcomes by profile
	FilesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkarr_files_total",
		Help: "Processed file outcomes by profile",
	}, []string{"profile", "result"})
)
