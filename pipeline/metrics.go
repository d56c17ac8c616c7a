/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tasksProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agent_tasks_processed_total",
		Help: "Tasks processed by terminal status.",
	}, []string{"status"})

	taskDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "agent_task_duration_seconds",
		Help:    "End to end task processing time.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	})
)
