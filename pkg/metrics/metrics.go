/*
Copyright 2025 The Merge Warden Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package metrics exposes the Prometheus instrumentation surface for the
// warden's evaluation pipeline, following prow's pattern of one package per
// daemon registering a small fixed set of counters and histograms against
// the default registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels the terminal state of one pull request evaluation.
type Outcome string

const (
	OutcomeApproved      Outcome = "approved"
	OutcomeChangesNeeded Outcome = "changes_requested"
	OutcomeError         Outcome = "error"
	OutcomeSkipped       Outcome = "skipped"
)

var (
	evaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_evaluations_total",
			Help: "Total number of pull request evaluations, by outcome.",
		},
		[]string{"outcome"},
	)

	checkDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "warden_check_duration_seconds",
			Help:    "Time spent running one named policy check.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"check"},
	)

	bypassesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_bypasses_total",
			Help: "Total number of checks bypassed, by check name.",
		},
		[]string{"check"},
	)

	labelOperationsFailedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_label_operations_failed_total",
			Help: "Total number of non-fatal label operation failures, by operation.",
		},
		[]string{"operation"},
	)

	webhookDeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_webhook_deliveries_total",
			Help: "Total number of webhook deliveries received, by event type and status.",
		},
		[]string{"event_type", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		evaluationsTotal,
		checkDuration,
		bypassesTotal,
		labelOperationsFailedTotal,
		webhookDeliveriesTotal,
	)
}

// RecordEvaluation increments the evaluations counter for one outcome.
func RecordEvaluation(outcome Outcome) {
	evaluationsTotal.WithLabelValues(string(outcome)).Inc()
}

// RecordCheckDuration observes how long a named check took to run.
func RecordCheckDuration(check string, d time.Duration) {
	checkDuration.WithLabelValues(check).Observe(d.Seconds())
}

// RecordBypass increments the bypass counter for a named check.
func RecordBypass(check string) {
	bypassesTotal.WithLabelValues(check).Inc()
}

// RecordLabelOperationFailure increments the failed-label-operation
// counter; pkg/labels calls this from its warn() path so every logged
// non-fatal failure is also observable as a metric.
func RecordLabelOperationFailure(operation string) {
	labelOperationsFailedTotal.WithLabelValues(operation).Inc()
}

// RecordWebhookDelivery increments the webhook delivery counter for one
// event type and outcome status (e.g. "accepted", "ignored", "error").
func RecordWebhookDelivery(eventType, status string) {
	webhookDeliveriesTotal.WithLabelValues(eventType, status).Inc()
}
