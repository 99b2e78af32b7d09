// Package metrics holds the application's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SignupAttempts counts signup requests by outcome (created, not_allowed, already_registered, ...).
	SignupAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kdt_signup_attempts_total",
		Help: "Signup attempts by outcome",
	}, []string{"outcome"})

	// ProposalStatusChanges counts accepted status updates by requested status.
	ProposalStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kdt_proposal_status_changes_total",
		Help: "Meeting proposal status changes by new status",
	}, []string{"status"})

	AdminGate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kdt_admin_gate_total",
		Help: "Admin gate decisions by outcome",
	}, []string{"outcome"})

	BulkImportRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kdt_allowlist_import_records_total",
		Help: "Bulk allow-list import records by result",
	}, []string{"result"})
)
