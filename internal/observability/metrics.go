// Package observability exposes the prometheus collectors for rule outcomes,
// payroll transitions and deductions. Collectors register on the default
// registry via promauto and are served by promhttp at /metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ShiftValidations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "rota",
	Subsystem: "schedule",
	Name:      "validations_total",
	Help:      "Shift validations by outcome and deciding rule.",
}, []string{"outcome", "rule"})

var ShiftOverrides = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "rota",
	Subsystem: "schedule",
	Name:      "overrides_total",
	Help:      "Accepted soft-rule overrides and overlap confirmations.",
}, []string{"rule"})

var StaffingAdvisories = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "rota",
	Subsystem: "schedule",
	Name:      "staffing_advisories_total",
	Help:      "Staffing balance advisories emitted after shift creation.",
})

var PayrollTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "rota",
	Subsystem: "payroll",
	Name:      "run_transitions_total",
	Help:      "Payroll run state transitions by target status and result.",
}, []string{"to", "result"})

var PayslipsGenerated = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "rota",
	Subsystem: "payroll",
	Name:      "payslips_generated_total",
	Help:      "Payslips created while processing payroll runs.",
})

var DeductionsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "rota",
	Subsystem: "payroll",
	Name:      "deductions_total",
	Help:      "Deduction attempts by result.",
}, []string{"result"})

var OutboxPublished = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "rota",
	Subsystem: "outbox",
	Name:      "published_total",
	Help:      "Outbox events handed to kafka by result.",
}, []string{"result"})
