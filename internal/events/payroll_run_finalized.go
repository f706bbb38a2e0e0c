package events

import "time"

const PayrollRunFinalizedTopic = "rota.payroll.run.finalized.v1"

type PayrollRunFinalizedEvent struct {
	EventType    string    `json:"event_type"`
	PayrollRunID string    `json:"payroll_run_id"`
	Period       string    `json:"period"`
	PayslipCount int       `json:"payslip_count"`
	FinalizedBy  string    `json:"finalized_by"`
	OccurredAt   time.Time `json:"occurred_at"`
}
