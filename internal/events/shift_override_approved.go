package events

import "time"

const ShiftOverrideApprovedTopic = "rota.shift.override.approved.v1"

// ShiftOverrideApprovedEvent is the audit record of an approved rule exception.
type ShiftOverrideApprovedEvent struct {
	EventType  string    `json:"event_type"`
	ShiftID    string    `json:"shift_id"`
	WorkerID   string    `json:"worker_id"`
	SiteID     string    `json:"site_id"`
	Date       string    `json:"date"`
	RuleID     string    `json:"rule_id"`
	Reason     string    `json:"reason"`
	ApprovedBy string    `json:"approved_by"`
	RequestID  string    `json:"request_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
