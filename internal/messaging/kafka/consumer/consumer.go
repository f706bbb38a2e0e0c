package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go-rota/internal/bootstrap"
	"go-rota/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the audit consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ConsumeAuditEvents copies override approvals and payroll finalisations into
// the audit log. Undecodable messages are committed and skipped.
func ConsumeAuditEvents(
	ctx context.Context,
	reader MessageReader,
	audit bootstrap.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.audit")
	log.Info("audit consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("audit consumer stopped")
				return
			}
			log.Error("fetch audit message failed", zap.Error(err))
			continue
		}

		entry, err := toAuditLog(msg)
		if err != nil {
			log.Error("decode audit message failed",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		} else {
			audit.Log(ctx, entry)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit audit message failed", zap.Error(err))
		}
	}
}

func toAuditLog(msg kafkago.Message) (bootstrap.AuditLog, error) {
	switch msg.Topic {
	case events.ShiftOverrideApprovedTopic:
		var e events.ShiftOverrideApprovedEvent
		if err := json.Unmarshal(msg.Value, &e); err != nil {
			return bootstrap.AuditLog{}, err
		}
		return bootstrap.AuditLog{
			Action:  "SHIFT_RULE_OVERRIDDEN",
			Message: fmt.Sprintf("rule %s overridden for shift %s", e.RuleID, e.ShiftID),
			ActorID: e.ApprovedBy,
			Meta: map[string]any{
				"shift_id":   e.ShiftID,
				"worker_id":  e.WorkerID,
				"site_id":    e.SiteID,
				"date":       e.Date,
				"rule":       e.RuleID,
				"reason":     e.Reason,
				"request_id": e.RequestID,
			},
		}, nil
	case events.PayrollRunFinalizedTopic:
		var e events.PayrollRunFinalizedEvent
		if err := json.Unmarshal(msg.Value, &e); err != nil {
			return bootstrap.AuditLog{}, err
		}
		return bootstrap.AuditLog{
			Action:  "PAYROLL_RUN_FINALIZED",
			Message: fmt.Sprintf("payroll run %s (%s) finalized", e.PayrollRunID, e.Period),
			ActorID: e.FinalizedBy,
			Meta: map[string]any{
				"payroll_run_id": e.PayrollRunID,
				"period":         e.Period,
				"payslip_count":  e.PayslipCount,
			},
		}, nil
	default:
		return bootstrap.AuditLog{}, fmt.Errorf("unexpected topic %q", msg.Topic)
	}
}
