package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-rota/internal/domain"
	"go-rota/internal/events"
	"go-rota/internal/interval"
	"go-rota/internal/messaging/kafka"
	"go-rota/internal/observability"
	scheduleerrors "go-rota/internal/schedule/errors"
	"go-rota/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=shift_service.go -destination=mock/shift_service_mock.go -package=mock
type Service interface {
	Validate(ctx context.Context, actor domain.Actor, req ShiftRequest) (ValidationResponse, error)
	Create(ctx context.Context, actor domain.Actor, req ShiftRequest) (CreateShiftResponse, error)
	GetByID(ctx context.Context, id string) (ShiftResponse, error)
	GetAll(ctx context.Context, req GetShiftsFilterRequest) ([]ShiftResponse, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

type service struct {
	db         *sql.DB
	repo       Repository
	outboxRepo kafka.OutboxRepository
	logger     *zap.Logger
}

func NewService(db *sql.DB, repo Repository) Service {
	return NewServiceWithOutbox(db, repo, nil)
}

func NewServiceWithOutbox(db *sql.DB, repo Repository, outboxRepo kafka.OutboxRepository) Service {
	return &service{
		db:         db,
		repo:       repo,
		outboxRepo: outboxRepo,
		logger:     zap.L().Named("schedule.service"),
	}
}

// candidate is a parsed request ready for rule evaluation.
type candidate struct {
	slot  Slot
	ack   Acknowledgement
	notes *string
	role  string
}

func (s *service) Validate(ctx context.Context, actor domain.Actor, req ShiftRequest) (ValidationResponse, error) {
	c, err := parseRequest(actor, req)
	if err != nil {
		return ValidationResponse{}, err
	}

	rows, err := s.repo.FindForValidation(ctx, c.slot.WorkerID, c.slot.SiteID, c.slot.Date)
	if err != nil {
		return ValidationResponse{}, err
	}
	existing, err := toSlots(rows)
	if err != nil {
		return ValidationResponse{}, err
	}

	result := Validate(c.slot, existing, actor.Role, c.ack)
	observability.ShiftValidations.WithLabelValues(result.Outcome.String(), string(result.Rule)).Inc()
	return mapToValidationResponse(result), nil
}

func (s *service) Create(ctx context.Context, actor domain.Actor, req ShiftRequest) (CreateShiftResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	c, err := parseRequest(actor, req)
	if err != nil {
		return CreateShiftResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CreateShiftResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.LockScope(ctx, lockKeys(c.slot)...); err != nil {
		return CreateShiftResponse{}, err
	}

	rows, err := qtx.FindForValidation(ctx, c.slot.WorkerID, c.slot.SiteID, c.slot.Date)
	if err != nil {
		return CreateShiftResponse{}, err
	}
	existing, err := toSlots(rows)
	if err != nil {
		return CreateShiftResponse{}, err
	}

	result := Validate(c.slot, existing, actor.Role, c.ack)
	observability.ShiftValidations.WithLabelValues(result.Outcome.String(), string(result.Rule)).Inc()
	if result.Outcome != Allowed {
		log.Info("shift rejected by rules",
			zap.String("worker_id", c.slot.WorkerID.String()),
			zap.String("site_id", c.slot.SiteID.String()),
			zap.String("date", c.slot.Date.Format(interval.DateLayout)),
			zap.String("outcome", result.Outcome.String()),
			zap.String("rule", string(result.Rule)),
		)
		return CreateShiftResponse{}, ruleError(result)
	}

	annotations := make([]Annotation, 0, len(result.Waived)+1)
	for _, rule := range result.Waived {
		annotations = append(annotations, Annotation{Rule: rule, ActorID: actor.ID, Reason: req.Override.Reason})
	}
	if result.OverlapCount > 0 {
		annotations = append(annotations, Annotation{
			Rule:         RuleOverlap,
			ActorID:      actor.ID,
			Reason:       req.ConfirmReason,
			OverlapCount: result.OverlapCount,
		})
	}

	status := StatusScheduled
	if result.DoubleBooked {
		status = StatusConflict
		log.Warn("worker double booked, shift flagged as conflict",
			zap.String("worker_id", c.slot.WorkerID.String()),
			zap.String("date", c.slot.Date.Format(interval.DateLayout)),
			zap.String("rule", string(RuleDoubleBooking)),
		)
	}

	shift := &Shift{
		ID:        uuid.New(),
		WorkerID:  c.slot.WorkerID,
		SiteID:    c.slot.SiteID,
		Date:      c.slot.Date,
		StartTime: c.slot.Start.String(),
		EndTime:   c.slot.End.String(),
		ShiftType: c.slot.Type,
		Role:      c.role,
		Status:    status,
		Notes:     annotate(c.notes, annotations),
		CreatedBy: uuid.MustParse(actor.ID),
	}
	if err := qtx.Create(ctx, shift); err != nil {
		return CreateShiftResponse{}, err
	}

	if s.outboxRepo != nil {
		for _, rule := range result.Waived {
			if err := s.enqueueOverride(ctx, tx, shift, rule, actor.ID, req.Override.Reason); err != nil {
				return CreateShiftResponse{}, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return CreateShiftResponse{}, err
	}

	for _, a := range annotations {
		if a.Rule != RuleOverlap {
			observability.ShiftOverrides.WithLabelValues(string(a.Rule)).Inc()
		}
		log.Info("shift exception accepted",
			zap.String("shift_id", shift.ID.String()),
			zap.String("rule", string(a.Rule)),
			zap.String("actor_id", actor.ID),
			zap.String("actor_role", actor.Role.String()),
			zap.Int("overlaps", a.OverlapCount),
		)
	}

	created := c.slot
	created.ID = shift.ID
	advisory := Advise(created, existing)
	if advisory != nil {
		observability.StaffingAdvisories.Inc()
	}

	return CreateShiftResponse{Shift: mapToResponse(*shift), Advisory: advisory}, nil
}

func (s *service) enqueueOverride(ctx context.Context, tx *sql.Tx, shift *Shift, rule RuleID, approvedBy, reason string) error {
	payload := events.ShiftOverrideApprovedEvent{
		EventType:  "ShiftOverrideApproved",
		ShiftID:    shift.ID.String(),
		WorkerID:   shift.WorkerID.String(),
		SiteID:     shift.SiteID.String(),
		Date:       shift.Date.Format(interval.DateLayout),
		RuleID:     string(rule),
		Reason:     reason,
		ApprovedBy: approvedBy,
		RequestID:  contextutil.GetRequestID(ctx),
		OccurredAt: time.Now().UTC(),
	}

	event, err := kafka.NewOutboxEvent(
		payload.RequestID,
		"shift",
		payload.ShiftID,
		payload.EventType,
		events.ShiftOverrideApprovedTopic,
		payload,
	)
	if err != nil {
		return err
	}
	return s.outboxRepo.WithTx(tx).Create(ctx, event)
}

func (s *service) GetByID(ctx context.Context, id string) (ShiftResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ShiftResponse{}, scheduleerrors.ErrInvalidShiftID
	}

	shift, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ShiftResponse{}, scheduleerrors.ErrShiftNotFound
		}
		return ShiftResponse{}, err
	}
	return mapToResponse(*shift), nil
}

func (s *service) GetAll(ctx context.Context, req GetShiftsFilterRequest) ([]ShiftResponse, error) {
	var filter ShiftFilter
	if req.SiteID != "" {
		id, err := uuid.Parse(req.SiteID)
		if err != nil {
			return nil, scheduleerrors.ErrInvalidSiteID
		}
		filter.SiteID = &id
	}
	if req.WorkerID != "" {
		id, err := uuid.Parse(req.WorkerID)
		if err != nil {
			return nil, scheduleerrors.ErrInvalidWorkerID
		}
		filter.WorkerID = &id
	}
	if req.Date != "" {
		d, err := interval.ParseDate(req.Date)
		if err != nil {
			return nil, scheduleerrors.ErrInvalidDateFormat
		}
		filter.Date = &d
	}

	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	res := make([]ShiftResponse, len(rows))
	for i, row := range rows {
		res[i] = mapToResponse(row)
	}
	return res, nil
}

func (s *service) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return scheduleerrors.ErrInvalidShiftID
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return scheduleerrors.ErrShiftNotFound
		}
		return err
	}

	contextutil.GetLogger(ctx, s.logger).Info("shift deleted",
		zap.String("shift_id", id),
		zap.String("actor_id", actor.ID),
	)
	return nil
}

func parseRequest(actor domain.Actor, req ShiftRequest) (candidate, error) {
	if _, err := uuid.Parse(actor.ID); err != nil || actor.Role == domain.RoleUnknown {
		return candidate{}, scheduleerrors.ErrInvalidActor
	}

	workerID, err := uuid.Parse(req.WorkerID)
	if err != nil {
		return candidate{}, scheduleerrors.ErrInvalidWorkerID
	}
	siteID, err := uuid.Parse(req.SiteID)
	if err != nil {
		return candidate{}, scheduleerrors.ErrInvalidSiteID
	}
	date, err := interval.ParseDate(req.Date)
	if err != nil {
		return candidate{}, scheduleerrors.ErrInvalidDateFormat
	}
	start, err := interval.ParseClock(req.StartTime)
	if err != nil || start == interval.MinutesPerDay {
		return candidate{}, scheduleerrors.ErrInvalidClock
	}
	end, err := interval.ParseClock(req.EndTime)
	if err != nil {
		return candidate{}, scheduleerrors.ErrInvalidClock
	}
	shiftType := ShiftType(strings.ToLower(strings.TrimSpace(req.ShiftType)))
	if !shiftType.Valid() {
		return candidate{}, scheduleerrors.ErrInvalidShiftType
	}

	if actor.Role == domain.RoleWorker && workerID.String() != strings.ToLower(actor.ID) {
		return candidate{}, scheduleerrors.ErrWorkerScope
	}

	ack := Acknowledgement{ConfirmOverlap: req.ConfirmOverlap}
	if req.Override != nil {
		if !actor.Role.CanOverride() {
			return candidate{}, scheduleerrors.ErrOverrideNotPermitted
		}
		if strings.TrimSpace(req.Override.Reason) == "" {
			return candidate{}, scheduleerrors.ErrOverrideReasonRequired
		}
		ack.Overrides = make(map[RuleID]bool, len(req.Override.Rules))
		for _, r := range req.Override.Rules {
			rule := RuleID(strings.ToUpper(strings.TrimSpace(r)))
			if !rule.Overridable() {
				return candidate{}, scheduleerrors.ErrOverrideRuleNotAllowed
			}
			ack.Overrides[rule] = true
		}
	}

	return candidate{
		slot: Slot{
			WorkerID: workerID,
			SiteID:   siteID,
			Date:     date,
			Start:    start,
			End:      end,
			Type:     shiftType,
		},
		ack:   ack,
		notes: req.Notes,
		role:  strings.TrimSpace(req.Role),
	}, nil
}

// lockKeys serialises creators that could see each other's shift: anyone
// scheduling this worker, and anyone scheduling this site on this date.
func lockKeys(s Slot) []string {
	return []string{
		fmt.Sprintf("worker:%s", s.WorkerID),
		fmt.Sprintf("site:%s:%s", s.SiteID, s.Date.Format(interval.DateLayout)),
	}
}

func ruleError(r Result) error {
	details := mapToValidationResponse(r)
	switch r.Outcome {
	case RequiresOverride:
		return scheduleerrors.ErrOverrideRequired.WithDetails(details)
	case RequiresConfirmation:
		return scheduleerrors.ErrConfirmationRequired.WithDetails(details)
	default:
		return scheduleerrors.ErrValidationBlocked.WithDetails(details)
	}
}

func mapToValidationResponse(r Result) ValidationResponse {
	resp := ValidationResponse{
		Outcome:      r.Outcome.String(),
		Rule:         string(r.Rule),
		Message:      r.Message,
		OverlapCount: r.OverlapCount,
		CanOverride:  r.CanOverride,
		DoubleBooked: r.DoubleBooked,
	}
	for _, w := range r.Waived {
		resp.Waived = append(resp.Waived, string(w))
	}
	return resp
}

func mapToResponse(s Shift) ShiftResponse {
	return ShiftResponse{
		ID:        s.ID.String(),
		WorkerID:  s.WorkerID.String(),
		SiteID:    s.SiteID.String(),
		Date:      s.Date.Format(interval.DateLayout),
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		ShiftType: string(s.ShiftType),
		Role:      s.Role,
		Status:    s.Status,
		Notes:     s.Notes,
		CreatedBy: s.CreatedBy.String(),
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}
