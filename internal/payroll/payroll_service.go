package payroll

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-rota/internal/attendance"
	"go-rota/internal/domain"
	"go-rota/internal/events"
	"go-rota/internal/interval"
	"go-rota/internal/messaging/kafka"
	"go-rota/internal/observability"
	payrollerrors "go-rota/internal/payroll/errors"
	"go-rota/internal/shared/contextutil"
	"go-rota/internal/worker"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	CreateRun(ctx context.Context, actor domain.Actor, req CreateRunRequest) (RunResponse, error)
	GetRun(ctx context.Context, id string) (RunResponse, error)
	GetAllRuns(ctx context.Context, req GetRunsFilterRequest) ([]RunResponse, error)
	ProcessRun(ctx context.Context, actor domain.Actor, id string) (RunResponse, error)
	FinalizeRun(ctx context.Context, actor domain.Actor, id string) (RunResponse, error)
	GetPayslip(ctx context.Context, actor domain.Actor, id string) (PayslipResponse, error)
	GetAllPayslips(ctx context.Context, actor domain.Actor, req GetPayslipsFilterRequest) ([]PayslipResponse, error)
	AddDeduction(ctx context.Context, actor domain.Actor, payslipID string, req DeductionRequest) (DeductionResponse, error)
}

type service struct {
	db             *sql.DB
	repo           Repository
	attendanceRepo attendance.Repository
	rates          worker.RateReader
	outboxRepo     kafka.OutboxRepository
	logger         *zap.Logger
}

func NewService(db *sql.DB, repo Repository, attendanceRepo attendance.Repository, rates worker.RateReader) Service {
	return NewServiceWithOutbox(db, repo, attendanceRepo, rates, nil)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	attendanceRepo attendance.Repository,
	rates worker.RateReader,
	outboxRepo kafka.OutboxRepository,
) Service {
	return &service{
		db:             db,
		repo:           repo,
		attendanceRepo: attendanceRepo,
		rates:          rates,
		outboxRepo:     outboxRepo,
		logger:         zap.L().Named("payroll.service"),
	}
}

func (s *service) CreateRun(ctx context.Context, actor domain.Actor, req CreateRunRequest) (RunResponse, error) {
	actorID, err := parseActor(actor)
	if err != nil {
		return RunResponse{}, err
	}

	start, err := interval.ParseDate(req.StartDate)
	if err != nil {
		return RunResponse{}, payrollerrors.ErrInvalidDateFormat
	}
	end, err := interval.ParseDate(req.EndDate)
	if err != nil {
		return RunResponse{}, payrollerrors.ErrInvalidDateFormat
	}
	if start.After(end) {
		return RunResponse{}, payrollerrors.ErrInvalidDateRange
	}

	run := &PayrollRun{
		ID:        uuid.New(),
		Period:    interval.WeekKey(start),
		StartDate: start,
		EndDate:   end,
		Status:    RunStatusDraft,
		CreatedBy: actorID,
	}
	if err := s.repo.CreateRun(ctx, run); err != nil {
		return RunResponse{}, err
	}

	contextutil.GetLogger(ctx, s.logger).Info("payroll run created",
		zap.String("payroll_run_id", run.ID.String()),
		zap.String("period", run.Period),
		zap.String("actor_id", actor.ID),
	)
	return mapToRunResponse(*run, nil), nil
}

func (s *service) GetRun(ctx context.Context, id string) (RunResponse, error) {
	runID, err := uuid.Parse(id)
	if err != nil {
		return RunResponse{}, payrollerrors.ErrInvalidRunID
	}

	run, err := s.repo.FindRunByID(ctx, id)
	if err != nil {
		return RunResponse{}, mapNotFound(err, payrollerrors.ErrRunNotFound)
	}
	payslips, err := s.repo.FindPayslips(ctx, PayslipFilter{RunID: &runID})
	if err != nil {
		return RunResponse{}, err
	}
	return mapToRunResponse(*run, payslips), nil
}

func (s *service) GetAllRuns(ctx context.Context, req GetRunsFilterRequest) ([]RunResponse, error) {
	status := strings.ToLower(strings.TrimSpace(req.Status))
	switch status {
	case "", RunStatusDraft, RunStatusProcessing, RunStatusFinalized:
	default:
		return nil, payrollerrors.ErrInvalidStatusFilter
	}

	runs, err := s.repo.FindAllRuns(ctx, status)
	if err != nil {
		return nil, err
	}

	res := make([]RunResponse, len(runs))
	for i, run := range runs {
		res[i] = mapToRunResponse(run, nil)
	}
	return res, nil
}

// ProcessRun claims a draft run and generates its payslips in one
// transaction. Losing the claim leaves existing payslips untouched.
func (s *service) ProcessRun(ctx context.Context, actor domain.Actor, id string) (RunResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if _, err := parseActor(actor); err != nil {
		return RunResponse{}, err
	}
	runID, err := uuid.Parse(id)
	if err != nil {
		return RunResponse{}, payrollerrors.ErrInvalidRunID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	claimed, err := qtx.TransitionStatus(ctx, id, Transition{
		From: RunStatusDraft,
		To:   RunStatusProcessing,
		At:   time.Now().UTC(),
	})
	if err != nil {
		return RunResponse{}, err
	}
	if !claimed {
		observability.PayrollTransitions.WithLabelValues(RunStatusProcessing, "rejected").Inc()
		return RunResponse{}, s.rejectedTransition(ctx, qtx, id, payrollerrors.ErrRunNotDraft)
	}

	run, err := qtx.FindRunByID(ctx, id)
	if err != nil {
		return RunResponse{}, mapNotFound(err, payrollerrors.ErrRunNotFound)
	}

	records, err := s.attendanceRepo.WithTx(tx).FindApprovedInRange(ctx, run.StartDate, run.EndDate)
	if err != nil {
		return RunResponse{}, err
	}

	rates, err := s.rates.HourlyRates(ctx, workerIDs(records))
	if err != nil {
		return RunResponse{}, err
	}

	payslips, err := Calculate(records, rates)
	if err != nil {
		return RunResponse{}, err
	}
	for i := range payslips {
		payslips[i].ID = uuid.New()
		payslips[i].PayrollRunID = runID
	}

	if err := qtx.CreatePayslips(ctx, payslips); err != nil {
		if isPayslipConflict(err) {
			return RunResponse{}, payrollerrors.ErrPayslipExists
		}
		return RunResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}

	observability.PayrollTransitions.WithLabelValues(RunStatusProcessing, "ok").Inc()
	observability.PayslipsGenerated.Add(float64(len(payslips)))
	log.Info("payroll run processed",
		zap.String("payroll_run_id", id),
		zap.String("period", run.Period),
		zap.Int("attendance_records", len(records)),
		zap.Int("payslips", len(payslips)),
		zap.String("actor_id", actor.ID),
	)

	return mapToRunResponse(*run, payslips), nil
}

func (s *service) FinalizeRun(ctx context.Context, actor domain.Actor, id string) (RunResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	actorID, err := parseActor(actor)
	if err != nil {
		return RunResponse{}, err
	}
	runID, err := uuid.Parse(id)
	if err != nil {
		return RunResponse{}, payrollerrors.ErrInvalidRunID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	claimed, err := qtx.TransitionStatus(ctx, id, Transition{
		From: RunStatusProcessing,
		To:   RunStatusFinalized,
		By:   &actorID,
		At:   time.Now().UTC(),
	})
	if err != nil {
		return RunResponse{}, err
	}
	if !claimed {
		observability.PayrollTransitions.WithLabelValues(RunStatusFinalized, "rejected").Inc()
		return RunResponse{}, s.rejectedTransition(ctx, qtx, id, payrollerrors.ErrRunNotProcessing)
	}

	run, err := qtx.FindRunByID(ctx, id)
	if err != nil {
		return RunResponse{}, mapNotFound(err, payrollerrors.ErrRunNotFound)
	}
	payslips, err := qtx.FindPayslips(ctx, PayslipFilter{RunID: &runID})
	if err != nil {
		return RunResponse{}, err
	}

	if s.outboxRepo != nil {
		if err := s.enqueueFinalized(ctx, tx, run, len(payslips)); err != nil {
			return RunResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}

	observability.PayrollTransitions.WithLabelValues(RunStatusFinalized, "ok").Inc()
	log.Info("payroll run finalized",
		zap.String("payroll_run_id", id),
		zap.String("period", run.Period),
		zap.Int("payslips", len(payslips)),
		zap.String("actor_id", actor.ID),
	)

	return mapToRunResponse(*run, payslips), nil
}

// rejectedTransition explains why a status CAS matched no row.
func (s *service) rejectedTransition(ctx context.Context, qtx Repository, id string, wrongState error) error {
	run, err := qtx.FindRunByID(ctx, id)
	if err != nil {
		return mapNotFound(err, payrollerrors.ErrRunNotFound)
	}
	if run.Status == RunStatusFinalized {
		return payrollerrors.ErrRunFinalized
	}
	return wrongState
}

func (s *service) enqueueFinalized(ctx context.Context, tx *sql.Tx, run *PayrollRun, payslipCount int) error {
	payload := events.PayrollRunFinalizedEvent{
		EventType:    "PayrollRunFinalized",
		PayrollRunID: run.ID.String(),
		Period:       run.Period,
		PayslipCount: payslipCount,
		FinalizedBy:  uuidString(run.FinalizedBy),
		OccurredAt:   time.Now().UTC(),
	}

	event, err := kafka.NewOutboxEvent(
		contextutil.GetRequestID(ctx),
		"payroll_run",
		payload.PayrollRunID,
		payload.EventType,
		events.PayrollRunFinalizedTopic,
		payload,
	)
	if err != nil {
		return err
	}
	return s.outboxRepo.WithTx(tx).Create(ctx, event)
}

func (s *service) GetPayslip(ctx context.Context, actor domain.Actor, id string) (PayslipResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PayslipResponse{}, payrollerrors.ErrInvalidPayslipID
	}

	p, err := s.repo.FindPayslipByID(ctx, id)
	if err != nil {
		return PayslipResponse{}, mapNotFound(err, payrollerrors.ErrPayslipNotFound)
	}
	if actor.Role == domain.RoleWorker && !strings.EqualFold(p.WorkerID.String(), actor.ID) {
		return PayslipResponse{}, payrollerrors.ErrPayslipScope
	}
	return mapToPayslipResponse(*p), nil
}

func (s *service) GetAllPayslips(ctx context.Context, actor domain.Actor, req GetPayslipsFilterRequest) ([]PayslipResponse, error) {
	var filter PayslipFilter
	if req.RunID != "" {
		id, err := uuid.Parse(req.RunID)
		if err != nil {
			return nil, payrollerrors.ErrInvalidRunID
		}
		filter.RunID = &id
	}
	if req.WorkerID != "" {
		id, err := uuid.Parse(req.WorkerID)
		if err != nil {
			return nil, payrollerrors.ErrInvalidWorkerID
		}
		filter.WorkerID = &id
	}

	if actor.Role == domain.RoleWorker {
		self, err := parseActor(actor)
		if err != nil {
			return nil, err
		}
		if filter.WorkerID != nil && *filter.WorkerID != self {
			return nil, payrollerrors.ErrPayslipScope
		}
		filter.WorkerID = &self
	}

	rows, err := s.repo.FindPayslips(ctx, filter)
	if err != nil {
		return nil, err
	}

	res := make([]PayslipResponse, len(rows))
	for i, row := range rows {
		res[i] = mapToPayslipResponse(row)
	}
	return res, nil
}

// AddDeduction holds the parent run FOR SHARE so a concurrent finalize
// waits for it, and the payslip FOR UPDATE so deductions never interleave.
func (s *service) AddDeduction(ctx context.Context, actor domain.Actor, payslipID string, req DeductionRequest) (DeductionResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if _, err := parseActor(actor); err != nil {
		return DeductionResponse{}, err
	}
	if _, err := uuid.Parse(payslipID); err != nil {
		return DeductionResponse{}, payrollerrors.ErrInvalidPayslipID
	}
	if !req.Amount.Round(2).IsPositive() {
		observability.DeductionsApplied.WithLabelValues("rejected").Inc()
		return DeductionResponse{}, payrollerrors.ErrInvalidDeductionAmount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DeductionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	current, err := qtx.FindPayslipByID(ctx, payslipID)
	if err != nil {
		return DeductionResponse{}, mapNotFound(err, payrollerrors.ErrPayslipNotFound)
	}
	run, err := qtx.FindRunForShare(ctx, current.PayrollRunID)
	if err != nil {
		return DeductionResponse{}, mapNotFound(err, payrollerrors.ErrRunNotFound)
	}
	payslip, err := qtx.FindPayslipForUpdate(ctx, payslipID)
	if err != nil {
		return DeductionResponse{}, mapNotFound(err, payrollerrors.ErrPayslipNotFound)
	}

	item, err := ApplyDeduction(payslip, run.Status, DeductionInput{
		Amount: req.Amount,
		Reason: req.Reason,
		Type:   req.Type,
	})
	if err != nil {
		observability.DeductionsApplied.WithLabelValues("rejected").Inc()
		return DeductionResponse{}, err
	}

	if err := qtx.UpdatePayslipTotals(ctx, payslip); err != nil {
		return DeductionResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return DeductionResponse{}, err
	}

	observability.DeductionsApplied.WithLabelValues("applied").Inc()
	log.Info("deduction applied",
		zap.String("payslip_id", payslipID),
		zap.String("payroll_run_id", run.ID.String()),
		zap.String("worker_id", payslip.WorkerID.String()),
		zap.String("item_id", item.ID),
		zap.String("amount", req.Amount.StringFixed(2)),
		zap.String("net_pay", payslip.NetPay.StringFixed(2)),
		zap.String("actor_id", actor.ID),
	)

	return DeductionResponse{Payslip: mapToPayslipResponse(*payslip), Item: item}, nil
}

func parseActor(actor domain.Actor) (uuid.UUID, error) {
	id, err := uuid.Parse(actor.ID)
	if err != nil || actor.Role == domain.RoleUnknown {
		return uuid.Nil, payrollerrors.ErrInvalidActor
	}
	return id, nil
}

func mapNotFound(err error, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}

func isPayslipConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_payslip_run_worker"
	}
	return false
}

func workerIDs(records []attendance.Attendance) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(records))
	ids := make([]uuid.UUID, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.WorkerID]; ok {
			continue
		}
		seen[r.WorkerID] = struct{}{}
		ids = append(ids, r.WorkerID)
	}
	return ids
}

func uuidString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func mapToRunResponse(run PayrollRun, payslips []Payslip) RunResponse {
	resp := RunResponse{
		ID:        run.ID.String(),
		Period:    run.Period,
		StartDate: run.StartDate.Format(interval.DateLayout),
		EndDate:   run.EndDate.Format(interval.DateLayout),
		Status:    run.Status,
		CreatedBy: run.CreatedBy.String(),
		CreatedAt: run.CreatedAt.Format(time.RFC3339),
	}
	if run.FinalizedBy != nil {
		by := run.FinalizedBy.String()
		resp.FinalizedBy = &by
	}
	if run.FinalizedAt != nil {
		at := run.FinalizedAt.Format(time.RFC3339)
		resp.FinalizedAt = &at
	}
	for _, p := range payslips {
		resp.Payslips = append(resp.Payslips, mapToPayslipResponse(p))
	}
	return resp
}

func mapToPayslipResponse(p Payslip) PayslipResponse {
	items := p.LineItems
	if items == nil {
		items = []LineItem{}
	}
	return PayslipResponse{
		ID:           p.ID.String(),
		PayrollRunID: p.PayrollRunID.String(),
		WorkerID:     p.WorkerID.String(),
		SiteID:       p.SiteID.String(),
		GrossPay:     p.GrossPay,
		Deductions:   p.Deductions,
		NetPay:       p.NetPay,
		LineItems:    items,
	}
}
