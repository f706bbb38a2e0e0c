package payroll

import (
	"context"
	"database/sql"
	"time"

	"go-rota/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Transition is a compare-and-set on a run's status.
type Transition struct {
	From string
	To   string
	By   *uuid.UUID
	At   time.Time
}

type PayslipFilter struct {
	RunID    *uuid.UUID
	WorkerID *uuid.UUID
}

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateRun(ctx context.Context, run *PayrollRun) error
	FindRunByID(ctx context.Context, id string) (*PayrollRun, error)
	FindRunForShare(ctx context.Context, id uuid.UUID) (*PayrollRun, error)
	FindAllRuns(ctx context.Context, status string) ([]PayrollRun, error)
	// TransitionStatus reports false when the run was not in t.From.
	TransitionStatus(ctx context.Context, id string, t Transition) (bool, error)
	CreatePayslips(ctx context.Context, payslips []Payslip) error
	FindPayslipByID(ctx context.Context, id string) (*Payslip, error)
	FindPayslipForUpdate(ctx context.Context, id string) (*Payslip, error)
	FindPayslips(ctx context.Context, filter PayslipFilter) ([]Payslip, error)
	UpdatePayslipTotals(ctx context.Context, p *Payslip) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Conn(ctx, r.db, r.tx)
}

func (r *repository) CreateRun(ctx context.Context, run *PayrollRun) error {
	return r.conn(ctx).Omit("Payslips").Create(run).Error
}

func (r *repository) FindRunByID(ctx context.Context, id string) (*PayrollRun, error) {
	var run PayrollRun
	err := r.conn(ctx).Where("id = ?", id).First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *repository) FindRunForShare(ctx context.Context, id uuid.UUID) (*PayrollRun, error) {
	var run PayrollRun
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "SHARE"}).
		Where("id = ?", id).
		First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *repository) FindAllRuns(ctx context.Context, status string) ([]PayrollRun, error) {
	var runs []PayrollRun
	q := r.conn(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("start_date DESC, created_at DESC").Find(&runs).Error
	return runs, err
}

func (r *repository) TransitionStatus(ctx context.Context, id string, t Transition) (bool, error) {
	updates := map[string]any{
		"status":     t.To,
		"updated_at": t.At,
	}
	if t.To == RunStatusFinalized {
		updates["finalized_by"] = t.By
		updates["finalized_at"] = t.At
	}

	res := r.conn(ctx).
		Model(&PayrollRun{}).
		Where("id = ? AND status = ?", id, t.From).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) CreatePayslips(ctx context.Context, payslips []Payslip) error {
	if len(payslips) == 0 {
		return nil
	}
	return r.conn(ctx).Create(&payslips).Error
}

func (r *repository) FindPayslipByID(ctx context.Context, id string) (*Payslip, error) {
	var p Payslip
	err := r.conn(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindPayslipForUpdate(ctx context.Context, id string) (*Payslip, error) {
	var p Payslip
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindPayslips(ctx context.Context, filter PayslipFilter) ([]Payslip, error) {
	var rows []Payslip
	q := r.conn(ctx)
	if filter.RunID != nil {
		q = q.Where("payroll_run_id = ?", *filter.RunID)
	}
	if filter.WorkerID != nil {
		q = q.Where("worker_id = ?", *filter.WorkerID)
	}
	err := q.Order("worker_id ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) UpdatePayslipTotals(ctx context.Context, p *Payslip) error {
	return r.conn(ctx).
		Model(p).
		Select("line_items", "deductions", "net_pay", "updated_at").
		Updates(p).Error
}
