package schedule

import (
	"context"
	"database/sql"
	"time"

	"go-rota/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// validationWindowDays bounds how far either side of the candidate date the
// worker's shifts are loaded. Overnight carry-over and the 12h rest gap never
// reach further than the neighbouring day.
const validationWindowDays = 2

type ShiftFilter struct {
	SiteID   *uuid.UUID
	WorkerID *uuid.UUID
	Date     *time.Time
}

//go:generate mockgen -source=shift_repo.go -destination=mock/shift_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	LockScope(ctx context.Context, keys ...string) error
	FindForValidation(ctx context.Context, workerID, siteID uuid.UUID, date time.Time) ([]Shift, error)
	Create(ctx context.Context, s *Shift) error
	FindByID(ctx context.Context, id string) (*Shift, error)
	FindAll(ctx context.Context, filter ShiftFilter) ([]Shift, error)
	Delete(ctx context.Context, id string) error
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

func (r *repository) LockScope(ctx context.Context, keys ...string) error {
	return dbtx.LockKeys(ctx, r.db, r.tx, keys...)
}

// FindForValidation loads every live shift the rules can see for a candidate:
// the worker's shifts around date and everything at the site on date.
func (r *repository) FindForValidation(ctx context.Context, workerID, siteID uuid.UUID, date time.Time) ([]Shift, error) {
	var rows []Shift
	from := date.AddDate(0, 0, -validationWindowDays)
	to := date.AddDate(0, 0, validationWindowDays)
	err := r.conn(ctx).
		Where("status <> ?", StatusCancelled).
		Where(
			r.db.Where("worker_id = ? AND shift_date BETWEEN ? AND ?", workerID, from, to).
				Or("site_id = ? AND shift_date = ?", siteID, date),
		).
		Order("shift_date ASC, start_time ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Create(ctx context.Context, s *Shift) error {
	return r.conn(ctx).Create(s).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Shift, error) {
	var s Shift
	err := r.conn(ctx).Where("id = ?", id).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindAll(ctx context.Context, filter ShiftFilter) ([]Shift, error) {
	var rows []Shift
	q := r.conn(ctx)
	if filter.SiteID != nil {
		q = q.Where("site_id = ?", *filter.SiteID)
	}
	if filter.WorkerID != nil {
		q = q.Where("worker_id = ?", *filter.WorkerID)
	}
	if filter.Date != nil {
		q = q.Where("shift_date = ?", *filter.Date)
	}
	err := q.Order("shift_date DESC, start_time ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.conn(ctx).Where("id = ?", id).Delete(&Shift{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
