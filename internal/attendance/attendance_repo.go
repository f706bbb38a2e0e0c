package attendance

import (
	"context"
	"database/sql"
	"time"

	"go-rota/internal/interval"
	"go-rota/internal/shared/dbtx"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// FindApprovedInRange returns approved records with a clock-out whose
	// date falls in [from, to], both inclusive.
	FindApprovedInRange(ctx context.Context, from, to time.Time) ([]Attendance, error)
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

func (r *repository) FindApprovedInRange(ctx context.Context, from, to time.Time) ([]Attendance, error) {
	var rows []Attendance
	err := dbtx.Conn(ctx, r.db, r.tx).
		Where("approval_status = ?", ApprovalApproved).
		Where("clock_out IS NOT NULL").
		Where("attendance_date BETWEEN ? AND ?", from.Format(interval.DateLayout), to.Format(interval.DateLayout)).
		Order("worker_id ASC, attendance_date ASC, clock_in ASC").
		Find(&rows).Error
	return rows, err
}
