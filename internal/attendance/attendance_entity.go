package attendance

import (
	"errors"
	"time"

	"go-rota/internal/interval"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

var ErrOpenRecord = errors.New("attendance has no clock-out")

// Attendance is written by the clock-in/out and approval flows; payroll only
// reads approved, closed records.
type Attendance struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkerID       uuid.UUID      `gorm:"column:worker_id;type:uuid;not null;index"`
	SiteID         uuid.UUID      `gorm:"column:site_id;type:uuid;not null;index"`
	Date           time.Time      `gorm:"column:attendance_date;type:date;not null;index"`
	ClockIn        string         `gorm:"column:clock_in;type:varchar(5);not null"`
	ClockOut       *string        `gorm:"column:clock_out;type:varchar(5)"`
	ApprovalStatus string         `gorm:"column:approval_status;type:varchar(20);not null;default:'pending';index"`
	ApprovedBy     *uuid.UUID     `gorm:"column:approved_by;type:uuid"`
	Notes          *string        `gorm:"column:notes;type:text"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Attendance) TableName() string {
	return "attendances"
}

// WorkedMinutes is clock-in to clock-out, wrapping past midnight.
func (a Attendance) WorkedMinutes() (int, error) {
	if a.ClockOut == nil {
		return 0, ErrOpenRecord
	}
	in, err := interval.ParseClock(a.ClockIn)
	if err != nil {
		return 0, err
	}
	out, err := interval.ParseClock(*a.ClockOut)
	if err != nil {
		return 0, err
	}
	return interval.DurationMinutes(in, out), nil
}
