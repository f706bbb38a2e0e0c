package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	RunStatusDraft      = "draft"
	RunStatusProcessing = "processing"
	RunStatusFinalized  = "finalized"
)

const (
	LineItemRegular   = "regular"
	LineItemOvertime  = "overtime"
	LineItemDeduction = "deduction"
)

// PayrollRun moves draft -> processing -> finalized and never back.
type PayrollRun struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Period      string     `gorm:"column:period;type:varchar(40);not null"`
	StartDate   time.Time  `gorm:"column:start_date;type:date;not null"`
	EndDate     time.Time  `gorm:"column:end_date;type:date;not null"`
	Status      string     `gorm:"column:status;type:varchar(20);not null;default:'draft';index"`
	CreatedBy   uuid.UUID  `gorm:"column:created_by;type:uuid;not null"`
	FinalizedBy *uuid.UUID `gorm:"column:finalized_by;type:uuid"`
	FinalizedAt *time.Time `gorm:"column:finalized_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`

	Payslips []Payslip `gorm:"foreignKey:PayrollRunID"`
}

func (PayrollRun) TableName() string {
	return "payroll_runs"
}

type Payslip struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollRunID uuid.UUID       `gorm:"column:payroll_run_id;type:uuid;not null;uniqueIndex:uq_payslip_run_worker"`
	WorkerID     uuid.UUID       `gorm:"column:worker_id;type:uuid;not null;uniqueIndex:uq_payslip_run_worker;index"`
	SiteID       uuid.UUID       `gorm:"column:site_id;type:uuid;not null"`
	GrossPay     decimal.Decimal `gorm:"column:gross_pay;type:numeric(12,2);not null;default:0"`
	Deductions   decimal.Decimal `gorm:"column:deductions;type:numeric(12,2);not null;default:0"`
	NetPay       decimal.Decimal `gorm:"column:net_pay;type:numeric(12,2);not null;default:0"`
	LineItems    []LineItem      `gorm:"column:line_items;type:jsonb;serializer:json;not null"`
	CreatedAt    time.Time       `gorm:"column:created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at"`
}

func (Payslip) TableName() string {
	return "payslips"
}

// LineItem is one row of a payslip. Deductions carry a negative amount and
// no hours or rate.
type LineItem struct {
	ID          string           `json:"id"`
	Description string           `json:"description"`
	Type        string           `json:"type"`
	Hours       *decimal.Decimal `json:"hours"`
	Rate        *decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal  `json:"amount"`
}
