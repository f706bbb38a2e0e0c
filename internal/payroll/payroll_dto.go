package payroll

import "github.com/shopspring/decimal"

type CreateRunRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

type GetRunsFilterRequest struct {
	Status   string `form:"status" binding:"omitempty,oneof=draft processing finalized"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type GetPayslipsFilterRequest struct {
	RunID    string `form:"payroll_run_id" binding:"omitempty,uuid"`
	WorkerID string `form:"worker_id" binding:"omitempty,uuid"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type DeductionRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason" binding:"required,max=500"`
	Type   string          `json:"type" binding:"omitempty,max=50"`
}

type RunResponse struct {
	ID          string            `json:"id"`
	Period      string            `json:"period"`
	StartDate   string            `json:"start_date"`
	EndDate     string            `json:"end_date"`
	Status      string            `json:"status"`
	CreatedBy   string            `json:"created_by"`
	FinalizedBy *string           `json:"finalized_by,omitempty"`
	FinalizedAt *string           `json:"finalized_at,omitempty"`
	CreatedAt   string            `json:"created_at"`
	Payslips    []PayslipResponse `json:"payslips,omitempty"`
}

type PayslipResponse struct {
	ID           string          `json:"id"`
	PayrollRunID string          `json:"payroll_run_id"`
	WorkerID     string          `json:"worker_id"`
	SiteID       string          `json:"site_id"`
	GrossPay     decimal.Decimal `json:"gross_pay"`
	Deductions   decimal.Decimal `json:"deductions"`
	NetPay       decimal.Decimal `json:"net_pay"`
	LineItems    []LineItem      `json:"line_items"`
}

type DeductionResponse struct {
	Payslip PayslipResponse `json:"payslip"`
	Item    LineItem        `json:"item"`
}
