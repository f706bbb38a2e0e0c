package payrollerrors

import (
	"net/http"

	"go-rota/internal/shared/apperror"
)

var (
	ErrInvalidActor = apperror.New(
		apperror.CodeUnauthorized,
		"actor is missing or invalid",
		http.StatusUnauthorized,
	)
	ErrPayslipScope = apperror.New(
		apperror.CodeForbidden,
		"workers may only read their own payslips",
		http.StatusForbidden,
	)
	ErrInvalidRunID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll run id",
		http.StatusBadRequest,
	)
	ErrInvalidPayslipID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payslip id",
		http.StatusBadRequest,
	)
	ErrInvalidWorkerID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid worker id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll run status filter",
		http.StatusBadRequest,
	)
	ErrInvalidDeductionAmount = apperror.New(
		apperror.CodeInvalidInput,
		"deduction amount must be greater than zero",
		http.StatusBadRequest,
	)
	ErrRunNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll run not found",
		http.StatusNotFound,
	)
	ErrPayslipNotFound = apperror.New(
		apperror.CodeNotFound,
		"payslip not found",
		http.StatusNotFound,
	)
	ErrRunNotDraft = apperror.New(
		apperror.CodeInvalidState,
		"payroll run can only be processed while status is draft",
		http.StatusConflict,
	)
	ErrRunNotProcessing = apperror.New(
		apperror.CodeInvalidState,
		"payroll run can only be finalized while status is processing",
		http.StatusConflict,
	)
	ErrRunFinalized = apperror.New(
		apperror.CodeInvalidState,
		"payroll run is finalized",
		http.StatusConflict,
	)
	ErrPayslipExists = apperror.New(
		apperror.CodeConflict,
		"payslip already exists for this worker in the run",
		http.StatusConflict,
	)
)
