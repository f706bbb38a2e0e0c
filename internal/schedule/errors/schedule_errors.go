package scheduleerrors

import (
	"net/http"

	"go-rota/internal/shared/apperror"
)

var (
	ErrShiftNotFound = apperror.New(
		apperror.CodeNotFound,
		"shift not found",
		http.StatusNotFound,
	)
	ErrInvalidShiftID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid shift id",
		http.StatusBadRequest,
	)
	ErrInvalidWorkerID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid worker id",
		http.StatusBadRequest,
	)
	ErrInvalidSiteID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid site id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidClock = apperror.New(
		apperror.CodeInvalidInput,
		"invalid start_time or end_time, expected HH:MM",
		http.StatusBadRequest,
	)
	ErrInvalidShiftType = apperror.New(
		apperror.CodeInvalidInput,
		"shift_type must be day or night",
		http.StatusBadRequest,
	)
	ErrInvalidActor = apperror.New(
		apperror.CodeUnauthorized,
		"missing or invalid acting user",
		http.StatusUnauthorized,
	)
	ErrWorkerScope = apperror.New(
		apperror.CodeForbidden,
		"workers may only schedule their own shifts",
		http.StatusForbidden,
	)
	ErrOverrideNotPermitted = apperror.New(
		apperror.CodeForbidden,
		"only admin or site_manager may approve an override",
		http.StatusForbidden,
	)
	ErrOverrideRuleNotAllowed = apperror.New(
		apperror.CodeInvalidInput,
		"only R2 and R5 can be overridden",
		http.StatusBadRequest,
	)
	ErrOverrideReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"override reason is required",
		http.StatusBadRequest,
	)
	ErrValidationBlocked = apperror.New(
		apperror.CodeValidationBlocked,
		"shift violates a scheduling rule",
		http.StatusUnprocessableEntity,
	)
	ErrOverrideRequired = apperror.New(
		apperror.CodeOverrideRequired,
		"shift requires an approved override",
		http.StatusConflict,
	)
	ErrConfirmationRequired = apperror.New(
		apperror.CodeConfirmationRequired,
		"shift overlaps existing shifts and must be confirmed",
		http.StatusConflict,
	)
)
