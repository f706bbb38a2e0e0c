package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput = "INVALID_INPUT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInvalidState = "INVALID_STATE"

	// Scheduling rule outcomes surfaced to the caller
	CodeValidationBlocked    = "VALIDATION_BLOCKED"
	CodeOverrideRequired     = "OVERRIDE_REQUIRED"
	CodeConfirmationRequired = "CONFIRMATION_REQUIRED"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
