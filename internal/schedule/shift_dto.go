package schedule

type ShiftRequest struct {
	WorkerID       string           `json:"worker_id" binding:"required,uuid"`
	SiteID         string           `json:"site_id" binding:"required,uuid"`
	Date           string           `json:"date" binding:"required"`
	StartTime      string           `json:"start_time" binding:"required"`
	EndTime        string           `json:"end_time" binding:"required"`
	ShiftType      string           `json:"shift_type" binding:"required,oneof=day night"`
	Role           string           `json:"role" binding:"max=100"`
	Notes          *string          `json:"notes"`
	Override       *OverrideRequest `json:"override"`
	ConfirmOverlap bool             `json:"confirm_overlap"`
	ConfirmReason  string           `json:"confirm_reason" binding:"max=500"`
}

// OverrideRequest approves the listed soft rules for this submission only.
type OverrideRequest struct {
	Rules  []string `json:"rules" binding:"required,min=1,dive,oneof=R2 R5"`
	Reason string   `json:"reason" binding:"required,max=500"`
}

type ValidationResponse struct {
	Outcome      string   `json:"outcome"`
	Rule         string   `json:"rule,omitempty"`
	Message      string   `json:"message,omitempty"`
	OverlapCount int      `json:"overlap_count,omitempty"`
	CanOverride  bool     `json:"can_override"`
	Waived       []string `json:"waived,omitempty"`
	DoubleBooked bool     `json:"double_booked,omitempty"`
}

type ShiftResponse struct {
	ID        string  `json:"id"`
	WorkerID  string  `json:"worker_id"`
	SiteID    string  `json:"site_id"`
	Date      string  `json:"date"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	ShiftType string  `json:"shift_type"`
	Role      string  `json:"role,omitempty"`
	Status    string  `json:"status"`
	Notes     *string `json:"notes,omitempty"`
	CreatedBy string  `json:"created_by"`
	CreatedAt string  `json:"created_at"`
}

type CreateShiftResponse struct {
	Shift    ShiftResponse `json:"shift"`
	Advisory *Advisory     `json:"advisory,omitempty"`
}

type GetShiftsFilterRequest struct {
	SiteID   string `form:"site_id" binding:"omitempty,uuid"`
	WorkerID string `form:"worker_id" binding:"omitempty,uuid"`
	Date     string `form:"date"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}
