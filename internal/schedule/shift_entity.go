package schedule

import (
	"fmt"
	"time"

	"go-rota/internal/interval"

	"github.com/google/uuid"
)

type ShiftType string

const (
	ShiftTypeDay   ShiftType = "day"
	ShiftTypeNight ShiftType = "night"
)

func (t ShiftType) Valid() bool {
	return t == ShiftTypeDay || t == ShiftTypeNight
}

// Complement is day for night and night for day.
func (t ShiftType) Complement() ShiftType {
	if t == ShiftTypeDay {
		return ShiftTypeNight
	}
	return ShiftTypeDay
}

const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusConflict   = "conflict"
)

type Shift struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkerID  uuid.UUID `gorm:"type:uuid;not null;index:idx_shifts_worker_date"`
	SiteID    uuid.UUID `gorm:"type:uuid;not null;index:idx_shifts_site_date"`
	Date      time.Time `gorm:"column:shift_date;type:date;not null;index:idx_shifts_worker_date;index:idx_shifts_site_date"`
	StartTime string    `gorm:"type:varchar(5);not null"`
	EndTime   string    `gorm:"type:varchar(5);not null"`
	ShiftType ShiftType `gorm:"type:varchar(10);not null"`
	Role      string    `gorm:"type:varchar(100)"`
	Status    string    `gorm:"type:varchar(20);not null;default:'scheduled'"`
	Notes     *string   `gorm:"type:text"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Shift) TableName() string {
	return "shifts"
}

// Slot is the part of a shift the rules look at, with clock times parsed.
type Slot struct {
	ID       uuid.UUID
	WorkerID uuid.UUID
	SiteID   uuid.UUID
	Date     time.Time
	Start    interval.Clock
	End      interval.Clock
	Type     ShiftType
}

// Window is the absolute time range the slot covers; overnight slots end on
// the following day.
func (s Slot) Window() (time.Time, time.Time) {
	return interval.Window(s.Date, s.Start, s.End)
}

func (s Slot) DurationMinutes() int {
	return interval.DurationMinutes(s.Start, s.End)
}

func (s Slot) sameDay(o Slot) bool {
	return interval.StartOfDay(s.Date).Equal(interval.StartOfDay(o.Date))
}

func (s Shift) Slot() (Slot, error) {
	start, err := interval.ParseClock(s.StartTime)
	if err != nil {
		return Slot{}, fmt.Errorf("shift %s start: %w", s.ID, err)
	}
	end, err := interval.ParseClock(s.EndTime)
	if err != nil {
		return Slot{}, fmt.Errorf("shift %s end: %w", s.ID, err)
	}
	return Slot{
		ID:       s.ID,
		WorkerID: s.WorkerID,
		SiteID:   s.SiteID,
		Date:     interval.StartOfDay(s.Date),
		Start:    start,
		End:      end,
		Type:     s.ShiftType,
	}, nil
}

func toSlots(shifts []Shift) ([]Slot, error) {
	slots := make([]Slot, 0, len(shifts))
	for _, s := range shifts {
		slot, err := s.Slot()
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}
