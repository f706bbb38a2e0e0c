package schedule

import "github.com/google/uuid"

// Advisory prompts the scheduler to balance day and night coverage. It is
// never persisted.
type Advisory struct {
	CurrentCount       int       `json:"current_count"`
	ComplementaryCount int       `json:"complementary_count"`
	SuggestedShiftType ShiftType `json:"suggested_shift_type"`
}

// Advise compares distinct workers on created's shift type with the
// complementary type at the same site and date. Slots elsewhere are ignored,
// and created counts whether or not it is already in shifts.
func Advise(created Slot, shifts []Slot) *Advisory {
	current := map[uuid.UUID]struct{}{created.WorkerID: {}}
	complementary := map[uuid.UUID]struct{}{}
	opposite := created.Type.Complement()

	for _, s := range shifts {
		if s.SiteID != created.SiteID || !s.sameDay(created) {
			continue
		}
		switch s.Type {
		case created.Type:
			current[s.WorkerID] = struct{}{}
		case opposite:
			complementary[s.WorkerID] = struct{}{}
		}
	}

	if len(complementary) >= len(current) {
		return nil
	}
	return &Advisory{
		CurrentCount:       len(current),
		ComplementaryCount: len(complementary),
		SuggestedShiftType: opposite,
	}
}
