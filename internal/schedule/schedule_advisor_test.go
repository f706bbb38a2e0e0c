package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvise(t *testing.T) {
	t.Run("more day workers than night", func(t *testing.T) {
		created := slot(workerX, siteA, "2025-06-02", "08:00", "16:00", ShiftTypeDay)
		shifts := []Slot{
			slot(workerY, siteA, "2025-06-02", "10:00", "18:00", ShiftTypeDay),
			slot(workerZ, siteA, "2025-06-02", "20:00", "06:00", ShiftTypeNight),
			slot(workerZ, siteB, "2025-06-02", "08:00", "16:00", ShiftTypeDay),
		}

		adv := Advise(created, shifts)

		assert.Equal(t, &Advisory{CurrentCount: 2, ComplementaryCount: 1, SuggestedShiftType: ShiftTypeNight}, adv)
	})

	t.Run("created slot is counted once", func(t *testing.T) {
		created := slot(workerX, siteA, "2025-06-02", "20:00", "06:00", ShiftTypeNight)

		adv := Advise(created, []Slot{created})

		assert.Equal(t, &Advisory{CurrentCount: 1, ComplementaryCount: 0, SuggestedShiftType: ShiftTypeDay}, adv)
	})

	t.Run("balanced coverage gives no advisory", func(t *testing.T) {
		created := slot(workerX, siteA, "2025-06-02", "08:00", "20:00", ShiftTypeDay)
		shifts := []Slot{slot(workerY, siteA, "2025-06-02", "20:00", "08:00", ShiftTypeNight)}

		assert.Nil(t, Advise(created, shifts))
	})

	t.Run("other dates are ignored", func(t *testing.T) {
		created := slot(workerX, siteA, "2025-06-02", "08:00", "20:00", ShiftTypeDay)
		shifts := []Slot{
			slot(workerY, siteA, "2025-06-03", "08:00", "20:00", ShiftTypeDay),
			slot(workerZ, siteA, "2025-06-01", "20:00", "08:00", ShiftTypeNight),
		}

		adv := Advise(created, shifts)

		assert.Equal(t, 1, adv.CurrentCount)
		assert.Equal(t, 0, adv.ComplementaryCount)
	})
}

func TestAnnotate(t *testing.T) {
	notes := "bring hi-vis"

	got := annotate(&notes, []Annotation{
		{Rule: RuleSiteExclusivity, ActorID: "mgr-1", Reason: " 24h cover "},
		{Rule: RuleOverlap, ActorID: "mgr-1", OverlapCount: 2},
	})

	assert.Equal(t, "bring hi-vis\n[override R2] approved_by=mgr-1 reason=24h cover\n[confirm OVERLAP] confirmed_by=mgr-1 overlaps=2", *got)
	assert.Same(t, &notes, annotate(&notes, nil))
	assert.Equal(t, "[confirm OVERLAP] confirmed_by=w-1 overlaps=1", *annotate(nil, []Annotation{{Rule: RuleOverlap, ActorID: "w-1", OverlapCount: 1}}))
	assert.Equal(t, "[confirm OVERLAP] confirmed_by=w-1 overlaps=1 reason=handover briefing",
		*annotate(nil, []Annotation{{Rule: RuleOverlap, ActorID: "w-1", Reason: "handover briefing ", OverlapCount: 1}}))
}

func TestShiftType_Complement(t *testing.T) {
	assert.Equal(t, ShiftTypeNight, ShiftTypeDay.Complement())
	assert.Equal(t, ShiftTypeDay, ShiftTypeNight.Complement())
	assert.False(t, ShiftType("evening").Valid())
}
