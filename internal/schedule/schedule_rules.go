package schedule

import (
	"fmt"
	"time"

	"go-rota/internal/domain"
	"go-rota/internal/interval"

	"github.com/google/uuid"
)

const (
	MaxShiftMinutes = 12 * 60
	MinRestPeriod   = 12 * time.Hour
)

type RuleID string

const (
	RuleMaxLength       RuleID = "R3"
	RuleSameShift       RuleID = "R1"
	RuleSiteExclusivity RuleID = "R2"
	RuleDoubleBooking   RuleID = "R4"
	RuleRestPeriod      RuleID = "R5"
	RuleOverlap         RuleID = "OVERLAP"
)

// Overridable reports whether a privileged role may waive the rule.
func (r RuleID) Overridable() bool {
	return r == RuleSiteExclusivity || r == RuleRestPeriod
}

type Outcome int

const (
	Allowed Outcome = iota
	Blocked
	RequiresOverride
	RequiresConfirmation
)

func (o Outcome) String() string {
	switch o {
	case Allowed:
		return "allowed"
	case Blocked:
		return "blocked"
	case RequiresOverride:
		return "requires_override"
	case RequiresConfirmation:
		return "requires_confirmation"
	default:
		return "unknown"
	}
}

// Acknowledgement is what the caller re-submits after a soft failure. The
// zero value asks for a plain evaluation.
type Acknowledgement struct {
	Overrides      map[RuleID]bool
	ConfirmOverlap bool
}

func (a Acknowledgement) overrides(r RuleID) bool {
	return a.Overrides[r]
}

type Result struct {
	Outcome      Outcome
	Rule         RuleID
	Message      string
	OverlapCount int
	CanOverride  bool
	// Waived lists the soft rules an accepted override skipped, in
	// evaluation order. Only set on Allowed.
	Waived []RuleID
	// DoubleBooked is set when one of the worker's own shifts overlaps the
	// candidate in absolute time. It never changes the outcome.
	DoubleBooked bool
}

func blocked(rule RuleID, format string, args ...any) Result {
	return Result{Outcome: Blocked, Rule: rule, Message: fmt.Sprintf(format, args...)}
}

func requiresOverride(rule RuleID, role domain.Role, format string, args ...any) Result {
	return Result{
		Outcome:     RequiresOverride,
		Rule:        rule,
		Message:     fmt.Sprintf(format, args...),
		CanOverride: role.CanOverride(),
	}
}

// Validate evaluates the scheduling rules for candidate against existing in a
// fixed order and stops at the first failure. existing may contain candidate
// itself; it is skipped by ID.
func Validate(candidate Slot, existing []Slot, role domain.Role, ack Acknowledgement) Result {
	others := make([]Slot, 0, len(existing))
	for _, s := range existing {
		if candidate.ID != uuid.Nil && s.ID == candidate.ID {
			continue
		}
		others = append(others, s)
	}

	if d := candidate.DurationMinutes(); d > MaxShiftMinutes {
		return blocked(RuleMaxLength, "shift lasts %s, the maximum is 12h", formatMinutes(d))
	}

	for _, s := range others {
		if s.WorkerID != candidate.WorkerID && s.SiteID == candidate.SiteID &&
			s.sameDay(candidate) && s.Type == candidate.Type {
			return blocked(RuleSameShift, "another worker already holds the %s shift at this site on %s",
				candidate.Type, candidate.Date.Format(interval.DateLayout))
		}
	}

	var waived []RuleID
	var coverage *Slot
	for i, s := range others {
		if s.WorkerID != candidate.WorkerID || !s.sameDay(candidate) {
			continue
		}
		if s.SiteID != candidate.SiteID {
			return blocked(RuleSiteExclusivity, "worker is already scheduled at another site on %s",
				candidate.Date.Format(interval.DateLayout))
		}
		if s.Type == candidate.Type {
			return blocked(RuleSiteExclusivity, "worker already has a %s shift at this site on %s",
				candidate.Type, candidate.Date.Format(interval.DateLayout))
		}
		coverage = &others[i]
	}
	if coverage != nil {
		if !(ack.overrides(RuleSiteExclusivity) && role.CanOverride()) {
			return requiresOverride(RuleSiteExclusivity, role,
				"worker already has the %s shift at this site; a %s shift makes 24-hour coverage",
				coverage.Type, candidate.Type)
		}
		waived = append(waived, RuleSiteExclusivity)
	}

	// A worker's own shift overlapping the candidate, typically an overnight
	// shift carried over from the previous day, does not stop evaluation.
	// The shift is still created, flagged with the conflict status.
	cStart, cEnd := candidate.Window()
	own := make([]Slot, 0, len(others))
	doubleBooked := false
	for _, s := range others {
		if s.WorkerID != candidate.WorkerID {
			continue
		}
		sStart, sEnd := s.Window()
		if interval.Overlaps(cStart, cEnd, sStart, sEnd) {
			doubleBooked = true
		}
		own = append(own, s)
	}

	if gap, ok := shortestRest(cStart, cEnd, own); ok && gap < MinRestPeriod {
		if !(ack.overrides(RuleRestPeriod) && role.CanOverride()) {
			res := requiresOverride(RuleRestPeriod, role,
				"only %s rest between shifts, the minimum is 12h", formatMinutes(int(gap/time.Minute)))
			res.DoubleBooked = doubleBooked
			return res
		}
		waived = append(waived, RuleRestPeriod)
	}

	overlapping := 0
	for _, s := range others {
		if s.SiteID != candidate.SiteID || !s.sameDay(candidate) {
			continue
		}
		sStart, sEnd := s.Window()
		if interval.Overlaps(cStart, cEnd, sStart, sEnd) {
			overlapping++
		}
	}
	if overlapping > 0 && !ack.ConfirmOverlap {
		return Result{
			Outcome:      RequiresConfirmation,
			Rule:         RuleOverlap,
			Message:      fmt.Sprintf("%d shift(s) at this site overlap the requested time", overlapping),
			OverlapCount: overlapping,
			DoubleBooked: doubleBooked,
		}
	}

	return Result{Outcome: Allowed, Waived: waived, OverlapCount: overlapping, DoubleBooked: doubleBooked}
}

// shortestRest returns the smaller of the gap since the latest shift that
// ended before start and the gap until the earliest shift starting after end.
func shortestRest(start, end time.Time, own []Slot) (time.Duration, bool) {
	var (
		prevEnd   time.Time
		nextStart time.Time
		hasPrev   bool
		hasNext   bool
	)
	for _, s := range own {
		sStart, sEnd := s.Window()
		if !sEnd.After(start) && (!hasPrev || sEnd.After(prevEnd)) {
			prevEnd, hasPrev = sEnd, true
		}
		if !sStart.Before(end) && (!hasNext || sStart.Before(nextStart)) {
			nextStart, hasNext = sStart, true
		}
	}

	switch {
	case hasPrev && hasNext:
		return min(interval.RestGap(prevEnd, start), interval.RestGap(end, nextStart)), true
	case hasPrev:
		return interval.RestGap(prevEnd, start), true
	case hasNext:
		return interval.RestGap(end, nextStart), true
	default:
		return 0, false
	}
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}
