package schedule

import (
	"fmt"
	"strings"
)

// Annotation is the durable audit line written into a shift's notes when an
// override or overlap confirmation was accepted.
type Annotation struct {
	Rule         RuleID
	ActorID      string
	Reason       string
	OverlapCount int
}

func (a Annotation) String() string {
	if a.Rule == RuleOverlap {
		line := fmt.Sprintf("[confirm %s] confirmed_by=%s overlaps=%d", a.Rule, a.ActorID, a.OverlapCount)
		if reason := strings.TrimSpace(a.Reason); reason != "" {
			line += " reason=" + reason
		}
		return line
	}
	return fmt.Sprintf("[override %s] approved_by=%s reason=%s", a.Rule, a.ActorID, strings.TrimSpace(a.Reason))
}

// annotate appends one line per annotation after any caller-provided notes.
func annotate(notes *string, annotations []Annotation) *string {
	if len(annotations) == 0 {
		return notes
	}

	lines := make([]string, 0, len(annotations)+1)
	if notes != nil && strings.TrimSpace(*notes) != "" {
		lines = append(lines, strings.TrimSpace(*notes))
	}
	for _, a := range annotations {
		lines = append(lines, a.String())
	}
	joined := strings.Join(lines, "\n")
	return &joined
}
