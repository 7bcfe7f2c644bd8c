package schedule_test

import (
	"testing"
	"time"

	"github.com/villesola/traincal/internal/schedule"
)

// testProgram returns a program with a Mon/Wed/Fri schedule starting on
// Monday 2024-01-01 and the canonical four weeks per phase.
func testProgram(t *testing.T) schedule.Program {
	t.Helper()
	days, err := schedule.NewTrainingDays([]time.Weekday{time.Monday, time.Wednesday, time.Friday})
	if err != nil {
		t.Fatalf("build training days: %v", err)
	}
	return schedule.Program{
		AthleteID:     1,
		CategoryID:    1,
		Skill:         schedule.SkillNovice,
		AgeGroup:      "senior",
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		TotalWeeks:    12,
		WeeksPerPhase: 4,
		TrainingDays:  days,
		CurrentPhase:  schedule.PhaseGPP,
		CurrentWeek:   1,
		CurrentDay:    1,
		UpdatedAt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// testLibrary builds a complete content library for the test program: one
// template per (phase, template week, day) at the novice level. Template ids
// are stable: phase ordinal*1000 + template week*100 + day.
func testLibrary(program *schedule.Program) schedule.Library {
	var templates []schedule.Template
	for _, phase := range []schedule.Phase{schedule.PhaseGPP, schedule.PhaseSPP, schedule.PhaseSSP} {
		for templateWeek := 1; templateWeek <= 4; templateWeek++ {
			for day := 1; day <= program.WorkoutsPerWeek(); day++ {
				templates = append(templates, schedule.Template{
					ID:           int64(phase.Ordinal()*1000 + templateWeek*100 + day),
					CategoryID:   program.CategoryID,
					Phase:        phase,
					Skill:        program.Skill,
					TemplateWeek: templateWeek,
					Day:          day,
					Name:         string(phase) + " workout",
				})
			}
		}
	}
	return schedule.NewLibrary(templates)
}

// templateAt resolves the default template id for a slot.
func templateAt(t *testing.T, program *schedule.Program, library schedule.Library, slot schedule.Slot) int64 {
	t.Helper()
	resolution := schedule.ResolveSlot(program, schedule.NewOverrideRecord(), library, slot)
	if !resolution.Resolved() {
		t.Fatalf("no default template for slot %s", slot)
	}
	return resolution.Template.ID
}

func date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.DateOnly, value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return parsed
}
