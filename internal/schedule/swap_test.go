package schedule_test

import (
	"testing"
	"time"

	"github.com/villesola/traincal/internal/errors"
	"github.com/villesola/traincal/internal/schedule"
)

func TestSwapWorkouts_ExchangesContent(t *testing.T) {
	program := testProgram(t)
	library := testLibrary(&program)
	source := schedule.Slot{Phase: schedule.PhaseGPP, Week: 2, Day: 1}
	target := schedule.Slot{Phase: schedule.PhaseGPP, Week: 2, Day: 3}
	sourceTemplate := templateAt(t, &program, library, source)
	targetTemplate := templateAt(t, &program, library, target)

	next, err := schedule.SwapWorkouts(&program, schedule.NewOverrideRecord(), library,
		schedule.CompletedSet{}, source, target)
	if err != nil {
		t.Fatalf("swap: %v", err)
	}

	if got := schedule.ResolveSlot(&program, next, library, source); got.Template.ID != targetTemplate {
		t.Errorf("source resolves to %d, want %d", got.Template.ID, targetTemplate)
	}
	if got := schedule.ResolveSlot(&program, next, library, target); got.Template.ID != sourceTemplate {
		t.Errorf("target resolves to %d, want %d", got.Template.ID, sourceTemplate)
	}
}

func TestSwapWorkouts_SwapBackPrunesOverrides(t *testing.T) {
	program := testProgram(t)
	library := testLibrary(&program)
	source := schedule.Slot{Phase: schedule.PhaseGPP, Week: 1, Day: 1}
	target := schedule.Slot{Phase: schedule.PhaseGPP, Week: 1, Day: 2}

	swapped, err := schedule.SwapWorkouts(&program, schedule.NewOverrideRecord(), library,
		schedule.CompletedSet{}, source, target)
	if err != nil {
		t.Fatalf("first swap: %v", err)
	}
	restored, err := schedule.SwapWorkouts(&program, swapped, library,
		schedule.CompletedSet{}, source, target)
	if err != nil {
		t.Fatalf("second swap: %v", err)
	}
	// Swapping back restores the defaults, so no overrides should survive.
	if len(restored.SlotOverrides) != 0 {
		t.Errorf("restored record still holds %d overrides", len(restored.SlotOverrides))
	}
}

func TestSwapWorkouts_Conflicts(t *testing.T) {
	program := testProgram(t)
	library := testLibrary(&program)

	completedTemplate := templateAt(t, &program, library, schedule.Slot{Phase: schedule.PhaseGPP, Week: 1, Day: 1})
	completed := schedule.NewCompletedSet([]schedule.CompletedSession{
		{TemplateID: completedTemplate, Status: schedule.SessionCompleted, CompletedAt: time.Now()},
	})

	tests := []struct {
		name   string
		source schedule.Slot
		target schedule.Slot
		want   string
	}{
		{
			name:   "same slot",
			source: schedule.Slot{Phase: schedule.PhaseGPP, Week: 1, Day: 2},
			target: schedule.Slot{Phase: schedule.PhaseGPP, Week: 1, Day: 2},
			want:   schedule.ConflictSameSlot,
		},
		{
			name:   "across weeks",
			source: schedule.Slot{Phase: schedule.PhaseGPP, Week: 1, Day: 2},
			target: schedule.Slot{Phase: schedule.PhaseGPP, Week: 2, Day: 2},
			want:   schedule.ConflictCrossWeekSwap,
		},
		{
			name:   "across phases",
			source: schedule.Slot{Phase: schedule.PhaseGPP, Week: 1, Day: 2},
			target: schedule.Slot{Phase: schedule.PhaseSPP, Week: 1, Day: 3},
			want:   schedule.ConflictCrossWeekSwap,
		},
		{
			name:   "locked phase",
			source: schedule.Slot{Phase: schedule.PhaseSPP, Week: 1, Day: 1},
			target: schedule.Slot{Phase: schedule.PhaseSPP, Week: 1, Day: 2},
			want:   schedule.ConflictPhaseLocked,
		},
		{
			name:   "completed workout",
			source: schedule.Slot{Phase: schedule.PhaseGPP, Week: 1, Day: 1},
			target: schedule.Slot{Phase: schedule.PhaseGPP, Week: 1, Day: 3},
			want:   schedule.ConflictWorkoutCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schedule.SwapWorkouts(&program, schedule.NewOverrideRecord(), library,
				completed, tt.source, tt.target)
			var conflict *schedule.ConflictError
			if !errors.As(err, &conflict) || conflict.Code != tt.want {
				t.Errorf("err = %v, want %s conflict", err, tt.want)
			}
		})
	}
}

func TestMoveWorkoutToDate_ExchangesDates(t *testing.T) {
	program := testProgram(t)
	library := testLibrary(&program)
	source := schedule.Slot{Phase: schedule.PhaseGPP, Week: 1, Day: 1}   // 2024-01-01
	occupant := schedule.Slot{Phase: schedule.PhaseGPP, Week: 1, Day: 2} // 2024-01-03

	next, err := schedule.MoveWorkoutToDate(&program, schedule.NewOverrideRecord(), library,
		schedule.CompletedSet{}, source, date(t, "2024-01-03"))
	if err != nil {
		t.Fatalf("move: %v", err)
	}

	if got := schedule.EffectiveDate(&program, next, source).Format(time.DateOnly); got != "2024-01-03" {
		t.Errorf("source effective date = %s, want 2024-01-03", got)
	}
	// The displaced workout takes over the vacated date.
	if got := schedule.EffectiveDate(&program, next, occupant).Format(time.DateOnly); got != "2024-01-01" {
		t.Errorf("occupant effective date = %s, want 2024-01-01", got)
	}
}

func TestMoveWorkoutToDate_FreeDateNeedsSingleOverride(t *testing.T) {
	program := testProgram(t)
	library := testLibrary(&program)
	source := schedule.Slot{Phase: schedule.PhaseGPP, Week: 1, Day: 2}

	// Tuesday holds no workout, so only the moved slot needs an override.
	next, err := schedule.MoveWorkoutToDate(&program, schedule.NewOverrideRecord(), library,
		schedule.CompletedSet{}, source, date(t, "2024-01-02"))
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if len(next.DateOverrides) != 1 {
		t.Errorf("date overrides = %d, want 1", len(next.DateOverrides))
	}
	if got := schedule.EffectiveDate(&program, next, source).Format(time.DateOnly); got != "2024-01-02" {
		t.Errorf("effective date = %s, want 2024-01-02", got)
	}
}

func TestMoveWorkoutToDate_MoveBackPrunes(t *testing.T) {
	program := testProgram(t)
	library := testLibrary(&program)
	source := schedule.Slot{Phase: schedule.PhaseGPP, Week: 1, Day: 2}

	moved, err := schedule.MoveWorkoutToDate(&program, schedule.NewOverrideRecord(), library,
		schedule.CompletedSet{}, source, date(t, "2024-01-02"))
	if err != nil {
		t.Fatalf("move out: %v", err)
	}
	restored, err := schedule.MoveWorkoutToDate(&program, moved, library,
		schedule.CompletedSet{}, source, date(t, "2024-01-03"))
	if err != nil {
		t.Fatalf("move back: %v", err)
	}
	if len(restored.DateOverrides) != 0 {
		t.Errorf("restored record still holds %d date overrides", len(restored.DateOverrides))
	}
}

func TestMoveWorkoutToDate_CompletedConflicts(t *testing.T) {
	program := testProgram(t)
	library := testLibrary(&program)
	completedTemplate := templateAt(t, &program, library, schedule.Slot{Phase: schedule.PhaseGPP, Week: 1, Day: 1})
	completed := schedule.NewCompletedSet([]schedule.CompletedSession{
		{TemplateID: completedTemplate, Status: schedule.SessionCompleted, CompletedAt: time.Now()},
	})

	// Moving the completed workout itself.
	_, err := schedule.MoveWorkoutToDate(&program, schedule.NewOverrideRecord(), library, completed,
		schedule.Slot{Phase: schedule.PhaseGPP, Week: 1, Day: 1}, date(t, "2024-01-02"))
	var conflict *schedule.ConflictError
	if !errors.As(err, &conflict) || conflict.Code != schedule.ConflictWorkoutCompleted {
		t.Errorf("moving completed workout: err = %v, want workout_completed", err)
	}

	// Moving another workout onto the completed workout's date.
	_, err = schedule.MoveWorkoutToDate(&program, schedule.NewOverrideRecord(), library, completed,
		schedule.Slot{Phase: schedule.PhaseGPP, Week: 1, Day: 2}, date(t, "2024-01-01"))
	if !errors.As(err, &conflict) || conflict.Code != schedule.ConflictWorkoutCompleted {
		t.Errorf("displacing completed workout: err = %v, want workout_completed", err)
	}
}
