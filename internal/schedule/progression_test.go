package schedule_test

import (
	"testing"
	"time"

	"github.com/villesola/traincal/internal/errors"
	"github.com/villesola/traincal/internal/ptr"
	"github.com/villesola/traincal/internal/schedule"
)

func TestAdvanceToNextDay_RollsDaysAndWeeks(t *testing.T) {
	program := testProgram(t)

	// Day 1 -> 2 -> 3, then into week 2.
	for _, want := range []schedule.Slot{
		{Phase: schedule.PhaseGPP, Week: 1, Day: 2},
		{Phase: schedule.PhaseGPP, Week: 1, Day: 3},
		{Phase: schedule.PhaseGPP, Week: 2, Day: 1},
	} {
		var err error
		program, err = schedule.AdvanceToNextDay(program)
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		got := schedule.Slot{Phase: program.CurrentPhase, Week: program.CurrentWeek, Day: program.CurrentDay}
		if got != want {
			t.Fatalf("position = %s, want %s", got, want)
		}
	}
}

func TestAdvanceToNextDay_PhaseOverflowFreezesAndGates(t *testing.T) {
	program := testProgram(t)
	program.CurrentWeek = program.WeeksPerPhase
	program.CurrentDay = program.WorkoutsPerWeek()

	advanced, err := schedule.AdvanceToNextDay(program)
	if err != nil {
		t.Fatalf("advance past phase end: %v", err)
	}
	if advanced.CurrentPhase != schedule.PhaseGPP ||
		advanced.CurrentWeek != program.WeeksPerPhase ||
		advanced.CurrentDay != program.WorkoutsPerWeek() {
		t.Errorf("position moved past the frozen phase end: %+v", advanced)
	}
	if advanced.ReassessmentPending == nil || *advanced.ReassessmentPending != schedule.PhaseGPP {
		t.Fatalf("reassessment pending = %v, want GPP", advanced.ReassessmentPending)
	}

	// A second advance is rejected until the reassessment completes.
	_, err = schedule.AdvanceToNextDay(advanced)
	var conflict *schedule.ConflictError
	if !errors.As(err, &conflict) || conflict.Code != schedule.ConflictReassessmentPending {
		t.Errorf("err = %v, want reassessment_pending conflict", err)
	}
}

func TestAdvanceToNextDay_PausedRejected(t *testing.T) {
	program := testProgram(t)
	pausedAt := time.Now()
	program.PausedAt = &pausedAt

	_, err := schedule.AdvanceToNextDay(program)
	var conflict *schedule.ConflictError
	if !errors.As(err, &conflict) || conflict.Code != schedule.ConflictProgramPaused {
		t.Errorf("err = %v, want program_paused conflict", err)
	}
}

func TestResume_ShortPauseKeepsPosition(t *testing.T) {
	program := testProgram(t)
	program.CurrentWeek = 3
	now := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

	paused, err := schedule.Pause(program, "travel", now)
	if err != nil {
		t.Fatalf("pause: %v", err)
	}
	resumed, result, err := schedule.Resume(paused, now.Add(5*24*time.Hour))
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if result.WasReset {
		t.Error("short pause reset the program")
	}
	if resumed.CurrentWeek != 3 || resumed.PausedAt != nil || resumed.PauseReason != "" {
		t.Errorf("resumed program = %+v, want position kept and pause cleared", resumed)
	}
}

func TestResume_LongPauseResets(t *testing.T) {
	program := testProgram(t)
	program.CurrentPhase = schedule.PhaseSPP
	program.CurrentWeek = 2
	program.CurrentDay = 3
	unlockedAt := time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)
	program.SPPUnlockedAt = &unlockedAt
	now := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

	paused, err := schedule.Pause(program, "injury", now)
	if err != nil {
		t.Fatalf("pause: %v", err)
	}
	resumed, result, err := schedule.Resume(paused, now.Add(20*24*time.Hour))
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if !result.WasReset {
		t.Fatal("20-day pause did not reset the program")
	}
	if resumed.CurrentPhase != schedule.PhaseGPP || resumed.CurrentWeek != 1 || resumed.CurrentDay != 1 {
		t.Errorf("reset position = %s/W%d/D%d, want GPP/W1/D1",
			resumed.CurrentPhase, resumed.CurrentWeek, resumed.CurrentDay)
	}
	if resumed.SPPUnlockedAt != nil || resumed.SSPUnlockedAt != nil {
		t.Error("reset kept phase unlocks")
	}
}

func TestResume_NotPaused(t *testing.T) {
	program := testProgram(t)
	_, _, err := schedule.Resume(program, time.Now())
	var conflict *schedule.ConflictError
	if !errors.As(err, &conflict) || conflict.Code != schedule.ConflictProgramNotPaused {
		t.Errorf("err = %v, want program_not_paused conflict", err)
	}
}

func TestCompleteReassessment(t *testing.T) {
	now := time.Date(2024, 1, 29, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name             string
		mutate           func(*schedule.Program)
		input            schedule.ReassessmentInput
		completedInPhase int
		wantSkill        schedule.SkillLevel
		wantChanged      bool
		wantNextPhase    schedule.Phase
		wantWrapped      bool
	}{
		{
			name:             "novice promoted at four fifths completion",
			mutate:           func(p *schedule.Program) {},
			input:            schedule.ReassessmentInput{Difficulty: schedule.DifficultyJustRight},
			completedInPhase: 10, // 10 of 12 sessions.
			wantSkill:        schedule.SkillModerate,
			wantChanged:      true,
			wantNextPhase:    schedule.PhaseSPP,
		},
		{
			name:             "novice held back below threshold",
			mutate:           func(p *schedule.Program) {},
			input:            schedule.ReassessmentInput{Difficulty: schedule.DifficultyJustRight},
			completedInPhase: 8, // 8 of 12 is below 0.75.
			wantSkill:        schedule.SkillNovice,
			wantNextPhase:    schedule.PhaseSPP,
		},
		{
			name:             "too hard blocks promotion regardless of rate",
			mutate:           func(p *schedule.Program) {},
			input:            schedule.ReassessmentInput{Difficulty: schedule.DifficultyTooHard},
			completedInPhase: 12,
			wantSkill:        schedule.SkillNovice,
			wantNextPhase:    schedule.PhaseSPP,
		},
		{
			name: "moderate needs prior reassessments",
			mutate: func(p *schedule.Program) {
				p.Skill = schedule.SkillModerate
				p.ReassessmentsCompleted = 1
			},
			input:            schedule.ReassessmentInput{Difficulty: schedule.DifficultyTooEasy},
			completedInPhase: 12,
			wantSkill:        schedule.SkillModerate,
			wantNextPhase:    schedule.PhaseSPP,
		},
		{
			name: "moderate promoted with track record",
			mutate: func(p *schedule.Program) {
				p.Skill = schedule.SkillModerate
				p.ReassessmentsCompleted = 2
			},
			input:            schedule.ReassessmentInput{Difficulty: schedule.DifficultyTooEasy},
			completedInPhase: 12,
			wantSkill:        schedule.SkillAdvanced,
			wantChanged:      true,
			wantNextPhase:    schedule.PhaseSPP,
		},
		{
			name: "final phase wraps the cycle",
			mutate: func(p *schedule.Program) {
				p.CurrentPhase = schedule.PhaseSSP
				p.ReassessmentPending = ptr.Ref(schedule.PhaseSSP)
				p.SPPUnlockedAt = ptr.Ref(now.AddDate(0, -1, 0))
				p.SSPUnlockedAt = ptr.Ref(now.AddDate(0, -1, 0))
			},
			input:            schedule.ReassessmentInput{Difficulty: schedule.DifficultyTooHard},
			completedInPhase: 6,
			wantSkill:        schedule.SkillNovice,
			wantNextPhase:    schedule.PhaseGPP,
			wantWrapped:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program := testProgram(t)
			program.ReassessmentPending = ptr.Ref(schedule.PhaseGPP)
			tt.mutate(&program)
			priorReassessments := program.ReassessmentsCompleted

			next, outcome, err := schedule.CompleteReassessment(program, tt.input, tt.completedInPhase, now)
			if err != nil {
				t.Fatalf("complete reassessment: %v", err)
			}
			if next.Skill != tt.wantSkill || outcome.SkillLevelChanged != tt.wantChanged {
				t.Errorf("skill = %s (changed %t), want %s (changed %t)",
					next.Skill, outcome.SkillLevelChanged, tt.wantSkill, tt.wantChanged)
			}
			if next.CurrentPhase != tt.wantNextPhase || next.CurrentWeek != 1 || next.CurrentDay != 1 {
				t.Errorf("position = %s/W%d/D%d, want %s/W1/D1",
					next.CurrentPhase, next.CurrentWeek, next.CurrentDay, tt.wantNextPhase)
			}
			if outcome.CycleWrapped != tt.wantWrapped {
				t.Errorf("cycle wrapped = %t, want %t", outcome.CycleWrapped, tt.wantWrapped)
			}
			if next.ReassessmentPending != nil {
				t.Error("reassessment still pending after completion")
			}
			if next.ReassessmentsCompleted != priorReassessments+1 {
				t.Errorf("reassessments completed = %d, want %d",
					next.ReassessmentsCompleted, priorReassessments+1)
			}
			if tt.wantWrapped {
				if next.SPPUnlockedAt != nil || next.SSPUnlockedAt != nil {
					t.Error("cycle wrap kept phase unlocks")
				}
			} else if next.SPPUnlockedAt == nil {
				t.Error("completing GPP did not unlock SPP")
			}
		})
	}
}

func TestCompleteReassessment_Rejections(t *testing.T) {
	now := time.Now()

	t.Run("nothing pending", func(t *testing.T) {
		program := testProgram(t)
		_, _, err := schedule.CompleteReassessment(program,
			schedule.ReassessmentInput{Difficulty: schedule.DifficultyJustRight}, 0, now)
		var conflict *schedule.ConflictError
		if !errors.As(err, &conflict) || conflict.Code != schedule.ConflictNoReassessmentDue {
			t.Errorf("err = %v, want no_reassessment_due conflict", err)
		}
	})

	t.Run("unknown difficulty", func(t *testing.T) {
		program := testProgram(t)
		program.ReassessmentPending = ptr.Ref(schedule.PhaseGPP)
		_, _, err := schedule.CompleteReassessment(program,
			schedule.ReassessmentInput{Difficulty: "brutal"}, 0, now)
		var validation *schedule.ValidationError
		if !errors.As(err, &validation) || validation.Field != "difficulty" {
			t.Errorf("err = %v, want difficulty validation error", err)
		}
	})
}

func TestCompleteReassessment_RateCappedAtOne(t *testing.T) {
	program := testProgram(t)
	program.ReassessmentPending = ptr.Ref(schedule.PhaseGPP)

	// More completions than slots, e.g. after redoing workouts.
	_, outcome, err := schedule.CompleteReassessment(program,
		schedule.ReassessmentInput{Difficulty: schedule.DifficultyJustRight}, 40, time.Now())
	if err != nil {
		t.Fatalf("complete reassessment: %v", err)
	}
	if outcome.CompletionRate != 1.0 {
		t.Errorf("completion rate = %f, want capped at 1.0", outcome.CompletionRate)
	}
}

func TestTriggerManualReassessment(t *testing.T) {
	program := testProgram(t)
	program.CurrentPhase = schedule.PhaseSPP

	triggered, err := schedule.TriggerManualReassessment(program)
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if triggered.ReassessmentPending == nil || *triggered.ReassessmentPending != schedule.PhaseSPP {
		t.Errorf("pending = %v, want SPP", triggered.ReassessmentPending)
	}

	_, err = schedule.TriggerManualReassessment(triggered)
	var conflict *schedule.ConflictError
	if !errors.As(err, &conflict) || conflict.Code != schedule.ConflictReassessmentPending {
		t.Errorf("second trigger err = %v, want reassessment_pending conflict", err)
	}
}
