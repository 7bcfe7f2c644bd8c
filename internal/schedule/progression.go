package schedule

import (
	"time"
)

// The progression state machine. A program is Active at a (phase, week, day)
// position until the final day of a phase's final week overflows, which
// freezes the position and marks the phase's reassessment pending. Completing
// the reassessment unlocks the next phase and moves the position to its first
// day. Pausing freezes everything; resuming after a two-week gap resets the
// whole program to the start of GPP.

// PauseResetThreshold is the pause duration after which resuming performs a
// full reset instead of picking up where the athlete left off.
const PauseResetThreshold = 14 * 24 * time.Hour

// Self-reported difficulty values from the reassessment questionnaire.
const (
	DifficultyTooEasy   = "too_easy"
	DifficultyJustRight = "just_right"
	DifficultyTooHard   = "too_hard"
)

// Promotion thresholds per current skill level.
const (
	novicePromotionRate   = 0.75
	moderatePromotionRate = 0.80
	// moderatePromotionMinReassessments guards against promotion to advanced
	// off a single short phase.
	moderatePromotionMinReassessments = 2
)

// AdvanceToNextDay moves the program position one training day forward. Day
// overflow rolls into the next week; overflowing the phase's final week does
// not advance the phase but freezes the position and marks the phase's
// reassessment pending.
func AdvanceToNextDay(program Program) (Program, error) {
	if program.PausedAt != nil {
		return program, &ConflictError{Code: ConflictProgramPaused, Message: "program is paused"}
	}
	if program.ReassessmentPending != nil {
		return program, &ConflictError{
			Code:    ConflictReassessmentPending,
			Message: "reassessment is already pending; complete it before advancing",
		}
	}

	program.CurrentDay++
	if program.CurrentDay > program.WorkoutsPerWeek() {
		program.CurrentDay = 1
		program.CurrentWeek++
	}
	if program.CurrentWeek > program.WeeksPerPhase {
		// Freeze at the last valid position and gate on reassessment.
		program.CurrentWeek = program.WeeksPerPhase
		program.CurrentDay = program.WorkoutsPerWeek()
		pendingPhase := program.CurrentPhase
		program.ReassessmentPending = &pendingPhase
	}
	return program, nil
}

// Pause freezes the program position without touching phase unlocks.
func Pause(program Program, reason string, now time.Time) (Program, error) {
	if program.PausedAt != nil {
		return program, &ConflictError{Code: ConflictProgramPaused, Message: "program is already paused"}
	}
	pausedAt := now
	program.PausedAt = &pausedAt
	program.PauseReason = reason
	return program, nil
}

// ResumeResult tells whether resuming kept the position or reset the program.
type ResumeResult struct {
	WasReset bool `json:"wasReset"`
}

// Resume clears the pause. A pause of PauseResetThreshold or longer resets
// the program to the start of GPP and relocks the later phases.
func Resume(program Program, now time.Time) (Program, ResumeResult, error) {
	if program.PausedAt == nil {
		return program, ResumeResult{}, &ConflictError{
			Code:    ConflictProgramNotPaused,
			Message: "program is not paused",
		}
	}
	pauseDuration := now.Sub(*program.PausedAt)
	program.PausedAt = nil
	program.PauseReason = ""
	if pauseDuration >= PauseResetThreshold {
		return Reset(program), ResumeResult{WasReset: true}, nil
	}
	return program, ResumeResult{WasReset: false}, nil
}

// Reset returns the program to the start of GPP with both later phases
// relocked and any pending reassessment cleared.
func Reset(program Program) Program {
	program.CurrentPhase = PhaseGPP
	program.CurrentWeek = 1
	program.CurrentDay = 1
	program.SPPUnlockedAt = nil
	program.SSPUnlockedAt = nil
	program.ReassessmentPending = nil
	program.PausedAt = nil
	program.PauseReason = ""
	return program
}

// TriggerManualReassessment marks the current phase's reassessment pending
// ahead of schedule.
func TriggerManualReassessment(program Program) (Program, error) {
	if program.ReassessmentPending != nil {
		return program, &ConflictError{
			Code:    ConflictReassessmentPending,
			Message: "a reassessment is already pending",
		}
	}
	pendingPhase := program.CurrentPhase
	program.ReassessmentPending = &pendingPhase
	return program, nil
}

// ReassessmentInput is the athlete's check-in at a phase boundary.
type ReassessmentInput struct {
	Difficulty   string `json:"difficulty"`
	Energy       string `json:"energy"`
	Notes        string `json:"notes"`
	MaxesUpdated bool   `json:"maxesUpdated"`
}

// ReassessmentOutcome reports what completing a reassessment decided.
type ReassessmentOutcome struct {
	Phase             Phase      `json:"phase"`
	CompletionRate    float64    `json:"completionRate"`
	SkillLevelChanged bool       `json:"skillLevelChanged"`
	NewSkillLevel     SkillLevel `json:"newSkillLevel"`
	NextPhase         Phase      `json:"nextPhase"`
	CycleWrapped      bool       `json:"cycleWrapped"`
}

// CompleteReassessment closes the pending reassessment: it computes the
// phase's completion rate, promotes the skill level when the athlete coped
// and trained consistently enough, unlocks the next phase (or wraps the cycle
// back to a fresh GPP), and moves the position to the next phase's first day.
func CompleteReassessment(
	program Program,
	input ReassessmentInput,
	completedSessionsInPhase int,
	now time.Time,
) (Program, ReassessmentOutcome, error) {
	if program.ReassessmentPending == nil {
		return program, ReassessmentOutcome{}, &ConflictError{
			Code:    ConflictNoReassessmentDue,
			Message: "no reassessment is pending",
		}
	}
	if input.Difficulty != DifficultyTooEasy && input.Difficulty != DifficultyJustRight &&
		input.Difficulty != DifficultyTooHard {
		return program, ReassessmentOutcome{}, &ValidationError{
			Field:   "difficulty",
			Message: "must be one of too_easy, just_right, too_hard",
		}
	}

	completedPhase := *program.ReassessmentPending
	expectedSessions := program.WeeksPerPhase * program.WorkoutsPerWeek()
	completionRate := min(float64(completedSessionsInPhase)/float64(expectedSessions), 1.0)

	outcome := ReassessmentOutcome{ //nolint:exhaustruct // filled in below.
		Phase:          completedPhase,
		CompletionRate: completionRate,
		NewSkillLevel:  program.Skill,
	}

	if promoted, next := promoteSkill(program, input.Difficulty, completionRate); promoted {
		program.Skill = next
		outcome.SkillLevelChanged = true
		outcome.NewSkillLevel = next
	}

	nextPhase, wrapped := completedPhase.Next()
	outcome.NextPhase = nextPhase
	outcome.CycleWrapped = wrapped
	if wrapped {
		// A fresh cycle starts locked again.
		program.SPPUnlockedAt = nil
		program.SSPUnlockedAt = nil
	} else {
		unlockedAt := now
		switch nextPhase {
		case PhaseSPP:
			program.SPPUnlockedAt = &unlockedAt
		case PhaseSSP:
			program.SSPUnlockedAt = &unlockedAt
		case PhaseGPP:
		}
	}

	program.CurrentPhase = nextPhase
	program.CurrentWeek = 1
	program.CurrentDay = 1
	program.ReassessmentPending = nil
	program.ReassessmentsCompleted++

	return program, outcome, nil
}

// promoteSkill applies the promotion rules: the athlete reports the phase was
// manageable and the completion rate clears the threshold for the current
// skill level.
func promoteSkill(program Program, difficulty string, completionRate float64) (bool, SkillLevel) {
	if difficulty != DifficultyTooEasy && difficulty != DifficultyJustRight {
		return false, program.Skill
	}
	next, canPromote := program.Skill.Next()
	if !canPromote {
		return false, program.Skill
	}
	switch program.Skill {
	case SkillNovice:
		if completionRate >= novicePromotionRate {
			return true, next
		}
	case SkillModerate:
		if completionRate >= moderatePromotionRate &&
			program.ReassessmentsCompleted >= moderatePromotionMinReassessments {
			return true, next
		}
	case SkillAdvanced:
	}
	return false, program.Skill
}
