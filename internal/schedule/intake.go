package schedule

import (
	"time"
)

// Intake is the athlete's onboarding questionnaire. It carries everything
// needed to derive a program: the sport category, experience, age group, the
// weekdays the athlete can train, and how long the program should run.
type Intake struct {
	CategoryID        int64          `json:"categoryId"`
	Skill             SkillLevel     `json:"skillLevel"`
	AgeGroup          string         `json:"ageGroup"`
	TrainingWeekdays  []time.Weekday `json:"trainingWeekdays"`
	TotalProgramWeeks int            `json:"totalProgramWeeks"`
	StartDate         string         `json:"startDate"`
}

// phasesPerCycle is the number of phases a full cycle runs through.
const phasesPerCycle = 3

// DeriveWeeksPerPhase splits the requested program length evenly across the
// cycle's phases and clamps the result into the supported range.
func DeriveWeeksPerPhase(totalProgramWeeks int) int {
	return ClampWeeksPerPhase(totalProgramWeeks / phasesPerCycle)
}

// NewProgramFromIntake validates the intake and derives a fresh program
// positioned at the first day of GPP.
func NewProgramFromIntake(athleteID int64, intake Intake, now time.Time) (Program, error) {
	if intake.CategoryID <= 0 {
		return Program{}, &ValidationError{Field: "categoryId", Message: "must be a positive identifier"}
	}
	if !intake.Skill.Valid() {
		return Program{}, &ValidationError{Field: "skillLevel", Message: "must be one of novice, moderate, advanced"}
	}
	if intake.AgeGroup == "" {
		return Program{}, &ValidationError{Field: "ageGroup", Message: "must not be empty"}
	}
	if intake.TotalProgramWeeks < phasesPerCycle*MinWeeksPerPhase {
		return Program{}, &ValidationError{Field: "totalProgramWeeks", Message: "too short for a full cycle"}
	}

	trainingDays, err := NewTrainingDays(intake.TrainingWeekdays)
	if err != nil {
		return Program{}, &ValidationError{Field: "trainingWeekdays", Message: err.Error()}
	}

	startDate := atMidnight(now)
	if intake.StartDate != "" {
		parsed, parseErr := time.Parse(dateFormat, intake.StartDate)
		if parseErr != nil {
			return Program{}, &ValidationError{Field: "startDate", Message: "must be a date in YYYY-MM-DD form"}
		}
		startDate = atMidnight(parsed)
	}

	return Program{
		AthleteID:              athleteID,
		CategoryID:             intake.CategoryID,
		Skill:                  intake.Skill,
		AgeGroup:               intake.AgeGroup,
		StartDate:              startDate,
		TotalWeeks:             intake.TotalProgramWeeks,
		WeeksPerPhase:          DeriveWeeksPerPhase(intake.TotalProgramWeeks),
		TrainingDays:           trainingDays,
		CurrentPhase:           PhaseGPP,
		CurrentWeek:            1,
		CurrentDay:             1,
		SPPUnlockedAt:          nil,
		SSPUnlockedAt:          nil,
		PausedAt:               nil,
		PauseReason:            "",
		ReassessmentPending:    nil,
		ReassessmentsCompleted: 0,
		UpdatedAt:              now,
	}, nil
}
