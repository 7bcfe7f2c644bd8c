package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/villesola/traincal/internal/contexthelpers"
	"github.com/villesola/traincal/internal/sqlite"
	"golang.org/x/sync/errgroup"
)

// Service handles the business logic for training-program scheduling. All
// methods resolve the athlete from the authenticated request context.
type Service struct {
	repo   *repository
	logger *slog.Logger
}

// NewService creates a new scheduling service.
func NewService(db *sqlite.Database, logger *slog.Logger) *Service {
	factory := newRepositoryFactory(db, logger)
	return &Service{
		repo:   factory.newRepository(),
		logger: logger,
	}
}

// EnsureAthlete creates the athlete identity row on first login.
func (s *Service) EnsureAthlete(ctx context.Context, athleteID int64) error {
	if err := s.repo.athletes.Ensure(ctx, athleteID); err != nil {
		return fmt.Errorf("ensure athlete: %w", err)
	}
	return nil
}

// CreateProgramFromIntake derives a fresh program from the intake
// questionnaire. Redoing intake archives the previous snapshot, replaces the
// program, and drops all customisations, which by design restarts the athlete
// at GPP week 1.
func (s *Service) CreateProgramFromIntake(ctx context.Context, intake Intake) (Program, error) {
	now := time.Now().UTC()

	program, err := NewProgramFromIntake(contexthelpers.AuthenticatedAthleteID(ctx), intake, now)
	if err != nil {
		return Program{}, fmt.Errorf("derive program from intake: %w", err)
	}

	if err = s.repo.intakes.ArchiveActive(ctx, now); err != nil {
		return Program{}, fmt.Errorf("archive previous intake: %w", err)
	}
	if err = s.repo.intakes.Create(ctx, intake, now); err != nil {
		return Program{}, fmt.Errorf("store intake snapshot: %w", err)
	}
	if err = s.repo.programs.Upsert(ctx, program); err != nil {
		return Program{}, fmt.Errorf("store program: %w", err)
	}
	if err = s.repo.overrides.Clear(ctx); err != nil {
		return Program{}, fmt.Errorf("clear overrides: %w", err)
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "program created from intake",
		slog.Int64("categoryID", program.CategoryID),
		slog.String("skillLevel", string(program.Skill)),
		slog.Int("weeksPerPhase", program.WeeksPerPhase),
		slog.Int("workoutsPerWeek", program.WorkoutsPerWeek()))
	return program, nil
}

// scheduleAggregates is everything the pure scheduling functions need, loaded
// once per request.
type scheduleAggregates struct {
	program   Program
	overrides OverrideRecord
	library   Library
	facts     []CompletedSession
}

// loadAggregates loads the program first, then fans out the dependent reads
// concurrently.
func (s *Service) loadAggregates(ctx context.Context) (scheduleAggregates, error) {
	program, err := s.repo.programs.Get(ctx)
	if err != nil {
		return scheduleAggregates{}, fmt.Errorf("load program: %w", err)
	}

	var (
		overrides OverrideRecord
		templates []Template
		facts     []CompletedSession
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if overrides, err = s.repo.overrides.Get(gctx); err != nil {
			return fmt.Errorf("load overrides: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if templates, err = s.repo.templates.ListByCategory(gctx, program.CategoryID); err != nil {
			return fmt.Errorf("load template library: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if facts, err = s.repo.sessions.List(gctx); err != nil {
			return fmt.Errorf("load completed sessions: %w", err)
		}
		return nil
	})
	if err = g.Wait(); err != nil {
		return scheduleAggregates{}, err
	}

	return scheduleAggregates{
		program:   program,
		overrides: overrides,
		library:   NewLibrary(templates),
		facts:     facts,
	}, nil
}

// GetProgram returns the athlete's current program.
func (s *Service) GetProgram(ctx context.Context) (Program, error) {
	program, err := s.repo.programs.Get(ctx)
	if err != nil {
		return Program{}, fmt.Errorf("get program: %w", err)
	}
	return program, nil
}

// GetCalendarView assembles the calendar for a date window. A zero from/to
// falls back to the default window around today.
func (s *Service) GetCalendarView(ctx context.Context, from, to time.Time) ([]CalendarDay, error) {
	aggregates, err := s.loadAggregates(ctx)
	if err != nil {
		return nil, fmt.Errorf("get calendar view: %w", err)
	}
	if from.IsZero() || to.IsZero() {
		from, to = DefaultCalendarWindow(&aggregates.program)
	}
	today := time.Now()
	days := BuildCalendarView(&aggregates.program, aggregates.overrides, aggregates.library,
		aggregates.facts, from, to, today)
	return days, nil
}

// GetCalendarMeta returns the program-level calendar metadata.
func (s *Service) GetCalendarMeta(ctx context.Context) (CalendarMeta, error) {
	program, err := s.repo.programs.Get(ctx)
	if err != nil {
		return CalendarMeta{}, fmt.Errorf("get calendar meta: %w", err)
	}
	return BuildCalendarMeta(&program), nil
}

// GetTemplate returns one content-library template with its exercises.
func (s *Service) GetTemplate(ctx context.Context, templateID int64) (Template, error) {
	template, err := s.repo.templates.Get(ctx, templateID)
	if err != nil {
		return Template{}, fmt.Errorf("get template %d: %w", templateID, err)
	}
	return template, nil
}

// AdvanceToNextDay moves the program position one training day forward.
func (s *Service) AdvanceToNextDay(ctx context.Context) (Program, error) {
	program, err := s.repo.programs.Get(ctx)
	if err != nil {
		return Program{}, fmt.Errorf("advance: load program: %w", err)
	}
	advanced, err := AdvanceToNextDay(program)
	if err != nil {
		return Program{}, fmt.Errorf("advance program: %w", err)
	}
	if err = s.saveProgram(ctx, advanced); err != nil {
		return Program{}, err
	}
	if advanced.ReassessmentPending != nil && program.ReassessmentPending == nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "phase complete, reassessment pending",
			slog.String("phase", string(*advanced.ReassessmentPending)))
	}
	return advanced, nil
}

// PauseProgram freezes progression.
func (s *Service) PauseProgram(ctx context.Context, reason string) (Program, error) {
	program, err := s.repo.programs.Get(ctx)
	if err != nil {
		return Program{}, fmt.Errorf("pause: load program: %w", err)
	}
	paused, err := Pause(program, reason, time.Now().UTC())
	if err != nil {
		return Program{}, fmt.Errorf("pause program: %w", err)
	}
	if err = s.saveProgram(ctx, paused); err != nil {
		return Program{}, err
	}
	return paused, nil
}

// ResumeProgram unfreezes progression. A pause of two weeks or longer resets
// the program to the start of GPP and drops all customisations.
func (s *Service) ResumeProgram(ctx context.Context) (Program, ResumeResult, error) {
	program, err := s.repo.programs.Get(ctx)
	if err != nil {
		return Program{}, ResumeResult{}, fmt.Errorf("resume: load program: %w", err)
	}
	resumed, result, err := Resume(program, time.Now().UTC())
	if err != nil {
		return Program{}, ResumeResult{}, fmt.Errorf("resume program: %w", err)
	}
	if err = s.saveProgram(ctx, resumed); err != nil {
		return Program{}, ResumeResult{}, err
	}
	if result.WasReset {
		if err = s.repo.overrides.Clear(ctx); err != nil {
			return Program{}, ResumeResult{}, fmt.Errorf("resume: clear overrides: %w", err)
		}
		s.logger.LogAttrs(ctx, slog.LevelInfo, "program reset after long pause")
	}
	return resumed, result, nil
}

// ResetProgram restarts the athlete at GPP week 1 and drops customisations.
func (s *Service) ResetProgram(ctx context.Context) (Program, error) {
	program, err := s.repo.programs.Get(ctx)
	if err != nil {
		return Program{}, fmt.Errorf("reset: load program: %w", err)
	}
	reset := Reset(program)
	if err = s.saveProgram(ctx, reset); err != nil {
		return Program{}, err
	}
	if err = s.repo.overrides.Clear(ctx); err != nil {
		return Program{}, fmt.Errorf("reset: clear overrides: %w", err)
	}
	return reset, nil
}

// CascadeWorkoutToToday pulls a selected future workout into today's slot,
// shifting the window in between one position later.
func (s *Service) CascadeWorkoutToToday(ctx context.Context, templateID int64) (CascadeResult, error) {
	aggregates, err := s.loadAggregates(ctx)
	if err != nil {
		return CascadeResult{}, fmt.Errorf("cascade: %w", err)
	}
	next, result, err := CascadeToToday(&aggregates.program, aggregates.overrides, aggregates.library,
		NewCompletedSet(aggregates.facts), time.Now(), templateID)
	if err != nil {
		return CascadeResult{}, fmt.Errorf("cascade to today: %w", err)
	}
	if result.Applied {
		if err = s.repo.overrides.Replace(ctx, next); err != nil {
			return CascadeResult{}, fmt.Errorf("cascade: store overrides: %w", err)
		}
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "cascade decided",
		slog.Bool("applied", result.Applied),
		slog.String("reason", string(result.Reason)),
		slog.Int("affectedSlots", result.AffectedSlots))
	return result, nil
}

// SwapWorkouts exchanges the content of two same-week slots.
func (s *Service) SwapWorkouts(ctx context.Context, source, target Slot) error {
	aggregates, err := s.loadAggregates(ctx)
	if err != nil {
		return fmt.Errorf("swap: %w", err)
	}
	next, err := SwapWorkouts(&aggregates.program, aggregates.overrides, aggregates.library,
		NewCompletedSet(aggregates.facts), source, target)
	if err != nil {
		return fmt.Errorf("swap workouts: %w", err)
	}
	if err = s.repo.overrides.Replace(ctx, next); err != nil {
		return fmt.Errorf("swap: store overrides: %w", err)
	}
	return nil
}

// MoveWorkoutToDate relocates a workout to another calendar date.
func (s *Service) MoveWorkoutToDate(ctx context.Context, source Slot, targetDate time.Time) error {
	aggregates, err := s.loadAggregates(ctx)
	if err != nil {
		return fmt.Errorf("move: %w", err)
	}
	next, err := MoveWorkoutToDate(&aggregates.program, aggregates.overrides, aggregates.library,
		NewCompletedSet(aggregates.facts), source, targetDate)
	if err != nil {
		return fmt.Errorf("move workout: %w", err)
	}
	if err = s.repo.overrides.Replace(ctx, next); err != nil {
		return fmt.Errorf("move: store overrides: %w", err)
	}
	return nil
}

// TriggerReassessment marks the current phase's reassessment pending ahead of
// schedule.
func (s *Service) TriggerReassessment(ctx context.Context) (Program, error) {
	program, err := s.repo.programs.Get(ctx)
	if err != nil {
		return Program{}, fmt.Errorf("trigger reassessment: load program: %w", err)
	}
	triggered, err := TriggerManualReassessment(program)
	if err != nil {
		return Program{}, fmt.Errorf("trigger reassessment: %w", err)
	}
	if err = s.saveProgram(ctx, triggered); err != nil {
		return Program{}, err
	}
	return triggered, nil
}

// CompleteReassessment closes the pending reassessment, records it, and moves
// the program into the next phase.
func (s *Service) CompleteReassessment(ctx context.Context, input ReassessmentInput) (ReassessmentOutcome, error) {
	aggregates, err := s.loadAggregates(ctx)
	if err != nil {
		return ReassessmentOutcome{}, fmt.Errorf("complete reassessment: %w", err)
	}

	completedInPhase := 0
	if pending := aggregates.program.ReassessmentPending; pending != nil {
		completedInPhase = s.countCompletedInPhase(&aggregates, *pending)
	}

	now := time.Now().UTC()
	program, outcome, err := CompleteReassessment(aggregates.program, input, completedInPhase, now)
	if err != nil {
		return ReassessmentOutcome{}, fmt.Errorf("complete reassessment: %w", err)
	}

	if err = s.repo.reassessments.Create(ctx, outcome.Phase, input, outcome.CompletionRate, now); err != nil {
		return ReassessmentOutcome{}, fmt.Errorf("record reassessment: %w", err)
	}
	if err = s.saveProgram(ctx, program); err != nil {
		return ReassessmentOutcome{}, err
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "reassessment completed",
		slog.String("phase", string(outcome.Phase)),
		slog.Float64("completionRate", outcome.CompletionRate),
		slog.Bool("skillLevelChanged", outcome.SkillLevelChanged),
		slog.String("nextPhase", string(outcome.NextPhase)),
		slog.Bool("cycleWrapped", outcome.CycleWrapped))
	return outcome, nil
}

// countCompletedInPhase resolves every slot of the phase and counts the ones
// whose template has a completed session.
func (s *Service) countCompletedInPhase(aggregates *scheduleAggregates, phase Phase) int {
	completed := NewCompletedSet(aggregates.facts)
	count := 0
	for week := 1; week <= aggregates.program.WeeksPerPhase; week++ {
		for day := 1; day <= aggregates.program.WorkoutsPerWeek(); day++ {
			slot := Slot{Phase: phase, Week: week, Day: day}
			resolution := ResolveSlot(&aggregates.program, aggregates.overrides, aggregates.library, slot)
			if resolution.Resolved() && completed.IsCompleted(resolution.Template.ID) {
				count++
			}
		}
	}
	return count
}

// RecordCompletedSession ingests a session fact from the workout execution
// side. A fact matching the pending today-focus pointer consumes it.
func (s *Service) RecordCompletedSession(ctx context.Context, templateID int64, status string, completedAt time.Time) error {
	if status != SessionCompleted && status != SessionInProgress {
		return &ValidationError{Field: "status", Message: "must be completed or in_progress"}
	}
	if _, err := s.repo.templates.Get(ctx, templateID); err != nil {
		return fmt.Errorf("record session: resolve template %d: %w", templateID, err)
	}
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	fact := CompletedSession{
		TemplateID:  templateID,
		Status:      status,
		CompletedAt: completedAt.UTC(),
	}
	if err := s.repo.sessions.Create(ctx, fact); err != nil {
		return fmt.Errorf("record session: %w", err)
	}

	overrides, err := s.repo.overrides.Get(ctx)
	if err != nil {
		return fmt.Errorf("record session: load overrides: %w", err)
	}
	if status == SessionCompleted && overrides.TodayFocusTemplateID != nil &&
		*overrides.TodayFocusTemplateID == templateID {
		overrides.TodayFocusTemplateID = nil
		if err = s.repo.overrides.Replace(ctx, overrides); err != nil {
			return fmt.Errorf("record session: consume today focus: %w", err)
		}
	}
	return nil
}

// saveProgram stamps and persists a transformed program.
func (s *Service) saveProgram(ctx context.Context, program Program) error {
	program.UpdatedAt = time.Now().UTC()
	if err := s.repo.programs.Upsert(ctx, program); err != nil {
		return fmt.Errorf("store program: %w", err)
	}
	return nil
}
