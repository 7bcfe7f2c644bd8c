// Package schedule implements the training-program scheduling engine: the
// slot/date algebra, periodization mapping, override and cascade mechanics,
// the calendar view builder, and the phase progression state machine.
package schedule

import (
	"fmt"
	"slices"
	"time"

	"github.com/villesola/traincal/internal/errors"
)

// Phase is one of the three sequential training stages. The order is total:
// GPP before SPP before SSP, with the cycle wrapping back to GPP.
type Phase string

const (
	PhaseGPP Phase = "GPP"
	PhaseSPP Phase = "SPP"
	PhaseSSP Phase = "SSP"
)

//nolint:gochecknoglobals // fixed phase order shared by the index algebra.
var phaseOrder = []Phase{PhaseGPP, PhaseSPP, PhaseSSP}

// ParsePhase converts a stored phase string back into a Phase.
func ParsePhase(s string) (Phase, error) {
	phase := Phase(s)
	if !phase.Valid() {
		return "", fmt.Errorf("unknown phase %q", s)
	}
	return phase, nil
}

// Valid reports whether the phase is one of the three known stages.
func (p Phase) Valid() bool {
	return slices.Contains(phaseOrder, p)
}

// Ordinal returns the position of the phase in progression order, GPP being 0.
func (p Phase) Ordinal() int {
	return slices.Index(phaseOrder, p)
}

// Next returns the phase that follows p. wrapped is true when the progression
// cycles back to GPP after the final phase.
func (p Phase) Next() (next Phase, wrapped bool) {
	ordinal := p.Ordinal() + 1
	if ordinal >= len(phaseOrder) {
		return PhaseGPP, true
	}
	return phaseOrder[ordinal], false
}

// phaseForOrdinal is the inverse of Ordinal.
func phaseForOrdinal(ordinal int) (Phase, bool) {
	if ordinal < 0 || ordinal >= len(phaseOrder) {
		return "", false
	}
	return phaseOrder[ordinal], true
}

// SkillLevel is the athlete's ability classification. The order is total:
// novice before moderate before advanced.
type SkillLevel string

const (
	SkillNovice   SkillLevel = "novice"
	SkillModerate SkillLevel = "moderate"
	SkillAdvanced SkillLevel = "advanced"
)

//nolint:gochecknoglobals // fixed promotion order.
var skillOrder = []SkillLevel{SkillNovice, SkillModerate, SkillAdvanced}

// ParseSkillLevel converts a stored skill string back into a SkillLevel.
func ParseSkillLevel(s string) (SkillLevel, error) {
	skill := SkillLevel(s)
	if !slices.Contains(skillOrder, skill) {
		return "", fmt.Errorf("unknown skill level %q", s)
	}
	return skill, nil
}

// Valid reports whether the skill level is one of the known classifications.
func (s SkillLevel) Valid() bool {
	return slices.Contains(skillOrder, s)
}

// Next returns the skill level one promotion step up and whether a promotion
// is possible at all.
func (s SkillLevel) Next() (SkillLevel, bool) {
	ordinal := slices.Index(skillOrder, s) + 1
	if ordinal <= 0 || ordinal >= len(skillOrder) {
		return s, false
	}
	return skillOrder[ordinal], true
}

// Slot is the coordinate of one scheduled workout position. Week is the
// user-facing week which may exceed 4 for long phases; Day runs from 1 to the
// number of weekly training days. Slots are computed on demand and never
// stored.
type Slot struct {
	Phase Phase `json:"phase"`
	Week  int   `json:"week"`
	Day   int   `json:"day"`
}

func (s Slot) String() string {
	return fmt.Sprintf("%s/W%d/D%d", s.Phase, s.Week, s.Day)
}

// TrainingDays is the ordered, deduplicated set of weekdays the athlete
// trains on. Weekday indices follow time.Weekday, 0 = Sunday.
type TrainingDays []time.Weekday

// NewTrainingDays validates, deduplicates, and sorts the weekday set.
func NewTrainingDays(days []time.Weekday) (TrainingDays, error) {
	deduplicated := make(TrainingDays, 0, len(days))
	for _, day := range days {
		if day < time.Sunday || day > time.Saturday {
			return nil, &ValidationError{Field: "trainingDays", Message: fmt.Sprintf("invalid weekday %d", day)}
		}
		if !slices.Contains(deduplicated, day) {
			deduplicated = append(deduplicated, day)
		}
	}
	if len(deduplicated) == 0 {
		return nil, &ValidationError{Field: "trainingDays", Message: "at least one training day is required"}
	}
	slices.Sort(deduplicated)
	return deduplicated, nil
}

// Contains reports whether weekday is a training day.
func (td TrainingDays) Contains(weekday time.Weekday) bool {
	return slices.Contains(td, weekday)
}

// Program is the per-athlete scheduling aggregate. It is loaded once per
// request, transformed by pure functions, and persisted back atomically.
type Program struct {
	AthleteID     int64
	CategoryID    int64
	Skill         SkillLevel
	AgeGroup      string
	StartDate     time.Time
	TotalWeeks    int
	WeeksPerPhase int
	TrainingDays  TrainingDays

	CurrentPhase Phase
	CurrentWeek  int
	CurrentDay   int

	SPPUnlockedAt *time.Time
	SSPUnlockedAt *time.Time

	PausedAt    *time.Time
	PauseReason string

	// ReassessmentPending names the phase whose completion is blocking
	// progression, or nil when no reassessment is due.
	ReassessmentPending    *Phase
	ReassessmentsCompleted int

	UpdatedAt time.Time
}

// WorkoutsPerWeek returns the number of scheduled workouts per calendar week.
func (p *Program) WorkoutsPerWeek() int {
	return len(p.TrainingDays)
}

// TotalSlots returns the number of workout positions across all phases.
func (p *Program) TotalSlots() int {
	return len(phaseOrder) * p.WeeksPerPhase * p.WorkoutsPerWeek()
}

// PhaseUnlocked reports whether the athlete may act on slots in the phase.
// GPP is always unlocked; later phases require their unlock timestamp unless
// the program has already progressed into or past them.
func (p *Program) PhaseUnlocked(phase Phase) bool {
	if phase.Ordinal() <= p.CurrentPhase.Ordinal() {
		return true
	}
	switch phase {
	case PhaseGPP:
		return true
	case PhaseSPP:
		return p.SPPUnlockedAt != nil
	case PhaseSSP:
		return p.SSPUnlockedAt != nil
	}
	return false
}

// ValidateSlot checks that the slot lies within the program's configured
// bounds.
func (p *Program) ValidateSlot(slot Slot) error {
	if !slot.Phase.Valid() {
		return &ValidationError{Field: "phase", Message: fmt.Sprintf("unknown phase %q", slot.Phase)}
	}
	if slot.Week < 1 || slot.Week > p.WeeksPerPhase {
		return &ValidationError{
			Field:   "week",
			Message: fmt.Sprintf("week %d outside [1, %d]", slot.Week, p.WeeksPerPhase),
		}
	}
	if slot.Day < 1 || slot.Day > p.WorkoutsPerWeek() {
		return &ValidationError{
			Field:   "day",
			Message: fmt.Sprintf("day %d outside [1, %d]", slot.Day, p.WorkoutsPerWeek()),
		}
	}
	return nil
}

// OverrideRecord carries the persistent per-program customisations. Slot
// overrides swap content into a coordinate, date overrides relocate a
// coordinate's effective calendar date, and the today-focus pointer is an
// ephemeral hint consumed when a session completion is recorded.
type OverrideRecord struct {
	SlotOverrides        map[Slot]int64
	DateOverrides        map[Slot]time.Time
	TodayFocusTemplateID *int64
}

// NewOverrideRecord returns an empty override record.
func NewOverrideRecord() OverrideRecord {
	return OverrideRecord{
		SlotOverrides:        map[Slot]int64{},
		DateOverrides:        map[Slot]time.Time{},
		TodayFocusTemplateID: nil,
	}
}

// Clone returns a deep copy so that pure operations never mutate the loaded
// record in place.
func (o OverrideRecord) Clone() OverrideRecord {
	clone := NewOverrideRecord()
	for slot, templateID := range o.SlotOverrides {
		clone.SlotOverrides[slot] = templateID
	}
	for slot, date := range o.DateOverrides {
		clone.DateOverrides[slot] = date
	}
	if o.TodayFocusTemplateID != nil {
		id := *o.TodayFocusTemplateID
		clone.TodayFocusTemplateID = &id
	}
	return clone
}

// Template is one read-only entry of the static content library.
type Template struct {
	ID                  int64              `json:"id"`
	CategoryID          int64              `json:"categoryId"`
	Phase               Phase              `json:"phase"`
	Skill               SkillLevel         `json:"skillLevel"`
	TemplateWeek        int                `json:"templateWeek"`
	Day                 int                `json:"day"`
	Name                string             `json:"name"`
	DescriptionMarkdown string             `json:"descriptionMarkdown"`
	Exercises           []TemplateExercise `json:"exercises"`
}

// TemplateExercise is one prescribed exercise inside a template.
type TemplateExercise struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
	Sets     int    `json:"sets"`
	Reps     string `json:"reps"`
}

type libraryKey struct {
	categoryID   int64
	phase        Phase
	skill        SkillLevel
	templateWeek int
	day          int
}

// Library is an in-memory index over the static template content, loaded once
// per request so that slot resolution never round-trips to storage.
type Library struct {
	byKey map[libraryKey]Template
	byID  map[int64]Template
}

// NewLibrary indexes the given templates.
func NewLibrary(templates []Template) Library {
	library := Library{
		byKey: make(map[libraryKey]Template, len(templates)),
		byID:  make(map[int64]Template, len(templates)),
	}
	for _, template := range templates {
		key := libraryKey{
			categoryID:   template.CategoryID,
			phase:        template.Phase,
			skill:        template.Skill,
			templateWeek: template.TemplateWeek,
			day:          template.Day,
		}
		library.byKey[key] = template
		library.byID[template.ID] = template
	}
	return library
}

// Find looks up a template by its library coordinate.
func (l Library) Find(categoryID int64, phase Phase, skill SkillLevel, templateWeek, day int) (Template, bool) {
	template, ok := l.byKey[libraryKey{
		categoryID:   categoryID,
		phase:        phase,
		skill:        skill,
		templateWeek: templateWeek,
		day:          day,
	}]
	return template, ok
}

// ByID looks up a template by id.
func (l Library) ByID(id int64) (Template, bool) {
	template, ok := l.byID[id]
	return template, ok
}

// Completed-session statuses reported by the execution collaborator.
const (
	SessionCompleted  = "completed"
	SessionInProgress = "in_progress"
)

// CompletedSession is a read-only fact about an executed workout.
type CompletedSession struct {
	TemplateID  int64
	Status      string
	CompletedAt time.Time
}

// CompletedSet indexes completed-session facts by template id for the cascade
// and calendar logic. In-progress sessions do not count as completed.
type CompletedSet map[int64]CompletedSession

// NewCompletedSet indexes the facts, keeping the earliest completion per
// template.
func NewCompletedSet(facts []CompletedSession) CompletedSet {
	set := make(CompletedSet, len(facts))
	for _, fact := range facts {
		existing, ok := set[fact.TemplateID]
		if !ok || fact.CompletedAt.Before(existing.CompletedAt) {
			set[fact.TemplateID] = fact
		}
	}
	return set
}

// IsCompleted reports whether the template has a completed session.
func (c CompletedSet) IsCompleted(templateID int64) bool {
	fact, ok := c[templateID]
	return ok && fact.Status == SessionCompleted
}

// IsInProgress reports whether the template has a started but unfinished
// session.
func (c CompletedSet) IsInProgress(templateID int64) bool {
	fact, ok := c[templateID]
	return ok && fact.Status == SessionInProgress
}

// ValidationError rejects malformed input before any mutation happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConflictError rejects an operation whose preconditions the current program
// state violates. Code is a stable reason the caller can present precisely.
type ConflictError struct {
	Code    string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Conflict reason codes.
const (
	ConflictWorkoutCompleted    = "workout_completed"
	ConflictReassessmentPending = "reassessment_pending"
	ConflictNoReassessmentDue   = "no_reassessment_due"
	ConflictProgramPaused       = "program_paused"
	ConflictProgramNotPaused    = "program_not_paused"
	ConflictPhaseLocked         = "phase_locked"
	ConflictCrossWeekSwap       = "cross_week_swap"
	ConflictSameSlot            = "same_slot"
)

// Sentinel errors shared across the package.
var (
	// ErrProgramNotFound means the athlete has not completed intake yet.
	ErrProgramNotFound = errors.NewSentinel("program not found")
	// ErrTemplateNotScheduled means no slot currently resolves to the
	// requested template.
	ErrTemplateNotScheduled = errors.NewSentinel("template is not scheduled in this program")
	// ErrTemplateGap marks a missing content-library entry. This is a data
	// error, not a user error: log it and degrade, never crash the request.
	ErrTemplateGap = errors.NewSentinel("content library has no template for slot")
	// ErrNotFound is the generic repository miss.
	ErrNotFound = errors.NewSentinel("not found")
)
