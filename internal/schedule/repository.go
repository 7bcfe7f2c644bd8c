package schedule

import (
	"context"
	"log/slog"
	"time"

	"github.com/villesola/traincal/internal/sqlite"
)

const timestampFormat = "2006-01-02T15:04:05.000Z"

// repository contains the repositories for the scheduling domain aggregates.
type repository struct {
	athletes      athleteRepository
	programs      programRepository
	overrides     overrideRepository
	templates     templateRepository
	sessions      sessionRepository
	reassessments reassessmentRepository
	intakes       intakeRepository
}

// athleteRepository handles athlete identity rows.
type athleteRepository interface {
	Ensure(ctx context.Context, athleteID int64) error
}

// programRepository handles the per-athlete program aggregate.
type programRepository interface {
	Get(ctx context.Context) (Program, error)
	Upsert(ctx context.Context, program Program) error
}

// overrideRepository handles the program's customisation record: slot
// overrides, date overrides, and the today-focus pointer.
type overrideRepository interface {
	Get(ctx context.Context) (OverrideRecord, error)
	Replace(ctx context.Context, record OverrideRecord) error
	Clear(ctx context.Context) error
}

// templateRepository reads the static content library.
type templateRepository interface {
	ListByCategory(ctx context.Context, categoryID int64) ([]Template, error)
	Get(ctx context.Context, templateID int64) (Template, error)
}

// sessionRepository handles completed-session facts.
type sessionRepository interface {
	List(ctx context.Context) ([]CompletedSession, error)
	Create(ctx context.Context, fact CompletedSession) error
}

// reassessmentRepository records completed reassessments for the audit trail.
type reassessmentRepository interface {
	Create(ctx context.Context, phase Phase, input ReassessmentInput, completionRate float64, completedAt time.Time) error
}

// intakeRepository keeps intake snapshots. Redoing intake archives the old
// snapshot rather than deleting it.
type intakeRepository interface {
	Create(ctx context.Context, intake Intake, submittedAt time.Time) error
	ArchiveActive(ctx context.Context, archivedAt time.Time) error
}

// repositoryFactory creates repository instances.
type repositoryFactory struct {
	db     *sqlite.Database
	logger *slog.Logger
}

// newRepositoryFactory creates a new repository factory.
func newRepositoryFactory(db *sqlite.Database, logger *slog.Logger) *repositoryFactory {
	return &repositoryFactory{
		db:     db,
		logger: logger,
	}
}

// newRepository creates a new repository aggregate.
func (f *repositoryFactory) newRepository() *repository {
	return &repository{
		athletes:      newSQLiteAthleteRepository(f.db),
		programs:      newSQLiteProgramRepository(f.db, f.logger),
		overrides:     newSQLiteOverrideRepository(f.db),
		templates:     newSQLiteTemplateRepository(f.db),
		sessions:      newSQLiteSessionRepository(f.db),
		reassessments: newSQLiteReassessmentRepository(f.db),
		intakes:       newSQLiteIntakeRepository(f.db),
	}
}

// formatNullableTime renders an optional timestamp for storage.
func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timestampFormat)
}

// parseNullableTime parses an optional stored timestamp.
func parseNullableTime(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(timestampFormat, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
