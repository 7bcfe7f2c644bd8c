package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/villesola/traincal/internal/contexthelpers"
	"github.com/villesola/traincal/internal/sqlite"
)

// sqliteIntakeRepository implements intakeRepository.
type sqliteIntakeRepository struct {
	db *sqlite.Database
}

func newSQLiteIntakeRepository(db *sqlite.Database) *sqliteIntakeRepository {
	return &sqliteIntakeRepository{db: db}
}

// Create stores a fresh intake snapshot.
func (r *sqliteIntakeRepository) Create(ctx context.Context, intake Intake, submittedAt time.Time) error {
	athleteID := contexthelpers.AuthenticatedAthleteID(ctx)

	days := make([]string, len(intake.TrainingWeekdays))
	for i, weekday := range intake.TrainingWeekdays {
		days[i] = strconv.Itoa(int(weekday))
	}

	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO intake_snapshots (
			athlete_id, category_id, skill_level, age_group, total_program_weeks,
			training_days, submitted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		athleteID,
		intake.CategoryID,
		string(intake.Skill),
		intake.AgeGroup,
		intake.TotalProgramWeeks,
		strings.Join(days, ","),
		submittedAt.UTC().Format(timestampFormat),
	)
	if err != nil {
		return fmt.Errorf("insert intake snapshot: %w", err)
	}
	return nil
}

// ArchiveActive stamps every unarchived snapshot, keeping the history when an
// athlete redoes intake.
func (r *sqliteIntakeRepository) ArchiveActive(ctx context.Context, archivedAt time.Time) error {
	athleteID := contexthelpers.AuthenticatedAthleteID(ctx)

	_, err := r.db.ReadWrite.ExecContext(ctx, `
		UPDATE intake_snapshots SET archived_at = ?
		WHERE athlete_id = ? AND archived_at IS NULL`,
		archivedAt.UTC().Format(timestampFormat), athleteID)
	if err != nil {
		return fmt.Errorf("archive intake snapshots: %w", err)
	}
	return nil
}
