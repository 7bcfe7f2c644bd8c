package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/villesola/traincal/internal/contexthelpers"
	"github.com/villesola/traincal/internal/sqlite"
)

// sqliteReassessmentRepository implements reassessmentRepository.
type sqliteReassessmentRepository struct {
	db *sqlite.Database
}

func newSQLiteReassessmentRepository(db *sqlite.Database) *sqliteReassessmentRepository {
	return &sqliteReassessmentRepository{db: db}
}

// Create appends one reassessment to the audit trail.
func (r *sqliteReassessmentRepository) Create(
	ctx context.Context,
	phase Phase,
	input ReassessmentInput,
	completionRate float64,
	completedAt time.Time,
) error {
	athleteID := contexthelpers.AuthenticatedAthleteID(ctx)

	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO reassessments (
			athlete_id, phase, difficulty, energy, notes, maxes_updated, completion_rate, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		athleteID,
		string(phase),
		input.Difficulty,
		input.Energy,
		input.Notes,
		input.MaxesUpdated,
		completionRate,
		completedAt.UTC().Format(timestampFormat),
	)
	if err != nil {
		return fmt.Errorf("insert reassessment: %w", err)
	}
	return nil
}
