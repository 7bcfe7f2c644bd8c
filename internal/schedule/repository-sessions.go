package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/villesola/traincal/internal/contexthelpers"
	"github.com/villesola/traincal/internal/errors"
	"github.com/villesola/traincal/internal/sqlite"
)

// sqliteSessionRepository implements sessionRepository over the
// completed-session facts.
type sqliteSessionRepository struct {
	db *sqlite.Database
}

func newSQLiteSessionRepository(db *sqlite.Database) *sqliteSessionRepository {
	return &sqliteSessionRepository{db: db}
}

// List loads all session facts for the authenticated athlete.
func (r *sqliteSessionRepository) List(ctx context.Context) (_ []CompletedSession, err error) {
	athleteID := contexthelpers.AuthenticatedAthleteID(ctx)

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT template_id, status, completed_at FROM completed_sessions
		WHERE athlete_id = ?
		ORDER BY completed_at`, athleteID)
	if err != nil {
		return nil, fmt.Errorf("query completed sessions: %w", err)
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	var facts []CompletedSession
	for rows.Next() {
		var (
			fact        CompletedSession
			completedAt string
		)
		if err = rows.Scan(&fact.TemplateID, &fact.Status, &completedAt); err != nil {
			return nil, fmt.Errorf("scan completed session: %w", err)
		}
		if fact.CompletedAt, err = time.Parse(timestampFormat, completedAt); err != nil {
			return nil, fmt.Errorf("parse completion time: %w", err)
		}
		facts = append(facts, fact)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completed sessions: %w", err)
	}
	return facts, nil
}

// Create records one session fact.
func (r *sqliteSessionRepository) Create(ctx context.Context, fact CompletedSession) error {
	athleteID := contexthelpers.AuthenticatedAthleteID(ctx)

	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO completed_sessions (athlete_id, template_id, status, completed_at)
		VALUES (?, ?, ?, ?)`,
		athleteID, fact.TemplateID, fact.Status, fact.CompletedAt.UTC().Format(timestampFormat))
	if err != nil {
		return fmt.Errorf("insert completed session: %w", err)
	}
	return nil
}
