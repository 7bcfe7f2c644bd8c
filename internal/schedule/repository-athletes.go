package schedule

import (
	"context"
	"fmt"

	"github.com/villesola/traincal/internal/sqlite"
)

// sqliteAthleteRepository implements athleteRepository.
type sqliteAthleteRepository struct {
	db *sqlite.Database
}

func newSQLiteAthleteRepository(db *sqlite.Database) *sqliteAthleteRepository {
	return &sqliteAthleteRepository{db: db}
}

// Ensure creates the athlete row if it does not exist yet. The id comes from
// the login call rather than the authenticated context because the session is
// established only after this succeeds.
func (r *sqliteAthleteRepository) Ensure(ctx context.Context, athleteID int64) error {
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO athletes (id) VALUES (?)
		ON CONFLICT (id) DO NOTHING`, athleteID)
	if err != nil {
		return fmt.Errorf("ensure athlete: %w", err)
	}
	return nil
}
