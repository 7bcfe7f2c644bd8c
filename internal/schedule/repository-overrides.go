package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/villesola/traincal/internal/contexthelpers"
	"github.com/villesola/traincal/internal/errors"
	"github.com/villesola/traincal/internal/sqlite"
)

// sqliteOverrideRepository implements overrideRepository. The record spans
// three places: the slot_overrides and date_overrides tables, and the
// today_focus_template_id column on the programs row.
type sqliteOverrideRepository struct {
	db *sqlite.Database
}

func newSQLiteOverrideRepository(db *sqlite.Database) *sqliteOverrideRepository {
	return &sqliteOverrideRepository{db: db}
}

// Get loads the full override record for the authenticated athlete. A program
// with no customisations yields an empty record, not an error.
func (r *sqliteOverrideRepository) Get(ctx context.Context) (OverrideRecord, error) {
	athleteID := contexthelpers.AuthenticatedAthleteID(ctx)
	record := NewOverrideRecord()

	if err := r.fetchSlotOverrides(ctx, athleteID, &record); err != nil {
		return OverrideRecord{}, err
	}
	if err := r.fetchDateOverrides(ctx, athleteID, &record); err != nil {
		return OverrideRecord{}, err
	}

	var todayFocus *int64
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT today_focus_template_id FROM programs
		WHERE athlete_id = ?`, athleteID).Scan(&todayFocus)
	if err != nil {
		return OverrideRecord{}, fmt.Errorf("query today focus: %w", err)
	}
	record.TodayFocusTemplateID = todayFocus
	return record, nil
}

func (r *sqliteOverrideRepository) fetchSlotOverrides(
	ctx context.Context,
	athleteID int64,
	record *OverrideRecord,
) (err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT phase, week, day, template_id FROM slot_overrides
		WHERE athlete_id = ?`, athleteID)
	if err != nil {
		return fmt.Errorf("query slot overrides: %w", err)
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	for rows.Next() {
		var (
			phase      string
			slot       Slot
			templateID int64
		)
		if err = rows.Scan(&phase, &slot.Week, &slot.Day, &templateID); err != nil {
			return fmt.Errorf("scan slot override: %w", err)
		}
		if slot.Phase, err = ParsePhase(phase); err != nil {
			return fmt.Errorf("parse slot override phase: %w", err)
		}
		record.SlotOverrides[slot] = templateID
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("iterate slot overrides: %w", err)
	}
	return nil
}

func (r *sqliteOverrideRepository) fetchDateOverrides(
	ctx context.Context,
	athleteID int64,
	record *OverrideRecord,
) (err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT phase, week, day, effective_date FROM date_overrides
		WHERE athlete_id = ?`, athleteID)
	if err != nil {
		return fmt.Errorf("query date overrides: %w", err)
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	for rows.Next() {
		var (
			phase         string
			slot          Slot
			effectiveDate string
		)
		if err = rows.Scan(&phase, &slot.Week, &slot.Day, &effectiveDate); err != nil {
			return fmt.Errorf("scan date override: %w", err)
		}
		if slot.Phase, err = ParsePhase(phase); err != nil {
			return fmt.Errorf("parse date override phase: %w", err)
		}
		var date time.Time
		if date, err = time.Parse(dateFormat, effectiveDate); err != nil {
			return fmt.Errorf("parse override date: %w", err)
		}
		record.DateOverrides[slot] = date
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("iterate date overrides: %w", err)
	}
	return nil
}

// Replace rewrites the whole override record in one transaction. The record
// is small (bounded by the program's slot count), so a full rewrite is
// simpler than diffing.
func (r *sqliteOverrideRepository) Replace(ctx context.Context, record OverrideRecord) (err error) {
	athleteID := contexthelpers.AuthenticatedAthleteID(ctx)

	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin override replace: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	if _, err = tx.ExecContext(ctx, `
		DELETE FROM slot_overrides WHERE athlete_id = ?`, athleteID); err != nil {
		return fmt.Errorf("clear slot overrides: %w", err)
	}
	for slot, templateID := range record.SlotOverrides {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO slot_overrides (athlete_id, phase, week, day, template_id)
			VALUES (?, ?, ?, ?, ?)`,
			athleteID, string(slot.Phase), slot.Week, slot.Day, templateID); err != nil {
			return fmt.Errorf("insert slot override %s: %w", slot, err)
		}
	}

	if _, err = tx.ExecContext(ctx, `
		DELETE FROM date_overrides WHERE athlete_id = ?`, athleteID); err != nil {
		return fmt.Errorf("clear date overrides: %w", err)
	}
	for slot, date := range record.DateOverrides {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO date_overrides (athlete_id, phase, week, day, effective_date)
			VALUES (?, ?, ?, ?, ?)`,
			athleteID, string(slot.Phase), slot.Week, slot.Day, date.Format(dateFormat)); err != nil {
			return fmt.Errorf("insert date override %s: %w", slot, err)
		}
	}

	var todayFocus any
	if record.TodayFocusTemplateID != nil {
		todayFocus = *record.TodayFocusTemplateID
	}
	if _, err = tx.ExecContext(ctx, `
		UPDATE programs SET today_focus_template_id = ?
		WHERE athlete_id = ?`, todayFocus, athleteID); err != nil {
		return fmt.Errorf("update today focus: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit override replace: %w", err)
	}
	return nil
}

// Clear drops every customisation, used when a program is reset or recreated.
func (r *sqliteOverrideRepository) Clear(ctx context.Context) error {
	return r.Replace(ctx, NewOverrideRecord())
}
