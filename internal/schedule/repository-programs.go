package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/villesola/traincal/internal/contexthelpers"
	"github.com/villesola/traincal/internal/errors"
	"github.com/villesola/traincal/internal/sqlite"
)

// sqliteProgramRepository implements programRepository.
type sqliteProgramRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newSQLiteProgramRepository(db *sqlite.Database, logger *slog.Logger) *sqliteProgramRepository {
	return &sqliteProgramRepository{
		db:     db,
		logger: logger,
	}
}

// Get loads the authenticated athlete's program together with its training
// days. ErrProgramNotFound means the athlete has not completed intake.
func (r *sqliteProgramRepository) Get(ctx context.Context) (Program, error) {
	athleteID := contexthelpers.AuthenticatedAthleteID(ctx)

	var (
		program             Program
		skill               string
		startDate           string
		currentPhase        string
		sppUnlockedAt       *string
		sspUnlockedAt       *string
		pausedAt            *string
		reassessmentPending *string
		updatedAt           string
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT athlete_id, category_id, skill_level, age_group, start_date,
		       total_weeks, weeks_per_phase, current_phase, current_week, current_day,
		       spp_unlocked_at, ssp_unlocked_at, paused_at, pause_reason,
		       reassessment_pending_phase, reassessments_completed, updated_at
		FROM programs
		WHERE athlete_id = ?`, athleteID).Scan(
		&program.AthleteID,
		&program.CategoryID,
		&skill,
		&program.AgeGroup,
		&startDate,
		&program.TotalWeeks,
		&program.WeeksPerPhase,
		&currentPhase,
		&program.CurrentWeek,
		&program.CurrentDay,
		&sppUnlockedAt,
		&sspUnlockedAt,
		&pausedAt,
		&program.PauseReason,
		&reassessmentPending,
		&program.ReassessmentsCompleted,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Program{}, ErrProgramNotFound
	}
	if err != nil {
		return Program{}, fmt.Errorf("query program: %w", err)
	}

	if program.Skill, err = ParseSkillLevel(skill); err != nil {
		return Program{}, fmt.Errorf("parse skill level: %w", err)
	}
	if program.CurrentPhase, err = ParsePhase(currentPhase); err != nil {
		return Program{}, fmt.Errorf("parse current phase: %w", err)
	}
	if program.StartDate, err = time.Parse(dateFormat, startDate); err != nil {
		return Program{}, fmt.Errorf("parse start date: %w", err)
	}
	if program.UpdatedAt, err = time.Parse(timestampFormat, updatedAt); err != nil {
		return Program{}, fmt.Errorf("parse updated at: %w", err)
	}
	if program.SPPUnlockedAt, err = parseNullableTime(sppUnlockedAt); err != nil {
		return Program{}, fmt.Errorf("parse spp unlocked at: %w", err)
	}
	if program.SSPUnlockedAt, err = parseNullableTime(sspUnlockedAt); err != nil {
		return Program{}, fmt.Errorf("parse ssp unlocked at: %w", err)
	}
	if program.PausedAt, err = parseNullableTime(pausedAt); err != nil {
		return Program{}, fmt.Errorf("parse paused at: %w", err)
	}
	if reassessmentPending != nil {
		phase, parseErr := ParsePhase(*reassessmentPending)
		if parseErr != nil {
			return Program{}, fmt.Errorf("parse pending phase: %w", parseErr)
		}
		program.ReassessmentPending = &phase
	}

	if program.TrainingDays, err = r.fetchTrainingDays(ctx, athleteID); err != nil {
		return Program{}, err
	}
	return program, nil
}

func (r *sqliteProgramRepository) fetchTrainingDays(ctx context.Context, athleteID int64) (_ TrainingDays, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT weekday FROM program_training_days
		WHERE athlete_id = ?
		ORDER BY weekday`, athleteID)
	if err != nil {
		return nil, fmt.Errorf("query training days: %w", err)
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	var days TrainingDays
	for rows.Next() {
		var weekday int
		if err = rows.Scan(&weekday); err != nil {
			return nil, fmt.Errorf("scan training day: %w", err)
		}
		days = append(days, time.Weekday(weekday))
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate training days: %w", err)
	}
	return days, nil
}

// Upsert writes the program and its training days in one transaction.
func (r *sqliteProgramRepository) Upsert(ctx context.Context, program Program) (err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin program upsert: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	var pendingPhase *string
	if program.ReassessmentPending != nil {
		s := string(*program.ReassessmentPending)
		pendingPhase = &s
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO programs (
			athlete_id, category_id, skill_level, age_group, start_date,
			total_weeks, weeks_per_phase, current_phase, current_week, current_day,
			spp_unlocked_at, ssp_unlocked_at, paused_at, pause_reason,
			reassessment_pending_phase, reassessments_completed, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (athlete_id) DO UPDATE SET
			category_id = excluded.category_id,
			skill_level = excluded.skill_level,
			age_group = excluded.age_group,
			start_date = excluded.start_date,
			total_weeks = excluded.total_weeks,
			weeks_per_phase = excluded.weeks_per_phase,
			current_phase = excluded.current_phase,
			current_week = excluded.current_week,
			current_day = excluded.current_day,
			spp_unlocked_at = excluded.spp_unlocked_at,
			ssp_unlocked_at = excluded.ssp_unlocked_at,
			paused_at = excluded.paused_at,
			pause_reason = excluded.pause_reason,
			reassessment_pending_phase = excluded.reassessment_pending_phase,
			reassessments_completed = excluded.reassessments_completed,
			updated_at = excluded.updated_at`,
		program.AthleteID,
		program.CategoryID,
		string(program.Skill),
		program.AgeGroup,
		program.StartDate.Format(dateFormat),
		program.TotalWeeks,
		program.WeeksPerPhase,
		string(program.CurrentPhase),
		program.CurrentWeek,
		program.CurrentDay,
		formatNullableTime(program.SPPUnlockedAt),
		formatNullableTime(program.SSPUnlockedAt),
		formatNullableTime(program.PausedAt),
		program.PauseReason,
		pendingPhase,
		program.ReassessmentsCompleted,
		program.UpdatedAt.UTC().Format(timestampFormat),
	)
	if err != nil {
		return fmt.Errorf("upsert program: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `
		DELETE FROM program_training_days WHERE athlete_id = ?`, program.AthleteID); err != nil {
		return fmt.Errorf("clear training days: %w", err)
	}
	for _, weekday := range program.TrainingDays {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO program_training_days (athlete_id, weekday)
			VALUES (?, ?)`, program.AthleteID, int(weekday)); err != nil {
			return fmt.Errorf("insert training day: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit program upsert: %w", err)
	}
	return nil
}
