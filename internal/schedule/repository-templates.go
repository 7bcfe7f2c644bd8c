package schedule

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/villesola/traincal/internal/errors"
	"github.com/villesola/traincal/internal/sqlite"
)

// sqliteTemplateRepository implements templateRepository over the read-only
// content library.
type sqliteTemplateRepository struct {
	db *sqlite.Database
}

func newSQLiteTemplateRepository(db *sqlite.Database) *sqliteTemplateRepository {
	return &sqliteTemplateRepository{db: db}
}

// ListByCategory loads every template of a sport category with its exercises.
func (r *sqliteTemplateRepository) ListByCategory(ctx context.Context, categoryID int64) (_ []Template, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, category_id, phase, skill_level, template_week, day, name, description_markdown
		FROM workout_templates
		WHERE category_id = ?
		ORDER BY phase, skill_level, template_week, day`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	var templates []Template
	for rows.Next() {
		template, scanErr := scanTemplate(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		templates = append(templates, template)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}

	if err = r.attachExercises(ctx, categoryID, templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// Get loads a single template by id.
func (r *sqliteTemplateRepository) Get(ctx context.Context, templateID int64) (Template, error) {
	row := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, category_id, phase, skill_level, template_week, day, name, description_markdown
		FROM workout_templates
		WHERE id = ?`, templateID)

	template, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Template{}, ErrNotFound
	}
	if err != nil {
		return Template{}, err
	}

	if template.Exercises, err = r.fetchExercises(ctx, templateID); err != nil {
		return Template{}, err
	}
	return template, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (Template, error) {
	var (
		template Template
		phase    string
		skill    string
	)
	err := row.Scan(
		&template.ID,
		&template.CategoryID,
		&phase,
		&skill,
		&template.TemplateWeek,
		&template.Day,
		&template.Name,
		&template.DescriptionMarkdown,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Template{}, err
	}
	if err != nil {
		return Template{}, fmt.Errorf("scan template: %w", err)
	}
	if template.Phase, err = ParsePhase(phase); err != nil {
		return Template{}, fmt.Errorf("parse template phase: %w", err)
	}
	if template.Skill, err = ParseSkillLevel(skill); err != nil {
		return Template{}, fmt.Errorf("parse template skill: %w", err)
	}
	return template, nil
}

// attachExercises loads all exercises of a category in one query and fans
// them out to the templates.
func (r *sqliteTemplateRepository) attachExercises(
	ctx context.Context,
	categoryID int64,
	templates []Template,
) (err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT te.template_id, te.position, te.name, te.sets, te.reps
		FROM template_exercises te
		JOIN workout_templates wt ON wt.id = te.template_id
		WHERE wt.category_id = ?
		ORDER BY te.template_id, te.position`, categoryID)
	if err != nil {
		return fmt.Errorf("query template exercises: %w", err)
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	byTemplate := make(map[int64][]TemplateExercise, len(templates))
	for rows.Next() {
		var (
			templateID int64
			exercise   TemplateExercise
		)
		if err = rows.Scan(&templateID, &exercise.Position, &exercise.Name, &exercise.Sets, &exercise.Reps); err != nil {
			return fmt.Errorf("scan template exercise: %w", err)
		}
		byTemplate[templateID] = append(byTemplate[templateID], exercise)
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("iterate template exercises: %w", err)
	}

	for i := range templates {
		templates[i].Exercises = byTemplate[templates[i].ID]
	}
	return nil
}

func (r *sqliteTemplateRepository) fetchExercises(ctx context.Context, templateID int64) (_ []TemplateExercise, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT position, name, sets, reps FROM template_exercises
		WHERE template_id = ?
		ORDER BY position`, templateID)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	var exercises []TemplateExercise
	for rows.Next() {
		var exercise TemplateExercise
		if err = rows.Scan(&exercise.Position, &exercise.Name, &exercise.Sets, &exercise.Reps); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		exercises = append(exercises, exercise)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exercises: %w", err)
	}
	return exercises, nil
}
