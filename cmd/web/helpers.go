package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/villesola/traincal/internal/errors"
	"github.com/villesola/traincal/internal/schedule"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type okResponse struct {
	Status string `json:"status"`
}

func statusOK() okResponse {
	return okResponse{Status: "ok"}
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "encode response", errors.SlogError(err))
	}
}

func (app *application) decodeJSON(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		app.writeJSON(w, r, http.StatusBadRequest, errorResponse{
			Error: errorBody{Code: "malformed_body", Message: fmt.Sprintf("decode request body: %v", err)},
		})
		return false
	}
	return true
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	app.writeJSON(w, r, http.StatusInternalServerError, errorResponse{
		Error: errorBody{Code: "internal", Message: "internal server error"},
	})
}

// writeError maps domain errors onto HTTP statuses: validation failures are
// 400, state conflicts 409 with their stable reason code, and missing
// aggregates 404. Anything else is a server error.
func (app *application) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *schedule.ValidationError
		conflictErr   *schedule.ConflictError
	)
	switch {
	case errors.As(err, &validationErr):
		app.writeJSON(w, r, http.StatusBadRequest, errorResponse{
			Error: errorBody{Code: "validation", Message: validationErr.Message, Field: validationErr.Field},
		})
	case errors.As(err, &conflictErr):
		app.writeJSON(w, r, http.StatusConflict, errorResponse{
			Error: errorBody{Code: conflictErr.Code, Message: conflictErr.Message},
		})
	case errors.Is(err, schedule.ErrProgramNotFound):
		app.writeJSON(w, r, http.StatusNotFound, errorResponse{
			Error: errorBody{Code: "program_not_found", Message: "complete the intake questionnaire first"},
		})
	case errors.Is(err, schedule.ErrNotFound):
		app.writeJSON(w, r, http.StatusNotFound, errorResponse{
			Error: errorBody{Code: "not_found", Message: "resource not found"},
		})
	case errors.Is(err, schedule.ErrTemplateNotScheduled):
		app.writeJSON(w, r, http.StatusNotFound, errorResponse{
			Error: errorBody{Code: "template_not_scheduled", Message: "template is not scheduled in this program"},
		})
	default:
		app.serverError(w, r, err)
	}
}

// parseTemplateIDParam parses the "templateID" path parameter from the request URL.
// On failure, sends HTTP 404 response automatically.
func (app *application) parseTemplateIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	templateID, err := strconv.ParseInt(r.PathValue("templateID"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return 0, false
	}
	return templateID, true
}

// parseDateQuery parses an optional YYYY-MM-DD query parameter. A missing
// parameter yields the zero time.
func (app *application) parseDateQuery(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return time.Time{}, true
	}
	date, err := time.Parse(time.DateOnly, value)
	if err != nil {
		app.writeJSON(w, r, http.StatusBadRequest, errorResponse{
			Error: errorBody{Code: "validation", Message: "expected YYYY-MM-DD", Field: name},
		})
		return time.Time{}, false
	}
	return date, true
}

// programResponse is the wire representation of a program.
type programResponse struct {
	AthleteID              int64               `json:"athleteId"`
	CategoryID             int64               `json:"categoryId"`
	SkillLevel             schedule.SkillLevel `json:"skillLevel"`
	AgeGroup               string              `json:"ageGroup"`
	StartDate              string              `json:"startDate"`
	TotalWeeks             int                 `json:"totalWeeks"`
	WeeksPerPhase          int                 `json:"weeksPerPhase"`
	WorkoutsPerWeek        int                 `json:"workoutsPerWeek"`
	TrainingWeekdays       []int               `json:"trainingWeekdays"`
	CurrentPhase           schedule.Phase      `json:"currentPhase"`
	CurrentWeek            int                 `json:"currentWeek"`
	CurrentDay             int                 `json:"currentDay"`
	SppUnlockedAt          *time.Time          `json:"sppUnlockedAt,omitempty"`
	SspUnlockedAt          *time.Time          `json:"sspUnlockedAt,omitempty"`
	Paused                 bool                `json:"paused"`
	PauseReason            string              `json:"pauseReason,omitempty"`
	ReassessmentPending    *schedule.Phase     `json:"reassessmentPending,omitempty"`
	ReassessmentsCompleted int                 `json:"reassessmentsCompleted"`
}

func newProgramResponse(program schedule.Program) programResponse {
	weekdays := make([]int, 0, len(program.TrainingDays))
	for _, weekday := range program.TrainingDays {
		weekdays = append(weekdays, int(weekday))
	}
	return programResponse{
		AthleteID:              program.AthleteID,
		CategoryID:             program.CategoryID,
		SkillLevel:             program.Skill,
		AgeGroup:               program.AgeGroup,
		StartDate:              program.StartDate.Format(time.DateOnly),
		TotalWeeks:             program.TotalWeeks,
		WeeksPerPhase:          program.WeeksPerPhase,
		WorkoutsPerWeek:        program.WorkoutsPerWeek(),
		TrainingWeekdays:       weekdays,
		CurrentPhase:           program.CurrentPhase,
		CurrentWeek:            program.CurrentWeek,
		CurrentDay:             program.CurrentDay,
		SppUnlockedAt:          program.SPPUnlockedAt,
		SspUnlockedAt:          program.SSPUnlockedAt,
		Paused:                 program.PausedAt != nil,
		PauseReason:            program.PauseReason,
		ReassessmentPending:    program.ReassessmentPending,
		ReassessmentsCompleted: program.ReassessmentsCompleted,
	}
}
