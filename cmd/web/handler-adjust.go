package main

import (
	"net/http"
	"time"

	"github.com/villesola/traincal/internal/schedule"
)

type cascadeRequest struct {
	TemplateID int64 `json:"templateId"`
}

// cascadePOST pulls a selected future workout into today's slot, shifting the
// window in between one position later.
func (app *application) cascadePOST(w http.ResponseWriter, r *http.Request) {
	var req cascadeRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}
	result, err := app.scheduleService.CascadeWorkoutToToday(r.Context(), req.TemplateID)
	if err != nil {
		app.writeError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, result)
}

type swapRequest struct {
	Source schedule.Slot `json:"source"`
	Target schedule.Slot `json:"target"`
}

// swapPOST exchanges the content of two same-week slots.
func (app *application) swapPOST(w http.ResponseWriter, r *http.Request) {
	var req swapRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}
	if err := app.scheduleService.SwapWorkouts(r.Context(), req.Source, req.Target); err != nil {
		app.writeError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, statusOK())
}

type moveRequest struct {
	Slot schedule.Slot `json:"source"`
	Date string        `json:"date"`
}

// movePOST relocates a workout to another calendar date.
func (app *application) movePOST(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}
	targetDate, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		app.writeJSON(w, r, http.StatusBadRequest, errorResponse{
			Error: errorBody{Code: "validation", Message: "expected YYYY-MM-DD", Field: "date"},
		})
		return
	}
	if err = app.scheduleService.MoveWorkoutToDate(r.Context(), req.Slot, targetDate); err != nil {
		app.writeError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, statusOK())
}
