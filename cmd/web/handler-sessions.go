package main

import (
	"net/http"
	"time"
)

type sessionCompleteRequest struct {
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// sessionCompletePOST ingests a session fact from the workout execution side.
func (app *application) sessionCompletePOST(w http.ResponseWriter, r *http.Request) {
	templateID, ok := app.parseTemplateIDParam(w, r)
	if !ok {
		return
	}

	var req sessionCompleteRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}
	completedAt := time.Time{}
	if req.CompletedAt != nil {
		completedAt = *req.CompletedAt
	}

	if err := app.scheduleService.RecordCompletedSession(r.Context(), templateID, req.Status, completedAt); err != nil {
		app.writeError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, statusOK())
}
