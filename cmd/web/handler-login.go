package main

import (
	"net/http"
	"strconv"

	"github.com/villesola/traincal/internal/errors"
)

type loginResponse struct {
	AthleteID int64 `json:"athleteId"`
}

// loginPOST establishes a session for the athlete named in the path. The
// identity row is created on first login.
func (app *application) loginPOST(w http.ResponseWriter, r *http.Request) {
	athleteID, err := strconv.ParseInt(r.PathValue("athleteID"), 10, 64)
	if err != nil || athleteID <= 0 {
		app.writeJSON(w, r, http.StatusBadRequest, errorResponse{
			Error: errorBody{Code: "validation", Message: "athlete id must be a positive integer", Field: "athleteID"},
		})
		return
	}

	ctx := r.Context()
	if err = app.scheduleService.EnsureAthlete(ctx, athleteID); err != nil {
		app.serverError(w, r, errors.Wrap(err, "ensure athlete"))
		return
	}

	// Renew the session token on privilege change to prevent session fixation.
	if err = app.sessionManager.RenewToken(ctx); err != nil {
		app.serverError(w, r, errors.Wrap(err, "renew session token"))
		return
	}
	app.sessionManager.Put(ctx, sessionKeyAthleteID, athleteID)

	app.writeJSON(w, r, http.StatusOK, loginResponse{AthleteID: athleteID})
}

// logoutPOST tears down the session.
func (app *application) logoutPOST(w http.ResponseWriter, r *http.Request) {
	if err := app.sessionManager.Destroy(r.Context()); err != nil {
		app.serverError(w, r, errors.Wrap(err, "destroy session"))
		return
	}
	app.writeJSON(w, r, http.StatusOK, statusOK())
}
