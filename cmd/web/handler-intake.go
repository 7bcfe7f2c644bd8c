package main

import (
	"net/http"

	"github.com/villesola/traincal/internal/schedule"
)

// intakePOST derives a fresh program from the intake questionnaire. Redoing
// intake replaces the program and drops all customisations.
func (app *application) intakePOST(w http.ResponseWriter, r *http.Request) {
	var intake schedule.Intake
	if !app.decodeJSON(w, r, &intake) {
		return
	}

	program, err := app.scheduleService.CreateProgramFromIntake(r.Context(), intake)
	if err != nil {
		app.writeError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusCreated, newProgramResponse(program))
}

// programGET returns the athlete's current program.
func (app *application) programGET(w http.ResponseWriter, r *http.Request) {
	program, err := app.scheduleService.GetProgram(r.Context())
	if err != nil {
		app.writeError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, newProgramResponse(program))
}
