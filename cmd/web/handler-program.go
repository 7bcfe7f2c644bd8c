package main

import (
	"net/http"

	"github.com/villesola/traincal/internal/schedule"
)

// programAdvancePOST moves the program position one training day forward.
func (app *application) programAdvancePOST(w http.ResponseWriter, r *http.Request) {
	program, err := app.scheduleService.AdvanceToNextDay(r.Context())
	if err != nil {
		app.writeError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, newProgramResponse(program))
}

type pauseRequest struct {
	Reason string `json:"reason"`
}

// programPausePOST freezes progression.
func (app *application) programPausePOST(w http.ResponseWriter, r *http.Request) {
	var req pauseRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}
	program, err := app.scheduleService.PauseProgram(r.Context(), req.Reason)
	if err != nil {
		app.writeError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, newProgramResponse(program))
}

type resumeResponse struct {
	Program  programResponse `json:"program"`
	WasReset bool            `json:"wasReset"`
}

// programResumePOST unfreezes progression. A pause of two weeks or longer
// resets the program to the start of GPP.
func (app *application) programResumePOST(w http.ResponseWriter, r *http.Request) {
	program, result, err := app.scheduleService.ResumeProgram(r.Context())
	if err != nil {
		app.writeError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, resumeResponse{
		Program:  newProgramResponse(program),
		WasReset: result.WasReset,
	})
}

// programResetPOST restarts the athlete at GPP week 1.
func (app *application) programResetPOST(w http.ResponseWriter, r *http.Request) {
	program, err := app.scheduleService.ResetProgram(r.Context())
	if err != nil {
		app.writeError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, newProgramResponse(program))
}

// reassessmentTriggerPOST marks the current phase's reassessment pending
// ahead of schedule.
func (app *application) reassessmentTriggerPOST(w http.ResponseWriter, r *http.Request) {
	program, err := app.scheduleService.TriggerReassessment(r.Context())
	if err != nil {
		app.writeError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, newProgramResponse(program))
}

// reassessmentCompletePOST closes the pending reassessment and moves the
// program into the next phase.
func (app *application) reassessmentCompletePOST(w http.ResponseWriter, r *http.Request) {
	var input schedule.ReassessmentInput
	if !app.decodeJSON(w, r, &input) {
		return
	}
	outcome, err := app.scheduleService.CompleteReassessment(r.Context(), input)
	if err != nil {
		app.writeError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, outcome)
}
