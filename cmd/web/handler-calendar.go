package main

import (
	"net/http"

	"github.com/villesola/traincal/internal/schedule"
)

type calendarResponse struct {
	Days []schedule.CalendarDay `json:"days"`
}

// calendarGET returns the per-date workout lists for a date window. Without
// from/to parameters the whole program is returned with a display buffer.
func (app *application) calendarGET(w http.ResponseWriter, r *http.Request) {
	from, ok := app.parseDateQuery(w, r, "from")
	if !ok {
		return
	}
	to, ok := app.parseDateQuery(w, r, "to")
	if !ok {
		return
	}

	days, err := app.scheduleService.GetCalendarView(r.Context(), from, to)
	if err != nil {
		app.writeError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, calendarResponse{Days: days})
}

// calendarMetaGET returns the program-level calendar metadata.
func (app *application) calendarMetaGET(w http.ResponseWriter, r *http.Request) {
	meta, err := app.scheduleService.GetCalendarMeta(r.Context())
	if err != nil {
		app.writeError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, meta)
}
