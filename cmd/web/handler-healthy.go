package main

import (
	"net/http"
)

// healthy is the readiness probe.
func (app *application) healthy(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, statusOK())
}
