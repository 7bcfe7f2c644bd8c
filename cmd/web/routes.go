package main

import (
	"net/http"
)

func (app *application) routes() *http.ServeMux {
	mux := http.NewServeMux()

	var (
		shared = func(next http.Handler) http.Handler {
			return app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(
				commonContext(app.timeout(next)))))
		}
		session = func(next http.Handler) http.Handler {
			return app.recoverPanic(noCache(app.sessionManager.LoadAndSave(
				app.authenticate(shared(next)))))
		}
		mustSession = func(next http.Handler) http.Handler {
			return session(app.mustAuthenticate(next))
		}
	)

	mux.Handle("POST /api/login/{athleteID}", session(http.HandlerFunc(app.loginPOST)))
	mux.Handle("POST /api/logout", session(http.HandlerFunc(app.logoutPOST)))
	mux.Handle("GET /api/healthy", session(http.HandlerFunc(app.healthy)))

	mux.Handle("POST /api/intake", mustSession(http.HandlerFunc(app.intakePOST)))
	mux.Handle("GET /api/program", mustSession(http.HandlerFunc(app.programGET)))

	mux.Handle("GET /api/calendar", mustSession(http.HandlerFunc(app.calendarGET)))
	mux.Handle("GET /api/calendar/meta", mustSession(http.HandlerFunc(app.calendarMetaGET)))
	mux.Handle("GET /api/templates/{templateID}", mustSession(http.HandlerFunc(app.templateGET)))

	mux.Handle("POST /api/program/advance", mustSession(http.HandlerFunc(app.programAdvancePOST)))
	mux.Handle("POST /api/program/pause", mustSession(http.HandlerFunc(app.programPausePOST)))
	mux.Handle("POST /api/program/resume", mustSession(http.HandlerFunc(app.programResumePOST)))
	mux.Handle("POST /api/program/reset", mustSession(http.HandlerFunc(app.programResetPOST)))

	mux.Handle("POST /api/program/cascade", mustSession(http.HandlerFunc(app.cascadePOST)))
	mux.Handle("POST /api/program/swap", mustSession(http.HandlerFunc(app.swapPOST)))
	mux.Handle("POST /api/program/move", mustSession(http.HandlerFunc(app.movePOST)))

	mux.Handle("POST /api/program/reassessment", mustSession(http.HandlerFunc(app.reassessmentCompletePOST)))
	mux.Handle("POST /api/program/reassessment/trigger", mustSession(http.HandlerFunc(app.reassessmentTriggerPOST)))

	mux.Handle("POST /api/sessions/{templateID}/complete", mustSession(http.HandlerFunc(app.sessionCompletePOST)))

	return mux
}
