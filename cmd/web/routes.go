package main

import (
	"net/http"

	"github.com/rs/cors"
)

func (app *application) routes(allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/generate-plan", app.generatePlanPOST)
	mux.HandleFunc("GET /api/healthy", app.healthy)

	crossOrigin := cors.New(cors.Options{ //nolint:exhaustruct // defaults are fine for the rest.
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         600, //nolint:mnd // ten minutes
	})

	return app.logRequests(app.recoverPanic(apiHeaders(crossOrigin.Handler(mux))))
}
