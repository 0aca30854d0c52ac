package main

import (
	"net/http"
)

type healthResponse struct {
	Status string `json:"status"`
}

// healthy reports liveness. It does not reach out to the plan generator.
func (app *application) healthy(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, healthResponse{Status: "ok"})
}
