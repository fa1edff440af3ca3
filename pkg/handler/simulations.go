package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/AccelByte/extend-khetscore-simulation/pkg/export"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/service"
	"github.com/go-chi/chi/v5"
)

func (a *API) handleListSimulations(w http.ResponseWriter, r *http.Request) {
	sims, err := a.Simulations.List(r.Context(), usernameFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sims)
}

func (a *API) handleSimulationStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.Simulations.Stats(r.Context(), usernameFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (a *API) handleGetSimulation(w http.ResponseWriter, r *http.Request) {
	sim, err := a.Simulations.Get(r.Context(), usernameFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sim)
}

func (a *API) handleExportSimulation(w http.ResponseWriter, r *http.Request) {
	sim, err := a.Simulations.Get(r.Context(), usernameFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	data, err := export.SimulationsCSV([]service.Simulation{sim})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCSV(w, export.Filename(sim.Farmer.ID, sim.Timestamp), data)
}

func (a *API) handleExportSimulations(w http.ResponseWriter, r *http.Request) {
	username := usernameFrom(r)
	sims, err := a.Simulations.List(r.Context(), username)
	if err != nil {
		writeError(w, r, err)
		return
	}

	data, err := export.SimulationsCSV(sims)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCSV(w, fmt.Sprintf("simulations_%s_%d.csv", username, time.Now().UnixMilli()), data)
}
