package handler

import (
	"maps"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/AccelByte/extend-khetscore-simulation/pkg/errs"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/export"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/metrics"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/scoring"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/service"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/session"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
)

type startSessionRequest struct {
	FarmerID     string `json:"farmerId"`
	DiscardDraft bool   `json:"discardDraft"`
}

type selectPracticesRequest struct {
	PracticeIDs []int `json:"practiceIds"`
}

type likelihoodRequest struct {
	Answers map[int]string `json:"answers"`
}

type seasonResult struct {
	PreviousScore float64 `json:"previousScore"`
	Bonus         float64 `json:"bonus"`
	Penalty       float64 `json:"penalty"`
	NewScore      float64 `json:"newScore"`
	Shock         string  `json:"shock"`
}

type submitPracticesResponse struct {
	Session session.View `json:"session"`
	Result  seasonResult `json:"result"`
}

type submitLikelihoodResponse struct {
	Session session.View         `json:"session"`
	Record  session.SeasonRecord `json:"record"`
}

type persistedResponse struct {
	Persisted bool `json:"persisted"`
}

type draftResponse struct {
	Persisted bool                 `json:"persisted"`
	Draft     session.SessionDraft `json:"draft"`
}

type simulationResponse struct {
	Persisted  bool               `json:"persisted"`
	Simulation service.Simulation `json:"simulation"`
}

type draftConflictResponse struct {
	Error string `json:"error"`
	Draft bool   `json:"draft"`
}

func (a *API) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	f, err := a.Farmers.Lookup(req.FarmerID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	username := usernameFrom(r)
	exists, err := a.Drafts.Exists(r.Context(), username)
	logPersistence(r, err)
	if exists {
		if !req.DiscardDraft {
			writeJSON(w, http.StatusConflict, draftConflictResponse{Error: "a saved draft exists; resume or discard it", Draft: true})
			return
		}
		logPersistence(r, a.Drafts.Discard(r.Context(), username))
	}

	ctrl := session.New(f, a.Catalog, a.Engine)
	a.putSession(username, ctrl)
	scope := scopeFrom(r)
	scope.TraceEvent("session started", attribute.String("farmer.id", f.ID))
	scope.Log.Infof("started session for farmer %s", f.ID)

	writeJSON(w, http.StatusCreated, ctrl.View())
}

func (a *API) handleResumeSession(w http.ResponseWriter, r *http.Request) {
	username := usernameFrom(r)
	draft, err := a.Drafts.Load(r.Context(), username)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctrl, err := session.Resume(draft, a.Catalog, a.Engine)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.putSession(username, ctrl)
	scopeFrom(r).Log.Infof("resumed session for farmer %s in state %s", draft.Farmer.ID, ctrl.State())

	writeJSON(w, http.StatusOK, ctrl.View())
}

func (a *API) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := a.Drafts.Load(r.Context(), usernameFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (a *API) handleDiscardDraft(w http.ResponseWriter, r *http.Request) {
	persisted := logPersistence(r, a.Drafts.Discard(r.Context(), usernameFrom(r)))
	writeJSON(w, http.StatusOK, persistedResponse{Persisted: persisted})
}

func (a *API) handleGetSession(w http.ResponseWriter, r *http.Request) {
	a.viewAfter(w, r, func(*session.Controller) error { return nil })
}

func (a *API) handleBegin(w http.ResponseWriter, r *http.Request) {
	a.viewAfter(w, r, (*session.Controller).Begin)
}

func (a *API) handleSelectPractices(w http.ResponseWriter, r *http.Request) {
	var req selectPracticesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	a.viewAfter(w, r, func(c *session.Controller) error {
		return c.SelectPractices(req.PracticeIDs)
	})
}

func (a *API) handleTogglePractice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, errs.NewValidation("practiceId", "invalid practice id %q", chi.URLParam(r, "id")))
		return
	}
	a.viewAfter(w, r, func(c *session.Controller) error {
		return c.TogglePractice(id)
	})
}

func (a *API) handleSubmitPractices(w http.ResponseWriter, r *http.Request) {
	var resp submitPracticesResponse
	err := a.Sessions.With(usernameFrom(r), func(c *session.Controller) error {
		res, err := c.SubmitPractices()
		if err != nil {
			return err
		}
		resp = submitPracticesResponse{Session: c.View(), Result: toSeasonResult(res)}
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	metrics.SeasonsScored.WithLabelValues(resp.Result.Shock).Inc()
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	a.viewAfter(w, r, (*session.Controller).Acknowledge)
}

func (a *API) handleSetLikelihood(w http.ResponseWriter, r *http.Request) {
	var req likelihoodRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	ids := slices.Sorted(maps.Keys(req.Answers))
	answers := make([]session.Likelihood, len(ids))
	for i, id := range ids {
		answer, err := session.ParseLikelihood(req.Answers[id])
		if err != nil {
			writeError(w, r, err)
			return
		}
		answers[i] = answer
	}

	a.viewAfter(w, r, func(c *session.Controller) error {
		for i, id := range ids {
			if err := c.SetLikelihood(id, answers[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (a *API) handleSubmitLikelihood(w http.ResponseWriter, r *http.Request) {
	var resp submitLikelihoodResponse
	err := a.Sessions.With(usernameFrom(r), func(c *session.Controller) error {
		rec, err := c.SubmitLikelihood()
		if err != nil {
			return err
		}
		resp = submitLikelihoodResponse{Session: c.View(), Record: rec}
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	if resp.Session.State == session.StateSessionComplete {
		metrics.SessionsCompleted.Inc()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleBack(w http.ResponseWriter, r *http.Request) {
	a.viewAfter(w, r, (*session.Controller).Back)
}

func (a *API) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	username := usernameFrom(r)

	var draft session.SessionDraft
	err := a.Sessions.With(username, func(c *session.Controller) error {
		draft = c.Draft()
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	persisted := logPersistence(r, a.Drafts.Save(r.Context(), username, draft))
	writeJSON(w, http.StatusOK, draftResponse{Persisted: persisted, Draft: draft})
}

// handleSaveSimulation stores the completed trajectory. The session is
// released once the write succeeds; on a store failure it is kept so the
// save can be retried.
func (a *API) handleSaveSimulation(w http.ResponseWriter, r *http.Request) {
	username := usernameFrom(r)

	traj, err := a.trajectory(username)
	if err != nil {
		writeError(w, r, err)
		return
	}

	sim, err := a.Simulations.Save(r.Context(), username, traj)
	if err != nil && !errs.IsPersistence(err) {
		writeError(w, r, err)
		return
	}
	if !logPersistence(r, err) {
		writeJSON(w, http.StatusOK, simulationResponse{Persisted: false, Simulation: sim})
		return
	}

	metrics.SimulationsSaved.Inc()
	scopeFrom(r).TraceEvent("simulation saved", attribute.String("simulation.id", sim.ID))
	a.dropSession(username)
	writeJSON(w, http.StatusCreated, simulationResponse{Persisted: true, Simulation: sim})
}

func (a *API) handleExportSession(w http.ResponseWriter, r *http.Request) {
	traj, err := a.trajectory(usernameFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	sim := service.NewSimulation(traj)
	data, err := export.SimulationsCSV([]service.Simulation{sim})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCSV(w, export.Filename(traj.FarmerID, time.Now()), data)
}

// viewAfter runs fn on the caller's session and responds with the resulting view.
func (a *API) viewAfter(w http.ResponseWriter, r *http.Request, fn func(*session.Controller) error) {
	var view session.View
	err := a.Sessions.With(usernameFrom(r), func(c *session.Controller) error {
		if err := fn(c); err != nil {
			return err
		}
		view = c.View()
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) trajectory(username string) (session.Trajectory, error) {
	var traj session.Trajectory
	err := a.Sessions.With(username, func(c *session.Controller) error {
		var err error
		traj, err = c.Trajectory()
		return err
	})
	return traj, err
}

func (a *API) putSession(username string, ctrl *session.Controller) {
	a.Sessions.Put(username, ctrl)
	metrics.ActiveSessions.Set(float64(a.Sessions.Count()))
}

func (a *API) dropSession(username string) {
	a.Sessions.Remove(username)
	metrics.ActiveSessions.Set(float64(a.Sessions.Count()))
}

func toSeasonResult(res scoring.Result) seasonResult {
	return seasonResult{
		PreviousScore: res.PreviousScore,
		Bonus:         res.Bonus,
		Penalty:       res.Penalty,
		NewScore:      res.NewScore,
		Shock:         res.ShockName(),
	}
}
