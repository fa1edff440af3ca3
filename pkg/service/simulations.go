package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AccelByte/extend-khetscore-simulation/pkg/errs"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/session"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SimulationService stores completed trajectories under simulations_<username>.
type SimulationService struct {
	store  store.Store
	drafts *DraftService
	mu     sync.Mutex
}

// NewSimulationService creates a simulation service backed by s.
func NewSimulationService(s store.Store, drafts *DraftService) *SimulationService {
	return &SimulationService{store: s, drafts: drafts}
}

// Save appends a completed trajectory to the user's simulations and
// discards the user's draft. The trajectory must hold seasons 1, 2 and 3.
//
// When the write fails the returned Simulation is still complete and the
// error is a PersistenceError.
func (s *SimulationService) Save(ctx context.Context, username string, traj session.Trajectory) (Simulation, error) {
	if len(traj.Seasons) != session.Seasons {
		return Simulation{}, errs.NewValidation("seasons", "expected %d seasons, got %d", session.Seasons, len(traj.Seasons))
	}
	for i, rec := range traj.Seasons {
		if rec.Season != i+1 {
			return Simulation{}, errs.NewValidation("seasons", "season %d out of order", rec.Season)
		}
	}

	sim := NewSimulation(traj)

	s.mu.Lock()
	defer s.mu.Unlock()

	sims, err := s.load(ctx, username)
	if err != nil {
		return sim, err
	}
	sims = append(sims, sim)
	if err := store.SetJSON(ctx, s.store, SimulationsKey(username), sims); err != nil {
		return sim, err
	}

	if s.drafts != nil {
		if err := s.drafts.Discard(ctx, username); err != nil {
			logrus.Warnf("failed to discard draft for user %s after save: %v", username, err)
		}
	}

	logrus.Infof("saved simulation %s for user %s (farmer %s)", sim.ID, username, sim.Farmer.ID)
	return sim, nil
}

// NewSimulation wraps a trajectory with a fresh id and the current time.
func NewSimulation(traj session.Trajectory) Simulation {
	return Simulation{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Farmer: FarmerSummary{
			Name:         traj.FarmerName,
			ID:           traj.FarmerID,
			InitialScore: traj.InitialScore,
			FinalScore:   traj.FinalScore,
		},
		Seasons: traj.Seasons,
	}
}

// List returns the user's simulations, oldest first.
func (s *SimulationService) List(ctx context.Context, username string) ([]Simulation, error) {
	return s.load(ctx, username)
}

// Get returns one simulation by id.
func (s *SimulationService) Get(ctx context.Context, username, id string) (Simulation, error) {
	sims, err := s.load(ctx, username)
	if err != nil {
		return Simulation{}, err
	}
	for _, sim := range sims {
		if sim.ID == id {
			return sim, nil
		}
	}
	return Simulation{}, errs.NewNotFound("simulation", id)
}

func (s *SimulationService) load(ctx context.Context, username string) ([]Simulation, error) {
	var sims []Simulation
	err := store.GetJSON(ctx, s.store, SimulationsKey(username), &sims)
	if errors.Is(err, store.ErrNotFound) {
		return []Simulation{}, nil
	}
	if err != nil {
		return nil, err
	}
	return sims, nil
}
