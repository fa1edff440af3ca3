package service

import (
	"context"

	"github.com/AccelByte/extend-khetscore-simulation/pkg/session"
)

// Repository interfaces consumed by the HTTP layer. Having interfaces
// allows easier mocking for unit tests.

// UserRepository manages accounts and the current user.
type UserRepository interface {
	Register(ctx context.Context, req RegisterRequest) (User, error)
	Login(ctx context.Context, username, password string) (User, error)
	Logout(ctx context.Context, username string) error
	Get(ctx context.Context, username string) (User, error)
}

// SimulationRepository stores completed simulations per user.
type SimulationRepository interface {
	Save(ctx context.Context, username string, traj session.Trajectory) (Simulation, error)
	List(ctx context.Context, username string) ([]Simulation, error)
	Get(ctx context.Context, username, id string) (Simulation, error)
	Stats(ctx context.Context, username string) (SimulationStats, error)
}

// DraftRepository stores at most one in-progress session per user.
type DraftRepository interface {
	Save(ctx context.Context, username string, draft session.SessionDraft) error
	Load(ctx context.Context, username string) (session.SessionDraft, error)
	Exists(ctx context.Context, username string) (bool, error)
	Discard(ctx context.Context, username string) error
}

var (
	_ UserRepository       = (*UserService)(nil)
	_ SimulationRepository = (*SimulationService)(nil)
	_ DraftRepository      = (*DraftService)(nil)
)
