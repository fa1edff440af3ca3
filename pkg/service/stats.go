package service

import (
	"context"
	"math"
)

// SimulationStats summarises a user's saved simulations.
type SimulationStats struct {
	Total          int     `json:"total"`
	UniqueFarmers  int     `json:"uniqueFarmers"`
	AvgImprovement float64 `json:"avgImprovement"`
}

// Stats counts the user's simulations and distinct farmers, and averages
// finalKhetscore - initialKhetscore rounded to one decimal. No simulations
// yields all zeros.
func (s *SimulationService) Stats(ctx context.Context, username string) (SimulationStats, error) {
	sims, err := s.load(ctx, username)
	if err != nil {
		return SimulationStats{}, err
	}
	return summarise(sims), nil
}

func summarise(sims []Simulation) SimulationStats {
	stats := SimulationStats{Total: len(sims)}
	if len(sims) == 0 {
		return stats
	}

	farmers := make(map[string]struct{}, len(sims))
	var sum float64
	for _, sim := range sims {
		farmers[sim.Farmer.ID] = struct{}{}
		sum += sim.Farmer.FinalScore - sim.Farmer.InitialScore
	}
	stats.UniqueFarmers = len(farmers)
	stats.AvgImprovement = math.Round(sum/float64(len(sims))*10) / 10
	return stats
}
