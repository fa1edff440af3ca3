// Package scoring implements the per-season Khetscore update.
//
// A season draws at most one weather shock, adds the weights of the selected
// practices and subtracts the shock's impact as a fraction of the current
// score. The result is clamped to [MinScore, MaxScore] and rounded to two
// decimals.
package scoring

import (
	"math"
	"sync"

	"github.com/AccelByte/extend-khetscore-simulation/pkg/catalog"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/errs"
	"github.com/sirupsen/logrus"
)

const (
	// MinScore is the lowest possible Khetscore.
	MinScore = 0.0
	// MaxScore is the highest possible Khetscore.
	MaxScore = 100.0
	// ShockProbability is the chance that a season has a weather shock.
	ShockProbability = 0.5
	// MinPractices is the fewest practices a season may be submitted with.
	MinPractices = 7
)

// Result is the outcome of one season.
type Result struct {
	PreviousScore float64
	Bonus         float64
	Penalty       float64
	NewScore      float64
	Shock         *catalog.WeatherShock // nil when no shock occurred
}

// ShockName returns the shock name or catalog.NoShock.
func (r Result) ShockName() string {
	if r.Shock == nil {
		return catalog.NoShock
	}
	return r.Shock.Name
}

// Engine runs seasons against a fixed set of weather shocks.
type Engine struct {
	shocks []catalog.WeatherShock
	rng    RandomSource
	mu     sync.Mutex
}

// NewEngine creates an engine drawing shocks from shocks using rng.
func NewEngine(shocks []catalog.WeatherShock, rng RandomSource) *Engine {
	s := make([]catalog.WeatherShock, len(shocks))
	copy(s, shocks)
	return &Engine{shocks: s, rng: rng}
}

// RunSeason draws the weather for a season and applies the selected practices.
// Any number of practices is accepted, including none.
func (e *Engine) RunSeason(currentScore float64, practices []catalog.Practice) Result {
	shock := e.drawShock()
	result := Apply(currentScore, practices, shock)

	logrus.Debugf("season scored: previous=%.2f bonus=%.2f penalty=%.2f new=%.2f shock=%s",
		result.PreviousScore, result.Bonus, result.Penalty, result.NewScore, result.ShockName())

	return result
}

// RunSeasonChecked is RunSeason with the minimum-selection rule enforced.
func (e *Engine) RunSeasonChecked(currentScore float64, practices []catalog.Practice) (Result, error) {
	if len(practices) < MinPractices {
		return Result{}, errs.NewValidation("practices", "select at least %d practices (got %d)", MinPractices, len(practices))
	}
	return e.RunSeason(currentScore, practices), nil
}

func (e *Engine) drawShock() *catalog.WeatherShock {
	if len(e.shocks) == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.rng.Float64() >= ShockProbability {
		return nil
	}
	s := e.shocks[e.rng.IntN(len(e.shocks))]
	return &s
}

// Apply computes the deterministic part of a season for a known shock.
// The same inputs always produce the same result.
func Apply(currentScore float64, practices []catalog.Practice, shock *catalog.WeatherShock) Result {
	bonus := PracticeBonus(practices)

	impact := 0.0
	if shock != nil {
		impact = shock.Impact
	}
	// Penalty is always subtracted, whatever the stored sign.
	penalty := math.Abs(impact * currentScore)

	raw := currentScore + bonus - penalty

	var s *catalog.WeatherShock
	if shock != nil {
		copied := *shock
		s = &copied
	}

	return Result{
		PreviousScore: currentScore,
		Bonus:         bonus,
		Penalty:       penalty,
		NewScore:      Round2(Clamp(raw)),
		Shock:         s,
	}
}

// PracticeBonus is the uncapped sum of the practices' weights.
func PracticeBonus(practices []catalog.Practice) float64 {
	sum := 0.0
	for _, p := range practices {
		sum += p.Weight
	}
	return sum
}

// Clamp limits v to [MinScore, MaxScore].
func Clamp(v float64) float64 {
	return math.Max(MinScore, math.Min(MaxScore, v))
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
