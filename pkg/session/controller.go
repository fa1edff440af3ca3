// Package session drives one farmer through the three-season walkthrough:
// practice selection, weather, likelihood assessment, and on to the next
// season until the trajectory is complete.
//
// The Controller is an explicit state machine. Every operation checks the
// transition table first and returns ErrInvalidTransition without touching
// state when the current step does not accept it. Validation failures leave
// the state unchanged as well.
//
// A Controller is not safe for concurrent use; see Registry.
package session

import (
	"fmt"
	"slices"

	"github.com/AccelByte/extend-khetscore-simulation/pkg/catalog"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/errs"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/farmer"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/scoring"
	"github.com/sirupsen/logrus"
)

// Controller holds the state of one session.
type Controller struct {
	farmer  farmer.Farmer
	catalog *catalog.Catalog
	engine  *scoring.Engine

	state  State
	season int

	// history[i] is the working state of season i+1; len(history) == season.
	history []SeasonSnapshot
	records []SeasonRecord
}

// New starts a session for f at season 1. The farmer's current score is
// reset to the initial score.
func New(f farmer.Farmer, cat *catalog.Catalog, engine *scoring.Engine) *Controller {
	f.CurrentScore = f.InitialScore
	return &Controller{
		farmer:  f,
		catalog: cat,
		engine:  engine,
		state:   StateFarmerSelected,
		season:  1,
		history: []SeasonSnapshot{{Season: 1, StartScore: f.InitialScore}},
	}
}

// State returns the current step.
func (c *Controller) State() State { return c.state }

// Season returns the current season index, 1..3.
func (c *Controller) Season() int { return c.season }

// Farmer returns a copy of the farmer with the current score.
func (c *Controller) Farmer() farmer.Farmer { return c.farmer }

// Records returns a copy of the completed season records.
func (c *Controller) Records() []SeasonRecord {
	return copyRecords(c.records)
}

func (c *Controller) current() *SeasonSnapshot {
	return &c.history[c.season-1]
}

// Begin moves from the farmer screen into practice selection.
func (c *Controller) Begin() error {
	if err := checkTransition(c.state, EventBegin); err != nil {
		return err
	}
	c.state = StatePracticeSelection
	logrus.Debugf("session for farmer %s: season %d practice selection", c.farmer.ID, c.season)
	return nil
}

// SelectPractices replaces the season's selection. Duplicate ids collapse
// and the first occurrence keeps its position.
func (c *Controller) SelectPractices(ids []int) error {
	if err := checkTransition(c.state, EventSelectPractices); err != nil {
		return err
	}

	selected := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := c.catalog.Practice(id); !ok {
			return errs.NewValidation("practices", "unknown practice id %d", id)
		}
		if !slices.Contains(selected, id) {
			selected = append(selected, id)
		}
	}

	c.current().PracticeIDs = selected
	return nil
}

// TogglePractice adds id to the selection, or removes it if already selected.
func (c *Controller) TogglePractice(id int) error {
	if err := checkTransition(c.state, EventSelectPractices); err != nil {
		return err
	}
	if _, ok := c.catalog.Practice(id); !ok {
		return errs.NewValidation("practices", "unknown practice id %d", id)
	}

	cur := c.current()
	if i := slices.Index(cur.PracticeIDs, id); i >= 0 {
		cur.PracticeIDs = slices.Delete(slices.Clone(cur.PracticeIDs), i, i+1)
	} else {
		cur.PracticeIDs = append(slices.Clone(cur.PracticeIDs), id)
	}
	return nil
}

// SubmitPractices scores the season and moves to the weather result.
// The season always starts from its recorded start score, so submitting
// again after going back never applies the bonus twice.
func (c *Controller) SubmitPractices() (scoring.Result, error) {
	if err := checkTransition(c.state, EventSubmitPractices); err != nil {
		return scoring.Result{}, err
	}

	cur := c.current()
	if len(cur.PracticeIDs) < scoring.MinPractices {
		return scoring.Result{}, errs.NewValidation("practices", "select at least %d practices (got %d)", scoring.MinPractices, len(cur.PracticeIDs))
	}

	practices, err := c.catalog.Resolve(cur.PracticeIDs)
	if err != nil {
		return scoring.Result{}, errs.NewValidation("practices", "%v", err)
	}

	result, err := c.engine.RunSeasonChecked(cur.StartScore, practices)
	if err != nil {
		return scoring.Result{}, err
	}

	outcome := &WeatherOutcome{Shock: result.ShockName()}
	if result.Shock != nil {
		outcome.Impact = result.Shock.Impact
	}
	cur.Weather = outcome
	cur.EndScore = result.NewScore
	c.farmer.CurrentScore = result.NewScore
	c.state = StateWeatherResult

	logrus.Infof("farmer %s season %d scored: %.2f -> %.2f (shock: %s)",
		c.farmer.ID, c.season, cur.StartScore, result.NewScore, outcome.Shock)
	return result, nil
}

// Acknowledge moves from the weather result to the likelihood assessment.
// Answers kept for practices that are no longer selected are dropped.
func (c *Controller) Acknowledge() error {
	if err := checkTransition(c.state, EventAcknowledge); err != nil {
		return err
	}

	cur := c.current()
	answers := make(map[int]Likelihood, len(cur.PracticeIDs))
	for id, l := range cur.Likelihood {
		if slices.Contains(cur.PracticeIDs, id) {
			answers[id] = l
		}
	}
	cur.Likelihood = answers
	c.state = StateLikelihoodAssessment
	return nil
}

// SetLikelihood records the answer for a selected practice.
func (c *Controller) SetLikelihood(id int, answer Likelihood) error {
	if err := checkTransition(c.state, EventSetLikelihood); err != nil {
		return err
	}

	cur := c.current()
	if !slices.Contains(cur.PracticeIDs, id) {
		return errs.NewValidation("likelihood", "practice %d is not selected this season", id)
	}
	if answer.Rank() == 0 {
		return errs.NewValidation("likelihood", "unknown answer %q", answer)
	}

	if cur.Likelihood == nil {
		cur.Likelihood = make(map[int]Likelihood)
	}
	cur.Likelihood[id] = answer
	return nil
}

// SubmitLikelihood closes the season. Every selected practice needs an
// answer. The record is appended and the session moves to the next season,
// or to SessionComplete after the third.
func (c *Controller) SubmitLikelihood() (SeasonRecord, error) {
	if err := checkTransition(c.state, EventSubmitLikelihood); err != nil {
		return SeasonRecord{}, err
	}

	cur := c.current()
	var missing []int
	for _, id := range cur.PracticeIDs {
		if _, ok := cur.Likelihood[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return SeasonRecord{}, errs.NewValidation("likelihood", "missing answers for practices %v", missing)
	}

	record := c.buildRecord(cur)
	c.records = append(c.records, record)

	if c.season < Seasons {
		c.season++
		c.history = append(c.history, SeasonSnapshot{Season: c.season, StartScore: c.farmer.CurrentScore})
		c.state = StatePracticeSelection
		logrus.Debugf("session for farmer %s: advanced to season %d", c.farmer.ID, c.season)
	} else {
		c.state = StateSessionComplete
		logrus.Infof("session for farmer %s complete: %.2f -> %.2f",
			c.farmer.ID, c.farmer.InitialScore, c.farmer.CurrentScore)
	}

	return copyRecord(record), nil
}

func (c *Controller) buildRecord(snap *SeasonSnapshot) SeasonRecord {
	names := make([]string, 0, len(snap.PracticeIDs))
	for _, id := range snap.PracticeIDs {
		p, _ := c.catalog.Practice(id)
		names = append(names, p.Name)
	}

	shock := catalog.NoShock
	if snap.Weather != nil {
		shock = snap.Weather.Shock
	}

	return SeasonRecord{
		Season:       snap.Season,
		SeasonType:   SeasonLabel(snap.Season),
		Practices:    names,
		PracticeIDs:  slices.Clone(snap.PracticeIDs),
		WeatherShock: shock,
		EndScore:     c.farmer.CurrentScore,
		Likelihood:   copyAnswers(snap.Likelihood),
	}
}

// Back returns to the previous step and restores the state recorded for it.
// The farmer and the records of seasons before the one being returned to are
// kept.
func (c *Controller) Back() error {
	if err := checkTransition(c.state, EventBack); err != nil {
		return err
	}

	cur := c.current()
	switch c.state {
	case StatePracticeSelection:
		if c.season == 1 {
			c.state = StateFarmerSelected
			break
		}
		// Reopen the previous season's likelihood step.
		c.history = c.history[:c.season-1]
		c.season--
		c.records = c.records[:len(c.records)-1]
		c.farmer.CurrentScore = c.current().EndScore
		c.state = StateLikelihoodAssessment

	case StateWeatherResult:
		cur.Weather = nil
		cur.EndScore = 0
		c.farmer.CurrentScore = cur.StartScore
		c.state = StatePracticeSelection

	case StateLikelihoodAssessment:
		c.state = StateWeatherResult

	case StateSessionComplete:
		c.records = c.records[:len(c.records)-1]
		c.state = StateLikelihoodAssessment
	}

	logrus.Debugf("session for farmer %s: back to %s (season %d)", c.farmer.ID, c.state, c.season)
	return nil
}

// Trajectory returns the completed session. Only valid in SessionComplete.
func (c *Controller) Trajectory() (Trajectory, error) {
	if c.state != StateSessionComplete {
		return Trajectory{}, fmt.Errorf("%w: trajectory requested in state %s", ErrInvalidTransition, c.state)
	}

	return Trajectory{
		FarmerID:     c.farmer.ID,
		FarmerName:   c.farmer.Name,
		InitialScore: c.farmer.InitialScore,
		FinalScore:   c.farmer.CurrentScore,
		Seasons:      copyRecords(c.records),
	}, nil
}

// View returns a read-only snapshot of the session.
func (c *Controller) View() View {
	cur := c.current()

	v := View{
		State:             c.state,
		Season:            c.season,
		SeasonType:        SeasonLabel(c.season),
		Farmer:            c.farmer,
		StartScore:        cur.StartScore,
		SelectedPractices: slices.Clone(cur.PracticeIDs),
		Records:           copyRecords(c.records),
	}
	if cur.Weather != nil {
		w := *cur.Weather
		v.Weather = &w
	}
	if c.state == StateLikelihoodAssessment || c.state == StateSessionComplete {
		v.Likelihood = copyAnswers(cur.Likelihood)
	}
	if v.SelectedPractices == nil {
		v.SelectedPractices = []int{}
	}
	if v.Records == nil {
		v.Records = []SeasonRecord{}
	}
	return v
}

func copyAnswers(m map[int]Likelihood) map[int]Likelihood {
	if m == nil {
		return nil
	}
	out := make(map[int]Likelihood, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyRecord(r SeasonRecord) SeasonRecord {
	r.Practices = slices.Clone(r.Practices)
	r.PracticeIDs = slices.Clone(r.PracticeIDs)
	r.Likelihood = copyAnswers(r.Likelihood)
	return r
}

func copyRecords(records []SeasonRecord) []SeasonRecord {
	if records == nil {
		return nil
	}
	out := make([]SeasonRecord, len(records))
	for i, r := range records {
		out[i] = copyRecord(r)
	}
	return out
}
