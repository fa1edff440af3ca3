package session

import (
	"slices"
	"time"

	"github.com/AccelByte/extend-khetscore-simulation/pkg/catalog"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/errs"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/scoring"
	"github.com/sirupsen/logrus"
)

// Draft serializes the session. Only the fields that belong to the current
// step are filled, so Resume lands back on the same step.
func (c *Controller) Draft() SessionDraft {
	cur := c.current()

	d := SessionDraft{
		Farmer:            c.farmer,
		CurrentSeason:     c.season,
		SelectedPractices: []int{},
		SeasonData:        copyRecords(c.records),
		LikelihoodAnswers: map[int]Likelihood{},
		Timestamp:         time.Now().UTC(),
	}
	if d.SeasonData == nil {
		d.SeasonData = []SeasonRecord{}
	}
	if c.state != StateFarmerSelected {
		d.SelectedPractices = slices.Clone(cur.PracticeIDs)
	}
	if cur.Weather != nil {
		w := *cur.Weather
		d.WeatherShock = &w
	}
	if c.state == StateLikelihoodAssessment || c.state == StateSessionComplete {
		for id, l := range cur.Likelihood {
			d.LikelihoodAnswers[id] = l
		}
	}

	return d
}

// Resume rebuilds a controller from a draft. The step is chosen by
// inspecting which fields are populated: three records means complete,
// answers mean likelihood assessment, a decided weather means weather
// result, a selection means practice selection, and otherwise the farmer
// screen for a fresh first season or practice selection for a later one.
func Resume(d SessionDraft, cat *catalog.Catalog, engine *scoring.Engine) (*Controller, error) {
	if d.Farmer.ID == "" {
		return nil, errs.NewValidation("draft", "missing farmer")
	}
	if d.CurrentSeason < 1 || d.CurrentSeason > Seasons {
		return nil, errs.NewValidation("draft", "season %d out of range", d.CurrentSeason)
	}

	complete := len(d.SeasonData) == Seasons
	switch {
	case len(d.SeasonData) > Seasons:
		return nil, errs.NewValidation("draft", "%d season records", len(d.SeasonData))
	case complete && d.CurrentSeason != Seasons:
		return nil, errs.NewValidation("draft", "complete session at season %d", d.CurrentSeason)
	case !complete && len(d.SeasonData) != d.CurrentSeason-1:
		return nil, errs.NewValidation("draft", "season %d with %d records", d.CurrentSeason, len(d.SeasonData))
	}

	c := &Controller{
		farmer:  d.Farmer,
		catalog: cat,
		engine:  engine,
		season:  d.CurrentSeason,
	}

	start := d.Farmer.InitialScore
	for i, rec := range d.SeasonData {
		if rec.Season != i+1 {
			return nil, errs.NewValidation("draft", "record %d has season %d", i+1, rec.Season)
		}
		ids, err := recordPracticeIDs(rec, cat)
		if err != nil {
			return nil, err
		}
		weather, err := outcomeFor(rec.WeatherShock, cat)
		if err != nil {
			return nil, err
		}

		rec = copyRecord(rec)
		rec.PracticeIDs = ids
		rec.SeasonType = SeasonLabel(rec.Season)
		c.records = append(c.records, rec)

		c.history = append(c.history, SeasonSnapshot{
			Season:      rec.Season,
			StartScore:  start,
			PracticeIDs: slices.Clone(ids),
			Weather:     weather,
			EndScore:    rec.EndScore,
			Likelihood:  copyAnswers(rec.Likelihood),
		})
		start = rec.EndScore
	}

	if complete {
		c.farmer.CurrentScore = c.records[Seasons-1].EndScore
		c.state = StateSessionComplete
		logrus.Infof("resumed completed session for farmer %s", c.farmer.ID)
		return c, nil
	}

	cur, err := draftSnapshot(d, start, cat)
	if err != nil {
		return nil, err
	}
	c.history = append(c.history, cur)

	if cur.Weather != nil {
		c.farmer.CurrentScore = cur.EndScore
	} else {
		c.farmer.CurrentScore = start
	}

	switch {
	case len(cur.Likelihood) > 0:
		c.state = StateLikelihoodAssessment
	case cur.Weather != nil:
		c.state = StateWeatherResult
	case len(cur.PracticeIDs) > 0:
		c.state = StatePracticeSelection
	case c.season == 1 && len(c.records) == 0:
		c.state = StateFarmerSelected
	default:
		c.state = StatePracticeSelection
	}

	logrus.Infof("resumed session for farmer %s at season %d (%s)", c.farmer.ID, c.season, c.state)
	return c, nil
}

func draftSnapshot(d SessionDraft, start float64, cat *catalog.Catalog) (SeasonSnapshot, error) {
	snap := SeasonSnapshot{Season: d.CurrentSeason, StartScore: start}

	for _, id := range d.SelectedPractices {
		if _, ok := cat.Practice(id); !ok {
			return snap, errs.NewValidation("draft", "unknown practice id %d", id)
		}
		if !slices.Contains(snap.PracticeIDs, id) {
			snap.PracticeIDs = append(snap.PracticeIDs, id)
		}
	}

	if d.WeatherShock != nil {
		if d.WeatherShock.Shock != catalog.NoShock {
			if _, ok := cat.Shock(d.WeatherShock.Shock); !ok {
				return snap, errs.NewValidation("draft", "unknown weather shock %q", d.WeatherShock.Shock)
			}
		}
		w := *d.WeatherShock
		snap.Weather = &w
		snap.EndScore = scoring.Round2(scoring.Clamp(d.Farmer.CurrentScore))
	}

	if len(d.LikelihoodAnswers) > 0 {
		if snap.Weather == nil {
			return snap, errs.NewValidation("draft", "likelihood answers without weather outcome")
		}
		snap.Likelihood = make(map[int]Likelihood, len(d.LikelihoodAnswers))
		for id, l := range d.LikelihoodAnswers {
			if !slices.Contains(snap.PracticeIDs, id) {
				return snap, errs.NewValidation("draft", "answer for unselected practice %d", id)
			}
			if l.Rank() == 0 {
				return snap, errs.NewValidation("draft", "unknown answer %q", l)
			}
			snap.Likelihood[id] = l
		}
	}

	return snap, nil
}

// recordPracticeIDs returns the ids of a record, mapping practice names
// through the catalog when the ids were not stored.
func recordPracticeIDs(rec SeasonRecord, cat *catalog.Catalog) ([]int, error) {
	if len(rec.PracticeIDs) > 0 {
		for _, id := range rec.PracticeIDs {
			if _, ok := cat.Practice(id); !ok {
				return nil, errs.NewValidation("draft", "unknown practice id %d", id)
			}
		}
		return slices.Clone(rec.PracticeIDs), nil
	}

	byName := make(map[string]int)
	for _, p := range cat.Practices() {
		byName[p.Name] = p.ID
	}

	ids := make([]int, 0, len(rec.Practices))
	for _, name := range rec.Practices {
		id, ok := byName[name]
		if !ok {
			return nil, errs.NewValidation("draft", "unknown practice %q", name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func outcomeFor(name string, cat *catalog.Catalog) (*WeatherOutcome, error) {
	if name == "" || name == catalog.NoShock {
		return &WeatherOutcome{Shock: catalog.NoShock}, nil
	}
	s, ok := cat.Shock(name)
	if !ok {
		return nil, errs.NewValidation("draft", "unknown weather shock %q", name)
	}
	return &WeatherOutcome{Shock: s.Name, Impact: s.Impact}, nil
}
