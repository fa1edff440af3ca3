package session

import (
	"encoding/json"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/AccelByte/extend-khetscore-simulation/pkg/catalog"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/errs"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/farmer"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/scoring"
)

var first7 = []int{1, 2, 3, 4, 5, 6, 7}

func newController(rng *scoring.ScriptedSource, initial float64) *Controller {
	f := farmer.Farmer{ID: "F001", Name: "Ramesh Kumar", InitialScore: initial}
	engine := scoring.NewEngine(catalog.DefaultShocks, rng)
	return New(f, catalog.Default(), engine)
}

func answerAll(t *testing.T, c *Controller, answer Likelihood) {
	t.Helper()
	for _, id := range c.View().SelectedPractices {
		if err := c.SetLikelihood(id, answer); err != nil {
			t.Fatalf("SetLikelihood(%d) error = %v", id, err)
		}
	}
}

// playSeason runs one season from practice selection to the next step.
func playSeason(t *testing.T, c *Controller, ids []int) scoring.Result {
	t.Helper()
	if err := c.SelectPractices(ids); err != nil {
		t.Fatalf("SelectPractices() error = %v", err)
	}
	result, err := c.SubmitPractices()
	if err != nil {
		t.Fatalf("SubmitPractices() error = %v", err)
	}
	if err := c.Acknowledge(); err != nil {
		t.Fatalf("Acknowledge() error = %v", err)
	}
	answerAll(t, c, ProbablyWill)
	if _, err := c.SubmitLikelihood(); err != nil {
		t.Fatalf("SubmitLikelihood() error = %v", err)
	}
	return result
}

func completeSession(t *testing.T) *Controller {
	t.Helper()
	rng := (&scoring.ScriptedSource{}).NoShock().WithShock(1).NoShock()
	c := newController(rng, 50)
	if err := c.Begin(); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	for i := 0; i < Seasons; i++ {
		playSeason(t, c, first7)
	}
	return c
}

func TestSession_EndToEnd(t *testing.T) {
	rng := (&scoring.ScriptedSource{}).NoShock().WithShock(1).NoShock()
	c := newController(rng, 50)

	if c.State() != StateFarmerSelected {
		t.Fatalf("initial state = %s, expected %s", c.State(), StateFarmerSelected)
	}
	if err := c.Begin(); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	// Season 1: no shock.
	if err := c.SelectPractices(first7); err != nil {
		t.Fatalf("SelectPractices() error = %v", err)
	}
	result, err := c.SubmitPractices()
	if err != nil {
		t.Fatalf("SubmitPractices() error = %v", err)
	}
	if result.NewScore != 51.87 || c.Farmer().CurrentScore != 51.87 {
		t.Errorf("season 1 score = %v, expected 51.87", result.NewScore)
	}
	if c.State() != StateWeatherResult {
		t.Errorf("state = %s, expected %s", c.State(), StateWeatherResult)
	}
	if w := c.View().Weather; w == nil || w.Shock != catalog.NoShock {
		t.Errorf("expected decided weather with no shock, got %+v", w)
	}
	if err := c.Acknowledge(); err != nil {
		t.Fatalf("Acknowledge() error = %v", err)
	}
	answerAll(t, c, DefinitelyWill)
	record, err := c.SubmitLikelihood()
	if err != nil {
		t.Fatalf("SubmitLikelihood() error = %v", err)
	}
	if record.Season != 1 || record.SeasonType != Rabi || record.WeatherShock != catalog.NoShock || record.EndScore != 51.87 {
		t.Errorf("unexpected season 1 record: %+v", record)
	}
	if len(record.Practices) != 7 || len(record.Likelihood) != 7 {
		t.Errorf("season 1 record has %d practices and %d answers", len(record.Practices), len(record.Likelihood))
	}
	if c.State() != StatePracticeSelection || c.Season() != 2 {
		t.Fatalf("after season 1: state = %s season = %d", c.State(), c.Season())
	}
	if v := c.View(); len(v.SelectedPractices) != 0 || v.Weather != nil || v.SeasonType != Kharif {
		t.Errorf("season 2 did not start clean: %+v", v)
	}

	// Season 2: flood.
	result = playSeason(t, c, first7)
	if result.ShockName() != "Flood" || result.NewScore != 43.37 {
		t.Errorf("season 2 = %s %v, expected Flood 43.37", result.ShockName(), result.NewScore)
	}

	// Season 3: no shock.
	result = playSeason(t, c, first7)
	if result.NewScore != 45.24 {
		t.Errorf("season 3 score = %v, expected 45.24", result.NewScore)
	}

	if c.State() != StateSessionComplete {
		t.Fatalf("state = %s, expected %s", c.State(), StateSessionComplete)
	}

	traj, err := c.Trajectory()
	if err != nil {
		t.Fatalf("Trajectory() error = %v", err)
	}
	if traj.InitialScore != 50 || traj.FinalScore != 45.24 || traj.FarmerID != "F001" {
		t.Errorf("unexpected trajectory header: %+v", traj)
	}
	if len(traj.Seasons) != Seasons {
		t.Fatalf("expected %d seasons, got %d", Seasons, len(traj.Seasons))
	}

	expected := []struct {
		label string
		shock string
		score float64
	}{
		{Rabi, catalog.NoShock, 51.87},
		{Kharif, "Flood", 43.37},
		{Rabi, catalog.NoShock, 45.24},
	}
	for i, e := range expected {
		s := traj.Seasons[i]
		if s.Season != i+1 || s.SeasonType != e.label || s.WeatherShock != e.shock || s.EndScore != e.score {
			t.Errorf("season %d = %+v, expected %+v", i+1, s, e)
		}
	}
}

func TestSubmitPractices_MinimumSelection(t *testing.T) {
	c := newController((&scoring.ScriptedSource{}).NoShock(), 50)
	_ = c.Begin()

	if err := c.SelectPractices([]int{1, 2, 3, 4, 5, 6}); err != nil {
		t.Fatalf("SelectPractices() error = %v", err)
	}
	_, err := c.SubmitPractices()
	if !errs.IsValidation(err) {
		t.Fatalf("expected ValidationError for 6 practices, got %v", err)
	}
	if c.State() != StatePracticeSelection || c.Farmer().CurrentScore != 50 {
		t.Errorf("rejected submit changed state: %s %v", c.State(), c.Farmer().CurrentScore)
	}

	if err := c.TogglePractice(7); err != nil {
		t.Fatalf("TogglePractice() error = %v", err)
	}
	if _, err := c.SubmitPractices(); err != nil {
		t.Errorf("expected 7 practices to be accepted, got %v", err)
	}
}

func TestSubmitLikelihood_Incomplete(t *testing.T) {
	c := newController((&scoring.ScriptedSource{}).NoShock(), 50)
	_ = c.Begin()
	_ = c.SelectPractices(first7)
	_, _ = c.SubmitPractices()
	_ = c.Acknowledge()

	for _, id := range first7[:6] {
		if err := c.SetLikelihood(id, ProbablyWont); err != nil {
			t.Fatalf("SetLikelihood() error = %v", err)
		}
	}

	_, err := c.SubmitLikelihood()
	var verr *errs.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Message != "missing answers for practices [7]" {
		t.Errorf("unexpected message: %s", verr.Message)
	}
	if c.State() != StateLikelihoodAssessment || len(c.Records()) != 0 {
		t.Errorf("rejected submit changed state: %s, %d records", c.State(), len(c.Records()))
	}
}

func TestInvalidTransitions(t *testing.T) {
	c := newController(&scoring.ScriptedSource{}, 50)

	checks := []struct {
		name string
		call func() error
	}{
		{"submit practices before begin", func() error { _, err := c.SubmitPractices(); return err }},
		{"select before begin", func() error { return c.SelectPractices(first7) }},
		{"acknowledge before weather", func() error { return c.Acknowledge() }},
		{"likelihood before weather", func() error { return c.SetLikelihood(1, ProbablyWill) }},
		{"submit likelihood before weather", func() error { _, err := c.SubmitLikelihood(); return err }},
		{"back from farmer screen", func() error { return c.Back() }},
		{"trajectory before completion", func() error { _, err := c.Trajectory(); return err }},
	}

	for _, tt := range checks {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("expected ErrInvalidTransition, got %v", err)
			}
			if c.State() != StateFarmerSelected {
				t.Errorf("state changed to %s", c.State())
			}
		})
	}

	_ = c.Begin()
	if err := c.Begin(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second Begin() = %v, expected ErrInvalidTransition", err)
	}
}

func TestCompletedSession_RejectsEdits(t *testing.T) {
	c := completeSession(t)

	if err := c.SelectPractices(first7); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("SelectPractices() after completion = %v", err)
	}
	if _, err := c.SubmitLikelihood(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("SubmitLikelihood() after completion = %v", err)
	}
	if len(c.Records()) != Seasons {
		t.Errorf("expected %d records, got %d", Seasons, len(c.Records()))
	}
}

func TestBack_ResubmitDoesNotDoubleApply(t *testing.T) {
	rng := (&scoring.ScriptedSource{}).NoShock().NoShock()
	c := newController(rng, 50)
	_ = c.Begin()
	_ = c.SelectPractices(first7)
	if _, err := c.SubmitPractices(); err != nil {
		t.Fatalf("SubmitPractices() error = %v", err)
	}

	if err := c.Back(); err != nil {
		t.Fatalf("Back() error = %v", err)
	}
	if c.State() != StatePracticeSelection {
		t.Errorf("state = %s, expected %s", c.State(), StatePracticeSelection)
	}
	if c.Farmer().CurrentScore != 50 {
		t.Errorf("score not restored: %v", c.Farmer().CurrentScore)
	}
	if v := c.View(); !slices.Equal(v.SelectedPractices, first7) || v.Weather != nil {
		t.Errorf("selection not kept or weather not cleared: %+v", v)
	}

	result, err := c.SubmitPractices()
	if err != nil {
		t.Fatalf("SubmitPractices() error = %v", err)
	}
	if result.NewScore != 51.87 {
		t.Errorf("resubmitted score = %v, expected 51.87", result.NewScore)
	}
}

func TestBack_ToPreviousSeason(t *testing.T) {
	rng := (&scoring.ScriptedSource{}).NoShock()
	c := newController(rng, 50)
	_ = c.Begin()

	_ = c.SelectPractices(first7)
	_, _ = c.SubmitPractices()
	_ = c.Acknowledge()
	answers := map[int]Likelihood{1: DefinitelyWill, 2: ProbablyWill, 3: ProbablyWont, 4: DefinitelyWont, 5: ProbablyWill, 6: ProbablyWill, 7: DefinitelyWill}
	for id, l := range answers {
		_ = c.SetLikelihood(id, l)
	}
	if _, err := c.SubmitLikelihood(); err != nil {
		t.Fatalf("SubmitLikelihood() error = %v", err)
	}
	_ = c.SelectPractices([]int{8, 9})

	if err := c.Back(); err != nil {
		t.Fatalf("Back() error = %v", err)
	}

	v := c.View()
	if v.State != StateLikelihoodAssessment || v.Season != 1 {
		t.Fatalf("back landed on %s season %d", v.State, v.Season)
	}
	if len(v.Records) != 0 {
		t.Errorf("season 1 record should be withdrawn, got %d records", len(v.Records))
	}
	if !slices.Equal(v.SelectedPractices, first7) {
		t.Errorf("selection = %v, expected %v", v.SelectedPractices, first7)
	}
	for id, l := range answers {
		if v.Likelihood[id] != l {
			t.Errorf("answer for %d = %q, expected %q", id, v.Likelihood[id], l)
		}
	}
	if c.Farmer().CurrentScore != 51.87 {
		t.Errorf("score = %v, expected 51.87", c.Farmer().CurrentScore)
	}

	if _, err := c.SubmitLikelihood(); err != nil {
		t.Fatalf("SubmitLikelihood() error = %v", err)
	}
	if c.Season() != 2 || len(c.Records()) != 1 {
		t.Errorf("after resubmit: season %d, %d records", c.Season(), len(c.Records()))
	}
}

func TestBack_FromSeasonOneSelection(t *testing.T) {
	c := newController(&scoring.ScriptedSource{}, 50)
	_ = c.Begin()
	_ = c.SelectPractices(first7)

	if err := c.Back(); err != nil {
		t.Fatalf("Back() error = %v", err)
	}
	if c.State() != StateFarmerSelected {
		t.Errorf("state = %s, expected %s", c.State(), StateFarmerSelected)
	}

	_ = c.Begin()
	if got := c.View().SelectedPractices; !slices.Equal(got, first7) {
		t.Errorf("selection after re-entering = %v", got)
	}
}

func TestBack_FromLikelihoodKeepsAnswers(t *testing.T) {
	c := newController((&scoring.ScriptedSource{}).NoShock(), 50)
	_ = c.Begin()
	_ = c.SelectPractices(first7)
	_, _ = c.SubmitPractices()
	_ = c.Acknowledge()
	_ = c.SetLikelihood(1, DefinitelyWill)

	if err := c.Back(); err != nil {
		t.Fatalf("Back() error = %v", err)
	}
	if c.State() != StateWeatherResult || c.Farmer().CurrentScore != 51.87 {
		t.Errorf("back from likelihood: %s %v", c.State(), c.Farmer().CurrentScore)
	}

	_ = c.Acknowledge()
	if got := c.View().Likelihood[1]; got != DefinitelyWill {
		t.Errorf("answer lost after back and acknowledge: %q", got)
	}
}

func TestBack_FromComplete(t *testing.T) {
	c := completeSession(t)

	if err := c.Back(); err != nil {
		t.Fatalf("Back() error = %v", err)
	}
	if c.State() != StateLikelihoodAssessment || c.Season() != 3 {
		t.Fatalf("back from summary: %s season %d", c.State(), c.Season())
	}
	if len(c.Records()) != 2 {
		t.Errorf("expected 2 records, got %d", len(c.Records()))
	}
	if got := len(c.View().Likelihood); got != 7 {
		t.Errorf("expected 7 restored answers, got %d", got)
	}

	if _, err := c.SubmitLikelihood(); err != nil {
		t.Fatalf("SubmitLikelihood() error = %v", err)
	}
	if c.State() != StateSessionComplete || len(c.Records()) != Seasons {
		t.Errorf("not complete again: %s, %d records", c.State(), len(c.Records()))
	}
}

func TestAcknowledge_PrunesAnswers(t *testing.T) {
	rng := (&scoring.ScriptedSource{}).NoShock().NoShock()
	c := newController(rng, 50)
	_ = c.Begin()
	_ = c.SelectPractices(first7)
	_, _ = c.SubmitPractices()
	_ = c.Acknowledge()
	answerAll(t, c, ProbablyWill)

	_ = c.Back() // weather result
	_ = c.Back() // practice selection
	_ = c.TogglePractice(7)
	_ = c.TogglePractice(8)
	if _, err := c.SubmitPractices(); err != nil {
		t.Fatalf("SubmitPractices() error = %v", err)
	}
	_ = c.Acknowledge()

	answers := c.View().Likelihood
	if _, ok := answers[7]; ok {
		t.Error("answer for deselected practice 7 should be dropped")
	}
	if len(answers) != 6 {
		t.Errorf("expected 6 kept answers, got %d", len(answers))
	}

	_, err := c.SubmitLikelihood()
	if !errs.IsValidation(err) {
		t.Errorf("expected ValidationError for unanswered practice 8, got %v", err)
	}
}

func TestSelectPractices(t *testing.T) {
	c := newController(&scoring.ScriptedSource{}, 50)
	_ = c.Begin()

	if err := c.SelectPractices([]int{3, 1, 3, 2}); err != nil {
		t.Fatalf("SelectPractices() error = %v", err)
	}
	if got := c.View().SelectedPractices; !slices.Equal(got, []int{3, 1, 2}) {
		t.Errorf("selection = %v, expected [3 1 2]", got)
	}

	if err := c.SelectPractices([]int{1, 99}); !errs.IsValidation(err) {
		t.Errorf("expected ValidationError for unknown id, got %v", err)
	}
	if got := c.View().SelectedPractices; !slices.Equal(got, []int{3, 1, 2}) {
		t.Errorf("rejected selection changed state: %v", got)
	}

	_ = c.TogglePractice(1)
	_ = c.TogglePractice(5)
	if got := c.View().SelectedPractices; !slices.Equal(got, []int{3, 2, 5}) {
		t.Errorf("selection after toggles = %v, expected [3 2 5]", got)
	}
	if err := c.TogglePractice(0); !errs.IsValidation(err) {
		t.Errorf("expected ValidationError for unknown id, got %v", err)
	}
}

func TestSetLikelihood_Validation(t *testing.T) {
	c := newController((&scoring.ScriptedSource{}).NoShock(), 50)
	_ = c.Begin()
	_ = c.SelectPractices(first7)
	_, _ = c.SubmitPractices()
	_ = c.Acknowledge()

	if err := c.SetLikelihood(8, ProbablyWill); !errs.IsValidation(err) {
		t.Errorf("expected ValidationError for unselected practice, got %v", err)
	}
	if err := c.SetLikelihood(1, Likelihood("Maybe")); !errs.IsValidation(err) {
		t.Errorf("expected ValidationError for unknown answer, got %v", err)
	}
}

func TestDraftResume_MidLikelihood(t *testing.T) {
	rng := (&scoring.ScriptedSource{}).NoShock().WithShock(1)
	c := newController(rng, 50)
	_ = c.Begin()
	playSeason(t, c, first7)

	season2 := []int{7, 1, 2, 3, 4, 5, 6, 8}
	_ = c.SelectPractices(season2)
	_, _ = c.SubmitPractices()
	_ = c.Acknowledge()
	_ = c.SetLikelihood(7, DefinitelyWont)
	_ = c.SetLikelihood(8, ProbablyWill)

	data, err := json.Marshal(c.Draft())
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	var draft SessionDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}

	resumed, err := Resume(draft, catalog.Default(), scoring.NewEngine(catalog.DefaultShocks, &scoring.ScriptedSource{}))
	if err != nil {
		t.Fatalf("Resume() error = %v", err)
	}

	v := resumed.View()
	if v.State != StateLikelihoodAssessment || v.Season != 2 {
		t.Fatalf("resumed at %s season %d, expected %s season 2", v.State, v.Season, StateLikelihoodAssessment)
	}
	if !slices.Equal(v.SelectedPractices, season2) {
		t.Errorf("selection = %v, expected %v", v.SelectedPractices, season2)
	}
	if len(v.Likelihood) != 2 || v.Likelihood[7] != DefinitelyWont || v.Likelihood[8] != ProbablyWill {
		t.Errorf("answers = %v", v.Likelihood)
	}
	if v.Weather == nil || v.Weather.Shock != "Flood" {
		t.Errorf("weather = %+v, expected Flood", v.Weather)
	}
	if v.Farmer.CurrentScore != c.Farmer().CurrentScore || v.StartScore != 51.87 {
		t.Errorf("scores = current %v start %v", v.Farmer.CurrentScore, v.StartScore)
	}
	if len(v.Records) != 1 || v.Records[0].EndScore != 51.87 {
		t.Errorf("records = %+v", v.Records)
	}

	answerAll(t, resumed, ProbablyWill)
	if _, err := resumed.SubmitLikelihood(); err != nil {
		t.Fatalf("SubmitLikelihood() after resume error = %v", err)
	}
	if resumed.Season() != 3 || resumed.State() != StatePracticeSelection {
		t.Errorf("after resume: %s season %d", resumed.State(), resumed.Season())
	}

	// Going back after resume reopens season 2 from its restored snapshot.
	_ = resumed.Back()
	if resumed.Season() != 2 || resumed.View().StartScore != 51.87 {
		t.Errorf("back after resume: season %d start %v", resumed.Season(), resumed.View().StartScore)
	}
}

// A draft saved in likelihood assessment before any answer carries the same
// fields as one saved on the weather result, so it resumes there.
func TestDraftResume_LikelihoodWithoutAnswers(t *testing.T) {
	c := newController((&scoring.ScriptedSource{}).WithShock(0), 50)
	_ = c.Begin()
	_ = c.SelectPractices(first7)
	if _, err := c.SubmitPractices(); err != nil {
		t.Fatalf("SubmitPractices() error = %v", err)
	}
	if err := c.Acknowledge(); err != nil {
		t.Fatalf("Acknowledge() error = %v", err)
	}
	if c.State() != StateLikelihoodAssessment {
		t.Fatalf("state = %s, expected %s", c.State(), StateLikelihoodAssessment)
	}
	end := c.Farmer().CurrentScore

	resumed, err := Resume(c.Draft(), catalog.Default(), scoring.NewEngine(catalog.DefaultShocks, &scoring.ScriptedSource{}))
	if err != nil {
		t.Fatalf("Resume() error = %v", err)
	}

	v := resumed.View()
	if v.State != StateWeatherResult || v.Season != 1 {
		t.Fatalf("resumed at %s season %d, expected %s season 1", v.State, v.Season, StateWeatherResult)
	}
	if v.Weather == nil || v.Weather.Shock != "Drought" || v.Farmer.CurrentScore != end {
		t.Errorf("weather = %+v score = %v, expected Drought %v", v.Weather, v.Farmer.CurrentScore, end)
	}
	if err := resumed.Acknowledge(); err != nil || resumed.State() != StateLikelihoodAssessment {
		t.Errorf("Acknowledge() after resume: %v, state %s", err, resumed.State())
	}
}

func TestResume_StepInference(t *testing.T) {
	base := completeSession(t)
	records := base.Records()
	f := farmer.Farmer{ID: "F001", Name: "Ramesh Kumar", InitialScore: 50, CurrentScore: 50}

	tests := []struct {
		name     string
		draft    SessionDraft
		expected State
	}{
		{
			name:     "fresh first season",
			draft:    SessionDraft{Farmer: f, CurrentSeason: 1},
			expected: StateFarmerSelected,
		},
		{
			name:     "selection only",
			draft:    SessionDraft{Farmer: f, CurrentSeason: 1, SelectedPractices: []int{1, 2}},
			expected: StatePracticeSelection,
		},
		{
			name:     "weather decided",
			draft:    SessionDraft{Farmer: f, CurrentSeason: 1, SelectedPractices: first7, WeatherShock: &WeatherOutcome{Shock: catalog.NoShock}},
			expected: StateWeatherResult,
		},
		{
			name:     "later season without selection",
			draft:    SessionDraft{Farmer: f, CurrentSeason: 2, SeasonData: records[:1]},
			expected: StatePracticeSelection,
		},
		{
			name:     "three records",
			draft:    SessionDraft{Farmer: f, CurrentSeason: 3, SeasonData: records},
			expected: StateSessionComplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Resume(tt.draft, catalog.Default(), scoring.NewEngine(catalog.DefaultShocks, &scoring.ScriptedSource{}))
			if err != nil {
				t.Fatalf("Resume() error = %v", err)
			}
			if c.State() != tt.expected {
				t.Errorf("state = %s, expected %s", c.State(), tt.expected)
			}
		})
	}
}

func TestResume_CompleteTrajectory(t *testing.T) {
	base := completeSession(t)
	draft := base.Draft()

	c, err := Resume(draft, catalog.Default(), scoring.NewEngine(catalog.DefaultShocks, &scoring.ScriptedSource{}))
	if err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	traj, err := c.Trajectory()
	if err != nil {
		t.Fatalf("Trajectory() error = %v", err)
	}
	if traj.FinalScore != 45.24 || len(traj.Seasons) != Seasons {
		t.Errorf("unexpected trajectory: %+v", traj)
	}
}

func TestResume_RecordsWithoutIDs(t *testing.T) {
	base := completeSession(t)
	records := base.Records()
	for i := range records {
		records[i].PracticeIDs = nil
	}

	c, err := Resume(SessionDraft{Farmer: base.Farmer(), CurrentSeason: 3, SeasonData: records}, catalog.Default(), nil)
	if err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if got := c.Records()[0].PracticeIDs; !slices.Equal(got, first7) {
		t.Errorf("ids from names = %v, expected %v", got, first7)
	}
}

func TestResume_Invalid(t *testing.T) {
	f := farmer.Farmer{ID: "F001", Name: "Ramesh Kumar", InitialScore: 50, CurrentScore: 50}

	tests := []struct {
		name  string
		draft SessionDraft
	}{
		{name: "missing farmer", draft: SessionDraft{CurrentSeason: 1}},
		{name: "season zero", draft: SessionDraft{Farmer: f}},
		{name: "season 2 without records", draft: SessionDraft{Farmer: f, CurrentSeason: 2}},
		{name: "unknown practice", draft: SessionDraft{Farmer: f, CurrentSeason: 1, SelectedPractices: []int{42}}},
		{
			name:  "answers without weather",
			draft: SessionDraft{Farmer: f, CurrentSeason: 1, SelectedPractices: first7, LikelihoodAnswers: map[int]Likelihood{1: ProbablyWill}},
		},
		{
			name:  "unknown shock",
			draft: SessionDraft{Farmer: f, CurrentSeason: 1, SelectedPractices: first7, WeatherShock: &WeatherOutcome{Shock: "Hail"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resume(tt.draft, catalog.Default(), nil)
			if !errs.IsValidation(err) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestDraft_WeatherResultOmitsAnswers(t *testing.T) {
	c := newController((&scoring.ScriptedSource{}).NoShock(), 50)
	_ = c.Begin()
	_ = c.SelectPractices(first7)
	_, _ = c.SubmitPractices()
	_ = c.Acknowledge()
	_ = c.SetLikelihood(1, DefinitelyWill)
	_ = c.Back()

	d := c.Draft()
	if len(d.LikelihoodAnswers) != 0 {
		t.Errorf("draft in weather result carries answers: %v", d.LikelihoodAnswers)
	}

	resumed, err := Resume(d, catalog.Default(), nil)
	if err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if resumed.State() != StateWeatherResult {
		t.Errorf("resumed at %s, expected %s", resumed.State(), StateWeatherResult)
	}
}

func TestSeasonLabel(t *testing.T) {
	expected := []string{Rabi, Kharif, Rabi}
	for i, label := range expected {
		if got := SeasonLabel(i + 1); got != label {
			t.Errorf("SeasonLabel(%d) = %s, expected %s", i+1, got, label)
		}
	}
}

func TestLikelihood(t *testing.T) {
	for i, l := range Likelihoods {
		if l.Rank() != i+1 {
			t.Errorf("%q rank = %d, expected %d", l, l.Rank(), i+1)
		}
		parsed, err := ParseLikelihood(string(l))
		if err != nil || parsed != l {
			t.Errorf("ParseLikelihood(%q) = %q, %v", l, parsed, err)
		}
	}

	if _, err := ParseLikelihood("Sometimes"); !errs.IsValidation(err) {
		t.Errorf("expected ValidationError, got %v", err)
	}
	if DefinitelyWont.Rank() >= ProbablyWont.Rank() || ProbablyWill.Rank() >= DefinitelyWill.Rank() {
		t.Error("likelihood answers are not ordered")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	err := r.With("alice", func(*Controller) error { return nil })
	if !errs.IsNotFound(err) {
		t.Errorf("expected NotFoundError for missing session, got %v", err)
	}

	r.Put("alice", newController(&scoring.ScriptedSource{}, 50))
	if !r.Has("alice") || r.Count() != 1 {
		t.Fatalf("session not registered")
	}

	if err := r.With("alice", func(c *Controller) error { return c.Begin() }); err != nil {
		t.Fatalf("With() error = %v", err)
	}

	var wg sync.WaitGroup
	for id := 1; id <= 24; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_ = r.With("alice", func(c *Controller) error { return c.TogglePractice(id) })
		}(id)
	}
	wg.Wait()

	_ = r.With("alice", func(c *Controller) error {
		if got := len(c.View().SelectedPractices); got != 24 {
			t.Errorf("expected 24 selected practices, got %d", got)
		}
		return nil
	})

	r.Remove("alice")
	if r.Has("alice") || r.Count() != 0 {
		t.Error("session not removed")
	}
}
