package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/AccelByte/extend-khetscore-simulation/pkg/errs"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/farmer"
)

// Seasons is the number of seasons in a session.
const Seasons = 3

// Season labels.
const (
	Rabi   = "Rabi"
	Kharif = "Kharif"
)

// SeasonLabel returns "Rabi" for odd seasons and "Kharif" for even ones.
func SeasonLabel(season int) string {
	if season%2 == 1 {
		return Rabi
	}
	return Kharif
}

// State is a step of the session walkthrough.
type State string

const (
	StateFarmerSelected       State = "farmer-selected"
	StatePracticeSelection    State = "practice-selection"
	StateWeatherResult        State = "weather-result"
	StateLikelihoodAssessment State = "likelihood-assessment"
	StateSessionComplete      State = "session-complete"
)

// Event is an input that moves the session between states.
type Event string

const (
	EventBegin            Event = "begin"
	EventSelectPractices  Event = "select-practices"
	EventSubmitPractices  Event = "submit-practices"
	EventAcknowledge      Event = "acknowledge"
	EventSetLikelihood    Event = "set-likelihood"
	EventSubmitLikelihood Event = "submit-likelihood"
	EventBack             Event = "back"
)

// transitions lists the events each state accepts.
// Selection and likelihood edits stay in their state.
var transitions = map[State]map[Event]bool{
	StateFarmerSelected: {
		EventBegin: true,
	},
	StatePracticeSelection: {
		EventSelectPractices: true,
		EventSubmitPractices: true,
		EventBack:            true,
	},
	StateWeatherResult: {
		EventAcknowledge: true,
		EventBack:        true,
	},
	StateLikelihoodAssessment: {
		EventSetLikelihood:    true,
		EventSubmitLikelihood: true,
		EventBack:             true,
	},
	StateSessionComplete: {
		EventBack: true,
	},
}

// ErrInvalidTransition is returned when an event is not accepted in the
// current state. The session is left unchanged.
var ErrInvalidTransition = errors.New("invalid transition")

// Accepts reports whether the state accepts the event.
func (s State) Accepts(e Event) bool {
	return transitions[s][e]
}

func checkTransition(s State, e Event) error {
	if !s.Accepts(e) {
		return fmt.Errorf("%w: %s in state %s", ErrInvalidTransition, e, s)
	}
	return nil
}

// Likelihood is a self-reported likelihood of continuing a practice.
type Likelihood string

const (
	DefinitelyWont Likelihood = "Definitely won't do it"
	ProbablyWont   Likelihood = "Probably won't do it"
	ProbablyWill   Likelihood = "Probably will do it"
	DefinitelyWill Likelihood = "Definitely will do it"
)

// Likelihoods lists the answers in ascending order.
var Likelihoods = []Likelihood{DefinitelyWont, ProbablyWont, ProbablyWill, DefinitelyWill}

// Rank returns the 1-based ordinal of l, or 0 if l is not a valid answer.
func (l Likelihood) Rank() int {
	for i, v := range Likelihoods {
		if v == l {
			return i + 1
		}
	}
	return 0
}

// ParseLikelihood validates s as one of the four answers.
func ParseLikelihood(s string) (Likelihood, error) {
	l := Likelihood(s)
	if l.Rank() == 0 {
		return "", errs.NewValidation("likelihood", "unknown answer %q", s)
	}
	return l, nil
}

// WeatherOutcome is the decided weather of a season. Shock is
// catalog.NoShock when the season had no shock.
type WeatherOutcome struct {
	Shock  string  `json:"name"`
	Impact float64 `json:"impact"`
}

// SeasonRecord is one completed season. Immutable once appended.
type SeasonRecord struct {
	Season       int                `json:"season"`
	SeasonType   string             `json:"seasonType"`
	Practices    []string           `json:"practices"`
	PracticeIDs  []int              `json:"practiceIds,omitempty"`
	WeatherShock string             `json:"weatherShock"`
	EndScore     float64            `json:"endScore"`
	Likelihood   map[int]Likelihood `json:"likelihood"`
}

// SeasonSnapshot is the working state of one season. The controller keeps
// one per season entered so backward navigation can restore it.
type SeasonSnapshot struct {
	Season      int
	StartScore  float64
	PracticeIDs []int
	Weather     *WeatherOutcome // nil until practices are submitted
	EndScore    float64
	Likelihood  map[int]Likelihood
}

// SessionDraft is a resumable snapshot of an unfinished session.
type SessionDraft struct {
	Farmer            farmer.Farmer      `json:"farmer"`
	CurrentSeason     int                `json:"currentSeason"`
	SelectedPractices []int              `json:"selectedPractices"`
	WeatherShock      *WeatherOutcome    `json:"weatherShock"`
	SeasonData        []SeasonRecord     `json:"seasonData"`
	LikelihoodAnswers map[int]Likelihood `json:"likelihoodAnswers"`
	Timestamp         time.Time          `json:"timestamp"`
}

// Trajectory is the outcome of a completed session.
type Trajectory struct {
	FarmerID     string         `json:"farmerId"`
	FarmerName   string         `json:"farmerName"`
	InitialScore float64        `json:"initialKhetscore"`
	FinalScore   float64        `json:"finalKhetscore"`
	Seasons      []SeasonRecord `json:"seasons"`
}

// View is a read-only snapshot of the session for presentation.
type View struct {
	State             State              `json:"state"`
	Season            int                `json:"season"`
	SeasonType        string             `json:"seasonType"`
	Farmer            farmer.Farmer      `json:"farmer"`
	StartScore        float64            `json:"startScore"`
	SelectedPractices []int              `json:"selectedPractices"`
	Weather           *WeatherOutcome    `json:"weather,omitempty"`
	Likelihood        map[int]Likelihood `json:"likelihood,omitempty"`
	Records           []SeasonRecord     `json:"records"`
}
