package core

import "context"

// Environment is the single-slot view of a text game the trainer plays.
type Environment interface {
	Reset() (*Observation, error)
	Step(command string) (*Observation, error)
}

// Info is the auxiliary record returned alongside every observation.
// Which fields are populated depends on the infos requested from the
// simulation backend.
type Info struct {
	MaxScore           float64                `json:"max_score"`
	Won                bool                   `json:"won"`
	Lost               bool                   `json:"lost"`
	Description        string                 `json:"description"`
	Inventory          string                 `json:"inventory"`
	Objective          string                 `json:"objective"`
	Verbs              []string               `json:"verbs"`
	CommandTemplates   []string               `json:"command_templates"`
	AdmissibleCommands []string               `json:"admissible_commands,omitempty"`
	Walkthrough        []string               `json:"walkthrough,omitempty"`
	Extras             map[string]interface{} `json:"extras,omitempty"`
}

// Observation is what the environment reports after a reset or a step.
// Score is the cumulative score of the episode so far.
type Observation struct {
	Text  string
	Score float64
	Done  bool
	Info  *Info
}

// MaxScore returns the maximum reachable score, or 0 if no info was reported.
func (o *Observation) MaxScore() float64 {
	if o == nil || o.Info == nil {
		return 0
	}
	return o.Info.MaxScore
}

type EpisodeContext struct {
	Context context.Context
	Episode int

	// filled in once the episode is over
	Score    float64
	AvgScore float64
	MaxScore float64
	Won      bool
	Lost     bool

	Trace *Trace
}

func NewEpisodeContext(ctx context.Context, episode int) *EpisodeContext {
	return &EpisodeContext{
		Context: ctx,
		Episode: episode,
		Trace:   NewTrace(),
	}
}
