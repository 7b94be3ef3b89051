package agent

import (
	"errors"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ledeepchef/twrl/core"
)

var ErrNoCandidates = errors.New("no candidate commands")

// Agent is a small actor-critic learner. The actor is a linear softmax
// over hashed command features, the critic a neural network over hashed
// state features.
type Agent struct {
	config *Config
	policy *Policy
	critic *Critic
	buffer *Buffer
	logger *log.Logger

	training  bool
	stateText string
	lastScore float64

	episodes   int
	learnSteps int
}

var _ core.Agent = &Agent{}

func New(c *Config, logger *log.Logger) (*Agent, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c = c.Copy()
	seed := c.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Agent{
		config:   c,
		policy:   NewPolicy(c.FeatureSize, c.Temperature, seed),
		critic:   NewCritic(c),
		buffer:   NewBuffer(),
		logger:   logger,
		training: true,
	}, nil
}

// Train switches to sampling actions.
func (a *Agent) Train() {
	a.training = true
}

// Eval switches to always picking the most likely action.
func (a *Agent) Eval() {
	a.training = false
}

func (a *Agent) Training() bool {
	return a.training
}

// StoreStateText builds the state from the observation text together
// with the room description and inventory when they were reported.
func (a *Agent) StoreStateText(obs *core.Observation) {
	parts := []string{strings.TrimSpace(obs.Text)}
	if obs.Info != nil {
		if d := strings.TrimSpace(obs.Info.Description); d != "" {
			parts = append(parts, d)
		}
		if inv := strings.TrimSpace(obs.Info.Inventory); inv != "" {
			parts = append(parts, inv)
		}
	}
	a.stateText = strings.Join(parts, "\n")
}

func (a *Agent) StateText() string {
	return a.stateText
}

// ActionProbabilities returns the candidates for obs and the probability
// the policy gives each of them in the current state.
func (a *Agent) ActionProbabilities(obs *core.Observation) ([]string, []float64) {
	commands := Candidates(obs, a.config.MaxCandidates)
	features := newFeaturizer(a.stateText, a.config.FeatureSize).commands(commands)
	return commands, a.policy.Probabilities(features)
}

func (a *Agent) ChooseAction(obs *core.Observation) (*core.Decision, error) {
	commands, probs := a.ActionProbabilities(obs)
	if len(commands) == 0 {
		return nil, ErrNoCandidates
	}

	index := a.policy.Greedy(probs)
	if a.training {
		i, ok := a.policy.Sample(probs)
		if !ok {
			return nil, ErrNoCandidates
		}
		index = i
	}

	return &core.Decision{
		Command:  commands[index],
		LogProb:  math.Log(probs[index]),
		Value:    a.critic.Value(stateFeatures(a.stateText, a.config.FeatureSize)),
		Commands: commands,
		Index:    index,
	}, nil
}

func (a *Agent) Remember(t core.Transition) {
	a.buffer.Add(t)
}

// EndEpisode resets the per episode state once the game is over.
func (a *Agent) EndEpisode(_ *core.Observation) error {
	a.episodes++
	a.lastScore = 0
	a.stateText = ""
	if n := a.buffer.Len(); n > 0 {
		a.logger.Debug("dropping unlearned transitions", "count", n)
		a.buffer.Drain()
	}
	return nil
}

func (a *Agent) LastScore() float64 {
	return a.lastScore
}

func (a *Agent) SetLastScore(s float64) {
	a.lastScore = s
}

func (a *Agent) UpdateFrequency() int {
	return a.config.UpdateFrequency
}

func (a *Agent) Episodes() int {
	return a.episodes
}

func (a *Agent) LearnSteps() int {
	return a.learnSteps
}
