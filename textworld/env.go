package textworld

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/ledeepchef/twrl/core"
	"github.com/ledeepchef/twrl/util"
)

var (
	ErrBatchSize = errors.New("number of commands does not match the batch size")
	ErrNoBackend = errors.New("no simulation backend configured")
)

type Config struct {
	// Games is a directory of game files or a single game file
	Games string
	// FixtureGame replaces the discovered games with this one file
	FixtureGame string

	MaxSteps  int
	BatchSize int
	Infos     RequestedInfo

	Backend Backend
	Logger  *log.Logger
}

func (c *Config) setDefaults() {
	if c.MaxSteps <= 0 {
		c.MaxSteps = 100
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 1
	}
	if c.Infos.isZero() {
		c.Infos = DefaultRequestedInfo()
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
}

// Env wraps a registered batch of games. The trainer plays slot 0
// through Reset and Step.
type Env struct {
	games  GameSet
	config Config
	handle Handle
	logger *log.Logger
}

var _ core.Environment = &Env{}

func New(c Config) (*Env, error) {
	c.setDefaults()
	if c.Backend == nil {
		return nil, ErrNoBackend
	}

	games, err := FindGames(c.Games)
	if err != nil {
		return nil, err
	}
	c.Logger.Info("games found for training", "count", len(games))

	if c.FixtureGame != "" {
		fixture, err := FindGames(c.FixtureGame)
		if err != nil {
			return nil, fmt.Errorf("fixture game: %w", err)
		}
		games = fixture[:1]
		c.Logger.Warn("using fixture game instead of the discovered games", "game", games[0])
	}

	handle, err := c.Backend.Register(games, c.Infos, c.MaxSteps, c.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("registering games: %w", err)
	}
	return &Env{
		games:  games,
		config: c,
		handle: handle,
		logger: c.Logger,
	}, nil
}

func (e *Env) Games() GameSet {
	return GameSet(util.CopyStringSlice(e.games))
}

func (e *Env) Reset() (*core.Observation, error) {
	obs, err := e.ResetBatch()
	if err != nil {
		return nil, err
	}
	return first(obs, "reset")
}

// Step plays command in every slot and returns slot 0.
func (e *Env) Step(command string) (*core.Observation, error) {
	commands := make([]string, e.config.BatchSize)
	for i := range commands {
		commands[i] = command
	}
	obs, err := e.StepBatch(commands)
	if err != nil {
		return nil, err
	}
	return first(obs, "step")
}

func (e *Env) ResetBatch() ([]*core.Observation, error) {
	obs, err := e.handle.Reset()
	if err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	return obs, nil
}

func (e *Env) StepBatch(commands []string) ([]*core.Observation, error) {
	if len(commands) != e.config.BatchSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrBatchSize, len(commands), e.config.BatchSize)
	}
	obs, err := e.handle.Step(commands)
	if err != nil {
		return nil, fmt.Errorf("step: %w", err)
	}
	return obs, nil
}

func (e *Env) Render(w io.Writer) error {
	text, err := e.handle.Render()
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	_, err = io.WriteString(w, text)
	return err
}

func (e *Env) Close() error {
	e.logger.Debug("closing simulator")
	return e.handle.Close()
}

func first(obs []*core.Observation, op string) (*core.Observation, error) {
	if len(obs) == 0 || obs[0] == nil {
		return nil, fmt.Errorf("%s: backend returned no observation", op)
	}
	return obs[0], nil
}
