package core

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

var (
	ErrInterrupted     = errors.New("training interrupted")
	ErrUpdateFrequency = errors.New("agent update frequency must be positive")
	ErrCheckpoint      = errors.New("checkpoint failed")
)

// Progress receives a one line summary after every episode.
type Progress interface {
	Set(string)
}

type TrainingResult struct {
	CompletedEpisodes int
	Checkpoints       int
	Interrupted       bool

	TrainingState
	Scores []float64
}

// Trainer runs episodes of an Environment against an Agent and triggers
// the agent's learning update every UpdateFrequency time steps and at
// the end of every episode.
type Trainer struct {
	env    Environment
	agent  Agent
	config *RunConfig

	analyzers    []Analyzer
	checkpointer Checkpointer
	progress     Progress
	logger       *log.Logger

	state  TrainingState
	scores *RollingScores
	board  *statusBoard
}

type TrainerOption func(*Trainer)

func WithLogger(l *log.Logger) TrainerOption {
	return func(t *Trainer) {
		t.logger = l
	}
}

func WithAnalyzers(a ...Analyzer) TrainerOption {
	return func(t *Trainer) {
		t.analyzers = append(t.analyzers, a...)
	}
}

func WithCheckpointer(c Checkpointer) TrainerOption {
	return func(t *Trainer) {
		t.checkpointer = c
	}
}

func WithProgress(p Progress) TrainerOption {
	return func(t *Trainer) {
		t.progress = p
	}
}

func NewTrainer(env Environment, agent Agent, config *RunConfig, opts ...TrainerOption) *Trainer {
	if config == nil {
		config = DefaultRunConfig()
	}
	t := &Trainer{
		env:       env,
		agent:     agent,
		config:    config,
		analyzers: make([]Analyzer, 0),
		logger:    log.New(io.Discard),
		scores:    NewRollingScores(config.ScoreWindow),
		board:     &statusBoard{},
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Status returns a copy of the current training counters. It is safe to
// call from other goroutines while Train runs.
func (t *Trainer) Status() TrainingStatus {
	return t.board.get()
}

// Train runs the configured number of episodes. When ctx is cancelled the
// current episode is abandoned, a checkpoint is taken if configured and
// ErrInterrupted is returned together with the partial result.
func (t *Trainer) Train(ctx context.Context) (*TrainingResult, error) {
	if t.agent.UpdateFrequency() <= 0 {
		return nil, ErrUpdateFrequency
	}
	for _, a := range t.analyzers {
		a.Reset()
	}
	result := &TrainingResult{}
	t.publish(true)

	var runErr error
EpisodeLoop:
	for episode := 0; episode < t.config.Episodes; episode++ {
		select {
		case <-ctx.Done():
			runErr = ErrInterrupted
			break EpisodeLoop
		default:
		}

		eCtx := NewEpisodeContext(ctx, episode)
		if err := t.runEpisode(eCtx); err != nil {
			runErr = err
			// a backend or agent failing after the cancel is part of the interrupt
			if ctx.Err() != nil && !errors.Is(err, ErrInterrupted) {
				t.logger.Debug("episode failed after interrupt", "err", err)
				runErr = fmt.Errorf("%w: %w", ErrInterrupted, err)
			}
			break EpisodeLoop
		}
		result.CompletedEpisodes++

		if t.config.shouldSave(episode) {
			if err := t.checkpoint(); err != nil {
				runErr = err
				break EpisodeLoop
			}
			result.Checkpoints++
		}
	}

	switch {
	case errors.Is(runErr, ErrInterrupted):
		result.Interrupted = true
		t.logger.Warn("training interrupted", "episodes", t.state.Episodes, "time_steps", t.state.TimeSteps)
		if t.config.CheckpointOnInterrupt {
			if err := t.checkpoint(); err != nil {
				runErr = errors.Join(runErr, err)
			} else {
				result.Checkpoints++
			}
		}
	case runErr == nil:
		// the last periodic save may already cover the final episode
		if t.config.Episodes > 0 && !t.config.shouldSave(t.config.Episodes-1) {
			if err := t.checkpoint(); err != nil {
				runErr = err
			} else {
				result.Checkpoints++
			}
		}
	}

	for _, a := range t.analyzers {
		if f, ok := a.(Finisher); ok {
			if err := f.Finish(); err != nil {
				t.logger.Error("could not save analysis", "err", err)
			}
		}
	}

	t.publish(false)
	result.TrainingState = t.state
	result.Scores = t.scores.Scores()
	return result, runErr
}

func (t *Trainer) runEpisode(eCtx *EpisodeContext) error {
	obs, err := t.env.Reset()
	if err != nil {
		return fmt.Errorf("episode %d: reset: %w", eCtx.Episode, err)
	}
	t.agent.Train()
	t.agent.StoreStateText(obs)

	score := 0.0
	for step := 0; !obs.Done; step++ {
		select {
		case <-eCtx.Context.Done():
			return ErrInterrupted
		default:
		}

		decision, err := t.agent.ChooseAction(obs)
		if err != nil {
			return fmt.Errorf("episode %d step %d: choose action: %w", eCtx.Episode, step, err)
		}
		next, err := t.env.Step(decision.Command)
		if err != nil {
			return fmt.Errorf("episode %d step %d: %w", eCtx.Episode, step, err)
		}
		t.state.TimeSteps++

		reward := next.Score - t.agent.LastScore()
		t.agent.SetLastScore(next.Score)
		score = next.Score

		stateText := t.agent.StateText()
		t.agent.Remember(Transition{
			StateText: stateText,
			Index:     decision.Index,
			Commands:  decision.Commands,
			LogProb:   decision.LogProb,
			Value:     decision.Value,
			Reward:    reward,
			Done:      next.Done,
		})
		if t.state.TimeSteps%t.agent.UpdateFrequency() == 0 || next.Done {
			if err := t.agent.Learn(); err != nil {
				return fmt.Errorf("episode %d step %d: learn: %w", eCtx.Episode, step, err)
			}
			t.state.LearnSteps++
		}
		t.agent.StoreStateText(next)

		eCtx.Trace.AddStep(&Step{
			StateText: stateText,
			Command:   decision.Command,
			Reward:    reward,
			Score:     next.Score,
			Done:      next.Done,
			NextText:  next.Text,
		})
		obs = next
	}

	t.scores.Add(score)
	t.state.Episodes++
	t.state.LastScore = score
	t.state.AvgScore = t.scores.Mean()
	t.state.MaxScore = obs.MaxScore()

	eCtx.Score = score
	eCtx.AvgScore = t.state.AvgScore
	eCtx.MaxScore = t.state.MaxScore
	if obs.Info != nil {
		eCtx.Won = obs.Info.Won
		eCtx.Lost = obs.Info.Lost
	}

	t.logger.Info("episode",
		"episode", eCtx.Episode,
		"score", fmt.Sprintf("%.1f", score),
		"avg_score", fmt.Sprintf("%.1f", t.state.AvgScore),
		"max_score", fmt.Sprintf("%.1f", t.state.MaxScore),
		"learning_steps", t.state.LearnSteps,
		"time_steps", t.state.TimeSteps,
	)
	if t.progress != nil {
		t.progress.Set(fmt.Sprintf(
			"Episode %d/%d, Score: %.1f, Avg: %.1f, Max: %.1f, Learning steps: %d, Time steps: %d",
			eCtx.Episode+1, t.config.Episodes, score, t.state.AvgScore, t.state.MaxScore,
			t.state.LearnSteps, t.state.TimeSteps,
		))
	}
	t.publish(true)

	for _, a := range t.analyzers {
		a.Analyze(eCtx, eCtx.Trace)
	}

	if err := t.agent.EndEpisode(obs); err != nil {
		return fmt.Errorf("episode %d: end episode: %w", eCtx.Episode, err)
	}
	return nil
}

func (t *Trainer) checkpoint() error {
	if t.checkpointer == nil {
		return nil
	}
	if err := t.checkpointer.Checkpoint(); err != nil {
		return fmt.Errorf("%w after %d episodes: %w", ErrCheckpoint, t.state.Episodes, err)
	}
	t.logger.Info("saved agent", "episodes", t.state.Episodes)
	return nil
}

func (t *Trainer) publish(running bool) {
	t.board.publish(TrainingStatus{
		TrainingState: t.state,
		TotalEpisodes: t.config.Episodes,
		Running:       running,
	})
}
