package agent

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/ledeepchef/twrl/checkpoint"
	"github.com/ledeepchef/twrl/core"
)

// LoadResult tells whether the agent came from a checkpoint. Cause holds
// the reason a fresh agent was built instead.
type LoadResult struct {
	Agent    *Agent
	Restored bool
	Cause    error
}

// LoadOrNew restores the agent saved at path, falling back to a fresh
// agent built from c on any failure. It only fails when c itself is
// invalid.
func LoadOrNew(path string, c *Config, logger *log.Logger) (LoadResult, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Snapshot{}
	err := checkpoint.Load(path, SnapshotVersion, s)
	if err == nil {
		a, restoreErr := FromSnapshot(s, c, logger)
		if restoreErr == nil {
			logger.Info("loaded agent", "path", path, "episodes", a.episodes)
			return LoadResult{Agent: a, Restored: true}, nil
		}
		err = restoreErr
	}

	logger.Warn("starting a fresh agent", "path", path, "cause", err)
	a, newErr := New(c, logger)
	if newErr != nil {
		return LoadResult{Cause: err}, newErr
	}
	return LoadResult{Agent: a, Cause: err}, nil
}

func (a *Agent) Save(path string) error {
	return checkpoint.Save(path, SnapshotVersion, a.Snapshot())
}

// Checkpointer saves an agent to a fixed path.
type Checkpointer struct {
	Agent *Agent
	Path  string
}

var _ core.Checkpointer = &Checkpointer{}

func NewCheckpointer(a *Agent, path string) *Checkpointer {
	return &Checkpointer{Agent: a, Path: path}
}

func (c *Checkpointer) Checkpoint() error {
	return c.Agent.Save(c.Path)
}
