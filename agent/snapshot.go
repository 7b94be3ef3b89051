package agent

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/ledeepchef/twrl/checkpoint"
	"github.com/ledeepchef/twrl/util"
)

// SnapshotVersion is bumped whenever Snapshot changes shape.
const SnapshotVersion = 1

// Snapshot is everything needed to rebuild a trained agent. Buffers,
// random sources and the logger are left out.
type Snapshot struct {
	Config Config

	PolicyWeights []float64

	CriticInputs  int
	CriticLayout  []int
	CriticWeights [][][]float64

	Episodes   int
	LearnSteps int
}

func (a *Agent) Snapshot() *Snapshot {
	return &Snapshot{
		Config:        *a.config.Copy(),
		PolicyWeights: util.CopyFloatSlice(a.policy.Weights),
		CriticInputs:  a.critic.inputs,
		CriticLayout:  a.critic.Layout(),
		CriticWeights: a.critic.Weights(),
		Episodes:      a.episodes,
		LearnSteps:    a.learnSteps,
	}
}

// FromSnapshot rebuilds an agent. Run time settings come from c, the
// feature size and critic layout must match the snapshot.
func FromSnapshot(s *Snapshot, c *Config, logger *log.Logger) (*Agent, error) {
	if c == nil {
		c = s.Config.Copy()
	}
	if c.FeatureSize != s.CriticInputs || len(s.PolicyWeights) != c.FeatureSize {
		return nil, fmt.Errorf("%w: feature size %d, snapshot has %d",
			checkpoint.ErrSchemaMismatch, c.FeatureSize, s.CriticInputs)
	}
	layout := append(util.CopyIntSlice(c.CriticHidden), 1)
	if !equalInts(layout, s.CriticLayout) {
		return nil, fmt.Errorf("%w: critic layout %v, snapshot has %v",
			checkpoint.ErrSchemaMismatch, layout, s.CriticLayout)
	}

	a, err := New(c, logger)
	if err != nil {
		return nil, err
	}
	copy(a.policy.Weights, s.PolicyWeights)
	if err := a.critic.SetWeights(s.CriticWeights); err != nil {
		return nil, err
	}
	a.episodes = s.Episodes
	a.learnSteps = s.LearnSteps
	return a, nil
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
