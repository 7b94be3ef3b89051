package agent

import (
	"github.com/ledeepchef/twrl/core"
	"gonum.org/v1/gonum/stat"
)

// advantages computes generalised advantage estimates and the matching
// returns. The value after the last transition is 0 when it ended the
// episode and the last estimate otherwise.
func advantages(ts []core.Transition, gamma, lambda float64) ([]float64, []float64) {
	n := len(ts)
	adv := make([]float64, n)
	returns := make([]float64, n)
	next := 0.0
	// a trajectory cut by the update cadence has no value for the next
	// state yet, the estimate of its last state stands in for it
	if n > 0 && !ts[n-1].Done {
		next = ts[n-1].Value
	}
	gae := 0.0
	for t := n - 1; t >= 0; t-- {
		nonTerminal := 1.0
		if ts[t].Done {
			nonTerminal = 0
		}
		delta := ts[t].Reward + gamma*next*nonTerminal - ts[t].Value
		gae = delta + gamma*lambda*nonTerminal*gae
		adv[t] = gae
		returns[t] = gae + ts[t].Value
		next = ts[t].Value
	}
	return adv, returns
}

func normalizeAdvantages(adv []float64) {
	if len(adv) < 2 {
		return
	}
	mean, std := stat.MeanStdDev(adv, nil)
	if std < 1e-8 {
		for i := range adv {
			adv[i] -= mean
		}
		return
	}
	for i := range adv {
		adv[i] = (adv[i] - mean) / std
	}
}

// Learn runs one update over the buffered trajectory and clears it.
func (a *Agent) Learn() error {
	ts := a.buffer.Drain()
	if len(ts) == 0 {
		return nil
	}

	adv, returns := advantages(ts, a.config.Gamma, a.config.Lambda)
	normalizeAdvantages(adv)

	states := make([][]float64, len(ts))
	for i, t := range ts {
		features := newFeaturizer(t.StateText, a.config.FeatureSize).commands(t.Commands)
		a.policy.Update(features, t.Index, adv[i], a.config.PolicyLearningRate)
		states[i] = stateFeatures(t.StateText, a.config.FeatureSize)
	}
	a.critic.Fit(states, returns)

	a.learnSteps++
	a.logger.Debug("learned", "transitions", len(ts), "learn_steps", a.learnSteps)
	return nil
}
