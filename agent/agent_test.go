package agent

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ledeepchef/twrl/checkpoint"
	"github.com/ledeepchef/twrl/core"
)

func testConfig() *Config {
	c := DefaultConfig()
	c.FeatureSize = 256
	c.CriticHidden = []int{8}
	c.Seed = 7
	return c
}

func kitchenObs() *core.Observation {
	return &core.Observation{
		Text: "You are in a kitchen. You see a closed fridge and a table.",
		Info: &core.Info{
			MaxScore:         3,
			Inventory:        "You are carrying: a knife",
			CommandTemplates: []string{"look", "open {c}", "take {o}", "put {o} on {s}"},
		},
	}
}

func newTestAgent(t *testing.T) *Agent {
	t.Helper()
	a, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func TestChooseAction(t *testing.T) {
	a := newTestAgent(t)
	obs := kitchenObs()
	a.StoreStateText(obs)

	d, err := a.ChooseAction(obs)
	if err != nil {
		t.Fatalf("ChooseAction: %v", err)
	}
	if d.Commands[d.Index] != d.Command {
		t.Fatalf("index %d does not point at %q", d.Index, d.Command)
	}
	// fresh weights give a uniform policy
	want := -math.Log(float64(len(d.Commands)))
	if math.Abs(d.LogProb-want) > 1e-9 {
		t.Fatalf("got log prob %v, want %v", d.LogProb, want)
	}
}

func TestEvalIsGreedy(t *testing.T) {
	a := newTestAgent(t)
	obs := kitchenObs()
	a.StoreStateText(obs)
	commands, _ := a.ActionProbabilities(obs)
	features := newFeaturizer(a.StateText(), a.config.FeatureSize).commands(commands)
	for i := 0; i < 20; i++ {
		a.policy.Update(features, 1, 1, 0.5)
	}

	a.Eval()
	if a.Training() {
		t.Fatalf("agent still in training mode")
	}
	for i := 0; i < 5; i++ {
		d, err := a.ChooseAction(obs)
		if err != nil {
			t.Fatal(err)
		}
		if d.Index != 1 {
			t.Fatalf("eval picked %d, want the reinforced command 1", d.Index)
		}
	}
}

func TestLearnClearsBuffer(t *testing.T) {
	a := newTestAgent(t)
	obs := kitchenObs()
	a.StoreStateText(obs)
	for i := 0; i < 3; i++ {
		d, err := a.ChooseAction(obs)
		if err != nil {
			t.Fatal(err)
		}
		a.Remember(core.Transition{
			StateText: a.StateText(),
			Index:     d.Index,
			Commands:  d.Commands,
			LogProb:   d.LogProb,
			Value:     d.Value,
			Reward:    float64(i),
			Done:      i == 2,
		})
	}
	if err := a.Learn(); err != nil {
		t.Fatalf("Learn: %v", err)
	}
	if a.buffer.Len() != 0 {
		t.Fatalf("buffer holds %d transitions after learning", a.buffer.Len())
	}
	if a.LearnSteps() != 1 {
		t.Fatalf("got %d learn steps, want 1", a.LearnSteps())
	}
	if err := a.Learn(); err != nil || a.LearnSteps() != 1 {
		t.Fatalf("learning on an empty buffer must be a no-op")
	}
}

func TestRepeatedLearnKeepsGoroutinesFlat(t *testing.T) {
	a := newTestAgent(t)
	obs := kitchenObs()
	a.StoreStateText(obs)

	before := runtime.NumGoroutine()
	for i := 0; i < 200; i++ {
		d, err := a.ChooseAction(obs)
		if err != nil {
			t.Fatal(err)
		}
		a.Remember(core.Transition{
			StateText: a.StateText(),
			Index:     d.Index,
			Commands:  d.Commands,
			LogProb:   d.LogProb,
			Value:     d.Value,
			Reward:    1,
		})
		if err := a.Learn(); err != nil {
			t.Fatalf("Learn: %v", err)
		}
	}
	if after := runtime.NumGoroutine(); after > before+2 {
		t.Fatalf("goroutines grew from %d to %d over 200 updates", before, after)
	}
	if a.LearnSteps() != 200 {
		t.Fatalf("got %d learn steps, want 200", a.LearnSteps())
	}
}

func TestEndEpisode(t *testing.T) {
	a := newTestAgent(t)
	a.StoreStateText(kitchenObs())
	a.SetLastScore(2)
	if err := a.EndEpisode(kitchenObs()); err != nil {
		t.Fatal(err)
	}
	if a.LastScore() != 0 || a.StateText() != "" || a.Episodes() != 1 {
		t.Fatalf("episode state not reset: score %v text %q episodes %d", a.LastScore(), a.StateText(), a.Episodes())
	}
}

func TestAdvantages(t *testing.T) {
	ts := []core.Transition{
		{Reward: 0, Value: 0.5},
		{Reward: 1, Value: 0.5, Done: true},
	}
	adv, returns := advantages(ts, 0.5, 1)
	// last: 1 - 0.5 = 0.5, first: 0 + 0.5*0.5 - 0.5 + 0.5*0.5 = 0
	if math.Abs(adv[1]-0.5) > 1e-9 || math.Abs(adv[0]) > 1e-9 {
		t.Fatalf("got advantages %v", adv)
	}
	if math.Abs(returns[1]-1) > 1e-9 || math.Abs(returns[0]-0.5) > 1e-9 {
		t.Fatalf("got returns %v", returns)
	}

	// an unfinished trajectory bootstraps from its last value
	adv, _ = advantages([]core.Transition{{Reward: 0, Value: 2}}, 0.5, 1)
	if math.Abs(adv[0]-(-1)) > 1e-9 {
		t.Fatalf("got %v, want -1", adv[0])
	}
}

func TestSnapshotRestoresProbabilities(t *testing.T) {
	a := newTestAgent(t)
	obs := kitchenObs()
	a.StoreStateText(obs)
	commands, _ := a.ActionProbabilities(obs)
	features := newFeaturizer(a.StateText(), a.config.FeatureSize).commands(commands)
	a.policy.Update(features, 2, 1, 0.3)

	path := checkpoint.Path(t.TempDir())
	if err := NewCheckpointer(a, path).Checkpoint(); err != nil {
		t.Fatalf("Checkpoint: %v", err)
	}

	res, err := LoadOrNew(path, testConfig(), nil)
	if err != nil {
		t.Fatalf("LoadOrNew: %v", err)
	}
	if !res.Restored || res.Cause != nil {
		t.Fatalf("agent not restored: %v", res.Cause)
	}
	b := res.Agent
	b.StoreStateText(obs)
	_, want := a.ActionProbabilities(obs)
	_, got := b.ActionProbabilities(obs)
	for i := range want {
		if math.Abs(want[i]-got[i]) > 1e-12 {
			t.Fatalf("probability %d: got %v, want %v", i, got[i], want[i])
		}
	}
	sf := stateFeatures(a.StateText(), a.config.FeatureSize)
	if math.Abs(a.critic.Value(sf)-b.critic.Value(sf)) > 1e-12 {
		t.Fatalf("critic values differ after restore")
	}
}

func TestLoadOrNewFallsBack(t *testing.T) {
	dir := t.TempDir()

	res, err := LoadOrNew(filepath.Join(dir, "missing.pkl"), testConfig(), nil)
	if err != nil || res.Agent == nil || res.Restored || !errors.Is(res.Cause, checkpoint.ErrNotFound) {
		t.Fatalf("missing: got %+v, %v", res, err)
	}

	corrupt := filepath.Join(dir, "corrupt.pkl")
	os.WriteFile(corrupt, []byte("junk"), 0o644)
	res, _ = LoadOrNew(corrupt, testConfig(), nil)
	if res.Agent == nil || !errors.Is(res.Cause, checkpoint.ErrCorrupt) {
		t.Fatalf("corrupt: got %+v", res)
	}

	saved := filepath.Join(dir, "saved.pkl")
	if err := newTestAgent(t).Save(saved); err != nil {
		t.Fatal(err)
	}
	bigger := testConfig()
	bigger.CriticHidden = []int{16}
	res, _ = LoadOrNew(saved, bigger, nil)
	if res.Agent == nil || res.Restored || !errors.Is(res.Cause, checkpoint.ErrSchemaMismatch) {
		t.Fatalf("layout change: got %+v", res)
	}

	bad := testConfig()
	bad.UpdateFrequency = 0
	if _, err := LoadOrNew(saved, bad, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("got %v, want ErrInvalidConfig", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.yaml")
	os.WriteFile(path, []byte("update_frequency: 4\ncritic_hidden: [16, 8]\ndevice: cuda:0\n"), 0o644)

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if c.UpdateFrequency != 4 || len(c.CriticHidden) != 2 || c.Device != "cuda:0" {
		t.Fatalf("got %+v", c)
	}
	if c.Gamma != 0.99 || c.FeatureSize != 512 {
		t.Fatalf("defaults not kept: %+v", c)
	}

	os.WriteFile(path, []byte("temperature: -1\n"), 0o644)
	if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("got %v, want ErrInvalidConfig", err)
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
