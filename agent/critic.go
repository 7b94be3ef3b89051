package agent

import (
	"fmt"

	"github.com/ledeepchef/twrl/checkpoint"
	"github.com/ledeepchef/twrl/util"
	"github.com/patrikeh/go-deep"
	"github.com/patrikeh/go-deep/training"
)

// Critic estimates the value of a state text with a small regression
// network over the hashed state features.
type Critic struct {
	network *deep.Neural
	trainer *training.OnlineTrainer

	inputs    int
	hidden    []int
	epochs    int
	batchSize int
}

func NewCritic(c *Config) *Critic {
	layout := append(util.CopyIntSlice(c.CriticHidden), 1)
	network := deep.NewNeural(&deep.Config{
		Inputs:     c.FeatureSize,
		Layout:     layout,
		Activation: deep.ActivationReLU,
		Mode:       deep.ModeRegression,
		Weight:     deep.NewNormal(0.1, 0.0),
		Bias:       true,
	})
	return &Critic{
		network:   network,
		trainer:   training.NewTrainer(training.NewSGD(c.CriticLearningRate, 0.5, 0.0, false), 1),
		inputs:    c.FeatureSize,
		hidden:    util.CopyIntSlice(c.CriticHidden),
		epochs:    c.CriticEpochs,
		batchSize: c.BatchSize,
	}
}

func (c *Critic) Value(features []float64) float64 {
	return c.network.Predict(features)[0]
}

// Fit regresses the network towards the given returns.
func (c *Critic) Fit(states [][]float64, returns []float64) {
	if len(states) == 0 {
		return
	}
	examples := make(training.Examples, len(states))
	for i := range states {
		examples[i] = training.Example{
			Input:    states[i],
			Response: []float64{returns[i]},
		}
	}
	examples.Shuffle()
	// epochs online passes over every minibatch
	for start := 0; start < len(examples); start += c.batchSize {
		end := start + c.batchSize
		if end > len(examples) {
			end = len(examples)
		}
		c.trainer.Train(c.network, examples[start:end], nil, c.epochs)
	}
}

func (c *Critic) Layout() []int {
	return append(util.CopyIntSlice(c.hidden), 1)
}

func (c *Critic) Weights() [][][]float64 {
	return c.network.Dump().Weights
}

// SetWeights replaces the network weights after checking they fit the
// layout.
func (c *Critic) SetWeights(weights [][][]float64) error {
	layout := c.Layout()
	if len(weights) != len(layout) {
		return fmt.Errorf("%w: critic has %d layers, weights have %d", checkpoint.ErrSchemaMismatch, len(layout), len(weights))
	}
	prev := c.inputs
	for l, size := range layout {
		if len(weights[l]) != size {
			return fmt.Errorf("%w: critic layer %d has %d neurons, weights have %d",
				checkpoint.ErrSchemaMismatch, l, size, len(weights[l]))
		}
		for _, w := range weights[l] {
			// one extra weight per neuron for the bias
			if len(w) != prev+1 {
				return fmt.Errorf("%w: critic layer %d expects %d inputs per neuron, got %d",
					checkpoint.ErrSchemaMismatch, l, prev+1, len(w))
			}
		}
		prev = size
	}
	c.network.ApplyWeights(weights)
	return nil
}
