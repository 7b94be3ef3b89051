package agent

import (
	"math"

	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// Policy scores every candidate command with a linear function of its
// features and picks one according to the softmax of the scores, with a
// temperature.
type Policy struct {
	Weights     []float64
	Temperature float64

	rand erand.Source
}

func NewPolicy(featureSize int, temperature float64, seed uint64) *Policy {
	return &Policy{
		Weights:     make([]float64, featureSize),
		Temperature: temperature,
		rand:        erand.NewSource(seed),
	}
}

// Probabilities returns the softmax distribution over the candidates.
func (p *Policy) Probabilities(features [][]float64) []float64 {
	vals := make([]float64, len(features))
	if len(features) == 0 {
		return vals
	}
	for i, f := range features {
		vals[i] = floats.Dot(p.Weights, f) / p.Temperature
	}

	// Normalizing
	largest := floats.Max(vals)
	sum := float64(0)
	for i := range vals {
		vals[i] = math.Exp(vals[i] - largest)
		sum += vals[i]
	}
	floats.Scale(1/sum, vals)
	return vals
}

// Sample draws a candidate index from the distribution.
func (p *Policy) Sample(probs []float64) (int, bool) {
	return sampleuv.NewWeighted(probs, p.rand).Take()
}

func (p *Policy) Greedy(probs []float64) int {
	return floats.MaxIdx(probs)
}

// Update takes one policy gradient step for having picked index:
// w += lr * advantage * (f[index] - sum_j p_j f[j]) / T
func (p *Policy) Update(features [][]float64, index int, advantage, lr float64) {
	if len(features) == 0 || index < 0 || index >= len(features) {
		return
	}
	probs := p.Probabilities(features)
	grad := make([]float64, len(p.Weights))
	copy(grad, features[index])
	for j, f := range features {
		floats.AddScaled(grad, -probs[j], f)
	}
	floats.AddScaled(p.Weights, lr*advantage/p.Temperature, grad)
}
