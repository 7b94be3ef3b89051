package core

import (
	"sync"

	"gonum.org/v1/gonum/stat"
)

// RollingScores keeps every episode score and averages the trailing window.
type RollingScores struct {
	window int
	scores []float64
}

func NewRollingScores(window int) *RollingScores {
	if window <= 0 {
		window = 100
	}
	return &RollingScores{
		window: window,
		scores: make([]float64, 0),
	}
}

func (r *RollingScores) Add(score float64) {
	r.scores = append(r.scores, score)
}

// Mean returns the mean over at most the last window scores.
func (r *RollingScores) Mean() float64 {
	if len(r.scores) == 0 {
		return 0
	}
	start := len(r.scores) - r.window
	if start < 0 {
		start = 0
	}
	return stat.Mean(r.scores[start:], nil)
}

func (r *RollingScores) Scores() []float64 {
	out := make([]float64, len(r.scores))
	copy(out, r.scores)
	return out
}

// TrainingState holds the counters of a run. It is never persisted.
type TrainingState struct {
	Episodes   int `json:"episodes"`
	LearnSteps int `json:"learning_steps"`
	TimeSteps  int `json:"time_steps"`

	LastScore float64 `json:"score"`
	AvgScore  float64 `json:"avg_score"`
	MaxScore  float64 `json:"max_score"`
}

// TrainingStatus is a read-only copy of the state published to observers.
type TrainingStatus struct {
	TrainingState
	TotalEpisodes int  `json:"total_episodes"`
	Running       bool `json:"running"`
}

type statusBoard struct {
	mu     sync.RWMutex
	status TrainingStatus
}

func (b *statusBoard) publish(s TrainingStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = s
}

func (b *statusBoard) get() TrainingStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.status
}
