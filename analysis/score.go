package analysis

import (
	"fmt"
	"path"

	"github.com/ledeepchef/twrl/core"
	"github.com/ledeepchef/twrl/util"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

type ScoreDataset struct {
	Episodes  []int     `json:"episodes"`
	Scores    []float64 `json:"scores"`
	AvgScores []float64 `json:"avg_scores"`
	MaxScores []float64 `json:"max_scores"`
	Steps     []int     `json:"steps"`
	Won       int       `json:"won"`
	Lost      int       `json:"lost"`
}

func newScoreDataset() *ScoreDataset {
	return &ScoreDataset{
		Episodes:  make([]int, 0),
		Scores:    make([]float64, 0),
		AvgScores: make([]float64, 0),
		MaxScores: make([]float64, 0),
		Steps:     make([]int, 0),
	}
}

func (d *ScoreDataset) Copy() *ScoreDataset {
	return &ScoreDataset{
		Episodes:  util.CopyIntSlice(d.Episodes),
		Scores:    util.CopyFloatSlice(d.Scores),
		AvgScores: util.CopyFloatSlice(d.AvgScores),
		MaxScores: util.CopyFloatSlice(d.MaxScores),
		Steps:     util.CopyIntSlice(d.Steps),
		Won:       d.Won,
		Lost:      d.Lost,
	}
}

// ScoreAnalyzer records the score curve of a run and saves it as
// scores.json and scores.png once training stops.
type ScoreAnalyzer struct {
	savePath string
	dataset  *ScoreDataset
}

var _ core.Analyzer = &ScoreAnalyzer{}
var _ core.Finisher = &ScoreAnalyzer{}

func NewScoreAnalyzer(savePath string) *ScoreAnalyzer {
	return &ScoreAnalyzer{
		savePath: savePath,
		dataset:  newScoreDataset(),
	}
}

func (s *ScoreAnalyzer) Analyze(eCtx *core.EpisodeContext, trace *core.Trace) {
	s.dataset.Episodes = append(s.dataset.Episodes, eCtx.Episode)
	s.dataset.Scores = append(s.dataset.Scores, eCtx.Score)
	s.dataset.AvgScores = append(s.dataset.AvgScores, eCtx.AvgScore)
	s.dataset.MaxScores = append(s.dataset.MaxScores, eCtx.MaxScore)
	s.dataset.Steps = append(s.dataset.Steps, trace.Len())
	if eCtx.Won {
		s.dataset.Won++
	}
	if eCtx.Lost {
		s.dataset.Lost++
	}
}

func (s *ScoreAnalyzer) DataSet() core.DataSet {
	return s.dataset.Copy()
}

func (s *ScoreAnalyzer) Reset() {
	s.dataset = newScoreDataset()
}

func (s *ScoreAnalyzer) Finish() error {
	if len(s.dataset.Episodes) == 0 {
		return nil
	}
	if err := util.SaveJson(path.Join(s.savePath, "scores.json"), s.dataset); err != nil {
		return fmt.Errorf("saving scores: %w", err)
	}

	p := plot.New()
	p.Title.Text = "Training"
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = "Score"
	series := []struct {
		name   string
		values []float64
	}{
		{"score", s.dataset.Scores},
		{"average", s.dataset.AvgScores},
		{"max possible", s.dataset.MaxScores},
	}
	for i, line := range series {
		points := make(plotter.XYs, len(line.values))
		for j, v := range line.values {
			points[j] = plotter.XY{
				X: float64(s.dataset.Episodes[j]),
				Y: v,
			}
		}
		l, err := plotter.NewLine(points)
		if err != nil {
			continue
		}
		l.Color = plotutil.Color(i)
		p.Add(l)
		p.Legend.Add(line.name, l)
	}
	if err := p.Save(8*vg.Inch, 6*vg.Inch, path.Join(s.savePath, "scores.png")); err != nil {
		return fmt.Errorf("saving score plot: %w", err)
	}
	return nil
}
