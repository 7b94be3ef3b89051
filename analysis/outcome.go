package analysis

import (
	"fmt"
	"os"
	"path"

	"github.com/ledeepchef/twrl/core"
	"github.com/ledeepchef/twrl/util"
)

type OutcomeDataset struct {
	Wins      int
	Solutions int
}

// OutcomeAnalyzer saves the trace of every won episode whose command
// sequence was not seen before into the wins directory.
type OutcomeAnalyzer struct {
	savePath  string
	solutions map[string]bool
	wins      int
}

var _ core.Analyzer = &OutcomeAnalyzer{}

func NewOutcomeAnalyzer(savePath string) *OutcomeAnalyzer {
	if _, err := os.Stat(path.Join(savePath, "wins")); os.IsNotExist(err) {
		os.MkdirAll(path.Join(savePath, "wins"), 0755)
	}
	return &OutcomeAnalyzer{
		savePath:  path.Join(savePath, "wins"),
		solutions: make(map[string]bool),
	}
}

func (o *OutcomeAnalyzer) Analyze(eCtx *core.EpisodeContext, trace *core.Trace) {
	if !eCtx.Won {
		return
	}
	o.wins++
	key := util.JsonHash(trace.Commands())
	if o.solutions[key] {
		return
	}
	o.solutions[key] = true

	fileName := path.Join(o.savePath, fmt.Sprintf("win_%d.txt", eCtx.Episode))
	os.WriteFile(fileName, []byte(traceToString(trace)), 0644)
}

func (o *OutcomeAnalyzer) DataSet() core.DataSet {
	return OutcomeDataset{
		Wins:      o.wins,
		Solutions: len(o.solutions),
	}
}

func (o *OutcomeAnalyzer) Reset() {
	o.solutions = make(map[string]bool)
	o.wins = 0
}
