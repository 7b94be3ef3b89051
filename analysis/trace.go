package analysis

import (
	"bytes"
	"fmt"
	"os"
	"path"

	"github.com/ledeepchef/twrl/core"
)

// TraceAnalyzer writes a readable trace of every episode from
// thresholdEpisode on into the traces directory.
type TraceAnalyzer struct {
	savePath string
	// episodes before this one are not saved
	thresholdEpisode int
}

var _ core.Analyzer = &TraceAnalyzer{}

func NewTraceAnalyzer(savePath string, threshold int) *TraceAnalyzer {
	// create a traces directory under save path if not exists
	if _, err := os.Stat(path.Join(savePath, "traces")); os.IsNotExist(err) {
		os.MkdirAll(path.Join(savePath, "traces"), 0755)
	}
	return &TraceAnalyzer{
		savePath:         path.Join(savePath, "traces"),
		thresholdEpisode: threshold,
	}
}

func (a *TraceAnalyzer) Analyze(ctx *core.EpisodeContext, trace *core.Trace) {
	if ctx.Episode < a.thresholdEpisode {
		return
	}
	buf := new(bytes.Buffer)
	buf.WriteString(fmt.Sprintf("Episode %d, Score: %v, Max: %v\n\n", ctx.Episode, ctx.Score, ctx.MaxScore))
	buf.WriteString(traceToString(trace))

	file := path.Join(a.savePath, fmt.Sprintf("trace_%d.txt", ctx.Episode))
	os.WriteFile(file, buf.Bytes(), 0644)
}

func (a *TraceAnalyzer) DataSet() core.DataSet {
	return nil
}

func (a *TraceAnalyzer) Reset() {}

func traceToString(trace *core.Trace) string {
	buf := new(bytes.Buffer)
	for i := 0; i < trace.Len(); i++ {
		buf.WriteString(fmt.Sprintf("Step %d\n%s\n", i, stepToString(trace.Step(i))))
	}
	return buf.String()
}

func stepToString(step *core.Step) string {
	out := fmt.Sprintf(
		"State: \n%s\nCommand: %s\nReward: %v, Score: %v, Done: %v\n\nNext State: \n%s\n",
		step.StateText,
		step.Command,
		step.Reward,
		step.Score,
		step.Done,
		step.NextText,
	)
	for k, v := range step.Misc {
		out += fmt.Sprintf("%s: %v\n", k, v)
	}
	return out
}
