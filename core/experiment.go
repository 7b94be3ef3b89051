package core

type DataSet interface{}

// Analyzer inspects every finished episode.
type Analyzer interface {
	Analyze(*EpisodeContext, *Trace)
	DataSet() DataSet
	Reset()
}

// Finisher is implemented by analyzers that persist their data once
// training stops.
type Finisher interface {
	Finish() error
}

// RunConfig bounds a training run.
type RunConfig struct {
	Episodes    int
	ScoreWindow int

	// SaveEvery checkpoints after every SaveEvery episodes, 0 disables
	// periodic checkpoints.
	SaveEvery             int
	CheckpointOnInterrupt bool
}

func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		Episodes:              1000,
		ScoreWindow:           100,
		SaveEvery:             100,
		CheckpointOnInterrupt: true,
	}
}

func (c *RunConfig) shouldSave(episode int) bool {
	return c.SaveEvery > 0 && (episode+1)%c.SaveEvery == 0
}
