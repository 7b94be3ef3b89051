package common

import (
	"path"
	"strings"

	"github.com/ledeepchef/twrl/core"
	"github.com/ledeepchef/twrl/textworld"
	"github.com/ledeepchef/twrl/util"
)

type Flags struct {
	Output     string
	ConfigFile string
	Games      string
	GPU        string
	BatchSize  int
	RunFlags
	EnvFlags
	Debug      bool
	StatusAddr string
	LogLevel   string
}

type RunFlags struct {
	Episodes              int
	SaveEvery             int
	CheckpointOnInterrupt bool
	ScoreWindow           int
}

type EnvFlags struct {
	MaxSteps    int
	Bridge      string
	FixtureGame string
}

func DefaultFlags() *Flags {
	run := core.DefaultRunConfig()
	return &Flags{
		BatchSize: 5,
		RunFlags: RunFlags{
			Episodes:              run.Episodes,
			SaveEvery:             run.SaveEvery,
			CheckpointOnInterrupt: run.CheckpointOnInterrupt,
			ScoreWindow:           run.ScoreWindow,
		},
		EnvFlags: EnvFlags{
			MaxSteps: 100,
			Bridge:   "python3 scripts/twbridge.py",
		},
		Debug:    false,
		LogLevel: "info",
	}
}

// Record saves the flags as config.json in the output directory.
func (f *Flags) Record() error {
	return util.SaveJson(path.Join(f.Output, "config.json"), f)
}

func (f *Flags) RunConfig() *core.RunConfig {
	return &core.RunConfig{
		Episodes:              f.Episodes,
		ScoreWindow:           f.ScoreWindow,
		SaveEvery:             f.SaveEvery,
		CheckpointOnInterrupt: f.CheckpointOnInterrupt,
	}
}

// Backend splits the bridge command line into a BridgeBackend.
func (f *Flags) Backend() *textworld.BridgeBackend {
	fields := strings.Fields(f.Bridge)
	if len(fields) == 0 {
		return &textworld.BridgeBackend{}
	}
	return &textworld.BridgeBackend{
		Command: fields[0],
		Args:    fields[1:],
	}
}
