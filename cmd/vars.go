package cmd

import (
	"github.com/ledeepchef/twrl/common"
	"github.com/spf13/cobra"
)

var (
	flags      *common.Flags = common.DefaultFlags()
	output     string
	configFile string
	games      string
	gpu        string
	batchSize  int

	episodes              int
	saveEvery             int
	checkpointOnInterrupt bool
	scoreWindow           int

	maxSteps    int
	bridge      string
	fixtureGame string

	debug      bool
	statusAddr string
	logLevel   string
)

func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&output, "output", flags.Output, "Directory for checkpoints and results")
	cmd.PersistentFlags().StringVar(&configFile, "config_file", flags.ConfigFile, "Agent YAML config file")
	cmd.PersistentFlags().StringVar(&games, "games", flags.Games, "Game file or directory of games")
	cmd.PersistentFlags().StringVar(&gpu, "gpu", flags.GPU, "Device selector recorded in the agent config")
	cmd.PersistentFlags().IntVar(&batchSize, "batch_size", flags.BatchSize, "Agent minibatch size")

	cmd.PersistentFlags().IntVar(&episodes, "episodes", flags.Episodes, "Number of episodes")
	cmd.PersistentFlags().IntVar(&saveEvery, "save_every", flags.SaveEvery, "Checkpoint every N episodes, 0 disables")
	cmd.PersistentFlags().BoolVar(&checkpointOnInterrupt, "checkpoint_on_interrupt", flags.CheckpointOnInterrupt, "Checkpoint when interrupted")
	cmd.PersistentFlags().IntVar(&scoreWindow, "score_window", flags.ScoreWindow, "Episodes in the rolling average")

	cmd.PersistentFlags().IntVar(&maxSteps, "max_steps", flags.MaxSteps, "Maximum steps per episode")
	cmd.PersistentFlags().StringVar(&bridge, "bridge", flags.Bridge, "Command line of the simulator bridge")
	cmd.PersistentFlags().StringVar(&fixtureGame, "fixture_game", flags.FixtureGame, "Play only this game file")

	cmd.PersistentFlags().BoolVar(&debug, "debug", flags.Debug, "Save episode traces and log debug messages")
	cmd.PersistentFlags().StringVar(&statusAddr, "status_addr", flags.StatusAddr, "Serve the training status on this address")
	cmd.PersistentFlags().StringVar(&logLevel, "log_level", flags.LogLevel, "Log level")
}

func UpdateFlags() {
	flags.Output = output
	flags.ConfigFile = configFile
	flags.Games = games
	flags.GPU = gpu
	flags.BatchSize = batchSize

	flags.Episodes = episodes
	flags.SaveEvery = saveEvery
	flags.CheckpointOnInterrupt = checkpointOnInterrupt
	flags.ScoreWindow = scoreWindow

	flags.MaxSteps = maxSteps
	flags.Bridge = bridge
	flags.FixtureGame = fixtureGame

	flags.Debug = debug
	flags.StatusAddr = statusAddr
	flags.LogLevel = logLevel
}
