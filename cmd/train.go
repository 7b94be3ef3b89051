package cmd

import (
	"errors"
	"os"
	"time"

	"github.com/ledeepchef/twrl/agent"
	"github.com/ledeepchef/twrl/analysis"
	"github.com/ledeepchef/twrl/checkpoint"
	"github.com/ledeepchef/twrl/common"
	"github.com/ledeepchef/twrl/core"
	"github.com/ledeepchef/twrl/monitor"
	"github.com/ledeepchef/twrl/util"
)

func train(f *common.Flags) error {
	if err := requireFlags("output", f.Output, "config_file", f.ConfigFile, "games", f.Games); err != nil {
		return err
	}
	logger, err := newLogger(f)
	if err != nil {
		return err
	}
	if err := f.Record(); err != nil {
		logger.Warn("could not record flags", "err", err)
	}

	config, err := agent.LoadConfig(f.ConfigFile)
	if err != nil {
		return err
	}
	config.BatchSize = f.BatchSize
	config.Device = f.GPU
	if config.Device != "" {
		logger.Info("training on the CPU", "device", config.Device)
	}

	ctx, done := interruptContext()
	defer done()

	env, err := newEnv(f, logger)
	if err != nil {
		return err
	}
	defer env.Close()

	path := checkpoint.Path(f.Output)
	loaded, err := agent.LoadOrNew(path, config, logger.WithPrefix("agent"))
	if err != nil {
		return err
	}

	analyzers := []core.Analyzer{
		analysis.NewScoreAnalyzer(f.Output),
		analysis.NewOutcomeAnalyzer(f.Output),
	}
	if f.Debug {
		analyzers = append(analyzers, analysis.NewTraceAnalyzer(f.Output, 0))
	}

	printer := util.NewTerminalPrinter(os.Stdout, 500*time.Millisecond)
	trainer := core.NewTrainer(env, loaded.Agent, f.RunConfig(),
		core.WithLogger(logger),
		core.WithAnalyzers(analyzers...),
		core.WithCheckpointer(agent.NewCheckpointer(loaded.Agent, path)),
		core.WithProgress(printer.NewOutput()),
	)
	if f.StatusAddr != "" {
		monitor.NewStatusServer(f.StatusAddr, trainer, logger.WithPrefix("status")).Start(ctx)
	}

	printer.Start(ctx)
	result, err := trainer.Train(ctx)
	printer.Stop()

	switch {
	case errors.Is(err, core.ErrInterrupted) && !errors.Is(err, core.ErrCheckpoint):
		logger.Info("training stopped", "episodes", result.CompletedEpisodes, "checkpoints", result.Checkpoints)
		return nil
	case err != nil:
		return err
	}
	logger.Info("training finished",
		"episodes", result.CompletedEpisodes,
		"avg_score", result.AvgScore,
		"learning_steps", result.LearnSteps,
		"checkpoints", result.Checkpoints,
	)
	return nil
}
