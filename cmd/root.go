package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/ledeepchef/twrl/common"
	"github.com/ledeepchef/twrl/textworld"
	"github.com/spf13/cobra"
)

var ErrMissingFlag = errors.New("missing required flag")

func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "twrl",
		Short:         "Train an agent on TextWorld games",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			UpdateFlags()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return train(flags)
		},
	}
	AddFlags(cmd)

	cmd.AddCommand(
		PlayCommand(),
	)

	return cmd
}

// interruptContext is cancelled on SIGINT or when done is called.
func interruptContext() (context.Context, func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt) // channel for interrupts from os

	doneCh := make(chan struct{}) // channel for done signal from application

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-sigCh:
		case <-doneCh:
		}
		signal.Stop(sigCh)
		cancel()
	}()
	return ctx, func() { close(doneCh) }
}

func newLogger(f *common.Flags) (*log.Logger, error) {
	level, err := log.ParseLevel(f.LogLevel)
	if err != nil {
		return nil, err
	}
	if f.Debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "twrl",
		ReportTimestamp: true,
		Level:           level,
	}), nil
}

func requireFlags(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return fmt.Errorf("%w: --%s", ErrMissingFlag, pairs[i])
		}
	}
	return nil
}

func newEnv(f *common.Flags, logger *log.Logger) (*textworld.Env, error) {
	backend := f.Backend()
	backend.Stderr = os.Stderr
	return textworld.New(textworld.Config{
		Games:       f.Games,
		FixtureGame: f.FixtureGame,
		MaxSteps:    f.MaxSteps,
		BatchSize:   1,
		Backend:     backend,
		Logger:      logger.WithPrefix("env"),
	})
}
