package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

func PlayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game by typing the commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags("games", flags.Games); err != nil {
				return err
			}
			logger, err := newLogger(flags)
			if err != nil {
				return err
			}

			ctx, done := interruptContext()
			defer done()

			env, err := newEnv(flags, logger)
			if err != nil {
				return err
			}
			defer env.Close()

			_, err = env.ManualGame(ctx, os.Stdin, os.Stdout)
			return err
		},
	}

	return cmd
}
