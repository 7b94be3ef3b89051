package textworld

import "github.com/ledeepchef/twrl/core"

// Backend is the text-game simulator games are registered with.
type Backend interface {
	Register(games GameSet, infos RequestedInfo, maxSteps, batchSize int) (Handle, error)
}

// Handle is a registered, ready to play batch of game instances. Every
// call returns one observation per batch slot.
type Handle interface {
	Reset() ([]*core.Observation, error)
	Step(commands []string) ([]*core.Observation, error)
	Render() (string, error)
	Close() error
}
