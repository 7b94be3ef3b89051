package core

// Decision is the outcome of an agent picking a command.
type Decision struct {
	Command  string
	LogProb  float64
	Value    float64
	Commands []string // candidate set the command was drawn from
	Index    int      // position of Command in Commands
}

// Transition is one step of experience handed to the agent.
type Transition struct {
	StateText string
	Index     int
	Commands  []string
	LogProb   float64
	Value     float64
	Reward    float64
	Done      bool
}

// Agent is the learning side of the loop. The trainer owns the cadence,
// the agent owns its trajectory buffer and the update math.
type Agent interface {
	// Train puts the agent in training mode
	Train()

	// StoreStateText ingests an observation as the current state
	StoreStateText(*Observation)
	StateText() string

	ChooseAction(*Observation) (*Decision, error)
	Remember(Transition)

	// Learn consumes and clears the buffered trajectory
	Learn() error

	// EndEpisode fires exactly once after the last step of every episode
	EndEpisode(*Observation) error

	LastScore() float64
	SetLastScore(float64)
	UpdateFrequency() int
}

// Checkpointer persists the agent state.
type Checkpointer interface {
	Checkpoint() error
}

// CheckpointFunc adapts a plain function to Checkpointer.
type CheckpointFunc func() error

func (f CheckpointFunc) Checkpoint() error {
	return f()
}
