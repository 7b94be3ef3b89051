package agent

import "github.com/ledeepchef/twrl/core"

// Buffer is the trajectory collected since the last learning update.
type Buffer struct {
	transitions []core.Transition
}

func NewBuffer() *Buffer {
	return &Buffer{transitions: make([]core.Transition, 0)}
}

func (b *Buffer) Add(t core.Transition) {
	b.transitions = append(b.transitions, t)
}

func (b *Buffer) Len() int {
	return len(b.transitions)
}

// Drain returns the buffered transitions and empties the buffer.
func (b *Buffer) Drain() []core.Transition {
	out := b.transitions
	b.transitions = make([]core.Transition, 0)
	return out
}
