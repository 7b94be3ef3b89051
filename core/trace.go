package core

import "sync"

type Step struct {
	StateText string
	Command   string
	Reward    float64
	Score     float64
	Done      bool
	NextText  string

	Misc map[string]interface{}
}

type Trace struct {
	mtx   *sync.Mutex
	steps []*Step
}

func NewTrace() *Trace {
	return &Trace{
		steps: make([]*Step, 0),
		mtx:   &sync.Mutex{},
	}
}

func (t *Trace) AddStep(s *Step) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.steps = append(t.steps, s)
}

func (t *Trace) Step(i int) *Step {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.steps[i]
}

func (t *Trace) Len() int {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return len(t.steps)
}

// Commands returns the commands played in order.
func (t *Trace) Commands() []string {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	out := make([]string, len(t.steps))
	for i, s := range t.steps {
		out[i] = s.Command
	}
	return out
}
