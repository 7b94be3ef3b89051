package util

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gosuri/uilive"
)

// TerminalPrinter redraws the registered outputs in place every frequency.
type TerminalPrinter struct {
	outputs   []*LiveOutput
	frequency time.Duration
	doneCh    chan struct{}
	stoppedCh chan struct{}
	started   bool
	stopOnce  sync.Once

	writer  *uilive.Writer
	writers []io.Writer
}

func NewTerminalPrinter(out io.Writer, frequency time.Duration) *TerminalPrinter {
	writer := uilive.New()
	writer.Out = out
	return &TerminalPrinter{
		outputs:   make([]*LiveOutput, 0),
		frequency: frequency,
		doneCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),

		writer:  writer,
		writers: make([]io.Writer, 0),
	}
}

func (t *TerminalPrinter) NewOutput() *LiveOutput {
	out := NewLiveOutput()
	t.outputs = append(t.outputs, out)
	if len(t.outputs) > 1 {
		t.writers = append(t.writers, t.writer.Newline())
	} else {
		t.writers = append(t.writers, t.writer)
	}
	return out
}

func (p *TerminalPrinter) Start(ctx context.Context) {
	p.started = true
	go func() {
		defer close(p.stoppedCh)
		for {
			select {
			case <-p.doneCh:
				p.print()
				return
			case <-ctx.Done():
				p.print()
				return
			case <-time.After(p.frequency):
				p.print()
			}
		}
	}()
}

// Stop prints the outputs one last time and stops redrawing.
func (p *TerminalPrinter) Stop() {
	p.stopOnce.Do(func() {
		close(p.doneCh)
		if p.started {
			<-p.stoppedCh
		} else {
			p.print()
		}
	})
}

func (p *TerminalPrinter) print() {
	for i, output := range p.outputs {
		s := output.Get()
		if s == "" {
			continue
		}
		fmt.Fprint(p.writers[i], s+"\n")
	}
	p.writer.Flush()
}

// LiveOutput holds the latest line to draw for one output.
type LiveOutput struct {
	mu        *sync.Mutex
	printable string
}

func NewLiveOutput() *LiveOutput {
	return &LiveOutput{
		mu:        new(sync.Mutex),
		printable: "",
	}
}

// Set the output string (blocking)
func (p *LiveOutput) Set(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printable = s
}

// Try to set the output string (non-blocking)
func (p *LiveOutput) TrySet(s string) bool {
	success := p.mu.TryLock()
	if success {
		defer p.mu.Unlock()
		p.printable = s
		return true
	}
	return false
}

// Get the output string (blocking)
func (p *LiveOutput) Get() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.printable
}
