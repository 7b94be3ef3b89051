package textworld

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

type ManualResult struct {
	Steps       int
	Score       float64
	Interrupted bool
}

// ManualGame lets a human play slot 0 by reading one command per line
// from in. It returns once the game is done, in is exhausted or ctx is
// cancelled. Stopping early is not an error.
func (e *Env) ManualGame(ctx context.Context, in io.Reader, out io.Writer) (ManualResult, error) {
	result := ManualResult{}

	obs, err := e.Reset()
	if err != nil {
		return result, err
	}

	lines := make(chan string)
	readDone := make(chan struct{})
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-readDone:
				return
			}
		}
	}()
	defer close(readDone)

PlayLoop:
	for !obs.Done {
		if err := e.Render(out); err != nil {
			return result, err
		}
		fmt.Fprint(out, "Input ")

		var command string
		select {
		case <-ctx.Done():
			result.Interrupted = true
			fmt.Fprintln(out)
			break PlayLoop
		case line, ok := <-lines:
			if !ok {
				result.Interrupted = true
				fmt.Fprintln(out)
				break PlayLoop
			}
			command = line
		}

		result.Steps++
		obs, err = e.Step(command)
		if err != nil {
			return result, err
		}
		result.Score = obs.Score
	}

	if !result.Interrupted {
		// final message
		if err := e.Render(out); err != nil {
			return result, err
		}
	}
	fmt.Fprintf(out, "Played %d steps, scoring %v points.\n", result.Steps, result.Score)
	return result, nil
}
