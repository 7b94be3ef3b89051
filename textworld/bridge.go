package textworld

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/ledeepchef/twrl/core"
)

// BridgeError is an error reported by the bridge process itself.
type BridgeError struct {
	Op      string
	Message string
}

func (e *BridgeError) Error() string {
	return fmt.Sprintf("bridge %s: %s", e.Op, e.Message)
}

// BridgeBackend runs the simulator in a child process that speaks
// newline delimited JSON on its stdin and stdout. scripts/twbridge.py is
// the bridge for the Python TextWorld package.
type BridgeBackend struct {
	Command string
	Args    []string
	Env     []string
	Dir     string

	// Stderr receives the bridge's own diagnostics, os.Stderr when nil
	Stderr io.Writer
}

var _ Backend = &BridgeBackend{}

type bridgeRequest struct {
	Op        string         `json:"op"`
	Games     []string       `json:"games,omitempty"`
	Infos     *RequestedInfo `json:"infos,omitempty"`
	MaxSteps  int            `json:"max_steps,omitempty"`
	BatchSize int            `json:"batch_size,omitempty"`
	Commands  []string       `json:"commands,omitempty"`
}

type bridgeResponse struct {
	Error        string      `json:"error,omitempty"`
	Observations []string    `json:"observations,omitempty"`
	Scores       []float64   `json:"scores,omitempty"`
	Dones        []bool      `json:"dones,omitempty"`
	Infos        []core.Info `json:"infos,omitempty"`
	Text         string      `json:"text,omitempty"`
}

func (r *bridgeResponse) observations(op string) ([]*core.Observation, error) {
	n := len(r.Observations)
	if len(r.Scores) != n || len(r.Dones) != n {
		return nil, &BridgeError{Op: op, Message: fmt.Sprintf(
			"mismatched batch: %d observations, %d scores, %d dones", n, len(r.Scores), len(r.Dones))}
	}
	out := make([]*core.Observation, n)
	for i := 0; i < n; i++ {
		info := &core.Info{}
		if i < len(r.Infos) {
			info = &r.Infos[i]
		}
		out[i] = &core.Observation{
			Text:  r.Observations[i],
			Score: r.Scores[i],
			Done:  r.Dones[i],
			Info:  info,
		}
	}
	return out, nil
}

func (b *BridgeBackend) Register(games GameSet, infos RequestedInfo, maxSteps, batchSize int) (Handle, error) {
	cmd := exec.Command(b.Command, b.Args...)
	if len(b.Env) > 0 {
		cmd.Env = append(os.Environ(), b.Env...)
	}
	cmd.Dir = b.Dir
	detach(cmd)
	cmd.Stderr = b.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("bridge stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("bridge stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting bridge %s: %w", b.Command, err)
	}

	h := &bridgeHandle{
		cmd:   cmd,
		stdin: stdin,
		enc:   json.NewEncoder(stdin),
		dec:   json.NewDecoder(stdout),
		mtx:   new(sync.Mutex),
	}
	_, err = h.call(&bridgeRequest{
		Op:        "register",
		Games:     games,
		Infos:     &infos,
		MaxSteps:  maxSteps,
		BatchSize: batchSize,
	})
	if err != nil {
		h.kill()
		return nil, err
	}
	return h, nil
}

type bridgeHandle struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	enc   *json.Encoder
	dec   *json.Decoder

	mtx    *sync.Mutex
	closed bool
}

func (h *bridgeHandle) call(req *bridgeRequest) (*bridgeResponse, error) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.closed {
		return nil, fmt.Errorf("bridge %s: handle closed", req.Op)
	}

	if err := h.enc.Encode(req); err != nil {
		return nil, fmt.Errorf("bridge %s: sending request: %w", req.Op, err)
	}
	resp := &bridgeResponse{}
	if err := h.dec.Decode(resp); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("bridge %s: reading response: %w", req.Op, err)
	}
	if resp.Error != "" {
		return nil, &BridgeError{Op: req.Op, Message: resp.Error}
	}
	return resp, nil
}

func (h *bridgeHandle) Reset() ([]*core.Observation, error) {
	resp, err := h.call(&bridgeRequest{Op: "reset"})
	if err != nil {
		return nil, err
	}
	return resp.observations("reset")
}

func (h *bridgeHandle) Step(commands []string) ([]*core.Observation, error) {
	resp, err := h.call(&bridgeRequest{Op: "step", Commands: commands})
	if err != nil {
		return nil, err
	}
	return resp.observations("step")
}

func (h *bridgeHandle) Render() (string, error) {
	resp, err := h.call(&bridgeRequest{Op: "render"})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (h *bridgeHandle) Close() error {
	_, callErr := h.call(&bridgeRequest{Op: "close"})

	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	h.stdin.Close()
	if err := h.cmd.Wait(); err != nil {
		return fmt.Errorf("bridge exited: %w", err)
	}
	return callErr
}

func (h *bridgeHandle) kill() {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	h.closed = true
	h.stdin.Close()
	if h.cmd.Process != nil {
		h.cmd.Process.Kill()
	}
	h.cmd.Wait()
}
