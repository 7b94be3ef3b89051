package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ledeepchef/twrl/agent"
	"github.com/ledeepchef/twrl/checkpoint"
	"github.com/ledeepchef/twrl/common"
)

// TestFakeBridge is not a real test. It is the simulator bridge started
// by the training tests: opening the fridge wins, three other commands
// lose.
func TestFakeBridge(t *testing.T) {
	if os.Getenv("TWRL_FAKE_BRIDGE") != "1" {
		return
	}
	defer os.Exit(0)

	enc := json.NewEncoder(os.Stdout)
	scanner := bufio.NewScanner(os.Stdin)
	steps := 0
	batch := func(text string, score float64, done bool) map[string]interface{} {
		return map[string]interface{}{
			"observations": []string{text},
			"scores":       []float64{score},
			"dones":        []bool{done},
			"infos": []map[string]interface{}{{
				"max_score":         1,
				"won":               score == 1,
				"lost":              done && score == 0,
				"command_templates": []string{"look", "open {c}"},
			}},
		}
	}
	for scanner.Scan() {
		req := map[string]interface{}{}
		json.Unmarshal(scanner.Bytes(), &req)
		switch req["op"] {
		case "reset":
			steps = 0
			enc.Encode(batch("You are in a kitchen. You see a fridge and a stove.", 0, false))
		case "step":
			steps++
			cmd := req["commands"].([]interface{})[0].(string)
			if cmd == "open fridge" {
				enc.Encode(batch("You open the fridge.", 1, true))
			} else {
				enc.Encode(batch("Nothing happens.", 0, steps == 3))
			}
		case "close":
			enc.Encode(map[string]interface{}{})
			return
		default:
			enc.Encode(map[string]interface{}{})
		}
	}
}

func testFlags(t *testing.T) *common.Flags {
	t.Helper()
	t.Setenv("TWRL_FAKE_BRIDGE", "1")
	dir := t.TempDir()
	gamesDir := filepath.Join(dir, "games")
	os.MkdirAll(gamesDir, 0o755)
	os.WriteFile(filepath.Join(gamesDir, "kitchen.ulx"), []byte("game"), 0o644)
	configFile := filepath.Join(dir, "agent.yaml")
	os.WriteFile(configFile, []byte("feature_size: 64\ncritic_hidden: [4]\nseed: 3\n"), 0o644)

	f := common.DefaultFlags()
	f.Output = filepath.Join(dir, "out")
	f.ConfigFile = configFile
	f.Games = gamesDir
	f.Episodes = 4
	f.SaveEvery = 2
	f.Bridge = os.Args[0] + " -test.run=TestFakeBridge"
	f.LogLevel = "error"
	return f
}

func TestTrainWritesResults(t *testing.T) {
	f := testFlags(t)
	if err := train(f); err != nil {
		t.Fatalf("train: %v", err)
	}

	for _, name := range []string{"config.json", "scores.json", "scores.png"} {
		if _, err := os.Stat(filepath.Join(f.Output, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}

	config, err := agent.LoadConfig(f.ConfigFile)
	if err != nil {
		t.Fatal(err)
	}
	loaded, err := agent.LoadOrNew(checkpoint.Path(f.Output), config, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !loaded.Restored {
		t.Fatalf("checkpoint not restored: %v", loaded.Cause)
	}
	if loaded.Agent.Episodes() != 4 {
		t.Fatalf("checkpoint has %d episodes, want 4", loaded.Agent.Episodes())
	}
}

func TestTrainMissingFlags(t *testing.T) {
	f := testFlags(t)
	f.ConfigFile = ""
	if err := train(f); !errors.Is(err, ErrMissingFlag) {
		t.Fatalf("got %v, want ErrMissingFlag", err)
	}
}

func TestTrainBadLogLevel(t *testing.T) {
	f := testFlags(t)
	f.LogLevel = "loud"
	if err := train(f); err == nil {
		t.Fatalf("expected an error for an unknown log level")
	}
}

func TestRootCommandFlags(t *testing.T) {
	root := RootCommand()
	for _, name := range []string{
		"output", "config_file", "games", "gpu", "batch_size", "episodes", "max_steps",
		"save_every", "checkpoint_on_interrupt", "score_window", "bridge", "fixture_game",
		"debug", "status_addr", "log_level",
	} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Fatalf("missing flag --%s", name)
		}
	}
	if root.PersistentFlags().Lookup("batch_size").DefValue != "5" {
		t.Fatalf("batch_size must default to 5")
	}
}
