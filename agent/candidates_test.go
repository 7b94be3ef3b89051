package agent

import (
	"testing"

	"github.com/ledeepchef/twrl/core"
)

func contains(list []string, s string) bool {
	for _, l := range list {
		if l == s {
			return true
		}
	}
	return false
}

func TestExtractEntities(t *testing.T) {
	got := extractEntities(
		"You see a closed fridge and an oven. On the counter you can make out a red apple.",
		"You are carrying: a sliced carrot, some salt",
	)
	want := []string{"fridge", "oven", "counter", "red apple", "carrot", "salt"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entity %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFillTemplate(t *testing.T) {
	entities := []string{"apple", "fridge"}

	if got := fillTemplate("look", entities); len(got) != 1 || got[0] != "look" {
		t.Fatalf("got %v", got)
	}
	got := fillTemplate("take {o}", entities)
	if len(got) != 2 || got[0] != "take apple" || got[1] != "take fridge" {
		t.Fatalf("got %v", got)
	}
	got = fillTemplate("put {o} in {c}", entities)
	if len(got) != 2 || !contains(got, "put apple in fridge") || !contains(got, "put fridge in apple") {
		t.Fatalf("got %v", got)
	}
	if got := fillTemplate("{a} {b} {c}", entities); len(got) != 0 {
		t.Fatalf("got %v, want no commands for three slots", got)
	}
}

func TestCandidatesFromTemplates(t *testing.T) {
	obs := &core.Observation{
		Text: "You are in a kitchen. You see a fridge.",
		Info: &core.Info{
			Inventory:        "You are carrying: a knife",
			CommandTemplates: []string{"look", "open {c}", "take {o} from {c}", "inventory"},
		},
	}
	got := Candidates(obs, 64)
	for _, c := range []string{"look", "inventory", "open fridge", "take knife from fridge"} {
		if !contains(got, c) {
			t.Fatalf("missing %q in %v", c, got)
		}
	}
	if got[0] != "look" || got[1] != "inventory" {
		t.Fatalf("placeholder free templates must come first: %v", got)
	}
}

func TestCandidatesLimitKeepsFixedTemplates(t *testing.T) {
	obs := &core.Observation{
		Text: "a b1. a b2. a b3. a b4. a b5.",
		Info: &core.Info{CommandTemplates: []string{"put {o} on {s}", "look", "wait"}},
	}
	got := Candidates(obs, 5)
	if len(got) != 5 {
		t.Fatalf("got %d candidates, want 5", len(got))
	}
	if !contains(got, "look") || !contains(got, "wait") {
		t.Fatalf("fixed templates cut: %v", got)
	}
}

func TestCandidatesFallbacks(t *testing.T) {
	admissible := &core.Observation{Info: &core.Info{AdmissibleCommands: []string{"go east", "go east", "eat"}}}
	if got := Candidates(admissible, 10); len(got) != 2 || got[0] != "go east" {
		t.Fatalf("got %v", got)
	}

	verbs := &core.Observation{Text: "There is a door.", Info: &core.Info{Verbs: []string{"open"}}}
	if got := Candidates(verbs, 10); !contains(got, "open") || !contains(got, "open door") {
		t.Fatalf("got %v", got)
	}

	bare := &core.Observation{Text: "Darkness."}
	if got := Candidates(bare, 64); len(got) != len(defaultCommands) {
		t.Fatalf("got %v, want the default commands", got)
	}
}
