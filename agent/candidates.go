package agent

import (
	"regexp"
	"strings"

	"github.com/ledeepchef/twrl/core"
)

var (
	placeholder = regexp.MustCompile(`\{[^{}]+\}`)
	clauseSplit = regexp.MustCompile(`[.,;:!?\n()]+`)

	determiners = map[string]bool{"a": true, "an": true, "the": true, "some": true}

	// words that end a noun phrase
	phraseStops = map[string]bool{
		"and": true, "or": true, "on": true, "in": true, "into": true, "inside": true, "with": true,
		"is": true, "are": true, "was": true, "to": true, "from": true, "which": true, "that": true,
		"here": true, "there": true, "but": true, "at": true, "for": true, "under": true, "by": true,
		"of": true, "you": true, "it": true,
	}

	// state adjectives that are not part of the entity name
	stateAdjectives = map[string]bool{
		"open": true, "opened": true, "closed": true, "locked": true, "unlocked": true,
		"sliced": true, "diced": true, "chopped": true, "fried": true, "roasted": true,
		"grilled": true, "raw": true, "cooked": true, "burned": true, "empty": true,
	}

	defaultCommands = []string{
		"look", "inventory", "go north", "go south", "go east", "go west",
		"examine cookbook", "prepare meal", "eat meal",
	}
)

const maxPhraseWords = 3

// extractEntities returns the distinct determiner led noun phrases of the
// given texts in order of appearance.
func extractEntities(texts ...string) []string {
	seen := make(map[string]bool)
	entities := make([]string, 0)
	for _, text := range texts {
		for _, clause := range clauseSplit.Split(strings.ToLower(text), -1) {
			words := tokenize(clause)
			for i := 0; i < len(words); i++ {
				if !determiners[words[i]] {
					continue
				}
				phrase := make([]string, 0, maxPhraseWords)
				j := i + 1
				for ; j < len(words) && len(phrase) < maxPhraseWords; j++ {
					w := words[j]
					if phraseStops[w] || determiners[w] {
						break
					}
					if len(phrase) == 0 && stateAdjectives[w] {
						continue
					}
					phrase = append(phrase, w)
				}
				i = j - 1
				if len(phrase) == 0 {
					continue
				}
				entity := strings.Join(phrase, " ")
				if !seen[entity] {
					seen[entity] = true
					entities = append(entities, entity)
				}
			}
		}
	}
	return entities
}

// fillTemplate instantiates every placeholder of template with entities.
// Two slot templates get ordered pairs of distinct entities, templates
// with more slots are skipped.
func fillTemplate(template string, entities []string) []string {
	slots := placeholder.FindAllStringIndex(template, -1)
	switch len(slots) {
	case 0:
		return []string{template}
	case 1:
		out := make([]string, 0, len(entities))
		for _, e := range entities {
			out = append(out, template[:slots[0][0]]+e+template[slots[0][1]:])
		}
		return out
	case 2:
		out := make([]string, 0, len(entities)*len(entities))
		for _, a := range entities {
			for _, b := range entities {
				if a == b {
					continue
				}
				out = append(out, template[:slots[0][0]]+a+template[slots[0][1]:slots[1][0]]+b+template[slots[1][1]:])
			}
		}
		return out
	}
	return nil
}

// interleave takes one command of every group in turn until limit
// distinct commands are collected.
func interleave(groups [][]string, limit int) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, limit)
	for round := 0; len(out) < limit; round++ {
		added := false
		for _, g := range groups {
			if round >= len(g) {
				continue
			}
			added = true
			c := strings.TrimSpace(g[round])
			if c == "" || seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
			if len(out) == limit {
				break
			}
		}
		if !added {
			break
		}
	}
	return out
}

// Candidates builds the commands the agent chooses from. Admissible
// commands are used as is when the environment reports them, otherwise
// command templates are filled with the entities found in the
// observation, falling back to the verbs and finally to a fixed list.
func Candidates(obs *core.Observation, limit int) []string {
	info := obs.Info
	if info == nil {
		info = &core.Info{}
	}
	if len(info.AdmissibleCommands) > 0 {
		return interleave([][]string{info.AdmissibleCommands}, limit)
	}

	entities := extractEntities(obs.Text, info.Description, info.Inventory)

	groups := make([][]string, 0)
	if len(info.CommandTemplates) > 0 {
		// placeholder free templates come first so they are never cut
		for _, t := range info.CommandTemplates {
			if !placeholder.MatchString(t) {
				groups = append(groups, []string{t})
			}
		}
		for _, t := range info.CommandTemplates {
			if placeholder.MatchString(t) {
				groups = append(groups, fillTemplate(t, entities))
			}
		}
	} else if len(info.Verbs) > 0 {
		for _, v := range info.Verbs {
			groups = append(groups, []string{v})
		}
		for _, v := range info.Verbs {
			g := make([]string, 0, len(entities))
			for _, e := range entities {
				g = append(g, v+" "+e)
			}
			groups = append(groups, g)
		}
	}

	out := interleave(groups, limit)
	if len(out) == 0 {
		out = interleave([][]string{defaultCommands}, limit)
	}
	return out
}
