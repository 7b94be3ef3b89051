package agent

import (
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"gonum.org/v1/gonum/floats"
)

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func bucket(key string, size int) int {
	return int(xxhash.Sum64String(key) % uint64(size))
}

func normalize(v []float64) []float64 {
	if n := floats.Norm(v, 2); n > 0 {
		floats.Scale(1/n, v)
	}
	return v
}

// stateFeatures is a hashed bag of words over the state text.
func stateFeatures(text string, size int) []float64 {
	f := make([]float64, size)
	for _, tok := range tokenize(text) {
		f[bucket("w:"+tok, size)]++
	}
	return normalize(f)
}

// featurizer builds command features against one state text.
type featurizer struct {
	size  int
	state map[string]bool
}

func newFeaturizer(stateText string, size int) *featurizer {
	state := make(map[string]bool)
	for _, tok := range tokenize(stateText) {
		state[tok] = true
	}
	return &featurizer{size: size, state: state}
}

func (f *featurizer) command(cmd string) []float64 {
	v := make([]float64, f.size)
	tokens := tokenize(cmd)
	if len(tokens) > 0 {
		v[bucket("verb:"+tokens[0], f.size)]++
	}
	for _, tok := range tokens {
		v[bucket("c:"+tok, f.size)]++
		if f.state[tok] {
			v[bucket("seen:"+tok, f.size)]++
		}
	}
	v[bucket("cmd:"+strings.Join(tokens, " "), f.size)]++
	return normalize(v)
}

func (f *featurizer) commands(cmds []string) [][]float64 {
	out := make([][]float64, len(cmds))
	for i, c := range cmds {
		out[i] = f.command(c)
	}
	return out
}
