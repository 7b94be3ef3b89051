package textworld

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	ErrNoGames      = errors.New("no playable games found")
	ErrGameNotFound = errors.New("game path does not exist")
)

// GameExtensions lists the compiled game formats the backend can load.
var GameExtensions = []string{".ulx", ".z8"}

// GameSet is the ordered list of absolute game file paths an environment
// is registered with.
type GameSet []string

// FindGames resolves path into a GameSet. A directory yields every game
// file directly inside it, any other path is taken as a single game.
func FindGames(path string) (GameSet, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrGameNotFound, path)
		}
		return nil, fmt.Errorf("reading games from %s: %w", path, err)
	}

	games := make([]string, 0)
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("reading games from %s: %w", path, err)
		}
		for _, e := range entries {
			if e.IsDir() || !isGameFile(e.Name()) {
				continue
			}
			games = append(games, filepath.Join(path, e.Name()))
		}
		sort.Strings(games)
	} else {
		games = append(games, path)
	}

	if len(games) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoGames, path)
	}

	for i, g := range games {
		abs, err := filepath.Abs(g)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", g, err)
		}
		games[i] = abs
	}
	return GameSet(games), nil
}

func isGameFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range GameExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
