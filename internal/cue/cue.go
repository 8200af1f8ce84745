// internal/cue/cue.go
//
// Cue identifiers and the lookup table that resolves them to audio assets.
//
// Keys:
//   - Letter cues: "{LETTER}_NAME" or "{LETTER}_SOUND". The letter is always
//     uppercased, independent of the case shown on the board.
//   - Fixed cues: CLICK, CORRECT, INCORRECT, BINGO and the MENU_MUSIC track.
//
// Table loading follows the same rule as the word lists used to:
//   1. If a path is given, load the YAML table from that file.
//   2. Otherwise use the table embedded in the assets package.
//
// A key missing from the table is a valid state; players skip it silently.

package cue

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v2"

	"github.com/robalobadob/alphabet-bingo/assets"
)

// Kind selects which recording of a letter is played.
type Kind string

const (
	Name  Kind = "_NAME"
	Sound Kind = "_SOUND"
)

const (
	Click     = "CLICK"
	Correct   = "CORRECT"
	Incorrect = "INCORRECT"
	Bingo     = "BINGO"
	MenuMusic = "MENU_MUSIC"
)

var (
	// ErrPlaybackBlocked means the client refused to start playback,
	// typically because no user interaction has happened yet.
	ErrPlaybackBlocked = errors.New("playback blocked")
	// ErrUnknownCue means the table has no asset for a key. Playback of
	// such a key is skipped.
	ErrUnknownCue = errors.New("unknown cue")
)

// Key derives the cue key for a called letter.
func Key(letter string, k Kind) string {
	return strings.ToUpper(letter) + string(k)
}

// Table maps cue keys to asset URLs.
type Table map[string]string

// tableFile is the on-disk YAML layout.
type tableFile struct {
	Effects map[string]string `yaml:"effects"`
	Letters map[string]string `yaml:"letters"`
}

// Lookup resolves key to its asset URL.
func (t Table) Lookup(key string) (string, bool) {
	u, ok := t[key]
	return u, ok && u != ""
}

// MustLookup is Lookup with an ErrUnknownCue error for missing keys.
func (t Table) MustLookup(key string) (string, error) {
	if u, ok := t.Lookup(key); ok {
		return u, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownCue, key)
}

// Parse decodes a YAML cue table.
func Parse(b []byte) (Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse cue table: %w", err)
	}
	t := make(Table, len(f.Effects)+len(f.Letters))
	for k, v := range f.Effects {
		t[strings.ToUpper(k)] = v
	}
	for k, v := range f.Letters {
		t[strings.ToUpper(k)] = v
	}
	return t, nil
}

// Load reads the table from path, or returns the embedded default if path is empty.
func Load(path string) (Table, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cue table %s: %w", path, err)
	}
	return Parse(b)
}

var (
	defaultOnce  sync.Once
	defaultTable Table
	defaultErr   error
)

// Default returns the embedded cue table, parsed once.
func Default() (Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = Parse(assets.CuesYAML)
	})
	return defaultTable, defaultErr
}
