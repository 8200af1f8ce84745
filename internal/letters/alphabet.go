// internal/letters/alphabet.go
//
// Letter alphabets for board generation.
// The alphabet is derived deterministically from the chosen letter case;
// callers always receive a fresh copy they are free to shuffle.

package letters

import (
	"errors"
	"strings"
)

// Case selects the display case of board letters.
type Case string

const (
	Upper Case = "UPPERCASE"
	Lower Case = "LOWERCASE"
)

// ErrUnknownCase is returned when a case name is not recognized.
var ErrUnknownCase = errors.New("unknown letter case")

const upperLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Size is the number of letters in every alphabet.
const Size = len(upperLetters)

// ParseCase accepts "UPPERCASE"/"LOWERCASE" and the short forms "upper"/"lower".
func ParseCase(s string) (Case, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UPPERCASE", "UPPER":
		return Upper, nil
	case "LOWERCASE", "LOWER":
		return Lower, nil
	}
	return "", ErrUnknownCase
}

// Alphabet returns the 26 letters A–Z in the given case, in order.
func Alphabet(c Case) []string {
	src := upperLetters
	if c == Lower {
		src = strings.ToLower(upperLetters)
	}
	out := make([]string, 0, Size)
	for _, r := range src {
		out = append(out, string(r))
	}
	return out
}
