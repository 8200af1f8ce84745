package letters

import (
	"crypto/rand"
	"math/big"
)

// Random is the source of uniform integers used for shuffling and drawing.
// *math/rand.Rand satisfies it, which is what tests use for seeded runs.
type Random interface {
	// Intn returns a uniform integer in [0, n). n must be > 0.
	Intn(n int) int
}

// CryptoRandom draws from crypto/rand.
type CryptoRandom struct{}

// Intn returns a uniform integer in [0, n).
func (CryptoRandom) Intn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("letters: crypto/rand unavailable: " + err.Error())
	}
	return int(v.Int64())
}
