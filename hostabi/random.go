package hostabi

import "math/rand"

// Random backs the Random effect's imports. Seeded explicitly (never
// from host entropy at construction time) so a test harness run can
// pin a seed and get reproducible sequences, the same substitutability
// requirement as Clock.
type Random struct {
	r *rand.Rand
}

func NewRandom(seed int64) *Random {
	return &Random{r: rand.New(rand.NewSource(seed))}
}

// Int64 returns a pseudo-random Int64.
func (rnd *Random) Int64() int64 { return rnd.r.Int63() }

// Float64 returns a pseudo-random Float64 in [0, 1).
func (rnd *Random) Float64() float64 { return rnd.r.Float64() }
