package math

import "golang.org/x/exp/rand"

// Random is the only randomness source scenes use. Two Randoms built from the
// same seed produce identical scenes.
type Random struct {
	r *rand.Rand
}

func NewRandom(seed uint64) *Random {
	return &Random{r: rand.New(rand.NewSource(seed))}
}

// Float returns a value in [0, 1).
func (r *Random) Float() float32 {
	return r.r.Float32()
}

// Range returns a value in [min, max).
func (r *Random) Range(min, max float32) float32 {
	return min + r.r.Float32()*(max-min)
}

// Centered returns a value in [-extent/2, extent/2).
func (r *Random) Centered(extent float32) float32 {
	return (r.r.Float32() - 0.5) * extent
}

func (r *Random) Intn(n int) int {
	return r.r.Intn(n)
}
