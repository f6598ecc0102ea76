package converter

import "math/rand/v2"

// sampler decides whether an individual range or address is retained
// when output sampling is active.
type sampler struct {
	rate float64
	roll func() float64
}

func newSampler(rate float64) *sampler {
	return &sampler{rate: rate, roll: rand.Float64}
}

func (s *sampler) keep() bool {
	if s.rate >= 1 {
		return true
	}
	return s.roll() < s.rate
}
