package httpclient

import (
	"math"
	"time"
)

// backoff produces the delay sequence for one attempt loop. The n-th call to
// next returns round2(base * factor^(n-1)) seconds: the delay grows
// geometrically with ratio factor from the second attempt onward.
type backoff struct {
	base       float64
	factor     float64
	multiplier float64
}

func newBackoff(delay time.Duration, factor float64) *backoff {
	return &backoff{
		base:       delay.Seconds(),
		factor:     factor,
		multiplier: 1,
	}
}

// next returns the current delay in seconds, rounded to two decimals, and
// advances the multiplier.
func (b *backoff) next() float64 {
	d := round2(b.base * b.multiplier)
	b.multiplier *= b.factor
	return d
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
