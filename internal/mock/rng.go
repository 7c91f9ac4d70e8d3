package mock

const (
	parkMillerModulus    = 2147483647 // 2^31 - 1
	parkMillerMultiplier = 16807
)

// ParkMiller is the Lehmer "minimal standard" generator. Its state is always
// in [1, 2^31-2], so Float64 never divides by zero or returns 1.
//
// The zero value is not usable; construct with NewParkMiller.
type ParkMiller struct {
	state int64
}

// NewParkMiller seeds a generator. Seeds outside [1, 2^31-2] are folded into
// that range: the seed is reduced modulo 2^31-1 and non-positive results are
// shifted up by 2^31-2.
func NewParkMiller(seed int64) *ParkMiller {
	s := seed % parkMillerModulus
	if s <= 0 {
		s += parkMillerModulus - 1
	}
	return &ParkMiller{state: s}
}

// Next advances the generator and returns the new state.
func (p *ParkMiller) Next() int64 {
	p.state = p.state * parkMillerMultiplier % parkMillerModulus
	return p.state
}

// Float64 returns a uniform value in [0, 1).
func (p *ParkMiller) Float64() float64 {
	return float64(p.Next()-1) / (parkMillerModulus - 1)
}
