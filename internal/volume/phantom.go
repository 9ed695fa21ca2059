package volume

import "math"

// Phantom builds a synthetic test volume: a bright spherical shell around a
// dimmer core, plus a linear ramp along axis 0 so that every slice differs.
func Phantom(d0, d1, d2 int) *Volume {
	v := Zeros(d0, d1, d2)
	c0, c1, c2 := float64(d0-1)/2, float64(d1-1)/2, float64(d2-1)/2
	radius := math.Min(c0, math.Min(c1, c2))
	if radius <= 0 {
		radius = 1
	}
	for i := 0; i < d0; i++ {
		ramp := 0.0
		if d0 > 1 {
			ramp = 0.2 * float64(i) / float64(d0-1)
		}
		for j := 0; j < d1; j++ {
			for k := 0; k < d2; k++ {
				r := math.Sqrt(sq(float64(i)-c0)+sq(float64(j)-c1)+sq(float64(k)-c2)) / radius
				val := ramp
				switch {
				case r < 0.6:
					val += 0.4
				case r < 0.85:
					val += 0.4 + 0.6*(r-0.6)/0.25
				case r <= 1:
					val += 1.0
				}
				v.Set(i, j, k, val)
			}
		}
	}
	return v
}

func sq(x float64) float64 { return x * x }
