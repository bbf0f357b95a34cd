package badgerrec

import "math"

func mathFloatBits(v float64) uint64 {
	return math.Float64bits(v)
}

func mathFloatFromBits(b uint64) float64 {
	return math.Float64frombits(b)
}
