package models

// Stat bounds for health and happiness.
const (
	StatMin = 0
	StatMax = 100
)

// ClampStat bounds v to [StatMin, StatMax].
func ClampStat(v int) int {
	if v < StatMin {
		return StatMin
	}
	if v > StatMax {
		return StatMax
	}
	return v
}
