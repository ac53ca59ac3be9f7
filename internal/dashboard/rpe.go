package dashboard

// Band is the display emphasis for an RPE value.
type Band string

const (
	BandNone     Band = ""
	BandLow      Band = "low"
	BandModerate Band = "moderate"
	BandHigh     Band = "high"
	BandMaximal  Band = "maximal"
)

// BandForRPE groups RPE 1-3 low, 4-6 moderate, 7-8 high and 9-10 maximal.
func BandForRPE(rpe int) Band {
	switch {
	case rpe >= 1 && rpe <= 3:
		return BandLow
	case rpe >= 4 && rpe <= 6:
		return BandModerate
	case rpe >= 7 && rpe <= 8:
		return BandHigh
	case rpe >= 9 && rpe <= 10:
		return BandMaximal
	default:
		return BandNone
	}
}

var rpeDescriptions = [...]string{
	1:  "Very, very light",
	2:  "Light",
	3:  "Moderate",
	4:  "Somewhat hard",
	5:  "Hard",
	6:  "Hard",
	7:  "Very hard",
	8:  "Very hard",
	9:  "Very hard",
	10: "Maximal",
}

// DescribeRPE returns the scale label shown next to an RPE value, or "" when
// rpe is out of range.
func DescribeRPE(rpe int) string {
	if rpe < 1 || rpe >= len(rpeDescriptions) {
		return ""
	}
	return rpeDescriptions[rpe]
}
