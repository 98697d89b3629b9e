package progression

// The five core attributes.
const (
	AttrStrength     = "strength"
	AttrAgility      = "agility"
	AttrStamina      = "stamina"
	AttrEndurance    = "endurance"
	AttrIntelligence = "intelligence"
)

// AttributeNames lists the core attributes in canonical order.
var AttributeNames = []string{AttrStrength, AttrAgility, AttrStamina, AttrEndurance, AttrIntelligence}

// ValidAttribute reports whether name is one of the five core attributes.
func ValidAttribute(name string) bool {
	for _, n := range AttributeNames {
		if n == name {
			return true
		}
	}
	return false
}

// ClampAssessmentValue clamps an awakening assessment attribute value into
// [1,10]. Assessment values are intentionally small so new characters start
// weak.
func ClampAssessmentValue(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

// AssessmentAnswer is one scored quiz answer: which attribute the question
// probes and the chosen option value (1-4).
type AssessmentAnswer struct {
	Attribute string
	Value     int
}

// ScoreAssessment turns awakening quiz answers into starting attribute
// values. Per-attribute answers are averaged, doubled and clamped into [1,6]
// so a fresh character lands in the beginner range; attributes no question
// touched default to 1.
func ScoreAssessment(answers []AssessmentAnswer) map[string]int {
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, a := range answers {
		if !ValidAttribute(a.Attribute) {
			continue
		}
		v := a.Value
		if v < 1 {
			v = 1
		}
		if v > 4 {
			v = 4
		}
		sums[a.Attribute] += v
		counts[a.Attribute]++
	}

	out := make(map[string]int, len(AttributeNames))
	for _, name := range AttributeNames {
		if counts[name] == 0 {
			out[name] = 1
			continue
		}
		// Average on the 1-4 option scale, doubled to land in 2-8, then
		// clamped to the beginner band.
		scaled := (sums[name]*2 + counts[name] - 1) / counts[name]
		if scaled < 1 {
			scaled = 1
		}
		if scaled > 6 {
			scaled = 6
		}
		out[name] = scaled
	}
	return out
}
