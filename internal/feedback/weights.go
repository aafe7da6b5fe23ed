package feedback

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/sells-group/ctrm-fit/internal/model"
)

// MaxWeight is the upper bound of a single factor weight, and the exact total
// the weights must reach.
const MaxWeight = 100

// ClampWeight coerces a raw form value to a weight in [0, MaxWeight].
// Strings are read up to their first non-digit, so "50.5" is 50. Fractions
// are truncated. Negative, empty, boolean and non-numeric values become 0;
// values above MaxWeight, however large, become MaxWeight.
func ClampWeight(raw any) int {
	var (
		f   float64
		err error
	)
	switch v := raw.(type) {
	case nil, bool:
		return 0
	case string:
		f, err = strconv.ParseFloat(leadingInteger(v), 64)
	default:
		f, err = cast.ToFloat64E(v)
	}
	switch {
	case err != nil || math.IsNaN(f) || f < 0:
		return 0
	case f > MaxWeight:
		return MaxWeight
	default:
		return int(f)
	}
}

// leadingInteger returns the optionally signed run of digits that starts s,
// ignoring surrounding whitespace, or "" when there is none.
func leadingInteger(s string) string {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return ""
	}
	return s[:end]
}

// NormalizeWeights clamps every raw weight and returns a value for each known
// factor (missing factors are 0). Keys that are not known factors are
// returned sorted so the caller can reject them.
func NormalizeWeights(raw map[string]any) (map[model.Factor]int, []string) {
	known := make(map[model.Factor]bool, len(model.Factors))
	weights := make(map[model.Factor]int, len(model.Factors))
	for _, f := range model.Factors {
		known[f] = true
		weights[f] = 0
	}

	var unknown []string
	for k, v := range raw {
		f := model.Factor(k)
		if !known[f] {
			unknown = append(unknown, k)
			continue
		}
		weights[f] = ClampWeight(v)
	}
	sort.Strings(unknown)
	return weights, unknown
}

// WeightTotal sums the weights.
func WeightTotal(weights map[model.Factor]int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	return total
}

func checkWeights(raw map[string]any) (map[model.Factor]int, []string) {
	weights, unknown := NormalizeWeights(raw)
	var reasons []string
	for _, k := range unknown {
		reasons = append(reasons, fmt.Sprintf("priorityWeights: unknown factor %q", k))
	}
	if total := WeightTotal(weights); total != MaxWeight {
		reasons = append(reasons, fmt.Sprintf("priorityWeights: total must equal %d, got %d", MaxWeight, total))
	}
	return weights, reasons
}
