package survey

import (
	"math"
	"strconv"
	"strings"
)

// DisplayToBase converts a cost typed in thousands into base units.
// Values >= 1 are scaled by 1000; values in [0,1) are taken as already in
// base units. Anything that is not a finite number becomes 0, including
// the "NaN" and "Inf" spellings ParseFloat accepts.
func DisplayToBase(input string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v >= 1 {
		return v * 1000
	}
	return v
}

// BaseToDisplay converts a stored cost into the value the form shows.
// The threshold is 1000, not 1: a stored 500 displays as 500.
func BaseToDisplay(cost float64) float64 {
	if cost >= 1000 {
		return cost / 1000
	}
	return cost
}

// FormatDisplay renders BaseToDisplay(cost) without trailing zeros.
func FormatDisplay(cost float64) string {
	return strconv.FormatFloat(BaseToDisplay(cost), 'f', -1, 64)
}

// FormatCost renders a table cell: "$4K" for 4000, "$500" for 500.
func FormatCost(c Currency, cost float64) string {
	if cost >= 1000 {
		return string(c) + strconv.FormatFloat(cost/1000, 'f', -1, 64) + "K"
	}
	return string(c) + strconv.FormatFloat(cost, 'f', -1, 64)
}
