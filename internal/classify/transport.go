// Package classify maps free-text transport descriptions to event colors.
package classify

import (
	"strings"

	"github.com/ginjaninja78/travel-desk/internal/types"
)

// rule maps a substring of the transport text to a color.
type rule struct {
	contains string
	color    types.Color
}

// rules are evaluated in order; the first match wins. Anything unmatched,
// including "Train" and "Bus", falls through to the default color.
var rules = []rule{
	{contains: "Flight", color: types.ColorBlue},
	{contains: "Car", color: types.ColorOrange},
}

// DefaultColor is returned when no rule matches.
const DefaultColor = types.ColorGreen

// Transport returns the color category of a transport description. Matching
// is case-sensitive.
func Transport(details string) types.Color {
	for _, r := range rules {
		if strings.Contains(details, r.contains) {
			return r.color
		}
	}
	return DefaultColor
}
