package matching

import (
	_ "embed"
	"strings"

	"github.com/buswatch/buswatch/pkg/transit"
	"gopkg.in/yaml.v3"
)

// Some routes need stop-level exceptions that the generic matcher cannot
// express - B44 SBS runs its own stop pattern and B48 reuses stop records
// across branches. The exceptions are declared as data in routefilters.yaml
// so new ones do not require touching the matching logic.

//go:embed routefilters.yaml
var routeFilterYAML []byte

// StopFilter reports whether a stop is eligible for matching on a route.
type StopFilter func(transit.BusStop) bool

type routeFilterRule struct {
	Description       string   `yaml:"description"`
	IDPatterns        []string `yaml:"idPatterns"`
	DirectionContains []string `yaml:"directionContains"`
}

var routeFilterRules []routeFilterRule

func init() {
	if err := yaml.Unmarshal(routeFilterYAML, &routeFilterRules); err != nil {
		panic("matching: invalid embedded route filter table: " + err.Error())
	}
}

// GetFilterForRoute returns the stop filter for the first rule whose ID
// pattern appears in lineID, or a filter that passes every stop when no
// rule applies.
func GetFilterForRoute(lineID string) StopFilter {
	for _, rule := range routeFilterRules {
		for _, pattern := range rule.IDPatterns {
			if strings.Contains(lineID, pattern) {
				return directionContainsFilter(rule.DirectionContains)
			}
		}
	}

	return func(transit.BusStop) bool { return true }
}

func directionContainsFilter(fragments []string) StopFilter {
	return func(stop transit.BusStop) bool {
		for _, fragment := range fragments {
			if strings.Contains(stop.Direction, fragment) {
				return true
			}
		}

		return false
	}
}
