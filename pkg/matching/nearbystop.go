package matching

import (
	"github.com/buswatch/buswatch/pkg/geo"
	"github.com/buswatch/buswatch/pkg/transit"
	"github.com/buswatch/buswatch/pkg/util"
	"github.com/rs/zerolog/log"
)

// FindNearestStop picks the best match for targetName among a route's stops.
// An exact normalized-name match (cross streets in either order) always wins
// over geometric distance; only when no name matches does it fall back to
// the nearest stop to the given coordinates. Returns nil when the route
// filter leaves no candidates.
func FindNearestStop(stops []transit.BusStop, targetName string, lat float64, lon float64, lineID string) *transit.BusStop {
	stopFilter := GetFilterForRoute(lineID)

	candidates := make([]transit.BusStop, len(stops))
	copy(candidates, stops)
	util.InPlaceFilter(&candidates, stopFilter)

	if len(candidates) == 0 {
		log.Warn().Str("line", lineID).Str("target", targetName).Msg("No eligible stops after route filter")
		return nil
	}

	targetTokens := NormalizeStopName(targetName)

	for index, candidate := range candidates {
		if TokensMatch(targetTokens, NormalizeStopName(candidate.Name)) {
			return &candidates[index]
		}
	}

	// No name matched, take the geographically closest candidate
	nearestIndex := 0
	nearestDistance := geo.Distance(lat, lon, candidates[0].Latitude, candidates[0].Longitude)

	for index := 1; index < len(candidates); index++ {
		distance := geo.Distance(lat, lon, candidates[index].Latitude, candidates[index].Longitude)

		if distance < nearestDistance {
			nearestIndex = index
			nearestDistance = distance
		}
	}

	return &candidates[nearestIndex]
}
