package routes

import (
	"github.com/buswatch/buswatch/pkg/arrivals"
	"github.com/buswatch/buswatch/pkg/matching"
	"github.com/buswatch/buswatch/pkg/transit"
	"github.com/gofiber/fiber/v2"
)

func BusDataRouter(router fiber.Router) {
	router.Get("/", getBusData)
}

type busDataQuery struct {
	Line        string `validate:"required"`
	Origin      string `validate:"required"`
	Destination string `validate:"required"`
}

// getBusData is the arrival board: which buses are approaching the origin
// stop, and when each of them will reach the destination stop.
func getBusData(c *fiber.Ctx) error {
	query := busDataQuery{
		Line:        c.Query("line"),
		Origin:      c.Query("origin"),
		Destination: c.Query("destination"),
	}
	if err := validate.Struct(query); err != nil {
		return validationError(c, "Parameters line, origin and destination are required")
	}

	result, err := reconcileLineStops(c, query.Line)
	if err != nil {
		return renderError(c, err)
	}

	origin := findRouteStop(result.Stops, query.Origin)
	if origin == nil {
		return renderError(c, transit.NewError(transit.CategoryNotFound, "Origin stop is not on that line"))
	}

	destination := findRouteStop(result.Stops, query.Destination)
	if destination == nil {
		return renderError(c, transit.NewError(transit.CategoryNotFound, "Destination stop is not on that line"))
	}

	matcher := arrivals.NewMatcher()
	busData := matcher.BuildBusData(c.Context(), busTimeClient, query.Line, *origin, *destination)

	return c.JSON(busData)
}

// findRouteStop resolves origin/destination parameters that may be either a
// stop ID or a display name.
func findRouteStop(stops []transit.BusStop, identifier string) *transit.BusStop {
	for index, stop := range stops {
		if stop.ID == identifier {
			return &stops[index]
		}
	}

	targetTokens := matching.NormalizeStopName(identifier)
	for index, stop := range stops {
		if matching.TokensMatch(targetTokens, matching.NormalizeStopName(stop.Name)) {
			return &stops[index]
		}
	}

	return nil
}
