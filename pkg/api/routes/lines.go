package routes

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/buswatch/buswatch/pkg/matching"
	"github.com/buswatch/buswatch/pkg/reconciler"
	"github.com/buswatch/buswatch/pkg/transit"
	"github.com/gofiber/fiber/v2"
)

const defaultAgencyID = "MTA NYCT"

func LinesRouter(router fiber.Router) {
	router.Get("/", listLines)
	router.Get("/:identifier", getLine)
	router.Get("/:identifier/stops", getLineStops)
	router.Get("/:identifier/nearest_stop", getNearestStop)
}

func listLines(c *fiber.Ctx) error {
	search := strings.ToLower(c.Query("search"))

	lines, err := busTimeClient.RoutesForAgency(c.Context(), defaultAgencyID)
	if err != nil {
		return renderError(c, err)
	}

	if search != "" {
		var filtered []transit.BusLine
		for _, line := range lines {
			haystack := strings.ToLower(line.ShortName + " " + line.LongName + " " + line.Description)

			if strings.Contains(haystack, search) {
				filtered = append(filtered, line)
			}
		}
		lines = filtered
	}

	return c.JSON(lines)
}

func getLine(c *fiber.Ctx) error {
	identifier, err := url.PathUnescape(c.Params("identifier"))
	if err != nil {
		return validationError(c, "Invalid line identifier")
	}

	lines, err := busTimeClient.RoutesForAgency(c.Context(), defaultAgencyID)
	if err != nil {
		return renderError(c, err)
	}

	for _, line := range lines {
		if line.ID == identifier {
			return c.JSON(line)
		}
	}

	return renderError(c, transit.NewError(transit.CategoryNotFound, "Could not find a bus line matching that identifier"))
}

func getLineStops(c *fiber.Ctx) error {
	identifier, err := url.PathUnescape(c.Params("identifier"))
	if err != nil {
		return validationError(c, "Invalid line identifier")
	}

	result, err := reconcileLineStops(c, identifier)
	if err != nil {
		return renderError(c, err)
	}

	return c.JSON(fiber.Map{
		"directions": result.Directions,
		"stops":      result.Stops,
		"unresolved": result.Unresolved,
	})
}

// The coordinate fields deliberately have no required tag: zero is a valid
// latitude and longitude, and a missing parameter already fails float
// parsing before validation runs.
type nearestStopQuery struct {
	Latitude  float64 `validate:"latitude"`
	Longitude float64 `validate:"longitude"`
	Name      string  `validate:"required"`
}

func getNearestStop(c *fiber.Ctx) error {
	identifier, err := url.PathUnescape(c.Params("identifier"))
	if err != nil {
		return validationError(c, "Invalid line identifier")
	}

	latitude, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	longitude, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		return validationError(c, "Parameters lat and lon must be numbers")
	}

	query := nearestStopQuery{
		Latitude:  latitude,
		Longitude: longitude,
		Name:      c.Query("name"),
	}
	if err := validate.Struct(query); err != nil {
		return validationError(c, "Parameters lat, lon and name are required and must be valid coordinates")
	}

	result, err := reconcileLineStops(c, identifier)
	if err != nil {
		return renderError(c, err)
	}

	match := matching.FindNearestStop(result.Stops, query.Name, query.Latitude, query.Longitude, identifier)
	if match == nil {
		return renderError(c, transit.NewError(transit.CategoryNotFound, "No eligible stop found for that line"))
	}

	return c.JSON(match)
}

func reconcileLineStops(c *fiber.Ctx, lineID string) (*reconciler.Result, error) {
	response, err := busTimeClient.StopsForRoute(c.Context(), lineID)
	if err != nil {
		return nil, err
	}

	return reconciler.Reconcile(c.Context(), response.StopGroupings, response.References, busTimeClient)
}
