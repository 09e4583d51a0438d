package reconciler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/buswatch/buswatch/pkg/bustime"
	"github.com/buswatch/buswatch/pkg/transit"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/exp/slices"
)

const (
	// Missing stops are fetched 5 at a time, batches one after another with
	// a pause in between, so a route with many unreferenced stops does not
	// trip the upstream rate limiter
	fetchBatchSize  = 5
	interBatchDelay = 500 * time.Millisecond
)

// StopFetcher looks up one stop record from the upstream API.
// *bustime.Client satisfies it.
type StopFetcher interface {
	Stop(ctx context.Context, stopID string) (*bustime.StopReference, error)
}

// Result is the reconciled view of a route's stops: flat, direction-tagged
// and sequence-ordered. Unresolved lists stop IDs that could not be fetched,
// their absence is not a failure as long as anything else resolved.
type Result struct {
	Stops      []transit.BusStop
	Directions []transit.Direction
	Unresolved []string
}

type pendingStop struct {
	stopID    string
	direction string
	sequence  int
}

// Reconcile turns raw stops-for-route groupings into an ordered BusStop
// list. Stop details come from the response's reference table where
// possible; anything missing is fetched individually through fetcher. The
// lookup of already-resolved stops lives entirely within this call, so
// concurrent requests never see each other's data.
func Reconcile(ctx context.Context, groupings []bustime.StopGrouping, references map[string]bustime.StopReference, fetcher StopFetcher) (*Result, error) {
	var directions []transit.Direction
	var pending []pendingStop

	for _, grouping := range groupings {
		for _, group := range grouping.StopGroups {
			directionName := group.Name.Resolve()

			if directionName == "" || len(group.StopIDs) == 0 {
				log.Warn().
					Str("group", group.ID.String()).
					Int("stops", len(group.StopIDs)).
					Msg("Skipping stop group with no name or no stops")
				continue
			}

			directionID := group.ID.String()
			if directionID == "" {
				directionID = fmt.Sprintf("direction-%d", len(directions))
			}

			directions = append(directions, transit.Direction{
				ID:   directionID,
				Name: directionName,
			})

			for sequence, stopID := range group.StopIDs {
				pending = append(pending, pendingStop{
					stopID:    stopID,
					direction: directionName,
					sequence:  sequence,
				})
			}
		}
	}

	lookup := map[string]bustime.StopReference{}
	for stopID, reference := range references {
		lookup[stopID] = reference
	}

	var missing []string
	seen := map[string]bool{}
	for _, entry := range pending {
		if _, resolved := lookup[entry.stopID]; !resolved && !seen[entry.stopID] {
			missing = append(missing, entry.stopID)
			seen[entry.stopID] = true
		}
	}

	unresolved := fetchMissingStops(ctx, missing, fetcher, lookup)

	var stops []transit.BusStop
	for _, entry := range pending {
		reference, resolved := lookup[entry.stopID]
		if !resolved {
			continue
		}

		stops = append(stops, buildStop(reference, entry))
	}

	slices.SortFunc(stops, func(a transit.BusStop, b transit.BusStop) int {
		if a.Direction != b.Direction {
			return strings.Compare(a.Direction, b.Direction)
		}

		return a.Sequence - b.Sequence
	})

	if len(stops) == 0 {
		return nil, transit.NewError(transit.CategoryUpstreamDataShape, "no stops could be resolved for route")
	}

	return &Result{
		Stops:      stops,
		Directions: directions,
		Unresolved: unresolved,
	}, nil
}

func fetchMissingStops(ctx context.Context, missing []string, fetcher StopFetcher, lookup map[string]bustime.StopReference) []string {
	type fetchOutcome struct {
		stopID string
		stop   *bustime.StopReference
	}

	var unresolved []string

	for start := 0; start < len(missing); start += fetchBatchSize {
		end := start + fetchBatchSize
		if end > len(missing) {
			end = len(missing)
		}

		p := pool.NewWithResults[fetchOutcome]()

		for _, stopID := range missing[start:end] {
			stopID := stopID

			p.Go(func() fetchOutcome {
				stop, err := fetcher.Stop(ctx, stopID)
				if err != nil {
					log.Warn().Err(err).Str("stop", stopID).Msg("Failed to fetch missing stop")
					return fetchOutcome{stopID: stopID}
				}

				return fetchOutcome{stopID: stopID, stop: stop}
			})
		}

		for _, outcome := range p.Wait() {
			if outcome.stop == nil {
				unresolved = append(unresolved, outcome.stopID)
				continue
			}

			lookup[outcome.stopID] = *outcome.stop
		}

		if end < len(missing) {
			time.Sleep(interBatchDelay)
		}
	}

	return unresolved
}

func buildStop(reference bustime.StopReference, entry pendingStop) transit.BusStop {
	name := reference.Name
	if name == "" {
		name = "Unknown Stop"
	}

	code := reference.Code
	if code == "" {
		code = codeFromStopID(entry.stopID)
	}

	return transit.BusStop{
		ID:        entry.stopID,
		Code:      code,
		Name:      name,
		Direction: entry.direction,
		Sequence:  entry.sequence,
		Latitude:  reference.Latitude,
		Longitude: reference.Longitude,
	}
}

// Stop IDs are agency-qualified ("MTA_303921"), the numeric suffix doubles
// as the public stop code.
func codeFromStopID(stopID string) string {
	if index := strings.LastIndex(stopID, "_"); index >= 0 {
		return stopID[index+1:]
	}

	return stopID
}
