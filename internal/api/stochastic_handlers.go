package api

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/passbi/passbi_core/internal/cache"
	"github.com/passbi/passbi_core/internal/graph"
	"github.com/passbi/passbi_core/internal/stochastic"
	"github.com/passbi/passbi_core/internal/stochastic/robust"
	"github.com/passbi/passbi_core/internal/stochastic/search"
)

// StochasticRouteResponse is the API representation of a stochastic Route.
type StochasticRouteResponse struct {
	Stops           []int64 `json:"stops"`
	DepTime         int     `json:"dep_time"`
	ArrTime         int     `json:"arr_time"`
	TravelTime      int     `json:"travel_time"`
	Probability     float64 `json:"probability"`
	WeakestEdgeFrom int64   `json:"weakest_edge_from"`
	WeakestEdgeTo   int64   `json:"weakest_edge_to"`
}

func toStochasticRouteResponse(r *stochastic.Route) (*StochasticRouteResponse, error) {
	dep, err := r.DepTime()
	if err != nil {
		return nil, err
	}
	arr, err := r.ArrTime()
	if err != nil {
		return nil, err
	}
	travel, err := r.TravelTime()
	if err != nil {
		return nil, err
	}
	proba, weakest, err := r.SuccessProbability()
	if err != nil {
		return nil, err
	}

	stops := make([]int64, len(r.Connections))
	for i, s := range r.Connections {
		stops[i] = int64(s)
	}

	return &StochasticRouteResponse{
		Stops:           stops,
		DepTime:         dep,
		ArrTime:         arr,
		TravelTime:      travel,
		Probability:     proba,
		WeakestEdgeFrom: int64(weakest.U),
		WeakestEdgeTo:   int64(weakest.V),
	}, nil
}

// parseStochasticQuery extracts the query parameters shared by both
// stochastic endpoints: from, to (stop identifiers or, with by=name, display
// names resolved via search.SearchByName's lookup), arr (seconds-of-day or
// HH:MM:SS) and an optional threshold.
func parseStochasticQuery(c *fiber.Ctx, g *graph.StochasticGraph) (start, end graph.StopID, arrTimeTarget int, threshold float64, err error) {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	arrStr := c.Query("arr")

	if fromStr == "" || toStr == "" || arrStr == "" {
		return 0, 0, 0, 0, fmt.Errorf("missing required parameters: from, to, arr")
	}

	var fromID, toID int64
	if c.Query("by") == "name" {
		if g == nil {
			return 0, 0, 0, 0, fmt.Errorf("stochastic graph not loaded")
		}
		start, ok := g.StopIDByName(fromStr)
		if !ok {
			return 0, 0, 0, 0, fmt.Errorf("unknown stop name: %q", fromStr)
		}
		end, ok := g.StopIDByName(toStr)
		if !ok {
			return 0, 0, 0, 0, fmt.Errorf("unknown stop name: %q", toStr)
		}
		fromID, toID = int64(start), int64(end)
	} else {
		fromID, err = strconv.ParseInt(fromStr, 10, 64)
		if err != nil {
			return 0, 0, 0, 0, fmt.Errorf("invalid 'from' stop id: %w", err)
		}
		toID, err = strconv.ParseInt(toStr, 10, 64)
		if err != nil {
			return 0, 0, 0, 0, fmt.Errorf("invalid 'to' stop id: %w", err)
		}
	}

	arrTimeTarget, err = parseArrTime(arrStr)
	if err != nil {
		return 0, 0, 0, 0, err
	}

	threshold = stochastic.DefaultThreshold()
	if thStr := c.Query("threshold"); thStr != "" {
		parsed, perr := strconv.ParseFloat(thStr, 64)
		if perr != nil || parsed < 0 || parsed > 1 {
			return 0, 0, 0, 0, fmt.Errorf("invalid 'threshold': must be a float in [0,1]")
		}
		threshold = parsed
	}

	return graph.StopID(fromID), graph.StopID(toID), arrTimeTarget, threshold, nil
}

// parseArrTime accepts either an integer count of seconds-of-day or an
// "HH:MM:SS" string, per §6 of the stochastic core's input normalisation.
func parseArrTime(raw string) (int, error) {
	if secs, err := strconv.Atoi(raw); err == nil {
		return secs, nil
	}
	t, err := time.Parse("15:04:05", raw)
	if err != nil {
		return 0, fmt.Errorf("invalid 'arr': expected seconds-of-day or HH:MM:SS")
	}
	return t.Hour()*3600 + t.Minute()*60 + t.Second(), nil
}

// StochasticRouteSearch handles GET /v2/stochastic-route.
func StochasticRouteSearch(c *fiber.Ctx) error {
	g := graph.GetStochasticGraph()
	start, end, arrTimeTarget, threshold, err := parseStochasticQuery(c, g)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	ctx := c.Context()
	cacheKey := cache.StochasticRouteKey(int64(start), int64(end), arrTimeTarget, threshold)

	var cached StochasticRouteResponse
	if hit, _ := cache.GetJSON(ctx, cacheKey, &cached); hit {
		return c.JSON(cached)
	}

	route, err := search.Search(ctx, g, start, end, arrTimeTarget, threshold)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}

	resp, err := toStochasticRouteResponse(route)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	if err := cache.SetJSON(ctx, cacheKey, resp, stochastic.DefaultCacheTTL()); err != nil {
		log.Printf("Failed to cache stochastic route: %v", err)
	}

	return c.JSON(resp)
}

// RobustRouteSearch handles GET /v2/robust-route.
func RobustRouteSearch(c *fiber.Ctx) error {
	g := graph.GetStochasticGraph()
	start, end, arrTimeTarget, threshold, err := parseStochasticQuery(c, g)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	maxIter := stochastic.DefaultMaxIter()
	if v := c.Query("max_iter"); v != "" {
		n, perr := strconv.Atoi(v)
		if perr != nil || n <= 0 {
			return c.Status(400).JSON(fiber.Map{"error": "invalid 'max_iter': must be a positive integer"})
		}
		maxIter = n
	}

	numberOfRoutes := 1
	if v := c.Query("number_of_routes"); v != "" {
		n, perr := strconv.Atoi(v)
		if perr != nil || n <= 0 {
			return c.Status(400).JSON(fiber.Map{"error": "invalid 'number_of_routes': must be a positive integer"})
		}
		numberOfRoutes = n
	}

	ctx := c.Context()
	cacheKey := cache.RobustRouteKey(int64(start), int64(end), arrTimeTarget, threshold, maxIter, numberOfRoutes)

	var cached []*StochasticRouteResponse
	if hit, _ := cache.GetJSON(ctx, cacheKey, &cached); hit {
		return c.JSON(fiber.Map{"routes": cached})
	}

	routes, err := robust.Robust(ctx, g, start, end, arrTimeTarget, threshold, maxIter, numberOfRoutes)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}

	resp := make([]*StochasticRouteResponse, 0, len(routes))
	for _, r := range routes {
		rr, err := toStochasticRouteResponse(r)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		resp = append(resp, rr)
	}

	if err := cache.SetJSON(ctx, cacheKey, resp, stochastic.DefaultCacheTTL()); err != nil {
		log.Printf("Failed to cache robust routes: %v", err)
	}

	return c.JSON(fiber.Map{"routes": resp})
}
