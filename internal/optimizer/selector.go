package optimizer

import (
	"math"

	"crossrates/internal/domain"
)

// Optimization objectives. Unrecognized values fall back to max_rate.
const (
	ObjectiveRoundTrip = "roundtrip"
	ObjectiveMaxRate   = "max_rate"
	ObjectiveMinCost   = "min_cost"
)

// NormalizeObjective maps the caller-supplied objective onto a known one.
func NormalizeObjective(objective string) string {
	switch objective {
	case ObjectiveRoundTrip, ObjectiveMaxRate, ObjectiveMinCost:
		return objective
	case "":
		return ObjectiveRoundTrip
	default:
		return ObjectiveMaxRate
	}
}

// Score returns the route's score under the objective. Routes without a
// round trip score negative infinity under roundtrip and are never selected.
func Score(route domain.Route, objective string) float64 {
	switch objective {
	case ObjectiveRoundTrip:
		if route.HasRoundTrip && route.ROIToSenderPct != nil {
			return *route.ROIToSenderPct
		}
		return math.Inf(-1)
	case ObjectiveMinCost:
		return -route.CostPerDestUnit
	default:
		return route.Rate
	}
}

// SelectBestRoute scores every successful, non-diagonal, different-currency
// route and returns the global best. The matrix is scanned in sender-major,
// receiver-minor order with a strictly-greater comparison, so ties resolve to
// the first-encountered route in that fixed enumeration order.
func SelectBestRoute(matrix []domain.SenderRow, objective string) *domain.BestRoute {
	var best *domain.BestRoute
	bestScore := math.Inf(-1)

	for _, row := range matrix {
		for _, route := range row.Routes {
			if !route.Success || route.IsDiagonal || route.SameCurrency {
				continue
			}

			score := Score(route, objective)
			if math.IsInf(score, -1) || score <= bestScore {
				continue
			}

			bestScore = score
			best = &domain.BestRoute{
				Route:      route,
				SenderID:   row.SenderID,
				SenderName: row.SenderName,
				Score:      score,
				Objective:  objective,
			}
		}
	}

	return best
}
