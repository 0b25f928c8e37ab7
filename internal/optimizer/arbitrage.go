package optimizer

import (
	"fmt"
	"sort"

	"crossrates/internal/domain"
)

// EnrichRoundTrips fills the round-trip fields of every successful,
// non-diagonal, different-currency route. It runs strictly after collection,
// when the graph is stable, so the result does not depend on the order pairs
// were quoted in.
func EnrichRoundTrips(matrix []domain.SenderRow, graph *RateGraph) {
	for ri := range matrix {
		row := &matrix[ri]
		for i := range row.Routes {
			route := &row.Routes[i]
			if !route.Success || route.IsDiagonal || route.SameCurrency {
				continue
			}

			reverse, ok := graph.Reverse(route.SenderAsset, route.ReceiverAsset)
			if !ok {
				continue
			}

			product := route.Rate * reverse.Rate
			roi := (product - 1) * 100
			route.HasRoundTrip = true
			route.RoundTripProduct = &product
			route.ROIToSenderPct = &roi
		}
	}
}

// FindTriangularArbitrage scans every ordered triple of distinct assets with
// all three directed edges present and flags cycles whose compounded rate
// product exceeds 1+epsilon. Results are sorted descending by product.
// O(N³) over distinct assets, N is bounded by the configured wallet count.
func FindTriangularArbitrage(graph *RateGraph, epsilon float64) []domain.ArbitrageCycle {
	assets := graph.Assets()
	var opportunities []domain.ArbitrageCycle

	for _, a := range assets {
		for _, b := range assets {
			if b == a {
				continue
			}
			for _, c := range assets {
				if c == a || c == b {
					continue
				}

				ab, ok := graph.Get(a, b)
				if !ok {
					continue
				}
				bc, ok := graph.Get(b, c)
				if !ok {
					continue
				}
				ca, ok := graph.Get(c, a)
				if !ok {
					continue
				}

				product := ab.Rate * bc.Rate * ca.Rate
				if product <= 1+epsilon {
					continue
				}

				gainPct := (product - 1) * 100
				opportunities = append(opportunities, domain.ArbitrageCycle{
					Cycle:   []string{a, b, c, a},
					Product: product,
					GainPct: gainPct,
					Legs: map[string]domain.CycleLeg{
						a + "→" + b: {Rate: ab.Rate, Path: ab.Path},
						b + "→" + c: {Rate: bc.Rate, Path: bc.Path},
						c + "→" + a: {Rate: ca.Rate, Path: ca.Path},
					},
					Description: fmt.Sprintf("%s → %s → %s → %s", a, b, c, a),
					Profit:      fmt.Sprintf("+%.3f%%", gainPct),
				})
			}
		}
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].Product > opportunities[j].Product
	})
	return opportunities
}
