package optimizer

import (
	"slices"
	"sync"
	"time"

	"crossrates/internal/domain"
)

// RateGraph holds the best directed rate seen for each ordered pair of asset
// codes within one optimization run. Upsert keeps the maximum rate observed:
// arbitrage and ROI claims should use the most favorable rate actually seen,
// since the opportunity is realized through the specific path that produced
// it. The max-merge is commutative, so concurrent collection order cannot
// change the final graph.
type RateGraph struct {
	mu    sync.RWMutex
	rates map[string]map[string]domain.RateObservation
}

func NewRateGraph() *RateGraph {
	return &RateGraph{rates: make(map[string]map[string]domain.RateObservation)}
}

// Upsert records an observation unless a strictly greater rate is already
// stored for the pair. Self pairs are never stored.
func (g *RateGraph) Upsert(from, to string, rate, costPerDestUnit float64, path domain.RatePath) {
	if from == "" || to == "" || from == to {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.rates[from][to]; ok && existing.Rate >= rate {
		return
	}
	if g.rates[from] == nil {
		g.rates[from] = make(map[string]domain.RateObservation)
	}
	g.rates[from][to] = domain.RateObservation{
		From:            from,
		To:              to,
		Rate:            rate,
		CostPerDestUnit: costPerDestUnit,
		Path:            path,
		ObservedAt:      time.Now(),
	}
}

// Get returns the stored observation for from→to.
func (g *RateGraph) Get(from, to string) (domain.RateObservation, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	obs, ok := g.rates[from][to]
	return obs, ok
}

// Reverse returns the stored observation for to→from.
func (g *RateGraph) Reverse(from, to string) (domain.RateObservation, bool) {
	return g.Get(to, from)
}

// Assets returns every asset code present in the graph, on either side of a
// pair, sorted for deterministic enumeration.
func (g *RateGraph) Assets() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	seen := make(map[string]struct{}, len(g.rates))
	for from, row := range g.rates {
		seen[from] = struct{}{}
		for to := range row {
			seen[to] = struct{}{}
		}
	}
	assets := make([]string, 0, len(seen))
	for a := range seen {
		assets = append(assets, a)
	}
	slices.Sort(assets)
	return assets
}

// Snapshot returns a copy of the full rate table for the response payload.
func (g *RateGraph) Snapshot() map[string]map[string]domain.RateObservation {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make(map[string]map[string]domain.RateObservation, len(g.rates))
	for from, row := range g.rates {
		cp := make(map[string]domain.RateObservation, len(row))
		for to, obs := range row {
			cp[to] = obs
		}
		out[from] = cp
	}
	return out
}
