package optimizer

import (
	"testing"

	"crossrates/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestRateGraph_UpsertKeepsMaximum(t *testing.T) {
	g := NewRateGraph()

	g.Upsert("EUR", "USD", 1.05, 1/1.05, domain.RatePath{SenderID: "A"})
	g.Upsert("EUR", "USD", 1.10, 1/1.10, domain.RatePath{SenderID: "B"})
	g.Upsert("EUR", "USD", 1.07, 1/1.07, domain.RatePath{SenderID: "C"})

	obs, ok := g.Get("EUR", "USD")
	require.True(t, ok)
	require.InDelta(t, 1.10, obs.Rate, 1e-12)
	require.Equal(t, "B", obs.Path.SenderID)
}

func TestRateGraph_UpsertEqualRateKeepsFirst(t *testing.T) {
	g := NewRateGraph()

	g.Upsert("EUR", "USD", 1.10, 1/1.10, domain.RatePath{SenderID: "first"})
	g.Upsert("EUR", "USD", 1.10, 1/1.10, domain.RatePath{SenderID: "second"})

	obs, ok := g.Get("EUR", "USD")
	require.True(t, ok)
	require.Equal(t, "first", obs.Path.SenderID)
}

func TestRateGraph_UpsertOrderIndependent(t *testing.T) {
	rates := []float64{1.05, 1.12, 1.03, 1.12, 1.08}

	forward := NewRateGraph()
	for _, r := range rates {
		forward.Upsert("EUR", "USD", r, 1/r, domain.RatePath{})
	}
	backward := NewRateGraph()
	for i := len(rates) - 1; i >= 0; i-- {
		backward.Upsert("EUR", "USD", rates[i], 1/rates[i], domain.RatePath{})
	}

	a, _ := forward.Get("EUR", "USD")
	b, _ := backward.Get("EUR", "USD")
	require.InDelta(t, 1.12, a.Rate, 1e-12)
	require.InDelta(t, a.Rate, b.Rate, 1e-12)
}

func TestRateGraph_NeverStoresSelfPairs(t *testing.T) {
	g := NewRateGraph()

	g.Upsert("EUR", "EUR", 1.0, 1.0, domain.RatePath{})
	g.Upsert("", "USD", 1.0, 1.0, domain.RatePath{})
	g.Upsert("USD", "", 1.0, 1.0, domain.RatePath{})

	_, ok := g.Get("EUR", "EUR")
	require.False(t, ok)
	require.Empty(t, g.Assets())
}

func TestRateGraph_Reverse(t *testing.T) {
	g := NewRateGraph()
	g.Upsert("USD", "EUR", 0.91, 1/0.91, domain.RatePath{})

	obs, ok := g.Reverse("EUR", "USD")
	require.True(t, ok)
	require.InDelta(t, 0.91, obs.Rate, 1e-12)

	_, ok = g.Reverse("USD", "EUR")
	require.False(t, ok)
}

func TestRateGraph_AssetsSortedAndComplete(t *testing.T) {
	g := NewRateGraph()
	g.Upsert("USD", "MXN", 18, 1.0/18, domain.RatePath{})
	g.Upsert("EUR", "USD", 1.1, 1/1.1, domain.RatePath{})

	require.Equal(t, []string{"EUR", "MXN", "USD"}, g.Assets())
}

func TestRateGraph_SnapshotIsACopy(t *testing.T) {
	g := NewRateGraph()
	g.Upsert("EUR", "USD", 1.1, 1/1.1, domain.RatePath{})

	snap := g.Snapshot()
	delete(snap["EUR"], "USD")

	_, ok := g.Get("EUR", "USD")
	require.True(t, ok)
}
