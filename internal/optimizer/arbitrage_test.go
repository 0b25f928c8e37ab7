package optimizer

import (
	"testing"

	"crossrates/internal/domain"

	"github.com/stretchr/testify/require"
)

const defaultEpsilon = 0.0005 // 5 bps

func TestFindTriangularArbitrage_FlagsProfitableCycle(t *testing.T) {
	g := NewRateGraph()
	g.Upsert("EUR", "USD", 1.1, 1/1.1, domain.RatePath{SenderID: "A"})
	g.Upsert("USD", "MXN", 18, 1.0/18, domain.RatePath{SenderID: "B"})
	g.Upsert("MXN", "EUR", 0.052, 1/0.052, domain.RatePath{SenderID: "C"})

	opportunities := FindTriangularArbitrage(g, defaultEpsilon)

	// one profitable triangle, reported once per starting asset
	require.Len(t, opportunities, 3)
	require.InDelta(t, 1.1*18*0.052, opportunities[0].Product, 1e-12) // 1.0296

	var starts []string
	for _, opp := range opportunities {
		starts = append(starts, opp.Cycle[0])
		require.InDelta(t, 1.0296, opp.Product, 1e-9)
		require.InDelta(t, 2.96, opp.GainPct, 1e-9)
		require.Len(t, opp.Legs, 3)
		require.Equal(t, "A", opp.Legs["EUR→USD"].Path.SenderID)
		if opp.Cycle[0] == "EUR" {
			require.Equal(t, []string{"EUR", "USD", "MXN", "EUR"}, opp.Cycle)
			require.Equal(t, "EUR → USD → MXN → EUR", opp.Description)
		}
	}
	require.ElementsMatch(t, []string{"EUR", "MXN", "USD"}, starts)
}

func TestFindTriangularArbitrage_RespectsEpsilon(t *testing.T) {
	// product = 1.0004, inside the 5 bps tolerance
	g := NewRateGraph()
	g.Upsert("EUR", "USD", 1.0004, 1/1.0004, domain.RatePath{})
	g.Upsert("USD", "GBP", 1.0, 1.0, domain.RatePath{})
	g.Upsert("GBP", "EUR", 1.0, 1.0, domain.RatePath{})

	require.Empty(t, FindTriangularArbitrage(g, defaultEpsilon))

	// the same cycle is flagged under a tighter tolerance, once per rotation
	require.Len(t, FindTriangularArbitrage(g, 0.0001), 3)
}

func TestFindTriangularArbitrage_RequiresAllThreeEdges(t *testing.T) {
	g := NewRateGraph()
	g.Upsert("EUR", "USD", 2, 0.5, domain.RatePath{})
	g.Upsert("USD", "MXN", 2, 0.5, domain.RatePath{})
	// MXN→EUR edge missing

	require.Empty(t, FindTriangularArbitrage(g, defaultEpsilon))
}

func TestFindTriangularArbitrage_SortedDescendingByProduct(t *testing.T) {
	g := NewRateGraph()
	// two independent profitable cycles with different products
	g.Upsert("EUR", "USD", 1.2, 1/1.2, domain.RatePath{})
	g.Upsert("USD", "EUR", 1.0, 1.0, domain.RatePath{})
	g.Upsert("USD", "MXN", 1.1, 1/1.1, domain.RatePath{})
	g.Upsert("MXN", "EUR", 1.0, 1.0, domain.RatePath{})
	g.Upsert("EUR", "MXN", 1.0, 1.0, domain.RatePath{})
	g.Upsert("MXN", "USD", 1.0, 1.0, domain.RatePath{})

	opportunities := FindTriangularArbitrage(g, defaultEpsilon)
	require.NotEmpty(t, opportunities)
	for i := 1; i < len(opportunities); i++ {
		require.GreaterOrEqual(t, opportunities[i-1].Product, opportunities[i].Product)
	}
}

func TestEnrichRoundTrips(t *testing.T) {
	g := NewRateGraph()
	g.Upsert("EUR", "USD", 1.1, 1/1.1, domain.RatePath{})
	g.Upsert("USD", "EUR", 0.95, 1/0.95, domain.RatePath{})
	g.Upsert("EUR", "MXN", 19.5, 1/19.5, domain.RatePath{})
	// no MXN→EUR edge

	matrix := []domain.SenderRow{{
		SenderID: "A",
		Routes: []domain.Route{
			{Success: true, SenderAsset: "EUR", ReceiverAsset: "USD", Rate: 1.1},
			{Success: true, SenderAsset: "EUR", ReceiverAsset: "MXN", Rate: 19.5},
			{Success: true, IsDiagonal: true, SenderAsset: "EUR", ReceiverAsset: "EUR", SameCurrency: true, Rate: 1},
			{Success: false, SenderAsset: "EUR", ReceiverAsset: "USD", Error: "boom"},
		},
	}}

	EnrichRoundTrips(matrix, g)

	withReturn := matrix[0].Routes[0]
	require.True(t, withReturn.HasRoundTrip)
	require.NotNil(t, withReturn.RoundTripProduct)
	require.InDelta(t, 1.1*0.95, *withReturn.RoundTripProduct, 1e-12)
	require.InDelta(t, (1.1*0.95-1)*100, *withReturn.ROIToSenderPct, 1e-9)

	noReturn := matrix[0].Routes[1]
	require.False(t, noReturn.HasRoundTrip)
	require.Nil(t, noReturn.RoundTripProduct)

	require.False(t, matrix[0].Routes[2].HasRoundTrip) // diagonal untouched
	require.False(t, matrix[0].Routes[3].HasRoundTrip) // failed untouched
}

// roiToSenderPct must equal (rate × reverseRate − 1) × 100 exactly, whichever
// pair was quoted first.
func TestEnrichRoundTrips_OrderIndependentROI(t *testing.T) {
	route := domain.Route{Success: true, SenderAsset: "USD", ReceiverAsset: "EUR", Rate: 0.91}

	build := func(reverseFirst bool) []domain.SenderRow {
		g := NewRateGraph()
		if reverseFirst {
			g.Upsert("EUR", "USD", 1.12, 1/1.12, domain.RatePath{})
			g.Upsert("USD", "EUR", 0.91, 1/0.91, domain.RatePath{})
		} else {
			g.Upsert("USD", "EUR", 0.91, 1/0.91, domain.RatePath{})
			g.Upsert("EUR", "USD", 1.12, 1/1.12, domain.RatePath{})
		}
		matrix := []domain.SenderRow{{Routes: []domain.Route{route}}}
		EnrichRoundTrips(matrix, g)
		return matrix
	}

	a := build(false)[0].Routes[0]
	b := build(true)[0].Routes[0]
	require.True(t, a.HasRoundTrip)
	require.True(t, b.HasRoundTrip)
	require.InDelta(t, (0.91*1.12-1)*100, *a.ROIToSenderPct, 1e-9)
	require.InDelta(t, *a.ROIToSenderPct, *b.ROIToSenderPct, 1e-12)
}
