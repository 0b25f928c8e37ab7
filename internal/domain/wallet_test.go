package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeWalletURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "already normalized", in: "https://wallets.test/alice", want: "https://wallets.test/alice"},
		{name: "trailing slash", in: "https://wallets.test/alice/", want: "https://wallets.test/alice"},
		{name: "payment pointer", in: "$wallets.test/alice", want: "https://wallets.test/alice"},
		{name: "payment pointer with slash", in: "$wallets.test/alice/", want: "https://wallets.test/alice"},
		{name: "surrounding whitespace", in: "  https://wallets.test/alice ", want: "https://wallets.test/alice"},
		{name: "empty", in: "", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, NormalizeWalletURL(tc.in))
		})
	}
}

func TestShortName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "https://wallets.test/alice", want: "alice"},
		{in: "https://wallets.test/team/bob/", want: "bob"},
		{in: "alice", want: "alice"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, ShortName(tc.in))
	}
}

func TestAmount_HumanValue(t *testing.T) {
	cases := []struct {
		name    string
		amount  Amount
		want    float64
		wantErr bool
	}{
		{name: "scale 2", amount: Amount{Value: "10900", AssetScale: 2}, want: 109.0},
		{name: "scale 0", amount: Amount{Value: "42", AssetScale: 0}, want: 42.0},
		{name: "scale 6", amount: Amount{Value: "1500000", AssetScale: 6}, want: 1.5},
		{name: "zero", amount: Amount{Value: "0", AssetScale: 2}, want: 0},
		{name: "not a number", amount: Amount{Value: "10.5", AssetScale: 2}, wantErr: true},
		{name: "empty", amount: Amount{Value: "", AssetScale: 2}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := tc.amount.HumanValue()
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.InDelta(t, tc.want, v, 1e-12)
		})
	}
}

func TestMinorUnits(t *testing.T) {
	require.Equal(t, int64(10000), MinorUnits(100, 2))
	require.Equal(t, int64(100), MinorUnits(100, 0))
	// rounds instead of truncating
	require.Equal(t, int64(1005), MinorUnits(10.049, 2))
	require.Equal(t, int64(33), MinorUnits(0.326, 2))
}
