package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarketRateClient_Success(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("from")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
            "base": "EUR",
            "rates": {"USD": 1.09, "MXN": 19.5}
        }`))
	}))
	t.Cleanup(srv.Close)

	c := NewMarketRateClient(srv.Client(), srv.URL+"/latest")

	rates, err := c.GetMarketRates(context.Background(), "EUR")
	require.NoError(t, err)
	require.Equal(t, "EUR", gotQuery)
	require.Len(t, rates, 2)
	require.InDelta(t, 1.09, rates["USD"], 1e-9)
	require.InDelta(t, 19.5, rates["MXN"], 1e-9)
}

func TestMarketRateClient_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "not found", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	c := NewMarketRateClient(srv.Client(), srv.URL+"/latest")

	_, err := c.GetMarketRates(context.Background(), "XXX")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected status code 404")
	require.Contains(t, err.Error(), "XXX")
	require.Equal(t, int32(1), calls.Load())
}

func TestMarketRateClient_ServerErrorRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			http.Error(w, "try later", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base": "EUR", "rates": {"USD": 1.09}}`))
	}))
	t.Cleanup(srv.Close)

	c := NewMarketRateClient(srv.Client(), srv.URL+"/latest")

	rates, err := c.GetMarketRates(context.Background(), "EUR")
	require.NoError(t, err)
	require.Equal(t, int32(2), calls.Load())
	require.InDelta(t, 1.09, rates["USD"], 1e-9)
}

func TestMarketRateClient_JSONDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{")) // invalid JSON
	}))
	t.Cleanup(srv.Close)

	c := NewMarketRateClient(srv.Client(), srv.URL+"/latest")

	_, err := c.GetMarketRates(context.Background(), "EUR")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to decode response for currency \"EUR\"")
}

func TestMarketRateClient_EmptyRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base": "EUR", "rates": {}}`))
	}))
	t.Cleanup(srv.Close)

	c := NewMarketRateClient(srv.Client(), srv.URL+"/latest")

	_, err := c.GetMarketRates(context.Background(), "EUR")
	require.Error(t, err)
	require.Contains(t, err.Error(), "api returned no rates for currency \"EUR\"")
}

func TestMarketRateClient_BaseURLParseError(t *testing.T) {
	c := NewMarketRateClient(&http.Client{}, "http://::1]")
	_, err := c.GetMarketRates(context.Background(), "EUR")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse base URL")
}
