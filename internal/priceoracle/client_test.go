package priceoracle

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mrudul2k/yeet-magic-scanner/internal/serviceerrs"
)

const testToken = "0x08A38Caa631DE329FF2DAD1656CE789F31AF3142"

func TestClient_FetchUSDPrice_firstPairWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/latest/dex/search", r.URL.Path)
			assert.Equal(t, testToken, r.URL.Query().Get("q"))
			fmt.Fprint(w, `{"pairs": [
				{"priceUsd": "0.042", "liquidity": {"usd": 10}},
				{"priceUsd": "99.9", "liquidity": {"usd": 1000000}}
			]}`)
		}))
	defer srv.Close()

	price, err := New(srv.URL).FetchUSDPrice(context.Background(), testToken)
	require.NoError(t, err)
	require.NotNil(t, price)

	// feed order decides, not liquidity
	assert.True(t, price.Equal(decimal.RequireFromString("0.042")))
}

func TestClient_FetchUSDPrice_degradesToAbsent(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"no pairs",
			func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"pairs": []}`)
			},
		},
		{
			"pairs missing",
			func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{}`)
			},
		},
		{
			"non-numeric price",
			func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"pairs": [{"priceUsd": "n/a"}]}`)
			},
		},
		{
			"server error",
			func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusBadGateway)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			price, err := New(srv.URL).FetchUSDPrice(context.Background(), testToken)
			require.Error(t, err)
			assert.Nil(t, price)

			var fetchErr *serviceerrs.PriceFetchError
			assert.ErrorAs(t, err, &fetchErr)
		})
	}
}
