package cardano

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dan13ram/bridge-reactor/common"
	"github.com/dan13ram/bridge-reactor/models"
)

func newBlockfrostClient(t *testing.T, handler http.HandlerFunc) ChainClient {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(models.ChainPrime, models.ChainConfig{
		BlockfrostURL:       server.URL,
		BlockfrostProjectID: "project",
		RPCTimeoutMillis:    1000,
	})
}

func TestGetUtxos(t *testing.T) {
	t.Run("Follows Pages", func(t *testing.T) {
		pages := 0
		client := newBlockfrostClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "project", r.Header.Get(ProjectIDHeader))
			assert.Equal(t, "/addresses/"+testSenderAddress+"/utxos", r.URL.Path)
			pages++

			count := utxoPageSize
			if r.URL.Query().Get("page") == "2" {
				count = 1
			}
			w.Write([]byte("["))
			for i := 0; i < count; i++ {
				if i > 0 {
					w.Write([]byte(","))
				}
				fmt.Fprintf(w, `{"tx_hash":"aa","output_index":%d,"amount":[{"unit":"lovelace","quantity":"1000000"}]}`, i)
			}
			w.Write([]byte("]"))
		})

		utxos, err := client.GetUtxos(context.Background(), testSenderAddress)

		require.NoError(t, err)
		assert.Equal(t, 2, pages)
		assert.Len(t, utxos, utxoPageSize+1)
		lovelace, pure := utxos[0].Lovelace()
		assert.Equal(t, uint64(1_000_000), lovelace)
		assert.True(t, pure)
	})

	t.Run("Unknown Address Has No Utxos", func(t *testing.T) {
		client := newBlockfrostClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		utxos, err := client.GetUtxos(context.Background(), testSenderAddress)

		require.NoError(t, err)
		assert.Empty(t, utxos)
	})

	t.Run("Server Error", func(t *testing.T) {
		client := newBlockfrostClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := client.GetUtxos(context.Background(), testSenderAddress)

		var upstreamErr *common.UpstreamUnavailableError
		assert.ErrorAs(t, err, &upstreamErr)
	})
}

func TestGetProtocolParametersAndTip(t *testing.T) {
	client := newBlockfrostClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/epochs/latest/parameters":
			w.Write([]byte(`{"min_fee_a":44,"min_fee_b":155381,"max_tx_size":16384,"coins_per_utxo_size":"4310"}`))
		case "/blocks/latest":
			w.Write([]byte(`{"slot":4242,"height":100,"hash":"ff"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	params, err := client.GetProtocolParameters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(44), params.MinFeeA)
	assert.Equal(t, uint64(155381), params.MinFeeB)

	tip, err := client.GetTip(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(4242), tip.Slot)
}

func TestTipNotFoundIsUpstreamError(t *testing.T) {
	client := newBlockfrostClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetTip(context.Background())

	assert.Equal(t, "UpstreamUnavailable", common.ErrorTag(err))
}

func TestUtxoLovelace(t *testing.T) {
	utxo := Utxo{Amount: []Amount{
		{Unit: LovelaceUnit, Quantity: "2000000"},
		{Unit: "policy.asset", Quantity: "1"},
	}}

	lovelace, pure := utxo.Lovelace()
	assert.Equal(t, uint64(2_000_000), lovelace)
	assert.False(t, pure)

	_, pure = Utxo{Amount: []Amount{{Unit: LovelaceUnit, Quantity: "x"}}}.Lovelace()
	assert.False(t, pure)
}
