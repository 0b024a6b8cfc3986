package evm

import (
	"context"
	"io"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dan13ram/bridge-reactor/common"
	"github.com/dan13ram/bridge-reactor/models"
)

const (
	testGateway = "0x6BF6D1fC4B3D7326b6A2677dFF6924b5Dc1e3612"
	testSender  = "0xee639d2a4d5e2bca1bea0d4be7e7b1a2f96a8c8b"
)

func init() {
	log.SetOutput(io.Discard)
}

func newTestBuilder(t *testing.T) *TxBuilder {
	builder, err := NewTxBuilder(models.ChainNexus, models.ChainConfig{GatewayAddress: testGateway})
	require.NoError(t, err)
	return builder
}

func TestBuildBridgingTx(t *testing.T) {
	t.Run("Packs Withdraw Call", func(t *testing.T) {
		builder := newTestBuilder(t)

		response, err := builder.BuildBridgingTx(context.Background(), models.BridgingTxParams{
			SenderAddress:    testSender,
			OriginChain:      models.ChainNexus,
			DestinationChain: models.ChainPrime,
			Receivers: []models.BridgingTxReceiver{
				{Address: "addr_test1vqqsyqcyq5rqwzqfpg9scrgwpugpzysnzs23v9ccrydpk8qxyywge", Amount: "1000000000000000000"},
				{Address: "addr_test1vpjx2en8dp5k56mvd4hx7ur3wfehgatkwau8j7nm037hulcv0deps", Amount: "2500000000000000000"},
			},
			BridgingFee: "1000010000000000000",
		})
		require.NoError(t, err)

		require.NotNil(t, response.EthTx)
		assert.Equal(t, testGateway, response.EthTx.To)
		assert.Equal(t, "4500010000000000000", response.EthTx.Value)
		assert.Equal(t, "3500000000000000000", response.Amount)
		assert.Equal(t, "1000010000000000000", response.BridgingFee)

		data, err := hexutil.Decode(response.EthTx.Data)
		require.NoError(t, err)

		method := builder.abi.Methods["withdraw"]
		assert.Equal(t, method.ID, data[:4])

		args, err := method.Inputs.Unpack(data[4:])
		require.NoError(t, err)
		require.Len(t, args, 3)
		assert.Equal(t, models.ChainPrime.OracleID(), args[0].(uint8))
		assert.Equal(t, 0, args[2].(*big.Int).Cmp(big.NewInt(1000010000000000000)))

		receivers := *abi.ConvertType(args[1], new([]ReceiverWithdraw)).(*[]ReceiverWithdraw)
		require.Len(t, receivers, 2)
		assert.Equal(t, "addr_test1vpjx2en8dp5k56mvd4hx7ur3wfehgatkwau8j7nm037hulcv0deps", receivers[1].Receiver)
		assert.Equal(t, "2500000000000000000", receivers[1].Amount.String())
	})

	t.Run("Omitted Fee Is Zero", func(t *testing.T) {
		builder := newTestBuilder(t)

		response, err := builder.BuildBridgingTx(context.Background(), models.BridgingTxParams{
			SenderAddress:    testSender,
			DestinationChain: models.ChainVector,
			Receivers:        []models.BridgingTxReceiver{{Address: "vector_test1", Amount: "10"}},
		})
		require.NoError(t, err)

		assert.Equal(t, "10", response.EthTx.Value)
		assert.Equal(t, "0", response.BridgingFee)
	})

	t.Run("Invalid Sender", func(t *testing.T) {
		builder := newTestBuilder(t)

		_, err := builder.BuildBridgingTx(context.Background(), models.BridgingTxParams{
			SenderAddress: common.ZeroAddress,
			Receivers:     []models.BridgingTxReceiver{{Address: "x", Amount: "1"}},
		})

		assert.Equal(t, "ValidationError", common.ErrorTag(err))
	})

	t.Run("Invalid Amount", func(t *testing.T) {
		builder := newTestBuilder(t)

		_, err := builder.BuildBridgingTx(context.Background(), models.BridgingTxParams{
			SenderAddress: testSender,
			Receivers:     []models.BridgingTxReceiver{{Address: "x", Amount: "-1"}},
		})

		assert.Equal(t, "ValidationError", common.ErrorTag(err))
	})
}

func TestNewTxBuilderInvalidGateway(t *testing.T) {
	_, err := NewTxBuilder(models.ChainNexus, models.ChainConfig{GatewayAddress: "0x1234"})

	assert.Error(t, err)
}
