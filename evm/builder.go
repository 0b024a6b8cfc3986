package evm

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	log "github.com/sirupsen/logrus"

	"github.com/dan13ram/bridge-reactor/common"
	"github.com/dan13ram/bridge-reactor/models"
)

const GatewayABI = `[{
	"type": "function",
	"name": "withdraw",
	"stateMutability": "payable",
	"inputs": [
		{"name": "_destinationChainId", "type": "uint8"},
		{"name": "_receivers", "type": "tuple[]", "components": [
			{"name": "receiver", "type": "string"},
			{"name": "amount", "type": "uint256"}
		]},
		{"name": "_feeAmount", "type": "uint256"}
	],
	"outputs": []
}]`

// ReceiverWithdraw mirrors the gateway's receiver tuple.
type ReceiverWithdraw struct {
	Receiver string
	Amount   *big.Int
}

// TxBuilder builds unsigned gateway withdraw calls on an account chain.
type TxBuilder struct {
	chain   models.Chain
	gateway ethcommon.Address
	abi     abi.ABI
}

func parseWei(amount string) (*big.Int, error) {
	value, ok := new(big.Int).SetString(amount, 10)
	if !ok || value.Sign() < 0 {
		return nil, common.NewValidationError("invalid amount %q", amount)
	}
	return value, nil
}

// BuildBridgingTx packs a withdraw call sending every receiver amount plus
// the fee as the call value.
func (b *TxBuilder) BuildBridgingTx(ctx context.Context, params models.BridgingTxParams) (*models.CreateBridgingTxResponse, error) {
	if !common.IsValidEthereumAddress(params.SenderAddress) {
		return nil, common.NewValidationError("invalid sender address %q", params.SenderAddress)
	}

	receivers := make([]ReceiverWithdraw, 0, len(params.Receivers))
	total := new(big.Int)
	for _, receiver := range params.Receivers {
		amount, err := parseWei(receiver.Amount)
		if err != nil {
			return nil, err
		}
		receivers = append(receivers, ReceiverWithdraw{Receiver: receiver.Address, Amount: amount})
		total.Add(total, amount)
	}

	fee := new(big.Int)
	if params.BridgingFee != "" {
		parsed, err := parseWei(params.BridgingFee)
		if err != nil {
			return nil, err
		}
		fee = parsed
	}

	data, err := b.abi.Pack("withdraw", params.DestinationChain.OracleID(), receivers, fee)
	if err != nil {
		return nil, fmt.Errorf("packing withdraw: %w", err)
	}

	value := new(big.Int).Add(total, fee)

	log.WithField("receivers", len(receivers)).WithField("value", value.String()).Debug("[", strings.ToUpper(b.chain.String()), " BUILDER] Built gateway withdraw")

	return &models.CreateBridgingTxResponse{
		EthTx: &models.UnsignedEthTx{
			From:  ethcommon.HexToAddress(params.SenderAddress).Hex(),
			To:    b.gateway.Hex(),
			Value: value.String(),
			Data:  hexutil.Encode(data),
		},
		BridgingFee: fee.String(),
		Amount:      total.String(),
	}, nil
}

func NewTxBuilder(chain models.Chain, config models.ChainConfig) (*TxBuilder, error) {
	if !common.IsValidEthereumAddress(config.GatewayAddress) {
		return nil, fmt.Errorf("invalid gateway address %q for %s", config.GatewayAddress, chain)
	}

	parsed, err := abi.JSON(strings.NewReader(GatewayABI))
	if err != nil {
		return nil, err
	}

	return &TxBuilder{
		chain:   chain,
		gateway: ethcommon.HexToAddress(config.GatewayAddress),
		abi:     parsed,
	}, nil
}
