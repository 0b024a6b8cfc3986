package cardano

import (
	"context"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	sdkmath "cosmossdk.io/math"
	log "github.com/sirupsen/logrus"

	"github.com/dan13ram/bridge-reactor/common"
	"github.com/dan13ram/bridge-reactor/models"
)

const (
	DefaultTTLSlotIncrement = 300
	DefaultMinUtxoValue     = 1_000_000

	maxFeeIterations = 10
)

// TxBuilder builds unsigned bridging transactions on a UTXO chain.
type TxBuilder struct {
	chain            models.Chain
	client           ChainClient
	addressPrefix    string
	bridgingAddress  Address
	ttlSlotIncrement uint64
}

type selectedInput struct {
	input    TxInput
	lovelace uint64
}

func parseAmounts(params models.BridgingTxParams) ([]Receiver, uint64, uint64, error) {
	receivers := make([]Receiver, 0, len(params.Receivers))
	total := sdkmath.ZeroUint()
	for _, receiver := range params.Receivers {
		amount, err := strconv.ParseUint(receiver.Amount, 10, 64)
		if err != nil {
			return nil, 0, 0, common.NewValidationError("invalid amount %q for %s", receiver.Amount, receiver.Address)
		}
		receivers = append(receivers, Receiver{Address: receiver.Address, Amount: amount})
		total = total.Add(sdkmath.NewUint(amount))
	}

	var fee uint64
	if params.BridgingFee != "" {
		parsed, err := strconv.ParseUint(params.BridgingFee, 10, 64)
		if err != nil {
			return nil, 0, 0, common.NewValidationError("invalid bridging fee %q", params.BridgingFee)
		}
		fee = parsed
	}

	if !total.LTE(sdkmath.NewUint(^uint64(0) - fee)) {
		return nil, 0, 0, common.NewValidationError("amount overflows")
	}
	return receivers, total.Uint64(), fee, nil
}

// pureUtxos keeps outputs holding only ada, largest first.
func pureUtxos(utxos []Utxo) ([]selectedInput, sdkmath.Uint, error) {
	available := sdkmath.ZeroUint()
	inputs := make([]selectedInput, 0, len(utxos))
	for _, utxo := range utxos {
		lovelace, pure := utxo.Lovelace()
		if !pure || lovelace == 0 {
			continue
		}
		txHash, err := hex.DecodeString(utxo.TxHash)
		if err != nil {
			return nil, available, fmt.Errorf("invalid utxo hash %q: %w", utxo.TxHash, err)
		}
		inputs = append(inputs, selectedInput{
			input:    TxInput{TxHash: txHash, Index: utxo.OutputIndex},
			lovelace: lovelace,
		})
		available = available.Add(sdkmath.NewUint(lovelace))
	}
	sort.SliceStable(inputs, func(i, j int) bool {
		return inputs[i].lovelace > inputs[j].lovelace
	})
	return inputs, available, nil
}

func selectInputs(candidates []selectedInput, required sdkmath.Uint) ([]TxInput, sdkmath.Uint, bool) {
	sum := sdkmath.ZeroUint()
	var inputs []TxInput
	for _, candidate := range candidates {
		if sum.GTE(required) {
			break
		}
		inputs = append(inputs, candidate.input)
		sum = sum.Add(sdkmath.NewUint(candidate.lovelace))
	}
	return inputs, sum, sum.GTE(required)
}

// BuildBridgingTx spends sender outputs to pay the bridging address the sum
// of all receiver amounts plus the bridging fee, with the bridging intent in
// metadata. It makes a single attempt against the chain.
func (b *TxBuilder) BuildBridgingTx(ctx context.Context, params models.BridgingTxParams) (*models.CreateBridgingTxResponse, error) {
	sender, err := DecodeAddress(params.SenderAddress, b.addressPrefix)
	if err != nil {
		return nil, err
	}
	if _, err := sender.PaymentKeyHash(); err != nil {
		return nil, &InvalidAddressError{Address: params.SenderAddress, Reason: err}
	}

	receivers, total, bridgingFee, err := parseAmounts(params)
	if err != nil {
		return nil, err
	}

	minUtxoValue := params.MinUtxoValue
	if minUtxoValue == 0 {
		minUtxoValue = DefaultMinUtxoValue
	}

	protocolParams, err := b.client.GetProtocolParameters(ctx)
	if err != nil {
		return nil, err
	}
	tip, err := b.client.GetTip(ctx)
	if err != nil {
		return nil, err
	}
	utxos, err := b.client.GetUtxos(ctx, params.SenderAddress)
	if err != nil {
		return nil, err
	}

	candidates, available, err := pureUtxos(utxos)
	if err != nil {
		return nil, &common.UpstreamUnavailableError{Upstream: b.chain.String() + " chain", Err: err}
	}

	metadata := NewBridgingMetadata(params.SenderAddress, params.DestinationChain, receivers, bridgingFee)
	aux := AuxData{BridgingMetadataLabel: metadata}
	auxHash, err := aux.Hash()
	if err != nil {
		return nil, err
	}

	paid := total + bridgingFee
	ttl := tip.Slot + b.ttlSlotIncrement
	fee := protocolParams.MinFeeB

	for i := 0; i < maxFeeIterations; i++ {
		required := sdkmath.NewUint(paid).Add(sdkmath.NewUint(fee))
		inputs, inputSum, ok := selectInputs(candidates, required)
		if !ok {
			return nil, &common.InsufficientFundsError{Required: required.String(), Available: available.String()}
		}

		change := inputSum.Sub(required)
		outputs := []TxOutput{{Address: b.bridgingAddress.Bytes, Amount: paid}}
		txFee := fee
		if change.GTE(sdkmath.NewUint(minUtxoValue)) {
			outputs = append(outputs, TxOutput{Address: sender.Bytes, Amount: change.Uint64()})
		} else {
			// dust change goes to the network fee
			txFee += change.Uint64()
		}

		body := TxBody{
			Inputs:      inputs,
			Outputs:     outputs,
			Fee:         txFee,
			TTL:         ttl,
			AuxDataHash: auxHash,
		}
		tx := NewUnsignedTx(body, aux)

		size, err := tx.EstimatedSignedSize(1)
		if err != nil {
			return nil, err
		}
		if protocolParams.MaxTxSize > 0 && uint64(size) > protocolParams.MaxTxSize {
			return nil, common.NewValidationError("transaction size %d exceeds maximum %d", size, protocolParams.MaxTxSize)
		}

		minFee := protocolParams.MinFeeA*uint64(size) + protocolParams.MinFeeB
		if minFee > fee {
			fee = minFee
			continue
		}

		raw, err := tx.Marshal()
		if err != nil {
			return nil, err
		}
		txHash, err := body.Hash()
		if err != nil {
			return nil, err
		}

		log.WithField("tx_hash", txHash).WithField("fee", txFee).WithField("inputs", len(inputs)).Debug("[", strings.ToUpper(b.chain.String()), " BUILDER] Built bridging transaction")

		return &models.CreateBridgingTxResponse{
			TxRaw:       hex.EncodeToString(raw),
			TxHash:      txHash,
			TxFee:       strconv.FormatUint(txFee, 10),
			Metadata:    &metadata,
			BridgingFee: strconv.FormatUint(bridgingFee, 10),
			Amount:      strconv.FormatUint(total, 10),
		}, nil
	}

	return nil, fmt.Errorf("fee did not converge after %d iterations", maxFeeIterations)
}

func NewTxBuilder(chain models.Chain, client ChainClient, config models.ChainConfig) (*TxBuilder, error) {
	bridgingAddress, err := DecodeAddress(config.BridgingAddress, config.AddressPrefix)
	if err != nil {
		return nil, fmt.Errorf("bridging address for %s: %w", chain, err)
	}

	ttlSlotIncrement := config.TTLSlotIncrement
	if ttlSlotIncrement == 0 {
		ttlSlotIncrement = DefaultTTLSlotIncrement
	}

	return &TxBuilder{
		chain:            chain,
		client:           client,
		addressPrefix:    config.AddressPrefix,
		bridgingAddress:  bridgingAddress,
		ttlSlotIncrement: ttlSlotIncrement,
	}, nil
}
