package cardano

import (
	"github.com/dan13ram/bridge-reactor/common"
	"github.com/dan13ram/bridge-reactor/models"
)

const (
	BridgingTxType = "bridge"

	// metadata strings are limited to 64 bytes
	metadataChunkSize = 40
)

type Receiver struct {
	Address string
	Amount  uint64
}

func NewBridgingMetadata(sender string, destination models.Chain, receivers []Receiver, feeAmount uint64) models.BridgingMetadata {
	transactions := make([]models.BridgingMetadataReceiver, 0, len(receivers))
	for _, receiver := range receivers {
		transactions = append(transactions, models.BridgingMetadataReceiver{
			Address: common.SplitStringIntoChunks(receiver.Address, metadataChunkSize),
			Amount:  receiver.Amount,
		})
	}

	return models.BridgingMetadata{
		BridgingTxType:     BridgingTxType,
		DestinationChainID: destination.String(),
		SenderAddress:      common.SplitStringIntoChunks(sender, metadataChunkSize),
		Transactions:       transactions,
		FeeAmount:          feeAmount,
	}
}
