package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CollectionBridgeTransactions = "bridge_transactions"
	CollectionCounters           = "counters"
)

type BridgeTransaction struct {
	ID                int64                `bson:"_id" json:"id"`
	SenderAddress     string               `bson:"sender_address" json:"senderAddress"`
	ReceiverAddresses []string             `bson:"receiver_addresses" json:"receiverAddresses"`
	OriginChain       Chain                `bson:"origin_chain" json:"originChain"`
	DestinationChain  Chain                `bson:"destination_chain" json:"destinationChain"`
	Amount            string               `bson:"amount" json:"amount"`
	AmountDecimal     primitive.Decimal128 `bson:"amount_decimal" json:"-"`
	NativeTokenAmount string               `bson:"native_token_amount" json:"nativeTokenAmount"`
	TokenID           *uint16              `bson:"token_id,omitempty" json:"tokenId,omitempty"`
	Status            TransactionStatus    `bson:"status" json:"status"`
	SourceTxHash      string               `bson:"source_tx_hash" json:"sourceTxHash"`
	DestinationTxHash string               `bson:"destination_tx_hash,omitempty" json:"destinationTxHash,omitempty"`
	CreatedAt         time.Time            `bson:"created_at" json:"createdAt"`
	FinishedAt        *time.Time           `bson:"finished_at,omitempty" json:"finishedAt,omitempty"`
	IsCentralized     bool                 `bson:"is_centralized" json:"isCentralized"`
	IsLayerZero       bool                 `bson:"is_layer_zero" json:"isLayerZero"`
	TxRaw             string               `bson:"tx_raw" json:"txRaw"`
}

// BridgingRequestState is the oracle's view of a single source transaction.
type BridgingRequestState struct {
	SourceTxHash      string            `json:"sourceTxHash"`
	Status            TransactionStatus `json:"status"`
	DestinationTxHash string            `json:"destinationTxHash,omitempty"`
}

type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

type TransactionFilter struct {
	OriginChain      *Chain
	DestinationChain *Chain
	SenderAddress    string
	ReceiverAddress  string
	AmountFrom       string
	AmountTo         string
	OrderBy          string
	Order            SortOrder
	Page             int64
	PerPage          int64
}

type PaginatedTransactions struct {
	Items   []BridgeTransaction `json:"items"`
	Total   int64               `json:"total"`
	Page    int64               `json:"page"`
	PerPage int64               `json:"perPage"`
}

// FindOptions narrows a paginated query.
type FindOptions struct {
	Sort  bson.D
	Skip  int64
	Limit int64
}
