package models

type BridgingTxReceiver struct {
	Address string `json:"addr" validate:"required"`
	Amount  string `json:"amount" validate:"required,number"`
}

// CreateBridgingTxRequest asks for an unsigned bridging transaction. Amounts
// are in the smallest unit of the origin chain.
type CreateBridgingTxRequest struct {
	SenderAddress    string               `json:"senderAddress" validate:"required"`
	OriginChain      Chain                `json:"originChain" validate:"required"`
	DestinationChain Chain                `json:"destinationChain" validate:"required,nefield=OriginChain"`
	Receivers        []BridgingTxReceiver `json:"transactions" validate:"required,min=1,dive"`
	BridgingFee      string               `json:"bridgingFee,omitempty" validate:"omitempty,number"`
}

type BridgingMetadataReceiver struct {
	Address []string `json:"a" cbor:"a"`
	Amount  uint64   `json:"m" cbor:"m"`
}

// BridgingMetadata is the bridging intent embedded in a UTXO transaction.
type BridgingMetadata struct {
	BridgingTxType     string                     `json:"t" cbor:"t"`
	DestinationChainID string                     `json:"d" cbor:"d"`
	SenderAddress      []string                   `json:"s" cbor:"s"`
	Transactions       []BridgingMetadataReceiver `json:"tx" cbor:"tx"`
	FeeAmount          uint64                     `json:"fa" cbor:"fa"`
}

// UnsignedEthTx is a gateway call left for the sender to sign.
type UnsignedEthTx struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Value string `json:"value"`
	Data  string `json:"data"`
}

type CreateBridgingTxResponse struct {
	TxRaw       string            `json:"txRaw,omitempty"`
	TxHash      string            `json:"txHash,omitempty"`
	TxFee       string            `json:"txFee,omitempty"`
	Metadata    *BridgingMetadata `json:"metadata,omitempty"`
	EthTx       *UnsignedEthTx    `json:"ethTx,omitempty"`
	BridgingFee string            `json:"bridgingFee"`
	Amount      string            `json:"amount"`
}

// BridgingTxSubmittedRequest records a signed transaction the client has
// submitted to the origin chain.
type BridgingTxSubmittedRequest struct {
	OriginChain       Chain                `json:"originChain" validate:"required"`
	DestinationChain  Chain                `json:"destinationChain" validate:"required,nefield=OriginChain"`
	OriginTxHash      string               `json:"originTxHash" validate:"required"`
	SenderAddress     string               `json:"senderAddress" validate:"required"`
	Receivers         []BridgingTxReceiver `json:"receivers" validate:"required,min=1,dive"`
	NativeTokenAmount string               `json:"nativeTokenAmount,omitempty" validate:"omitempty,number"`
	TokenID           *uint16              `json:"tokenId,omitempty"`
	TxRaw             string               `json:"txRaw,omitempty"`
	IsCentralized     bool                 `json:"isCentralized"`
	IsLayerZero       bool                 `json:"isLayerZero"`
}

// BridgingTxParams is a validated bridging request handed to a chain builder.
// Amounts are in the smallest unit of the origin chain.
type BridgingTxParams struct {
	SenderAddress    string
	OriginChain      Chain
	DestinationChain Chain
	Receivers        []BridgingTxReceiver
	BridgingFee      string
	MinUtxoValue     uint64
}
