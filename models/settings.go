package models

// TokenDescriptor describes a token that can be bridged out of a chain.
type TokenDescriptor struct {
	ID                uint16 `json:"id"`
	ChainSpecific     string `json:"chainSpecific"`
	IsCurrency        bool   `json:"isCurrency"`
	IsWrappedCurrency bool   `json:"isWrappedCurrency"`
}

type DirectionConfig struct {
	DestinationChains []Chain           `json:"destinationChains,omitempty"`
	Tokens            []TokenDescriptor `json:"tokens"`
}

// BridgingSettings is the oracle-provided bridging configuration. Amounts are
// expressed in the 6 decimal bridge unit regardless of chain.
type BridgingSettings struct {
	MinChainFeeForBridging         map[Chain]uint64          `json:"minChainFeeForBridging"`
	MinOperationFee                map[Chain]uint64          `json:"minOperationFee"`
	MinUtxoChainValue              map[Chain]uint64          `json:"minUtxoChainValue"`
	MinValueToBridge               uint64                    `json:"minValueToBridge"`
	MaxAmountAllowedToBridge       string                    `json:"maxAmountAllowedToBridge"`
	MaxReceiversPerBridgingRequest int                       `json:"maxReceiversPerBridgingRequest"`
	AllowedDirections              map[Chain][]Chain         `json:"allowedDirections"`
	DirectionConfig                map[Chain]DirectionConfig `json:"directionConfig"`
}

func (s *BridgingSettings) IsDirectionAllowed(origin Chain, destination Chain) bool {
	if s == nil {
		return false
	}
	for _, c := range s.AllowedDirections[origin] {
		if c == destination {
			return true
		}
	}
	return false
}

type ValidatorChangeStatus struct {
	InProgress bool `json:"inProgress"`
}
