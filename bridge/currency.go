package bridge

import (
	"github.com/cockroachdb/apd/v3"

	"github.com/dan13ram/bridge-reactor/models"
)

func isZeroAmount(amount string) bool {
	if amount == "" {
		return true
	}
	d, _, err := apd.NewFromString(amount)
	if err != nil {
		return false
	}
	return d.IsZero()
}

// ResolveCurrencyID picks the token a transaction moves out of its origin
// chain. An explicit token id wins; otherwise a zero native token amount means
// the chain's currency and anything else its wrapped currency. It returns
// false when the origin chain has no token configuration or no matching token.
func ResolveCurrencyID(directionConfig map[models.Chain]models.DirectionConfig, tx *models.BridgeTransaction) (uint16, bool) {
	if tx.TokenID != nil {
		return *tx.TokenID, true
	}

	config, ok := directionConfig[tx.OriginChain]
	if !ok || len(config.Tokens) == 0 {
		return 0, false
	}

	native := isZeroAmount(tx.NativeTokenAmount)
	for _, token := range config.Tokens {
		if native && token.IsCurrency {
			return token.ID, true
		}
		if !native && token.IsWrappedCurrency {
			return token.ID, true
		}
	}

	return 0, false
}
