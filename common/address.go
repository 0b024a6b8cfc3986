package common

import (
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/dan13ram/bridge-reactor/models"
)

const ZeroAddress = "0x0000000000000000000000000000000000000000"

func IsValidEthereumAddress(address string) bool {
	return ethcommon.IsHexAddress(address) && !strings.EqualFold(Ensure0xPrefix(address), ZeroAddress)
}

func Ensure0xPrefix(str string) string {
	if strings.HasPrefix(str, "0x") || strings.HasPrefix(str, "0X") {
		return "0x" + str[2:]
	}
	return "0x" + str
}

// NormalizeTxHash lowercases a transaction hash and strips any 0x prefix.
func NormalizeTxHash(hash string) string {
	hash = strings.ToLower(strings.TrimSpace(hash))
	return strings.TrimPrefix(hash, "0x")
}

// ChainTxHash returns hash in the form chain's indexers expect: 0x prefixed
// for account chains and bare hex for UTXO chains.
func ChainTxHash(chain models.Chain, hash string) string {
	hash = NormalizeTxHash(hash)
	if chain.IsUTXO() {
		return hash
	}
	return "0x" + hash
}
