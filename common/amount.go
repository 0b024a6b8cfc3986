package common

import (
	"math/big"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/dan13ram/bridge-reactor/models"
)

const (
	// DfmDecimals is the number of decimals of the bridge's internal unit.
	DfmDecimals uint32 = 6
	// WeiDecimals is the number of decimals of account-model chain currencies.
	WeiDecimals uint32 = 18
)

var unitDecimals = map[string]uint32{
	"wei":      0,
	"kwei":     3,
	"mwei":     6,
	"gwei":     9,
	"szabo":    12,
	"finney":   15,
	"ether":    18,
	"lovelace": 0,
	"dfm":      0,
	"ada":      6,
	"apex":     6,
}

var truncateCtx = apd.Context{
	Precision:   200,
	MaxExponent: apd.MaxExponent,
	MinExponent: apd.MinExponent,
	Traps:       apd.DefaultTraps,
	Rounding:    apd.RoundDown,
}

// UnitDecimals returns the decimals of a named unit relative to its smallest unit.
func UnitDecimals(unit string) (uint32, error) {
	decimals, ok := unitDecimals[strings.ToLower(unit)]
	if !ok {
		return 0, NewValidationError("unknown unit: %s", unit)
	}
	return decimals, nil
}

func parseAmount(amount string) (*apd.Decimal, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return apd.New(0, 0), nil
	}
	d, _, err := apd.NewFromString(amount)
	if err != nil {
		return nil, NewValidationError("invalid amount %q: %s", amount, err)
	}
	if d.Form != apd.Finite {
		return nil, NewValidationError("invalid amount %q", amount)
	}
	if d.Negative && !d.IsZero() {
		return nil, NewValidationError("negative amount %q", amount)
	}
	d.Negative = false
	return d, nil
}

func truncate(d *apd.Decimal) (*apd.Decimal, error) {
	integer := new(apd.Decimal)
	if _, err := truncateCtx.Quantize(integer, d, 0); err != nil {
		return nil, NewValidationError("amount out of range: %s", err)
	}
	return integer, nil
}

func isInteger(d *apd.Decimal) bool {
	if d.Exponent >= 0 {
		return true
	}
	reduced := new(apd.Decimal)
	reduced.Reduce(d)
	return reduced.Exponent >= 0
}

// FromSmallestUnit converts an integer amount in the smallest unit to a
// decimal string with the given number of decimals.
func FromSmallestUnit(amount string, decimals uint32) (string, error) {
	d, err := parseAmount(amount)
	if err != nil {
		return "", err
	}
	if !isInteger(d) {
		return "", NewValidationError("amount %q is not an integer", amount)
	}
	d.Exponent -= int32(decimals)
	d.Reduce(d)
	return d.Text('f'), nil
}

func FromSmallestUnitNamed(amount string, unit string) (string, error) {
	decimals, err := UnitDecimals(unit)
	if err != nil {
		return "", err
	}
	return FromSmallestUnit(amount, decimals)
}

// ToSmallestUnit converts a decimal string to an integer string in the
// smallest unit. Digits beyond the unit's precision are truncated.
func ToSmallestUnit(amount string, decimals uint32) (string, error) {
	d, err := parseAmount(amount)
	if err != nil {
		return "", err
	}
	d.Exponent += int32(decimals)
	integer, err := truncate(d)
	if err != nil {
		return "", err
	}
	return integer.Text('f'), nil
}

func ToSmallestUnitNamed(amount string, unit string) (string, error) {
	decimals, err := UnitDecimals(unit)
	if err != nil {
		return "", err
	}
	return ToSmallestUnit(amount, decimals)
}

// WeiToDfm converts a wei amount to a dfm decimal string, keeping all digits.
func WeiToDfm(wei string) (string, error) {
	return FromSmallestUnit(wei, WeiDecimals-DfmDecimals)
}

// DfmToWei scales an integer dfm amount up to wei.
func DfmToWei(dfm *big.Int) *big.Int {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(WeiDecimals-DfmDecimals)), nil)
	return new(big.Int).Mul(dfm, scale)
}

// AmountToBigInt normalizes an amount to the bridge's integer unit. UTXO
// chain amounts are taken verbatim. Account-model chain amounts are wei and
// are reduced to dfm, adding one unit when a non-zero remainder is dropped.
func AmountToBigInt(amount string, chain models.Chain) (*big.Int, error) {
	d, err := parseAmount(amount)
	if err != nil {
		return nil, err
	}

	if chain.IsUTXO() {
		if !isInteger(d) {
			return nil, NewValidationError("amount %q is not an integer", amount)
		}
		integer, err := truncate(d)
		if err != nil {
			return nil, err
		}
		return bigIntFromDecimal(integer)
	}

	d.Exponent -= int32(WeiDecimals - DfmDecimals)
	integer, err := truncate(d)
	if err != nil {
		return nil, err
	}
	result, err := bigIntFromDecimal(integer)
	if err != nil {
		return nil, err
	}
	if integer.Cmp(d) != 0 {
		// round up, a non-zero remainder is never dropped
		result.Add(result, big.NewInt(1))
	}
	return result, nil
}

func bigIntFromDecimal(d *apd.Decimal) (*big.Int, error) {
	result, ok := new(big.Int).SetString(d.Text('f'), 10)
	if !ok {
		return nil, NewValidationError("invalid integer amount %s", d.Text('f'))
	}
	return result, nil
}
