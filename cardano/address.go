package cardano

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cosmos/cosmos-sdk/types/bech32"

	"github.com/dan13ram/bridge-reactor/common"
)

const (
	KeyHashSize = 28

	headerTypeBase             = 0x00
	headerTypeBaseScriptKey    = 0x01
	headerTypeBaseKeyScript    = 0x02
	headerTypeBaseScript       = 0x03
	headerTypeEnterprise       = 0x06
	headerTypeEnterpriseScript = 0x07
)

var (
	ErrMalformedAddress         = errors.New("malformed bech32 address")
	ErrMissingPaymentCredential = errors.New("address has no base or enterprise payment credential")
	ErrMissingKeyHash           = errors.New("payment credential is not a key hash")
)

// InvalidAddressError reports which decoding step rejected an address.
type InvalidAddressError struct {
	Address string
	Reason  error
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid address %q: %s", e.Address, e.Reason)
}

func (e *InvalidAddressError) Unwrap() []error {
	return []error{e.Reason, &common.ValidationError{Message: e.Error()}}
}

// Address is a decoded shelley address.
type Address struct {
	Prefix string
	Bytes  []byte
}

func (a Address) headerType() byte {
	return a.Bytes[0] >> 4
}

// PaymentKeyHash returns the key hash of the payment credential.
func (a Address) PaymentKeyHash() ([]byte, error) {
	switch a.headerType() {
	case headerTypeBase, headerTypeBaseKeyScript, headerTypeEnterprise:
	case headerTypeBaseScriptKey, headerTypeBaseScript, headerTypeEnterpriseScript:
		return nil, ErrMissingKeyHash
	default:
		return nil, ErrMissingPaymentCredential
	}
	return a.Bytes[1 : 1+KeyHashSize], nil
}

func (a Address) String() string {
	encoded, err := bech32.ConvertAndEncode(a.Prefix, a.Bytes)
	if err != nil {
		return ""
	}
	return encoded
}

// DecodeAddress decodes a bech32 shelley address. When prefix is not empty
// the human readable part must match it.
func DecodeAddress(address string, prefix string) (Address, error) {
	hrp, data, err := bech32.DecodeAndConvert(address)
	if err != nil {
		return Address{}, &InvalidAddressError{Address: address, Reason: fmt.Errorf("%w: %s", ErrMalformedAddress, err)}
	}
	if prefix != "" && !strings.EqualFold(hrp, prefix) {
		return Address{}, &InvalidAddressError{Address: address, Reason: fmt.Errorf("%w: prefix %q, expected %q", ErrMalformedAddress, hrp, prefix)}
	}
	if len(data) < 1+KeyHashSize {
		return Address{}, &InvalidAddressError{Address: address, Reason: fmt.Errorf("%w: %d bytes", ErrMalformedAddress, len(data))}
	}
	return Address{Prefix: hrp, Bytes: data}, nil
}

// PaymentKeyHash decodes address and extracts the key hash that must sign
// for its outputs.
func PaymentKeyHash(address string, prefix string) ([]byte, error) {
	decoded, err := DecodeAddress(address, prefix)
	if err != nil {
		return nil, err
	}
	keyHash, err := decoded.PaymentKeyHash()
	if err != nil {
		return nil, &InvalidAddressError{Address: address, Reason: err}
	}
	return keyHash, nil
}

// ValidateAddress checks that address can receive funds on a chain with the
// given prefix.
func ValidateAddress(address string, prefix string) error {
	decoded, err := DecodeAddress(address, prefix)
	if err != nil {
		return err
	}
	switch decoded.headerType() {
	case headerTypeBase, headerTypeBaseScriptKey, headerTypeBaseKeyScript, headerTypeBaseScript,
		headerTypeEnterprise, headerTypeEnterpriseScript:
		return nil
	}
	return &InvalidAddressError{Address: address, Reason: ErrMissingPaymentCredential}
}
