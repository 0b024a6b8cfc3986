package cardano

import (
	"encoding/hex"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

const (
	BridgingMetadataLabel = 1

	// vkey witness: [vkey(32), signature(64)] plus map and array headers
	vkeyWitnessSize = 101
	witnessSetSize  = 3
)

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}

type TxInput struct {
	_      struct{} `cbor:",toarray"`
	TxHash []byte
	Index  uint32
}

type TxOutput struct {
	_       struct{} `cbor:",toarray"`
	Address []byte
	Amount  uint64
}

type TxBody struct {
	Inputs      []TxInput  `cbor:"0,keyasint"`
	Outputs     []TxOutput `cbor:"1,keyasint"`
	Fee         uint64     `cbor:"2,keyasint"`
	TTL         uint64     `cbor:"3,keyasint"`
	AuxDataHash []byte     `cbor:"7,keyasint,omitempty"`
}

// AuxData is shelley style transaction metadata keyed by label.
type AuxData map[uint64]interface{}

type Tx struct {
	_          struct{} `cbor:",toarray"`
	Body       TxBody
	WitnessSet map[uint64]interface{}
	IsValid    bool
	AuxData    AuxData
}

func hash256(data []byte) []byte {
	sum := blake2b.Sum256(data)
	return sum[:]
}

// Hash is the blake2b-256 hash of the encoded auxiliary data.
func (a AuxData) Hash() ([]byte, error) {
	encoded, err := encMode.Marshal(a)
	if err != nil {
		return nil, err
	}
	return hash256(encoded), nil
}

// Hash is the transaction id, the blake2b-256 hash of the encoded body.
func (b TxBody) Hash() (string, error) {
	encoded, err := encMode.Marshal(b)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(hash256(encoded)), nil
}

// NewUnsignedTx wraps body and aux data with an empty witness set.
func NewUnsignedTx(body TxBody, aux AuxData) Tx {
	return Tx{
		Body:       body,
		WitnessSet: map[uint64]interface{}{},
		IsValid:    true,
		AuxData:    aux,
	}
}

func (t Tx) Marshal() ([]byte, error) {
	return encMode.Marshal(t)
}

// EstimatedSignedSize is the encoded size once witnesses are attached.
func (t Tx) EstimatedSignedSize(witnesses int) (int, error) {
	encoded, err := t.Marshal()
	if err != nil {
		return 0, err
	}
	return len(encoded) + witnessSetSize + witnesses*vkeyWitnessSize, nil
}
