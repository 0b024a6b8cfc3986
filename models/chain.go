package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

type ChainType string

const (
	ChainTypeUTXO    ChainType = "utxo"
	ChainTypeAccount ChainType = "account"
)

// Chain is one of the supported bridge chains. The zero value is invalid.
type Chain uint8

const (
	ChainUnknown Chain = iota
	ChainPrime
	ChainVector
	ChainNexus
	ChainCardano
)

type chainInfo struct {
	name     string
	typ      ChainType
	oracleID uint8
	decimals uint32
}

var chainTable = map[Chain]chainInfo{
	ChainPrime:   {name: "prime", typ: ChainTypeUTXO, oracleID: 1, decimals: 6},
	ChainVector:  {name: "vector", typ: ChainTypeUTXO, oracleID: 2, decimals: 6},
	ChainNexus:   {name: "nexus", typ: ChainTypeAccount, oracleID: 3, decimals: 18},
	ChainCardano: {name: "cardano", typ: ChainTypeUTXO, oracleID: 4, decimals: 6},
}

// AllChains lists the supported chains in oracle id order.
var AllChains = []Chain{ChainPrime, ChainVector, ChainNexus, ChainCardano}

func ParseChain(s string) (Chain, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, info := range chainTable {
		if info.name == s {
			return c, nil
		}
	}
	return ChainUnknown, fmt.Errorf("unsupported chain: %q", s)
}

func (c Chain) String() string {
	if info, ok := chainTable[c]; ok {
		return info.name
	}
	return "unknown"
}

func (c Chain) IsValid() bool {
	_, ok := chainTable[c]
	return ok
}

func (c Chain) Type() ChainType {
	return chainTable[c].typ
}

func (c Chain) IsUTXO() bool {
	return c.Type() == ChainTypeUTXO
}

// OracleID is the numeric chain id used by the bridge contracts.
func (c Chain) OracleID() uint8 {
	return chainTable[c].oracleID
}

// Decimals is the number of decimals of the chain's native currency.
func (c Chain) Decimals() uint32 {
	return chainTable[c].decimals
}

func (c Chain) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("invalid chain: %d", uint8(c))
	}
	return []byte(c.String()), nil
}

func (c *Chain) UnmarshalText(text []byte) error {
	parsed, err := ParseChain(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Chain) MarshalJSON() ([]byte, error) {
	text, err := c.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

func (c *Chain) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return c.UnmarshalText([]byte(s))
}

func (c Chain) MarshalBSONValue() (bsontype.Type, []byte, error) {
	text, err := c.MarshalText()
	if err != nil {
		return 0, nil, err
	}
	return bson.TypeString, bsoncore.AppendString(nil, string(text)), nil
}

func (c *Chain) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t != bson.TypeString {
		return fmt.Errorf("cannot decode chain from bson type %s", t)
	}
	s, _, ok := bsoncore.ReadString(data)
	if !ok {
		return fmt.Errorf("invalid bson string for chain")
	}
	return c.UnmarshalText([]byte(s))
}
