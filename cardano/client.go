package cardano

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dan13ram/bridge-reactor/common"
	"github.com/dan13ram/bridge-reactor/models"
)

const (
	ProjectIDHeader = "project_id"
	LovelaceUnit    = "lovelace"

	utxoPageSize = 100
	maxUtxoPages = 50
)

type Amount struct {
	Unit     string `json:"unit"`
	Quantity string `json:"quantity"`
}

type Utxo struct {
	TxHash      string   `json:"tx_hash"`
	OutputIndex uint32   `json:"output_index"`
	Amount      []Amount `json:"amount"`
}

// Lovelace returns the ada held by the output and whether it holds nothing else.
func (u Utxo) Lovelace() (uint64, bool) {
	var lovelace uint64
	pure := true
	for _, amount := range u.Amount {
		if amount.Unit != LovelaceUnit {
			pure = false
			continue
		}
		quantity, err := strconv.ParseUint(amount.Quantity, 10, 64)
		if err != nil {
			return 0, false
		}
		lovelace += quantity
	}
	return lovelace, pure
}

type ProtocolParameters struct {
	MinFeeA          uint64 `json:"min_fee_a"`
	MinFeeB          uint64 `json:"min_fee_b"`
	MaxTxSize        uint64 `json:"max_tx_size"`
	CoinsPerUtxoSize string `json:"coins_per_utxo_size"`
}

type Tip struct {
	Slot   uint64 `json:"slot"`
	Height uint64 `json:"height"`
	Hash   string `json:"hash"`
}

type ChainClient interface {
	GetUtxos(ctx context.Context, address string) ([]Utxo, error)
	GetProtocolParameters(ctx context.Context) (ProtocolParameters, error)
	GetTip(ctx context.Context) (Tip, error)
}

type blockfrostClient struct {
	chain     models.Chain
	baseURL   string
	projectID string
	client    *http.Client
}

type notFoundError struct {
	path string
}

func (e *notFoundError) Error() string {
	return e.path + " not found"
}

func (c *blockfrostClient) upstream(err error) error {
	return &common.UpstreamUnavailableError{Upstream: c.chain.String() + " chain", Err: err}
}

func (c *blockfrostClient) get(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set(ProjectIDHeader, c.projectID)

	resp, err := c.client.Do(req)
	if err != nil {
		return c.upstream(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.upstream(err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return &notFoundError{path: path}
	}
	if resp.StatusCode != http.StatusOK {
		return c.upstream(fmt.Errorf("%s returned status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body))))
	}

	if err := json.Unmarshal(body, result); err != nil {
		return c.upstream(fmt.Errorf("decoding %s: %w", path, err))
	}
	return nil
}

// GetUtxos returns every unspent output of address. An address the chain has
// never seen has no outputs.
func (c *blockfrostClient) GetUtxos(ctx context.Context, address string) ([]Utxo, error) {
	utxos := []Utxo{}
	for page := 1; page <= maxUtxoPages; page++ {
		var batch []Utxo
		path := fmt.Sprintf("/addresses/%s/utxos?count=%d&page=%d", address, utxoPageSize, page)
		err := c.get(ctx, path, &batch)
		if _, ok := err.(*notFoundError); ok {
			break
		}
		if err != nil {
			return nil, err
		}
		utxos = append(utxos, batch...)
		if len(batch) < utxoPageSize {
			break
		}
	}
	log.WithField("address", address).Debug("[", strings.ToUpper(c.chain.String()), "] Fetched ", len(utxos), " utxos")
	return utxos, nil
}

func (c *blockfrostClient) GetProtocolParameters(ctx context.Context) (ProtocolParameters, error) {
	var params ProtocolParameters
	err := c.get(ctx, "/epochs/latest/parameters", &params)
	if _, ok := err.(*notFoundError); ok {
		return params, c.upstream(err)
	}
	return params, err
}

func (c *blockfrostClient) GetTip(ctx context.Context) (Tip, error) {
	var tip Tip
	err := c.get(ctx, "/blocks/latest", &tip)
	if _, ok := err.(*notFoundError); ok {
		return tip, c.upstream(err)
	}
	return tip, err
}

func NewClient(chain models.Chain, config models.ChainConfig) ChainClient {
	log.Debug("[", strings.ToUpper(chain.String()), "] Initializing chain client for ", config.BlockfrostURL)

	return &blockfrostClient{
		chain:     chain,
		baseURL:   strings.TrimRight(config.BlockfrostURL, "/"),
		projectID: config.BlockfrostProjectID,
		client: &http.Client{
			Timeout: time.Duration(config.RPCTimeoutMillis) * time.Millisecond,
		},
	}
}
