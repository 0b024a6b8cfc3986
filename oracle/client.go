package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dan13ram/bridge-reactor/app"
	"github.com/dan13ram/bridge-reactor/common"
	"github.com/dan13ram/bridge-reactor/models"
)

const (
	APIKeyHeader = "X-API-KEY"

	GetMultiplePath              = "/api/BridgingRequestState/GetMultiple"
	GetValidatorChangeStatusPath = "/api/Settings/GetValidatorChangeStatus"
	GetSettingsPath              = "/api/CardanoTx/GetSettings"

	upstreamName = "oracle"
)

type OracleClient interface {
	GetMultiple(ctx context.Context, chain models.Chain, txHashes []string) ([]models.BridgingRequestState, error)
	GetValidatorChangeStatus(ctx context.Context) (models.ValidatorChangeStatus, error)
	GetSettings(ctx context.Context) (*models.BridgingSettings, error)
}

type oracleClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// bridgingRequestState keeps the status as a plain string so one unknown
// status does not fail the whole response.
type bridgingRequestState struct {
	SourceTxHash      string `json:"sourceTxHash"`
	Status            string `json:"status"`
	DestinationTxHash string `json:"destinationTxHash"`
}

// bridgingSettings mirrors models.BridgingSettings with string chain keys.
// Chains this service does not support are dropped on conversion.
type bridgingSettings struct {
	MinChainFeeForBridging         map[string]uint64          `json:"minChainFeeForBridging"`
	MinOperationFee                map[string]uint64          `json:"minOperationFee"`
	MinUtxoChainValue              map[string]uint64          `json:"minUtxoChainValue"`
	MinValueToBridge               uint64                     `json:"minValueToBridge"`
	MaxAmountAllowedToBridge       string                     `json:"maxAmountAllowedToBridge"`
	MaxReceiversPerBridgingRequest int                        `json:"maxReceiversPerBridgingRequest"`
	AllowedDirections              map[string][]string        `json:"allowedDirections"`
	DirectionConfig                map[string]directionConfig `json:"directionConfig"`
}

type directionConfig struct {
	DestinationChains []string                 `json:"destinationChains,omitempty"`
	Tokens            []models.TokenDescriptor `json:"tokens"`
}

func parseSupportedChain(field string, name string) (models.Chain, bool) {
	chain, err := models.ParseChain(name)
	if err != nil {
		log.WithField("field", field).WithError(err).Warn("[ORACLE] Ignoring unsupported chain in settings")
		return 0, false
	}
	return chain, true
}

func supportedChains(field string, names []string) []models.Chain {
	chains := make([]models.Chain, 0, len(names))
	for _, name := range names {
		if chain, ok := parseSupportedChain(field, name); ok {
			chains = append(chains, chain)
		}
	}
	return chains
}

func chainValues(field string, values map[string]uint64) map[models.Chain]uint64 {
	result := make(map[models.Chain]uint64, len(values))
	for name, value := range values {
		if chain, ok := parseSupportedChain(field, name); ok {
			result[chain] = value
		}
	}
	return result
}

func (s *bridgingSettings) toModel() *models.BridgingSettings {
	settings := &models.BridgingSettings{
		MinChainFeeForBridging:         chainValues("minChainFeeForBridging", s.MinChainFeeForBridging),
		MinOperationFee:                chainValues("minOperationFee", s.MinOperationFee),
		MinUtxoChainValue:              chainValues("minUtxoChainValue", s.MinUtxoChainValue),
		MinValueToBridge:               s.MinValueToBridge,
		MaxAmountAllowedToBridge:       s.MaxAmountAllowedToBridge,
		MaxReceiversPerBridgingRequest: s.MaxReceiversPerBridgingRequest,
		AllowedDirections:              make(map[models.Chain][]models.Chain, len(s.AllowedDirections)),
		DirectionConfig:                make(map[models.Chain]models.DirectionConfig, len(s.DirectionConfig)),
	}

	for name, destinations := range s.AllowedDirections {
		if chain, ok := parseSupportedChain("allowedDirections", name); ok {
			settings.AllowedDirections[chain] = supportedChains("allowedDirections", destinations)
		}
	}
	for name, config := range s.DirectionConfig {
		if chain, ok := parseSupportedChain("directionConfig", name); ok {
			settings.DirectionConfig[chain] = models.DirectionConfig{
				DestinationChains: supportedChains("directionConfig", config.DestinationChains),
				Tokens:            config.Tokens,
			}
		}
	}

	return settings
}

func (c *oracleClient) get(ctx context.Context, path string, query url.Values, result interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set(APIKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		app.OracleRequests.WithLabelValues(path, "error").Inc()
		return &common.UpstreamUnavailableError{Upstream: upstreamName, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		app.OracleRequests.WithLabelValues(path, "error").Inc()
		return &common.UpstreamUnavailableError{Upstream: upstreamName, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		app.OracleRequests.WithLabelValues(path, "error").Inc()
		return &common.UpstreamUnavailableError{
			Upstream: upstreamName,
			Err:      fmt.Errorf("%s returned status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	if err := json.Unmarshal(body, result); err != nil {
		app.OracleRequests.WithLabelValues(path, "error").Inc()
		return &common.UpstreamUnavailableError{Upstream: upstreamName, Err: fmt.Errorf("decoding %s: %w", path, err)}
	}

	app.OracleRequests.WithLabelValues(path, "ok").Inc()
	return nil
}

// GetMultiple returns the oracle's state for the given source transactions.
// Transactions the oracle has not seen yet are absent from the result.
func (c *oracleClient) GetMultiple(ctx context.Context, chain models.Chain, txHashes []string) ([]models.BridgingRequestState, error) {
	if len(txHashes) == 0 {
		return []models.BridgingRequestState{}, nil
	}

	query := url.Values{}
	query.Set("chainId", chain.String())
	for _, hash := range txHashes {
		query.Add("txHash", hash)
	}

	var response []bridgingRequestState
	if err := c.get(ctx, GetMultiplePath, query, &response); err != nil {
		return nil, err
	}

	states := make([]models.BridgingRequestState, 0, len(response))
	for _, state := range response {
		status, err := models.ParseTransactionStatus(state.Status)
		if err != nil {
			log.WithField("source_tx_hash", state.SourceTxHash).WithError(err).Warn("[ORACLE] Ignoring state with unknown status")
			continue
		}
		states = append(states, models.BridgingRequestState{
			SourceTxHash:      state.SourceTxHash,
			Status:            status,
			DestinationTxHash: state.DestinationTxHash,
		})
	}

	return states, nil
}

func (c *oracleClient) GetValidatorChangeStatus(ctx context.Context) (models.ValidatorChangeStatus, error) {
	var status models.ValidatorChangeStatus
	err := c.get(ctx, GetValidatorChangeStatusPath, nil, &status)
	return status, err
}

func (c *oracleClient) GetSettings(ctx context.Context) (*models.BridgingSettings, error) {
	var settings bridgingSettings
	if err := c.get(ctx, GetSettingsPath, nil, &settings); err != nil {
		return nil, err
	}
	return settings.toModel(), nil
}

func NewClient(config models.OracleConfig) OracleClient {
	log.Debug("[ORACLE] Initializing oracle client for ", config.URL)

	return &oracleClient{
		baseURL: strings.TrimRight(config.URL, "/"),
		apiKey:  config.APIKey,
		client: &http.Client{
			Timeout: time.Duration(config.TimeoutMillis) * time.Millisecond,
		},
	}
}
