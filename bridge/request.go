package bridge

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dan13ram/bridge-reactor/app"
	"github.com/dan13ram/bridge-reactor/cardano"
	"github.com/dan13ram/bridge-reactor/common"
	"github.com/dan13ram/bridge-reactor/models"
)

type TxBuilder interface {
	BuildBridgingTx(ctx context.Context, params models.BridgingTxParams) (*models.CreateBridgingTxResponse, error)
}

type SettingsProvider interface {
	Settings() *models.BridgingSettings
	ValidatorChangeInProgress() bool
}

// RequestService validates bridging requests, builds their transactions and
// records submitted ones.
type RequestService struct {
	store    Store
	settings SettingsProvider
	builders map[models.Chain]TxBuilder
	prefixes map[models.Chain]string
	now      func() time.Time
}

func NewRequestService(store Store, settings SettingsProvider, builders map[models.Chain]TxBuilder, prefixes map[models.Chain]string) *RequestService {
	return &RequestService{
		store:    store,
		settings: settings,
		builders: builders,
		prefixes: prefixes,
		now:      time.Now,
	}
}

func (s *RequestService) validateAddress(chain models.Chain, address string) error {
	if chain.IsUTXO() {
		return cardano.ValidateAddress(address, s.prefixes[chain])
	}
	if !common.IsValidEthereumAddress(address) {
		return common.NewValidationError("invalid %s address %q", chain, address)
	}
	return nil
}

// feeInOriginUnits converts a bridge unit fee to the origin chain's smallest unit.
func feeInOriginUnits(fee uint64, origin models.Chain) string {
	amount := new(big.Int).SetUint64(fee)
	if !origin.IsUTXO() {
		amount = common.DfmToWei(amount)
	}
	return amount.String()
}

// ValidateBridgingRequest checks req against the current settings and returns
// the parameters for the origin chain's builder.
func (s *RequestService) ValidateBridgingRequest(req *models.CreateBridgingTxRequest) (models.BridgingTxParams, error) {
	settings := s.settings.Settings()
	if settings == nil {
		return models.BridgingTxParams{}, &common.UpstreamUnavailableError{Upstream: "oracle", Err: errors.New("bridging settings not loaded")}
	}
	if s.settings.ValidatorChangeInProgress() {
		return models.BridgingTxParams{}, common.NewValidationError("validator change in progress, bridging is paused")
	}

	origin, destination := req.OriginChain, req.DestinationChain
	if !origin.IsValid() || !destination.IsValid() {
		return models.BridgingTxParams{}, common.NewValidationError("unsupported chain")
	}
	if origin == destination {
		return models.BridgingTxParams{}, common.NewValidationError("origin and destination chain must differ")
	}
	if !settings.IsDirectionAllowed(origin, destination) {
		return models.BridgingTxParams{}, common.NewValidationError("bridging from %s to %s is not allowed", origin, destination)
	}

	if len(req.Receivers) == 0 {
		return models.BridgingTxParams{}, common.NewValidationError("at least one receiver is required")
	}
	if maxReceivers := settings.MaxReceiversPerBridgingRequest; maxReceivers > 0 && len(req.Receivers) > maxReceivers {
		return models.BridgingTxParams{}, common.NewValidationError("%d receivers exceeds the maximum of %d", len(req.Receivers), maxReceivers)
	}

	if err := s.validateAddress(origin, req.SenderAddress); err != nil {
		return models.BridgingTxParams{}, err
	}

	minUtxoValue := new(big.Int).SetUint64(settings.MinUtxoChainValue[destination])
	total := new(big.Int)
	for _, receiver := range req.Receivers {
		if err := s.validateAddress(destination, receiver.Address); err != nil {
			return models.BridgingTxParams{}, err
		}
		amount, err := common.AmountToBigInt(receiver.Amount, origin)
		if err != nil {
			return models.BridgingTxParams{}, err
		}
		if destination.IsUTXO() && amount.Cmp(minUtxoValue) < 0 {
			return models.BridgingTxParams{}, common.NewValidationError("amount %s for %s is below the minimum utxo value %s", amount, receiver.Address, minUtxoValue)
		}
		total.Add(total, amount)
	}

	if total.Cmp(new(big.Int).SetUint64(settings.MinValueToBridge)) < 0 {
		return models.BridgingTxParams{}, common.NewValidationError("total amount %s is below the minimum of %d", total, settings.MinValueToBridge)
	}
	if settings.MaxAmountAllowedToBridge != "" {
		maxAmount, ok := new(big.Int).SetString(settings.MaxAmountAllowedToBridge, 10)
		if !ok {
			log.WithField("max_amount", settings.MaxAmountAllowedToBridge).Warn("[BRIDGE] Invalid maximum bridging amount in settings")
			return models.BridgingTxParams{}, &common.UpstreamUnavailableError{
				Upstream: "oracle",
				Err:      fmt.Errorf("invalid maxAmountAllowedToBridge %q", settings.MaxAmountAllowedToBridge),
			}
		}
		if maxAmount.Sign() > 0 && total.Cmp(maxAmount) > 0 {
			return models.BridgingTxParams{}, common.NewValidationError("total amount %s exceeds the maximum of %s", total, maxAmount)
		}
	}

	minFee := settings.MinChainFeeForBridging[origin]
	bridgingFee := req.BridgingFee
	if bridgingFee == "" {
		bridgingFee = feeInOriginUnits(minFee, origin)
	} else {
		fee, err := common.AmountToBigInt(bridgingFee, origin)
		if err != nil {
			return models.BridgingTxParams{}, err
		}
		if fee.Cmp(new(big.Int).SetUint64(minFee)) < 0 {
			return models.BridgingTxParams{}, common.NewValidationError("bridging fee %s is below the minimum of %d", fee, minFee)
		}
	}

	return models.BridgingTxParams{
		SenderAddress:    req.SenderAddress,
		OriginChain:      origin,
		DestinationChain: destination,
		Receivers:        req.Receivers,
		BridgingFee:      bridgingFee,
		MinUtxoValue:     settings.MinUtxoChainValue[origin],
	}, nil
}

// CreateBridgingTx validates req and builds the unsigned transaction on the
// origin chain.
func (s *RequestService) CreateBridgingTx(ctx context.Context, req *models.CreateBridgingTxRequest) (*models.CreateBridgingTxResponse, error) {
	params, err := s.ValidateBridgingRequest(req)
	if err != nil {
		app.BridgingRequests.WithLabelValues(req.OriginChain.String(), "invalid").Inc()
		return nil, err
	}

	builder, ok := s.builders[params.OriginChain]
	if !ok {
		app.BridgingRequests.WithLabelValues(req.OriginChain.String(), "invalid").Inc()
		return nil, common.NewValidationError("origin chain %s is not configured", params.OriginChain)
	}

	response, err := builder.BuildBridgingTx(ctx, params)
	if err != nil {
		log.WithError(err).WithField("origin_chain", params.OriginChain).Debug("[REQUEST] Error building bridging transaction")
		app.BridgingRequests.WithLabelValues(req.OriginChain.String(), "failed").Inc()
		return nil, err
	}

	app.BridgingRequests.WithLabelValues(req.OriginChain.String(), "built").Inc()
	return response, nil
}

func sumAmounts(receivers []models.BridgingTxReceiver) (string, error) {
	total := new(big.Int)
	for _, receiver := range receivers {
		amount, ok := new(big.Int).SetString(receiver.Amount, 10)
		if !ok || amount.Sign() < 0 {
			return "", common.NewValidationError("invalid amount %q", receiver.Amount)
		}
		total.Add(total, amount)
	}
	return total.String(), nil
}

// SubmitBridgingTx records a transaction the client submitted to the origin
// chain. Submitting the same source transaction again returns the existing record.
func (s *RequestService) SubmitBridgingTx(ctx context.Context, req *models.BridgingTxSubmittedRequest) (*models.BridgeTransaction, error) {
	if !req.OriginChain.IsValid() || !req.DestinationChain.IsValid() {
		return nil, common.NewValidationError("unsupported chain")
	}
	if req.OriginChain == req.DestinationChain {
		return nil, common.NewValidationError("origin and destination chain must differ")
	}
	if req.OriginTxHash == "" {
		return nil, common.NewValidationError("origin transaction hash is required")
	}
	if len(req.Receivers) == 0 {
		return nil, common.NewValidationError("at least one receiver is required")
	}

	sourceTxHash := common.NormalizeTxHash(req.OriginTxHash)

	existing, err := s.store.FindBySourceTxHash(req.OriginChain, sourceTxHash)
	if err == nil {
		log.WithField("id", existing.ID).WithField("source_tx_hash", sourceTxHash).Debug("[REQUEST] Bridge transaction already recorded")
		return existing, nil
	}
	var notFoundErr *common.NotFoundError
	if !errors.As(err, &notFoundErr) {
		return nil, err
	}

	amount, err := sumAmounts(req.Receivers)
	if err != nil {
		return nil, err
	}
	normalized, err := common.AmountToBigInt(amount, req.OriginChain)
	if err != nil {
		return nil, err
	}
	amountDecimal, err := AmountDecimal(normalized.String())
	if err != nil {
		return nil, err
	}

	nativeTokenAmount := req.NativeTokenAmount
	if nativeTokenAmount == "" {
		nativeTokenAmount = "0"
	}

	receiverAddresses := make([]string, 0, len(req.Receivers))
	for _, receiver := range req.Receivers {
		receiverAddresses = append(receiverAddresses, receiver.Address)
	}

	tx := &models.BridgeTransaction{
		SenderAddress:     req.SenderAddress,
		ReceiverAddresses: receiverAddresses,
		OriginChain:       req.OriginChain,
		DestinationChain:  req.DestinationChain,
		Amount:            amount,
		AmountDecimal:     amountDecimal,
		NativeTokenAmount: nativeTokenAmount,
		TokenID:           req.TokenID,
		Status:            models.StatusPending,
		SourceTxHash:      sourceTxHash,
		CreatedAt:         s.now(),
		IsCentralized:     req.IsCentralized,
		IsLayerZero:       req.IsLayerZero,
		TxRaw:             req.TxRaw,
	}

	if err := s.store.Create(tx); err != nil {
		if app.IsDuplicateKey(err) {
			// a concurrent submission won
			return s.store.FindBySourceTxHash(req.OriginChain, sourceTxHash)
		}
		return nil, err
	}

	log.WithField("id", tx.ID).WithField("source_tx_hash", sourceTxHash).Info("[REQUEST] Recorded bridge transaction")
	app.BridgingRequests.WithLabelValues(req.OriginChain.String(), "submitted").Inc()
	return tx, nil
}

func (s *RequestService) GetBridgeTransaction(id int64) (*models.BridgeTransaction, error) {
	return s.store.FindByID(id)
}

func (s *RequestService) FilterBridgeTransactions(filter models.TransactionFilter) (*models.PaginatedTransactions, error) {
	return s.store.Filter(filter)
}

// ResolveCurrencyID resolves the token of a stored transaction against the
// current direction configuration.
func (s *RequestService) ResolveCurrencyID(tx *models.BridgeTransaction) (uint16, bool) {
	settings := s.settings.Settings()
	if settings == nil {
		return 0, false
	}
	return ResolveCurrencyID(settings.DirectionConfig, tx)
}
