package bridge

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dan13ram/bridge-reactor/cardano"
	"github.com/dan13ram/bridge-reactor/common"
	"github.com/dan13ram/bridge-reactor/models"
)

const (
	testPrimeSender     = "addr_test1vqqsyqcyq5rqwzqfpg9scrgwpugpzysnzs23v9ccrydpk8qxyywge"
	testPrimeBridging   = "addr_test1vpjx2en8dp5k56mvd4hx7ur3wfehgatkwau8j7nm037hulcv0deps"
	testVectorReceiver  = "vector_test1vqqsyqcyq5rqwzqfpg9scrgwpugpzysnzs23v9ccrydpk8qtpvnx6"
	testNexusSender     = "0xEe639D2A4d5e2bCa1bea0D4Be7E7B1a2f96A8C8B"
	testNexusReceiver   = "0x6BF6D1fC4B3D7326b6A2677dFF6924b5Dc1e3612"
	testPrimeTxHash     = "0xAABBCCDDEEFF00112233445566778899AABBCCDDEEFF00112233445566778899"
	normalizedPrimeHash = "aabbccddeeff00112233445566778899aabbccddeeff00112233445566778899"
)

type fakeSettings struct {
	settings *models.BridgingSettings
	changing bool
}

func (s *fakeSettings) Settings() *models.BridgingSettings {
	return s.settings
}

func (s *fakeSettings) ValidatorChangeInProgress() bool {
	return s.changing
}

type fakeTxBuilder struct {
	params   *models.BridgingTxParams
	response *models.CreateBridgingTxResponse
	err      error
}

func (b *fakeTxBuilder) BuildBridgingTx(ctx context.Context, params models.BridgingTxParams) (*models.CreateBridgingTxResponse, error) {
	b.params = &params
	return b.response, b.err
}

func testSettings() *models.BridgingSettings {
	return &models.BridgingSettings{
		MinChainFeeForBridging: map[models.Chain]uint64{
			models.ChainPrime:  1_000_000,
			models.ChainVector: 1_000_000,
			models.ChainNexus:  1_000_000,
		},
		MinUtxoChainValue: map[models.Chain]uint64{
			models.ChainPrime:  1_000_000,
			models.ChainVector: 1_000_000,
		},
		MinValueToBridge:               1_000_000,
		MaxAmountAllowedToBridge:       "1000000000000",
		MaxReceiversPerBridgingRequest: 3,
		AllowedDirections: map[models.Chain][]models.Chain{
			models.ChainPrime:  {models.ChainVector, models.ChainNexus},
			models.ChainVector: {models.ChainPrime},
			models.ChainNexus:  {models.ChainPrime},
		},
	}
}

var testPrefixes = map[models.Chain]string{
	models.ChainPrime:  "addr_test",
	models.ChainVector: "vector_test",
}

func newTestRequestService(store Store, settings SettingsProvider, builders map[models.Chain]TxBuilder) *RequestService {
	s := NewRequestService(store, settings, builders, testPrefixes)
	s.now = func() time.Time { return fixedNow }
	return s
}

func primeToVector(amount string) *models.CreateBridgingTxRequest {
	return &models.CreateBridgingTxRequest{
		SenderAddress:    testPrimeSender,
		OriginChain:      models.ChainPrime,
		DestinationChain: models.ChainVector,
		Receivers:        []models.BridgingTxReceiver{{Address: testVectorReceiver, Amount: amount}},
	}
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	var validationErr *common.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestValidateBridgingRequest(t *testing.T) {
	settings := &fakeSettings{settings: testSettings()}
	s := newTestRequestService(newMemoryStore(), settings, nil)

	t.Run("Valid With Default Fee", func(t *testing.T) {
		params, err := s.ValidateBridgingRequest(primeToVector("2000000"))

		assert.Nil(t, err)
		assert.Equal(t, "1000000", params.BridgingFee)
		assert.Equal(t, uint64(1_000_000), params.MinUtxoValue)
		assert.Equal(t, models.ChainPrime, params.OriginChain)
		assert.Equal(t, models.ChainVector, params.DestinationChain)
	})

	t.Run("Valid With Explicit Fee", func(t *testing.T) {
		req := primeToVector("2000000")
		req.BridgingFee = "1500000"

		params, err := s.ValidateBridgingRequest(req)

		assert.Nil(t, err)
		assert.Equal(t, "1500000", params.BridgingFee)
	})

	t.Run("Nexus Default Fee In Wei", func(t *testing.T) {
		req := &models.CreateBridgingTxRequest{
			SenderAddress:    testNexusSender,
			OriginChain:      models.ChainNexus,
			DestinationChain: models.ChainPrime,
			Receivers:        []models.BridgingTxReceiver{{Address: testPrimeSender, Amount: "2000000000000000000"}},
		}

		params, err := s.ValidateBridgingRequest(req)

		assert.Nil(t, err)
		assert.Equal(t, "1000000000000000000", params.BridgingFee)
		assert.Equal(t, uint64(0), params.MinUtxoValue)
	})

	t.Run("Nexus Destination Skips Min Utxo", func(t *testing.T) {
		req := &models.CreateBridgingTxRequest{
			SenderAddress:    testPrimeSender,
			OriginChain:      models.ChainPrime,
			DestinationChain: models.ChainNexus,
			Receivers: []models.BridgingTxReceiver{
				{Address: testNexusReceiver, Amount: "500000"},
				{Address: testNexusReceiver, Amount: "600000"},
			},
		}

		_, err := s.ValidateBridgingRequest(req)

		assert.Nil(t, err)
	})

	t.Run("Settings Not Loaded", func(t *testing.T) {
		s := newTestRequestService(newMemoryStore(), &fakeSettings{}, nil)

		_, err := s.ValidateBridgingRequest(primeToVector("2000000"))

		var upstreamErr *common.UpstreamUnavailableError
		assert.ErrorAs(t, err, &upstreamErr)
	})

	t.Run("Validator Change In Progress", func(t *testing.T) {
		s := newTestRequestService(newMemoryStore(), &fakeSettings{settings: testSettings(), changing: true}, nil)

		_, err := s.ValidateBridgingRequest(primeToVector("2000000"))

		assertValidationError(t, err)
	})

	t.Run("Same Chain", func(t *testing.T) {
		req := primeToVector("2000000")
		req.DestinationChain = models.ChainPrime

		_, err := s.ValidateBridgingRequest(req)

		assertValidationError(t, err)
	})

	t.Run("Unknown Chain", func(t *testing.T) {
		req := primeToVector("2000000")
		req.OriginChain = models.ChainUnknown

		_, err := s.ValidateBridgingRequest(req)

		assertValidationError(t, err)
	})

	t.Run("Direction Not Allowed", func(t *testing.T) {
		req := &models.CreateBridgingTxRequest{
			SenderAddress:    testVectorReceiver,
			OriginChain:      models.ChainVector,
			DestinationChain: models.ChainNexus,
			Receivers:        []models.BridgingTxReceiver{{Address: testNexusReceiver, Amount: "2000000"}},
		}

		_, err := s.ValidateBridgingRequest(req)

		assertValidationError(t, err)
	})

	t.Run("No Receivers", func(t *testing.T) {
		req := primeToVector("2000000")
		req.Receivers = nil

		_, err := s.ValidateBridgingRequest(req)

		assertValidationError(t, err)
	})

	t.Run("Too Many Receivers", func(t *testing.T) {
		req := primeToVector("2000000")
		for i := 0; i < 3; i++ {
			req.Receivers = append(req.Receivers, models.BridgingTxReceiver{Address: testVectorReceiver, Amount: "2000000"})
		}

		_, err := s.ValidateBridgingRequest(req)

		assertValidationError(t, err)
	})

	t.Run("Invalid Sender", func(t *testing.T) {
		req := primeToVector("2000000")
		req.SenderAddress = testNexusSender

		_, err := s.ValidateBridgingRequest(req)

		assert.NotNil(t, err)
	})

	t.Run("Receiver On Wrong Network", func(t *testing.T) {
		req := primeToVector("2000000")
		req.Receivers[0].Address = testPrimeSender

		_, err := s.ValidateBridgingRequest(req)

		assert.NotNil(t, err)
	})

	t.Run("Below Min Utxo", func(t *testing.T) {
		_, err := s.ValidateBridgingRequest(primeToVector("999999"))

		assertValidationError(t, err)
	})

	t.Run("Fractional Amount", func(t *testing.T) {
		_, err := s.ValidateBridgingRequest(primeToVector("1000000.5"))

		assertValidationError(t, err)
	})

	t.Run("Below Min Value To Bridge", func(t *testing.T) {
		settings := testSettings()
		settings.MinValueToBridge = 5_000_000
		s := newTestRequestService(newMemoryStore(), &fakeSettings{settings: settings}, nil)

		_, err := s.ValidateBridgingRequest(primeToVector("2000000"))

		assertValidationError(t, err)
	})

	t.Run("Above Max Amount", func(t *testing.T) {
		_, err := s.ValidateBridgingRequest(primeToVector("1000000000001"))

		assertValidationError(t, err)
	})

	t.Run("Malformed Max Amount", func(t *testing.T) {
		malformed := testSettings()
		malformed.MaxAmountAllowedToBridge = "1e12"
		s := newTestRequestService(newMemoryStore(), &fakeSettings{settings: malformed}, nil)

		_, err := s.ValidateBridgingRequest(primeToVector("2000000"))

		var upstreamErr *common.UpstreamUnavailableError
		assert.ErrorAs(t, err, &upstreamErr)
	})

	t.Run("Fee Too Low", func(t *testing.T) {
		req := primeToVector("2000000")
		req.BridgingFee = "999999"

		_, err := s.ValidateBridgingRequest(req)

		assertValidationError(t, err)
	})
}

func TestCreateBridgingTx(t *testing.T) {
	settings := &fakeSettings{settings: testSettings()}

	t.Run("Dispatches To Origin Builder", func(t *testing.T) {
		prime := &fakeTxBuilder{response: &models.CreateBridgingTxResponse{TxHash: "ff"}}
		nexus := &fakeTxBuilder{}
		s := newTestRequestService(newMemoryStore(), settings, map[models.Chain]TxBuilder{
			models.ChainPrime: prime,
			models.ChainNexus: nexus,
		})

		response, err := s.CreateBridgingTx(context.Background(), primeToVector("2000000"))

		assert.Nil(t, err)
		assert.Equal(t, "ff", response.TxHash)
		if assert.NotNil(t, prime.params) {
			assert.Equal(t, "1000000", prime.params.BridgingFee)
		}
		assert.Nil(t, nexus.params)
	})

	t.Run("Origin Not Configured", func(t *testing.T) {
		s := newTestRequestService(newMemoryStore(), settings, map[models.Chain]TxBuilder{})

		response, err := s.CreateBridgingTx(context.Background(), primeToVector("2000000"))

		assert.Nil(t, response)
		assertValidationError(t, err)
	})

	t.Run("Invalid Request Never Reaches Builder", func(t *testing.T) {
		prime := &fakeTxBuilder{}
		s := newTestRequestService(newMemoryStore(), settings, map[models.Chain]TxBuilder{models.ChainPrime: prime})

		_, err := s.CreateBridgingTx(context.Background(), primeToVector("1"))

		assertValidationError(t, err)
		assert.Nil(t, prime.params)
	})

	t.Run("Builder Error", func(t *testing.T) {
		prime := &fakeTxBuilder{err: &common.InsufficientFundsError{Required: "3", Available: "1"}}
		s := newTestRequestService(newMemoryStore(), settings, map[models.Chain]TxBuilder{models.ChainPrime: prime})

		response, err := s.CreateBridgingTx(context.Background(), primeToVector("2000000"))

		assert.Nil(t, response)
		var fundsErr *common.InsufficientFundsError
		assert.ErrorAs(t, err, &fundsErr)
	})
}

func submittedRequest() *models.BridgingTxSubmittedRequest {
	return &models.BridgingTxSubmittedRequest{
		OriginChain:      models.ChainPrime,
		DestinationChain: models.ChainVector,
		OriginTxHash:     testPrimeTxHash,
		SenderAddress:    testPrimeSender,
		Receivers: []models.BridgingTxReceiver{
			{Address: testVectorReceiver, Amount: "2000000"},
			{Address: testVectorReceiver, Amount: "3000000"},
		},
		TxRaw: "84a4",
	}
}

func TestSubmitBridgingTx(t *testing.T) {
	settings := &fakeSettings{settings: testSettings()}

	t.Run("Creates Pending Record", func(t *testing.T) {
		store := newMemoryStore()
		s := newTestRequestService(store, settings, nil)

		tx, err := s.SubmitBridgingTx(context.Background(), submittedRequest())

		require.NoError(t, err)
		assert.Equal(t, int64(1), tx.ID)
		assert.Equal(t, models.StatusPending, tx.Status)
		assert.Equal(t, normalizedPrimeHash, tx.SourceTxHash)
		assert.Equal(t, "5000000", tx.Amount)
		assert.Equal(t, "5000000", tx.AmountDecimal.String())
		assert.Equal(t, "0", tx.NativeTokenAmount)
		assert.Equal(t, []string{testVectorReceiver, testVectorReceiver}, tx.ReceiverAddresses)
		assert.Equal(t, fixedNow, tx.CreatedAt)
		assert.Nil(t, tx.FinishedAt)
	})

	t.Run("Nexus Amount Normalized", func(t *testing.T) {
		store := newMemoryStore()
		s := newTestRequestService(store, settings, nil)
		req := &models.BridgingTxSubmittedRequest{
			OriginChain:      models.ChainNexus,
			DestinationChain: models.ChainPrime,
			OriginTxHash:     "0x01",
			SenderAddress:    testNexusSender,
			Receivers:        []models.BridgingTxReceiver{{Address: testPrimeSender, Amount: "2000000000000000001"}},
		}

		tx, err := s.SubmitBridgingTx(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "2000000000000000001", tx.Amount)
		assert.Equal(t, "2000001", tx.AmountDecimal.String())
	})

	t.Run("Duplicate Returns Existing", func(t *testing.T) {
		store := newMemoryStore()
		s := newTestRequestService(store, settings, nil)

		first, err := s.SubmitBridgingTx(context.Background(), submittedRequest())
		require.NoError(t, err)

		req := submittedRequest()
		req.OriginTxHash = normalizedPrimeHash
		second, err := s.SubmitBridgingTx(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Len(t, store.txs, 1)
	})

	t.Run("Same Chain", func(t *testing.T) {
		s := newTestRequestService(newMemoryStore(), settings, nil)
		req := submittedRequest()
		req.DestinationChain = models.ChainPrime

		_, err := s.SubmitBridgingTx(context.Background(), req)

		assertValidationError(t, err)
	})

	t.Run("Missing Hash", func(t *testing.T) {
		s := newTestRequestService(newMemoryStore(), settings, nil)
		req := submittedRequest()
		req.OriginTxHash = ""

		_, err := s.SubmitBridgingTx(context.Background(), req)

		assertValidationError(t, err)
	})

	t.Run("Invalid Amount", func(t *testing.T) {
		s := newTestRequestService(newMemoryStore(), settings, nil)
		req := submittedRequest()
		req.Receivers[0].Amount = "-5"

		_, err := s.SubmitBridgingTx(context.Background(), req)

		assertValidationError(t, err)
	})
}

func TestSubmitBridgingTxWithMongoStore(t *testing.T) {
	settings := &fakeSettings{settings: testSettings()}

	t.Run("Lookup Error", func(t *testing.T) {
		store, db := newTestStore(t)
		s := newTestRequestService(store, settings, nil)

		db.EXPECT().FindOne(models.CollectionBridgeTransactions, mock.Anything, mock.Anything).Return(errors.New("error")).Once()

		tx, err := s.SubmitBridgingTx(context.Background(), submittedRequest())

		assert.Nil(t, tx)
		assert.EqualError(t, err, "error")
	})
}

func TestRequestServiceResolveCurrencyID(t *testing.T) {
	settings := testSettings()
	settings.DirectionConfig = map[models.Chain]models.DirectionConfig{
		models.ChainPrime: {Tokens: []models.TokenDescriptor{{ID: 1, IsCurrency: true}}},
	}
	s := newTestRequestService(newMemoryStore(), &fakeSettings{settings: settings}, nil)

	id, ok := s.ResolveCurrencyID(&models.BridgeTransaction{OriginChain: models.ChainPrime})

	assert.True(t, ok)
	assert.Equal(t, uint16(1), id)

	s = newTestRequestService(newMemoryStore(), &fakeSettings{}, nil)
	_, ok = s.ResolveCurrencyID(&models.BridgeTransaction{OriginChain: models.ChainPrime})
	assert.False(t, ok)
}

type e2eChainClient struct{}

func (c *e2eChainClient) GetUtxos(ctx context.Context, address string) ([]cardano.Utxo, error) {
	return []cardano.Utxo{{
		TxHash:      "11223344556677889900aabbccddeeff11223344556677889900aabbccddeeff",
		OutputIndex: 0,
		Amount:      []cardano.Amount{{Unit: cardano.LovelaceUnit, Quantity: strconv.Itoa(500_000_000)}},
	}}, nil
}

func (c *e2eChainClient) GetProtocolParameters(ctx context.Context) (cardano.ProtocolParameters, error) {
	return cardano.ProtocolParameters{MinFeeA: 44, MinFeeB: 155381, MaxTxSize: 16384}, nil
}

func (c *e2eChainClient) GetTip(ctx context.Context) (cardano.Tip, error) {
	return cardano.Tip{Slot: 5000}, nil
}

func TestBridgingLifecycle(t *testing.T) {
	builder, err := cardano.NewTxBuilder(models.ChainPrime, &e2eChainClient{}, models.ChainConfig{
		Chain:           "prime",
		BridgingAddress: testPrimeBridging,
		AddressPrefix:   "addr_test",
	})
	require.NoError(t, err)

	store := newMemoryStore()
	s := newTestRequestService(store, &fakeSettings{settings: testSettings()}, map[models.Chain]TxBuilder{
		models.ChainPrime: builder,
	})

	response, err := s.CreateBridgingTx(context.Background(), primeToVector("100000000"))
	require.NoError(t, err)
	require.NotNil(t, response.Metadata)
	assert.Equal(t, cardano.BridgingTxType, response.Metadata.BridgingTxType)
	assert.Equal(t, "vector", response.Metadata.DestinationChainID)
	require.Len(t, response.Metadata.Transactions, 1)
	assert.Equal(t, uint64(100_000_000), response.Metadata.Transactions[0].Amount)
	assert.Equal(t, uint64(1_000_000), response.Metadata.FeeAmount)
	assert.NotEmpty(t, response.TxRaw)
	assert.Len(t, response.TxHash, 64)

	submitted, err := s.SubmitBridgingTx(context.Background(), &models.BridgingTxSubmittedRequest{
		OriginChain:      models.ChainPrime,
		DestinationChain: models.ChainVector,
		OriginTxHash:     response.TxHash,
		SenderAddress:    testPrimeSender,
		Receivers:        []models.BridgingTxReceiver{{Address: testVectorReceiver, Amount: "100000000"}},
		TxRaw:            response.TxRaw,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, submitted.Status)

	x, client, _ := newTestReconciler(t, store, 10)
	client.EXPECT().GetMultiple(mock.Anything, models.ChainPrime, []string{response.TxHash}).Return([]models.BridgingRequestState{
		{SourceTxHash: response.TxHash, Status: models.StatusExecutedOnDestination, DestinationTxHash: "beef"},
	}, nil).Once()

	result, err := x.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	tx, err := s.GetBridgeTransaction(submitted.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusExecutedOnDestination, tx.Status)
	assert.Equal(t, "beef", tx.DestinationTxHash)
	if assert.NotNil(t, tx.FinishedAt) {
		assert.Equal(t, fixedNow, *tx.FinishedAt)
	}

	result, err = x.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReconcileResult{}, result)
}
