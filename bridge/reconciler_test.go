package bridge

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dan13ram/bridge-reactor/common"
	"github.com/dan13ram/bridge-reactor/models"
	"github.com/dan13ram/bridge-reactor/oracle/mocks"
)

// memoryStore is an in-memory Store honoring the terminal write guard.
type memoryStore struct {
	mu        sync.Mutex
	nextID    int64
	txs       map[int64]*models.BridgeTransaction
	updates   []int64
	updateErr map[int64]error
}

func newMemoryStore(txs ...models.BridgeTransaction) *memoryStore {
	s := &memoryStore{txs: map[int64]*models.BridgeTransaction{}, updateErr: map[int64]error{}}
	for i := range txs {
		tx := txs[i]
		s.txs[tx.ID] = &tx
		if tx.ID > s.nextID {
			s.nextID = tx.ID
		}
	}
	return s
}

func (s *memoryStore) Create(tx *models.BridgeTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.txs {
		if existing.OriginChain == tx.OriginChain && existing.SourceTxHash == tx.SourceTxHash {
			return errors.New("duplicate")
		}
	}
	s.nextID++
	tx.ID = s.nextID
	stored := *tx
	s.txs[tx.ID] = &stored
	return nil
}

func (s *memoryStore) FindByID(id int64) (*models.BridgeTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txs[id]
	if !ok {
		return nil, &common.NotFoundError{Resource: "bridge transaction"}
	}
	copied := *tx
	return &copied, nil
}

func (s *memoryStore) FindBySourceTxHash(chain models.Chain, sourceTxHash string) (*models.BridgeTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hash := common.NormalizeTxHash(sourceTxHash)
	for _, tx := range s.txs {
		if tx.OriginChain == chain && tx.SourceTxHash == hash {
			copied := *tx
			return &copied, nil
		}
	}
	return nil, &common.NotFoundError{Resource: "bridge transaction", ID: sourceTxHash}
}

func (s *memoryStore) FindNonTerminal() ([]models.BridgeTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txs := []models.BridgeTransaction{}
	for _, tx := range s.txs {
		if !tx.Status.IsTerminal() {
			txs = append(txs, *tx)
		}
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].ID < txs[j].ID })
	return txs, nil
}

func (s *memoryStore) Filter(filter models.TransactionFilter) (*models.PaginatedTransactions, error) {
	return nil, errors.New("not implemented")
}

func (s *memoryStore) UpdateStatus(id int64, update StatusUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.updateErr[id]; err != nil {
		return false, err
	}
	tx, ok := s.txs[id]
	if !ok || tx.Status.IsTerminal() {
		return false, nil
	}
	tx.Status = update.Status
	if update.DestinationTxHash != "" {
		tx.DestinationTxHash = update.DestinationTxHash
	}
	if update.FinishedAt != nil {
		tx.FinishedAt = update.FinishedAt
	}
	s.updates = append(s.updates, id)
	return true, nil
}

func (s *memoryStore) get(id int64) models.BridgeTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.txs[id]
}

type fakeLocker struct {
	lockErr  error
	locked   int
	unlocked int
}

func (l *fakeLocker) XLock(resourceId string) (string, error) {
	if l.lockErr != nil {
		return "", l.lockErr
	}
	l.locked++
	return "lock-" + resourceId, nil
}

func (l *fakeLocker) Unlock(lockId string) error {
	l.unlocked++
	return nil
}

var fixedNow = time.Unix(1700000000, 0).UTC()

func newTestReconciler(t *testing.T, store Store, batchSize int) (*ReconcileRunner, *mocks.MockOracleClient, *fakeLocker) {
	client := mocks.NewMockOracleClient(t)
	locker := &fakeLocker{}
	x := NewReconcileRunner(store, client, locker, batchSize, time.Second)
	x.now = func() time.Time { return fixedNow }
	return x, client, locker
}

func pendingTx(id int64, chain models.Chain, hash string) models.BridgeTransaction {
	return models.BridgeTransaction{
		ID:           id,
		OriginChain:  chain,
		SourceTxHash: hash,
		Status:       models.StatusPending,
	}
}

func TestReconcileAdvancesStatus(t *testing.T) {
	store := newMemoryStore(
		pendingTx(1, models.ChainPrime, "aa"),
		pendingTx(2, models.ChainPrime, "bb"),
	)
	x, client, _ := newTestReconciler(t, store, 10)

	client.EXPECT().GetMultiple(mock.Anything, models.ChainPrime, []string{"aa", "bb"}).Return([]models.BridgingRequestState{
		{SourceTxHash: "AA", Status: models.StatusIncludedInBatch},
		{SourceTxHash: "bb", Status: models.StatusPending},
	}, nil).Once()

	result, err := x.Reconcile(context.Background())

	assert.Nil(t, err)
	assert.Equal(t, ReconcileResult{Checked: 2, Updated: 1}, result)
	assert.Equal(t, models.StatusIncludedInBatch, store.get(1).Status)
	assert.Nil(t, store.get(1).FinishedAt)
	assert.Equal(t, models.StatusPending, store.get(2).Status)
}

func TestReconcileSetsFinishedAtOnce(t *testing.T) {
	store := newMemoryStore(pendingTx(1, models.ChainVector, "aa"))
	x, client, _ := newTestReconciler(t, store, 10)

	client.EXPECT().GetMultiple(mock.Anything, models.ChainVector, []string{"aa"}).Return([]models.BridgingRequestState{
		{SourceTxHash: "aa", Status: models.StatusExecutedOnDestination, DestinationTxHash: "dd"},
	}, nil).Once()

	result, err := x.Reconcile(context.Background())

	assert.Nil(t, err)
	assert.Equal(t, 1, result.Updated)
	tx := store.get(1)
	assert.Equal(t, models.StatusExecutedOnDestination, tx.Status)
	assert.Equal(t, "dd", tx.DestinationTxHash)
	if assert.NotNil(t, tx.FinishedAt) {
		assert.Equal(t, fixedNow, *tx.FinishedAt)
	}

	// terminal records are not queried again
	x.now = func() time.Time { return fixedNow.Add(time.Hour) }
	result, err = x.Reconcile(context.Background())

	assert.Nil(t, err)
	assert.Equal(t, ReconcileResult{}, result)
	assert.Equal(t, fixedNow, *store.get(1).FinishedAt)
}

func TestReconcileIdempotent(t *testing.T) {
	store := newMemoryStore(pendingTx(1, models.ChainPrime, "aa"))
	x, client, _ := newTestReconciler(t, store, 10)

	client.EXPECT().GetMultiple(mock.Anything, models.ChainPrime, []string{"aa"}).Return([]models.BridgingRequestState{
		{SourceTxHash: "aa", Status: models.StatusSubmittedToBridge},
	}, nil).Twice()

	first, err := x.Reconcile(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, 1, first.Updated)

	second, err := x.Reconcile(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, 0, second.Updated)
	assert.Equal(t, []int64{1}, store.updates)
}

func TestReconcileChunksByOriginChain(t *testing.T) {
	store := newMemoryStore(
		pendingTx(1, models.ChainPrime, "p1"),
		pendingTx(2, models.ChainPrime, "p2"),
		pendingTx(3, models.ChainPrime, "p3"),
		pendingTx(4, models.ChainNexus, "n1"),
	)
	x, client, _ := newTestReconciler(t, store, 2)

	client.EXPECT().GetMultiple(mock.Anything, models.ChainPrime, []string{"p1", "p2"}).Return(nil, nil).Once()
	client.EXPECT().GetMultiple(mock.Anything, models.ChainPrime, []string{"p3"}).Return(nil, nil).Once()
	client.EXPECT().GetMultiple(mock.Anything, models.ChainNexus, []string{"0xn1"}).Return(nil, nil).Once()

	result, err := x.Reconcile(context.Background())

	assert.Nil(t, err)
	assert.Equal(t, ReconcileResult{Checked: 4, Updated: 0}, result)
}

func TestReconcileIgnoresUnknownHashes(t *testing.T) {
	store := newMemoryStore(pendingTx(1, models.ChainPrime, "aa"))
	x, client, _ := newTestReconciler(t, store, 10)

	client.EXPECT().GetMultiple(mock.Anything, models.ChainPrime, []string{"aa"}).Return([]models.BridgingRequestState{
		{SourceTxHash: "zz", Status: models.StatusExecutedOnDestination},
	}, nil).Once()

	result, err := x.Reconcile(context.Background())

	assert.Nil(t, err)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, models.StatusPending, store.get(1).Status)
}

func TestReconcileOracleFailureAbortsPass(t *testing.T) {
	store := newMemoryStore(
		pendingTx(1, models.ChainPrime, "p1"),
		pendingTx(2, models.ChainVector, "v1"),
		pendingTx(3, models.ChainNexus, "n1"),
	)
	x, client, _ := newTestReconciler(t, store, 10)

	client.EXPECT().GetMultiple(mock.Anything, models.ChainPrime, []string{"p1"}).Return([]models.BridgingRequestState{
		{SourceTxHash: "p1", Status: models.StatusIncludedInBatch},
	}, nil).Once()
	client.EXPECT().GetMultiple(mock.Anything, models.ChainVector, []string{"v1"}).Return(nil, errors.New("oracle down")).Once()

	result, err := x.Reconcile(context.Background())

	assert.EqualError(t, err, "oracle down")
	assert.Equal(t, ReconcileResult{Checked: 2, Updated: 1}, result)
	assert.Equal(t, models.StatusIncludedInBatch, store.get(1).Status)
	assert.Equal(t, models.StatusPending, store.get(3).Status)
}

func TestReconcileStoreErrorContinues(t *testing.T) {
	store := newMemoryStore(
		pendingTx(1, models.ChainPrime, "aa"),
		pendingTx(2, models.ChainPrime, "bb"),
	)
	store.updateErr[1] = errors.New("write failed")
	x, client, _ := newTestReconciler(t, store, 10)

	client.EXPECT().GetMultiple(mock.Anything, models.ChainPrime, []string{"aa", "bb"}).Return([]models.BridgingRequestState{
		{SourceTxHash: "aa", Status: models.StatusIncludedInBatch},
		{SourceTxHash: "bb", Status: models.StatusIncludedInBatch},
	}, nil).Once()

	result, err := x.Reconcile(context.Background())

	assert.Nil(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, models.StatusPending, store.get(1).Status)
	assert.Equal(t, models.StatusIncludedInBatch, store.get(2).Status)
}

func TestApplySkipsTerminal(t *testing.T) {
	store := newMemoryStore()
	x, _, _ := newTestReconciler(t, store, 10)

	tx := &models.BridgeTransaction{ID: 1, Status: models.StatusInvalidRequest}

	updated := x.apply(tx, models.BridgingRequestState{Status: models.StatusExecutedOnDestination})

	assert.False(t, updated)
	assert.Equal(t, models.StatusInvalidRequest, tx.Status)
	assert.Empty(t, store.updates)
}

func TestApplyStoredRecordAlreadyTerminal(t *testing.T) {
	store := newMemoryStore(models.BridgeTransaction{ID: 1, Status: models.StatusExecutedOnDestination})
	x, _, _ := newTestReconciler(t, store, 10)

	// in-memory copy is stale, the stored record has already finished
	tx := &models.BridgeTransaction{ID: 1, Status: models.StatusPending}

	updated := x.apply(tx, models.BridgingRequestState{Status: models.StatusIncludedInBatch})

	assert.False(t, updated)
	assert.Equal(t, models.StatusPending, tx.Status)
	assert.Equal(t, models.StatusExecutedOnDestination, store.get(1).Status)
	assert.Empty(t, store.updates)
}

func TestReconcileSendsPrefixedAccountChainHashes(t *testing.T) {
	store := newMemoryStore(pendingTx(1, models.ChainNexus, "abcdef"))
	x, client, _ := newTestReconciler(t, store, 10)

	client.EXPECT().GetMultiple(mock.Anything, models.ChainNexus, []string{"0xabcdef"}).Return([]models.BridgingRequestState{
		{SourceTxHash: "0xABCDEF", Status: models.StatusSubmittedToBridge},
	}, nil).Once()

	result, err := x.Reconcile(context.Background())

	assert.Nil(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, models.StatusSubmittedToBridge, store.get(1).Status)
}

func TestApplyKeepsExistingFinishedAt(t *testing.T) {
	earlier := fixedNow.Add(-time.Hour)
	store := newMemoryStore(models.BridgeTransaction{ID: 1, Status: models.StatusFailedToExecuteOnDestination, FinishedAt: &earlier})
	x, _, _ := newTestReconciler(t, store, 10)

	tx, _ := store.FindByID(1)

	updated := x.apply(tx, models.BridgingRequestState{Status: models.StatusExecutedOnDestination})

	assert.True(t, updated)
	assert.Equal(t, earlier, *store.get(1).FinishedAt)
}

func TestReconcileRunner(t *testing.T) {

	t.Run("Run", func(t *testing.T) {
		store := newMemoryStore(pendingTx(1, models.ChainCardano, "aa"))
		x, client, locker := newTestReconciler(t, store, 10)

		client.EXPECT().GetMultiple(mock.Anything, models.ChainCardano, []string{"aa"}).Return([]models.BridgingRequestState{
			{SourceTxHash: "aa", Status: models.StatusInvalidRequest},
		}, nil).Once()

		x.Run()

		assert.Equal(t, 1, locker.locked)
		assert.Equal(t, 1, locker.unlocked)
		assert.Equal(t, models.StatusInvalidRequest, store.get(1).Status)
		assert.Equal(t, map[string]string{"checked": "1", "updated": "1"}, x.Status().Details)
	})

	t.Run("Run With Oracle Error", func(t *testing.T) {
		store := newMemoryStore(pendingTx(1, models.ChainPrime, "aa"))
		x, client, locker := newTestReconciler(t, store, 10)

		client.EXPECT().GetMultiple(mock.Anything, models.ChainPrime, []string{"aa"}).Return(nil, errors.New("oracle down")).Once()

		x.Run()

		assert.Equal(t, 1, locker.unlocked)
		assert.Equal(t, "oracle down", x.Status().Details["last_error"])
	})

	t.Run("Lock Failure Skips Pass", func(t *testing.T) {
		store := newMemoryStore(pendingTx(1, models.ChainPrime, "aa"))
		x, _, locker := newTestReconciler(t, store, 10)
		locker.lockErr = errors.New("locked")

		x.Run()

		assert.Equal(t, 0, locker.unlocked)
		assert.Equal(t, models.StatusPending, store.get(1).Status)
	})
}

func TestChunk(t *testing.T) {
	txs := []*models.BridgeTransaction{{ID: 1}, {ID: 2}, {ID: 3}}

	assert.Len(t, chunk(txs, 2), 2)
	assert.Len(t, chunk(txs, 3), 1)
	assert.Len(t, chunk(txs, 0), 1)
	assert.Len(t, chunk(nil, 2), 0)
}
