package bridge

import (
	"context"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dan13ram/bridge-reactor/app"
	"github.com/dan13ram/bridge-reactor/common"
	"github.com/dan13ram/bridge-reactor/models"
	"github.com/dan13ram/bridge-reactor/oracle"
)

const (
	ReconcilerName        = "RECONCILER"
	ReconcileLockResource = "reconcile_bridge_transactions"
)

type Locker interface {
	XLock(resourceId string) (string, error)
	Unlock(lockId string) error
}

// ReconcileResult summarizes one reconciliation pass.
type ReconcileResult struct {
	Checked int
	Updated int
}

// ReconcileRunner advances non-terminal bridge transactions to the status
// reported by the oracle.
type ReconcileRunner struct {
	store     Store
	oracle    oracle.OracleClient
	locker    Locker
	batchSize int
	timeout   time.Duration
	now       func() time.Time

	lastResult ReconcileResult
	lastError  string
}

func (x *ReconcileRunner) Run() {
	lockId, err := x.locker.XLock(ReconcileLockResource)
	if err != nil {
		log.WithError(err).Warn("[RECONCILER] Could not acquire reconcile lock, skipping pass")
		app.ReconcilePasses.WithLabelValues("locked").Inc()
		return
	}
	defer func() {
		if err := x.locker.Unlock(lockId); err != nil {
			log.WithError(err).Error("[RECONCILER] Error releasing reconcile lock")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), x.timeout)
	defer cancel()

	result, err := x.Reconcile(ctx)
	x.lastResult = result
	if err != nil {
		log.WithError(err).Error("[RECONCILER] Reconciliation pass aborted")
		x.lastError = err.Error()
		app.ReconcilePasses.WithLabelValues("failed").Inc()
		return
	}
	x.lastError = ""
	app.ReconcilePasses.WithLabelValues("ok").Inc()
}

func (x *ReconcileRunner) Status() models.RunnerStatus {
	details := map[string]string{
		"checked": strconv.Itoa(x.lastResult.Checked),
		"updated": strconv.Itoa(x.lastResult.Updated),
	}
	if x.lastError != "" {
		details["last_error"] = x.lastError
	}
	return models.RunnerStatus{Details: details}
}

func groupByOriginChain(txs []models.BridgeTransaction) map[models.Chain][]*models.BridgeTransaction {
	groups := map[models.Chain][]*models.BridgeTransaction{}
	for i := range txs {
		tx := &txs[i]
		if tx.Status.IsTerminal() {
			continue
		}
		groups[tx.OriginChain] = append(groups[tx.OriginChain], tx)
	}
	return groups
}

func chunk(txs []*models.BridgeTransaction, size int) [][]*models.BridgeTransaction {
	if size <= 0 {
		size = len(txs)
	}
	var chunks [][]*models.BridgeTransaction
	for start := 0; start < len(txs); start += size {
		end := start + size
		if end > len(txs) {
			end = len(txs)
		}
		chunks = append(chunks, txs[start:end])
	}
	return chunks
}

// Reconcile runs a single pass. An oracle failure aborts the rest of the
// pass; updates already written stay.
func (x *ReconcileRunner) Reconcile(ctx context.Context) (ReconcileResult, error) {
	result := ReconcileResult{}

	txs, err := x.store.FindNonTerminal()
	if err != nil {
		return result, err
	}
	log.Debug("[RECONCILER] Found ", len(txs), " non-terminal bridge transactions")

	groups := groupByOriginChain(txs)
	for _, chain := range models.AllChains {
		for _, batch := range chunk(groups[chain], x.batchSize) {
			updated, err := x.reconcileBatch(ctx, chain, batch)
			result.Checked += len(batch)
			result.Updated += updated
			if err != nil {
				return result, err
			}
		}
	}

	log.WithField("checked", result.Checked).WithField("updated", result.Updated).Info("[RECONCILER] Reconciliation pass finished")
	return result, nil
}

func (x *ReconcileRunner) reconcileBatch(ctx context.Context, chain models.Chain, batch []*models.BridgeTransaction) (int, error) {
	byHash := make(map[string]*models.BridgeTransaction, len(batch))
	hashes := make([]string, 0, len(batch))
	for _, tx := range batch {
		hash := common.NormalizeTxHash(tx.SourceTxHash)
		byHash[hash] = tx
		hashes = append(hashes, common.ChainTxHash(chain, tx.SourceTxHash))
	}

	states, err := x.oracle.GetMultiple(ctx, chain, hashes)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, state := range states {
		tx, ok := byHash[common.NormalizeTxHash(state.SourceTxHash)]
		if !ok {
			continue
		}
		if x.apply(tx, state) {
			updated++
		}
	}
	return updated, nil
}

// apply writes state onto tx when the status differs. It reports whether the
// record was updated.
func (x *ReconcileRunner) apply(tx *models.BridgeTransaction, state models.BridgingRequestState) bool {
	if tx.Status == state.Status || tx.Status.IsTerminal() {
		return false
	}

	update := StatusUpdate{
		Status:            state.Status,
		DestinationTxHash: state.DestinationTxHash,
	}
	if state.Status.IsTerminal() && tx.FinishedAt == nil {
		finishedAt := x.now()
		update.FinishedAt = &finishedAt
	}

	logger := log.WithField("id", tx.ID).WithField("source_tx_hash", tx.SourceTxHash)
	matched, err := x.store.UpdateStatus(tx.ID, update)
	if err != nil {
		logger.WithError(err).Error("[RECONCILER] Error updating bridge transaction")
		return false
	}
	if !matched {
		logger.Debug("[RECONCILER] Bridge transaction already terminal, skipping update")
		return false
	}

	logger.WithField("from", tx.Status).WithField("to", state.Status).Info("[RECONCILER] Updated bridge transaction status")

	tx.Status = update.Status
	if update.DestinationTxHash != "" {
		tx.DestinationTxHash = update.DestinationTxHash
	}
	if update.FinishedAt != nil {
		tx.FinishedAt = update.FinishedAt
	}
	app.ReconcileUpdates.WithLabelValues(tx.OriginChain.String(), string(tx.Status)).Inc()
	return true
}

func NewReconcileRunner(store Store, client oracle.OracleClient, locker Locker, batchSize int, timeout time.Duration) *ReconcileRunner {
	return &ReconcileRunner{
		store:     store,
		oracle:    client,
		locker:    locker,
		batchSize: batchSize,
		timeout:   timeout,
		now:       time.Now,
	}
}

func NewReconcileService(wg *sync.WaitGroup, store Store, client oracle.OracleClient) app.Service {
	if !app.Config.Reconciler.Enabled {
		log.Debug("[RECONCILER] Disabled")
		return app.NewEmptyService(wg)
	}

	log.Debug("[RECONCILER] Initializing reconciler")

	interval := time.Duration(app.Config.Reconciler.IntervalMillis) * time.Millisecond
	x := NewReconcileRunner(store, client, app.DB, app.Config.Reconciler.OracleBatchSize, interval)

	log.Info("[RECONCILER] Initialized reconciler")

	return app.NewRunnerService(ReconcilerName, x, wg, interval)
}
