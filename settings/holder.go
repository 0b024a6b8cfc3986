package settings

import (
	"context"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dan13ram/bridge-reactor/common"
	"github.com/dan13ram/bridge-reactor/models"
	"github.com/dan13ram/bridge-reactor/oracle"
)

// Holder owns the current bridging settings snapshot and the validator change
// flag. Readers always see a complete snapshot; refreshes swap it atomically.
type Holder struct {
	oracle     oracle.OracleClient
	timeout    time.Duration
	retryDelay time.Duration

	settings                  atomic.Pointer[models.BridgingSettings]
	validatorChangeInProgress atomic.Bool
}

func NewHolder(client oracle.OracleClient, timeout time.Duration, retryDelay time.Duration) *Holder {
	return &Holder{
		oracle:     client,
		timeout:    timeout,
		retryDelay: retryDelay,
	}
}

// Init loads the validator change status best-effort, then blocks until the
// bridging settings have been fetched.
func (h *Holder) Init() {
	log.Debug("[SETTINGS] Initializing settings")

	if err := h.UpdateValidatorChangeStatus(); err != nil {
		log.WithError(err).Warn("[SETTINGS] Could not fetch validator change status, assuming none in progress")
		h.validatorChangeInProgress.Store(false)
	}

	settings := common.RetryForever(h.fetchSettings, h.retryDelay)
	h.settings.Store(settings)

	log.Info("[SETTINGS] Initialized settings")
}

func (h *Holder) fetchSettings() (*models.BridgingSettings, error) {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	return h.oracle.GetSettings(ctx)
}

// Refresh re-fetches the bridging settings once. On failure the previous
// snapshot is kept.
func (h *Holder) Refresh() error {
	settings, err := h.fetchSettings()
	if err != nil {
		log.WithError(err).Error("[SETTINGS] Error refreshing settings")
		return err
	}
	h.settings.Store(settings)
	log.Info("[SETTINGS] Refreshed settings")
	return nil
}

// UpdateValidatorChangeStatus fetches the validator change flag. On failure
// the previous value is kept.
func (h *Holder) UpdateValidatorChangeStatus() error {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	status, err := h.oracle.GetValidatorChangeStatus(ctx)
	if err != nil {
		return err
	}

	previous := h.validatorChangeInProgress.Swap(status.InProgress)
	if previous != status.InProgress {
		log.WithField("in_progress", status.InProgress).Info("[SETTINGS] Validator change status changed")
	}
	return nil
}

// Settings returns the current snapshot, or nil before Init.
func (h *Holder) Settings() *models.BridgingSettings {
	return h.settings.Load()
}

func (h *Holder) ValidatorChangeInProgress() bool {
	return h.validatorChangeInProgress.Load()
}

// SetSettings replaces the snapshot wholesale.
func (h *Holder) SetSettings(settings *models.BridgingSettings) {
	h.settings.Store(settings)
}
