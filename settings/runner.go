package settings

import (
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dan13ram/bridge-reactor/app"
	"github.com/dan13ram/bridge-reactor/models"
)

const (
	ValidatorStatusName = "VALIDATOR STATUS"
)

type ValidatorStatusRunner struct {
	holder      *Holder
	lastUpdated time.Time
	lastError   string
}

func (x *ValidatorStatusRunner) Run() {
	log.Debug("[VALIDATOR STATUS] Refreshing validator change status")

	if err := x.holder.UpdateValidatorChangeStatus(); err != nil {
		log.WithError(err).Error("[VALIDATOR STATUS] Error refreshing validator change status")
		x.lastError = err.Error()
		return
	}

	x.lastError = ""
	x.lastUpdated = time.Now()
}

func (x *ValidatorStatusRunner) Status() models.RunnerStatus {
	details := map[string]string{
		"validator_change_in_progress": strconv.FormatBool(x.holder.ValidatorChangeInProgress()),
	}
	if !x.lastUpdated.IsZero() {
		details["last_updated"] = x.lastUpdated.UTC().Format(time.RFC3339)
	}
	if x.lastError != "" {
		details["last_error"] = x.lastError
	}
	return models.RunnerStatus{Details: details}
}

func NewValidatorStatusRunner(holder *Holder) *ValidatorStatusRunner {
	return &ValidatorStatusRunner{holder: holder}
}

func NewValidatorStatusService(wg *sync.WaitGroup, holder *Holder) app.Service {
	if !app.Config.ValidatorStatus.Enabled {
		log.Debug("[VALIDATOR STATUS] Disabled")
		return app.NewEmptyService(wg)
	}

	log.Debug("[VALIDATOR STATUS] Initializing validator status service")

	x := NewValidatorStatusRunner(holder)

	log.Info("[VALIDATOR STATUS] Initialized validator status service")

	return app.NewRunnerService(ValidatorStatusName, x, wg, time.Duration(app.Config.ValidatorStatus.IntervalMillis)*time.Millisecond)
}
