package app

import (
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dan13ram/bridge-reactor/models"
)

// RunnerService executes a Runner on a fixed interval. At most one Run is in
// flight at a time; ticks that fire while a Run is still executing are skipped.
type RunnerService struct {
	name     string
	runner   Runner
	interval time.Duration
	stop     chan bool
	wg       *sync.WaitGroup
	inflight sync.WaitGroup
	running  atomic.Bool
	skipped  atomic.Int64

	mu           sync.RWMutex
	lastSyncTime time.Time
	nextSyncTime time.Time
	status       models.RunnerStatus
}

func (x *RunnerService) Start() {
	log.Info("[", x.name, "] Starting service")
	defer x.wg.Done()

	ticker := time.NewTicker(x.interval)
	defer ticker.Stop()

	x.trigger()
	for {
		select {
		case <-x.stop:
			x.inflight.Wait()
			log.Info("[", x.name, "] Stopped service")
			return
		case <-ticker.C:
			x.trigger()
		}
	}
}

func (x *RunnerService) trigger() {
	if !x.running.CompareAndSwap(false, true) {
		skipped := x.skipped.Add(1)
		log.WithField("skipped_ticks", skipped).Debug("[", x.name, "] Previous run still in flight, skipping tick")
		return
	}

	x.inflight.Add(1)
	go func() {
		defer x.inflight.Done()
		defer x.running.Store(false)

		log.Debug("[", x.name, "] Starting run")
		x.runner.Run()
		x.updateHealth()
		log.Debug("[", x.name, "] Finished run, next run in ", x.interval)
	}()
}

func (x *RunnerService) updateHealth() {
	status := x.runner.Status()

	x.mu.Lock()
	defer x.mu.Unlock()
	x.lastSyncTime = time.Now()
	x.nextSyncTime = x.lastSyncTime.Add(x.interval)
	x.status = status
}

func (x *RunnerService) Health() models.ServiceHealth {
	x.mu.RLock()
	defer x.mu.RUnlock()

	return models.ServiceHealth{
		Name:         x.name,
		LastSyncTime: x.lastSyncTime,
		NextSyncTime: x.nextSyncTime,
		SkippedTicks: x.skipped.Load(),
		Details:      x.status.Details,
		Healthy:      true,
	}
}

func (x *RunnerService) SkippedTicks() int64 {
	return x.skipped.Load()
}

// Stop signals the service to exit. It never blocks, even when Start was never called.
func (x *RunnerService) Stop() {
	log.Debug("[", x.name, "] Stopping service")
	select {
	case x.stop <- true:
	default:
	}
}

func NewRunnerService(
	name string,
	runner Runner,
	wg *sync.WaitGroup,
	interval time.Duration,
) *RunnerService {
	if name == "" || runner == nil || wg == nil || interval <= 0 {
		log.Debug("[RUNNER] Invalid parameters")
		return nil
	}

	return &RunnerService{
		name:     name,
		runner:   runner,
		interval: interval,
		stop:     make(chan bool, 1),
		wg:       wg,
	}
}
