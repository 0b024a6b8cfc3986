package app

import (
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dan13ram/bridge-reactor/models"
)

// MockRunner is a mock implementation of the Runner interface for testing purposes.
type MockRunner struct {
	runs     atomic.Int64
	inflight atomic.Int64
	maxSeen  atomic.Int64
	sleep    time.Duration
}

func (m *MockRunner) Run() {
	current := m.inflight.Add(1)
	defer m.inflight.Add(-1)
	for {
		seen := m.maxSeen.Load()
		if current <= seen || m.maxSeen.CompareAndSwap(seen, current) {
			break
		}
	}
	time.Sleep(m.sleep)
	m.runs.Add(1)
}

func (m *MockRunner) Status() models.RunnerStatus {
	return models.RunnerStatus{
		Details: map[string]string{
			"runs":  strconv.FormatInt(m.runs.Load(), 10),
			"chain": "prime",
		},
	}
}

func TestRunnerService(t *testing.T) {
	mockRunner := &MockRunner{}
	interval := 100 * time.Millisecond
	wg := &sync.WaitGroup{}
	service := NewRunnerService("TestService", mockRunner, wg, interval)
	wg.Add(1)

	go service.Start()

	time.Sleep(650 * time.Millisecond)

	service.Stop()

	wg.Wait()

	health := service.Health()
	assert.True(t, health.Healthy)
	assert.Equal(t, "TestService", health.Name)
	runs, err := strconv.Atoi(health.Details["runs"])
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, runs, 5)
	assert.Equal(t, "prime", health.Details["chain"])
	assert.Equal(t, interval, health.NextSyncTime.Sub(health.LastSyncTime))
	assert.Equal(t, int64(0), health.SkippedTicks)
}

func TestRunnerServiceSingleFlight(t *testing.T) {
	mockRunner := &MockRunner{sleep: 250 * time.Millisecond}
	interval := 50 * time.Millisecond
	wg := &sync.WaitGroup{}
	service := NewRunnerService("SlowService", mockRunner, wg, interval)
	wg.Add(1)

	go service.Start()

	time.Sleep(600 * time.Millisecond)

	service.Stop()
	wg.Wait()

	assert.Equal(t, int64(1), mockRunner.maxSeen.Load())
	assert.Equal(t, int64(0), mockRunner.inflight.Load())
	assert.GreaterOrEqual(t, mockRunner.runs.Load(), int64(2))
	assert.Greater(t, service.SkippedTicks(), int64(0))
	assert.Equal(t, service.SkippedTicks(), service.Health().SkippedTicks)
}

func TestNewRunnerServiceInvalidParameters(t *testing.T) {
	wg := &sync.WaitGroup{}

	assert.Nil(t, NewRunnerService("", &MockRunner{}, wg, time.Second))
	assert.Nil(t, NewRunnerService("TestService", nil, wg, time.Second))
	assert.Nil(t, NewRunnerService("TestService", &MockRunner{}, nil, time.Second))
	assert.Nil(t, NewRunnerService("TestService", &MockRunner{}, wg, 0))
}

func TestRunnerServiceStop(t *testing.T) {
	wg := &sync.WaitGroup{}
	mockRunner := &MockRunner{}
	service := NewRunnerService("TestService", mockRunner, wg, 100*time.Millisecond)

	// Stop without Start must not block
	service.Stop()
	service.Stop()

	assert.Equal(t, int64(0), mockRunner.runs.Load())
}

func TestEmptyService(t *testing.T) {
	wg := &sync.WaitGroup{}
	wg.Add(1)
	service := NewEmptyService(wg)

	service.Start()
	assert.Equal(t, EmptyServiceName, service.Health().Name)

	service.Stop()
	wg.Wait()
}
