package app

import (
	"sync"

	"github.com/dan13ram/bridge-reactor/models"
)

type Service interface {
	Start()
	Health() models.ServiceHealth
	Stop()
}

// Runner is a unit of work executed periodically by a RunnerService.
type Runner interface {
	Run()
	Status() models.RunnerStatus
}

const EmptyServiceName = "EMPTY"

// EmptyService stands in for a disabled service.
type EmptyService struct {
	wg *sync.WaitGroup
}

func (e *EmptyService) Start() {}

func (e *EmptyService) Stop() {
	e.wg.Done()
}

func (e *EmptyService) Health() models.ServiceHealth {
	return models.ServiceHealth{
		Name: EmptyServiceName,
	}
}

func NewEmptyService(wg *sync.WaitGroup) Service {
	return &EmptyService{
		wg: wg,
	}
}
