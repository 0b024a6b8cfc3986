package main

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dan13ram/bridge-reactor/api"
	"github.com/dan13ram/bridge-reactor/app"
	"github.com/dan13ram/bridge-reactor/bridge"
	"github.com/dan13ram/bridge-reactor/cardano"
	"github.com/dan13ram/bridge-reactor/evm"
	"github.com/dan13ram/bridge-reactor/models"
	"github.com/dan13ram/bridge-reactor/oracle"
	"github.com/dan13ram/bridge-reactor/settings"
)

// Dependencies are shared by every service.
type Dependencies struct {
	Store    bridge.Store
	Oracle   oracle.OracleClient
	Settings *settings.Holder
	Requests *bridge.RequestService
	Health   *app.HealthCheckRunner
}

type ServiceFactory func(*sync.WaitGroup, Dependencies) app.Service

// ServiceNames is the start order of the services.
var ServiceNames = []string{
	settings.ValidatorStatusName,
	bridge.ReconcilerName,
	api.APIServiceName,
}

func GetServiceFactories() map[string]ServiceFactory {
	services := map[string]ServiceFactory{
		settings.ValidatorStatusName: func(wg *sync.WaitGroup, deps Dependencies) app.Service {
			return settings.NewValidatorStatusService(wg, deps.Settings)
		},
		bridge.ReconcilerName: func(wg *sync.WaitGroup, deps Dependencies) app.Service {
			return bridge.NewReconcileService(wg, deps.Store, deps.Oracle)
		},
		api.APIServiceName: func(wg *sync.WaitGroup, deps Dependencies) app.Service {
			return api.NewAPIService(wg, deps.Requests, deps.Settings, deps.Health)
		},
	}

	return services
}

// CreateServices builds every service in start order, adding each to wg.
func CreateServices(wg *sync.WaitGroup, deps Dependencies) []app.Service {
	factories := GetServiceFactories()

	services := make([]app.Service, 0, len(ServiceNames))
	for _, name := range ServiceNames {
		wg.Add(1)
		services = append(services, factories[name](wg, deps))
	}
	return services
}

func NewHealthService(wg *sync.WaitGroup, healthcheck *app.HealthCheckRunner) app.Service {
	interval := time.Duration(app.Config.HealthCheck.IntervalMillis) * time.Millisecond
	return app.NewRunnerService(app.HealthServiceName, healthcheck, wg, interval)
}

// NewTxBuilders creates a builder for every configured chain and collects the
// address prefixes of the UTXO chains.
func NewTxBuilders() (map[models.Chain]bridge.TxBuilder, map[models.Chain]string) {
	builders := map[models.Chain]bridge.TxBuilder{}
	prefixes := map[models.Chain]string{}

	for _, config := range app.Config.Chains {
		chain, err := models.ParseChain(config.Chain)
		if err != nil {
			log.Fatal("[BUILDER] Invalid chain: ", err)
		}

		if chain.IsUTXO() {
			client := cardano.NewClient(chain, config)
			builder, err := cardano.NewTxBuilder(chain, client, config)
			if err != nil {
				log.Fatal("[BUILDER] Error creating builder for ", chain, ": ", err)
			}
			builders[chain] = builder
			prefixes[chain] = config.AddressPrefix
			continue
		}

		builder, err := evm.NewTxBuilder(chain, config)
		if err != nil {
			log.Fatal("[BUILDER] Error creating builder for ", chain, ": ", err)
		}
		builders[chain] = builder
	}

	log.Info("[BUILDER] Initialized builders for ", len(builders), " chains")
	return builders, prefixes
}
