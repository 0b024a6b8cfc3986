package app

import (
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/dan13ram/bridge-reactor/models"
)

var (
	Config models.Config
)

const (
	defaultMongoTimeoutMillis     = 2000
	defaultOracleTimeoutMillis    = 5000
	defaultOracleRetryDelayMillis = 5000
	defaultValidatorStatusMillis  = 30000
	defaultHealthCheckMillis      = 60000
	defaultReconcilerBatchSize    = 50
	defaultTTLSlotIncrement       = 300
	defaultAPIPort                = "3500"
	defaultAPITimeoutMillis       = 60000
)

func InitConfig(configFile string, envFile string) {
	log.Debug("[CONFIG] Initializing config")
	readConfigFromConfigFile(configFile)
	readConfigFromENV(envFile)
	readKeysFromGSM()
	setDefaults()
	validateConfig()
	log.Info("[CONFIG] Config initialized")
}

func readConfigFromConfigFile(configFile string) bool {
	if configFile == "" {
		log.Debug("[CONFIG] No config file provided")
		return false
	}

	yamlFile, err := os.ReadFile(configFile)
	if err != nil {
		log.Fatalf("[CONFIG] Error reading config file %q: %s\n", configFile, err.Error())
	}

	err = yaml.Unmarshal(yamlFile, &Config)
	if err != nil {
		log.Fatalf("[CONFIG] Error unmarshalling config file %q: %s\n", configFile, err.Error())
	}

	log.Debug("[CONFIG] Config loaded from file: ", configFile)
	return true
}

func setDefaults() {
	if Config.MongoDB.TimeoutMillis == 0 {
		Config.MongoDB.TimeoutMillis = defaultMongoTimeoutMillis
	}
	if Config.Oracle.TimeoutMillis == 0 {
		Config.Oracle.TimeoutMillis = defaultOracleTimeoutMillis
	}
	if Config.Oracle.RetryDelayMs == 0 {
		Config.Oracle.RetryDelayMs = defaultOracleRetryDelayMillis
	}
	if Config.ValidatorStatus.IntervalMillis == 0 {
		Config.ValidatorStatus.IntervalMillis = defaultValidatorStatusMillis
	}
	if Config.HealthCheck.IntervalMillis == 0 {
		Config.HealthCheck.IntervalMillis = defaultHealthCheckMillis
	}
	if Config.Reconciler.OracleBatchSize == 0 {
		Config.Reconciler.OracleBatchSize = defaultReconcilerBatchSize
	}
	if Config.API.Port == "" {
		Config.API.Port = defaultAPIPort
	}
	if Config.API.TimeoutMillis == 0 {
		Config.API.TimeoutMillis = defaultAPITimeoutMillis
	}
	for i := range Config.Chains {
		if Config.Chains[i].TTLSlotIncrement == 0 {
			Config.Chains[i].TTLSlotIncrement = defaultTTLSlotIncrement
		}
		if Config.Chains[i].RPCTimeoutMillis == 0 {
			Config.Chains[i].RPCTimeoutMillis = defaultOracleTimeoutMillis
		}
	}
}

func validateConfig() {
	log.Debug("[CONFIG] Validating config")

	if Config.MongoDB.URI == "" {
		log.Fatal("[CONFIG] MongoDB.URI is required")
	}
	if Config.MongoDB.Database == "" {
		log.Fatal("[CONFIG] MongoDB.Database is required")
	}

	if Config.Oracle.URL == "" {
		log.Fatal("[CONFIG] Oracle.URL is required")
	}
	if Config.Oracle.APIKey == "" {
		log.Fatal("[CONFIG] Oracle.APIKey is required")
	}

	if Config.Reconciler.Enabled && Config.Reconciler.IntervalMillis == 0 {
		log.Fatal("[CONFIG] Reconciler.IntervalMillis is required")
	}

	if len(Config.Chains) == 0 {
		log.Fatal("[CONFIG] At least one chain is required")
	}

	seen := map[models.Chain]bool{}
	for _, chainConfig := range Config.Chains {
		chain, err := models.ParseChain(chainConfig.Chain)
		if err != nil {
			log.Fatalf("[CONFIG] Invalid chain %q: %s", chainConfig.Chain, err.Error())
		}
		if seen[chain] {
			log.Fatalf("[CONFIG] Duplicate chain %q", chainConfig.Chain)
		}
		seen[chain] = true

		if chainConfig.BridgingAddress == "" {
			log.Fatalf("[CONFIG] Chains.%s.BridgingAddress is required", chain)
		}
		if chain.IsUTXO() {
			if chainConfig.BlockfrostURL == "" {
				log.Fatalf("[CONFIG] Chains.%s.BlockfrostURL is required", chain)
			}
			if chainConfig.AddressPrefix == "" {
				log.Fatalf("[CONFIG] Chains.%s.AddressPrefix is required", chain)
			}
		} else if chainConfig.GatewayAddress == "" {
			log.Fatalf("[CONFIG] Chains.%s.GatewayAddress is required", chain)
		}
	}

	log.Debug("[CONFIG] Config validated")
}

// ChainConfig returns the configuration of a supported chain.
func ChainConfig(chain models.Chain) (models.ChainConfig, bool) {
	for _, chainConfig := range Config.Chains {
		if parsed, err := models.ParseChain(chainConfig.Chain); err == nil && parsed == chain {
			return chainConfig, true
		}
	}
	return models.ChainConfig{}, false
}
