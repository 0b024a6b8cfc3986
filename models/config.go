package models

type Config struct {
	GoogleSecretManager GoogleSecretManagerConfig `yaml:"google_secret_manager" json:"google_secret_manager" envconfig:"GOOGLE_SECRET_MANAGER"`
	HealthCheck         HealthCheckConfig         `yaml:"health_check" json:"health_check" envconfig:"HEALTH_CHECK"`
	Logger              LoggerConfig              `yaml:"logger" json:"logger" envconfig:"LOG"`
	MongoDB             MongoConfig               `yaml:"mongodb" json:"mongo_db" envconfig:"MONGODB"`
	Oracle              OracleConfig              `yaml:"oracle" json:"oracle" envconfig:"ORACLE"`
	API                 APIConfig                 `yaml:"api" json:"api" envconfig:"API"`
	Chains              []ChainConfig             `yaml:"chains" json:"chains" ignored:"true"`
	Reconciler          ReconcilerConfig          `yaml:"reconciler" json:"reconciler" envconfig:"RECONCILER"`
	ValidatorStatus     ServiceConfig             `yaml:"validator_status" json:"validator_status" envconfig:"VALIDATOR_STATUS"`
}

type GoogleSecretManagerConfig struct {
	Enabled            bool   `yaml:"enabled" json:"enabled" envconfig:"ENABLED"`
	ProjectID          string `yaml:"project_id" json:"project_id" envconfig:"PROJECT_ID"`
	MongoSecretName    string `yaml:"mongo_secret_name" json:"mongo_secret_name" envconfig:"MONGO_SECRET_NAME"`
	OracleAPIKeySecret string `yaml:"oracle_api_key_secret_name" json:"oracle_api_key_secret_name" envconfig:"ORACLE_API_KEY_SECRET_NAME"`
}

type HealthCheckConfig struct {
	IntervalMillis int64 `yaml:"interval_ms" json:"interval_ms" envconfig:"INTERVAL_MS"`
}

type LoggerConfig struct {
	Level  string `yaml:"level" json:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" json:"format" envconfig:"FORMAT"`
}

type MongoConfig struct {
	URI           string `yaml:"uri" json:"uri" envconfig:"URI"`
	Database      string `yaml:"database" json:"database" envconfig:"DATABASE"`
	TimeoutMillis int64  `yaml:"timeout_ms" json:"timeout_ms" envconfig:"TIMEOUT_MS"`
}

type OracleConfig struct {
	URL           string `yaml:"url" json:"url" envconfig:"URL"`
	APIKey        string `yaml:"api_key" json:"api_key" envconfig:"API_KEY"`
	TimeoutMillis int64  `yaml:"timeout_ms" json:"timeout_ms" envconfig:"TIMEOUT_MS"`
	RetryDelayMs  int64  `yaml:"retry_delay_ms" json:"retry_delay_ms" envconfig:"RETRY_DELAY_MS"`
}

type APIConfig struct {
	Port           string   `yaml:"port" json:"port" envconfig:"PORT"`
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	TimeoutMillis  int64    `yaml:"timeout_ms" json:"timeout_ms" envconfig:"TIMEOUT_MS"`
}

type ChainConfig struct {
	Chain               string `yaml:"chain" json:"chain"`
	BridgingAddress     string `yaml:"bridging_address" json:"bridging_address"`
	AddressPrefix       string `yaml:"address_prefix" json:"address_prefix"`
	BlockfrostURL       string `yaml:"blockfrost_url" json:"blockfrost_url"`
	BlockfrostProjectID string `yaml:"blockfrost_project_id" json:"blockfrost_project_id"`
	BlockfrostSecret    string `yaml:"blockfrost_secret_name" json:"blockfrost_secret_name"`
	GatewayAddress      string `yaml:"gateway_address" json:"gateway_address"`
	RPCTimeoutMillis    int64  `yaml:"rpc_timeout_ms" json:"rpc_timeout_ms"`
	TTLSlotIncrement    uint64 `yaml:"ttl_slot_increment" json:"ttl_slot_increment"`
}

type ServiceConfig struct {
	Enabled        bool  `yaml:"enabled" json:"enabled" envconfig:"ENABLED"`
	IntervalMillis int64 `yaml:"interval_ms" json:"interval_ms" envconfig:"INTERVAL_MS"`
}

type ReconcilerConfig struct {
	Enabled         bool  `yaml:"enabled" json:"enabled" envconfig:"ENABLED"`
	IntervalMillis  int64 `yaml:"interval_ms" json:"interval_ms" envconfig:"INTERVAL_MS"`
	OracleBatchSize int   `yaml:"oracle_batch_size" json:"oracle_batch_size" envconfig:"ORACLE_BATCH_SIZE"`
}
