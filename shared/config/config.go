package config

import (
	"log"
	"sync"

	"github.com/spf13/viper"
)

// ChainConfig defines the structure for EVM chain configuration
type ChainConfig struct {
	RPCURL           string `mapstructure:"rpc_url"`
	ChainID          int64  `mapstructure:"chain_id"`
	ContractAddress  string `mapstructure:"contract_address"`
	PurchaseGasLimit uint64 `mapstructure:"purchase_gas_limit"`
}

// TelegramConfig defines the structure for Telegram-related configurations
type TelegramConfig struct {
	BotToken           string `mapstructure:"bot_token"`
	GroupID            int64  `mapstructure:"group_id"`
	SystemLogsThreadID int64  `mapstructure:"system_logs_thread_id"`
}

// Config defines the global configuration structure
type Config struct {
	App struct {
		Port        string `mapstructure:"port"`
		Environment string `mapstructure:"environment"`
	} `mapstructure:"app"`

	Logging struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"logging"`

	Database struct {
		URI string `mapstructure:"uri"`
	} `mapstructure:"database"`

	Chain ChainConfig `mapstructure:"chain"`

	Media struct {
		MaxInlineBytes int64 `mapstructure:"max_inline_bytes"`
	} `mapstructure:"media"`

	Telegram TelegramConfig `mapstructure:"telegram"`
}

var (
	globalConfig *Config
	configLock   sync.RWMutex
)

// LoadConfig loads configuration from the specified file path and merges it with environment variables
func LoadConfig(path string) (*Config, error) {
	log.Printf("Starting to load configuration from file: %s", path)

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	viper.SetEnvPrefix("APP")
	viper.BindEnv("app.port", "PORT")
	viper.BindEnv("app.environment", "ENVIRONMENT")
	viper.BindEnv("database.uri", "DATABASE_URL")

	viper.BindEnv("chain.rpc_url", "EVM_RPC_URL")
	viper.BindEnv("chain.chain_id", "CHAIN_ID")
	viper.BindEnv("chain.contract_address", "CONTRACT_ADDRESS")
	viper.BindEnv("chain.purchase_gas_limit", "PURCHASE_GAS_LIMIT")

	viper.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	viper.BindEnv("telegram.group_id", "TELEGRAM_GROUP_ID")
	viper.BindEnv("telegram.system_logs_thread_id", "SYSTEM_LOGS_THREAD_ID")

	var cfg Config

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		log.Printf("Error unmarshalling configuration: %v", err)
		return nil, err
	}

	log.Printf("Loaded configuration from file: %s", path)

	return &cfg, nil
}

// SetGlobalConfig sets the loaded configuration globally
func SetGlobalConfig(cfg *Config) {
	configLock.Lock()
	defer configLock.Unlock()
	globalConfig = cfg
}

// GetGlobalConfig retrieves the globally set configuration
func GetGlobalConfig() *Config {
	configLock.RLock()
	defer configLock.RUnlock()
	if globalConfig == nil {
		log.Println("GetGlobalConfig: Global configuration is nil.")
	}
	return globalConfig
}
