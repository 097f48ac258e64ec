package env

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	TelegramBotToken   string
	TelegramGroupID    int64
	SystemLogsThreadID int

	Port string

	EVMRPCURL         string
	RequiredChainID   int64
	ContractAddress   string
	ServicePrivateKey string
	PurchaseGasLimit  uint64

	DATABASE_URL string

	PGHOST     string
	PGPORT     string
	PGUSER     string
	PGPASSWORD string
	PGDATABASE string

	LOCAL_DATABASE_HOST     string
	LOCAL_DATABASE_PORT     string
	LOCAL_DATABASE_USER     string
	LOCAL_DATABASE_PASSWORD string
	LOCAL_DATABASE_NAME     string
)

func loadEnvVariable(key string, isRequired bool) string {
	value := os.Getenv(key)
	if isRequired && value == "" {
		log.Fatalf("FATAL: Environment variable %s is required but not set.", key)
	}
	isHidden := key == "TELEGRAM_BOT_TOKEN" || key == "SERVICE_PRIVATE_KEY" || key == "LOCAL_DATABASE_PASSWORD" || key == "PGPASSWORD" || key == "DATABASE_URL"
	if value == "" {
		if !isRequired {
			log.Printf("INFO: Environment variable %s is not set.", key)
		}
	} else if isHidden {
		log.Printf("INFO: Loaded %s (value hidden)", key)
	} else {
		log.Printf("INFO: Loaded %s = %s", key, value)
	}
	return value
}

func loadIntEnv(key string, required bool) int {
	strValue := loadEnvVariable(key, required)
	if strValue == "" {
		if !required {
			log.Printf("INFO: Optional integer environment variable %s is missing, defaulting to 0.", key)
			return 0
		}
		log.Fatalf("FATAL: Required integer environment variable %s is missing after load.", key)
		return 0
	}
	id, err := strconv.Atoi(strValue)
	if err != nil {
		log.Fatalf("FATAL: Failed to parse integer environment variable %s='%s': %v", key, strValue, err)
	}
	return id
}

func loadInt64Env(key string, required bool) int64 {
	strValue := loadEnvVariable(key, required)
	if strValue == "" {
		if !required {
			log.Printf("INFO: Optional int64 environment variable %s is missing, defaulting to 0.", key)
			return 0
		}
		log.Fatalf("FATAL: Required int64 environment variable %s is missing after load.", key)
		return 0
	}
	id, err := strconv.ParseInt(strValue, 10, 64)
	if err != nil {
		log.Fatalf("FATAL: Failed to parse int64 environment variable %s='%s': %v", key, strValue, err)
	}
	return id
}

func LoadEnv() error {
	err := godotenv.Load()
	if err != nil {
		log.Println("INFO: .env file not found or error loading, relying on system environment variables.")
	} else {
		log.Println("INFO: .env file loaded successfully.")
	}

	TelegramBotToken = loadEnvVariable("TELEGRAM_BOT_TOKEN", false)
	TelegramGroupID = loadInt64Env("TELEGRAM_GROUP_ID", false)
	SystemLogsThreadID = loadIntEnv("SYSTEM_LOGS_THREAD_ID", false)

	Port = loadEnvVariable("PORT", false)
	if Port == "" {
		Port = "8080"
		log.Printf("INFO: PORT not set, defaulting to %s", Port)
	}

	EVMRPCURL = loadEnvVariable("EVM_RPC_URL", true)
	RequiredChainID = loadInt64Env("CHAIN_ID", true)
	ContractAddress = loadEnvVariable("CONTRACT_ADDRESS", true)
	ServicePrivateKey = loadEnvVariable("SERVICE_PRIVATE_KEY", false)

	gasLimitStr := loadEnvVariable("PURCHASE_GAS_LIMIT", false)
	if gasLimitStr == "" {
		PurchaseGasLimit = 300000
		log.Printf("INFO: PURCHASE_GAS_LIMIT not set, defaulting to %d", PurchaseGasLimit)
	} else {
		parsed, parseErr := strconv.ParseUint(gasLimitStr, 10, 64)
		if parseErr != nil || parsed == 0 {
			log.Printf("WARN: Invalid value '%s' for PURCHASE_GAS_LIMIT. Defaulting to 300000. Error: %v", gasLimitStr, parseErr)
			parsed = 300000
		}
		PurchaseGasLimit = parsed
	}

	DATABASE_URL = loadEnvVariable("DATABASE_URL", false)

	PGHOST = loadEnvVariable("PGHOST", false)
	PGPORT = loadEnvVariable("PGPORT", false)
	PGUSER = loadEnvVariable("PGUSER", false)
	PGPASSWORD = loadEnvVariable("PGPASSWORD", false)
	PGDATABASE = loadEnvVariable("PGDATABASE", false)

	LOCAL_DATABASE_HOST = loadEnvVariable("LOCAL_DATABASE_HOST", false)
	LOCAL_DATABASE_PORT = loadEnvVariable("LOCAL_DATABASE_PORT", false)
	LOCAL_DATABASE_USER = loadEnvVariable("LOCAL_DATABASE_USER", false)
	LOCAL_DATABASE_PASSWORD = loadEnvVariable("LOCAL_DATABASE_PASSWORD", false)
	LOCAL_DATABASE_NAME = loadEnvVariable("LOCAL_DATABASE_NAME", false)

	if DATABASE_URL == "" {
		log.Println("WARN: DATABASE_URL is not set. Connection logic might rely on PG* or LOCAL_* variables.")
	}
	if TelegramBotToken != "" && TelegramGroupID == 0 {
		log.Println("WARN: TELEGRAM_BOT_TOKEN is set, but TELEGRAM_GROUP_ID is missing, invalid, or zero.")
	}
	if ServicePrivateKey == "" {
		log.Println("WARN: SERVICE_PRIVATE_KEY is not set. On-chain writes (content registration, purchases, withdrawals) will be unavailable.")
	}

	log.Println("INFO: Environment variables loading process complete.")
	return nil
}
