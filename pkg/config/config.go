package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App     AppConfig
	Catalog CatalogDBConfig
	Txn     TransactionsDBConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DISHFEED_APP_ENV" default:"dev"`
	Port         string `envconfig:"DISHFEED_APP_PORT" default:"8484"`
	LogLevel     string `envconfig:"DISHFEED_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DISHFEED_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CatalogDBConfig locates the read-mostly product catalog store.
type CatalogDBConfig struct {
	Path string `envconfig:"DISHFEED_CATALOG_DB_PATH" default:"products.db"`
}

// TransactionsDBConfig locates the transactional store holding checkout,
// order, inventory, and agent-run state.
type TransactionsDBConfig struct {
	Path string `envconfig:"DISHFEED_TRANSACTIONS_DB_PATH" default:"transactions.db"`
}
