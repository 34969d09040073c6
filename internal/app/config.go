package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	StorageDriverSQLite   = "sqlite"
	StorageDriverMySQL    = "mysql"
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	LogFormatText = "text"
	LogFormatJSON = "json"

	DefaultSQLiteDSN = "ims.db"
	DefaultMySQLDSN  = "root:root@tcp(127.0.0.1:3306)/ims?charset=utf8mb4&parseTime=True&loc=UTC"
)

// Переменные окружения, переопределяющие файл конфигурации.
const (
	EnvStorageDriver = "IMS_STORAGE_DRIVER"
	EnvStorageDSN    = "IMS_STORAGE_DSN"
	EnvLogLevel      = "IMS_LOG_LEVEL"
	EnvMetricsAddr   = "IMS_METRICS_ADDR"
	EnvStrictStatus  = "IMS_STRICT_STATUS"
)

// StorageConfig выбирает движок хранилища.
type StorageConfig struct {
	Driver      string `yaml:"driver"`
	DSN         string `yaml:"dsn"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

type CatalogConfig struct {
	SeedSampleData bool `yaml:"seed_sample_data"`
}

type OrdersConfig struct {
	StrictStatusTransitions bool `yaml:"strict_status_transitions"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config описывает настройки запуска приложения.
type Config struct {
	Storage     StorageConfig `yaml:"storage"`
	Catalog     CatalogConfig `yaml:"catalog"`
	Orders      OrdersConfig  `yaml:"orders"`
	Log         LogConfig     `yaml:"log"`
	MetricsAddr string        `yaml:"metrics_addr"`
}

// DefaultConfig возвращает настройки для локального запуска со встроенным файлом SQLite.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Driver:      StorageDriverSQLite,
			AutoMigrate: true,
		},
		Catalog: CatalogConfig{SeedSampleData: true},
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatText,
		},
	}
}

// LoadConfig читает YAML поверх значений по умолчанию. Пустой path возвращает умолчания.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv переопределяет настройки переменными окружения.
// Нераспознанные значения не прерывают запуск и возвращаются как предупреждения.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) []string {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var warnings []string
	if v, ok := lookup(EnvStorageDriver); ok && strings.TrimSpace(v) != "" {
		c.Storage.Driver = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvStorageDSN); ok && strings.TrimSpace(v) != "" {
		c.Storage.DSN = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		c.Log.Level = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvMetricsAddr); ok {
		c.MetricsAddr = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvStrictStatus); ok && strings.TrimSpace(v) != "" {
		strict, err := parseBool(v)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v, keeping %t", EnvStrictStatus, err, c.Orders.StrictStatusTransitions))
		} else {
			c.Orders.StrictStatusTransitions = strict
		}
	}
	return warnings
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "yes", "y":
		return true, nil
	case "off", "no", "n":
		return false, nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q", raw)
	}
	return v, nil
}

// StorageDSN возвращает DSN с учётом значений по умолчанию для встроенного файла и MySQL.
func (c Config) StorageDSN() string {
	if dsn := strings.TrimSpace(c.Storage.DSN); dsn != "" {
		return dsn
	}
	switch c.Storage.Driver {
	case StorageDriverSQLite:
		return DefaultSQLiteDSN
	case StorageDriverMySQL:
		return DefaultMySQLDSN
	default:
		return ""
	}
}

// Validate проверяет согласованность настроек до открытия хранилища.
func (c Config) Validate() error {
	var errs []error

	switch c.Storage.Driver {
	case StorageDriverSQLite, StorageDriverMySQL, StorageDriverMemory:
	case StorageDriverPostgres:
		if c.StorageDSN() == "" {
			errs = append(errs, errors.New("storage.dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported storage driver %q (supported: sqlite, mysql, postgres, memory)", c.Storage.Driver))
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Log.Format {
	case LogFormatText, LogFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log.format must be %q or %q, got %q", LogFormatText, LogFormatJSON, c.Log.Format))
	}

	return errors.Join(errs...)
}
