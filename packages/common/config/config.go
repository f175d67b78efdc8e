package config

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Same as time.ParseDuration, but returns fallback on error.
// All raw durations are validated when config is loaded, so fallback
// is only reachable for zero-value configs created in tests.
func parseDuration(raw string, fallback time.Duration) time.Duration {
	v, e := time.ParseDuration(raw)

	if e != nil {
		return fallback
	}

	return v
}

type dbConfig struct {
	RawQueryTimeout    string `yaml:"db-query-timeout" validate:"required,duration"`
	MinConns           int32  `yaml:"db-min-conns" validate:"gte=0"`
	MaxConns           int32  `yaml:"db-max-conns" validate:"required,gtefield=MinConns"`
	SkipPostConnection bool   `yaml:"db-skip-post-connection" validate:"exists"`
	MigrationsPath     string `yaml:"db-migrations-path" validate:"required"`
}

func (c *dbConfig) QueryTimeout() time.Duration {
	return parseDuration(c.RawQueryTimeout, time.Second*5)
}

type storeConfig struct {
	// Driver used by the bid workflow and auctions repository.
	Driver       string `yaml:"store-driver" validate:"required,oneof=postgres postgrest"`
	PostgrestURL string `yaml:"postgrest-url" validate:"required_if=Driver postgrest"`
	RawTimeout   string `yaml:"postgrest-timeout" validate:"required,duration"`
}

func (c *storeConfig) Timeout() time.Duration {
	return parseDuration(c.RawTimeout, time.Second*5)
}

type httpServerConfig struct {
	Secured        bool     `yaml:"http-secured" validate:"exists"`
	Port           string   `yaml:"http-port" validate:"required"`
	AllowedOrigins []string `yaml:"http-allowed-origins" validate:"required,min=1"`
}

type cacheConfig struct {
	RawSocketTimeout    string `yaml:"cache-socket-timeout" validate:"required,duration"`
	RawOperationTimeout string `yaml:"cache-operation-timeout" validate:"required,duration"`
	RawTTL              string `yaml:"cache-ttl" validate:"required,duration"`
}

func (c *cacheConfig) SocketTimeout() time.Duration {
	return parseDuration(c.RawSocketTimeout, time.Second*3)
}

func (c *cacheConfig) OperationTimeout() time.Duration {
	return parseDuration(c.RawOperationTimeout, time.Second)
}

func (c *cacheConfig) TTL() time.Duration {
	return parseDuration(c.RawTTL, time.Minute)
}

type debugConfig struct {
	Enabled           bool `yaml:"debug-mode" validate:"exists"`
	SafeDatabaseScans bool `yaml:"debug-safe-db-scans" validate:"exists"`
	LogDbQueries      bool `yaml:"debug-log-db-queries" validate:"exists"`
}

type appConfig struct {
	ShowLogs         bool   `yaml:"show-logs" validate:"exists"`
	TraceLogsEnabled bool   `yaml:"trace-logs" validate:"exists"`
	ServiceID        string `yaml:"service-id" validate:"required"`
}

type sentryConfig struct {
	TraceSampleRate float64 `yaml:"sentry-trace-sample-rate" validate:"gte=0,lte=1"`
}

type Config struct {
	dbConfig         `yaml:",inline"`
	storeConfig      `yaml:",inline"`
	httpServerConfig `yaml:",inline"`
	cacheConfig      `yaml:",inline"`
	debugConfig      `yaml:",inline"`
	appConfig        `yaml:",inline"`
	sentryConfig     `yaml:",inline"`
}

func (c *Config) DB() *dbConfig           { return &c.dbConfig }
func (c *Config) Store() *storeConfig     { return &c.storeConfig }
func (c *Config) HTTP() *httpServerConfig { return &c.httpServerConfig }
func (c *Config) Cache() *cacheConfig     { return &c.cacheConfig }
func (c *Config) Debug() *debugConfig     { return &c.debugConfig }
func (c *Config) App() *appConfig         { return &c.appConfig }
func (c *Config) Sentry() *sentryConfig   { return &c.sentryConfig }

func newValidator() *validator.Validate {
	validate := validator.New()

	validate.RegisterValidation("exists", func(fl validator.FieldLevel) bool {
		return true // Always pass (just ensure that the field exists)
	})
	validate.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		_, err := time.ParseDuration(fl.Field().String())
		return err == nil
	})

	return validate
}

var errNoConfigFiles = errors.New("no config files found")

// Returns list of config files.
// If path is a directory, then all *.yaml and *.yml files inside of it
// will be returned in lexical order, later files override earlier ones.
func configFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	files := []string{}
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		files = append(files, filepath.Join(path, entry.Name()))
	}
	if len(files) == 0 {
		return nil, errNoConfigFiles
	}

	sort.Strings(files)

	return files, nil
}

func load(path string) (*Config, error) {
	configLogger.Info("Reading config from "+path+"...", nil)

	files, err := configFiles(path)
	if err != nil {
		return nil, err
	}

	cfg := new(Config)

	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, errors.New("failed to parse " + file + ": " + err.Error())
		}
	}

	configLogger.Info("Reading config: OK", nil)

	configLogger.Info("Validating config...", nil)

	if err := newValidator().Struct(cfg); err != nil {
		return nil, err
	}

	configLogger.Info("Validating config: OK", nil)

	return cfg, nil
}
