package config

import (
	"errors"
	"flashauction/packages/common/logger"
	"sync"
	"sync/atomic"
)

var configLogger = logger.NewSource("CONFIG", logger.Default)

var ErrAlreadyInitialized = errors.New("config already initialized")
var ErrNotInitialized = errors.New("config isn't initialized")

// Owns application configuration.
// Config is replaced as a whole on reload, so a *Config received
// from Current() is never mutated and can be used without locking.
type Manager struct {
	path     string
	envFiles []string

	current atomic.Pointer[Config]
	secrets *Secrets

	mu        sync.Mutex
	listeners []func(*Config)
}

// Path may be either a yaml file or a directory with yaml files.
func NewManager(path string, envFiles ...string) *Manager {
	return &Manager{
		path:     path,
		envFiles: envFiles,
	}
}

// Manager with already loaded config.
// It has no source files, so Reload() will always fail.
func NewStaticManager(cfg *Config, secrets *Secrets) *Manager {
	m := &Manager{secrets: secrets}
	m.current.Store(cfg)
	return m
}

func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.Load() != nil {
		return ErrAlreadyInitialized
	}

	configLogger.Info("Initializing...", nil)

	cfg, err := load(m.path)
	if err != nil {
		configLogger.Error("Failed to initialize config", err.Error(), nil)
		return err
	}

	secrets, err := loadSecrets(m.envFiles...)
	if err != nil {
		configLogger.Error("Failed to load secrets", err.Error(), nil)
		return err
	}

	m.secrets = secrets
	m.current.Store(cfg)

	configLogger.Info("Initializing: OK", nil)

	return nil
}

// Re-reads config files. On failure current config stays in use.
// Secrets are read only once, on Init().
func (m *Manager) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.Load() == nil {
		return ErrNotInitialized
	}

	configLogger.Info("Reloading...", nil)

	cfg, err := load(m.path)
	if err != nil {
		configLogger.Error("Failed to reload config, previous config will be used", err.Error(), nil)
		return err
	}

	m.current.Store(cfg)

	for _, listener := range m.listeners {
		listener(cfg)
	}

	configLogger.Info("Reloading: OK", nil)

	return nil
}

// Registers fn to be called with new config after each successful reload.
func (m *Manager) OnReload(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listeners = append(m.listeners, fn)
}

// Will panic if manager wasn't initialized.
func (m *Manager) Current() *Config {
	cfg := m.current.Load()
	if cfg == nil {
		configLogger.Panic("Failed to get config", ErrNotInitialized.Error(), nil)
	}
	return cfg
}

func (m *Manager) Secrets() *Secrets {
	return m.secrets
}
