package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/aryankumar/sep/internal/util"
	"github.com/spf13/viper"
)

const (
	defaultConfigName = ".sep"
	defaultConfigDir  = ".sep"
	envPrefix         = "SEP"
)

// Default values applied when the configuration leaves them unset
const (
	DefaultRetryCount      = 3
	DefaultBlockingWorkers = 16
	DefaultOutputFormat    = "table"
	DefaultServerAddr      = ":5050"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultReducerName     = "merge"
)

// Manager handles sep configuration
type Manager struct {
	configPath string
	config     *SEPConfig
	viper      *viper.Viper
}

// NewManager creates a new configuration manager
func NewManager(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
		viper:      viper.New(),
		config:     &SEPConfig{},
	}
}

// Viper exposes the underlying viper instance so flags can be bound to it
func (m *Manager) Viper() *viper.Viper {
	return m.viper
}

// Load loads the configuration from file, environment and bound flags
func (m *Manager) Load() (*SEPConfig, error) {
	if m.configPath != "" {
		m.viper.SetConfigFile(m.configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		// ~/.sep/config.yaml is tried before ~/.sep.yaml
		m.viper.AddConfigPath(filepath.Join(home, defaultConfigDir))
		m.viper.AddConfigPath(home)
		m.viper.SetConfigName(defaultConfigName)
		m.viper.SetConfigType("yaml")
	}

	// SEP_DEFAULTS_RETRYCOUNT overrides defaults.retryCount
	m.viper.SetEnvPrefix(envPrefix)
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()
	m.registerDefaults()

	m.config = &SEPConfig{}

	if err := m.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := m.viper.Unmarshal(m.config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	m.applyDefaults()

	if err := Validate(m.config); err != nil {
		return nil, err
	}

	return m.config, nil
}

// registerDefaults makes every scalar key known to viper so environment
// variables are picked up by Unmarshal
func (m *Manager) registerDefaults() {
	m.viper.SetDefault("defaults.retryCount", DefaultRetryCount)
	m.viper.SetDefault("defaults.asyncRetry", false)
	m.viper.SetDefault("defaults.concurrencyLevel", 0)
	m.viper.SetDefault("defaults.blockingWorkers", DefaultBlockingWorkers)
	m.viper.SetDefault("defaults.outputFormat", DefaultOutputFormat)
	m.viper.SetDefault("defaults.noColor", false)
	m.viper.SetDefault("server.addr", DefaultServerAddr)
	m.viper.SetDefault("server.shutdownTimeout", DefaultShutdownTimeout)
}

// Save saves the current configuration to file
func (m *Manager) Save() error {
	if m.configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		m.configPath = filepath.Join(home, defaultConfigDir, "config.yaml")
	}

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := m.viper.WriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *SEPConfig {
	return m.config
}

// GetAction returns the configured action called name
func (m *Manager) GetAction(name string) (*ActionConfig, bool) {
	for i := range m.config.Actions {
		if m.config.Actions[i].Name == name {
			return &m.config.Actions[i], true
		}
	}
	return nil, false
}

// SetAction adds or replaces the action with the same name
func (m *Manager) SetAction(action ActionConfig) {
	idx := slices.IndexFunc(m.config.Actions, func(a ActionConfig) bool {
		return a.Name == action.Name
	})
	if idx >= 0 {
		m.config.Actions[idx] = action
	} else {
		m.config.Actions = append(m.config.Actions, action)
	}
	m.viper.Set("actions", m.config.Actions)
}

// RemoveAction removes the action called name
func (m *Manager) RemoveAction(name string) {
	m.config.Actions = slices.DeleteFunc(m.config.Actions, func(a ActionConfig) bool {
		return a.Name == name
	})
	m.viper.Set("actions", m.config.Actions)
}

// applyDefaults sets default values for configuration
func (m *Manager) applyDefaults() {
	if m.config == nil {
		return
	}
	ApplyDefaults(m.config)
}

// ApplyDefaults fills unset fields of cfg and clamps out-of-range values
func ApplyDefaults(cfg *SEPConfig) {
	if cfg.Defaults.RetryCount < 0 {
		cfg.Defaults.RetryCount = 0
	}

	if cfg.Defaults.BlockingWorkers <= 0 {
		cfg.Defaults.BlockingWorkers = DefaultBlockingWorkers
	}

	if cfg.Defaults.OutputFormat == "" {
		cfg.Defaults.OutputFormat = DefaultOutputFormat
	}

	if cfg.Reducer.Name == "" {
		cfg.Reducer.Name = DefaultReducerName
	}
	if cfg.Reducer.Kind == "" {
		cfg.Reducer.Kind = ReducerCount
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
}

// Validate reports every invalid action, probe or reducer definition
func Validate(cfg *SEPConfig) error {
	var errs util.MultiError

	check := func(section string, entries []ActionConfig) {
		for i, a := range entries {
			field := fmt.Sprintf("%s[%d]", section, i)
			if a.Name == "" {
				errs.Add(util.NewValidationError(field+".name", nil, "name is required"))
			}
			if !slices.Contains(Kinds(), a.Kind) {
				errs.Add(fmt.Errorf("%s.kind %q: %w", field, a.Kind, util.ErrUnknownKind))
			}
			if a.Kind == KindHTTP && a.URL == "" {
				errs.Add(util.NewValidationError(field+".url", nil, "url is required for http actions"))
			}
			if a.Duration < 0 {
				errs.Add(util.NewValidationError(field+".duration", a.Duration, "duration must not be negative"))
			}
			if a.Failures < 0 {
				errs.Add(util.NewValidationError(field+".failures", a.Failures, "failures must not be negative"))
			}
		}
	}

	check("actions", cfg.Actions)
	check("probes", cfg.Probes)

	if cfg.Reducer.Kind != "" && cfg.Reducer.Kind != ReducerCount {
		errs.Add(fmt.Errorf("reducer.kind %q: %w", cfg.Reducer.Kind, util.ErrUnknownKind))
	}

	return errs.ErrorOrNil()
}
