package config

import "time"

// Action kinds understood by the catalog
const (
	KindSleep      = "sleep"
	KindFail       = "fail"
	KindFlaky      = "flaky"
	KindHTTP       = "http"
	KindKubernetes = "kubernetes"
)

// Reducer kinds understood by the catalog
const (
	ReducerCount = "count"
)

// Kinds returns every supported action kind
func Kinds() []string {
	return []string{KindSleep, KindFail, KindFlaky, KindHTTP, KindKubernetes}
}

// SEPConfig represents the sep configuration file structure
type SEPConfig struct {
	// Defaults contains engine and output settings
	Defaults DefaultsConfig `yaml:"defaults,omitempty" json:"defaults,omitempty" mapstructure:"defaults"`

	// Actions are the actions run by the parallel, fanout and retry commands
	Actions []ActionConfig `yaml:"actions,omitempty" json:"actions,omitempty" mapstructure:"actions"`

	// Reducer merges fan-out results
	Reducer ReducerConfig `yaml:"reducer,omitempty" json:"reducer,omitempty" mapstructure:"reducer"`

	// Probes are the registered health probes
	Probes []ActionConfig `yaml:"probes,omitempty" json:"probes,omitempty" mapstructure:"probes"`

	// Server configures the HTTP surface
	Server ServerConfig `yaml:"server,omitempty" json:"server,omitempty" mapstructure:"server"`
}

// DefaultsConfig contains default configuration values
type DefaultsConfig struct {
	// RetryCount is the retry bound, negative values are clamped to 0
	RetryCount int `yaml:"retryCount" json:"retryCount" mapstructure:"retryCount"`

	// AsyncRetry selects fire-and-forget retries
	AsyncRetry bool `yaml:"asyncRetry" json:"asyncRetry" mapstructure:"asyncRetry"`

	// ConcurrencyLevel bounds probe batches: <= 0 unbounded, 1 serial, N batches
	ConcurrencyLevel int `yaml:"concurrencyLevel" json:"concurrencyLevel" mapstructure:"concurrencyLevel"`

	// BlockingWorkers is the size of the blocking worker pool
	BlockingWorkers int `yaml:"blockingWorkers" json:"blockingWorkers" mapstructure:"blockingWorkers"`

	// OutputFormat is the default output format (table, json, yaml, text)
	OutputFormat string `yaml:"outputFormat" json:"outputFormat" mapstructure:"outputFormat"`

	// NoColor disables colored output
	NoColor bool `yaml:"noColor,omitempty" json:"noColor,omitempty" mapstructure:"noColor"`
}

// ActionConfig describes one action or probe
type ActionConfig struct {
	// Name is the key the result is stored under
	Name string `yaml:"name" json:"name" mapstructure:"name"`

	// Kind selects the implementation (sleep, fail, flaky, http, kubernetes)
	Kind string `yaml:"kind" json:"kind" mapstructure:"kind"`

	// Duration is the sleep time for sleep actions and the request timeout
	// for http and kubernetes actions
	Duration time.Duration `yaml:"duration,omitempty" json:"duration,omitempty" mapstructure:"duration"`

	// Message is the failure message of fail and flaky actions
	Message string `yaml:"message,omitempty" json:"message,omitempty" mapstructure:"message"`

	// Failures is how many invocations a flaky action fails before succeeding
	Failures int `yaml:"failures,omitempty" json:"failures,omitempty" mapstructure:"failures"`

	// URL is the target of http actions
	URL string `yaml:"url,omitempty" json:"url,omitempty" mapstructure:"url"`

	// Context is the kubeconfig context of kubernetes actions, empty for current
	Context string `yaml:"context,omitempty" json:"context,omitempty" mapstructure:"context"`

	// Blocking runs the action on the blocking worker pool
	Blocking bool `yaml:"blocking,omitempty" json:"blocking,omitempty" mapstructure:"blocking"`
}

// ReducerConfig describes the fan-in reducer
type ReducerConfig struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty" mapstructure:"name"`
	Kind string `yaml:"kind,omitempty" json:"kind,omitempty" mapstructure:"kind"`
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	// Addr is the listen address
	Addr string `yaml:"addr,omitempty" json:"addr,omitempty" mapstructure:"addr"`

	// ShutdownTimeout bounds graceful shutdown, including detached retries
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout,omitempty" json:"shutdownTimeout,omitempty" mapstructure:"shutdownTimeout"`
}
