package catalog

import (
	"time"

	"github.com/aryankumar/sep/internal/config"
)

// DemoSleep is how long the demo sleep actions block
const DemoSleep = 3 * time.Second

// DemoActions returns the built-in action set: nine blocking sleeps and one
// action that always fails.
func DemoActions() []config.ActionConfig {
	sleep := func(name string) config.ActionConfig {
		return config.ActionConfig{Name: name, Kind: config.KindSleep, Duration: DemoSleep, Message: "data"}
	}

	return []config.ActionConfig{
		sleep("foo"),
		sleep("bar"),
		{Name: "buzz", Kind: config.KindFail, Message: DefaultFailMessage},
		sleep("quzz"),
		sleep("foo_1"),
		sleep("foo_2"),
		sleep("foo_3"),
		sleep("foo_4"),
		sleep("foo_5"),
		sleep("foo_6"),
	}
}

// DemoRetryAction returns an action that fails its first ten invocations.
// Build it once per request so every request starts a fresh counter.
func DemoRetryAction() config.ActionConfig {
	return config.ActionConfig{Name: "foo", Kind: config.KindFlaky, Failures: 10, Message: "FAILED EXECUTION"}
}

// DemoProbes returns the built-in probe set
func DemoProbes() []config.ActionConfig {
	return []config.ActionConfig{
		{Name: "foo", Kind: config.KindSleep, Duration: DemoSleep},
		{Name: "WithExceptionHealthCheck", Kind: config.KindFail, Message: "Promise did not return value. Just crashed"},
	}
}

// ActionsOrDemo returns the configured actions, or the demo set when none are configured
func ActionsOrDemo(cfg *config.SEPConfig) []config.ActionConfig {
	if cfg == nil || len(cfg.Actions) == 0 {
		return DemoActions()
	}
	return cfg.Actions
}

// ProbesOrDemo returns the configured probes, or the demo set when none are configured
func ProbesOrDemo(cfg *config.SEPConfig) []config.ActionConfig {
	if cfg == nil || len(cfg.Probes) == 0 {
		return DemoProbes()
	}
	return cfg.Probes
}
