package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/aryankumar/sep/internal/action"
	"github.com/aryankumar/sep/internal/config"
	"github.com/aryankumar/sep/internal/util"
)

const (
	// DefaultFailMessage is used by fail and flaky actions without a message
	DefaultFailMessage = "CONTROLLED EXCEPTION"

	// DefaultRequestTimeout bounds http and kubernetes actions without a duration
	DefaultRequestTimeout = 5 * time.Second
)

// Catalog turns configuration entries into actions
type Catalog struct {
	logger     *slog.Logger
	httpClient *http.Client
	kubeconfig *config.KubeconfigLoader
}

// Option configures a Catalog
type Option func(*Catalog)

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient sets the client used by http actions
func WithHTTPClient(client *http.Client) Option {
	return func(c *Catalog) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithKubeconfig sets the loader used by kubernetes actions
func WithKubeconfig(loader *config.KubeconfigLoader) Option {
	return func(c *Catalog) {
		c.kubeconfig = loader
	}
}

// New creates a catalog
func New(opts ...Option) *Catalog {
	c := &Catalog{
		logger:     slog.Default(),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Build creates the action described by def
func (c *Catalog) Build(def config.ActionConfig) (action.Action, error) {
	if def.Name == "" {
		return nil, util.NewValidationError("name", nil, "name is required")
	}

	var a action.Action
	switch def.Kind {
	case config.KindSleep:
		// sleeping always ties up a goroutine, so it runs on the blocking pool
		return action.Blocking(sleepAction(def)), nil
	case config.KindFail:
		a = failAction(def)
	case config.KindFlaky:
		a = flakyAction(def)
	case config.KindHTTP:
		if def.URL == "" {
			return nil, util.NewValidationError("url", nil, "url is required for http actions")
		}
		a = &httpAction{def: def, client: c.httpClient, logger: c.logger}
	case config.KindKubernetes:
		kubeconfig := c.kubeconfig
		if kubeconfig == nil {
			kubeconfig = config.NewKubeconfigLoader("")
		}
		a = &kubernetesAction{def: def, kubeconfig: kubeconfig, logger: c.logger}
	default:
		return nil, util.WrapActionError(def.Name, fmt.Errorf("%q: %w", def.Kind, util.ErrUnknownKind))
	}

	if def.Blocking {
		a = action.Blocking(a)
	}
	return a, nil
}

// BuildAll creates every action in defs, reporting all failures together
func (c *Catalog) BuildAll(defs []config.ActionConfig) ([]action.Action, error) {
	actions := make([]action.Action, 0, len(defs))
	var errs util.MultiError

	for _, def := range defs {
		a, err := c.Build(def)
		if err != nil {
			errs.Add(err)
			continue
		}
		actions = append(actions, a)
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	c.logger.Debug("built actions", "count", len(actions))
	return actions, nil
}

// Reducer creates the reducer described by cfg
func (c *Catalog) Reducer(cfg config.ReducerConfig) (action.Reducer, error) {
	name := cfg.Name
	if name == "" {
		name = config.DefaultReducerName
	}

	switch cfg.Kind {
	case "", config.ReducerCount:
		return CountReducer(name), nil
	default:
		return nil, fmt.Errorf("reducer %q kind %q: %w", name, cfg.Kind, util.ErrUnknownKind)
	}
}

func sleepAction(def config.ActionConfig) action.Action {
	return action.NewWithData(def.Name, def.Message, func(ctx context.Context) (action.Result, error) {
		time.Sleep(def.Duration)
		if def.Message == "" {
			return action.Success(), nil
		}
		return action.SuccessData(def.Message), nil
	})
}

func failAction(def config.ActionConfig) action.Action {
	msg := def.Message
	if msg == "" {
		msg = DefaultFailMessage
	}
	return action.NewWithData(def.Name, def.Message, func(ctx context.Context) (action.Result, error) {
		if def.Duration > 0 {
			time.Sleep(def.Duration)
		}
		return action.Result{}, errors.New(msg)
	})
}

// flakyAction fails its first def.Failures invocations. The counter lives as
// long as the action, so retries of the same action eventually succeed.
func flakyAction(def config.ActionConfig) action.Action {
	msg := def.Message
	if msg == "" {
		msg = DefaultFailMessage
	}

	var calls atomic.Int64
	return action.NewWithData(def.Name, def.Message, func(ctx context.Context) (action.Result, error) {
		n := calls.Add(1)
		if n <= int64(def.Failures) {
			return action.Result{}, fmt.Errorf("%s (invocation %d of %d failing)", msg, n, def.Failures)
		}
		return action.SuccessMessage(fmt.Sprintf("succeeded after %d failures", def.Failures)), nil
	})
}

// CountReducer counts successful and failed results into a single COUNTED entry
func CountReducer(name string) action.Reducer {
	return action.NewReducer(name, func(ctx context.Context, in *action.ResultSet) (*action.ResultSet, error) {
		msg := fmt.Sprintf("Succeeded: %d Failed: %d", action.CountSuccessful(in), action.CountFailed(in))
		return action.Single(CountedKey, action.SuccessMessage(msg)), nil
	})
}

// CountedKey is the result name produced by CountReducer
const CountedKey = "COUNTED"
