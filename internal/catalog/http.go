package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aryankumar/sep/internal/action"
	"github.com/aryankumar/sep/internal/config"
)

// httpAction issues a GET and treats any 2xx status as success. Other
// statuses become failures carrying the status code.
type httpAction struct {
	def    config.ActionConfig
	client *http.Client
	logger *slog.Logger
}

func (a *httpAction) Name() string { return a.def.Name }

func (a *httpAction) Data() any { return a.def.URL }

func (a *httpAction) Exec(ctx context.Context) (action.Result, error) {
	timeout := a.def.Duration
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, a.def.URL, nil)
	if err != nil {
		return action.Result{}, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return action.Result{}, fmt.Errorf("request to %s failed: %w", a.def.URL, err)
	}
	defer resp.Body.Close()
	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	a.logger.Debug("http action completed", "action", a.def.Name, "url", a.def.URL, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return action.Failure(strconv.Itoa(resp.StatusCode), resp.Status), nil
	}
	return action.SuccessWith(resp.Status, resp.StatusCode), nil
}
