// Package catalog builds concrete actions, probes and reducers from
// configuration entries.
//
// Supported kinds:
//
//   - sleep: blocks for the configured duration then succeeds
//   - fail: always fails with the configured message
//   - flaky: fails the first N invocations, then succeeds
//   - http: GET against a URL, any 2xx status is a success
//   - kubernetes: asks a cluster for its server version through a kubeconfig context
//
// When no actions or probes are configured the demo set is used.
package catalog
