// Package probe implements a single reachability check against one site.
// A probe always resolves to a CheckResult: malformed URLs, transport
// failures and timeouts become unreachable results with an error detail.
package probe
