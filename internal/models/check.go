package models

import "time"

// LatencyNotMeasured marks a result whose request never produced response headers.
const LatencyNotMeasured int64 = -1

// CheckResult is the outcome of probing one site at one instant.
type CheckResult struct {
	Site
	StatusCode int       `json:"status"`
	Reachable  bool      `json:"online"`
	LatencyMS  int64     `json:"responseTime"`
	ObservedAt time.Time `json:"timestamp"`
	Secure     bool      `json:"ssl"`
	Error      string    `json:"error,omitempty"`
}

// IsReachableStatus reports whether an HTTP status counts as reachable.
// 4xx and 5xx answers mean the target responded but is considered down.
func IsReachableStatus(code int) bool {
	return code >= 200 && code < 400
}

// CategoryCounts counts sites per category. Unknown categories go to Other.
type CategoryCounts struct {
	External int `json:"externo"`
	WHM      int `json:"whm"`
	API      int `json:"api"`
	CDN      int `json:"cdn"`
	Manual   int `json:"manual"`
	Other    int `json:"other"`
}

// PriorityCounts counts sites per priority. Unknown priorities go to Other.
type PriorityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Normal   int `json:"normal"`
	Low      int `json:"low"`
	Other    int `json:"other"`
}

// SiteStats describes the working set a cycle ran against.
type SiteStats struct {
	Total      int            `json:"total"`
	Manual     int            `json:"manual"`
	WHM        int            `json:"whm"`
	ByCategory CategoryCounts `json:"byCategory"`
	ByPriority PriorityCounts `json:"byPriority"`
}

// CheckCycle is one execution of the full working set. Results keep the
// working-set order.
type CheckCycle struct {
	ID         string        `json:"id,omitempty"`
	ObservedAt time.Time     `json:"timestamp"`
	Results    []CheckResult `json:"results"`
	Stats      SiteStats     `json:"stats"`
}

// Online returns the number of reachable results in the cycle.
func (c CheckCycle) Online() int {
	n := 0
	for _, r := range c.Results {
		if r.Reachable {
			n++
		}
	}
	return n
}

// Offline returns the unreachable results in working-set order.
func (c CheckCycle) Offline() []CheckResult {
	var out []CheckResult
	for _, r := range c.Results {
		if !r.Reachable {
			out = append(out, r)
		}
	}
	return out
}
