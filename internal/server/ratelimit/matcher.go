package ratelimit

import "strings"

var unlimited = []string{"/health"}

// MatchEndpoint returns the rule for a request, or nil when the global
// default applies. Exact rules win over prefix rules ("/jobs/" covers
// "/jobs/{id}/candidacy"); among prefix rules the longest one wins.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	for _, p := range unlimited {
		if path == p && method == "GET" {
			return &EndpointConfig{Path: p, Method: method}
		}
	}

	var best *EndpointConfig
	for i := range configs {
		rule := &configs[i]
		if rule.Method != method {
			continue
		}
		if rule.Path == path {
			return rule
		}
		if !strings.HasSuffix(rule.Path, "/") || !strings.HasPrefix(path, rule.Path) {
			continue
		}
		if best == nil || len(rule.Path) > len(best.Path) {
			best = rule
		}
	}
	return best
}
