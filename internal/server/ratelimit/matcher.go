package ratelimit

import "strings"

// unlimitedPaths are never rate limited.
var unlimitedPaths = map[string]bool{
	"/health": true,
}

// MatchEndpoint returns the configuration governing a request, or nil when the
// default limit applies. An exact path match wins over a prefix match, where a
// configured path ending in "/" covers every path below it. An empty Method
// matches any method. Unlimited paths get a zero-limit configuration.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if unlimitedPaths[path] {
		return &EndpointConfig{Path: path, Method: method}
	}

	var prefix *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != "" && c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if prefix == nil && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			prefix = c
		}
	}
	return prefix
}
