package ratelimit

import (
	"fmt"
	"net/netip"
	"strings"
	"time"
)

// EndpointConfig is the budget of one route. A Path ending in "/" covers every
// path below it; an empty Method matches any method.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	// Burst defaults to Limit.
	Burst int
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	// IdleTTL is how long an unused client limiter is kept.
	IdleTTL         time.Duration
	Whitelist       IPSet
	Blacklist       IPSet
	EndpointConfigs []EndpointConfig
}

// DefaultConfig allows 1000 requests a minute per client, with a tighter
// budget on profiling since each request issues several model calls.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		EndpointConfigs: []EndpointConfig{
			{Path: "/profilling", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		},
	}
}

// IPSet matches client addresses against single IPs and CIDR prefixes.
type IPSet []netip.Prefix

// ParseIPList parses a comma-separated list such as "10.0.0.1, 192.168.0.0/16".
// Blank items are skipped.
func ParseIPList(list string) (IPSet, error) {
	var set IPSet
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if strings.Contains(item, "/") {
			p, err := netip.ParsePrefix(item)
			if err != nil {
				return nil, fmt.Errorf("invalid CIDR %q: %w", item, err)
			}
			set = append(set, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(item)
		if err != nil {
			return nil, fmt.Errorf("invalid IP %q: %w", item, err)
		}
		set = append(set, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
	}
	return set, nil
}

// Contains reports whether client, an IP string, falls in the set.
// Clients that are not IPs never match.
func (s IPSet) Contains(client string) bool {
	if len(s) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(client)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range s {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
