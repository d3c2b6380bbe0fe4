package ratelimit

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix scopes the rate limit environment variables, e.g. SYMTRAIN_RATE_LIMIT_ENABLED
const EnvPrefix = "SYMTRAIN_RATE_LIMIT"

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path; a trailing "/" matches by prefix
	Method string        // HTTP method
	Limit  int           // Maximum requests per window, 0 means unlimited
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	// IdleTTL is how long an unused bucket survives cleanup
	IdleTTL         time.Duration
	Allowlist       map[string]bool
	Blocklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// DefaultConfig returns an enabled configuration with the standard endpoint limits
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Allowlist:       map[string]bool{},
		Blocklist:       map[string]bool{},
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// LoadConfig reads SYMTRAIN_RATE_LIMIT_* overrides on top of DefaultConfig.
func LoadConfig() *Config {
	def := DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("enabled", def.Enabled)
	v.SetDefault("default_limit", def.DefaultLimit)
	v.SetDefault("default_window", def.DefaultWindow)
	v.SetDefault("cleanup_interval", def.CleanupInterval)
	v.SetDefault("idle_ttl", def.IdleTTL)
	v.SetDefault("allowlist", "")
	v.SetDefault("blocklist", "")

	if !v.GetBool("enabled") {
		return &Config{Enabled: false}
	}

	def.DefaultLimit = v.GetInt("default_limit")
	def.DefaultWindow = v.GetDuration("default_window")
	def.CleanupInterval = v.GetDuration("cleanup_interval")
	def.IdleTTL = v.GetDuration("idle_ttl")
	def.Allowlist = parseIPList(v.GetString("allowlist"))
	def.Blocklist = parseIPList(v.GetString("blocklist"))
	return def
}

// DefaultEndpointConfigs returns the per-endpoint limits. Generation calls the
// LLM several times per request and is limited hardest; mapping is pure CPU.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/generate", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/generate/stream", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/report", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/map", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/runs/", Method: "GET", Limit: 300, Window: time.Minute, Burst: 30},
	}
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
