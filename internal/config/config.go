// Package config loads and validates site-resolver configuration via Viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/site-resolver/internal/discover"
	"github.com/pdiddy/site-resolver/internal/httputil"
	"github.com/pdiddy/site-resolver/pkg/types"
)

// EnvPrefix namespaces environment overrides, e.g. SITE_RESOLVER_RUN_INPUT.
const EnvPrefix = "SITE_RESOLVER"

// Configure applies the environment conventions and defaults to v.
func Configure(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
}

// Load unmarshals the settings held by v and validates them. Callers are
// expected to have read any config file and bound flags beforehand.
func Load(v *viper.Viper) (types.Config, error) {
	setDefaults(v)

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// LoadFile reads path (any format Viper understands) on top of the
// defaults and environment.
func LoadFile(path string) (types.Config, error) {
	v := viper.New()
	Configure(v)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return Load(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("run.input", "nbfcData.xlsx")
	v.SetDefault("run.output", "output.xlsx")
	v.SetDefault("run.sheet", "")
	v.SetDefault("run.save_every", 10)
	v.SetDefault("run.delay", time.Second)
	v.SetDefault("search.endpoint", discover.DefaultEndpoint)
	v.SetDefault("search.query_template", discover.DefaultQueryTemplate)
	v.SetDefault("search.max_candidates", discover.DefaultMaxCandidates)
	v.SetDefault("search.redirect_prefix", discover.DefaultRedirectPrefix)
	v.SetDefault("search.user_agent", httputil.DefaultUserAgent)
	v.SetDefault("search.timeout", time.Duration(0))
	v.SetDefault("verify.timeout", 5*time.Second)
	v.SetDefault("verify.user_agent", httputil.DefaultUserAgent)
	v.SetDefault("verify.keywords", []string{"official", "company"})
	v.SetDefault("journal.path", "")
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Validate enforces required values and reasonable limits.
func Validate(c types.Config) error {
	if strings.TrimSpace(c.Run.InputPath) == "" {
		return fmt.Errorf("run.input must be set")
	}
	if strings.TrimSpace(c.Run.OutputPath) == "" {
		return fmt.Errorf("run.output must be set")
	}
	if c.Run.SaveEvery <= 0 {
		return fmt.Errorf("run.save_every must be > 0")
	}
	if c.Run.Delay < 0 {
		return fmt.Errorf("run.delay must be >= 0")
	}
	if !strings.Contains(c.Search.QueryTemplate, discover.NamePlaceholder) {
		return fmt.Errorf("search.query_template must contain %s", discover.NamePlaceholder)
	}
	if c.Search.MaxCandidates <= 0 {
		return fmt.Errorf("search.max_candidates must be > 0")
	}
	if c.Search.Timeout < 0 {
		return fmt.Errorf("search.timeout must be >= 0")
	}
	u, err := url.Parse(c.Search.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("search.endpoint must be an absolute http(s) URL, got %q", c.Search.Endpoint)
	}
	if c.Verify.Timeout <= 0 {
		return fmt.Errorf("verify.timeout must be > 0")
	}
	if !hasKeyword(c.Verify.Keywords) {
		return fmt.Errorf("verify.keywords must list at least one keyword")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

func hasKeyword(keywords []string) bool {
	for _, k := range keywords {
		if strings.TrimSpace(k) != "" {
			return true
		}
	}
	return false
}
