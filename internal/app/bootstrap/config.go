// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/grouppages/internal/app/system/ogmarkup"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// envPrefix is the environment variable prefix for app keys.
const envPrefix = "GROUPPAGES"

// appConfigKeys defines the configuration keys for the group pages app.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: GROUPPAGES_MONGO_URI, GROUPPAGES_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "grouppages", Desc: "MongoDB database name"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "grouppages-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "csrf_key", Default: "dev-only-csrf-key-0123456789ABCD", Desc: "32-byte CSRF authentication key"},

	// Membership fragment
	{Name: "blocked_policy", Default: string(ogmarkup.BlockedSuppress), Desc: "Blocked members: 'suppress' (render nothing) or 'ignore' (treat as non-members)"},
	{Name: "subscribe_mode", Default: string(ogmarkup.SubscribeDistinct), Desc: "Subscribe link classes: 'distinct' or 'collapsed'"},

	{Name: "site_timezone", Default: "UTC", Desc: "IANA time zone for group page dates"},
	{Name: "label_cache_ttl", Default: "5m", Desc: "How long node type labels are cached (0 disables)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges, in order of precedence,
// flags > env > files > defaults. Policy and time zone strings are parsed
// here so ValidateConfig and the handlers see typed values.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, envPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg, err := buildAppConfig(appValues.String, appValues.Duration)
	if err != nil {
		return nil, AppConfig{}, err
	}
	return coreCfg, appCfg, nil
}

// buildAppConfig turns raw key lookups into an AppConfig.
func buildAppConfig(str func(string) string, dur func(string, time.Duration) time.Duration) (AppConfig, error) {
	blocked, err := ogmarkup.ParseBlockedPolicy(str("blocked_policy"))
	if err != nil {
		return AppConfig{}, err
	}
	mode, err := ogmarkup.ParseSubscribeMode(str("subscribe_mode"))
	if err != nil {
		return AppConfig{}, err
	}
	tz := str("site_timezone")
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return AppConfig{}, fmt.Errorf("site_timezone %q: %w", tz, err)
	}

	return AppConfig{
		MongoURI:      str("mongo_uri"),
		MongoDatabase: str("mongo_database"),
		SessionKey:    str("session_key"),
		SessionName:   str("session_name"),
		SessionDomain: str("session_domain"),
		CSRFKey:       str("csrf_key"),
		BlockedPolicy: blocked,
		SubscribeMode: mode,
		SiteLocation:  loc,
		LabelCacheTTL: dur("label_cache_ttl", 5*time.Minute),
	}, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI is checked before any connection attempt. The CSRF key
// must be exactly 32 bytes for gorilla/csrf.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database is required")
	}
	if len(appCfg.CSRFKey) != 32 {
		return fmt.Errorf("csrf_key must be 32 bytes, got %d", len(appCfg.CSRFKey))
	}
	if coreCfg != nil && coreCfg.Env == "prod" && appCfg.SessionKey == appConfigKeys[2].Default {
		return fmt.Errorf("session_key must be changed in production")
	}
	return nil
}
