// internal/app/bootstrap/appconfig.go
package bootstrap

import (
	"time"

	"github.com/dalemusser/grouppages/internal/app/system/ogmarkup"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// Values come from environment variables (GROUPPAGES_*), configuration
// files, or command-line flags, loaded in LoadConfig. Framework settings
// such as ports, TLS and log level live in WAFFLE's CoreConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI      string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase string // Database name within MongoDB

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: grouppages-session)
	SessionDomain string // Cookie domain (blank means current host)

	// CSRFKey authenticates the CSRF token cookie. Must be 32 bytes.
	CSRFKey string

	// Membership fragment behaviour
	BlockedPolicy ogmarkup.BlockedPolicy
	SubscribeMode ogmarkup.SubscribeMode

	// SiteLocation is the time zone used for the group page date line.
	SiteLocation *time.Location

	// LabelCacheTTL bounds how long node type labels are cached.
	LabelCacheTTL time.Duration
}
