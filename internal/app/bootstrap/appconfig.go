// internal/app/bootstrap/appconfig.go
package bootstrap

import (
	"time"

	"github.com/dalemusser/stratacms/internal/app/system/timeouts"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers ports, TLS, logging, CORS and security headers.
// Everything specific to the CMS API lives here and is passed to every
// lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// Per-operation deadlines (see system/timeouts)
	Timeouts timeouts.Config

	// Bearer token verification
	JWTSecret  string   // HS256 secret shared with the token issuer
	AdminRoles []string // Roles allowed through admin routes (default: admin, super-admin)

	// Response cache (blank RedisURL disables caching)
	RedisURL string
	CacheTTL time.Duration

	// API error ledger
	APILedgerEnabled   bool
	APILedgerRetention time.Duration

	// Per-module request statistics
	APIStatsEnabled   bool
	APIStatsBucket    time.Duration
	APIStatsRetention time.Duration

	// SMTP for moderation emails (blank ModerationNotifyTo disables them)
	MailSMTPHost       string
	MailSMTPPort       int
	MailSMTPUser       string
	MailSMTPPass       string
	MailFrom           string
	MailFromName       string
	ModerationNotifyTo []string
	ModerationAdminURL string

	// Prefix for storefront links to static pages (default: /page)
	StorefrontBasePath string
}
