// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/stratacms/internal/app/system/apistats"
	"github.com/dalemusser/stratacms/internal/app/system/auth"
	"github.com/dalemusser/stratacms/internal/app/system/respcache"
	"github.com/dalemusser/stratacms/internal/app/system/tasks"
	"github.com/dalemusser/stratacms/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "STRATACMS"

// defaultJWTSecret is rejected in prod by auth.IsWeakSecret.
const defaultJWTSecret = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: STRATACMS_MONGO_URI, STRATACMS_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "stratacms", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "timeout_ping", Default: "2s", Desc: "Deadline for health probe pings"},
	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-document operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for lists and menu/footer resolution"},
	{Name: "timeout_long", Default: "30s", Desc: "Deadline for background jobs"},

	{Name: "jwt_secret", Default: defaultJWTSecret, Desc: "HS256 secret for bearer tokens (must be strong in production)"},
	{Name: "admin_roles", Default: "admin,super-admin", Desc: "Comma-separated roles allowed on admin routes"},

	{Name: "redis_url", Default: "", Desc: "Redis URL for the public response cache (blank disables caching)"},
	{Name: "cache_ttl", Default: "60s", Desc: "Lifetime of cached public responses"},

	{Name: "api_ledger_enabled", Default: true, Desc: "Record failed API requests in the api_ledger collection"},
	{Name: "api_ledger_retention", Default: "720h", Desc: "How long ledger entries are kept"},

	{Name: "api_stats_enabled", Default: true, Desc: "Count requests per module in api_stats"},
	{Name: "api_stats_bucket", Default: "1h", Desc: "API stats bucket width (e.g., 15m, 1h, 24h)"},
	{Name: "api_stats_retention", Default: "2160h", Desc: "How long API stats buckets are kept"},

	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 587, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@localhost", Desc: "Sender address for outgoing mail"},
	{Name: "mail_from_name", Default: "StrataCMS", Desc: "Sender display name"},
	{Name: "moderation_notify_to", Default: "", Desc: "Comma-separated addresses told about new comments (blank disables)"},
	{Name: "moderation_admin_url", Default: "", Desc: "Admin page linked from moderation emails"},

	{Name: "storefront_base_path", Default: "/page", Desc: "Path prefix for storefront static page links"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// Precedence is flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		Timeouts: timeouts.Config{
			Ping:   appValues.Duration("timeout_ping", timeouts.DefaultPing),
			Short:  appValues.Duration("timeout_short", timeouts.DefaultShort),
			Medium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
			Long:   appValues.Duration("timeout_long", timeouts.DefaultLong),
		},

		JWTSecret:  appValues.String("jwt_secret"),
		AdminRoles: splitList(appValues.String("admin_roles")),

		RedisURL: appValues.String("redis_url"),
		CacheTTL: appValues.Duration("cache_ttl", respcache.DefaultTTL),

		APILedgerEnabled:   appValues.Bool("api_ledger_enabled"),
		APILedgerRetention: appValues.Duration("api_ledger_retention", tasks.DefaultLedgerRetention),

		APIStatsEnabled:   appValues.Bool("api_stats_enabled"),
		APIStatsBucket:    appValues.Duration("api_stats_bucket", apistats.DefaultBucket),
		APIStatsRetention: appValues.Duration("api_stats_retention", tasks.DefaultStatsRetention),

		MailSMTPHost:       appValues.String("mail_smtp_host"),
		MailSMTPPort:       appValues.Int("mail_smtp_port"),
		MailSMTPUser:       appValues.String("mail_smtp_user"),
		MailSMTPPass:       appValues.String("mail_smtp_pass"),
		MailFrom:           appValues.String("mail_from"),
		MailFromName:       appValues.String("mail_from_name"),
		ModerationNotifyTo: splitList(appValues.String("moderation_notify_to")),
		ModerationAdminURL: appValues.String("moderation_admin_url"),

		StorefrontBasePath: appValues.String("storefront_base_path"),
	}

	// Applied here so every later hook sees the configured deadlines.
	timeouts.Configure(appCfg.Timeouts)

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.JWTSecret == "" {
		return errors.New("jwt_secret is required")
	}
	if coreCfg.Env == "prod" && auth.IsWeakSecret(appCfg.JWTSecret) {
		return errors.New("jwt_secret must be changed to a strong value in production")
	}
	if len(appCfg.AdminRoles) == 0 {
		return errors.New("admin_roles must name at least one role")
	}
	if appCfg.APIStatsEnabled && appCfg.APIStatsBucket < time.Minute {
		return fmt.Errorf("api_stats_bucket must be at least one minute, got %s", appCfg.APIStatsBucket)
	}
	if len(appCfg.ModerationNotifyTo) > 0 && (appCfg.MailSMTPHost == "" || appCfg.MailFrom == "") {
		return errors.New("moderation_notify_to requires mail_smtp_host and mail_from")
	}
	if !strings.HasPrefix(appCfg.StorefrontBasePath, "/") {
		return fmt.Errorf("storefront_base_path must start with '/': %q", appCfg.StorefrontBasePath)
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
