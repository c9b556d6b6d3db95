// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	apistatsfeature "github.com/dalemusser/stratacms/internal/app/features/apistats"
	bannercollectionsfeature "github.com/dalemusser/stratacms/internal/app/features/bannercollections"
	bannercountdownsfeature "github.com/dalemusser/stratacms/internal/app/features/bannercountdowns"
	blogcommentsfeature "github.com/dalemusser/stratacms/internal/app/features/blogcomments"
	blogsfeature "github.com/dalemusser/stratacms/internal/app/features/blogs"
	errorsfeature "github.com/dalemusser/stratacms/internal/app/features/errors"
	footerfeature "github.com/dalemusser/stratacms/internal/app/features/footer"
	headermenufeature "github.com/dalemusser/stratacms/internal/app/features/headermenu"
	healthfeature "github.com/dalemusser/stratacms/internal/app/features/health"
	herobannersfeature "github.com/dalemusser/stratacms/internal/app/features/herobanners"
	ledgerfeature "github.com/dalemusser/stratacms/internal/app/features/ledger"
	staticpagesfeature "github.com/dalemusser/stratacms/internal/app/features/staticpages"
	apistatsstore "github.com/dalemusser/stratacms/internal/app/store/apistats"
	ledgerstore "github.com/dalemusser/stratacms/internal/app/store/ledger"
	"github.com/dalemusser/stratacms/internal/app/system/apistats"
	"github.com/dalemusser/stratacms/internal/app/system/auth"
	"github.com/dalemusser/stratacms/internal/app/system/ledger"
	"github.com/dalemusser/stratacms/internal/app/system/mailer"
	"github.com/dalemusser/stratacms/internal/app/system/respcache"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for the CMS API.
//
// Every route speaks the JSON envelope. Public storefront reads are open and
// some are cached in Redis; admin routes require a bearer token whose role is
// listed in admin_roles.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase
	verifier := auth.NewVerifier(appCfg.JWTSecret, appCfg.AdminRoles, logger)
	cache := respcache.New(deps.Redis, appCfg.CacheTTL, logger)
	errorsHandler := errorsfeature.NewHandler(logger)

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	r.Use(errorsHandler.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(chimw.Timeout(30 * time.Second))

	// CORS must run early to answer preflight requests.
	r.Use(middleware.CORSFromConfig(coreCfg))
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// The ledger assigns X-Request-ID and records failed requests.
	if appCfg.APILedgerEnabled {
		r.Use(ledger.Middleware(ledger.DefaultConfig(ledgerstore.New(db), logger)))
	} else {
		r.Use(chimw.RequestID)
	}

	// ─────────────────────────────────────────────────────────────────────────────
	// Health probes
	// ─────────────────────────────────────────────────────────────────────────────

	healthHandler := healthfeature.NewHandler(deps.MongoClient, cache, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountProbes(r, healthHandler)

	// Feature routers are counted per module when API stats are enabled.
	var stats *apistats.Recorder
	if appCfg.APIStatsEnabled {
		stats = apistats.NewRecorder(apistatsstore.New(db), logger, appCfg.APIStatsBucket)
	}
	mount := func(pattern, module string, h http.Handler) {
		r.Route(pattern, func(sr chi.Router) {
			sr.Use(stats.Middleware(module))
			sr.Mount("/", h)
		})
	}

	// ─────────────────────────────────────────────────────────────────────────────
	// Storefront content
	// ─────────────────────────────────────────────────────────────────────────────

	mount("/banner-collections", bannercollectionsfeature.CacheModule, bannercollectionsfeature.Routes(
		bannercollectionsfeature.NewHandler(db, logger), verifier, cache))
	mount("/banner-countdowns", "banner-countdowns", bannercountdownsfeature.Routes(
		bannercountdownsfeature.NewHandler(db, logger), verifier))
	mount("/hero-banners", herobannersfeature.CacheModule, herobannersfeature.Routes(
		herobannersfeature.NewHandler(db, logger), verifier, cache))

	mount("/blogs", blogsfeature.CacheModule, blogsfeature.Routes(
		blogsfeature.NewHandler(db, logger), verifier, cache))
	commentsHandler := blogcommentsfeature.NewHandler(db, logger)
	if len(appCfg.ModerationNotifyTo) > 0 {
		m := mailer.New(mailer.Config{
			Host:     appCfg.MailSMTPHost,
			Port:     appCfg.MailSMTPPort,
			User:     appCfg.MailSMTPUser,
			Pass:     appCfg.MailSMTPPass,
			From:     appCfg.MailFrom,
			FromName: appCfg.MailFromName,
		}, logger)
		commentsHandler.SetNotifier(mailer.NewModerationNotifier(m, appCfg.ModerationNotifyTo, appCfg.ModerationAdminURL, logger))
	}
	mount("/blog-comments", "blog-comments", blogcommentsfeature.Routes(commentsHandler, verifier))

	// Static page writes also purge the footer, whose legal links point at pages.
	mount("/static-pages", staticpagesfeature.CacheModule, staticpagesfeature.Routes(
		staticpagesfeature.NewHandler(db, logger), verifier, cache, footerfeature.CacheModule))

	// ─────────────────────────────────────────────────────────────────────────────
	// Site configuration singletons
	// ─────────────────────────────────────────────────────────────────────────────

	mount("/footer", footerfeature.CacheModule, footerfeature.Routes(
		footerfeature.NewHandler(db, appCfg.StorefrontBasePath, logger), verifier, cache))
	mount("/header-menu", headermenufeature.CacheModule, headermenufeature.Routes(
		headermenufeature.NewHandler(db, logger), verifier, cache))

	// ─────────────────────────────────────────────────────────────────────────────
	// Operations
	// ─────────────────────────────────────────────────────────────────────────────

	if appCfg.APILedgerEnabled {
		r.Mount("/admin/ledger", ledgerfeature.Routes(ledgerfeature.NewHandler(db, logger), verifier))
	}
	if appCfg.APIStatsEnabled {
		r.Mount("/admin/stats", apistatsfeature.Routes(apistatsfeature.NewHandler(db, logger), verifier))
	}

	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	logger.Info("routes mounted",
		zap.Bool("response_cache", cache.Enabled()),
		zap.Bool("api_ledger", appCfg.APILedgerEnabled),
		zap.Bool("api_stats", appCfg.APIStatsEnabled),
		zap.Bool("moderation_email", len(appCfg.ModerationNotifyTo) > 0),
		zap.Strings("admin_roles", appCfg.AdminRoles))

	return r, nil
}
