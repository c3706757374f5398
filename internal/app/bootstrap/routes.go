// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	errorsfeature "github.com/dalemusser/grouppages/internal/app/features/errors"
	grouppagefeature "github.com/dalemusser/grouppages/internal/app/features/grouppage"
	healthfeature "github.com/dalemusser/grouppages/internal/app/features/health"
	homefeature "github.com/dalemusser/grouppages/internal/app/features/home"
	loginfeature "github.com/dalemusser/grouppages/internal/app/features/login"
	logoutfeature "github.com/dalemusser/grouppages/internal/app/features/logout"
	ogsubscribefeature "github.com/dalemusser/grouppages/internal/app/features/ogsubscribe"
	styleguidefeature "github.com/dalemusser/grouppages/internal/app/features/styleguide"
	membershipstore "github.com/dalemusser/grouppages/internal/app/store/memberships"
	nodetypestore "github.com/dalemusser/grouppages/internal/app/store/nodetypes"
	"github.com/dalemusser/grouppages/internal/app/system/auth"
	"github.com/dalemusser/grouppages/internal/app/system/ogaccess"
	"github.com/dalemusser/grouppages/internal/app/system/ogmarkup"
	"github.com/dalemusser/grouppages/internal/app/system/ogroutes"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. It boots the template engine, applies
// session and CSRF middleware, and mounts the feature routers: group pages,
// the subscribe workflow, login/logout, the style guide, and health.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	db := deps.MongoDatabase
	routes := ogroutes.New()

	selector := ogmarkup.New(membershipstore.New(db), ogaccess.New(db), routes, ogmarkup.Options{
		Blocked:   appCfg.BlockedPolicy,
		Subscribe: appCfg.SubscribeMode,
	})
	builder := grouppagefeature.NewBuilder(nodetypestore.New(db, appCfg.LabelCacheTTL), selector, appCfg.SiteLocation)

	errorsHandler := errorsfeature.NewHandler()

	r := chi.NewRouter()
	r.NotFound(errorsHandler.NotFound)

	// Loads the SessionUser into context when a valid session cookie is present.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets. Style guide media is embedded in its feature package.
	r.Handle(styleguidefeature.MediaPath+"*", styleguidefeature.MediaHandler())
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Everything below renders HTML and may carry forms.
	csrfOpts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.FieldName("csrf_token"),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("csrf check failed", zap.Error(csrf.FailureReason(r)), zap.String("path", r.URL.Path))
			errorsfeature.RenderForbidden(w, r, "Your form expired. Please go back and try again.", "/")
		})),
	}
	protect := csrf.Protect([]byte(appCfg.CSRFKey), csrfOpts...)

	r.Group(func(pr chi.Router) {
		if !secure {
			pr.Use(plaintextRequests)
		}
		pr.Use(protect)

		homeHandler := homefeature.NewHandler(db, routes, errLog, logger)
		pr.Mount("/", homefeature.Routes(homeHandler))

		grouppagefeature.MountRoutes(pr, grouppagefeature.NewHandler(db, builder, errLog, logger))
		subscribeHandler := ogsubscribefeature.NewHandler(db, routes, errLog, logger)
		subscribeHandler.Blocked = appCfg.BlockedPolicy
		ogsubscribefeature.MountRoutes(pr, subscribeHandler)

		// Authentication
		loginHandler := loginfeature.NewHandler(db, sessionMgr, errLog, logger)
		pr.Mount(ogroutes.Patterns[ogroutes.Login], loginfeature.Routes(loginHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
		pr.With(auth.RequireSignedIn(ogroutes.Patterns[ogroutes.Login])).
			Mount("/user/logout", logoutfeature.Routes(logoutHandler))

		styleHandler := styleguidefeature.NewHandler(logger)
		pr.Mount("/style-guide", styleguidefeature.Routes(styleHandler))

		pr.Get("/forbidden", errorsHandler.Forbidden)
	})

	return r, nil
}

// plaintextRequests marks requests as plain HTTP so gorilla/csrf skips the
// Referer check that only applies to TLS.
func plaintextRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
